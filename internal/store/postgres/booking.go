package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gosuda/reserva/internal/domain"
)

type BookingRepo struct {
	pool *pgxpool.Pool
}

func NewBookingRepo(pool *pgxpool.Pool) *BookingRepo {
	return &BookingRepo{pool: pool}
}

func (r *BookingRepo) ListForDay(ctx context.Context, tenantID domain.TenantID, date time.Time, statuses []domain.BookingStatus) ([]*domain.Booking, error) {
	if tenantID == "" {
		return nil, fmt.Errorf("bookingRepo.ListForDay: %w", domain.ErrTenantIDRequired)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, tenant_id, booking_date, start_time, duration_minutes, status,
		        customer_name, service_name, created_at, updated_at
		 FROM bookings
		 WHERE tenant_id = $1 AND booking_date = $2 AND status = ANY($3)
		 ORDER BY start_time`,
		tenantID, date, statuses,
	)
	if err != nil {
		return nil, fmt.Errorf("bookingRepo.ListForDay: %w", err)
	}
	defer rows.Close()

	var bookings []*domain.Booking
	for rows.Next() {
		var b domain.Booking

		err = rows.Scan(
			&b.ID, &b.TenantID, &b.Date, &b.StartTime, &b.DurationMinutes,
			&b.Status, &b.CustomerName, &b.ServiceName, &b.CreatedAt, &b.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("bookingRepo.ListForDay: scan: %w", err)
		}

		bookings = append(bookings, &b)
	}
	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("bookingRepo.ListForDay: rows: %w", err)
	}

	return bookings, nil
}
