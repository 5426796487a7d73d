package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gosuda/reserva/internal/domain"
)

type TenantRepo struct {
	pool *pgxpool.Pool
}

func NewTenantRepo(pool *pgxpool.Pool) *TenantRepo {
	return &TenantRepo{pool: pool}
}

const tenantColumns = `id, name, domain, phone_numbers, status, frozen, plan, features, limits, settings, created_at, updated_at`

func scanTenant(row pgx.Row) (*domain.Tenant, error) {
	var t domain.Tenant
	err := row.Scan(
		&t.ID, &t.Name, &t.Domain, &t.PhoneNumbers, &t.Status, &t.Frozen,
		&t.Plan, &t.Features, &t.Limits, &t.Settings, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TenantRepo) ListByStatus(ctx context.Context, statuses ...domain.TenantStatus) ([]*domain.Tenant, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+tenantColumns+`
		 FROM tenants WHERE status = ANY($1)
		 ORDER BY created_at`,
		statuses,
	)
	if err != nil {
		return nil, fmt.Errorf("tenantRepo.ListByStatus: %w", err)
	}
	defer rows.Close()

	var tenants []*domain.Tenant
	for rows.Next() {
		t, err := scanTenant(rows)
		if err != nil {
			return nil, fmt.Errorf("tenantRepo.ListByStatus: scan: %w", err)
		}
		tenants = append(tenants, t)
	}
	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("tenantRepo.ListByStatus: rows: %w", err)
	}

	return tenants, nil
}

func (r *TenantRepo) GetByID(ctx context.Context, id domain.TenantID) (*domain.Tenant, error) {
	t, err := scanTenant(r.pool.QueryRow(ctx,
		`SELECT `+tenantColumns+` FROM tenants WHERE id = $1`,
		id,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("tenantRepo.GetByID %q: %w", id, domain.ErrTenantNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("tenantRepo.GetByID: %w", err)
	}

	return t, nil
}

func (r *TenantRepo) GetByDomain(ctx context.Context, dom string) (*domain.Tenant, error) {
	t, err := scanTenant(r.pool.QueryRow(ctx,
		`SELECT `+tenantColumns+`
		 FROM tenants WHERE domain = $1 OR domain LIKE '%' || $1
		 ORDER BY (domain = $1) DESC
		 LIMIT 1`,
		dom,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("tenantRepo.GetByDomain %q: %w", dom, domain.ErrTenantNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("tenantRepo.GetByDomain: %w", err)
	}

	return t, nil
}

func (r *TenantRepo) GetByPhone(ctx context.Context, phone string) (*domain.Tenant, error) {
	// Match on digit suffix so "+49 30 1234567" and "301234567" resolve alike.
	t, err := scanTenant(r.pool.QueryRow(ctx,
		`SELECT `+tenantColumns+`
		 FROM tenants
		 WHERE EXISTS (
			SELECT 1 FROM unnest(phone_numbers) AS pn
			WHERE regexp_replace(pn, '\D', '', 'g') LIKE '%' || $1
		 )
		 LIMIT 1`,
		phone,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("tenantRepo.GetByPhone %q: %w", phone, domain.ErrTenantNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("tenantRepo.GetByPhone: %w", err)
	}

	return t, nil
}

func (r *TenantRepo) ListWeeklyHours(ctx context.Context, id domain.TenantID) ([]*domain.WeeklyHoursRow, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, tenant_id, weekday, open_time, close_time, active
		 FROM weekly_hours WHERE tenant_id = $1
		 ORDER BY weekday`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("tenantRepo.ListWeeklyHours: %w", err)
	}
	defer rows.Close()

	var hours []*domain.WeeklyHoursRow
	for rows.Next() {
		var h domain.WeeklyHoursRow

		err = rows.Scan(&h.ID, &h.TenantID, &h.Weekday, &h.Open, &h.Close, &h.Active)
		if err != nil {
			return nil, fmt.Errorf("tenantRepo.ListWeeklyHours: scan: %w", err)
		}

		hours = append(hours, &h)
	}
	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("tenantRepo.ListWeeklyHours: rows: %w", err)
	}

	return hours, nil
}
