package domain

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingRequested      BookingStatus = "requested"
	BookingPending        BookingStatus = "pending"
	BookingPendingPayment BookingStatus = "pending_payment"
	BookingConfirmed      BookingStatus = "confirmed"
	BookingCompleted      BookingStatus = "completed"
	BookingCancelled      BookingStatus = "cancelled"
	BookingNoShow         BookingStatus = "no_show"
)

// BlockingStatuses are the lifecycle states that reserve a time slot against
// new conflicting bookings. Terminal states never block.
var BlockingStatuses = []BookingStatus{
	BookingRequested,
	BookingPending,
	BookingPendingPayment,
	BookingConfirmed,
}

func (s BookingStatus) Blocks() bool {
	return slices.Contains(BlockingStatuses, s)
}

type Booking struct {
	ID              uuid.UUID
	TenantID        TenantID
	Date            time.Time // date component only
	StartTime       string    // "HH:MM"
	DurationMinutes int
	Status          BookingStatus
	CustomerName    string
	ServiceName     string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Service is the bookable offering a booking refers to.
type Service struct {
	ID              uuid.UUID
	TenantID        TenantID
	Name            string
	DurationMinutes int
	Active          bool
}

type BookingRepository interface {
	// ListForDay returns a tenant's bookings on the given date whose status
	// is in statuses. Implementations must treat an empty tenant id as an
	// error, never as a cross-tenant scan.
	ListForDay(ctx context.Context, tenantID TenantID, date time.Time, statuses []BookingStatus) ([]*Booking, error)
}
