package domain

import (
	"context"
	"slices"
	"time"
)

// TenantID is a stable slug-like identifier ("bella-salon").
type TenantID string

func (id TenantID) String() string { return string(id) }

type TenantStatus string

const (
	TenantActive    TenantStatus = "active"
	TenantPending   TenantStatus = "pending"
	TenantSuspended TenantStatus = "suspended"
)

func (s TenantStatus) IsValid() bool {
	return slices.Contains([]TenantStatus{TenantActive, TenantPending, TenantSuspended}, s)
}

// ResolvableStatuses are the statuses the resolution cache loads. Suspended
// tenants are deliberately excluded so stale requests for them fail closed.
var ResolvableStatuses = []TenantStatus{TenantActive, TenantPending}

type Tenant struct {
	ID           TenantID
	Name         string
	Domain       string
	PhoneNumbers []string
	Status       TenantStatus
	Frozen       bool
	Plan         string
	Features     map[string]bool
	Limits       map[string]int
	Settings     map[string]any
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (t *Tenant) HasFeature(code string) bool {
	return t.Features[code]
}

type TenantRepository interface {
	ListByStatus(ctx context.Context, statuses ...TenantStatus) ([]*Tenant, error)
	GetByID(ctx context.Context, id TenantID) (*Tenant, error)
	GetByDomain(ctx context.Context, domain string) (*Tenant, error)
	GetByPhone(ctx context.Context, phone string) (*Tenant, error)
	ListWeeklyHours(ctx context.Context, id TenantID) ([]*WeeklyHoursRow, error)
}
