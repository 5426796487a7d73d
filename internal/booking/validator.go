package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/gosuda/reserva/internal/domain"
	"github.com/gosuda/reserva/internal/tenant"
)

// Request is a prospective booking to validate.
type Request struct {
	TenantID        domain.TenantID
	Date            time.Time
	StartTime       string
	DurationMinutes int
}

// Result reports whether a booking is legal for its tenant. Errors holds
// every violated rule in human-readable form; it is empty iff Valid.
type Result struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

func invalid(msgs ...string) Result {
	return Result{Errors: msgs}
}

// Validator applies a tenant's business-hour and activity rules to a
// prospective booking. Conflicts with other bookings are the Detector's job.
type Validator struct {
	loader *tenant.Loader
}

func NewValidator(loader *tenant.Loader) *Validator {
	return &Validator{loader: loader}
}

// Validate loads the tenant context through the strict path and applies the
// rule set. Resolution failures propagate; rule violations do not, they come
// back in the Result.
func (v *Validator) Validate(ctx context.Context, req Request, svc *domain.Service) (Result, error) {
	tc, err := v.loader.Load(ctx, req.TenantID)
	if err != nil {
		return Result{}, fmt.Errorf("booking.Validator.Validate: %w", err)
	}

	return ValidateWithContext(tc, req, svc), nil
}

// ValidateWithContext applies the ordered rule set against an already loaded
// tenant context, accumulating every violated rule. Inactive and frozen
// tenants short-circuit: they make every later check moot.
func ValidateWithContext(tc *tenant.Context, req Request, svc *domain.Service) Result {
	if !tc.Active {
		return invalid("business account is not active")
	}
	if tc.Frozen {
		return invalid("business account is frozen and cannot accept bookings")
	}

	var errs []string

	duration := req.DurationMinutes
	if svc == nil {
		errs = append(errs, "a service must be selected")
	} else if duration <= 0 {
		duration = svc.DurationMinutes
	}

	weekday := req.Date.Weekday()
	hours, open := tc.HoursFor(weekday)
	if !open {
		errs = append(errs, fmt.Sprintf("business is closed on %s", weekday))
		return Result{Valid: len(errs) == 0, Errors: errs}
	}

	start, err := ParseClock(req.StartTime)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid start time %q", req.StartTime))
		return Result{Valid: len(errs) == 0, Errors: errs}
	}

	openMin, openErr := ParseClock(hours.Open)
	closeMin, closeErr := ParseClock(hours.Close)
	if openErr == nil && start < openMin {
		errs = append(errs, fmt.Sprintf("business opens at %s", FormatClock(openMin)))
	}
	if closeErr == nil && start+duration > closeMin {
		errs = append(errs, fmt.Sprintf("booking cannot finish after %s", FormatClock(closeMin)))
	}

	return Result{Valid: len(errs) == 0, Errors: errs}
}
