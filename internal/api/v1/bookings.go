package v1

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/gosuda/reserva/internal/booking"
	"github.com/gosuda/reserva/internal/domain"
	"github.com/gosuda/reserva/internal/tenant"
)

const dateFormat = "2006-01-02"

type ServiceInput struct {
	Name            string `json:"name" minLength:"1" maxLength:"255" doc:"Service name"`
	DurationMinutes int    `json:"duration_minutes" minimum:"5" maximum:"480" doc:"Service duration"`
}

type ValidateBookingInput struct {
	Body struct {
		Date            string        `json:"date" doc:"Booking date (YYYY-MM-DD)"`
		StartTime       string        `json:"start_time" doc:"Start time, HH:MM or <H>h<MM>"`
		DurationMinutes int           `json:"duration_minutes,omitempty" minimum:"0" maximum:"480" doc:"Override duration; defaults to the service duration"`
		Service         *ServiceInput `json:"service,omitempty" doc:"Selected service"`
	}
}

type ValidateBookingOutput struct {
	Body booking.Result
}

type CheckConflictsInput struct {
	Body struct {
		Date            string `json:"date" doc:"Booking date (YYYY-MM-DD)"`
		StartTime       string `json:"start_time" doc:"Start time, HH:MM or <H>h<MM>"`
		DurationMinutes int    `json:"duration_minutes" minimum:"1" maximum:"480"`
		ExcludeID       string `json:"exclude_id,omitempty" format:"uuid" doc:"Booking to exclude when re-checking an edit"`
	}
}

type CheckConflictsOutput struct {
	Body booking.ConflictResult
}

// RegisterBookingRoutes wires the booking pre-check endpoints. Both run
// behind the strict tenant-binding middleware, so the tenant context is
// always present and belongs to exactly the requesting tenant.
func RegisterBookingRoutes(api huma.API, validator *booking.Validator, detector *booking.Detector) {
	huma.Register(api, huma.Operation{
		OperationID: "validate-booking",
		Method:      http.MethodPost,
		Path:        "/bookings/validate",
		Summary:     "Validate a prospective booking against business rules",
		Tags:        []string{"Bookings"},
	}, func(ctx context.Context, input *ValidateBookingInput) (*ValidateBookingOutput, error) {
		tc, ok := tenant.FromRequestContext(ctx)
		if !ok {
			return nil, huma.Error400BadRequest("tenant id required")
		}

		date, err := time.Parse(dateFormat, input.Body.Date)
		if err != nil {
			return nil, huma.Error422UnprocessableEntity("date must be YYYY-MM-DD")
		}

		var svc *domain.Service
		if input.Body.Service != nil {
			svc = &domain.Service{
				TenantID:        tc.ID,
				Name:            input.Body.Service.Name,
				DurationMinutes: input.Body.Service.DurationMinutes,
				Active:          true,
			}
		}

		result, err := validator.Validate(ctx, booking.Request{
			TenantID:        tc.ID,
			Date:            date,
			StartTime:       input.Body.StartTime,
			DurationMinutes: input.Body.DurationMinutes,
		}, svc)
		if err != nil {
			return nil, mapTenantError(err, "booking validation failed")
		}

		return &ValidateBookingOutput{Body: result}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "check-booking-conflicts",
		Method:      http.MethodPost,
		Path:        "/bookings/conflicts",
		Summary:     "Check a candidate slot against existing bookings",
		Tags:        []string{"Bookings"},
	}, func(ctx context.Context, input *CheckConflictsInput) (*CheckConflictsOutput, error) {
		tc, ok := tenant.FromRequestContext(ctx)
		if !ok {
			return nil, huma.Error400BadRequest("tenant id required")
		}

		date, err := time.Parse(dateFormat, input.Body.Date)
		if err != nil {
			return nil, huma.Error422UnprocessableEntity("date must be YYYY-MM-DD")
		}

		var excludeID *uuid.UUID
		if input.Body.ExcludeID != "" {
			id, err := uuid.Parse(input.Body.ExcludeID)
			if err != nil {
				return nil, huma.Error422UnprocessableEntity("exclude_id must be a UUID")
			}
			excludeID = &id
		}

		result, err := detector.Check(ctx, tc.ID, date, input.Body.StartTime, input.Body.DurationMinutes, excludeID)
		if err != nil {
			return nil, mapTenantError(err, "conflict check failed")
		}

		return &CheckConflictsOutput{Body: result}, nil
	})
}

func mapTenantError(err error, fallback string) error {
	switch {
	case errors.Is(err, domain.ErrTenantIDRequired):
		return huma.Error400BadRequest("tenant id required")
	case errors.Is(err, domain.ErrTenantNotFound):
		return huma.Error404NotFound("tenant not found")
	default:
		return huma.Error503ServiceUnavailable(fallback, err)
	}
}
