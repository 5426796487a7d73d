package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/gosuda/reserva/internal/domain"
)

// ConflictingBooking describes the existing booking that blocks a candidate.
type ConflictingBooking struct {
	ID           uuid.UUID `json:"id"`
	CustomerName string    `json:"customer_name"`
	ServiceName  string    `json:"service_name"`
	StartTime    string    `json:"start_time"`
	EndTime      string    `json:"end_time"`
}

// ConflictResult is the outcome of a conflict check. Suggestions holds up to
// two alternative start times near the conflicting booking; they are
// heuristic and must be resubmitted through the Validator before use.
type ConflictResult struct {
	HasConflict bool                `json:"has_conflict"`
	Conflicting *ConflictingBooking `json:"conflicting_booking,omitempty"`
	Suggestions []string            `json:"suggestions,omitempty"`
}

// Detector runs tenant-scoped interval-overlap checks against existing
// bookings. It is a pre-check only; the write path must still enforce a final
// authoritative check at persistence time.
type Detector struct {
	bookings domain.BookingRepository
	dayOpen  int // suggestion lower bound, minutes since midnight
	dayClose int // suggestion upper bound
	strict   bool
}

// NewDetector creates a detector. dayOpen and dayClose ("HH:MM") bound the
// suggested alternative slots. In strict mode a store failure propagates to
// the caller; in lenient mode it is logged and reported as no conflict,
// trading correctness for availability.
func NewDetector(bookings domain.BookingRepository, dayOpen, dayClose string, strict bool) (*Detector, error) {
	openMin, err := ParseClock(dayOpen)
	if err != nil {
		return nil, fmt.Errorf("booking.NewDetector: day open: %w", err)
	}
	closeMin, err := ParseClock(dayClose)
	if err != nil {
		return nil, fmt.Errorf("booking.NewDetector: day close: %w", err)
	}
	if closeMin <= openMin {
		return nil, fmt.Errorf("booking.NewDetector: day close %s not after open %s", dayClose, dayOpen)
	}

	return &Detector{
		bookings: bookings,
		dayOpen:  openMin,
		dayClose: closeMin,
		strict:   strict,
	}, nil
}

// Check reports whether the candidate interval overlaps any blocking booking
// of tenantID on date. Intervals are half-open: [s1,e1) and [s2,e2) conflict
// iff s1 < e2 && e1 > s2, so touching endpoints do not conflict. excludeID
// drops one booking from the candidate set when re-checking an edit.
func (d *Detector) Check(ctx context.Context, tenantID domain.TenantID, date time.Time, startTime string, durationMinutes int, excludeID *uuid.UUID) (ConflictResult, error) {
	if tenantID == "" {
		return ConflictResult{}, fmt.Errorf("booking.Detector.Check: %w", domain.ErrTenantIDRequired)
	}

	s1, err := ParseClock(startTime)
	if err != nil {
		return ConflictResult{}, fmt.Errorf("booking.Detector.Check: %w", err)
	}
	e1 := s1 + durationMinutes

	existing, err := d.bookings.ListForDay(ctx, tenantID, date, domain.BlockingStatuses)
	if err != nil {
		if d.strict {
			return ConflictResult{}, fmt.Errorf("booking.Detector.Check: %w", err)
		}
		log.Warn().Err(err).Str("tenant_id", tenantID.String()).
			Msg("conflict check store query failed, assuming no conflict")
		return ConflictResult{}, nil
	}

	for _, b := range existing {
		if excludeID != nil && b.ID == *excludeID {
			continue
		}
		if !b.Status.Blocks() {
			continue
		}

		s2, err := ParseClock(b.StartTime)
		if err != nil {
			log.Warn().Err(err).Str("tenant_id", tenantID.String()).Str("booking_id", b.ID.String()).
				Msg("skipping booking with unparseable start time")
			continue
		}
		e2 := s2 + b.DurationMinutes

		if s1 < e2 && e1 > s2 {
			return ConflictResult{
				HasConflict: true,
				Conflicting: &ConflictingBooking{
					ID:           b.ID,
					CustomerName: b.CustomerName,
					ServiceName:  b.ServiceName,
					StartTime:    FormatClock(s2),
					EndTime:      FormatClock(e2),
				},
				Suggestions: d.suggest(s2, e2, durationMinutes),
			}, nil
		}
	}

	return ConflictResult{}, nil
}

// suggest proposes up to two slots around the conflicting booking: right
// after it when the candidate still fits before dayClose, and right before it
// when the resulting start is not earlier than dayOpen.
func (d *Detector) suggest(s2, e2, durationMinutes int) []string {
	var out []string

	if e2+durationMinutes <= d.dayClose {
		out = append(out, FormatClock(e2))
	}
	if before := s2 - durationMinutes; before >= d.dayOpen {
		out = append(out, FormatClock(before))
	}

	return out
}
