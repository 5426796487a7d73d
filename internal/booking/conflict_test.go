package booking_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gosuda/reserva/internal/booking"
	"github.com/gosuda/reserva/internal/domain"
)

// mockBookingRepo implements domain.BookingRepository backed by a fixed slice,
// filtered per tenant and status the way the real store query does.
type mockBookingRepo struct {
	mu       sync.Mutex
	bookings []*domain.Booking
	err      error

	lastTenantID domain.TenantID
	lastStatuses []domain.BookingStatus
}

func (m *mockBookingRepo) ListForDay(_ context.Context, tenantID domain.TenantID, date time.Time, statuses []domain.BookingStatus) ([]*domain.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastTenantID = tenantID
	m.lastStatuses = statuses
	if m.err != nil {
		return nil, m.err
	}

	var out []*domain.Booking
	for _, b := range m.bookings {
		if b.TenantID != tenantID || !b.Date.Equal(date) {
			continue
		}
		for _, s := range statuses {
			if b.Status == s {
				out = append(out, b)
				break
			}
		}
	}
	return out, nil
}

var testDay = time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)

func existingBooking(tenantID domain.TenantID, start string, minutes int, status domain.BookingStatus) *domain.Booking {
	return &domain.Booking{
		ID:              uuid.New(),
		TenantID:        tenantID,
		Date:            testDay,
		StartTime:       start,
		DurationMinutes: minutes,
		Status:          status,
		CustomerName:    "Dana",
		ServiceName:     "Haircut",
	}
}

func newDetector(t *testing.T, repo domain.BookingRepository, strict bool) *booking.Detector {
	t.Helper()

	d, err := booking.NewDetector(repo, "08:00", "20:00", strict)
	require.NoError(t, err)
	return d
}

func TestNewDetector(t *testing.T) {
	t.Parallel()

	t.Run("rejects a close bound not after the open bound", func(t *testing.T) {
		t.Parallel()

		_, err := booking.NewDetector(&mockBookingRepo{}, "20:00", "08:00", false)
		assert.Error(t, err)

		_, err = booking.NewDetector(&mockBookingRepo{}, "08:00", "08:00", false)
		assert.Error(t, err)
	})

	t.Run("rejects unparseable bounds", func(t *testing.T) {
		t.Parallel()

		_, err := booking.NewDetector(&mockBookingRepo{}, "open", "20:00", false)
		assert.Error(t, err)
	})
}

func TestDetectorCheck(t *testing.T) {
	t.Parallel()

	t.Run("empty day has no conflict", func(t *testing.T) {
		t.Parallel()

		d := newDetector(t, &mockBookingRepo{}, false)

		res, err := d.Check(t.Context(), "alpha", testDay, "10:00", 30, nil)
		require.NoError(t, err)
		assert.False(t, res.HasConflict)
	})

	t.Run("missing tenant id is an error", func(t *testing.T) {
		t.Parallel()

		d := newDetector(t, &mockBookingRepo{}, false)

		_, err := d.Check(t.Context(), "", testDay, "10:00", 30, nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrTenantIDRequired)
	})

	t.Run("unparseable candidate start is an error", func(t *testing.T) {
		t.Parallel()

		d := newDetector(t, &mockBookingRepo{}, false)

		_, err := d.Check(t.Context(), "alpha", testDay, "noonish", 30, nil)
		assert.Error(t, err)
	})

	t.Run("touching endpoints do not conflict", func(t *testing.T) {
		t.Parallel()

		// Existing [10:00,10:30); candidates ending at 10:00 or starting at
		// 10:30 touch but do not overlap.
		repo := &mockBookingRepo{bookings: []*domain.Booking{
			existingBooking("alpha", "10:00", 30, domain.BookingConfirmed),
		}}
		d := newDetector(t, repo, false)

		res, err := d.Check(t.Context(), "alpha", testDay, "10:30", 30, nil)
		require.NoError(t, err)
		assert.False(t, res.HasConflict)

		res, err = d.Check(t.Context(), "alpha", testDay, "09:30", 30, nil)
		require.NoError(t, err)
		assert.False(t, res.HasConflict)
	})

	t.Run("one minute of overlap conflicts", func(t *testing.T) {
		t.Parallel()

		repo := &mockBookingRepo{bookings: []*domain.Booking{
			existingBooking("alpha", "10:00", 31, domain.BookingConfirmed),
		}}
		d := newDetector(t, repo, false)

		res, err := d.Check(t.Context(), "alpha", testDay, "10:30", 30, nil)
		require.NoError(t, err)
		assert.True(t, res.HasConflict)
	})

	t.Run("conflict reports the blocking booking and both suggestions", func(t *testing.T) {
		t.Parallel()

		// Existing confirmed 14:00 for 60; candidate 14:30 for 30 overlaps.
		// After: 15:00 (fits before 20:00). Before: 14:00-0:30 = 13:30.
		repo := &mockBookingRepo{bookings: []*domain.Booking{
			existingBooking("alpha", "14:00", 60, domain.BookingConfirmed),
		}}
		d := newDetector(t, repo, false)

		res, err := d.Check(t.Context(), "alpha", testDay, "14:30", 30, nil)
		require.NoError(t, err)
		assert.True(t, res.HasConflict)
		require.NotNil(t, res.Conflicting)
		assert.Equal(t, "14:00", res.Conflicting.StartTime)
		assert.Equal(t, "15:00", res.Conflicting.EndTime)
		assert.Equal(t, "Dana", res.Conflicting.CustomerName)
		assert.Equal(t, []string{"15:00", "13:30"}, res.Suggestions)
	})

	t.Run("suggestion after is dropped when it cannot finish before day close", func(t *testing.T) {
		t.Parallel()

		repo := &mockBookingRepo{bookings: []*domain.Booking{
			existingBooking("alpha", "19:00", 60, domain.BookingConfirmed),
		}}
		d := newDetector(t, repo, false)

		res, err := d.Check(t.Context(), "alpha", testDay, "19:30", 45, nil)
		require.NoError(t, err)
		assert.True(t, res.HasConflict)
		assert.Equal(t, []string{"18:15"}, res.Suggestions)
	})

	t.Run("suggestion before is dropped when it would start before day open", func(t *testing.T) {
		t.Parallel()

		repo := &mockBookingRepo{bookings: []*domain.Booking{
			existingBooking("alpha", "08:00", 60, domain.BookingConfirmed),
		}}
		d := newDetector(t, repo, false)

		res, err := d.Check(t.Context(), "alpha", testDay, "08:30", 45, nil)
		require.NoError(t, err)
		assert.True(t, res.HasConflict)
		assert.Equal(t, []string{"09:00"}, res.Suggestions)
	})

	t.Run("another tenant's bookings are invisible", func(t *testing.T) {
		t.Parallel()

		repo := &mockBookingRepo{bookings: []*domain.Booking{
			existingBooking("beta", "14:00", 60, domain.BookingConfirmed),
		}}
		d := newDetector(t, repo, false)

		res, err := d.Check(t.Context(), "alpha", testDay, "14:30", 30, nil)
		require.NoError(t, err)
		assert.False(t, res.HasConflict)
		assert.Equal(t, domain.TenantID("alpha"), repo.lastTenantID)
	})

	t.Run("non-blocking statuses do not conflict", func(t *testing.T) {
		t.Parallel()

		repo := &mockBookingRepo{bookings: []*domain.Booking{
			existingBooking("alpha", "14:00", 60, domain.BookingCancelled),
			existingBooking("alpha", "14:00", 60, domain.BookingCompleted),
			existingBooking("alpha", "14:00", 60, domain.BookingNoShow),
		}}
		d := newDetector(t, repo, false)

		res, err := d.Check(t.Context(), "alpha", testDay, "14:30", 30, nil)
		require.NoError(t, err)
		assert.False(t, res.HasConflict)
	})

	t.Run("every blocking status conflicts", func(t *testing.T) {
		t.Parallel()

		for _, status := range domain.BlockingStatuses {
			repo := &mockBookingRepo{bookings: []*domain.Booking{
				existingBooking("alpha", "14:00", 60, status),
			}}
			d := newDetector(t, repo, false)

			res, err := d.Check(t.Context(), "alpha", testDay, "14:30", 30, nil)
			require.NoError(t, err)
			assert.True(t, res.HasConflict, "status %s", status)
		}
	})

	t.Run("excluded booking id is skipped", func(t *testing.T) {
		t.Parallel()

		existing := existingBooking("alpha", "14:00", 60, domain.BookingConfirmed)
		repo := &mockBookingRepo{bookings: []*domain.Booking{existing}}
		d := newDetector(t, repo, false)

		res, err := d.Check(t.Context(), "alpha", testDay, "14:30", 30, &existing.ID)
		require.NoError(t, err)
		assert.False(t, res.HasConflict, "rescheduling must not conflict with itself")
	})

	t.Run("booking with unparseable start time is skipped", func(t *testing.T) {
		t.Parallel()

		broken := existingBooking("alpha", "whenever", 60, domain.BookingConfirmed)
		repo := &mockBookingRepo{bookings: []*domain.Booking{broken}}
		d := newDetector(t, repo, false)

		res, err := d.Check(t.Context(), "alpha", testDay, "14:30", 30, nil)
		require.NoError(t, err)
		assert.False(t, res.HasConflict)
	})

	t.Run("lenient mode reports no conflict on store failure", func(t *testing.T) {
		t.Parallel()

		repo := &mockBookingRepo{err: errors.New("connection refused")}
		d := newDetector(t, repo, false)

		res, err := d.Check(t.Context(), "alpha", testDay, "14:30", 30, nil)
		require.NoError(t, err)
		assert.False(t, res.HasConflict)
	})

	t.Run("strict mode propagates store failure", func(t *testing.T) {
		t.Parallel()

		storeErr := errors.New("connection refused")
		repo := &mockBookingRepo{err: storeErr}
		d := newDetector(t, repo, true)

		_, err := d.Check(t.Context(), "alpha", testDay, "14:30", 30, nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, storeErr)
	})

	t.Run("queries only the blocking statuses", func(t *testing.T) {
		t.Parallel()

		repo := &mockBookingRepo{}
		d := newDetector(t, repo, false)

		_, err := d.Check(t.Context(), "alpha", testDay, "14:30", 30, nil)
		require.NoError(t, err)
		assert.Equal(t, domain.BlockingStatuses, repo.lastStatuses)
	})
}
