package tenant_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gosuda/reserva/internal/domain"
	"github.com/gosuda/reserva/internal/tenant"
)

func TestResolveConfig(t *testing.T) {
	t.Parallel()

	t.Run("bare tenant gets compiled defaults", func(t *testing.T) {
		t.Parallel()

		cfg := tenant.ResolveConfig(&domain.Tenant{ID: "alpha"})

		assert.Equal(t, domain.TenantID("alpha"), cfg.TenantID)
		assert.Equal(t, "starter", cfg.Plan)
		assert.Equal(t, "en-US", cfg.Locale)
		assert.Equal(t, "USD", cfg.Currency)
		assert.Equal(t, 30, cfg.SlotMinutes)
		assert.Equal(t, 90, cfg.BookingWindowDays)
	})

	t.Run("nested settings override defaults", func(t *testing.T) {
		t.Parallel()

		cfg := tenant.ResolveConfig(&domain.Tenant{
			ID: "alpha",
			Settings: map[string]any{
				"display_name":        "Alpha (settings)",
				"locale":              "de-DE",
				"currency":            "EUR",
				"slot_minutes":        float64(45), // JSON numbers decode as float64
				"booking_window_days": 30,
			},
		})

		assert.Equal(t, "Alpha (settings)", cfg.DisplayName)
		assert.Equal(t, "de-DE", cfg.Locale)
		assert.Equal(t, "EUR", cfg.Currency)
		assert.Equal(t, 45, cfg.SlotMinutes)
		assert.Equal(t, 30, cfg.BookingWindowDays)
	})

	t.Run("durable fields override nested settings", func(t *testing.T) {
		t.Parallel()

		cfg := tenant.ResolveConfig(&domain.Tenant{
			ID:   "alpha",
			Name: "Alpha Salon",
			Plan: "pro",
			Settings: map[string]any{
				"display_name": "Alpha (settings)",
			},
			Features: map[string]bool{"online_booking": true},
		})

		assert.Equal(t, "Alpha Salon", cfg.DisplayName)
		assert.Equal(t, "pro", cfg.Plan)
		assert.True(t, cfg.Features["online_booking"])
	})

	t.Run("malformed settings values are ignored", func(t *testing.T) {
		t.Parallel()

		cfg := tenant.ResolveConfig(&domain.Tenant{
			ID: "alpha",
			Settings: map[string]any{
				"locale":       42,
				"slot_minutes": "not-a-number",
			},
		})

		assert.Equal(t, "en-US", cfg.Locale)
		assert.Equal(t, 30, cfg.SlotMinutes)
	})

	t.Run("zero and negative durations from settings are ignored", func(t *testing.T) {
		t.Parallel()

		cfg := tenant.ResolveConfig(&domain.Tenant{
			ID: "alpha",
			Settings: map[string]any{
				"slot_minutes":        0,
				"booking_window_days": -5,
			},
		})

		assert.Equal(t, 30, cfg.SlotMinutes)
		assert.Equal(t, 90, cfg.BookingWindowDays)
	})
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	t.Run("host", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			in   string
			want string
		}{
			{"Example.com", "example.com"},
			{"www.example.com", "example.com"},
			{"example.com:8080", "example.com"},
			{"WWW.Example.COM:443", "example.com"},
			{"  example.com  ", "example.com"},
			{"", ""},
		}
		for _, tc := range tests {
			assert.Equal(t, tc.want, tenant.NormalizeHost(tc.in), "input %q", tc.in)
		}
	})

	t.Run("phone", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			in   string
			want string
		}{
			{"+1 (555) 010-0001", "15550100001"},
			{"555.010.0001", "5550100001"},
			{"no digits", ""},
			{"", ""},
		}
		for _, tc := range tests {
			assert.Equal(t, tc.want, tenant.NormalizePhone(tc.in), "input %q", tc.in)
		}
	})
}
