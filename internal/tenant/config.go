package tenant

import (
	"github.com/gosuda/reserva/internal/domain"
)

// ResolvedConfig is the lenient merged configuration view used by public
// traffic. Precedence, highest first: durable tenant fields, the tenant's raw
// nested settings, compiled defaults. The merge is explicit field by field;
// values from two different tenants are never combined.
type ResolvedConfig struct {
	TenantID          domain.TenantID `json:"tenant_id"`
	DisplayName       string          `json:"display_name"`
	Plan              string          `json:"plan"`
	Locale            string          `json:"locale"`
	Currency          string          `json:"currency"`
	SlotMinutes       int             `json:"slot_minutes"`
	BookingWindowDays int             `json:"booking_window_days"`
	Features          map[string]bool `json:"features,omitempty"`
}

func defaultResolvedConfig() ResolvedConfig {
	return ResolvedConfig{
		Plan:              "starter",
		Locale:            "en-US",
		Currency:          "USD",
		SlotMinutes:       30,
		BookingWindowDays: 90,
	}
}

// ResolveConfig merges one tenant's configuration onto the compiled defaults.
func ResolveConfig(t *domain.Tenant) ResolvedConfig {
	cfg := defaultResolvedConfig()
	cfg.TenantID = t.ID

	// Base layer: the raw nested settings blob.
	if v, ok := settingString(t.Settings, "display_name"); ok {
		cfg.DisplayName = v
	}
	if v, ok := settingString(t.Settings, "locale"); ok {
		cfg.Locale = v
	}
	if v, ok := settingString(t.Settings, "currency"); ok {
		cfg.Currency = v
	}
	if v, ok := settingInt(t.Settings, "slot_minutes"); ok && v > 0 {
		cfg.SlotMinutes = v
	}
	if v, ok := settingInt(t.Settings, "booking_window_days"); ok && v > 0 {
		cfg.BookingWindowDays = v
	}

	// Override layer: first-class durable fields.
	if t.Name != "" {
		cfg.DisplayName = t.Name
	}
	if t.Plan != "" {
		cfg.Plan = t.Plan
	}
	if len(t.Features) > 0 {
		cfg.Features = t.Features
	}

	return cfg
}

func settingString(settings map[string]any, key string) (string, bool) {
	v, ok := settings[key].(string)
	return v, ok && v != ""
}

func settingInt(settings map[string]any, key string) (int, bool) {
	switch v := settings[key].(type) {
	case int:
		return v, true
	case float64: // JSON-decoded numbers
		return int(v), true
	default:
		return 0, false
	}
}
