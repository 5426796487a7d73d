package tenant

import (
	"strings"
	"time"

	"github.com/gosuda/reserva/internal/domain"
)

// StaticTenant is a compiled fallback tenant definition. The static registry
// is consulted only before the resolution cache has built its first snapshot,
// or when the very first load fails with no durable store reachable.
type StaticTenant struct {
	ID      domain.TenantID
	Name    string
	Domains []string
	Phones  []string
	Plan    string
}

var staticRegistry = []StaticTenant{
	{
		ID:      "demo",
		Name:    "Reserva Demo",
		Domains: []string{"demo.reserva.app"},
		Phones:  []string{"+15550100000"},
		Plan:    "starter",
	},
	{
		ID:      "bella-studio",
		Name:    "Bella Studio",
		Domains: []string{"bella.reserva.app", "bellastudio.com"},
		Phones:  []string{"+15550100001"},
		Plan:    "pro",
	},
}

// StaticTenants returns the compiled fallback registry as tenant records.
func StaticTenants() []*domain.Tenant {
	out := make([]*domain.Tenant, 0, len(staticRegistry))
	for _, st := range staticRegistry {
		out = append(out, st.toTenant())
	}
	return out
}

func (st StaticTenant) toTenant() *domain.Tenant {
	var dom string
	if len(st.Domains) > 0 {
		dom = st.Domains[0]
	}
	now := time.Now()
	return &domain.Tenant{
		ID:           st.ID,
		Name:         st.Name,
		Domain:       dom,
		PhoneNumbers: st.Phones,
		Status:       domain.TenantActive,
		Plan:         st.Plan,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func staticByID(id domain.TenantID) (StaticTenant, bool) {
	for _, st := range staticRegistry {
		if st.ID == id {
			return st, true
		}
	}
	return StaticTenant{}, false
}

// staticMatchHost suffix-matches a normalized host against the registry, so
// "booking.bellastudio.com" still resolves to bella-studio pre-cache.
func staticMatchHost(host string) (StaticTenant, bool) {
	for _, st := range staticRegistry {
		for _, d := range st.Domains {
			if host == d || strings.HasSuffix(host, "."+d) {
				return st, true
			}
		}
	}
	return StaticTenant{}, false
}
