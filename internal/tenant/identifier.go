package tenant

import (
	"net/http"

	"github.com/gosuda/reserva/internal/domain"
)

// Identifier is the lenient request-to-tenant resolver for public traffic.
// It only ever answers with a known tenant or "no tenant"; no tenant is a
// legitimate platform-level outcome, not an error.
type Identifier struct {
	cache      *Cache
	headerName string
	queryParam string
}

func NewIdentifier(cache *Cache, headerName, queryParam string) *Identifier {
	return &Identifier{
		cache:      cache,
		headerName: headerName,
		queryParam: queryParam,
	}
}

// Identify resolves r to a tenant id. Priority: explicit header, explicit
// query parameter, host match. Each candidate is validated against known
// tenants before acceptance; an unrecognized value does not short-circuit,
// resolution continues down the chain.
func (i *Identifier) Identify(r *http.Request) (domain.TenantID, bool) {
	return i.IdentifyValues(r.Header.Get(i.headerName), r.URL.Query().Get(i.queryParam), r.Host)
}

// IdentifyValues is Identify over already-extracted request signals.
func (i *Identifier) IdentifyValues(header, query, host string) (domain.TenantID, bool) {
	if header != "" {
		if id, ok := i.known(domain.TenantID(header)); ok {
			return id, true
		}
	}

	if query != "" {
		if id, ok := i.known(domain.TenantID(query)); ok {
			return id, true
		}
	}

	if h := NormalizeHost(host); h != "" {
		if i.cache.Initialized() {
			if t, ok := i.cache.ByDomain(h); ok {
				return t.ID, true
			}
		} else if st, ok := staticMatchHost(h); ok {
			// Safety net for the boot window before the first snapshot.
			return st.ID, true
		}
	}

	return "", false
}

func (i *Identifier) known(id domain.TenantID) (domain.TenantID, bool) {
	if i.cache.Initialized() {
		if _, ok := i.cache.Get(id); ok {
			return id, true
		}
		return "", false
	}
	if st, ok := staticByID(id); ok {
		return st.ID, true
	}
	return "", false
}
