package middleware

import (
	"errors"
	"net/http"

	"github.com/gosuda/reserva/internal/domain"
	"github.com/gosuda/reserva/internal/tenant"
)

// Identify runs the lenient resolver on every request and records the result
// when there is one. "No tenant" passes through untouched; platform-level
// routes are a legitimate state.
func Identify(identifier *tenant.Identifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if id, ok := identifier.Identify(r); ok {
				r = r.WithContext(tenant.ContextWithIdentified(r.Context(), id))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireTenant rejects requests that the lenient resolver could not bind.
func RequireTenant() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := tenant.IdentifiedFromContext(r.Context()); !ok {
				http.Error(w, `{"title":"Forbidden","status":403,"detail":"valid tenant required"}`, http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// BindTenant resolves the strict, fail-closed tenant context and attaches it
// for downstream handlers. A request with no tenant signal gets 400; an
// unknown tenant gets 404. Neither is ever answered with another tenant's
// data.
func BindTenant(loader *tenant.Loader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tc, err := loader.FromRequest(r.Context(), r)
			if err != nil {
				switch {
				case errors.Is(err, domain.ErrTenantIDRequired):
					http.Error(w, `{"title":"Bad Request","status":400,"detail":"tenant id required"}`, http.StatusBadRequest)
				case errors.Is(err, domain.ErrTenantNotFound):
					http.Error(w, `{"title":"Not Found","status":404,"detail":"tenant not found"}`, http.StatusNotFound)
				default:
					http.Error(w, `{"title":"Service Unavailable","status":503,"detail":"tenant resolution failed"}`, http.StatusServiceUnavailable)
				}
				return
			}

			next.ServeHTTP(w, r.WithContext(tenant.ContextWithTenant(r.Context(), tc)))
		})
	}
}
