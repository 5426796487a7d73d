package v1

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/rs/zerolog/log"

	"github.com/gosuda/reserva/internal/domain"
	"github.com/gosuda/reserva/internal/server/middleware"
	"github.com/gosuda/reserva/internal/tenant"
)

type ResolveTenantOutput struct {
	Body struct {
		Resolved bool                   `json:"resolved"`
		TenantID domain.TenantID        `json:"tenant_id,omitempty"`
		Config   *tenant.ResolvedConfig `json:"config,omitempty"`
	}
}

// RegisterTenantRoutes wires the lenient, public-traffic resolution endpoint.
// The Identify middleware has already run the header/query/host chain against
// the raw request (huma-bound inputs never see r.Host, and the header name is
// deployment-configured), so the handler only reads its result. "No tenant"
// is a valid answer here, not an error.
func RegisterTenantRoutes(api huma.API, cache *tenant.Cache) {
	huma.Register(api, huma.Operation{
		OperationID: "resolve-tenant",
		Method:      http.MethodGet,
		Path:        "/tenant/resolve",
		Summary:     "Resolve the tenant for the current request signals",
		Tags:        []string{"Tenants"},
	}, func(ctx context.Context, _ *struct{}) (*ResolveTenantOutput, error) {
		out := &ResolveTenantOutput{}

		id, ok := tenant.IdentifiedFromContext(ctx)
		if !ok {
			return out, nil
		}

		out.Body.Resolved = true
		out.Body.TenantID = id
		if cfg, ok := cache.Config(id); ok {
			out.Body.Config = &cfg
		}

		return out, nil
	})
}

type CacheStatsOutput struct {
	Body struct {
		Resolution tenant.Stats `json:"resolution"`
	}
}

type InvalidateCacheInput struct {
	Body struct {
		TenantID string `json:"tenant_id,omitempty" doc:"Tenant to invalidate; empty clears all entries"`
	}
}

type InvalidateCacheOutput struct {
	Body struct {
		Invalidated      string `json:"invalidated"`
		ReplicasNotified bool   `json:"replicas_notified"`
	}
}

// RegisterAdminRoutes wires the cache admin surface. All operations require
// the admin role.
func RegisterAdminRoutes(api huma.API, cache *tenant.Cache, loader *tenant.Loader, invalidations InvalidationPublisher) {
	huma.Register(api, huma.Operation{
		OperationID: "cache-stats",
		Method:      http.MethodGet,
		Path:        "/admin/cache/stats",
		Summary:     "Resolution cache counters",
		Tags:        []string{"Admin"},
	}, func(ctx context.Context, _ *struct{}) (*CacheStatsOutput, error) {
		role, ok := middleware.RoleFromContext(ctx)
		if !ok || role != "admin" {
			return nil, huma.Error403Forbidden("admin role required")
		}

		out := &CacheStatsOutput{}
		out.Body.Resolution = cache.Stats()
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "invalidate-cache",
		Method:      http.MethodPost,
		Path:        "/admin/cache/invalidate",
		Summary:     "Invalidate cached tenant state",
		Tags:        []string{"Admin"},
	}, func(ctx context.Context, input *InvalidateCacheInput) (*InvalidateCacheOutput, error) {
		role, ok := middleware.RoleFromContext(ctx)
		if !ok || role != "admin" {
			return nil, huma.Error403Forbidden("admin role required")
		}

		id := domain.TenantID(input.Body.TenantID)
		if id == "" {
			loader.InvalidateAll()
		} else {
			loader.Invalidate(id)
		}

		// Refresh the resolution snapshot too; a failed refresh keeps the
		// last-good snapshot and is already logged.
		if _, err := cache.Load(ctx); err != nil {
			log.Warn().Err(err).Msg("cache refresh after invalidation failed")
		}

		out := &InvalidateCacheOutput{}
		out.Body.Invalidated = input.Body.TenantID
		if out.Body.Invalidated == "" {
			out.Body.Invalidated = "all"
		}

		if invalidations != nil {
			if err := invalidations.PublishInvalidation(ctx, id); err != nil {
				log.Warn().Err(err).Str("tenant_id", string(id)).Msg("failed to notify replicas of invalidation")
			} else {
				out.Body.ReplicasNotified = true
			}
		}

		return out, nil
	})
}
