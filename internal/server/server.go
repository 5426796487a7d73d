package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/gosuda/reserva/internal/booking"
	"github.com/gosuda/reserva/internal/config"
	"github.com/gosuda/reserva/internal/server/middleware"
	redisstore "github.com/gosuda/reserva/internal/store/redis"
	"github.com/gosuda/reserva/internal/tenant"
)

// Server is the HTTP surface of the tenant-binding layer. It only translates
// requests into calls on the resolution and booking components; all business
// rules live below.
type Server struct {
	router     chi.Router
	httpServer *http.Server
	cfg        *config.Config
}

// New creates a Server with all routes wired. ctx bounds the lifetime of the
// background goroutines owned by middleware (rate limiter cleanup).
func New(ctx context.Context, cfg *config.Config, cache *tenant.Cache, identifier *tenant.Identifier, loader *tenant.Loader, validator *booking.Validator, detector *booking.Detector, pubsub *redisstore.PubSub) *Server {
	router := chi.NewRouter()

	// Global middleware stack.
	router.Use(chimw.RequestID)
	router.Use(chimw.RealIP)
	router.Use(chimw.Logger)
	router.Use(chimw.Recoverer)
	router.Use(cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", cfg.Tenancy.HeaderName, "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler)

	s := &Server{
		router: router,
		cfg:    cfg,
		httpServer: &http.Server{
			Addr:         cfg.Server.Addr,
			Handler:      router,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
	}

	// Mount API routes on /api/v1 with three sub-groups:
	// 1. Lenient resolution (public traffic, "no tenant" allowed).
	// 2. Strictly bound booking pre-checks.
	// 3. Authenticated admin surface.
	router.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.Identify(identifier))

			resolveConfig := huma.DefaultConfig("Reserva Resolution API", "1.0.0")
			resolveConfig.Servers = []*huma.Server{{URL: "/api/v1"}}
			resolveAPI := humachi.New(r, resolveConfig)
			registerResolveRoutes(resolveAPI, cache)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Identify(identifier))
			r.Use(middleware.RateLimit(ctx, cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst))
			r.Use(middleware.BindTenant(loader))

			bookingConfig := huma.DefaultConfig("Reserva Booking API", "1.0.0")
			bookingConfig.Servers = []*huma.Server{{URL: "/api/v1"}}
			bookingAPI := humachi.New(r, bookingConfig)
			registerBookingRoutes(bookingAPI, validator, detector)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT.Secret))

			adminConfig := huma.DefaultConfig("Reserva Admin API", "1.0.0")
			adminConfig.Servers = []*huma.Server{{URL: "/api/v1"}}
			adminAPI := humachi.New(r, adminConfig)
			registerAdminRoutes(adminAPI, cache, loader, pubsub)
		})
	})

	// Health check (unauthenticated).
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	return s
}

// Start begins listening for HTTP requests.
func (s *Server) Start(_ context.Context) error {
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server.Start: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}
