package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/gosuda/reserva/internal/booking"
	"github.com/gosuda/reserva/internal/config"
	"github.com/gosuda/reserva/internal/server"
	"github.com/gosuda/reserva/internal/store/postgres"
	redisstore "github.com/gosuda/reserva/internal/store/redis"
	"github.com/gosuda/reserva/internal/tenant"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("startup failed")
	}
}

func run() error {
	// Initialize structured logging from environment.
	logLevel := os.Getenv("RESERVA_LOG_LEVEL")
	level, parseErr := zerolog.ParseLevel(logLevel)
	if parseErr != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	logFormat := os.Getenv("RESERVA_LOG_FORMAT")
	if logFormat == "text" {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	} else {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}

	ctx := context.Background()

	// Load configuration from environment.
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if cfg.Database.MaxConns < 0 || cfg.Database.MaxConns > math.MaxInt32 {
		return fmt.Errorf("database max_conns %d out of int32 range", cfg.Database.MaxConns)
	}

	// Connect to PostgreSQL.
	store, err := postgres.New(ctx, cfg.Database.DSN(), int32(cfg.Database.MaxConns)) //nolint:gosec // bounds checked above
	if err != nil {
		return err
	}
	defer store.Close()

	// Connect to Redis.
	pubsub, err := redisstore.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return err
	}
	defer pubsub.Close()

	// Graceful shutdown on SIGINT / SIGTERM.
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Build the lenient resolution cache and take the initial snapshot.
	// A cold-boot store failure falls back to the static registry; the
	// process still comes up and recovers on a later refresh tick.
	cache := tenant.NewCache(store.Tenants(), cfg.Tenancy.RefreshInterval, cfg.Tenancy.StoreTimeout)
	source, err := cache.Load(ctx)
	if err != nil {
		log.Warn().Err(err).Str("source", string(source)).Msg("initial tenant snapshot degraded")
	} else {
		log.Info().Str("source", string(source)).Int("tenants", len(cache.List())).Msg("tenant snapshot loaded")
	}
	go cache.Run(ctx)

	identifier := tenant.NewIdentifier(cache, cfg.Tenancy.HeaderName, cfg.Tenancy.QueryParam)

	// Build the strict tenant context loader and watch the cross-replica
	// invalidation feed.
	loader, err := tenant.NewLoader(store.Tenants(), cfg.Tenancy.ContextTTL, cfg.Tenancy.HeaderName, cfg.Tenancy.QueryParam)
	if err != nil {
		return err
	}
	defer loader.Close()

	go func() {
		if watchErr := loader.Watch(ctx, pubsub, redisstore.InvalidationChannel); watchErr != nil {
			log.Error().Err(watchErr).Msg("invalidation feed terminated")
		}
	}()

	validator := booking.NewValidator(loader)

	detector, err := booking.NewDetector(store.Bookings(), cfg.Booking.DayOpen, cfg.Booking.DayClose, cfg.Booking.StrictConflicts)
	if err != nil {
		return err
	}

	// Create HTTP server with all routes wired.
	srv := server.New(ctx, cfg, cache, identifier, loader, validator, detector, pubsub)

	// Start server in background goroutine.
	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Msg("starting server")
		if startErr := srv.Start(ctx); startErr != nil {
			log.Error().Err(startErr).Msg("server error")
		}
	}()

	// Block until shutdown signal.
	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
		return shutdownErr
	}

	log.Info().Msg("stopped")
	return nil
}
