package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Server   ServerConfig
	Tenancy  TenancyConfig
	Booking  BookingConfig
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string //nolint:gosec // G117: DB connection config
	DBName   string
	SSLMode  string
	MaxConns int
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr     string
	Password string //nolint:gosec // G117: Redis connection config
	DB       int
}

// JWTConfig holds token validation settings for the admin surface.
type JWTConfig struct {
	Secret string //nolint:gosec // G117: JWT signing secret config
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	CORSOrigins    []string
	RateLimitRPS   float64 // per-tenant sustained request rate
	RateLimitBurst int     // per-tenant burst allowance
}

// TenancyConfig holds tenant resolution settings.
type TenancyConfig struct {
	RefreshInterval time.Duration // resolution cache refresh cadence
	StoreTimeout    time.Duration // bound on each cache fetch
	ContextTTL      time.Duration // strict per-tenant context lifetime
	HeaderName      string        // explicit tenant header
	QueryParam      string        // explicit tenant query parameter
}

// BookingConfig holds conflict-detection settings.
type BookingConfig struct {
	DayOpen         string // suggestion lower bound, "HH:MM"
	DayClose        string // suggestion upper bound, "HH:MM"
	StrictConflicts bool   // propagate store failures instead of assuming no conflict
}

// Load reads configuration from environment variables.
// Defaults are safe for local development only. In production,
// sensitive values (JWT secret, DB password) must be set explicitly.
func Load() (*Config, error) {
	dbPort, err := getEnvInt("RESERVA_DB_PORT", 5432)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	dbMaxConns, err := getEnvInt("RESERVA_DB_MAX_CONNS", 25)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	redisDB, err := getEnvInt("RESERVA_REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	readTimeout, err := getEnvDuration("RESERVA_SERVER_READ_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	writeTimeout, err := getEnvDuration("RESERVA_SERVER_WRITE_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	refreshInterval, err := getEnvDuration("RESERVA_TENANT_REFRESH_INTERVAL", 60*time.Second)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	storeTimeout, err := getEnvDuration("RESERVA_TENANT_STORE_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	contextTTL, err := getEnvDuration("RESERVA_TENANT_CONTEXT_TTL", 5*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	rateLimitRPS, err := getEnvFloat("RESERVA_RATE_LIMIT_RPS", 50)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	rateLimitBurst, err := getEnvInt("RESERVA_RATE_LIMIT_BURST", 100)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	strictConflicts, err := getEnvBool("RESERVA_BOOKING_STRICT_CONFLICTS", false)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	corsOrigins := getEnvList("RESERVA_CORS_ORIGINS", []string{"http://localhost:5173"})

	cfg := &Config{
		Database: DatabaseConfig{
			Host:     getEnv("RESERVA_DB_HOST", "localhost"),
			Port:     dbPort,
			User:     getEnv("RESERVA_DB_USER", "reserva"),
			Password: getEnv("RESERVA_DB_PASSWORD", ""),
			DBName:   getEnv("RESERVA_DB_NAME", "reserva_dev"),
			SSLMode:  getEnv("RESERVA_DB_SSLMODE", "disable"),
			MaxConns: dbMaxConns,
		},
		Redis: RedisConfig{
			Addr:     getEnv("RESERVA_REDIS_ADDR", "localhost:6379"),
			Password: getEnv("RESERVA_REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		JWT: JWTConfig{
			Secret: getEnv("RESERVA_JWT_SECRET", ""),
		},
		Server: ServerConfig{
			Addr:           getEnv("RESERVA_SERVER_ADDR", ":8080"),
			ReadTimeout:    readTimeout,
			WriteTimeout:   writeTimeout,
			CORSOrigins:    corsOrigins,
			RateLimitRPS:   rateLimitRPS,
			RateLimitBurst: rateLimitBurst,
		},
		Tenancy: TenancyConfig{
			RefreshInterval: refreshInterval,
			StoreTimeout:    storeTimeout,
			ContextTTL:      contextTTL,
			HeaderName:      getEnv("RESERVA_TENANT_HEADER", "X-Tenant-ID"),
			QueryParam:      getEnv("RESERVA_TENANT_QUERY_PARAM", "tenant"),
		},
		Booking: BookingConfig{
			DayOpen:         getEnv("RESERVA_BOOKING_DAY_OPEN", "08:00"),
			DayClose:        getEnv("RESERVA_BOOKING_DAY_CLOSE", "20:00"),
			StrictConflicts: strictConflicts,
		},
	}

	err = cfg.validate()
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	return cfg, nil
}

// validate checks required fields and value bounds.
func (c *Config) validate() error {
	// JWT secret is required (no insecure default).
	if c.JWT.Secret == "" {
		return errors.New("RESERVA_JWT_SECRET is required")
	}
	if len(c.JWT.Secret) < 32 {
		return errors.New("RESERVA_JWT_SECRET must be at least 32 characters")
	}

	// Bounds checks.
	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return fmt.Errorf("RESERVA_DB_PORT must be 1-65535, got %d", c.Database.Port)
	}
	if c.Database.MaxConns < 1 {
		return fmt.Errorf("RESERVA_DB_MAX_CONNS must be >= 1, got %d", c.Database.MaxConns)
	}
	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("RESERVA_SERVER_READ_TIMEOUT must be positive, got %s", c.Server.ReadTimeout)
	}
	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("RESERVA_SERVER_WRITE_TIMEOUT must be positive, got %s", c.Server.WriteTimeout)
	}
	if c.Server.RateLimitRPS <= 0 {
		return fmt.Errorf("RESERVA_RATE_LIMIT_RPS must be positive, got %g", c.Server.RateLimitRPS)
	}
	if c.Server.RateLimitBurst < 1 {
		return fmt.Errorf("RESERVA_RATE_LIMIT_BURST must be >= 1, got %d", c.Server.RateLimitBurst)
	}
	if c.Tenancy.RefreshInterval < time.Second {
		return fmt.Errorf("RESERVA_TENANT_REFRESH_INTERVAL must be >= 1s, got %s", c.Tenancy.RefreshInterval)
	}
	if c.Tenancy.StoreTimeout <= 0 {
		return fmt.Errorf("RESERVA_TENANT_STORE_TIMEOUT must be positive, got %s", c.Tenancy.StoreTimeout)
	}
	if c.Tenancy.ContextTTL < time.Second {
		return fmt.Errorf("RESERVA_TENANT_CONTEXT_TTL must be >= 1s, got %s", c.Tenancy.ContextTTL)
	}
	if strings.TrimSpace(c.Tenancy.HeaderName) == "" {
		return errors.New("RESERVA_TENANT_HEADER must not be empty")
	}

	return nil
}

// DSN returns the PostgreSQL connection string.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s=%q as int: %w", key, v, err)
	}
	return n, nil
}

func getEnvFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing %s=%q as float: %w", key, v, err)
	}
	return f, nil
}

func getEnvBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("parsing %s=%q as bool: %w", key, v, err)
	}
	return b, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s=%q as duration: %w", key, v, err)
	}
	return d, nil
}

func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
