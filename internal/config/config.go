// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Cache backends selectable with CACHE_BACKEND.
const (
	CacheValkey = "valkey"
	CacheMemory = "memory"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host string
	Port string
	Env  string // "development", "production", "testing"

	// PostgreSQL connection
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Connection pool
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxLifetime time.Duration

	// Valkey (Redis-compatible cache)
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string

	// Read cache
	CacheBackend      string        // "valkey" or "memory"
	CacheTTL          time.Duration // lifetime of listing entries
	CacheSingleflight bool          // collapse concurrent misses per key

	// Media URLs: {MediaEndpoint}/{MediaContainer}/blog/yyyy/mm/...
	MediaEndpoint  string
	MediaContainer string

	// Bearer token for /api/admin.
	AdminToken string

	// Admin API budget per client: AdminRateLimit requests every
	// AdminRateWindow.
	AdminRateLimit  int
	AdminRateWindow time.Duration

	// Honor X-Forwarded-For and X-Real-IP when identifying clients. Only
	// safe behind a proxy that overwrites them.
	TrustProxy bool

	// Page size seeded into a fresh installation's blog settings.
	PostsPerPage int
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. Returns an error if critical values
// are missing in production mode.
func Load() (*Config, error) {
	cfg := &Config{
		Host: envOrDefault("APP_HOST", "0.0.0.0"),
		Port: envOrDefault("APP_PORT", "8080"),
		Env:  envOrDefault("APP_ENV", "development"),

		DBHost:     envOrDefault("POSTGRES_HOST", "localhost"),
		DBPort:     envOrDefault("POSTGRES_PORT", "5432"),
		DBUser:     envOrDefault("POSTGRES_USER", "quillpress"),
		DBPassword: envOrDefault("POSTGRES_PASSWORD", "changeme"),
		DBName:     envOrDefault("POSTGRES_DB", "quillpress"),

		ValkeyHost:     envOrDefault("VALKEY_HOST", "localhost"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),

		CacheBackend: envOrDefault("CACHE_BACKEND", CacheValkey),

		MediaEndpoint:  envOrDefault("MEDIA_ENDPOINT", "http://localhost:8080"),
		MediaContainer: envOrDefault("MEDIA_CONTAINER", "media"),

		AdminToken: os.Getenv("ADMIN_TOKEN"),
	}

	var err error
	if cfg.CacheTTL, err = time.ParseDuration(envOrDefault("CACHE_TTL", "10m")); err != nil {
		return nil, fmt.Errorf("CACHE_TTL: %w", err)
	}
	if cfg.CacheSingleflight, err = strconv.ParseBool(envOrDefault("CACHE_SINGLEFLIGHT", "false")); err != nil {
		return nil, fmt.Errorf("CACHE_SINGLEFLIGHT: %w", err)
	}
	if cfg.PostsPerPage, err = strconv.Atoi(envOrDefault("POSTS_PER_PAGE", "10")); err != nil {
		return nil, fmt.Errorf("POSTS_PER_PAGE: %w", err)
	}
	if cfg.DBMaxOpenConns, err = strconv.Atoi(envOrDefault("DB_MAX_OPEN_CONNS", "25")); err != nil {
		return nil, fmt.Errorf("DB_MAX_OPEN_CONNS: %w", err)
	}
	if cfg.DBMaxIdleConns, err = strconv.Atoi(envOrDefault("DB_MAX_IDLE_CONNS", "5")); err != nil {
		return nil, fmt.Errorf("DB_MAX_IDLE_CONNS: %w", err)
	}
	if cfg.DBConnMaxLifetime, err = time.ParseDuration(envOrDefault("DB_CONN_MAX_LIFETIME", "30m")); err != nil {
		return nil, fmt.Errorf("DB_CONN_MAX_LIFETIME: %w", err)
	}
	if cfg.AdminRateLimit, err = strconv.Atoi(envOrDefault("ADMIN_RATE_LIMIT", "60")); err != nil {
		return nil, fmt.Errorf("ADMIN_RATE_LIMIT: %w", err)
	}
	if cfg.AdminRateWindow, err = time.ParseDuration(envOrDefault("ADMIN_RATE_WINDOW", "1m")); err != nil {
		return nil, fmt.Errorf("ADMIN_RATE_WINDOW: %w", err)
	}
	if cfg.TrustProxy, err = strconv.ParseBool(envOrDefault("TRUST_PROXY", "false")); err != nil {
		return nil, fmt.Errorf("TRUST_PROXY: %w", err)
	}

	if cfg.CacheBackend != CacheValkey && cfg.CacheBackend != CacheMemory {
		return nil, fmt.Errorf("CACHE_BACKEND must be %q or %q, got %q", CacheValkey, CacheMemory, cfg.CacheBackend)
	}
	if cfg.CacheTTL <= 0 {
		return nil, fmt.Errorf("CACHE_TTL must be positive, got %s", cfg.CacheTTL)
	}
	if cfg.PostsPerPage <= 0 {
		return nil, fmt.Errorf("POSTS_PER_PAGE must be positive, got %d", cfg.PostsPerPage)
	}
	if cfg.DBMaxOpenConns <= 0 {
		return nil, fmt.Errorf("DB_MAX_OPEN_CONNS must be positive, got %d", cfg.DBMaxOpenConns)
	}
	if cfg.DBMaxIdleConns < 0 || cfg.DBMaxIdleConns > cfg.DBMaxOpenConns {
		return nil, fmt.Errorf("DB_MAX_IDLE_CONNS must be between 0 and DB_MAX_OPEN_CONNS, got %d", cfg.DBMaxIdleConns)
	}
	if cfg.AdminRateLimit <= 0 {
		return nil, fmt.Errorf("ADMIN_RATE_LIMIT must be positive, got %d", cfg.AdminRateLimit)
	}
	if cfg.AdminRateWindow < time.Second {
		return nil, fmt.Errorf("ADMIN_RATE_WINDOW must be at least 1s, got %s", cfg.AdminRateWindow)
	}

	if cfg.Env == "production" {
		if cfg.DBPassword == "changeme" {
			return nil, fmt.Errorf("POSTGRES_PASSWORD must be set in production")
		}
		if cfg.AdminToken == "" {
			return nil, fmt.Errorf("ADMIN_TOKEN must be set in production")
		}
	}

	return cfg, nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// ValkeyAddr returns the Valkey address (host:port).
func (c *Config) ValkeyAddr() string {
	return fmt.Sprintf("%s:%s", c.ValkeyHost, c.ValkeyPort)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
