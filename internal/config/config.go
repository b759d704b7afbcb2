// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Store backends.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

// Admin credential modes.
const (
	AuthStatic  = "static"
	AuthSession = "session"
)

// Development defaults that production refuses.
const (
	defaultDBPassword    = "changeme"
	defaultAdminPassword = "securepassword"
	defaultAuthToken     = "valid_admin_token"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host string
	Port string
	Env  string // "development", "production", "testing"

	// StoreBackend selects where posts and categories live.
	StoreBackend string

	// PostgreSQL connection
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Valkey (Redis-compatible cache). Empty host disables Valkey.
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string
	ValkeyDB       int

	// Admin authentication
	AuthMode         string
	AuthToken        string
	AdminUsername    string
	AdminPassword    string
	AdminDisplayName string
	AdminAvatar      string
	AdminTOTPSecret  string
	SessionTTL       time.Duration
	LoginRateLimit   int           // attempts per minute per client
	SecureCookies    bool

	// TrustProxy honours X-Real-IP / X-Forwarded-For. Only set it when a
	// reverse proxy in front of the server overwrites those headers.
	TrustProxy bool

	// Public API
	CORSOrigins  []string
	APIRateLimit int // requests per minute, 0 disables
	PageCacheTTL time.Duration

	// SeedDemo fills an empty store with demo content at startup.
	SeedDemo bool
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. Returns an error if a value cannot be
// parsed, or if critical values are left at their defaults in production.
func Load() (*Config, error) {
	cfg := &Config{
		Host: envOrDefault("APP_HOST", "0.0.0.0"),
		Port: envOrDefault("APP_PORT", "8080"),
		Env:  envOrDefault("APP_ENV", "development"),

		StoreBackend: envOrDefault("STORE_BACKEND", StoreMemory),

		DBHost:     envOrDefault("POSTGRES_HOST", "localhost"),
		DBPort:     envOrDefault("POSTGRES_PORT", "5432"),
		DBUser:     envOrDefault("POSTGRES_USER", "inkwell"),
		DBPassword: envOrDefault("POSTGRES_PASSWORD", defaultDBPassword),
		DBName:     envOrDefault("POSTGRES_DB", "inkwell"),

		ValkeyHost:     os.Getenv("VALKEY_HOST"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),

		AuthMode:         envOrDefault("AUTH_MODE", AuthStatic),
		AuthToken:        envOrDefault("AUTH_TOKEN", defaultAuthToken),
		AdminUsername:    envOrDefault("ADMIN_USERNAME", "admin"),
		AdminPassword:    envOrDefault("ADMIN_PASSWORD", defaultAdminPassword),
		AdminDisplayName: envOrDefault("ADMIN_DISPLAY_NAME", "Admin"),
		AdminAvatar:      envOrDefault("ADMIN_AVATAR", "/placeholder.svg?height=100&width=100"),
		AdminTOTPSecret:  os.Getenv("ADMIN_TOTP_SECRET"),

		CORSOrigins: splitList(os.Getenv("CORS_ORIGINS")),
	}

	var errs []error
	cfg.ValkeyDB = envInt("VALKEY_DB", 0, &errs)
	cfg.LoginRateLimit = envInt("LOGIN_RATE_LIMIT", 5, &errs)
	cfg.APIRateLimit = envInt("API_RATE_LIMIT", 600, &errs)
	cfg.SessionTTL = envDuration("SESSION_TTL", 24*time.Hour, &errs)
	cfg.PageCacheTTL = envDuration("PAGE_CACHE_TTL", 5*time.Minute, &errs)
	cfg.SeedDemo = envBool("SEED_DEMO", cfg.Env != "production", &errs)
	cfg.SecureCookies = envBool("SECURE_COOKIES", cfg.Env == "production", &errs)
	cfg.TrustProxy = envBool("TRUST_PROXY", false, &errs)

	switch cfg.StoreBackend {
	case StoreMemory, StorePostgres:
	default:
		errs = append(errs, fmt.Errorf("STORE_BACKEND must be %q or %q, got %q", StoreMemory, StorePostgres, cfg.StoreBackend))
	}
	switch cfg.AuthMode {
	case AuthStatic, AuthSession:
	default:
		errs = append(errs, fmt.Errorf("AUTH_MODE must be %q or %q, got %q", AuthStatic, AuthSession, cfg.AuthMode))
	}
	if cfg.AuthMode == AuthSession && !cfg.ValkeyEnabled() {
		errs = append(errs, errors.New("AUTH_MODE=session requires VALKEY_HOST"))
	}

	if cfg.Env == "production" {
		if cfg.StoreBackend == StorePostgres && cfg.DBPassword == defaultDBPassword {
			errs = append(errs, errors.New("POSTGRES_PASSWORD must be set in production"))
		}
		if cfg.AdminPassword == defaultAdminPassword {
			errs = append(errs, errors.New("ADMIN_PASSWORD must be set in production"))
		}
		if cfg.AuthMode == AuthStatic && cfg.AuthToken == defaultAuthToken {
			errs = append(errs, errors.New("AUTH_TOKEN must be set in production"))
		}
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
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

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// ValkeyEnabled reports whether a Valkey host is configured.
func (c *Config) ValkeyEnabled() bool {
	return c.ValkeyHost != ""
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int, errs *[]error) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		*errs = append(*errs, fmt.Errorf("%s must be a non-negative integer, got %q", key, v))
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration, errs *[]error) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		*errs = append(*errs, fmt.Errorf("%s must be a positive duration, got %q", key, v))
		return fallback
	}
	return d
}

func envBool(key string, fallback bool, errs *[]error) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s must be a boolean, got %q", key, v))
		return fallback
	}
	return b
}

// splitList parses a comma-separated list, dropping blanks.
func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
