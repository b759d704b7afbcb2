// Package main is the entry point for the Inkwell CMS server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"inkwell/internal/auth"
	"inkwell/internal/cache"
	"inkwell/internal/config"
	"inkwell/internal/content"
	"inkwell/internal/database"
	"inkwell/internal/handlers"
	"inkwell/internal/metrics"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/router"
	"inkwell/internal/session"
	"inkwell/internal/store"
)

func main() {
	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Structured logger: JSON in production, text in development.
	slog.SetDefault(newLogger(cfg))

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"store", cfg.StoreBackend,
		"auth_mode", cfg.AuthMode,
		"valkey", cfg.ValkeyEnabled(),
		"trust_proxy", cfg.TrustProxy,
	)

	ctx := context.Background()

	// Content stores: in-memory by default, PostgreSQL when configured.
	var (
		posts      store.Posts
		categories store.Categories
		db         *sql.DB
	)
	switch cfg.StoreBackend {
	case config.StorePostgres:
		db, err = database.Connect(ctx, cfg.DSN())
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		if err := database.Migrate(db); err != nil {
			slog.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}
		posts, categories = store.NewPostStore(db), store.NewCategoryStore(db)
	default:
		posts, categories = store.NewMemoryPostStore(), store.NewMemoryCategoryStore()
		slog.Warn("using in-memory store, content is lost on restart")
	}

	svc := content.New(posts, categories)

	// Seed demo content (no-op if data already exists).
	if cfg.SeedDemo {
		if err := content.Seed(ctx, svc); err != nil {
			slog.Error("failed to seed content", "error", err)
			os.Exit(1)
		}
	}

	// Metrics: OpenTelemetry instruments exported in Prometheus format.
	m, err := metrics.Setup("inkwell")
	if err != nil {
		slog.Error("failed to initialize metrics", "error", err)
		os.Exit(1)
	}

	// Connect to Valkey (optional: sessions and the public page cache).
	var (
		valkeyClient *redis.Client
		pageCache    *cache.PageCache
	)
	if cfg.ValkeyEnabled() {
		valkeyClient, err = cache.ConnectValkey(ctx, cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword, cfg.ValkeyDB)
		if err != nil {
			slog.Error("failed to connect to valkey", "error", err)
			os.Exit(1)
		}
		defer valkeyClient.Close()
		pageCache = cache.NewPageCache(valkeyClient, cfg.PageCacheTTL).WithRecorder(m)
	} else {
		slog.Warn("valkey not configured, page cache disabled")
	}

	// Admin identity and credential provider.
	identity := models.Identity{
		Username:    cfg.AdminUsername,
		DisplayName: cfg.AdminDisplayName,
		Avatar:      cfg.AdminAvatar,
	}
	authn, err := auth.NewAuthenticator(identity, cfg.AdminPassword, cfg.AdminTOTPSecret)
	if err != nil {
		slog.Error("failed to initialize authenticator", "error", err)
		os.Exit(1)
	}

	var provider auth.Provider
	switch cfg.AuthMode {
	case config.AuthSession:
		provider = session.NewStore(valkeyClient, cfg.SessionTTL)
	default:
		provider = auth.NewStaticToken(cfg.AuthToken, identity)
		slog.Warn("using the static admin token, suitable for single-operator installs only")
	}
	gate := auth.NewGate("/admin", "/admin/login", provider)

	// Per-client login throttle. LOGIN_RATE_LIMIT=0 turns it off.
	var loginLimiter *middleware.RateLimiter
	if cfg.LoginRateLimit > 0 {
		loginLimiter = middleware.NewRateLimiter(cfg.LoginRateLimit, time.Minute)
		defer loginLimiter.Stop()
	}

	// Create handler groups with their dependencies.
	adminHandlers := handlers.NewAdmin(svc, pageCache, m)
	authHandlers := handlers.NewAuth(authn, provider, cfg.SessionTTL, cfg.SecureCookies)
	publicHandlers := handlers.NewPublic(svc, pageCache, m)

	// Set up the Chi router with all middleware and routes.
	r := router.New(gate, provider, adminHandlers, authHandlers, publicHandlers, router.Options{
		CORSOrigins:   cfg.CORSOrigins,
		APIRateLimit:  cfg.APIRateLimit,
		LoginLimiter:  loginLimiter,
		SecureCookies: cfg.SecureCookies,
		TrustProxy:    cfg.TrustProxy,
		Metrics:       m,
	})

	// Create the HTTP server with sensible timeouts.
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	// Give active requests up to 30 seconds to complete.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
	}
	if err := m.Shutdown(shutdownCtx); err != nil {
		slog.Error("metrics shutdown failed", "error", err)
	}

	slog.Info("server stopped gracefully")
}

// newLogger returns a JSON logger at info level in production and a text
// logger at debug level otherwise.
func newLogger(cfg *config.Config) *slog.Logger {
	if cfg.Env == "production" {
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}
