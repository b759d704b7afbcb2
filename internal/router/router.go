// Package router sets up all HTTP routes and middleware chains for the
// Inkwell CMS. It organizes routes into a public read API and a gated
// admin API with appropriate middleware stacks.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"inkwell/internal/auth"
	"inkwell/internal/handlers"
	"inkwell/internal/metrics"
	"inkwell/internal/middleware"
)

// Options carries the cross-cutting settings of the router.
type Options struct {
	CORSOrigins   []string
	APIRateLimit  int                     // requests per minute on /api, 0 disables
	LoginLimiter  *middleware.RateLimiter // per-client limit on POST /admin/login, nil disables
	SecureCookies bool
	TrustProxy    bool // take the client address from X-Real-IP / X-Forwarded-For
	Metrics       *metrics.Metrics
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up. ids loads the admin identity for handlers.
func New(gate *auth.Gate, ids auth.Identifier, admin *handlers.Admin, authH *handlers.Auth, public *handlers.Public, opts Options) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request. RealIP must run before
	// anything reading RemoteAddr, and only behind a proxy that sets the
	// forwarded headers itself.
	if opts.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(chimw.RequestID)
	r.Use(opts.Metrics.Middleware)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.SecureHeaders)
	r.Use(chimw.Heartbeat("/ping"))

	// Health and metrics: no auth, no CSRF.
	r.Get("/health", healthHandler)
	r.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())

	// Public read API.
	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.CORS(opts.CORSOrigins))
		r.Use(middleware.Throttle(opts.APIRateLimit))

		r.Get("/posts", public.Posts)
		r.Get("/posts/{id}", public.Post)
		r.Get("/categories", public.Categories)
	})

	// Admin API. The gate lets /admin/login through and sends everything
	// else without a valid credential back to it.
	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.NoStore)
		r.Use(middleware.NewCSRF(opts.SecureCookies))
		r.Use(middleware.RequireAuth(gate, ids))

		r.Get("/login", authH.LoginPage)
		if opts.LoginLimiter != nil {
			r.With(opts.LoginLimiter.Middleware).Post("/login", authH.LoginSubmit)
		} else {
			r.Post("/login", authH.LoginSubmit)
		}
		r.Post("/logout", authH.Logout)
		r.Get("/2fa/qr", authH.TwoFAQR)

		// Dashboard
		r.Get("/", admin.Dashboard)
		r.Get("/dashboard", admin.Dashboard)

		// Posts
		r.Route("/posts", func(r chi.Router) {
			r.Get("/", admin.PostsList)
			r.Post("/", admin.PostCreate)
			r.Put("/order", admin.PostsReorder)
			r.Get("/{id}", admin.PostGet)
			r.Put("/{id}", admin.PostUpdate)
			r.Delete("/{id}", admin.PostDelete)
		})

		// Categories
		r.Route("/categories", func(r chi.Router) {
			r.Get("/", admin.CategoriesList)
			r.Post("/", admin.CategoryCreate)
			r.Put("/{id}", admin.CategoryUpdate)
			r.Delete("/{id}", admin.CategoryDelete)
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
