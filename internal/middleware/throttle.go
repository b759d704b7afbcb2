package middleware

import (
	"net/http"

	"golang.org/x/time/rate"
)

// Throttle caps the whole wrapped surface at rpm requests per minute with a
// burst of a sixth of that. It protects the public read API from scraping
// bursts; per-client limiting of logins is RateLimiter's job. rpm <= 0
// disables throttling.
func Throttle(rpm int) func(http.Handler) http.Handler {
	if rpm <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	limiter := rate.NewLimiter(rate.Limit(float64(rpm)/60.0), max(1, rpm/6))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				writeError(w, http.StatusTooManyRequests, "Rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
