package middleware

import (
	"net/http"

	"golang.org/x/time/rate"

	"github.com/arsw/blueprints/internal/api/response"
)

// RateLimitConfig defines rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
	// OnReject is called for every rejected request. Optional.
	OnReject func()
}

// RateLimit creates a global token bucket middleware. Requests over the
// limit receive 429 with the standard envelope.
func RateLimit(cfg RateLimitConfig) func(http.Handler) http.Handler {
	limiter := rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				if cfg.OnReject != nil {
					cfg.OnReject()
				}
				w.Header().Set("Retry-After", "1")
				response.Err(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
