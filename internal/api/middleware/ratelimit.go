package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/utils/response"
)

type RateLimiter interface {
	// Allow returns isAllowed, attempts left, seconds to wait.
	Allow(ctx context.Context, key string) (bool, int, int, error)
}

// RateLimit throttles a route per key. Limiter failures let the request
// through so a Redis outage does not take the route down.
func RateLimit(limiter RateLimiter, scope string, keyFunc func(*http.Request) string) func(http.Handler) http.HandlerFunc {
	return func(next http.Handler) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {

			logger := LoggerFromContext(r.Context())

			allowed, remaining, retryAfter, err := limiter.Allow(r.Context(), scope+":"+keyFunc(r))
			if err != nil {
				logger.Error("Rate limit check failed", slog.String("scope", scope), slog.String("error", err.Error()))
				next.ServeHTTP(w, r)
				return
			}

			if !allowed {
				logger.Warn("Rate limit exceeded", slog.String("scope", scope))
				response.Error(w, errors.TooManyRequestsError("Too many attempts. Please try again later.").WithRetryAfter(retryAfter))
				return
			}

			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			next.ServeHTTP(w, r)
		}
	}
}
