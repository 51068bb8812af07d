package api

import (
	"crypto/subtle"
	"log/slog"
	"net"
	"net/http"

	"zokoai-middleware/internal/ratelimit"
	"zokoai-middleware/pkg/httputil"
)

// livenessPath is exempt from both the access gate and the rate limiter.
const livenessPath = "/"

const apiKeyHeader = "x-api-key"

// APIKeyMiddleware requires the x-api-key header to equal the configured
// shared secret on every route except the liveness probe. No hashing, exact
// compare (constant-time to keep the secret unobservable through timing).
func APIKeyMiddleware(apiKey string) func(http.Handler) http.Handler {
	log := slog.With("component", "access-gate")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == livenessPath {
				next.ServeHTTP(w, r)
				return
			}
			provided := r.Header.Get(apiKeyHeader)
			if subtle.ConstantTimeCompare([]byte(provided), []byte(apiKey)) != 1 {
				log.Warn("unauthorized access attempt",
					"remote_addr", r.RemoteAddr, "path", r.URL.Path)
				httputil.RespondError(w, http.StatusUnauthorized, "Invalid API key")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RateLimitMiddleware bounds request volume per source address. Runs after
// the access gate; the liveness probe is exempt.
func RateLimitMiddleware(limiter *ratelimit.Limiter) func(http.Handler) http.Handler {
	log := slog.With("component", "rate-limit")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == livenessPath {
				next.ServeHTTP(w, r)
				return
			}
			addr := sourceAddr(r)
			if !limiter.Allow(addr) {
				log.Warn("rate limit exceeded", "remote_addr", addr, "path", r.URL.Path)
				httputil.RespondError(w, http.StatusTooManyRequests, "Rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RecoverJSON converts any panic into the generic 500 body, never leaking
// internal detail to the caller.
func RecoverJSON(next http.Handler) http.Handler {
	log := slog.With("component", "recoverer")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				log.Error("panic recovered", "path", r.URL.Path, "panic", rec)
				httputil.RespondError(w, http.StatusInternalServerError, "Internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// sourceAddr extracts the client address. chi's RealIP middleware has
// already rewritten RemoteAddr from X-Forwarded-For / X-Real-IP when
// present; direct connections still carry a port to strip.
func sourceAddr(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
