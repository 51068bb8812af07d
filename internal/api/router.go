package api

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"zokoai-middleware/internal/handlers"
	"zokoai-middleware/internal/ratelimit"
)

// RouterDependencies holds everything the router setup needs: handlers, the
// shared secret for the access gate and the rate limiter instance.
type RouterDependencies struct {
	WebhookHandler   *handlers.WebhookHandler
	SystemHandler    *handlers.SystemHandlers
	BroadcastHandler *handlers.BroadcastHandler
	APIKey           string
	Limiter          *ratelimit.Limiter
}

// NewRouter creates and configures the main chi router.
func NewRouter(deps RouterDependencies) *chi.Mux {
	r := chi.NewRouter()

	// --- Base Middleware Stack ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP) // gate and limiter key off the real client address
	r.Use(middleware.Logger)
	r.Use(RecoverJSON)
	r.Use(middleware.Timeout(60 * time.Second))

	// The relay serves provider webhooks, not browsers; the permissive CORS
	// policy mirrors what the service has always allowed.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "x-api-key"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Access gate, then rate limiter; both exempt the liveness path.
	r.Use(APIKeyMiddleware(deps.APIKey))
	r.Use(RateLimitMiddleware(deps.Limiter))

	r.Get("/", deps.SystemHandler.HandleHealth)
	r.Get("/test-store", deps.SystemHandler.HandleStoreDiagnostics)
	r.Post("/webhook/zoko", deps.WebhookHandler.HandleZokoWebhook)
	r.Post("/broadcast/promo", deps.BroadcastHandler.HandleTriggerBroadcast)

	return r
}
