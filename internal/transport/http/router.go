package http

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-push-relay/internal/config"
	"github.com/go-push-relay/internal/metrics"
	"github.com/go-push-relay/internal/transport/http/handler"
	appmiddleware "github.com/go-push-relay/internal/transport/http/middleware"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = log.Default()
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(appmiddleware.Delivery(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	var authMw func(http.Handler) http.Handler
	if deps.JWTProvider != nil {
		authMw = appmiddleware.Auth(deps.JWTProvider)
	} else {
		authMw = func(next http.Handler) http.Handler { return next }
	}
	roleMw := func(next http.Handler) http.Handler { return next }
	if deps.JWTProvider != nil && cfg.WebhookRequiredRole != "" {
		roleMw = appmiddleware.RequireRole(cfg.WebhookRequiredRole)
	}

	healthH := handler.NewHealthHandler()
	webhookH := handler.NewWebhookHandler(deps.Notifier)

	r.Get("/v1/health-check/{action}", healthH.Ping)
	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", metrics.NewHandler(deps.Gatherer))
	}

	// ── Webhook routes ───────────────────────────────────────────────────
	r.Group(func(r chi.Router) {
		r.Use(authMw, roleMw)

		r.Post("/", webhookH.Handle)
		r.Post("/v1/webhooks/story-replies", webhookH.Handle)
	})

	return r
}
