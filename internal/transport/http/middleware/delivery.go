package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-push-relay/internal/pkg/id"
)

// DeliveryHeader carries the delivery ID back to the caller.
const DeliveryHeader = "X-Delivery-Id"

// Delivery tags every request with a ULID delivery ID, stores a request-scoped
// logger in the context and logs one line when the request completes.
func Delivery(base *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			deliveryID := id.NewDeliveryID()
			w.Header().Set(DeliveryHeader, deliveryID)

			logger := base.With("delivery_id", deliveryID)
			if reqID := chimiddleware.GetReqID(r.Context()); reqID != "" {
				logger = logger.With("request_id", reqID)
			}

			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r.WithContext(log.WithContext(r.Context(), logger)))

			logger.Info("request handled",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
			)
		})
	}
}

// LoggerFromContext returns the request-scoped logger, or the default logger.
func LoggerFromContext(ctx context.Context) *log.Logger {
	return log.FromContext(ctx)
}
