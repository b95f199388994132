package http

import (
	"github.com/charmbracelet/log"
	"github.com/go-push-relay/internal/application/reply"
	jwtinfra "github.com/go-push-relay/internal/infrastructure/jwt"
	"github.com/prometheus/client_golang/prometheus"
)

// Deps holds everything the router wires into handlers.
type Deps struct {
	Notifier reply.Service
	// JWTProvider is nil when webhook authentication is disabled.
	JWTProvider *jwtinfra.Provider
	// Gatherer backs /metrics. Nil disables the endpoint.
	Gatherer prometheus.Gatherer
	Logger   *log.Logger
}
