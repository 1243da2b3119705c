// Package httptransport assembles the HTTP surface: middleware stack, role
// flow endpoints, session state, health probes, and metrics.
package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	credentialhandler "vocert/internal/credential/handler"
	"vocert/internal/platform/health"
	"vocert/internal/platform/middleware"
	sessionhandler "vocert/internal/session/handler"
)

// Deps carries everything the router mounts.
type Deps struct {
	Credentials *credentialhandler.Handler
	Session     *sessionhandler.Handler
	Health      *health.Handler
	Verifier    middleware.TokenVerifier
	Logger      *slog.Logger
}

// NewRouter wires all public endpoints with middleware.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.ContentTypeJSON)
	r.Use(middleware.Identity(deps.Verifier, deps.Logger))

	deps.Credentials.Register(r)
	deps.Session.Register(r)
	deps.Health.Register(r)

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}
