// Package httptransport assembles the public HTTP surface: the auth
// endpoints, the gatekeeper over protected paths, and the operational
// endpoints for probes and metrics.
package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"medgate/internal/authgate/gatekeeper"
	"medgate/internal/authgate/handler"
	"medgate/internal/platform/health"
	"medgate/internal/platform/middleware"
	jsonResponse "medgate/internal/transport/http/json"
)

// RouterDeps carries everything the router needs wired in from main.
type RouterDeps struct {
	AuthHandler *handler.Handler
	Gatekeeper  *gatekeeper.Gatekeeper
	Health      *health.Handler
	Logger      *slog.Logger
}

// NewRouter wires all public endpoints with middleware. The gatekeeper sits
// outermost among route-level concerns so protected paths are checked before
// any handler runs.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.ContentTypeJSON)
	r.Use(deps.Gatekeeper.Middleware)

	deps.AuthHandler.Register(r)
	deps.Health.Register(r)
	r.Handle("/metrics", promhttp.Handler())

	// Protected paths resolve here once the gatekeeper has admitted the
	// request. The clinical frontend is served separately; this endpoint
	// lets it learn who the session belongs to.
	r.Get("/app/session", handleSessionInfo)

	return r
}

func handleSessionInfo(w http.ResponseWriter, r *http.Request) {
	claims, ok := gatekeeper.SessionFromContext(r.Context())
	if !ok {
		// Only reachable if /app is removed from the protected prefixes.
		http.Error(w, "no session", http.StatusUnauthorized)
		return
	}
	jsonResponse.WriteJSON(w, http.StatusOK, map[string]any{
		"email":         claims.Email,
		"name":          claims.Name,
		"authorized_at": claims.AuthorizedAt.Time.UTC().Format(time.RFC3339),
	})
}
