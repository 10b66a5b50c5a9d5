// Package httptransport composes the public HTTP surface: the middleware
// chain, the health and metrics endpoints, and the versioned estate API.
// It owns no business logic; handlers and services are injected.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	estatehandler "github.com/CoolCerebralTech/Mirathi-System-sub006/internal/estate/handler"
	"github.com/CoolCerebralTech/Mirathi-System-sub006/internal/platform/metrics"
	"github.com/CoolCerebralTech/Mirathi-System-sub006/internal/platform/middleware"
	"github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/platform/httputil"
	"github.com/CoolCerebralTech/Mirathi-System-sub006/pkg/requestcontext"
)

// HealthCheck pings one dependency. A nil error means ready.
type HealthCheck func(ctx context.Context) error

// Deps carries everything the router mounts.
type Deps struct {
	Estates        *estatehandler.Handler
	TokenValidator middleware.JWTValidator
	Logger         *slog.Logger
	Metrics        *metrics.Metrics
	RequestTimeout time.Duration

	// ReadyChecks gate /readyz; keys name the dependency in the response.
	ReadyChecks map[string]HealthCheck
}

// readyCheckTimeout bounds the whole readiness sweep so a hung dependency
// cannot stall the probe.
const readyCheckTimeout = 5 * time.Second

// NewRouter assembles the HTTP entrypoint. Health and metrics endpoints are
// served outside authentication; everything under /v1 requires a bearer
// token.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	// RequestID runs first so every later log line, panic included, can be
	// correlated.
	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestTime)
	r.Use(middleware.ClientMetadata)
	r.Use(middleware.Logger(deps.Logger))
	if deps.RequestTimeout > 0 {
		r.Use(middleware.Timeout(deps.RequestTimeout))
	}
	r.Use(middleware.ContentTypeJSON)
	r.Use(middleware.LatencyMiddleware(deps.Metrics))

	r.Get("/healthz", handleHealthz)
	r.Get("/readyz", handleReadyz(deps.Logger, deps.ReadyChecks))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/v1", func(api chi.Router) {
		api.Use(middleware.RequireAuth(deps.TokenValidator, deps.Logger, deps.Metrics))
		deps.Estates.Register(api)
	})

	return r
}

func handleHealthz(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReadyz sweeps every registered dependency and reports the failures
// by name, so an operator can tell a dead database from a dead broker
// without shelling into the pod.
func handleReadyz(logger *slog.Logger, checks map[string]HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readyCheckTimeout)
		defer cancel()

		failures := make(map[string]string)
		for name, check := range checks {
			if err := check(ctx); err != nil {
				failures[name] = err.Error()
			}
		}

		if len(failures) > 0 {
			for name, reason := range failures {
				logger.WarnContext(r.Context(), "readiness check failed",
					"request_id", requestcontext.RequestID(r.Context()),
					"dependency", name,
					"error", reason,
				)
			}
			httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]any{
				"status":   "unavailable",
				"failures": failures,
			})
			return
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}
