// Package httptransport assembles the public HTTP surface: middleware chain,
// health and metrics endpoints, and the per-module route registrations.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"certtrack/internal/platform/middleware"
	"certtrack/pkg/platform/httputil"
)

// Registrar is implemented by module handlers that mount their own routes.
type Registrar interface {
	Register(r chi.Router)
}

// HealthChecker reports readiness of one backing dependency.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Deps carries everything the router mounts. Nil health checkers are skipped;
// a nil JWT validator leaves the API unauthenticated (dev mode).
type Deps struct {
	Logger       *slog.Logger
	JWTValidator middleware.JWTValidator

	Handlers []Registrar

	HealthCheckers map[string]HealthChecker

	RequestTimeout time.Duration
}

// NewRouter builds the full server handler.
func NewRouter(deps Deps) http.Handler {
	timeout := deps.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Metadata)
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.Timeout(timeout))

	r.Get("/healthz", healthHandler(deps.HealthCheckers))
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(api chi.Router) {
		api.Use(middleware.ContentTypeJSON)
		if deps.JWTValidator != nil {
			api.Use(middleware.RequireAuth(deps.JWTValidator, deps.Logger))
		}
		for _, handler := range deps.Handlers {
			handler.Register(api)
		}
	})

	return r
}

func healthHandler(checkers map[string]HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := http.StatusOK
		report := make(map[string]string, len(checkers)+1)
		report["status"] = "ok"

		for name, checker := range checkers {
			if checker == nil {
				continue
			}
			if err := checker.Health(r.Context()); err != nil {
				report[name] = err.Error()
				report["status"] = "degraded"
				status = http.StatusServiceUnavailable
				continue
			}
			report[name] = "ok"
		}

		httputil.WriteJSON(w, status, report)
	}
}
