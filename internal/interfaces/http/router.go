// Package http exposes the dashboard over HTTP.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/turtacn/themedash/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/themedash/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/themedash/internal/interfaces/http/handlers"
	"github.com/turtacn/themedash/internal/interfaces/http/middleware"
)

// RouterConfig aggregates the handler and middleware dependencies of the
// route tree.
type RouterConfig struct {
	// Handlers
	ChartHandler  *handlers.ChartHandler
	HealthHandler *handlers.HealthHandler

	// Middleware
	Logging middleware.LoggingConfig

	// Infrastructure
	Logger           logging.Logger
	Metrics          *prometheus.AppMetrics
	MetricsCollector prometheus.MetricsCollector
	MetricsPath      string
}

// NewRouter constructs the complete HTTP route tree.
func NewRouter(cfg RouterConfig) http.Handler {
	if cfg.Logger == nil {
		cfg.Logger = logging.NewNopLogger()
	}
	if cfg.MetricsPath == "" {
		cfg.MetricsPath = "/metrics"
	}

	r := chi.NewRouter()

	// --- Global middleware (applied to every request) ---
	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogging(cfg.Logger.Named("http"), cfg.Logging))
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics(cfg.Metrics))

	r.NotFound(handlers.NotFound)

	// --- Health ---
	if cfg.HealthHandler != nil {
		r.Get("/healthz", cfg.HealthHandler.Liveness)
		r.Get("/readyz", cfg.HealthHandler.Readiness)
	}

	if cfg.MetricsCollector != nil {
		r.Handle(cfg.MetricsPath, cfg.MetricsCollector.Handler())
	}

	registerChartRoutes(r, cfg.ChartHandler)
	return r
}

// registerChartRoutes mounts the page and the chart API.
func registerChartRoutes(r chi.Router, h *handlers.ChartHandler) {
	if h == nil {
		return
	}
	r.Get("/", h.Index)
	r.Route(h.APIPrefix(), func(cr chi.Router) {
		cr.Get("/", h.List)
		cr.Route("/{name}", func(item chi.Router) {
			item.Get("/figure", h.Figure)
			item.Get("/counts", h.Counts)
			item.Get("/image.png", h.Image)
		})
	})
}
