// Package api provides the HTTP API for RouteKit.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/routekit/routekit/internal/api/handler"
	"github.com/routekit/routekit/internal/api/middleware"
	"github.com/routekit/routekit/internal/auth"
	"github.com/routekit/routekit/internal/history"
	"github.com/routekit/routekit/internal/route"
	"github.com/routekit/routekit/internal/storage"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version      string
	BuildTime    string
	Logger       zerolog.Logger
	ServiceName  string
	BaseDir      string
	Metrics      *middleware.Metrics
	RouteMetrics *middleware.RoutingMetrics
	Orchestrator *route.Orchestrator
	History      *history.Service
	Verifier     *auth.TokenVerifier
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "routekit-api"
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)
	r.Use(middleware.Tracing(serviceName))
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware())
	}
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.RequireJSON)

	layout := storage.Layout{BaseDir: cfg.BaseDir}
	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime, layout)
	profilesHandler := handler.NewProfilesHandler()
	routeHandler := handler.NewRouteHandler(handler.RouteHandlerConfig{
		Orchestrator: cfg.Orchestrator,
		History:      cfg.History,
		Metrics:      cfg.RouteMetrics,
		BaseDir:      cfg.BaseDir,
		Logger:       cfg.Logger,
	})
	historyHandler := handler.NewHistoryHandler(cfg.History)

	adminAuth := middleware.Auth(cfg.Verifier, "admin")

	expensiveRateLimit := middleware.RateLimitByIP(middleware.ExpensiveRateLimit)
	standardRateLimit := middleware.RateLimitByIP(middleware.StandardRateLimit)

	r.Route("/v1", func(r chi.Router) {
		// Ops endpoints (public)
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
		})

		// Profile catalog (public)
		r.With(standardRateLimit).Get("/profiles", profilesHandler.ListProfiles)

		// Route computation - expensive, tighter rate limit
		r.With(expensiveRateLimit).Post("/routes:compute", routeHandler.ComputeRoute)

		// Admin endpoints (authenticated)
		r.Route("/admin", func(r chi.Router) {
			r.Use(adminAuth)
			r.Use(standardRateLimit)
			r.Get("/routes", historyHandler.ListRoutes)
			r.Get("/routes/{recordId}", historyHandler.GetRoute)
		})
	})

	return r
}
