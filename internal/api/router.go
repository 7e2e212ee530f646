// Warden - JWT Issuance and Verification Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/warden

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/warden/internal/auth"
	"github.com/tomtom215/warden/internal/middleware"
)

// RouterConfig holds the components mounted by Router.
type RouterConfig struct {
	// Filter guards /api/v1. Required.
	Filter *auth.Filter
	// TokenHandler serves POST /auth/jwt/create. Required.
	TokenHandler http.Handler
	// Middleware provides CORS and rate limiting. Nil uses defaults.
	Middleware *ChiMiddleware
	// MetricsGuard wraps /metrics when set.
	MetricsGuard func(http.Handler) http.Handler
	// AdminGuard wraps /api/v1/admin when set. Used when no policy
	// introspector protects the admin routes.
	AdminGuard func(http.Handler) http.Handler
}

// Router sets up HTTP routes using Chi router.
type Router struct {
	handler       *Handler
	filter        *auth.Filter
	tokenHandler  http.Handler
	chiMiddleware *ChiMiddleware
	metricsGuard  func(http.Handler) http.Handler
	adminGuard    func(http.Handler) http.Handler
}

// NewRouter creates a Router.
func NewRouter(handler *Handler, cfg RouterConfig) *Router {
	mw := cfg.Middleware
	if mw == nil {
		mw = NewChiMiddleware(nil)
	}
	return &Router{
		handler:       handler,
		filter:        cfg.Filter,
		tokenHandler:  cfg.TokenHandler,
		chiMiddleware: mw,
		metricsGuard:  cfg.MetricsGuard,
		adminGuard:    cfg.AdminGuard,
	}
}

// SetupChi configures all HTTP routes.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to all routes in order.
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.SecurityHeaders)
	r.Use(router.chiMiddleware.CORS()) // CORS must be global to handle OPTIONS preflight
	r.Use(middleware.PrometheusMetrics)

	r.Route("/health", func(r chi.Router) {
		r.Get("/", router.handler.Health)
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	metrics := promhttp.Handler()
	if router.metricsGuard != nil {
		metrics = router.metricsGuard(metrics)
	}
	r.Method(http.MethodGet, "/metrics", metrics)

	r.Route("/auth", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Method(http.MethodPost, "/jwt/create", router.tokenHandler)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(router.filter.Middleware)

		r.Get("/me", router.handler.Me)

		r.Route("/admin/users", func(r chi.Router) {
			if router.adminGuard != nil {
				r.Use(router.adminGuard)
			}
			r.Get("/", router.handler.ListUsers)
			r.Get("/{username}", router.handler.GetUser)
			r.Put("/{username}", router.handler.PutUser)
			r.Delete("/{username}", router.handler.DeleteUser)
		})
	})

	return r
}
