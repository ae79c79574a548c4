// Arcana - Tarot Reading Content Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/arcana

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/arcana/internal/middleware"
)

// Router wires a Handler into a chi mux.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter returns a Router. A nil mw uses the default middleware
// configuration.
func NewRouter(handler *Handler, mw *ChiMiddleware) *Router {
	if mw == nil {
		mw = NewChiMiddleware(nil)
	}
	return &Router{handler: handler, chiMiddleware: mw}
}

// SetupChi builds the HTTP handler.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied in order
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.AccessLog)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS()) // must be global to answer OPTIONS preflight
	r.Use(middleware.PrometheusMetrics)

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		respondError(w, req, http.StatusNotFound, CodeNotFound, "Not Found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		respondError(w, req, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method Not Allowed", nil)
	})

	r.Get("/health", router.handler.Health)
	r.Handle("/metrics", promhttp.Handler())

	// The mobile client calls /api/...; the bare paths are kept for
	// direct use. Both share one limiter.
	routes := router.routes(router.chiMiddleware.RateLimit())
	r.Route("/api", routes)
	r.Group(routes)

	return r
}

func (router *Router) routes(limiter func(http.Handler) http.Handler) func(chi.Router) {
	return func(r chi.Router) {
		r.Use(limiter)
		r.Use(APISecurityHeaders())
		r.Use(chimiddleware.Compress(5, "application/json"))
		router.mount(r)
	}
}

func (router *Router) mount(r chi.Router) {
	h := router.handler
	r.Get("/", h.Root)
	r.Get("/cards", h.ListCards)
	r.Get("/cards/{id}", h.GetCard)
	r.Get("/cards/{id}/image", h.GetCardImage)
	r.Get("/reading-types", h.ListReadingTypes)
	r.Post("/reading/{readingType}", h.CreateReading)
	r.Get("/readings", h.ListReadings)
	r.Post("/log", h.LogEvents)
}
