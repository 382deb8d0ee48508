// Mercatus - Marketplace Directory Aggregation and Storefront API
// Copyright 2026 Mercatus Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mercatushq/mercatus

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mercatushq/mercatus/internal/middleware"
)

// Router wires the handler set and middleware into a Chi router.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router for the given handler.
func NewRouter(handler *Handler, mw *ChiMiddleware) *Router {
	return &Router{handler: handler, chiMiddleware: mw}
}

// chiMiddleware adapts http.HandlerFunc middleware to Chi's shape.
func chiMiddleware(mw func(http.HandlerFunc) http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return mw(next.ServeHTTP)
	}
}

// Setup configures all HTTP routes.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to all routes in order.
	r.Use(RequestIDWithLogging())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS())

	// Health endpoints get a permissive limit so monitoring probes
	// never exhaust the standard budget.
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitHealth())
		r.Use(APISecurityHeaders())
		r.Get("/", router.handler.Health)
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	// Read endpoints.
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(chiMiddleware(middleware.PrometheusMetrics))

		r.Get("/vendors", router.handler.Vendors)
		r.Get("/vendors/{id}", router.handler.VendorByID)

		r.Get("/reference/categories", router.handler.Categories)
		r.Get("/reference/regions", router.handler.Regions)
		r.Get("/reference/cities", router.handler.Cities)
		r.Get("/reference/countries", router.handler.Countries)
		r.Get("/reference/countries/{code}/states", router.handler.States)

		r.Get("/geocode", router.handler.Geocode)

		r.Get("/cart", router.handler.GetCart)
		r.Post("/cart", router.handler.AddCartItem)
		r.Delete("/cart", router.handler.ClearCart)
		r.Put("/cart/items/{id}", router.handler.UpdateCartItem)
		r.Delete("/cart/items/{id}", router.handler.RemoveCartItem)
		r.Get("/cart/totals", router.handler.CartTotals)
	})

	// Write endpoints: checkout and seller onboarding mutate upstream
	// state, so they carry a stricter rate limit.
	r.Route("/api/v1/checkout", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitWrite())
		r.Use(APISecurityHeaders())
		r.Use(chiMiddleware(middleware.PrometheusMetrics))

		r.Post("/shipping-methods", router.handler.ShippingMethods)
		r.Post("/payment-intent", router.handler.PaymentIntent)
	})

	r.Group(func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitWrite())
		r.Use(APISecurityHeaders())
		r.Use(chiMiddleware(middleware.PrometheusMetrics))

		r.Post("/api/v1/claims", router.handler.SubmitClaim)
		r.Post("/api/v1/listings", router.handler.CreateListing)
	})

	// Prometheus metrics endpoint, outside the API rate limits.
	r.Handle("/metrics", promhttp.Handler())

	return r
}
