// Mercatus - Marketplace Directory Aggregation and Storefront API
// Copyright 2026 Mercatus Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mercatushq/mercatus

package api

import (
	"net/http"
	"time"
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

var serverStart = time.Now()

// Health handles GET /api/v1/health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]interface{}{
		"status":         "healthy",
		"version":        Version,
		"uptime_seconds": int64(time.Since(serverStart).Seconds()),
	})
}

// HealthLive handles GET /api/v1/health/live. Liveness only asserts the
// process is serving requests.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]string{"status": "alive"})
}

// HealthReady handles GET /api/v1/health/ready. The service has no local
// state to warm up, and upstream outages degrade to fallbacks rather than
// failures, so readiness tracks liveness.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]string{"status": "ready"})
}
