// Mercatus - Marketplace Directory Aggregation and Storefront API
// Copyright 2026 Mercatus Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mercatushq/mercatus

package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/mercatushq/mercatus/internal/geo"
)

// Geocode handles GET /api/v1/geocode?q=. Resolution uses the first
// match only; the response hints sort=distance so the client reorders
// by proximity once a location is known.
func (h *Handler) Geocode(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		rw.BadRequest("Query parameter q is required")
		return
	}

	loc, err := h.geocoder.Resolve(r.Context(), query)
	if err != nil {
		if errors.Is(err, geo.ErrNotFound) {
			rw.NotFound("Location not found. Try a city name or postal code.")
			return
		}
		rw.ExternalServiceError("geocoding", err)
		return
	}

	rw.Success(map[string]interface{}{
		"latitude":     loc.Latitude,
		"longitude":    loc.Longitude,
		"display_name": loc.DisplayName,
		"sort":         "distance",
	})
}
