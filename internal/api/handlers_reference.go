// Mercatus - Marketplace Directory Aggregation and Storefront API
// Copyright 2026 Mercatus Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mercatushq/mercatus

package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// Categories handles GET /api/v1/reference/categories. Always non-empty:
// the reference service falls back to its built-in set when the upstream
// is unavailable.
func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(h.reference.Categories(r.Context()))
}

// Regions handles GET /api/v1/reference/regions.
func (h *Handler) Regions(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(h.reference.Regions(r.Context()))
}

// Cities handles GET /api/v1/reference/cities.
func (h *Handler) Cities(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(h.reference.Cities(r.Context()))
}

// Countries handles GET /api/v1/reference/countries.
func (h *Handler) Countries(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	countries, err := h.countries.GetCountries(r.Context())
	if err != nil {
		rw.ExternalServiceError("countries", err)
		return
	}
	rw.Success(countries)
}

// States handles GET /api/v1/reference/countries/{code}/states. For the
// US the client falls back to a built-in state list, so this only fails
// for other countries.
func (h *Handler) States(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	code := strings.ToUpper(chi.URLParam(r, "code"))
	if len(code) != 2 {
		rw.BadRequest("Country code must be two letters")
		return
	}

	states, err := h.countries.GetStates(r.Context(), code)
	if err != nil {
		rw.ExternalServiceError("countries", err)
		return
	}
	rw.Success(states)
}
