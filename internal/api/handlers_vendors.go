// Mercatus - Marketplace Directory Aggregation and Storefront API
// Copyright 2026 Mercatus Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mercatushq/mercatus

package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mercatushq/mercatus/internal/directory"
	"github.com/mercatushq/mercatus/internal/vendors"
)

// Vendors handles GET /api/v1/vendors.
//
// Page and category drive the upstream fetch; search, region, city,
// min_rating, and selected are applied to the fetched page, and lat/lon
// annotate distances. Upstream failures surface as an empty page, never
// an error.
func (h *Handler) Vendors(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	req, fieldErrs := parseVendorsRequest(r, h.cfg.API.DefaultPageSize, h.cfg.API.MaxPageSize)
	if fieldErrs != nil {
		rw.ValidationError("Invalid query parameters", fieldErrs)
		return
	}

	page := h.vendors.ListPage(r.Context(), req.Page, req.PerPage, req.Category,
		req.Filters(), req.SortMode(), req.Location())

	rw.SuccessWithPagination(map[string]interface{}{
		"vendors": page.Vendors,
		"sort":    string(req.SortMode()),
	}, &PaginationMeta{
		Total:       page.Total,
		TotalPages:  page.TotalPages,
		CurrentPage: page.CurrentPage,
		PerPage:     page.PerPage,
	})
}

// VendorByID handles GET /api/v1/vendors/{id}.
func (h *Handler) VendorByID(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		rw.BadRequest("Vendor ID must be a positive integer")
		return
	}

	var loc *vendors.UserLocation
	if req, fieldErrs := parseVendorsRequest(r, h.cfg.API.DefaultPageSize, h.cfg.API.MaxPageSize); fieldErrs == nil {
		loc = req.Location()
	}

	vendor, err := h.vendors.GetVendor(r.Context(), id, loc)
	if err != nil {
		var upstreamErr *directory.UpstreamError
		if errors.As(err, &upstreamErr) && upstreamErr.StatusCode == http.StatusNotFound {
			rw.NotFound("Vendor not found")
			return
		}
		rw.ExternalServiceError("directory", err)
		return
	}

	rw.Success(vendor)
}
