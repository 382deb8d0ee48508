// Mercatus - Marketplace Directory Aggregation and Storefront API
// Copyright 2026 Mercatus Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mercatushq/mercatus

// HTTP request validation structs with go-playground/validator tags,
// checked before any upstream work happens.
package api

import (
	"net/http"
	"strconv"

	"github.com/mercatushq/mercatus/internal/validation"
	"github.com/mercatushq/mercatus/internal/vendors"
)

// VendorsRequest represents the validated query parameters for the
// /vendors endpoint. Page and category drive the upstream fetch; the
// remaining filters are applied to the fetched page only.
type VendorsRequest struct {
	Page      int     `validate:"min=1"`
	PerPage   int     `validate:"min=1,max=100"`
	Category  string  `validate:"omitempty,max=100"`
	Search    string  `validate:"omitempty,max=200"`
	Region    string  `validate:"omitempty,max=100"`
	City      string  `validate:"omitempty,max=100"`
	MinRating float64 `validate:"min=0,max=5"`
	Sort      string  `validate:"omitempty,oneof=rating name distance"`
	Lat       float64 `validate:"omitempty,latitude"`
	Lon       float64 `validate:"omitempty,longitude"`
	Selected  string  `validate:"omitempty,max=32"`

	hasLocation bool
}

// parseVendorsRequest extracts and validates the vendors list parameters.
func parseVendorsRequest(r *http.Request, defaultPerPage, maxPerPage int) (*VendorsRequest, validation.FieldErrors) {
	q := r.URL.Query()

	req := &VendorsRequest{
		Page:      getIntParam(r, "page", 1),
		PerPage:   getIntParam(r, "per_page", defaultPerPage),
		Category:  q.Get("category"),
		Search:    q.Get("search"),
		Region:    q.Get("region"),
		City:      q.Get("city"),
		MinRating: getFloatParam(r, "min_rating", 0),
		Sort:      q.Get("sort"),
		Selected:  q.Get("selected"),
	}
	if req.PerPage > maxPerPage {
		req.PerPage = maxPerPage
	}

	latStr, lonStr := q.Get("lat"), q.Get("lon")
	if latStr != "" && lonStr != "" {
		lat, latErr := strconv.ParseFloat(latStr, 64)
		lon, lonErr := strconv.ParseFloat(lonStr, 64)
		if latErr != nil || lonErr != nil {
			return nil, validation.FieldErrors{"lat": "Must be a coordinate pair of numbers"}
		}
		req.Lat, req.Lon = lat, lon
		req.hasLocation = true
	}

	if errs := validation.ValidateStruct(req); errs != nil {
		return nil, errs
	}
	return req, nil
}

// Filters converts the request into the pipeline's filter set.
func (req *VendorsRequest) Filters() vendors.Filters {
	return vendors.Filters{
		Search:     req.Search,
		Region:     req.Region,
		City:       req.City,
		MinRating:  req.MinRating,
		SelectedID: req.Selected,
	}
}

// Location returns the client coordinates, or nil when none were supplied.
func (req *VendorsRequest) Location() *vendors.UserLocation {
	if !req.hasLocation {
		return nil
	}
	return &vendors.UserLocation{Latitude: req.Lat, Longitude: req.Lon}
}

// SortMode resolves the sort parameter. A client location without an
// explicit sort implies distance ordering.
func (req *VendorsRequest) SortMode() vendors.SortMode {
	if req.Sort == "" && req.hasLocation {
		return vendors.SortByDistance
	}
	return vendors.ParseSortMode(req.Sort)
}

// getIntParam extracts an integer query parameter with a default.
func getIntParam(r *http.Request, name string, defaultValue int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return defaultValue
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return defaultValue
	}
	return v
}

// getFloatParam extracts a float query parameter with a default.
func getFloatParam(r *http.Request, name string, defaultValue float64) float64 {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return defaultValue
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return defaultValue
	}
	return v
}
