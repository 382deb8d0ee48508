// Mercatus - Marketplace Directory Aggregation and Storefront API
// Copyright 2026 Mercatus Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mercatushq/mercatus

package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/mercatushq/mercatus/internal/logging"
)

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) *envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("Failed to decode envelope: %v", err)
	}
	return &env
}

func TestResponseWriterSuccess(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/vendors", nil)
	req = req.WithContext(logging.ContextWithRequestID(req.Context(), "req-123"))

	NewResponseWriter(rec, req).Success(map[string]string{"hello": "world"})

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Errorf("Unexpected content type %q", ct)
	}

	env := decodeEnvelope(t, rec)
	if !env.Success || env.Error != nil {
		t.Errorf("Unexpected envelope: %+v", env)
	}
	if env.Meta == nil || env.Meta.RequestID != "req-123" {
		t.Errorf("Expected request ID in meta, got %+v", env.Meta)
	}
}

func TestResponseWriterPagination(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/vendors", nil)

	NewResponseWriter(rec, req).SuccessWithPagination("data", &PaginationMeta{
		Total: 120, TotalPages: 10, CurrentPage: 2, PerPage: 12,
	})

	env := decodeEnvelope(t, rec)
	p := env.Meta.Pagination
	if p == nil || p.Total != 120 || p.TotalPages != 10 || p.CurrentPage != 2 || p.PerPage != 12 {
		t.Errorf("Unexpected pagination: %+v", p)
	}
}

func TestResponseWriterError(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/vendors", nil)

	NewResponseWriter(rec, req).NotFound("Vendor not found")

	if rec.Code != http.StatusNotFound {
		t.Fatalf("Expected 404, got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Success {
		t.Error("Expected success=false")
	}
	if env.Error == nil || env.Error.Code != ErrCodeNotFound || env.Error.Message != "Vendor not found" {
		t.Errorf("Unexpected error: %+v", env.Error)
	}
}

func TestResponseWriterValidationDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/claims", nil)

	NewResponseWriter(rec, req).ValidationError("Invalid form", map[string]string{"email": "Must be a valid email address"})

	env := decodeEnvelope(t, rec)
	if env.Error == nil || env.Error.Code != ErrCodeValidationFailed {
		t.Fatalf("Unexpected error: %+v", env.Error)
	}
	details, ok := env.Error.Details.(map[string]interface{})
	if !ok || details["email"] != "Must be a valid email address" {
		t.Errorf("Unexpected details: %v", env.Error.Details)
	}
}

func TestResponseWriterNoContent(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/cart", nil)

	NewResponseWriter(rec, req).NoContent()

	if rec.Code != http.StatusNoContent {
		t.Errorf("Expected 204, got %d", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("Expected empty body, got %q", rec.Body.String())
	}
}
