// Mercatus - Marketplace Directory Aggregation and Storefront API
// Copyright 2026 Mercatus Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mercatushq/mercatus

package api

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mercatushq/mercatus/internal/models"
	"github.com/mercatushq/mercatus/internal/validation"
)

// multipartBody builds a multipart form from fields and in-memory files.
func multipartBody(t *testing.T, fields map[string]string, files map[string][]byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			t.Fatalf("Failed to write field: %v", err)
		}
	}
	for name, data := range files {
		part, err := writer.CreateFormFile(name, name+".bin")
		if err != nil {
			t.Fatalf("Failed to create file part: %v", err)
		}
		if _, err := part.Write(data); err != nil {
			t.Fatalf("Failed to write file part: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Failed to close writer: %v", err)
	}
	return &buf, writer.FormDataContentType()
}

func TestSubmitClaimMultipart(t *testing.T) {
	router, deps := newTestRouter(t)
	deps.onboarding.claimResult = &models.ClaimResult{ID: 301, Status: "pending"}

	body, contentType := multipartBody(t,
		map[string]string{
			"placeID":      "42",
			"businessName": "Maple Goods",
			"contactName":  "Alex Doe",
			"email":        "alex@example.com",
			"phone":        "555-0100",
		},
		map[string][]byte{"proofDocument": []byte("pdf-bytes")},
	)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/claims", body)
	req.Header.Set("Content-Type", contentType)
	rec, env := doRequest(t, router, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var result models.ClaimResult
	decodeData(t, env, &result)
	if result.ID != 301 {
		t.Errorf("Unexpected result: %+v", result)
	}

	claim := deps.onboarding.gotClaim
	if claim == nil || claim.PlaceID != 42 || claim.BusinessName != "Maple Goods" {
		t.Fatalf("Unexpected claim: %+v", claim)
	}
	if claim.ProofDocument == nil || string(claim.ProofDocument.Data) != "pdf-bytes" {
		t.Errorf("Expected proof document forwarded, got %+v", claim.ProofDocument)
	}
}

func TestSubmitClaimValidationDetails(t *testing.T) {
	router, deps := newTestRouter(t)
	deps.onboarding.fieldErrs = validation.FieldErrors{
		"email":         "Must be a valid email address",
		"proofDocument": "A proof document is required",
	}

	body, contentType := multipartBody(t, map[string]string{"businessName": "Maple Goods"}, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/claims", body)
	req.Header.Set("Content-Type", contentType)
	rec, env := doRequest(t, router, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", rec.Code)
	}
	if env.Error == nil || env.Error.Code != ErrCodeValidationFailed {
		t.Fatalf("Expected validation error, got %+v", env.Error)
	}
	details, ok := env.Error.Details.(map[string]interface{})
	if !ok {
		t.Fatalf("Expected field-keyed details, got %T", env.Error.Details)
	}
	if _, present := details["proofDocument"]; !present {
		t.Errorf("Expected proofDocument in details, got %v", details)
	}
}

func TestSubmitClaimRejectsNonMultipart(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/claims", bytes.NewReader([]byte(`{"businessName":"x"}`)))
	req.Header.Set("Content-Type", "application/json")
	rec, _ := doRequest(t, router, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", rec.Code)
	}
}

func TestCreateListingMultipart(t *testing.T) {
	router, deps := newTestRouter(t)
	deps.onboarding.listingResult = &models.ListingResult{
		ID:       401,
		Slug:     "harbor-electronics",
		Warnings: []string{"banner upload failed; the listing was created without it"},
	}

	body, contentType := multipartBody(t,
		map[string]string{
			"title":       "Harbor Electronics",
			"description": "Refurbished electronics with warranty.",
			"categoryID":  "2",
			"street":      "1 Main St",
			"city":        "Portland",
			"region":      "Maine",
			"zip":         "04101",
			"country":     "US",
			"email":       "owner@example.com",
		},
		map[string][]byte{
			"logo":   []byte("png-bytes"),
			"banner": []byte("jpg-bytes"),
		},
	)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/listings", body)
	req.Header.Set("Content-Type", contentType)
	rec, env := doRequest(t, router, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var result models.ListingResult
	decodeData(t, env, &result)
	if result.ID != 401 || len(result.Warnings) != 1 {
		t.Errorf("Unexpected result: %+v", result)
	}

	listing := deps.onboarding.gotListing
	if listing == nil || listing.CategoryID != 2 || listing.Title != "Harbor Electronics" {
		t.Fatalf("Unexpected listing: %+v", listing)
	}
	if listing.Logo == nil || listing.Banner == nil {
		t.Errorf("Expected both uploads forwarded, got logo=%v banner=%v", listing.Logo, listing.Banner)
	}
}

func TestCreateListingWithoutOptionalFiles(t *testing.T) {
	router, deps := newTestRouter(t)
	deps.onboarding.listingResult = &models.ListingResult{ID: 402, Slug: "plain-listing"}

	body, contentType := multipartBody(t, map[string]string{"title": "Plain Listing"}, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/listings", body)
	req.Header.Set("Content-Type", contentType)
	rec, _ := doRequest(t, router, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d", rec.Code)
	}
	if deps.onboarding.gotListing.Logo != nil || deps.onboarding.gotListing.Banner != nil {
		t.Errorf("Expected nil uploads, got %+v", deps.onboarding.gotListing)
	}
}
