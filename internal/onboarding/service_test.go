// Mercatus - Marketplace Directory Aggregation and Storefront API
// Copyright 2026 Mercatus Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mercatushq/mercatus

package onboarding

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mercatushq/mercatus/internal/directory"
	"github.com/mercatushq/mercatus/internal/models"
)

// mockWriter counts upstream calls so tests can assert validation blocks
// submission before any network activity.
type mockWriter struct {
	uploads      int
	claims       int
	listings     int
	uploadErr    error
	claimErr     error
	listingErr   error
	lastProofURL string
}

func (m *mockWriter) UploadMedia(ctx context.Context, file *models.UploadFile) (*models.MediaAsset, error) {
	m.uploads++
	if m.uploadErr != nil {
		return nil, m.uploadErr
	}
	return &models.MediaAsset{ID: "media-1", URL: "https://cdn.example.com/" + file.Filename}, nil
}

func (m *mockWriter) CreateClaim(ctx context.Context, claim *models.ClaimSubmission, proofURL string) (*models.ClaimResult, error) {
	m.claims++
	m.lastProofURL = proofURL
	if m.claimErr != nil {
		return nil, m.claimErr
	}
	return &models.ClaimResult{ID: 301, Status: "pending"}, nil
}

func (m *mockWriter) CreateListing(ctx context.Context, listing *models.ListingSubmission, logoURL, bannerURL string) (*models.ListingResult, error) {
	m.listings++
	if m.listingErr != nil {
		return nil, m.listingErr
	}
	return &models.ListingResult{ID: 401, Slug: "new-listing"}, nil
}

func validClaim() *models.ClaimSubmission {
	return &models.ClaimSubmission{
		PlaceID:      42,
		BusinessName: "Maple Goods",
		ContactName:  "Alex Doe",
		Email:        "alex@example.com",
		Phone:        "555-0100",
		ProofDocument: &models.UploadFile{
			Filename:    "proof.pdf",
			ContentType: "application/pdf",
			Data:        []byte("pdf-bytes"),
		},
	}
}

func validListing() *models.ListingSubmission {
	return &models.ListingSubmission{
		Title:       "Harbor Electronics",
		Description: "Refurbished electronics with warranty.",
		CategoryID:  2,
		Street:      "1 Main St",
		City:        "Portland",
		Region:      "Maine",
		Zip:         "04101",
		Country:     "US",
		Email:       "owner@example.com",
	}
}

func newTestService(writer *mockWriter) *Service {
	return NewService(writer, NewDirectoryMediaStore(writer))
}

func TestSubmitClaimSuccess(t *testing.T) {
	writer := &mockWriter{}
	svc := newTestService(writer)

	result, fieldErrs, err := svc.SubmitClaim(context.Background(), validClaim())
	if err != nil || fieldErrs != nil {
		t.Fatalf("Unexpected failure: %v %v", err, fieldErrs)
	}
	if result.ID != 301 {
		t.Errorf("Unexpected result: %+v", result)
	}
	if writer.uploads != 1 || writer.claims != 1 {
		t.Errorf("Expected upload then claim, got %d uploads, %d claims", writer.uploads, writer.claims)
	}
	if writer.lastProofURL != "https://cdn.example.com/proof.pdf" {
		t.Errorf("Expected proof URL passed to claim, got %q", writer.lastProofURL)
	}
}

func TestSubmitClaimMissingProofBlockedBeforeNetwork(t *testing.T) {
	writer := &mockWriter{}
	svc := newTestService(writer)

	claim := validClaim()
	claim.ProofDocument = nil

	result, fieldErrs, err := svc.SubmitClaim(context.Background(), claim)
	if err != nil {
		t.Fatalf("Expected validation block, not error: %v", err)
	}
	if result != nil {
		t.Error("Expected no result")
	}
	if _, ok := fieldErrs["proofDocument"]; !ok {
		t.Errorf("Expected proofDocument key in error map, got %v", fieldErrs)
	}
	if writer.uploads != 0 || writer.claims != 0 {
		t.Errorf("Expected zero upstream requests, got %d uploads, %d claims", writer.uploads, writer.claims)
	}
}

func TestSubmitClaimFieldValidation(t *testing.T) {
	writer := &mockWriter{}
	svc := newTestService(writer)

	claim := validClaim()
	claim.Email = "not-an-email"
	claim.BusinessName = ""

	_, fieldErrs, err := svc.SubmitClaim(context.Background(), claim)
	if err != nil {
		t.Fatalf("Expected validation block, not error: %v", err)
	}
	for _, key := range []string{"email", "businessName"} {
		if _, ok := fieldErrs[key]; !ok {
			t.Errorf("Expected %s key in error map, got %v", key, fieldErrs)
		}
	}
	if writer.uploads != 0 {
		t.Errorf("Expected no network calls, got %d uploads", writer.uploads)
	}
}

func TestSubmitClaimProofUploadFailureAborts(t *testing.T) {
	writer := &mockWriter{
		uploadErr: &directory.UpstreamError{StatusCode: 413, Message: "file exceeds the maximum size"},
	}
	svc := newTestService(writer)

	_, fieldErrs, err := svc.SubmitClaim(context.Background(), validClaim())
	if fieldErrs != nil {
		t.Fatalf("Expected hard failure, not field errors: %v", fieldErrs)
	}
	if err == nil {
		t.Fatal("Expected error when required upload fails")
	}
	if !strings.Contains(err.Error(), "file exceeds the maximum size") {
		t.Errorf("Expected upstream message surfaced, got %v", err)
	}
	if writer.claims != 0 {
		t.Error("Expected claim creation skipped after failed proof upload")
	}
}

func TestCreateListingSuccess(t *testing.T) {
	writer := &mockWriter{}
	svc := newTestService(writer)

	listing := validListing()
	listing.Logo = &models.UploadFile{Filename: "logo.png", Data: []byte("png")}

	result, fieldErrs, err := svc.CreateListing(context.Background(), listing)
	if err != nil || fieldErrs != nil {
		t.Fatalf("Unexpected failure: %v %v", err, fieldErrs)
	}
	if result.ID != 401 || result.LogoURL == "" {
		t.Errorf("Unexpected result: %+v", result)
	}
	if len(result.Warnings) != 0 {
		t.Errorf("Expected no warnings, got %v", result.Warnings)
	}
}

func TestCreateListingValidationBlocked(t *testing.T) {
	writer := &mockWriter{}
	svc := newTestService(writer)

	listing := validListing()
	listing.Title = ""
	listing.CategoryID = 0

	_, fieldErrs, err := svc.CreateListing(context.Background(), listing)
	if err != nil {
		t.Fatalf("Expected validation block, not error: %v", err)
	}
	for _, key := range []string{"title", "categoryID"} {
		if _, ok := fieldErrs[key]; !ok {
			t.Errorf("Expected %s key in error map, got %v", key, fieldErrs)
		}
	}
	if writer.uploads != 0 || writer.listings != 0 {
		t.Error("Expected no upstream calls on validation failure")
	}
}

func TestCreateListingOptionalUploadDegrades(t *testing.T) {
	writer := &mockWriter{uploadErr: errors.New("storage unavailable")}
	svc := newTestService(writer)

	listing := validListing()
	listing.Logo = &models.UploadFile{Filename: "logo.png", Data: []byte("png")}

	result, fieldErrs, err := svc.CreateListing(context.Background(), listing)
	if err != nil || fieldErrs != nil {
		t.Fatalf("Expected degraded success, got %v %v", err, fieldErrs)
	}
	if result.LogoURL != "" {
		t.Errorf("Expected empty logo URL after failed upload, got %q", result.LogoURL)
	}
	if len(result.Warnings) != 1 || !strings.Contains(result.Warnings[0], "logo") {
		t.Errorf("Expected logo warning, got %v", result.Warnings)
	}
	if writer.listings != 1 {
		t.Error("Expected listing still created")
	}
}
