// Mercatus - Marketplace Directory Aggregation and Storefront API
// Copyright 2026 Mercatus Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mercatushq/mercatus

package models

// UploadFile is an in-memory file received from a multipart form, headed
// for the media store.
type UploadFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ClaimSubmission is a seller's request to claim an existing listing.
// ProofDocument is required; submission is rejected before any upstream
// call when it is missing.
type ClaimSubmission struct {
	PlaceID       int    `json:"place_id"`
	BusinessName  string `json:"business_name"`
	ContactName   string `json:"contact_name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Message       string `json:"message,omitempty"`
	ProofDocument *UploadFile
}

// ListingSubmission is a seller's request to create a new listing. Logo and
// Banner are optional; their upload failures degrade with a warning instead
// of aborting.
type ListingSubmission struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	CategoryID  int    `json:"category_id"`
	Street      string `json:"street"`
	City        string `json:"city"`
	Region      string `json:"region"`
	Zip         string `json:"zip"`
	Country     string `json:"country"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	Website     string `json:"website,omitempty"`
	Logo        *UploadFile
	Banner      *UploadFile
}

// MediaAsset is the stored result of a media upload.
type MediaAsset struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// ClaimResult is the upstream record created for an accepted claim.
type ClaimResult struct {
	ID       int    `json:"id"`
	Status   string `json:"status"`
	ProofURL string `json:"proof_url,omitempty"`
}

// ListingResult is the upstream record created for a new listing. Warnings
// carries non-fatal upload degradations (logo or banner skipped).
type ListingResult struct {
	ID        int      `json:"id"`
	Slug      string   `json:"slug"`
	LogoURL   string   `json:"logo_url,omitempty"`
	BannerURL string   `json:"banner_url,omitempty"`
	Warnings  []string `json:"warnings,omitempty"`
}
