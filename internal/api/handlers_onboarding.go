// Mercatus - Marketplace Directory Aggregation and Storefront API
// Copyright 2026 Mercatus Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mercatushq/mercatus

package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/mercatushq/mercatus/internal/models"
)

const (
	// maxUploadBytes bounds a whole multipart submission.
	maxUploadBytes = 32 << 20

	// multipartMemory is how much of a parsed form stays in memory
	// before spilling to temp files.
	multipartMemory = 10 << 20
)

// SubmitClaim handles POST /api/v1/claims (multipart). Validation
// failures come back as a field-keyed map with no upstream call made;
// the proof document is required and its upload failure aborts the claim.
func (h *Handler) SubmitClaim(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		rw.BadRequest("Invalid multipart form")
		return
	}

	placeID, _ := strconv.Atoi(r.FormValue("placeID"))
	claim := &models.ClaimSubmission{
		PlaceID:      placeID,
		BusinessName: r.FormValue("businessName"),
		ContactName:  r.FormValue("contactName"),
		Email:        r.FormValue("email"),
		Phone:        r.FormValue("phone"),
		Message:      r.FormValue("message"),
	}

	proof, err := formFile(r, "proofDocument")
	if err != nil {
		rw.BadRequest("Could not read the proof document")
		return
	}
	claim.ProofDocument = proof

	result, fieldErrs, err := h.onboarding.SubmitClaim(r.Context(), claim)
	if fieldErrs != nil {
		rw.ValidationError("Please correct the highlighted fields", fieldErrs)
		return
	}
	if err != nil {
		rw.Error(http.StatusBadGateway, ErrCodeExternalServiceFail, err.Error())
		return
	}

	rw.Created(result)
}

// CreateListing handles POST /api/v1/listings (multipart). Logo and
// banner are optional; their upload failures degrade to warnings on the
// result instead of aborting the listing.
func (h *Handler) CreateListing(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		rw.BadRequest("Invalid multipart form")
		return
	}

	categoryID, _ := strconv.Atoi(r.FormValue("categoryID"))
	listing := &models.ListingSubmission{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		CategoryID:  categoryID,
		Street:      r.FormValue("street"),
		City:        r.FormValue("city"),
		Region:      r.FormValue("region"),
		Zip:         r.FormValue("zip"),
		Country:     r.FormValue("country"),
		Phone:       r.FormValue("phone"),
		Email:       r.FormValue("email"),
		Website:     r.FormValue("website"),
	}

	var err error
	if listing.Logo, err = formFile(r, "logo"); err != nil {
		rw.BadRequest("Could not read the logo upload")
		return
	}
	if listing.Banner, err = formFile(r, "banner"); err != nil {
		rw.BadRequest("Could not read the banner upload")
		return
	}

	result, fieldErrs, err := h.onboarding.CreateListing(r.Context(), listing)
	if fieldErrs != nil {
		rw.ValidationError("Please correct the highlighted fields", fieldErrs)
		return
	}
	if err != nil {
		rw.Error(http.StatusBadGateway, ErrCodeExternalServiceFail, err.Error())
		return
	}

	rw.Created(result)
}

// formFile reads an optional multipart file into memory. A missing part
// returns (nil, nil); a present but unreadable part returns the error.
func formFile(r *http.Request, field string) (*models.UploadFile, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}

	return &models.UploadFile{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}
