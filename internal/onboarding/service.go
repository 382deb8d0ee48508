// Mercatus - Marketplace Directory Aggregation and Storefront API
// Copyright 2026 Mercatus Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mercatushq/mercatus

package onboarding

import (
	"context"
	"errors"
	"fmt"

	"github.com/mercatushq/mercatus/internal/directory"
	"github.com/mercatushq/mercatus/internal/logging"
	"github.com/mercatushq/mercatus/internal/models"
	"github.com/mercatushq/mercatus/internal/validation"
)

// claimFields is the validatable projection of a claim submission. The
// proof document is checked separately because it is a file, not a field.
type claimFields struct {
	PlaceID      int    `validate:"gt=0"`
	BusinessName string `validate:"required"`
	ContactName  string `validate:"required"`
	Email        string `validate:"required,email"`
	Phone        string `validate:"required"`
}

// listingFields is the validatable projection of a listing submission.
type listingFields struct {
	Title       string `validate:"required"`
	Description string `validate:"required"`
	CategoryID  int    `validate:"gt=0"`
	Street      string `validate:"required"`
	City        string `validate:"required"`
	Region      string `validate:"required"`
	Zip         string `validate:"required"`
	Country     string `validate:"required"`
	Email       string `validate:"required,email"`
}

// Service runs the seller onboarding flows.
type Service struct {
	writer directory.Writer
	media  MediaStore
}

// NewService creates an onboarding service.
func NewService(writer directory.Writer, media MediaStore) *Service {
	return &Service{writer: writer, media: media}
}

// SubmitClaim validates and submits a claim for an existing listing.
//
// Validation failures return a field-keyed error map and no upstream
// request is issued. The proof document is required: a missing document
// blocks submission, and a failed proof upload aborts it with the
// upstream's message when parseable.
func (s *Service) SubmitClaim(ctx context.Context, claim *models.ClaimSubmission) (*models.ClaimResult, validation.FieldErrors, error) {
	fieldErrs := validation.ValidateStruct(&claimFields{
		PlaceID:      claim.PlaceID,
		BusinessName: claim.BusinessName,
		ContactName:  claim.ContactName,
		Email:        claim.Email,
		Phone:        claim.Phone,
	})
	if fieldErrs == nil {
		fieldErrs = validation.FieldErrors{}
	}
	if claim.ProofDocument == nil || len(claim.ProofDocument.Data) == 0 {
		fieldErrs["proofDocument"] = "A proof document is required"
	}
	if len(fieldErrs) > 0 {
		return nil, fieldErrs, nil
	}

	proof, err := s.media.Upload(ctx, claim.ProofDocument)
	if err != nil {
		// Required upload: abort rather than create a claim without proof.
		return nil, nil, fmt.Errorf("proof document upload failed: %w", uploadError(err))
	}

	result, err := s.writer.CreateClaim(ctx, claim, proof.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("claim creation failed: %w", err)
	}
	result.ProofURL = proof.URL

	logging.Ctx(ctx).Info().Int("place_id", claim.PlaceID).Int("claim_id", result.ID).
		Msg("Claim submitted")
	return result, nil, nil
}

// CreateListing validates and creates a new listing. Media uploads are
// sequenced before record creation. Logo and banner are optional: their
// upload failures degrade to a warning instead of aborting.
func (s *Service) CreateListing(ctx context.Context, listing *models.ListingSubmission) (*models.ListingResult, validation.FieldErrors, error) {
	fieldErrs := validation.ValidateStruct(&listingFields{
		Title:       listing.Title,
		Description: listing.Description,
		CategoryID:  listing.CategoryID,
		Street:      listing.Street,
		City:        listing.City,
		Region:      listing.Region,
		Zip:         listing.Zip,
		Country:     listing.Country,
		Email:       listing.Email,
	})
	if len(fieldErrs) > 0 {
		return nil, fieldErrs, nil
	}

	var warnings []string
	logoURL := s.uploadOptional(ctx, "logo", listing.Logo, &warnings)
	bannerURL := s.uploadOptional(ctx, "banner", listing.Banner, &warnings)

	result, err := s.writer.CreateListing(ctx, listing, logoURL, bannerURL)
	if err != nil {
		return nil, nil, fmt.Errorf("listing creation failed: %w", err)
	}
	result.LogoURL = logoURL
	result.BannerURL = bannerURL
	result.Warnings = warnings

	logging.Ctx(ctx).Info().Int("listing_id", result.ID).Str("title", listing.Title).
		Msg("Listing created")
	return result, nil, nil
}

func (s *Service) uploadOptional(ctx context.Context, kind string, file *models.UploadFile, warnings *[]string) string {
	if file == nil || len(file.Data) == 0 {
		return ""
	}
	asset, err := s.media.Upload(ctx, file)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("kind", kind).
			Msg("Optional media upload failed, continuing without it")
		*warnings = append(*warnings, fmt.Sprintf("%s upload failed; the listing was created without it", kind))
		return ""
	}
	return asset.URL
}

// uploadError keeps the upstream's own message when one was parseable.
func uploadError(err error) error {
	var upstreamErr *directory.UpstreamError
	if errors.As(err, &upstreamErr) {
		return errors.New(upstreamErr.Message)
	}
	return err
}
