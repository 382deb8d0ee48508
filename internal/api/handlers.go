// Mercatus - Marketplace Directory Aggregation and Storefront API
// Copyright 2026 Mercatus Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mercatushq/mercatus

// Package api implements the HTTP surface: vendor listing and detail,
// reference data, geocoding, cart and checkout, and seller onboarding.
package api

import (
	"context"

	"github.com/mercatushq/mercatus/internal/checkout"
	"github.com/mercatushq/mercatus/internal/config"
	"github.com/mercatushq/mercatus/internal/geo"
	"github.com/mercatushq/mercatus/internal/models"
	"github.com/mercatushq/mercatus/internal/validation"
	"github.com/mercatushq/mercatus/internal/vendors"
)

// VendorSource serves enriched vendor pages and single vendors.
type VendorSource interface {
	ListPage(ctx context.Context, pageNum, perPage int, category string, f vendors.Filters, sortMode vendors.SortMode, loc *vendors.UserLocation) vendors.Page
	GetVendor(ctx context.Context, id int, loc *vendors.UserLocation) (*models.Vendor, error)
}

// ReferenceSource serves the directory taxonomies.
type ReferenceSource interface {
	Categories(ctx context.Context) []models.Term
	Regions(ctx context.Context) []models.Term
	Cities(ctx context.Context) []models.Term
}

// CountriesSource serves country and state reference data.
type CountriesSource interface {
	GetCountries(ctx context.Context) ([]models.Country, error)
	GetStates(ctx context.Context, countryCode string) ([]models.State, error)
}

// ShippingRater quotes shipping methods for an address and cart.
type ShippingRater interface {
	GetRates(ctx context.Context, req *models.ShippingRateRequest) ([]models.ShippingMethod, error)
}

// PaymentProvider creates payment intents. The server only ever handles
// amounts and metadata; card data stays client-side.
type PaymentProvider interface {
	CreatePaymentIntent(ctx context.Context, amountCents int64, metadata map[string]string) (*models.PaymentIntent, error)
}

// OnboardingService runs the seller claim and listing flows.
type OnboardingService interface {
	SubmitClaim(ctx context.Context, claim *models.ClaimSubmission) (*models.ClaimResult, validation.FieldErrors, error)
	CreateListing(ctx context.Context, listing *models.ListingSubmission) (*models.ListingResult, validation.FieldErrors, error)
}

// Handler holds the services behind the HTTP surface.
type Handler struct {
	cfg        *config.Config
	vendors    VendorSource
	reference  ReferenceSource
	geocoder   geo.Geocoder
	carts      *checkout.CartStore
	countries  CountriesSource
	shipping   ShippingRater
	payments   PaymentProvider
	onboarding OnboardingService
}

// NewHandler creates the API handler.
func NewHandler(
	cfg *config.Config,
	vendorSource VendorSource,
	reference ReferenceSource,
	geocoder geo.Geocoder,
	carts *checkout.CartStore,
	countries CountriesSource,
	shipping ShippingRater,
	payments PaymentProvider,
	onboarding OnboardingService,
) *Handler {
	return &Handler{
		cfg:        cfg,
		vendors:    vendorSource,
		reference:  reference,
		geocoder:   geocoder,
		carts:      carts,
		countries:  countries,
		shipping:   shipping,
		payments:   payments,
		onboarding: onboarding,
	}
}
