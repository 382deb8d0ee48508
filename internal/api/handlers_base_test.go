// Mercatus - Marketplace Directory Aggregation and Storefront API
// Copyright 2026 Mercatus Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mercatushq/mercatus

package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/mercatushq/mercatus/internal/checkout"
	"github.com/mercatushq/mercatus/internal/config"
	"github.com/mercatushq/mercatus/internal/geo"
	"github.com/mercatushq/mercatus/internal/models"
	"github.com/mercatushq/mercatus/internal/validation"
	"github.com/mercatushq/mercatus/internal/vendors"
)

type stubVendors struct {
	page   vendors.Page
	vendor *models.Vendor
	err    error

	gotPage     int
	gotPerPage  int
	gotCategory string
	gotFilters  vendors.Filters
	gotSort     vendors.SortMode
	gotLoc      *vendors.UserLocation
	gotID       int
}

func (s *stubVendors) ListPage(ctx context.Context, pageNum, perPage int, category string, f vendors.Filters, sortMode vendors.SortMode, loc *vendors.UserLocation) vendors.Page {
	s.gotPage, s.gotPerPage, s.gotCategory = pageNum, perPage, category
	s.gotFilters, s.gotSort, s.gotLoc = f, sortMode, loc
	return s.page
}

func (s *stubVendors) GetVendor(ctx context.Context, id int, loc *vendors.UserLocation) (*models.Vendor, error) {
	s.gotID, s.gotLoc = id, loc
	if s.err != nil {
		return nil, s.err
	}
	return s.vendor, nil
}

type stubReference struct {
	categories []models.Term
	regions    []models.Term
	cities     []models.Term
}

func (s *stubReference) Categories(ctx context.Context) []models.Term { return s.categories }
func (s *stubReference) Regions(ctx context.Context) []models.Term   { return s.regions }
func (s *stubReference) Cities(ctx context.Context) []models.Term    { return s.cities }

type stubCountries struct {
	countries []models.Country
	states    []models.State
	err       error
	gotCode   string
}

func (s *stubCountries) GetCountries(ctx context.Context) ([]models.Country, error) {
	return s.countries, s.err
}

func (s *stubCountries) GetStates(ctx context.Context, countryCode string) ([]models.State, error) {
	s.gotCode = countryCode
	return s.states, s.err
}

type stubShipping struct {
	methods []models.ShippingMethod
	err     error
	gotReq  *models.ShippingRateRequest
}

func (s *stubShipping) GetRates(ctx context.Context, req *models.ShippingRateRequest) ([]models.ShippingMethod, error) {
	s.gotReq = req
	return s.methods, s.err
}

type stubPayments struct {
	intent      *models.PaymentIntent
	err         error
	gotAmount   int64
	gotMetadata map[string]string
}

func (s *stubPayments) CreatePaymentIntent(ctx context.Context, amountCents int64, metadata map[string]string) (*models.PaymentIntent, error) {
	s.gotAmount, s.gotMetadata = amountCents, metadata
	if s.err != nil {
		return nil, s.err
	}
	intent := s.intent
	if intent == nil {
		intent = &models.PaymentIntent{ID: "pi_test", ClientSecret: "pi_test_secret", Currency: "usd"}
	}
	intent.Amount = amountCents
	return intent, nil
}

type stubGeocoder struct {
	location *geo.Location
	err      error
	gotQuery string
}

func (s *stubGeocoder) Resolve(ctx context.Context, query string) (*geo.Location, error) {
	s.gotQuery = query
	if s.err != nil {
		return nil, s.err
	}
	return s.location, nil
}

type stubOnboarding struct {
	claimResult   *models.ClaimResult
	listingResult *models.ListingResult
	fieldErrs     validation.FieldErrors
	err           error
	gotClaim      *models.ClaimSubmission
	gotListing    *models.ListingSubmission
}

func (s *stubOnboarding) SubmitClaim(ctx context.Context, claim *models.ClaimSubmission) (*models.ClaimResult, validation.FieldErrors, error) {
	s.gotClaim = claim
	return s.claimResult, s.fieldErrs, s.err
}

func (s *stubOnboarding) CreateListing(ctx context.Context, listing *models.ListingSubmission) (*models.ListingResult, validation.FieldErrors, error) {
	s.gotListing = listing
	return s.listingResult, s.fieldErrs, s.err
}

// testDeps bundles the stubs so tests can reach into them after a request.
type testDeps struct {
	vendors    *stubVendors
	reference  *stubReference
	countries  *stubCountries
	shipping   *stubShipping
	payments   *stubPayments
	geocoder   *stubGeocoder
	onboarding *stubOnboarding
	carts      *checkout.CartStore
}

func newTestRouter(t *testing.T) (http.Handler, *testDeps) {
	t.Helper()

	deps := &testDeps{
		vendors:    &stubVendors{},
		reference:  &stubReference{categories: []models.Term{{ID: 1, Name: "Electronics", Slug: "electronics"}}},
		countries:  &stubCountries{},
		shipping:   &stubShipping{},
		payments:   &stubPayments{},
		geocoder:   &stubGeocoder{},
		onboarding: &stubOnboarding{},
		carts:      checkout.NewCartStore(),
	}

	cfg := &config.Config{}
	cfg.API.DefaultPageSize = 12
	cfg.API.MaxPageSize = 100

	handler := NewHandler(cfg, deps.vendors, deps.reference, deps.geocoder, deps.carts,
		deps.countries, deps.shipping, deps.payments, deps.onboarding)

	mw := DefaultChiMiddlewareConfig()
	mw.RateLimitDisabled = true

	return NewRouter(handler, NewChiMiddleware(mw)).Setup(), deps
}

// envelope mirrors APIResponse with raw data for per-test decoding.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *APIError       `json:"error"`
	Meta    *APIMeta        `json:"meta"`
}

func doRequest(t *testing.T, router http.Handler, req *http.Request) (*httptest.ResponseRecorder, *envelope) {
	t.Helper()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code == http.StatusNoContent {
		return rec, &envelope{}
	}

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("Failed to decode response envelope: %v (body %q)", err, rec.Body.String())
	}
	return rec, &env
}

func decodeData(t *testing.T, env *envelope, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(env.Data, out); err != nil {
		t.Fatalf("Failed to decode data: %v", err)
	}
}
