// Mercatus - Marketplace Directory Aggregation and Storefront API
// Copyright 2026 Mercatus Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mercatushq/mercatus

package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mercatushq/mercatus/internal/models"
)

const testAddress = `{"city":"Portland","state":"ME","zip":"04101","country":"US"}`

func TestShippingMethods(t *testing.T) {
	router, deps := newTestRouter(t)
	deps.shipping.methods = []models.ShippingMethod{
		{ID: "flat", Title: "Flat Rate", Cost: 7.5},
		{ID: "express", Title: "Express", Cost: 19.9, Description: "1-2 days"},
	}
	addItem(t, router, "ship-1", `{"id":"sku-1","name":"Canvas Tote","price":24.5,"quantity":1}`)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/shipping-methods", strings.NewReader(testAddress))
	req.Header.Set(cartSessionHeader, "ship-1")
	rec, env := doRequest(t, router, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var data struct {
		Methods []models.ShippingMethod `json:"methods"`
	}
	decodeData(t, env, &data)
	if len(data.Methods) != 2 || data.Methods[0].ID != "flat" {
		t.Errorf("Unexpected methods: %+v", data.Methods)
	}

	if deps.shipping.gotReq == nil || deps.shipping.gotReq.City != "Portland" || len(deps.shipping.gotReq.Items) != 1 {
		t.Errorf("Unexpected rate request: %+v", deps.shipping.gotReq)
	}
}

func TestShippingMethodsValidatesAddress(t *testing.T) {
	router, deps := newTestRouter(t)
	addItem(t, router, "ship-2", `{"id":"sku-1","name":"Canvas Tote","price":24.5,"quantity":1}`)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/shipping-methods",
		strings.NewReader(`{"city":"Portland"}`))
	req.Header.Set(cartSessionHeader, "ship-2")
	rec, env := doRequest(t, router, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", rec.Code)
	}
	details, ok := env.Error.Details.(map[string]interface{})
	if !ok {
		t.Fatalf("Expected field-keyed details, got %T", env.Error.Details)
	}
	for _, field := range []string{"state", "zip", "country"} {
		if _, present := details[field]; !present {
			t.Errorf("Expected %s in details, got %v", field, details)
		}
	}
	if deps.shipping.gotReq != nil {
		t.Error("Expected no rate request on validation failure")
	}
}

func TestShippingMethodsEmptyCart(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/shipping-methods", strings.NewReader(testAddress))
	req.Header.Set(cartSessionHeader, "ship-empty")
	rec, _ := doRequest(t, router, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for empty cart, got %d", rec.Code)
	}
}

func TestShippingMethodsUpstreamFailure(t *testing.T) {
	router, deps := newTestRouter(t)
	deps.shipping.err = errors.New("connection refused")
	addItem(t, router, "ship-3", `{"id":"sku-1","name":"Canvas Tote","price":24.5,"quantity":1}`)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/shipping-methods", strings.NewReader(testAddress))
	req.Header.Set(cartSessionHeader, "ship-3")
	rec, env := doRequest(t, router, req)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("Expected 502, got %d", rec.Code)
	}
	if env.Error == nil || env.Error.Code != ErrCodeExternalServiceFail {
		t.Errorf("Expected external service error, got %+v", env.Error)
	}
}

func TestPaymentIntentComputesAmountServerSide(t *testing.T) {
	router, deps := newTestRouter(t)
	addItem(t, router, "pay-1", `{"id":"sku-1","name":"Canvas Tote","price":10,"quantity":2}`)

	// Subtotal 20.00 + shipping 5.00 + 8% tax 1.60 = 26.60.
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/payment-intent",
		strings.NewReader(`{"shipping_cost":5}`))
	req.Header.Set(cartSessionHeader, "pay-1")
	rec, env := doRequest(t, router, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if deps.payments.gotAmount != 2660 {
		t.Errorf("Expected 2660 cents, got %d", deps.payments.gotAmount)
	}
	if deps.payments.gotMetadata["cart_session"] != "pay-1" {
		t.Errorf("Expected session in metadata, got %v", deps.payments.gotMetadata)
	}

	var data struct {
		ClientSecret string             `json:"client_secret"`
		Totals       models.OrderTotals `json:"totals"`
	}
	decodeData(t, env, &data)
	if data.ClientSecret != "pi_test_secret" {
		t.Errorf("Expected client secret, got %q", data.ClientSecret)
	}
	if data.Totals.Total != 26.6 {
		t.Errorf("Unexpected totals: %+v", data.Totals)
	}
}

func TestPaymentIntentEmptyCart(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/payment-intent", strings.NewReader(`{}`))
	req.Header.Set(cartSessionHeader, "pay-empty")
	rec, _ := doRequest(t, router, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for empty cart, got %d", rec.Code)
	}
}

func TestPaymentIntentProviderFailure(t *testing.T) {
	router, deps := newTestRouter(t)
	deps.payments.err = errors.New("card processing down")
	addItem(t, router, "pay-2", `{"id":"sku-1","name":"Canvas Tote","price":10,"quantity":1}`)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/payment-intent", strings.NewReader(`{}`))
	req.Header.Set(cartSessionHeader, "pay-2")
	rec, env := doRequest(t, router, req)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("Expected 502, got %d", rec.Code)
	}
	if env.Error == nil || env.Error.Code != ErrCodePaymentFailed {
		t.Errorf("Expected PAYMENT_FAILED, got %+v", env.Error)
	}
}
