// Mercatus - Marketplace Directory Aggregation and Storefront API
// Copyright 2026 Mercatus Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mercatushq/mercatus

package checkout

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mercatushq/mercatus/internal/config"
)

func newStripeClient(apiBase string) *StripeClient {
	return NewStripeClient(&config.PaymentConfig{
		StripeSecretKey: "sk_test_123",
		StripeAPIBase:   apiBase,
		Currency:        "usd",
	})
}

func TestCreatePaymentIntent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/payment_intents" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer sk_test_123" {
			t.Errorf("Expected bearer secret key, got %q", auth)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("Expected form body: %v", err)
		}
		if r.PostForm.Get("amount") != "3450" || r.PostForm.Get("currency") != "usd" {
			t.Errorf("Unexpected form: %v", r.PostForm)
		}
		if r.PostForm.Get("metadata[cart_session]") != "sess-1" {
			t.Errorf("Expected metadata forwarded, got %v", r.PostForm)
		}
		_, _ = w.Write([]byte(`{
			"id": "pi_123", "client_secret": "pi_123_secret_abc",
			"amount": 3450, "currency": "usd", "status": "requires_payment_method"
		}`))
	}))
	defer server.Close()

	intent, err := newStripeClient(server.URL).CreatePaymentIntent(context.Background(), 3450,
		map[string]string{"cart_session": "sess-1"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if intent.ClientSecret != "pi_123_secret_abc" || intent.Amount != 3450 {
		t.Errorf("Unexpected intent: %+v", intent)
	}
}

func TestCreatePaymentIntentStripeError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		_, _ = w.Write([]byte(`{"error": {"message": "Your card was declined.", "type": "card_error"}}`))
	}))
	defer server.Close()

	_, err := newStripeClient(server.URL).CreatePaymentIntent(context.Background(), 100, nil)
	if err == nil {
		t.Fatal("Expected error from Stripe rejection")
	}
	if !strings.Contains(err.Error(), "Your card was declined.") {
		t.Errorf("Expected Stripe message surfaced, got %v", err)
	}
}

func TestCreatePaymentIntentRejectsNonPositiveAmount(t *testing.T) {
	if _, err := newStripeClient("http://unused").CreatePaymentIntent(context.Background(), 0, nil); err == nil {
		t.Fatal("Expected error for zero amount")
	}
}
