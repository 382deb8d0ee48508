// Mercatus - Marketplace Directory Aggregation and Storefront API
// Copyright 2026 Mercatus Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mercatushq/mercatus

package checkout

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/mercatushq/mercatus/internal/config"
	"github.com/mercatushq/mercatus/internal/metrics"
	"github.com/mercatushq/mercatus/internal/models"
)

// StripeClient creates payment intents against the Stripe REST API. The
// returned client secret is handed to the browser's payment element, which
// tokenizes and confirms client-side; raw card data never reaches this
// process.
type StripeClient struct {
	apiBase   string
	secretKey string
	currency  string
	client    *http.Client
}

// NewStripeClient creates a Stripe client from configuration.
func NewStripeClient(cfg *config.PaymentConfig) *StripeClient {
	return &StripeClient{
		apiBase:   cfg.StripeAPIBase,
		secretKey: cfg.StripeSecretKey,
		currency:  cfg.Currency,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type stripeError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// CreatePaymentIntent creates a payment intent for the given amount in
// cents. Metadata keys are forwarded for reconciliation.
func (c *StripeClient) CreatePaymentIntent(ctx context.Context, amountCents int64, metadata map[string]string) (*models.PaymentIntent, error) {
	start := time.Now()
	intent, err := c.createPaymentIntentInner(ctx, amountCents, metadata)
	metrics.RecordUpstreamRequest("stripe", "create_payment_intent", time.Since(start), err)
	return intent, err
}

func (c *StripeClient) createPaymentIntentInner(ctx context.Context, amountCents int64, metadata map[string]string) (*models.PaymentIntent, error) {
	if amountCents <= 0 {
		return nil, fmt.Errorf("payment amount must be positive, got %d", amountCents)
	}

	form := url.Values{}
	form.Set("amount", strconv.FormatInt(amountCents, 10))
	form.Set("currency", c.currency)
	form.Set("automatic_payment_methods[enabled]", "true")
	for key, value := range metadata {
		form.Set(fmt.Sprintf("metadata[%s]", key), value)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.apiBase+"/v1/payment_intents", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("payment intent request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read payment intent response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var parsed stripeError
		if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error.Message != "" {
			return nil, fmt.Errorf("stripe rejected payment intent: %s", parsed.Error.Message)
		}
		return nil, fmt.Errorf("stripe returned HTTP %d", resp.StatusCode)
	}

	var intent models.PaymentIntent
	if err := json.Unmarshal(body, &intent); err != nil {
		return nil, fmt.Errorf("failed to parse payment intent response: %w", err)
	}
	return &intent, nil
}
