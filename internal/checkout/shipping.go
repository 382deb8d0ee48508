// Mercatus - Marketplace Directory Aggregation and Storefront API
// Copyright 2026 Mercatus Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mercatushq/mercatus

package checkout

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/mercatushq/mercatus/internal/config"
	"github.com/mercatushq/mercatus/internal/metrics"
	"github.com/mercatushq/mercatus/internal/models"
)

// ShippingClient calls the external shipping-rate endpoint.
type ShippingClient struct {
	url    string
	client *http.Client
}

// NewShippingClient creates a shipping-rate client from configuration.
func NewShippingClient(cfg *config.ShippingConfig) *ShippingClient {
	return &ShippingClient{
		url: cfg.URL,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

type shippingResponse struct {
	Methods []models.ShippingMethod `json:"methods"`
}

// GetRates posts the destination and cart items and returns the available
// shipping methods.
func (c *ShippingClient) GetRates(ctx context.Context, req *models.ShippingRateRequest) ([]models.ShippingMethod, error) {
	start := time.Now()
	methods, err := c.getRatesInner(ctx, req)
	metrics.RecordUpstreamRequest("shipping", "get_rates", time.Since(start), err)
	return methods, err
}

func (c *ShippingClient) getRatesInner(ctx context.Context, rateReq *models.ShippingRateRequest) ([]models.ShippingMethod, error) {
	body, err := json.Marshal(rateReq)
	if err != nil {
		return nil, fmt.Errorf("failed to encode shipping request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create shipping request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("shipping request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("shipping endpoint returned HTTP %d", resp.StatusCode)
	}

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read shipping response: %w", err)
	}

	var parsed shippingResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse shipping response: %w", err)
	}
	return parsed.Methods, nil
}
