// Mercatus - Marketplace Directory Aggregation and Storefront API
// Copyright 2026 Mercatus Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mercatushq/mercatus

package geo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/mercatushq/mercatus/internal/config"
)

// ErrNotFound is returned when the geocoding service has no result for the
// query. Handlers translate it to a generic "location not found" message.
var ErrNotFound = errors.New("location not found")

// Location is a resolved coordinate pair.
type Location struct {
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	DisplayName string  `json:"display_name,omitempty"`
}

// Geocoder resolves a free-text query to coordinates.
type Geocoder interface {
	Resolve(ctx context.Context, query string) (*Location, error)
}

// Client talks to the public geocoding service. The service's usage policy
// requires a descriptive User-Agent and at most one request per second, so
// every request passes through a token-bucket limiter.
type Client struct {
	baseURL   string
	userAgent string
	client    *http.Client
	limiter   *rate.Limiter
}

// NewClient creates a geocoding client from configuration.
func NewClient(cfg *config.GeocodeConfig) *Client {
	return &Client{
		baseURL:   cfg.BaseURL,
		userAgent: cfg.UserAgent,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
	}
}

type geocodeResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Resolve geocodes a free-text query (zip code, city, address) and returns
// the first match only. An empty result set yields ErrNotFound.
func (c *Client) Resolve(ctx context.Context, query string) (*Location, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("limit", "1")
	reqURL := fmt.Sprintf("%s/search?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create geocode request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocode request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocode request returned HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read geocode response: %w", err)
	}

	var results []geocodeResult
	if err := json.Unmarshal(body, &results); err != nil {
		return nil, fmt.Errorf("failed to parse geocode response: %w", err)
	}
	if len(results) == 0 {
		return nil, ErrNotFound
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("geocode result has invalid latitude %q", results[0].Lat)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("geocode result has invalid longitude %q", results[0].Lon)
	}

	return &Location{
		Latitude:    lat,
		Longitude:   lon,
		DisplayName: results[0].DisplayName,
	}, nil
}
