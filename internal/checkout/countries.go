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
	"github.com/mercatushq/mercatus/internal/logging"
	"github.com/mercatushq/mercatus/internal/metrics"
	"github.com/mercatushq/mercatus/internal/models"
)

// FallbackUSStates is served for the US when the country API is
// unreachable, so the checkout address form always has a state list.
var FallbackUSStates = []models.State{
	{Name: "Alabama", Code: "AL"}, {Name: "Alaska", Code: "AK"},
	{Name: "Arizona", Code: "AZ"}, {Name: "Arkansas", Code: "AR"},
	{Name: "California", Code: "CA"}, {Name: "Colorado", Code: "CO"},
	{Name: "Connecticut", Code: "CT"}, {Name: "Delaware", Code: "DE"},
	{Name: "Florida", Code: "FL"}, {Name: "Georgia", Code: "GA"},
	{Name: "Hawaii", Code: "HI"}, {Name: "Idaho", Code: "ID"},
	{Name: "Illinois", Code: "IL"}, {Name: "Indiana", Code: "IN"},
	{Name: "Iowa", Code: "IA"}, {Name: "Kansas", Code: "KS"},
	{Name: "Kentucky", Code: "KY"}, {Name: "Louisiana", Code: "LA"},
	{Name: "Maine", Code: "ME"}, {Name: "Maryland", Code: "MD"},
	{Name: "Massachusetts", Code: "MA"}, {Name: "Michigan", Code: "MI"},
	{Name: "Minnesota", Code: "MN"}, {Name: "Mississippi", Code: "MS"},
	{Name: "Missouri", Code: "MO"}, {Name: "Montana", Code: "MT"},
	{Name: "Nebraska", Code: "NE"}, {Name: "Nevada", Code: "NV"},
	{Name: "New Hampshire", Code: "NH"}, {Name: "New Jersey", Code: "NJ"},
	{Name: "New Mexico", Code: "NM"}, {Name: "New York", Code: "NY"},
	{Name: "North Carolina", Code: "NC"}, {Name: "North Dakota", Code: "ND"},
	{Name: "Ohio", Code: "OH"}, {Name: "Oklahoma", Code: "OK"},
	{Name: "Oregon", Code: "OR"}, {Name: "Pennsylvania", Code: "PA"},
	{Name: "Rhode Island", Code: "RI"}, {Name: "South Carolina", Code: "SC"},
	{Name: "South Dakota", Code: "SD"}, {Name: "Tennessee", Code: "TN"},
	{Name: "Texas", Code: "TX"}, {Name: "Utah", Code: "UT"},
	{Name: "Vermont", Code: "VT"}, {Name: "Virginia", Code: "VA"},
	{Name: "Washington", Code: "WA"}, {Name: "West Virginia", Code: "WV"},
	{Name: "Wisconsin", Code: "WI"}, {Name: "Wyoming", Code: "WY"},
}

// CountriesClient calls the public country/state reference API.
type CountriesClient struct {
	baseURL string
	client  *http.Client
}

// NewCountriesClient creates a countries client from configuration.
func NewCountriesClient(cfg *config.CountriesConfig) *CountriesClient {
	return &CountriesClient{
		baseURL: cfg.BaseURL,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

type countriesResponse struct {
	Error bool `json:"error"`
	Data  []struct {
		Name string `json:"name"`
		ISO2 string `json:"iso2"`
	} `json:"data"`
}

type statesResponse struct {
	Error bool `json:"error"`
	Data  struct {
		Name   string `json:"name"`
		States []struct {
			Name      string `json:"name"`
			StateCode string `json:"state_code"`
		} `json:"states"`
	} `json:"data"`
}

// GetCountries returns the flat country list.
func (c *CountriesClient) GetCountries(ctx context.Context) ([]models.Country, error) {
	start := time.Now()
	countries, err := c.getCountriesInner(ctx)
	metrics.RecordUpstreamRequest("countries", "get_countries", time.Since(start), err)
	return countries, err
}

func (c *CountriesClient) getCountriesInner(ctx context.Context) ([]models.Country, error) {
	var parsed countriesResponse
	if err := c.getJSON(ctx, c.baseURL+"/countries/iso", &parsed); err != nil {
		return nil, err
	}
	if parsed.Error {
		return nil, fmt.Errorf("countries API reported an error")
	}

	countries := make([]models.Country, 0, len(parsed.Data))
	for _, entry := range parsed.Data {
		countries = append(countries, models.Country{Name: entry.Name, Code: entry.ISO2})
	}
	return countries, nil
}

// GetStates returns the subdivisions for a country code. For the US an
// unreachable API degrades to the hard-coded state list; other countries
// surface the error.
func (c *CountriesClient) GetStates(ctx context.Context, countryCode string) ([]models.State, error) {
	start := time.Now()
	states, err := c.getStatesInner(ctx, countryCode)
	metrics.RecordUpstreamRequest("countries", "get_states", time.Since(start), err)
	if err != nil && countryCode == "US" {
		logging.Ctx(ctx).Warn().Err(err).Msg("Country API unreachable, serving fallback US states")
		return FallbackUSStates, nil
	}
	return states, err
}

func (c *CountriesClient) getStatesInner(ctx context.Context, countryCode string) ([]models.State, error) {
	payload, err := json.Marshal(map[string]string{"iso2": countryCode})
	if err != nil {
		return nil, fmt.Errorf("failed to encode states request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/countries/states", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create states request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("states request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("countries API returned HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read states response: %w", err)
	}

	var parsed statesResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse states response: %w", err)
	}
	if parsed.Error {
		return nil, fmt.Errorf("countries API reported an error for %q", countryCode)
	}

	states := make([]models.State, 0, len(parsed.Data.States))
	for _, entry := range parsed.Data.States {
		states = append(states, models.State{Name: entry.Name, Code: entry.StateCode})
	}
	return states, nil
}

func (c *CountriesClient) getJSON(ctx context.Context, reqURL string, result interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("countries API returned HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}
