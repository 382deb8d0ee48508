// Mercatus - Marketplace Directory Aggregation and Storefront API
// Copyright 2026 Mercatus Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mercatushq/mercatus

// Package directory provides clients for the upstream directory system
// (WordPress/GeoDirectory-style REST APIs): the paginated listings endpoint,
// the place detail and reference API, the public users API, and the
// Basic-Auth write endpoints for claims, media, and new listings.
package directory

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"github.com/mercatushq/mercatus/internal/config"
	"github.com/mercatushq/mercatus/internal/metrics"
	"github.com/mercatushq/mercatus/internal/models"
)

// maxErrorBodySize limits how much of an error response body is read for
// diagnostics.
const maxErrorBodySize = 64 * 1024

// API is the read surface of the upstream directory system. Implemented by
// Client for production and by Mock for tests.
//
// All methods accept a context for cancellation and return an error on HTTP
// failure, non-2xx status, or JSON parse failure. Degraded-mode behavior
// (empty pages, fallback lists) is layered on top by Fetcher and
// ReferenceService, not handled here.
type API interface {
	FetchPage(ctx context.Context, page, perPage int, category string) (*models.PlacesPage, error)
	GetPlace(ctx context.Context, id int) (*models.Place, error)
	GetUser(ctx context.Context, id int) (*User, error)
	GetCategories(ctx context.Context) ([]models.Term, error)
	GetRegions(ctx context.Context) ([]models.Term, error)
	GetCities(ctx context.Context) ([]models.Term, error)
}

// User is the public user record; only the slug is consumed.
type User struct {
	ID   int    `json:"id"`
	Slug string `json:"slug"`
	Name string `json:"name,omitempty"`
}

// Client talks to the upstream directory REST APIs.
//
// Resilience: automatic retry with exponential backoff (1s, 2s, 4s, 8s, 16s)
// on HTTP 429, honoring Retry-After; context cancellation during backoff
// waits. Other failures are terminal for the request.
//
// Thread safety: safe for concurrent use; each call builds its own request.
type Client struct {
	listingsURL    string
	detailsURL     string
	usersURL       string
	client         *http.Client
	maxRetries     int
	retryBaseDelay time.Duration
}

// NewClient creates a directory API client from configuration.
func NewClient(cfg *config.DirectoryConfig) *Client {
	return &Client{
		listingsURL: cfg.ListingsURL,
		detailsURL:  cfg.DetailsURL,
		usersURL:    cfg.UsersURL,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		maxRetries:     cfg.MaxRetries,
		retryBaseDelay: cfg.RetryBaseDelay,
	}
}

// doRequestWithRateLimit performs a GET with automatic HTTP 429 handling.
// Backoff doubles each attempt; a Retry-After header overrides the computed
// delay. The context cancels both requests and backoff waits.
func (c *Client) doRequestWithRateLimit(ctx context.Context, reqURL string) (*http.Response, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("HTTP request failed: %w", err)
		}

		if resp.StatusCode != http.StatusTooManyRequests {
			return resp, nil
		}

		_ = resp.Body.Close()

		if attempt == c.maxRetries {
			lastErr = fmt.Errorf("rate limit exceeded after %d retries (HTTP 429)", c.maxRetries)
			break
		}

		delay := c.retryBaseDelay * time.Duration(1<<uint(attempt))
		if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
			if seconds, err := time.ParseDuration(retryAfter + "s"); err == nil {
				delay = seconds
			}
		}

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return nil, lastErr
}

// getJSON performs a GET and decodes the JSON response into result.
func (c *Client) getJSON(ctx context.Context, operation, reqURL string, result interface{}) error {
	start := time.Now()
	err := c.getJSONInner(ctx, reqURL, result)
	metrics.RecordUpstreamRequest("directory", operation, time.Since(start), err)
	if err != nil {
		return fmt.Errorf("%s: %w", operation, err)
	}
	return nil
}

func (c *Client) getJSONInner(ctx context.Context, reqURL string, result interface{}) error {
	resp, err := c.doRequestWithRateLimit(ctx, reqURL)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body := readBodyForError(resp.Body)
		return &UpstreamError{
			StatusCode: resp.StatusCode,
			Message:    parseUpstreamMessage(body),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// FetchPage retrieves one page of place summaries. The category parameter
// is added to the query only when it is not the "all" sentinel.
func (c *Client) FetchPage(ctx context.Context, page, perPage int, category string) (*models.PlacesPage, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("per_page", strconv.Itoa(perPage))
	if category != "" && category != "all" {
		params.Set("category", category)
	}

	var result models.PlacesPage
	reqURL := fmt.Sprintf("%s?%s", c.listingsURL, params.Encode())
	if err := c.getJSON(ctx, "fetch_page", reqURL, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetPlace retrieves the full record for one place ID.
func (c *Client) GetPlace(ctx context.Context, id int) (*models.Place, error) {
	var result models.Place
	reqURL := fmt.Sprintf("%s/places/%d", c.detailsURL, id)
	if err := c.getJSON(ctx, "get_place", reqURL, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetUser retrieves the public user record for an author ID.
func (c *Client) GetUser(ctx context.Context, id int) (*User, error) {
	var result User
	reqURL := fmt.Sprintf("%s/%d", c.usersURL, id)
	if err := c.getJSON(ctx, "get_user", reqURL, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetCategories retrieves the category taxonomy.
func (c *Client) GetCategories(ctx context.Context) ([]models.Term, error) {
	return c.getTerms(ctx, "get_categories", "categories")
}

// GetRegions retrieves the region taxonomy.
func (c *Client) GetRegions(ctx context.Context) ([]models.Term, error) {
	return c.getTerms(ctx, "get_regions", "regions")
}

// GetCities retrieves the city taxonomy.
func (c *Client) GetCities(ctx context.Context) ([]models.Term, error) {
	return c.getTerms(ctx, "get_cities", "cities")
}

func (c *Client) getTerms(ctx context.Context, operation, path string) ([]models.Term, error) {
	var result []models.Term
	reqURL := fmt.Sprintf("%s/%s", c.detailsURL, path)
	if err := c.getJSON(ctx, operation, reqURL, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// readBodyForError reads at most maxErrorBodySize bytes for diagnostics.
func readBodyForError(r io.Reader) []byte {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return []byte("(failed to read response body)")
	}
	if len(body) == maxErrorBodySize {
		return append(body, []byte("... (truncated)")...)
	}
	return body
}
