// Mercatus - Marketplace Directory Aggregation and Storefront API
// Copyright 2026 Mercatus Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mercatushq/mercatus

package directory

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/mercatushq/mercatus/internal/config"
	"github.com/mercatushq/mercatus/internal/metrics"
	"github.com/mercatushq/mercatus/internal/models"
)

// UpstreamError carries the upstream's own message when the error body was
// parseable, so handlers can surface it to the user.
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream returned HTTP %d: %s", e.StatusCode, e.Message)
}

// Writer is the write surface of the directory system: claims, media
// uploads, and new listings. All calls carry the server-injected Basic-Auth
// credential; user-supplied credentials never reach these endpoints.
type Writer interface {
	UploadMedia(ctx context.Context, file *models.UploadFile) (*models.MediaAsset, error)
	CreateClaim(ctx context.Context, claim *models.ClaimSubmission, proofURL string) (*models.ClaimResult, error)
	CreateListing(ctx context.Context, listing *models.ListingSubmission, logoURL, bannerURL string) (*models.ListingResult, error)
}

// WriteClient implements Writer against the directory REST API.
type WriteClient struct {
	baseURL  string
	username string
	password string
	client   *http.Client
}

// NewWriteClient creates a write client from configuration.
func NewWriteClient(cfg *config.DirectoryConfig) *WriteClient {
	return &WriteClient{
		baseURL:  cfg.DetailsURL,
		username: cfg.Username,
		password: cfg.AppPassword,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// UploadMedia uploads one file as a multipart form to the media endpoint.
func (c *WriteClient) UploadMedia(ctx context.Context, file *models.UploadFile) (*models.MediaAsset, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", file.Filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create multipart form: %w", err)
	}
	if _, err := part.Write(file.Data); err != nil {
		return nil, fmt.Errorf("failed to write multipart body: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	var result models.MediaAsset
	if err := c.postWithAuth(ctx, "upload_media", c.baseURL+"/media", mw.FormDataContentType(), &buf, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CreateClaim creates a claim record referencing an already-uploaded proof
// document.
func (c *WriteClient) CreateClaim(ctx context.Context, claim *models.ClaimSubmission, proofURL string) (*models.ClaimResult, error) {
	payload := map[string]interface{}{
		"place_id":      claim.PlaceID,
		"business_name": claim.BusinessName,
		"contact_name":  claim.ContactName,
		"email":         claim.Email,
		"phone":         claim.Phone,
		"message":       claim.Message,
		"proof_url":     proofURL,
	}

	var result models.ClaimResult
	if err := c.postJSON(ctx, "create_claim", c.baseURL+"/claims", payload, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CreateListing creates a new place record referencing already-uploaded
// media URLs (either may be empty when its upload was skipped).
func (c *WriteClient) CreateListing(ctx context.Context, listing *models.ListingSubmission, logoURL, bannerURL string) (*models.ListingResult, error) {
	payload := map[string]interface{}{
		"title":       listing.Title,
		"content":     listing.Description,
		"category_id": listing.CategoryID,
		"street":      listing.Street,
		"city":        listing.City,
		"region":      listing.Region,
		"zip":         listing.Zip,
		"country":     listing.Country,
		"phone":       listing.Phone,
		"email":       listing.Email,
		"website":     listing.Website,
		"logo_url":    logoURL,
		"banner_url":  bannerURL,
	}

	var result models.ListingResult
	if err := c.postJSON(ctx, "create_listing", c.baseURL+"/places", payload, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *WriteClient) postJSON(ctx context.Context, operation, reqURL string, payload, result interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode %s payload: %w", operation, err)
	}
	return c.postWithAuth(ctx, operation, reqURL, "application/json", bytes.NewReader(body), result)
}

func (c *WriteClient) postWithAuth(ctx context.Context, operation, reqURL, contentType string, body io.Reader, result interface{}) error {
	start := time.Now()
	err := c.postWithAuthInner(ctx, reqURL, contentType, body, result)
	metrics.RecordUpstreamRequest("directory", operation, time.Since(start), err)
	if err != nil {
		return fmt.Errorf("%s: %w", operation, err)
	}
	return nil
}

func (c *WriteClient) postWithAuthInner(ctx context.Context, reqURL, contentType string, body io.Reader, result interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	req.SetBasicAuth(c.username, c.password)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &UpstreamError{
			StatusCode: resp.StatusCode,
			Message:    parseUpstreamMessage(respBody),
		}
	}

	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// parseUpstreamMessage extracts the upstream's error message when the body
// is a JSON object with a message field; otherwise a generic message.
func parseUpstreamMessage(body []byte) string {
	var parsed struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil {
		if parsed.Message != "" {
			return parsed.Message
		}
		if parsed.Error != "" {
			return parsed.Error
		}
	}
	return "request failed"
}
