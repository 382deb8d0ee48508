// Mercatus - Marketplace Directory Aggregation and Storefront API
// Copyright 2026 Mercatus Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mercatushq/mercatus

// Package config holds the application configuration, loaded via Koanf v2
// with layered sources: built-in defaults, optional YAML file, environment
// variables (highest priority).
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	API       APIConfig       `koanf:"api"`
	Directory DirectoryConfig `koanf:"directory"`
	Geocode   GeocodeConfig   `koanf:"geocode"`
	Shipping  ShippingConfig  `koanf:"shipping"`
	Countries CountriesConfig `koanf:"countries"`
	Payment   PaymentConfig   `koanf:"payment"`
	Media     MediaConfig     `koanf:"media"`
	Cache     CacheConfig     `koanf:"cache"`
	Security  SecurityConfig  `koanf:"security"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port"`
	Timeout time.Duration `koanf:"timeout"`
}

// APIConfig holds pagination limits for the public API.
type APIConfig struct {
	DefaultPageSize int `koanf:"default_page_size"`
	MaxPageSize     int `koanf:"max_page_size"`
}

// DirectoryConfig holds settings for the upstream directory system
// (WordPress/GeoDirectory REST APIs).
type DirectoryConfig struct {
	// ListingsURL is the base URL of the custom paginated listings endpoint.
	ListingsURL string `koanf:"listings_url"`

	// DetailsURL is the base URL of the place detail / reference REST API.
	DetailsURL string `koanf:"details_url"`

	// UsersURL is the base URL of the public users API.
	UsersURL string `koanf:"users_url"`

	// Username and AppPassword are the Basic-Auth credentials injected by
	// the server process for write endpoints (claims, media, listings).
	// They are never user-supplied.
	Username    string `koanf:"username"`
	AppPassword string `koanf:"app_password"`

	Timeout        time.Duration `koanf:"timeout"`
	MaxRetries     int           `koanf:"max_retries"`
	RetryBaseDelay time.Duration `koanf:"retry_base_delay"`
}

// GeocodeConfig holds settings for the public geocoding service.
// The service is rate-limited and requires a descriptive User-Agent.
type GeocodeConfig struct {
	BaseURL           string        `koanf:"base_url"`
	UserAgent         string        `koanf:"user_agent"`
	Timeout           time.Duration `koanf:"timeout"`
	RequestsPerSecond float64       `koanf:"requests_per_second"`
}

// ShippingConfig holds the shipping-rate endpoint.
type ShippingConfig struct {
	URL     string        `koanf:"url"`
	Timeout time.Duration `koanf:"timeout"`
}

// CountriesConfig holds the third-party country/state reference API.
type CountriesConfig struct {
	BaseURL string        `koanf:"base_url"`
	Timeout time.Duration `koanf:"timeout"`
}

// PaymentConfig holds Stripe settings. Only the secret key lives on the
// server; card data is tokenized client-side by the payment element.
type PaymentConfig struct {
	StripeSecretKey string `koanf:"stripe_secret_key"`
	StripeAPIBase   string `koanf:"stripe_api_base"`
	Currency        string `koanf:"currency"`
}

// MediaConfig selects the media upload backend.
type MediaConfig struct {
	// Backend is "wordpress" (multipart to the directory media endpoint)
	// or "cloudinary".
	Backend string `koanf:"backend"`

	// CloudinaryURL is the cloudinary:// credential URL (cloudinary backend).
	CloudinaryURL string `koanf:"cloudinary_url"`

	// Folder is the upload folder for the cloudinary backend.
	Folder string `koanf:"folder"`
}

// CacheConfig holds the TTLs for each cached data class. Paginated listing
// pages are intentionally never cached.
type CacheConfig struct {
	ReferenceTTL    time.Duration `koanf:"reference_ttl"`
	DetailTTL       time.Duration `koanf:"detail_ttl"`
	UsernameTTL     time.Duration `koanf:"username_ttl"`
	CleanupInterval time.Duration `koanf:"cleanup_interval"`
}

// SecurityConfig holds CORS and rate limiting settings.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Load loads the configuration from defaults, optional config file,
// and environment variables.
func Load() (*Config, error) {
	return loadWithKoanf()
}

// Validate checks the configuration for missing or inconsistent values.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port %d out of range", c.Server.Port)
	}
	if c.API.DefaultPageSize < 1 {
		return fmt.Errorf("api default_page_size must be positive")
	}
	if c.API.MaxPageSize < c.API.DefaultPageSize {
		return fmt.Errorf("api max_page_size %d below default_page_size %d",
			c.API.MaxPageSize, c.API.DefaultPageSize)
	}

	for name, raw := range map[string]string{
		"directory.listings_url": c.Directory.ListingsURL,
		"directory.details_url":  c.Directory.DetailsURL,
		"directory.users_url":    c.Directory.UsersURL,
	} {
		if raw == "" {
			return fmt.Errorf("%s is required", name)
		}
		if _, err := url.Parse(raw); err != nil {
			return fmt.Errorf("%s is not a valid URL: %w", name, err)
		}
	}

	// The geocoding service rejects anonymous clients; a descriptive
	// User-Agent with a contact address is part of its usage policy.
	if c.Geocode.UserAgent == "" {
		return fmt.Errorf("geocode.user_agent is required")
	}
	if c.Geocode.RequestsPerSecond <= 0 {
		return fmt.Errorf("geocode.requests_per_second must be positive")
	}

	switch c.Media.Backend {
	case "wordpress":
	case "cloudinary":
		if c.Media.CloudinaryURL == "" {
			return fmt.Errorf("media.cloudinary_url is required for the cloudinary backend")
		}
		if !strings.HasPrefix(c.Media.CloudinaryURL, "cloudinary://") {
			return fmt.Errorf("media.cloudinary_url must be a cloudinary:// URL")
		}
	default:
		return fmt.Errorf("media.backend must be wordpress or cloudinary, got %q", c.Media.Backend)
	}

	for name, ttl := range map[string]time.Duration{
		"cache.reference_ttl": c.Cache.ReferenceTTL,
		"cache.detail_ttl":    c.Cache.DetailTTL,
		"cache.username_ttl":  c.Cache.UsernameTTL,
	} {
		if ttl <= 0 {
			return fmt.Errorf("%s must be positive", name)
		}
	}

	return nil
}
