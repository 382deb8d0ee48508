// Mercatus - Marketplace Directory Aggregation and Storefront API
// Copyright 2026 Mercatus Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mercatushq/mercatus

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in
// order of priority. The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/mercatus/config.yaml",
	"/etc/mercatus/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config with all default values. Defaults are
// applied first, then overridden by the config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:    "0.0.0.0",
			Port:    8980,
			Timeout: 30 * time.Second,
		},
		API: APIConfig{
			DefaultPageSize: 12,
			MaxPageSize:     100,
		},
		Directory: DirectoryConfig{
			ListingsURL:    "",
			DetailsURL:     "",
			UsersURL:       "",
			Username:       "",
			AppPassword:    "",
			Timeout:        30 * time.Second,
			MaxRetries:     5,
			RetryBaseDelay: 1 * time.Second,
		},
		Geocode: GeocodeConfig{
			BaseURL:           "https://nominatim.openstreetmap.org",
			UserAgent:         "mercatus/1.0 (marketplace storefront; ops@mercatus.example)",
			Timeout:           10 * time.Second,
			RequestsPerSecond: 1.0,
		},
		Shipping: ShippingConfig{
			URL:     "",
			Timeout: 15 * time.Second,
		},
		Countries: CountriesConfig{
			BaseURL: "https://countriesnow.space/api/v0.1",
			Timeout: 10 * time.Second,
		},
		Payment: PaymentConfig{
			StripeSecretKey: "",
			StripeAPIBase:   "https://api.stripe.com",
			Currency:        "usd",
		},
		Media: MediaConfig{
			Backend:       "wordpress",
			CloudinaryURL: "",
			Folder:        "mercatus",
		},
		Cache: CacheConfig{
			ReferenceTTL:    1 * time.Hour,
			DetailTTL:       10 * time.Minute,
			UsernameTTL:     24 * time.Hour,
			CleanupInterval: 5 * time.Minute,
		},
		Security: SecurityConfig{
			CORSOrigins:       []string{"*"},
			RateLimitReqs:     100,
			RateLimitWindow:   1 * time.Minute,
			RateLimitDisabled: false,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// loadWithKoanf loads configuration using Koanf v2 with layered sources,
// ENV > file > defaults.
func loadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	defaults := defaultConfig()
	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	envProvider := env.Provider("", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths defines config paths parsed as comma-separated slices
// when supplied via environment variables.
var sliceConfigPaths = []string{
	"security.cors_origins",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}
		if _, ok := val.([]interface{}); ok {
			continue
		}
		if _, ok := val.([]string); ok {
			continue
		}
		strVal, ok := val.(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envTransformFunc maps environment variable names to koanf config paths.
// Unmapped variables are skipped so random environment variables cannot
// pollute the configuration.
func envTransformFunc(key string) string {
	key = strings.ToLower(key)

	envMappings := map[string]string{
		// Server
		"http_host":    "server.host",
		"http_port":    "server.port",
		"http_timeout": "server.timeout",

		// API
		"api_default_page_size": "api.default_page_size",
		"api_max_page_size":     "api.max_page_size",

		// Directory upstream
		"directory_listings_url":     "directory.listings_url",
		"directory_details_url":      "directory.details_url",
		"directory_users_url":        "directory.users_url",
		"directory_username":         "directory.username",
		"directory_app_password":     "directory.app_password",
		"directory_timeout":          "directory.timeout",
		"directory_max_retries":      "directory.max_retries",
		"directory_retry_base_delay": "directory.retry_base_delay",

		// Geocoding
		"geocode_base_url":   "geocode.base_url",
		"geocode_user_agent": "geocode.user_agent",
		"geocode_timeout":    "geocode.timeout",
		"geocode_rps":        "geocode.requests_per_second",

		// Shipping / countries
		"shipping_url":       "shipping.url",
		"shipping_timeout":   "shipping.timeout",
		"countries_base_url": "countries.base_url",
		"countries_timeout":  "countries.timeout",

		// Payment
		"stripe_secret_key": "payment.stripe_secret_key",
		"stripe_api_base":   "payment.stripe_api_base",
		"payment_currency":  "payment.currency",

		// Media
		"media_backend":  "media.backend",
		"cloudinary_url": "media.cloudinary_url",
		"media_folder":   "media.folder",

		// Cache TTLs
		"cache_reference_ttl":    "cache.reference_ttl",
		"cache_detail_ttl":       "cache.detail_ttl",
		"cache_username_ttl":     "cache.username_ttl",
		"cache_cleanup_interval": "cache.cleanup_interval",

		// Security
		"cors_origins":        "security.cors_origins",
		"rate_limit_requests": "security.rate_limit_reqs",
		"rate_limit_window":   "security.rate_limit_window",
		"disable_rate_limit":  "security.rate_limit_disabled",

		// Logging
		"log_level":  "logging.level",
		"log_format": "logging.format",
		"log_caller": "logging.caller",
	}

	if mapped, ok := envMappings[key]; ok {
		return mapped
	}
	return ""
}
