// Mercatus - Marketplace Directory Aggregation and Storefront API
// Copyright 2026 Mercatus Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mercatushq/mercatus

// Package main is the entry point for the Mercatus server.
//
// Mercatus is a storefront backend that aggregates a WordPress/GeoDirectory
// vendor directory into an enriched, filterable API, and fronts the
// storefront's checkout and seller onboarding flows.
//
// The server initializes components in the following order:
//
//  1. Configuration: koanf v2 with layered defaults, config file, and env vars
//  2. Cache: in-memory TTL cache shared by the aggregation pipeline
//  3. Upstream clients: directory read/write, geocoding, shipping,
//     countries, Stripe
//  4. Services: vendor aggregator, reference service, cart store,
//     onboarding service
//  5. HTTP server: chi router under a suture supervision tree
//
// The server handles graceful shutdown on SIGINT and SIGTERM: it stops
// accepting connections and waits for in-flight requests up to the
// configured server timeout.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mercatushq/mercatus/internal/api"
	"github.com/mercatushq/mercatus/internal/cache"
	"github.com/mercatushq/mercatus/internal/checkout"
	"github.com/mercatushq/mercatus/internal/config"
	"github.com/mercatushq/mercatus/internal/directory"
	"github.com/mercatushq/mercatus/internal/geo"
	"github.com/mercatushq/mercatus/internal/logging"
	"github.com/mercatushq/mercatus/internal/onboarding"
	"github.com/mercatushq/mercatus/internal/supervisor"
	"github.com/mercatushq/mercatus/internal/supervisor/services"
	"github.com/mercatushq/mercatus/internal/vendors"
)

func main() {
	if err := run(); err != nil {
		logging.Fatal().Err(err).Msg("Server exited with error")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	logging.Info().Str("version", api.Version).Msg("Starting Mercatus")

	// Shared TTL cache for details, usernames, and reference data.
	// The default TTL is the detail TTL; other classes set their own.
	store := cache.New(cfg.Cache.DetailTTL, cfg.Cache.CleanupInterval)
	defer store.Stop()

	// Upstream directory, wrapped in a circuit breaker.
	directoryClient := directory.NewClient(&cfg.Directory)
	directoryAPI := directory.NewCircuitBreakerAPI(directoryClient)

	aggregator := vendors.NewAggregator(directoryAPI, store, &cfg.Cache)
	reference := directory.NewReferenceService(directoryAPI, store, cfg.Cache.ReferenceTTL)

	writer := directory.NewWriteClient(&cfg.Directory)
	media, err := onboarding.NewMediaStore(&cfg.Media, writer)
	if err != nil {
		return fmt.Errorf("failed to initialize media store: %w", err)
	}
	onboardingSvc := onboarding.NewService(writer, media)

	geocoder := geo.NewClient(&cfg.Geocode)
	carts := checkout.NewCartStore()
	countries := checkout.NewCountriesClient(&cfg.Countries)
	shipping := checkout.NewShippingClient(&cfg.Shipping)
	payments := checkout.NewStripeClient(&cfg.Payment)

	handler := api.NewHandler(cfg, aggregator, reference, geocoder, carts,
		countries, shipping, payments, onboardingSvc)

	mw := api.NewChiMiddlewareFromConfig(cfg.Security.CORSOrigins,
		cfg.Security.RateLimitReqs, cfg.Security.RateLimitWindow,
		cfg.Security.RateLimitDisabled)

	router := api.NewRouter(handler, mw).Setup()

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       2 * cfg.Server.Timeout,
	}

	tree, err := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		return fmt.Errorf("failed to create supervisor tree: %w", err)
	}

	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.Timeout))
	tree.AddBackgroundService(services.NewReferenceRefreshService(reference, refreshInterval(cfg.Cache.ReferenceTTL)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logging.Info().Str("addr", server.Addr).Msg("Listening")

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	logging.Info().Msg("Shutdown complete")
	return nil
}

// refreshInterval keeps the background refresh just inside the cache TTL.
func refreshInterval(ttl time.Duration) time.Duration {
	if ttl <= time.Minute {
		return ttl
	}
	return ttl - 5*time.Minute
}
