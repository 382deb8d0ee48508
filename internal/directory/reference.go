// Mercatus - Marketplace Directory Aggregation and Storefront API
// Copyright 2026 Mercatus Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mercatushq/mercatus

package directory

import (
	"context"
	"time"

	"github.com/mercatushq/mercatus/internal/cache"
	"github.com/mercatushq/mercatus/internal/logging"
	"github.com/mercatushq/mercatus/internal/metrics"
	"github.com/mercatushq/mercatus/internal/models"
)

// Hard-coded fallback lists. The invariant is that reference endpoints
// always return a non-empty, UI-usable list even when the upstream is down.
var (
	FallbackCategories = []models.Term{
		{ID: 1, Name: "Sportswear", Slug: "sportswear"},
		{ID: 2, Name: "Electronics", Slug: "electronics"},
		{ID: 3, Name: "Fashion", Slug: "fashion"},
		{ID: 4, Name: "Home & Garden", Slug: "home-garden"},
		{ID: 5, Name: "Food & Beverage", Slug: "food-beverage"},
	}

	FallbackRegions = []models.Term{
		{ID: 1, Name: "Northeast", Slug: "northeast"},
		{ID: 2, Name: "Southeast", Slug: "southeast"},
		{ID: 3, Name: "Midwest", Slug: "midwest"},
		{ID: 4, Name: "Southwest", Slug: "southwest"},
		{ID: 5, Name: "West", Slug: "west"},
	}

	FallbackCities = []models.Term{
		{ID: 1, Name: "New York", Slug: "new-york"},
		{ID: 2, Name: "Los Angeles", Slug: "los-angeles"},
		{ID: 3, Name: "Chicago", Slug: "chicago"},
		{ID: 4, Name: "Houston", Slug: "houston"},
		{ID: 5, Name: "Phoenix", Slug: "phoenix"},
	}
)

// ReferenceService serves the category/region/city taxonomies with a
// long-lived cache and hard-coded fallbacks.
type ReferenceService struct {
	api   API
	cache *cache.Cache
	ttl   time.Duration
}

// NewReferenceService creates a ReferenceService. ttl is the cache window
// for each taxonomy (typically one hour).
func NewReferenceService(api API, c *cache.Cache, ttl time.Duration) *ReferenceService {
	return &ReferenceService{api: api, cache: c, ttl: ttl}
}

// Categories returns the category list. Never empty: upstream failure or an
// empty upstream result serves the fallback list instead.
func (s *ReferenceService) Categories(ctx context.Context) []models.Term {
	return s.load(ctx, "categories", s.api.GetCategories, FallbackCategories)
}

// Regions returns the region list, falling back when the upstream fails.
func (s *ReferenceService) Regions(ctx context.Context) []models.Term {
	return s.load(ctx, "regions", s.api.GetRegions, FallbackRegions)
}

// Cities returns the city list, falling back when the upstream fails.
func (s *ReferenceService) Cities(ctx context.Context) []models.Term {
	return s.load(ctx, "cities", s.api.GetCities, FallbackCities)
}

// Refresh eagerly reloads all three taxonomies, replacing cached entries.
// Used by the background refresher so steady-state requests never pay the
// upstream latency.
func (s *ReferenceService) Refresh(ctx context.Context) {
	for _, taxonomy := range []struct {
		name string
		load func(context.Context) ([]models.Term, error)
	}{
		{"categories", s.api.GetCategories},
		{"regions", s.api.GetRegions},
		{"cities", s.api.GetCities},
	} {
		terms, err := taxonomy.load(ctx)
		if err != nil || len(terms) == 0 {
			logging.Ctx(ctx).Warn().Err(err).Str("taxonomy", taxonomy.name).
				Msg("Reference refresh failed, keeping cached value")
			continue
		}
		s.cache.SetWithTTL("reference:"+taxonomy.name, terms, s.ttl)
	}
}

func (s *ReferenceService) load(ctx context.Context, name string, loader func(context.Context) ([]models.Term, error), fallback []models.Term) []models.Term {
	key := "reference:" + name

	if data, ok := s.cache.Get(key); ok {
		metrics.CacheHits.WithLabelValues("reference").Inc()
		if terms, ok := data.([]models.Term); ok {
			return terms
		}
	}
	metrics.CacheMisses.WithLabelValues("reference").Inc()

	terms, err := loader(ctx)
	if err != nil || len(terms) == 0 {
		logging.Ctx(ctx).Warn().Err(err).Str("taxonomy", name).
			Msg("Reference load failed, serving fallback list")
		metrics.ReferenceFallbacks.WithLabelValues(name).Inc()
		return fallback
	}

	s.cache.SetWithTTL(key, terms, s.ttl)
	return terms
}
