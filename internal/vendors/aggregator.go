// Mercatus - Marketplace Directory Aggregation and Storefront API
// Copyright 2026 Mercatus Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mercatushq/mercatus

package vendors

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mercatushq/mercatus/internal/cache"
	"github.com/mercatushq/mercatus/internal/config"
	"github.com/mercatushq/mercatus/internal/directory"
	"github.com/mercatushq/mercatus/internal/geo"
	"github.com/mercatushq/mercatus/internal/logging"
	"github.com/mercatushq/mercatus/internal/metrics"
	"github.com/mercatushq/mercatus/internal/models"
)

// UserLocation is the requester's resolved coordinates, used for distance
// annotation.
type UserLocation struct {
	Latitude  float64
	Longitude float64
}

// Page is the aggregated result for one vendor listing page.
type Page struct {
	Vendors     []models.Vendor `json:"vendors"`
	Total       int             `json:"total"`
	TotalPages  int             `json:"total_pages"`
	CurrentPage int             `json:"current_page"`
	PerPage     int             `json:"per_page"`
}

// Aggregator drives the pipeline: fetch a summary page, enrich each ID with
// its detail record in parallel, resolve author usernames, merge, annotate
// distances, and apply in-page filter/sort/select.
type Aggregator struct {
	api         directory.API
	fetcher     *directory.Fetcher
	cache       *cache.Cache
	detailTTL   time.Duration
	usernameTTL time.Duration
}

// NewAggregator creates an Aggregator. TTLs come from configuration:
// details are cached per ID (10 minutes by default), usernames for 24
// hours. Listing pages are never cached.
func NewAggregator(api directory.API, c *cache.Cache, cfg *config.CacheConfig) *Aggregator {
	return &Aggregator{
		api:         api,
		fetcher:     directory.NewFetcher(api),
		cache:       c,
		detailTTL:   cfg.DetailTTL,
		usernameTTL: cfg.UsernameTTL,
	}
}

// ListPage runs the full pipeline for one page. Upstream listing failure
// degrades to an empty page; enrichment failures drop individual records.
func (a *Aggregator) ListPage(ctx context.Context, pageNum, perPage int, category string, f Filters, sortMode SortMode, loc *UserLocation) Page {
	summaryPage := a.fetcher.FetchPage(ctx, pageNum, perPage, category)

	ids := make([]int, len(summaryPage.Records))
	summaries := make(map[int]models.PlaceSummary, len(summaryPage.Records))
	for i, rec := range summaryPage.Records {
		ids[i] = rec.ID
		summaries[rec.ID] = rec
	}

	places := a.EnrichDetails(ctx, ids)

	authorIDs := make([]int, 0, len(places))
	for _, p := range places {
		if p.Author != 0 {
			authorIDs = append(authorIDs, p.Author)
		}
	}
	usernames := a.ResolveUsernames(ctx, authorIDs)

	vendors := make([]models.Vendor, 0, len(places))
	for _, p := range places {
		v := Merge(p, summaries[p.ID], usernames)
		if loc != nil && v.Latitude != nil && v.Longitude != nil {
			d := geo.Distance(loc.Latitude, loc.Longitude, *v.Latitude, *v.Longitude)
			v.Distance = &d
		}
		vendors = append(vendors, v)
	}

	vendors = Apply(vendors, f)
	Sort(vendors, sortMode)

	return Page{
		Vendors:     vendors,
		Total:       summaryPage.Total,
		TotalPages:  summaryPage.TotalPages,
		CurrentPage: pageNum,
		PerPage:     perPage,
	}
}

// GetVendor enriches and merges a single place ID.
func (a *Aggregator) GetVendor(ctx context.Context, id int, loc *UserLocation) (*models.Vendor, error) {
	place, err := a.getPlaceCached(ctx, id)
	if err != nil {
		return nil, err
	}

	usernames := models.UsernameMap{}
	if place.Author != 0 {
		usernames = a.ResolveUsernames(ctx, []int{place.Author})
	}

	v := Merge(place, models.PlaceSummary{ID: place.ID, Rating: place.Rating, Claimed: place.Claimed}, usernames)
	if loc != nil && v.Latitude != nil && v.Longitude != nil {
		d := geo.Distance(loc.Latitude, loc.Longitude, *v.Latitude, *v.Longitude)
		v.Distance = &d
	}
	return &v, nil
}

// EnrichDetails fetches the detail record for each ID concurrently. Each ID
// is cached independently; a failed fetch yields nil for that slot and is
// dropped from the result. Output preserves input ID order.
func (a *Aggregator) EnrichDetails(ctx context.Context, ids []int) []*models.Place {
	results := make([]*models.Place, len(ids))

	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func(slot, placeID int) {
			defer wg.Done()
			place, err := a.getPlaceCached(ctx, placeID)
			if err != nil {
				logging.Ctx(ctx).Debug().Err(err).Int("place_id", placeID).
					Msg("Detail fetch failed, dropping record")
				metrics.EnrichmentDropped.Inc()
				return
			}
			results[slot] = place
		}(i, id)
	}
	wg.Wait()

	compacted := make([]*models.Place, 0, len(results))
	for _, p := range results {
		if p != nil {
			compacted = append(compacted, p)
		}
	}
	return compacted
}

// ResolveUsernames resolves author IDs to username slugs. IDs are
// de-duplicated, fetched concurrently, and cached for the username TTL.
// Failures are silent: the author simply has no entry in the map.
func (a *Aggregator) ResolveUsernames(ctx context.Context, authorIDs []int) models.UsernameMap {
	unique := make([]int, 0, len(authorIDs))
	seen := make(map[int]struct{}, len(authorIDs))
	for _, id := range authorIDs {
		if _, dup := seen[id]; !dup {
			seen[id] = struct{}{}
			unique = append(unique, id)
		}
	}

	type entry struct {
		id   int
		slug string
		ok   bool
	}
	results := make([]entry, len(unique))

	var wg sync.WaitGroup
	for i, id := range unique {
		wg.Add(1)
		go func(slot, authorID int) {
			defer wg.Done()
			key := fmt.Sprintf("username:%d", authorID)
			data, err := a.cache.GetOrLoad(ctx, key, a.usernameTTL, func(ctx context.Context) (interface{}, error) {
				user, err := a.api.GetUser(ctx, authorID)
				if err != nil {
					return nil, err
				}
				return user.Slug, nil
			})
			if err != nil {
				logging.Ctx(ctx).Debug().Err(err).Int("author_id", authorID).
					Msg("Username resolution failed")
				return
			}
			if slug, ok := data.(string); ok && slug != "" {
				results[slot] = entry{id: authorID, slug: slug, ok: true}
			}
		}(i, id)
	}
	wg.Wait()

	usernames := make(models.UsernameMap, len(results))
	for _, e := range results {
		if e.ok {
			usernames[e.id] = e.slug
		}
	}
	return usernames
}

func (a *Aggregator) getPlaceCached(ctx context.Context, id int) (*models.Place, error) {
	key := fmt.Sprintf("place:%d", id)
	data, err := a.cache.GetOrLoad(ctx, key, a.detailTTL, func(ctx context.Context) (interface{}, error) {
		return a.api.GetPlace(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	place, ok := data.(*models.Place)
	if !ok {
		return nil, fmt.Errorf("unexpected cache entry type for %s", key)
	}
	return place, nil
}
