// Mercatus - Marketplace Directory Aggregation and Storefront API
// Copyright 2026 Mercatus Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mercatushq/mercatus

package directory

import (
	"context"

	"github.com/mercatushq/mercatus/internal/logging"
	"github.com/mercatushq/mercatus/internal/models"
)

// Fetcher wraps the paginated listings call with the degraded-mode
// contract: any upstream failure yields an empty page, logged, never an
// error. Listing pages are never cached so pagination state stays fresh.
type Fetcher struct {
	api API
}

// NewFetcher creates a Fetcher over the given API.
func NewFetcher(api API) *Fetcher {
	return &Fetcher{api: api}
}

// FetchPage returns one page of place summaries. On any failure it returns
// the zero-value page for the requested page number.
func (f *Fetcher) FetchPage(ctx context.Context, page, perPage int, category string) models.PlacesPage {
	result, err := f.api.FetchPage(ctx, page, perPage, category)
	if err != nil {
		logging.Ctx(ctx).Warn().
			Err(err).
			Int("page", page).
			Int("per_page", perPage).
			Str("category", category).
			Msg("Listings fetch failed, returning empty page")
		return models.EmptyPage(page, perPage)
	}
	if result.Records == nil {
		result.Records = []models.PlaceSummary{}
	}
	return *result
}
