// Mercatus - Marketplace Directory Aggregation and Storefront API
// Copyright 2026 Mercatus Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mercatushq/mercatus

package directory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mercatushq/mercatus/internal/cache"
	"github.com/mercatushq/mercatus/internal/models"
)

func newTestReferenceService(api API) *ReferenceService {
	return NewReferenceService(api, cache.New(time.Hour, time.Hour), time.Hour)
}

func TestReferenceCategoriesFromUpstream(t *testing.T) {
	mock := NewMock()
	mock.Categories = []models.Term{{ID: 9, Name: "Bakeries", Slug: "bakeries"}}

	svc := newTestReferenceService(mock)
	terms := svc.Categories(context.Background())
	if len(terms) != 1 || terms[0].Name != "Bakeries" {
		t.Errorf("Unexpected categories: %+v", terms)
	}
}

func TestReferenceCategoriesFallbackOnError(t *testing.T) {
	mock := NewMock()
	mock.GetCategoriesFn = func(ctx context.Context) ([]models.Term, error) {
		return nil, errors.New("upstream returned HTTP 500")
	}

	svc := newTestReferenceService(mock)
	terms := svc.Categories(context.Background())

	if len(terms) != 5 {
		t.Fatalf("Expected exactly 5 fallback categories, got %d", len(terms))
	}
	expected := []string{"Sportswear", "Electronics", "Fashion", "Home & Garden", "Food & Beverage"}
	for i, name := range expected {
		if terms[i].Name != name {
			t.Errorf("Expected fallback category %q at %d, got %q", name, i, terms[i].Name)
		}
	}
}

func TestReferenceFallbackOnEmptyUpstream(t *testing.T) {
	mock := NewMock()
	mock.Categories = []models.Term{}

	svc := newTestReferenceService(mock)
	terms := svc.Categories(context.Background())
	if len(terms) == 0 {
		t.Fatal("Reference lists must never be empty")
	}
}

func TestReferenceCached(t *testing.T) {
	mock := NewMock()
	mock.Regions = []models.Term{{ID: 1, Name: "Northeast", Slug: "northeast"}}

	svc := newTestReferenceService(mock)
	ctx := context.Background()

	svc.Regions(ctx)
	svc.Regions(ctx)

	if calls := mock.CallCount("GetRegions"); calls != 1 {
		t.Errorf("Expected 1 upstream call for cached taxonomy, got %d", calls)
	}
}

func TestReferenceFallbackNotCached(t *testing.T) {
	mock := NewMock()
	fail := true
	mock.GetCitiesFn = func(ctx context.Context) ([]models.Term, error) {
		if fail {
			return nil, errors.New("unavailable")
		}
		return []models.Term{{ID: 1, Name: "Burlington", Slug: "burlington"}}, nil
	}

	svc := newTestReferenceService(mock)
	ctx := context.Background()

	if terms := svc.Cities(ctx); len(terms) != len(FallbackCities) {
		t.Fatalf("Expected fallback cities, got %+v", terms)
	}

	// After upstream recovery the real list is served, not a cached fallback.
	fail = false
	terms := svc.Cities(ctx)
	if len(terms) != 1 || terms[0].Name != "Burlington" {
		t.Errorf("Expected recovered upstream list, got %+v", terms)
	}
}

func TestReferenceRefresh(t *testing.T) {
	mock := NewMock()
	mock.Categories = []models.Term{{ID: 1, Name: "Bakeries", Slug: "bakeries"}}
	mock.Regions = []models.Term{{ID: 1, Name: "Northeast", Slug: "northeast"}}
	mock.Cities = []models.Term{{ID: 1, Name: "Burlington", Slug: "burlington"}}

	svc := newTestReferenceService(mock)
	ctx := context.Background()

	svc.Refresh(ctx)

	// Post-refresh reads are served from cache.
	svc.Categories(ctx)
	if calls := mock.CallCount("GetCategories"); calls != 1 {
		t.Errorf("Expected refresh to prime the cache, got %d upstream calls", calls)
	}
}
