// Mercatus - Marketplace Directory Aggregation and Storefront API
// Copyright 2026 Mercatus Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mercatushq/mercatus

package vendors

import (
	"sort"
	"strings"

	"github.com/mercatushq/mercatus/internal/models"
)

// SortMode selects the vendor ordering.
type SortMode string

const (
	SortByRating   SortMode = "rating"
	SortByName     SortMode = "name"
	SortByDistance SortMode = "distance"
)

// ParseSortMode maps a query value to a SortMode, defaulting to rating.
func ParseSortMode(s string) SortMode {
	switch s {
	case string(SortByName):
		return SortByName
	case string(SortByDistance):
		return SortByDistance
	default:
		return SortByRating
	}
}

// Filters are the in-page predicates applied conjunctively to an
// already-fetched page of vendors. The category filter is deliberately
// absent: it is applied upstream in the paginated fetch and not repeated
// here.
type Filters struct {
	// Search is a case-insensitive substring match on the vendor name.
	Search string

	// Region and City are exact matches.
	Region string
	City   string

	// MinRating keeps vendors with rating >= the threshold.
	MinRating float64

	// SelectedID, when set (from a map-pin click), collapses the filtered
	// result to that single vendor.
	SelectedID string
}

// Apply filters the page and returns the surviving vendors in input order.
func Apply(list []models.Vendor, f Filters) []models.Vendor {
	out := make([]models.Vendor, 0, len(list))
	search := strings.ToLower(f.Search)

	for _, v := range list {
		if search != "" && !strings.Contains(strings.ToLower(v.Name), search) {
			continue
		}
		if f.Region != "" && v.Region != f.Region {
			continue
		}
		if f.City != "" && v.City != f.City {
			continue
		}
		if v.Rating < f.MinRating {
			continue
		}
		out = append(out, v)
	}

	if f.SelectedID != "" {
		for _, v := range out {
			if v.ID == f.SelectedID {
				return []models.Vendor{v}
			}
		}
		return []models.Vendor{}
	}

	return out
}

// Sort orders vendors in place. Rating sorts descending, name ascending,
// distance ascending with unknown distances last. The sort is stable so
// ties keep their input order.
func Sort(list []models.Vendor, mode SortMode) {
	switch mode {
	case SortByName:
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].Name < list[j].Name
		})
	case SortByDistance:
		sort.SliceStable(list, func(i, j int) bool {
			di, dj := list[i].Distance, list[j].Distance
			if di == nil {
				return false
			}
			if dj == nil {
				return true
			}
			return *di < *dj
		})
	default:
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].Rating > list[j].Rating
		})
	}
}
