// Mercatus - Marketplace Directory Aggregation and Storefront API
// Copyright 2026 Mercatus Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mercatushq/mercatus

package models

// Term is a reference taxonomy entry (category, region, or city). The three
// taxonomies share one shape.
type Term struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Country is one entry from the country/state reference API.
type Country struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

// State is one subdivision of a country.
type State struct {
	Name string `json:"name"`
	Code string `json:"code"`
}
