// Mercatus - Marketplace Directory Aggregation and Storefront API
// Copyright 2026 Mercatus Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mercatushq/mercatus

package models

// Default values substituted during merge when upstream fields are absent.
const (
	// DefaultRating is used when neither the summary nor the detail record
	// carries a rating.
	DefaultRating = 4.5

	// DefaultLocation is used when a place has no city or region.
	DefaultLocation = "Local"

	// PlaceholderImageURL is the final fallback in the image resolution
	// chain (featured image, first gallery image, placeholder).
	PlaceholderImageURL = "https://placehold.co/600x400?text=Vendor"

	// DefaultShippingPolicy and DefaultReturnPolicy are boilerplate text
	// shown on vendor pages that have not set their own.
	DefaultShippingPolicy = "Ships within 3-5 business days."
	DefaultReturnPolicy   = "Returns accepted within 30 days of delivery."
)

// SocialLinks holds a vendor's social profile URLs.
type SocialLinks struct {
	Facebook  string `json:"facebook,omitempty"`
	Instagram string `json:"instagram,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
}

// Vendor is the UI-ready projection of a Place joined with its pagination
// summary and resolved author username. Vendors are built fresh on every
// request and never persisted.
type Vendor struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Slug       string   `json:"slug"`
	Logo       string   `json:"logo"`
	Banner     string   `json:"banner"`
	Bio        string   `json:"bio"`
	Tagline    string   `json:"tagline"`
	Specialty  string   `json:"specialty"`
	CategoryID *int     `json:"category_id,omitempty"`
	Rating     float64  `json:"rating"`
	Location   string   `json:"location"`
	City       string   `json:"city,omitempty"`
	Region     string   `json:"region,omitempty"`
	Latitude   *float64 `json:"latitude,omitempty"`
	Longitude  *float64 `json:"longitude,omitempty"`

	// Distance in miles from the user's resolved location. Nil when no
	// user location is known.
	Distance *float64 `json:"distance,omitempty"`

	Claimed        int         `json:"claimed"`
	Phone          string      `json:"phone,omitempty"`
	Email          string      `json:"email,omitempty"`
	Website        string      `json:"website,omitempty"`
	Social         SocialLinks `json:"social"`
	ShippingPolicy string      `json:"shipping_policy"`
	ReturnPolicy   string      `json:"return_policy"`
}
