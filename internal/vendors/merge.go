// Mercatus - Marketplace Directory Aggregation and Storefront API
// Copyright 2026 Mercatus Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mercatushq/mercatus

// Package vendors implements the directory aggregation pipeline: parallel
// detail enrichment, author username resolution, merge into UI-ready vendor
// records, and in-page filter/sort/select.
package vendors

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/mercatushq/mercatus/internal/models"
)

// taglineMaxLen is the character budget for the tagline derived from the
// place's HTML content.
const taglineMaxLen = 100

// htmlTagPattern matches HTML tags for stripping. This is a lossy text
// extraction, not sanitization; consumers must still escape the output
// before rendering it as HTML.
var htmlTagPattern = regexp.MustCompile(`<[^>]*>`)

// Merge combines a detail record, its pagination summary, and the resolved
// username map into one Vendor. Pure: identical inputs always produce an
// identical Vendor, and no input is mutated.
//
// Fallback chains:
//   - rating: summary rating, then place rating, then 4.5
//   - logo: featured image, then first gallery image, then placeholder
//   - slug: resolved author username, then the place's own slug
//   - location: "City, Region" with either part optional, then "Local"
func Merge(place *models.Place, summary models.PlaceSummary, usernames models.UsernameMap) models.Vendor {
	v := models.Vendor{
		ID:             strconv.Itoa(place.ID),
		Name:           place.Title.Text(),
		Slug:           place.Slug,
		Specialty:      place.Category.Name(),
		CategoryID:     place.Category.TermID(),
		Rating:         resolveRating(place, summary),
		Location:       resolveLocation(place),
		City:           place.City,
		Region:         place.Region,
		Claimed:        summary.Claimed,
		Phone:          place.Phone,
		Email:          place.Email,
		Website:        place.Website,
		ShippingPolicy: models.DefaultShippingPolicy,
		ReturnPolicy:   models.DefaultReturnPolicy,
		Social: models.SocialLinks{
			Facebook:  place.Facebook,
			Instagram: place.Instagram,
			Twitter:   place.Twitter,
		},
	}

	if slug, ok := usernames[place.Author]; ok && slug != "" {
		v.Slug = slug
	}

	v.Logo = resolveImage(place)
	v.Banner = resolveBanner(place)

	bio := StripHTML(place.Content.Text())
	v.Bio = bio
	v.Tagline = Truncate(bio, taglineMaxLen)

	if lat, lon, ok := place.Coordinates(); ok {
		v.Latitude = &lat
		v.Longitude = &lon
	}

	return v
}

func resolveRating(place *models.Place, summary models.PlaceSummary) float64 {
	if summary.Rating.Set {
		return summary.Rating.Value
	}
	if place.Rating.Set {
		return place.Rating.Value
	}
	return models.DefaultRating
}

func resolveImage(place *models.Place) string {
	if place.FeaturedImage != nil && place.FeaturedImage.Src != "" {
		return place.FeaturedImage.Src
	}
	if len(place.Images) > 0 && place.Images[0].Src != "" {
		return place.Images[0].Src
	}
	return models.PlaceholderImageURL
}

func resolveBanner(place *models.Place) string {
	// The banner prefers a gallery image so the logo and banner differ
	// when both exist.
	if len(place.Images) > 0 && place.Images[0].Src != "" {
		return place.Images[0].Src
	}
	if place.FeaturedImage != nil && place.FeaturedImage.Src != "" {
		return place.FeaturedImage.Src
	}
	return models.PlaceholderImageURL
}

func resolveLocation(place *models.Place) string {
	switch {
	case place.City != "" && place.Region != "":
		return place.City + ", " + place.Region
	case place.City != "":
		return place.City
	case place.Region != "":
		return place.Region
	default:
		return models.DefaultLocation
	}
}

// StripHTML removes HTML tags by regex and collapses the remaining
// whitespace.
func StripHTML(s string) string {
	stripped := htmlTagPattern.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(stripped), " ")
}

// Truncate shortens s to at most max characters (by rune), appending an
// ellipsis when anything was cut.
func Truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return strings.TrimRight(string(runes[:max]), " ") + "..."
}
