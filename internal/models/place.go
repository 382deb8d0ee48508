// Mercatus - Marketplace Directory Aggregation and Storefront API
// Copyright 2026 Mercatus Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mercatushq/mercatus

// Package models provides data structures for the Mercatus application.
// This file contains the raw upstream directory record shapes. The upstream
// system emits shape-polymorphic JSON (title as string or object, category as
// string, object, or array), so the boundary types here normalize every
// variant once, at unmarshal time.
package models

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// RichText accepts either a plain JSON string or a WordPress-style
// {"raw": ..., "rendered": ...} object. Text() returns the display string.
type RichText struct {
	Raw      string
	Rendered string
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *RichText) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		r.Raw = s
		r.Rendered = s
		return nil
	}

	var obj struct {
		Raw      string `json:"raw"`
		Rendered string `json:"rendered"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("rich text is neither string nor object: %w", err)
	}
	r.Raw = obj.Raw
	r.Rendered = obj.Rendered
	return nil
}

// Text returns the rendered form, falling back to the raw form.
func (r RichText) Text() string {
	if r.Rendered != "" {
		return r.Rendered
	}
	return r.Raw
}

// FlexFloat accepts a JSON number, a numeric string, or null. Set reports
// whether a value was present and parseable.
type FlexFloat struct {
	Value float64
	Set   bool
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" || trimmed == `""` {
		return nil
	}

	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		f.Value = n
		f.Set = true
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("flexible float is neither number nor string: %w", err)
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		// Unparseable strings are treated as absent, not as errors: the
		// upstream system emits "" and junk values in this field.
		return nil
	}
	f.Value = n
	f.Set = true
	return nil
}

// CategoryTerm is one taxonomy term as the upstream API represents it.
type CategoryTerm struct {
	ID   FlexFloat `json:"id"`
	Name string    `json:"name"`
	Slug string    `json:"slug"`
}

// CategoryKind discriminates the three JSON shapes the category field takes.
type CategoryKind int

const (
	CategoryAbsent CategoryKind = iota
	CategoryPlainString
	CategoryTermObject
	CategoryTermList
)

// CategoryField normalizes the upstream category field, which may be a bare
// string, a single term object, or an array of term objects.
type CategoryField struct {
	Kind  CategoryKind
	Plain string
	Terms []CategoryTerm
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *CategoryField) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" || trimmed == "" {
		c.Kind = CategoryAbsent
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s == "" {
			c.Kind = CategoryAbsent
			return nil
		}
		c.Kind = CategoryPlainString
		c.Plain = s
		return nil
	}

	var term CategoryTerm
	if err := json.Unmarshal(data, &term); err == nil {
		c.Kind = CategoryTermObject
		c.Terms = []CategoryTerm{term}
		return nil
	}

	var terms []CategoryTerm
	if err := json.Unmarshal(data, &terms); err != nil {
		return fmt.Errorf("category is neither string, object, nor array: %w", err)
	}
	if len(terms) == 0 {
		c.Kind = CategoryAbsent
		return nil
	}
	c.Kind = CategoryTermList
	c.Terms = terms
	return nil
}

// Name returns the display name of the category: the bare string, or the
// first term's name.
func (c CategoryField) Name() string {
	switch c.Kind {
	case CategoryPlainString:
		return c.Plain
	case CategoryTermObject, CategoryTermList:
		return c.Terms[0].Name
	default:
		return ""
	}
}

// TermID returns the first term's ID, or nil when the category was a bare
// string or absent.
func (c CategoryField) TermID() *int {
	if c.Kind != CategoryTermObject && c.Kind != CategoryTermList {
		return nil
	}
	if !c.Terms[0].ID.Set {
		return nil
	}
	id := int(c.Terms[0].ID.Value)
	return &id
}

// PlaceImage is one attached image.
type PlaceImage struct {
	ID    FlexFloat `json:"id"`
	Src   string    `json:"src"`
	Title string    `json:"title"`
}

// Place is the full record from the place detail API. Only ID is guaranteed
// present; every other field is optional and may change shape.
type Place struct {
	ID            int           `json:"id"`
	Title         RichText      `json:"title"`
	Content       RichText      `json:"content"`
	Slug          string        `json:"slug"`
	Author        int           `json:"author"`
	Street        string        `json:"street"`
	City          string        `json:"city"`
	Region        string        `json:"region"`
	Zip           string        `json:"zip"`
	Country       string        `json:"country"`
	Latitude      string        `json:"latitude"`
	Longitude     string        `json:"longitude"`
	Phone         string        `json:"phone"`
	Email         string        `json:"email"`
	Website       string        `json:"website"`
	Facebook      string        `json:"facebook"`
	Instagram     string        `json:"instagram"`
	Twitter       string        `json:"twitter"`
	Category      CategoryField `json:"post_category"`
	FeaturedImage *PlaceImage   `json:"featured_image"`
	Images        []PlaceImage  `json:"images"`
	Rating        FlexFloat     `json:"rating"`
	Claimed       int           `json:"claimed"`
}

// Coordinates parses the string lat/long fields. ok is false when either
// field is absent or unparseable.
func (p *Place) Coordinates() (lat, lon float64, ok bool) {
	if p.Latitude == "" || p.Longitude == "" {
		return 0, 0, false
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(p.Latitude), 64)
	if err != nil {
		return 0, 0, false
	}
	lon, err = strconv.ParseFloat(strings.TrimSpace(p.Longitude), 64)
	if err != nil {
		return 0, 0, false
	}
	return lat, lon, true
}

// PlaceSummary is the compact record from the paginated listings endpoint.
// Joined to Place by numeric ID.
type PlaceSummary struct {
	ID      int       `json:"ID"`
	Rating  FlexFloat `json:"rating"`
	Claimed int       `json:"claimed"`
}

// PlacesPage is one page of summaries plus pagination metadata.
type PlacesPage struct {
	Records     []PlaceSummary `json:"data"`
	Total       int            `json:"total"`
	TotalPages  int            `json:"totalPages"`
	CurrentPage int            `json:"currentPage"`
	PerPage     int            `json:"perPage"`
}

// EmptyPage is the degraded result the fetcher returns on any upstream
// failure. Records is non-nil so consumers can range without nil checks.
func EmptyPage(page, perPage int) PlacesPage {
	return PlacesPage{
		Records:     []PlaceSummary{},
		Total:       0,
		TotalPages:  0,
		CurrentPage: page,
		PerPage:     perPage,
	}
}

// UsernameMap resolves author IDs to public username slugs for one page
// load. Missing entries mean resolution failed or was never attempted.
type UsernameMap map[int]string
