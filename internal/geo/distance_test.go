// Mercatus - Marketplace Directory Aggregation and Storefront API
// Copyright 2026 Mercatus Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mercatushq/mercatus

package geo

import (
	"math"
	"testing"
)

func TestDistanceIdentity(t *testing.T) {
	if d := Distance(40.7128, -74.0060, 40.7128, -74.0060); d != 0 {
		t.Errorf("Expected zero distance for identical points, got %v", d)
	}
}

func TestDistanceSymmetry(t *testing.T) {
	d1 := Distance(40.7128, -74.0060, 34.0522, -118.2437)
	d2 := Distance(34.0522, -118.2437, 40.7128, -74.0060)
	if math.Abs(d1-d2) > 1e-9 {
		t.Errorf("Expected symmetric distance, got %v and %v", d1, d2)
	}
}

func TestDistanceOneDegreeLatitude(t *testing.T) {
	// One degree of latitude is roughly 69 miles.
	d := Distance(40.0, -74.0, 41.0, -74.0)
	if math.Abs(d-69.0) > 0.5 {
		t.Errorf("Expected ~69 miles for 1 degree latitude, got %v", d)
	}
}

func TestDistanceKnownCityPair(t *testing.T) {
	// New York to Los Angeles, about 2445 miles great-circle.
	d := Distance(40.7128, -74.0060, 34.0522, -118.2437)
	if d < 2400 || d > 2500 {
		t.Errorf("Expected ~2445 miles NYC-LA, got %v", d)
	}
}
