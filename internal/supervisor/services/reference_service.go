// Mercatus - Marketplace Directory Aggregation and Storefront API
// Copyright 2026 Mercatus Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mercatushq/mercatus

package services

import (
	"context"
	"time"

	"github.com/mercatushq/mercatus/internal/logging"
)

// Refresher primes a cache ahead of demand.
type Refresher interface {
	Refresh(ctx context.Context)
}

// ReferenceRefreshService keeps the reference taxonomies warm by
// refreshing them on a fixed interval, sized just inside the cache TTL so
// requests rarely pay the upstream round trip. Refresh failures inside
// the reference service degrade to fallbacks, so this loop never errors.
type ReferenceRefreshService struct {
	refresher Refresher
	interval  time.Duration
	name      string
}

// NewReferenceRefreshService creates the refresh loop. The interval
// should be slightly below the reference cache TTL.
func NewReferenceRefreshService(refresher Refresher, interval time.Duration) *ReferenceRefreshService {
	if interval <= 0 {
		interval = 55 * time.Minute
	}
	return &ReferenceRefreshService{
		refresher: refresher,
		interval:  interval,
		name:      "reference-refresh",
	}
}

// Serve implements suture.Service.
func (s *ReferenceRefreshService) Serve(ctx context.Context) error {
	// Warm the cache immediately on startup.
	s.refresher.Refresh(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.refresher.Refresh(ctx)
			logging.Debug().Msg("Reference taxonomies refreshed")
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// String implements fmt.Stringer for suture's log messages.
func (s *ReferenceRefreshService) String() string {
	return s.name
}
