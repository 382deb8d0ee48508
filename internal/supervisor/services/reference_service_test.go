// Mercatus - Marketplace Directory Aggregation and Storefront API
// Copyright 2026 Mercatus Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mercatushq/mercatus

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type countingRefresher struct {
	calls atomic.Int32
}

func (c *countingRefresher) Refresh(ctx context.Context) {
	c.calls.Add(1)
}

func TestReferenceRefreshWarmsOnStartup(t *testing.T) {
	refresher := &countingRefresher{}
	svc := NewReferenceRefreshService(refresher, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if refresher.calls.Load() != 1 {
		t.Errorf("Expected one startup refresh, got %d", refresher.calls.Load())
	}
}

func TestReferenceRefreshTicks(t *testing.T) {
	refresher := &countingRefresher{}
	svc := NewReferenceRefreshService(refresher, 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 55*time.Millisecond)
	defer cancel()
	_ = svc.Serve(ctx)

	if calls := refresher.calls.Load(); calls < 3 {
		t.Errorf("Expected several refreshes, got %d", calls)
	}
}

func TestReferenceRefreshDefaultInterval(t *testing.T) {
	svc := NewReferenceRefreshService(&countingRefresher{}, 0)
	if svc.interval != 55*time.Minute {
		t.Errorf("Unexpected default interval %v", svc.interval)
	}
}
