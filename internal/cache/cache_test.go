// Mercatus - Marketplace Directory Aggregation and Storefront API
// Copyright 2026 Mercatus Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mercatushq/mercatus

package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestCacheBasicOperations(t *testing.T) {
	c := New(1*time.Minute, time.Minute)

	c.Set("key1", "value1")
	value, exists := c.Get("key1")
	if !exists {
		t.Error("Expected key1 to exist")
	}
	if value != "value1" {
		t.Errorf("Expected value1, got %v", value)
	}

	_, exists = c.Get("key2")
	if exists {
		t.Error("Expected key2 to not exist")
	}
}

func TestCacheExpiration(t *testing.T) {
	c := New(100*time.Millisecond, time.Minute)

	c.Set("key1", "value1")

	_, exists := c.Get("key1")
	if !exists {
		t.Error("Expected key1 to exist immediately after set")
	}

	time.Sleep(150 * time.Millisecond)

	_, exists = c.Get("key1")
	if exists {
		t.Error("Expected key1 to be expired")
	}
}

func TestCacheSetWithTTL(t *testing.T) {
	c := New(1*time.Hour, time.Minute)

	c.SetWithTTL("short", "value", 100*time.Millisecond)
	c.Set("long", "value")

	time.Sleep(150 * time.Millisecond)

	if _, exists := c.Get("short"); exists {
		t.Error("Expected short-TTL entry to be expired")
	}
	if _, exists := c.Get("long"); !exists {
		t.Error("Expected default-TTL entry to survive")
	}
}

func TestCacheDelete(t *testing.T) {
	c := New(1*time.Minute, time.Minute)

	c.Set("key1", "value1")
	c.Delete("key1")

	_, exists := c.Get("key1")
	if exists {
		t.Error("Expected key1 to be deleted")
	}
}

func TestCacheClear(t *testing.T) {
	c := New(1*time.Minute, time.Minute)

	c.Set("key1", "value1")
	c.Set("key2", "value2")
	c.Set("key3", "value3")

	c.Clear()

	for _, key := range []string{"key1", "key2", "key3"} {
		_, exists := c.Get(key)
		if exists {
			t.Errorf("Expected %s to be cleared", key)
		}
	}
}

func TestCacheGetOrLoad(t *testing.T) {
	c := New(1*time.Minute, time.Minute)
	ctx := context.Background()

	calls := 0
	loader := func(context.Context) (interface{}, error) {
		calls++
		return "loaded", nil
	}

	v, err := c.GetOrLoad(ctx, "k", time.Minute, loader)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if v != "loaded" {
		t.Errorf("Expected loaded, got %v", v)
	}
	if calls != 1 {
		t.Errorf("Expected 1 loader call, got %d", calls)
	}

	// Second call should hit the cache, not the loader.
	if _, err := c.GetOrLoad(ctx, "k", time.Minute, loader); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if calls != 1 {
		t.Errorf("Expected loader to not be called again, got %d calls", calls)
	}
}

func TestCacheGetOrLoadErrorNotCached(t *testing.T) {
	c := New(1*time.Minute, time.Minute)
	ctx := context.Background()

	calls := 0
	failing := func(context.Context) (interface{}, error) {
		calls++
		return nil, errors.New("upstream down")
	}

	if _, err := c.GetOrLoad(ctx, "k", time.Minute, failing); err == nil {
		t.Fatal("Expected loader error to propagate")
	}

	// Failure must not be cached; the next call retries the loader.
	if _, err := c.GetOrLoad(ctx, "k", time.Minute, failing); err == nil {
		t.Fatal("Expected loader error to propagate on retry")
	}
	if calls != 2 {
		t.Errorf("Expected 2 loader calls, got %d", calls)
	}
}

func TestCacheGetOrLoadCoalescesConcurrentMisses(t *testing.T) {
	c := New(1*time.Minute, time.Minute)
	ctx := context.Background()

	var calls int64
	gate := make(chan struct{})
	loader := func(context.Context) (interface{}, error) {
		atomic.AddInt64(&calls, 1)
		<-gate
		return "loaded", nil
	}

	const goroutines = 20
	results := make(chan interface{}, goroutines)
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := c.GetOrLoad(ctx, "k", time.Minute, loader)
			if err != nil {
				t.Errorf("Unexpected error: %v", err)
				return
			}
			results <- v
		}()
	}

	// Let every goroutine reach the miss before releasing the loader.
	time.Sleep(50 * time.Millisecond)
	close(gate)
	wg.Wait()
	close(results)

	if got := atomic.LoadInt64(&calls); got != 1 {
		t.Errorf("Expected concurrent misses to share 1 loader call, got %d", got)
	}
	for v := range results {
		if v != "loaded" {
			t.Errorf("Expected every caller to get loaded, got %v", v)
		}
	}
}

func TestCacheStats(t *testing.T) {
	c := New(1*time.Minute, time.Minute)

	c.Set("key1", "value1")
	c.Get("key1")
	c.Get("key1")
	c.Get("missing")

	stats := c.GetStats()
	if stats.Hits != 2 {
		t.Errorf("Expected 2 hits, got %d", stats.Hits)
	}
	if stats.Misses != 1 {
		t.Errorf("Expected 1 miss, got %d", stats.Misses)
	}
	if stats.TotalKeys != 1 {
		t.Errorf("Expected 1 key, got %d", stats.TotalKeys)
	}

	rate := c.HitRate()
	expected := 2.0 / 3.0 * 100.0
	if rate < expected-0.01 || rate > expected+0.01 {
		t.Errorf("Expected hit rate ~%.2f, got %.2f", expected, rate)
	}
}

func TestCacheConcurrentAccess(t *testing.T) {
	c := New(1*time.Minute, time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := fmt.Sprintf("key%d", n%10)
			c.Set(key, n)
			c.Get(key)
		}(i)
	}
	wg.Wait()

	stats := c.GetStats()
	if stats.TotalKeys != 10 {
		t.Errorf("Expected 10 keys, got %d", stats.TotalKeys)
	}
}

func TestGenerateKey(t *testing.T) {
	type params struct {
		Page    int    `json:"page"`
		PerPage int    `json:"per_page"`
		Search  string `json:"search"`
	}

	k1 := GenerateKey("places", params{Page: 1, PerPage: 12})
	k2 := GenerateKey("places", params{Page: 1, PerPage: 12})
	k3 := GenerateKey("places", params{Page: 2, PerPage: 12})

	if k1 != k2 {
		t.Error("Expected identical params to produce identical keys")
	}
	if k1 == k3 {
		t.Error("Expected different params to produce different keys")
	}

	k4 := GenerateKey("users", params{Page: 1, PerPage: 12})
	if k1 == k4 {
		t.Error("Expected different methods to produce different keys")
	}
}

func TestStopKeepsCacheUsable(t *testing.T) {
	c := New(time.Minute, time.Millisecond)
	c.Set("key", "value")
	c.Stop()

	time.Sleep(5 * time.Millisecond)

	if v, ok := c.Get("key"); !ok || v != "value" {
		t.Errorf("Expected cache usable after Stop, got %v %v", v, ok)
	}
}
