package cache_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/graphprobe/graphprobe/pkg/cache"
)

func TestMemoryCacheGetSet(t *testing.T) {
	c := cache.NewMemoryCache(16, time.Minute)
	defer c.Close()

	ctx := context.Background()

	if _, err := c.Get(ctx, "missing"); !errors.Is(err, cache.ErrMiss) {
		t.Errorf("Expected ErrMiss, got %v", err)
	}

	if err := c.Set(ctx, "search:savings", []string{"fact-1"}, 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	var facts []string
	if err := cache.GetJSON(ctx, c, "search:savings", &facts); err != nil {
		t.Fatalf("GetJSON failed: %v", err)
	}
	if len(facts) != 1 || facts[0] != "fact-1" {
		t.Errorf("Unexpected cached value: %v", facts)
	}
}

func TestMemoryCacheTypedRoundTrip(t *testing.T) {
	type result struct {
		UUID string `json:"uuid"`
		Fact string `json:"fact"`
	}

	c := cache.NewMemoryCache(16, time.Minute)
	defer c.Close()

	ctx := context.Background()

	stored := []result{{UUID: "u-1", Fact: "Hafiz has a savings account"}}
	if err := c.Set(ctx, "search:accounts", stored, 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	// Get returns the marshaled form so callers decode into their own
	// types instead of type-asserting on whatever the backend held.
	data, err := c.Get(ctx, "search:accounts")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	var loaded []result
	if err := cache.GetJSON(ctx, c, "search:accounts", &loaded); err != nil {
		t.Fatalf("GetJSON failed: %v", err)
	}
	if len(loaded) != 1 || loaded[0] != stored[0] {
		t.Errorf("Round trip mismatch: got %v from %s", loaded, data)
	}
}

func TestMemoryCacheDelete(t *testing.T) {
	c := cache.NewMemoryCache(16, time.Minute)
	defer c.Close()

	ctx := context.Background()

	_ = c.Set(ctx, "k", 1, 0)
	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := c.Get(ctx, "k"); !errors.Is(err, cache.ErrMiss) {
		t.Error("Deleted key should miss")
	}
}

func TestMemoryCacheDeletePattern(t *testing.T) {
	c := cache.NewMemoryCache(16, time.Minute)
	defer c.Close()

	ctx := context.Background()

	_ = c.Set(ctx, "search:a", 1, 0)
	_ = c.Set(ctx, "search:b", 2, 0)
	_ = c.Set(ctx, "other:c", 3, 0)

	if err := c.DeletePattern(ctx, "search:*"); err != nil {
		t.Fatalf("DeletePattern failed: %v", err)
	}

	if _, err := c.Get(ctx, "search:a"); !errors.Is(err, cache.ErrMiss) {
		t.Error("search:a should be evicted")
	}
	if _, err := c.Get(ctx, "search:b"); !errors.Is(err, cache.ErrMiss) {
		t.Error("search:b should be evicted")
	}
	if _, err := c.Get(ctx, "other:c"); err != nil {
		t.Error("other:c should survive")
	}
}

func TestMemoryCacheEviction(t *testing.T) {
	c := cache.NewMemoryCache(2, time.Minute)
	defer c.Close()

	ctx := context.Background()

	_ = c.Set(ctx, "a", 1, 0)
	_ = c.Set(ctx, "b", 2, 0)
	_ = c.Set(ctx, "c", 3, 0)

	// Oldest entry is evicted at capacity
	if _, err := c.Get(ctx, "a"); !errors.Is(err, cache.ErrMiss) {
		t.Error("Expected oldest key to be evicted")
	}
	if _, err := c.Get(ctx, "c"); err != nil {
		t.Error("Newest key should be present")
	}
}
