package cache

import (
	"testing"
	"time"

	"janbu/internal/core"
)

func TestLRUCacheGetSet(t *testing.T) {
	c := NewLRUCache[[]core.Record](10, time.Minute)

	if _, ok := c.Get("records"); ok {
		t.Fatalf("expected miss on empty cache")
	}

	records := []core.Record{{ID: "1", Date: "2024-05-01", Client: "Acme", Amount: "1000"}}
	c.Set("records", records)

	got, ok := c.Get("records")
	if !ok {
		t.Fatalf("expected hit")
	}
	if len(got) != 1 || got[0].Client != "Acme" {
		t.Fatalf("unexpected cached value: %+v", got)
	}

	c.Delete("records")
	if _, ok := c.Get("records"); ok {
		t.Fatalf("expected miss after delete")
	}
}

func TestLRUCacheTTLExpiry(t *testing.T) {
	c := NewLRUCache[string](10, 10*time.Millisecond)
	c.Set("k", "v")

	time.Sleep(20 * time.Millisecond)

	if _, ok := c.Get("k"); ok {
		t.Fatalf("expected expired entry to miss")
	}
	if c.Size() != 0 {
		t.Fatalf("expired entry not removed, size %d", c.Size())
	}
}

func TestLRUCacheEviction(t *testing.T) {
	c := NewLRUCache[int](2, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Get("a") // a becomes most recently used
	c.Set("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Fatalf("expected least recently used entry to be evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Fatalf("recently used entry must survive eviction")
	}
}

func TestCleanExpired(t *testing.T) {
	c := NewLRUCache[int](10, 10*time.Millisecond)
	c.Set("a", 1)
	c.Set("b", 2)

	time.Sleep(20 * time.Millisecond)

	if cleaned := c.CleanExpired(); cleaned != 2 {
		t.Fatalf("expected 2 cleaned, got %d", cleaned)
	}
	if c.Size() != 0 {
		t.Fatalf("expected empty cache, size %d", c.Size())
	}
}
