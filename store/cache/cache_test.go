package cache

import (
	"context"
	"testing"
	"time"
)

func TestCacheSetGetDelete(t *testing.T) {
	ctx := context.Background()
	c := New(Config{DefaultTTL: time.Minute, CleanupInterval: time.Minute, MaxItems: 10})
	defer c.Close()

	c.Set(ctx, "k", "v")
	got, ok := c.Get(ctx, "k")
	if !ok || got.(string) != "v" {
		t.Fatalf("expected hit with v, got %v %v", got, ok)
	}

	c.Delete(ctx, "k")
	if _, ok := c.Get(ctx, "k"); ok {
		t.Fatal("expected miss after delete")
	}
}

func TestCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c := New(Config{DefaultTTL: 10 * time.Millisecond, CleanupInterval: time.Minute, MaxItems: 10})
	defer c.Close()

	c.Set(ctx, "k", "v")
	time.Sleep(20 * time.Millisecond)
	if _, ok := c.Get(ctx, "k"); ok {
		t.Fatal("expected entry to expire")
	}
}

func TestCacheEvictsAtCapacity(t *testing.T) {
	ctx := context.Background()
	evicted := 0
	c := New(Config{
		DefaultTTL:      time.Minute,
		CleanupInterval: time.Minute,
		MaxItems:        2,
		OnEviction:      func(key string, value any) { evicted++ },
	})
	defer c.Close()

	c.Set(ctx, "a", 1)
	c.Set(ctx, "b", 2)
	c.Set(ctx, "c", 3)

	if evicted != 1 {
		t.Fatalf("expected 1 eviction, got %d", evicted)
	}
	if _, ok := c.Get(ctx, "c"); !ok {
		t.Fatal("newest entry should survive eviction")
	}
}
