package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/mru-labs/merchant-os/internal/ports"
)

func TestLocalCacheRoundTrip(t *testing.T) {
	c := NewLocalCache(time.Hour, zap.NewNop())
	defer c.Close()
	ctx := context.Background()

	if _, err := c.Get(ctx, "missing"); !errors.Is(err, ports.ErrCacheMiss) {
		t.Errorf("Get(missing) error = %v, want ErrCacheMiss", err)
	}

	_ = c.Set(ctx, "s", "plain", 0)
	_ = c.Set(ctx, "b", []byte("bytes"), 0)
	_ = c.Set(ctx, "j", map[string]int{"n": 1}, 0)

	for key, want := range map[string]string{"s": "plain", "b": "bytes", "j": `{"n":1}`} {
		got, err := c.Get(ctx, key)
		if err != nil || got != want {
			t.Errorf("Get(%s) = %q, %v; want %q", key, got, err, want)
		}
	}

	_ = c.Delete(ctx, "s")
	if _, err := c.Get(ctx, "s"); !errors.Is(err, ports.ErrCacheMiss) {
		t.Errorf("Get after Delete error = %v", err)
	}
}

func TestLocalCacheExpiry(t *testing.T) {
	c := NewLocalCache(time.Hour, zap.NewNop())
	defer c.Close()

	now := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	ctx := context.Background()

	_ = c.Set(ctx, "k", "v", time.Minute)
	if _, err := c.Get(ctx, "k"); err != nil {
		t.Fatalf("Get before expiry error = %v", err)
	}

	now = now.Add(2 * time.Minute)
	if _, err := c.Get(ctx, "k"); !errors.Is(err, ports.ErrCacheMiss) {
		t.Errorf("Get after expiry error = %v, want ErrCacheMiss", err)
	}

	c.cleanup()
	c.mu.RLock()
	n := len(c.data)
	c.mu.RUnlock()
	if n != 0 {
		t.Errorf("entries after cleanup = %d, want 0", n)
	}
}

func TestLocalCacheConcurrentAccess(t *testing.T) {
	c := NewLocalCache(time.Hour, zap.NewNop())
	defer c.Close()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = c.Set(ctx, "shared", "v", time.Minute)
			_, _ = c.Get(ctx, "shared")
		}()
	}
	wg.Wait()

	if err := c.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}
