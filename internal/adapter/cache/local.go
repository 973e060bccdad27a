package cache

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mru-labs/merchant-os/internal/observability/telemetry"
	"github.com/mru-labs/merchant-os/internal/ports"
)

type cacheEntry struct {
	value     string
	expiresAt time.Time
}

// LocalCache is an in-memory ports.Cache used when Redis is not configured.
type LocalCache struct {
	data     map[string]cacheEntry
	mu       sync.RWMutex
	log      *zap.Logger
	stopCh   chan struct{}
	stopOnce sync.Once
	now      func() time.Time
}

func NewLocalCache(cleanupInterval time.Duration, log *zap.Logger) *LocalCache {
	if cleanupInterval <= 0 {
		cleanupInterval = time.Minute
	}

	c := &LocalCache{
		data:   make(map[string]cacheEntry),
		log:    log,
		stopCh: make(chan struct{}),
		now:    time.Now,
	}

	go c.cleanupLoop(cleanupInterval)

	log.Info("Local in-memory cache initialized",
		zap.Duration("cleanup_interval", cleanupInterval),
	)
	return c
}

var _ ports.Cache = (*LocalCache)(nil)

func (c *LocalCache) Get(ctx context.Context, key string) (string, error) {
	c.mu.RLock()
	entry, ok := c.data[key]
	c.mu.RUnlock()

	if !ok || (!entry.expiresAt.IsZero() && !entry.expiresAt.After(c.now())) {
		telemetry.CacheLookups.WithLabelValues("local", "miss").Inc()
		return "", ports.ErrCacheMiss
	}
	telemetry.CacheLookups.WithLabelValues("local", "hit").Inc()
	return entry.value, nil
}

func (c *LocalCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	strVal, err := encode(value)
	if err != nil {
		return err
	}

	entry := cacheEntry{value: strVal}
	if expiration > 0 {
		entry.expiresAt = c.now().Add(expiration)
	}

	c.mu.Lock()
	c.data[key] = entry
	c.mu.Unlock()
	return nil
}

func (c *LocalCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	delete(c.data, key)
	c.mu.Unlock()
	return nil
}

func (c *LocalCache) Ping() error {
	return nil
}

func (c *LocalCache) Close() error {
	c.stopOnce.Do(func() { close(c.stopCh) })
	return nil
}

func (c *LocalCache) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.cleanup()
		case <-c.stopCh:
			return
		}
	}
}

func (c *LocalCache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	expired := 0
	for key, entry := range c.data {
		if !entry.expiresAt.IsZero() && !entry.expiresAt.After(now) {
			delete(c.data, key)
			expired++
		}
	}

	if expired > 0 {
		c.log.Debug("Cache cleanup completed", zap.Int("expired_entries", expired))
	}
}
