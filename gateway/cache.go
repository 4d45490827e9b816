package gateway

import (
	"slices"
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

// CacheStats describes the live cache contents.
type CacheStats struct {
	Size int      `json:"size" yaml:"size"`
	Keys []string `json:"keys" yaml:"keys"`
}

// responseCache stores successful results by key. Entries are never
// refreshed on read: an entry stored at t with ttl d is gone at t+d.
type responseCache struct {
	items      *ttlcache.Cache[string, any]
	defaultTTL time.Duration
	stopOnce   sync.Once
}

func newResponseCache(defaultTTL time.Duration) *responseCache {
	items := ttlcache.New[string, any](
		ttlcache.WithTTL[string, any](defaultTTL),
		ttlcache.WithDisableTouchOnHit[string, any](),
	)
	go items.Start()

	return &responseCache{items: items, defaultTTL: defaultTTL}
}

func (c *responseCache) get(key string) (any, bool) {
	item := c.items.Get(key)
	if item == nil || item.IsExpired() {
		return nil, false
	}
	return item.Value(), true
}

func (c *responseCache) set(key string, value any, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	c.items.Set(key, value, ttl)
}

func (c *responseCache) delete(key string) {
	c.items.Delete(key)
}

func (c *responseCache) clear() {
	c.items.DeleteAll()
}

func (c *responseCache) stats() CacheStats {
	c.items.DeleteExpired()
	keys := c.items.Keys()
	slices.Sort(keys)
	return CacheStats{Size: len(keys), Keys: keys}
}

func (c *responseCache) stop() {
	c.stopOnce.Do(c.items.Stop)
}
