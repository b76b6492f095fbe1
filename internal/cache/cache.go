// Package cache provides a bounded LRU cache that reports hit and miss
// statistics.
package cache

import (
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/discochess/fathom/internal/stats"
)

// Stats contains cache statistics.
type Stats struct {
	Hits   int64
	Misses int64
	Size   int // Current number of entries
}

// HitRate returns the cache hit rate as a percentage.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total) * 100
}

// Cache is a thread-safe LRU cache.
type Cache[K comparable, V any] struct {
	lru       *lru.Cache[K, V]
	collector stats.Collector

	hits   atomic.Int64
	misses atomic.Int64
}

// New creates a cache holding at most size entries.
// The collector is optional; if nil, a no-op collector is used.
func New[K comparable, V any](size int, collector stats.Collector) (*Cache[K, V], error) {
	l, err := lru.New[K, V](size)
	if err != nil {
		return nil, err
	}
	if collector == nil {
		collector = stats.NewNoop()
	}
	return &Cache[K, V]{lru: l, collector: collector}, nil
}

// Get retrieves a value by key.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	v, ok := c.lru.Get(key)
	if ok {
		c.hits.Add(1)
		c.collector.IncCounter(stats.MetricCacheHits, 1)
		return v, true
	}
	c.misses.Add(1)
	c.collector.IncCounter(stats.MetricCacheMisses, 1)
	return v, false
}

// Add stores a value, evicting the least recently used entry when full.
func (c *Cache[K, V]) Add(key K, value V) {
	c.lru.Add(key, value)
	c.collector.SetGauge(stats.MetricCacheSize, int64(c.lru.Len()))
}

// Purge removes all entries. Hit and miss counts are kept.
func (c *Cache[K, V]) Purge() {
	c.lru.Purge()
	c.collector.SetGauge(stats.MetricCacheSize, 0)
}

// Len returns the number of entries.
func (c *Cache[K, V]) Len() int {
	return c.lru.Len()
}

// Stats returns current cache statistics.
func (c *Cache[K, V]) Stats() Stats {
	return Stats{
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
		Size:   c.lru.Len(),
	}
}
