// Package cache implements the two-level plan cache (C1): a bounded
// associative container parameterized by key/value types and a pluggable
// eviction policy (GDFS/LRU), generalizing the teacher's LRU/history cache
// contract (sql/cache_test.go: newLRUCache, newHistoryCache) to an
// explicit policy interface per spec §4.1.
package cache

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// EvictionPolicy governs which key a Cache evicts when it is full. A
// policy is not required to be safe for concurrent use on its own; Cache
// serializes every call into it behind its own mutex (spec §4.1
// "concurrency... the cache serializes updates internally").
type EvictionPolicy[K comparable] interface {
	// OnGet is called after a successful TryGet, to record a hit.
	OnGet(key K)
	// OnSet is called after a key is inserted or refreshed.
	OnSet(key K)
	// OnRemove is called when a key leaves the cache, via eviction or Clear.
	OnRemove(key K)
	// Victim selects the next key to evict. Returns ok=false if the
	// policy has nothing to evict.
	Victim() (K, bool)
}

// Cache is a bounded key/value map with pluggable eviction. Instances are
// safe for concurrent use (spec §4.1 "callers may read and write from
// multiple threads; the cache serializes updates internally").
type Cache[K comparable, V any] struct {
	mu       sync.Mutex
	capacity int
	items    map[K]V
	policy   EvictionPolicy[K]

	hits   prometheus.Counter
	misses prometheus.Counter
	evicts prometheus.Counter
}

// Metrics names a cache instance for its prometheus counters, so the
// logical and physical plan caches (pipeline) can be told apart in
// /metrics output.
type Metrics struct {
	Hits, Misses, Evictions prometheus.Counter
}

// New constructs a Cache with the given capacity (0 means unbounded) and
// eviction policy.
func New[K comparable, V any](capacity int, policy EvictionPolicy[K], m Metrics) *Cache[K, V] {
	return &Cache[K, V]{
		capacity: capacity,
		items:    make(map[K]V),
		policy:   policy,
		hits:     m.Hits,
		misses:   m.Misses,
		evicts:   m.Evictions,
	}
}

// TryGet returns the stored value for key, or ok=false on a miss. Pure
// with respect to logical state except for eviction-policy bookkeeping
// (spec §4.1).
func (c *Cache[K, V]) TryGet(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, ok := c.items[key]
	if !ok {
		c.count(c.misses)
		var zero V
		return zero, false
	}
	c.policy.OnGet(key)
	c.count(c.hits)
	return v, true
}

// Set inserts or refreshes key, evicting per policy when the cache is at
// capacity. Guarantee: a Set immediately followed by a TryGet on the same
// key returns the stored value unless an eviction raced in between
// (spec §4.1).
func (c *Cache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.items[key]; !exists && c.capacity > 0 && len(c.items) >= c.capacity {
		if victim, ok := c.policy.Victim(); ok {
			delete(c.items, victim)
			c.policy.OnRemove(victim)
			c.count(c.evicts)
		}
	}
	c.items[key] = value
	c.policy.OnSet(key)
}

// Clear empties the cache and notifies the policy for every removed key.
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for k := range c.items {
		c.policy.OnRemove(k)
	}
	c.items = make(map[K]V)
}

// Len reports the current number of entries, mainly for tests.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *Cache[K, V]) count(m prometheus.Counter) {
	if m != nil {
		m.Inc()
	}
}
