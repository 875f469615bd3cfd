package cacheengine

import "sync"

// cacheEntry is the shadow value MemoryCache holds for one key.
type cacheEntry struct {
	value  []byte
	hasTTL bool
}

// MemoryCache is the shadow store for opaque string keys with optional TTL
// metadata.
//
// Concurrency: one sync.RWMutex guards the whole map, following the
// a read/write-lock split — reads take RLock, every
// mutation takes the exclusive Lock. Set populates entries; the
// dispatcher's invalidations (Remove, ClearTTL, Rename) are the other
// mutators. Application reads never block each other.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
}

// NewMemoryCache returns an empty, ready-to-use MemoryCache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]cacheEntry)}
}

// Set stores value for key, with or without TTL metadata. Exercised by the
// façade layer (out of scope here) when populating the shadow after a
// remote read or write; exposed so tests can seed state before asserting
// invalidation.
func (c *MemoryCache) Set(key string, value []byte, hasTTL bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{value: value, hasTTL: hasTTL}
}

// Get returns key's shadow value and whether it is present.
func (c *MemoryCache) Get(key string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	return e.value, true
}

// HasTTL reports whether key currently carries TTL metadata.
func (c *MemoryCache) HasTTL(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.entries[key].hasTTL
}

// Remove deletes every key in keys; missing keys are not an error. Returns
// the number of entries actually removed.
func (c *MemoryCache) Remove(keys ...string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for _, key := range keys {
		if _, ok := c.entries[key]; ok {
			delete(c.entries, key)
			n++
		}
	}
	return n
}

// ClearTTL removes TTL metadata for key without evicting its value.
func (c *MemoryCache) ClearTTL(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return
	}
	e.hasTTL = false
	c.entries[key] = e
}

// Rename moves key's entry from 'from' to 'to'. No-op if 'from' is absent.
// This is the sole structural move: the existing shadow entry (cached value
// and TTL flag) moves as it is, and nothing is fetched from the remote store.
func (c *MemoryCache) Rename(from, to string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[from]
	if !ok {
		return
	}
	delete(c.entries, from)
	c.entries[to] = e
}
