package cacheengine

import "sync"

// MemoryHashes is the shadow store for hash keys; it tracks field
// *presence*, not field values — the façade layer that would hold values
// is out of scope for this core.
type MemoryHashes struct {
	mu     sync.RWMutex
	fields map[string]map[string]struct{}
}

// NewMemoryHashes returns an empty, ready-to-use MemoryHashes.
func NewMemoryHashes() *MemoryHashes {
	return &MemoryHashes{fields: make(map[string]map[string]struct{})}
}

// SetField records field as present in key's shadow hash.
func (h *MemoryHashes) SetField(key, field string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	m, ok := h.fields[key]
	if !ok {
		m = make(map[string]struct{})
		h.fields[key] = m
	}
	m[field] = struct{}{}
}

// HasField reports whether field is currently cached for key.
func (h *MemoryHashes) HasField(key, field string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.fields[key][field]
	return ok
}

// Delete removes fields from key's shadow hash; idempotent, tolerates a
// missing key or missing fields.
func (h *MemoryHashes) Delete(key string, fields ...string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	m, ok := h.fields[key]
	if !ok {
		return
	}
	for _, f := range fields {
		delete(m, f)
	}
	if len(m) == 0 {
		delete(h.fields, key)
	}
}
