package cacheengine

import "sync"

// MemorySets is the shadow store for set keys, keyed by each member's
// identity token rather than its full value.
type MemorySets struct {
	mu      sync.RWMutex
	members map[string]map[string]struct{}
}

// NewMemorySets returns an empty, ready-to-use MemorySets.
func NewMemorySets() *MemorySets {
	return &MemorySets{members: make(map[string]map[string]struct{})}
}

// AddToken records token as a present member of key's shadow set.
func (s *MemorySets) AddToken(key, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.members[key]
	if !ok {
		m = make(map[string]struct{})
		s.members[key] = m
	}
	m[token] = struct{}{}
}

// HasToken reports whether token is currently cached as a member of key.
func (s *MemorySets) HasToken(key, token string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.members[key][token]
	return ok
}

// RemoveByToken removes members of key whose identity token matches one in
// tokens; idempotent, tolerates a missing key or missing tokens.
func (s *MemorySets) RemoveByToken(key string, tokens ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.members[key]
	if !ok {
		return
	}
	for _, t := range tokens {
		delete(m, t)
	}
	if len(m) == 0 {
		delete(s.members, key)
	}
}
