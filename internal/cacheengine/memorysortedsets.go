package cacheengine

import "sync"

// MemorySortedSets is the shadow store for sorted-set keys, keyed by each
// member's numeric identity token so a removal never needs to reconstruct
// the member's full value.
type MemorySortedSets struct {
	mu     sync.RWMutex
	scores map[string]map[int64]float64
}

// NewMemorySortedSets returns an empty, ready-to-use MemorySortedSets.
func NewMemorySortedSets() *MemorySortedSets {
	return &MemorySortedSets{scores: make(map[string]map[int64]float64)}
}

// AddToken records token as a member of key's shadow sorted set at score.
func (z *MemorySortedSets) AddToken(key string, token int64, score float64) {
	z.mu.Lock()
	defer z.mu.Unlock()

	m, ok := z.scores[key]
	if !ok {
		m = make(map[int64]float64)
		z.scores[key] = m
	}
	m[token] = score
}

// Score returns the cached score for token in key, and whether it is present.
func (z *MemorySortedSets) Score(key string, token int64) (float64, bool) {
	z.mu.RLock()
	defer z.mu.RUnlock()
	score, ok := z.scores[key][token]
	return score, ok
}

// RemoveByToken removes the member with the given identity token;
// idempotent, tolerates a missing key or token.
func (z *MemorySortedSets) RemoveByToken(key string, token int64) {
	z.mu.Lock()
	defer z.mu.Unlock()

	m, ok := z.scores[key]
	if !ok {
		return
	}
	delete(m, token)
	if len(m) == 0 {
		delete(z.scores, key)
	}
}

// DeleteByScore removes members of key whose score falls in the interval
// bounded by start and stop, with exclusivity governed by exclude. Returns
// the number of members removed.
func (z *MemorySortedSets) DeleteByScore(key string, start, stop float64, exclude Exclude) int {
	z.mu.Lock()
	defer z.mu.Unlock()

	m, ok := z.scores[key]
	if !ok {
		return 0
	}

	n := 0
	for token, score := range m {
		if scoreInRange(score, start, stop, exclude) {
			delete(m, token)
			n++
		}
	}
	if len(m) == 0 {
		delete(z.scores, key)
	}
	return n
}

func scoreInRange(score, start, stop float64, exclude Exclude) bool {
	if exclude.StartExclusive() {
		if score <= start {
			return false
		}
	} else if score < start {
		return false
	}

	if exclude.StopExclusive() {
		if score >= stop {
			return false
		}
	} else if score > stop {
		return false
	}
	return true
}
