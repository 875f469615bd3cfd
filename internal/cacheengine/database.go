package cacheengine

// Database is the registration-surface handle applications hand to a
// Listener: an opaque bundle of references to the four typed local stores
// The Listener borrows these
// references; it never owns or frees them.
type Database struct {
	Cache      *MemoryCache
	Hashes     *MemoryHashes
	Sets       *MemorySets
	SortedSets *MemorySortedSets
}

// NewDatabase bundles the four store references into a registrable handle.
func NewDatabase(cache *MemoryCache, hashes *MemoryHashes, sets *MemorySets, sortedSets *MemorySortedSets) *Database {
	return &Database{Cache: cache, Hashes: hashes, Sets: sets, SortedSets: sortedSets}
}
