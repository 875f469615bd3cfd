package cacheengine

// Exclude encodes which endpoints of a score range are exclusive, using the
// same four-state convention as the upstream store's range-removal API
// The sorted-set store is the single
// point where this is translated into inclusive/exclusive comparisons.
type Exclude int

const (
	ExcludeNone  Exclude = 0 // both endpoints inclusive
	ExcludeStart Exclude = 1 // start exclusive, stop inclusive
	ExcludeStop  Exclude = 2 // start inclusive, stop exclusive
	ExcludeBoth  Exclude = 3 // both endpoints exclusive
)

// StartExclusive reports whether the range start is an open endpoint.
func (e Exclude) StartExclusive() bool { return e == ExcludeStart || e == ExcludeBoth }

// StopExclusive reports whether the range stop is an open endpoint.
func (e Exclude) StopExclusive() bool { return e == ExcludeStop || e == ExcludeBoth }

func parseExclude(s string) (Exclude, bool) {
	switch s {
	case "0":
		return ExcludeNone, true
	case "1":
		return ExcludeStart, true
	case "2":
		return ExcludeStop, true
	case "3":
		return ExcludeBoth, true
	default:
		return 0, false
	}
}
