// Package metrics exposes Prometheus counters for the invalidation engine.
// Observability is not part of the engine's contract (callers never depend
// on it for correctness): a nil *Set is valid and every method becomes a
// no-op, so the engine works identically with or without Prometheus wired.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Set bundles the counters the dispatcher and listener report to.
type Set struct {
	dispatched *prometheus.CounterVec
	dropped    *prometheus.CounterVec
	ignored    prometheus.Counter
}

// NewSet creates and registers the counters against reg. Pass nil to get an
// unregistered, fully functional Set (useful in tests).
func NewSet(reg prometheus.Registerer) *Set {
	s := &Set{
		dispatched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "stackredis_l1",
			Name:      "events_dispatched_total",
			Help:      "Keyspace notifications that produced a store mutation, by event kind.",
		}, []string{"event"}),
		dropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "stackredis_l1",
			Name:      "events_dropped_total",
			Help:      "Keyspace notifications dropped before dispatch, by reason.",
		}, []string{"reason"}),
		ignored: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "stackredis_l1",
			Name:      "events_ignored_total",
			Help:      "Keyspace notifications with no invalidation-table entry or an unparseable argument.",
		}),
	}

	if reg != nil {
		reg.MustRegister(s.dispatched, s.dropped, s.ignored)
	}
	return s
}

// Dispatched records a mutation applied for the given event kind.
func (s *Set) Dispatched(event string) {
	if s == nil {
		return
	}
	s.dispatched.WithLabelValues(event).Inc()
}

// Dropped records an event dropped before reaching the invalidation table
// (paused, self-originated, or a channel outside the handler's family).
func (s *Set) Dropped(reason string) {
	if s == nil {
		return
	}
	s.dropped.WithLabelValues(reason).Inc()
}

// Ignored records an event that classifies to no mutation: its name carries
// no invalidation-table entry, or its argument fails to parse.
func (s *Set) Ignored() {
	if s == nil {
		return
	}
	s.ignored.Inc()
}
