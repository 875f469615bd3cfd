package cacheengine

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/Tungtt2020/StackRedis.L1/internal/identity"
	"github.com/Tungtt2020/StackRedis.L1/internal/metrics"
)

// Listener owns the subscription to one database's two keyspace-
// notification channel families, maintains the registered-database list,
// and mutates registered stores as notifications arrive.
//
// Scheduling model: handlers run on whatever goroutine the Subscriber
// delivers on, concurrently with application goroutines reading/writing
// the typed stores. Handlers never block: they parse (no I/O)
// then invoke store mutators directly.
type Listener struct {
	log      *zap.Logger
	sub      Subscriber
	identity *identity.Provider
	parser   *Parser
	dispatch *Dispatcher
	metrics  *metrics.Set

	reg    *registry
	paused atomic.Bool

	standardPattern string
	detailedPattern string

	subscribeOnce singleflight.Group
	mu            sync.Mutex
	stdSub        Subscription
	detSub        Subscription
}

// NewListener installs both pattern subscriptions for database dbIndex and
// returns a ready-to-use Listener. m may be nil — metrics are not part of
// the contract.
func NewListener(ctx context.Context, log *zap.Logger, sub Subscriber, id *identity.Provider, dbIndex int, m *metrics.Set) (*Listener, error) {
	log = log.Named("listener")
	l := &Listener{
		log:             log,
		sub:             sub,
		identity:        id,
		parser:          NewParser(dbIndex),
		dispatch:        NewDispatcher(log, m),
		metrics:         m,
		reg:             newRegistry(),
		standardPattern: fmt.Sprintf("__keyspace@%d__:*", dbIndex),
		detailedPattern: fmt.Sprintf("__keyspace_detailed@%d__:*", dbIndex),
	}

	// Run through the listener's singleflight group; this constructor is
	// its only caller, so the pair is installed once per Listener.
	if _, err, _ := l.subscribeOnce.Do("subscribe", func() (any, error) {
		return nil, l.ensureSubscribed(ctx)
	}); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *Listener) ensureSubscribed(ctx context.Context) error {
	stdSub, err := l.sub.Subscribe(ctx, l.standardPattern, l.handleStandard)
	if err != nil {
		return fmt.Errorf("subscribe standard channel: %w", err)
	}

	detSub, err := l.sub.Subscribe(ctx, l.detailedPattern, l.handleDetailed)
	if err != nil {
		_ = stdSub.Unsubscribe(ctx)
		return fmt.Errorf("subscribe detailed channel: %w", err)
	}

	l.mu.Lock()
	l.stdSub, l.detSub = stdSub, detSub
	l.mu.Unlock()
	return nil
}

// Register adds db to the set of databases that receive future
// invalidations. Registration is additive; there is no
// deregistration.
func (l *Listener) Register(db *Database) {
	l.reg.register(db)
}

// Pause suppresses dispatch of incoming events on both channels when flag
// is true. Observed best-effort: an event already being handled when Pause
// is called may still complete dispatch.
func (l *Listener) Pause(flag bool) {
	l.paused.Store(flag)
}

// Close releases both pattern subscriptions. Both are released here to
// avoid leaking the detailed subscription on teardown.
func (l *Listener) Close(ctx context.Context) error {
	l.mu.Lock()
	stdSub, detSub := l.stdSub, l.detSub
	l.mu.Unlock()

	var errStd, errDet error
	if stdSub != nil {
		errStd = stdSub.Unsubscribe(ctx)
	}
	if detSub != nil {
		errDet = detSub.Unsubscribe(ctx)
	}
	switch {
	case errStd != nil:
		return fmt.Errorf("unsubscribe standard channel: %w", errStd)
	case errDet != nil:
		return fmt.Errorf("unsubscribe detailed channel: %w", errDet)
	default:
		return nil
	}
}

// handleStandard is the PSUBSCRIBE callback for the standard channel
// family. It never returns an error: there is no caller to receive one.
func (l *Listener) handleStandard(channel, payload string) {
	if l.paused.Load() {
		l.metrics.Dropped("paused")
		return
	}

	in := l.parser.Parse(channel, payload)
	if in.Kind != ChannelStandard {
		l.metrics.Dropped("parse_failure")
		return
	}

	l.dispatch.Dispatch(classify(in), l.reg.snapshot())
}

// handleDetailed is the PSUBSCRIBE callback for the detailed channel
// family. Self-originated events are dropped before
// dispatch.
func (l *Listener) handleDetailed(channel, payload string) {
	if l.paused.Load() {
		l.metrics.Dropped("paused")
		return
	}

	in := l.parser.Parse(channel, payload)
	if in.Kind != ChannelDetailed {
		l.metrics.Dropped("parse_failure")
		return
	}

	if identity.Token(in.Originator) == l.identity.Current() {
		l.metrics.Dropped("self_originated")
		return
	}

	l.dispatch.Dispatch(classify(in), l.reg.snapshot())
}
