package cacheengine

import (
	"strconv"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"go.uber.org/zap"

	"github.com/Tungtt2020/StackRedis.L1/internal/metrics"
)

// classify maps a ParsedInput to the semantic Event per the invalidation
// table. Channels outside the two known families, and event
// names with no table entry, classify as EventIgnored — the table is
// authoritative; unknown names are no-ops.
func classify(in ParsedInput) Event {
	switch in.Kind {
	case ChannelStandard:
		return classifyStandard(in)
	case ChannelDetailed:
		return classifyDetailed(in)
	default:
		return Event{Kind: EventIgnored}
	}
}

func classifyStandard(in ParsedInput) Event {
	if in.EventName == "expired" {
		return Event{Kind: EventExpired, Key: in.Key}
	}
	return Event{Kind: EventIgnored, Key: in.Key}
}

func classifyDetailed(in ParsedInput) Event {
	switch in.EventName {
	case "del":
		return Event{Kind: EventDeleted, Key: in.Key}
	case "expire":
		return Event{Kind: EventExpire, Key: in.Key}
	case "rename_key":
		if in.EventArg == "" {
			return Event{Kind: EventIgnored, Key: in.Key}
		}
		return Event{Kind: EventRenamed, Key: in.Key, From: in.Key, To: in.EventArg}
	case "set":
		return Event{Kind: EventStringSet, Key: in.Key}
	case "setbit", "setrange", "incrby", "incrbyfloat", "decrby", "decrbyfloat", "append":
		return Event{Kind: EventStringMutated, Key: in.Key}
	case "hset", "hdel", "hincr", "hincrbyfloat", "hdecr", "hdecrbyfloat":
		return Event{Kind: EventHashFieldChanged, Key: in.Key, Field: in.EventArg}
	case "srem":
		return Event{Kind: EventSetMemberRemoved, Key: in.Key, MemberToken: in.EventArg}
	case "zadd", "zrem", "zincr", "zdecr":
		token, err := strconv.ParseInt(in.EventArg, 10, 64)
		if err != nil {
			return Event{Kind: EventIgnored, Key: in.Key}
		}
		return Event{Kind: EventSortedSetMemberChanged, Key: in.Key, SortedMemberToken: token}
	case "zremrangebyscore":
		start, stop, exclude, ok := parseScoreRange(in.EventArg)
		if !ok {
			return Event{Kind: EventIgnored, Key: in.Key}
		}
		return Event{Kind: EventSortedSetRangeByScoreRemoved, Key: in.Key, RangeStart: start, RangeStop: stop, RangeExclude: exclude}
	case "zremrangebyrank", "zremrangebylex":
		return Event{Kind: EventSortedSetRangeInvalidated, Key: in.Key}
	default:
		return Event{Kind: EventIgnored, Key: in.Key}
	}
}

// parseScoreRange splits a "<start>-<stop>-<excludeCode>" argument into its
// three fields. Wrong field count or a non-numeric field fails. Scores
// containing '-' (negative
// values) are not disambiguated by this wire format; the upstream encoding
// assumes non-negative scores for this event.
func parseScoreRange(arg string) (start, stop float64, exclude Exclude, ok bool) {
	parts := strings.Split(arg, "-")
	if len(parts) != 3 {
		return 0, 0, 0, false
	}

	start, errStart := strconv.ParseFloat(parts[0], 64)
	stop, errStop := strconv.ParseFloat(parts[1], 64)
	exclude, okExclude := parseExclude(parts[2])
	if errStart != nil || errStop != nil || !okExclude {
		return 0, 0, 0, false
	}
	return start, stop, exclude, true
}

// Dispatcher applies a classified Event to every registered Database's
// typed stores. It never lets a mutator panic escape: a recovered panic
// is logged at debug and dispatch continues with the next database.
type Dispatcher struct {
	log     *zap.Logger
	metrics *metrics.Set
}

// NewDispatcher builds a Dispatcher. m may be nil (metrics are not a
// contract).
func NewDispatcher(log *zap.Logger, m *metrics.Set) *Dispatcher {
	return &Dispatcher{log: log.Named("dispatch"), metrics: m}
}

// Dispatch applies ev's mutation to every database in dbs, in order.
// EventIgnored produces no mutation on any store.
func (d *Dispatcher) Dispatch(ev Event, dbs []*Database) {
	if ev.Kind == EventIgnored {
		d.metrics.Ignored()
		d.log.Debug("ignored event", zap.String("key", ev.Key), zap.String("dump", spew.Sdump(ev)))
		return
	}

	for _, db := range dbs {
		d.applyOne(ev, db)
	}
	d.metrics.Dispatched(ev.Kind.String())
}

func (d *Dispatcher) applyOne(ev Event, db *Database) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Debug("mutator panicked, continuing with next database",
				zap.Any("recover", r), zap.String("key", ev.Key), zap.String("event", ev.Kind.String()))
		}
	}()

	switch ev.Kind {
	case EventExpired, EventDeleted, EventStringSet, EventStringMutated, EventSortedSetRangeInvalidated:
		db.Cache.Remove(ev.Key)
	case EventExpire:
		db.Cache.ClearTTL(ev.Key)
	case EventRenamed:
		db.Cache.Rename(ev.From, ev.To)
	case EventHashFieldChanged:
		db.Hashes.Delete(ev.Key, ev.Field)
	case EventSetMemberRemoved:
		db.Sets.RemoveByToken(ev.Key, ev.MemberToken)
	case EventSortedSetMemberChanged:
		db.SortedSets.RemoveByToken(ev.Key, ev.SortedMemberToken)
	case EventSortedSetRangeByScoreRemoved:
		db.SortedSets.DeleteByScore(ev.Key, ev.RangeStart, ev.RangeStop, ev.RangeExclude)
	}
}
