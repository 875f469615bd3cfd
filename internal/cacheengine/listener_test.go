package cacheengine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Tungtt2020/StackRedis.L1/internal/identity"
)

const (
	testStandardPattern = "__keyspace@0__:*"
	testDetailedPattern = "__keyspace_detailed@0__:*"
)

func newTestListener(t *testing.T) (*Listener, *fakeSubscriber) {
	t.Helper()
	sub := newFakeSubscriber()
	id := identity.NewProvider()
	l, err := NewListener(context.Background(), zap.NewNop(), sub, id, 0, nil)
	require.NoError(t, err)
	return l, sub
}

func publishStandard(sub *fakeSubscriber, key, eventName string) {
	sub.publish(testStandardPattern, "__keyspace@0__:"+key, eventName)
}

func publishDetailed(sub *fakeSubscriber, key, originator, eventName, eventArg string) {
	payload := originator + ":" + eventName
	if eventArg != "" {
		payload += ":" + eventArg
	}
	sub.publish(testDetailedPattern, "__keyspace_detailed@0__:"+key, payload)
}

// Every tabulated event name produces exactly the tabulated mutation.
func TestDispatchTable(t *testing.T) {
	l, sub := newTestListener(t)
	const originator = "other-process"

	t.Run("expired on standard channel removes key", func(t *testing.T) {
		db := NewDatabase(NewMemoryCache(), NewMemoryHashes(), NewMemorySets(), NewMemorySortedSets())
		l.Register(db)
		db.Cache.Set("k1", []byte("v"), false)

		publishStandard(sub, "k1", "expired")

		_, ok := db.Cache.Get("k1")
		assert.False(t, ok)
	})

	for _, ev := range []string{"del", "set", "setbit", "setrange", "incrby", "incrbyfloat", "decrby", "decrbyfloat", "append"} {
		t.Run(ev+" removes key", func(t *testing.T) {
			db := NewDatabase(NewMemoryCache(), NewMemoryHashes(), NewMemorySets(), NewMemorySortedSets())
			l.Register(db)
			db.Cache.Set("k", []byte("v"), false)

			publishDetailed(sub, "k", originator, ev, "")

			_, ok := db.Cache.Get("k")
			assert.False(t, ok)
		})
	}

	t.Run("expire clears TTL but keeps value", func(t *testing.T) {
		db := NewDatabase(NewMemoryCache(), NewMemoryHashes(), NewMemorySets(), NewMemorySortedSets())
		l.Register(db)
		db.Cache.Set("k", []byte("v"), true)

		publishDetailed(sub, "k", originator, "expire", "")

		v, ok := db.Cache.Get("k")
		require.True(t, ok)
		assert.Equal(t, []byte("v"), v)
		assert.False(t, db.Cache.HasTTL("k"))
	})

	t.Run("rename_key moves the entry", func(t *testing.T) {
		db := NewDatabase(NewMemoryCache(), NewMemoryHashes(), NewMemorySets(), NewMemorySortedSets())
		l.Register(db)
		db.Cache.Set("old", []byte("v"), false)

		publishDetailed(sub, "old", originator, "rename_key", "new")

		_, ok := db.Cache.Get("old")
		assert.False(t, ok)
		v, ok := db.Cache.Get("new")
		require.True(t, ok)
		assert.Equal(t, []byte("v"), v)
	})

	t.Run("rename_key with empty arg is a no-op", func(t *testing.T) {
		db := NewDatabase(NewMemoryCache(), NewMemoryHashes(), NewMemorySets(), NewMemorySortedSets())
		l.Register(db)
		db.Cache.Set("old", []byte("v"), false)

		publishDetailed(sub, "old", originator, "rename_key", "")

		_, ok := db.Cache.Get("old")
		assert.True(t, ok)
	})

	for _, ev := range []string{"hset", "hdel", "hincr", "hincrbyfloat", "hdecr", "hdecrbyfloat"} {
		t.Run(ev+" deletes the field", func(t *testing.T) {
			db := NewDatabase(NewMemoryCache(), NewMemoryHashes(), NewMemorySets(), NewMemorySortedSets())
			l.Register(db)
			db.Hashes.SetField("user:42", "email")
			db.Hashes.SetField("user:42", "name")

			publishDetailed(sub, "user:42", originator, ev, "email")

			assert.False(t, db.Hashes.HasField("user:42", "email"))
			assert.True(t, db.Hashes.HasField("user:42", "name"))
		})
	}

	t.Run("srem removes the member token", func(t *testing.T) {
		db := NewDatabase(NewMemoryCache(), NewMemoryHashes(), NewMemorySets(), NewMemorySortedSets())
		l.Register(db)
		db.Sets.AddToken("tags", "abc")

		publishDetailed(sub, "tags", originator, "srem", "abc")

		assert.False(t, db.Sets.HasToken("tags", "abc"))
	})

	for _, ev := range []string{"zadd", "zrem", "zincr", "zdecr"} {
		t.Run(ev+" removes the member by numeric token", func(t *testing.T) {
			db := NewDatabase(NewMemoryCache(), NewMemoryHashes(), NewMemorySets(), NewMemorySortedSets())
			l.Register(db)
			db.SortedSets.AddToken("z", 777, 1.0)

			publishDetailed(sub, "z", originator, ev, "777")

			_, ok := db.SortedSets.Score("z", 777)
			assert.False(t, ok)
		})
	}

	t.Run("zadd with non-numeric token is ignored", func(t *testing.T) {
		db := NewDatabase(NewMemoryCache(), NewMemoryHashes(), NewMemorySets(), NewMemorySortedSets())
		l.Register(db)
		db.SortedSets.AddToken("z", 777, 1.0)

		publishDetailed(sub, "z", originator, "zadd", "not-a-number")

		_, ok := db.SortedSets.Score("z", 777)
		assert.True(t, ok)
	})

	t.Run("zremrangebyscore removes the interval", func(t *testing.T) {
		db := NewDatabase(NewMemoryCache(), NewMemoryHashes(), NewMemorySets(), NewMemorySortedSets())
		l.Register(db)
		db.SortedSets.AddToken("z", 1, 1.5)
		db.SortedSets.AddToken("z", 2, 5.0)
		db.SortedSets.AddToken("z", 3, 9.0)
		db.SortedSets.AddToken("z", 4, 20.0)

		publishDetailed(sub, "z", originator, "zremrangebyscore", "1.5-9.0-2")

		_, ok1 := db.SortedSets.Score("z", 1)
		_, ok2 := db.SortedSets.Score("z", 2)
		_, ok3 := db.SortedSets.Score("z", 3)
		_, ok4 := db.SortedSets.Score("z", 4)
		assert.False(t, ok1, "score==start, start inclusive under ExcludeStop")
		assert.False(t, ok2, "score strictly inside range")
		assert.True(t, ok3, "score==stop excluded by ExcludeStop")
		assert.True(t, ok4, "score above range")
	})

	// Malformed zremrangebyscore arguments produce no mutation.
	for _, arg := range []string{"1.5-9.0", "1.5-9.0-2-extra", "x-9.0-2", "1.5-y-2", "1.5-9.0-9"} {
		t.Run("malformed zremrangebyscore "+arg+" is ignored", func(t *testing.T) {
			db := NewDatabase(NewMemoryCache(), NewMemoryHashes(), NewMemorySets(), NewMemorySortedSets())
			l.Register(db)
			db.SortedSets.AddToken("z", 5, 3.0)

			publishDetailed(sub, "z", originator, "zremrangebyscore", arg)

			_, ok := db.SortedSets.Score("z", 5)
			assert.True(t, ok)
		})
	}

	for _, ev := range []string{"zremrangebyrank", "zremrangebylex"} {
		t.Run(ev+" invalidates the whole key", func(t *testing.T) {
			db := NewDatabase(NewMemoryCache(), NewMemoryHashes(), NewMemorySets(), NewMemorySortedSets())
			l.Register(db)
			db.Cache.Set("z", []byte("placeholder"), false)

			publishDetailed(sub, "z", originator, ev, "")

			_, ok := db.Cache.Get("z")
			assert.False(t, ok)
		})
	}

	t.Run("unrecognized event name is a no-op", func(t *testing.T) {
		db := NewDatabase(NewMemoryCache(), NewMemoryHashes(), NewMemorySets(), NewMemorySortedSets())
		l.Register(db)
		db.Cache.Set("k", []byte("v"), false)

		publishDetailed(sub, "k", originator, "totally-unknown-event", "arg")

		v, ok := db.Cache.Get("k")
		require.True(t, ok)
		assert.Equal(t, []byte("v"), v)
	})
}

// Events whose originator equals the local process identity are dropped.
func TestSelfOriginatedEventsAreDropped(t *testing.T) {
	sub := newFakeSubscriber()
	id := identity.NewProvider()
	l, err := NewListener(context.Background(), zap.NewNop(), sub, id, 0, nil)
	require.NoError(t, err)

	db := NewDatabase(NewMemoryCache(), NewMemoryHashes(), NewMemorySets(), NewMemorySortedSets())
	l.Register(db)
	db.Cache.Set("k", []byte("v"), false)

	publishDetailed(sub, "k", string(id.Current()), "set", "")

	_, ok := db.Cache.Get("k")
	assert.True(t, ok, "self-originated event must not mutate any store")
}

// P3: while paused, no event produces a mutation; unpausing re-enables
// dispatch for subsequent events only.
func TestPauseSuppressesDispatch(t *testing.T) {
	l, sub := newTestListener(t)
	db := NewDatabase(NewMemoryCache(), NewMemoryHashes(), NewMemorySets(), NewMemorySortedSets())
	l.Register(db)
	db.Cache.Set("k", []byte("v"), false)

	l.Pause(true)
	publishStandard(sub, "k", "expired")
	_, ok := db.Cache.Get("k")
	assert.True(t, ok, "paused listener must drop the event")

	l.Pause(false)
	publishStandard(sub, "k", "expired")
	_, ok = db.Cache.Get("k")
	assert.False(t, ok, "unpausing re-enables dispatch for subsequent events")
}

// Registration is additive — events delivered after N registrations
// mutate exactly those N databases.
func TestRegistrationIsAdditive(t *testing.T) {
	l, sub := newTestListener(t)

	db1 := NewDatabase(NewMemoryCache(), NewMemoryHashes(), NewMemorySets(), NewMemorySortedSets())
	l.Register(db1)
	db1.Cache.Set("q", []byte("v"), false)

	publishDetailed(sub, "q", "other", "del", "")
	_, ok := db1.Cache.Get("q")
	assert.False(t, ok)

	db2 := NewDatabase(NewMemoryCache(), NewMemoryHashes(), NewMemorySets(), NewMemorySortedSets())
	l.Register(db2)
	db1.Cache.Set("q", []byte("v"), false)
	db2.Cache.Set("q", []byte("v"), false)

	publishDetailed(sub, "q", "other", "del", "")
	_, ok1 := db1.Cache.Get("q")
	_, ok2 := db2.Cache.Get("q")
	assert.False(t, ok1)
	assert.False(t, ok2)
}

// Scenario 6: two registered databases both observe the same event.
func TestTwoDatabasesBothMutate(t *testing.T) {
	l, sub := newTestListener(t)

	d1 := NewDatabase(NewMemoryCache(), NewMemoryHashes(), NewMemorySets(), NewMemorySortedSets())
	d2 := NewDatabase(NewMemoryCache(), NewMemoryHashes(), NewMemorySets(), NewMemorySortedSets())
	l.Register(d1)
	l.Register(d2)
	d1.Cache.Set("q", []byte("v"), false)
	d2.Cache.Set("q", []byte("v"), false)

	publishDetailed(sub, "q", "other", "del", "")

	_, ok1 := d1.Cache.Get("q")
	_, ok2 := d2.Cache.Get("q")
	assert.False(t, ok1)
	assert.False(t, ok2)
}

func TestCloseUnsubscribesBothPatterns(t *testing.T) {
	l, sub := newTestListener(t)

	require.NoError(t, l.Close(context.Background()))

	assert.True(t, sub.subs[testStandardPattern].unsubscribed)
	assert.True(t, sub.subs[testDetailedPattern].unsubscribed)
}
