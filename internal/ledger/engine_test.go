package ledger

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pulseboard/heartbeat/internal/server/db"
)

func newTestEngine(t *testing.T) (*Engine, *db.Store) {
	t.Helper()
	store, err := db.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return NewEngine(store), store
}

func atSecond(ts int64) func() time.Time {
	return func() time.Time { return time.Unix(ts, 0) }
}

func TestHeartbeatScenario(t *testing.T) {
	engine, store := newTestEngine(t)
	day := DayKey(time.Unix(1000, 0))

	// Fresh day: the insert branch creates start == end.
	beat, err := engine.WithClock(atSecond(1000)).Heartbeat("42")
	require.NoError(t, err)
	require.Equal(t, "insert", beat.Method)
	require.Equal(t, day, beat.Date)
	require.EqualValues(t, 1000, beat.End)

	rec, err := store.GetDay("42", day)
	require.NoError(t, err)
	require.EqualValues(t, 1000, rec.Start)
	require.EqualValues(t, 1000, rec.End)
	require.EqualValues(t, 0, rec.Counter)

	// Within the recency window: rejected as a race, nothing written.
	_, err = engine.WithClock(atSecond(1040)).Heartbeat("42")
	require.ErrorIs(t, err, ErrRaceCondition)
	rec, err = store.GetDay("42", day)
	require.NoError(t, err)
	require.EqualValues(t, 1000, rec.End)
	require.EqualValues(t, 0, rec.Counter)

	// Past the window: the update branch moves end and credits the counter.
	beat, err = engine.WithClock(atSecond(1070)).Heartbeat("42")
	require.NoError(t, err)
	require.Equal(t, "update", beat.Method)
	require.EqualValues(t, 1070, beat.End)

	rec, err = store.GetDay("42", day)
	require.NoError(t, err)
	require.EqualValues(t, 1000, rec.Start)
	require.EqualValues(t, 1070, rec.End)
	require.EqualValues(t, CounterUnit, rec.Counter)
}

func TestHeartbeatIdempotentWithinWindow(t *testing.T) {
	engine, store := newTestEngine(t)
	day := DayKey(time.Unix(5000, 0))

	_, err := engine.WithClock(atSecond(5000)).Heartbeat("42")
	require.NoError(t, err)

	// Rapid re-sends inside the window: one net end change, one net counter
	// state, no matter how many arrive.
	for _, ts := range []int64{5010, 5020, 5030, 5054} {
		_, err = engine.WithClock(atSecond(ts)).Heartbeat("42")
		require.ErrorIs(t, err, ErrRaceCondition)
	}

	rec, err := store.GetDay("42", day)
	require.NoError(t, err)
	require.EqualValues(t, 5000, rec.End)
	require.EqualValues(t, 0, rec.Counter)
}

func TestHeartbeatUpsertTotality(t *testing.T) {
	engine, _ := newTestEngine(t)

	// First beat of a day: exactly one of insert/update commits.
	beat, err := engine.WithClock(atSecond(9000)).Heartbeat("42")
	require.NoError(t, err)
	require.Equal(t, "insert", beat.Method)

	// Same instant, different subject: independent row, still exactly one.
	beat, err = engine.WithClock(atSecond(9000)).Heartbeat("43")
	require.NoError(t, err)
	require.Equal(t, "insert", beat.Method)
}

func TestHeartbeatConcurrentFirstBeat(t *testing.T) {
	engine, store := newTestEngine(t)
	engine.WithClock(atSecond(7000))
	day := DayKey(time.Unix(7000, 0))

	const n = 16
	var wg sync.WaitGroup
	results := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = engine.Heartbeat("42")
		}(i)
	}
	wg.Wait()

	var accepted, raced int
	for _, err := range results {
		switch {
		case err == nil:
			accepted++
		case errors.Is(err, ErrRaceCondition):
			raced++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	require.Equal(t, 1, accepted, "exactly one beat must commit")
	require.Equal(t, n-1, raced)

	rec, err := store.GetDay("42", day)
	require.NoError(t, err)
	require.Equal(t, rec.Start, rec.End)
	require.EqualValues(t, 7000, rec.Start)
}
