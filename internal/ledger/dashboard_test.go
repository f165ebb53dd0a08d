package ledger

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pulseboard/heartbeat/internal/server/db"
)

func TestAggregateGroupsAndAnonymizes(t *testing.T) {
	store, err := db.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	seed := func(subject, date string, start, end int64) {
		_, err := store.StartDay(subject, date, start)
		require.NoError(t, err)
		if end != start {
			_, err = store.TouchDay(subject, date, end, end, 60)
			require.NoError(t, err)
		}
	}

	seed("7", "20240301", 1000, 4600)
	seed("7", "20240302", 2000, 2000)
	seed("9", "20240301", 5000, 8600)
	_, err = store.SetAdjustment("9", "20240301", "gaps", 600)
	require.NoError(t, err)
	_, err = store.SetValidated("9", "20240301", true)
	require.NoError(t, err)

	groups, err := Aggregate(store)
	require.NoError(t, err)
	require.Len(t, groups, 2)

	require.Len(t, groups[0], 2)
	require.EqualValues(t, 3600, groups[0]["20240301"].Duration)
	require.False(t, groups[0]["20240301"].Adjusted)

	require.Len(t, groups[1], 1)
	require.EqualValues(t, 3000, groups[1]["20240301"].Duration)
	require.True(t, groups[1]["20240301"].Adjusted)
	require.True(t, groups[1]["20240301"].Validated)

	// Subject identity must not survive into the payload.
	payload, err := json.Marshal(groups)
	require.NoError(t, err)
	require.NotContains(t, string(payload), "subject")
	require.Equal(t, `[3000,true,true]`, string(mustMarshal(t, groups[1]["20240301"])))
}

func TestAggregateEmptyLedger(t *testing.T) {
	store, err := db.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	groups, err := Aggregate(store)
	require.NoError(t, err)
	require.NotNil(t, groups)
	require.Len(t, groups, 0)
}

func mustMarshal(t *testing.T, v any) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}
