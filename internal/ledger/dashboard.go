package ledger

import (
	"fmt"

	"github.com/pulseboard/heartbeat/internal/server/db"
)

// HistoryStore is the read slice of the ledger store the dashboard uses.
type HistoryStore interface {
	AllRecords() ([]db.DailyRecord, error)
}

// DayTotals is one anonymized day on the dashboard: effective duration,
// whether it was manually adjusted, and whether a human validated it.
// It marshals as a positional triple to keep the payload small.
type DayTotals struct {
	Duration  int64
	Adjusted  bool
	Validated bool
}

// MarshalJSON renders the triple as [duration, adjusted, validated].
func (d DayTotals) MarshalJSON() ([]byte, error) {
	return fmt.Appendf(nil, "[%d,%t,%t]", d.Duration, d.Adjusted, d.Validated), nil
}

// Aggregate groups effective daily totals per subject across all history,
// then strips the subject ids: only array position remains, which is what
// makes this safe as the one unauthenticated cross-subject read.
func Aggregate(store HistoryStore) ([]map[string]DayTotals, error) {
	records, err := store.AllRecords()
	if err != nil {
		return nil, fmt.Errorf("aggregate: %w", err)
	}

	groups := []map[string]DayTotals{}
	var current map[string]DayTotals
	var currentSubject string

	// AllRecords orders by subject then date, so grouping is a single pass.
	for _, r := range records {
		if current == nil || r.SubjectID != currentSubject {
			current = map[string]DayTotals{}
			currentSubject = r.SubjectID
			groups = append(groups, current)
		}
		eff := Resolve(&r)
		current[r.Date] = DayTotals{
			Duration:  eff.Duration,
			Adjusted:  eff.Adjusted,
			Validated: r.Validated,
		}
	}
	return groups, nil
}
