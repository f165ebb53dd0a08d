package ledger

import (
	"fmt"
	"time"
)

const (
	// RecencyWindow is the minimum gap in seconds between two accepted
	// heartbeat updates for the same day. A 15-second client ticker therefore
	// lands at most one update per real minute.
	RecencyWindow = 55

	// CounterUnit is the number of tracked seconds credited per accepted
	// heartbeat, independent of the start/end span.
	CounterUnit = 60
)

// BeatStore is the slice of the ledger store the heartbeat engine writes
// through. Both operations must be individually atomic.
type BeatStore interface {
	TouchDay(subjectID, date string, end, staleBefore, increment int64) (bool, error)
	StartDay(subjectID, date string, ts int64) (bool, error)
}

// Beat describes which branch of the upsert committed.
type Beat struct {
	Method string `json:"method"`
	Date   string `json:"date"`
	End    int64  `json:"end"`
}

// Engine applies liveness signals to the ledger store.
type Engine struct {
	store BeatStore
	now   func() time.Time
}

// NewEngine creates a heartbeat engine over a ledger store.
func NewEngine(store BeatStore) *Engine {
	return &Engine{store: store, now: time.Now}
}

// WithClock overrides the engine's clock. Tests use this to replay exact
// timestamp sequences.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// Heartbeat runs the two-step update→insert upsert for today. Nearly every
// call lands on the update branch; the insert branch only fires for the first
// beat of a day. When neither branch writes, the existing row was fresher than
// the recency window and ErrRaceCondition is returned.
func (e *Engine) Heartbeat(subjectID string) (*Beat, error) {
	now := e.now()
	end := now.Unix()
	today := DayKey(now)

	updated, err := e.store.TouchDay(subjectID, today, end, end-RecencyWindow, CounterUnit)
	if err != nil {
		return nil, fmt.Errorf("heartbeat update: %w", err)
	}
	if updated {
		return &Beat{Method: "update", Date: today, End: end}, nil
	}

	inserted, err := e.store.StartDay(subjectID, today, end)
	if err != nil {
		return nil, fmt.Errorf("heartbeat insert: %w", err)
	}
	if inserted {
		return &Beat{Method: "insert", Date: today, End: end}, nil
	}

	return nil, ErrRaceCondition
}

// DayKey formats a time as an 8-digit calendar day key in server-local time.
func DayKey(t time.Time) string {
	return t.Format("20060102")
}

// MonthKey formats a time as a 6-digit calendar month key in server-local time.
func MonthKey(t time.Time) string {
	return t.Format("200601")
}
