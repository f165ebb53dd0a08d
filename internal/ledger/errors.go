package ledger

import "strings"

// ErrRaceCondition reports that a heartbeat found an unexpectedly fresh row:
// neither the conditional update nor the insert could land. It is a concurrency
// signal (another session beat within the recency window), not a storage fault.
var ErrRaceCondition = &RaceConditionError{}

// RaceConditionError is returned when both halves of the heartbeat upsert miss.
type RaceConditionError struct{}

func (*RaceConditionError) Error() string {
	return "both UPDATE and INSERT operations failed (recency constraint violated)"
}

// ValidationError collects malformed-parameter problems. All problems found in
// one request are reported together to spare the client a second round trip.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Problems, " AND ")
}

// Validate returns nil when problems is empty, a ValidationError otherwise.
func Validate(problems []string) error {
	if len(problems) == 0 {
		return nil
	}
	return &ValidationError{Problems: problems}
}
