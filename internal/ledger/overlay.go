package ledger

import "github.com/pulseboard/heartbeat/internal/server/db"

// Effective is a day's totals after manual overrides are laid over the raw
// heartbeat fields.
type Effective struct {
	Start    int64
	End      int64
	Duration int64
	Adjusted bool
}

// Resolve computes the effective view of a raw record. A nonzero override wins
// over the raw value; the declared gap seconds are subtracted from the span.
// Duration is deliberately not floored at zero: a negative value is a visible
// data-quality signal for inconsistent overrides, not something to clamp away.
//
// Adjusted compares values rather than checking "override is set", so a raw
// value that happens to equal its nonzero override still reports adjusted.
// That over-reporting is intended and kept.
func Resolve(r *db.DailyRecord) Effective {
	start := r.Start
	if r.AdjStart > 0 {
		start = r.AdjStart
	}
	end := r.End
	if r.AdjEnd > 0 {
		end = r.AdjEnd
	}
	adjusted := r.AdjStart > 0 || r.AdjEnd > 0 || r.AdjGaps > 0

	return Effective{
		Start:    start,
		End:      end,
		Duration: end - start - r.AdjGaps,
		Adjusted: adjusted,
	}
}
