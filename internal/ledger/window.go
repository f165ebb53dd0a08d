package ledger

import (
	"fmt"
	"regexp"
	"time"
)

// monthPattern accepts months in the 2010s/2020s with a valid two-digit month.
// Gross format only; calendar correctness is not attempted here.
var monthPattern = regexp.MustCompile(`^20[12][0-9](0[1-9]|1[0-2])$`)

// PlanMonth computes the LIKE-style day-key patterns to scan for a month view.
//
// The rendered month starts on the Monday on/before the 1st, so the first
// visible week can reach into the previous month. Subtracting 7 days from the
// 1st always lands in that month; matching its 20–29 and 30–39 day prefixes
// over-fetches the boundary week, which is intentional and cheap. Callers
// discard rows outside the window actually rendered.
func PlanMonth(month string) ([]string, error) {
	if !monthPattern.MatchString(month) {
		return nil, fmt.Errorf("'month' must fit the format YYYYmm")
	}

	first, err := time.ParseInLocation("20060102", month+"01", time.Local)
	if err != nil {
		return nil, fmt.Errorf("'month' must fit the format YYYYmm")
	}
	prev := MonthKey(first.AddDate(0, 0, -7))

	return []string{
		month + "__",
		prev + "2_",
		prev + "3_",
	}, nil
}
