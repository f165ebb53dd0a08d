package ledger

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPlanMonthPatterns(t *testing.T) {
	patterns, err := PlanMonth("202403")
	require.NoError(t, err)
	require.Equal(t, []string{"202403__", "2024022_", "2024023_"}, patterns)
}

func TestPlanMonthCoversBoundaryWeek(t *testing.T) {
	// March 1 2024 is a Friday; the Monday on/before it is Feb 26. Every day
	// of that partial week must match a returned pattern.
	patterns, err := PlanMonth("202403")
	require.NoError(t, err)

	matches := func(day string) bool {
		for _, p := range patterns {
			if len(p) == len(day) && likeMatch(p, day) {
				return true
			}
		}
		return false
	}

	for _, day := range []string{"20240226", "20240227", "20240228", "20240229"} {
		require.True(t, matches(day), "boundary day %s must be fetched", day)
	}
	for _, day := range []string{"20240301", "20240315", "20240331"} {
		require.True(t, matches(day), "requested-month day %s must be fetched", day)
	}
	// Over-fetch is fine, under-fetch is not; mid-February stays out.
	require.False(t, matches("20240212"))
}

func TestPlanMonthJanuaryReachesPriorYear(t *testing.T) {
	patterns, err := PlanMonth("202401")
	require.NoError(t, err)
	require.Equal(t, []string{"202401__", "2023122_", "2023123_"}, patterns)
}

func TestPlanMonthRejectsBadFormat(t *testing.T) {
	for _, month := range []string{"", "2024", "202413", "202400", "199912", "203001", "20240x"} {
		_, err := PlanMonth(month)
		require.Error(t, err, "month %q must be rejected", month)
	}
}

// likeMatch interprets a SQL LIKE pattern containing only literal digits and
// single-character wildcards.
func likeMatch(pattern, s string) bool {
	for i := range pattern {
		if pattern[i] != '_' && pattern[i] != s[i] {
			return false
		}
	}
	return true
}
