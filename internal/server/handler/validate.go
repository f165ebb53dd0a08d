package handler

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// Field formats. These catch malformed values and assorted injection attempts,
// not every impossible calendar date.
var (
	idPattern    = regexp.MustCompile(`^[0-9]+$`)
	datePattern  = regexp.MustCompile(`^20[12][0-9](0[1-9]|1[0-2])([0-2][0-9]|3[01])$`)
	gapsPattern  = regexp.MustCompile(`^[0-9]{1,5}$`)
	stampPattern = regexp.MustCompile(`^1[4-9][0-9]{8}$`)
)

func checkID(problems []string, id string) []string {
	if id == "" {
		return append(problems, "'id' parameter must be present")
	}
	if !idPattern.MatchString(id) {
		return append(problems, "'id' parameter must be numeric")
	}
	return problems
}

func checkDate(problems []string, date string) []string {
	if date == "" {
		return append(problems, "'date' parameter must be present")
	}
	if !datePattern.MatchString(date) {
		return append(problems, "'date' must be in the YYYYmmdd format")
	}
	return problems
}

// checkAdjustValue validates the value for an adjust write. Gap seconds must
// stay under a day; start/end values must be zero (clear the override) or a
// plausible Unix timestamp landing on the requested date in server-local time.
func checkAdjustValue(problems []string, target, value, date string) []string {
	if value == "" {
		return append(problems, "'value' parameter must be present")
	}
	switch target {
	case "gaps":
		if !gapsPattern.MatchString(value) {
			problems = append(problems, fmt.Sprintf("'value' %s must be less than 86400 if target is 'gaps'", value))
		}
	case "start", "end":
		if value == "0" {
			return problems
		}
		if !stampPattern.MatchString(value) {
			return append(problems, "'value' must be a valid Unix timestamp (or zero) if target is 'start' or 'end'")
		}
		ts, _ := strconv.ParseInt(value, 10, 64)
		if time.Unix(ts, 0).Format("20060102") != date {
			problems = append(problems, "'value' must refer to a timestamp on the correct date")
		}
	}
	return problems
}
