// Package dateutils provides date helpers for bucketing transactions into
// year-months and bounding the aggregation window.
package dateutils

import (
	"strings"
	"time"
)

// Date layout constants used throughout the application.
const (
	DateLayoutISO  = "2006-01-02"
	MonthLayoutISO = "2006-01"
	EarliestMonth  = "2020-01"
)

// YearMonth extracts the "YYYY-MM" prefix of an ISO date string. Returns the
// empty string when the input is too short to contain one.
func YearMonth(isoDate string) string {
	isoDate = strings.TrimSpace(isoDate)
	if len(isoDate) < len(MonthLayoutISO) {
		return ""
	}
	return isoDate[:len(MonthLayoutISO)]
}

// CurrentMonth returns the current UTC year-month. Transactions dated after
// this month are excluded from aggregation because the data is not yet real.
func CurrentMonth() string {
	return time.Now().UTC().Format(MonthLayoutISO)
}

// MonthInRange reports whether the given year-month falls inside the
// inclusive window [earliest, latest]. ISO year-months compare correctly as
// plain strings.
func MonthInRange(month, earliest, latest string) bool {
	return month >= earliest && month <= latest
}
