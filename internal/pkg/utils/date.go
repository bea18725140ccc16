package utils

import "regexp"

var (
	dateKeyRegex  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	monthKeyRegex = regexp.MustCompile(`^\d{4}-\d{2}$`)
)

// IsDateKey reports whether s looks like a YYYY-MM-DD key.
func IsDateKey(s string) bool {
	return dateKeyRegex.MatchString(s)
}

// IsMonthKey reports whether s looks like a YYYY-MM key.
func IsMonthKey(s string) bool {
	return monthKeyRegex.MatchString(s)
}

// MonthOf returns the YYYY-MM prefix of a date key. Input shorter than
// seven characters is returned unchanged.
func MonthOf(dateKey string) string {
	if len(dateKey) < 7 {
		return dateKey
	}
	return dateKey[:7]
}
