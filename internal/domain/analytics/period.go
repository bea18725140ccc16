package analytics

import "github.com/cmlabs-hris/hr-analytics-go/internal/pkg/utils"

// PeriodOverall selects every date.
const PeriodOverall = "overall"

type periodKind int

const (
	periodAll periodKind = iota
	periodDay
	periodMonth
	periodNone
)

// Period selects date keys. "" and "overall" match everything, a
// YYYY-MM-DD value matches that date, a YYYY-MM value matches dates in
// that month and anything else matches nothing.
type Period struct {
	value string
	kind  periodKind
}

func ParsePeriod(s string) Period {
	switch {
	case s == "" || s == PeriodOverall:
		return Period{value: PeriodOverall, kind: periodAll}
	case len(s) == 10 && utils.IsDateKey(s):
		return Period{value: s, kind: periodDay}
	case len(s) == 7 && utils.IsMonthKey(s):
		return Period{value: s, kind: periodMonth}
	default:
		return Period{value: s, kind: periodNone}
	}
}

// Matches reports whether dateKey falls in the period.
func (p Period) Matches(dateKey string) bool {
	switch p.kind {
	case periodAll:
		return true
	case periodDay:
		return dateKey == p.value
	case periodMonth:
		return utils.MonthOf(dateKey) == p.value
	default:
		return false
	}
}

func (p Period) String() string { return p.value }

func (p Period) IsOverall() bool { return p.kind == periodAll }
func (p Period) IsDay() bool     { return p.kind == periodDay }
func (p Period) IsMonth() bool   { return p.kind == periodMonth }
