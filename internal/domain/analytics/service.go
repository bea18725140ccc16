package analytics

import "github.com/cmlabs-hris/hr-analytics-go/internal/domain/document"

// Reader folds one immutable document snapshot into summaries. Every
// method is safe for concurrent use and returns zero values for an empty
// or unloaded document. An empty department means all departments.
type Reader interface {
	GetMetricsSummary(period, department string) MetricSummary

	// GetDepartmentSummary groups metrics by department over the union of
	// departments in Overtime, Absenteeism, Payment and Budget, sorted by
	// name. Budget is read for the reader's budget month.
	GetDepartmentSummary(period, department string) []DepartmentSummary

	// GetTrendData evaluates each date; no dates means every available date.
	GetTrendData(department string, dates []string) []TrendPoint

	GetMonthlyTrend(department string) []MonthlyTrendPoint

	GetAvailableDates() AvailableDates

	// GetEmployeeCount counts distinct named employees in Payment, per
	// department, summed across departments.
	GetEmployeeCount(department string) int

	GetStarterTerminationCounts(period string) StarterTerminationCounts

	GetLocationAnalysis(period string) []LocationAnalysis

	GetDepartmentTree(period string) []DepartmentNode

	// BudgetMonth is the YYYY-MM used for budget lookups.
	BudgetMonth() string
}

// SnapshotSource hands out the most recently loaded document.
type SnapshotSource interface {
	Snapshot() *document.Document
}

type Service interface {
	// Current returns a reader over the latest snapshot.
	Current() Reader

	// For returns a reader over doc.
	For(doc *document.Document) Reader
}
