package dashboard

import "github.com/cmlabs-hris/hr-analytics-go/internal/domain/analytics"

type DashboardRequest struct {
	Period     string
	Department string
}

// DashboardResponse is everything the main dashboard screen renders,
// computed from one snapshot.
type DashboardResponse struct {
	Period      string `json:"period"`
	Department  string `json:"department,omitempty"`
	BudgetMonth string `json:"budgetMonth"`

	Metrics analytics.MetricSummary `json:"metrics"`
	// OvertimeToPaymentRatio is overtime amount as a percentage of
	// payment amount, 0 when nothing was paid.
	OvertimeToPaymentRatio float64 `json:"overtimeToPaymentRatio"`
	EmployeeCount          int     `json:"employeeCount"`

	Departments        []analytics.DepartmentSummary      `json:"departments"`
	Trend              []analytics.TrendPoint             `json:"trend"`
	MonthlyTrend       []analytics.MonthlyTrendPoint      `json:"monthlyTrend"`
	StarterTermination analytics.StarterTerminationCounts `json:"starterTermination"`
	Locations          []analytics.LocationAnalysis       `json:"locations"`
	AvailableDates     analytics.AvailableDates           `json:"availableDates"`
}
