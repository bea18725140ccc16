package analytics

type MetricSummary struct {
	TotalOvertime       float64 `json:"totalOvertime"`
	TotalOvertimeAmount float64 `json:"totalOvertimeAmount"`
	TotalAbsenteeism    float64 `json:"totalAbsenteeism"`
	TotalPayments       int     `json:"totalPayments"`
	TotalPaymentAmount  float64 `json:"totalPaymentAmount"`
}

type DepartmentSummary struct {
	Department string `json:"department"`
	MetricSummary
	Budget            float64  `json:"budget"`
	BudgetUtilization float64  `json:"budgetUtilization"`
	BudgetMonth       string   `json:"budgetMonth"`
	EmployeeCount     int      `json:"employeeCount"`
	Locations         []string `json:"locations"`
}

// OverBudget reports utilization above 100%.
func (d DepartmentSummary) OverBudget() bool {
	return d.BudgetUtilization > 100
}

type TrendPoint struct {
	Date           string  `json:"date"`
	Overtime       float64 `json:"overtime"`
	OvertimeAmount float64 `json:"overtimeAmount"`
	Absenteeism    float64 `json:"absenteeism"`
	Payments       int     `json:"payments"`
	PaymentAmount  float64 `json:"paymentAmount"`
}

type MonthlyTrendPoint struct {
	Month          string  `json:"month"`
	Overtime       float64 `json:"overtime"`
	OvertimeAmount float64 `json:"overtimeAmount"`
	Absenteeism    float64 `json:"absenteeism"`
	Payments       int     `json:"payments"`
	PaymentAmount  float64 `json:"paymentAmount"`
}

type AvailableDates struct {
	Months       []string            `json:"months"`
	DatesByMonth map[string][]string `json:"datesByMonth"`
}

type StarterTerminationCounts struct {
	// Date is the date the counts were taken from, empty when none resolved.
	Date         string `json:"date"`
	Starters     int    `json:"starters"`
	Terminations int    `json:"terminations"`
}

type LocationAnalysis struct {
	Department         string  `json:"department"`
	Location           string  `json:"location"`
	EmployeeCount      int     `json:"employeeCount"`
	PaymentAmount      float64 `json:"paymentAmount"`
	OvertimeAmount     float64 `json:"overtimeAmount"`
	PaymentPercentage  float64 `json:"paymentPercentage"`
	OvertimePercentage float64 `json:"overtimePercentage"`
}

type NodeStats struct {
	EmployeeCount       int     `json:"employeeCount"`
	TotalPayment        float64 `json:"totalPayment"`
	TotalOvertime       float64 `json:"totalOvertime"`
	TotalOvertimeAmount float64 `json:"totalOvertimeAmount"`
	TotalAbsenteeism    float64 `json:"totalAbsenteeism"`
}

type EmployeeNode struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Payment     float64 `json:"payment"`
	Absenteeism float64 `json:"absenteeism"`
}

type LocationNode struct {
	Location  string         `json:"location"`
	Stats     NodeStats      `json:"stats"`
	Employees []EmployeeNode `json:"employees"`
}

type DepartmentNode struct {
	Department string         `json:"department"`
	Stats      NodeStats      `json:"stats"`
	Locations  []LocationNode `json:"locations"`
}
