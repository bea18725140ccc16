package cmd

import (
	"github.com/cmlabs-hris/hr-analytics-go/internal/domain/analytics"
	"github.com/cmlabs-hris/hr-analytics-go/internal/domain/dashboard"
	dashboardService "github.com/cmlabs-hris/hr-analytics-go/internal/service/dashboard"
	"github.com/spf13/cobra"
)

var (
	summaryPeriod     string
	summaryDepartment string
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print headline metrics for a period",
	Long: `Print the five headline metrics, the employee count, the overtime to
payment ratio and the starter/termination counts.

Periods:
  overall      every date (default)
  YYYY-MM      one month
  YYYY-MM-DD   one day

Examples:
  hrctl summary
  hrctl summary --period 2025-07 --department Sales`,
	Args: cobra.NoArgs,
	RunE: runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
	summaryCmd.Flags().StringVar(&summaryPeriod, "period", analytics.PeriodOverall, "Period (overall, YYYY-MM or YYYY-MM-DD)")
	summaryCmd.Flags().StringVar(&summaryDepartment, "department", "", "Limit to one department")
}

type SummaryOutput struct {
	Period                 string                             `json:"period"`
	Department             string                             `json:"department,omitempty"`
	Metrics                analytics.MetricSummary            `json:"metrics"`
	EmployeeCount          int                                `json:"employeeCount"`
	OvertimeToPaymentRatio float64                            `json:"overtimeToPaymentRatio"`
	StarterTermination     analytics.StarterTerminationCounts `json:"starterTermination"`
}

func runSummary(cmd *cobra.Command, args []string) error {
	svc, err := loadAnalytics(cmd.Context())
	if err != nil {
		return err
	}

	resp, err := dashboardService.NewDashboardService(svc).GetDashboard(cmd.Context(), dashboard.DashboardRequest{
		Period:     summaryPeriod,
		Department: summaryDepartment,
	})
	if err != nil {
		return err
	}

	return writeOutput(cmd.OutOrStdout(), outputFormat, SummaryOutput{
		Period:                 resp.Period,
		Department:             resp.Department,
		Metrics:                resp.Metrics,
		EmployeeCount:          resp.EmployeeCount,
		OvertimeToPaymentRatio: resp.OvertimeToPaymentRatio,
		StarterTermination:     resp.StarterTermination,
	})
}
