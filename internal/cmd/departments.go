package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/cmlabs-hris/hr-analytics-go/internal/domain/analytics"
	"github.com/cmlabs-hris/hr-analytics-go/internal/pkg/utils"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	departmentsPeriod     string
	departmentsDepartment string
	departmentsOverBudget bool
)

var departmentsCmd = &cobra.Command{
	Use:   "departments",
	Short: "Print per-department metrics and budget utilization",
	Long: `Print one row per department with the five metrics, the budget for the
budget month and its utilization.

Examples:
  hrctl departments --period 2025-07
  hrctl departments --over-budget --output json
  hrctl departments --output table`,
	Args: cobra.NoArgs,
	RunE: runDepartments,
}

func init() {
	rootCmd.AddCommand(departmentsCmd)
	departmentsCmd.Flags().StringVar(&departmentsPeriod, "period", analytics.PeriodOverall, "Period (overall, YYYY-MM or YYYY-MM-DD)")
	departmentsCmd.Flags().StringVar(&departmentsDepartment, "department", "", "Limit to one department")
	departmentsCmd.Flags().BoolVar(&departmentsOverBudget, "over-budget", false, "Only departments above 100% utilization")
}

func runDepartments(cmd *cobra.Command, args []string) error {
	svc, err := loadAnalytics(cmd.Context())
	if err != nil {
		return err
	}

	rows := svc.Current().GetDepartmentSummary(departmentsPeriod, departmentsDepartment)
	if departmentsOverBudget {
		filtered := rows[:0]
		for _, row := range rows {
			if row.OverBudget() {
				filtered = append(filtered, row)
			}
		}
		rows = filtered
	}
	if outputFormat == "table" {
		return writeDepartmentTable(cmd.OutOrStdout(), rows)
	}
	return writeOutput(cmd.OutOrStdout(), outputFormat, rows)
}

func writeDepartmentTable(w io.Writer, rows []analytics.DepartmentSummary) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "DEPARTMENT\tEMPLOYEES\tOT HOURS\tOT AMOUNT\tABSENT\tPAYMENTS\tBUDGET\tUTILIZATION\t")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%d\t%.1f\t%s\t%.1f\t%s\t%s\t%.1f%%\t\n",
			r.Department,
			r.EmployeeCount,
			r.TotalOvertime,
			utils.FormatAmount(decimal.NewFromFloat(r.TotalOvertimeAmount)),
			r.TotalAbsenteeism,
			utils.FormatAmount(decimal.NewFromFloat(r.TotalPaymentAmount)),
			utils.FormatAmount(decimal.NewFromFloat(r.Budget)),
			r.BudgetUtilization,
		)
	}
	return tw.Flush()
}
