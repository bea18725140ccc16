package cmd

import (
	"github.com/spf13/cobra"
)

var datesCmd = &cobra.Command{
	Use:   "dates",
	Short: "List the months and dates that carry data",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := loadAnalytics(cmd.Context())
		if err != nil {
			return err
		}
		return writeOutput(cmd.OutOrStdout(), outputFormat, svc.Current().GetAvailableDates())
	},
}

func init() {
	rootCmd.AddCommand(datesCmd)
}
