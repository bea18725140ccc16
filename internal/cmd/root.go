// Package cmd contains the hrctl commands.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/cmlabs-hris/hr-analytics-go/internal/config"
	"github.com/cmlabs-hris/hr-analytics-go/internal/domain/analytics"
	"github.com/cmlabs-hris/hr-analytics-go/internal/domain/document"
	"github.com/cmlabs-hris/hr-analytics-go/internal/repository"
	analyticsService "github.com/cmlabs-hris/hr-analytics-go/internal/service/analytics"
	"github.com/spf13/cobra"
)

var (
	// Version is the current version of hrctl
	Version = "0.1.0"

	// Global flags
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "hrctl",
	Short: "Query and load the HR analytics document",
	Long: `hrctl reads the HR document from the configured store and prints the
same aggregates the dashboard API serves. It can also merge spreadsheet
uploads and bulk-import collections.

The store is selected from the environment (STORE_TYPE, FIREBASE_URL,
DATABASE_URL, ...) exactly as the API server does, including .env.

Examples:
  hrctl summary --period 2025-07            # Five headline metrics
  hrctl departments --output json           # Per-department breakdown
  hrctl dates                               # Months and dates with data
  hrctl upload --type Overtime --date 2025-07-02 ot.csv
  hrctl template Payment > payment.csv
  hrctl import --collection Budget budget.json --force`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. It is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "yaml", "Output format (yaml|json, departments also accepts table)")
}

// openStore loads configuration and opens the configured store. The
// close function is never nil.
func openStore(ctx context.Context) (*config.Config, document.Store, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, func() {}, err
	}
	store, closeStore, err := repository.OpenStore(ctx, cfg)
	if err != nil {
		return nil, nil, func() {}, err
	}
	return cfg, store, closeStore, nil
}

// staticSource serves one fetched document.
type staticSource struct{ doc *document.Document }

func (s staticSource) Snapshot() *document.Document { return s.doc }

// loadAnalytics fetches the document once and returns a service over it.
func loadAnalytics(ctx context.Context) (analytics.Service, error) {
	cfg, store, closeStore, err := openStore(ctx)
	defer closeStore()
	if err != nil {
		return nil, err
	}

	tree, err := store.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	var opts []analyticsService.Option
	if cfg.Analytics.BudgetMonth != "" {
		opts = append(opts, analyticsService.WithBudgetMonth(cfg.Analytics.BudgetMonth))
	}
	return analyticsService.NewAnalyticsService(staticSource{doc: document.Decode(tree)}, opts...), nil
}
