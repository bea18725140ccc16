package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cmlabs-hris/hr-analytics-go/internal/domain/upload"
	"github.com/cmlabs-hris/hr-analytics-go/internal/pkg/storage"
	uploadService "github.com/cmlabs-hris/hr-analytics-go/internal/service/upload"
	"github.com/spf13/cobra"
)

var (
	uploadType        string
	uploadDate        string
	uploadDryRun      bool
	uploadUseRowDates bool
)

var uploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Merge a CSV, XLSX or JSON file into a collection",
	Long: `Parse a spreadsheet, reshape it for its collection and merge it into the
store. Existing records that the file does not mention are kept.

Types: LocationMap, Overtime, Payment, Absenteeism, startertermination

Examples:
  hrctl upload --type Overtime --date 2025-07-02 overtime.csv
  hrctl upload --type Payment --date 2025-07-02 --use-row-dates payroll.xlsx
  hrctl upload --type Absenteeism --date 2025-07-02 --dry-run absences.csv`,
	Args: cobra.ExactArgs(1),
	RunE: runUpload,
}

func init() {
	rootCmd.AddCommand(uploadCmd)
	uploadCmd.Flags().StringVar(&uploadType, "type", "", "Collection type (required)")
	uploadCmd.Flags().StringVar(&uploadDate, "date", "", "Effective date YYYY-MM-DD (required)")
	uploadCmd.Flags().BoolVar(&uploadDryRun, "dry-run", false, "Print the updates without writing")
	uploadCmd.Flags().BoolVar(&uploadUseRowDates, "use-row-dates", false, "Let a Date column override --date per row")
	_ = uploadCmd.MarkFlagRequired("type")
	_ = uploadCmd.MarkFlagRequired("date")
}

func runUpload(cmd *cobra.Command, args []string) error {
	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	cfg, store, closeStore, err := openStore(cmd.Context())
	defer closeStore()
	if err != nil {
		return err
	}
	if int64(len(data)) > cfg.Upload.MaxFileSize {
		return fmt.Errorf("%w: %d bytes, limit %d", upload.ErrFileTooLarge, len(data), cfg.Upload.MaxFileSize)
	}

	archive, err := storage.NewLocalStorage(cfg.Upload.ArchiveDir)
	if err != nil {
		return err
	}

	resp, err := uploadService.NewUploadService(store, archive, nil).Upload(cmd.Context(), upload.UploadRequest{
		Type:          uploadType,
		EffectiveDate: uploadDate,
		Filename:      filepath.Base(path),
		Data:          data,
		UseRowDates:   uploadUseRowDates,
		DryRun:        uploadDryRun,
	})
	if err != nil {
		return err
	}
	return writeOutput(cmd.OutOrStdout(), outputFormat, resp)
}
