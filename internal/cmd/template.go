package cmd

import (
	"fmt"
	"io"
	"os"

	uploadService "github.com/cmlabs-hris/hr-analytics-go/internal/service/upload"
	"github.com/spf13/cobra"
)

var templateFile string

var templateCmd = &cobra.Command{
	Use:   "template [type]",
	Short: "List upload templates or print one as CSV",
	Long: `Without arguments, list the available templates. With a type, print
that template's CSV to stdout or to --file.

Examples:
  hrctl template
  hrctl template Overtime > Overtime_Template.csv
  hrctl template Payment --file payment.csv`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTemplate,
}

func init() {
	rootCmd.AddCommand(templateCmd)
	templateCmd.Flags().StringVarP(&templateFile, "file", "f", "", "Write the CSV to this file")
}

func runTemplate(cmd *cobra.Command, args []string) error {
	// Templates are static; no store is needed.
	svc := uploadService.NewUploadService(nil, nil, nil)

	if len(args) == 0 {
		return writeOutput(cmd.OutOrStdout(), outputFormat, svc.Templates())
	}

	tmpl, err := svc.Template(args[0])
	if err != nil {
		return fmt.Errorf("%w: %q", err, args[0])
	}

	if templateFile == "" {
		_, err = io.WriteString(cmd.OutOrStdout(), tmpl.Content)
		return err
	}
	if err := os.WriteFile(templateFile, []byte(tmpl.Content), 0o644); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", templateFile)
	return nil
}
