package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/cmlabs-hris/hr-analytics-go/internal/domain/document"
	"github.com/cmlabs-hris/hr-analytics-go/internal/pkg/validator"
	"github.com/spf13/cobra"
)

var (
	importCollection string
	importForce      bool
)

var importCmd = &cobra.Command{
	Use:   "import <file.json>",
	Short: "Overwrite a collection, or the whole document, from JSON",
	Long: `Replace a node of the store with the contents of a JSON file. Unlike
upload this does not merge: everything under the target is replaced.

Without --collection the file must hold the whole document.

Examples:
  hrctl import --collection Budget budget.json --force
  hrctl import export.json --force`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().StringVar(&importCollection, "collection", "", "Collection to replace (default: whole document)")
	importCmd.Flags().BoolVar(&importForce, "force", false, "Confirm the overwrite")
}

// ImportOutput reports what was written.
type ImportOutput struct {
	Target string `json:"target"`
	Bytes  int    `json:"bytes"`
}

func runImport(cmd *cobra.Command, args []string) error {
	if !importForce {
		return errors.New("import overwrites data; pass --force to confirm")
	}

	target := strings.Trim(importCollection, "/")
	for _, seg := range strings.Split(target, "/") {
		if target != "" && !validator.IsValidKey(seg) {
			return fmt.Errorf("%w: %q", document.ErrInvalidPath, importCollection)
		}
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}
	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return fmt.Errorf("failed to parse %s: %w", args[0], err)
	}
	if target == "" {
		if _, ok := value.(map[string]any); !ok {
			return errors.New("a whole-document import must be a JSON object")
		}
	}

	_, store, closeStore, err := openStore(cmd.Context())
	defer closeStore()
	if err != nil {
		return err
	}
	if err := store.Put(cmd.Context(), target, value); err != nil {
		return err
	}

	if target == "" {
		target = "/"
	}
	return writeOutput(cmd.OutOrStdout(), outputFormat, ImportOutput{Target: target, Bytes: len(data)})
}
