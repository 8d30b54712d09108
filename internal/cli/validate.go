package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/carbonlens/scope3scan/internal/dataset"
)

var validateIn string

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a built dataset against the output contract",
	Long: `Validate reads a dataset CSV and checks it: exact column set, no
missing values, excerpt lengths within the limit, binary labels, and a
usable label balance.

Example:
  scope3scan validate
  scope3scan validate --in dataset.csv`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().StringVar(&validateIn, "in", "", "dataset CSV to check (default from config)")
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	path := validateIn
	if path == "" {
		path = cfg.Dataset.OutputPath
	}

	rows, err := dataset.ReadCSV(path)
	if err != nil {
		return fmt.Errorf("reading dataset: %w", err)
	}

	v := dataset.Validate(rows, cfg.Dataset.MaxExcerptChars)

	fmt.Printf("Dataset: %s\n", path)
	fmt.Printf("Rows: %d  (label 1: %d, label 0: %d)\n", v.Rows, v.Label1, v.Label0)
	fmt.Printf("Companies: %d  Exchanges: %v  Years: %v\n", v.Companies, v.Exchanges, v.Years)
	fmt.Printf("Excerpt length: %d-%d chars\n", v.MinLen, v.MaxLen)

	for _, warning := range v.Warnings {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", warning)
	}
	for _, e := range v.Errors {
		fmt.Fprintf(os.Stderr, "Error: %s\n", e)
	}

	if !v.OK() {
		return fmt.Errorf("dataset failed validation with %d errors", len(v.Errors))
	}
	fmt.Println("Dataset is valid.")
	return nil
}
