package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/carbonlens/scope3scan/internal/diagnose"
)

var (
	diagnoseTextsDir string
	diagnoseOut      string
)

// diagnoseCmd represents the diagnose command
var diagnoseCmd = &cobra.Command{
	Use:   "diagnose",
	Short: "Census Scope 3 mentions across converted report texts",
	Long: `Diagnose scans every converted text for Scope 3 mentions using
several pattern families, from loose literal matches to tight reporting
phrases. Use it when a dataset build produces no positive labels: the
census shows whether the texts lack Scope 3 disclosures or the labeling
rules are rejecting them.

Example:
  scope3scan diagnose
  scope3scan diagnose --texts data/texts --out scope3_census.csv`,
	RunE: runDiagnose,
}

func init() {
	rootCmd.AddCommand(diagnoseCmd)
	diagnoseCmd.Flags().StringVar(&diagnoseTextsDir, "texts", "", "directory of converted texts (default <data-dir>/texts)")
	diagnoseCmd.Flags().StringVar(&diagnoseOut, "out", "scope3_diagnostic_results.csv", "per-file census CSV")
}

func runDiagnose(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	dir := diagnoseTextsDir
	if dir == "" {
		dir = filepath.Join(cfg.Scrape.DataDir, "texts")
	}

	summary, err := diagnose.ScanDir(dir)
	if err != nil {
		return err
	}
	if summary.FilesScanned == 0 {
		return fmt.Errorf("no .txt files under %s; run 'scope3scan scrape' first", dir)
	}

	fmt.Printf("Scanned %d files; %d mention Scope 3 (%.1f%%)\n",
		summary.FilesScanned, summary.FilesWithScope, summary.Percentage())

	shown := 0
	for _, result := range summary.Results {
		if !result.HasScope3 || shown >= 10 {
			continue
		}
		shown++
		fmt.Printf("\n%d. %s\n", shown, result.File)
		fmt.Printf("   Patterns: %v  Mentions: %d\n", result.PatternsFound, result.MentionCount)
		if len(result.SampleContexts) > 0 {
			fmt.Printf("   Context: %s\n", result.SampleContexts[0].Context)
		}
	}
	if summary.FilesWithScope > 10 {
		fmt.Printf("\n... and %d more files\n", summary.FilesWithScope-10)
	}

	if summary.FilesWithScope == 0 {
		fmt.Println("\nNo Scope 3 mentions found. The companies sampled may not")
		fmt.Println("report Scope 3, or text conversion missed the relevant pages.")
		fmt.Println("Consider scraping larger companies or sustainability reports.")
	}

	if err := summary.WriteCSV(diagnoseOut); err != nil {
		return fmt.Errorf("writing census: %w", err)
	}
	fmt.Printf("\nDetailed results saved to %s\n", diagnoseOut)
	return nil
}
