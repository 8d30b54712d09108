package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/carbonlens/scope3scan/internal/dataset"
	"github.com/carbonlens/scope3scan/internal/llm"
	"github.com/carbonlens/scope3scan/internal/model"
	"github.com/carbonlens/scope3scan/internal/store"
)

var (
	datasetMetadata string
	datasetOut      string
	datasetWorkers  int
	datasetDBPath   string
	datasetAudit    bool
	datasetTimeout  time.Duration
)

// datasetCmd represents the dataset command
var datasetCmd = &cobra.Command{
	Use:   "dataset",
	Short: "Build the labeled excerpt dataset from converted reports",
	Long: `Dataset reads the scrape metadata, extracts excerpts around
emissions-scope mentions from each report text, labels them with the
pattern rules, and writes the training CSV.

Labels are 1 only when the excerpt mentions Scope 3 literally, shows
reporting evidence, and states no future plan. The optional LLM audit
judges a sample of rows and prints disagreements without changing any
label.

Example:
  scope3scan dataset
  scope3scan dataset --metadata data/pdf_metadata.csv --out dataset.csv
  scope3scan dataset --llm-audit`,
	RunE: runDataset,
}

func init() {
	rootCmd.AddCommand(datasetCmd)

	datasetCmd.Flags().StringVar(&datasetMetadata, "metadata", "data/pdf_metadata.csv", "scrape metadata CSV")
	datasetCmd.Flags().StringVar(&datasetOut, "out", "", "output CSV path (default from config)")
	datasetCmd.Flags().IntVar(&datasetWorkers, "concurrency", 0, "worker count (default from config)")
	datasetCmd.Flags().StringVar(&datasetDBPath, "db", "", "also store rows in a SQLite database at this path")
	datasetCmd.Flags().BoolVar(&datasetAudit, "llm-audit", false, "sample rows and ask an LLM for a second opinion")
	datasetCmd.Flags().DurationVar(&datasetTimeout, "timeout", 30*time.Minute, "overall build timeout")
}

func runDataset(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	if datasetOut != "" {
		cfg.Dataset.OutputPath = datasetOut
	}
	workers := cfg.Concurrency.Workers
	if datasetWorkers > 0 {
		workers = datasetWorkers
	}

	ctx, cancel := context.WithTimeout(context.Background(), datasetTimeout)
	defer cancel()

	metas, err := dataset.ReadMetadataCSV(datasetMetadata)
	if err != nil {
		return fmt.Errorf("reading metadata: %w", err)
	}
	fmt.Printf("Processing %d reports with %d workers\n", len(metas), workers)

	builder := dataset.NewBuilder(cfg.Dataset, workers, cfg.Output.Verbose)
	rows, summary, err := builder.Build(ctx, metas)
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}

	fmt.Printf("\nDocuments: %d  Processed: %d  Skipped: %d  Fallback: %d\n",
		summary.Documents, summary.Processed, summary.Skipped, summary.Fallback)
	fmt.Printf("Rows: %d  (label 1: %d, label 0: %d)\n", len(rows), summary.Label1, summary.Label0)
	for _, warning := range summary.Warnings() {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", warning)
	}

	if len(rows) == 0 {
		return fmt.Errorf("no rows extracted; run 'scope3scan diagnose' to inspect the texts")
	}

	if err := dataset.WriteCSV(cfg.Dataset.OutputPath, rows); err != nil {
		return fmt.Errorf("writing dataset: %w", err)
	}
	fmt.Printf("Dataset written to %s\n", cfg.Dataset.OutputPath)

	if datasetDBPath != "" {
		s, err := store.Open(datasetDBPath)
		if err != nil {
			return err
		}
		defer s.Close()
		if err := s.ReplaceRows(ctx, rows); err != nil {
			return err
		}
		fmt.Printf("Rows stored in %s\n", datasetDBPath)
	}

	if datasetAudit {
		if err := runAudit(ctx, cfg, rows); err != nil {
			// The dataset is already written; a failed audit is advisory.
			fmt.Fprintf(os.Stderr, "Warning: LLM audit failed: %v\n", err)
		}
	}
	return nil
}

func runAudit(ctx context.Context, cfg *model.Config, rows []model.DatasetRow) error {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return fmt.Errorf("OPENAI_API_KEY environment variable not set")
	}

	provider, err := llm.NewOpenAIProvider(llm.Config{
		Model:     cfg.LLM.Model,
		APIKey:    apiKey,
		BaseURL:   cfg.LLM.BaseURL,
		MaxTokens: cfg.LLM.MaxTokens,
	})
	if err != nil {
		return err
	}

	auditor := llm.NewAuditor(provider, cfg.LLM.SampleSize)
	result, err := auditor.Audit(ctx, rows)
	if err != nil {
		return err
	}

	fmt.Printf("\nLLM audit: %d rows sampled, %d agreements, %d disagreements, %d failures (%.0f%% agreement)\n",
		result.Sampled, result.Agreements, len(result.Disagreements), result.Failures,
		result.AgreementRate()*100)
	for _, d := range result.Disagreements {
		excerpt := d.Row.TextExcerpt
		if len(excerpt) > 120 {
			excerpt = excerpt[:120] + "..."
		}
		fmt.Printf("  %s %d: rule=%d llm=%d  %s\n    %q\n",
			d.Row.CompanyName, d.Row.Year, d.RuleLabel, d.LLMLabel, d.Rationale, excerpt)
	}
	return nil
}
