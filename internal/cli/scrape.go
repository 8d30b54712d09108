package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/carbonlens/scope3scan/internal/dataset"
	"github.com/carbonlens/scope3scan/internal/pipeline"
	"github.com/carbonlens/scope3scan/internal/store"
)

var (
	scrapeBaseURL      string
	scrapeMinCompanies int
	scrapeDataDir      string
	scrapeMetadataOut  string
	scrapeDBPath       string
	scrapeTimeout      time.Duration
)

// scrapeCmd represents the scrape command
var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Download annual report PDFs and convert them to text",
	Long: `Scrape discovers companies on annualreports.com, finds their annual
report PDFs for recent years, downloads them, and converts each PDF to
plain text with pdftotext.

Results are recorded in a metadata CSV (and optionally a SQLite
database) that the dataset command consumes.

Example:
  scope3scan scrape
  scope3scan scrape --min-companies 100 --data-dir data --db data/scope3scan.db`,
	RunE: runScrape,
}

func init() {
	rootCmd.AddCommand(scrapeCmd)

	scrapeCmd.Flags().StringVar(&scrapeBaseURL, "base-url", "", "report site base URL (default from config)")
	scrapeCmd.Flags().IntVar(&scrapeMinCompanies, "min-companies", 0, "companies to discover (default from config)")
	scrapeCmd.Flags().StringVar(&scrapeDataDir, "data-dir", "", "directory for PDFs and texts (default from config)")
	scrapeCmd.Flags().StringVar(&scrapeMetadataOut, "metadata", "", "metadata CSV path (default <data-dir>/pdf_metadata.csv)")
	scrapeCmd.Flags().StringVar(&scrapeDBPath, "db", "", "also record reports in a SQLite database at this path")
	scrapeCmd.Flags().DurationVar(&scrapeTimeout, "timeout", 2*time.Hour, "overall scrape timeout")
}

func runScrape(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	if scrapeBaseURL != "" {
		cfg.Scrape.BaseURL = scrapeBaseURL
	}
	if scrapeMinCompanies > 0 {
		cfg.Scrape.MinCompanies = scrapeMinCompanies
	}
	if scrapeDataDir != "" {
		cfg.Scrape.DataDir = scrapeDataDir
	}
	metadataOut := scrapeMetadataOut
	if metadataOut == "" {
		metadataOut = filepath.Join(cfg.Scrape.DataDir, "pdf_metadata.csv")
	}

	ctx, cancel := context.WithTimeout(context.Background(), scrapeTimeout)
	defer cancel()

	p, err := pipeline.NewPipeline(cfg)
	if err != nil {
		return err
	}

	fmt.Printf("Scraping %s (target %d companies, years %d-%d)\n",
		cfg.Scrape.BaseURL, cfg.Scrape.MinCompanies, cfg.Scrape.MinYear, cfg.Scrape.MaxYear)

	metas, summary, err := p.Scrape(ctx)
	if err != nil {
		return fmt.Errorf("scrape failed: %w", err)
	}

	fmt.Printf("\nCompanies: %d  Reports found: %d  Converted: %d  Failed: %d\n",
		summary.Companies, summary.ReportsFound, summary.Converted, summary.Failed)

	if len(metas) == 0 {
		return fmt.Errorf("no reports converted; nothing to record")
	}

	if err := dataset.WriteMetadataCSV(metadataOut, metas); err != nil {
		return fmt.Errorf("writing metadata: %w", err)
	}
	fmt.Printf("Metadata written to %s\n", metadataOut)

	if scrapeDBPath != "" {
		s, err := store.Open(scrapeDBPath)
		if err != nil {
			return err
		}
		defer s.Close()
		for _, meta := range metas {
			if err := s.UpsertReport(ctx, meta); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
			}
		}
		fmt.Printf("Reports recorded in %s\n", scrapeDBPath)
	}

	fmt.Println("\nNext: scope3scan dataset")
	return nil
}
