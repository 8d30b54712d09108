package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/carbonlens/scope3scan/internal/cache"
	"github.com/carbonlens/scope3scan/internal/convert"
	"github.com/carbonlens/scope3scan/internal/model"
	"github.com/carbonlens/scope3scan/internal/scrape"
	"github.com/carbonlens/scope3scan/internal/util"
	"github.com/carbonlens/scope3scan/internal/worker"
)

// Pipeline wires the fetcher, scraper, downloader, and converter into
// the acquisition flow: discover companies, find their annual reports,
// download the PDFs, and convert them to text.
type Pipeline struct {
	cfg        *model.Config
	fetcher    *Fetcher
	scraper    *scrape.Scraper
	downloader *scrape.Downloader
	converter  *convert.Converter
	verbose    bool
}

// NewPipeline builds the acquisition pipeline from configuration.
func NewPipeline(cfg *model.Config) (*Pipeline, error) {
	fetcher := NewFetcher(cfg.HTTP)

	if cfg.Cache.Enabled {
		memory := cache.NewMemoryCache(cfg.Cache.MemoryTTL)
		disk, err := cache.NewDiskCache(cfg.Cache.Dir, cfg.Cache.DiskTTL)
		if err != nil {
			return nil, fmt.Errorf("initializing cache: %w", err)
		}
		fetcher.SetCache(cache.NewLayeredCache(memory, disk), cfg.Cache.DiskTTL)
	}

	robots := util.NewRobotsChecker(util.NormalizeUserAgent(cfg.HTTP.UserAgent), cfg.HTTP.Timeout)
	limiter := worker.NewLimiter(cfg.Scrape.RequestsPerSecond, 1)
	fetcher.SetPoliteness(robots, limiter, cfg.Scrape.PoliteDelay)

	fetch := func(ctx context.Context, rawURL string) ([]byte, error) {
		result, err := fetcher.FetchWithRetry(ctx, rawURL)
		if err != nil {
			return nil, err
		}
		return result.Body, nil
	}

	return &Pipeline{
		cfg:        cfg,
		fetcher:    fetcher,
		scraper:    scrape.New(cfg.Scrape.BaseURL, fetch, cfg.Scrape.MinYear, cfg.Scrape.MaxYear),
		downloader: scrape.NewDownloader(fetch, filepath.Join(cfg.Scrape.DataDir, "pdfs"), cfg.Scrape.MinPDFBytes),
		converter:  convert.NewConverter(cfg.Scrape.MaxPages, cfg.Scrape.MinTextChars),
		verbose:    cfg.Output.Verbose,
	}, nil
}

// ScrapeSummary counts what one acquisition run produced.
type ScrapeSummary struct {
	Companies    int
	ReportsFound int
	Downloaded   int
	Converted    int
	Failed       int
}

// Scrape runs the full acquisition flow and returns metadata for every
// report that made it all the way to converted text. Failures on
// individual companies or reports are counted and skipped, not fatal.
func (p *Pipeline) Scrape(ctx context.Context) ([]model.ReportMeta, ScrapeSummary, error) {
	var summary ScrapeSummary

	if !p.converter.Available() {
		return nil, summary, fmt.Errorf("pdftotext is required for conversion but was not found on PATH")
	}

	textsDir := filepath.Join(p.cfg.Scrape.DataDir, "texts")
	if err := os.MkdirAll(textsDir, 0o755); err != nil {
		return nil, summary, fmt.Errorf("creating texts dir: %w", err)
	}

	companies, err := p.scraper.CompanyLinks(ctx, p.cfg.Scrape.MinCompanies)
	if err != nil {
		return nil, summary, fmt.Errorf("discovering companies: %w", err)
	}
	summary.Companies = len(companies)

	var metas []model.ReportMeta
	for i, company := range companies {
		if ctx.Err() != nil {
			return metas, summary, ctx.Err()
		}
		if p.verbose {
			fmt.Printf("[%d/%d] %s\n", i+1, len(companies), company.Name)
		}

		details, err := p.scraper.Details(ctx, company)
		if err != nil {
			if p.verbose {
				fmt.Printf("  skipped: %v\n", err)
			}
			summary.Failed++
			continue
		}
		summary.ReportsFound += len(details.Reports)

		for _, report := range details.Reports {
			meta, err := p.processReport(ctx, details, report, textsDir)
			if err != nil {
				if p.verbose {
					fmt.Printf("  %d: %v\n", report.Year, err)
				}
				summary.Failed++
				continue
			}
			summary.Downloaded++
			summary.Converted++
			metas = append(metas, meta)
			if p.verbose {
				fmt.Printf("  %d: %s\n", report.Year, meta.TextPath)
			}
		}
	}
	return metas, summary, nil
}

func (p *Pipeline) processReport(ctx context.Context, details *scrape.CompanyDetails, report scrape.ReportLink, textsDir string) (model.ReportMeta, error) {
	pdfPath, err := p.downloader.Download(ctx, report.URL, details.Name, report.Year)
	if err != nil {
		return model.ReportMeta{}, err
	}

	textPath := filepath.Join(textsDir, fmt.Sprintf("%s_%d.txt", scrape.SafeFileName(details.Name), report.Year))
	if _, err := p.converter.Convert(ctx, pdfPath, textPath); err != nil {
		return model.ReportMeta{}, err
	}

	return model.ReportMeta{
		Company:  details.Name,
		Exchange: details.Exchange,
		Year:     report.Year,
		URL:      report.URL,
		PDFPath:  pdfPath,
		TextPath: textPath,
	}, nil
}
