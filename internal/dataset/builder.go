// Package dataset assembles the labeled training table from acquired
// report texts and persists it as CSV.
package dataset

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/carbonlens/scope3scan/internal/engine"
	"github.com/carbonlens/scope3scan/internal/model"
	"github.com/carbonlens/scope3scan/internal/worker"
)

// Builder runs the extraction engine over a batch of report texts.
// Documents are independent, so they are processed on a worker pool;
// each document's rows are produced atomically and results are stitched
// back together in input order so output is reproducible.
type Builder struct {
	engine  *engine.Engine
	workers int
	verbose bool
}

// NewBuilder creates a dataset builder.
func NewBuilder(cfg model.DatasetConfig, workers int, verbose bool) *Builder {
	if workers <= 0 {
		workers = 1
	}
	return &Builder{
		engine:  engine.New(cfg),
		workers: workers,
		verbose: verbose,
	}
}

// Summary reports what happened across the batch.
type Summary struct {
	Documents int // Metadata rows seen
	Processed int // Documents that produced at least one row
	Skipped   int // Malformed metadata or unreadable text files
	Fallback  int // Documents that contributed only a neutral excerpt
	Label0    int
	Label1    int
}

// Warnings returns batch-level conditions the caller should surface.
// A corpus with zero label-1 rows cannot train a meaningful classifier,
// but the decision to abort belongs to the caller.
func (s Summary) Warnings() []string {
	var warnings []string
	if s.Label1 == 0 && s.Label0 > 0 {
		warnings = append(warnings, "no Scope 3 reporting found: all labels are 0; the corpus may lack Scope 3 disclosures or the companies sampled do not report Scope 3")
	}
	if s.Documents > 0 && s.Processed == 0 {
		warnings = append(warnings, "no document produced any rows")
	}
	return warnings
}

// buildJob processes one metadata row on the worker pool.
type buildJob struct {
	index   int
	meta    model.ReportMeta
	engine  *engine.Engine
	verbose bool
}

// buildResult carries one document's rows back with its input position.
type buildResult struct {
	index    int
	rows     []model.DatasetRow
	fallback bool
	skipped  bool
	err      error
}

// GetError implements worker.Result.
func (r *buildResult) GetError() error { return r.err }

// Execute implements worker.Job. Failures are soft: a missing or
// unreadable text file skips the document and the batch continues.
func (j *buildJob) Execute(ctx context.Context) worker.Result {
	if err := ctx.Err(); err != nil {
		return &buildResult{index: j.index, skipped: true, err: err}
	}

	if !j.meta.Valid() {
		return &buildResult{index: j.index, skipped: true, err: fmt.Errorf("%s: incomplete metadata row", j.meta.TextPath)}
	}

	raw, err := os.ReadFile(j.meta.TextPath)
	if err != nil {
		return &buildResult{index: j.index, skipped: true, err: fmt.Errorf("read text: %w", err)}
	}

	doc := model.NewDocument(j.meta.TextPath, string(raw))
	excerpts := j.engine.Extract(doc)

	rows := make([]model.DatasetRow, 0, len(excerpts))
	for _, ex := range excerpts {
		rows = append(rows, model.DatasetRow{
			CompanyName: j.meta.Company,
			Exchange:    j.meta.Exchange,
			Year:        j.meta.Year,
			TextExcerpt: ex.Text,
			Label:       ex.Label,
		})
	}

	fallback := len(excerpts) == 1 && !excerpts[0].Scope1 && !excerpts[0].Scope2 && !excerpts[0].Scope3 && excerpts[0].Label == 0
	return &buildResult{index: j.index, rows: rows, fallback: fallback}
}

// Build processes every metadata row and returns the merged dataset in
// input order plus a batch summary.
func (b *Builder) Build(ctx context.Context, metas []model.ReportMeta) ([]model.DatasetRow, Summary, error) {
	summary := Summary{Documents: len(metas)}
	if len(metas) == 0 {
		return nil, summary, nil
	}

	pool := worker.NewPool(b.workers)
	pool.Start()
	for i, meta := range metas {
		pool.Submit(&buildJob{index: i, meta: meta, engine: b.engine, verbose: b.verbose})
	}
	raw := pool.Wait()

	results := make([]*buildResult, 0, len(raw))
	for _, r := range raw {
		results = append(results, r.(*buildResult))
	}
	sort.Slice(results, func(i, j int) bool { return results[i].index < results[j].index })

	var rows []model.DatasetRow
	for _, res := range results {
		if res.skipped {
			summary.Skipped++
			if b.verbose && res.err != nil {
				fmt.Fprintf(os.Stderr, "  skipped %s: %v\n", metas[res.index].TextPath, res.err)
			}
			continue
		}
		if len(res.rows) > 0 {
			summary.Processed++
		}
		if res.fallback {
			summary.Fallback++
		}
		for _, row := range res.rows {
			if row.Label == 1 {
				summary.Label1++
			} else {
				summary.Label0++
			}
		}
		rows = append(rows, res.rows...)
	}

	if err := ctx.Err(); err != nil {
		return rows, summary, err
	}
	return rows, summary, nil
}
