package llm

import (
	"context"
	"fmt"

	"github.com/carbonlens/scope3scan/internal/model"
)

// Auditor samples dataset rows and compares rule labels against a
// model's verdicts. Output is advisory; the dataset is never modified.
type Auditor struct {
	provider   Provider
	sampleSize int
}

// NewAuditor creates an auditor judging at most sampleSize rows.
func NewAuditor(provider Provider, sampleSize int) *Auditor {
	if sampleSize <= 0 {
		sampleSize = 20
	}
	return &Auditor{provider: provider, sampleSize: sampleSize}
}

// Disagreement is one row where the model disputes the rule label.
type Disagreement struct {
	Row       model.DatasetRow
	RuleLabel int
	LLMLabel  int
	Rationale string
}

// AuditResult summarizes one audit run.
type AuditResult struct {
	Sampled       int
	Agreements    int
	Failures      int
	Disagreements []Disagreement
}

// AgreementRate returns the share of judged rows where model and rules
// agree, in [0, 1].
func (r AuditResult) AgreementRate() float64 {
	judged := r.Sampled - r.Failures
	if judged <= 0 {
		return 0
	}
	return float64(r.Agreements) / float64(judged)
}

// Audit judges an evenly spaced sample of rows. Even spacing keeps the
// sample deterministic and spread across companies, since rows arrive
// grouped by document.
func (a *Auditor) Audit(ctx context.Context, rows []model.DatasetRow) (*AuditResult, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("nothing to audit: dataset is empty")
	}
	if !a.provider.IsAvailable(ctx) {
		return nil, fmt.Errorf("provider %s is not available", a.provider.Name())
	}

	sample := sampleIndices(len(rows), a.sampleSize)
	result := &AuditResult{Sampled: len(sample)}

	for _, idx := range sample {
		row := rows[idx]
		resp, err := a.provider.Judge(ctx, JudgeRequest{Excerpt: row.TextExcerpt})
		if err != nil {
			if ctx.Err() != nil {
				return result, ctx.Err()
			}
			result.Failures++
			continue
		}

		if resp.Label == row.Label {
			result.Agreements++
			continue
		}
		result.Disagreements = append(result.Disagreements, Disagreement{
			Row:       row,
			RuleLabel: row.Label,
			LLMLabel:  resp.Label,
			Rationale: resp.Rationale,
		})
	}
	return result, nil
}

// sampleIndices picks up to size indices evenly spaced over n rows.
func sampleIndices(n, size int) []int {
	if size >= n {
		indices := make([]int, n)
		for i := range indices {
			indices[i] = i
		}
		return indices
	}

	indices := make([]int, 0, size)
	step := float64(n) / float64(size)
	for i := 0; i < size; i++ {
		indices = append(indices, int(float64(i)*step))
	}
	return indices
}
