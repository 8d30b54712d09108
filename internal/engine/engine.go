// Package engine extracts bounded, deduplicated, binary-labeled excerpts
// about Scope 1/2/3 emissions reporting from annual report text. The whole
// pipeline is a pure function per document, so documents can be processed
// in parallel with no shared state.
package engine

import (
	"github.com/carbonlens/scope3scan/internal/model"
)

// Engine runs the full per-document extraction pipeline:
// windowing, scope detection, selection, labeling, and the fallback path.
type Engine struct {
	windower *Windower
	detector *Detector
	selector *Selector
	fallback *Fallback
}

// New creates an engine from dataset configuration.
func New(cfg model.DatasetConfig) *Engine {
	classifier := NewClassifier()
	return &Engine{
		windower: NewWindower(cfg.WindowRadius, cfg.MinWindowChars),
		detector: NewDetector(),
		selector: NewSelector(cfg.MaxExcerptChars, cfg.MinExcerptChars, cfg.DedupPrefixChars, cfg.MaxPerDocument, classifier),
		fallback: NewFallback(cfg.MinWindowChars, cfg.MaxExcerptChars),
	}
}

// Extract produces the document's excerpt list. Windows that don't anchor
// on Scope 1 or 2 language are discarded before selection. When the normal
// path yields nothing, the fallback contributes at most one neutral
// excerpt. Deterministic: the same document always yields the same list.
func (e *Engine) Extract(doc model.Document) []model.Excerpt {
	windows := e.windower.Windows(doc)

	surviving := windows[:0:0]
	for _, w := range windows {
		if e.detector.Detect(&w) {
			surviving = append(surviving, w)
		}
	}

	excerpts := e.selector.Select(surviving)
	if len(excerpts) > 0 {
		return excerpts
	}

	if ex, ok := e.fallback.Find(doc); ok {
		return []model.Excerpt{ex}
	}
	return nil
}
