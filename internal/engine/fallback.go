package engine

import (
	"strings"

	"github.com/carbonlens/scope3scan/internal/model"
)

// fallbackKeywords mark a line as emissions-adjacent even when no scope
// language is present.
var fallbackKeywords = []string{"emission", "carbon", "ghg", "greenhouse gas", "climate"}

// Fallback finds a neutral excerpt for documents where the normal path
// produced nothing, so the document can still contribute one label-0 row.
type Fallback struct {
	minChars int
	maxChars int
}

// NewFallback creates a fallback finder.
func NewFallback(minChars, maxChars int) *Fallback {
	return &Fallback{minChars: minChars, maxChars: maxChars}
}

// Find scans the document's lines for the first substantial line that
// mentions emissions at all. Returns false when nothing qualifies; that
// document then yields zero rows, which is a legitimate terminal state.
func (f *Fallback) Find(doc model.Document) (model.Excerpt, bool) {
	for _, line := range doc.Lines {
		lower := strings.ToLower(line)
		matched := false
		for _, kw := range fallbackKeywords {
			if strings.Contains(lower, kw) {
				matched = true
				break
			}
		}
		if !matched {
			continue
		}

		trimmed := strings.TrimSpace(line)
		if runeLen(trimmed) <= f.minChars {
			continue
		}

		// No scope claim is being asserted, so the label is fixed at 0.
		return model.Excerpt{
			Text:  truncateRunes(trimmed, f.maxChars),
			Label: 0,
		}, true
	}

	return model.Excerpt{}, false
}
