package engine

import (
	"strings"

	"github.com/carbonlens/scope3scan/internal/model"
)

// Selector turns surviving windows into at most maxPerDoc excerpts,
// dropping near-duplicates produced by overlapping windows around closely
// spaced anchor lines.
type Selector struct {
	maxChars    int // Hard cap on excerpt length
	minChars    int // Excerpts at or below this are dropped
	dedupPrefix int // Leading characters compared for duplicate detection
	maxPerDoc   int
	classifier  *Classifier
}

// NewSelector creates a selector with the given limits.
func NewSelector(maxChars, minChars, dedupPrefix, maxPerDoc int, classifier *Classifier) *Selector {
	return &Selector{
		maxChars:    maxChars,
		minChars:    minChars,
		dedupPrefix: dedupPrefix,
		maxPerDoc:   maxPerDoc,
		classifier:  classifier,
	}
}

// Select walks windows in document order and keeps a candidate only if its
// leading characters differ from every previously kept candidate. The
// label is decided on the full window text before truncation. The seen
// list is local to this call, so documents can be processed in parallel.
func (s *Selector) Select(windows []model.ContextWindow) []model.Excerpt {
	var kept []model.Excerpt

	for _, w := range windows {
		if len(kept) >= s.maxPerDoc {
			break
		}

		label := s.classifier.Label(w.Text)
		text := truncateRunes(strings.TrimSpace(w.Text), s.maxChars)
		if runeLen(text) <= s.minChars {
			continue
		}

		prefix := truncateRunes(text, s.dedupPrefix)
		duplicate := false
		for _, existing := range kept {
			if truncateRunes(existing.Text, s.dedupPrefix) == prefix {
				duplicate = true
				break
			}
		}
		if duplicate {
			continue
		}

		kept = append(kept, model.Excerpt{
			Text:   text,
			Label:  label,
			Scope1: w.Scope1,
			Scope2: w.Scope2,
			Scope3: w.Scope3,
		})
	}

	return kept
}

// truncateRunes caps s at n characters, keeping UTF-8 intact.
func truncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func runeLen(s string) int {
	return len([]rune(s))
}
