package engine

import (
	"strings"

	"github.com/carbonlens/scope3scan/internal/model"
)

// Windower builds contextual windows around lines that mention "scope".
// Disclosures often present quantitative scope data as table fragments
// split across lines; joining the surrounding lines recovers a readable
// passage without parsing table structure.
type Windower struct {
	radius   int // Lines taken on each side of the anchor
	minChars int // Windows shorter than this are noise
}

// NewWindower creates a windower with the given radius and minimum
// window length.
func NewWindower(radius, minChars int) *Windower {
	if radius <= 0 {
		radius = 3
	}
	if minChars <= 0 {
		minChars = 100
	}
	return &Windower{radius: radius, minChars: minChars}
}

// Windows returns one candidate window per line containing the
// case-insensitive token "scope", in document order. Scope flags are left
// unset; the detector fills them in. Pure function of the document.
func (w *Windower) Windows(doc model.Document) []model.ContextWindow {
	var windows []model.ContextWindow

	for idx, line := range doc.Lines {
		if !strings.Contains(strings.ToLower(line), "scope") {
			continue
		}

		start := idx - w.radius
		if start < 0 {
			start = 0
		}
		end := idx + w.radius + 1
		if end > len(doc.Lines) {
			end = len(doc.Lines)
		}

		text := strings.Join(doc.Lines[start:end], " ")
		if len(strings.TrimSpace(text)) < w.minChars {
			continue
		}

		windows = append(windows, model.ContextWindow{
			AnchorIndex: idx,
			Text:        text,
		})
	}

	return windows
}
