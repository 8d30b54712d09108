package engine

import (
	"regexp"

	"github.com/carbonlens/scope3scan/internal/model"
)

// Scope mention patterns. Each matches the digit or roman form followed by
// an emissions/GHG qualifier, a word boundary, or a list separator, so bare
// numerals in unrelated contexts don't count.
var (
	scope1Pattern = regexp.MustCompile(`(?i)\bscope\s*[1i](?:\s+emissions?|\s+ghg|\b|\s*[,&-])`)
	scope2Pattern = regexp.MustCompile(`(?i)\bscope\s*(?:2|ii)(?:\s+emissions?|\s+ghg|\b|\s*[,&-])`)
	scope3Pattern = regexp.MustCompile(`(?i)\bscope\s*(?:3|iii)(?:\s+emissions?|\s+ghg|\b|\s*[,&-])`)
)

// scopeRule names one scope-mention pattern. The detector walks the table
// in order; adding a family means adding a row, not touching control flow.
type scopeRule struct {
	name    string
	pattern *regexp.Regexp
	set     func(*model.ContextWindow)
}

var scopeRules = []scopeRule{
	{"scope_1", scope1Pattern, func(w *model.ContextWindow) { w.Scope1 = true }},
	{"scope_2", scope2Pattern, func(w *model.ContextWindow) { w.Scope2 = true }},
	{"scope_3", scope3Pattern, func(w *model.ContextWindow) { w.Scope3 = true }},
}

// Detector classifies which scopes a window mentions.
type Detector struct{}

// NewDetector creates a scope-mention detector.
func NewDetector() *Detector {
	return &Detector{}
}

// Detect fills the window's scope flags and reports whether the window
// anchors on Scope 1 or 2 language. A lone Scope-3 hit without that anchor
// is boilerplate (definitions, glossary entries) and is rejected.
func (d *Detector) Detect(w *model.ContextWindow) bool {
	for _, rule := range scopeRules {
		if rule.pattern.MatchString(w.Text) {
			rule.set(w)
		}
	}
	return w.Scope1 || w.Scope2
}

// MentionsScope3 reports whether text matches the Scope-3 family. The
// classifier uses this as its gate rule.
func MentionsScope3(text string) bool {
	return scope3Pattern.MatchString(text)
}
