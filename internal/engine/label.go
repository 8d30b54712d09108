package engine

import "regexp"

// labelPattern is one named rule in a pattern family. Families are ordered
// slices so the rule set stays declarative and individually testable.
type labelPattern struct {
	name    string
	pattern *regexp.Regexp
}

// reportingPatterns indicate an emissions figure or statement presented as
// already measured or disclosed. Hand-tuned against a sample of annual
// reports; treat wording as configuration, not domain truth.
var reportingPatterns = []labelPattern{
	{"report-verb", regexp.MustCompile(`(?i)report(?:ed|s|ing)?\s+(?:our\s+)?scope\s*3`)},
	{"emissions-stated", regexp.MustCompile(`(?i)scope\s*3\s+emissions?\s+(?:are|were|totaled?|amount(?:ed)?)`)},
	{"emissions-figure", regexp.MustCompile(`(?i)scope\s*3\s+emissions?\s+(?:of|:)?\s*[0-9]`)},
	{"measure-verb", regexp.MustCompile(`(?i)(?:measured|calculated|disclosed?|assess(?:ed)?|monitor(?:ed)?)\s+(?:our\s+)?scope\s*3`)},
	{"combined-scopes", regexp.MustCompile(`(?i)scope\s*[1i],?\s*[2i],?\s*(?:and|&)\s*[3i]`)},
	{"combined-emissions", regexp.MustCompile(`(?i)scope\s*[1i],?\s*[2i]\s*(?:and|&)\s*[3i]\s+emissions?`)},
	{"all-three", regexp.MustCompile(`(?i)all\s+three\s+scopes?`)},
	{"scope-range", regexp.MustCompile(`(?i)scopes?\s*[1i][-,][3i]`)},
	{"mass-after", regexp.MustCompile(`(?i)scope\s*3.*\d+[,\d]*\s*(?:tonnes?|tco2e?|mtco2e?|kt|mt)`)},
	{"mass-before", regexp.MustCompile(`(?i)\d+[,\d]*\s*(?:tonnes?|tco2e?|mtco2e?|kt|mt).*scope\s*3`)},
	{"carbon", regexp.MustCompile(`(?i)scope\s*3.*carbon`)},
	{"total-emissions", regexp.MustCompile(`(?i)total.*scope\s*3.*emissions?.*\d+`)},
	{"total-figure", regexp.MustCompile(`(?i)scope\s*3.*total.*\d+`)},
	{"footprint", regexp.MustCompile(`(?i)scope\s*3.*footprint`)},
	{"inventory", regexp.MustCompile(`(?i)scope\s*3.*inventory`)},
	{"data", regexp.MustCompile(`(?i)scope\s*3.*(?:emissions?\s+)?data`)},
	{"metrics", regexp.MustCompile(`(?i)scope\s*3.*metrics?`)},
	{"performance", regexp.MustCompile(`(?i)scope\s*3.*performance`)},
	{"results", regexp.MustCompile(`(?i)scope\s*3.*results?`)},
	{"category", regexp.MustCompile(`(?i)scope\s*3\s+category`)},
	{"table", regexp.MustCompile(`(?i)scope\s*3\s+emissions?\s+table`)},
	{"ghg-before", regexp.MustCompile(`(?i)ghg.*scope\s*3`)},
	{"ghg-after", regexp.MustCompile(`(?i)scope\s*3.*ghg`)},
}

// futurePatterns indicate disclosure as an intention rather than a
// completed report. Any match suppresses a positive label.
var futurePatterns = []labelPattern{
	{"modal-verb", regexp.MustCompile(`(?i)(?:will|plan|intend|aim|target|goal|future|upcoming|next year).*scope\s*3`)},
	{"forward-year", regexp.MustCompile(`(?i)scope\s*3.*(?:in\s+)?(?:202[6-9]|203[0-9])`)},
	{"by-year", regexp.MustCompile(`(?i)scope\s*3.*(?:by|until)\s+202[6-9]`)},
	{"begin-reporting", regexp.MustCompile(`(?i)begin.*report.*scope\s*3`)},
	{"start", regexp.MustCompile(`(?i)start.*scope\s*3`)},
	{"working-toward", regexp.MustCompile(`(?i)working\s+(?:on|toward).*scope\s*3`)},
	{"developing", regexp.MustCompile(`(?i)develop.*scope\s*3`)},
	{"currently-not", regexp.MustCompile(`(?i)currently\s+do\s+not.*scope\s*3`)},
	{"calculating", regexp.MustCompile(`(?i)(?:in\s+the\s+)?process\s+of\s+calculating.*scope\s*3`)},
	{"to-calculate", regexp.MustCompile(`(?i)to\s+calculate.*scope\s*3`)},
	{"not-yet", regexp.MustCompile(`(?i)not\s+yet.*scope\s*3`)},
}

func matchesAny(patterns []labelPattern, text string) bool {
	for _, p := range patterns {
		if p.pattern.MatchString(text) {
			return true
		}
	}
	return false
}

// labelSignals are the classifier inputs derived from one excerpt's text.
type labelSignals struct {
	scope3    bool
	reporting bool
	future    bool
}

// labelRule is one (predicate, verdict) entry in the classifier's priority
// list. Rules are evaluated top to bottom with early exit, which makes the
// "future overrides reporting" precedence an explicit property of the list.
type labelRule struct {
	name    string
	applies func(labelSignals) bool
	verdict int
}

var labelRules = []labelRule{
	{"no-scope-3-mention", func(s labelSignals) bool { return !s.scope3 }, 0},
	{"future-plan", func(s labelSignals) bool { return s.future }, 0},
	{"reporting-evidence", func(s labelSignals) bool { return s.reporting }, 1},
	{"default", func(labelSignals) bool { return true }, 0},
}

// Classifier decides whether a passage reports Scope 3 as an accomplished
// fact. Deterministic, no state.
type Classifier struct{}

// NewClassifier creates a disclosure-intent classifier.
func NewClassifier() *Classifier {
	return &Classifier{}
}

// Label returns 1 only when the text shows reporting evidence for Scope 3
// with no future-plan language. It runs on the full window text so the
// classifier sees more context than the truncated excerpt.
func (c *Classifier) Label(text string) int {
	signals := labelSignals{
		scope3:    MentionsScope3(text),
		reporting: matchesAny(reportingPatterns, text),
		future:    matchesAny(futurePatterns, text),
	}

	for _, rule := range labelRules {
		if rule.applies(signals) {
			return rule.verdict
		}
	}
	return 0
}
