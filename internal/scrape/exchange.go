package scrape

import "regexp"

// Exchange detection runs over the whole company page text. Order
// matters when a page mentions several exchanges; the first rule wins.
var exchangeRules = []struct {
	exchange string
	patterns []*regexp.Regexp
}{
	{"NYSE", []*regexp.Regexp{
		regexp.MustCompile(`(?i)nyse[:\s]`),
		regexp.MustCompile(`(?i)new york stock`),
	}},
	{"NASDAQ", []*regexp.Regexp{
		regexp.MustCompile(`(?i)nasdaq[:\s]`),
		regexp.MustCompile(`(?i)nasd`),
	}},
	{"LSE", []*regexp.Regexp{
		regexp.MustCompile(`(?i)lse[:\s]`),
		regexp.MustCompile(`(?i)london stock`),
	}},
	{"ASX", []*regexp.Regexp{
		regexp.MustCompile(`(?i)asx[:\s]`),
		regexp.MustCompile(`(?i)australian`),
	}},
	{"TSX", []*regexp.Regexp{
		regexp.MustCompile(`(?i)tsx[:\s]`),
		regexp.MustCompile(`(?i)toronto`),
	}},
}

// DetectExchange finds the listing exchange mentioned in page text.
// NYSE is the default when nothing matches.
func DetectExchange(pageText string) string {
	for _, rule := range exchangeRules {
		for _, pattern := range rule.patterns {
			if pattern.MatchString(pageText) {
				return rule.exchange
			}
		}
	}
	return "NYSE"
}
