package scrape

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ReportLink is one annual report PDF found on a company page.
type ReportLink struct {
	URL  string
	Year int
}

// CompanyDetails is a company page after parsing: the canonical name,
// the listing exchange, and every annual report PDF in the year range.
type CompanyDetails struct {
	Name     string
	Exchange string
	URL      string
	Reports  []ReportLink
}

var pdfHrefPattern = regexp.MustCompile(`(?i)\.pdf$`)

// Link texts that suggest an annual report.
var reportIndicators = []string{"annual", "report", "ar", "10-k", "financial", "statements"}

// Quarterly and proxy filings masquerade as reports; both text and href
// are checked.
var skipKeywords = []string{"q1", "q2", "q3", "q4", "quarter", "quarterly", "proxy", "def_14a", "def-14a"}

// Details fetches and parses one company page. Returns an error when the
// page has no qualifying report PDFs.
func (s *Scraper) Details(ctx context.Context, company Company) (*CompanyDetails, error) {
	body, err := s.fetch(ctx, company.URL)
	if err != nil {
		return nil, fmt.Errorf("fetch company page: %w", err)
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse company page: %w", err)
	}

	// The page heading usually carries a cleaner name than the listing
	// anchor text.
	name := strings.TrimSpace(doc.Find("h1").First().Text())
	if name == "" {
		name = company.Name
	}

	details := &CompanyDetails{
		Name:     name,
		Exchange: DetectExchange(doc.Text()),
		URL:      company.URL,
		Reports:  s.findReports(doc),
	}
	if len(details.Reports) == 0 {
		return nil, fmt.Errorf("no annual report PDFs for %s", name)
	}
	return details, nil
}

func (s *Scraper) findReports(doc *goquery.Document) []ReportLink {
	var reports []ReportLink
	seen := make(map[string]bool)

	doc.Find("a[href]").Each(func(_ int, link *goquery.Selection) {
		href, _ := link.Attr("href")
		if !pdfHrefPattern.MatchString(href) {
			return
		}
		text := strings.ToLower(strings.TrimSpace(link.Text()))
		if !isAnnualReportLink(text, href) {
			return
		}
		year, ok := s.extractYear(text, href)
		if !ok {
			return
		}
		fullURL := s.resolve(href)
		if !seen[fullURL] {
			reports = append(reports, ReportLink{URL: fullURL, Year: year})
			seen[fullURL] = true
		}
	})

	// Some company pages embed the report in an iframe instead of
	// linking it.
	doc.Find("iframe[src]").Each(func(_ int, frame *goquery.Selection) {
		src, _ := frame.Attr("src")
		if !pdfHrefPattern.MatchString(src) {
			return
		}
		year, ok := s.extractYear("", src)
		if !ok {
			return
		}
		fullURL := s.resolve(src)
		if !seen[fullURL] {
			reports = append(reports, ReportLink{URL: fullURL, Year: year})
			seen[fullURL] = true
		}
	})

	return reports
}

// isAnnualReportLink decides whether a PDF link looks like an annual
// report. text must already be lowercased.
func isAnnualReportLink(text, href string) bool {
	hrefLower := strings.ToLower(href)
	if !strings.Contains(hrefLower, ".pdf") {
		return false
	}

	for _, keyword := range skipKeywords {
		if strings.Contains(text, keyword) || strings.Contains(hrefLower, keyword) {
			return false
		}
	}

	for _, indicator := range reportIndicators {
		if strings.Contains(text, indicator) {
			return true
		}
	}
	// A bare PDF link with any anchor text is still worth trying; the
	// year filter prunes most noise.
	return len(text) > 0
}

var yearPattern = regexp.MustCompile(`(20\d{2})`)

// extractYear pulls a publication year in the configured range out of
// the link text, falling back to the URL. A link can carry several
// four-digit numbers ("2030 targets, 2023 annual report"); the first
// in-range one wins.
func (s *Scraper) extractYear(text, href string) (int, bool) {
	for _, source := range []string{text, href} {
		for _, match := range yearPattern.FindAllString(source, -1) {
			year, _ := strconv.Atoi(match)
			if year >= s.minYear && year <= s.maxYear {
				return year, true
			}
		}
	}
	return 0, false
}
