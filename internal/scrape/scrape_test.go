package scrape

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func staticFetch(pages map[string]string) FetchFunc {
	return func(ctx context.Context, rawURL string) ([]byte, error) {
		body, ok := pages[rawURL]
		if !ok {
			return nil, errors.New("not found: " + rawURL)
		}
		return []byte(body), nil
	}
}

const listingHTML = `<html><body>
<ul class="list-unstyled">
<li><a href="/Company/acme-industrial">Acme Industrial Holdings</a></li>
<li><a href="/Company/globex-corp">Globex Corporation</a></li>
<li><a href="/Company/initech-plc">Initech PLC</a></li>
</ul>
<a href="/About">About</a>
</body></html>`

func TestCompanyLinks_ParsesListing(t *testing.T) {
	pages := map[string]string{
		"https://reports.test/Companies": listingHTML,
	}
	s := New("https://reports.test", staticFetch(pages), 2020, 2025)

	companies, err := s.CompanyLinks(context.Background(), 3)
	if err != nil {
		t.Fatalf("CompanyLinks: %v", err)
	}
	if len(companies) != 3 {
		t.Fatalf("expected 3 companies, got %d", len(companies))
	}
	if companies[0].Name != "Acme Industrial Holdings" {
		t.Errorf("unexpected first company: %q", companies[0].Name)
	}
	if companies[0].URL != "https://reports.test/Company/acme-industrial" {
		t.Errorf("relative link not resolved: %q", companies[0].URL)
	}
}

func TestCompanyLinks_FallbackDatabaseFillsShortfall(t *testing.T) {
	pages := map[string]string{
		"https://reports.test/Companies": listingHTML,
	}
	s := New("https://reports.test", staticFetch(pages), 2020, 2025)

	companies, err := s.CompanyLinks(context.Background(), 10)
	if err != nil {
		t.Fatalf("CompanyLinks: %v", err)
	}
	if len(companies) != 10 {
		t.Fatalf("expected 10 companies after fallback, got %d", len(companies))
	}
	// The three live entries come first, database entries follow.
	if companies[3].Name != "Apple Inc." {
		t.Errorf("expected first database entry after live results, got %q", companies[3].Name)
	}
}

func TestCompanyLinks_FetchErrorUsesDatabase(t *testing.T) {
	failing := func(ctx context.Context, rawURL string) ([]byte, error) {
		return nil, errors.New("connection refused")
	}
	s := New("https://reports.test", failing, 2020, 2025)

	companies, err := s.CompanyLinks(context.Background(), 5)
	if err != nil {
		t.Fatalf("CompanyLinks: %v", err)
	}
	if len(companies) != 5 {
		t.Fatalf("expected 5 database companies, got %d", len(companies))
	}
	for _, c := range companies {
		if !strings.HasPrefix(c.URL, "https://reports.test/Company/") {
			t.Errorf("database URL not rooted at base: %q", c.URL)
		}
	}
}

const companyHTML = `<html><body>
<h1>Acme Industrial Holdings plc</h1>
<p>Listed on NASDAQ: ACME</p>
<a href="/files/acme_annual_report_2023.pdf">2023 Annual Report</a>
<a href="/files/acme_annual_report_2022.pdf">2022 Annual Report</a>
<a href="/files/acme_q3_2023.pdf">Q3 2023 Results</a>
<a href="/files/acme_proxy_2023.pdf">2023 Proxy Statement</a>
<a href="/files/acme_annual_report_2019.pdf">2019 Annual Report</a>
<iframe src="/embed/acme_2024.pdf"></iframe>
</body></html>`

func TestDetails_FindsAnnualReports(t *testing.T) {
	pages := map[string]string{
		"https://reports.test/Company/acme-industrial": companyHTML,
	}
	s := New("https://reports.test", staticFetch(pages), 2020, 2025)

	details, err := s.Details(context.Background(), Company{
		Name: "Acme Industrial Holdings",
		URL:  "https://reports.test/Company/acme-industrial",
	})
	if err != nil {
		t.Fatalf("Details: %v", err)
	}
	if details.Name != "Acme Industrial Holdings plc" {
		t.Errorf("expected h1 name, got %q", details.Name)
	}
	if details.Exchange != "NASDAQ" {
		t.Errorf("expected NASDAQ, got %q", details.Exchange)
	}

	years := make(map[int]bool)
	for _, r := range details.Reports {
		years[r.Year] = true
		if strings.Contains(r.URL, "q3") || strings.Contains(r.URL, "proxy") {
			t.Errorf("quarterly or proxy link kept: %q", r.URL)
		}
	}
	// 2023 and 2022 from anchors, 2024 from the iframe; 2019 is out of
	// range.
	for _, want := range []int{2022, 2023, 2024} {
		if !years[want] {
			t.Errorf("missing report year %d (got %v)", want, details.Reports)
		}
	}
	if years[2019] {
		t.Error("out-of-range year 2019 kept")
	}
}

func TestDetails_NoReportsIsError(t *testing.T) {
	pages := map[string]string{
		"https://reports.test/Company/empty": "<html><h1>Empty Co</h1></html>",
	}
	s := New("https://reports.test", staticFetch(pages), 2020, 2025)

	_, err := s.Details(context.Background(), Company{Name: "Empty Co", URL: "https://reports.test/Company/empty"})
	if err == nil {
		t.Fatal("expected error for page without report PDFs")
	}
}

func TestDetectExchange(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"Shares trade on NYSE: ABC", "NYSE"},
		{"listed on the New York Stock Exchange", "NYSE"},
		{"NASDAQ: ACME common stock", "NASDAQ"},
		{"Quoted on LSE: ACM", "LSE"},
		{"traded on the London Stock Exchange", "LSE"},
		{"ASX: ACM ordinary shares", "ASX"},
		{"an Australian listed entity", "ASX"},
		{"TSX: ACM", "TSX"},
		{"Toronto listed issuer", "TSX"},
		{"no exchange mentioned anywhere", "NYSE"},
	}
	for _, tt := range tests {
		if got := DetectExchange(tt.text); got != tt.want {
			t.Errorf("DetectExchange(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestIsAnnualReportLink(t *testing.T) {
	tests := []struct {
		text string
		href string
		want bool
	}{
		{"2023 annual report", "/files/ar2023.pdf", true},
		{"financial statements", "/files/fs.pdf", true},
		{"download", "/files/report_2023.pdf", true},
		{"q2 2023 results", "/files/q2.pdf", false},
		{"2023 annual report", "/files/quarterly/ar.pdf", false},
		{"proxy statement", "/files/proxy.pdf", false},
		{"annual report", "/files/page.html", false},
		{"", "/files/mystery.pdf", false},
	}
	for _, tt := range tests {
		if got := isAnnualReportLink(tt.text, tt.href); got != tt.want {
			t.Errorf("isAnnualReportLink(%q, %q) = %v, want %v", tt.text, tt.href, got, tt.want)
		}
	}
}

func TestExtractYear(t *testing.T) {
	s := New("https://reports.test", nil, 2020, 2025)

	if year, ok := s.extractYear("2023 annual report", "/x.pdf"); !ok || year != 2023 {
		t.Errorf("text year: got %d ok=%v", year, ok)
	}
	if year, ok := s.extractYear("annual report", "/files/ar_2021.pdf"); !ok || year != 2021 {
		t.Errorf("href year: got %d ok=%v", year, ok)
	}
	if _, ok := s.extractYear("annual report", "/files/ar.pdf"); ok {
		t.Error("expected no year")
	}
	if _, ok := s.extractYear("1999 report", "/files/ar_1999.pdf"); ok {
		t.Error("years outside the configured range must not match")
	}
	// An out-of-range number earlier in the text must not mask the
	// report year.
	if year, ok := s.extractYear("our 2030 targets, 2023 annual report", "/x.pdf"); !ok || year != 2023 {
		t.Errorf("in-range year after out-of-range number: got %d ok=%v", year, ok)
	}
}

// The year range follows configuration rather than a hard-coded span.
func TestExtractYear_ConfiguredRange(t *testing.T) {
	s := New("https://reports.test", nil, 2024, 2027)

	if year, ok := s.extractYear("2026 annual report", "/x.pdf"); !ok || year != 2026 {
		t.Errorf("expected 2026 within a 2024-2027 range, got %d ok=%v", year, ok)
	}
	if _, ok := s.extractYear("2021 annual report", "/x.pdf"); ok {
		t.Error("2021 must not match a 2024-2027 range")
	}
}

func TestSafeFileName(t *testing.T) {
	if got := SafeFileName("Acme & Partners, Inc."); got != "Acme  Partners Inc" {
		t.Errorf("SafeFileName = %q", got)
	}
	long := strings.Repeat("a", 80)
	if got := SafeFileName(long); len(got) != 50 {
		t.Errorf("expected 50-char cap, got %d", len(got))
	}
}

func TestDownloader(t *testing.T) {
	dir := t.TempDir()
	payload := strings.Repeat("%PDF-1.4 ", 200)
	fetch := staticFetch(map[string]string{
		"https://reports.test/big.pdf":  payload,
		"https://reports.test/tiny.pdf": "%PDF-1.4",
	})
	d := NewDownloader(fetch, dir, 1000)

	path, err := d.Download(context.Background(), "https://reports.test/big.pdf", "Acme Industrial", 2023)
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if filepath.Base(path) != "Acme Industrial_2023.pdf" {
		t.Errorf("unexpected filename: %q", path)
	}
	info, err := os.Stat(path)
	if err != nil || info.Size() != int64(len(payload)) {
		t.Errorf("bad file on disk: %v size=%d", err, info.Size())
	}

	if _, err := d.Download(context.Background(), "https://reports.test/tiny.pdf", "Tiny Co", 2023); err == nil {
		t.Error("expected error for undersized download")
	}

	// A second download of an existing file never hits the network.
	var called bool
	d2 := NewDownloader(func(ctx context.Context, rawURL string) ([]byte, error) {
		called = true
		return []byte(payload), nil
	}, dir, 1000)
	if _, err := d2.Download(context.Background(), "https://reports.test/big.pdf", "Acme Industrial", 2023); err != nil {
		t.Fatalf("re-download: %v", err)
	}
	if called {
		t.Error("existing file should short-circuit the fetch")
	}
}
