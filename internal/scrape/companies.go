// Package scrape discovers companies and annual report PDFs on
// annualreports.com. Discovery is hybrid: live parsing of the company
// listing first, a built-in company database when the site yields too
// little.
package scrape

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// FetchFunc retrieves the body of a URL. The pipeline plugs its polite
// fetcher in here; tests plug in fakes.
type FetchFunc func(ctx context.Context, rawURL string) ([]byte, error)

// Company is a discovered company listing page.
type Company struct {
	Name string
	URL  string
}

// Scraper walks annualreports.com for companies and their report PDFs.
type Scraper struct {
	baseURL string
	fetch   FetchFunc
	minYear int
	maxYear int
}

// New creates a scraper rooted at baseURL accepting reports published
// between minYear and maxYear inclusive.
func New(baseURL string, fetch FetchFunc, minYear, maxYear int) *Scraper {
	return &Scraper{
		baseURL: strings.TrimRight(baseURL, "/"),
		fetch:   fetch,
		minYear: minYear,
		maxYear: maxYear,
	}
}

// Selector strategies for the company listing, tried in order. The site
// has changed markup before; the generic pass below catches layouts none
// of these match.
var companySelectors = []string{
	`a[href*="/Company/"]`,
	`.company-name a`,
	`.list-unstyled a`,
	`table tbody tr td:first-child a`,
}

// CompanyLinks extracts company pages from the listing. When live
// discovery comes up short the built-in database fills the remainder, so
// the result always has min(minCompanies, available) entries.
func (s *Scraper) CompanyLinks(ctx context.Context, minCompanies int) ([]Company, error) {
	listURL := s.baseURL + "/Companies"

	var companies []Company
	seen := make(map[string]bool)

	body, err := s.fetch(ctx, listURL)
	if err == nil {
		doc, parseErr := goquery.NewDocumentFromReader(bytes.NewReader(body))
		if parseErr == nil {
			for _, selector := range companySelectors {
				doc.Find(selector).Each(func(_ int, link *goquery.Selection) {
					href, ok := link.Attr("href")
					if !ok || !strings.Contains(href, "/Company/") {
						return
					}
					fullURL := s.resolve(href)
					name := strings.TrimSpace(link.Text())
					if len(name) > 3 && !seen[fullURL] {
						companies = append(companies, Company{Name: name, URL: fullURL})
						seen[fullURL] = true
					}
				})
				if len(companies) >= minCompanies {
					break
				}
			}

			// Generic pass over every anchor for markup none of the
			// selectors matched.
			if len(companies) < 20 {
				doc.Find("a[href]").Each(func(_ int, link *goquery.Selection) {
					href, _ := link.Attr("href")
					if !strings.Contains(href, "/Company/") || len(href) <= 10 {
						return
					}
					fullURL := s.resolve(href)
					name := strings.TrimSpace(link.Text())
					if name == "" {
						name = "Unknown Company"
					}
					if len(name) > 3 && !seen[fullURL] {
						companies = append(companies, Company{Name: name, URL: fullURL})
						seen[fullURL] = true
					}
				})
			}
		}
	}

	if len(companies) < minCompanies {
		for _, entry := range fallbackCompanies {
			if len(companies) >= minCompanies {
				break
			}
			fullURL := s.baseURL + entry.path
			if !seen[fullURL] {
				companies = append(companies, Company{Name: entry.name, URL: fullURL})
				seen[fullURL] = true
			}
		}
	}

	if len(companies) == 0 {
		return nil, fmt.Errorf("no companies discovered at %s", listURL)
	}
	if len(companies) > minCompanies {
		companies = companies[:minCompanies]
	}
	return companies, nil
}

func (s *Scraper) resolve(href string) string {
	base, err := url.Parse(s.baseURL)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}

// fallbackCompanies seeds discovery when the listing page cannot be
// parsed. Large caps across sectors so the dataset keeps exchange and
// industry variety.
var fallbackCompanies = []struct {
	name string
	path string
}{
	{"Apple Inc.", "/Company/apple-inc"},
	{"Microsoft Corporation", "/Company/microsoft-corp"},
	{"Alphabet Inc.", "/Company/alphabet-inc"},
	{"Amazon.com Inc.", "/Company/amazon-com-inc"},
	{"Meta Platforms Inc.", "/Company/meta-platforms-inc"},
	{"Tesla Inc.", "/Company/tesla-inc"},
	{"NVIDIA Corporation", "/Company/nvidia-corp"},
	{"Intel Corporation", "/Company/intel-corp"},
	{"Adobe Inc.", "/Company/adobe-inc"},
	{"Cisco Systems Inc.", "/Company/cisco-systems-inc"},
	{"Oracle Corporation", "/Company/oracle-corp"},
	{"Salesforce Inc.", "/Company/salesforce-inc"},
	{"Netflix Inc.", "/Company/netflix-inc"},
	{"PayPal Holdings Inc.", "/Company/paypal-holdings-inc"},
	{"Qualcomm Inc.", "/Company/qualcomm-inc"},
	{"JPMorgan Chase & Co.", "/Company/jpmorgan-chase-co"},
	{"Bank of America Corp.", "/Company/bank-of-america-corp"},
	{"Wells Fargo & Company", "/Company/wells-fargo-company"},
	{"Citigroup Inc.", "/Company/citigroup-inc"},
	{"Goldman Sachs Group Inc.", "/Company/goldman-sachs-group-inc"},
	{"Morgan Stanley", "/Company/morgan-stanley"},
	{"American Express Company", "/Company/american-express-company"},
	{"Visa Inc.", "/Company/visa-inc"},
	{"Mastercard Inc.", "/Company/mastercard-inc"},
	{"Exxon Mobil Corporation", "/Company/exxon-mobil-corp"},
	{"Chevron Corporation", "/Company/chevron-corp"},
	{"ConocoPhillips", "/Company/conocophillips"},
	{"NextEra Energy Inc.", "/Company/nextera-energy-inc"},
	{"Duke Energy Corporation", "/Company/duke-energy-corp"},
	{"Johnson & Johnson", "/Company/johnson-johnson"},
	{"UnitedHealth Group Inc.", "/Company/unitedhealth-group-inc"},
	{"Pfizer Inc.", "/Company/pfizer-inc"},
	{"Abbott Laboratories", "/Company/abbott-laboratories"},
	{"Merck & Co. Inc.", "/Company/merck-co-inc"},
	{"AbbVie Inc.", "/Company/abbvie-inc"},
	{"Procter & Gamble Company", "/Company/procter-gamble-company"},
	{"Coca-Cola Company", "/Company/coca-cola-company"},
	{"PepsiCo Inc.", "/Company/pepsico-inc"},
	{"Nike Inc.", "/Company/nike-inc"},
	{"McDonald's Corporation", "/Company/mcdonalds-corp"},
	{"Walmart Inc.", "/Company/walmart-inc"},
	{"Home Depot Inc.", "/Company/home-depot-inc"},
	{"Target Corporation", "/Company/target-corp"},
	{"3M Company", "/Company/3m-company"},
	{"General Electric Company", "/Company/general-electric-company"},
	{"Honeywell International Inc.", "/Company/honeywell-international-inc"},
	{"Caterpillar Inc.", "/Company/caterpillar-inc"},
	{"Boeing Company", "/Company/boeing-company"},
	{"Lockheed Martin Corporation", "/Company/lockheed-martin-corp"},
	{"AT&T Inc.", "/Company/att-inc"},
	{"Verizon Communications Inc.", "/Company/verizon-communications-inc"},
	{"Comcast Corporation", "/Company/comcast-corp"},
	{"Walt Disney Company", "/Company/walt-disney-company"},
	{"IBM Corporation", "/Company/ibm-corp"},
}
