package scraper

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/kailas-cloud/recommender/internal/domain"
)

// testTypeKeys maps the catalog's single-letter test type keys to names.
var testTypeKeys = map[string]string{
	"A": "Ability & Aptitude",
	"B": "Biodata & Situational Judgement",
	"C": "Competencies",
	"D": "Development & 360",
	"E": "Assessment Exercises",
	"K": "Knowledge & Skills",
	"P": "Personality & Behavior",
	"S": "Simulations",
}

// completionTime matches the detail page line
// "Approximate Completion Time in minutes = 30" (also "= max 30", ": 30").
var completionTime = regexp.MustCompile(`(?i)completion\s+time\s+in\s+minutes\s*[=:]?\s*(?:max\s*)?(\d+)`)

// ParseCatalog extracts catalog records from listing table rows. Rows without
// a product link are skipped; a product listed twice (same URL) is kept once.
//
// The listing itself carries no completion time. Duration is only set when a
// row has a data-duration attribute; otherwise it stays empty until filled
// from the product page by ParseDuration (see Scraper.WithDetails). Records
// with an empty duration never pass a max_duration filter.
func ParseCatalog(html, baseURL string) ([]domain.Assessment, error) {
	base, err := url.Parse(baseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	seen := make(map[string]bool)
	var out []domain.Assessment
	doc.Find("table tr").Each(func(_ int, row *goquery.Selection) {
		a, ok := parseRow(row, base)
		if !ok || seen[a.URL] {
			return
		}
		seen[a.URL] = true
		out = append(out, a)
	})
	return out, nil
}

func parseRow(row *goquery.Selection, base *url.URL) (domain.Assessment, bool) {
	cells := row.Find("td")
	if cells.Length() == 0 {
		return domain.Assessment{}, false
	}

	link := cells.First().Find("a[href]").First()
	href, ok := link.Attr("href")
	name := cleanText(link.Text())
	if !ok || name == "" {
		return domain.Assessment{}, false
	}
	ref, err := url.Parse(href)
	if err != nil {
		return domain.Assessment{}, false
	}
	abs := base.ResolveReference(ref)
	abs.Fragment = ""

	a := domain.Assessment{
		Name:          name,
		URL:           abs.String(),
		RemoteTesting: domain.FlagNo,
		AdaptiveIRT:   domain.FlagNo,
	}

	// Columns: title, remote testing, adaptive/IRT, test type keys.
	if cells.Length() > 1 && hasYesMarker(cells.Eq(1)) {
		a.RemoteTesting = domain.FlagYes
	}
	if cells.Length() > 2 && hasYesMarker(cells.Eq(2)) {
		a.AdaptiveIRT = domain.FlagYes
	}
	if cells.Length() > 3 {
		a.TestType = testTypes(cells.Eq(3))
	}
	if d, ok := row.Attr("data-duration"); ok {
		a.Duration = cleanText(d)
	}
	return a, true
}

// hasYesMarker reports whether a cell carries the catalog's "-yes" circle or a literal yes.
func hasYesMarker(cell *goquery.Selection) bool {
	found := false
	cell.Find("span").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		class, _ := s.Attr("class")
		for _, c := range strings.Fields(class) {
			if c == "-yes" || strings.HasSuffix(c, "--yes") {
				found = true
				return false
			}
		}
		return true
	})
	if found {
		return true
	}
	return strings.EqualFold(cleanText(cell.Text()), "yes")
}

// testTypes expands key letters ("K P") into names joined by ", ".
// Unknown keys are kept verbatim.
func testTypes(cell *goquery.Selection) string {
	var keys []string
	cell.Find("span").Each(func(_ int, s *goquery.Selection) {
		if k := cleanText(s.Text()); k != "" {
			keys = append(keys, k)
		}
	})
	if len(keys) == 0 {
		keys = strings.Fields(cleanText(cell.Text()))
	}

	names := make([]string, 0, len(keys))
	for _, k := range keys {
		if n, ok := testTypeKeys[strings.ToUpper(k)]; ok {
			names = append(names, n)
			continue
		}
		names = append(names, k)
	}
	return strings.Join(names, ", ")
}

// ParseDuration extracts the completion time from a product detail page as
// "<n> minutes". It returns "" when the page states no completion time.
func ParseDuration(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}
	m := completionTime.FindStringSubmatch(cleanText(doc.Find("body").Text()))
	if m == nil {
		return "", nil
	}
	return m[1] + " minutes", nil
}

func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
