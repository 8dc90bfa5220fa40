// internal/scraper/links.go
package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const siteBaseURL = "https://www.oddsportal.com"

// CollectMatchLinks extracts the match page links from a listing page.
// Listing rows carry several links (team pages, league pages); only
// hrefs deep enough to be a match page are kept. Links are returned
// absolute, deduplicated, in document order.
func CollectMatchLinks(html string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var links []string
	doc.Find("div[class^='eventRow'] a[href]").Each(func(_ int, link *goquery.Selection) {
		href, _ := link.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" {
			return
		}

		// Match pages look like /sport/country/league/home-away-id/,
		// anything shallower is navigation.
		if len(strings.Split(strings.Trim(href, "/"), "/")) <= 3 {
			return
		}

		absolute := href
		if strings.HasPrefix(href, "/") {
			absolute = siteBaseURL + href
		}
		if _, ok := seen[absolute]; ok {
			return
		}
		seen[absolute] = struct{}{}
		links = append(links, absolute)
	})
	return links, nil
}
