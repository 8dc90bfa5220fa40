// internal/scraper/pagination.go
package scraper

import (
	"sort"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"oddscrawler/internal/utils"
)

// ExtractPageNumbers reads the numbered pagination links from a listing
// page. The "next" arrow is excluded, it carries no number.
func ExtractPageNumbers(html string) ([]int, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	var pages []int
	doc.Find("a.pagination-link").Each(func(_ int, link *goquery.Selection) {
		if rel, ok := link.Attr("rel"); ok && rel == "next" {
			return
		}
		text := utils.CleanText(link.Text())
		number, err := strconv.Atoi(text)
		if err != nil {
			return
		}
		pages = append(pages, number)
	})
	return pages, nil
}

// PlanPages turns the discovered pagination numbers into the full list
// of pages to visit. The site elides middle pages ([1 2 3 ... 27]), so
// the plan covers the whole range from the smallest to the largest
// number seen. No pagination means the listing is a single page. A
// positive maxPages truncates the plan.
func PlanPages(discovered []int, maxPages int) []int {
	if len(discovered) == 0 {
		return []int{1}
	}

	sorted := make([]int, len(discovered))
	copy(sorted, discovered)
	sort.Ints(sorted)

	lowest := sorted[0]
	highest := sorted[len(sorted)-1]

	plan := make([]int, 0, highest-lowest+1)
	for page := lowest; page <= highest; page++ {
		plan = append(plan, page)
	}

	if maxPages > 0 && len(plan) > maxPages {
		plan = plan[:maxPages]
	}
	return plan
}
