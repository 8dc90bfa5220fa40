// internal/navigator/oddsparser.go
package navigator

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"oddscrawler/internal/markets"
	"oddscrawler/internal/utils"
)

// The site occasionally renders an odds value twice in one cell, e.g.
// "1.851.85". Collapse the duplicate.
var doubledOddsPattern = regexp.MustCompile(`(\d+\.\d+)(\d+\.\d+)`)

func cleanOddsCell(raw string) string {
	value := utils.CleanText(raw)
	if match := doubledOddsPattern.FindStringSubmatch(value); match != nil && match[1] == match[2] {
		return match[1]
	}
	return value
}

// ParseMarketOdds parses the bookmaker odds table of the currently open
// market. Each returned row carries one odds value per label. Rows with
// fewer odds cells than labels are dropped, as are rows for other
// bookmakers when targetBookmaker is set.
func ParseMarketOdds(html string, labels []string, targetBookmaker string) ([]markets.BookmakerOdds, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse odds table HTML: %w", err)
	}

	var rows []markets.BookmakerOdds
	doc.Find("div[class*='border-black-borders']").Each(func(_ int, block *goquery.Selection) {
		logo := block.Find(bookmakerLogoSelector).First()
		bookmaker, ok := logo.Attr("title")
		if !ok || bookmaker == "" {
			return
		}
		if targetBookmaker != "" && !strings.EqualFold(bookmaker, targetBookmaker) {
			return
		}

		cells := block.Find(oddsBlockSelector)
		if cells.Length() < len(labels) {
			return
		}

		odds := make([]string, 0, len(labels))
		cells.EachWithBreak(func(i int, cell *goquery.Selection) bool {
			if i >= len(labels) {
				return false
			}
			odds = append(odds, cleanOddsCell(cell.Text()))
			return true
		})

		rows = append(rows, markets.BookmakerOdds{Bookmaker: bookmaker, Odds: odds})
	})

	return rows, nil
}

// passiveRow is one visible sub-market row read without clicking.
type passiveRow struct {
	Name string
	Odds []string
}

// parsePassiveRows reads all sub-market rows currently visible on a
// market tab. Rows without a name or with fewer odds than minOdds are
// skipped.
func parsePassiveRows(html string, minOdds int) ([]passiveRow, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse sub-market HTML: %w", err)
	}

	var rows []passiveRow
	doc.Find("div[class*='border-black-borders']").Each(func(_ int, row *goquery.Selection) {
		name := extractSubMarketName(row)
		if name == "" {
			return
		}

		var odds []string
		row.Find("p[data-testid='odd-container-default']").Each(func(_ int, cell *goquery.Selection) {
			if value := utils.CleanText(cell.Text()); value != "" {
				odds = append(odds, value)
			}
		})
		if len(odds) < minOdds {
			return
		}

		rows = append(rows, passiveRow{Name: name, Odds: odds})
	})

	return rows, nil
}

// extractSubMarketName tries a few markup generations to find the label
// of a sub-market row.
func extractSubMarketName(row *goquery.Selection) string {
	if box := row.Find("div[data-testid*='collapsed-option-box']").First(); box.Length() > 0 {
		if name := firstParagraphText(box); name != "" {
			return name
		}
	}

	if flex := row.Find("div.flex.items-center.justify-start").First(); flex.Length() > 0 {
		if name := firstParagraphText(flex); name != "" {
			return name
		}
	}

	if bold := row.Find("p.font-bold").First(); bold.Length() > 0 {
		return utils.CleanText(bold.Text())
	}
	return ""
}

func firstParagraphText(s *goquery.Selection) string {
	// Prefer the full-width label over the abbreviated mobile one. The
	// class name contains characters cascadia cannot match, so inspect
	// the attribute directly.
	var clean string
	s.Find("p").EachWithBreak(func(_ int, p *goquery.Selection) bool {
		if class, _ := p.Attr("class"); strings.Contains(class, "max-sm:!hidden") {
			clean = utils.CleanText(p.Text())
			return false
		}
		return true
	})
	if clean != "" {
		return clean
	}
	if p := s.Find("p").First(); p.Length() > 0 {
		return utils.CleanText(p.Text())
	}
	return ""
}

// ParseHistoryModal parses the odds movement modal for one outcome. The
// modal shows day-and-month timestamps without a year, so the current
// year from now is assumed.
func ParseHistoryModal(html string, now time.Time) (*markets.HistoryEntry, []markets.HistoryEntry, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse history modal HTML: %w", err)
	}

	timestamps := doc.Find("div.flex.flex-col.gap-1 > div.flex.gap-3 > div.font-normal")
	values := doc.Find("div.flex.flex-col.gap-1 + div.flex.flex-col.gap-1 > div.font-bold")

	count := timestamps.Length()
	if values.Length() < count {
		count = values.Length()
	}

	var movements []markets.HistoryEntry
	for i := 0; i < count; i++ {
		when, err := parseModalTimestamp(timestamps.Eq(i).Text(), now)
		if err != nil {
			continue
		}
		odds, err := strconv.ParseFloat(utils.CleanText(values.Eq(i).Text()), 64)
		if err != nil {
			continue
		}
		movements = append(movements, markets.HistoryEntry{Timestamp: when, Odds: odds})
	}

	var opening *markets.HistoryEntry
	if block := doc.Find("div.mt-2.gap-1").First(); block.Length() > 0 {
		tsDiv := block.Find("div.flex.gap-1 div").First()
		valDiv := block.Find("div.flex.gap-1 .font-bold").First()
		if tsDiv.Length() > 0 && valDiv.Length() > 0 {
			when, tsErr := parseModalTimestamp(tsDiv.Text(), now)
			odds, oddsErr := strconv.ParseFloat(utils.CleanText(valDiv.Text()), 64)
			if tsErr == nil && oddsErr == nil {
				opening = &markets.HistoryEntry{Timestamp: when, Odds: odds}
			}
		}
	}

	return opening, movements, nil
}

func parseModalTimestamp(raw string, now time.Time) (time.Time, error) {
	text := utils.CleanText(raw)
	return time.Parse("2 Jan, 15:04 2006", fmt.Sprintf("%s %d", text, now.Year()))
}
