// internal/sitemap/urls.go

// Package sitemap builds the site URLs the crawler visits: historic
// results pages per league and season, upcoming match listings per
// date, and numbered listing pages within either.
package sitemap

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"oddscrawler/internal/markets"
)

const baseURL = "https://www.oddsportal.com"

var (
	singleYearPattern = regexp.MustCompile(`^\d{4}$`)
	seasonPairPattern = regexp.MustCompile(`^(\d{4})-(\d{4})$`)
	datePattern       = regexp.MustCompile(`^\d{8}$`)
	monthPattern      = regexp.MustCompile(`^\d{6}$`)
)

// ValidateSeason checks a season string. Accepted forms are a single
// year ("2023") or two consecutive years ("2023-2024").
func ValidateSeason(season string) error {
	if singleYearPattern.MatchString(season) {
		return nil
	}
	match := seasonPairPattern.FindStringSubmatch(season)
	if match == nil {
		return fmt.Errorf("invalid season format %q: expected YYYY or YYYY-YYYY", season)
	}
	first, _ := strconv.Atoi(match[1])
	second, _ := strconv.Atoi(match[2])
	if second != first+1 {
		return fmt.Errorf("invalid season %q: years must be consecutive", season)
	}
	return nil
}

// HistoricURL builds the results listing URL for a league season.
// Baseball seasons span a single calendar year, so a "YYYY-YYYY" season
// collapses to its first year for that sport.
func HistoricURL(sport markets.Sport, league League, season string) (string, error) {
	if err := ValidateSeason(season); err != nil {
		return "", err
	}

	slug := season
	if sport == markets.Baseball {
		if match := seasonPairPattern.FindStringSubmatch(season); match != nil {
			slug = match[1]
		}
	}

	return fmt.Sprintf("%s/%s/%s/%s-%s/results/", baseURL, sport, league.Country, league.Slug, slug), nil
}

// CurrentResultsURL builds the results listing URL for the league's
// ongoing season, which the site serves without a season suffix.
func CurrentResultsURL(sport markets.Sport, league League) string {
	return fmt.Sprintf("%s/%s/%s/%s/results/", baseURL, sport, league.Country, league.Slug)
}

// UpcomingURL builds the listing URL for matches of one sport on one
// day. The date must be in YYYYMMDD form.
func UpcomingURL(sport markets.Sport, date string) (string, error) {
	if err := ValidateDate(date); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/matches/%s/%s/", baseURL, sport, date), nil
}

// PageURL appends the fragment that selects a numbered listing page.
// Page 1 is the base listing itself.
func PageURL(listingURL string, page int) string {
	if page <= 1 {
		return listingURL
	}
	return fmt.Sprintf("%s#/page/%d/", strings.TrimSuffix(listingURL, "/")+"/", page)
}

// ValidateDate checks a YYYYMMDD date string, including that it names a
// real calendar day.
func ValidateDate(date string) error {
	if !datePattern.MatchString(date) {
		return fmt.Errorf("invalid date %q: expected YYYYMMDD", date)
	}
	if _, err := time.Parse("20060102", date); err != nil {
		return fmt.Errorf("invalid date %q: %v", date, err)
	}
	return nil
}

// ExpandDates resolves a mix of date forms into concrete YYYYMMDD days.
// A YYYYMMDD entry stands for itself; a YYYYMM entry expands to every
// day of that month. Duplicates are dropped, order is preserved.
func ExpandDates(entries []string) ([]string, error) {
	seen := make(map[string]struct{})
	var days []string

	add := func(day string) {
		if _, ok := seen[day]; ok {
			return
		}
		seen[day] = struct{}{}
		days = append(days, day)
	}

	for _, entry := range entries {
		switch {
		case datePattern.MatchString(entry):
			if err := ValidateDate(entry); err != nil {
				return nil, err
			}
			add(entry)
		case monthPattern.MatchString(entry):
			first, err := time.Parse("200601", entry)
			if err != nil {
				return nil, fmt.Errorf("invalid month %q: %v", entry, err)
			}
			for day := first; day.Month() == first.Month(); day = day.AddDate(0, 0, 1) {
				add(day.Format("20060102"))
			}
		default:
			return nil, fmt.Errorf("invalid date %q: expected YYYYMMDD or YYYYMM", entry)
		}
	}
	return days, nil
}
