// internal/sitemap/leagues.go
package sitemap

import (
	"fmt"
	"sort"

	"oddscrawler/internal/markets"
)

// League names one competition and the country path segment it lives
// under on the site.
type League struct {
	Slug    string
	Country string
}

var leagueCatalog = map[markets.Sport]map[string]League{
	markets.Football: {
		"premier-league": {Slug: "premier-league", Country: "england"},
		"championship":   {Slug: "championship", Country: "england"},
		"la-liga":        {Slug: "laliga", Country: "spain"},
		"serie-a":        {Slug: "serie-a", Country: "italy"},
		"bundesliga":     {Slug: "bundesliga", Country: "germany"},
		"ligue-1":        {Slug: "ligue-1", Country: "france"},
		"eredivisie":     {Slug: "eredivisie", Country: "netherlands"},
		"liga-portugal":  {Slug: "liga-portugal", Country: "portugal"},
		"mls":            {Slug: "mls", Country: "usa"},
		"champions-league": {
			Slug: "champions-league", Country: "europe",
		},
	},
	markets.Tennis: {
		"atp-australian-open": {Slug: "atp-australian-open", Country: "australia"},
		"atp-french-open":     {Slug: "atp-french-open", Country: "france"},
		"atp-wimbledon":       {Slug: "atp-wimbledon", Country: "united-kingdom"},
		"atp-us-open":         {Slug: "atp-us-open", Country: "usa"},
	},
	markets.Basketball: {
		"nba":       {Slug: "nba", Country: "usa"},
		"euroleague": {Slug: "euroleague", Country: "europe"},
	},
	markets.IceHockey: {
		"nhl": {Slug: "nhl", Country: "usa"},
		"khl": {Slug: "khl", Country: "russia"},
	},
	markets.Baseball: {
		"mlb": {Slug: "mlb", Country: "usa"},
	},
	markets.Rugby: {
		"six-nations": {Slug: "six-nations", Country: "europe"},
	},
}

// LookupLeague resolves a configured league name for a sport to its
// site path. Unknown combinations are an error so typos fail up front
// instead of producing 404 crawls.
func LookupLeague(sport markets.Sport, name string) (League, error) {
	leagues, ok := leagueCatalog[sport]
	if !ok {
		return League{}, fmt.Errorf("no leagues registered for sport %s", sport)
	}
	league, ok := leagues[name]
	if !ok {
		return League{}, fmt.Errorf("unknown league %q for sport %s", name, sport)
	}
	return league, nil
}

// Leagues returns the league names registered for a sport, sorted.
func Leagues(sport markets.Sport) []string {
	leagues := leagueCatalog[sport]
	names := make([]string, 0, len(leagues))
	for name := range leagues {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
