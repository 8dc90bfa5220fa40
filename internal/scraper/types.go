// internal/scraper/types.go
package scraper

import (
	"sort"
	"time"

	"oddscrawler/internal/fingerprint"
	"oddscrawler/internal/markets"
)

// MatchRecord is everything extracted for one match: the event header
// details plus one market result per requested market key.
type MatchRecord struct {
	URL        string    `json:"url"`
	Sport      string    `json:"sport"`
	League     string    `json:"league,omitempty"`
	Season     string    `json:"season,omitempty"`
	ScrapedAt  time.Time `json:"scraped_at"`
	MatchDate  string    `json:"match_date,omitempty"`
	HomeTeam   string    `json:"home_team"`
	AwayTeam   string    `json:"away_team"`
	LeagueName string    `json:"league_name,omitempty"`

	HomeScore      string `json:"home_score,omitempty"`
	AwayScore      string `json:"away_score,omitempty"`
	PartialResults string `json:"partial_results,omitempty"`
	Venue          string `json:"venue,omitempty"`
	VenueTown      string `json:"venue_town,omitempty"`
	VenueCountry   string `json:"venue_country,omitempty"`

	Markets map[string]markets.MarketResult `json:"markets,omitempty"`
	// MarketStatus records per requested market key whether it was
	// found, not offered, or failed.
	MarketStatus map[string]string `json:"market_status,omitempty"`

	ChangeType string `json:"change_type,omitempty"`
	// PersistHistory is set when change detection saw moved odds or new
	// history entries, telling writers the record's history supersedes
	// whatever they hold for this match.
	PersistHistory bool `json:"persist_history,omitempty"`
}

// Identity returns the fields that identify this match for fingerprint
// purposes.
func (r *MatchRecord) Identity() fingerprint.MatchIdentity {
	return fingerprint.MatchIdentity{
		Sport:     r.Sport,
		MatchDate: r.MatchDate,
		HomeTeam:  r.HomeTeam,
		AwayTeam:  r.AwayTeam,
		League:    r.LeagueName,
	}
}

// Fingerprints computes the three-tier fingerprint of this record.
func (r *MatchRecord) Fingerprints() fingerprint.Triple {
	return fingerprint.Compute(r.Identity(), r.Markets)
}

// FlattenedOdds returns every current odds value across all markets in
// sorted market key order, for similarity comparisons between runs.
func (r *MatchRecord) FlattenedOdds() []float64 {
	keys := make([]string, 0, len(r.Markets))
	for key := range r.Markets {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var odds []float64
	for _, key := range keys {
		odds = append(odds, r.Markets[key].CurrentOdds...)
	}
	return odds
}
