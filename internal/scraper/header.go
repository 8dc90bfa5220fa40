// internal/scraper/header.go
package scraper

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"oddscrawler/internal/utils"
)

// eventHeaderPayload mirrors the JSON the site embeds in the
// react-event-header element's data attribute.
type eventHeaderPayload struct {
	EventBody struct {
		StartDate     int64           `json:"startDate"`
		HomeResult    json.RawMessage `json:"homeResult"`
		AwayResult    json.RawMessage `json:"awayResult"`
		PartialResult string          `json:"partialresult"`
		Venue         string          `json:"venue"`
		VenueTown     string          `json:"venueTown"`
		VenueCountry  string          `json:"venueCountry"`
	} `json:"eventBody"`
	EventData struct {
		Home           string `json:"home"`
		Away           string `json:"away"`
		TournamentName string `json:"tournamentName"`
	} `json:"eventData"`
}

// ParseEventHeader reads match details out of the react event header on
// a match page and fills them into record. ErrNoMatchDetails is
// returned when the header is missing or its payload cannot be decoded.
func ParseEventHeader(html string, record *MatchRecord) error {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return fmt.Errorf("failed to parse match page HTML: %w", err)
	}

	header := doc.Find("div#react-event-header").First()
	if header.Length() == 0 {
		return ErrNoMatchDetails
	}
	data, ok := header.Attr("data")
	if !ok || data == "" {
		return fmt.Errorf("%w: event header has no data attribute", ErrNoMatchDetails)
	}

	var payload eventHeaderPayload
	if err := json.Unmarshal([]byte(data), &payload); err != nil {
		return fmt.Errorf("%w: undecodable event header payload: %v", ErrNoMatchDetails, err)
	}

	if payload.EventBody.StartDate > 0 {
		record.MatchDate = time.Unix(payload.EventBody.StartDate, 0).UTC().Format("2006-01-02 15:04:05 MST")
	}
	record.HomeTeam = payload.EventData.Home
	record.AwayTeam = payload.EventData.Away
	record.LeagueName = payload.EventData.TournamentName
	record.HomeScore = rawScore(payload.EventBody.HomeResult)
	record.AwayScore = rawScore(payload.EventBody.AwayResult)
	record.PartialResults = utils.CleanText(payload.EventBody.PartialResult)
	record.Venue = payload.EventBody.Venue
	record.VenueTown = utils.FoldASCII(payload.EventBody.VenueTown)
	record.VenueCountry = payload.EventBody.VenueCountry
	return nil
}

// rawScore renders a result value that the site serves either as a
// string or a number.
func rawScore(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return asString
	}
	return strings.Trim(string(raw), `"`)
}
