// internal/markets/types.go
package markets

import "time"

// BookmakerOdds holds one bookmaker's row of a market table, with one
// odds value per outcome label.
type BookmakerOdds struct {
	Bookmaker string   `json:"bookmaker"`
	Odds      []string `json:"odds"`
}

// MarketResult is the extracted odds table for a single market of a
// single match. Rows preserve the table as displayed; CurrentOdds and
// Bookmakers flatten it row-major into parallel slices, repeating the
// bookmaker name once per outcome value.
type MarketResult struct {
	MarketKey   string             `json:"market_key"`
	Labels      []string           `json:"labels,omitempty"`
	Rows        []BookmakerOdds    `json:"rows,omitempty"`
	CurrentOdds []float64          `json:"current_odds"`
	Bookmakers  []string           `json:"bookmakers"`
	History     []BookmakerHistory `json:"odds_history,omitempty"`
}

// Flatten rebuilds CurrentOdds and Bookmakers from Rows. Odds values
// that do not parse as numbers are skipped.
func (m *MarketResult) Flatten() {
	m.CurrentOdds = m.CurrentOdds[:0]
	m.Bookmakers = m.Bookmakers[:0]
	for _, row := range m.Rows {
		for _, raw := range row.Odds {
			value, ok := ParseOddsValue(raw)
			if !ok {
				continue
			}
			m.CurrentOdds = append(m.CurrentOdds, value)
			m.Bookmakers = append(m.Bookmakers, row.Bookmaker)
		}
	}
}

// HistoryEntry is one point of a bookmaker's odds timeline.
type HistoryEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Odds      float64   `json:"odds"`
}

// BookmakerHistory is the odds movement of one bookmaker for one
// outcome, as shown in the odds movement modal.
type BookmakerHistory struct {
	Bookmaker string         `json:"bookmaker"`
	Outcome   string         `json:"outcome"`
	Opening   *HistoryEntry  `json:"opening,omitempty"`
	Movements []HistoryEntry `json:"movements,omitempty"`
}
