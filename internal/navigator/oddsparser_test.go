// internal/navigator/oddsparser_test.go
package navigator

import (
	"testing"
	"time"
)

const marketTableHTML = `
<div>
  <div class="border-black-borders flex h-9">
    <img class="bookmaker-logo" title="bet365"/>
    <div class="flex-center flex-col font-bold"><p>1.85</p></div>
    <div class="flex-center flex-col font-bold"><p>3.40</p></div>
    <div class="flex-center flex-col font-bold"><p>4.20</p></div>
  </div>
  <div class="border-black-borders flex h-9">
    <img class="bookmaker-logo" title="Pinnacle"/>
    <div class="flex-center flex-col font-bold"><p>1.901.90</p></div>
    <div class="flex-center flex-col font-bold"><p>3.35</p></div>
    <div class="flex-center flex-col font-bold"><p>4.10</p></div>
  </div>
  <div class="border-black-borders flex h-9">
    <img class="bookmaker-logo" title="Unibet"/>
    <div class="flex-center flex-col font-bold"><p>1.88</p></div>
  </div>
</div>`

func TestParseMarketOdds(t *testing.T) {
	labels := []string{"odds_home", "odds_draw", "odds_away"}

	rows, err := ParseMarketOdds(marketTableHTML, labels, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(rows) != 2 {
		t.Fatalf("expected 2 complete rows, got %d", len(rows))
	}
	if rows[0].Bookmaker != "bet365" {
		t.Errorf("expected bookmaker bet365, got %q", rows[0].Bookmaker)
	}
	if rows[0].Odds[0] != "1.85" || rows[0].Odds[2] != "4.20" {
		t.Errorf("unexpected odds for bet365: %v", rows[0].Odds)
	}
}

func TestParseMarketOddsCollapsesDoubledValues(t *testing.T) {
	rows, err := ParseMarketOdds(marketTableHTML, []string{"odds_home", "odds_draw", "odds_away"}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rows[1].Odds[0] != "1.90" {
		t.Errorf("expected doubled cell to collapse to 1.90, got %q", rows[1].Odds[0])
	}
}

func TestParseMarketOddsTargetBookmaker(t *testing.T) {
	rows, err := ParseMarketOdds(marketTableHTML, []string{"odds_home", "odds_draw", "odds_away"}, "pinnacle")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 || rows[0].Bookmaker != "Pinnacle" {
		t.Errorf("expected only the Pinnacle row, got %v", rows)
	}
}

func TestParseMarketOddsSkipsIncompleteRows(t *testing.T) {
	rows, err := ParseMarketOdds(marketTableHTML, []string{"odds_home", "odds_draw", "odds_away"}, "unibet")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("row with fewer odds than labels should be dropped, got %v", rows)
	}
}

const passiveHTML = `
<div>
  <div class="border-black-borders">
    <div data-testid="over-under-collapsed-option-box">
      <p class="max-sm:!hidden">Over/Under +2.5</p>
      <p>O/U +2.5</p>
    </div>
    <p data-testid="odd-container-default">1.90</p>
    <p data-testid="odd-container-default">1.95</p>
  </div>
  <div class="border-black-borders">
    <div data-testid="over-under-collapsed-option-box">
      <p>Over/Under +3.5</p>
    </div>
    <p data-testid="odd-container-default">2.60</p>
    <p data-testid="odd-container-default">1.50</p>
  </div>
  <div class="border-black-borders">
    <div data-testid="over-under-collapsed-option-box">
      <p>Over/Under +4.5</p>
    </div>
    <p data-testid="odd-container-default">4.33</p>
  </div>
</div>`

func TestParsePassiveRows(t *testing.T) {
	rows, err := parsePassiveRows(passiveHTML, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(rows) != 2 {
		t.Fatalf("expected 2 rows with enough odds, got %d", len(rows))
	}
	if rows[0].Name != "Over/Under +2.5" {
		t.Errorf("expected the full-width label, got %q", rows[0].Name)
	}
	if rows[0].Odds[0] != "1.90" || rows[0].Odds[1] != "1.95" {
		t.Errorf("unexpected odds: %v", rows[0].Odds)
	}
	if rows[1].Name != "Over/Under +3.5" {
		t.Errorf("expected fallback to first paragraph, got %q", rows[1].Name)
	}
}

const historyModalHTML = `
<div>
  <h3>Odds movement</h3>
  <div class="flex flex-col gap-1">
    <div class="flex gap-3"><div class="font-normal">15 Aug, 18:30</div></div>
    <div class="flex gap-3"><div class="font-normal">14 Aug, 09:10</div></div>
  </div>
  <div class="flex flex-col gap-1">
    <div class="font-bold">1.92</div>
    <div class="font-bold">1.88</div>
  </div>
  <div class="mt-2 gap-1">
    <div class="flex gap-1"><div>10 Aug, 12:00</div><div class="font-bold">1.80</div></div>
  </div>
</div>`

func TestParseHistoryModal(t *testing.T) {
	now := time.Date(2024, 8, 20, 0, 0, 0, 0, time.UTC)

	opening, movements, err := ParseHistoryModal(historyModalHTML, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(movements) != 2 {
		t.Fatalf("expected 2 movements, got %d", len(movements))
	}
	if movements[0].Odds != 1.92 {
		t.Errorf("expected first movement odds 1.92, got %v", movements[0].Odds)
	}
	want := time.Date(2024, 8, 15, 18, 30, 0, 0, time.UTC)
	if !movements[0].Timestamp.Equal(want) {
		t.Errorf("expected timestamp %v, got %v", want, movements[0].Timestamp)
	}

	if opening == nil {
		t.Fatal("expected opening odds to be parsed")
	}
	if opening.Odds != 1.80 {
		t.Errorf("expected opening odds 1.80, got %v", opening.Odds)
	}
	if opening.Timestamp.Day() != 10 {
		t.Errorf("expected opening on the 10th, got %v", opening.Timestamp)
	}
}

func TestParseHistoryModalSkipsBadTimestamps(t *testing.T) {
	html := `
<div>
  <div class="flex flex-col gap-1">
    <div class="flex gap-3"><div class="font-normal">not a date</div></div>
  </div>
  <div class="flex flex-col gap-1">
    <div class="font-bold">1.92</div>
  </div>
</div>`

	_, movements, err := ParseHistoryModal(html, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(movements) != 0 {
		t.Errorf("unparseable timestamps should be skipped, got %v", movements)
	}
}
