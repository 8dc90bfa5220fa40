// internal/navigator/extractor_test.go
package navigator

import (
	"context"
	"errors"
	"testing"

	"oddscrawler/internal/browser"
	"oddscrawler/internal/markets"
)

func testRegistry() *markets.Registry {
	return markets.NewRegistryBuilder().
		Register(markets.Football, markets.MarketStrategy{
			Key:        "1x2",
			MainMarket: "1X2",
			OddsLabels: []string{"odds_home", "odds_draw", "odds_away"},
		}).
		Register(markets.Football, markets.MarketStrategy{
			Key:            "over_under_2_5",
			MainMarket:     "Over/Under",
			SpecificMarket: "Over/Under +2.5",
			OddsLabels:     []string{"odds_over", "odds_under"},
		}).
		Register(markets.Football, markets.MarketStrategy{
			Key:            "over_under_3_5",
			MainMarket:     "Over/Under",
			SpecificMarket: "Over/Under +3.5",
			OddsLabels:     []string{"odds_over", "odds_under"},
		}).
		Build()
}

func TestScrapeMarketsUnsupportedKey(t *testing.T) {
	page := &fakePage{elements: map[string][]browser.Element{}}
	extractor := NewExtractorWithTiming(testRegistry(), testLogger(), fastTiming())

	outcomes := extractor.ScrapeMarkets(context.Background(), page, markets.Football, []string{"correct_score"}, Options{})

	if outcomes["correct_score"].Status != StatusNotFound {
		t.Errorf("expected unsupported market to report not found, got %v", outcomes["correct_score"].Status)
	}
}

func TestScrapeMarketsEmptyKeysCoverAllRegistered(t *testing.T) {
	page := &fakePage{elements: map[string][]browser.Element{}}
	extractor := NewExtractorWithTiming(testRegistry(), testLogger(), fastTiming())

	outcomes := extractor.ScrapeMarkets(context.Background(), page, markets.Football, nil, Options{})

	for _, key := range []string{"1x2", "over_under_2_5", "over_under_3_5"} {
		if _, ok := outcomes[key]; !ok {
			t.Errorf("expected registered market %q to be attempted, got %v", key, outcomes)
		}
	}
}

func TestScrapeMarketsInteractive(t *testing.T) {
	tab := &fakeElement{text: "1X2"}
	page := &fakePage{
		elements: map[string][]browser.Element{
			marketTabSelectors[0]: {tab},
		},
		htmlFn: func() string { return marketTableHTML },
	}
	extractor := NewExtractorWithTiming(testRegistry(), testLogger(), fastTiming())

	outcomes := extractor.ScrapeMarkets(context.Background(), page, markets.Football, []string{"1x2"}, Options{})

	outcome := outcomes["1x2"]
	if outcome.Status != StatusFound {
		t.Fatalf("expected found, got %v (err: %v)", outcome.Status, outcome.Err)
	}
	if tab.clicked != 1 {
		t.Errorf("expected the 1X2 tab to be clicked once, got %d", tab.clicked)
	}
	if len(outcome.Result.Rows) != 2 {
		t.Errorf("expected 2 bookmaker rows, got %d", len(outcome.Result.Rows))
	}
	if len(outcome.Result.CurrentOdds) != 6 {
		t.Errorf("expected 6 flattened odds, got %d", len(outcome.Result.CurrentOdds))
	}
}

func TestScrapeMarketsMissingTab(t *testing.T) {
	page := &fakePage{elements: map[string][]browser.Element{
		marketTabSelectors[0]: {&fakeElement{text: "Home/Away"}},
	}}
	extractor := NewExtractorWithTiming(testRegistry(), testLogger(), fastTiming())

	outcomes := extractor.ScrapeMarkets(context.Background(), page, markets.Football, []string{"1x2"}, Options{})

	if outcomes["1x2"].Status != StatusNotFound {
		t.Errorf("expected missing tab to report not found, got %v", outcomes["1x2"].Status)
	}
}

func TestScrapeMarketsSubMarketCollapsedAfterRead(t *testing.T) {
	tab := &fakeElement{text: "Over/Under"}
	block := &fakeElement{text: "Over/Under +2.5"}
	page := &fakePage{
		elements: map[string][]browser.Element{
			marketTabSelectors[0]: {tab},
			subMarketSelector:     {block},
		},
		htmlFn: func() string { return marketTableHTML },
	}
	extractor := NewExtractorWithTiming(testRegistry(), testLogger(), fastTiming())

	outcomes := extractor.ScrapeMarkets(context.Background(), page, markets.Football, []string{"over_under_2_5"}, Options{})

	if outcomes["over_under_2_5"].Status != StatusFound {
		t.Fatalf("expected found, got %v", outcomes["over_under_2_5"].Status)
	}
}

func TestScrapeMarketsSubMarketCollapsedOnError(t *testing.T) {
	// Reading the page fails after the sub-market opens; the panel must
	// still be collapsed so the next market on this tab reads clean rows.
	toggles := 0
	tab := &fakeElement{text: "Over/Under"}
	block := &fakeElement{text: "Over/Under +2.5", onClickParent: func() { toggles++ }}
	page := &fakePage{
		elements: map[string][]browser.Element{
			marketTabSelectors[0]: {tab},
			subMarketSelector:     {block},
		},
		htmlErr: errors.New("page went away"),
	}
	extractor := NewExtractorWithTiming(testRegistry(), testLogger(), fastTiming())

	outcomes := extractor.ScrapeMarkets(context.Background(), page, markets.Football, []string{"over_under_2_5"}, Options{})

	if outcomes["over_under_2_5"].Status != StatusError {
		t.Fatalf("expected error outcome, got %v", outcomes["over_under_2_5"].Status)
	}
	if toggles != 2 {
		t.Errorf("expected the sub-market to be opened and collapsed again, got %d toggles", toggles)
	}
}

func TestScrapeMarketsIsolation(t *testing.T) {
	// The 1X2 tab exists but Over/Under does not; the failure of one
	// market must not affect the other.
	page := &fakePage{
		elements: map[string][]browser.Element{
			marketTabSelectors[0]: {&fakeElement{text: "1X2"}},
		},
		htmlFn: func() string { return marketTableHTML },
	}
	extractor := NewExtractorWithTiming(testRegistry(), testLogger(), fastTiming())

	outcomes := extractor.ScrapeMarkets(context.Background(), page, markets.Football,
		[]string{"over_under_2_5", "1x2"}, Options{})

	if outcomes["over_under_2_5"].Status != StatusNotFound {
		t.Errorf("expected over_under_2_5 not found, got %v", outcomes["over_under_2_5"].Status)
	}
	if outcomes["1x2"].Status != StatusFound {
		t.Errorf("expected 1x2 found despite sibling failure, got %v", outcomes["1x2"].Status)
	}
}

func TestScrapeMarketsPreviewGrouping(t *testing.T) {
	tab := &fakeElement{text: "Over/Under"}
	page := &fakePage{
		elements: map[string][]browser.Element{
			marketTabSelectors[0]: {tab},
		},
		htmlFn: func() string { return passiveHTML },
	}
	extractor := NewExtractorWithTiming(testRegistry(), testLogger(), fastTiming())

	outcomes := extractor.ScrapeMarkets(context.Background(), page, markets.Football,
		[]string{"over_under_2_5", "over_under_3_5"}, Options{PreviewOnly: true})

	if tab.clicked != 1 {
		t.Errorf("expected the shared tab to be opened once for the group, got %d clicks", tab.clicked)
	}

	for _, key := range []string{"over_under_2_5", "over_under_3_5"} {
		outcome := outcomes[key]
		if outcome.Status != StatusFound {
			t.Fatalf("expected %s found, got %v (err: %v)", key, outcome.Status, outcome.Err)
		}
		if len(outcome.Result.Rows) != 1 {
			t.Errorf("expected %s narrowed to its own row, got %v", key, outcome.Result.Rows)
		}
	}

	if outcomes["over_under_2_5"].Result.Rows[0].Bookmaker != "Over/Under +2.5" {
		t.Errorf("expected row labelled by sub-market, got %q",
			outcomes["over_under_2_5"].Result.Rows[0].Bookmaker)
	}
}

func TestScrapeMarketsHistoryAttached(t *testing.T) {
	tab := &fakeElement{text: "1X2"}
	oddsCell := &fakeElement{}
	row := &fakeElement{children: map[string][]browser.Element{
		bookmakerLogoSelector: {&fakeElement{attrs: map[string]string{"title": "bet365"}}},
		oddsBlockSelector:     {oddsCell},
	}}
	page := &fakePage{
		elements: map[string][]browser.Element{
			marketTabSelectors[0]: {tab},
			bookmakerRowSelector:  {row},
		},
		htmlFn: func() string { return marketTableHTML },
		evalFn: func(script string, out interface{}) error {
			*(out.(*string)) = historyModalHTML
			return nil
		},
	}
	extractor := NewExtractorWithTiming(testRegistry(), testLogger(), fastTiming())

	outcomes := extractor.ScrapeMarkets(context.Background(), page, markets.Football, []string{"1x2"},
		Options{ScrapeHistory: true, TargetBookmaker: "bet365"})

	outcome := outcomes["1x2"]
	if outcome.Status != StatusFound {
		t.Fatalf("expected found, got %v (err: %v)", outcome.Status, outcome.Err)
	}
	if len(outcome.Result.History) != 1 {
		t.Fatalf("expected one history entry, got %d", len(outcome.Result.History))
	}
	history := outcome.Result.History[0]
	if history.Bookmaker != "bet365" || history.Outcome != "odds_home" {
		t.Errorf("unexpected history attribution: %+v", history)
	}
	if history.Opening == nil || len(history.Movements) != 2 {
		t.Errorf("expected opening plus 2 movements, got %+v", history)
	}
}
