// internal/markets/catalog.go
package markets

import "strings"

// DefaultRegistry builds the registry of markets the crawler knows how
// to extract for each supported sport.
func DefaultRegistry() *Registry {
	b := NewRegistryBuilder()

	threeWay := MarketStrategy{
		Key:        "1x2",
		MainMarket: "1X2",
		OddsLabels: []string{"odds_home", "odds_draw", "odds_away"},
	}
	twoWay := MarketStrategy{
		Key:        "moneyline",
		MainMarket: "Home/Away",
		OddsLabels: []string{"odds_home", "odds_away"},
	}

	b.Register(Football, threeWay)
	b.Register(Football, MarketStrategy{
		Key:        "double_chance",
		MainMarket: "Double Chance",
		OddsLabels: []string{"odds_1x", "odds_12", "odds_x2"},
	})
	b.Register(Football, MarketStrategy{
		Key:        "btts",
		MainMarket: "Both Teams to Score",
		OddsLabels: []string{"odds_yes", "odds_no"},
	})
	b.Register(Football, MarketStrategy{
		Key:        "draw_no_bet",
		MainMarket: "Draw No Bet",
		OddsLabels: []string{"odds_home", "odds_away"},
	})
	for _, line := range []string{"0.5", "1.5", "2.5", "3.5", "4.5"} {
		b.Register(Football, footballTotals(line))
	}

	b.Register(Tennis, MarketStrategy{
		Key:        "match_winner",
		MainMarket: "Home/Away",
		OddsLabels: []string{"odds_home", "odds_away"},
	})
	for _, line := range []string{"1.5", "2.5"} {
		b.Register(Tennis, MarketStrategy{
			Key:            "over_under_sets_" + strings.ReplaceAll(line, ".", "_"),
			MainMarket:     "Over/Under",
			SpecificMarket: "Over/Under +" + line,
			OddsLabels:     []string{"odds_over", "odds_under"},
		})
	}

	b.Register(Basketball, twoWay)
	b.Register(Basketball, MarketStrategy{
		Key:        "asian_handicap",
		MainMarket: "Asian Handicap",
		OddsLabels: []string{"odds_home", "odds_away"},
	})
	for _, line := range []string{"180.5", "190.5", "200.5", "210.5", "220.5"} {
		b.Register(Basketball, MarketStrategy{
			Key:            "over_under_" + strings.ReplaceAll(line, ".", "_"),
			MainMarket:     "Over/Under",
			SpecificMarket: "Over/Under +" + line,
			OddsLabels:     []string{"odds_over", "odds_under"},
		})
	}

	b.Register(IceHockey, threeWay)
	for _, line := range []string{"4.5", "5.5", "6.5"} {
		b.Register(IceHockey, MarketStrategy{
			Key:            "over_under_" + strings.ReplaceAll(line, ".", "_"),
			MainMarket:     "Over/Under",
			SpecificMarket: "Over/Under +" + line,
			OddsLabels:     []string{"odds_over", "odds_under"},
		})
	}

	b.Register(Baseball, twoWay)
	for _, line := range []string{"7.5", "8.5", "9.5"} {
		b.Register(Baseball, MarketStrategy{
			Key:            "over_under_" + strings.ReplaceAll(line, ".", "_"),
			MainMarket:     "Over/Under",
			SpecificMarket: "Over/Under +" + line,
			OddsLabels:     []string{"odds_over", "odds_under"},
		})
	}

	b.Register(Rugby, threeWay)
	for _, line := range []string{"39.5", "45.5", "49.5"} {
		b.Register(Rugby, MarketStrategy{
			Key:            "over_under_" + strings.ReplaceAll(line, ".", "_"),
			MainMarket:     "Over/Under",
			SpecificMarket: "Over/Under +" + line,
			OddsLabels:     []string{"odds_over", "odds_under"},
		})
	}

	return b.Build()
}

func footballTotals(line string) MarketStrategy {
	return MarketStrategy{
		Key:            "over_under_" + strings.ReplaceAll(line, ".", "_"),
		MainMarket:     "Over/Under",
		SpecificMarket: "Over/Under +" + line,
		OddsLabels:     []string{"odds_over", "odds_under"},
	}
}
