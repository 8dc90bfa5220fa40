// internal/navigator/extractor.go
package navigator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"oddscrawler/internal/browser"
	"oddscrawler/internal/markets"
	"oddscrawler/internal/utils"
)

// Options controls one market extraction pass over a match page.
type Options struct {
	// Period is recorded with extracted odds, e.g. "FullTime".
	Period string
	// ScrapeHistory attaches odds movement history to every extracted
	// bookmaker row.
	ScrapeHistory bool
	// TargetBookmaker restricts extraction to one bookmaker when set.
	TargetBookmaker string
	// PreviewOnly reads visible sub-market rows without clicking,
	// falling back to interactive extraction when nothing is visible.
	PreviewOnly bool
}

// Extractor extracts the requested markets from match pages.
type Extractor struct {
	registry *markets.Registry
	logger   utils.Logger
	timing   Timing
	now      func() time.Time
}

// NewExtractor builds an extractor over the given market registry.
func NewExtractor(registry *markets.Registry, logger utils.Logger) *Extractor {
	return &Extractor{
		registry: registry,
		logger:   logger,
		timing:   DefaultTiming(),
		now:      time.Now,
	}
}

// NewExtractorWithTiming builds an extractor with explicit navigator
// waits.
func NewExtractorWithTiming(registry *markets.Registry, logger utils.Logger, timing Timing) *Extractor {
	e := NewExtractor(registry, logger)
	e.timing = timing
	return e
}

// ScrapeMarkets extracts every requested market key from the match page
// and returns one Outcome per key. An empty key list means every market
// registered for the sport. A failure in one market never prevents the
// others from being attempted. Unregistered keys report NotFound.
func (e *Extractor) ScrapeMarkets(ctx context.Context, page browser.Page, sport markets.Sport, keys []string, opts Options) map[string]Outcome {
	if opts.Period == "" {
		opts.Period = "FullTime"
	}
	if len(keys) == 0 {
		keys = e.registry.Keys(sport)
	}

	nav := NewNavigatorWithTiming(page, e.logger, e.timing)
	outcomes := make(map[string]Outcome, len(keys))

	if opts.PreviewOnly {
		e.scrapeGrouped(ctx, nav, page, sport, keys, opts, outcomes)
		return outcomes
	}

	for _, key := range keys {
		strategy, ok := e.registry.Lookup(sport, key)
		if !ok {
			e.logger.Warnf("market %q is not supported for sport %q", key, sport)
			outcomes[key] = NotFound()
			continue
		}
		outcomes[key] = e.extractOne(ctx, nav, page, strategy, opts)
	}
	return outcomes
}

// scrapeGrouped opens each main market tab once and serves every
// requested sub-market of that tab from the same passive read.
func (e *Extractor) scrapeGrouped(ctx context.Context, nav *Navigator, page browser.Page, sport markets.Sport, keys []string, opts Options, outcomes map[string]Outcome) {
	groups := make(map[string][]markets.MarketStrategy)
	var order []string
	for _, key := range keys {
		strategy, ok := e.registry.Lookup(sport, key)
		if !ok {
			e.logger.Warnf("market %q is not supported for sport %q", key, sport)
			outcomes[key] = NotFound()
			continue
		}
		if _, seen := groups[strategy.MainMarket]; !seen {
			order = append(order, strategy.MainMarket)
		}
		groups[strategy.MainMarket] = append(groups[strategy.MainMarket], strategy)
	}

	for _, mainMarket := range order {
		strategies := groups[mainMarket]

		rows, err := e.openAndReadPassive(ctx, nav, page, mainMarket, len(strategies[0].OddsLabels))
		if err != nil {
			e.logger.Errorf("passive extraction failed for %q: %v", mainMarket, err)
			for _, strategy := range strategies {
				outcomes[strategy.Key] = Errored(err)
			}
			continue
		}

		for _, strategy := range strategies {
			if len(rows) == 0 {
				// Nothing visible without clicking; extract this market
				// the interactive way.
				outcomes[strategy.Key] = e.extractOne(ctx, nav, page, strategy, opts)
				continue
			}
			outcomes[strategy.Key] = resultFromPassiveRows(strategy, rows)
		}
	}
}

func (e *Extractor) openAndReadPassive(ctx context.Context, nav *Navigator, page browser.Page, mainMarket string, minOdds int) ([]passiveRow, error) {
	found, err := nav.OpenMarketTab(ctx, mainMarket)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	nav.WaitForMarketSwitch(ctx, mainMarket)

	html, err := page.HTML(ctx)
	if err != nil {
		return nil, err
	}
	if minOdds < 1 {
		minOdds = 1
	}
	return parsePassiveRows(html, minOdds)
}

// resultFromPassiveRows narrows a passive read of a whole tab down to
// the rows the strategy asks for. Without a sub-market the whole tab is
// the market.
func resultFromPassiveRows(strategy markets.MarketStrategy, rows []passiveRow) Outcome {
	result := &markets.MarketResult{
		MarketKey: strategy.Key,
		Labels:    strategy.OddsLabels,
	}

	for _, row := range rows {
		if strategy.SpecificMarket != "" &&
			!strings.Contains(strings.ToLower(row.Name), strings.ToLower(strategy.SpecificMarket)) {
			continue
		}
		result.Rows = append(result.Rows, markets.BookmakerOdds{
			Bookmaker: row.Name,
			Odds:      row.Odds,
		})
	}

	if len(result.Rows) == 0 {
		return NotFound()
	}
	result.Flatten()
	return Found(result)
}

// extractOne performs the interactive extraction of a single market:
// open the tab, expand the sub-market if the strategy names one, parse
// the odds table, optionally attach history, and collapse the
// sub-market again.
func (e *Extractor) extractOne(ctx context.Context, nav *Navigator, page browser.Page, strategy markets.MarketStrategy, opts Options) Outcome {
	found, err := nav.OpenMarketTab(ctx, strategy.MainMarket)
	if err != nil {
		return Errored(fmt.Errorf("opening %q tab: %w", strategy.MainMarket, err))
	}
	if !found {
		e.logger.Infof("market tab %q not offered", strategy.MainMarket)
		return NotFound()
	}
	nav.WaitForMarketSwitch(ctx, strategy.MainMarket)

	if strategy.SpecificMarket != "" {
		opened, err := nav.OpenSubMarket(ctx, strategy.SpecificMarket)
		if err != nil {
			return Errored(fmt.Errorf("opening sub-market %q: %w", strategy.SpecificMarket, err))
		}
		if !opened {
			e.logger.Infof("sub-market %q not offered within %q", strategy.SpecificMarket, strategy.MainMarket)
			return NotFound()
		}
		// The panel must be collapsed again before the next market is
		// read from this tab, even when extraction fails midway.
		defer func() {
			if _, err := nav.CloseSubMarket(ctx, strategy.SpecificMarket); err != nil {
				e.logger.Warnf("failed to collapse sub-market %q: %v", strategy.SpecificMarket, err)
			}
		}()
	}

	if err := e.pause(ctx); err != nil {
		return Errored(err)
	}

	html, err := page.HTML(ctx)
	if err != nil {
		return Errored(err)
	}

	rows, err := ParseMarketOdds(html, strategy.OddsLabels, opts.TargetBookmaker)
	if err != nil {
		return Errored(err)
	}

	result := &markets.MarketResult{
		MarketKey: strategy.Key,
		Labels:    strategy.OddsLabels,
		Rows:      rows,
	}
	result.Flatten()

	if opts.ScrapeHistory {
		result.History = e.collectHistory(ctx, nav, rows, strategy.OddsLabels, opts.TargetBookmaker)
	}

	if len(result.Rows) == 0 {
		return NotFound()
	}
	return Found(result)
}

// collectHistory captures the odds movement modal for every bookmaker
// row and outcome column. Failures degrade to missing history rather
// than failing the market.
func (e *Extractor) collectHistory(ctx context.Context, nav *Navigator, rows []markets.BookmakerOdds, labels []string, targetBookmaker string) []markets.BookmakerHistory {
	var histories []markets.BookmakerHistory
	for _, row := range rows {
		if targetBookmaker != "" && !strings.EqualFold(row.Bookmaker, targetBookmaker) {
			continue
		}

		modals, err := nav.CollectHistoryModals(ctx, row.Bookmaker)
		if err != nil {
			e.logger.Warnf("history collection failed for %s: %v", row.Bookmaker, err)
			continue
		}

		for i, modal := range modals {
			opening, movements, err := ParseHistoryModal(modal, e.now())
			if err != nil {
				e.logger.Warnf("history modal parse failed for %s: %v", row.Bookmaker, err)
				continue
			}
			outcome := ""
			if i < len(labels) {
				outcome = labels[i]
			}
			histories = append(histories, markets.BookmakerHistory{
				Bookmaker: row.Bookmaker,
				Outcome:   outcome,
				Opening:   opening,
				Movements: movements,
			})
		}
	}
	return histories
}

func (e *Extractor) pause(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(e.timing.PageLoadWait):
		return nil
	}
}
