// internal/scraper/engine.go

// Package scraper contains the crawl machinery: retry policy, listing
// pagination, match link collection, the concurrent match extraction
// engine, and the orchestrator that drives whole runs.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"oddscrawler/internal/browser"
	"oddscrawler/internal/fingerprint"
	"oddscrawler/internal/markets"
	"oddscrawler/internal/monitoring"
	"oddscrawler/internal/navigator"
	"oddscrawler/internal/utils"
)

// TabOpener hands out browser tabs. *browser.Manager implements it.
type TabOpener interface {
	NewPage(ctx context.Context) (browser.Page, error)
}

// MarketScraper extracts market odds from an open match page.
// *navigator.Extractor implements it.
type MarketScraper interface {
	ScrapeMarkets(ctx context.Context, page browser.Page, sport markets.Sport, keys []string, opts navigator.Options) map[string]navigator.Outcome
}

// Job describes the extraction of one batch of match links.
type Job struct {
	Sport           markets.Sport
	League          string
	Season          string
	MarketKeys      []string
	Period          string
	ScrapeHistory   bool
	TargetBookmaker string
	PreviewOnly     bool
}

// FailureRecord notes one unit of work that failed permanently: a match
// link or a listing URL, with the error that ended it.
type FailureRecord struct {
	ID  string `json:"id"`
	Err string `json:"error"`
}

// ExtractResult is the outcome of one batch extraction.
type ExtractResult struct {
	Records []*MatchRecord
	// Failed lists the links that could not be scraped even with
	// retries.
	Failed []FailureRecord
	// Skipped counts matches dropped because change detection found
	// nothing new.
	Skipped int
}

// Engine extracts match pages concurrently, one browser tab per link,
// bounded by a semaphore.
type Engine struct {
	tabs        TabOpener
	extractor   MarketScraper
	retry       *RetryPolicy
	detector    *fingerprint.Detector
	logger      utils.Logger
	limiter     *rate.Limiter
	metrics     *monitoring.Metrics
	concurrency int
	settle      func(ctx context.Context) error
	now         func() time.Time
}

// EngineConfig wires an Engine.
type EngineConfig struct {
	Tabs        TabOpener
	Extractor   MarketScraper
	Retry       *RetryPolicy
	Detector    *fingerprint.Detector
	Logger      utils.Logger
	// Limiter throttles page navigations across all tabs. Nil means no
	// throttling.
	Limiter     *rate.Limiter
	Metrics     *monitoring.Metrics
	Concurrency int
	// SettleMinMS and SettleMaxMS bound the random pause after
	// navigating to a match page.
	SettleMinMS int
	SettleMaxMS int
}

// NewEngine builds an extraction engine.
func NewEngine(cfg EngineConfig) *Engine {
	concurrency := cfg.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}
	return &Engine{
		tabs:        cfg.Tabs,
		extractor:   cfg.Extractor,
		retry:       cfg.Retry,
		detector:    cfg.Detector,
		logger:      cfg.Logger,
		limiter:     cfg.Limiter,
		metrics:     cfg.Metrics,
		concurrency: concurrency,
		settle: func(ctx context.Context) error {
			return browser.Settle(ctx, cfg.SettleMinMS, cfg.SettleMaxMS)
		},
		now: time.Now,
	}
}

// ExtractMatches scrapes every link concurrently. A failing link is
// recorded and never stops its siblings.
func (e *Engine) ExtractMatches(ctx context.Context, links []string, job Job) *ExtractResult {
	e.logger.Infof("extracting %d match links with concurrency %d", len(links), e.concurrency)

	semaphore := make(chan struct{}, e.concurrency)
	var wg sync.WaitGroup

	var mu sync.Mutex
	result := &ExtractResult{}

	for _, link := range links {
		wg.Add(1)
		go func(link string) {
			defer wg.Done()

			select {
			case semaphore <- struct{}{}:
			case <-ctx.Done():
				mu.Lock()
				result.Failed = append(result.Failed, FailureRecord{ID: link, Err: ctx.Err().Error()})
				mu.Unlock()
				return
			}
			defer func() { <-semaphore }()

			record, err := e.scrapeOne(ctx, link, job)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				e.logger.Errorf("failed to scrape %s: %v", link, err)
				result.Failed = append(result.Failed, FailureRecord{ID: link, Err: err.Error()})
				return
			}
			if record == nil {
				result.Skipped++
				return
			}
			result.Records = append(result.Records, record)
		}(link)
	}

	wg.Wait()
	e.logger.Infof("extracted %d matches (%d skipped, %d failed)",
		len(result.Records), result.Skipped, len(result.Failed))
	return result
}

// scrapeOne opens a tab for one match link, reads the event header and
// the requested markets, and applies change detection. It returns
// (nil, nil) when change detection decides the match is unchanged.
func (e *Engine) scrapeOne(ctx context.Context, link string, job Job) (*MatchRecord, error) {
	page, err := e.tabs.NewPage(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open tab: %w", err)
	}
	e.metrics.TabOpened()
	defer func() {
		page.Close()
		e.metrics.TabClosed()
	}()

	err = e.retry.Do(ctx, fmt.Sprintf("navigate to %s", link), func(ctx context.Context) error {
		if e.limiter != nil {
			if err := e.limiter.Wait(ctx); err != nil {
				return err
			}
		}
		return page.Navigate(ctx, link)
	})
	if err != nil {
		return nil, err
	}
	if err := e.settle(ctx); err != nil {
		return nil, err
	}

	html, err := page.HTML(ctx)
	if err != nil {
		return nil, err
	}

	record := &MatchRecord{
		URL:       link,
		Sport:     string(job.Sport),
		League:    job.League,
		Season:    job.Season,
		ScrapedAt: e.now().UTC(),
	}
	if err := ParseEventHeader(html, record); err != nil {
		// A page without an event header is usually a removed match,
		// not a crawl failure.
		if errors.Is(err, ErrNoMatchDetails) {
			e.logger.Warnf("skipping %s: %v", link, err)
			return nil, nil
		}
		return nil, err
	}

	// An empty market key list is not "no markets": the extractor
	// resolves it to every market registered for the sport.
	outcomes := e.extractor.ScrapeMarkets(ctx, page, job.Sport, job.MarketKeys, navigator.Options{
		Period:          job.Period,
		ScrapeHistory:   job.ScrapeHistory,
		TargetBookmaker: job.TargetBookmaker,
		PreviewOnly:     job.PreviewOnly,
	})

	record.Markets = make(map[string]markets.MarketResult)
	record.MarketStatus = make(map[string]string, len(outcomes))
	for key, outcome := range outcomes {
		record.MarketStatus[key] = outcome.Status.String()
		switch outcome.Status {
		case navigator.StatusFound:
			record.Markets[key] = *outcome.Result
		case navigator.StatusError:
			e.logger.Warnf("market %s failed for %s: %v", key, link, outcome.Err)
		}
	}

	if e.detector != nil {
		decision, err := e.detector.Evaluate(ctx, record.URL, record.Fingerprints(), record.FlattenedOdds())
		if err != nil {
			e.logger.Warnf("change detection failed for %s, keeping match: %v", link, err)
		} else {
			if !decision.Changed() {
				e.logger.Debugf("skipping unchanged match %s (%s, similarity %.3f)",
					link, decision.Change, decision.Similarity)
				return nil, nil
			}
			record.ChangeType = decision.Change.String()
			record.PersistHistory = decision.ShouldPersistHistory()
		}
	}

	return record, nil
}
