// internal/scraper/orchestrator.go
package scraper

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"oddscrawler/internal/browser"
	"oddscrawler/internal/markets"
	"oddscrawler/internal/monitoring"
	"oddscrawler/internal/sitemap"
	"oddscrawler/internal/utils"
)

// Target names one slice of the site to crawl: a sport, its leagues,
// and either past seasons or upcoming match days.
type Target struct {
	Sport      markets.Sport
	Leagues    []string
	Seasons    []string
	Dates      []string
	MarketKeys []string
}

// Sink receives extracted matches. Output writers implement it.
type Sink interface {
	Write(ctx context.Context, records []*MatchRecord) error
}

// RunStats summarizes a whole crawl run.
type RunStats struct {
	Matches        int
	Skipped        int
	FailedLinks    int
	FailedListings int
	// Failures records every link and listing that failed permanently,
	// with the error that ended it.
	Failures []FailureRecord
}

// Orchestrator expands targets into listing URLs, walks their
// pagination, and feeds the match links to the engine. A failure at any
// level is absorbed there: a bad listing never stops its league, a bad
// league never stops its sport.
type Orchestrator struct {
	tabs       TabOpener
	engine     *Engine
	retry      *RetryPolicy
	sink       Sink
	metrics    *monitoring.Metrics
	logger     utils.Logger
	limiter    *rate.Limiter
	oddsFormat string
	maxPages   int
	scrollWait time.Duration

	scrapeHistory   bool
	targetBookmaker string
	previewOnly     bool
}

// OrchestratorConfig wires an Orchestrator.
type OrchestratorConfig struct {
	Tabs    TabOpener
	Engine  *Engine
	Retry   *RetryPolicy
	Sink    Sink
	Metrics *monitoring.Metrics
	Logger  utils.Logger
	// Limiter throttles listing navigations. Nil means no throttling.
	Limiter *rate.Limiter
	// OddsFormat is selected on every listing page, e.g. "EU Odds".
	OddsFormat string
	// MaxPages truncates each listing's pagination plan when positive.
	MaxPages int
	// ScrollPause is the wait between lazy-load scrolls on listing
	// pages. Zero means two seconds.
	ScrollPause time.Duration

	ScrapeHistory   bool
	TargetBookmaker string
	PreviewOnly     bool
}

// NewOrchestrator builds a run orchestrator.
func NewOrchestrator(cfg OrchestratorConfig) *Orchestrator {
	scrollPause := cfg.ScrollPause
	if scrollPause <= 0 {
		scrollPause = 2 * time.Second
	}
	return &Orchestrator{
		tabs:            cfg.Tabs,
		engine:          cfg.Engine,
		retry:           cfg.Retry,
		sink:            cfg.Sink,
		metrics:         cfg.Metrics,
		logger:          cfg.Logger,
		limiter:         cfg.Limiter,
		oddsFormat:      cfg.OddsFormat,
		maxPages:        cfg.MaxPages,
		scrollWait:      scrollPause,
		scrapeHistory:   cfg.ScrapeHistory,
		targetBookmaker: cfg.TargetBookmaker,
		previewOnly:     cfg.PreviewOnly,
	}
}

// Run crawls every target and writes extracted matches to the sink.
func (o *Orchestrator) Run(ctx context.Context, targets []Target) (*RunStats, error) {
	stats := &RunStats{}

	for _, target := range targets {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		o.runTarget(ctx, target, stats)
	}

	o.logger.Infof("run complete: %d matches, %d skipped, %d failed links, %d failed listings",
		stats.Matches, stats.Skipped, stats.FailedLinks, stats.FailedListings)
	return stats, nil
}

func (o *Orchestrator) runTarget(ctx context.Context, target Target, stats *RunStats) {
	for _, l := range o.expandTarget(target) {
		if ctx.Err() != nil {
			return
		}

		started := time.Now()
		err := o.crawlListing(ctx, l, stats)
		o.metrics.ListingDuration(time.Since(started).Seconds())
		if err != nil {
			o.logger.Errorf("listing %s failed: %v", l.url, err)
			stats.FailedListings++
			stats.Failures = append(stats.Failures, FailureRecord{ID: l.url, Err: err.Error()})
			o.metrics.TargetFailed()
		}
	}
}

// listing is one concrete listing URL plus the job its matches belong
// to.
type listing struct {
	url string
	job Job
}

// expandTarget resolves a target's leagues, seasons, and dates into
// listing URLs. Invalid combinations are logged and dropped so the rest
// of the target still runs.
func (o *Orchestrator) expandTarget(target Target) []listing {
	job := Job{
		Sport:           target.Sport,
		MarketKeys:      target.MarketKeys,
		ScrapeHistory:   o.scrapeHistory,
		TargetBookmaker: o.targetBookmaker,
		PreviewOnly:     o.previewOnly,
	}

	var listings []listing

	days, err := sitemap.ExpandDates(target.Dates)
	if err != nil {
		o.logger.Errorf("skipping dates for %s: %v", target.Sport, err)
		days = nil
	}
	for _, date := range days {
		url, err := sitemap.UpcomingURL(target.Sport, date)
		if err != nil {
			o.logger.Errorf("skipping date %q for %s: %v", date, target.Sport, err)
			continue
		}
		dayJob := job
		dayJob.Season = date
		listings = append(listings, listing{url: url, job: dayJob})
	}

	leagues := target.Leagues
	if len(leagues) == 0 && len(target.Dates) == 0 {
		// No explicit league list means the whole sport.
		leagues = sitemap.Leagues(target.Sport)
		o.logger.Infof("no leagues configured for %s, crawling all %d known leagues", target.Sport, len(leagues))
	}

	for _, leagueName := range leagues {
		league, err := sitemap.LookupLeague(target.Sport, leagueName)
		if err != nil {
			o.logger.Errorf("skipping league %q: %v", leagueName, err)
			continue
		}

		leagueJob := job
		leagueJob.League = leagueName

		if len(target.Seasons) == 0 && len(target.Dates) == 0 {
			listings = append(listings, listing{
				url: sitemap.CurrentResultsURL(target.Sport, league),
				job: leagueJob,
			})
			continue
		}

		for _, season := range target.Seasons {
			url, err := sitemap.HistoricURL(target.Sport, league, season)
			if err != nil {
				o.logger.Errorf("skipping season %q for %s/%s: %v", season, target.Sport, leagueName, err)
				continue
			}
			seasonJob := leagueJob
			seasonJob.Season = season
			listings = append(listings, listing{url: url, job: seasonJob})
		}
	}

	return listings
}

// crawlListing walks one listing's pagination, collects the match links
// of every page, and hands them to the engine in one batch.
func (o *Orchestrator) crawlListing(ctx context.Context, l listing, stats *RunStats) error {
	page, err := o.tabs.NewPage(ctx)
	if err != nil {
		return fmt.Errorf("failed to open listing tab: %w", err)
	}
	defer page.Close()

	if err := o.navigate(ctx, page, l.url); err != nil {
		return err
	}
	o.preparePage(ctx, page)

	html, err := page.HTML(ctx)
	if err != nil {
		return err
	}
	discovered, err := ExtractPageNumbers(html)
	if err != nil {
		return err
	}
	plan := PlanPages(discovered, o.maxPages)
	o.logger.Infof("listing %s spans %d pages", l.url, len(plan))

	seen := make(map[string]struct{})
	var links []string
	for _, pageNumber := range plan {
		if pageNumber > 1 {
			pageURL := sitemap.PageURL(l.url, pageNumber)
			if err := o.navigate(ctx, page, pageURL); err != nil {
				o.logger.Errorf("skipping page %d of %s: %v", pageNumber, l.url, err)
				continue
			}
			o.preparePage(ctx, page)

			if html, err = page.HTML(ctx); err != nil {
				o.logger.Errorf("skipping page %d of %s: %v", pageNumber, l.url, err)
				continue
			}
		}
		o.metrics.PageVisited()

		pageLinks, err := CollectMatchLinks(html)
		if err != nil {
			o.logger.Errorf("link collection failed on page %d of %s: %v", pageNumber, l.url, err)
			continue
		}
		for _, link := range pageLinks {
			if _, ok := seen[link]; ok {
				continue
			}
			seen[link] = struct{}{}
			links = append(links, link)
		}
	}

	if len(links) == 0 {
		o.logger.Warnf("no match links found under %s", l.url)
		return nil
	}

	result := o.engine.ExtractMatches(ctx, links, l.job)

	stats.Matches += len(result.Records)
	stats.Skipped += result.Skipped
	stats.FailedLinks += len(result.Failed)
	stats.Failures = append(stats.Failures, result.Failed...)
	o.metrics.MatchesSkipped(result.Skipped)
	o.metrics.LinksFailed(len(result.Failed))
	for _, record := range result.Records {
		o.metrics.MatchScraped(record.ChangeType)
	}

	if len(result.Records) > 0 && o.sink != nil {
		if err := o.sink.Write(ctx, result.Records); err != nil {
			return fmt.Errorf("failed to write %d matches: %w", len(result.Records), err)
		}
	}
	return nil
}

// navigate loads a listing URL under the retry policy, honoring the
// shared navigation rate limit.
func (o *Orchestrator) navigate(ctx context.Context, page browser.Page, url string) error {
	return o.retry.Do(ctx, fmt.Sprintf("navigate to %s", url), func(ctx context.Context) error {
		if o.limiter != nil {
			if err := o.limiter.Wait(ctx); err != nil {
				return err
			}
		}
		return page.Navigate(ctx, url)
	})
}

// preparePage gets a freshly loaded listing into a scrapeable state.
// Preparation steps are best effort; the page may still be readable
// when one fails.
func (o *Orchestrator) preparePage(ctx context.Context, page browser.Page) {
	if err := browser.DismissCookieBanner(ctx, page); err != nil {
		o.logger.Debugf("cookie banner handling: %v", err)
	}
	if o.oddsFormat != "" {
		if err := browser.SetOddsFormat(ctx, page, o.oddsFormat); err != nil {
			o.logger.Debugf("odds format selection: %v", err)
		}
	}
	if err := browser.ScrollUntilLoaded(ctx, page, o.scrollWait, 10); err != nil {
		o.logger.Debugf("listing scroll: %v", err)
	}
}
