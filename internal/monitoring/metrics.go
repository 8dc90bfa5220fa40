// internal/monitoring/metrics.go

// Package monitoring exposes crawl metrics and a health endpoint over
// HTTP.
package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the crawl counters. A nil *Metrics is valid and all
// its methods are no-ops, so callers never need to guard.
type Metrics struct {
	matchesScraped *prometheus.CounterVec
	matchesSkipped prometheus.Counter
	linksFailed    prometheus.Counter
	targetsFailed  prometheus.Counter
	pagesVisited   prometheus.Counter
	tabsOpen       prometheus.Gauge
	scrapeDuration prometheus.Histogram
	registry       *prometheus.Registry
}

// NewMetrics registers the crawl metrics on a fresh registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		matchesScraped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "oddscrawler_matches_scraped_total",
			Help: "Matches successfully scraped, by change type.",
		}, []string{"change"}),
		matchesSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "oddscrawler_matches_skipped_total",
			Help: "Matches skipped because change detection found nothing new.",
		}),
		linksFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "oddscrawler_links_failed_total",
			Help: "Match links that failed even with retries.",
		}),
		targetsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "oddscrawler_targets_failed_total",
			Help: "Crawl targets that failed entirely.",
		}),
		pagesVisited: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "oddscrawler_listing_pages_visited_total",
			Help: "Listing pages visited.",
		}),
		tabsOpen: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "oddscrawler_tabs_open",
			Help: "Browser tabs currently open for match extraction.",
		}),
		scrapeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "oddscrawler_listing_scrape_duration_seconds",
			Help:    "Time spent crawling one listing including its matches.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		}),
		registry: registry,
	}

	registry.MustRegister(
		m.matchesScraped,
		m.matchesSkipped,
		m.linksFailed,
		m.targetsFailed,
		m.pagesVisited,
		m.tabsOpen,
		m.scrapeDuration,
	)
	return m
}

// Registry returns the prometheus registry backing these metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// MatchScraped counts one scraped match with its change classification.
func (m *Metrics) MatchScraped(change string) {
	if m == nil {
		return
	}
	m.matchesScraped.WithLabelValues(change).Inc()
}

// MatchesSkipped counts matches dropped as unchanged.
func (m *Metrics) MatchesSkipped(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.matchesSkipped.Add(float64(n))
}

// LinksFailed counts match links that failed permanently.
func (m *Metrics) LinksFailed(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.linksFailed.Add(float64(n))
}

// TargetFailed counts one crawl target that failed entirely.
func (m *Metrics) TargetFailed() {
	if m == nil {
		return
	}
	m.targetsFailed.Inc()
}

// PageVisited counts one listing page visit.
func (m *Metrics) PageVisited() {
	if m == nil {
		return
	}
	m.pagesVisited.Inc()
}

// TabOpened tracks one more open extraction tab.
func (m *Metrics) TabOpened() {
	if m == nil {
		return
	}
	m.tabsOpen.Inc()
}

// TabClosed tracks one extraction tab released.
func (m *Metrics) TabClosed() {
	if m == nil {
		return
	}
	m.tabsOpen.Dec()
}

// ListingDuration records how long one listing crawl took, in seconds.
func (m *Metrics) ListingDuration(seconds float64) {
	if m == nil {
		return
	}
	m.scrapeDuration.Observe(seconds)
}
