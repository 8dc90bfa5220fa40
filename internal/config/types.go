// internal/config/types.go
package config

import "time"

// Config is the root configuration for a crawl run.
type Config struct {
	Name            string                `yaml:"name"`
	LogLevel        string                `yaml:"log_level,omitempty"`
	Browser         BrowserConfig         `yaml:"browser,omitempty"`
	Scraper         ScraperConfig         `yaml:"scraper,omitempty"`
	ChangeDetection ChangeDetectionConfig `yaml:"change_detection,omitempty"`
	Targets         []TargetConfig        `yaml:"targets"`
	Output          OutputConfig          `yaml:"output"`
	Monitoring      MonitoringConfig      `yaml:"monitoring,omitempty"`
}

// BrowserConfig controls the headless browser runtime.
type BrowserConfig struct {
	Headless         bool          `yaml:"headless"`
	UserAgent        string        `yaml:"user_agent,omitempty"`
	Timeout          time.Duration `yaml:"timeout,omitempty"`
	OddsFormat       string        `yaml:"odds_format,omitempty"`
	DisableImages    bool          `yaml:"disable_images,omitempty"`
	ChromePath       string        `yaml:"chrome_path,omitempty"`
	ProxyURL         string        `yaml:"proxy_url,omitempty"`
	WindowWidth      int           `yaml:"window_width,omitempty"`
	WindowHeight     int           `yaml:"window_height,omitempty"`
	SettleDelayMinMS int           `yaml:"settle_delay_min_ms,omitempty"`
	SettleDelayMaxMS int           `yaml:"settle_delay_max_ms,omitempty"`
}

// ScraperConfig controls extraction concurrency and retries.
type ScraperConfig struct {
	Concurrency     int           `yaml:"concurrency,omitempty"`
	MaxPages        int           `yaml:"max_pages,omitempty"`
	MaxRetries      int           `yaml:"max_retries,omitempty"`
	RetryDelay      time.Duration `yaml:"retry_delay,omitempty"`
	RateLimit       float64       `yaml:"rate_limit,omitempty"`
	ScrapeHistory   bool          `yaml:"scrape_history,omitempty"`
	TargetBookmaker string        `yaml:"target_bookmaker,omitempty"`
	// PreviewOnly reads visible sub-market rows without expanding them,
	// trading depth for far fewer page interactions.
	PreviewOnly bool `yaml:"preview_only,omitempty"`
}

// ChangeDetectionConfig controls incremental re-scraping behavior.
type ChangeDetectionConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Sensitivity string `yaml:"sensitivity,omitempty"`
	StorePath   string `yaml:"store_path,omitempty"`
}

// TargetConfig names one sport/league/period to crawl.
type TargetConfig struct {
	Sport   string   `yaml:"sport"`
	Leagues []string `yaml:"leagues"`
	Seasons []string `yaml:"seasons,omitempty"`
	Dates   []string `yaml:"dates,omitempty"`
	Markets []string `yaml:"markets,omitempty"`
}

// OutputConfig selects where extracted matches are written.
type OutputConfig struct {
	Format   string          `yaml:"format"`
	File     string          `yaml:"file,omitempty"`
	Database *DatabaseConfig `yaml:"database,omitempty"`
}

// DatabaseConfig holds connection settings for database-backed outputs.
type DatabaseConfig struct {
	Driver           string `yaml:"driver"`
	ConnectionString string `yaml:"connection_string"`
	Table            string `yaml:"table,omitempty"`
	Database         string `yaml:"database,omitempty"`
	Collection       string `yaml:"collection,omitempty"`
}

// MonitoringConfig controls the optional health/metrics HTTP endpoint.
type MonitoringConfig struct {
	Enabled bool   `yaml:"enabled"`
	Address string `yaml:"address,omitempty"`
}
