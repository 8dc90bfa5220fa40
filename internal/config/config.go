// internal/config/config.go
package config

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(filename string) (*Config, error) {
	if filename == "" {
		return nil, fmt.Errorf("configuration filename cannot be empty")
	}

	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found: %s", filename)
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file: %v", err)
	}

	return LoadFromBytes(data)
}

// LoadFromBytes loads configuration from YAML bytes
func LoadFromBytes(data []byte) (*Config, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("configuration data cannot be empty")
	}

	expanded := expandEnvironmentVariables(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML configuration: %v", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %v", err)
	}

	return &cfg, nil
}

// LoadFromReader loads configuration from an io.Reader
func LoadFromReader(reader io.Reader) (*Config, error) {
	if reader == nil {
		return nil, fmt.Errorf("reader cannot be nil")
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read from reader: %v", err)
	}

	return LoadFromBytes(data)
}

var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?::-([^}]*))?\}`)

// expandEnvironmentVariables substitutes ${VAR} and ${VAR:-default}
// references with values from the environment.
func expandEnvironmentVariables(data string) string {
	return envVarPattern.ReplaceAllStringFunc(data, func(match string) string {
		groups := envVarPattern.FindStringSubmatch(match)
		if value, ok := os.LookupEnv(groups[1]); ok {
			return value
		}
		return groups[2]
	})
}

func applyDefaults(cfg *Config) {
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.Browser.Timeout == 0 {
		cfg.Browser.Timeout = 30 * time.Second
	}
	if cfg.Browser.OddsFormat == "" {
		cfg.Browser.OddsFormat = "EU Odds"
	}
	if cfg.Browser.WindowWidth == 0 {
		cfg.Browser.WindowWidth = 1920
	}
	if cfg.Browser.WindowHeight == 0 {
		cfg.Browser.WindowHeight = 1080
	}
	if cfg.Browser.SettleDelayMinMS == 0 {
		cfg.Browser.SettleDelayMinMS = 6000
	}
	if cfg.Browser.SettleDelayMaxMS == 0 {
		cfg.Browser.SettleDelayMaxMS = 8000
	}
	if cfg.Scraper.Concurrency == 0 {
		cfg.Scraper.Concurrency = 5
	}
	if cfg.Scraper.MaxRetries == 0 {
		cfg.Scraper.MaxRetries = 3
	}
	if cfg.Scraper.RetryDelay == 0 {
		cfg.Scraper.RetryDelay = 20 * time.Second
	}
	if cfg.Scraper.RateLimit == 0 {
		cfg.Scraper.RateLimit = 2
	}
	if cfg.ChangeDetection.Sensitivity == "" {
		cfg.ChangeDetection.Sensitivity = "normal"
	}
	if cfg.ChangeDetection.Enabled && cfg.ChangeDetection.StorePath == "" {
		cfg.ChangeDetection.StorePath = "fingerprints.db"
	}
	if cfg.Output.Format == "" {
		cfg.Output.Format = "json"
	}
	if cfg.Monitoring.Enabled && cfg.Monitoring.Address == "" {
		cfg.Monitoring.Address = ":9090"
	}
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("name is required")
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log_level: %s", c.LogLevel)
	}

	if c.Scraper.Concurrency < 1 {
		return fmt.Errorf("scraper.concurrency must be at least 1")
	}
	if c.Scraper.MaxPages < 0 {
		return fmt.Errorf("scraper.max_pages cannot be negative")
	}
	if c.Scraper.MaxRetries < 0 {
		return fmt.Errorf("scraper.max_retries cannot be negative")
	}
	if c.Scraper.RateLimit < 0 {
		return fmt.Errorf("scraper.rate_limit cannot be negative")
	}
	if c.Browser.SettleDelayMinMS > c.Browser.SettleDelayMaxMS {
		return fmt.Errorf("browser.settle_delay_min_ms cannot exceed settle_delay_max_ms")
	}

	switch c.ChangeDetection.Sensitivity {
	case "conservative", "normal", "aggressive":
	default:
		return fmt.Errorf("invalid change_detection.sensitivity: %s", c.ChangeDetection.Sensitivity)
	}

	if len(c.Targets) == 0 {
		return fmt.Errorf("at least one target is required")
	}
	for i, target := range c.Targets {
		if target.Sport == "" {
			return fmt.Errorf("target %d: sport is required", i)
		}
		if len(target.Seasons) > 0 && len(target.Dates) > 0 {
			return fmt.Errorf("target %d: seasons and dates are mutually exclusive", i)
		}
	}

	switch c.Output.Format {
	case "json", "csv":
		if c.Output.File == "" {
			return fmt.Errorf("output.file is required for %s format", c.Output.Format)
		}
	case "postgresql", "mysql":
		if c.Output.Database == nil || c.Output.Database.ConnectionString == "" {
			return fmt.Errorf("output.database.connection_string is required for %s format", c.Output.Format)
		}
	case "mongodb":
		if c.Output.Database == nil || c.Output.Database.ConnectionString == "" {
			return fmt.Errorf("output.database.connection_string is required for mongodb format")
		}
		if c.Output.Database.Database == "" {
			return fmt.Errorf("output.database.database is required for mongodb format")
		}
	default:
		return fmt.Errorf("unsupported output format: %s", c.Output.Format)
	}

	return nil
}

// GenerateTemplate returns a commented starter configuration.
func GenerateTemplate() string {
	var b strings.Builder
	b.WriteString("# Odds crawler configuration\n")
	b.WriteString("name: my-crawl\n")
	b.WriteString("log_level: info\n\n")
	b.WriteString("browser:\n")
	b.WriteString("  headless: true\n")
	b.WriteString("  odds_format: \"EU Odds\"\n")
	b.WriteString("  timeout: 30s\n\n")
	b.WriteString("scraper:\n")
	b.WriteString("  concurrency: 5\n")
	b.WriteString("  max_pages: 0        # 0 means all discovered pages\n")
	b.WriteString("  max_retries: 3\n")
	b.WriteString("  retry_delay: 20s\n")
	b.WriteString("  rate_limit: 2       # page navigations per second\n")
	b.WriteString("  scrape_history: false\n")
	b.WriteString("  preview_only: false # read visible odds without expanding sub-markets\n\n")
	b.WriteString("change_detection:\n")
	b.WriteString("  enabled: true\n")
	b.WriteString("  sensitivity: normal # conservative | normal | aggressive\n")
	b.WriteString("  store_path: fingerprints.db\n\n")
	b.WriteString("targets:\n")
	b.WriteString("  - sport: football\n")
	b.WriteString("    leagues: [premier-league]\n")
	b.WriteString("    seasons: [\"2023-2024\"]\n")
	b.WriteString("    markets: [1x2, over_under_2_5]\n\n")
	b.WriteString("output:\n")
	b.WriteString("  format: json\n")
	b.WriteString("  file: matches.json\n\n")
	b.WriteString("monitoring:\n")
	b.WriteString("  enabled: false\n")
	b.WriteString("  address: \":9090\"\n")
	return b.String()
}
