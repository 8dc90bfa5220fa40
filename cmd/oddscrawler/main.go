// cmd/oddscrawler/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/time/rate"

	"oddscrawler/internal/browser"
	"oddscrawler/internal/config"
	"oddscrawler/internal/fingerprint"
	"oddscrawler/internal/markets"
	"oddscrawler/internal/monitoring"
	"oddscrawler/internal/navigator"
	"oddscrawler/internal/output"
	"oddscrawler/internal/scraper"
	"oddscrawler/internal/utils"
)

// Version information (set by build flags)
var (
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch command := os.Args[1]; command {
	case "run":
		if len(os.Args) < 3 {
			fmt.Fprintf(os.Stderr, "Error: config file required\n")
			fmt.Fprintf(os.Stderr, "Usage: oddscrawler run <config.yaml>\n")
			os.Exit(1)
		}
		if err := runCrawl(os.Args[2]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

	case "validate":
		if len(os.Args) < 3 {
			fmt.Fprintf(os.Stderr, "Error: config file required\n")
			fmt.Fprintf(os.Stderr, "Usage: oddscrawler validate <config.yaml>\n")
			os.Exit(1)
		}
		if _, err := config.LoadFromFile(os.Args[2]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Configuration file '%s' is valid\n", os.Args[2])

	case "template":
		fmt.Print(config.GenerateTemplate())

	case "version", "--version", "-v":
		printVersion()

	case "help", "--help", "-h":
		printUsage()

	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command '%s'\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runCrawl(configFile string) error {
	cfg, err := config.LoadFromFile(configFile)
	if err != nil {
		return err
	}

	logger := utils.NewLoggerWithLevel(utils.ParseLogLevel(cfg.LogLevel))
	logger.Infof("starting crawl %q", cfg.Name)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	manager, err := browser.NewManager(&browser.Config{
		Headless:         cfg.Browser.Headless,
		UserAgent:        cfg.Browser.UserAgent,
		Timeout:          cfg.Browser.Timeout,
		OddsFormat:       cfg.Browser.OddsFormat,
		DisableImages:    cfg.Browser.DisableImages,
		ChromePath:       cfg.Browser.ChromePath,
		ProxyURL:         cfg.Browser.ProxyURL,
		WindowWidth:      cfg.Browser.WindowWidth,
		WindowHeight:     cfg.Browser.WindowHeight,
		SettleDelayMinMS: cfg.Browser.SettleDelayMinMS,
		SettleDelayMaxMS: cfg.Browser.SettleDelayMaxMS,
	})
	if err != nil {
		return fmt.Errorf("failed to start browser: %w", err)
	}
	defer manager.Close()

	writer, err := output.NewWriter(cfg.Output)
	if err != nil {
		return fmt.Errorf("failed to open output: %w", err)
	}
	defer writer.Close()

	detector, store, err := buildDetector(cfg, logger)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	var metrics *monitoring.Metrics
	var monitor *monitoring.Server
	if cfg.Monitoring.Enabled {
		metrics = monitoring.NewMetrics()
		monitor = monitoring.NewServer(cfg.Monitoring.Address, metrics)
		go func() {
			if err := monitor.Start(); err != nil {
				logger.Errorf("monitoring server failed: %v", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			monitor.Shutdown(shutdownCtx)
		}()
	}

	retry := scraper.NewRetryPolicy(cfg.Scraper.MaxRetries, cfg.Scraper.RetryDelay, logger)

	var limiter *rate.Limiter
	if cfg.Scraper.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.Scraper.RateLimit), 1)
	}

	engine := scraper.NewEngine(scraper.EngineConfig{
		Tabs:        manager,
		Extractor:   navigator.NewExtractor(markets.DefaultRegistry(), logger),
		Retry:       retry,
		Detector:    detector,
		Logger:      logger,
		Limiter:     limiter,
		Metrics:     metrics,
		Concurrency: cfg.Scraper.Concurrency,
		SettleMinMS: cfg.Browser.SettleDelayMinMS,
		SettleMaxMS: cfg.Browser.SettleDelayMaxMS,
	})

	orchestrator := scraper.NewOrchestrator(scraper.OrchestratorConfig{
		Tabs:            manager,
		Engine:          engine,
		Retry:           retry,
		Sink:            writer,
		Metrics:         metrics,
		Logger:          logger,
		Limiter:         limiter,
		OddsFormat:      cfg.Browser.OddsFormat,
		MaxPages:        cfg.Scraper.MaxPages,
		ScrapeHistory:   cfg.Scraper.ScrapeHistory,
		TargetBookmaker: cfg.Scraper.TargetBookmaker,
		PreviewOnly:     cfg.Scraper.PreviewOnly,
	})

	targets, err := buildTargets(cfg)
	if err != nil {
		return err
	}

	stats, err := orchestrator.Run(ctx, targets)
	if err != nil {
		if browser.IsFatal(err) {
			return fmt.Errorf("browser died: %w", err)
		}
		return err
	}
	if stats.FailedListings > 0 || stats.FailedLinks > 0 {
		logger.Warnf("crawl finished with failures: %d listings, %d links",
			stats.FailedListings, stats.FailedLinks)
	}
	return nil
}

// buildDetector assembles change detection from the configuration. A
// disabled detector means every match is always written.
func buildDetector(cfg *config.Config, logger utils.Logger) (*fingerprint.Detector, fingerprint.Store, error) {
	if !cfg.ChangeDetection.Enabled {
		return nil, nil, nil
	}

	sensitivity, err := fingerprint.ParseSensitivity(cfg.ChangeDetection.Sensitivity)
	if err != nil {
		return nil, nil, err
	}

	var store fingerprint.Store
	if cfg.ChangeDetection.StorePath != "" {
		store, err = output.NewSQLiteFingerprintStore(cfg.ChangeDetection.StorePath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open fingerprint store: %w", err)
		}
	} else {
		store = fingerprint.NewMemoryStore()
	}
	return fingerprint.NewDetector(store, sensitivity, logger), store, nil
}

func buildTargets(cfg *config.Config) ([]scraper.Target, error) {
	targets := make([]scraper.Target, 0, len(cfg.Targets))
	for _, t := range cfg.Targets {
		sport, err := markets.ParseSport(t.Sport)
		if err != nil {
			return nil, err
		}
		targets = append(targets, scraper.Target{
			Sport:      sport,
			Leagues:    t.Leagues,
			Seasons:    t.Seasons,
			Dates:      t.Dates,
			MarketKeys: t.Markets,
		})
	}
	return targets, nil
}

func printUsage() {
	fmt.Println("oddscrawler - Incremental sports odds crawler")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  oddscrawler run <config.yaml>        Run a crawl with the given configuration")
	fmt.Println("  oddscrawler validate <config.yaml>   Validate a configuration file")
	fmt.Println("  oddscrawler template                 Generate a starter configuration")
	fmt.Println("  oddscrawler version                  Show version information")
	fmt.Println("  oddscrawler help                     Show this help message")
}

func printVersion() {
	fmt.Printf("oddscrawler %s\n", version)
	fmt.Printf("Build time: %s\n", buildTime)
	fmt.Printf("Git commit: %s\n", gitCommit)
}
