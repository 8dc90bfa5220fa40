// internal/browser/browser.go

// Package browser wraps headless Chrome behind a small Page/Element
// interface so the rest of the crawler never talks to chromedp
// directly.
package browser

import (
	"context"
	"fmt"

	"github.com/chromedp/chromedp"
)

// Manager owns one Chrome process and hands out tabs.
type Manager struct {
	config      *Config
	allocCancel context.CancelFunc
	ctx         context.Context
	cancel      context.CancelFunc
}

// NewManager launches Chrome. A launch failure is returned as a
// FatalError since nothing can be crawled without a browser.
func NewManager(config *Config) (*Manager, error) {
	if config == nil {
		config = DefaultConfig()
	}

	opts := []chromedp.ExecAllocatorOption{
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.DisableGPU,
		chromedp.NoSandbox, // Required for Docker environments
		chromedp.WindowSize(config.WindowWidth, config.WindowHeight),
	}

	if config.Headless {
		opts = append(opts, chromedp.Headless)
	}
	userAgent := config.UserAgent
	if userAgent == "" {
		userAgent = RandomUserAgent()
	}
	opts = append(opts, chromedp.UserAgent(userAgent))

	if config.ProxyURL != "" {
		opts = append(opts, chromedp.ProxyServer(config.ProxyURL))
	}
	if config.ChromePath != "" {
		opts = append(opts, chromedp.ExecPath(config.ChromePath))
	}
	if config.DisableImages {
		opts = append(opts, chromedp.Flag("blink-settings", "imagesEnabled=false"))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	ctx, cancel := chromedp.NewContext(allocCtx)

	// Start the browser process now so a broken Chrome install fails
	// the run up front instead of on the first page.
	if err := chromedp.Run(ctx); err != nil {
		cancel()
		allocCancel()
		return nil, &FatalError{Err: fmt.Errorf("failed to start browser: %w", err)}
	}

	return &Manager{
		config:      config,
		allocCancel: allocCancel,
		ctx:         ctx,
		cancel:      cancel,
	}, nil
}

// Config returns the manager's browser configuration.
func (m *Manager) Config() *Config {
	return m.config
}

// NewPage opens a fresh tab in the running browser.
func (m *Manager) NewPage(ctx context.Context) (Page, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	tabCtx, tabCancel := chromedp.NewContext(m.ctx)
	return &Tab{
		ctx:     tabCtx,
		cancel:  tabCancel,
		timeout: m.config.Timeout,
	}, nil
}

// Close shuts the browser down.
func (m *Manager) Close() error {
	if m.cancel != nil {
		m.cancel()
	}
	if m.allocCancel != nil {
		m.allocCancel()
	}
	return nil
}
