// internal/browser/types.go
package browser

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Config controls the headless Chrome runtime.
type Config struct {
	Headless         bool
	UserAgent        string
	Timeout          time.Duration
	OddsFormat       string
	DisableImages    bool
	ChromePath       string
	ProxyURL         string
	WindowWidth      int
	WindowHeight     int
	SettleDelayMinMS int
	SettleDelayMaxMS int
}

// DefaultConfig returns a browser configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Headless:         true,
		Timeout:          30 * time.Second,
		OddsFormat:       "EU Odds",
		WindowWidth:      1920,
		WindowHeight:     1080,
		SettleDelayMinMS: 6000,
		SettleDelayMaxMS: 8000,
	}
}

// Element is one DOM node matched on a page.
type Element interface {
	// Text returns the visible text content of the node.
	Text(ctx context.Context) (string, error)
	// Click clicks the node itself.
	Click(ctx context.Context) error
	// ClickParent clicks the node's parent element.
	ClickParent(ctx context.Context) error
	// Hover moves the mouse over the node's center.
	Hover(ctx context.Context) error
	// ScrollIntoView scrolls the node into the viewport.
	ScrollIntoView(ctx context.Context) error
	// Attribute returns the named attribute and whether it is set.
	Attribute(ctx context.Context, name string) (string, bool, error)
	// HTML returns the outer HTML of the node.
	HTML(ctx context.Context) (string, error)
	// Query returns descendant elements matching the selector.
	Query(ctx context.Context, selector string) ([]Element, error)
}

// Page is one browser tab. Navigation helpers and the market navigator
// work against this interface so they can be tested without Chrome.
type Page interface {
	// Navigate loads a URL and waits for the document body.
	Navigate(ctx context.Context, url string) error
	// WaitVisible blocks until the selector matches a visible element
	// or the timeout elapses.
	WaitVisible(ctx context.Context, selector string, timeout time.Duration) error
	// HTML returns the full page HTML.
	HTML(ctx context.Context) (string, error)
	// Query returns all elements matching the selector. An empty result
	// is not an error.
	Query(ctx context.Context, selector string) ([]Element, error)
	// Click clicks the first element matching the selector.
	Click(ctx context.Context, selector string) error
	// Evaluate runs JavaScript on the page and unmarshals the result
	// into out. Pass nil to discard the result.
	Evaluate(ctx context.Context, script string, out interface{}) error
	// Close releases the tab.
	Close() error
}

// FatalError marks a browser failure the crawl cannot recover from,
// such as Chrome failing to start. Callers abort the run instead of
// retrying.
type FatalError struct {
	Err error
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("fatal browser error: %v", e.Err)
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

// IsFatal reports whether err is or wraps a FatalError.
func IsFatal(err error) bool {
	var fatal *FatalError
	return errors.As(err, &fatal)
}
