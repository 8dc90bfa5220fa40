// internal/browser/helper.go
package browser

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"
)

const cookieBannerSelector = "#onetrust-accept-btn-handler"

// DismissCookieBanner accepts the cookie consent dialog if one is
// shown. A missing banner is not an error.
func DismissCookieBanner(ctx context.Context, page Page) error {
	elements, err := page.Query(ctx, cookieBannerSelector)
	if err != nil {
		return fmt.Errorf("cookie banner lookup failed: %w", err)
	}
	if len(elements) == 0 {
		return nil
	}
	if err := elements[0].Click(ctx); err != nil {
		return fmt.Errorf("cookie banner dismissal failed: %w", err)
	}
	return nil
}

// SetOddsFormat switches the site's odds display format, e.g. to
// "EU Odds". If the selector already shows the wanted format nothing
// is clicked.
func SetOddsFormat(ctx context.Context, page Page, format string) error {
	const toggleSelector = "div.group > button.gap-2"

	toggles, err := page.Query(ctx, toggleSelector)
	if err != nil {
		return fmt.Errorf("odds format toggle lookup failed: %w", err)
	}
	if len(toggles) == 0 {
		return fmt.Errorf("odds format toggle not found")
	}

	current, err := toggles[0].Text(ctx)
	if err == nil && strings.Contains(current, format) {
		return nil
	}

	if err := toggles[0].Click(ctx); err != nil {
		return fmt.Errorf("failed to open odds format menu: %w", err)
	}

	clicked, err := ClickByText(ctx, page, "div.group > div.dropdown-content > ul > li > a", format)
	if err != nil {
		return fmt.Errorf("failed to pick odds format: %w", err)
	}
	if !clicked {
		return fmt.Errorf("odds format %q not offered", format)
	}
	return nil
}

// ClickByText clicks the first element matching selector whose text
// contains wanted, case-insensitively. It reports whether anything was
// clicked.
func ClickByText(ctx context.Context, page Page, selector, wanted string) (bool, error) {
	elements, err := page.Query(ctx, selector)
	if err != nil {
		return false, err
	}

	needle := strings.ToLower(strings.TrimSpace(wanted))
	for _, element := range elements {
		text, err := element.Text(ctx)
		if err != nil {
			continue
		}
		if strings.Contains(strings.ToLower(text), needle) {
			if err := element.Click(ctx); err != nil {
				return false, err
			}
			return true, nil
		}
	}
	return false, nil
}

// ScrollUntilLoaded scrolls the page to the bottom repeatedly until its
// height stops growing, forcing lazily rendered listing rows to load.
func ScrollUntilLoaded(ctx context.Context, page Page, pause time.Duration, maxRounds int) error {
	if maxRounds <= 0 {
		maxRounds = 10
	}

	var lastHeight float64 = -1
	for i := 0; i < maxRounds; i++ {
		var height float64
		if err := page.Evaluate(ctx, "document.body.scrollHeight", &height); err != nil {
			return fmt.Errorf("scroll height read failed: %w", err)
		}
		if height == lastHeight {
			return nil
		}
		lastHeight = height

		if err := page.Evaluate(ctx, "window.scrollTo(0, document.body.scrollHeight)", nil); err != nil {
			return fmt.Errorf("scroll failed: %w", err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(pause):
		}
	}
	return nil
}

// ScrollUntilVisibleAndClickParent walks the elements matching selector
// looking for one whose text contains wanted, scrolls it into view and
// clicks its parent container. It reports whether a match was clicked.
func ScrollUntilVisibleAndClickParent(ctx context.Context, page Page, selector, wanted string) (bool, error) {
	elements, err := page.Query(ctx, selector)
	if err != nil {
		return false, err
	}

	needle := strings.ToLower(strings.TrimSpace(wanted))
	for _, element := range elements {
		text, err := element.Text(ctx)
		if err != nil {
			continue
		}
		if !strings.Contains(strings.ToLower(text), needle) {
			continue
		}
		if err := element.ScrollIntoView(ctx); err != nil {
			return false, err
		}
		if err := element.ClickParent(ctx); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}

// Settle sleeps a random duration between min and max milliseconds,
// giving client-side rendering time to finish after navigation.
func Settle(ctx context.Context, minMS, maxMS int) error {
	if minMS <= 0 || maxMS < minMS {
		return nil
	}
	delay := time.Duration(minMS+rand.Intn(maxMS-minMS+1)) * time.Millisecond
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(delay):
		return nil
	}
}
