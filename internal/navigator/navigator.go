// internal/navigator/navigator.go

// Package navigator drives the market section of a match page: opening
// market tabs (including ones hidden behind the "More" overflow),
// expanding sub-markets, and parsing the odds tables and history modals
// they reveal.
package navigator

import (
	"context"
	"strings"
	"time"

	"oddscrawler/internal/browser"
	"oddscrawler/internal/utils"
)

// Timing controls the waits the navigator inserts around clicks so the
// site's client-side rendering can catch up.
type Timing struct {
	SwitchWait     time.Duration
	SwitchAttempts int
	ModalWait      time.Duration
	PageLoadWait   time.Duration
}

// DefaultTiming returns the waits used against the live site.
func DefaultTiming() Timing {
	return Timing{
		SwitchWait:     3 * time.Second,
		SwitchAttempts: 3,
		ModalWait:      2 * time.Second,
		PageLoadWait:   2 * time.Second,
	}
}

// Navigator moves between markets on one match page.
type Navigator struct {
	page   browser.Page
	logger utils.Logger
	timing Timing
}

// NewNavigator returns a navigator bound to one page with default
// timing.
func NewNavigator(page browser.Page, logger utils.Logger) *Navigator {
	return NewNavigatorWithTiming(page, logger, DefaultTiming())
}

// NewNavigatorWithTiming returns a navigator with explicit waits.
func NewNavigatorWithTiming(page browser.Page, logger utils.Logger, timing Timing) *Navigator {
	return &Navigator{page: page, logger: logger, timing: timing}
}

// OpenMarketTab clicks the tab for the named market. It first scans the
// visible tab row, then opens the "More" overflow and scans its
// dropdown. It reports whether the tab was found and activated.
func (n *Navigator) OpenMarketTab(ctx context.Context, name string) (bool, error) {
	for _, selector := range marketTabSelectors {
		clicked, err := browser.ClickByText(ctx, n.page, selector, name)
		if err != nil {
			return false, err
		}
		if clicked {
			n.logger.Debugf("clicked %q tab via selector %s", name, selector)
			return true, nil
		}
	}

	n.logger.Debugf("market %q not in visible tabs, checking overflow", name)
	opened, err := n.openOverflow(ctx)
	if err != nil {
		return false, err
	}
	if !opened {
		return false, nil
	}

	for _, selector := range dropdownItemSelectors {
		clicked, err := browser.ClickByText(ctx, n.page, selector, name)
		if err != nil {
			return false, err
		}
		if clicked {
			n.logger.Debugf("clicked %q via overflow dropdown selector %s", name, selector)
			return true, nil
		}
	}
	return false, nil
}

// openOverflow clicks the "More" button that hides the rest of the
// market tabs.
func (n *Navigator) openOverflow(ctx context.Context) (bool, error) {
	for _, selector := range moreButtonSelectors {
		for _, label := range []string{"more", "..."} {
			clicked, err := browser.ClickByText(ctx, n.page, selector, label)
			if err != nil {
				return false, err
			}
			if clicked {
				return true, nil
			}
		}
	}
	return false, nil
}

// WaitForMarketSwitch polls until the named market's tab reports
// active class state. When no tab carries an active marker it falls
// back to checking that the market name appears in the page at all.
func (n *Navigator) WaitForMarketSwitch(ctx context.Context, name string) bool {
	for attempt := 0; attempt < n.timing.SwitchAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return false
		case <-time.After(n.timing.SwitchWait):
		}

		if n.isTabActive(ctx, name) {
			return true
		}
	}

	html, err := n.page.HTML(ctx)
	if err != nil {
		return false
	}
	return strings.Contains(strings.ToLower(html), strings.ToLower(name))
}

func (n *Navigator) isTabActive(ctx context.Context, name string) bool {
	needle := strings.ToLower(name)
	for _, selector := range activeTabSelectors {
		elements, err := n.page.Query(ctx, selector)
		if err != nil {
			continue
		}
		for _, element := range elements {
			text, err := element.Text(ctx)
			if err != nil {
				continue
			}
			if strings.Contains(strings.ToLower(text), needle) {
				return true
			}
		}
	}
	return false
}

// OpenSubMarket expands the named sub-market block within the current
// market tab.
func (n *Navigator) OpenSubMarket(ctx context.Context, name string) (bool, error) {
	return browser.ScrollUntilVisibleAndClickParent(ctx, n.page, subMarketSelector, name)
}

// CloseSubMarket collapses the sub-market again so a later extraction
// on the same tab does not see duplicate rows. The block is a toggle,
// so closing is the same click as opening.
func (n *Navigator) CloseSubMarket(ctx context.Context, name string) (bool, error) {
	return browser.ScrollUntilVisibleAndClickParent(ctx, n.page, subMarketSelector, name)
}
