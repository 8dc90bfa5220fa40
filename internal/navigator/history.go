// internal/navigator/history.go
package navigator

import (
	"context"
	"strings"
	"time"
)

// historyModalScript finds the odds movement modal by its heading and
// returns the surrounding container's HTML, or an empty string when no
// modal is open.
const historyModalScript = `(() => {
	const heading = Array.from(document.querySelectorAll('h3'))
		.find(node => node.textContent.includes('Odds movement'));
	return heading && heading.parentElement ? heading.parentElement.innerHTML : '';
})()`

// CollectHistoryModals hovers every odds cell in the named bookmaker's
// row, capturing the odds movement modal each hover opens. One modal is
// returned per outcome column that produced one.
func (n *Navigator) CollectHistoryModals(ctx context.Context, bookmaker string) ([]string, error) {
	rows, err := n.page.Query(ctx, bookmakerRowSelector)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(bookmaker)
	var modals []string
	for _, row := range rows {
		logos, err := row.Query(ctx, bookmakerLogoSelector)
		if err != nil || len(logos) == 0 {
			continue
		}
		title, ok, err := logos[0].Attribute(ctx, "title")
		if err != nil || !ok || !strings.Contains(strings.ToLower(title), needle) {
			continue
		}

		blocks, err := row.Query(ctx, oddsBlockSelector)
		if err != nil {
			continue
		}
		for _, block := range blocks {
			if err := block.Hover(ctx); err != nil {
				n.logger.Debugf("hover failed for %s odds cell: %v", bookmaker, err)
				continue
			}

			select {
			case <-ctx.Done():
				return modals, ctx.Err()
			case <-time.After(n.timing.ModalWait):
			}

			var modalHTML string
			if err := n.page.Evaluate(ctx, historyModalScript, &modalHTML); err != nil {
				n.logger.Debugf("modal capture failed for %s: %v", bookmaker, err)
				continue
			}
			if modalHTML != "" {
				modals = append(modals, modalHTML)
			}
		}
	}
	return modals, nil
}
