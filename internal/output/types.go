// internal/output/types.go
package output

import (
	"context"

	"oddscrawler/internal/scraper"
)

// Writer persists extracted matches. Every writer keys its storage by
// match URL, so re-running a crawl updates matches in place instead of
// duplicating them.
type Writer interface {
	// Write persists one batch of matches.
	Write(ctx context.Context, records []*scraper.MatchRecord) error
	// Close flushes and releases the writer.
	Close() error
}
