// internal/output/json.go
package output

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"oddscrawler/internal/scraper"
)

// JSONWriter maintains a JSON array file of matches. Existing entries
// are loaded on creation and merged by match URL, so successive crawl
// runs update the file incrementally.
type JSONWriter struct {
	filename string

	mu      sync.Mutex
	byURL   map[string]*scraper.MatchRecord
	ordered []string
}

// NewJSONWriter opens (or starts) a JSON output file.
func NewJSONWriter(filename string) (*JSONWriter, error) {
	if filename == "" {
		return nil, fmt.Errorf("JSON output file is required")
	}

	writer := &JSONWriter{
		filename: filename,
		byURL:    make(map[string]*scraper.MatchRecord),
	}
	if err := writer.load(); err != nil {
		return nil, err
	}
	return writer, nil
}

func (w *JSONWriter) load() error {
	data, err := os.ReadFile(w.filename)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read existing output: %w", err)
	}
	if len(data) == 0 {
		return nil
	}

	var existing []*scraper.MatchRecord
	if err := json.Unmarshal(data, &existing); err != nil {
		return fmt.Errorf("failed to parse existing output %s: %w", w.filename, err)
	}
	for _, record := range existing {
		if _, ok := w.byURL[record.URL]; !ok {
			w.ordered = append(w.ordered, record.URL)
		}
		w.byURL[record.URL] = record
	}
	return nil
}

// Write merges the batch into the file and rewrites it atomically.
func (w *JSONWriter) Write(ctx context.Context, records []*scraper.MatchRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	for _, record := range records {
		existing, ok := w.byURL[record.URL]
		if !ok {
			w.ordered = append(w.ordered, record.URL)
		} else {
			carryHistory(existing, record)
		}
		w.byURL[record.URL] = record
	}
	return w.flushLocked()
}

// carryHistory decides which odds history survives a merge. Fresh
// history wins only when change detection flagged the record for
// history persistence; otherwise history captured earlier is kept, so
// runs that skip history scraping never wipe it.
func carryHistory(existing, fresh *scraper.MatchRecord) {
	if existing == nil || len(existing.Markets) == 0 {
		return
	}
	for key, market := range fresh.Markets {
		if fresh.PersistHistory && len(market.History) > 0 {
			continue
		}
		old, ok := existing.Markets[key]
		if !ok || len(old.History) == 0 {
			continue
		}
		market.History = old.History
		fresh.Markets[key] = market
	}
}

func (w *JSONWriter) flushLocked() error {
	all := make([]*scraper.MatchRecord, 0, len(w.ordered))
	for _, url := range w.ordered {
		all = append(all, w.byURL[url])
	}

	data, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode matches: %w", err)
	}
	data = append(data, '\n')

	// Write through a temp file so a crash never leaves a truncated
	// output behind.
	tmp, err := os.CreateTemp(filepath.Dir(w.filename), filepath.Base(w.filename)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp output: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close temp output: %w", err)
	}
	if err := os.Rename(tmp.Name(), w.filename); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace output: %w", err)
	}
	return nil
}

// Close is a no-op; every Write leaves the file complete.
func (w *JSONWriter) Close() error {
	return nil
}
