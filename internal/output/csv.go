// internal/output/csv.go
package output

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"
	"sync"

	"oddscrawler/internal/scraper"
)

// csvHeader is the fixed column layout: match details followed by one
// line per bookmaker odds value.
var csvHeader = []string{
	"url", "sport", "league", "season", "match_date",
	"home_team", "away_team", "home_score", "away_score",
	"market", "bookmaker", "odds", "change_type", "scraped_at",
}

// CSVWriter appends matches to a CSV file, one row per odds value so
// the result loads cleanly into spreadsheets and dataframes.
type CSVWriter struct {
	mu     sync.Mutex
	file   *os.File
	writer *csv.Writer
}

// NewCSVWriter opens a CSV output file, writing the header only when
// the file is new or empty.
func NewCSVWriter(filename string) (*CSVWriter, error) {
	if filename == "" {
		return nil, fmt.Errorf("CSV output file is required")
	}

	file, err := os.OpenFile(filename, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV output: %w", err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to stat CSV output: %w", err)
	}

	w := &CSVWriter{file: file, writer: csv.NewWriter(file)}
	if info.Size() == 0 {
		if err := w.writer.Write(csvHeader); err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to write CSV header: %w", err)
		}
		w.writer.Flush()
	}
	return w, nil
}

// Write appends every odds value of every record as one CSV row.
// Matches without market data still produce a single row carrying the
// match details.
func (w *CSVWriter) Write(ctx context.Context, records []*scraper.MatchRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	for _, record := range records {
		for _, row := range recordRows(record) {
			if err := w.writer.Write(row); err != nil {
				return fmt.Errorf("failed to write CSV row: %w", err)
			}
		}
	}
	w.writer.Flush()
	return w.writer.Error()
}

func recordRows(record *scraper.MatchRecord) [][]string {
	base := []string{
		record.URL, record.Sport, record.League, record.Season, record.MatchDate,
		record.HomeTeam, record.AwayTeam, record.HomeScore, record.AwayScore,
	}
	tail := []string{record.ChangeType, record.ScrapedAt.Format("2006-01-02 15:04:05")}

	keys := make([]string, 0, len(record.Markets))
	for key := range record.Markets {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var rows [][]string
	for _, key := range keys {
		market := record.Markets[key]
		for i, odds := range market.CurrentOdds {
			bookmaker := ""
			if i < len(market.Bookmakers) {
				bookmaker = market.Bookmakers[i]
			}
			row := append(append([]string{}, base...),
				key, bookmaker, strconv.FormatFloat(odds, 'f', -1, 64))
			rows = append(rows, append(row, tail...))
		}
	}

	if len(rows) == 0 {
		row := append(append([]string{}, base...), "", "", "")
		rows = append(rows, append(row, tail...))
	}
	return rows
}

// Close flushes and closes the file.
func (w *CSVWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.writer.Flush()
	if err := w.writer.Error(); err != nil {
		w.file.Close()
		return err
	}
	return w.file.Close()
}
