// internal/output/csv_test.go
package output

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"oddscrawler/internal/scraper"
)

func readCSVFile(t *testing.T, path string) [][]string {
	t.Helper()
	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("failed to open output: %v", err)
	}
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}
	return rows
}

func TestCSVWriterRowPerOddsValue(t *testing.T) {
	path := filepath.Join(t.TempDir(), "matches.csv")
	writer, err := NewCSVWriter(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	record := testRecord("https://example.com/match-1/", "Arsenal", 1.85, 3.6, 4.2)
	if err := writer.Write(context.Background(), []*scraper.MatchRecord{record}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rows := readCSVFile(t, path)
	if len(rows) != 4 {
		t.Fatalf("expected header plus 3 odds rows, got %d rows", len(rows))
	}
	if rows[0][0] != "url" || rows[0][9] != "market" {
		t.Errorf("unexpected header: %v", rows[0])
	}
	if rows[1][9] != "1x2" || rows[1][10] != "bet365" || rows[1][11] != "1.85" {
		t.Errorf("unexpected first odds row: %v", rows[1])
	}
	if rows[3][11] != "4.2" {
		t.Errorf("expected last odds value 4.2, got %q", rows[3][11])
	}
}

func TestCSVWriterAppendsWithoutSecondHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "matches.csv")

	writer, err := NewCSVWriter(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	record := testRecord("https://example.com/match-1/", "Arsenal", 1.85)
	if err := writer.Write(context.Background(), []*scraper.MatchRecord{record}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	writer.Close()

	writer, err = NewCSVWriter(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	record = testRecord("https://example.com/match-2/", "Liverpool", 1.5)
	if err := writer.Write(context.Background(), []*scraper.MatchRecord{record}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	writer.Close()

	rows := readCSVFile(t, path)
	if len(rows) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(rows))
	}
	if rows[2][0] != "https://example.com/match-2/" {
		t.Errorf("expected appended match row, got %v", rows[2])
	}
}

func TestCSVWriterMatchWithoutMarkets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "matches.csv")
	writer, err := NewCSVWriter(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer writer.Close()

	record := testRecord("https://example.com/match-1/", "Arsenal")
	record.Markets = nil
	if err := writer.Write(context.Background(), []*scraper.MatchRecord{record}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	writer.Close()

	rows := readCSVFile(t, path)
	if len(rows) != 2 {
		t.Fatalf("expected header plus 1 details row, got %d", len(rows))
	}
	if rows[1][9] != "" || rows[1][11] != "" {
		t.Errorf("expected empty market columns, got %v", rows[1])
	}
}
