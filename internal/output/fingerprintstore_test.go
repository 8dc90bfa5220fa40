// internal/output/fingerprintstore_test.go
package output

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"oddscrawler/internal/fingerprint"
)

func TestSQLiteFingerprintStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fingerprints.db")
	store, err := NewSQLiteFingerprintStore(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer store.Close()

	ctx := context.Background()

	got, err := store.Get(ctx, "match-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for an unknown match, got %+v", got)
	}

	record := &fingerprint.Record{
		Triple: fingerprint.Triple{
			Identity: "id-fp",
			Odds:     "odds-fp",
			History:  "history-fp",
		},
		CurrentOdds: []float64{1.85, 3.6, 4.2},
		UpdatedAt:   time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC),
	}
	if err := store.Put(ctx, "match-1", record); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err = store.Get(ctx, "match-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil {
		t.Fatal("expected a stored record")
	}
	if got.Triple != record.Triple {
		t.Errorf("expected triple %+v, got %+v", record.Triple, got.Triple)
	}
	if len(got.CurrentOdds) != 3 || got.CurrentOdds[0] != 1.85 {
		t.Errorf("expected odds %v, got %v", record.CurrentOdds, got.CurrentOdds)
	}
}

func TestSQLiteFingerprintStoreReplaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fingerprints.db")
	store, err := NewSQLiteFingerprintStore(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	record := &fingerprint.Record{
		Triple:      fingerprint.Triple{Identity: "a", Odds: "b", History: "c"},
		CurrentOdds: []float64{1.5},
		UpdatedAt:   time.Now().UTC(),
	}
	if err := store.Put(ctx, "match-1", record); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	record.Triple.Odds = "b2"
	record.CurrentOdds = []float64{1.6}
	if err := store.Put(ctx, "match-1", record); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := store.Get(ctx, "match-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Triple.Odds != "b2" {
		t.Errorf("expected replaced odds fingerprint %q, got %q", "b2", got.Triple.Odds)
	}
	if got.CurrentOdds[0] != 1.6 {
		t.Errorf("expected replaced odds 1.6, got %v", got.CurrentOdds[0])
	}
}
