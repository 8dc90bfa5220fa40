// internal/output/fingerprintstore.go
package output

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"oddscrawler/internal/fingerprint"
)

// SQLiteFingerprintStore persists change-detection fingerprints in a
// local SQLite database so incremental runs survive restarts.
type SQLiteFingerprintStore struct {
	db *sql.DB
}

// NewSQLiteFingerprintStore opens (or creates) the fingerprint
// database at path.
func NewSQLiteFingerprintStore(path string) (*SQLiteFingerprintStore, error) {
	if path == "" {
		return nil, fmt.Errorf("fingerprint database path is required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create fingerprint database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open fingerprint database: %w", err)
	}

	// SQLite works best with a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	const ddl = `CREATE TABLE IF NOT EXISTS fingerprints (
		match_id TEXT PRIMARY KEY,
		identity_fp TEXT NOT NULL,
		odds_fp TEXT NOT NULL,
		history_fp TEXT NOT NULL,
		current_odds TEXT NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`
	if _, err := db.Exec(ddl); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create fingerprint table: %w", err)
	}
	return &SQLiteFingerprintStore{db: db}, nil
}

// Get returns the stored record for a match, or nil when none exists.
func (s *SQLiteFingerprintStore) Get(ctx context.Context, matchID string) (*fingerprint.Record, error) {
	const query = `SELECT identity_fp, odds_fp, history_fp, current_odds, updated_at
		FROM fingerprints WHERE match_id = ?`

	record := &fingerprint.Record{}
	var oddsJSON string
	err := s.db.QueryRowContext(ctx, query, matchID).Scan(
		&record.Triple.Identity, &record.Triple.Odds, &record.Triple.History,
		&oddsJSON, &record.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load fingerprint for %s: %w", matchID, err)
	}
	if err := json.Unmarshal([]byte(oddsJSON), &record.CurrentOdds); err != nil {
		return nil, fmt.Errorf("corrupt odds for %s: %w", matchID, err)
	}
	return record, nil
}

// Put stores or replaces the record for a match.
func (s *SQLiteFingerprintStore) Put(ctx context.Context, matchID string, record *fingerprint.Record) error {
	oddsJSON, err := json.Marshal(record.CurrentOdds)
	if err != nil {
		return fmt.Errorf("failed to encode odds for %s: %w", matchID, err)
	}

	const query = `INSERT INTO fingerprints
		(match_id, identity_fp, odds_fp, history_fp, current_odds, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (match_id) DO UPDATE SET
			identity_fp = excluded.identity_fp,
			odds_fp = excluded.odds_fp,
			history_fp = excluded.history_fp,
			current_odds = excluded.current_odds,
			updated_at = excluded.updated_at`
	_, err = s.db.ExecContext(ctx, query,
		matchID, record.Triple.Identity, record.Triple.Odds, record.Triple.History,
		string(oddsJSON), record.UpdatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to store fingerprint for %s: %w", matchID, err)
	}
	return nil
}

// Close releases the database.
func (s *SQLiteFingerprintStore) Close() error {
	return s.db.Close()
}
