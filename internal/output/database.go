// internal/output/database.go
package output

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	_ "github.com/lib/pq"              // PostgreSQL driver

	"oddscrawler/internal/scraper"
)

// SQLWriter upserts matches into a relational table, one row per match
// with the full record stored as JSON. PostgreSQL and MySQL are
// supported.
type SQLWriter struct {
	db     *sql.DB
	driver string
	table  string
}

// NewSQLWriter connects to the database and ensures the match table
// exists. driver is "postgres" or "mysql".
func NewSQLWriter(driver, connectionString, table string) (*SQLWriter, error) {
	if connectionString == "" {
		return nil, fmt.Errorf("database connection string is required")
	}
	if table == "" {
		table = "matches"
	}

	switch driver {
	case "postgres", "mysql":
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}

	db, err := sql.Open(driver, connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", driver, err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping %s: %w", driver, err)
	}

	w := &SQLWriter{db: db, driver: driver, table: table}
	if err := w.ensureTable(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return w, nil
}

func (w *SQLWriter) ensureTable(ctx context.Context) error {
	var ddl string
	switch w.driver {
	case "postgres":
		ddl = fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			url TEXT PRIMARY KEY,
			sport TEXT NOT NULL,
			league TEXT,
			match_date TEXT,
			home_team TEXT,
			away_team TEXT,
			change_type TEXT,
			data JSONB NOT NULL,
			scraped_at TIMESTAMPTZ NOT NULL
		)`, w.table)
	case "mysql":
		ddl = fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			url VARCHAR(512) PRIMARY KEY,
			sport VARCHAR(64) NOT NULL,
			league VARCHAR(128),
			match_date VARCHAR(64),
			home_team VARCHAR(128),
			away_team VARCHAR(128),
			change_type VARCHAR(32),
			data JSON NOT NULL,
			scraped_at DATETIME NOT NULL
		)`, w.table)
	}
	if _, err := w.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("failed to create table %s: %w", w.table, err)
	}
	return nil
}

func (w *SQLWriter) upsertQuery() string {
	if w.driver == "postgres" {
		return fmt.Sprintf(`INSERT INTO %s
			(url, sport, league, match_date, home_team, away_team, change_type, data, scraped_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (url) DO UPDATE SET
				change_type = EXCLUDED.change_type,
				data = EXCLUDED.data,
				scraped_at = EXCLUDED.scraped_at`, w.table)
	}
	return fmt.Sprintf(`INSERT INTO %s
		(url, sport, league, match_date, home_team, away_team, change_type, data, scraped_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			change_type = VALUES(change_type),
			data = VALUES(data),
			scraped_at = VALUES(scraped_at)`, w.table)
}

// Write upserts the batch inside one transaction.
func (w *SQLWriter) Write(ctx context.Context, records []*scraper.MatchRecord) error {
	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, w.upsertQuery())
	if err != nil {
		return fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, record := range records {
		data, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("failed to encode match %s: %w", record.URL, err)
		}
		_, err = stmt.ExecContext(ctx,
			record.URL, record.Sport, record.League, record.MatchDate,
			record.HomeTeam, record.AwayTeam, record.ChangeType,
			data, record.ScrapedAt.UTC())
		if err != nil {
			return fmt.Errorf("failed to upsert match %s: %w", record.URL, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit batch: %w", err)
	}
	return nil
}

// Close releases the database connection.
func (w *SQLWriter) Close() error {
	return w.db.Close()
}
