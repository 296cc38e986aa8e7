package snapshot

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq"
)

// Ensure PostgresStorage implements Storage
var _ Storage = (*PostgresStorage)(nil)

// PostgresStorage persists snapshot documents to Postgres: one row per run
// cycle plus an upserted row per canonical match.
type PostgresStorage struct {
	db *sql.DB
}

// NewPostgresStorage opens the connection, verifies it and creates the
// schema if missing.
func NewPostgresStorage(dsn string) (*PostgresStorage, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres DSN is required")
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres connection: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	s := &PostgresStorage{db: db}
	if err := s.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	slog.Info("PostgreSQL snapshot storage initialized")
	return s, nil
}

func (s *PostgresStorage) initSchema(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS snapshot_runs (
		id SERIAL PRIMARY KEY,
		run_id VARCHAR(64) NOT NULL,
		cycle BIGINT NOT NULL,
		taken_at TIMESTAMP NOT NULL,
		total_matches INT NOT NULL,
		errors INT NOT NULL DEFAULT 0,
		UNIQUE(run_id, cycle)
	);

	CREATE TABLE IF NOT EXISTS snapshot_matches (
		match_id VARCHAR(200) PRIMARY KEY,
		game_id VARCHAR(200) NOT NULL DEFAULT '',
		sport VARCHAR(100) NOT NULL,
		home_team VARCHAR(300) NOT NULL,
		away_team VARCHAR(300) NOT NULL,
		league VARCHAR(300) NOT NULL DEFAULT '',
		scheduled_time TIMESTAMP,
		status VARCHAR(20) NOT NULL,
		source_name VARCHAR(100) NOT NULL,
		odds JSONB NOT NULL,
		last_updated TIMESTAMP NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_snapshot_matches_sport ON snapshot_matches(sport);
	CREATE INDEX IF NOT EXISTS idx_snapshot_matches_scheduled ON snapshot_matches(scheduled_time);
	`
	_, err := s.db.ExecContext(ctx, query)
	return err
}

// WriteSnapshot writes the run row and upserts every match inside one
// transaction, so a reader never observes a partially applied snapshot.
func (s *PostgresStorage) WriteSnapshot(ctx context.Context, doc *Document) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin snapshot tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
	INSERT INTO snapshot_runs (run_id, cycle, taken_at, total_matches, errors)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (run_id, cycle) DO UPDATE SET
		taken_at = EXCLUDED.taken_at,
		total_matches = EXCLUDED.total_matches,
		errors = EXCLUDED.errors
	`, doc.RunID, doc.Cycle, doc.Timestamp, doc.Counts.Total, doc.Counts.Errors)
	if err != nil {
		return fmt.Errorf("failed to write snapshot run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO snapshot_matches (
		match_id, game_id, sport, home_team, away_team,
		league, scheduled_time, status, source_name, odds, last_updated
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	ON CONFLICT (match_id) DO UPDATE SET
		status = EXCLUDED.status,
		odds = EXCLUDED.odds,
		source_name = EXCLUDED.source_name,
		last_updated = EXCLUDED.last_updated
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare match upsert: %w", err)
	}
	defer stmt.Close()

	for _, m := range doc.Matches {
		oddsJSON, err := json.Marshal(m.Odds)
		if err != nil {
			return fmt.Errorf("failed to marshal odds for %s: %w", m.MatchID, err)
		}
		if _, err := stmt.ExecContext(ctx,
			m.MatchID, m.GameID, m.Sport, m.HomeTeam, m.AwayTeam,
			m.League, m.StartTime, string(m.Status), m.Source.SourceName,
			oddsJSON, m.Source.LastUpdated,
		); err != nil {
			return fmt.Errorf("failed to upsert match %s: %w", m.MatchID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *PostgresStorage) Close() error {
	return s.db.Close()
}
