package monitor

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

const createRunsTable = `CREATE TABLE IF NOT EXISTS monitor_runs (
	id             UUID PRIMARY KEY,
	country        TEXT NOT NULL,
	since          TIMESTAMPTZ NOT NULL,
	report_count   INTEGER NOT NULL,
	disaster_count INTEGER NOT NULL,
	alert          BOOLEAN NOT NULL,
	message        TEXT NOT NULL,
	created_at     TIMESTAMPTZ NOT NULL
)`

// Store keeps monitoring runs in PostgreSQL.
type Store struct {
	db *sqlx.DB
}

// Connect opens a PostgreSQL connection for a Store.
func Connect(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to the database: %w", err)
	}
	return db, nil
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// Migrate creates the runs table when it does not exist.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, createRunsTable); err != nil {
		return fmt.Errorf("failed to create monitor_runs table: %w", err)
	}
	return nil
}

// Save inserts a run.
func (s *Store) Save(ctx context.Context, r *Result) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO monitor_runs (id, country, since, report_count, disaster_count, alert, message, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		r.ID, r.Country, r.Since, r.ReportCount, r.DisasterCount, r.Alert, r.Message, r.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert monitor run: %w", err)
	}
	return nil
}

// Recent returns the latest runs, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Result, error) {
	var runs []Result
	err := s.db.SelectContext(ctx, &runs,
		`SELECT id, country, since, report_count, disaster_count, alert, message, created_at
		 FROM monitor_runs
		 ORDER BY created_at DESC
		 LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query monitor runs: %w", err)
	}
	return runs, nil
}
