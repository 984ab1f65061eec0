// Package store is an optional Postgres archive of discovered jobs and
// outreach attempts. The agent runs fine without it; persistence
// failures mid-run are logged and never fatal.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/baxromumarov/intern-scout/internal/ledger"
	"github.com/baxromumarov/intern-scout/internal/search"
)

const schema = `
CREATE TABLE IF NOT EXISTS jobs (
    id          SERIAL PRIMARY KEY,
    query       TEXT NOT NULL DEFAULT '',
    company     TEXT NOT NULL DEFAULT '',
    title       TEXT NOT NULL DEFAULT '',
    location    TEXT NOT NULL DEFAULT '',
    description TEXT NOT NULL DEFAULT '',
    url         TEXT NOT NULL,
    via         TEXT NOT NULL DEFAULT '',
    created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    UNIQUE (url)
);

CREATE TABLE IF NOT EXISTS outreach (
    id         SERIAL PRIMARY KEY,
    sent_at    TIMESTAMPTZ NOT NULL,
    company    TEXT NOT NULL DEFAULT '',
    role       TEXT NOT NULL DEFAULT '',
    recipient  TEXT NOT NULL,
    status     TEXT NOT NULL
);
`

type Store struct {
	db *sql.DB
}

func NewStore(connStr string) (*Store, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping db: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) EnsureSchema() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	return nil
}

// SaveJob upserts one discovered posting, keyed by URL.
func (s *Store) SaveJob(ctx context.Context, query string, job search.JobRecord) error {
	link := job.BestLink()
	if link == "" {
		return nil
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO jobs (query, company, title, location, description, url, via)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (url) DO UPDATE SET
    query = EXCLUDED.query,
    company = EXCLUDED.company,
    title = EXCLUDED.title,
    location = EXCLUDED.location,
    description = EXCLUDED.description,
    via = EXCLUDED.via,
    updated_at = NOW()
`, query, job.Company, job.Title, job.Location, job.Description, link, job.Via)
	return err
}

// SaveOutreach records one send attempt, mirroring the ledger row.
func (s *Store) SaveOutreach(ctx context.Context, e ledger.Entry) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO outreach (sent_at, company, role, recipient, status)
VALUES ($1, $2, $3, $4, $5)
`, e.Timestamp, e.Company, e.Role, e.Recipient, e.Status)
	return err
}
