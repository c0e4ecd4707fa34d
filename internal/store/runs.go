package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Run summarises one crawl. Abandoned keys are kept in the failures table
// so a later crawl can retry just those.
type Run struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Rounds     int
	Keys       int
	Fetched    int
	Abandoned  []string
}

// RecordRun stores r and its abandoned keys, assigning an ID when r has
// none. It returns the ID used.
func (s *Store) RecordRun(ctx context.Context, r Run) (id string, err error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", wrap("begin run", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `INSERT INTO runs (id, started_at, finished_at, rounds, keys, fetched, abandoned)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.StartedAt.UTC().Format(time.RFC3339), r.FinishedAt.UTC().Format(time.RFC3339),
		r.Rounds, r.Keys, r.Fetched, len(r.Abandoned),
	); err != nil {
		return "", wrap("insert run", err)
	}

	for _, name := range r.Abandoned {
		if _, err = tx.ExecContext(ctx, `INSERT OR IGNORE INTO failures (run_id, name) VALUES (?, ?)`, r.ID, name); err != nil {
			return "", wrap("insert failure", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return "", wrap("commit run", err)
	}
	return r.ID, nil
}

// LastRun returns the most recently finished run with its abandoned keys.
func (s *Store) LastRun(ctx context.Context) (Run, bool, error) {
	var (
		r                 Run
		started, finished string
		abandoned         int
	)
	err := s.db.QueryRowContext(ctx, `SELECT id, started_at, finished_at, rounds, keys, fetched, abandoned
		FROM runs ORDER BY finished_at DESC, rowid DESC LIMIT 1`).
		Scan(&r.ID, &started, &finished, &r.Rounds, &r.Keys, &r.Fetched, &abandoned)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, false, nil
	}
	if err != nil {
		return Run{}, false, wrap("last run", err)
	}

	r.StartedAt, _ = time.Parse(time.RFC3339, started)
	r.FinishedAt, _ = time.Parse(time.RFC3339, finished)

	r.Abandoned, err = s.failures(ctx, r.ID)
	if err != nil {
		return Run{}, false, err
	}
	return r, true, nil
}

func (s *Store) failures(ctx context.Context, runID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM failures WHERE run_id = ? ORDER BY name`, runID)
	if err != nil {
		return nil, wrap("failures", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, wrap("failures", err)
		}
		out = append(out, name)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("iterate failures", err)
	}
	return out, nil
}
