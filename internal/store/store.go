// Package store keeps raw articles, cleaned entries, conjugations and crawl
// runs in SQLite.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"
)

// ErrStorage wraps every failure of this package.
var ErrStorage = errors.New("storage error")

func wrap(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrStorage, op, err)
}

type Store struct {
	db   *sql.DB
	path string

	// mu serialises writers; SQLite allows one at a time anyway and this
	// keeps busy errors away from the workers.
	mu sync.Mutex
}

func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, wrap("create db dir", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, wrap("open sqlite", err)
	}

	s := &Store{db: db, path: path}
	if err := s.configure(); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := s.initSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Path() string { return s.path }

func (s *Store) configure() error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	}
	for _, p := range pragmas {
		if _, err := s.db.Exec(p); err != nil {
			return wrap(fmt.Sprintf("pragma %q", p), err)
		}
	}
	return nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	if err := s.db.Close(); err != nil {
		return wrap("close", err)
	}
	return nil
}

func (s *Store) initSchema() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS raw_words (
			name TEXT NOT NULL PRIMARY KEY,
			definition TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_raw_words_name ON raw_words(name COLLATE NOCASE)`,
		`CREATE TABLE IF NOT EXISTS words (
			name TEXT NOT NULL PRIMARY KEY,
			definition TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_words_name ON words(name COLLATE NOCASE)`,
		`CREATE TABLE IF NOT EXISTS conjugations (
			name TEXT NOT NULL PRIMARY KEY,
			present_indicative TEXT NOT NULL,
			imperfect_indicative TEXT NOT NULL,
			past_historic TEXT NOT NULL,
			simple_future TEXT NOT NULL,
			present_subjunctive TEXT NOT NULL,
			imperfect_subjunctive TEXT NOT NULL,
			conditional TEXT NOT NULL,
			imperative TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_conjugations_name ON conjugations(name COLLATE NOCASE)`,
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT NOT NULL PRIMARY KEY,
			started_at TEXT NOT NULL,
			finished_at TEXT NOT NULL,
			rounds INTEGER NOT NULL,
			keys INTEGER NOT NULL,
			fetched INTEGER NOT NULL,
			abandoned INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS failures (
			run_id TEXT NOT NULL REFERENCES runs(id),
			name TEXT NOT NULL,
			PRIMARY KEY (run_id, name)
		)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return wrap("init schema", err)
		}
	}
	return nil
}
