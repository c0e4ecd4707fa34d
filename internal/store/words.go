package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Entry is one stored article body.
type Entry struct {
	Name       string
	Definition string
}

// Table is a name -> definition table: raw fetched articles or cleaned
// entries.
type Table struct {
	s    *Store
	name string
}

// Raw holds content roots exactly as fetched.
func (s *Store) Raw() Table { return Table{s: s, name: "raw_words"} }

// Words holds cleaned entries.
func (s *Store) Words() Table { return Table{s: s, name: "words"} }

// Put upserts one entry. The signature matches crawler.Sink.
func (t Table) Put(ctx context.Context, name string, body []byte) error {
	return t.PutString(ctx, name, string(body))
}

func (t Table) PutString(ctx context.Context, name, definition string) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	q := fmt.Sprintf(`INSERT INTO %s (name, definition) VALUES (?, ?)
		ON CONFLICT(name) DO UPDATE SET definition = excluded.definition`, t.name)
	if _, err := t.s.db.ExecContext(ctx, q, name, definition); err != nil {
		return wrap("put "+t.name, err)
	}
	return nil
}

// Get returns the entry stored under exactly name.
func (t Table) Get(ctx context.Context, name string) (Entry, bool, error) {
	q := fmt.Sprintf(`SELECT name, definition FROM %s WHERE name = ?`, t.name)

	var e Entry
	err := t.s.db.QueryRowContext(ctx, q, name).Scan(&e.Name, &e.Definition)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, wrap("get "+t.name, err)
	}
	return e, true, nil
}

// Lookup matches name case-insensitively; "Paris" and "paris" are distinct
// entries and both come back.
func (t Table) Lookup(ctx context.Context, name string) ([]Entry, error) {
	q := fmt.Sprintf(`SELECT name, definition FROM %s WHERE name = ? COLLATE NOCASE ORDER BY name`, t.name)

	rows, err := t.s.db.QueryContext(ctx, q, name)
	if err != nil {
		return nil, wrap("lookup "+t.name, err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Name, &e.Definition); err != nil {
			return nil, wrap("scan "+t.name, err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("iterate "+t.name, err)
	}
	return out, nil
}

func (t Table) Count(ctx context.Context) (int, error) {
	var n int
	if err := t.s.db.QueryRowContext(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM %s`, t.name)).Scan(&n); err != nil {
		return 0, wrap("count "+t.name, err)
	}
	return n, nil
}

// Names lists every key in name order.
func (t Table) Names(ctx context.Context) ([]string, error) {
	rows, err := t.s.db.QueryContext(ctx, fmt.Sprintf(`SELECT name FROM %s ORDER BY name`, t.name))
	if err != nil {
		return nil, wrap("names "+t.name, err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, wrap("names "+t.name, err)
		}
		out = append(out, name)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("iterate "+t.name, err)
	}
	return out, nil
}

// Scan streams entries in name order. An error from fn stops the scan and
// is returned unchanged.
func (t Table) Scan(ctx context.Context, fn func(Entry) error) error {
	rows, err := t.s.db.QueryContext(ctx, fmt.Sprintf(`SELECT name, definition FROM %s ORDER BY name`, t.name))
	if err != nil {
		return wrap("scan "+t.name, err)
	}
	defer rows.Close()

	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Name, &e.Definition); err != nil {
			return wrap("scan "+t.name, err)
		}
		if err := fn(e); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return wrap("iterate "+t.name, err)
	}
	return nil
}
