package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/brogergvhs/wikidict/internal/conjugation"
)

// PutConjugations replaces the rows for every infinitive in rows in a
// single transaction.
func (s *Store) PutConjugations(ctx context.Context, rows []conjugation.Row) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return wrap("begin conjugations", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO conjugations (
			name, present_indicative, imperfect_indicative, past_historic, simple_future,
			present_subjunctive, imperfect_subjunctive, conditional, imperative
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			present_indicative = excluded.present_indicative,
			imperfect_indicative = excluded.imperfect_indicative,
			past_historic = excluded.past_historic,
			simple_future = excluded.simple_future,
			present_subjunctive = excluded.present_subjunctive,
			imperfect_subjunctive = excluded.imperfect_subjunctive,
			conditional = excluded.conditional,
			imperative = excluded.imperative`)
	if err != nil {
		return wrap("prepare conjugations", err)
	}
	defer stmt.Close()

	for _, r := range rows {
		t := r.Tenses
		if _, err = stmt.ExecContext(ctx, r.Infinitive,
			t[conjugation.PresentIndicative], t[conjugation.ImperfectIndicative],
			t[conjugation.PastHistoric], t[conjugation.SimpleFuture],
			t[conjugation.PresentSubjunctive], t[conjugation.ImperfectSubjunctive],
			t[conjugation.Conditional], t[conjugation.Imperative],
		); err != nil {
			return wrap("put conjugation "+r.Infinitive, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return wrap("commit conjugations", err)
	}
	return nil
}

func (s *Store) Conjugation(ctx context.Context, infinitive string) (conjugation.Row, bool, error) {
	row := conjugation.Row{Infinitive: infinitive}
	t := &row.Tenses

	err := s.db.QueryRowContext(ctx, `SELECT
			present_indicative, imperfect_indicative, past_historic, simple_future,
			present_subjunctive, imperfect_subjunctive, conditional, imperative
		FROM conjugations WHERE name = ?`, infinitive).Scan(
		&t[conjugation.PresentIndicative], &t[conjugation.ImperfectIndicative],
		&t[conjugation.PastHistoric], &t[conjugation.SimpleFuture],
		&t[conjugation.PresentSubjunctive], &t[conjugation.ImperfectSubjunctive],
		&t[conjugation.Conditional], &t[conjugation.Imperative],
	)
	if errors.Is(err, sql.ErrNoRows) {
		return conjugation.Row{}, false, nil
	}
	if err != nil {
		return conjugation.Row{}, false, wrap("get conjugation", err)
	}
	return row, true, nil
}

func (s *Store) CountConjugations(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM conjugations`).Scan(&n); err != nil {
		return 0, wrap("count conjugations", err)
	}
	return n, nil
}
