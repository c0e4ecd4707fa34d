package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/brogergvhs/wikidict/internal/conjugation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "sub", "dict.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestPutUpsertsSingleRow(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	raw := s.Raw()

	require.NoError(t, raw.Put(ctx, "chat", []byte("v1")))
	require.NoError(t, raw.Put(ctx, "chat", []byte("v2")))

	n, err := raw.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	e, ok, err := raw.Get(ctx, "chat")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "v2", e.Definition)

	_, ok, err = raw.Get(ctx, "chien")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTablesAreSeparate(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()

	require.NoError(t, s.Raw().Put(ctx, "chat", []byte("<div>raw</div>")))

	n, err := s.Words().Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestLookupIgnoresCase(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	words := s.Words()

	require.NoError(t, words.PutString(ctx, "Paris", "capital"))
	require.NoError(t, words.PutString(ctx, "paris", "plural of pari"))

	got, err := words.Lookup(ctx, "PARIS")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Paris", got[0].Name)
	assert.Equal(t, "paris", got[1].Name)
}

func TestScanOrderAndStop(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	words := s.Words()

	for _, w := range []string{"c", "a", "b"} {
		require.NoError(t, words.PutString(ctx, w, w+"!"))
	}

	var seen []string
	require.NoError(t, words.Scan(ctx, func(e Entry) error {
		seen = append(seen, e.Name)
		return nil
	}))
	assert.Equal(t, []string{"a", "b", "c"}, seen)

	names, err := words.Names(ctx)
	require.NoError(t, err)
	assert.Equal(t, seen, names)

	stop := errors.New("stop")
	err = words.Scan(ctx, func(Entry) error { return stop })
	require.ErrorIs(t, err, stop)
}

func TestConcurrentPuts(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	raw := s.Raw()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				assert.NoError(t, raw.Put(ctx, fmt.Sprintf("w%d-%d", i, j), []byte("x")))
			}
		}(i)
	}
	wg.Wait()

	n, err := raw.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 80, n)
}

func TestPutConjugations(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()

	row := conjugation.Row{Infinitive: "manger"}
	row.Tenses[conjugation.PresentIndicative] = "mange|manges|mange|mangeons|mangez|mangent"
	row.Tenses[conjugation.Imperative] = "|mange||mangeons|mangez|"

	require.NoError(t, s.PutConjugations(ctx, []conjugation.Row{row}))

	row.Tenses[conjugation.Conditional] = "mangerais|||||"
	require.NoError(t, s.PutConjugations(ctx, []conjugation.Row{row}))

	got, ok, err := s.Conjugation(ctx, "manger")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, row, got)

	n, err := s.CountConjugations(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestRecordRun(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()

	_, ok, err := s.LastRun(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	id, err := s.RecordRun(ctx, Run{
		StartedAt:  start,
		FinishedAt: start.Add(time.Minute),
		Rounds:     3,
		Keys:       10,
		Fetched:    8,
		Abandoned:  []string{"zut", "bof"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	last, ok, err := s.LastRun(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, id, last.ID)
	assert.Equal(t, 3, last.Rounds)
	assert.Equal(t, 8, last.Fetched)
	assert.Equal(t, start.Add(time.Minute), last.FinishedAt)
	assert.Equal(t, []string{"bof", "zut"}, last.Abandoned)
}

func TestErrorsWrapErrStorage(t *testing.T) {
	s := openTemp(t)
	require.NoError(t, s.Close())

	err := s.Words().PutString(context.Background(), "x", "y")
	require.ErrorIs(t, err, ErrStorage)
}
