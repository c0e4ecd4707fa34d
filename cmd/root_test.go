package cmd

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brogergvhs/wikidict/internal/store"
)

type closer struct {
	err    error
	closed bool
}

func (c *closer) Close() error {
	c.closed = true
	return c.err
}

func TestCloseOnExit(t *testing.T) {
	errWAL := errors.New("wal checkpoint failed")
	errEarlier := errors.New("export failed")

	tests := []struct {
		name     string
		closeErr error
		before   error
		want     error
	}{
		{name: "clean close", closeErr: nil, before: nil, want: nil},
		{name: "close failure is returned", closeErr: errWAL, before: nil, want: errWAL},
		{name: "earlier error wins", closeErr: errWAL, before: errEarlier, want: errEarlier},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &closer{err: tt.closeErr}
			run := func() (err error) {
				defer closeOnExit(c, &err)
				return tt.before
			}

			err := run()
			assert.True(t, c.closed)
			assert.Equal(t, tt.want, err)
		})
	}
}

func TestRunExportWritesFile(t *testing.T) {
	t.Setenv("WIKIDICT_HOME", t.TempDir())
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "dict.db")

	db, err := store.Open(dbPath)
	require.NoError(t, err)
	require.NoError(t, db.Words().PutString(context.Background(), "chat", "<p><b>chat</b> cat</p>"))
	require.NoError(t, db.Close())

	out := filepath.Join(dir, "dict.jsonl")
	flagExportDictDB, flagExportOutput = dbPath, out
	t.Cleanup(func() { flagExportDictDB, flagExportOutput = "", "-" })

	require.NoError(t, runExport(nil, nil))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"word":"chat"`)
	assert.Contains(t, string(data), "**chat** cat")
}
