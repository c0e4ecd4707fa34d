package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useTempHome(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("WIKIDICT_HOME", dir)
	return dir
}

func TestLoadMergedIgnoreConfig(t *testing.T) {
	useTempHome(t)

	cfg, used, err := LoadMerged(Options{IgnoreConfig: true, Workers: 3, Language: "Spanish"})
	require.NoError(t, err)

	assert.Equal(t, "(ignored config)", used)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, 20, cfg.MaxRounds)
	assert.Equal(t, "==Spanish==", cfg.LanguageMarker())
	assert.Contains(t, cfg.BackSections, "Etymology")
	assert.Equal(t, []int{8, 9, 10, 11, 12, 19, 20, 24}, cfg.ConjugationRows)
}

func TestLoadMergedWithoutProfileReadsEnv(t *testing.T) {
	useTempHome(t)
	t.Setenv("WIKIDICT_MAX_ROUNDS", "5")
	t.Setenv("WIKIDICT_LANGUAGE", "Italian")

	cfg, _, err := LoadMerged(Options{})
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.MaxRounds)
	assert.Equal(t, "Italian", cfg.Language)
	assert.Equal(t, 8, cfg.Workers)
}

func TestProfileLifecycle(t *testing.T) {
	useTempHome(t)

	path, err := CreateProfile("fr", "French")
	require.NoError(t, err)
	require.FileExists(t, path)

	_, err = CreateProfile("fr", "French")
	require.Error(t, err)

	require.NoError(t, SwitchProfile("fr"))
	require.Error(t, SwitchProfile("missing"))

	active, err := ActiveConfigPath()
	require.NoError(t, err)
	assert.Equal(t, path, active)

	list, err := ListProfiles()
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].Active)
	assert.Equal(t, "fr", list[0].Label)

	cfg, used, err := LoadMerged(Options{Workers: 2})
	require.NoError(t, err)
	assert.Equal(t, path, used)
	assert.Equal(t, "raw_french.db", cfg.RawDB)
	assert.Equal(t, 2, cfg.Workers)
}

func TestLoadFileOverlaysDefaults(t *testing.T) {
	useTempHome(t)

	path := filepath.Join(t.TempDir(), "custom.yaml")
	data := []byte("language: German\nworkers: 16\nfetch_timeout: 45s\nback_sections:\n  - Etymology\n")
	require.NoError(t, os.WriteFile(path, data, 0644))

	cfg, err := LoadFile(path, Options{})
	require.NoError(t, err)

	assert.Equal(t, "German", cfg.Language)
	assert.Equal(t, 16, cfg.Workers)
	assert.Equal(t, 45*time.Second, cfg.FetchTimeout)
	assert.Equal(t, []string{"Etymology"}, cfg.BackSections)
	assert.Equal(t, "https://en.wiktionary.org/w/index.php", cfg.BaseURL)
}

func TestRenameRemoveResetProfile(t *testing.T) {
	useTempHome(t)

	path, err := CreateProfile("es", "Spanish")
	require.NoError(t, err)
	require.NoError(t, SwitchProfile("es"))

	require.NoError(t, os.WriteFile(path, []byte("language: Spanish\nraw_db: raw_spanish.db\ndict_db: spanish.db\nworkers: 2\n"), 0644))

	_, err = ResetProfile("es")
	require.NoError(t, err)
	cfg, err := LoadFile(path, Options{})
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, "Spanish", cfg.Language)
	assert.Equal(t, "spanish.db", cfg.DictDB)

	require.NoError(t, RenameProfile("es", "castellano"))
	label, err := CurrentLabel()
	require.NoError(t, err)
	assert.Equal(t, "castellano", label)
	assert.NoFileExists(t, path)

	require.Error(t, RemoveProfile("castellano", false))
	require.NoError(t, RemoveProfile("castellano", true))

	_, err = CurrentLabel()
	require.ErrorIs(t, err, ErrNoConfig)
	list, err := ListProfiles()
	require.NoError(t, err)
	assert.Empty(t, list)
}
