package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/LeonardoCerv/scratch-space/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	var c config.Config

	assert.Equal(t, "plaintext", c.Language())
	assert.True(t, c.AutoSaveEnabled())
	assert.Equal(t, "1000", mustGet(t, &c, "autosave.delay_ms"))
	assert.Equal(t, config.DefaultMaxHistoryEntries, c.MaxHistoryEntries())
	assert.Equal(t, config.DefaultHistoryRetentionDays, c.HistoryRetentionDays())
	assert.Equal(t, config.DefaultMaxBackups, c.MaxBackups())
	assert.Equal(t, config.DefaultBackupRetentionDays, c.BackupRetentionDays())
	assert.True(t, c.RecoveryEnabled())
}

func mustGet(t *testing.T, c *config.Config, key string) string {
	t.Helper()
	v, err := c.Get(key)
	require.NoError(t, err)
	return v
}

func TestSetGet(t *testing.T) {
	var c config.Config

	require.NoError(t, c.Set("default_language", "markdown"))
	assert.Equal(t, "markdown", c.Language())

	require.NoError(t, c.Set("autosave.enabled", "false"))
	assert.False(t, c.AutoSaveEnabled())

	require.NoError(t, c.Set("history.max_entries", "25"))
	assert.Equal(t, 25, c.MaxHistoryEntries())

	require.NoError(t, c.Set("backup.interval_seconds", "5"))
	assert.Equal(t, "5", mustGet(t, &c, "backup.interval_seconds"))
}

func TestSetRejectsInvalid(t *testing.T) {
	var c config.Config

	assert.ErrorIs(t, c.Set("nope", "1"), config.ErrUnknownKey)
	assert.ErrorIs(t, c.Set("autosave.enabled", "maybe"), config.ErrInvalidValue)
	assert.ErrorIs(t, c.Set("autosave.delay_ms", "abc"), config.ErrInvalidValue)
	// Out of bounds caught by Validate
	assert.ErrorIs(t, c.Set("autosave.delay_ms", "1"), config.ErrInvalidValue)
	assert.ErrorIs(t, c.Set("history.retention_days", "0"), config.ErrInvalidValue)
	assert.ErrorIs(t, c.Set("default_language", "klingon"), config.ErrInvalidValue)
}

func TestValidKeysAllGettable(t *testing.T) {
	var c config.Config
	all := c.All()
	for _, k := range config.ValidKeys() {
		assert.Contains(t, all, k)
	}
}

func TestLoadScopeLocal(t *testing.T) {
	t.Chdir(t.TempDir())

	// No file: defaults, no error
	c, err := config.LoadScope(config.ScopeLocal)
	require.NoError(t, err)
	assert.Equal(t, "plaintext", c.Language())

	dir := filepath.Dir(config.LocalPath())
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(config.LocalPath(), []byte("default_language: go\nhistory:\n  max_entries: 10\n"), 0o644))

	c, err = config.LoadScope(config.ScopeLocal)
	require.NoError(t, err)
	assert.Equal(t, "go", c.Language())
	assert.Equal(t, 10, c.MaxHistoryEntries())
	assert.Equal(t, config.ScopeLocal, c.Scope())
}

func TestLoadScopeMalformed(t *testing.T) {
	t.Chdir(t.TempDir())

	require.NoError(t, os.MkdirAll(filepath.Dir(config.LocalPath()), 0o755))
	require.NoError(t, os.WriteFile(config.LocalPath(), []byte(":\tnot yaml"), 0o644))

	_, err := config.LoadScope(config.ScopeLocal)
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	t.Chdir(t.TempDir())

	var c config.Config
	require.NoError(t, c.Set("default_language", "python"))
	require.NoError(t, c.SaveScope(config.ScopeLocal))

	loaded, err := config.LoadScope(config.ScopeLocal)
	require.NoError(t, err)
	assert.Equal(t, "python", loaded.Language())
}
