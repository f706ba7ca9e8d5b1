package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "postgres", cfg.Storage.Driver)
	assert.Equal(t, []string{"bookmarks"}, cfg.Storage.Collections)
	assert.Equal(t, "none", cfg.Cache.Driver)
	assert.Equal(t, "Category", cfg.Query.CategoryField)
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	content := []byte(`
server:
  addr: ":9090"
storage:
  driver: memory
  collections: [bookmarks, notes]
cache:
  driver: memory
  ttl: 30s
database:
  host: db.internal
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), content, 0o600))
	t.Setenv("BOOKMARKS_DATABASE_HOST", "from-env")
	t.Setenv("BOOKMARKS_LOG_LEVEL", "debug")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.Equal(t, []string{"bookmarks", "notes"}, cfg.Storage.Collections)
	assert.Equal(t, 30*time.Second, cfg.Cache.TTL)
	assert.Equal(t, "from-env", cfg.Database.Host)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadRejectsInvalidDrivers(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("storage:\n  driver: sqlite\n"), 0o600))

	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "storage.driver")
}
