package server

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("listen: \":8088\"\ndatabase_url: postgres://db/plans\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, ":8088", cfg.Listen)
	assert.Equal(t, "postgres://db/plans", cfg.DatabaseURL)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://env/plans")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, ":3000", cfg.Listen)
	assert.Equal(t, "postgres://env/plans", cfg.DatabaseURL)
}

func TestLoadConfigMissingDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	_, err := LoadConfig("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database_url")
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}
