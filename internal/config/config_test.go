package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)

	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, StoreJSON, cfg.Store)
	assert.Equal(t, DefaultDataFile, cfg.DataFile)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
}

func TestLoadFromTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todofile.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
port = 8080
store = "sqlite"
sqlite = "/var/lib/todofile/todos.db"
log_level = "debug"
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, StoreSQLite, cfg.Store)
	assert.Equal(t, "/var/lib/todofile/todos.db", cfg.SQLite)
	assert.Equal(t, "debug", cfg.LogLevel)
	// Unset keys keep their defaults.
	assert.Equal(t, DefaultUploadDir, cfg.UploadDir)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("TODOFILE_PORT", "9999")
	t.Setenv("TODOFILE_UPLOAD_DIR", "/tmp/up")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.Port)
	assert.Equal(t, "/tmp/up", cfg.UploadDir)
}

func TestValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")

	require.NoError(t, os.WriteFile(path, []byte(`port = 0`), 0644))
	_, err := Load(path)
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte(`store = "postgres"`), 0644))
	_, err = Load(path)
	assert.Error(t, err)
}

func TestLoadBadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.toml")
	require.NoError(t, os.WriteFile(path, []byte(`port = [`), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}
