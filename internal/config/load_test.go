// internal/config/load_test.go
package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/embedarr/internal/batch"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_Valid(t *testing.T) {
	path := writeConfig(t, `
[database]
path = "/var/lib/embedarr/embedarr.db"

[batch.insert]
chunk_size = 25

[import]
default_language = "VF"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "/var/lib/embedarr/embedarr.db", cfg.Database.Path)
	assert.Equal(t, batch.Options{ChunkSize: 25, MaxConcurrentChunks: 1}, cfg.Batch.Insert.Options())
	assert.Equal(t, batch.Options{ChunkSize: 100, MaxConcurrentChunks: 3}, cfg.Batch.Delete.Options())
	assert.Equal(t, "vf", cfg.Import.DefaultLanguage)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_EnvSubstitution(t *testing.T) {
	t.Setenv("EMBEDARR_TEST_DSN", "postgres://u:p@db/embedarr")
	path := writeConfig(t, `
[database]
driver = "postgres"
dsn = "${EMBEDARR_TEST_DSN}"

[log]
level = "${EMBEDARR_TEST_LEVEL_UNSET:-warn}"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "postgres://u:p@db/embedarr", cfg.Database.DSN)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoad_MissingEnvVar(t *testing.T) {
	path := writeConfig(t, `
[database]
driver = "postgres"
dsn = "${EMBEDARR_TEST_MISSING_DSN}"
`)

	_, err := Load(path)
	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr), "expected *ConfigError, got %T", err)
	assert.Equal(t, []string{"EMBEDARR_TEST_MISSING_DSN"}, cfgErr.Missing)
	assert.Contains(t, err.Error(), "EMBEDARR_TEST_MISSING_DSN")
}

func TestLoad_ValidationError(t *testing.T) {
	path := writeConfig(t, `
[database]
driver = "mysql"

[batch.delete]
chunk_size = 5000
`)

	_, err := Load(path)
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Len(t, cfgErr.Errors, 2)
	assert.Contains(t, err.Error(), "database.driver")
	assert.Contains(t, err.Error(), "batch.delete.chunk_size")
}

func TestLoad_BadTOML(t *testing.T) {
	path := writeConfig(t, "[database\n")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config")
}

func TestLoad_NoFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
