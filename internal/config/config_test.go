package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points config discovery at an empty directory and clears the
// variables Load reads.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	for _, key := range []string{
		"DEDUP_CONFIG", "DEDUP_SHORT_HASH_BYTES", "DEDUP_HASH_WIDTH", "DEDUP_STRATEGY",
		"DEDUP_PROGRESS_PERCENT", "DEDUP_LOG_FILE", "DEDUP_LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
	return dir
}

func writeConfig(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
	assert.Equal(t, int64(4096), cfg.ShortHashBytes)
	assert.Equal(t, 8, cfg.HashWidth)
	assert.Equal(t, "tiered", cfg.Strategy)
	assert.Equal(t, 5, cfg.ProgressPercent)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	require.NoError(t, cfg.Validate())
}

func TestLoadFileThenEnv(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "dedup", "config.yaml")
	writeConfig(t, path, `
short_hash_bytes: 0
hash_width: 2
strategy: sorted
log_level: debug
`)
	t.Setenv("DEDUP_HASH_WIDTH", "4")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, path, cfg.File)
	assert.Equal(t, int64(0), cfg.ShortHashBytes, "file overrides default")
	assert.Equal(t, 4, cfg.HashWidth, "env overrides file")
	assert.Equal(t, "sorted", cfg.Strategy)
	assert.Equal(t, 5, cfg.ProgressPercent, "absent key keeps default")
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
}

func TestLoadExplicitFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "custom.yaml")
	writeConfig(t, path, "progress_percent: 10\n")
	t.Setenv("DEDUP_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.ProgressPercent)

	t.Setenv("DEDUP_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
	_, err = Load()
	assert.ErrorIs(t, err, os.ErrNotExist, "a named file must exist")
}

func TestLoadErrors(t *testing.T) {
	dir := isolate(t)
	writeConfig(t, filepath.Join(dir, "dedup", "config.yaml"), "hash_width: [1\n")
	_, err := Load()
	assert.Error(t, err)

	isolate(t)
	t.Setenv("DEDUP_SHORT_HASH_BYTES", "lots")
	_, err = Load()
	assert.ErrorContains(t, err, "DEDUP_SHORT_HASH_BYTES")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"negative prefix", func(c *Config) { c.ShortHashBytes = -1 }},
		{"hash width", func(c *Config) { c.HashWidth = 3 }},
		{"strategy", func(c *Config) { c.Strategy = "random" }},
		{"progress zero", func(c *Config) { c.ProgressPercent = 0 }},
		{"progress over", func(c *Config) { c.ProgressPercent = 101 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.modify(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestSetupLoggerWithWriters(t *testing.T) {
	var stderr, file bytes.Buffer
	logger := SetupLoggerWithWriters(&stderr, &file, slog.LevelDebug, slog.LevelWarn)

	logger.Debug("tier decision", "path", "/a")
	logger.Warn("file modified since scan, skipped", "path", "/b")

	assert.NotContains(t, stderr.String(), "tier decision")
	assert.Contains(t, stderr.String(), "file modified since scan")
	assert.Contains(t, file.String(), `"msg":"tier decision"`)
	assert.Contains(t, file.String(), `"path":"/b"`)
}

func TestSetupLoggerFallsBackToStderr(t *testing.T) {
	logger, cleanup := SetupLogger(filepath.Join(t.TempDir(), "missing", "dir", "dedup.log"), slog.LevelInfo, slog.LevelInfo)
	require.NotNil(t, logger)
	assert.NoError(t, cleanup())
}
