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

func TestLoad_Defaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("ROUTINE_CONFIG", filepath.Join(home, "missing.yaml"))
	t.Setenv("ROUTINE_DB", "")
	t.Setenv("ROUTINE_LOG_LEVEL", "")
	t.Setenv("ROUTINE_LOG_FORMAT", "")
	t.Setenv("ROUTINE_LOG_USE_CASES", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".routine", "routine.db"), cfg.DBPath)
	assert.Equal(t, slog.LevelWarn, cfg.Level())
	assert.Equal(t, FormatText, cfg.LogFormat)
	assert.False(t, cfg.LogUseCases)
}

func TestLoad_FileThenEnv(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	path := filepath.Join(home, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("db_path: ~/data/r.db\nlog_level: debug\nlog_use_cases: true\n"), 0o644))
	t.Setenv("ROUTINE_CONFIG", path)
	t.Setenv("ROUTINE_DB", "")
	t.Setenv("ROUTINE_LOG_LEVEL", "error")
	t.Setenv("ROUTINE_LOG_FORMAT", "json")
	t.Setenv("ROUTINE_LOG_USE_CASES", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "data", "r.db"), cfg.DBPath)
	assert.Equal(t, slog.LevelError, cfg.Level(), "env overrides the file")
	assert.Equal(t, FormatJSON, cfg.LogFormat)
	assert.True(t, cfg.LogUseCases)
}

func TestLoad_BadYAML(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	path := filepath.Join(home, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("db_path: [unterminated"), 0o644))
	t.Setenv("ROUTINE_CONFIG", path)

	_, err := Load()
	assert.Error(t, err)
}

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Config{LogLevel: "info", LogFormat: FormatJSON}, &buf)

	logger.Debug("hidden")
	logger.Info("shown", "step", 2)

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"step":2`)
}

func TestNewLogger_TextWhenNotTerminal(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Config{LogLevel: "warn"}, &buf)

	logger.Warn("careful")
	assert.Contains(t, buf.String(), "level=WARN")
}
