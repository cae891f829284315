package config

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("RESEARCH_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("RESEARCH_SERVER_URL", "")
	t.Setenv("RESEARCH_CLIENT_TIMEOUT", "")
	t.Setenv("RESEARCH_LOG_LEVEL", "")
	t.Setenv("RESEARCH_LOG_FILE", "")

	cfg := Load()

	assert.Equal(t, "http://localhost:8000", cfg.ServerURL)
	assert.Equal(t, 10*time.Minute, cfg.ClientTimeout)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"server_url: http://research.local:9000\nlog_level: DEBUG\nclient_timeout: 30s\n",
	), 0644))
	t.Setenv("RESEARCH_CONFIG", path)
	t.Setenv("RESEARCH_SERVER_URL", "")
	t.Setenv("RESEARCH_CLIENT_TIMEOUT", "")
	t.Setenv("RESEARCH_LOG_LEVEL", "")

	cfg := Load()

	assert.Equal(t, "http://research.local:9000", cfg.ServerURL)
	assert.Equal(t, 30*time.Second, cfg.ClientTimeout)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server_url: http://from-file:9000\n"), 0644))
	t.Setenv("RESEARCH_CONFIG", path)
	t.Setenv("RESEARCH_SERVER_URL", "http://from-env:9001")
	t.Setenv("RESEARCH_CLIENT_TIMEOUT", "5m")
	t.Setenv("RESEARCH_LOG_LEVEL", "warn")

	cfg := Load()

	assert.Equal(t, "http://from-env:9001", cfg.ServerURL)
	assert.Equal(t, 5*time.Minute, cfg.ClientTimeout)
	assert.Equal(t, slog.LevelWarn, cfg.LogLevel)
}

func TestBrokenConfigFileFallsBackToDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{not yaml: ["), 0644))
	t.Setenv("RESEARCH_CONFIG", path)
	t.Setenv("RESEARCH_SERVER_URL", "")

	cfg := Load()

	assert.Equal(t, "http://localhost:8000", cfg.ServerURL)
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLogLevel("debug"))
	assert.Equal(t, slog.LevelWarn, parseLogLevel("WARNING"))
	assert.Equal(t, slog.LevelError, parseLogLevel("ERROR"))
	assert.Equal(t, slog.LevelInfo, parseLogLevel("bogus"))
}

func TestSetupLoggerWithWritersFansOut(t *testing.T) {
	var stderr, file bytes.Buffer
	logger := SetupLoggerWithWriters(&stderr, &file, slog.LevelInfo)

	logger.Info("stream started", "conversation_id", "conv-1")

	assert.Contains(t, stderr.String(), "stream started")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(file.Bytes(), &entry))
	assert.Equal(t, "stream started", entry["msg"])
	assert.Equal(t, "conv-1", entry["conversation_id"])
}
