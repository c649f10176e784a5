package logger_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/alkime/passthru/internal/config"
	"github.com/alkime/passthru/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, slog.LevelInfo, logger.Level(&config.Config{Env: "production", LogLevel: "info"}))
	assert.Equal(t, slog.LevelDebug, logger.Level(&config.Config{Env: config.EnvDevelopment}))
	assert.Equal(t, slog.LevelDebug, logger.Level(&config.Config{Env: "production", LogLevel: "debug"}))
}

//nolint:paralleltest // replaces the default slog logger
func TestSetupLogger(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	logger.SetupLogger(&config.Config{LogLevel: "info"}, &buf)

	slog.Debug("hidden")
	slog.Info("audio device opened", "name", "Test Device")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `name="Test Device"`)
}

//nolint:paralleltest // replaces the default slog logger
func TestSetupFileLogger(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	path := filepath.Join(t.TempDir(), "passthru.log")

	_, closer, err := logger.SetupFileLogger(&config.Config{LogFile: path, LogLevel: "debug"})
	require.NoError(t, err)

	slog.Debug("device change notification dropped", "error", "channel full")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(data), &entry))
	assert.Equal(t, "device change notification dropped", entry["msg"])
	assert.Equal(t, "DEBUG", entry["level"])
}

func TestSetupFileLogger_BadPath(t *testing.T) {
	t.Parallel()

	_, _, err := logger.SetupFileLogger(&config.Config{LogFile: filepath.Join(t.TempDir(), "missing", "x.log")})
	assert.Error(t, err)
}
