package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alkime/passthru/internal/config"
)

// Level picks the log level from the environment settings.
func Level(cfg *config.Config) slog.Level {
	logLevel := slog.LevelInfo
	if cfg.Env == config.EnvDevelopment {
		logLevel = slog.LevelDebug
	}
	if cfg.LogLevel == "debug" {
		logLevel = slog.LevelDebug
	}

	return logLevel
}

// SetupLogger installs a text logger on w as the default.
// Used by the one-shot CLI commands.
func SetupLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	//nolint:exhaustruct // Using default values for other HandlerOptions fields
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: Level(cfg),
	})

	logger := slog.New(handler)
	slog.SetDefault(logger)

	return logger
}

// SetupFileLogger installs a JSON logger writing to cfg.LogFile as the
// default. The terminal belongs to the TUI while it runs, so nothing may be
// written to stdout. The returned closer flushes and closes the file.
func SetupFileLogger(cfg *config.Config) (*slog.Logger, io.Closer, error) {
	//nolint:gosec // log path comes from local configuration
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file %s: %w", cfg.LogFile, err)
	}

	//nolint:exhaustruct // Using default values for other HandlerOptions fields
	handler := slog.NewJSONHandler(f, &slog.HandlerOptions{
		Level: Level(cfg),
	})

	logger := slog.New(handler)
	slog.SetDefault(logger)

	return logger, f, nil
}
