package main

import (
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/pthm-cable/redwood/config"
)

// newLogger builds the JSON logger. Output always goes to stdout; when a log
// file is configured it is also written there and rotated by size. The
// returned closer releases the file.
func newLogger(lc config.LogConfig) (*slog.Logger, io.Closer) {
	var w io.Writer = os.Stdout
	var closer io.Closer = nopCloser{}

	if lc.File != "" {
		fileWriter := &lumberjack.Logger{
			Filename:   lc.File,
			MaxSize:    lc.MaxSizeMB,
			MaxBackups: lc.MaxBackups,
			MaxAge:     lc.MaxAgeDays,
			Compress:   lc.Compress,
			LocalTime:  true, // Use local time in rotated filename
		}
		w = io.MultiWriter(os.Stdout, fileWriter)
		closer = fileWriter
	}

	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: parseLevel(lc.Level)})
	return slog.New(h), closer
}

// parseLevel converts a config level name to slog.Level, defaulting to info.
func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
