package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

var logger = slog.Default()

// parseLogLevel maps a level name to its slog level
func parseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", level)
}

// newLogger builds a text or json logger writing to w
func newLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	slogLevel, err := parseLogLevel(level)
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{
		Level:     slogLevel,
		AddSource: slogLevel == slog.LevelDebug,
	}

	var handler slog.Handler
	switch strings.ToLower(format) {
	case "", "text":
		handler = slog.NewTextHandler(w, opts)
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}

	return slog.New(handler), nil
}

// initLogger installs the package logger, writing to stderr
func initLogger(level, format string) error {
	l, err := newLogger(os.Stderr, level, format)
	if err != nil {
		return err
	}
	logger = l
	slog.SetDefault(logger)
	return nil
}
