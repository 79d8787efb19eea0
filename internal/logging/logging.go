// Package logging configures the process-wide slog logger.
//
// The terminal belongs to the UI, so records always go to a file (or are
// discarded when no file is configured).
package logging

import (
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Options controls where and how much is logged
type Options struct {
	Level string // DEBUG, INFO, WARN or ERROR; anything else means INFO
	File  string // empty disables logging
}

// Setup installs a text handler writing to opts.File as the slog default
// and points the standard log package at the same file. The returned close
// func must be called on exit.
func Setup(opts Options) (*slog.Logger, func() error, error) {
	if opts.File == "" {
		logger := Discard()
		slog.SetDefault(logger)
		return logger, func() error { return nil }, nil
	}

	if dir := filepath.Dir(opts.File); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
		}
	}
	f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return nil, nil, fmt.Errorf("could not open log file: %w", err)
	}

	logger := New(f, opts.Level)
	slog.SetDefault(logger)
	log.SetOutput(f)
	return logger, f.Close, nil
}

// New builds a logger writing text records to w
func New(w io.Writer, level string) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)}))
}

// Discard returns a logger that drops everything
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ParseLevel converts a level name to slog.Level, defaulting to Info
func ParseLevel(level string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
