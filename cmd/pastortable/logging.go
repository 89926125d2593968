package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lox/pastortable/internal/config"
)

// setupLogger configures charmbracelet/log with console output on w
func setupLogger(w io.Writer, cfg *config.Config, debug bool) *log.Logger {
	level := cfg.LogLevel()
	if debug {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
	})
}

// setupFileLogger logs to the configured file so the TUI keeps the terminal.
// The caller closes the returned file.
func setupFileLogger(cfg *config.Config, debug bool) (*log.Logger, *os.File, error) {
	f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return setupLogger(f, cfg, debug), f, nil
}

