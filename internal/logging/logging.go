// Package logging builds the stderr logger with charmbracelet/log.
package logging

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"todo/internal/config"
)

// New returns a logger writing to w at the level from cfg.
// --debug forces debug level; --quiet raises the floor to error.
func New(w io.Writer, cfg *config.Config) *log.Logger {
	level := ParseLevel(cfg.Settings.Log.Level)
	switch {
	case cfg.Debug:
		level = log.DebugLevel
	case cfg.Quiet && level < log.ErrorLevel:
		level = log.ErrorLevel
	}

	return log.NewWithOptions(w, log.Options{
		Level:           level,
		Formatter:       ParseFormatter(cfg.Settings.Log.Format),
		ReportTimestamp: cfg.Debug,
		Prefix:          config.AppName,
	})
}

// ParseLevel converts a level name to a log.Level. Unknown names map to warn.
func ParseLevel(level string) log.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DebugLevel
	case "info":
		return log.InfoLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.WarnLevel
	}
}

// ParseFormatter converts a format name to a log.Formatter. Unknown names map
// to text.
func ParseFormatter(format string) log.Formatter {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		return log.JSONFormatter
	case "logfmt":
		return log.LogfmtFormatter
	default:
		return log.TextFormatter
	}
}
