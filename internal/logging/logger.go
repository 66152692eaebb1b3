// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package logging

import (
	"database/sql"
	"io"
	"log/slog"
	"strings"
)

// Options configures New.
type Options struct {
	Level      string // debug, info, warn, error
	JSON       bool   // JSON output instead of text
	Output     io.Writer
	EventLogDB *sql.DB // when set, WARN and above are persisted
}

// ParseLevel maps a level name to a slog.Level. Unknown names yield info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New builds the application logger.
func New(opts Options) *slog.Logger {
	handlerOpts := &slog.HandlerOptions{Level: ParseLevel(opts.Level)}

	var h slog.Handler
	if opts.JSON {
		h = slog.NewJSONHandler(opts.Output, handlerOpts)
	} else {
		h = slog.NewTextHandler(opts.Output, handlerOpts)
	}

	if opts.EventLogDB != nil {
		h = NewEventLogHandler(h, opts.EventLogDB)
	}

	return slog.New(h)
}
