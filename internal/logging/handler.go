// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package logging builds the application logger and provides a slog handler
// that persists WARN and above to the event_log table.
package logging

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/olegiv/portfolio-api/internal/store"
)

// Event log levels.
const (
	LevelInfo    = "info"
	LevelWarning = "warning"
	LevelError   = "error"
)

// Event log categories.
const (
	CategorySystem  = "system"
	CategoryAuth    = "auth"
	CategoryUpload  = "upload"
	CategoryContent = "content"
	CategoryContact = "contact"
	CategoryConfig  = "config"
	CategoryCache   = "cache"
)

// eventWriter is the subset of store.Queries the handler needs.
type eventWriter interface {
	CreateEventLog(ctx context.Context, arg store.CreateEventLogParams) error
}

// EventLogHandler is a slog.Handler that wraps another handler and also writes
// records at or above a threshold to the event log.
type EventLogHandler struct {
	inner  slog.Handler
	writer eventWriter
	level  slog.Level
	attrs  []slog.Attr
}

// NewEventLogHandler creates a new EventLogHandler that wraps the given handler.
// Logs at WARN level and above will be written to both the wrapped handler and the event log.
func NewEventLogHandler(inner slog.Handler, db *sql.DB) *EventLogHandler {
	return NewEventLogHandlerWithLevel(inner, db, slog.LevelWarn)
}

// NewEventLogHandlerWithLevel creates a new EventLogHandler with a custom minimum level.
func NewEventLogHandlerWithLevel(inner slog.Handler, db *sql.DB, level slog.Level) *EventLogHandler {
	return &EventLogHandler{
		inner:  inner,
		writer: store.New(db),
		level:  level,
	}
}

// Enabled implements slog.Handler.
func (h *EventLogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *EventLogHandler) Handle(ctx context.Context, r slog.Record) error {
	if err := h.inner.Handle(ctx, r); err != nil {
		return err
	}

	if r.Level >= h.level {
		h.writeToEventLog(ctx, r)
	}

	return nil
}

// WithAttrs implements slog.Handler.
func (h *EventLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &EventLogHandler{
		inner:  h.inner.WithAttrs(attrs),
		writer: h.writer,
		level:  h.level,
		attrs:  merged,
	}
}

// WithGroup implements slog.Handler.
func (h *EventLogHandler) WithGroup(name string) slog.Handler {
	return &EventLogHandler{
		inner:  h.inner.WithGroup(name),
		writer: h.writer,
		level:  h.level,
		attrs:  h.attrs,
	}
}

// writeToEventLog writes a log record to the event log. Failures are ignored.
func (h *EventLogHandler) writeToEventLog(ctx context.Context, r slog.Record) {
	fields := make(map[string]string, r.NumAttrs()+len(h.attrs))
	for _, a := range h.attrs {
		fields[a.Key] = a.Value.String()
	}
	r.Attrs(func(a slog.Attr) bool {
		fields[a.Key] = a.Value.String()
		return true
	})

	category := fields["category"]
	delete(fields, "category")
	if category == "" {
		category = inferCategory(r.Message)
	}

	metadata := "{}"
	if len(fields) > 0 {
		if b, err := json.Marshal(fields); err == nil {
			metadata = string(b)
		}
	}

	// The request context may already be cancelled; the write must still happen.
	_ = h.writer.CreateEventLog(context.WithoutCancel(ctx), store.CreateEventLogParams{
		Level:     eventLevel(r.Level),
		Category:  category,
		Message:   r.Message,
		Metadata:  metadata,
		RequestID: middleware.GetReqID(ctx),
		CreatedAt: r.Time.UTC(),
	})
}

// eventLevel converts a slog.Level to an event log level.
func eventLevel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return LevelError
	case level >= slog.LevelWarn:
		return LevelWarning
	default:
		return LevelInfo
	}
}

// inferCategory guesses a category from the message when none was given.
func inferCategory(msg string) string {
	msg = strings.ToLower(msg)
	switch {
	case strings.Contains(msg, "auth") || strings.Contains(msg, "login") || strings.Contains(msg, "token"):
		return CategoryAuth
	case strings.Contains(msg, "upload") || strings.Contains(msg, "image"):
		return CategoryUpload
	case strings.Contains(msg, "contact") || strings.Contains(msg, "email"):
		return CategoryContact
	case strings.Contains(msg, "project") || strings.Contains(msg, "slug"):
		return CategoryContent
	case strings.Contains(msg, "config") || strings.Contains(msg, "setting"):
		return CategoryConfig
	case strings.Contains(msg, "cache") || strings.Contains(msg, "redis"):
		return CategoryCache
	default:
		return CategorySystem
	}
}
