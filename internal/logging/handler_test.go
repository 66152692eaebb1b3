// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package logging

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/olegiv/portfolio-api/internal/store"
)

// testDB creates a temporary test database with migrations applied.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := store.NewDB(filepath.Join(t.TempDir(), "logging-test.db"))
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := store.Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	return db
}

// discardHandler is a slog.Handler that discards all logs.
type discardHandler struct{}

func (h discardHandler) Enabled(context.Context, slog.Level) bool  { return true }
func (h discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (h discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return h }
func (h discardHandler) WithGroup(string) slog.Handler             { return h }

func listEvents(t *testing.T, db *sql.DB) []store.EventLog {
	t.Helper()
	events, err := store.New(db).ListEventLogs(context.Background(), 100)
	if err != nil {
		t.Fatalf("ListEventLogs: %v", err)
	}
	return events
}

func TestEventLogHandler_PersistsWarnAndAbove(t *testing.T) {
	db := testDB(t)
	logger := slog.New(NewEventLogHandler(discardHandler{}, db))

	logger.Info("request served")
	logger.Debug("noise")
	logger.Warn("login failed", "email", "a@example.test")
	logger.Error("image mirror failed", "error", "disk full")

	events := listEvents(t, db)
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}

	byMsg := map[string]store.EventLog{}
	for _, e := range events {
		byMsg[e.Message] = e
	}

	warn := byMsg["login failed"]
	if warn.Level != LevelWarning || warn.Category != CategoryAuth {
		t.Errorf("warn event = %s/%s, want %s/%s", warn.Level, warn.Category, LevelWarning, CategoryAuth)
	}
	var meta map[string]string
	if err := json.Unmarshal([]byte(warn.Metadata), &meta); err != nil {
		t.Fatalf("metadata is not JSON: %v", err)
	}
	if meta["email"] != "a@example.test" {
		t.Errorf("metadata = %v", meta)
	}

	errEvent := byMsg["image mirror failed"]
	if errEvent.Level != LevelError || errEvent.Category != CategoryUpload {
		t.Errorf("error event = %s/%s", errEvent.Level, errEvent.Category)
	}
}

func TestEventLogHandler_ExplicitCategoryAndAttrs(t *testing.T) {
	db := testDB(t)
	logger := slog.New(NewEventLogHandler(discardHandler{}, db)).With("component", "notifier")

	logger.Warn("something odd", "category", CategoryContact, `quote"key`, "line\nbreak")

	events := listEvents(t, db)
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	e := events[0]
	if e.Category != CategoryContact {
		t.Errorf("Category = %q, want %q", e.Category, CategoryContact)
	}

	var meta map[string]string
	if err := json.Unmarshal([]byte(e.Metadata), &meta); err != nil {
		t.Fatalf("metadata is not JSON: %v (%s)", err, e.Metadata)
	}
	if _, ok := meta["category"]; ok {
		t.Error("category should not be repeated in metadata")
	}
	if meta["component"] != "notifier" {
		t.Errorf("handler attrs missing from metadata: %v", meta)
	}
	if meta[`quote"key`] != "line\nbreak" {
		t.Errorf("escaped attr lost: %v", meta)
	}
}

func TestEventLogHandler_RequestID(t *testing.T) {
	db := testDB(t)
	logger := slog.New(NewEventLogHandler(discardHandler{}, db))

	ctx := context.WithValue(context.Background(), middleware.RequestIDKey, "req-42")
	ctx, cancel := context.WithCancel(ctx)
	cancel()
	logger.WarnContext(ctx, "contact notification failed")

	events := listEvents(t, db)
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if events[0].RequestID != "req-42" {
		t.Errorf("RequestID = %q, want req-42", events[0].RequestID)
	}
}

func TestEventLogHandler_CustomLevel(t *testing.T) {
	db := testDB(t)
	logger := slog.New(NewEventLogHandlerWithLevel(discardHandler{}, db, slog.LevelError))

	logger.Warn("cache miss storm")
	logger.Error("cache unavailable")

	events := listEvents(t, db)
	if len(events) != 1 || events[0].Category != CategoryCache {
		t.Fatalf("events = %+v", events)
	}
}

func TestInferCategory(t *testing.T) {
	tests := map[string]string{
		"token verification failed": CategoryAuth,
		"upload rejected":           CategoryUpload,
		"contact email not sent":    CategoryContact,
		"project slug collision":    CategoryContent,
		"setting changed":           CategoryConfig,
		"redis unavailable":         CategoryCache,
		"shutting down":             CategorySystem,
	}
	for msg, want := range tests {
		if got := inferCategory(msg); got != want {
			t.Errorf("inferCategory(%q) = %q, want %q", msg, got, want)
		}
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Level: "warn", JSON: true, Output: &buf})

	logger.Info("hidden")
	logger.Warn("shown", "k", "v")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info record should be filtered at warn level")
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(out)), &rec); err != nil {
		t.Fatalf("output is not JSON: %v (%s)", err, out)
	}
	if rec["msg"] != "shown" || rec["k"] != "v" {
		t.Errorf("record = %v", rec)
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
		"":        slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
