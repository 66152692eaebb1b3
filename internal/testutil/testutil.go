// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package testutil provides shared test helpers for the portfolio API.
package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/olegiv/portfolio-api/internal/store"
)

// Seeded admin credentials used by TestDBWithAdmin.
const (
	AdminEmail    = "admin@example.com"
	AdminPassword = "correct-horse-battery"
)

// TestLogger creates a silent test logger that only outputs warnings and errors.
func TestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
}

// DiscardLogger creates a logger that drops everything.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestDB creates a temporary test database with migrations applied.
// The database is closed when the test ends.
func TestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := store.NewDB(filepath.Join(t.TempDir(), "portfolio-test.db"))
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := store.Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	return db
}

// TestDBWithAdmin creates a test database seeded with the default data and
// an admin account using AdminEmail and AdminPassword.
func TestDBWithAdmin(t *testing.T) *sql.DB {
	t.Helper()

	db := TestDB(t)
	err := store.Seed(context.Background(), db, store.SeedOptions{
		AdminEmail:    AdminEmail,
		AdminPassword: AdminPassword,
		AdminName:     "Test Admin",
	}, DiscardLogger())
	if err != nil {
		t.Fatalf("Seed: %v", err)
	}
	return db
}

// PNG encodes a solid w x h PNG.
func PNG(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding png: %v", err)
	}
	return buf.Bytes()
}

// PaddedPNG returns a valid PNG grown to exactly size bytes. The padding is
// appended after the image end marker, which decoders ignore.
func PaddedPNG(t *testing.T, size int) []byte {
	t.Helper()

	data := PNG(t, 8, 8)
	if len(data) > size {
		t.Fatalf("size %d smaller than base image %d", size, len(data))
	}
	return append(data, make([]byte, size-len(data))...)
}
