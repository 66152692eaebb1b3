// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/olegiv/portfolio-api/internal/apperr"
	"github.com/olegiv/portfolio-api/internal/cache"
	"github.com/olegiv/portfolio-api/internal/events"
	"github.com/olegiv/portfolio-api/internal/imaging"
	"github.com/olegiv/portfolio-api/internal/store"
	"github.com/olegiv/portfolio-api/internal/testutil"
	"github.com/olegiv/portfolio-api/internal/token"
)

const (
	testAccessSecret  = "access-secret-access-secret-0123456789"
	testRefreshSecret = "refresh-secret-refresh-secret-0123456789"
)

// recordingBus collects published events.
type recordingBus struct {
	events []events.Event
}

func (b *recordingBus) Publish(_ context.Context, e events.Event) {
	b.events = append(b.events, e)
}

func (b *recordingBus) Subscribe(events.Handler) func() { return func() {} }

func (b *recordingBus) types() []string {
	out := make([]string, 0, len(b.events))
	for _, e := range b.events {
		out = append(out, e.Type)
	}
	return out
}

func newTokenService(t *testing.T) *token.Service {
	t.Helper()
	store := cache.NewMemoryCache(cache.MemoryCacheOptions{})
	t.Cleanup(func() { _ = store.Close() })
	return token.NewService(token.Config{
		AccessSecret:  testAccessSecret,
		RefreshSecret: testRefreshSecret,
		AccessTTL:     time.Hour,
		RefreshTTL:    7 * 24 * time.Hour,
		Issuer:        "portfolio-test",
	}, store)
}

func newProjectService(t *testing.T, db *sql.DB) (*ProjectService, *recordingBus) {
	t.Helper()
	bus := &recordingBus{}
	return NewProjectService(db, imaging.NewProcessor(t.TempDir()), bus, testutil.DiscardLogger()), bus
}

func adminID(t *testing.T, db *sql.DB) int64 {
	t.Helper()
	u, err := store.New(db).GetUserByEmail(context.Background(), testutil.AdminEmail)
	require.NoError(t, err)
	return u.ID
}

func categoryID(t *testing.T, db *sql.DB, slug string) int64 {
	t.Helper()
	c, err := store.New(db).GetCategoryBySlug(context.Background(), slug)
	require.NoError(t, err)
	return c.ID
}

func requireKind(t *testing.T, err error, kind apperr.Kind) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, kind, apperr.KindOf(err), "error: %v", err)
}

func ptr[T any](v T) *T { return &v }
