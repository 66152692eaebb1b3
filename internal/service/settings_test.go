// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/portfolio-api/internal/apperr"
	"github.com/olegiv/portfolio-api/internal/cache"
	"github.com/olegiv/portfolio-api/internal/events"
	"github.com/olegiv/portfolio-api/internal/testutil"
)

func TestSettings_PublicIsCachedAndInvalidated(t *testing.T) {
	db := testutil.TestDBWithAdmin(t)
	mem := cache.NewMemoryCache(cache.MemoryCacheOptions{})
	t.Cleanup(func() { _ = mem.Close() })
	bus := &recordingBus{}
	svc := NewSettingsService(db, mem, bus, testutil.DiscardLogger())
	ctx := context.Background()

	public, err := svc.Public(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Portfolio", public["site_title"])
	ok, err := mem.Has(ctx, publicSettingsKey)
	require.NoError(t, err)
	assert.True(t, ok)

	s, err := svc.Upsert(ctx, "site_title", SettingInput{Value: "Studio"})
	require.NoError(t, err)
	assert.Equal(t, "general", s.Category)
	assert.True(t, s.IsPublic)
	assert.Equal(t, []string{events.SettingUpdated}, bus.types())

	public, err = svc.Public(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Studio", public["site_title"])

	_, err = svc.Upsert(ctx, "smtp_note", SettingInput{Value: "internal"})
	require.NoError(t, err)
	public, err = svc.Public(ctx)
	require.NoError(t, err)
	assert.NotContains(t, public, "smtp_note")

	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Greater(t, len(all), len(public))
}

func TestSettings_UpsertIsIdempotent(t *testing.T) {
	db := testutil.TestDB(t)
	svc := NewSettingsService(db, cache.NewMemoryCache(cache.MemoryCacheOptions{}), events.Nop{}, testutil.DiscardLogger())
	ctx := context.Background()

	in := SettingInput{Value: "v", Category: ptr("seo"), Description: ptr("d"), IsPublic: ptr(true)}
	first, err := svc.Upsert(ctx, "meta.keywords", in)
	require.NoError(t, err)
	second, err := svc.Upsert(ctx, "meta.keywords", in)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.Value, second.Value)
	assert.Equal(t, first.Category, second.Category)

	// Omitted fields keep their stored values.
	third, err := svc.Upsert(ctx, "meta.keywords", SettingInput{Value: "w"})
	require.NoError(t, err)
	assert.Equal(t, "seo", third.Category)
	assert.True(t, third.IsPublic)

	_, err = svc.Upsert(ctx, "Bad Key", in)
	requireKind(t, err, apperr.KindValidation)
}

func TestSettings_RedisCache(t *testing.T) {
	mr := miniredis.RunT(t)
	db := testutil.TestDBWithAdmin(t)
	c := cache.New(cache.Config{RedisURL: "redis://" + mr.Addr(), Prefix: "test:"}, testutil.DiscardLogger())
	t.Cleanup(func() { _ = c.Close() })
	svc := NewSettingsService(db, c, events.Nop{}, testutil.DiscardLogger())
	ctx := context.Background()

	_, err := svc.Public(ctx)
	require.NoError(t, err)
	assert.True(t, mr.Exists("test:"+publicSettingsKey))

	_, err = svc.Upsert(ctx, "availability", SettingInput{Value: "booked"})
	require.NoError(t, err)
	assert.False(t, mr.Exists("test:"+publicSettingsKey))
}
