// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"regexp"
	"time"

	"github.com/olegiv/portfolio-api/internal/apperr"
	"github.com/olegiv/portfolio-api/internal/cache"
	"github.com/olegiv/portfolio-api/internal/events"
	"github.com/olegiv/portfolio-api/internal/store"
)

const (
	publicSettingsKey = "settings:public"
	publicSettingsTTL = 10 * time.Minute

	// DefaultSettingCategory is used for settings created without one.
	DefaultSettingCategory = "general"
)

var settingKeyPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_.-]{0,99}$`)

// SettingInput is an upsert of one setting. Nil fields keep the stored
// value, or take the defaults for a new key.
type SettingInput struct {
	Value       string
	Category    *string
	Description *string
	IsPublic    *bool
}

// SettingsService manages site settings. The public map is cached.
type SettingsService struct {
	clock
	queries *store.Queries
	cache   cache.Cache
	bus     events.Bus
	logger  *slog.Logger
}

// NewSettingsService creates a new SettingsService and subscribes its cache
// invalidation to setting.updated events.
func NewSettingsService(db *sql.DB, c cache.Cache, bus events.Bus, logger *slog.Logger) *SettingsService {
	s := &SettingsService{clock: newClock(), queries: store.New(db), cache: c, bus: bus, logger: logger}
	bus.Subscribe(s.handleEvent)
	return s
}

// Public returns the key/value map of public settings.
func (s *SettingsService) Public(ctx context.Context) (map[string]string, error) {
	if raw, err := s.cache.Get(ctx, publicSettingsKey); err == nil {
		var m map[string]string
		if err := json.Unmarshal(raw, &m); err == nil {
			return m, nil
		}
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("settings cache read failed", "category", "cache", "error", err)
	}

	rows, err := s.queries.ListSettings(ctx, true)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	m := make(map[string]string, len(rows))
	for _, r := range rows {
		m[r.Key] = r.Value
	}

	if raw, err := json.Marshal(m); err == nil {
		if err := s.cache.Set(ctx, publicSettingsKey, raw, publicSettingsTTL); err != nil {
			s.logger.Warn("settings cache write failed", "category", "cache", "error", err)
		}
	}
	return m, nil
}

// List returns every setting, for admins.
func (s *SettingsService) List(ctx context.Context) ([]store.SiteSetting, error) {
	rows, err := s.queries.ListSettings(ctx, false)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return rows, nil
}

// Upsert creates or updates a setting. Repeating the same input leaves the
// row unchanged except for updated_at.
func (s *SettingsService) Upsert(ctx context.Context, key string, in SettingInput) (store.SiteSetting, error) {
	if !settingKeyPattern.MatchString(key) {
		return store.SiteSetting{}, apperr.Validation("key must be lowercase letters, digits, '.', '_' or '-'")
	}

	category, description, public := DefaultSettingCategory, "", false
	current, err := s.queries.GetSetting(ctx, key)
	switch {
	case err == nil:
		category, description, public = current.Category, current.Description, current.IsPublic
	case !errors.Is(err, sql.ErrNoRows):
		return store.SiteSetting{}, apperr.Internal(err)
	}

	now := s.now()
	setting, err := s.queries.UpsertSetting(ctx, store.UpsertSettingParams{
		Key:         key,
		Value:       in.Value,
		Category:    str(in.Category, category),
		Description: str(in.Description, description),
		IsPublic:    boolOr(in.IsPublic, public),
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return store.SiteSetting{}, writeErr(err, "Setting")
	}

	s.invalidate(ctx)
	s.bus.Publish(ctx, events.NewEvent(events.SettingUpdated, events.SettingEventData{Key: key}))
	return setting, nil
}

func (s *SettingsService) handleEvent(ctx context.Context, e events.Event) error {
	if e.Type == events.SettingUpdated {
		s.invalidate(ctx)
	}
	return nil
}

func (s *SettingsService) invalidate(ctx context.Context) {
	if err := s.cache.Delete(ctx, publicSettingsKey); err != nil {
		s.logger.Warn("settings cache invalidation failed", "category", "cache", "error", err)
	}
}
