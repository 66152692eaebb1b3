// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

const settingColumns = `id, key, value, category, description, is_public, created_at, updated_at`

func scanSetting(s scanner) (SiteSetting, error) {
	var i SiteSetting
	err := s.Scan(
		&i.ID,
		&i.Key,
		&i.Value,
		&i.Category,
		&i.Description,
		&i.IsPublic,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getSetting = `-- name: GetSetting :one
SELECT ` + settingColumns + ` FROM site_settings WHERE key = ?`

func (q *Queries) GetSetting(ctx context.Context, key string) (SiteSetting, error) {
	return scanSetting(q.db.QueryRowContext(ctx, getSetting, key))
}

const listSettings = `-- name: ListSettings :many
SELECT ` + settingColumns + ` FROM site_settings
WHERE (? = 0 OR is_public = 1)
ORDER BY category, key`

func (q *Queries) ListSettings(ctx context.Context, publicOnly bool) ([]SiteSetting, error) {
	rows, err := q.db.QueryContext(ctx, listSettings, publicOnly)
	return collectRows(rows, err, scanSetting)
}

const upsertSetting = `-- name: UpsertSetting :one
INSERT INTO site_settings (key, value, category, description, is_public, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(key) DO UPDATE SET
    value = excluded.value,
    category = excluded.category,
    description = excluded.description,
    is_public = excluded.is_public,
    updated_at = excluded.updated_at
RETURNING ` + settingColumns

type UpsertSettingParams struct {
	Key         string
	Value       string
	Category    string
	Description string
	IsPublic    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (q *Queries) UpsertSetting(ctx context.Context, arg UpsertSettingParams) (SiteSetting, error) {
	row := q.db.QueryRowContext(ctx, upsertSetting,
		arg.Key,
		arg.Value,
		arg.Category,
		arg.Description,
		arg.IsPublic,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return scanSetting(row)
}
