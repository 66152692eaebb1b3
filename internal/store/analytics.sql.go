// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

const analyticsColumns = `id, date, page_views, unique_visitors, project_views, contact_submissions,
    created_at, updated_at`

func scanAnalytic(s scanner) (SiteAnalytic, error) {
	var i SiteAnalytic
	err := s.Scan(
		&i.ID,
		&i.Date,
		&i.PageViews,
		&i.UniqueVisitors,
		&i.ProjectViews,
		&i.ContactSubmissions,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const addDailyAnalytics = `-- name: AddDailyAnalytics :exec
INSERT INTO site_analytics (date, page_views, unique_visitors, project_views, contact_submissions,
    created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(date) DO UPDATE SET
    page_views = page_views + excluded.page_views,
    unique_visitors = unique_visitors + excluded.unique_visitors,
    project_views = project_views + excluded.project_views,
    contact_submissions = contact_submissions + excluded.contact_submissions,
    updated_at = excluded.updated_at`

// AddDailyAnalyticsParams holds counter deltas added to the row for Date (YYYY-MM-DD).
type AddDailyAnalyticsParams struct {
	Date               string
	PageViews          int64
	UniqueVisitors     int64
	ProjectViews       int64
	ContactSubmissions int64
	UpdatedAt          time.Time
}

func (q *Queries) AddDailyAnalytics(ctx context.Context, arg AddDailyAnalyticsParams) error {
	_, err := q.db.ExecContext(ctx, addDailyAnalytics,
		arg.Date,
		arg.PageViews,
		arg.UniqueVisitors,
		arg.ProjectViews,
		arg.ContactSubmissions,
		arg.UpdatedAt,
		arg.UpdatedAt,
	)
	return err
}

const listAnalytics = `-- name: ListAnalytics :many
SELECT ` + analyticsColumns + ` FROM site_analytics
WHERE date >= ? AND date <= ?
ORDER BY date`

func (q *Queries) ListAnalytics(ctx context.Context, from, to string) ([]SiteAnalytic, error) {
	rows, err := q.db.QueryContext(ctx, listAnalytics, from, to)
	return collectRows(rows, err, scanAnalytic)
}

const sumPageViews = `-- name: SumPageViews :one
SELECT COALESCE(SUM(page_views), 0) FROM site_analytics`

func (q *Queries) SumPageViews(ctx context.Context) (int64, error) {
	var total int64
	err := q.db.QueryRowContext(ctx, sumPageViews).Scan(&total)
	return total, err
}
