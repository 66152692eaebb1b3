// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const imageColumns = `id, filename, original_name, mime_type, file_size, width, height, data, path,
    owner_kind, owner_id, uploaded_by, created_at`

// Listing leaves the base64 payload out.
const imageListColumns = `id, filename, original_name, mime_type, file_size, width, height, '', path,
    owner_kind, owner_id, uploaded_by, created_at`

func scanImage(s scanner) (Image, error) {
	var i Image
	err := s.Scan(
		&i.ID,
		&i.Filename,
		&i.OriginalName,
		&i.MimeType,
		&i.FileSize,
		&i.Width,
		&i.Height,
		&i.Data,
		&i.Path,
		&i.OwnerKind,
		&i.OwnerID,
		&i.UploadedBy,
		&i.CreatedAt,
	)
	return i, err
}

const createImage = `-- name: CreateImage :one
INSERT INTO images (filename, original_name, mime_type, file_size, width, height, data, path,
    owner_kind, owner_id, uploaded_by, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + imageColumns

type CreateImageParams struct {
	Filename     string
	OriginalName string
	MimeType     string
	FileSize     int64
	Width        int64
	Height       int64
	Data         string
	Path         string
	OwnerKind    string
	OwnerID      sql.NullInt64
	UploadedBy   sql.NullInt64
	CreatedAt    time.Time
}

func (q *Queries) CreateImage(ctx context.Context, arg CreateImageParams) (Image, error) {
	row := q.db.QueryRowContext(ctx, createImage,
		arg.Filename,
		arg.OriginalName,
		arg.MimeType,
		arg.FileSize,
		arg.Width,
		arg.Height,
		arg.Data,
		arg.Path,
		arg.OwnerKind,
		arg.OwnerID,
		arg.UploadedBy,
		arg.CreatedAt,
	)
	return scanImage(row)
}

const getImage = `-- name: GetImage :one
SELECT ` + imageColumns + ` FROM images WHERE id = ?`

func (q *Queries) GetImage(ctx context.Context, id int64) (Image, error) {
	return scanImage(q.db.QueryRowContext(ctx, getImage, id))
}

const listImages = `-- name: ListImages :many
SELECT ` + imageListColumns + ` FROM images
WHERE (? = '' OR owner_kind = ?)
ORDER BY created_at DESC, id DESC
LIMIT ? OFFSET ?`

type ListImagesParams struct {
	OwnerKind string
	Limit     int64
	Offset    int64
}

func (q *Queries) ListImages(ctx context.Context, arg ListImagesParams) ([]Image, error) {
	rows, err := q.db.QueryContext(ctx, listImages, arg.OwnerKind, arg.OwnerKind, arg.Limit, arg.Offset)
	return collectRows(rows, err, scanImage)
}

const countImages = `-- name: CountImages :one
SELECT COUNT(*) FROM images WHERE (? = '' OR owner_kind = ?)`

func (q *Queries) CountImages(ctx context.Context, ownerKind string) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countImages, ownerKind, ownerKind).Scan(&count)
	return count, err
}

const deleteImage = `-- name: DeleteImage :execrows
DELETE FROM images WHERE id = ?`

func (q *Queries) DeleteImage(ctx context.Context, id int64) (int64, error) {
	return execRows(q.db.ExecContext(ctx, deleteImage, id))
}

const createEventLog = `-- name: CreateEventLog :exec
INSERT INTO event_log (level, category, message, metadata, request_id, created_at)
VALUES (?, ?, ?, ?, ?, ?)`

type CreateEventLogParams struct {
	Level     string
	Category  string
	Message   string
	Metadata  string
	RequestID string
	CreatedAt time.Time
}

func (q *Queries) CreateEventLog(ctx context.Context, arg CreateEventLogParams) error {
	_, err := q.db.ExecContext(ctx, createEventLog,
		arg.Level,
		arg.Category,
		arg.Message,
		arg.Metadata,
		arg.RequestID,
		arg.CreatedAt,
	)
	return err
}

const listEventLogs = `-- name: ListEventLogs :many
SELECT id, level, category, message, metadata, request_id, created_at FROM event_log
ORDER BY created_at DESC, id DESC
LIMIT ?`

func (q *Queries) ListEventLogs(ctx context.Context, limit int64) ([]EventLog, error) {
	rows, err := q.db.QueryContext(ctx, listEventLogs, limit)
	return collectRows(rows, err, func(s scanner) (EventLog, error) {
		var i EventLog
		err := s.Scan(&i.ID, &i.Level, &i.Category, &i.Message, &i.Metadata, &i.RequestID, &i.CreatedAt)
		return i, err
	})
}
