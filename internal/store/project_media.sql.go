// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

const projectImageColumns = `id, project_id, image, mime_type, alt_text, title, description,
    display_order, file_size, created_at, updated_at`

func scanProjectImage(s scanner) (ProjectImage, error) {
	var i ProjectImage
	err := s.Scan(
		&i.ID,
		&i.ProjectID,
		&i.Image,
		&i.MimeType,
		&i.AltText,
		&i.Title,
		&i.Description,
		&i.DisplayOrder,
		&i.FileSize,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

// The display order is computed inside the INSERT so concurrent uploads to
// the same project serialize on the SQLite write lock.
const appendProjectImage = `-- name: AppendProjectImage :one
INSERT INTO project_images (
    project_id, image, mime_type, alt_text, title, description, display_order,
    file_size, created_at, updated_at
)
SELECT ?, ?, ?, ?, ?, ?,
    COALESCE((SELECT MAX(display_order) FROM project_images WHERE project_id = ?), -1) + 1,
    ?, ?, ?
RETURNING ` + projectImageColumns

type AppendProjectImageParams struct {
	ProjectID   int64
	Image       string
	MimeType    string
	AltText     string
	Title       string
	Description string
	FileSize    int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (q *Queries) AppendProjectImage(ctx context.Context, arg AppendProjectImageParams) (ProjectImage, error) {
	row := q.db.QueryRowContext(ctx, appendProjectImage,
		arg.ProjectID,
		arg.Image,
		arg.MimeType,
		arg.AltText,
		arg.Title,
		arg.Description,
		arg.ProjectID,
		arg.FileSize,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return scanProjectImage(row)
}

const listProjectImages = `-- name: ListProjectImages :many
SELECT ` + projectImageColumns + ` FROM project_images
WHERE project_id = ?
ORDER BY display_order, id`

func (q *Queries) ListProjectImages(ctx context.Context, projectID int64) ([]ProjectImage, error) {
	rows, err := q.db.QueryContext(ctx, listProjectImages, projectID)
	return collectRows(rows, err, scanProjectImage)
}

const getProjectImage = `-- name: GetProjectImage :one
SELECT ` + projectImageColumns + ` FROM project_images WHERE project_id = ? AND id = ?`

func (q *Queries) GetProjectImage(ctx context.Context, projectID, id int64) (ProjectImage, error) {
	return scanProjectImage(q.db.QueryRowContext(ctx, getProjectImage, projectID, id))
}

const updateProjectImage = `-- name: UpdateProjectImage :one
UPDATE project_images SET alt_text = ?, title = ?, description = ?, display_order = ?, updated_at = ?
WHERE project_id = ? AND id = ?
RETURNING ` + projectImageColumns

type UpdateProjectImageParams struct {
	AltText      string
	Title        string
	Description  string
	DisplayOrder int64
	UpdatedAt    time.Time
	ProjectID    int64
	ID           int64
}

func (q *Queries) UpdateProjectImage(ctx context.Context, arg UpdateProjectImageParams) (ProjectImage, error) {
	row := q.db.QueryRowContext(ctx, updateProjectImage,
		arg.AltText,
		arg.Title,
		arg.Description,
		arg.DisplayOrder,
		arg.UpdatedAt,
		arg.ProjectID,
		arg.ID,
	)
	return scanProjectImage(row)
}

const deleteProjectImage = `-- name: DeleteProjectImage :execrows
DELETE FROM project_images WHERE project_id = ? AND id = ?`

func (q *Queries) DeleteProjectImage(ctx context.Context, projectID, id int64) (int64, error) {
	return execRows(q.db.ExecContext(ctx, deleteProjectImage, projectID, id))
}

const projectToolColumns = `id, project_id, tool_name, tool_category, created_at`

func scanProjectTool(s scanner) (ProjectTool, error) {
	var i ProjectTool
	err := s.Scan(&i.ID, &i.ProjectID, &i.ToolName, &i.ToolCategory, &i.CreatedAt)
	return i, err
}

const createProjectTool = `-- name: CreateProjectTool :one
INSERT INTO project_tools (project_id, tool_name, tool_category, created_at)
VALUES (?, ?, ?, ?)
RETURNING ` + projectToolColumns

type CreateProjectToolParams struct {
	ProjectID    int64
	ToolName     string
	ToolCategory string
	CreatedAt    time.Time
}

func (q *Queries) CreateProjectTool(ctx context.Context, arg CreateProjectToolParams) (ProjectTool, error) {
	row := q.db.QueryRowContext(ctx, createProjectTool, arg.ProjectID, arg.ToolName, arg.ToolCategory, arg.CreatedAt)
	return scanProjectTool(row)
}

const listProjectTools = `-- name: ListProjectTools :many
SELECT ` + projectToolColumns + ` FROM project_tools WHERE project_id = ? ORDER BY id`

func (q *Queries) ListProjectTools(ctx context.Context, projectID int64) ([]ProjectTool, error) {
	rows, err := q.db.QueryContext(ctx, listProjectTools, projectID)
	return collectRows(rows, err, scanProjectTool)
}

const deleteProjectTools = `-- name: DeleteProjectTools :exec
DELETE FROM project_tools WHERE project_id = ?`

func (q *Queries) DeleteProjectTools(ctx context.Context, projectID int64) error {
	_, err := q.db.ExecContext(ctx, deleteProjectTools, projectID)
	return err
}
