// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

const categoryColumns = `id, name, slug, description, display_order, is_active, created_at, updated_at`

func scanCategory(s scanner) (ProjectCategory, error) {
	var i ProjectCategory
	err := s.Scan(
		&i.ID,
		&i.Name,
		&i.Slug,
		&i.Description,
		&i.DisplayOrder,
		&i.IsActive,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const createCategory = `-- name: CreateCategory :one
INSERT INTO project_categories (name, slug, description, display_order, is_active, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
RETURNING ` + categoryColumns

type CreateCategoryParams struct {
	Name         string
	Slug         string
	Description  string
	DisplayOrder int64
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (q *Queries) CreateCategory(ctx context.Context, arg CreateCategoryParams) (ProjectCategory, error) {
	row := q.db.QueryRowContext(ctx, createCategory,
		arg.Name,
		arg.Slug,
		arg.Description,
		arg.DisplayOrder,
		arg.IsActive,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return scanCategory(row)
}

const getCategoryByID = `-- name: GetCategoryByID :one
SELECT ` + categoryColumns + ` FROM project_categories WHERE id = ?`

func (q *Queries) GetCategoryByID(ctx context.Context, id int64) (ProjectCategory, error) {
	return scanCategory(q.db.QueryRowContext(ctx, getCategoryByID, id))
}

const getCategoryBySlug = `-- name: GetCategoryBySlug :one
SELECT ` + categoryColumns + ` FROM project_categories WHERE slug = ?`

func (q *Queries) GetCategoryBySlug(ctx context.Context, slug string) (ProjectCategory, error) {
	return scanCategory(q.db.QueryRowContext(ctx, getCategoryBySlug, slug))
}

const listCategories = `-- name: ListCategories :many
SELECT ` + categoryColumns + ` FROM project_categories
WHERE (? = 0 OR is_active = 1)
ORDER BY display_order, name`

func (q *Queries) ListCategories(ctx context.Context, activeOnly bool) ([]ProjectCategory, error) {
	rows, err := q.db.QueryContext(ctx, listCategories, activeOnly)
	return collectRows(rows, err, scanCategory)
}

const updateCategory = `-- name: UpdateCategory :one
UPDATE project_categories SET name = ?, slug = ?, description = ?, display_order = ?,
    is_active = ?, updated_at = ?
WHERE id = ?
RETURNING ` + categoryColumns

type UpdateCategoryParams struct {
	Name         string
	Slug         string
	Description  string
	DisplayOrder int64
	IsActive     bool
	UpdatedAt    time.Time
	ID           int64
}

func (q *Queries) UpdateCategory(ctx context.Context, arg UpdateCategoryParams) (ProjectCategory, error) {
	row := q.db.QueryRowContext(ctx, updateCategory,
		arg.Name,
		arg.Slug,
		arg.Description,
		arg.DisplayOrder,
		arg.IsActive,
		arg.UpdatedAt,
		arg.ID,
	)
	return scanCategory(row)
}

const deleteCategory = `-- name: DeleteCategory :execrows
DELETE FROM project_categories WHERE id = ?`

func (q *Queries) DeleteCategory(ctx context.Context, id int64) (int64, error) {
	return execRows(q.db.ExecContext(ctx, deleteCategory, id))
}

const categorySlugExists = `-- name: CategorySlugExists :one
SELECT EXISTS(SELECT 1 FROM project_categories WHERE slug = ? AND id != ?)`

func (q *Queries) CategorySlugExists(ctx context.Context, slug string, excludeID int64) (bool, error) {
	var exists bool
	err := q.db.QueryRowContext(ctx, categorySlugExists, slug, excludeID).Scan(&exists)
	return exists, err
}
