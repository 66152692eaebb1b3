// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const projectColumns = `id, title, slug, description, category_id, client_name,
    client_industry, completion_date, project_url, featured_image, view_count,
    is_featured, is_published, status, seo_title, seo_description, seo_keywords,
    created_at, updated_at, deleted_at`

func projectDest(i *Project) []any {
	return []any{
		&i.ID,
		&i.Title,
		&i.Slug,
		&i.Description,
		&i.CategoryID,
		&i.ClientName,
		&i.ClientIndustry,
		&i.CompletionDate,
		&i.ProjectUrl,
		&i.FeaturedImage,
		&i.ViewCount,
		&i.IsFeatured,
		&i.IsPublished,
		&i.Status,
		&i.SeoTitle,
		&i.SeoDescription,
		&i.SeoKeywords,
		&i.CreatedAt,
		&i.UpdatedAt,
		&i.DeletedAt,
	}
}

func scanProject(s scanner) (Project, error) {
	var i Project
	err := s.Scan(projectDest(&i)...)
	return i, err
}

// ProjectRow is a project joined with its category.
type ProjectRow struct {
	Project
	CategoryName sql.NullString
	CategorySlug sql.NullString
}

func scanProjectRow(s scanner) (ProjectRow, error) {
	var i ProjectRow
	dest := append(projectDest(&i.Project), &i.CategoryName, &i.CategorySlug)
	err := s.Scan(dest...)
	return i, err
}

var projectRowSelect = `SELECT ` + qualifyColumns("p", projectColumns) + `, c.name, c.slug
FROM projects p
LEFT JOIN project_categories c ON c.id = p.category_id`

const createProject = `-- name: CreateProject :one
INSERT INTO projects (
    title, slug, description, category_id, client_name, client_industry, completion_date,
    project_url, featured_image, is_featured, is_published, status, seo_title,
    seo_description, seo_keywords, created_at, updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + projectColumns

type CreateProjectParams struct {
	Title          string
	Slug           string
	Description    string
	CategoryID     sql.NullInt64
	ClientName     string
	ClientIndustry string
	CompletionDate sql.NullTime
	ProjectUrl     string
	FeaturedImage  sql.NullString
	IsFeatured     bool
	IsPublished    bool
	Status         string
	SeoTitle       string
	SeoDescription string
	SeoKeywords    string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (q *Queries) CreateProject(ctx context.Context, arg CreateProjectParams) (Project, error) {
	row := q.db.QueryRowContext(ctx, createProject,
		arg.Title,
		arg.Slug,
		arg.Description,
		arg.CategoryID,
		arg.ClientName,
		arg.ClientIndustry,
		arg.CompletionDate,
		arg.ProjectUrl,
		arg.FeaturedImage,
		arg.IsFeatured,
		arg.IsPublished,
		arg.Status,
		arg.SeoTitle,
		arg.SeoDescription,
		arg.SeoKeywords,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return scanProject(row)
}

const updateProject = `-- name: UpdateProject :one
UPDATE projects SET
    title = ?, slug = ?, description = ?, category_id = ?, client_name = ?,
    client_industry = ?, completion_date = ?, project_url = ?, featured_image = ?,
    is_featured = ?, is_published = ?, status = ?, seo_title = ?, seo_description = ?,
    seo_keywords = ?, updated_at = ?
WHERE id = ? AND deleted_at IS NULL
RETURNING ` + projectColumns

type UpdateProjectParams struct {
	Title          string
	Slug           string
	Description    string
	CategoryID     sql.NullInt64
	ClientName     string
	ClientIndustry string
	CompletionDate sql.NullTime
	ProjectUrl     string
	FeaturedImage  sql.NullString
	IsFeatured     bool
	IsPublished    bool
	Status         string
	SeoTitle       string
	SeoDescription string
	SeoKeywords    string
	UpdatedAt      time.Time
	ID             int64
}

func (q *Queries) UpdateProject(ctx context.Context, arg UpdateProjectParams) (Project, error) {
	row := q.db.QueryRowContext(ctx, updateProject,
		arg.Title,
		arg.Slug,
		arg.Description,
		arg.CategoryID,
		arg.ClientName,
		arg.ClientIndustry,
		arg.CompletionDate,
		arg.ProjectUrl,
		arg.FeaturedImage,
		arg.IsFeatured,
		arg.IsPublished,
		arg.Status,
		arg.SeoTitle,
		arg.SeoDescription,
		arg.SeoKeywords,
		arg.UpdatedAt,
		arg.ID,
	)
	return scanProject(row)
}

var getProjectByID = `-- name: GetProjectByID :one
` + projectRowSelect + `
WHERE p.id = ? AND p.deleted_at IS NULL`

func (q *Queries) GetProjectByID(ctx context.Context, id int64) (ProjectRow, error) {
	return scanProjectRow(q.db.QueryRowContext(ctx, getProjectByID, id))
}

var getPublishedProjectBySlug = `-- name: GetPublishedProjectBySlug :one
` + projectRowSelect + `
WHERE p.slug = ? AND p.is_published = 1 AND p.deleted_at IS NULL`

func (q *Queries) GetPublishedProjectBySlug(ctx context.Context, slug string) (ProjectRow, error) {
	return scanProjectRow(q.db.QueryRowContext(ctx, getPublishedProjectBySlug, slug))
}

const incrementProjectViewCount = `-- name: IncrementProjectViewCount :one
UPDATE projects SET view_count = view_count + 1 WHERE id = ? AND deleted_at IS NULL
RETURNING view_count`

func (q *Queries) IncrementProjectViewCount(ctx context.Context, id int64) (int64, error) {
	var viewCount int64
	err := q.db.QueryRowContext(ctx, incrementProjectViewCount, id).Scan(&viewCount)
	return viewCount, err
}

const softDeleteProject = `-- name: SoftDeleteProject :execrows
UPDATE projects SET deleted_at = ?, is_published = 0,
    status = CASE WHEN status = 'published' THEN 'draft' ELSE status END,
    updated_at = ?
WHERE id = ? AND deleted_at IS NULL`

type SoftDeleteProjectParams struct {
	DeletedAt sql.NullTime
	UpdatedAt time.Time
	ID        int64
}

func (q *Queries) SoftDeleteProject(ctx context.Context, arg SoftDeleteProjectParams) (int64, error) {
	return execRows(q.db.ExecContext(ctx, softDeleteProject, arg.DeletedAt, arg.UpdatedAt, arg.ID))
}

const updateProjectFeaturedImage = `-- name: UpdateProjectFeaturedImage :execrows
UPDATE projects SET featured_image = ?, updated_at = ? WHERE id = ? AND deleted_at IS NULL`

type UpdateProjectFeaturedImageParams struct {
	FeaturedImage sql.NullString
	UpdatedAt     time.Time
	ID            int64
}

func (q *Queries) UpdateProjectFeaturedImage(ctx context.Context, arg UpdateProjectFeaturedImageParams) (int64, error) {
	return execRows(q.db.ExecContext(ctx, updateProjectFeaturedImage, arg.FeaturedImage, arg.UpdatedAt, arg.ID))
}

const projectSlugExists = `-- name: ProjectSlugExists :one
SELECT EXISTS(SELECT 1 FROM projects WHERE slug = ? AND id != ?)`

// ProjectSlugExists checks the slug against every row, soft-deleted ones included,
// since the unique index covers them too.
func (q *Queries) ProjectSlugExists(ctx context.Context, slug string, excludeID int64) (bool, error) {
	var exists bool
	err := q.db.QueryRowContext(ctx, projectSlugExists, slug, excludeID).Scan(&exists)
	return exists, err
}

const projectFilter = `
WHERE p.deleted_at IS NULL
  AND (? = 0 OR p.is_published = 1)
  AND (? = '' OR c.slug = ?)
  AND (? = 0 OR p.is_featured = 1)
  AND (? = '' OR p.status = ?)
  AND (? = '' OR p.title LIKE '%' || ? || '%' OR p.description LIKE '%' || ? || '%')`

// ListProjectsParams filters project listings. Sort is one of
// "newest", "oldest" or "most-viewed".
type ListProjectsParams struct {
	PublishedOnly bool
	CategorySlug  string
	FeaturedOnly  bool
	Status        string
	Search        string
	Sort          string
	Limit         int64
	Offset        int64
}

func (arg ListProjectsParams) filterArgs() []any {
	return []any{
		arg.PublishedOnly,
		arg.CategorySlug, arg.CategorySlug,
		arg.FeaturedOnly,
		arg.Status, arg.Status,
		arg.Search, arg.Search, arg.Search,
	}
}

var listProjects = `-- name: ListProjects :many
` + projectRowSelect + projectFilter + `
ORDER BY
    CASE WHEN ? = 'most-viewed' THEN p.view_count END DESC,
    CASE WHEN ? = 'oldest' THEN p.created_at END ASC,
    CASE WHEN ? = 'oldest' THEN p.id END ASC,
    p.created_at DESC,
    p.id DESC
LIMIT ? OFFSET ?`

func (q *Queries) ListProjects(ctx context.Context, arg ListProjectsParams) ([]ProjectRow, error) {
	args := append(arg.filterArgs(), arg.Sort, arg.Sort, arg.Sort, arg.Limit, arg.Offset)
	rows, err := q.db.QueryContext(ctx, listProjects, args...)
	return collectRows(rows, err, scanProjectRow)
}

var countProjects = `-- name: CountProjects :one
SELECT COUNT(*) FROM projects p
LEFT JOIN project_categories c ON c.id = p.category_id` + projectFilter

func (q *Queries) CountProjects(ctx context.Context, arg ListProjectsParams) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countProjects, arg.filterArgs()...).Scan(&count)
	return count, err
}

var listRelatedProjects = `-- name: ListRelatedProjects :many
` + projectRowSelect + `
WHERE p.category_id = ? AND p.id != ? AND p.is_published = 1 AND p.deleted_at IS NULL
ORDER BY p.created_at DESC, p.id DESC
LIMIT ?`

type ListRelatedProjectsParams struct {
	CategoryID int64
	ExcludeID  int64
	Limit      int64
}

func (q *Queries) ListRelatedProjects(ctx context.Context, arg ListRelatedProjectsParams) ([]ProjectRow, error) {
	rows, err := q.db.QueryContext(ctx, listRelatedProjects, arg.CategoryID, arg.ExcludeID, arg.Limit)
	return collectRows(rows, err, scanProjectRow)
}

var listRecentProjects = `-- name: ListRecentProjects :many
` + projectRowSelect + `
WHERE p.deleted_at IS NULL
ORDER BY p.created_at DESC, p.id DESC
LIMIT ?`

func (q *Queries) ListRecentProjects(ctx context.Context, limit int64) ([]ProjectRow, error) {
	rows, err := q.db.QueryContext(ctx, listRecentProjects, limit)
	return collectRows(rows, err, scanProjectRow)
}

const countProjectTotals = `-- name: CountProjectTotals :one
SELECT COUNT(*), COALESCE(SUM(is_published), 0), COALESCE(SUM(view_count), 0)
FROM projects WHERE deleted_at IS NULL`

type CountProjectTotalsRow struct {
	Total     int64
	Published int64
	Views     int64
}

func (q *Queries) CountProjectTotals(ctx context.Context) (CountProjectTotalsRow, error) {
	var i CountProjectTotalsRow
	err := q.db.QueryRowContext(ctx, countProjectTotals).Scan(&i.Total, &i.Published, &i.Views)
	return i, err
}

// SlugStamp is a slug with its last modification time.
type SlugStamp struct {
	Slug      string
	UpdatedAt time.Time
}

func scanSlugStamp(s scanner) (SlugStamp, error) {
	var i SlugStamp
	err := s.Scan(&i.Slug, &i.UpdatedAt)
	return i, err
}

const listPublishedProjectSlugs = `-- name: ListPublishedProjectSlugs :many
SELECT slug, updated_at FROM projects
WHERE is_published = 1 AND deleted_at IS NULL
ORDER BY updated_at DESC, id DESC`

func (q *Queries) ListPublishedProjectSlugs(ctx context.Context) ([]SlugStamp, error) {
	rows, err := q.db.QueryContext(ctx, listPublishedProjectSlugs)
	return collectRows(rows, err, scanSlugStamp)
}
