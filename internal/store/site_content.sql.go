// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const galleryColumns = `id, title, description, image, mime_type, file_size, category,
    display_order, is_active, created_at, updated_at`

func scanGalleryImage(s scanner) (GalleryImage, error) {
	var i GalleryImage
	err := s.Scan(
		&i.ID,
		&i.Title,
		&i.Description,
		&i.Image,
		&i.MimeType,
		&i.FileSize,
		&i.Category,
		&i.DisplayOrder,
		&i.IsActive,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const createGalleryImage = `-- name: CreateGalleryImage :one
INSERT INTO gallery_images (title, description, image, mime_type, file_size, category,
    display_order, is_active, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + galleryColumns

type CreateGalleryImageParams struct {
	Title        string
	Description  string
	Image        string
	MimeType     string
	FileSize     int64
	Category     string
	DisplayOrder int64
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (q *Queries) CreateGalleryImage(ctx context.Context, arg CreateGalleryImageParams) (GalleryImage, error) {
	row := q.db.QueryRowContext(ctx, createGalleryImage,
		arg.Title,
		arg.Description,
		arg.Image,
		arg.MimeType,
		arg.FileSize,
		arg.Category,
		arg.DisplayOrder,
		arg.IsActive,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return scanGalleryImage(row)
}

const getGalleryImage = `-- name: GetGalleryImage :one
SELECT ` + galleryColumns + ` FROM gallery_images WHERE id = ?`

func (q *Queries) GetGalleryImage(ctx context.Context, id int64) (GalleryImage, error) {
	return scanGalleryImage(q.db.QueryRowContext(ctx, getGalleryImage, id))
}

const listGalleryImages = `-- name: ListGalleryImages :many
SELECT ` + galleryColumns + ` FROM gallery_images
WHERE (? = 0 OR is_active = 1) AND (? = '' OR category = ?)
ORDER BY display_order, id DESC`

type ListGalleryImagesParams struct {
	ActiveOnly bool
	Category   string
}

func (q *Queries) ListGalleryImages(ctx context.Context, arg ListGalleryImagesParams) ([]GalleryImage, error) {
	rows, err := q.db.QueryContext(ctx, listGalleryImages, arg.ActiveOnly, arg.Category, arg.Category)
	return collectRows(rows, err, scanGalleryImage)
}

const updateGalleryImage = `-- name: UpdateGalleryImage :one
UPDATE gallery_images SET title = ?, description = ?, image = ?, mime_type = ?, file_size = ?,
    category = ?, display_order = ?, is_active = ?, updated_at = ?
WHERE id = ?
RETURNING ` + galleryColumns

type UpdateGalleryImageParams struct {
	Title        string
	Description  string
	Image        string
	MimeType     string
	FileSize     int64
	Category     string
	DisplayOrder int64
	IsActive     bool
	UpdatedAt    time.Time
	ID           int64
}

func (q *Queries) UpdateGalleryImage(ctx context.Context, arg UpdateGalleryImageParams) (GalleryImage, error) {
	row := q.db.QueryRowContext(ctx, updateGalleryImage,
		arg.Title,
		arg.Description,
		arg.Image,
		arg.MimeType,
		arg.FileSize,
		arg.Category,
		arg.DisplayOrder,
		arg.IsActive,
		arg.UpdatedAt,
		arg.ID,
	)
	return scanGalleryImage(row)
}

const deleteGalleryImage = `-- name: DeleteGalleryImage :execrows
DELETE FROM gallery_images WHERE id = ?`

func (q *Queries) DeleteGalleryImage(ctx context.Context, id int64) (int64, error) {
	return execRows(q.db.ExecContext(ctx, deleteGalleryImage, id))
}

const testimonialColumns = `id, client_name, client_title, company, content, rating, avatar,
    project_id, is_featured, is_active, display_order, created_at, updated_at`

func scanTestimonial(s scanner) (Testimonial, error) {
	var i Testimonial
	err := s.Scan(
		&i.ID,
		&i.ClientName,
		&i.ClientTitle,
		&i.Company,
		&i.Content,
		&i.Rating,
		&i.Avatar,
		&i.ProjectID,
		&i.IsFeatured,
		&i.IsActive,
		&i.DisplayOrder,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const createTestimonial = `-- name: CreateTestimonial :one
INSERT INTO testimonials (client_name, client_title, company, content, rating, avatar, project_id,
    is_featured, is_active, display_order, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + testimonialColumns

type CreateTestimonialParams struct {
	ClientName   string
	ClientTitle  string
	Company      string
	Content      string
	Rating       int64
	Avatar       sql.NullString
	ProjectID    sql.NullInt64
	IsFeatured   bool
	IsActive     bool
	DisplayOrder int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (q *Queries) CreateTestimonial(ctx context.Context, arg CreateTestimonialParams) (Testimonial, error) {
	row := q.db.QueryRowContext(ctx, createTestimonial,
		arg.ClientName,
		arg.ClientTitle,
		arg.Company,
		arg.Content,
		arg.Rating,
		arg.Avatar,
		arg.ProjectID,
		arg.IsFeatured,
		arg.IsActive,
		arg.DisplayOrder,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return scanTestimonial(row)
}

const getTestimonial = `-- name: GetTestimonial :one
SELECT ` + testimonialColumns + ` FROM testimonials WHERE id = ?`

func (q *Queries) GetTestimonial(ctx context.Context, id int64) (Testimonial, error) {
	return scanTestimonial(q.db.QueryRowContext(ctx, getTestimonial, id))
}

const listTestimonials = `-- name: ListTestimonials :many
SELECT ` + testimonialColumns + ` FROM testimonials
WHERE (? = 0 OR is_active = 1) AND (? = 0 OR is_featured = 1)
ORDER BY display_order, id DESC`

type ListTestimonialsParams struct {
	ActiveOnly   bool
	FeaturedOnly bool
}

func (q *Queries) ListTestimonials(ctx context.Context, arg ListTestimonialsParams) ([]Testimonial, error) {
	rows, err := q.db.QueryContext(ctx, listTestimonials, arg.ActiveOnly, arg.FeaturedOnly)
	return collectRows(rows, err, scanTestimonial)
}

const updateTestimonial = `-- name: UpdateTestimonial :one
UPDATE testimonials SET client_name = ?, client_title = ?, company = ?, content = ?, rating = ?,
    avatar = ?, project_id = ?, is_featured = ?, is_active = ?, display_order = ?, updated_at = ?
WHERE id = ?
RETURNING ` + testimonialColumns

type UpdateTestimonialParams struct {
	ClientName   string
	ClientTitle  string
	Company      string
	Content      string
	Rating       int64
	Avatar       sql.NullString
	ProjectID    sql.NullInt64
	IsFeatured   bool
	IsActive     bool
	DisplayOrder int64
	UpdatedAt    time.Time
	ID           int64
}

func (q *Queries) UpdateTestimonial(ctx context.Context, arg UpdateTestimonialParams) (Testimonial, error) {
	row := q.db.QueryRowContext(ctx, updateTestimonial,
		arg.ClientName,
		arg.ClientTitle,
		arg.Company,
		arg.Content,
		arg.Rating,
		arg.Avatar,
		arg.ProjectID,
		arg.IsFeatured,
		arg.IsActive,
		arg.DisplayOrder,
		arg.UpdatedAt,
		arg.ID,
	)
	return scanTestimonial(row)
}

const deleteTestimonial = `-- name: DeleteTestimonial :execrows
DELETE FROM testimonials WHERE id = ?`

func (q *Queries) DeleteTestimonial(ctx context.Context, id int64) (int64, error) {
	return execRows(q.db.ExecContext(ctx, deleteTestimonial, id))
}

const socialLinkColumns = `id, platform, url, icon, display_order, is_active, created_at, updated_at`

func scanSocialLink(s scanner) (SocialLink, error) {
	var i SocialLink
	err := s.Scan(
		&i.ID,
		&i.Platform,
		&i.Url,
		&i.Icon,
		&i.DisplayOrder,
		&i.IsActive,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const createSocialLink = `-- name: CreateSocialLink :one
INSERT INTO social_links (platform, url, icon, display_order, is_active, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
RETURNING ` + socialLinkColumns

type CreateSocialLinkParams struct {
	Platform     string
	Url          string
	Icon         string
	DisplayOrder int64
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (q *Queries) CreateSocialLink(ctx context.Context, arg CreateSocialLinkParams) (SocialLink, error) {
	row := q.db.QueryRowContext(ctx, createSocialLink,
		arg.Platform,
		arg.Url,
		arg.Icon,
		arg.DisplayOrder,
		arg.IsActive,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return scanSocialLink(row)
}

const getSocialLink = `-- name: GetSocialLink :one
SELECT ` + socialLinkColumns + ` FROM social_links WHERE id = ?`

func (q *Queries) GetSocialLink(ctx context.Context, id int64) (SocialLink, error) {
	return scanSocialLink(q.db.QueryRowContext(ctx, getSocialLink, id))
}

const listSocialLinks = `-- name: ListSocialLinks :many
SELECT ` + socialLinkColumns + ` FROM social_links
WHERE (? = 0 OR is_active = 1)
ORDER BY display_order, id`

func (q *Queries) ListSocialLinks(ctx context.Context, activeOnly bool) ([]SocialLink, error) {
	rows, err := q.db.QueryContext(ctx, listSocialLinks, activeOnly)
	return collectRows(rows, err, scanSocialLink)
}

const updateSocialLink = `-- name: UpdateSocialLink :one
UPDATE social_links SET platform = ?, url = ?, icon = ?, display_order = ?, is_active = ?, updated_at = ?
WHERE id = ?
RETURNING ` + socialLinkColumns

type UpdateSocialLinkParams struct {
	Platform     string
	Url          string
	Icon         string
	DisplayOrder int64
	IsActive     bool
	UpdatedAt    time.Time
	ID           int64
}

func (q *Queries) UpdateSocialLink(ctx context.Context, arg UpdateSocialLinkParams) (SocialLink, error) {
	row := q.db.QueryRowContext(ctx, updateSocialLink,
		arg.Platform,
		arg.Url,
		arg.Icon,
		arg.DisplayOrder,
		arg.IsActive,
		arg.UpdatedAt,
		arg.ID,
	)
	return scanSocialLink(row)
}

const deleteSocialLink = `-- name: DeleteSocialLink :execrows
DELETE FROM social_links WHERE id = ?`

func (q *Queries) DeleteSocialLink(ctx context.Context, id int64) (int64, error) {
	return execRows(q.db.ExecContext(ctx, deleteSocialLink, id))
}
