// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const serviceColumns = `id, title, slug, short_description, description, icon, features,
    display_order, is_active, created_at, updated_at, deleted_at`

func scanService(s scanner) (Service, error) {
	var i Service
	err := s.Scan(
		&i.ID,
		&i.Title,
		&i.Slug,
		&i.ShortDescription,
		&i.Description,
		&i.Icon,
		&i.Features,
		&i.DisplayOrder,
		&i.IsActive,
		&i.CreatedAt,
		&i.UpdatedAt,
		&i.DeletedAt,
	)
	return i, err
}

const createService = `-- name: CreateService :one
INSERT INTO services (title, slug, short_description, description, icon, features,
    display_order, is_active, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + serviceColumns

type CreateServiceParams struct {
	Title            string
	Slug             string
	ShortDescription string
	Description      string
	Icon             string
	Features         string
	DisplayOrder     int64
	IsActive         bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (q *Queries) CreateService(ctx context.Context, arg CreateServiceParams) (Service, error) {
	row := q.db.QueryRowContext(ctx, createService,
		arg.Title,
		arg.Slug,
		arg.ShortDescription,
		arg.Description,
		arg.Icon,
		arg.Features,
		arg.DisplayOrder,
		arg.IsActive,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return scanService(row)
}

const getServiceByID = `-- name: GetServiceByID :one
SELECT ` + serviceColumns + ` FROM services WHERE id = ? AND deleted_at IS NULL`

func (q *Queries) GetServiceByID(ctx context.Context, id int64) (Service, error) {
	return scanService(q.db.QueryRowContext(ctx, getServiceByID, id))
}

const getServiceBySlug = `-- name: GetServiceBySlug :one
SELECT ` + serviceColumns + ` FROM services WHERE slug = ? AND deleted_at IS NULL`

func (q *Queries) GetServiceBySlug(ctx context.Context, slug string) (Service, error) {
	return scanService(q.db.QueryRowContext(ctx, getServiceBySlug, slug))
}

const listServices = `-- name: ListServices :many
SELECT ` + serviceColumns + ` FROM services
WHERE deleted_at IS NULL AND (? = 0 OR is_active = 1)
ORDER BY display_order, id`

func (q *Queries) ListServices(ctx context.Context, activeOnly bool) ([]Service, error) {
	rows, err := q.db.QueryContext(ctx, listServices, activeOnly)
	return collectRows(rows, err, scanService)
}

const updateService = `-- name: UpdateService :one
UPDATE services SET title = ?, slug = ?, short_description = ?, description = ?, icon = ?,
    features = ?, display_order = ?, is_active = ?, updated_at = ?
WHERE id = ? AND deleted_at IS NULL
RETURNING ` + serviceColumns

type UpdateServiceParams struct {
	Title            string
	Slug             string
	ShortDescription string
	Description      string
	Icon             string
	Features         string
	DisplayOrder     int64
	IsActive         bool
	UpdatedAt        time.Time
	ID               int64
}

func (q *Queries) UpdateService(ctx context.Context, arg UpdateServiceParams) (Service, error) {
	row := q.db.QueryRowContext(ctx, updateService,
		arg.Title,
		arg.Slug,
		arg.ShortDescription,
		arg.Description,
		arg.Icon,
		arg.Features,
		arg.DisplayOrder,
		arg.IsActive,
		arg.UpdatedAt,
		arg.ID,
	)
	return scanService(row)
}

const softDeleteService = `-- name: SoftDeleteService :execrows
UPDATE services SET deleted_at = ?, is_active = 0, updated_at = ? WHERE id = ? AND deleted_at IS NULL`

type SoftDeleteServiceParams struct {
	DeletedAt sql.NullTime
	UpdatedAt time.Time
	ID        int64
}

func (q *Queries) SoftDeleteService(ctx context.Context, arg SoftDeleteServiceParams) (int64, error) {
	return execRows(q.db.ExecContext(ctx, softDeleteService, arg.DeletedAt, arg.UpdatedAt, arg.ID))
}

const serviceSlugExists = `-- name: ServiceSlugExists :one
SELECT EXISTS(SELECT 1 FROM services WHERE slug = ? AND id != ?)`

func (q *Queries) ServiceSlugExists(ctx context.Context, slug string, excludeID int64) (bool, error) {
	var exists bool
	err := q.db.QueryRowContext(ctx, serviceSlugExists, slug, excludeID).Scan(&exists)
	return exists, err
}

const packageColumns = `id, service_id, name, description, price_cents, currency, delivery_days,
    revisions, deliverables, is_popular, display_order, created_at, updated_at`

func scanServicePackage(s scanner) (ServicePackage, error) {
	var i ServicePackage
	err := s.Scan(
		&i.ID,
		&i.ServiceID,
		&i.Name,
		&i.Description,
		&i.PriceCents,
		&i.Currency,
		&i.DeliveryDays,
		&i.Revisions,
		&i.Deliverables,
		&i.IsPopular,
		&i.DisplayOrder,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const createServicePackage = `-- name: CreateServicePackage :one
INSERT INTO service_packages (service_id, name, description, price_cents, currency, delivery_days,
    revisions, deliverables, is_popular, display_order, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + packageColumns

type CreateServicePackageParams struct {
	ServiceID    int64
	Name         string
	Description  string
	PriceCents   int64
	Currency     string
	DeliveryDays int64
	Revisions    int64
	Deliverables string
	IsPopular    bool
	DisplayOrder int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (q *Queries) CreateServicePackage(ctx context.Context, arg CreateServicePackageParams) (ServicePackage, error) {
	row := q.db.QueryRowContext(ctx, createServicePackage,
		arg.ServiceID,
		arg.Name,
		arg.Description,
		arg.PriceCents,
		arg.Currency,
		arg.DeliveryDays,
		arg.Revisions,
		arg.Deliverables,
		arg.IsPopular,
		arg.DisplayOrder,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return scanServicePackage(row)
}

const getServicePackage = `-- name: GetServicePackage :one
SELECT ` + packageColumns + ` FROM service_packages WHERE service_id = ? AND id = ?`

func (q *Queries) GetServicePackage(ctx context.Context, serviceID, id int64) (ServicePackage, error) {
	return scanServicePackage(q.db.QueryRowContext(ctx, getServicePackage, serviceID, id))
}

const listServicePackages = `-- name: ListServicePackages :many
SELECT ` + packageColumns + ` FROM service_packages WHERE service_id = ? ORDER BY display_order, id`

func (q *Queries) ListServicePackages(ctx context.Context, serviceID int64) ([]ServicePackage, error) {
	rows, err := q.db.QueryContext(ctx, listServicePackages, serviceID)
	return collectRows(rows, err, scanServicePackage)
}

const updateServicePackage = `-- name: UpdateServicePackage :one
UPDATE service_packages SET name = ?, description = ?, price_cents = ?, currency = ?,
    delivery_days = ?, revisions = ?, deliverables = ?, is_popular = ?, display_order = ?,
    updated_at = ?
WHERE service_id = ? AND id = ?
RETURNING ` + packageColumns

type UpdateServicePackageParams struct {
	Name         string
	Description  string
	PriceCents   int64
	Currency     string
	DeliveryDays int64
	Revisions    int64
	Deliverables string
	IsPopular    bool
	DisplayOrder int64
	UpdatedAt    time.Time
	ServiceID    int64
	ID           int64
}

func (q *Queries) UpdateServicePackage(ctx context.Context, arg UpdateServicePackageParams) (ServicePackage, error) {
	row := q.db.QueryRowContext(ctx, updateServicePackage,
		arg.Name,
		arg.Description,
		arg.PriceCents,
		arg.Currency,
		arg.DeliveryDays,
		arg.Revisions,
		arg.Deliverables,
		arg.IsPopular,
		arg.DisplayOrder,
		arg.UpdatedAt,
		arg.ServiceID,
		arg.ID,
	)
	return scanServicePackage(row)
}

const deleteServicePackage = `-- name: DeleteServicePackage :execrows
DELETE FROM service_packages WHERE service_id = ? AND id = ?`

func (q *Queries) DeleteServicePackage(ctx context.Context, serviceID, id int64) (int64, error) {
	return execRows(q.db.ExecContext(ctx, deleteServicePackage, serviceID, id))
}

const listActiveServiceSlugs = `-- name: ListActiveServiceSlugs :many
SELECT slug, updated_at FROM services
WHERE is_active = 1 AND deleted_at IS NULL
ORDER BY display_order, id`

func (q *Queries) ListActiveServiceSlugs(ctx context.Context) ([]SlugStamp, error) {
	rows, err := q.db.QueryContext(ctx, listActiveServiceSlugs)
	return collectRows(rows, err, scanSlugStamp)
}
