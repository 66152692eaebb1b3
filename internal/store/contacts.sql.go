// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const contactColumns = `id, name, email, phone, company, project_type, budget_range, message,
    preferred_timeline, ip_address, country, user_agent, status, admin_notes, responded_at,
    created_at, updated_at`

func scanContact(s scanner) (ContactSubmission, error) {
	var i ContactSubmission
	err := s.Scan(
		&i.ID,
		&i.Name,
		&i.Email,
		&i.Phone,
		&i.Company,
		&i.ProjectType,
		&i.BudgetRange,
		&i.Message,
		&i.PreferredTimeline,
		&i.IpAddress,
		&i.Country,
		&i.UserAgent,
		&i.Status,
		&i.AdminNotes,
		&i.RespondedAt,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const createContactSubmission = `-- name: CreateContactSubmission :one
INSERT INTO contact_submissions (name, email, phone, company, project_type, budget_range, message,
    preferred_timeline, ip_address, country, user_agent, status, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 'new', ?, ?)
RETURNING ` + contactColumns

type CreateContactSubmissionParams struct {
	Name              string
	Email             string
	Phone             sql.NullString
	Company           sql.NullString
	ProjectType       string
	BudgetRange       sql.NullString
	Message           string
	PreferredTimeline sql.NullString
	IpAddress         string
	Country           string
	UserAgent         string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (q *Queries) CreateContactSubmission(ctx context.Context, arg CreateContactSubmissionParams) (ContactSubmission, error) {
	row := q.db.QueryRowContext(ctx, createContactSubmission,
		arg.Name,
		arg.Email,
		arg.Phone,
		arg.Company,
		arg.ProjectType,
		arg.BudgetRange,
		arg.Message,
		arg.PreferredTimeline,
		arg.IpAddress,
		arg.Country,
		arg.UserAgent,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return scanContact(row)
}

const getContactSubmission = `-- name: GetContactSubmission :one
SELECT ` + contactColumns + ` FROM contact_submissions WHERE id = ?`

func (q *Queries) GetContactSubmission(ctx context.Context, id int64) (ContactSubmission, error) {
	return scanContact(q.db.QueryRowContext(ctx, getContactSubmission, id))
}

const listContactSubmissions = `-- name: ListContactSubmissions :many
SELECT ` + contactColumns + ` FROM contact_submissions
WHERE (? = '' OR status = ?)
ORDER BY created_at DESC, id DESC
LIMIT ? OFFSET ?`

type ListContactSubmissionsParams struct {
	Status string
	Limit  int64
	Offset int64
}

func (q *Queries) ListContactSubmissions(ctx context.Context, arg ListContactSubmissionsParams) ([]ContactSubmission, error) {
	rows, err := q.db.QueryContext(ctx, listContactSubmissions, arg.Status, arg.Status, arg.Limit, arg.Offset)
	return collectRows(rows, err, scanContact)
}

const countContactSubmissions = `-- name: CountContactSubmissions :one
SELECT COUNT(*) FROM contact_submissions WHERE (? = '' OR status = ?)`

func (q *Queries) CountContactSubmissions(ctx context.Context, status string) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countContactSubmissions, status, status).Scan(&count)
	return count, err
}

const updateContactStatus = `-- name: UpdateContactStatus :one
UPDATE contact_submissions SET status = ?, admin_notes = ?, responded_at = ?, updated_at = ?
WHERE id = ?
RETURNING ` + contactColumns

type UpdateContactStatusParams struct {
	Status      string
	AdminNotes  string
	RespondedAt sql.NullTime
	UpdatedAt   time.Time
	ID          int64
}

func (q *Queries) UpdateContactStatus(ctx context.Context, arg UpdateContactStatusParams) (ContactSubmission, error) {
	row := q.db.QueryRowContext(ctx, updateContactStatus,
		arg.Status,
		arg.AdminNotes,
		arg.RespondedAt,
		arg.UpdatedAt,
		arg.ID,
	)
	return scanContact(row)
}

const deleteContactSubmission = `-- name: DeleteContactSubmission :execrows
DELETE FROM contact_submissions WHERE id = ?`

func (q *Queries) DeleteContactSubmission(ctx context.Context, id int64) (int64, error) {
	return execRows(q.db.ExecContext(ctx, deleteContactSubmission, id))
}
