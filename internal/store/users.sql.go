// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const userColumns = `id, email, password_hash, full_name, role, last_login, login_attempts,
    last_failed_login, locked_until, profile_picture, about_me, what_i_can_do,
    two_factor_enabled, two_factor_secret, created_at, updated_at`

func scanUser(s scanner) (User, error) {
	var i User
	err := s.Scan(
		&i.ID,
		&i.Email,
		&i.PasswordHash,
		&i.FullName,
		&i.Role,
		&i.LastLogin,
		&i.LoginAttempts,
		&i.LastFailedLogin,
		&i.LockedUntil,
		&i.ProfilePicture,
		&i.AboutMe,
		&i.WhatICanDo,
		&i.TwoFactorEnabled,
		&i.TwoFactorSecret,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const createUser = `-- name: CreateUser :one
INSERT INTO users (email, password_hash, full_name, role, about_me, what_i_can_do, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + userColumns

type CreateUserParams struct {
	Email        string
	PasswordHash string
	FullName     string
	Role         string
	AboutMe      string
	WhatICanDo   string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (User, error) {
	row := q.db.QueryRowContext(ctx, createUser,
		arg.Email,
		arg.PasswordHash,
		arg.FullName,
		arg.Role,
		arg.AboutMe,
		arg.WhatICanDo,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return scanUser(row)
}

const getUserByID = `-- name: GetUserByID :one
SELECT ` + userColumns + ` FROM users WHERE id = ?`

func (q *Queries) GetUserByID(ctx context.Context, id int64) (User, error) {
	return scanUser(q.db.QueryRowContext(ctx, getUserByID, id))
}

const getUserByEmail = `-- name: GetUserByEmail :one
SELECT ` + userColumns + ` FROM users WHERE email = ? COLLATE NOCASE`

func (q *Queries) GetUserByEmail(ctx context.Context, email string) (User, error) {
	return scanUser(q.db.QueryRowContext(ctx, getUserByEmail, email))
}

const getFirstAdmin = `-- name: GetFirstAdmin :one
SELECT ` + userColumns + ` FROM users WHERE role = 'admin' ORDER BY id LIMIT 1`

func (q *Queries) GetFirstAdmin(ctx context.Context) (User, error) {
	return scanUser(q.db.QueryRowContext(ctx, getFirstAdmin))
}

const listUsers = `-- name: ListUsers :many
SELECT ` + userColumns + ` FROM users ORDER BY id`

func (q *Queries) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := q.db.QueryContext(ctx, listUsers)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []User{}
	for rows.Next() {
		i, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const countUsers = `-- name: CountUsers :one
SELECT COUNT(*) FROM users`

func (q *Queries) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countUsers).Scan(&count)
	return count, err
}

const updateUserProfile = `-- name: UpdateUserProfile :one
UPDATE users SET email = ?, full_name = ?, about_me = ?, what_i_can_do = ?, updated_at = ?
WHERE id = ?
RETURNING ` + userColumns

type UpdateUserProfileParams struct {
	Email      string
	FullName   string
	AboutMe    string
	WhatICanDo string
	UpdatedAt  time.Time
	ID         int64
}

func (q *Queries) UpdateUserProfile(ctx context.Context, arg UpdateUserProfileParams) (User, error) {
	row := q.db.QueryRowContext(ctx, updateUserProfile,
		arg.Email,
		arg.FullName,
		arg.AboutMe,
		arg.WhatICanDo,
		arg.UpdatedAt,
		arg.ID,
	)
	return scanUser(row)
}

const updateUserPassword = `-- name: UpdateUserPassword :exec
UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`

type UpdateUserPasswordParams struct {
	PasswordHash string
	UpdatedAt    time.Time
	ID           int64
}

func (q *Queries) UpdateUserPassword(ctx context.Context, arg UpdateUserPasswordParams) error {
	_, err := q.db.ExecContext(ctx, updateUserPassword, arg.PasswordHash, arg.UpdatedAt, arg.ID)
	return err
}

const updateUserProfilePicture = `-- name: UpdateUserProfilePicture :execrows
UPDATE users SET profile_picture = ?, updated_at = ? WHERE id = ?`

type UpdateUserProfilePictureParams struct {
	ProfilePicture sql.NullString
	UpdatedAt      time.Time
	ID             int64
}

func (q *Queries) UpdateUserProfilePicture(ctx context.Context, arg UpdateUserProfilePictureParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateUserProfilePicture, arg.ProfilePicture, arg.UpdatedAt, arg.ID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const recordFailedLogin = `-- name: RecordFailedLogin :exec
UPDATE users SET login_attempts = ?, last_failed_login = ?, locked_until = ?, updated_at = ?
WHERE id = ?`

type RecordFailedLoginParams struct {
	LoginAttempts   int64
	LastFailedLogin sql.NullTime
	LockedUntil     sql.NullTime
	UpdatedAt       time.Time
	ID              int64
}

func (q *Queries) RecordFailedLogin(ctx context.Context, arg RecordFailedLoginParams) error {
	_, err := q.db.ExecContext(ctx, recordFailedLogin,
		arg.LoginAttempts,
		arg.LastFailedLogin,
		arg.LockedUntil,
		arg.UpdatedAt,
		arg.ID,
	)
	return err
}

const recordSuccessfulLogin = `-- name: RecordSuccessfulLogin :exec
UPDATE users SET login_attempts = 0, last_failed_login = NULL, locked_until = NULL,
    last_login = ?, updated_at = ?
WHERE id = ?`

type RecordSuccessfulLoginParams struct {
	LastLogin sql.NullTime
	UpdatedAt time.Time
	ID        int64
}

func (q *Queries) RecordSuccessfulLogin(ctx context.Context, arg RecordSuccessfulLoginParams) error {
	_, err := q.db.ExecContext(ctx, recordSuccessfulLogin, arg.LastLogin, arg.UpdatedAt, arg.ID)
	return err
}
