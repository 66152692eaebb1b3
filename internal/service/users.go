// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/olegiv/portfolio-api/internal/apperr"
	"github.com/olegiv/portfolio-api/internal/auth"
	"github.com/olegiv/portfolio-api/internal/store"
)

// User roles.
const (
	RoleAdmin  = "admin"
	RoleViewer = "viewer"
)

// MinPasswordLength is enforced on new passwords.
const MinPasswordLength = 8

// UpdateProfileInput carries a partial profile update. Nil fields are kept.
type UpdateProfileInput struct {
	Email           *string
	FullName        *string
	AboutMe         *string
	WhatICanDo      *string
	CurrentPassword string
	NewPassword     string
}

// CreateUserInput carries a new account.
type CreateUserInput struct {
	Email    string
	Password string
	FullName string
	Role     string
}

// UserService manages accounts and profiles.
type UserService struct {
	clock
	db      *sql.DB
	queries *store.Queries
	logger  *slog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB, logger *slog.Logger) *UserService {
	return &UserService{
		clock:   newClock(),
		db:      db,
		queries: store.New(db),
		logger:  logger,
	}
}

// Get returns a user by id.
func (s *UserService) Get(ctx context.Context, id int64) (store.User, error) {
	u, err := s.queries.GetUserByID(ctx, id)
	if err != nil {
		return store.User{}, lookupErr(err, "User")
	}
	return u, nil
}

// PublicProfile returns the site owner, the first admin account.
func (s *UserService) PublicProfile(ctx context.Context) (store.User, error) {
	u, err := s.queries.GetFirstAdmin(ctx)
	if err != nil {
		return store.User{}, lookupErr(err, "Profile")
	}
	return u, nil
}

// List returns every account.
func (s *UserService) List(ctx context.Context) ([]store.User, error) {
	users, err := s.queries.ListUsers(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return users, nil
}

// Create adds an account.
func (s *UserService) Create(ctx context.Context, in CreateUserInput) (store.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" {
		return store.User{}, apperr.Validation("email is required")
	}
	if err := checkPasswordStrength(in.Password); err != nil {
		return store.User{}, err
	}
	role := in.Role
	if role == "" {
		role = RoleViewer
	}
	if role != RoleAdmin && role != RoleViewer {
		return store.User{}, apperr.Validation("role must be admin or viewer")
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return store.User{}, apperr.Internal(fmt.Errorf("hashing password: %w", err))
	}

	now := s.now()
	u, err := s.queries.CreateUser(ctx, store.CreateUserParams{
		Email:        email,
		PasswordHash: hash,
		FullName:     strings.TrimSpace(in.FullName),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if store.IsUniqueViolation(err) {
			return store.User{}, apperr.Validation("A user with this email already exists")
		}
		return store.User{}, apperr.Internal(err)
	}

	s.logger.Info("user created", "user_id", u.ID, "role", u.Role)
	return u, nil
}

// UpdateProfile applies a partial update to the caller's own profile.
// Changing the password requires the current password.
func (s *UserService) UpdateProfile(ctx context.Context, userID int64, in UpdateProfileInput) (store.User, error) {
	current, err := s.queries.GetUserByID(ctx, userID)
	if err != nil {
		return store.User{}, lookupErr(err, "User")
	}

	now := s.now()
	err = store.InTx(ctx, s.db, func(q *store.Queries) error {
		if in.NewPassword != "" {
			if !auth.CheckPassword(in.CurrentPassword, current.PasswordHash) {
				return apperr.Validation("Current password is incorrect")
			}
			if err := checkPasswordStrength(in.NewPassword); err != nil {
				return err
			}
			hash, err := auth.HashPassword(in.NewPassword)
			if err != nil {
				return apperr.Internal(err)
			}
			if err := q.UpdateUserPassword(ctx, store.UpdateUserPasswordParams{
				PasswordHash: hash,
				UpdatedAt:    now,
				ID:           userID,
			}); err != nil {
				return apperr.Internal(err)
			}
		}

		email := strings.ToLower(strings.TrimSpace(str(in.Email, current.Email)))
		if email == "" {
			return apperr.Validation("email cannot be empty")
		}
		updated, err := q.UpdateUserProfile(ctx, store.UpdateUserProfileParams{
			Email:      email,
			FullName:   strings.TrimSpace(str(in.FullName, current.FullName)),
			AboutMe:    str(in.AboutMe, current.AboutMe),
			WhatICanDo: str(in.WhatICanDo, current.WhatICanDo),
			UpdatedAt:  now,
			ID:         userID,
		})
		if err != nil {
			if store.IsUniqueViolation(err) {
				return apperr.Validation("A user with this email already exists")
			}
			return apperr.Internal(err)
		}
		current = updated
		return nil
	})
	if err != nil {
		return store.User{}, txErr(err)
	}
	return current, nil
}

func checkPasswordStrength(pw string) error {
	if len(pw) < MinPasswordLength {
		return apperr.Newf(apperr.KindValidation, "password must be at least %d characters", MinPasswordLength)
	}
	return nil
}
