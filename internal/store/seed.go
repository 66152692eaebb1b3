// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/olegiv/portfolio-api/internal/auth"
)

// SeedOptions controls the initial admin account.
type SeedOptions struct {
	AdminEmail    string
	AdminPassword string
	AdminName     string
}

var defaultCategories = []struct {
	Name, Slug string
}{
	{"Web Development", "web-development"},
	{"Graphic Design", "graphic-design"},
	{"Branding", "branding"},
	{"Mobile Apps", "mobile-apps"},
}

var defaultSettings = []struct {
	Key, Value, Category string
}{
	{"site_title", "Portfolio", "general"},
	{"site_description", "", "general"},
	{"contact_email", "", "contact"},
	{"availability", "available", "general"},
}

// Seed creates the admin account, default categories and default settings.
// Each part is skipped when data for it already exists.
func Seed(ctx context.Context, db *sql.DB, opts SeedOptions, logger *slog.Logger) error {
	queries := New(db)
	now := time.Now().UTC()

	if err := seedAdmin(ctx, queries, opts, now, logger); err != nil {
		return err
	}

	categories, err := queries.ListCategories(ctx, false)
	if err != nil {
		return fmt.Errorf("listing categories: %w", err)
	}
	if len(categories) == 0 {
		for i, c := range defaultCategories {
			if _, err := queries.CreateCategory(ctx, CreateCategoryParams{
				Name:         c.Name,
				Slug:         c.Slug,
				DisplayOrder: int64(i),
				IsActive:     true,
				CreatedAt:    now,
				UpdatedAt:    now,
			}); err != nil {
				return fmt.Errorf("creating category %s: %w", c.Slug, err)
			}
		}
		logger.Info("seeded project categories", "count", len(defaultCategories))
	}

	for _, s := range defaultSettings {
		if _, err := queries.GetSetting(ctx, s.Key); err == nil {
			continue
		} else if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("checking setting %s: %w", s.Key, err)
		}
		if _, err := queries.UpsertSetting(ctx, UpsertSettingParams{
			Key:       s.Key,
			Value:     s.Value,
			Category:  s.Category,
			IsPublic:  true,
			CreatedAt: now,
			UpdatedAt: now,
		}); err != nil {
			return fmt.Errorf("creating setting %s: %w", s.Key, err)
		}
	}

	return nil
}

func seedAdmin(ctx context.Context, queries *Queries, opts SeedOptions, now time.Time, logger *slog.Logger) error {
	if opts.AdminEmail == "" || opts.AdminPassword == "" {
		logger.Info("admin credentials not configured, skipping admin seed")
		return nil
	}

	email := strings.ToLower(strings.TrimSpace(opts.AdminEmail))
	_, err := queries.GetUserByEmail(ctx, email)
	if err == nil {
		logger.Debug("admin user already exists, skipping seed")
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("checking for admin user: %w", err)
	}

	passwordHash, err := auth.HashPassword(opts.AdminPassword)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	name := opts.AdminName
	if name == "" {
		name = "Administrator"
	}

	user, err := queries.CreateUser(ctx, CreateUserParams{
		Email:        email,
		PasswordHash: passwordHash,
		FullName:     name,
		Role:         "admin",
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return fmt.Errorf("creating admin user: %w", err)
	}

	logger.Info("created admin user", "id", user.ID, "email", user.Email)
	return nil
}
