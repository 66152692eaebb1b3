// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service implements the business rules of the portfolio API on top
// of the store. Every exported method returns *apperr.Error values for
// failures the client should see.
package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/olegiv/portfolio-api/internal/apperr"
	"github.com/olegiv/portfolio-api/internal/store"
	"github.com/olegiv/portfolio-api/internal/util"
)

// Pagination defaults.
const (
	DefaultPageSize = 12
	MaxPageSize     = 100
)

// Page selects one page of a listing. Zero values take the defaults.
type Page struct {
	Page  int
	Limit int
}

// Normalize applies defaults and rejects out-of-range values.
func (p Page) Normalize() (Page, error) {
	if p.Page == 0 {
		p.Page = 1
	}
	if p.Limit == 0 {
		p.Limit = DefaultPageSize
	}
	if p.Page < 1 {
		return p, apperr.Validation("page must be at least 1")
	}
	if p.Limit < 1 || p.Limit > MaxPageSize {
		return p, apperr.Newf(apperr.KindValidation, "limit must be between 1 and %d", MaxPageSize)
	}
	return p, nil
}

// Offset returns the row offset of the page.
func (p Page) Offset() int64 {
	return int64((p.Page - 1) * p.Limit)
}

// Pagination describes a returned page.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"totalPages"`
}

func newPagination(p Page, total int64) Pagination {
	pages := total / int64(p.Limit)
	if total%int64(p.Limit) != 0 {
		pages++
	}
	return Pagination{Page: p.Page, Limit: p.Limit, Total: total, TotalPages: pages}
}

// clock is embedded by services that stamp rows.
type clock struct {
	now func() time.Time
}

func newClock() clock {
	return clock{now: func() time.Time { return time.Now().UTC() }}
}

// SetClock replaces the time source, for tests.
func (c *clock) SetClock(now func() time.Time) {
	c.now = now
}

// lookupErr maps a single-row lookup failure.
func lookupErr(err error, resource string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.NotFound(resource)
	}
	return apperr.Internal(err)
}

// writeErr maps a failed insert or update. Unique violations become
// SLUG_EXISTS and broken references become VALIDATION.
func writeErr(err error, resource string) error {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return apperr.NotFound(resource)
	case store.IsUniqueViolation(err):
		return apperr.Wrap(apperr.KindSlugExists, "A "+strings.ToLower(resource)+" with this slug already exists", err)
	case store.IsForeignKeyViolation(err):
		return apperr.Wrap(apperr.KindValidation, "Referenced record does not exist", err)
	default:
		return apperr.Internal(err)
	}
}

// deleteErr maps the outcome of a delete statement.
func deleteErr(n int64, err error, resource string) error {
	if err != nil {
		return apperr.Internal(err)
	}
	if n == 0 {
		return apperr.NotFound(resource)
	}
	return nil
}

// slugChecker reports whether a slug is taken by a row other than excludeID.
type slugChecker func(ctx context.Context, slug string, excludeID int64) (bool, error)

// resolveSlug picks the slug for a create or update. An explicit slug wins
// and must already be canonical; otherwise the slug is derived from title.
// The result is checked for uniqueness so the common case fails before the
// write; the unique index still guards concurrent writers.
func resolveSlug(ctx context.Context, exists slugChecker, explicit *string, title string, excludeID int64, resource string) (string, error) {
	var slug string
	if explicit != nil && strings.TrimSpace(*explicit) != "" {
		slug = strings.TrimSpace(*explicit)
		if !util.IsValidSlug(slug) {
			return "", apperr.Validation("slug must contain only lowercase letters, digits and single hyphens")
		}
	} else {
		slug = util.Slugify(title)
		if slug == "" {
			return "", apperr.Validation("title must contain at least one letter or digit")
		}
	}

	taken, err := exists(ctx, slug, excludeID)
	if err != nil {
		return "", apperr.Internal(fmt.Errorf("checking slug: %w", err))
	}
	if taken {
		return "", apperr.New(apperr.KindSlugExists, "A "+strings.ToLower(resource)+" with this slug already exists")
	}
	return slug, nil
}

// str returns *p, or def when p is nil.
func str(p *string, def string) string {
	if p == nil {
		return def
	}
	return *p
}

func boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}

func int64Or(p *int64, def int64) int64 {
	if p == nil {
		return def
	}
	return *p
}

// trimmed returns the trimmed value of a required field, or a validation error.
func trimmed(value, field string) (string, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return "", apperr.Validation(field + " is required")
	}
	return v, nil
}

// txErr passes classified errors through and wraps anything else.
func txErr(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := apperr.As(err); ok {
		return err
	}
	return apperr.Internal(err)
}

// parseID reads a positive decimal id.
func parseID(s string) (int64, bool) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
