// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"

	"github.com/olegiv/portfolio-api/internal/apperr"
	"github.com/olegiv/portfolio-api/internal/store"
)

// CategoryInput carries a category create or partial update.
type CategoryInput struct {
	Name         *string
	Slug         *string
	Description  *string
	DisplayOrder *int64
	IsActive     *bool
}

// CategoryService manages project categories.
type CategoryService struct {
	clock
	queries *store.Queries
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(db *sql.DB) *CategoryService {
	return &CategoryService{clock: newClock(), queries: store.New(db)}
}

// List returns categories ordered by display order. activeOnly hides
// inactive ones for public reads.
func (s *CategoryService) List(ctx context.Context, activeOnly bool) ([]store.ProjectCategory, error) {
	cats, err := s.queries.ListCategories(ctx, activeOnly)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return cats, nil
}

// Get returns a category by id.
func (s *CategoryService) Get(ctx context.Context, id int64) (store.ProjectCategory, error) {
	c, err := s.queries.GetCategoryByID(ctx, id)
	if err != nil {
		return store.ProjectCategory{}, lookupErr(err, "Category")
	}
	return c, nil
}

// Create inserts a category.
func (s *CategoryService) Create(ctx context.Context, in CategoryInput) (store.ProjectCategory, error) {
	name, err := trimmed(str(in.Name, ""), "name")
	if err != nil {
		return store.ProjectCategory{}, err
	}
	slug, err := resolveSlug(ctx, s.queries.CategorySlugExists, in.Slug, name, 0, "Category")
	if err != nil {
		return store.ProjectCategory{}, err
	}

	now := s.now()
	c, err := s.queries.CreateCategory(ctx, store.CreateCategoryParams{
		Name:         name,
		Slug:         slug,
		Description:  str(in.Description, ""),
		DisplayOrder: int64Or(in.DisplayOrder, 0),
		IsActive:     boolOr(in.IsActive, true),
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return store.ProjectCategory{}, writeErr(err, "Category")
	}
	return c, nil
}

// Update merges a partial update into a category.
func (s *CategoryService) Update(ctx context.Context, id int64, in CategoryInput) (store.ProjectCategory, error) {
	current, err := s.queries.GetCategoryByID(ctx, id)
	if err != nil {
		return store.ProjectCategory{}, lookupErr(err, "Category")
	}

	name := current.Name
	if in.Name != nil {
		if name, err = trimmed(*in.Name, "name"); err != nil {
			return store.ProjectCategory{}, err
		}
	}
	slug := current.Slug
	if in.Slug != nil || name != current.Name {
		if slug, err = resolveSlug(ctx, s.queries.CategorySlugExists, in.Slug, name, id, "Category"); err != nil {
			return store.ProjectCategory{}, err
		}
	}

	c, err := s.queries.UpdateCategory(ctx, store.UpdateCategoryParams{
		Name:         name,
		Slug:         slug,
		Description:  str(in.Description, current.Description),
		DisplayOrder: int64Or(in.DisplayOrder, current.DisplayOrder),
		IsActive:     boolOr(in.IsActive, current.IsActive),
		UpdatedAt:    s.now(),
		ID:           id,
	})
	if err != nil {
		return store.ProjectCategory{}, writeErr(err, "Category")
	}
	return c, nil
}

// Delete removes a category. Its projects keep existing without a category.
func (s *CategoryService) Delete(ctx context.Context, id int64) error {
	n, err := s.queries.DeleteCategory(ctx, id)
	return deleteErr(n, err, "Category")
}
