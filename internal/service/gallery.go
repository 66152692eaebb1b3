// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"strings"

	"github.com/olegiv/portfolio-api/internal/apperr"
	"github.com/olegiv/portfolio-api/internal/imaging"
	"github.com/olegiv/portfolio-api/internal/store"
)

// GalleryInput carries a gallery image create or partial update.
type GalleryInput struct {
	Title        *string
	Description  *string
	Image        *string // data URI or URL
	Category     *string
	DisplayOrder *int64
	IsActive     *bool
}

// GalleryService manages the standalone image gallery.
type GalleryService struct {
	clock
	queries   *store.Queries
	processor *imaging.Processor
}

// NewGalleryService creates a new GalleryService.
func NewGalleryService(db *sql.DB, processor *imaging.Processor) *GalleryService {
	return &GalleryService{clock: newClock(), queries: store.New(db), processor: processor}
}

// List returns gallery images ordered by display order, optionally filtered
// by category. activeOnly hides inactive images for public reads.
func (s *GalleryService) List(ctx context.Context, category string, activeOnly bool) ([]store.GalleryImage, error) {
	items, err := s.queries.ListGalleryImages(ctx, store.ListGalleryImagesParams{
		ActiveOnly: activeOnly,
		Category:   strings.TrimSpace(category),
	})
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return items, nil
}

// Get returns one gallery image.
func (s *GalleryService) Get(ctx context.Context, id int64) (store.GalleryImage, error) {
	g, err := s.queries.GetGalleryImage(ctx, id)
	if err != nil {
		return store.GalleryImage{}, lookupErr(err, "Gallery image")
	}
	return g, nil
}

// Create inserts a gallery image.
func (s *GalleryService) Create(ctx context.Context, in GalleryInput) (store.GalleryImage, error) {
	title, err := trimmed(str(in.Title, ""), "title")
	if err != nil {
		return store.GalleryImage{}, err
	}
	img, err := inlineImage(s.processor, str(in.Image, ""), "image")
	if err != nil {
		return store.GalleryImage{}, err
	}
	if img.Value == "" {
		return store.GalleryImage{}, apperr.Validation("image is required")
	}

	now := s.now()
	g, err := s.queries.CreateGalleryImage(ctx, store.CreateGalleryImageParams{
		Title:        title,
		Description:  str(in.Description, ""),
		Image:        img.Value,
		MimeType:     img.MimeType,
		FileSize:     img.Size,
		Category:     strings.TrimSpace(str(in.Category, "")),
		DisplayOrder: int64Or(in.DisplayOrder, 0),
		IsActive:     boolOr(in.IsActive, true),
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return store.GalleryImage{}, writeErr(err, "Gallery image")
	}
	return g, nil
}

// Update merges a partial update into a gallery image.
func (s *GalleryService) Update(ctx context.Context, id int64, in GalleryInput) (store.GalleryImage, error) {
	current, err := s.queries.GetGalleryImage(ctx, id)
	if err != nil {
		return store.GalleryImage{}, lookupErr(err, "Gallery image")
	}
	title := current.Title
	if in.Title != nil {
		if title, err = trimmed(*in.Title, "title"); err != nil {
			return store.GalleryImage{}, err
		}
	}
	img := InlineImage{Value: current.Image, MimeType: current.MimeType, Size: current.FileSize}
	if in.Image != nil {
		if img, err = inlineImage(s.processor, *in.Image, "image"); err != nil {
			return store.GalleryImage{}, err
		}
		if img.Value == "" {
			return store.GalleryImage{}, apperr.Validation("image must not be empty")
		}
	}

	g, err := s.queries.UpdateGalleryImage(ctx, store.UpdateGalleryImageParams{
		Title:        title,
		Description:  str(in.Description, current.Description),
		Image:        img.Value,
		MimeType:     img.MimeType,
		FileSize:     img.Size,
		Category:     strings.TrimSpace(str(in.Category, current.Category)),
		DisplayOrder: int64Or(in.DisplayOrder, current.DisplayOrder),
		IsActive:     boolOr(in.IsActive, current.IsActive),
		UpdatedAt:    s.now(),
		ID:           id,
	})
	if err != nil {
		return store.GalleryImage{}, writeErr(err, "Gallery image")
	}
	return g, nil
}

// Delete removes a gallery image.
func (s *GalleryService) Delete(ctx context.Context, id int64) error {
	n, err := s.queries.DeleteGalleryImage(ctx, id)
	return deleteErr(n, err, "Gallery image")
}
