// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"

	"github.com/olegiv/portfolio-api/internal/apperr"
	"github.com/olegiv/portfolio-api/internal/imaging"
	"github.com/olegiv/portfolio-api/internal/store"
	"github.com/olegiv/portfolio-api/internal/util"
)

// Rating bounds.
const (
	MinRating     = 1
	MaxRating     = 5
	DefaultRating = 5
)

// TestimonialInput carries a testimonial create or partial update.
type TestimonialInput struct {
	ClientName   *string
	ClientTitle  *string
	Company      *string
	Content      *string
	Rating       *int64
	Avatar       *string // data URI or URL; "" clears
	ProjectID    *int64  // 0 clears
	IsFeatured   *bool
	IsActive     *bool
	DisplayOrder *int64
}

// TestimonialService manages client testimonials.
type TestimonialService struct {
	clock
	queries   *store.Queries
	processor *imaging.Processor
}

// NewTestimonialService creates a new TestimonialService.
func NewTestimonialService(db *sql.DB, processor *imaging.Processor) *TestimonialService {
	return &TestimonialService{clock: newClock(), queries: store.New(db), processor: processor}
}

// List returns testimonials in display order.
func (s *TestimonialService) List(ctx context.Context, activeOnly, featuredOnly bool) ([]store.Testimonial, error) {
	items, err := s.queries.ListTestimonials(ctx, store.ListTestimonialsParams{
		ActiveOnly:   activeOnly,
		FeaturedOnly: featuredOnly,
	})
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return items, nil
}

// Get returns one testimonial.
func (s *TestimonialService) Get(ctx context.Context, id int64) (store.Testimonial, error) {
	t, err := s.queries.GetTestimonial(ctx, id)
	if err != nil {
		return store.Testimonial{}, lookupErr(err, "Testimonial")
	}
	return t, nil
}

// Create inserts a testimonial.
func (s *TestimonialService) Create(ctx context.Context, in TestimonialInput) (store.Testimonial, error) {
	name, err := trimmed(str(in.ClientName, ""), "client_name")
	if err != nil {
		return store.Testimonial{}, err
	}
	content, err := trimmed(str(in.Content, ""), "content")
	if err != nil {
		return store.Testimonial{}, err
	}
	rating, err := checkRating(int64Or(in.Rating, DefaultRating))
	if err != nil {
		return store.Testimonial{}, err
	}
	avatar, err := s.avatar(in.Avatar, sql.NullString{})
	if err != nil {
		return store.Testimonial{}, err
	}

	now := s.now()
	t, err := s.queries.CreateTestimonial(ctx, store.CreateTestimonialParams{
		ClientName:   name,
		ClientTitle:  str(in.ClientTitle, ""),
		Company:      str(in.Company, ""),
		Content:      content,
		Rating:       rating,
		Avatar:       avatar,
		ProjectID:    optionalID(in.ProjectID, sql.NullInt64{}),
		IsFeatured:   boolOr(in.IsFeatured, false),
		IsActive:     boolOr(in.IsActive, true),
		DisplayOrder: int64Or(in.DisplayOrder, 0),
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return store.Testimonial{}, writeErr(err, "Testimonial")
	}
	return t, nil
}

// Update merges a partial update into a testimonial.
func (s *TestimonialService) Update(ctx context.Context, id int64, in TestimonialInput) (store.Testimonial, error) {
	current, err := s.queries.GetTestimonial(ctx, id)
	if err != nil {
		return store.Testimonial{}, lookupErr(err, "Testimonial")
	}
	name := current.ClientName
	if in.ClientName != nil {
		if name, err = trimmed(*in.ClientName, "client_name"); err != nil {
			return store.Testimonial{}, err
		}
	}
	content := current.Content
	if in.Content != nil {
		if content, err = trimmed(*in.Content, "content"); err != nil {
			return store.Testimonial{}, err
		}
	}
	rating, err := checkRating(int64Or(in.Rating, current.Rating))
	if err != nil {
		return store.Testimonial{}, err
	}
	avatar, err := s.avatar(in.Avatar, current.Avatar)
	if err != nil {
		return store.Testimonial{}, err
	}

	t, err := s.queries.UpdateTestimonial(ctx, store.UpdateTestimonialParams{
		ClientName:   name,
		ClientTitle:  str(in.ClientTitle, current.ClientTitle),
		Company:      str(in.Company, current.Company),
		Content:      content,
		Rating:       rating,
		Avatar:       avatar,
		ProjectID:    optionalID(in.ProjectID, current.ProjectID),
		IsFeatured:   boolOr(in.IsFeatured, current.IsFeatured),
		IsActive:     boolOr(in.IsActive, current.IsActive),
		DisplayOrder: int64Or(in.DisplayOrder, current.DisplayOrder),
		UpdatedAt:    s.now(),
		ID:           id,
	})
	if err != nil {
		return store.Testimonial{}, writeErr(err, "Testimonial")
	}
	return t, nil
}

// Delete removes a testimonial.
func (s *TestimonialService) Delete(ctx context.Context, id int64) error {
	n, err := s.queries.DeleteTestimonial(ctx, id)
	return deleteErr(n, err, "Testimonial")
}

func (s *TestimonialService) avatar(in *string, current sql.NullString) (sql.NullString, error) {
	if in == nil {
		return current, nil
	}
	img, err := inlineImage(s.processor, *in, "avatar")
	if err != nil {
		return sql.NullString{}, err
	}
	return util.NullStringFromValue(img.Value), nil
}

func checkRating(r int64) (int64, error) {
	if r < MinRating || r > MaxRating {
		return 0, apperr.Newf(apperr.KindValidation, "rating must be between %d and %d", MinRating, MaxRating)
	}
	return r, nil
}

// optionalID applies an optional reference update. nil keeps current and
// zero clears.
func optionalID(in *int64, current sql.NullInt64) sql.NullInt64 {
	if in == nil {
		return current
	}
	return sql.NullInt64{Int64: *in, Valid: *in > 0}
}
