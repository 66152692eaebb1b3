// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"net/url"
	"strings"

	"github.com/olegiv/portfolio-api/internal/apperr"
	"github.com/olegiv/portfolio-api/internal/store"
)

// SocialLinkInput carries a social link create or partial update.
type SocialLinkInput struct {
	Platform     *string
	URL          *string
	Icon         *string
	DisplayOrder *int64
	IsActive     *bool
}

// SocialLinkService manages the owner's social profile links.
type SocialLinkService struct {
	clock
	queries *store.Queries
}

// NewSocialLinkService creates a new SocialLinkService.
func NewSocialLinkService(db *sql.DB) *SocialLinkService {
	return &SocialLinkService{clock: newClock(), queries: store.New(db)}
}

// List returns links in display order.
func (s *SocialLinkService) List(ctx context.Context, activeOnly bool) ([]store.SocialLink, error) {
	links, err := s.queries.ListSocialLinks(ctx, activeOnly)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return links, nil
}

// Create inserts a link.
func (s *SocialLinkService) Create(ctx context.Context, in SocialLinkInput) (store.SocialLink, error) {
	platform, err := trimmed(str(in.Platform, ""), "platform")
	if err != nil {
		return store.SocialLink{}, err
	}
	link, err := linkURL(str(in.URL, ""))
	if err != nil {
		return store.SocialLink{}, err
	}

	now := s.now()
	l, err := s.queries.CreateSocialLink(ctx, store.CreateSocialLinkParams{
		Platform:     platform,
		Url:          link,
		Icon:         str(in.Icon, strings.ToLower(platform)),
		DisplayOrder: int64Or(in.DisplayOrder, 0),
		IsActive:     boolOr(in.IsActive, true),
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return store.SocialLink{}, writeErr(err, "Social link")
	}
	return l, nil
}

// Update merges a partial update into a link.
func (s *SocialLinkService) Update(ctx context.Context, id int64, in SocialLinkInput) (store.SocialLink, error) {
	current, err := s.queries.GetSocialLink(ctx, id)
	if err != nil {
		return store.SocialLink{}, lookupErr(err, "Social link")
	}
	platform := current.Platform
	if in.Platform != nil {
		if platform, err = trimmed(*in.Platform, "platform"); err != nil {
			return store.SocialLink{}, err
		}
	}
	link := current.Url
	if in.URL != nil {
		if link, err = linkURL(*in.URL); err != nil {
			return store.SocialLink{}, err
		}
	}

	l, err := s.queries.UpdateSocialLink(ctx, store.UpdateSocialLinkParams{
		Platform:     platform,
		Url:          link,
		Icon:         str(in.Icon, current.Icon),
		DisplayOrder: int64Or(in.DisplayOrder, current.DisplayOrder),
		IsActive:     boolOr(in.IsActive, current.IsActive),
		UpdatedAt:    s.now(),
		ID:           id,
	})
	if err != nil {
		return store.SocialLink{}, writeErr(err, "Social link")
	}
	return l, nil
}

// Delete removes a link.
func (s *SocialLinkService) Delete(ctx context.Context, id int64) error {
	n, err := s.queries.DeleteSocialLink(ctx, id)
	return deleteErr(n, err, "Social link")
}

// linkURL accepts absolute http(s) URLs and mailto: links.
func linkURL(raw string) (string, error) {
	v := strings.TrimSpace(raw)
	u, err := url.Parse(v)
	if err != nil || v == "" {
		return "", apperr.Validation("url must be an absolute URL")
	}
	switch u.Scheme {
	case "http", "https":
		if u.Host == "" {
			return "", apperr.Validation("url must be an absolute URL")
		}
	case "mailto":
	default:
		return "", apperr.Validation("url must use http, https or mailto")
	}
	return v, nil
}
