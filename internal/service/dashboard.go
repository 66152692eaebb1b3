// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"

	"golang.org/x/sync/errgroup"

	"github.com/olegiv/portfolio-api/internal/apperr"
	"github.com/olegiv/portfolio-api/internal/store"
)

// DashboardRecentLimit is the length of the recent lists.
const DashboardRecentLimit = 5

// DashboardStats is the admin overview.
type DashboardStats struct {
	TotalProjects     int64                     `json:"totalProjects"`
	PublishedProjects int64                     `json:"publishedProjects"`
	TotalViews        int64                     `json:"totalViews"`
	TotalContacts     int64                     `json:"totalContacts"`
	NewContacts       int64                     `json:"newContacts"`
	RecentProjects    []store.ProjectRow        `json:"recentProjects"`
	RecentContacts    []store.ContactSubmission `json:"recentContacts"`
}

// DashboardService builds the read-only admin overview.
type DashboardService struct {
	queries *store.Queries
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(db *sql.DB) *DashboardService {
	return &DashboardService{queries: store.New(db)}
}

// Stats collects the dashboard figures. Deleted projects are excluded and
// totalViews is the sum of daily page views.
func (s *DashboardService) Stats(ctx context.Context) (*DashboardStats, error) {
	var st DashboardStats
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		totals, err := s.queries.CountProjectTotals(ctx)
		st.TotalProjects, st.PublishedProjects = totals.Total, totals.Published
		return err
	})
	g.Go(func() error {
		var err error
		st.TotalViews, err = s.queries.SumPageViews(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		st.TotalContacts, err = s.queries.CountContactSubmissions(ctx, "")
		return err
	})
	g.Go(func() error {
		var err error
		st.NewContacts, err = s.queries.CountContactSubmissions(ctx, ContactNew)
		return err
	})
	g.Go(func() error {
		var err error
		st.RecentProjects, err = s.queries.ListRecentProjects(ctx, DashboardRecentLimit)
		return err
	})
	g.Go(func() error {
		var err error
		st.RecentContacts, err = s.queries.ListContactSubmissions(ctx, store.ListContactSubmissionsParams{
			Limit: DashboardRecentLimit,
		})
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, apperr.Internal(err)
	}
	if st.RecentProjects == nil {
		st.RecentProjects = []store.ProjectRow{}
	}
	if st.RecentContacts == nil {
		st.RecentContacts = []store.ContactSubmission{}
	}
	return &st, nil
}
