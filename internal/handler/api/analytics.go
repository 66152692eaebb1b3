// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/olegiv/portfolio-api/internal/analytics"
	"github.com/olegiv/portfolio-api/internal/middleware"
	"github.com/olegiv/portfolio-api/internal/store"
	"github.com/olegiv/portfolio-api/internal/util"
)

// TrackRequest is a page view reported by the front-end.
type TrackRequest struct {
	Path string `json:"path" validate:"required,max=2048"`
	Kind string `json:"kind" validate:"omitempty,oneof=page project"`
}

// TrackResponse reports whether the hit was counted.
type TrackResponse struct {
	Counted bool `json:"counted"`
}

// Track handles POST /analytics/track.
func (h *Handler) Track(w http.ResponseWriter, r *http.Request) {
	var req TrackRequest
	if err := h.decodeJSON(r, &req); err != nil {
		middleware.WriteAPIError(w, r, err)
		return
	}
	kind := req.Kind
	if kind == "" {
		kind = analytics.HitPage
	}
	counted := h.svc.Analytics.Track(analytics.Hit{
		Kind:      kind,
		Path:      req.Path,
		IP:        util.ClientIP(r, h.trustProxy),
		UserAgent: r.UserAgent(),
	})
	writeOK(w, TrackResponse{Counted: counted})
}

// AnalyticsReport handles GET /analytics?from=&to=.
func (h *Handler) AnalyticsReport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rows, err := h.svc.Analytics.Report(r.Context(), q.Get("from"), q.Get("to"))
	if err != nil {
		middleware.WriteAPIError(w, r, err)
		return
	}
	writeOK(w, rows)
}

// DashboardStats handles GET /dashboard/stats.
func (h *Handler) DashboardStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Dashboard.Stats(r.Context())
	if err != nil {
		middleware.WriteAPIError(w, r, err)
		return
	}
	writeOK(w, DashboardResponse{
		TotalProjects:     stats.TotalProjects,
		PublishedProjects: stats.PublishedProjects,
		TotalViews:        stats.TotalViews,
		TotalContacts:     stats.TotalContacts,
		NewContacts:       stats.NewContacts,
		RecentProjects: mapSlice(stats.RecentProjects, func(row store.ProjectRow) ProjectResponse {
			return projectRowResponse(row, nil)
		}),
		RecentContacts: mapSlice(stats.RecentContacts, contactResponse),
	})
}

// DashboardResponse is the admin overview.
type DashboardResponse struct {
	TotalProjects     int64             `json:"totalProjects"`
	PublishedProjects int64             `json:"publishedProjects"`
	TotalViews        int64             `json:"totalViews"`
	TotalContacts     int64             `json:"totalContacts"`
	NewContacts       int64             `json:"newContacts"`
	RecentProjects    []ProjectResponse `json:"recentProjects"`
	RecentContacts    []ContactResponse `json:"recentContacts"`
}
