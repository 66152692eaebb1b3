// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"net/http"

	"github.com/olegiv/portfolio-api/internal/config"
	"github.com/olegiv/portfolio-api/internal/middleware"
	"github.com/olegiv/portfolio-api/internal/seo"
	"github.com/olegiv/portfolio-api/internal/service"
	"github.com/olegiv/portfolio-api/internal/store"
	"github.com/olegiv/portfolio-api/internal/util"
)

// siteTitleKey is the public setting used as the site name.
const siteTitleKey = "site_title"

// Sitemap handles GET /sitemap.xml.
func (h *Handler) Sitemap(w http.ResponseWriter, r *http.Request) {
	projects, err := h.svc.Projects.PublishedSlugs(r.Context())
	if err != nil {
		middleware.WriteAPIError(w, r, err)
		return
	}
	services, err := h.svc.Catalog.ActiveSlugs(r.Context())
	if err != nil {
		middleware.WriteAPIError(w, r, err)
		return
	}

	out, err := seo.GenerateSitemap(h.siteURL, sitemapEntries(projects), sitemapEntries(services))
	if err != nil {
		h.logger.Error("failed to build sitemap", "error", err)
		middleware.WriteAPIError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write(out)
}

// Robots handles GET /robots.txt. Crawlers are turned away outside
// production.
func (h *Handler) Robots(w http.ResponseWriter, _ *http.Request) {
	body := seo.BuildRobots(seo.RobotsConfig{
		SiteURL:     h.siteURL,
		DisallowAll: h.env != config.EnvProduction,
	})
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	_, _ = w.Write([]byte(body))
}

func (h *Handler) projectMeta(ctx context.Context, d *service.ProjectDetail) seo.Meta {
	site := seo.Site{URL: h.siteURL}
	if settings, err := h.svc.Settings.Public(ctx); err == nil {
		site.Name = settings[siteTitleKey]
	} else {
		h.logger.Warn("site title unavailable for project meta", "error", err)
	}

	p := d.Project
	return seo.ProjectMeta(seo.Project{
		Title:           p.Title,
		Slug:            p.Slug,
		DescriptionHTML: d.DescriptionHTML,
		SeoTitle:        p.SeoTitle,
		SeoDescription:  p.SeoDescription,
		SeoKeywords:     p.SeoKeywords,
		FeaturedImage:   p.FeaturedImage.String,
		ClientName:      p.ClientName,
		Category:        d.CategoryName.String,
		CompletedAt:     util.TimePtr(p.CompletionDate),
		UpdatedAt:       p.UpdatedAt,
	}, site)
}

func sitemapEntries(slugs []store.SlugStamp) []seo.Entry {
	return mapSlice(slugs, func(s store.SlugStamp) seo.Entry {
		return seo.Entry{Slug: s.Slug, UpdatedAt: s.UpdatedAt}
	})
}
