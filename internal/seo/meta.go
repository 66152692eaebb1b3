// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package seo builds sitemaps, robots.txt and page metadata for the public
// site.
package seo

import (
	"encoding/json"
	"html"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
)

// MaxDescriptionLen bounds derived meta descriptions.
const MaxDescriptionLen = 160

var textPolicy = bluemonday.StrictPolicy()

// Meta holds the head tags a client renders for a page.
type Meta struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Keywords    string          `json:"keywords,omitempty"`
	Canonical   string          `json:"canonical"`
	OGType      string          `json:"og_type"`
	OGImage     string          `json:"og_image,omitempty"`
	OGSiteName  string          `json:"og_site_name,omitempty"`
	TwitterCard string          `json:"twitter_card"`
	JSONLD      json.RawMessage `json:"json_ld,omitempty"`
}

// Site contains site-wide settings.
type Site struct {
	Name string
	URL  string
}

// Project contains the project fields used for metadata.
type Project struct {
	Title           string
	Slug            string
	DescriptionHTML string
	SeoTitle        string
	SeoDescription  string
	SeoKeywords     string
	FeaturedImage   string
	ClientName      string
	Category        string
	CompletedAt     *time.Time
	UpdatedAt       time.Time
}

// creativeWork is the schema.org JSON-LD for a portfolio piece.
type creativeWork struct {
	Context      string  `json:"@context"`
	Type         string  `json:"@type"`
	Name         string  `json:"name"`
	Description  string  `json:"description,omitempty"`
	URL          string  `json:"url"`
	Image        string  `json:"image,omitempty"`
	Genre        string  `json:"genre,omitempty"`
	DateCreated  string  `json:"dateCreated,omitempty"`
	DateModified string  `json:"dateModified,omitempty"`
	Funder       *entity `json:"funder,omitempty"`
	Publisher    *entity `json:"publisher,omitempty"`
}

type entity struct {
	Type string `json:"@type"`
	Name string `json:"name"`
}

// ProjectMeta builds metadata for a project page. SEO overrides win over
// derived values. Data URI images are not usable as og:image and are skipped.
func ProjectMeta(p Project, site Site) Meta {
	canonical := strings.TrimSuffix(site.URL, "/") + "/projects/" + p.Slug

	m := Meta{
		Title:       firstNonEmpty(p.SeoTitle, p.Title),
		Description: firstNonEmpty(p.SeoDescription, truncateText(plainText(p.DescriptionHTML), MaxDescriptionLen)),
		Keywords:    p.SeoKeywords,
		Canonical:   canonical,
		OGType:      "article",
		OGSiteName:  site.Name,
		TwitterCard: "summary",
	}
	if p.FeaturedImage != "" && !strings.HasPrefix(p.FeaturedImage, "data:") {
		m.OGImage = makeAbsoluteURL(p.FeaturedImage, site.URL)
		m.TwitterCard = "summary_large_image"
	}
	if site.Name != "" && m.Title != site.Name {
		m.Title += " | " + site.Name
	}

	work := creativeWork{
		Context:     "https://schema.org",
		Type:        "CreativeWork",
		Name:        p.Title,
		Description: m.Description,
		URL:         canonical,
		Image:       m.OGImage,
		Genre:       p.Category,
	}
	if p.CompletedAt != nil {
		work.DateCreated = p.CompletedAt.UTC().Format(time.DateOnly)
	}
	if !p.UpdatedAt.IsZero() {
		work.DateModified = p.UpdatedAt.UTC().Format(time.RFC3339)
	}
	if p.ClientName != "" {
		work.Funder = &entity{Type: "Organization", Name: p.ClientName}
	}
	if site.Name != "" {
		work.Publisher = &entity{Type: "Person", Name: site.Name}
	}
	if b, err := json.Marshal(work); err == nil {
		m.JSONLD = b
	}
	return m
}

func plainText(s string) string {
	return strings.Join(strings.Fields(html.UnescapeString(textPolicy.Sanitize(s))), " ")
}

// truncateText truncates text to maxLen bytes at a word boundary.
func truncateText(text string, maxLen int) string {
	text = strings.TrimSpace(text)
	if len(text) <= maxLen {
		return text
	}

	truncated := text[:maxLen]
	if lastSpace := strings.LastIndex(truncated, " "); lastSpace > maxLen/2 {
		truncated = truncated[:lastSpace]
	}
	return strings.TrimSpace(strings.ToValidUTF8(truncated, "")) + "..."
}

// makeAbsoluteURL prefixes relative URLs with the site URL.
func makeAbsoluteURL(u, siteURL string) string {
	if u == "" || strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://") {
		return u
	}
	if !strings.HasPrefix(u, "/") {
		u = "/" + u
	}
	return strings.TrimSuffix(siteURL, "/") + u
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
