// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package seo

import (
	"encoding/xml"
	"strings"
	"time"
)

// XMLNamespace is the sitemap XML namespace.
const XMLNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// ChangeFreq represents the change frequency of a URL.
type ChangeFreq string

// Valid change frequency values.
const (
	ChangeFreqDaily   ChangeFreq = "daily"
	ChangeFreqWeekly  ChangeFreq = "weekly"
	ChangeFreqMonthly ChangeFreq = "monthly"
)

// Public site sections listed in every sitemap.
var Sections = []string{"/projects", "/services", "/gallery", "/about", "/contact"}

// SitemapURL represents a single URL entry in the sitemap.
type SitemapURL struct {
	Loc        string     `xml:"loc"`
	LastMod    string     `xml:"lastmod,omitempty"`
	ChangeFreq ChangeFreq `xml:"changefreq,omitempty"`
	Priority   string     `xml:"priority,omitempty"`
}

// Sitemap represents the complete sitemap document.
type Sitemap struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []SitemapURL `xml:"url"`
}

// Entry is a content item with a slug.
type Entry struct {
	Slug      string
	UpdatedAt time.Time
}

// SitemapBuilder builds sitemap XML for the public site.
type SitemapBuilder struct {
	siteURL string
	urls    []SitemapURL
}

// NewSitemapBuilder creates a new sitemap builder.
func NewSitemapBuilder(siteURL string) *SitemapBuilder {
	return &SitemapBuilder{
		siteURL: strings.TrimSuffix(siteURL, "/"),
		urls:    make([]SitemapURL, 0),
	}
}

// AddHomepage adds the homepage to the sitemap.
func (b *SitemapBuilder) AddHomepage() {
	b.urls = append(b.urls, SitemapURL{
		Loc:        b.siteURL + "/",
		ChangeFreq: ChangeFreqDaily,
		Priority:   "1.0",
	})
}

// AddSections adds the listing pages.
func (b *SitemapBuilder) AddSections(paths []string) {
	for _, p := range paths {
		b.urls = append(b.urls, SitemapURL{
			Loc:        b.siteURL + p,
			ChangeFreq: ChangeFreqWeekly,
			Priority:   "0.7",
		})
	}
}

// AddProjects adds project detail pages.
func (b *SitemapBuilder) AddProjects(projects []Entry) {
	b.addEntries("/projects/", projects, ChangeFreqMonthly, "0.8")
}

// AddServices adds service detail pages.
func (b *SitemapBuilder) AddServices(services []Entry) {
	b.addEntries("/services/", services, ChangeFreqMonthly, "0.6")
}

func (b *SitemapBuilder) addEntries(prefix string, entries []Entry, freq ChangeFreq, priority string) {
	for _, e := range entries {
		u := SitemapURL{
			Loc:        b.siteURL + prefix + e.Slug,
			ChangeFreq: freq,
			Priority:   priority,
		}
		if !e.UpdatedAt.IsZero() {
			u.LastMod = e.UpdatedAt.UTC().Format(time.RFC3339)
		}
		b.urls = append(b.urls, u)
	}
}

// Build generates the sitemap XML.
func (b *SitemapBuilder) Build() ([]byte, error) {
	sitemap := Sitemap{
		XMLNS: XMLNamespace,
		URLs:  b.urls,
	}

	xmlBytes, err := xml.MarshalIndent(sitemap, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), xmlBytes...), nil
}

// GenerateSitemap builds the full sitemap for published content.
func GenerateSitemap(siteURL string, projects, services []Entry) ([]byte, error) {
	builder := NewSitemapBuilder(siteURL)
	builder.AddHomepage()
	builder.AddSections(Sections)
	builder.AddProjects(projects)
	builder.AddServices(services)
	return builder.Build()
}
