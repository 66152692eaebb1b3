// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/portfolio-api/internal/apperr"
	"github.com/olegiv/portfolio-api/internal/events"
	"github.com/olegiv/portfolio-api/internal/testutil"
)

func TestProjectCreate_DerivesSlugAndRejectsDuplicate(t *testing.T) {
	db := testutil.TestDBWithAdmin(t)
	svc, bus := newProjectService(t, db)
	ctx := context.Background()

	p, err := svc.Create(ctx, ProjectInput{
		Title:       ptr("Café  Branding: Round #2"),
		Description: ptr("**Bold** work"),
		Tools:       &[]ToolInput{{Name: "Figma", Category: "design"}, {Name: "Go"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "cafe-branding-round-2", p.Slug)
	assert.Equal(t, StatusPublished, p.Status)
	assert.True(t, p.IsPublished)
	assert.Len(t, p.Tools, 2)
	assert.Contains(t, p.DescriptionHTML, "<strong>Bold</strong>")
	assert.Equal(t, []string{events.ProjectCreated}, bus.types())

	_, err = svc.Create(ctx, ProjectInput{Title: ptr("Cafe branding round 2")})
	requireKind(t, err, apperr.KindSlugExists)
	assert.Equal(t, 409, apperr.KindOf(err).Status())

	_, err = svc.Create(ctx, ProjectInput{Title: ptr("Other"), Slug: ptr("Not A Slug")})
	requireKind(t, err, apperr.KindValidation)

	_, err = svc.Create(ctx, ProjectInput{Title: ptr("   ")})
	requireKind(t, err, apperr.KindValidation)
}

func TestProjectGetPublic_CountsViews(t *testing.T) {
	db := testutil.TestDBWithAdmin(t)
	svc, _ := newProjectService(t, db)
	ctx := context.Background()

	created, err := svc.Create(ctx, ProjectInput{Title: ptr("Viewed")})
	require.NoError(t, err)
	assert.Zero(t, created.ViewCount)

	got, err := svc.GetPublic(ctx, created.Slug)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.ViewCount)

	got, err = svc.GetPublic(ctx, created.Slug)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.ViewCount)

	admin, err := svc.GetAdmin(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), admin.ViewCount)
}

func TestProjectGetPublic_HidesDraftsAndDeleted(t *testing.T) {
	db := testutil.TestDBWithAdmin(t)
	svc, bus := newProjectService(t, db)
	ctx := context.Background()

	draft, err := svc.Create(ctx, ProjectInput{Title: ptr("Draft"), Status: ptr(StatusDraft)})
	require.NoError(t, err)
	assert.False(t, draft.IsPublished)

	_, err = svc.GetPublic(ctx, draft.Slug)
	requireKind(t, err, apperr.KindNotFound)

	live, err := svc.Create(ctx, ProjectInput{Title: ptr("Live")})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, live.ID))
	assert.Contains(t, bus.types(), events.ProjectDeleted)

	_, err = svc.GetPublic(ctx, live.Slug)
	requireKind(t, err, apperr.KindNotFound)
	_, err = svc.GetAdmin(ctx, live.ID)
	requireKind(t, err, apperr.KindNotFound)
	requireKind(t, svc.Delete(ctx, live.ID), apperr.KindNotFound)

	// The slug of a deleted project stays reserved.
	_, err = svc.Create(ctx, ProjectInput{Title: ptr("Live")})
	requireKind(t, err, apperr.KindSlugExists)
}

func TestProjectDetail_RelatedProjects(t *testing.T) {
	db := testutil.TestDBWithAdmin(t)
	svc, _ := newProjectService(t, db)
	ctx := context.Background()
	web := categoryID(t, db, "web-development")
	brand := categoryID(t, db, "branding")

	var first *ProjectDetail
	for i := 0; i < 5; i++ {
		p, err := svc.Create(ctx, ProjectInput{Title: ptr(fmt.Sprintf("Web %d", i)), CategoryID: &web})
		require.NoError(t, err)
		if first == nil {
			first = p
		}
	}
	_, err := svc.Create(ctx, ProjectInput{Title: ptr("Brand"), CategoryID: &brand})
	require.NoError(t, err)
	_, err = svc.Create(ctx, ProjectInput{Title: ptr("Web draft"), CategoryID: &web, Status: ptr(StatusDraft)})
	require.NoError(t, err)

	got, err := svc.GetPublic(ctx, first.Slug)
	require.NoError(t, err)
	require.Len(t, got.Related, RelatedProjectsLimit)
	for _, r := range got.Related {
		assert.NotEqual(t, first.ID, r.ID)
		assert.Equal(t, web, r.CategoryID.Int64)
		assert.True(t, r.IsPublished)
	}

	uncategorized, err := svc.Create(ctx, ProjectInput{Title: ptr("Loose")})
	require.NoError(t, err)
	assert.NotNil(t, uncategorized.Related)
	assert.Empty(t, uncategorized.Related)
}

func TestProjectList_FiltersAndSorts(t *testing.T) {
	db := testutil.TestDBWithAdmin(t)
	svc, _ := newProjectService(t, db)
	ctx := context.Background()
	web := categoryID(t, db, "web-development")

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	svc.SetClock(func() time.Time { return now })
	for i, title := range []string{"Alpha", "Beta", "Gamma"} {
		in := ProjectInput{Title: ptr(title)}
		if i == 1 {
			in.CategoryID = &web
			in.IsFeatured = ptr(true)
		}
		_, err := svc.Create(ctx, in)
		require.NoError(t, err)
		now = now.Add(time.Hour)
	}
	_, err := svc.Create(ctx, ProjectInput{Title: ptr("Hidden"), Status: ptr(StatusDraft)})
	require.NoError(t, err)

	_, err = svc.GetPublic(ctx, "gamma")
	require.NoError(t, err)
	_, err = svc.GetPublic(ctx, "alpha")
	require.NoError(t, err)
	_, err = svc.GetPublic(ctx, "alpha")
	require.NoError(t, err)

	titles := func(l *ProjectList) []string {
		out := []string{}
		for _, p := range l.Items {
			out = append(out, p.Title)
		}
		return out
	}

	list, err := svc.ListPublic(ctx, ProjectQuery{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Gamma", "Beta", "Alpha"}, titles(list))
	assert.Equal(t, int64(3), list.Pagination.Total)
	assert.Equal(t, DefaultPageSize, list.Pagination.Limit)

	list, err = svc.ListPublic(ctx, ProjectQuery{Sort: SortOldest})
	require.NoError(t, err)
	assert.Equal(t, []string{"Alpha", "Beta", "Gamma"}, titles(list))

	list, err = svc.ListPublic(ctx, ProjectQuery{Sort: SortMostViewed})
	require.NoError(t, err)
	assert.Equal(t, "Alpha", list.Items[0].Title)

	list, err = svc.ListPublic(ctx, ProjectQuery{CategorySlug: "web-development"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Beta"}, titles(list))

	list, err = svc.ListPublic(ctx, ProjectQuery{FeaturedOnly: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"Beta"}, titles(list))

	list, err = svc.ListPublic(ctx, ProjectQuery{Page: Page{Page: 2, Limit: 2}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Alpha"}, titles(list))
	assert.Equal(t, int64(2), list.Pagination.TotalPages)

	list, err = svc.ListAdmin(ctx, ProjectQuery{Status: StatusDraft})
	require.NoError(t, err)
	assert.Equal(t, []string{"Hidden"}, titles(list))

	list, err = svc.ListAdmin(ctx, ProjectQuery{Search: "amm"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Gamma"}, titles(list))

	_, err = svc.ListPublic(ctx, ProjectQuery{Sort: "random"})
	requireKind(t, err, apperr.KindValidation)
	_, err = svc.ListPublic(ctx, ProjectQuery{Page: Page{Limit: MaxPageSize + 1}})
	requireKind(t, err, apperr.KindValidation)
	_, err = svc.ListAdmin(ctx, ProjectQuery{Status: "archived"})
	requireKind(t, err, apperr.KindValidation)
}

func TestProjectUpdate(t *testing.T) {
	db := testutil.TestDBWithAdmin(t)
	svc, _ := newProjectService(t, db)
	ctx := context.Background()

	p, err := svc.Create(ctx, ProjectInput{
		Title:      ptr("Original"),
		ClientName: ptr("ACME"),
		Tools:      &[]ToolInput{{Name: "Go"}},
	})
	require.NoError(t, err)
	other, err := svc.Create(ctx, ProjectInput{Title: ptr("Taken")})
	require.NoError(t, err)

	got, err := svc.Update(ctx, p.ID, ProjectInput{Title: ptr("Renamed"), IsPublished: ptr(false)})
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Slug)
	assert.Equal(t, "ACME", got.ClientName)
	assert.Equal(t, StatusDraft, got.Status)
	assert.False(t, got.IsPublished)
	assert.Len(t, got.Tools, 1)

	got, err = svc.Update(ctx, p.ID, ProjectInput{Status: ptr(StatusCompleted), Tools: &[]ToolInput{}})
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, got.Status)
	assert.Empty(t, got.Tools)

	_, err = svc.Update(ctx, p.ID, ProjectInput{Slug: ptr(other.Slug)})
	requireKind(t, err, apperr.KindSlugExists)

	_, err = svc.Update(ctx, p.ID, ProjectInput{Status: ptr(StatusPublished), IsPublished: ptr(false)})
	requireKind(t, err, apperr.KindValidation)

	_, err = svc.Update(ctx, 9999, ProjectInput{Title: ptr("x")})
	requireKind(t, err, apperr.KindNotFound)

	// Keeping the same title does not trip the slug check on itself.
	_, err = svc.Update(ctx, other.ID, ProjectInput{Title: ptr("Taken")})
	require.NoError(t, err)
}

func TestProjectFeaturedImage(t *testing.T) {
	db := testutil.TestDBWithAdmin(t)
	svc, _ := newProjectService(t, db)
	ctx := context.Background()

	uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString(testutil.PNG(t, 4, 4))
	p, err := svc.Create(ctx, ProjectInput{Title: ptr("Pictured"), FeaturedImage: &uri})
	require.NoError(t, err)
	assert.Equal(t, uri, p.FeaturedImage.String)

	p, err = svc.Update(ctx, p.ID, ProjectInput{FeaturedImage: ptr("https://cdn.example.com/a.png")})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/a.png", p.FeaturedImage.String)

	p, err = svc.Update(ctx, p.ID, ProjectInput{FeaturedImage: ptr("")})
	require.NoError(t, err)
	assert.False(t, p.FeaturedImage.Valid)

	_, err = svc.Update(ctx, p.ID, ProjectInput{FeaturedImage: ptr("data:text/plain;base64,aGVsbG8=")})
	requireKind(t, err, apperr.KindUnsupportedMediaType)

	_, err = svc.Update(ctx, p.ID, ProjectInput{FeaturedImage: ptr("ftp://nope")})
	requireKind(t, err, apperr.KindValidation)
}

func TestResolvePublication(t *testing.T) {
	tests := []struct {
		name          string
		status        *string
		isPublished   *bool
		current       string
		wantStatus    string
		wantPublished bool
		wantErr       bool
	}{
		{"keep published", nil, nil, StatusPublished, StatusPublished, true, false},
		{"keep draft", nil, nil, StatusDraft, StatusDraft, false, false},
		{"publish flag", nil, ptr(true), StatusDraft, StatusPublished, true, false},
		{"unpublish demotes", nil, ptr(false), StatusPublished, StatusDraft, false, false},
		{"unpublish keeps completed", nil, ptr(false), StatusCompleted, StatusCompleted, false, false},
		{"status wins", ptr(StatusCompleted), nil, StatusPublished, StatusCompleted, false, false},
		{"matching pair", ptr(StatusPublished), ptr(true), StatusDraft, StatusPublished, true, false},
		{"contradiction", ptr(StatusDraft), ptr(true), StatusDraft, "", false, true},
		{"unknown status", ptr("archived"), nil, StatusDraft, "", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, pub, err := resolvePublication(tt.status, tt.isPublished, tt.current)
			if tt.wantErr {
				requireKind(t, err, apperr.KindValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, st)
			assert.Equal(t, tt.wantPublished, pub)
		})
	}
}
