// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"
)

// testDB creates a temporary migrated database.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := NewDB(filepath.Join(t.TempDir(), "portfolio-test.db"))
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	return db
}

func createTestProject(t *testing.T, q *Queries, title, slug string, categoryID int64, createdAt time.Time) Project {
	t.Helper()

	p, err := q.CreateProject(context.Background(), CreateProjectParams{
		Title:       title,
		Slug:        slug,
		CategoryID:  sql.NullInt64{Int64: categoryID, Valid: categoryID > 0},
		IsPublished: true,
		Status:      "published",
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	})
	if err != nil {
		t.Fatalf("CreateProject(%s): %v", slug, err)
	}
	return p
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := testDB(t)

	if err := Migrate(db); err != nil {
		t.Fatalf("second Migrate: %v", err)
	}
}

func TestMigrateDown(t *testing.T) {
	db := testDB(t)

	if err := MigrateDown(db); err != nil {
		t.Fatalf("MigrateDown: %v", err)
	}

	var name string
	err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name='event_log'`).Scan(&name)
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("expected event_log to be dropped, got %v", err)
	}

	if err := Migrate(db); err != nil {
		t.Fatalf("re-Migrate: %v", err)
	}
}

func TestUserEmailIsCaseInsensitive(t *testing.T) {
	db := testDB(t)
	q := New(db)
	ctx := context.Background()
	now := time.Now().UTC()

	_, err := q.CreateUser(ctx, CreateUserParams{
		Email: "Admin@Example.test", PasswordHash: "x", Role: "admin", CreatedAt: now, UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	u, err := q.GetUserByEmail(ctx, "admin@example.test")
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if u.Role != "admin" {
		t.Errorf("Role = %q, want admin", u.Role)
	}

	_, err = q.CreateUser(ctx, CreateUserParams{
		Email: "ADMIN@example.test", PasswordHash: "x", Role: "viewer", CreatedAt: now, UpdatedAt: now,
	})
	if !IsUniqueViolation(err) {
		t.Errorf("expected unique violation, got %v", err)
	}
}

func TestUserRoleConstraint(t *testing.T) {
	db := testDB(t)
	q := New(db)
	now := time.Now().UTC()

	_, err := q.CreateUser(context.Background(), CreateUserParams{
		Email: "x@example.test", PasswordHash: "x", Role: "editor", CreatedAt: now, UpdatedAt: now,
	})
	if err == nil {
		t.Error("expected CHECK constraint failure for unknown role")
	}
}

func TestProjectSlugUnique(t *testing.T) {
	db := testDB(t)
	q := New(db)
	now := time.Now().UTC()

	createTestProject(t, q, "One", "one", 0, now)

	_, err := q.CreateProject(context.Background(), CreateProjectParams{
		Title: "One again", Slug: "one", Status: "draft", CreatedAt: now, UpdatedAt: now,
	})
	if !IsUniqueViolation(err) {
		t.Errorf("expected unique violation, got %v", err)
	}
}

func TestProjectPublishedMatchesStatus(t *testing.T) {
	db := testDB(t)
	q := New(db)
	now := time.Now().UTC()

	_, err := q.CreateProject(context.Background(), CreateProjectParams{
		Title: "Bad", Slug: "bad", IsPublished: true, Status: "draft", CreatedAt: now, UpdatedAt: now,
	})
	if err == nil {
		t.Error("expected CHECK failure for is_published without published status")
	}
}

func TestProjectSoftDelete(t *testing.T) {
	db := testDB(t)
	q := New(db)
	ctx := context.Background()
	now := time.Now().UTC()

	p := createTestProject(t, q, "Gone", "gone", 0, now)

	n, err := q.SoftDeleteProject(ctx, SoftDeleteProjectParams{
		DeletedAt: sql.NullTime{Time: now, Valid: true}, UpdatedAt: now, ID: p.ID,
	})
	if err != nil || n != 1 {
		t.Fatalf("SoftDeleteProject = %d, %v", n, err)
	}

	if _, err := q.GetPublishedProjectBySlug(ctx, "gone"); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("expected deleted project hidden, got %v", err)
	}
	if _, err := q.GetProjectByID(ctx, p.ID); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("expected deleted project hidden from GetProjectByID, got %v", err)
	}

	n, _ = q.SoftDeleteProject(ctx, SoftDeleteProjectParams{
		DeletedAt: sql.NullTime{Time: now, Valid: true}, UpdatedAt: now, ID: p.ID,
	})
	if n != 0 {
		t.Errorf("second delete affected %d rows, want 0", n)
	}

	exists, err := q.ProjectSlugExists(ctx, "gone", 0)
	if err != nil || !exists {
		t.Errorf("ProjectSlugExists after soft delete = %v, %v; want true", exists, err)
	}
}

func TestListProjectsFiltersAndSort(t *testing.T) {
	db := testDB(t)
	q := New(db)
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	cat, err := q.CreateCategory(ctx, CreateCategoryParams{Name: "Web", Slug: "web", IsActive: true, CreatedAt: base, UpdatedAt: base})
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}

	a := createTestProject(t, q, "A", "a", cat.ID, base)
	createTestProject(t, q, "B", "b", cat.ID, base.Add(time.Hour))
	createTestProject(t, q, "C", "c", 0, base.Add(2*time.Hour))

	for i := 0; i < 3; i++ {
		if _, err := q.IncrementProjectViewCount(ctx, a.ID); err != nil {
			t.Fatalf("IncrementProjectViewCount: %v", err)
		}
	}

	titles := func(rows []ProjectRow) []string {
		out := make([]string, len(rows))
		for i, r := range rows {
			out[i] = r.Title
		}
		return out
	}

	tests := []struct {
		name string
		arg  ListProjectsParams
		want []string
	}{
		{"newest", ListProjectsParams{Sort: "newest", Limit: 10}, []string{"C", "B", "A"}},
		{"oldest", ListProjectsParams{Sort: "oldest", Limit: 10}, []string{"A", "B", "C"}},
		{"most viewed", ListProjectsParams{Sort: "most-viewed", Limit: 10}, []string{"A", "C", "B"}},
		{"category", ListProjectsParams{CategorySlug: "web", Sort: "newest", Limit: 10}, []string{"B", "A"}},
		{"paged", ListProjectsParams{Sort: "newest", Limit: 1, Offset: 1}, []string{"B"}},
		{"search", ListProjectsParams{Search: "C", Limit: 10}, []string{"C"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := q.ListProjects(ctx, tt.arg)
			if err != nil {
				t.Fatalf("ListProjects: %v", err)
			}
			got := titles(rows)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("got %v, want %v", got, tt.want)
				}
			}
		})
	}

	count, err := q.CountProjects(ctx, ListProjectsParams{CategorySlug: "web"})
	if err != nil || count != 2 {
		t.Errorf("CountProjects = %d, %v; want 2", count, err)
	}
}

func TestAppendProjectImageOrderAndCascade(t *testing.T) {
	db := testDB(t)
	q := New(db)
	ctx := context.Background()
	now := time.Now().UTC()

	p := createTestProject(t, q, "Gallery", "gallery", 0, now)

	for want := int64(0); want < 3; want++ {
		img, err := q.AppendProjectImage(ctx, AppendProjectImageParams{
			ProjectID: p.ID, Image: "data:image/png;base64,AA==", FileSize: 1, CreatedAt: now, UpdatedAt: now,
		})
		if err != nil {
			t.Fatalf("AppendProjectImage: %v", err)
		}
		if img.DisplayOrder != want {
			t.Errorf("DisplayOrder = %d, want %d", img.DisplayOrder, want)
		}
	}

	if _, err := db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, p.ID); err != nil {
		t.Fatalf("hard delete: %v", err)
	}

	images, err := q.ListProjectImages(ctx, p.ID)
	if err != nil {
		t.Fatalf("ListProjectImages: %v", err)
	}
	if len(images) != 0 {
		t.Errorf("expected cascade delete, %d images remain", len(images))
	}
}

func TestUpsertSettingKeepsCreatedAt(t *testing.T) {
	db := testDB(t)
	q := New(db)
	ctx := context.Background()
	t1 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)

	first, err := q.UpsertSetting(ctx, UpsertSettingParams{Key: "k", Value: "v", Category: "general", IsPublic: true, CreatedAt: t1, UpdatedAt: t1})
	if err != nil {
		t.Fatalf("UpsertSetting: %v", err)
	}
	second, err := q.UpsertSetting(ctx, UpsertSettingParams{Key: "k", Value: "v", Category: "general", IsPublic: true, CreatedAt: t2, UpdatedAt: t2})
	if err != nil {
		t.Fatalf("UpsertSetting: %v", err)
	}

	if second.ID != first.ID {
		t.Errorf("ID changed: %d -> %d", first.ID, second.ID)
	}
	if !second.CreatedAt.Equal(t1) {
		t.Errorf("CreatedAt = %v, want %v", second.CreatedAt, t1)
	}
	if !second.UpdatedAt.Equal(t2) {
		t.Errorf("UpdatedAt = %v, want %v", second.UpdatedAt, t2)
	}
}

func TestAddDailyAnalytics(t *testing.T) {
	db := testDB(t)
	q := New(db)
	ctx := context.Background()
	now := time.Now().UTC()

	for i := 0; i < 2; i++ {
		if err := q.AddDailyAnalytics(ctx, AddDailyAnalyticsParams{Date: "2025-03-01", PageViews: 5, UniqueVisitors: 2, UpdatedAt: now}); err != nil {
			t.Fatalf("AddDailyAnalytics: %v", err)
		}
	}
	_ = q.AddDailyAnalytics(ctx, AddDailyAnalyticsParams{Date: "2025-03-02", PageViews: 1, UpdatedAt: now})

	rows, err := q.ListAnalytics(ctx, "2025-03-01", "2025-03-01")
	if err != nil {
		t.Fatalf("ListAnalytics: %v", err)
	}
	if len(rows) != 1 || rows[0].PageViews != 10 || rows[0].UniqueVisitors != 4 {
		t.Errorf("unexpected rows: %+v", rows)
	}

	total, err := q.SumPageViews(ctx)
	if err != nil || total != 11 {
		t.Errorf("SumPageViews = %d, %v; want 11", total, err)
	}
}

func TestSeed(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	opts := SeedOptions{AdminEmail: "Admin@Example.test", AdminPassword: "Admin123!"}

	for i := 0; i < 2; i++ {
		if err := Seed(ctx, db, opts, logger); err != nil {
			t.Fatalf("Seed #%d: %v", i+1, err)
		}
	}

	q := New(db)
	count, _ := q.CountUsers(ctx)
	if count != 1 {
		t.Errorf("CountUsers = %d, want 1", count)
	}

	cat, err := q.GetCategoryByID(ctx, 1)
	if err != nil {
		t.Fatalf("GetCategoryByID(1): %v", err)
	}
	if cat.Slug != "web-development" {
		t.Errorf("category 1 slug = %q", cat.Slug)
	}
}
