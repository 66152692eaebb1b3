// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/olegiv/portfolio-api/internal/apperr"
	"github.com/olegiv/portfolio-api/internal/store"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// ContextKeyUser holds the authenticated store.User.
const ContextKeyUser ContextKey = "user"

// RoleAdmin is the role allowed through RequireAdmin.
const RoleAdmin = "admin"

// Authenticator resolves an access token to its user.
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (store.User, error)
}

// Authenticate requires a valid "Authorization: Bearer <token>" header.
// Missing or invalid tokens get 401 UNAUTHENTICATED, expired ones 401
// TOKEN_EXPIRED. The user is loaded from the database on every request so
// deleted users lose access immediately.
func Authenticate(a Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tok, ok := bearerToken(r)
			if !ok {
				WriteAPIError(w, r, apperr.New(apperr.KindUnauthenticated, "Authentication required"))
				return
			}
			user, err := a.Authenticate(r.Context(), tok)
			if err != nil {
				WriteAPIError(w, r, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// RequireAdmin rejects authenticated non-admins with 403 FORBIDDEN. It must
// run after Authenticate.
func RequireAdmin() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := GetUser(r)
			if user == nil {
				WriteAPIError(w, r, apperr.New(apperr.KindUnauthenticated, "Authentication required"))
				return
			}
			if user.Role != RoleAdmin {
				slog.Warn("admin access denied", "category", "auth", "user_id", user.ID, "role", user.Role, "path", r.URL.Path)
				WriteAPIError(w, r, apperr.New(apperr.KindForbidden, "Admin access required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// bearerToken extracts the token of a Bearer Authorization header.
func bearerToken(r *http.Request) (string, bool) {
	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	tok := strings.TrimSpace(parts[1])
	return tok, tok != ""
}

// BearerToken returns the request's bearer token, or "" when absent.
func BearerToken(r *http.Request) string {
	tok, _ := bearerToken(r)
	return tok
}

// WithUser returns a context carrying user.
func WithUser(ctx context.Context, user store.User) context.Context {
	return context.WithValue(ctx, ContextKeyUser, user)
}

// GetUser retrieves the current user from the request context.
// Returns nil if no user is in context.
func GetUser(r *http.Request) *store.User {
	user, ok := r.Context().Value(ContextKeyUser).(store.User)
	if !ok {
		return nil
	}
	return &user
}

// GetUserID returns the current user's ID from context, or 0 if not found.
// Safe to use in logging where a zero-value is acceptable.
func GetUserID(r *http.Request) int64 {
	if user := GetUser(r); user != nil {
		return user.ID
	}
	return 0
}
