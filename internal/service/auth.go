// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/olegiv/portfolio-api/internal/apperr"
	"github.com/olegiv/portfolio-api/internal/auth"
	"github.com/olegiv/portfolio-api/internal/store"
	"github.com/olegiv/portfolio-api/internal/token"
)

// LoginResult is returned by a successful login.
type LoginResult struct {
	User   store.User
	Tokens token.Pair
}

// AuthService verifies credentials, tracks failed attempts and issues tokens.
type AuthService struct {
	clock
	db      *sql.DB
	queries *store.Queries
	tokens  *token.Service
	policy  auth.LockoutPolicy
	logger  *slog.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(db *sql.DB, tokens *token.Service, logger *slog.Logger) *AuthService {
	return &AuthService{
		clock:   newClock(),
		db:      db,
		queries: store.New(db),
		tokens:  tokens,
		policy:  auth.DefaultLockoutPolicy(),
		logger:  logger,
	}
}

var errBadCredentials = apperr.New(apperr.KindUnauthenticated, "Invalid email or password")

// Login checks credentials and returns a fresh token pair.
// A locked account is rejected before the password is checked, so even
// correct credentials fail until the lock expires.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	now := s.now()

	user, err := s.queries.GetUserByEmail(ctx, email)
	if errors.Is(err, sql.ErrNoRows) {
		auth.CheckPasswordDummy(password)
		s.logger.Warn("login failed: unknown email", "category", "auth", "email", email)
		return nil, errBadCredentials
	}
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("loading user: %w", err))
	}

	state := loginState(user)
	if s.policy.IsLocked(state, now) {
		minutes := int(math.Ceil(state.LockedUntil.Sub(now).Minutes()))
		s.logger.Warn("login rejected: account locked", "category", "auth", "user_id", user.ID)
		return nil, apperr.Newf(apperr.KindAccountLocked,
			"Account is locked due to too many failed login attempts. Try again in %d minutes", minutes)
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		next, err := s.recordFailure(ctx, user.ID, now)
		if err != nil {
			return nil, apperr.Internal(fmt.Errorf("recording failed login: %w", err))
		}
		s.logger.Warn("login failed: wrong password", "category", "auth", "user_id", user.ID,
			"attempts", next.Attempts, "locked", !next.LockedUntil.IsZero())
		return nil, errBadCredentials
	}

	if auth.NeedsRehash(user.PasswordHash) {
		s.rehash(ctx, user.ID, password, now)
	}

	if err := s.queries.RecordSuccessfulLogin(ctx, store.RecordSuccessfulLoginParams{
		LastLogin: sql.NullTime{Time: now, Valid: true},
		UpdatedAt: now,
		ID:        user.ID,
	}); err != nil {
		return nil, apperr.Internal(fmt.Errorf("recording login: %w", err))
	}
	user.LoginAttempts = 0
	user.LockedUntil = sql.NullTime{}
	user.LastFailedLogin = sql.NullTime{}
	user.LastLogin = sql.NullTime{Time: now, Valid: true}

	pair, err := s.tokens.Issue(ctx, user.ID)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("issuing tokens: %w", err))
	}

	s.logger.Info("user logged in", "user_id", user.ID)
	return &LoginResult{User: user, Tokens: pair}, nil
}

// recordFailure re-reads the attempt counters and writes the next state in
// one write transaction, so concurrent failures are counted one by one.
func (s *AuthService) recordFailure(ctx context.Context, userID int64, now time.Time) (auth.LoginState, error) {
	var next auth.LoginState
	err := store.InTx(ctx, s.db, func(q *store.Queries) error {
		current, err := q.GetUserByID(ctx, userID)
		if err != nil {
			return err
		}
		next = s.policy.RegisterFailure(loginState(current), now)
		return q.RecordFailedLogin(ctx, store.RecordFailedLoginParams{
			LoginAttempts:   next.Attempts,
			LastFailedLogin: nullTime(next.LastFailed),
			LockedUntil:     nullTime(next.LockedUntil),
			UpdatedAt:       now,
			ID:              userID,
		})
	})
	return next, err
}

// rehash upgrades a legacy hash after a successful verification.
// Failure leaves the old hash in place.
func (s *AuthService) rehash(ctx context.Context, userID int64, password string, now time.Time) {
	hash, err := auth.HashPassword(password)
	if err == nil {
		err = s.queries.UpdateUserPassword(ctx, store.UpdateUserPasswordParams{
			PasswordHash: hash,
			UpdatedAt:    now,
			ID:           userID,
		})
	}
	if err != nil {
		s.logger.Warn("password rehash failed", "category", "auth", "user_id", userID, "error", err)
		return
	}
	s.logger.Info("password hash upgraded", "user_id", userID)
}

// Refresh exchanges a refresh token for a new access token.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, int64, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return "", 0, apperr.Validation("refresh_token is required")
	}

	userID, err := s.tokens.VerifyRefresh(ctx, refreshToken)
	if err != nil {
		return "", 0, tokenErr(err, "Invalid refresh token")
	}
	if _, err := s.queries.GetUserByID(ctx, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", 0, apperr.New(apperr.KindUnauthenticated, "Invalid refresh token")
		}
		return "", 0, apperr.Internal(err)
	}

	access, expiresIn, err := s.tokens.Refresh(ctx, refreshToken)
	if err != nil {
		return "", 0, tokenErr(err, "Invalid refresh token")
	}
	return access, expiresIn, nil
}

// Logout revokes a refresh token. Unknown tokens are ignored.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if strings.TrimSpace(refreshToken) == "" {
		return nil
	}
	if err := s.tokens.Revoke(ctx, refreshToken); err != nil {
		if errors.Is(err, token.ErrInvalid) || errors.Is(err, token.ErrExpired) {
			return nil
		}
		return apperr.Internal(fmt.Errorf("revoking refresh token: %w", err))
	}
	return nil
}

// Authenticate resolves an access token to its user.
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (store.User, error) {
	userID, err := s.tokens.VerifyAccess(accessToken)
	if err != nil {
		if errors.Is(err, token.ErrExpired) {
			return store.User{}, apperr.New(apperr.KindTokenExpired, "Access token expired")
		}
		return store.User{}, apperr.New(apperr.KindUnauthenticated, "Invalid token")
	}

	user, err := s.queries.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.User{}, apperr.New(apperr.KindUnauthenticated, "User not found")
		}
		return store.User{}, apperr.Internal(err)
	}
	return user, nil
}

// tokenErr maps refresh-token failures. An expired refresh token cannot be
// renewed, so it reports UNAUTHENTICATED rather than TOKEN_EXPIRED.
func tokenErr(err error, message string) error {
	switch {
	case errors.Is(err, token.ErrExpired), errors.Is(err, token.ErrInvalid), errors.Is(err, token.ErrRevoked):
		return apperr.Wrap(apperr.KindUnauthenticated, message, err)
	default:
		return apperr.Internal(err)
	}
}

func loginState(u store.User) auth.LoginState {
	return auth.LoginState{
		Attempts:    u.LoginAttempts,
		LastFailed:  u.LastFailedLogin.Time,
		LockedUntil: u.LockedUntil.Time,
		LastLogin:   u.LastLogin.Time,
	}
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}
