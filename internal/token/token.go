// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package token issues and verifies the signed access and refresh tokens.
// Refresh tokens carry an id that must still be present in the refresh
// store, which is how logout revokes them.
package token

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/olegiv/portfolio-api/internal/cache"
)

// Token kinds carried in the "typ" claim.
const (
	KindAccess  = "access"
	KindRefresh = "refresh"
)

var (
	// ErrExpired is returned for a well-formed token past its expiry.
	ErrExpired = errors.New("token expired")
	// ErrInvalid is returned for any token that fails verification.
	ErrInvalid = errors.New("invalid token")
	// ErrRevoked is returned for a refresh token removed from the store.
	ErrRevoked = errors.New("token revoked")
)

// Claims represents JWT token claims.
type Claims struct {
	Kind string `json:"typ"`
	jwt.RegisteredClaims
}

// Pair is the result of a successful login.
type Pair struct {
	Access    string
	Refresh   string
	ExpiresIn int64 // access lifetime in seconds
}

// Config holds token secrets and lifetimes.
type Config struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Issuer        string
}

// Service issues and verifies tokens.
type Service struct {
	cfg   Config
	store cache.Cache
	now   func() time.Time
}

// NewService creates a token service. The store keeps live refresh token ids.
func NewService(cfg Config, store cache.Cache) *Service {
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = time.Hour
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = 7 * 24 * time.Hour
	}
	return &Service{cfg: cfg, store: store, now: time.Now}
}

// SetClock overrides the time source.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// AccessTTL returns the access token lifetime.
func (s *Service) AccessTTL() time.Duration {
	return s.cfg.AccessTTL
}

// Issue creates an access/refresh pair for the user and records the
// refresh token id.
func (s *Service) Issue(ctx context.Context, userID int64) (Pair, error) {
	access, err := s.sign(userID, KindAccess, "", s.cfg.AccessTTL, s.cfg.AccessSecret)
	if err != nil {
		return Pair{}, err
	}

	jti := uuid.NewString()
	refresh, err := s.sign(userID, KindRefresh, jti, s.cfg.RefreshTTL, s.cfg.RefreshSecret)
	if err != nil {
		return Pair{}, err
	}

	if err := s.store.Set(ctx, refreshKey(jti), []byte(strconv.FormatInt(userID, 10)), s.cfg.RefreshTTL); err != nil {
		return Pair{}, fmt.Errorf("storing refresh token: %w", err)
	}

	return Pair{
		Access:    access,
		Refresh:   refresh,
		ExpiresIn: int64(s.cfg.AccessTTL / time.Second),
	}, nil
}

// VerifyAccess returns the user id carried by a valid access token.
func (s *Service) VerifyAccess(tokenString string) (int64, error) {
	claims, err := s.parse(tokenString, KindAccess, s.cfg.AccessSecret)
	if err != nil {
		return 0, err
	}
	return subjectID(claims)
}

// VerifyRefresh returns the user id carried by a live refresh token.
func (s *Service) VerifyRefresh(ctx context.Context, tokenString string) (int64, error) {
	claims, err := s.parse(tokenString, KindRefresh, s.cfg.RefreshSecret)
	if err != nil {
		return 0, err
	}

	userID, err := subjectID(claims)
	if err != nil {
		return 0, err
	}

	stored, err := s.store.Get(ctx, refreshKey(claims.ID))
	if errors.Is(err, cache.ErrCacheMiss) {
		return 0, ErrRevoked
	}
	if err != nil {
		return 0, fmt.Errorf("loading refresh token: %w", err)
	}
	if string(stored) != strconv.FormatInt(userID, 10) {
		return 0, ErrInvalid
	}

	return userID, nil
}

// Refresh returns a new access token for a live refresh token. The refresh
// token itself stays valid until it expires or is revoked.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (string, int64, error) {
	userID, err := s.VerifyRefresh(ctx, refreshToken)
	if err != nil {
		return "", 0, err
	}

	access, err := s.sign(userID, KindAccess, "", s.cfg.AccessTTL, s.cfg.AccessSecret)
	if err != nil {
		return "", 0, err
	}
	return access, int64(s.cfg.AccessTTL / time.Second), nil
}

// Revoke removes a refresh token from the store. Expired or already
// revoked tokens are not an error.
func (s *Service) Revoke(ctx context.Context, refreshToken string) error {
	claims, err := s.parse(refreshToken, KindRefresh, s.cfg.RefreshSecret)
	if errors.Is(err, ErrExpired) {
		return nil
	}
	if err != nil {
		return err
	}
	return s.store.Delete(ctx, refreshKey(claims.ID))
}

func (s *Service) sign(userID int64, kind, jti string, ttl time.Duration, secret string) (string, error) {
	now := s.now()
	claims := Claims{
		Kind: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			Issuer:    s.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        jti,
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("signing %s token: %w", kind, err)
	}
	return signed, nil
}

func (s *Service) parse(tokenString, kind, secret string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrInvalid
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithIssuedAt(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, ErrInvalid
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Kind != kind {
		return nil, ErrInvalid
	}
	if kind == KindRefresh && claims.ID == "" {
		return nil, ErrInvalid
	}
	return claims, nil
}

func subjectID(claims *Claims) (int64, error) {
	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalid
	}
	return id, nil
}

func refreshKey(jti string) string {
	return "refresh:" + jti
}
