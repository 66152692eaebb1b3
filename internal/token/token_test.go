// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package token

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/olegiv/portfolio-api/internal/cache"
)

const (
	testAccessSecret  = "access-secret-access-secret-0123456789"
	testRefreshSecret = "refresh-secret-refresh-secret-0123456789"
)

func newTestService(t *testing.T, store cache.Cache) (*Service, *time.Time) {
	t.Helper()

	if store == nil {
		mem := cache.NewMemoryCache(cache.MemoryCacheOptions{DefaultTTL: time.Hour})
		t.Cleanup(func() { _ = mem.Close() })
		store = mem
	}

	svc := NewService(Config{
		AccessSecret:  testAccessSecret,
		RefreshSecret: testRefreshSecret,
		AccessTTL:     time.Hour,
		RefreshTTL:    7 * 24 * time.Hour,
	}, store)

	now := time.Now()
	svc.SetClock(func() time.Time { return now })
	return svc, &now
}

func TestIssueAndVerifyAccess(t *testing.T) {
	svc, _ := newTestService(t, nil)

	pair, err := svc.Issue(context.Background(), 42)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if pair.ExpiresIn != 3600 {
		t.Errorf("ExpiresIn = %d, want 3600", pair.ExpiresIn)
	}

	id, err := svc.VerifyAccess(pair.Access)
	if err != nil {
		t.Fatalf("VerifyAccess: %v", err)
	}
	if id != 42 {
		t.Errorf("VerifyAccess id = %d, want 42", id)
	}
}

func TestVerifyAccess_Expired(t *testing.T) {
	svc, now := newTestService(t, nil)

	pair, _ := svc.Issue(context.Background(), 1)
	*now = now.Add(time.Hour + time.Second)

	if _, err := svc.VerifyAccess(pair.Access); !errors.Is(err, ErrExpired) {
		t.Errorf("VerifyAccess after expiry = %v, want ErrExpired", err)
	}
}

func TestVerifyAccess_Invalid(t *testing.T) {
	svc, _ := newTestService(t, nil)
	pair, _ := svc.Issue(context.Background(), 1)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not-a-token"},
		{"refresh used as access", pair.Refresh},
		{"tampered", pair.Access + "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.VerifyAccess(tt.token); !errors.Is(err, ErrInvalid) {
				t.Errorf("VerifyAccess = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestVerifyAccess_WrongAlgorithm(t *testing.T) {
	svc, now := newTestService(t, nil)

	claims := Claims{
		Kind: KindAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "1",
			IssuedAt:  jwt.NewNumericDate(*now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testAccessSecret))
	if err != nil {
		t.Fatalf("signing: %v", err)
	}

	if _, err := svc.VerifyAccess(signed); !errors.Is(err, ErrInvalid) {
		t.Errorf("VerifyAccess(HS512) = %v, want ErrInvalid", err)
	}
}

func TestRefreshAfterAccessExpired(t *testing.T) {
	svc, now := newTestService(t, nil)
	ctx := context.Background()

	pair, _ := svc.Issue(ctx, 7)
	*now = now.Add(2 * time.Hour)

	access, expiresIn, err := svc.Refresh(ctx, pair.Refresh)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if expiresIn != 3600 {
		t.Errorf("expiresIn = %d", expiresIn)
	}

	id, err := svc.VerifyAccess(access)
	if err != nil || id != 7 {
		t.Errorf("VerifyAccess(new) = %d, %v", id, err)
	}

	if _, err := svc.VerifyAccess(pair.Access); !errors.Is(err, ErrExpired) {
		t.Errorf("old access token = %v, want ErrExpired", err)
	}
}

func TestRevoke(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	pair, _ := svc.Issue(ctx, 3)
	if err := svc.Revoke(ctx, pair.Refresh); err != nil {
		t.Fatalf("Revoke: %v", err)
	}

	if _, _, err := svc.Refresh(ctx, pair.Refresh); !errors.Is(err, ErrRevoked) {
		t.Errorf("Refresh after revoke = %v, want ErrRevoked", err)
	}

	if err := svc.Revoke(ctx, pair.Refresh); err != nil {
		t.Errorf("second Revoke = %v, want nil", err)
	}
}

func TestRefreshExpired(t *testing.T) {
	svc, now := newTestService(t, nil)
	ctx := context.Background()

	pair, _ := svc.Issue(ctx, 3)
	*now = now.Add(8 * 24 * time.Hour)

	if _, err := svc.VerifyRefresh(ctx, pair.Refresh); !errors.Is(err, ErrExpired) {
		t.Errorf("VerifyRefresh after 8 days = %v, want ErrExpired", err)
	}
}

func TestRefreshStoreInRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	opts := cache.DefaultRedisCacheOptions()
	opts.URL = "redis://" + mr.Addr()
	rc, err := cache.NewRedisCache(opts)
	if err != nil {
		t.Fatalf("NewRedisCache: %v", err)
	}
	t.Cleanup(func() { _ = rc.Close() })

	svc, _ := newTestService(t, rc)
	ctx := context.Background()

	pair, err := svc.Issue(ctx, 9)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	keys := mr.Keys()
	if len(keys) != 1 {
		t.Fatalf("expected one stored refresh id, got %v", keys)
	}
	if ttl := mr.TTL(keys[0]); ttl != 7*24*time.Hour {
		t.Errorf("refresh TTL = %v, want 168h", ttl)
	}

	if id, err := svc.VerifyRefresh(ctx, pair.Refresh); err != nil || id != 9 {
		t.Errorf("VerifyRefresh = %d, %v", id, err)
	}

	_ = svc.Revoke(ctx, pair.Refresh)
	if len(mr.Keys()) != 0 {
		t.Error("expected refresh id removed from redis")
	}
}
