// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package captcha

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/portfolio-api/internal/apperr"
)

func newTestVerifier(t *testing.T, handler http.HandlerFunc) *HCaptcha {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewHCaptcha("test-secret", logger).WithEndpoint(srv.URL, srv.Client())
}

func TestVerify_Success(t *testing.T) {
	v := newTestVerifier(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "test-secret", r.PostForm.Get("secret"))
		assert.Equal(t, "token-1", r.PostForm.Get("response"))
		assert.Equal(t, "203.0.113.7", r.PostForm.Get("remoteip"))
		_, _ = io.WriteString(w, `{"success":true,"hostname":"example.com"}`)
	})

	require.NoError(t, v.Verify(context.Background(), "token-1", "203.0.113.7"))
}

func TestVerify_Rejected(t *testing.T) {
	v := newTestVerifier(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"success":false,"error-codes":["invalid-input-response"]}`)
	})

	err := v.Verify(context.Background(), "bad", "")
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestVerify_MissingToken(t *testing.T) {
	called := false
	v := newTestVerifier(t, func(http.ResponseWriter, *http.Request) { called = true })

	err := v.Verify(context.Background(), "  ", "")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	assert.False(t, called)
}

func TestVerify_UpstreamFailure(t *testing.T) {
	v := newTestVerifier(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	assert.Equal(t, apperr.KindInternal, apperr.KindOf(v.Verify(context.Background(), "t", "")))

	v = newTestVerifier(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "not json")
	})
	assert.Equal(t, apperr.KindInternal, apperr.KindOf(v.Verify(context.Background(), "t", "")))
}
