// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/portfolio-api/internal/apperr"
)

func TestWriteSuccess(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteSuccess(rec, http.StatusCreated, "Created", map[string]int{"submission_id": 3})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"success":true,"message":"Created","data":{"submission_id":3}}`, rec.Body.String())
}

func TestWriteSuccessKeepsEmptyData(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteSuccess(rec, http.StatusOK, "", []string{})
	assert.JSONEq(t, `{"success":true,"data":[]}`, rec.Body.String())
}

func TestWriteAPIError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantKind    apperr.Kind
		wantMessage string
	}{
		{
			name:        "validation",
			err:         apperr.Validation("title is required"),
			wantStatus:  http.StatusBadRequest,
			wantKind:    apperr.KindValidation,
			wantMessage: "title is required",
		},
		{
			name:        "slug exists",
			err:         apperr.New(apperr.KindSlugExists, "A project with this slug already exists"),
			wantStatus:  http.StatusConflict,
			wantKind:    apperr.KindSlugExists,
			wantMessage: "A project with this slug already exists",
		},
		{
			name:        "locked",
			err:         apperr.New(apperr.KindAccountLocked, "locked"),
			wantStatus:  http.StatusLocked,
			wantKind:    apperr.KindAccountLocked,
			wantMessage: "locked",
		},
		{
			name:        "unclassified error hides its cause",
			err:         errors.New("database is locked"),
			wantStatus:  http.StatusInternalServerError,
			wantKind:    apperr.KindInternal,
			wantMessage: "An internal error occurred",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteAPIError(rec, httptest.NewRequest(http.MethodGet, "/", nil), tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			assert.Equal(t, tt.wantKind, resp.Error)
			assert.Equal(t, tt.wantMessage, resp.Message)
		})
	}
}

func TestWriteAPIErrorInternalCarriesRequestID(t *testing.T) {
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		WriteAPIError(w, r, errors.New("boom"))
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.RequestID)
	assert.Equal(t, rec.Header().Get(RequestIDHeader), resp.RequestID)
}

func TestLimiterCacheResetsWhenFull(t *testing.T) {
	lc := newLimiterCache[string](1, 1)
	lc.maxSize = 2
	lc.get("a")
	lc.get("b")
	assert.Equal(t, 2, lc.len())
	lc.get("c")
	assert.Equal(t, 1, lc.len())
	assert.Same(t, lc.get("c"), lc.get("c"))
}
