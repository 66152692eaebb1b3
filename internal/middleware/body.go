// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"fmt"
	"mime"
	"net/http"

	"github.com/olegiv/portfolio-api/internal/apperr"
)

// Request body limits.
const (
	MaxJSONBodySize      int64 = 10 << 20
	MaxMultipartBodySize int64 = 64 << 20
)

// MaxBodySize caps request bodies: multipart/form-data at multipartLimit,
// everything else at jsonLimit. Requests that declare a larger
// Content-Length are rejected before reading with 413 PAYLOAD_TOO_LARGE;
// the rest fail while the handler reads past the cap.
func MaxBodySize(jsonLimit, multipartLimit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			limit := jsonLimit
			if mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type")); err == nil && mt == "multipart/form-data" {
				limit = multipartLimit
			}
			if r.ContentLength > limit {
				WriteAPIError(w, r, apperr.New(apperr.KindPayloadTooLarge,
					fmt.Sprintf("Request body exceeds the %d MiB limit", limit>>20)))
				return
			}
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, limit)
			}
			next.ServeHTTP(w, r)
		})
	}
}
