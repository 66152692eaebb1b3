// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/portfolio-api/internal/apperr"
	"github.com/olegiv/portfolio-api/internal/service"
)

func TestPlaceOutcomes_KeepsSubmissionOrder(t *testing.T) {
	readErr := apperr.Internal(errors.New("reading upload: unexpected EOF"))
	tooBig := apperr.New(apperr.KindPayloadTooLarge, "Image exceeds 5 MiB")

	// Files b.png and d.png could not be read; a.png and c.png were ingested.
	outcomes := make([]service.BatchOutcome, 4)
	outcomes[1] = service.BatchOutcome{Filename: "b.png", Err: readErr}
	outcomes[3] = service.BatchOutcome{Filename: "d.png", Err: readErr}

	placeOutcomes(outcomes, []int{0, 2}, []service.BatchOutcome{
		{Filename: "a.png", Err: tooBig},
		{Filename: "c.png", Err: tooBig},
	})

	names := make([]string, 0, len(outcomes))
	for _, o := range outcomes {
		names = append(names, o.Filename)
	}
	assert.Equal(t, []string{"a.png", "b.png", "c.png", "d.png"}, names)
}

func TestWriteBatch_AllFailed(t *testing.T) {
	outcomes := []service.BatchOutcome{
		{Filename: "a.gif", Err: apperr.New(apperr.KindUnsupportedMediaType, "Unsupported image type")},
		{Filename: "b.png", Err: apperr.Internal(errors.New("disk gone"))},
	}

	rec := httptest.NewRecorder()
	writeBatch(rec, httptest.NewRequest(http.MethodPost, "/api/v1/images/project-images", nil), outcomes)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)

	var body struct {
		Success bool              `json:"success"`
		Error   string            `json:"error"`
		Data    []OutcomeResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, string(apperr.KindUnsupportedMediaType), body.Error)
	require.Len(t, body.Data, 2)
	assert.Equal(t, "a.gif", body.Data[0].Filename)
	assert.Equal(t, "Unsupported image type", body.Data[0].Message)
	assert.Equal(t, "b.png", body.Data[1].Filename)
	assert.Equal(t, "An internal error occurred", body.Data[1].Message)
}
