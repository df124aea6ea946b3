// Copyright (c) 2026 Handstand. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dberr_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/handstand/internal/platform/apperr"
	"github.com/taibuivan/handstand/internal/platform/dberr"
)

func TestWrap(t *testing.T) {
	testCases := []struct {
		name         string
		err          error
		wantCode     string
		wantStatus   int
		wantMessage  string
		wantNotFound bool
	}{
		{
			name:         "no_rows_maps_to_not_found",
			err:          pgx.ErrNoRows,
			wantCode:     "NOT_FOUND",
			wantStatus:   http.StatusNotFound,
			wantNotFound: true,
		},
		{
			name:        "unique_violation_maps_to_conflict",
			err:         &pgconn.PgError{Code: pgerrcode.UniqueViolation},
			wantCode:    "CONFLICT",
			wantStatus:  http.StatusConflict,
			wantMessage: "Email is already registered",
		},
		{
			name:       "unknown_errors_become_internal",
			err:        errors.New("connection reset"),
			wantCode:   "INTERNAL_ERROR",
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := dberr.Wrap(tt.err, "Email is already registered")

			appError := apperr.As(wrapped)
			require.NotNil(t, appError)
			assert.Equal(t, tt.wantCode, appError.Code)
			assert.Equal(t, tt.wantStatus, appError.HTTPStatus)
			if tt.wantMessage != "" {
				assert.Equal(t, tt.wantMessage, appError.Message)
			}
			assert.Equal(t, tt.wantNotFound, apperr.IsNotFound(wrapped))
		})
	}
}

func TestWrap_Nil(t *testing.T) {
	assert.NoError(t, dberr.Wrap(nil, "unused"))
}

func TestWrap_NoRowsIsErrNotFound(t *testing.T) {
	assert.ErrorIs(t, dberr.Wrap(pgx.ErrNoRows, ""), dberr.ErrNotFound)
}
