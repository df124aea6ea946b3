// Copyright (c) 2026 Handstand. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package request provides helpers for extracting and decoding data from
incoming HTTP requests.

It covers the three request surfaces handlers care about:

  - Body: strict JSON decoding with size limits ([DecodeJSON]).
  - Path: typed URL parameter extraction ([Param], [IntParam]).
  - Session: accessors for the session attached by the middleware chain.
*/
package request

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/handstand/internal/platform/apperr"
	"github.com/taibuivan/handstand/internal/platform/ctxutil"
	"github.com/taibuivan/handstand/internal/platform/sec"
	"github.com/taibuivan/handstand/internal/platform/validate"
)

// maxBodyBytes caps request bodies at 1 MiB. Handstand payloads are small
// JSON documents; anything larger is rejected before decoding.
const maxBodyBytes = 1 << 20

// # Body Decoding

/*
DecodeJSON reads and decodes the request body into dst.

It enforces a size limit and rejects unknown fields so that client typos
surface as 400s instead of silently dropped data. A missing or empty body
is also an error, because every endpoint that calls DecodeJSON requires
a payload.

Parameters:
  - w: the response writer, required by http.MaxBytesReader.
  - r: the incoming request whose body is consumed.
  - dst: pointer to the destination struct.

Returns:
  - error: [validate.ErrInvalidJSON]-wrapped AppError on malformed input, nil on success.
*/
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperr.ValidationError("Request body is required")
		}
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return apperr.ValidationError("Request body too large")
		}
		return &apperr.AppError{
			Code:       "VALIDATION_ERROR",
			Message:    "Invalid JSON body",
			HTTPStatus: http.StatusBadRequest,
			Cause:      errors.Join(validate.ErrInvalidJSON, err),
		}
	}

	// Reject trailing garbage after the first JSON value.
	if dec.More() {
		return apperr.ValidationError("Invalid JSON body")
	}

	return nil
}

// # Path Parameters

// Param returns the named chi URL parameter.
func Param(r *http.Request, name string) string {
	return chi.URLParam(r, name)
}

/*
IntParam extracts a URL parameter and parses it as a positive integer.

Returns:
  - int: the parsed value.
  - error: a 400 AppError when the parameter is absent or not a positive integer.
*/
func IntParam(r *http.Request, name string) (int, error) {
	raw := chi.URLParam(r, name)
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, apperr.ValidationError("Invalid " + name + " parameter")
	}
	return n, nil
}

// # Session Accessors

// Session returns the session attached to the request context, or nil when
// the request carried no valid session cookie.
func Session(r *http.Request) *sec.SessionState {
	return ctxutil.GetSession(r.Context())
}

/*
RequiredSession returns the authenticated session for the request.

A nil session and a pending session are both rejected: a pending session
exists only to carry a set-password handshake and must never grant access
to authenticated endpoints.

Returns:
  - *sec.SessionState: the authenticated session.
  - error: a 401 AppError when no authenticated session is present.
*/
func RequiredSession(r *http.Request) (*sec.SessionState, error) {
	s := ctxutil.GetSession(r.Context())
	if !s.Authenticated() {
		return nil, apperr.Unauthorized("Authentication required")
	}
	return s, nil
}
