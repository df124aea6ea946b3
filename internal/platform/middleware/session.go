// Copyright (c) 2026 Handstand. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"net/http"

	"github.com/taibuivan/handstand/internal/platform/apperr"
	"github.com/taibuivan/handstand/internal/platform/constants"
	"github.com/taibuivan/handstand/internal/platform/ctxutil"
	"github.com/taibuivan/handstand/internal/platform/respond"
	"github.com/taibuivan/handstand/internal/platform/sec"
)

// SessionLoader defines the interface needed to resolve session cookies in middleware.
//
// # Why an interface?
//
// Defining SessionLoader here decouples the middleware from the `auth` store
// implementation, allowing us to easily inject fakes during unit testing.
type SessionLoader interface {
	// Load resolves a session id to its state, refreshing the sliding
	// expiration. It returns nil with a nil error when the id is unknown
	// or expired.
	Load(r *http.Request, sessionID string) (*sec.SessionState, error)
}

// LoadSession resolves the session cookie and attaches the session state to
// the request context.
//
// # Flow
//  1. Check for the session cookie.
//  2. If absent, the request proceeds as anonymous.
//  3. If present, resolve the opaque id via [SessionLoader]; unknown or
//     expired ids also proceed as anonymous rather than erroring, so stale
//     cookies never lock a client out of public endpoints.
//  4. Inject [*sec.SessionState] into the request context for downstream use.
//
// # Parameters
//   - loader: The SessionLoader instance.
//
// # Returns
//   - An [http.Handler] middleware.
func LoadSession(loader SessionLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			cookie, err := request.Cookie(constants.SessionCookieName)

			// ── 1. Anonymous Access ───────────────────────────────────────────
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 2. Session Resolution ─────────────────────────────────────────
			state, err := loader.Load(request, cookie.Value)
			if err != nil {
				respond.Error(writer, request, apperr.Internal(err))
				return
			}
			if state == nil {
				// Stale cookie: treat as anonymous.
				next.ServeHTTP(writer, request)
				return
			}

			// ── 3. Context Injection ──────────────────────────────────────────
			ctx := ctxutil.WithSession(request.Context(), state)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAuth blocks requests that do not carry an authenticated session.
//
// # Usage
//
// Must be registered in the router AFTER [LoadSession].
//
// # Flow
//  1. Check if [*sec.SessionState] exists in context.
//  2. A pending session (set-password handshake in flight) counts as NOT
//     authenticated and is rejected the same as no session at all.
//  3. If missing or pending, abort with HTTP 401 Unauthorized.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		session := ctxutil.GetSession(request.Context())
		if !session.Authenticated() {
			respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}
