// Copyright (c) 2026 Handstand. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/taibuivan/handstand/internal/platform/constants"
	"github.com/taibuivan/handstand/internal/platform/sec"
)

// # Session Lifecycle

// SessionManager owns every session state transition and the cookie that
// carries the opaque id.
//
// # State Machine
//
//   - Anonymous: no cookie, or a cookie pointing at nothing.
//   - Pending: user resolved from a set-password link; not yet authenticated.
//   - Authenticated: full access.
//   - Destroyed: terminal; server-side record gone, cookie expired.
//
// Every transition that raises privilege (login, register, set-password)
// goes through [SessionManager.Establish], which regenerates the opaque id.
// A pre-authentication id therefore never survives into an authenticated
// session, which defeats session fixation.
type SessionManager struct {
	store SessionStore

	// secureCookies controls the cookie Secure attribute. Off in
	// development so plain-HTTP localhost keeps working.
	secureCookies bool
}

// NewSessionManager constructs a [SessionManager].
func NewSessionManager(store SessionStore, secureCookies bool) *SessionManager {
	return &SessionManager{store: store, secureCookies: secureCookies}
}

/*
Establish writes new session state under a freshly generated opaque id and
sets the cookie.

Description: If the request carried a prior session cookie, that server-side
record is deleted first. The new id is generated, state is persisted, and the
cookie is replaced, so the transition is regenerate-and-write in one call.

Parameters:
  - context: context.Context
  - writer: http.ResponseWriter
  - request: *http.Request
  - state: *sec.SessionState (ID is assigned here)

Returns:
  - err: Generation or persistence failures
*/
func (manager *SessionManager) Establish(context context.Context, writer http.ResponseWriter, request *http.Request, state *sec.SessionState) error {

	// Drop the old record so the pre-transition id dies with it.
	if cookie, err := request.Cookie(constants.SessionCookieName); err == nil && cookie.Value != "" {
		_ = manager.store.Delete(context, cookie.Value)
	}

	sessionID, err := sec.NewSessionID()
	if err != nil {
		return fmt.Errorf("session_manager_id_generation_failed: %w", err)
	}

	state.ID = sessionID
	if state.CreatedAt.IsZero() {
		state.CreatedAt = time.Now()
	}

	if err := manager.store.Put(context, state); err != nil {
		return fmt.Errorf("session_manager_put_failed: %w", err)
	}

	manager.setCookie(writer, sessionID, SessionTTL)
	return nil
}

/*
Destroy terminates the request's session.

Description: Deletes the server-side record (idempotent; a missing record is
fine) and expires the cookie on the client.

Parameters:
  - context: context.Context
  - writer: http.ResponseWriter
  - request: *http.Request

Returns:
  - err: Persistence failures
*/
func (manager *SessionManager) Destroy(context context.Context, writer http.ResponseWriter, request *http.Request) error {
	if cookie, err := request.Cookie(constants.SessionCookieName); err == nil && cookie.Value != "" {
		if err := manager.store.Delete(context, cookie.Value); err != nil {
			return fmt.Errorf("session_manager_delete_failed: %w", err)
		}
	}

	manager.setCookie(writer, "", -1)
	return nil
}

/*
Load resolves an opaque session id to its state, refreshing the sliding TTL.

Description: Satisfies the middleware session-loading contract. Unknown or
expired ids return (nil, nil) so stale cookies degrade to anonymous.

Parameters:
  - request: *http.Request
  - sessionID: string

Returns:
  - *sec.SessionState: Hydrated state, nil when absent
  - err: Retrieval failures
*/
func (manager *SessionManager) Load(request *http.Request, sessionID string) (*sec.SessionState, error) {
	return manager.store.Get(request.Context(), sessionID)
}

// setCookie writes the session cookie. A negative maxAge expires it.
func (manager *SessionManager) setCookie(writer http.ResponseWriter, value string, maxAge time.Duration) {
	cookie := &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    value,
		Path:     constants.SessionCookiePath,
		Secure:   manager.secureCookies,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	if maxAge < 0 {
		cookie.MaxAge = -1
	} else {
		cookie.Expires = time.Now().Add(maxAge)
	}

	http.SetCookie(writer, cookie)
}
