// Copyright (c) 2026 Handstand. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import "time"

// # Session State

// SessionState is the server-held state behind one opaque session id.
//
// It is the identity object carried through the request context. The client
// only ever sees the opaque id (as an HttpOnly cookie); the state itself lives
// server-side and is re-loaded on every request.
//
// # State Machine
//
// A session moves through three states during its lifetime:
//
//   - Anonymous: no state exists for the presented id (or no id at all).
//   - Pending: UserID is set and PendingPasswordSet is true — established by
//     validating a set-password link before the user has chosen a password.
//   - Authenticated: UserID is set and the pending flag is clear.
//
// Pending is never authenticated: every guarded endpoint except the
// password-set operation itself must reject it.
type SessionState struct {
	// ID is the opaque session identifier (the cookie value).
	ID string `json:"-"`

	// UserID references the owning user by id only. The reference is weak:
	// the user may have been deleted, so it is re-validated on each use.
	UserID string `json:"user_id"`

	// DisplayName is cached for display so /auth/me avoids a second lookup path.
	DisplayName string `json:"display_name"`

	// PendingPasswordSet marks a session established via token validation
	// that has not yet completed the password-set operation.
	PendingPasswordSet bool `json:"pending_password_set,omitempty"`

	// CreatedAt is when this session id was issued.
	CreatedAt time.Time `json:"created_at"`
}

// Authenticated reports whether the session represents a fully signed-in user.
// A nil state (anonymous) and a Pending state both report false.
func (s *SessionState) Authenticated() bool {
	return s != nil && s.UserID != "" && !s.PendingPasswordSet
}

// Pending reports whether the session was established by token validation and
// is still waiting for the password-set operation to complete.
func (s *SessionState) Pending() bool {
	return s != nil && s.UserID != "" && s.PendingPasswordSet
}

// NewSessionID generates a fresh opaque session identifier.
//
// 32 bytes of entropy — the id is a bearer credential and gets the same
// treatment as the one-time tokens.
func NewSessionID() (string, error) {
	return GenerateToken(SessionIDLength)
}

// SessionIDLength is the byte length of the random session identifier.
const SessionIDLength = 32
