// Copyright (c) 2026 Handstand. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"

	"github.com/taibuivan/handstand/internal/platform/sec"
)

// # User Data Access

// UserRepository defines the data access contract for user accounts.
type UserRepository interface {

	/*
		FindByID returns the account with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByID(context context.Context, id string) (*User, error)

	/*
		FindByEmail returns the account with the given (lowercase) email.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		Create persists a brand-new user account to the storage.

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: apperr.Conflict on duplicate email, or persistence failures
	*/
	Create(context context.Context, user *User) error

	/*
		UpdateProfile persists changes to the mutable profile fields
		(display name, theme).

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: Persistence failures
	*/
	UpdateProfile(context context.Context, user *User) error

	/*
		UpdatePassword replaces only the user's password hash.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - newHash: string

		Returns:
		  - error: Persistence failures
	*/
	UpdatePassword(context context.Context, userID, newHash string) error

	/*
		UpdateLevel replaces the user's current training level.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - level: int

		Returns:
		  - error: Persistence failures
	*/
	UpdateLevel(context context.Context, userID string, level int) error
}

// # One-Time Token Data Access

// TokenRepository defines the data access contract for one-time password tokens.
type TokenRepository interface {

	/*
		Upsert stores a token record, replacing any existing record with the
		same (user, type) key.

		Parameters:
		  - context: context.Context
		  - token: *PasswordToken

		Returns:
		  - error: Persistence failures
	*/
	Upsert(context context.Context, token *PasswordToken) error

	/*
		FindLive returns the unexpired token record matching the digest,
		restricted to the allowed types. Expiry is evaluated at query time.

		Parameters:
		  - context: context.Context
		  - tokenHash: string
		  - allowed: ...TokenType

		Returns:
		  - *PasswordToken: Hydrated record
		  - error: apperr.NotFound or retrieval failures
	*/
	FindLive(context context.Context, tokenHash string, allowed ...TokenType) (*PasswordToken, error)

	/*
		DeleteForUser removes the user's token records of the given types.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - types: ...TokenType

		Returns:
		  - error: Persistence failures
	*/
	DeleteForUser(context context.Context, userID string, types ...TokenType) error
}

// # Session Data Access

// SessionStore defines the contract for the volatile session state store.
//
// Every read refreshes the sliding TTL. The opaque id is the only thing the
// client ever holds; the state lives server-side.
type SessionStore interface {

	/*
		Put stores session state under its opaque id with the full TTL.

		Parameters:
		  - context: context.Context
		  - state: *sec.SessionState

		Returns:
		  - error: Persistence failures
	*/
	Put(context context.Context, state *sec.SessionState) error

	/*
		Get resolves an opaque id to its session state, refreshing the TTL.
		Unknown or expired ids return (nil, nil).

		Parameters:
		  - context: context.Context
		  - sessionID: string

		Returns:
		  - *sec.SessionState: Hydrated state, nil when absent
		  - error: Retrieval failures
	*/
	Get(context context.Context, sessionID string) (*sec.SessionState, error)

	/*
		Delete removes session state by its opaque id.

		Parameters:
		  - context: context.Context
		  - sessionID: string

		Returns:
		  - error: Persistence failures
	*/
	Delete(context context.Context, sessionID string) error
}
