// Copyright (c) 2026 Handstand. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// PostgreSQL implementations of the auth storage contracts.
//
// # Architecture
//
// Repositories here are strictly separated from domain logic. They implement
// the domain-defined interfaces ([UserRepository], [TokenRepository]) using
// the [pgxpool.Pool] connection manager.
//
// # Error Mapping
//
// Storage-specific errors (pgx.ErrNoRows, unique violations) are mapped to
// domain-friendly [apperr.AppError] types via dberr to avoid leaking storage
// implementation details.

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/handstand/internal/platform/dberr"
)

// # User Repository

// PostgresUserRepository implements the UserRepository interface using pgx.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

/*
Create persists a new user record into the users table.

Description: Deep-persists account data, initializing timestamps if absent.
A duplicate email surfaces as a client-safe Conflict via the unique index,
which also closes the register/provision race past any pre-check.

Parameters:
  - context: context.Context
  - user: *User (Entity to persist)

Returns:
  - error: apperr.Conflict on duplicate email, or connectivity errors
*/
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	const query = `
		INSERT INTO users (
			id, email, password_hash, display_name, current_level, theme, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.DisplayName,
		user.CurrentLevel,
		user.Theme,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		return dberr.Wrap(err, "Email is already registered")
	}

	return nil
}

/*
FindByEmail retrieves a user record by their unique email address.

Description: Lookup on the users table. Callers are expected to pass the
canonical lowercase form.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByEmail(context context.Context, email string) (*User, error) {
	const query = `
		SELECT id, email, password_hash, display_name, current_level, theme, created_at, updated_at
		FROM users
		WHERE email = $1`

	return repository.scanOne(context, query, email)
}

/*
FindByID retrieves a user record by their unique ID.

Description: Primary key resolution for user accounts.

Parameters:
  - context: context.Context
  - id: string (UUIDv7)

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresUserRepository) FindByID(context context.Context, id string) (*User, error) {
	const query = `
		SELECT id, email, password_hash, display_name, current_level, theme, created_at, updated_at
		FROM users
		WHERE id = $1`

	return repository.scanOne(context, query, id)
}

// scanOne runs a single-row user query and hydrates the entity.
func (repository *PostgresUserRepository) scanOne(context context.Context, query string, arg any) (*User, error) {
	user := &User{}
	err := repository.pool.QueryRow(context, query, arg).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.DisplayName,
		&user.CurrentLevel,
		&user.Theme,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, dberr.ErrNotFound
		}
		return nil, fmt.Errorf("postgres_user_repo_find_failed: %w", err)
	}

	return user, nil
}

/*
UpdateProfile persists changes to a user's mutable profile fields.

Description: Synchronizes display name and theme with the database,
refreshing the updated_at timestamp.

Parameters:
  - context: context.Context
  - user: *User

Returns:
  - error: Update failures
*/
func (repository *PostgresUserRepository) UpdateProfile(context context.Context, user *User) error {
	const query = `
		UPDATE users
		SET display_name = $2, theme = $3, updated_at = $4
		WHERE id = $1`

	user.UpdatedAt = time.Now()
	_, err := repository.pool.Exec(context, query,
		user.ID,
		user.DisplayName,
		user.Theme,
		user.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("postgres_user_repo_update_profile_failed: %w", err)
	}

	return nil
}

/*
UpdatePassword updates only the password hash for a specific user.

Parameters:
  - context: context.Context
  - userID: string
  - newHash: string

Returns:
  - error: Execution errors
*/
func (repository *PostgresUserRepository) UpdatePassword(context context.Context, userID, newHash string) error {
	const query = `
		UPDATE users
		SET password_hash = $2, updated_at = $3
		WHERE id = $1`

	_, err := repository.pool.Exec(context, query, userID, newHash, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_user_repo_update_password_failed: %w", err)
	}

	return nil
}

/*
UpdateLevel replaces the user's current training level.

Parameters:
  - context: context.Context
  - userID: string
  - level: int

Returns:
  - error: Execution errors
*/
func (repository *PostgresUserRepository) UpdateLevel(context context.Context, userID string, level int) error {
	const query = `
		UPDATE users
		SET current_level = $2, updated_at = $3
		WHERE id = $1`

	_, err := repository.pool.Exec(context, query, userID, level, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_user_repo_update_level_failed: %w", err)
	}

	return nil
}

// # Token Repository

// PostgresTokenRepository implements the TokenRepository interface.
type PostgresTokenRepository struct {
	pool *pgxpool.Pool
}

// NewTokenRepository creates a new PostgreSQL implementation of TokenRepository.
func NewTokenRepository(pool *pgxpool.Pool) *PostgresTokenRepository {
	return &PostgresTokenRepository{pool: pool}
}

/*
Upsert stores a one-time token record, replacing any existing row with the
same (user_id, type) key.

Description: ON CONFLICT on the composite primary key enforces the
one-live-token-per-flow invariant at the storage layer, so a second issue
always kills the first.

Parameters:
  - context: context.Context
  - token: *PasswordToken

Returns:
  - error: Storage failures
*/
func (repository *PostgresTokenRepository) Upsert(context context.Context, token *PasswordToken) error {
	const query = `
		INSERT INTO password_tokens (user_id, type, token_hash, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, type)
		DO UPDATE SET token_hash = EXCLUDED.token_hash,
		              expires_at = EXCLUDED.expires_at,
		              created_at = EXCLUDED.created_at`

	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now()
	}

	_, err := repository.pool.Exec(context, query,
		token.UserID,
		token.Type,
		token.TokenHash,
		token.ExpiresAt,
		token.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("postgres_token_repo_upsert_failed: %w", err)
	}

	return nil
}

/*
FindLive retrieves the unexpired token record matching the digest.

Description: Expiry is evaluated in the query predicate rather than by any
sweeper, so expired rows simply stop matching and are overwritten by the
next upsert.

Parameters:
  - context: context.Context
  - tokenHash: string
  - allowed: ...TokenType

Returns:
  - *PasswordToken: Hydrated record
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresTokenRepository) FindLive(context context.Context, tokenHash string, allowed ...TokenType) (*PasswordToken, error) {
	const query = `
		SELECT user_id, type, token_hash, expires_at, created_at
		FROM password_tokens
		WHERE token_hash = $1 AND type = ANY($2) AND expires_at > NOW()`

	record := &PasswordToken{}
	err := repository.pool.QueryRow(context, query, tokenHash, typeStrings(allowed)).Scan(
		&record.UserID,
		&record.Type,
		&record.TokenHash,
		&record.ExpiresAt,
		&record.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, dberr.ErrNotFound
		}
		return nil, fmt.Errorf("postgres_token_repo_find_failed: %w", err)
	}

	return record, nil
}

/*
DeleteForUser removes the user's token records of the given types.

Parameters:
  - context: context.Context
  - userID: string
  - types: ...TokenType

Returns:
  - error: Deletion failures
*/
func (repository *PostgresTokenRepository) DeleteForUser(context context.Context, userID string, types ...TokenType) error {
	const query = `DELETE FROM password_tokens WHERE user_id = $1 AND type = ANY($2)`

	_, err := repository.pool.Exec(context, query, userID, typeStrings(types))
	if err != nil {
		return fmt.Errorf("postgres_token_repo_delete_failed: %w", err)
	}

	return nil
}

// typeStrings converts token types to plain strings for pgx array binding.
func typeStrings(types []TokenType) []string {
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = string(t)
	}
	return out
}
