// Copyright (c) 2026 Handstand. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/taibuivan/handstand/internal/platform/apperr"
	"github.com/taibuivan/handstand/internal/platform/sec"
)

// # One-Time Token Types

// TokenType classifies a one-time password token by the flow that issued it.
type TokenType string

const (
	// TokenTypeSetPassword is issued by provisioning; the recipient picks
	// their first password from the emailed link.
	TokenTypeSetPassword TokenType = "set_password"

	// TokenTypeResetPassword is issued by the forgot-password flow.
	TokenTypeResetPassword TokenType = "reset_password"
)

// Valid reports whether t is a known token type.
func (t TokenType) Valid() bool {
	return t == TokenTypeSetPassword || t == TokenTypeResetPassword
}

// PasswordToken is a stored one-time token record. Only the SHA-256 digest
// of the raw token is persisted; the raw value exists once, in the response
// or email that carried it.
type PasswordToken struct {
	UserID    string    `json:"user_id"`
	Type      TokenType `json:"type"`
	TokenHash string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// ErrTokenInvalid is the single client-facing failure for token redemption.
// Expired, consumed, wrong-type, and never-existed tokens are deliberately
// indistinguishable.
var ErrTokenInvalid = apperr.Unauthorized("Invalid or expired token")

// # Token Engine

// TokenEngine issues, validates, and redeems one-time password tokens.
//
// # Invariants
//
//   - At most one live token per (user, type): issuing replaces any prior
//     token of the same type via upsert.
//   - Redemption consumes the token across every allowed type, so completing
//     either the set or reset flow invalidates the other.
type TokenEngine struct {
	tokens TokenRepository
}

// NewTokenEngine constructs a [TokenEngine] over the given repository.
func NewTokenEngine(tokens TokenRepository) *TokenEngine {
	return &TokenEngine{tokens: tokens}
}

/*
Issue mints a fresh one-time token for the user and flow.

Description: Generates 32 bytes of CSPRNG entropy, persists only the SHA-256
digest keyed (user, type), and returns the raw token exactly once.

Parameters:
  - context: context.Context
  - userID: string
  - tokenType: TokenType
  - timeToLive: time.Duration

Returns:
  - string: The raw token. Never stored; never logged.
  - err: Generation or persistence failures
*/
func (engine *TokenEngine) Issue(context context.Context, userID string, tokenType TokenType, timeToLive time.Duration) (string, error) {
	rawToken, err := sec.GenerateToken(PasswordTokenLength)
	if err != nil {
		return "", fmt.Errorf("token_engine_generate_failed: %w", err)
	}

	record := &PasswordToken{
		UserID:    userID,
		Type:      tokenType,
		TokenHash: sec.DigestToken(rawToken),
		ExpiresAt: time.Now().Add(timeToLive),
	}

	// Upsert: a second issue for the same (user, type) replaces the first,
	// so the earlier raw token stops redeeming.
	if err := engine.tokens.Upsert(context, record); err != nil {
		return "", fmt.Errorf("token_engine_store_failed: %w", err)
	}

	return rawToken, nil
}

/*
Validate resolves a raw token to its owning user without consuming it.

Description: Read-only lookup used to establish the pending session when the
recipient first opens the emailed link. The token stays live so the follow-up
set-password submission can still redeem it.

Parameters:
  - context: context.Context
  - rawToken: string
  - allowed: ...TokenType (flows this call accepts)

Returns:
  - string: Owning user ID
  - err: [ErrTokenInvalid] or storage failures
*/
func (engine *TokenEngine) Validate(context context.Context, rawToken string, allowed ...TokenType) (string, error) {
	record, err := engine.lookup(context, rawToken, allowed)
	if err != nil {
		return "", err
	}
	return record.UserID, nil
}

/*
Redeem consumes a raw token, returning its owning user.

Description: Resolves the digest among the allowed types, then deletes the
user's tokens across ALL allowed types in the same call. A second redemption
of the same raw token fails with [ErrTokenInvalid].

Parameters:
  - context: context.Context
  - rawToken: string
  - allowed: ...TokenType

Returns:
  - string: Owning user ID
  - err: [ErrTokenInvalid] or storage failures
*/
func (engine *TokenEngine) Redeem(context context.Context, rawToken string, allowed ...TokenType) (string, error) {
	record, err := engine.lookup(context, rawToken, allowed)
	if err != nil {
		return "", err
	}

	// Mutual invalidation: once either flow completes, the sibling token
	// (if any) must not remain redeemable.
	if err := engine.tokens.DeleteForUser(context, record.UserID, allowed...); err != nil {
		return "", fmt.Errorf("token_engine_consume_failed: %w", err)
	}

	return record.UserID, nil
}

// lookup resolves the digest to a live record, collapsing every miss into
// [ErrTokenInvalid].
func (engine *TokenEngine) lookup(context context.Context, rawToken string, allowed []TokenType) (*PasswordToken, error) {
	if rawToken == "" || len(allowed) == 0 {
		return nil, ErrTokenInvalid
	}

	record, err := engine.tokens.FindLive(context, sec.DigestToken(rawToken), allowed...)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, ErrTokenInvalid
		}
		return nil, fmt.Errorf("token_engine_lookup_failed: %w", err)
	}

	return record, nil
}
