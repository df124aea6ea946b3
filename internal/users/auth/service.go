// Copyright (c) 2026 Handstand. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
The credential service orchestrates every account lifecycle operation:
registration, login, password change and recovery, provisioning, and
settings.

Architecture:

  - Service: Orchestrates business logic over the repository contracts.
  - TokenEngine: One-time token issuance and redemption.
  - SessionManager: Cookie and session state transitions (HTTP layer).

Authorization context is always re-derived from the session; client-supplied
ids are never trusted for identity.
*/

package auth

import (
	"context"
	"fmt"

	"github.com/taibuivan/handstand/internal/platform/apperr"
	"github.com/taibuivan/handstand/internal/platform/sec"
	"github.com/taibuivan/handstand/pkg/pointer"
	"github.com/taibuivan/handstand/pkg/uuid"
)

// # Definitions & Constructors

// Service implements the credential lifecycle use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, token, or
// login logic must be reviewed by the security team.
type Service struct {
	userRepository UserRepository
	tokenEngine    *TokenEngine
}

// NewService constructs a new [Service] with its dependencies.
func NewService(userRepo UserRepository, engine *TokenEngine) *Service {
	return &Service{
		userRepository: userRepo,
		tokenEngine:    engine,
	}
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new member.
// Email is expected in canonical lowercase form.
type RegisterInput struct {
	Email       string
	Password    string
	DisplayName string
}

/*
Register validates, hashes, and persists a brand new user account.

Description: Enrollment of a new member starting at level 1. A registered
member is fully authenticated immediately; no pending state or verification
step applies to self-registration.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *User: Created entity
  - err: Conflict (if email exists) or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*User, error) {

	// Prevent storing plain-text passwords.
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	// Time-sortable ID to prevent PG index fragmentation.
	user := &User{
		ID:           uuid.New(),
		Email:        input.Email,
		PasswordHash: hashedPassword,
		DisplayName:  input.DisplayName,
		CurrentLevel: MinLevel,
		Theme:        "system",
	}

	// The unique index on email is the authority on duplicates; the repo
	// maps a violation to a client-safe Conflict.
	if err := service.userRepository.Create(context, user); err != nil {
		return nil, err
	}

	return user, nil
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Email    string
	Password string
}

/*
Login validates user credentials.

Description: Looks up the account by email and verifies the password with
bcrypt's constant-time comparison. Unknown email and wrong password produce
the identical generic error to prevent account enumeration.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *User: Verified account
  - err: Unauthorized or internal failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*User, error) {
	user, err := service.userRepository.FindByEmail(context, input.Email)

	// If (err != nil) the user does not exist. Generic message to prevent enumeration.
	if err != nil {
		return nil, apperr.Unauthorized("Invalid email or password")
	}

	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		return nil, apperr.Unauthorized("Invalid email or password")
	}

	return user, nil
}

/*
CurrentUser resolves the session's user id to a live account.

Description: Sessions hold a weak reference; the account row may have been
deleted since the session was written. A dangling reference is Unauthorized,
never NotFound, so the response does not reveal whether the account ever
existed.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *User: Live account
  - err: Unauthorized or storage failures
*/
func (service *Service) CurrentUser(context context.Context, userID string) (*User, error) {
	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.Unauthorized("Session user no longer exists")
		}
		return nil, err
	}
	return user, nil
}

// # Password Management

/*
ChangePassword updates the password for an authenticated user.

Description: Reverifies the current password before applying the new hash,
so a hijacked session alone cannot rotate the credential.

Parameters:
  - context: context.Context
  - userID: string
  - currentPassword: string
  - newPassword: string

Returns:
  - err: Unauthorized (wrong current password) or storage failures
*/
func (service *Service) ChangePassword(context context.Context, userID, currentPassword, newPassword string) error {
	user, err := service.CurrentUser(context, userID)
	if err != nil {
		return err
	}

	if !sec.CheckPasswordHash(currentPassword, user.PasswordHash) {
		return apperr.Unauthorized("Current password is incorrect")
	}

	hashedPassword, err := sec.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("auth_service_change_password_hash_failed: %w", err)
	}

	if err := service.userRepository.UpdatePassword(context, userID, hashedPassword); err != nil {
		return fmt.Errorf("auth_service_change_password_update_failed: %w", err)
	}

	return nil
}

/*
ForgotPassword initiates the password recovery flow.

Description: Issues a short-lived reset token when the email is registered.
An unknown email returns success with an empty token; the caller's response
is identical either way to prevent account enumeration.

Parameters:
  - context: context.Context
  - email: string (canonical lowercase)

Returns:
  - string: Raw reset token, empty when the email is unknown
  - err: Generation or storage failures
*/
func (service *Service) ForgotPassword(context context.Context, email string) (string, error) {
	user, err := service.userRepository.FindByEmail(context, email)
	if err != nil {
		// Unknown email: same outward result as success.
		return "", nil
	}

	rawToken, err := service.tokenEngine.Issue(context, user.ID, TokenTypeResetPassword, ResetTokenTTL)
	if err != nil {
		return "", fmt.Errorf("auth_service_reset_token_failed: %w", err)
	}

	return rawToken, nil
}

/*
ResetPassword completes the forgot-password flow.

Description: Redeems a reset token (strictly reset_password; a set_password
token is not accepted here) and replaces the password hash. Redemption also
consumes any sibling tokens, so the link cannot be replayed.

Parameters:
  - context: context.Context
  - rawToken: string
  - newPassword: string

Returns:
  - *User: Account the password was reset for
  - err: Unauthorized (invalid/expired token) or storage failures
*/
func (service *Service) ResetPassword(context context.Context, rawToken, newPassword string) (*User, error) {
	userID, err := service.tokenEngine.Redeem(context, rawToken, TokenTypeResetPassword)
	if err != nil {
		return nil, err
	}

	return service.applyPassword(context, userID, newPassword)
}

/*
ValidateSetPasswordToken resolves a set-password token without consuming it.

Description: Used when the recipient first opens the emailed link. The token
stays live so the follow-up submission can redeem it; the caller establishes
a pending (not authenticated) session from the result.

Parameters:
  - context: context.Context
  - rawToken: string

Returns:
  - *User: Token's owning account
  - err: Unauthorized (invalid/expired token) or storage failures
*/
func (service *Service) ValidateSetPasswordToken(context context.Context, rawToken string) (*User, error) {
	userID, err := service.tokenEngine.Validate(context, rawToken, TokenTypeSetPassword)
	if err != nil {
		return nil, err
	}

	return service.CurrentUser(context, userID)
}

/*
SetPassword completes the provisioning handshake.

Description: Redeems the token and applies the chosen password. Both token
types are accepted here — a member who received a reset link may land on the
set-password form — and redemption consumes both, enforcing mutual
invalidation once either flow completes.

Parameters:
  - context: context.Context
  - rawToken: string
  - newPassword: string

Returns:
  - *User: Account the password was set for
  - err: Unauthorized (invalid/expired token) or storage failures
*/
func (service *Service) SetPassword(context context.Context, rawToken, newPassword string) (*User, error) {
	userID, err := service.tokenEngine.Redeem(context, rawToken, TokenTypeSetPassword, TokenTypeResetPassword)
	if err != nil {
		return nil, err
	}

	return service.applyPassword(context, userID, newPassword)
}

// applyPassword hashes and persists a new password, returning the account.
func (service *Service) applyPassword(context context.Context, userID, newPassword string) (*User, error) {
	hashedPassword, err := sec.HashPassword(newPassword)
	if err != nil {
		return nil, fmt.Errorf("auth_service_apply_password_hash_failed: %w", err)
	}

	if err := service.userRepository.UpdatePassword(context, userID, hashedPassword); err != nil {
		return nil, fmt.Errorf("auth_service_apply_password_update_failed: %w", err)
	}

	return service.CurrentUser(context, userID)
}

// # Settings

// UpdateSettingsInput carries the allow-listed mutable settings. Nil fields
// are left unchanged.
type UpdateSettingsInput struct {
	Theme       *string
	DisplayName *string
}

/*
UpdateSettings applies allow-listed profile changes.

Description: Only theme and display name are mutable here. Anything else in
the request payload has already been rejected at decode time.

Parameters:
  - context: context.Context
  - userID: string
  - input: UpdateSettingsInput

Returns:
  - *User: Updated account
  - err: Unauthorized (dangling session user) or storage failures
*/
func (service *Service) UpdateSettings(context context.Context, userID string, input UpdateSettingsInput) (*User, error) {
	user, err := service.CurrentUser(context, userID)
	if err != nil {
		return nil, err
	}

	user.Theme = pointer.Fallback(input.Theme, user.Theme)
	user.DisplayName = pointer.Fallback(input.DisplayName, user.DisplayName)

	if err := service.userRepository.UpdateProfile(context, user); err != nil {
		return nil, err
	}

	return user, nil
}

// # Provisioning

// ProvisionInput holds the payload of an admin provisioning request.
type ProvisionInput struct {
	Email             string
	DisplayName       string
	TemporaryPassword string
}

// ProvisionResult is the outcome of [Service.CreateOrUpdateUser].
type ProvisionResult struct {
	UserID           string
	SetPasswordToken string
	Created          bool
}

/*
CreateOrUpdateUser provisions an account by email (upsert semantics).

Description: An existing account gets its display name and temporary
password hash replaced; existing sessions stay valid. A new account is
inserted. Either path then issues a fresh set_password token (7 days),
replacing any earlier one. The two statements are not wrapped in a
transaction: a failure between them leaves a valid user without a token,
and retrying the idempotent request repairs that state.

Parameters:
  - context: context.Context
  - input: ProvisionInput

Returns:
  - *ProvisionResult: Token and user id, with Created flagging the insert path
  - err: Storage failures
*/
func (service *Service) CreateOrUpdateUser(context context.Context, input ProvisionInput) (*ProvisionResult, error) {
	hashedPassword, err := sec.HashPassword(input.TemporaryPassword)
	if err != nil {
		return nil, fmt.Errorf("auth_service_provision_hash_failed: %w", err)
	}

	created := false
	user, err := service.userRepository.FindByEmail(context, input.Email)

	switch {
	case err == nil:
		// Existing account: replace credentials and display name in place.
		user.DisplayName = input.DisplayName
		if err := service.userRepository.UpdateProfile(context, user); err != nil {
			return nil, err
		}
		if err := service.userRepository.UpdatePassword(context, user.ID, hashedPassword); err != nil {
			return nil, fmt.Errorf("auth_service_provision_update_failed: %w", err)
		}

	case apperr.IsNotFound(err):
		created = true
		user = &User{
			ID:           uuid.New(),
			Email:        input.Email,
			PasswordHash: hashedPassword,
			DisplayName:  input.DisplayName,
			CurrentLevel: MinLevel,
			Theme:        "system",
		}
		if err := service.userRepository.Create(context, user); err != nil {
			return nil, err
		}

	default:
		return nil, err
	}

	rawToken, err := service.tokenEngine.Issue(context, user.ID, TokenTypeSetPassword, SetPasswordTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_provision_token_failed: %w", err)
	}

	return &ProvisionResult{
		UserID:           user.ID,
		SetPasswordToken: rawToken,
		Created:          created,
	}, nil
}
