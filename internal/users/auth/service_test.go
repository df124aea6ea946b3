// Copyright (c) 2026 Handstand. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/handstand/internal/platform/apperr"
	"github.com/taibuivan/handstand/internal/users/auth"
)

// # Fakes

type fakeUserRepository struct {
	byID    map[string]*auth.User
	byEmail map[string]*auth.User
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{
		byID:    make(map[string]*auth.User),
		byEmail: make(map[string]*auth.User),
	}
}

func (r *fakeUserRepository) FindByID(_ context.Context, id string) (*auth.User, error) {
	user, ok := r.byID[id]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepository) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	user, ok := r.byEmail[email]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepository) Create(_ context.Context, user *auth.User) error {
	if _, exists := r.byEmail[user.Email]; exists {
		return apperr.Conflict("Email is already registered")
	}
	copied := *user
	r.byID[user.ID] = &copied
	r.byEmail[user.Email] = &copied
	return nil
}

func (r *fakeUserRepository) UpdateProfile(_ context.Context, user *auth.User) error {
	stored, ok := r.byID[user.ID]
	if !ok {
		return apperr.NotFound("User")
	}
	stored.DisplayName = user.DisplayName
	stored.Theme = user.Theme
	return nil
}

func (r *fakeUserRepository) UpdatePassword(_ context.Context, userID, newHash string) error {
	stored, ok := r.byID[userID]
	if !ok {
		return apperr.NotFound("User")
	}
	stored.PasswordHash = newHash
	return nil
}

func (r *fakeUserRepository) UpdateLevel(_ context.Context, userID string, level int) error {
	stored, ok := r.byID[userID]
	if !ok {
		return apperr.NotFound("User")
	}
	stored.CurrentLevel = level
	return nil
}

type fakeTokenRepository struct {
	records map[string]*auth.PasswordToken // keyed userID + "/" + type
}

func newFakeTokenRepository() *fakeTokenRepository {
	return &fakeTokenRepository{records: make(map[string]*auth.PasswordToken)}
}

func tokenKey(userID string, tokenType auth.TokenType) string {
	return userID + "/" + string(tokenType)
}

func (r *fakeTokenRepository) Upsert(_ context.Context, token *auth.PasswordToken) error {
	copied := *token
	r.records[tokenKey(token.UserID, token.Type)] = &copied
	return nil
}

func (r *fakeTokenRepository) FindLive(_ context.Context, tokenHash string, allowed ...auth.TokenType) (*auth.PasswordToken, error) {
	for _, record := range r.records {
		if record.TokenHash != tokenHash {
			continue
		}
		if record.ExpiresAt.Before(time.Now()) {
			continue
		}
		for _, tokenType := range allowed {
			if record.Type == tokenType {
				copied := *record
				return &copied, nil
			}
		}
	}
	return nil, apperr.NotFound("Token")
}

func (r *fakeTokenRepository) DeleteForUser(_ context.Context, userID string, types ...auth.TokenType) error {
	for _, tokenType := range types {
		delete(r.records, tokenKey(userID, tokenType))
	}
	return nil
}

// # Harness

type serviceHarness struct {
	users   *fakeUserRepository
	tokens  *fakeTokenRepository
	engine  *auth.TokenEngine
	service *auth.Service
}

func newServiceHarness() *serviceHarness {
	users := newFakeUserRepository()
	tokens := newFakeTokenRepository()
	engine := auth.NewTokenEngine(tokens)
	return &serviceHarness{
		users:   users,
		tokens:  tokens,
		engine:  engine,
		service: auth.NewService(users, engine),
	}
}

func (h *serviceHarness) register(t *testing.T, email, password string) *auth.User {
	t.Helper()
	user, err := h.service.Register(context.Background(), auth.RegisterInput{
		Email:       email,
		Password:    password,
		DisplayName: "Test Member",
	})
	require.NoError(t, err)
	return user
}

// # Registration & Login

func TestService_Register(t *testing.T) {
	harness := newServiceHarness()

	user := harness.register(t, "alex@example.com", "press2plank")

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, auth.MinLevel, user.CurrentLevel)
	assert.Equal(t, "system", user.Theme)
	// The hash must never equal the plain text.
	assert.NotEqual(t, "press2plank", user.PasswordHash)
}

func TestService_Register_DuplicateEmail(t *testing.T) {
	harness := newServiceHarness()
	harness.register(t, "alex@example.com", "press2plank")

	_, err := harness.service.Register(context.Background(), auth.RegisterInput{
		Email:       "alex@example.com",
		Password:    "different",
		DisplayName: "Other",
	})

	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperr.As(err).Code)
}

func TestService_Login(t *testing.T) {
	harness := newServiceHarness()
	harness.register(t, "alex@example.com", "press2plank")

	user, err := harness.service.Login(context.Background(), auth.LoginInput{
		Email:    "alex@example.com",
		Password: "press2plank",
	})

	require.NoError(t, err)
	assert.Equal(t, "alex@example.com", user.Email)
}

/*
TestService_Login_GenericFailure verifies the anti-enumeration property:
an unknown email and a wrong password produce the very same error.
*/
func TestService_Login_GenericFailure(t *testing.T) {
	harness := newServiceHarness()
	harness.register(t, "alex@example.com", "press2plank")

	_, unknownErr := harness.service.Login(context.Background(), auth.LoginInput{
		Email:    "nobody@example.com",
		Password: "press2plank",
	})
	_, wrongErr := harness.service.Login(context.Background(), auth.LoginInput{
		Email:    "alex@example.com",
		Password: "not-the-password",
	})

	require.Error(t, unknownErr)
	require.Error(t, wrongErr)
	assert.Equal(t, unknownErr.Error(), wrongErr.Error())
	assert.Equal(t, 401, apperr.As(unknownErr).HTTPStatus)
	assert.Equal(t, 401, apperr.As(wrongErr).HTTPStatus)
}

func TestService_CurrentUser_Dangling(t *testing.T) {
	harness := newServiceHarness()

	_, err := harness.service.CurrentUser(context.Background(), "no-such-id")

	require.Error(t, err)
	// A deleted account behind a live session is Unauthorized, never 404.
	assert.Equal(t, 401, apperr.As(err).HTTPStatus)
}

// # Password Change & Recovery

func TestService_ChangePassword(t *testing.T) {
	harness := newServiceHarness()
	user := harness.register(t, "alex@example.com", "press2plank")

	err := harness.service.ChangePassword(context.Background(), user.ID, "press2plank", "newSecret1")
	require.NoError(t, err)

	_, err = harness.service.Login(context.Background(), auth.LoginInput{
		Email:    "alex@example.com",
		Password: "newSecret1",
	})
	assert.NoError(t, err)
}

func TestService_ChangePassword_WrongCurrent(t *testing.T) {
	harness := newServiceHarness()
	user := harness.register(t, "alex@example.com", "press2plank")

	err := harness.service.ChangePassword(context.Background(), user.ID, "wrong", "newSecret1")

	require.Error(t, err)
	assert.Equal(t, 401, apperr.As(err).HTTPStatus)
}

func TestService_ForgotPassword_UnknownEmail(t *testing.T) {
	harness := newServiceHarness()

	rawToken, err := harness.service.ForgotPassword(context.Background(), "nobody@example.com")

	// Unknown email must look exactly like success.
	require.NoError(t, err)
	assert.Empty(t, rawToken)
}

func TestService_ResetPassword(t *testing.T) {
	harness := newServiceHarness()
	harness.register(t, "alex@example.com", "press2plank")

	rawToken, err := harness.service.ForgotPassword(context.Background(), "alex@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, rawToken)

	user, err := harness.service.ResetPassword(context.Background(), rawToken, "afterReset1")
	require.NoError(t, err)
	assert.Equal(t, "alex@example.com", user.Email)

	_, err = harness.service.Login(context.Background(), auth.LoginInput{
		Email:    "alex@example.com",
		Password: "afterReset1",
	})
	assert.NoError(t, err)
}

func TestService_ResetPassword_SingleUse(t *testing.T) {
	harness := newServiceHarness()
	harness.register(t, "alex@example.com", "press2plank")

	rawToken, err := harness.service.ForgotPassword(context.Background(), "alex@example.com")
	require.NoError(t, err)

	_, err = harness.service.ResetPassword(context.Background(), rawToken, "afterReset1")
	require.NoError(t, err)

	_, err = harness.service.ResetPassword(context.Background(), rawToken, "secondTry2")
	assert.ErrorIs(t, err, auth.ErrTokenInvalid)
}

func TestService_ResetPassword_ReissueInvalidatesPrior(t *testing.T) {
	harness := newServiceHarness()
	harness.register(t, "alex@example.com", "press2plank")

	firstToken, err := harness.service.ForgotPassword(context.Background(), "alex@example.com")
	require.NoError(t, err)
	secondToken, err := harness.service.ForgotPassword(context.Background(), "alex@example.com")
	require.NoError(t, err)
	require.NotEqual(t, firstToken, secondToken)

	_, err = harness.service.ResetPassword(context.Background(), firstToken, "afterReset1")
	assert.ErrorIs(t, err, auth.ErrTokenInvalid)

	_, err = harness.service.ResetPassword(context.Background(), secondToken, "afterReset1")
	assert.NoError(t, err)
}

/*
TestService_TokenTypeBoundaries pins the asymmetric acceptance rule:
set-password accepts a reset token, but reset-password never accepts a
set-password token.
*/
func TestService_TokenTypeBoundaries(t *testing.T) {
	harness := newServiceHarness()
	harness.register(t, "alex@example.com", "press2plank")

	t.Run("set_password_accepts_reset_token", func(t *testing.T) {
		resetToken, err := harness.service.ForgotPassword(context.Background(), "alex@example.com")
		require.NoError(t, err)

		_, err = harness.service.SetPassword(context.Background(), resetToken, "chosenOne1")
		assert.NoError(t, err)
	})

	t.Run("reset_password_rejects_set_token", func(t *testing.T) {
		result, err := harness.service.CreateOrUpdateUser(context.Background(), auth.ProvisionInput{
			Email:             "provisioned@example.com",
			DisplayName:       "Provisioned",
			TemporaryPassword: "temporary1",
		})
		require.NoError(t, err)

		_, err = harness.service.ResetPassword(context.Background(), result.SetPasswordToken, "chosenOne1")
		assert.ErrorIs(t, err, auth.ErrTokenInvalid)
	})
}

func TestService_ValidateSetPasswordToken_KeepsTokenLive(t *testing.T) {
	harness := newServiceHarness()

	result, err := harness.service.CreateOrUpdateUser(context.Background(), auth.ProvisionInput{
		Email:             "invitee@example.com",
		DisplayName:       "Invitee",
		TemporaryPassword: "temporary1",
	})
	require.NoError(t, err)

	// Opening the link twice is fine; validation never consumes.
	for range 2 {
		user, err := harness.service.ValidateSetPasswordToken(context.Background(), result.SetPasswordToken)
		require.NoError(t, err)
		assert.Equal(t, "invitee@example.com", user.Email)
	}

	// The follow-up submission can still redeem it, exactly once.
	_, err = harness.service.SetPassword(context.Background(), result.SetPasswordToken, "chosenOne1")
	require.NoError(t, err)
	_, err = harness.service.SetPassword(context.Background(), result.SetPasswordToken, "chosenOne1")
	assert.ErrorIs(t, err, auth.ErrTokenInvalid)
}

// # Provisioning

func TestService_CreateOrUpdateUser_New(t *testing.T) {
	harness := newServiceHarness()

	result, err := harness.service.CreateOrUpdateUser(context.Background(), auth.ProvisionInput{
		Email:             "invitee@example.com",
		DisplayName:       "Invitee",
		TemporaryPassword: "temporary1",
	})

	require.NoError(t, err)
	assert.True(t, result.Created)
	assert.NotEmpty(t, result.UserID)
	assert.NotEmpty(t, result.SetPasswordToken)

	_, err = harness.service.Login(context.Background(), auth.LoginInput{
		Email:    "invitee@example.com",
		Password: "temporary1",
	})
	assert.NoError(t, err)
}

func TestService_CreateOrUpdateUser_Existing(t *testing.T) {
	harness := newServiceHarness()
	existing := harness.register(t, "alex@example.com", "press2plank")

	result, err := harness.service.CreateOrUpdateUser(context.Background(), auth.ProvisionInput{
		Email:             "alex@example.com",
		DisplayName:       "Renamed",
		TemporaryPassword: "temporary1",
	})

	require.NoError(t, err)
	assert.False(t, result.Created)
	assert.Equal(t, existing.ID, result.UserID)

	// The old password is replaced by the temporary one.
	_, err = harness.service.Login(context.Background(), auth.LoginInput{
		Email:    "alex@example.com",
		Password: "press2plank",
	})
	assert.Error(t, err)
	user, err := harness.service.Login(context.Background(), auth.LoginInput{
		Email:    "alex@example.com",
		Password: "temporary1",
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", user.DisplayName)

	// And the handshake token works.
	_, err = harness.service.SetPassword(context.Background(), result.SetPasswordToken, "chosenOne1")
	assert.NoError(t, err)
}

// # Settings

func TestService_UpdateSettings(t *testing.T) {
	harness := newServiceHarness()
	user := harness.register(t, "alex@example.com", "press2plank")

	theme := "dark"
	updated, err := harness.service.UpdateSettings(context.Background(), user.ID, auth.UpdateSettingsInput{
		Theme: &theme,
	})

	require.NoError(t, err)
	assert.Equal(t, "dark", updated.Theme)
	// Display name untouched when the field is absent.
	assert.Equal(t, "Test Member", updated.DisplayName)
}
