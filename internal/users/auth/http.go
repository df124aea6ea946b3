// Copyright (c) 2026 Handstand. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
HTTP delivery layer for the credential lifecycle.

It implements the gateway for authentication — from account creation to
session management, recovery, and provisioning.

# Architecture

The handler acts as a thin mediation layer between the web and domain services:
  - Protocol: Standard RESTful JSON interface.
  - Security: Session cookie orchestration and the provisioning gate.
  - Verification: Strict input validation before passing to [Service].

This layer is strictly responsible for transport concerns (status codes,
headers, JSON).
*/

package auth

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/handstand/internal/platform/admission"
	"github.com/taibuivan/handstand/internal/platform/middleware"
	requestutil "github.com/taibuivan/handstand/internal/platform/request"
	"github.com/taibuivan/handstand/internal/platform/respond"
	"github.com/taibuivan/handstand/internal/platform/sec"
	"github.com/taibuivan/handstand/internal/platform/validate"
	"github.com/taibuivan/handstand/pkg/pointer"
)

// # Definitions & Constructors

// EbookTokenTTL is the lifetime of the e-book viewer access token.
const EbookTokenTTL = 15 * time.Minute

// HandlerConfig is the configuration surface the handler needs.
type HandlerConfig interface {
	GateConfig
	ExposeRawTokens() bool
}

// Handler implements authentication-related HTTP endpoints.
//
// # Scope
//
// This handler manages everything related to the user lifecycle entry points
// (Registration, Login, Provisioning, Password Recovery, Settings).
type Handler struct {
	authService *Service
	sessions    *SessionManager
	ebookTokens *sec.EbookTokenService
	limiter     admission.Limiter
	cfg         HandlerConfig
}

// NewHandler constructs a new [Handler] with its dependencies.
func NewHandler(
	service *Service,
	sessions *SessionManager,
	ebookTokens *sec.EbookTokenService,
	limiter admission.Limiter,
	cfg HandlerConfig,
) *Handler {
	return &Handler{
		authService: service,
		sessions:    sessions,
		ebookTokens: ebookTokens,
		limiter:     limiter,
		cfg:         cfg,
	}
}

// Routes returns a [chi.Router] for the /auth subtree.
//
// # Guard Layout
//
// Brute-force-sensitive endpoints sit behind admission control before any
// handler logic runs; login has its own stricter budget.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public endpoints
	router.Get("/me", handler.me)
	router.Post("/logout", handler.logout)
	router.Get("/validate-set-password-token", handler.validateSetPasswordToken)

	// Login: strictest budget
	router.With(middleware.Admit(handler.limiter, admission.GroupLogin)).
		Post("/login", handler.login)

	// Shared sensitive budget
	router.Group(func(r chi.Router) {
		r.Use(middleware.Admit(handler.limiter, admission.GroupSensitive))
		r.Post("/register", handler.register)
		r.Post("/forgot-password", handler.forgotPassword)
		r.Post("/reset-password", handler.resetPassword)
		r.Post("/set-password", handler.setPassword)
		r.With(ProvisionGate(handler.cfg)).Post("/create-user", handler.createUser)
	})

	// Authenticated endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/change-password", handler.changePassword)
		r.Put("/settings", handler.updateSettings)
	})

	return router
}

// ProvisionRoutes returns the router mounted at /users: the legacy
// provisioning path, same gate and handler as /auth/create-user.
func (handler *Handler) ProvisionRoutes() chi.Router {
	router := chi.NewRouter()
	router.With(
		middleware.Admit(handler.limiter, admission.GroupSensitive),
		ProvisionGate(handler.cfg),
	).Post("/", handler.createUser)
	return router
}

// # Request Payloads

type registerRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	DisplayName     string `json:"display_name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Token           string `json:"token"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// setPasswordRequest accepts both field spellings clients use for the new
// password; they are collapsed before validation.
type setPasswordRequest struct {
	Token           string `json:"token"`
	NewPassword     string `json:"newPassword"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

func (r *setPasswordRequest) password() string {
	if r.NewPassword != "" {
		return r.NewPassword
	}
	return r.Password
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

type settingsRequest struct {
	Theme       *string `json:"theme"`
	DisplayName *string `json:"display_name"`
}

// createUserRequest accepts both name spellings used by calling systems.
type createUserRequest struct {
	Email               string `json:"email"`
	Name                string `json:"name"`
	DisplayName         string `json:"display_name"`
	TemporaryPassword   string `json:"temporaryPassword"`
	ForcePasswordChange *bool  `json:"forcePasswordChange"`
}

func (r *createUserRequest) displayName() string {
	if r.DisplayName != "" {
		return r.DisplayName
	}
	return r.Name
}

// # Handlers

/*
Me reports the session's authentication state.

GET /api/auth/me

Description: Anonymous and pending sessions — and sessions whose user row no
longer exists — all answer {authenticated:false}; this endpoint never 401s.

Response:
  - 200: {authenticated:false} | {authenticated:true, user}
*/
func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	session := requestutil.Session(request)
	if !session.Authenticated() {
		respond.OK(writer, map[string]any{"authenticated": false})
		return
	}

	user, err := handler.authService.CurrentUser(request.Context(), session.UserID)
	if err != nil {
		// Dangling user reference: clean up the orphaned session.
		_ = handler.sessions.Destroy(request.Context(), writer, request)
		respond.OK(writer, map[string]any{"authenticated": false})
		return
	}

	respond.OK(writer, map[string]any{
		"authenticated": true,
		FieldUser:       user,
	})
}

/*
Register handles the creation of a new user account.

POST /api/auth/register

Description: Validates input, persists the profile, and establishes a fully
authenticated session under a fresh id.

Request:
  - Body: registerRequest (Email, Password, ConfirmPassword, DisplayName)

Response:
  - 201: {user}
  - 400: Validation failure
  - 409: Email already registered
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input registerRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, MinPasswordLength).
		Match(FieldConfirmPassword, input.Password, input.ConfirmPassword).
		Required(FieldDisplayName, input.DisplayName).
		MaxLen(FieldDisplayName, input.DisplayName, MaxDisplayNameLength)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.Register(request.Context(), RegisterInput{
		Email:       validate.NormalizeEmail(input.Email),
		Password:    input.Password,
		DisplayName: validate.NormalizeName(input.DisplayName),
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.establishAuthenticated(writer, request, user); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, map[string]any{FieldUser: user})
}

/*
Login authenticates a member and establishes a session.

POST /api/auth/login

Description: Verifies credentials and regenerates the session id before
writing the authenticated state (fixation defence).

Request:
  - Body: loginRequest (Email, Password)

Response:
  - 200: {user}
  - 400: Validation failure
  - 401: Invalid credentials
  - 429: Login budget exceeded
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).
		Required(FieldPassword, input.Password)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.Login(request.Context(), LoginInput{
		Email:    validate.NormalizeEmail(input.Email),
		Password: input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.establishAuthenticated(writer, request, user); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{FieldUser: user})
}

/*
Logout terminates the current session.

POST /api/auth/logout

Description: Deletes the server-side session record and expires the cookie.
Idempotent: logging out without a session still succeeds.

Response:
  - 200: {ok:true}
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	if err := handler.sessions.Destroy(request.Context(), writer, request); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{"ok": true})
}

/*
ValidateSetPasswordToken checks a set-password link and opens a pending session.

GET /api/auth/validate-set-password-token?token=...

Description: Read-only token check; the token stays redeemable. On success a
PENDING session is established — it carries the user id for the follow-up
submission but grants no authenticated access.

Response:
  - 200: {user}
  - 400: Missing token
  - 401: Invalid or expired token
*/
func (handler *Handler) validateSetPasswordToken(writer http.ResponseWriter, request *http.Request) {
	rawToken := request.URL.Query().Get(FieldToken)
	if rawToken == "" {
		respond.Error(writer, request, validate.RequiredError(FieldToken, "is required"))
		return
	}

	user, err := handler.authService.ValidateSetPasswordToken(request.Context(), rawToken)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	state := &sec.SessionState{
		UserID:             user.ID,
		DisplayName:        user.DisplayName,
		PendingPasswordSet: true,
	}
	if err := handler.sessions.Establish(request.Context(), writer, request, state); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{FieldUser: user})
}

/*
SetPassword completes the provisioning handshake.

POST /api/auth/set-password

Description: Redeems the one-time token (set or reset type), applies the
chosen password, and upgrades the session to fully authenticated under a
fresh id.

Request:
  - Body: setPasswordRequest (Token, NewPassword|Password, ConfirmPassword?)

Response:
  - 200: {user}
  - 400: Validation failure
  - 401: Invalid or expired token
*/
func (handler *Handler) setPassword(writer http.ResponseWriter, request *http.Request) {
	var input setPasswordRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	password := input.password()

	validator := &validate.Validator{}
	validator.Required(FieldToken, input.Token).
		Required(FieldNewPassword, password).
		MinLen(FieldNewPassword, password, MinPasswordLength)
	if input.ConfirmPassword != "" {
		validator.Match(FieldConfirmPassword, password, input.ConfirmPassword)
	}

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.SetPassword(request.Context(), input.Token, password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.establishAuthenticated(writer, request, user); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{FieldUser: user})
}

/*
ForgotPassword initiates the password recovery flow.

POST /api/auth/forgot-password

Description: The response is identical whether or not the email is
registered, so the endpoint cannot be used for account enumeration. When
email delivery is off in development, the raw token rides along for local
testing.

Request:
  - Body: forgotPasswordRequest (Email)

Response:
  - 200: {ok:true} (+ resetToken in development)
  - 400: Invalid email format
*/
func (handler *Handler) forgotPassword(writer http.ResponseWriter, request *http.Request) {
	var input forgotPasswordRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).Email(FieldEmail, input.Email)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	rawToken, err := handler.authService.ForgotPassword(request.Context(), validate.NormalizeEmail(input.Email))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	payload := map[string]any{"ok": true}
	if rawToken != "" && handler.cfg.ExposeRawTokens() {
		payload["resetToken"] = rawToken
	}

	respond.OK(writer, payload)
}

/*
ResetPassword completes the forgot-password flow.

POST /api/auth/reset-password

Description: Redeems the reset token (a set_password token is NOT accepted
here), replaces the password, and signs the member in under a fresh session.

Request:
  - Body: resetPasswordRequest (Token, Password, ConfirmPassword)

Response:
  - 200: {user}
  - 400: Validation failure
  - 401: Invalid or expired token
*/
func (handler *Handler) resetPassword(writer http.ResponseWriter, request *http.Request) {
	var input resetPasswordRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldToken, input.Token).
		Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, MinPasswordLength).
		Match(FieldConfirmPassword, input.Password, input.ConfirmPassword)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.ResetPassword(request.Context(), input.Token, input.Password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.establishAuthenticated(writer, request, user); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{FieldUser: user})
}

/*
ChangePassword updates the authenticated member's password.

POST /api/auth/change-password

Description: Reverifies the current password before applying the change. The
session stays valid.

Request:
  - Body: changePasswordRequest (CurrentPassword, NewPassword, ConfirmPassword)

Response:
  - 200: {ok:true}
  - 400: Validation failure
  - 401: Wrong current password or no session
*/
func (handler *Handler) changePassword(writer http.ResponseWriter, request *http.Request) {
	session, err := requestutil.RequiredSession(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input changePasswordRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldCurrentPassword, input.CurrentPassword).
		Required(FieldNewPassword, input.NewPassword).
		MinLen(FieldNewPassword, input.NewPassword, MinPasswordLength).
		Match(FieldConfirmPassword, input.NewPassword, input.ConfirmPassword)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	err = handler.authService.ChangePassword(
		request.Context(),
		session.UserID,
		input.CurrentPassword,
		input.NewPassword,
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{"ok": true})
}

/*
UpdateSettings applies allow-listed profile changes.

PUT /api/auth/settings

Description: Only theme and display name are mutable. Absent fields are left
unchanged.

Request:
  - Body: settingsRequest (Theme?, DisplayName?)

Response:
  - 200: {user}
  - 400: Unknown theme or bad display name
  - 401: No session
*/
func (handler *Handler) updateSettings(writer http.ResponseWriter, request *http.Request) {
	session, err := requestutil.RequiredSession(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input settingsRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	if input.Theme != nil {
		validator.OneOf(FieldTheme, *input.Theme, AllowedThemes...)
	}
	if input.DisplayName != nil {
		validator.Required(FieldDisplayName, *input.DisplayName).
			MaxLen(FieldDisplayName, *input.DisplayName, MaxDisplayNameLength)
	}

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if input.DisplayName != nil {
		input.DisplayName = pointer.To(validate.NormalizeName(*input.DisplayName))
	}

	user, err := handler.authService.UpdateSettings(request.Context(), session.UserID, UpdateSettingsInput{
		Theme:       input.Theme,
		DisplayName: input.DisplayName,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{FieldUser: user})
}

/*
CreateUser provisions an account on behalf of an external system.

POST /api/users, POST /api/auth/create-user (behind [ProvisionGate])

Description: Upserts by email and issues a fresh set_password token. The
response shape is identical for both paths; only the status code tells them
apart.

Request:
  - Body: createUserRequest (Email, Name|DisplayName, TemporaryPassword,
    ForcePasswordChange?)

Response:
  - 201: {setPasswordToken, userId} (account created)
  - 200: {setPasswordToken, userId} (account updated)
  - 400: Validation failure
  - 401: Bad provisioning secret
  - 503: Secret unset in production
*/
func (handler *Handler) createUser(writer http.ResponseWriter, request *http.Request) {
	var input createUserRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	displayName := input.displayName()

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldDisplayName, displayName).
		MaxLen(FieldDisplayName, displayName, MaxDisplayNameLength).
		Required(FieldTemporaryPassword, input.TemporaryPassword).
		MinLen(FieldTemporaryPassword, input.TemporaryPassword, MinPasswordLength)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.authService.CreateOrUpdateUser(request.Context(), ProvisionInput{
		Email:             validate.NormalizeEmail(input.Email),
		DisplayName:       validate.NormalizeName(displayName),
		TemporaryPassword: input.TemporaryPassword,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	payload := map[string]any{
		"setPasswordToken": result.SetPasswordToken,
		"userId":           result.UserID,
	}

	if result.Created {
		respond.Created(writer, payload)
		return
	}
	respond.OK(writer, payload)
}

/*
VerifySession reports whether the request carries a live session.

GET /api/verify-session

Response:
  - 200: {ok:true} | {ok:false}
*/
func (handler *Handler) VerifySession(writer http.ResponseWriter, request *http.Request) {
	session := requestutil.Session(request)
	respond.OK(writer, map[string]any{"ok": session.Authenticated()})
}

/*
EbookToken mints a short-lived access token for the embedded e-book viewer.

GET /api/ebook-token (authenticated)

Response:
  - 200: {token}
  - 401: No session
*/
func (handler *Handler) EbookToken(writer http.ResponseWriter, request *http.Request) {
	session, err := requestutil.RequiredSession(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	token, err := handler.ebookTokens.Generate(session.UserID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{FieldToken: token})
}

// establishAuthenticated regenerates the session id and writes fully
// authenticated state for the user.
func (handler *Handler) establishAuthenticated(writer http.ResponseWriter, request *http.Request, user *User) error {
	state := &sec.SessionState{
		UserID:      user.ID,
		DisplayName: user.DisplayName,
	}
	return handler.sessions.Establish(request.Context(), writer, request, state)
}
