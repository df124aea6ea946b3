// Copyright (c) 2026 Handstand. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/handstand/internal/platform/admission"
	"github.com/taibuivan/handstand/internal/platform/constants"
	"github.com/taibuivan/handstand/internal/platform/middleware"
	"github.com/taibuivan/handstand/internal/platform/sec"
	"github.com/taibuivan/handstand/internal/users/auth"
)

type handlerConfig struct {
	production bool
	secret     string
	exposeRaw  bool
}

func (c handlerConfig) IsProduction() bool         { return c.production }
func (c handlerConfig) ProvisioningSecret() string { return c.secret }
func (c handlerConfig) ExposeRawTokens() bool      { return c.exposeRaw }

// httpHarness stands up the full /auth route tree over in-memory fakes,
// with the real session-loading middleware and admission limiter in front.
type httpHarness struct {
	server  *httptest.Server
	harness *serviceHarness
	cancel  context.CancelFunc
}

func newHTTPHarness(t *testing.T, cfg handlerConfig) *httpHarness {
	t.Helper()

	serviceHarness := newServiceHarness()
	sessionStore := newFakeSessionStore()
	manager := auth.NewSessionManager(sessionStore, false)
	ebookTokens := sec.NewEbookTokenService("test-session-secret", constants.EbookTokenIssuer, auth.EbookTokenTTL)

	ctx, cancel := context.WithCancel(context.Background())
	limiter := admission.NewMemoryLimiter(ctx)

	handler := auth.NewHandler(serviceHarness.service, manager, ebookTokens, limiter, cfg)

	router := chi.NewRouter()
	router.Use(middleware.LoadSession(manager))
	router.Mount("/auth", handler.Routes())
	router.Get("/verify-session", handler.VerifySession)
	router.With(middleware.RequireAuth).Get("/ebook-token", handler.EbookToken)

	server := httptest.NewServer(router)
	t.Cleanup(func() {
		server.Close()
		cancel()
	})

	return &httpHarness{server: server, harness: serviceHarness, cancel: cancel}
}

// client returns an HTTP client with its own cookie jar, i.e. one browser.
func (h *httpHarness) client(t *testing.T) *http.Client {
	t.Helper()
	client := h.server.Client()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Transport: client.Transport, Jar: jar, Timeout: 10 * time.Second}
}

func (h *httpHarness) postJSON(t *testing.T, client *http.Client, path, body string) *http.Response {
	t.Helper()
	response, err := client.Post(h.server.URL+path, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	return response
}

func (h *httpHarness) getJSON(t *testing.T, client *http.Client, path string) *http.Response {
	t.Helper()
	response, err := client.Get(h.server.URL + path)
	require.NoError(t, err)
	return response
}

func decodeBody(t *testing.T, response *http.Response) map[string]any {
	t.Helper()
	defer response.Body.Close()
	var payload map[string]any
	require.NoError(t, json.NewDecoder(response.Body).Decode(&payload))
	return payload
}

func TestHandler_RegisterLoginLogout(t *testing.T) {
	harness := newHTTPHarness(t, handlerConfig{})
	client := harness.client(t)

	// Register signs the member in immediately.
	response := harness.postJSON(t, client, "/auth/register",
		`{"email":"alex@example.com","password":"press2plank","confirm_password":"press2plank","display_name":"Alex"}`)
	require.Equal(t, http.StatusCreated, response.StatusCode)
	body := decodeBody(t, response)
	user := body["user"].(map[string]any)
	assert.Equal(t, "alex@example.com", user["email"])
	// The hash never leaves the server.
	assert.NotContains(t, user, "password_hash")

	response = harness.getJSON(t, client, "/auth/me")
	require.Equal(t, http.StatusOK, response.StatusCode)
	assert.Equal(t, true, decodeBody(t, response)["authenticated"])

	response = harness.getJSON(t, client, "/verify-session")
	require.Equal(t, http.StatusOK, response.StatusCode)
	assert.Equal(t, true, decodeBody(t, response)["ok"])

	response = harness.postJSON(t, client, "/auth/logout", `{}`)
	require.Equal(t, http.StatusOK, response.StatusCode)
	decodeBody(t, response)

	response = harness.getJSON(t, client, "/auth/me")
	require.Equal(t, http.StatusOK, response.StatusCode)
	assert.Equal(t, false, decodeBody(t, response)["authenticated"])
}

func TestHandler_LoginAdmissionBudget(t *testing.T) {
	harness := newHTTPHarness(t, handlerConfig{})
	client := harness.client(t)

	// Unknown email keeps each attempt cheap; the budget counts attempts,
	// not outcomes.
	for i := 0; i < constants.LoginBudget; i++ {
		response := harness.postJSON(t, client, "/auth/login",
			`{"email":"nobody@example.com","password":"wrong"}`)
		require.Equal(t, http.StatusUnauthorized, response.StatusCode)
		response.Body.Close()
	}

	response := harness.postJSON(t, client, "/auth/login",
		`{"email":"nobody@example.com","password":"wrong"}`)
	defer response.Body.Close()
	assert.Equal(t, http.StatusTooManyRequests, response.StatusCode)
	assert.NotEmpty(t, response.Header.Get("Retry-After"))
}

func TestHandler_ProvisioningHandshake(t *testing.T) {
	harness := newHTTPHarness(t, handlerConfig{secret: "server-to-server"})
	admin := harness.client(t)

	// Without the secret the gate refuses.
	response := harness.postJSON(t, admin, "/auth/create-user",
		`{"email":"invitee@example.com","name":"Invitee","temporaryPassword":"temporary1"}`)
	require.Equal(t, http.StatusUnauthorized, response.StatusCode)
	response.Body.Close()

	// With the secret, provisioning returns the raw handshake token.
	request, err := http.NewRequest(http.MethodPost, harness.server.URL+"/auth/create-user",
		strings.NewReader(`{"email":"invitee@example.com","name":"Invitee","temporaryPassword":"temporary1"}`))
	require.NoError(t, err)
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Authorization", "Bearer server-to-server")

	response, err = admin.Do(request)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, response.StatusCode)
	body := decodeBody(t, response)
	rawToken := body["setPasswordToken"].(string)
	require.NotEmpty(t, rawToken)

	// The invitee opens the link: a pending session, still not authenticated.
	invitee := harness.client(t)
	response = harness.getJSON(t, invitee, "/auth/validate-set-password-token?token="+rawToken)
	require.Equal(t, http.StatusOK, response.StatusCode)
	decodeBody(t, response)

	response = harness.getJSON(t, invitee, "/auth/me")
	require.Equal(t, http.StatusOK, response.StatusCode)
	assert.Equal(t, false, decodeBody(t, response)["authenticated"])

	// Choosing a password completes the handshake and signs them in.
	response = harness.postJSON(t, invitee, "/auth/set-password",
		`{"token":"`+rawToken+`","newPassword":"chosenOne1"}`)
	require.Equal(t, http.StatusOK, response.StatusCode)
	decodeBody(t, response)

	response = harness.getJSON(t, invitee, "/auth/me")
	require.Equal(t, http.StatusOK, response.StatusCode)
	assert.Equal(t, true, decodeBody(t, response)["authenticated"])
}

func TestHandler_ProvisioningKeepsExistingSessions(t *testing.T) {
	harness := newHTTPHarness(t, handlerConfig{secret: "server-to-server"})

	// A member registers and holds a live session cookie.
	member := harness.client(t)
	response := harness.postJSON(t, member, "/auth/register",
		`{"email":"casey@example.com","password":"frogstand1","confirm_password":"frogstand1","display_name":"Casey"}`)
	require.Equal(t, http.StatusCreated, response.StatusCode)
	response.Body.Close()

	// An operator re-provisions the same email through the gate.
	request, err := http.NewRequest(http.MethodPost, harness.server.URL+"/auth/create-user",
		strings.NewReader(`{"email":"casey@example.com","name":"Casey II","temporaryPassword":"temporary1"}`))
	require.NoError(t, err)
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Authorization", "Bearer server-to-server")

	response, err = harness.client(t).Do(request)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, response.StatusCode)
	require.NotEmpty(t, decodeBody(t, response)["setPasswordToken"])

	// Credentials were rotated, but the member's session is untouched.
	response = harness.getJSON(t, member, "/auth/me")
	require.Equal(t, http.StatusOK, response.StatusCode)
	assert.Equal(t, true, decodeBody(t, response)["authenticated"])
}

func TestHandler_EbookTokenRequiresSession(t *testing.T) {
	harness := newHTTPHarness(t, handlerConfig{})

	anonymous := harness.client(t)
	response := harness.getJSON(t, anonymous, "/ebook-token")
	assert.Equal(t, http.StatusUnauthorized, response.StatusCode)
	response.Body.Close()

	member := harness.client(t)
	response = harness.postJSON(t, member, "/auth/register",
		`{"email":"alex@example.com","password":"press2plank","confirm_password":"press2plank","display_name":"Alex"}`)
	require.Equal(t, http.StatusCreated, response.StatusCode)
	response.Body.Close()

	response = harness.getJSON(t, member, "/ebook-token")
	require.Equal(t, http.StatusOK, response.StatusCode)
	assert.NotEmpty(t, decodeBody(t, response)["token"])
}
