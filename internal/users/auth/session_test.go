// Copyright (c) 2026 Handstand. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/handstand/internal/platform/constants"
	"github.com/taibuivan/handstand/internal/platform/sec"
	"github.com/taibuivan/handstand/internal/users/auth"
)

// fakeSessionStore is an in-memory stand-in for the Redis-backed store.
type fakeSessionStore struct {
	states map[string]*sec.SessionState
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{states: make(map[string]*sec.SessionState)}
}

func (s *fakeSessionStore) Put(_ context.Context, state *sec.SessionState) error {
	copied := *state
	s.states[state.ID] = &copied
	return nil
}

func (s *fakeSessionStore) Get(_ context.Context, sessionID string) (*sec.SessionState, error) {
	state, ok := s.states[sessionID]
	if !ok {
		return nil, nil
	}
	copied := *state
	return &copied, nil
}

func (s *fakeSessionStore) Delete(_ context.Context, sessionID string) error {
	delete(s.states, sessionID)
	return nil
}

func sessionCookie(t *testing.T, recorder *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, cookie := range recorder.Result().Cookies() {
		if cookie.Name == constants.SessionCookieName {
			return cookie
		}
	}
	t.Fatalf("no %s cookie set", constants.SessionCookieName)
	return nil
}

func TestSessionManager_Establish(t *testing.T) {
	store := newFakeSessionStore()
	manager := auth.NewSessionManager(store, false)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPost, "/login", nil)

	state := &sec.SessionState{UserID: "user-1"}
	require.NoError(t, manager.Establish(context.Background(), recorder, request, state))

	cookie := sessionCookie(t, recorder)
	assert.NotEmpty(t, cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)

	stored, err := store.Get(context.Background(), cookie.Value)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "user-1", stored.UserID)
	assert.False(t, stored.CreatedAt.IsZero())
}

/*
TestSessionManager_Establish_RegeneratesID verifies the fixation defence:
the id carried into a privilege-raising transition never survives it.
*/
func TestSessionManager_Establish_RegeneratesID(t *testing.T) {
	store := newFakeSessionStore()
	manager := auth.NewSessionManager(store, false)

	// An attacker-known anonymous session already exists.
	oldState := &sec.SessionState{ID: "attacker-known-id", UserID: ""}
	require.NoError(t, store.Put(context.Background(), oldState))

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPost, "/login", nil)
	request.AddCookie(&http.Cookie{Name: constants.SessionCookieName, Value: "attacker-known-id"})

	require.NoError(t, manager.Establish(context.Background(), recorder, request, &sec.SessionState{UserID: "user-1"}))

	cookie := sessionCookie(t, recorder)
	assert.NotEqual(t, "attacker-known-id", cookie.Value)

	// The old record is gone; the known id resolves to nothing.
	stale, err := store.Get(context.Background(), "attacker-known-id")
	require.NoError(t, err)
	assert.Nil(t, stale)
}

func TestSessionManager_Destroy(t *testing.T) {
	store := newFakeSessionStore()
	manager := auth.NewSessionManager(store, false)

	require.NoError(t, store.Put(context.Background(), &sec.SessionState{ID: "live-id", UserID: "user-1"}))

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPost, "/logout", nil)
	request.AddCookie(&http.Cookie{Name: constants.SessionCookieName, Value: "live-id"})

	require.NoError(t, manager.Destroy(context.Background(), recorder, request))

	cookie := sessionCookie(t, recorder)
	assert.Empty(t, cookie.Value)
	assert.Equal(t, -1, cookie.MaxAge)

	gone, err := store.Get(context.Background(), "live-id")
	require.NoError(t, err)
	assert.Nil(t, gone)
}

// Destroy without a cookie is a no-op success.
func TestSessionManager_Destroy_NoCookie(t *testing.T) {
	manager := auth.NewSessionManager(newFakeSessionStore(), false)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPost, "/logout", nil)

	assert.NoError(t, manager.Destroy(context.Background(), recorder, request))
}
