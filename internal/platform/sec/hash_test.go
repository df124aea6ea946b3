// Copyright (c) 2026 Handstand. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/handstand/internal/platform/sec"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := sec.HashPassword("press2plank")
	require.NoError(t, err)
	require.NotEqual(t, "press2plank", hash)

	assert.True(t, sec.CheckPasswordHash("press2plank", hash))
	assert.False(t, sec.CheckPasswordHash("wrong", hash))
}

func TestGenerateToken(t *testing.T) {
	first, err := sec.GenerateToken(32)
	require.NoError(t, err)
	second, err := sec.GenerateToken(32)
	require.NoError(t, err)

	// 32 bytes hex-encoded.
	assert.Len(t, first, 64)
	assert.NotEqual(t, first, second)
}

func TestDigestToken(t *testing.T) {
	digest := sec.DigestToken("some-raw-token")

	// Deterministic, hex-encoded SHA-256, and never the input itself.
	assert.Equal(t, digest, sec.DigestToken("some-raw-token"))
	assert.Len(t, digest, 64)
	assert.NotEqual(t, "some-raw-token", digest)
	assert.NotEqual(t, digest, sec.DigestToken("other-raw-token"))
}

func TestSecretEqual(t *testing.T) {
	tests := []struct {
		name       string
		presented  string
		configured string
		equal      bool
	}{
		{"matching", "hunter2hunter2", "hunter2hunter2", true},
		{"mismatch_same_length", "hunter2hunter3", "hunter2hunter2", false},
		{"length_mismatch", "hunter2", "hunter2hunter2", false},
		{"empty_presented", "", "hunter2hunter2", false},
		{"both_empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.equal, sec.SecretEqual(tt.presented, tt.configured))
		})
	}
}

func TestNewSessionID(t *testing.T) {
	first, err := sec.NewSessionID()
	require.NoError(t, err)
	second, err := sec.NewSessionID()
	require.NoError(t, err)

	assert.NotEmpty(t, first)
	assert.NotEqual(t, first, second)
}

func TestSessionState_Authenticated(t *testing.T) {
	assert.False(t, (&sec.SessionState{}).Authenticated())
	assert.False(t, (&sec.SessionState{UserID: "u1", PendingPasswordSet: true}).Authenticated())
	assert.True(t, (&sec.SessionState{UserID: "u1"}).Authenticated())

	var nilState *sec.SessionState
	assert.False(t, nilState.Authenticated())
}
