// Copyright (c) 2026 Handstand. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package uuid_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/handstand/pkg/uuid"
)

func TestNew(t *testing.T) {
	first := uuid.New()
	second := uuid.New()

	require.Len(t, first, 36)
	assert.True(t, uuid.IsValid(first))
	assert.Equal(t, byte('7'), first[14], "version nibble")
	assert.NotEqual(t, first, second)
}

func TestIsValid(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "canonical", input: "0191d2a8-5f3c-7d8e-9a1b-2c3d4e5f6a7b", want: true},
		{name: "empty", input: "", want: false},
		{name: "garbage", input: "not-a-uuid", want: false},
		{name: "truncated", input: "0191d2a8-5f3c-7d8e-9a1b", want: false},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, uuid.IsValid(tt.input))
		})
	}
}
