// Copyright (c) 2026 Handstand. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pointer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/handstand/pkg/pointer"
)

func TestTo(t *testing.T) {
	p := pointer.To("dark")
	assert.NotNil(t, p)
	assert.Equal(t, "dark", *p)
}

func TestFallback(t *testing.T) {
	assert.Equal(t, "light", pointer.Fallback(nil, "light"))
	assert.Equal(t, "dark", pointer.Fallback(pointer.To("dark"), "light"))

	// Present-but-zero values win over the fallback.
	assert.Equal(t, 0, pointer.Fallback(pointer.To(0), 42))
}
