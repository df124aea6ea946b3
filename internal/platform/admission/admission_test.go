// Copyright (c) 2026 Handstand. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package admission_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/handstand/internal/platform/admission"
	"github.com/taibuivan/handstand/internal/platform/constants"
)

/*
TestMemoryLimiter_LoginBudget verifies that the full login budget is admitted
and the next request over budget is rejected with a retry hint.
*/
func TestMemoryLimiter_LoginBudget(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	limiter := admission.NewMemoryLimiter(ctx)

	for i := 0; i < constants.LoginBudget; i++ {
		decision := limiter.Allow(admission.GroupLogin, "10.0.0.1")
		require.True(t, decision.Allowed, "request %d should be within budget", i+1)
	}

	decision := limiter.Allow(admission.GroupLogin, "10.0.0.1")
	assert.False(t, decision.Allowed)
	assert.Equal(t, constants.LoginBudget, decision.Limit)
	assert.Greater(t, decision.RetryAfter.Seconds(), 0.0)
}

/*
TestMemoryLimiter_AddressIsolation verifies that exhausting one address does
not affect another.
*/
func TestMemoryLimiter_AddressIsolation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	limiter := admission.NewMemoryLimiter(ctx)

	for i := 0; i < constants.LoginBudget+5; i++ {
		limiter.Allow(admission.GroupLogin, "10.0.0.1")
	}

	decision := limiter.Allow(admission.GroupLogin, "10.0.0.2")
	assert.True(t, decision.Allowed)
}

/*
TestMemoryLimiter_GroupIsolation verifies that the login and sensitive groups
keep independent budgets for the same address.
*/
func TestMemoryLimiter_GroupIsolation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	limiter := admission.NewMemoryLimiter(ctx)

	for i := 0; i < constants.LoginBudget+5; i++ {
		limiter.Allow(admission.GroupLogin, "10.0.0.1")
	}

	decision := limiter.Allow(admission.GroupSensitive, "10.0.0.1")
	assert.True(t, decision.Allowed)
	assert.Equal(t, constants.SensitiveBudget, decision.Limit)
}

/*
TestMemoryLimiter_UnknownGroup verifies that an unregistered group fails open.
*/
func TestMemoryLimiter_UnknownGroup(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	limiter := admission.NewMemoryLimiter(ctx)

	decision := limiter.Allow("no-such-group", "10.0.0.1")
	assert.True(t, decision.Allowed)
	assert.Zero(t, decision.Limit)
}
