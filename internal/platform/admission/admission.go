// Copyright (c) 2026 Handstand. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package admission throttles brute-force-sensitive endpoints per client address.

Each guarded route group carries its own budget over a fixed window:

  - login: the strictest budget, applied only to credential verification.
  - sensitive: a shared budget for register, forgot/reset/set password and
    provisioning.

Budgets are enforced with a token bucket per (group, address) pair sized so a
full bucket equals the window budget. A burst of budget-many requests is
admitted immediately and the bucket refills at budget-per-window, which bounds
any window of the configured length to at most twice the budget and cold
windows to exactly the budget. Decisions are made before any credential or
token work happens, so a flooded address costs no bcrypt time and no store
round trips.

The [Limiter] interface keeps handlers decoupled from this in-process
implementation; a shared-store variant can be swapped in behind it for
multi-replica deployments.
*/
package admission

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/taibuivan/handstand/internal/platform/constants"
)

// Route groups guarded by admission control.
const (
	GroupLogin     = "login"
	GroupSensitive = "sensitive"
)

// Decision is the outcome of an admission check.
type Decision struct {
	// Allowed reports whether the request may proceed.
	Allowed bool
	// Limit is the group's budget, for X-RateLimit-Limit.
	Limit int
	// Window is the budget window, for X-RateLimit-Window.
	Window time.Duration
	// RetryAfter is how long the client should wait before retrying.
	// Zero when Allowed.
	RetryAfter time.Duration
}

// Limiter decides whether a request from an address may enter a route group.
type Limiter interface {
	Allow(group, address string) Decision
}

// profile holds the budget configuration for one route group.
type profile struct {
	budget int
	window time.Duration
}

// defaultProfiles maps each guarded group to its budget.
var defaultProfiles = map[string]profile{
	GroupLogin:     {budget: constants.LoginBudget, window: constants.AdmissionWindow},
	GroupSensitive: {budget: constants.SensitiveBudget, window: constants.AdmissionWindow},
}

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// MemoryLimiter is the in-process [Limiter] backed by token buckets.
//
// Buckets are keyed by group and address, and idle entries are evicted by a
// background routine so a long-running server does not accumulate one entry
// per address it has ever seen.
type MemoryLimiter struct {
	mu       sync.Mutex
	profiles map[string]profile
	clients  map[string]*client
}

/*
NewMemoryLimiter creates a MemoryLimiter with the default group budgets and
starts its idle-entry cleanup routine.

Parameters:
  - ctx: the application lifetime; cleanup stops when it is cancelled.

Returns:
  - *MemoryLimiter: the ready limiter.
*/
func NewMemoryLimiter(ctx context.Context) *MemoryLimiter {
	limiter := &MemoryLimiter{
		profiles: defaultProfiles,
		clients:  make(map[string]*client),
	}

	go limiter.cleanupLoop(ctx)

	return limiter
}

// Allow implements [Limiter]. Unknown groups are admitted unconditionally so
// a route wiring mistake fails open on availability rather than closed.
func (m *MemoryLimiter) Allow(group, address string) Decision {
	prof, ok := m.profiles[group]
	if !ok {
		return Decision{Allowed: true}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	key := group + ":" + address
	entry, found := m.clients[key]
	if !found {
		// Refill at budget-per-window with a full bucket to start.
		perSecond := float64(prof.budget) / prof.window.Seconds()
		entry = &client{limiter: rate.NewLimiter(rate.Limit(perSecond), prof.budget)}
		m.clients[key] = entry
	}
	entry.lastSeen = time.Now()

	reservation := entry.limiter.Reserve()
	delay := reservation.Delay()
	if delay > 0 {
		// Over budget: give the tokens back and tell the client when one frees up.
		reservation.Cancel()
		return Decision{
			Allowed:    false,
			Limit:      prof.budget,
			Window:     prof.window,
			RetryAfter: delay,
		}
	}

	return Decision{Allowed: true, Limit: prof.budget, Window: prof.window}
}

// cleanupLoop evicts entries whose address has been idle longer than the
// client TTL.
func (m *MemoryLimiter) cleanupLoop(ctx context.Context) {
	ticker := time.NewTicker(constants.AdmissionCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.mu.Lock()
			for key, entry := range m.clients {
				if time.Since(entry.lastSeen) > constants.AdmissionClientTTL {
					delete(m.clients, key)
				}
			}
			m.mu.Unlock()
		case <-ctx.Done():
			return
		}
	}
}
