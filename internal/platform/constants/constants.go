// Copyright (c) 2026 Handstand. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants provides centralized, immutable values for the entire platform.

It defines default timeouts, admission budgets, and cross-cutting keys that are
shared between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Admission Control: Per-route-group request budgets.
  - Security: Cookie configuration and Redis key taxonomy.

Using this package ensures Magic Strings and Magic Numbers are eliminated
from the business logic.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "handstand-api"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Admission Control
//
// Budgets guard the brute-force-sensitive surface. Login gets its own stricter
// group; the remaining sensitive endpoints (register, forgot/set/reset
// password, provisioning) share one budget. Requests above a budget are
// rejected with 429 before any store or token work happens.

const (
	// AdmissionWindow is the measurement window for all guarded route groups.
	AdmissionWindow = 15 * time.Minute

	// LoginBudget is the max requests per window per address on /auth/login.
	LoginBudget = 20

	// SensitiveBudget is the max requests per window per address on the other
	// guarded endpoints.
	SensitiveBudget = 30

	// AdmissionCleanupInterval is how often idle address entries are removed from memory.
	AdmissionCleanupInterval = 1 * time.Minute

	// AdmissionClientTTL is how long an address must be idle before its entry is deleted.
	AdmissionClientTTL = 2 * AdmissionWindow
)

// # Authentication

const (
	// SessionCookieName is the name of the cookie that stores the opaque session id.
	SessionCookieName = "handstand_session"

	// SessionCookiePath scopes the session cookie to the whole API.
	SessionCookiePath = "/"

	// EbookTokenIssuer is the 'iss' claim minted into e-book access tokens.
	EbookTokenIssuer = "handstand.app"
)

// # HTTP Headers

const (
	HeaderXRequestID     = "X-Request-ID"
	HeaderXRealIP        = "X-Real-IP"
	HeaderXForwardedFor  = "X-Forwarded-For"
	HeaderOrigin         = "Origin"
	HeaderProvisionToken = "X-Provision-Secret"
)

// # JSON Field Identifiers

const (
	FieldError   = "error"
	FieldCode    = "code"
	FieldDetails = "details"
	FieldStatus  = "status"
	FieldChecks  = "checks"
)

// # Redis Prefixes (Cache Taxonomy)

const (
	RedisPrefixSession = "auth:session:"
)
