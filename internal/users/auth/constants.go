// Copyright (c) 2026 Handstand. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import "time"

// # Authentication Constraints

const (
	// SessionTTL is the duration a session remains valid without activity.
	// Sliding: every session load refreshes the full window, so only 30
	// days of complete inactivity logs a member out.
	SessionTTL = 30 * 24 * time.Hour

	// ResetTokenTTL is the duration a password reset token remains valid.
	// Short-lived (1 hour) for security.
	ResetTokenTTL = 1 * time.Hour

	// SetPasswordTokenTTL is the duration a provisioning set-password token
	// remains valid. Long-lived (7 days) because the link travels by email
	// during onboarding and recipients are slow.
	SetPasswordTokenTTL = 7 * 24 * time.Hour

	// PasswordTokenLength is the byte length of the random one-time token.
	// 32 bytes = 256 bits of entropy, hex-encoded on the wire.
	PasswordTokenLength = 32

	// MinPasswordLength is the minimum accepted password length.
	MinPasswordLength = 6

	// MaxDisplayNameLength bounds the display name field.
	MaxDisplayNameLength = 100

	// MinLevel and MaxLevel bound the training program levels.
	MinLevel = 1
	MaxLevel = 6
)

// # Settings Allow-List

// Themes accepted by the settings endpoint. Anything else is rejected.
var AllowedThemes = []string{"system", "light", "dark"}
