// Copyright (c) 2026 Handstand. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements the credential and session lifecycle layer.

It defines the core domain entities (User, PasswordToken) and logic for
authentication, one-time token issuance, session state transitions, and
account provisioning.

# Architecture

This layer is the "Truth" of the system. Entities defined here have no external
dependencies and encapsulate all business rules related to user identity.
*/
package auth

import "time"

// # Domain Entities

// User represents a registered member of the Handstand program.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"` // Stored lowercase; canonicalized at the boundary.
	PasswordHash string    `json:"-"`     // Explicitly omitted from JSON for security.
	DisplayName  string    `json:"display_name"`
	CurrentLevel int       `json:"current_level"`
	Theme        string    `json:"theme"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// # Field Identifiers

// Global field names for validation and identity mapping in the authentication domain.
const (
	FieldEmail             = "email"
	FieldPassword          = "password"
	FieldConfirmPassword   = "confirm_password"
	FieldDisplayName       = "display_name"
	FieldToken             = "token"
	FieldCurrentPassword   = "current_password"
	FieldNewPassword       = "new_password"
	FieldTemporaryPassword = "temporaryPassword"
	FieldTheme             = "theme"
	FieldLevel             = "level"
	FieldUser              = "user"
)
