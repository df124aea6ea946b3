// Copyright (c) 2026 Handstand. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package sec groups the security primitives used across the platform.

It covers password hashing (bcrypt), one-time token generation and digesting,
the timing-safe shared-secret comparison for the provisioning gate, the
session state type, and the e-book access token signer.

All raw secrets (passwords, raw tokens, the provisioning secret) pass through
this package exactly once on their way in or out; nothing here logs or stores
a raw value.
*/
package sec

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHashCost is the bcrypt work factor for stored password hashes.
// 12 is deliberately above bcrypt.DefaultCost: these hashes guard long-lived
// accounts and registration volume is low.
const PasswordHashCost = 12

// HashPassword hashes a plain-text password using the bcrypt algorithm.
func HashPassword(plainTextPassword string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plainTextPassword), PasswordHashCost)
	if err != nil {
		return "", fmt.Errorf("sec: failed to hash password: %w", err)
	}
	return string(hashedBytes), nil
}

// CheckPasswordHash compares a plain-text password with its hashed version.
// bcrypt's comparison is constant-time.
func CheckPasswordHash(plainTextPassword, existingHash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(existingHash), []byte(plainTextPassword))
	return err == nil
}

// # One-Time Tokens

// GenerateToken returns a hex-encoded cryptographically random token of
// byteLength bytes (so 32 bytes = 256 bits of entropy).
func GenerateToken(byteLength int) (string, error) {
	raw := make([]byte, byteLength)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("sec: failed to generate token: %w", err)
	}
	return hex.EncodeToString(raw), nil
}

// DigestToken returns the hex-encoded SHA-256 digest of a raw token.
//
// Only the digest is ever persisted; a database leak therefore exposes no
// redeemable values. SHA-256 (not bcrypt) is deliberate — the input already
// has 256 bits of entropy, so a fast hash is safe and keeps lookups indexed.
func DigestToken(rawToken string) string {
	sum := sha256.Sum256([]byte(rawToken))
	return hex.EncodeToString(sum[:])
}

// # Shared-Secret Comparison

// SecretEqual reports whether the presented secret matches the configured one
// without leaking where a mismatch occurs.
//
// The length check happens before the content comparison on purpose:
// subtle.ConstantTimeCompare short-circuits on unequal lengths, which would
// otherwise turn length discovery into a timing channel of its own. Checking
// length explicitly first makes the structure of the comparison auditable.
func SecretEqual(presented, configured string) bool {
	if len(presented) != len(configured) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(presented), []byte(configured)) == 1
}
