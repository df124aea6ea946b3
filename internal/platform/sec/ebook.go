// Copyright (c) 2026 Handstand. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// EbookClaims is the payload embedded inside an e-book access token.
//
// # Why a signed token?
//
// The training e-book is served by an embedded third-party viewer that cannot
// share the session cookie. A short-lived signed token lets the viewer prove
// session presence without the API exposing the session id itself.
type EbookClaims struct {
	jwt.RegisteredClaims

	// UserID is abbreviated to keep the token payload small.
	UserID string `json:"uid"`
}

// EbookTokenService mints and verifies HS256 e-book access tokens.
//
// The signing key is derived from the session secret, so no extra key material
// needs to be provisioned for this surface.
type EbookTokenService struct {
	signingKey []byte
	issuer     string
	timeToLive time.Duration
}

// NewEbookTokenService creates a new [EbookTokenService].
func NewEbookTokenService(secret, issuer string, timeToLive time.Duration) *EbookTokenService {
	return &EbookTokenService{
		signingKey: []byte(secret),
		issuer:     issuer,
		timeToLive: timeToLive,
	}
}

// Generate creates a new signed e-book token for a user.
func (service *EbookTokenService) Generate(userID string) (string, error) {
	currentTime := time.Now()
	claims := EbookClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(service.timeToLive)),
		},
		UserID: userID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(service.signingKey)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign ebook token: %w", err)
	}

	return signedToken, nil
}

// Verify checks the signature and validity of an e-book token string.
func (service *EbookTokenService) Verify(tokenString string) (*EbookClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &EbookClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
		}
		return service.signingKey, nil
	})

	if err != nil {
		return nil, fmt.Errorf("sec: invalid ebook token: %w", err)
	}

	claims, ok := token.Claims.(*EbookClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("sec: invalid ebook token claims")
	}

	return claims, nil
}
