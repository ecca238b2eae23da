// Copyright (c) 2026 Souqly. All rights reserved.

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (hashing, JWT signing) from
// the domain logic. It acts as an Infrastructure service injected into the
// application layer via small interfaces defined at the point of use.
package sec

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token lifetimes. Session tokens are deliberately long-lived; the
// passwordChangedAt comparison in the authenticate gate is what bounds their
// real usefulness after a credential change.
const (
	// SessionTokenTTL is how long a login-issued token remains valid.
	SessionTokenTTL = 90 * 24 * time.Hour

	// ResetTokenTTL bounds the password-reset flow end to end.
	ResetTokenTTL = 15 * time.Minute
)

// Token scopes. A reset token carries no authorization weight beyond the
// reset flow; the verifier surfaces the scope so gates can tell them apart.
const (
	ScopeSession = "session"
	ScopeReset   = "reset"
)

// TokenClaims is the verified payload of a Souqly token.
type TokenClaims struct {
	// UserID is the identity the token was issued for.
	UserID string

	// IssuedAt is the signing time, compared against passwordChangedAt to
	// invalidate tokens issued before a credential change.
	IssuedAt time.Time

	// ExpiresAt is the expiry time; the logout flow uses it to size the
	// revocation entry so the list never outlives the token.
	ExpiresAt time.Time

	// Scope is [ScopeSession] or [ScopeReset].
	Scope string
}

// signedClaims is the raw JWT payload.
//
// The custom claims are abbreviated to keep the token compact.
type signedClaims struct {
	jwt.RegisteredClaims

	UserID string `json:"uid"`
	Scope  string `json:"scope"`
}

// TokenService issues and verifies HS256-signed tokens.
//
// It holds no mutable state: a process-wide signing secret (read from
// configuration at startup and injected here, never ambient) plus the expiry
// configuration above.
type TokenService struct {
	secret []byte
	issuer string
}

// NewTokenService creates a TokenService signing with the given secret.
func NewTokenService(secret, issuer string) *TokenService {
	return &TokenService{secret: []byte(secret), issuer: issuer}
}

// IssueSessionToken signs a long-lived token binding the identity id and the
// issue time. Pure computation; no side effects.
func (service *TokenService) IssueSessionToken(userID string) (string, error) {
	return service.issue(userID, ScopeSession, SessionTokenTTL)
}

// IssueResetToken signs a short-lived token scoped to the password-reset flow.
func (service *TokenService) IssueResetToken(userID string) (string, error) {
	return service.issue(userID, ScopeReset, ResetTokenTTL)
}

func (service *TokenService) issue(userID, scope string, timeToLive time.Duration) (string, error) {
	currentTime := time.Now()
	claims := signedClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(timeToLive)),
		},
		UserID: userID,
		Scope:  scope,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(service.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, nil
}

// VerifyToken checks the signature and expiry of a token string.
//
// It fails on a bad signature, a non-HMAC signing method, or an expired
// token. Scope checking is left to the caller, since the session and reset
// paths accept different scopes.
func (service *TokenService) VerifyToken(tokenString string) (*TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &signedClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
		}
		return service.secret, nil
	})

	if err != nil {
		return nil, fmt.Errorf("sec: invalid token: %w", err)
	}

	claims, ok := token.Claims.(*signedClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("sec: invalid token claims")
	}

	return &TokenClaims{
		UserID:    claims.UserID,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
		Scope:     claims.Scope,
	}, nil
}
