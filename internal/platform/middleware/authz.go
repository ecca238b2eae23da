// Copyright (c) 2026 Souqly. All rights reserved.

package middleware

import (
	"context"
	"net/http"

	"github.com/souqly/backend/internal/platform/apperr"
	"github.com/souqly/backend/internal/platform/ctxutil"
	requestutil "github.com/souqly/backend/internal/platform/request"
	"github.com/souqly/backend/internal/platform/respond"
	"github.com/souqly/backend/internal/platform/sec"
)

// # Gate Contracts
//
// The gates depend on three narrow interfaces instead of concrete services,
// so unit tests can inject trivial fakes.

// TokenVerifier checks a token's signature and expiry.
type TokenVerifier interface {
	VerifyToken(tokenString string) (*sec.TokenClaims, error)
}

// IdentityResolver loads the current identity for a verified token.
//
// The authenticate gate resolves the identity on every request rather than
// trusting claims baked into the token: the active flag, the role, and
// passwordChangedAt must all reflect the present state of the account.
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, id string) (*sec.AuthUser, error)
}

// RevocationChecker consults the session revocation list.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, tokenHash string) (bool, error)
}

// Authenticate is the first gate of the access-control chain.
//
// # Flow
//  1. Extract the bearer token from the Authorization header; absent → 401.
//  2. Verify signature/expiry via [TokenVerifier]; invalid → 401.
//  3. Reject non-session scopes and revoked tokens → 401.
//  4. Resolve the identity by id; missing → 401.
//  5. Compare the token's issuedAt with the identity's passwordChangedAt:
//     a token issued before the latest password change is stale → 401.
//     This invalidates all pre-change tokens without a revocation list.
//  6. Attach the resolved [*sec.AuthUser] to the request context.
func Authenticate(verifier TokenVerifier, identities IdentityResolver, revoked RevocationChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			// ── 1. Header extraction ──────────────────────────────────────────
			token := requestutil.BearerToken(request)
			if token == "" {
				respond.Error(writer, request, apperr.Unauthorized("Please log in to access the application"))
				return
			}

			// ── 2. Signature & expiry ─────────────────────────────────────────
			claims, err := verifier.VerifyToken(token)
			if err != nil {
				respond.Error(writer, request, apperr.Unauthorized("Invalid or expired token"))
				return
			}

			// ── 3. Scope & revocation ─────────────────────────────────────────
			if claims.Scope != sec.ScopeSession {
				respond.Error(writer, request, apperr.Unauthorized("Invalid or expired token"))
				return
			}

			if isRevoked, err := revoked.IsRevoked(request.Context(), sec.HashToken(token)); err != nil || isRevoked {
				respond.Error(writer, request, apperr.Unauthorized("Invalid or expired token"))
				return
			}

			// ── 4. Identity resolution ────────────────────────────────────────
			user, err := identities.ResolveIdentity(request.Context(), claims.UserID)
			if err != nil || user == nil {
				respond.Error(writer, request, apperr.Unauthorized("User doesn't exist"))
				return
			}

			// ── 5. Staleness after password change ────────────────────────────
			// JWT iat has second precision; compare at that granularity so a
			// change within the issuing second still invalidates the token.
			if user.PasswordChangedAt != nil && user.PasswordChangedAt.Unix() > claims.IssuedAt.Unix() {
				respond.Error(writer, request, apperr.Unauthorized("Please log in again"))
				return
			}

			// ── 6. Context injection ──────────────────────────────────────────
			ctx := ctxutil.WithAuthUser(request.Context(), user)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// CheckActive blocks deactivated accounts.
//
// # Usage
//
// Must be registered AFTER [Authenticate]. An inactive account fails with
// 403 Forbidden — deliberately distinct from the 401 of a bad token, since
// the caller proved who they are but is no longer allowed in.
func CheckActive(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		user := ctxutil.GetAuthUser(request.Context())
		if user == nil {
			respond.Error(writer, request, apperr.Unauthorized("Please log in to access the application"))
			return
		}

		if !user.Active {
			respond.Error(writer, request, apperr.Forbidden("Your account is not active"))
			return
		}

		next.ServeHTTP(writer, request)
	})
}

// AllowedTo blocks identities whose role is outside the allow-list.
//
// # Usage
//
// Must be registered AFTER [Authenticate]. Parametrized per route; the role
// decision itself is the pure predicate [sec.Role.In].
func AllowedTo(roles ...sec.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			user := ctxutil.GetAuthUser(request.Context())
			if user == nil {
				respond.Error(writer, request, apperr.Unauthorized("Please log in to access the application"))
				return
			}

			if !user.Role.In(roles...) {
				respond.Error(writer, request, apperr.Forbidden("Access denied"))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// # Route Guard

// Guard bundles the dependencies of the access-control gates so route
// registrations can compose them without re-threading three services.
type Guard struct {
	Verifier   TokenVerifier
	Identities IdentityResolver
	Revoked    RevocationChecker
}

// Protect returns the gate chain for an authenticated, active account.
func (g *Guard) Protect() []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		Authenticate(g.Verifier, g.Identities, g.Revoked),
		CheckActive,
	}
}

// ProtectRoles returns the gate chain for an authenticated, active account
// holding one of the given roles.
func (g *Guard) ProtectRoles(roles ...sec.Role) []func(http.Handler) http.Handler {
	return append(g.Protect(), AllowedTo(roles...))
}
