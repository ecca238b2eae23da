// Copyright (c) 2026 Souqly. All rights reserved.

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/souqly/backend/internal/platform/apperr"
	"github.com/souqly/backend/internal/platform/mail"
	"github.com/souqly/backend/internal/platform/sec"
	"github.com/souqly/backend/pkg/uuid"
)

// # Contracts & Types

// TokenIssuer defines the token operations the credential flows need.
// Satisfied by [sec.TokenService].
type TokenIssuer interface {
	IssueSessionToken(userID string) (string, error)
	IssueResetToken(userID string) (string, error)
	VerifyToken(tokenString string) (*sec.TokenClaims, error)
}

// Service implements the credential use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, recovery,
// or login logic must be reviewed carefully.
type Service struct {
	users       UserStore
	revocations RevocationStore
	tokens      TokenIssuer
	mailer      mail.Mailer
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(users UserStore, revocations RevocationStore, tokens TokenIssuer, mailer mail.Mailer) *Service {
	return &Service{
		users:       users,
		revocations: revocations,
		tokens:      tokens,
		mailer:      mailer,
	}
}

// # Registration Flow

// SignupInput holds the data required to enroll a new customer.
type SignupInput struct {
	Name     string
	Email    string
	Password string
}

/*
Signup validates, hashes, and persists a brand new account, then issues its
first session token.

Description: New accounts always start as active customers; privileged roles
are only ever granted by an existing admin.

Parameters:
  - context: context.Context
  - input: SignupInput

Returns:
  - *Identity: Created entity
  - string: Signed session token
  - error: Conflict (if the email exists) or storage errors
*/
func (service *Service) Signup(context context.Context, input SignupInput) (*Identity, string, error) {

	// Verify email uniqueness up front for a client-safe Conflict. The
	// unique index on users.account(email) still backstops races.
	if _, err := service.users.FindByEmail(context, input.Email); err == nil {
		return nil, "", apperr.Conflict("Email is already registered")
	}

	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, "", fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	// Time-sortable ID to prevent PG index fragmentation.
	identity := &Identity{
		ID:           uuid.New(),
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hashedPassword,
		Role:         sec.RoleUser,
		Active:       true,
	}

	if err := service.users.Create(context, identity); err != nil {
		return nil, "", fmt.Errorf("auth_service_signup_failed: %w", err)
	}

	token, err := service.tokens.IssueSessionToken(identity.ID)
	if err != nil {
		return nil, "", fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	return identity, token, nil
}

// # Authentication Flow

/*
Login validates credentials and issues a session token.

Description: Performs constant-time password comparison via bcrypt. The
failure message never distinguishes an unknown email from a wrong password,
to prevent account enumeration.

Parameters:
  - context: context.Context
  - email: string
  - password: string

Returns:
  - *Identity: Authenticated entity
  - string: Signed session token
  - error: Unauthorized or internal failures
*/
func (service *Service) Login(context context.Context, email, password string) (*Identity, string, error) {
	identity, err := service.users.FindByEmail(context, email)
	if err != nil {
		return nil, "", apperr.Unauthorized("Incorrect email or password")
	}

	if !sec.CheckPasswordHash(password, identity.PasswordHash) {
		return nil, "", apperr.Unauthorized("Incorrect email or password")
	}

	token, err := service.tokens.IssueSessionToken(identity.ID)
	if err != nil {
		return nil, "", fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	return identity, token, nil
}

/*
Logout places the presented session token on the revocation list.

Description: The entry lives exactly as long as the token would have, so the
list self-prunes. An already invalid token is a successful logout
(idempotent operation).

Parameters:
  - context: context.Context
  - token: string

Returns:
  - error: Revocation failures
*/
func (service *Service) Logout(context context.Context, token string) error {
	claims, err := service.tokens.VerifyToken(token)
	if err != nil {
		return nil
	}

	remaining := time.Until(claims.ExpiresAt)
	if err := service.revocations.Revoke(context, sec.HashToken(token), remaining); err != nil {
		return fmt.Errorf("auth_service_logout_failed: %w", err)
	}

	return nil
}

// # Password Recovery

/*
ForgotPassword starts the three-step recovery flow.

Description: Generates a 6-digit code, mails it, and only then persists its
hash with a short expiry. Ordering matters: if the mail cannot be delivered
nothing is persisted, so no orphaned code can ever be redeemed.

The returned reset token carries the reset scope only; it authenticates the
subsequent verify and reset calls but grants no session access.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - string: Signed reset token
  - error: NotFound, mail delivery, or storage failures
*/
func (service *Service) ForgotPassword(context context.Context, email string) (string, error) {
	identity, err := service.users.FindByEmail(context, email)
	if err != nil {
		return "", apperr.NotFound("account")
	}

	code, err := sec.GenerateResetCode()
	if err != nil {
		return "", fmt.Errorf("auth_service_generate_reset_code_failed: %w", err)
	}

	// ── 1. Deliver ────────────────────────────────────────────────────────
	message := mail.Message{
		To:      identity.Email,
		Subject: ResetMailSubject,
		Body: fmt.Sprintf("Hi %s,\nWe received a request to reset your password.\nYour reset code: %s\nThe code is valid for 10 minutes.",
			identity.Name, code),
	}
	if err := service.mailer.Send(context, message); err != nil {
		return "", apperr.BadRequest("Error sending email")
	}

	// ── 2. Persist ────────────────────────────────────────────────────────
	expiresAt := time.Now().Add(ResetCodeTTL)
	if err := service.users.SetResetCode(context, identity.ID, sec.HashResetCode(code), expiresAt); err != nil {
		return "", fmt.Errorf("auth_service_save_reset_code_failed: %w", err)
	}

	// ── 3. Bind the flow to a reset-scoped token ──────────────────────────
	token, err := service.tokens.IssueResetToken(identity.ID)
	if err != nil {
		return "", fmt.Errorf("auth_service_reset_token_failed: %w", err)
	}

	return token, nil
}

/*
VerifyResetCode redeems the emailed code, unlocking the final reset step.

Parameters:
  - context: context.Context
  - resetToken: string
  - code: string

Returns:
  - error: Unauthorized (bad token), BadRequest (wrong or expired code), or
    storage failures
*/
func (service *Service) VerifyResetCode(context context.Context, resetToken, code string) error {
	identity, err := service.resolveResetIdentity(context, resetToken)
	if err != nil {
		return err
	}

	if identity.ResetCodeHash == "" || identity.ResetCodeExpiresAt == nil {
		return apperr.BadRequest("Reset code invalid or expired")
	}

	if time.Now().After(*identity.ResetCodeExpiresAt) {
		return apperr.BadRequest("Reset code invalid or expired")
	}

	if sec.HashResetCode(code) != identity.ResetCodeHash {
		return apperr.BadRequest("Reset code invalid or expired")
	}

	if err := service.users.MarkResetCodeVerified(context, identity.ID); err != nil {
		return fmt.Errorf("auth_service_verify_reset_code_failed: %w", err)
	}

	return nil
}

/*
ResetPassword completes the recovery flow.

Description: Requires a previously verified code. The password overwrite
clears the recovery state and stamps passwordchangedat, so every session
token issued before this moment stops verifying. A fresh session token is
issued so the customer is not forced through login again.

Parameters:
  - context: context.Context
  - resetToken: string
  - newPassword: string

Returns:
  - string: Signed session token
  - error: Unauthorized (bad token or unverified code) or storage failures
*/
func (service *Service) ResetPassword(context context.Context, resetToken, newPassword string) (string, error) {
	identity, err := service.resolveResetIdentity(context, resetToken)
	if err != nil {
		return "", err
	}

	if !identity.ResetCodeVerified {
		return "", apperr.Unauthorized("Reset code not verified")
	}

	hashedPassword, err := sec.HashPassword(newPassword)
	if err != nil {
		return "", fmt.Errorf("auth_service_reset_password_hash_failed: %w", err)
	}

	if err := service.users.UpdatePassword(context, identity.ID, hashedPassword); err != nil {
		return "", fmt.Errorf("auth_service_reset_password_update_failed: %w", err)
	}

	token, err := service.tokens.IssueSessionToken(identity.ID)
	if err != nil {
		return "", fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	return token, nil
}

/*
ChangePassword lets an authenticated customer rotate their credentials.

Description: Verifies the current password first. The overwrite stamps
passwordchangedat, invalidating all existing sessions; the returned token is
the only one that survives.

Parameters:
  - context: context.Context
  - userID: string
  - currentPassword: string
  - newPassword: string

Returns:
  - string: Signed session token
  - error: Unauthorized or storage failures
*/
func (service *Service) ChangePassword(context context.Context, userID, currentPassword, newPassword string) (string, error) {
	identity, err := service.users.FindByID(context, userID)
	if err != nil {
		return "", err
	}

	if !sec.CheckPasswordHash(currentPassword, identity.PasswordHash) {
		return "", apperr.Unauthorized("Current password is incorrect")
	}

	hashedPassword, err := sec.HashPassword(newPassword)
	if err != nil {
		return "", fmt.Errorf("auth_service_change_password_hash_failed: %w", err)
	}

	if err := service.users.UpdatePassword(context, userID, hashedPassword); err != nil {
		return "", fmt.Errorf("auth_service_change_password_update_failed: %w", err)
	}

	token, err := service.tokens.IssueSessionToken(userID)
	if err != nil {
		return "", fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	return token, nil
}

// ResolveIdentity loads the request-scoped identity view for the
// authenticate gate. It satisfies [middleware.IdentityResolver].
func (service *Service) ResolveIdentity(context context.Context, id string) (*sec.AuthUser, error) {
	identity, err := service.users.FindByID(context, id)
	if err != nil {
		return nil, err
	}
	return identity.AuthUser(), nil
}

// resolveResetIdentity verifies a reset-scoped token and loads its identity.
func (service *Service) resolveResetIdentity(context context.Context, resetToken string) (*Identity, error) {
	claims, err := service.tokens.VerifyToken(resetToken)
	if err != nil || claims.Scope != sec.ScopeReset {
		return nil, apperr.Unauthorized("Invalid or expired reset token")
	}

	identity, err := service.users.FindByID(context, claims.UserID)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid or expired reset token")
	}

	return identity, nil
}
