// Copyright (c) 2026 Souqly. All rights reserved.

package auth

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/souqly/backend/internal/platform/apperr"
	"github.com/souqly/backend/internal/platform/mail"
	"github.com/souqly/backend/internal/platform/sec"
)

// # Fakes

type memoryUserStore struct {
	byID map[string]*Identity
}

func newMemoryUserStore(identities ...*Identity) *memoryUserStore {
	store := &memoryUserStore{byID: make(map[string]*Identity)}
	for _, identity := range identities {
		store.byID[identity.ID] = identity
	}
	return store
}

func (store *memoryUserStore) FindByID(_ context.Context, id string) (*Identity, error) {
	if identity, ok := store.byID[id]; ok {
		return identity, nil
	}
	return nil, apperr.NotFound("account")
}

func (store *memoryUserStore) FindByEmail(_ context.Context, email string) (*Identity, error) {
	for _, identity := range store.byID {
		if identity.Email == email {
			return identity, nil
		}
	}
	return nil, apperr.NotFound("account")
}

func (store *memoryUserStore) Create(_ context.Context, identity *Identity) error {
	store.byID[identity.ID] = identity
	return nil
}

func (store *memoryUserStore) SetResetCode(_ context.Context, userID, codeHash string, expiresAt time.Time) error {
	identity := store.byID[userID]
	identity.ResetCodeHash = codeHash
	identity.ResetCodeExpiresAt = &expiresAt
	identity.ResetCodeVerified = false
	return nil
}

func (store *memoryUserStore) MarkResetCodeVerified(_ context.Context, userID string) error {
	store.byID[userID].ResetCodeVerified = true
	return nil
}

func (store *memoryUserStore) UpdatePassword(_ context.Context, userID, passwordHash string) error {
	identity := store.byID[userID]
	now := time.Now()
	identity.PasswordHash = passwordHash
	identity.PasswordChangedAt = &now
	identity.ResetCodeHash = ""
	identity.ResetCodeExpiresAt = nil
	identity.ResetCodeVerified = false
	return nil
}

type memoryRevocations struct {
	revoked map[string]time.Duration
}

func newMemoryRevocations() *memoryRevocations {
	return &memoryRevocations{revoked: make(map[string]time.Duration)}
}

func (store *memoryRevocations) Revoke(_ context.Context, tokenHash string, timeToLive time.Duration) error {
	store.revoked[tokenHash] = timeToLive
	return nil
}

func (store *memoryRevocations) IsRevoked(_ context.Context, tokenHash string) (bool, error) {
	_, ok := store.revoked[tokenHash]
	return ok, nil
}

type recordingMailer struct {
	sent []mail.Message
	fail bool
}

func (mailer *recordingMailer) Send(_ context.Context, message mail.Message) error {
	if mailer.fail {
		return assert.AnError
	}
	mailer.sent = append(mailer.sent, message)
	return nil
}

// # Fixtures

func testIdentity(t *testing.T, password string) *Identity {
	t.Helper()
	hash, err := sec.HashPassword(password)
	require.NoError(t, err)
	return &Identity{
		ID:           "user-1",
		Name:         "Amina",
		Email:        "amina@example.com",
		PasswordHash: hash,
		Role:         sec.RoleUser,
		Active:       true,
	}
}

func newTestService(users UserStore, revocations RevocationStore, mailer mail.Mailer) *Service {
	tokens := sec.NewTokenService("test-secret-key", "souqly.app")
	return NewService(users, revocations, tokens, mailer)
}

// # Signup

func TestService_Signup(t *testing.T) {
	t.Run("creates an active customer and opens a session", func(t *testing.T) {
		users := newMemoryUserStore()
		service := newTestService(users, newMemoryRevocations(), &recordingMailer{})

		identity, token, err := service.Signup(context.Background(), SignupInput{
			Name:     "Amina",
			Email:    "amina@example.com",
			Password: "correct horse",
		})

		require.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Equal(t, sec.RoleUser, identity.Role)
		assert.True(t, identity.Active)
		assert.NotEqual(t, "correct horse", identity.PasswordHash)
		assert.True(t, sec.CheckPasswordHash("correct horse", identity.PasswordHash))
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		users := newMemoryUserStore(testIdentity(t, "secret-pass"))
		service := newTestService(users, newMemoryRevocations(), &recordingMailer{})

		_, _, err := service.Signup(context.Background(), SignupInput{
			Name:     "Impostor",
			Email:    "amina@example.com",
			Password: "another-pass",
		})

		require.Error(t, err)
		assert.Equal(t, http.StatusConflict, apperr.As(err).HTTPStatus)
	})
}

// # Login

func TestService_Login(t *testing.T) {
	users := newMemoryUserStore(testIdentity(t, "secret-pass"))
	service := newTestService(users, newMemoryRevocations(), &recordingMailer{})

	t.Run("unknown email", func(t *testing.T) {
		_, _, err := service.Login(context.Background(), "ghost@example.com", "secret-pass")
		require.Error(t, err)
		assert.Equal(t, http.StatusUnauthorized, apperr.As(err).HTTPStatus)
	})

	t.Run("wrong password gets the same message as unknown email", func(t *testing.T) {
		_, _, err := service.Login(context.Background(), "amina@example.com", "wrong-pass")
		require.Error(t, err)

		_, _, unknownErr := service.Login(context.Background(), "ghost@example.com", "secret-pass")
		assert.Equal(t, apperr.As(unknownErr).Message, apperr.As(err).Message)
	})

	t.Run("valid credentials open a session", func(t *testing.T) {
		identity, token, err := service.Login(context.Background(), "amina@example.com", "secret-pass")
		require.NoError(t, err)
		assert.Equal(t, "user-1", identity.ID)
		assert.NotEmpty(t, token)
	})
}

// # Logout

func TestService_Logout(t *testing.T) {
	users := newMemoryUserStore(testIdentity(t, "secret-pass"))
	revocations := newMemoryRevocations()
	service := newTestService(users, revocations, &recordingMailer{})

	t.Run("revokes the presented token", func(t *testing.T) {
		_, token, err := service.Login(context.Background(), "amina@example.com", "secret-pass")
		require.NoError(t, err)

		require.NoError(t, service.Logout(context.Background(), token))

		revoked, err := revocations.IsRevoked(context.Background(), sec.HashToken(token))
		require.NoError(t, err)
		assert.True(t, revoked)
	})

	t.Run("invalid token logs out without error", func(t *testing.T) {
		assert.NoError(t, service.Logout(context.Background(), "not-a-token"))
	})
}

// # Password Recovery

func TestService_ForgotPassword(t *testing.T) {
	t.Run("mails the code then persists only its hash", func(t *testing.T) {
		identity := testIdentity(t, "secret-pass")
		users := newMemoryUserStore(identity)
		mailer := &recordingMailer{}
		service := newTestService(users, newMemoryRevocations(), mailer)

		resetToken, err := service.ForgotPassword(context.Background(), "amina@example.com")
		require.NoError(t, err)
		assert.NotEmpty(t, resetToken)

		require.Len(t, mailer.sent, 1)
		assert.Equal(t, "amina@example.com", mailer.sent[0].To)

		assert.NotEmpty(t, identity.ResetCodeHash)
		assert.NotContains(t, mailer.sent[0].Body, identity.ResetCodeHash)
		require.NotNil(t, identity.ResetCodeExpiresAt)
		assert.False(t, identity.ResetCodeVerified)
	})

	t.Run("mail failure persists nothing", func(t *testing.T) {
		identity := testIdentity(t, "secret-pass")
		users := newMemoryUserStore(identity)
		service := newTestService(users, newMemoryRevocations(), &recordingMailer{fail: true})

		_, err := service.ForgotPassword(context.Background(), "amina@example.com")
		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, apperr.As(err).HTTPStatus)
		assert.Empty(t, identity.ResetCodeHash)
	})

	t.Run("unknown email", func(t *testing.T) {
		service := newTestService(newMemoryUserStore(), newMemoryRevocations(), &recordingMailer{})

		_, err := service.ForgotPassword(context.Background(), "ghost@example.com")
		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, apperr.As(err).HTTPStatus)
	})
}

func TestService_VerifyResetCode(t *testing.T) {
	setup := func(t *testing.T) (*Service, *Identity, string, string) {
		t.Helper()
		identity := testIdentity(t, "secret-pass")
		users := newMemoryUserStore(identity)
		service := newTestService(users, newMemoryRevocations(), &recordingMailer{})

		code := "123456"
		expiresAt := time.Now().Add(ResetCodeTTL)
		require.NoError(t, users.SetResetCode(context.Background(), identity.ID, sec.HashResetCode(code), expiresAt))

		tokens := sec.NewTokenService("test-secret-key", "souqly.app")
		resetToken, err := tokens.IssueResetToken(identity.ID)
		require.NoError(t, err)

		return service, identity, resetToken, code
	}

	t.Run("correct code marks the flow verified", func(t *testing.T) {
		service, identity, resetToken, code := setup(t)

		require.NoError(t, service.VerifyResetCode(context.Background(), resetToken, code))
		assert.True(t, identity.ResetCodeVerified)
	})

	t.Run("wrong code", func(t *testing.T) {
		service, identity, resetToken, _ := setup(t)

		err := service.VerifyResetCode(context.Background(), resetToken, "000000")
		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, apperr.As(err).HTTPStatus)
		assert.False(t, identity.ResetCodeVerified)
	})

	t.Run("expired code", func(t *testing.T) {
		service, identity, resetToken, code := setup(t)
		expired := time.Now().Add(-time.Minute)
		identity.ResetCodeExpiresAt = &expired

		err := service.VerifyResetCode(context.Background(), resetToken, code)
		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, apperr.As(err).HTTPStatus)
	})

	t.Run("session token cannot drive the reset flow", func(t *testing.T) {
		service, identity, _, code := setup(t)
		tokens := sec.NewTokenService("test-secret-key", "souqly.app")
		sessionToken, err := tokens.IssueSessionToken(identity.ID)
		require.NoError(t, err)

		err = service.VerifyResetCode(context.Background(), sessionToken, code)
		require.Error(t, err)
		assert.Equal(t, http.StatusUnauthorized, apperr.As(err).HTTPStatus)
	})
}

func TestService_ResetPassword(t *testing.T) {
	setup := func(t *testing.T, verified bool) (*Service, *Identity, string) {
		t.Helper()
		identity := testIdentity(t, "old-pass")
		identity.ResetCodeHash = sec.HashResetCode("123456")
		expiresAt := time.Now().Add(ResetCodeTTL)
		identity.ResetCodeExpiresAt = &expiresAt
		identity.ResetCodeVerified = verified

		users := newMemoryUserStore(identity)
		service := newTestService(users, newMemoryRevocations(), &recordingMailer{})

		tokens := sec.NewTokenService("test-secret-key", "souqly.app")
		resetToken, err := tokens.IssueResetToken(identity.ID)
		require.NoError(t, err)

		return service, identity, resetToken
	}

	t.Run("unverified code cannot reset", func(t *testing.T) {
		service, identity, resetToken := setup(t, false)

		_, err := service.ResetPassword(context.Background(), resetToken, "brand-new-pass")
		require.Error(t, err)
		assert.Equal(t, http.StatusUnauthorized, apperr.As(err).HTTPStatus)
		assert.True(t, sec.CheckPasswordHash("old-pass", identity.PasswordHash))
	})

	t.Run("verified flow overwrites and clears recovery state", func(t *testing.T) {
		service, identity, resetToken := setup(t, true)

		token, err := service.ResetPassword(context.Background(), resetToken, "brand-new-pass")
		require.NoError(t, err)
		assert.NotEmpty(t, token)

		assert.True(t, sec.CheckPasswordHash("brand-new-pass", identity.PasswordHash))
		assert.Empty(t, identity.ResetCodeHash)
		assert.Nil(t, identity.ResetCodeExpiresAt)
		assert.False(t, identity.ResetCodeVerified)
		assert.NotNil(t, identity.PasswordChangedAt)
	})
}

// # Change Password

func TestService_ChangePassword(t *testing.T) {
	t.Run("wrong current password", func(t *testing.T) {
		identity := testIdentity(t, "old-pass")
		service := newTestService(newMemoryUserStore(identity), newMemoryRevocations(), &recordingMailer{})

		_, err := service.ChangePassword(context.Background(), identity.ID, "wrong-pass", "new-pass")
		require.Error(t, err)
		assert.Equal(t, http.StatusUnauthorized, apperr.As(err).HTTPStatus)
	})

	t.Run("rotation stamps passwordChangedAt", func(t *testing.T) {
		identity := testIdentity(t, "old-pass")
		service := newTestService(newMemoryUserStore(identity), newMemoryRevocations(), &recordingMailer{})

		token, err := service.ChangePassword(context.Background(), identity.ID, "old-pass", "new-pass")
		require.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.True(t, sec.CheckPasswordHash("new-pass", identity.PasswordHash))
		assert.NotNil(t, identity.PasswordChangedAt)
	})
}
