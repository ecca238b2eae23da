// Copyright (c) 2026 Souqly. All rights reserved.

package auth

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/souqly/backend/internal/platform/dberr"
	"github.com/souqly/backend/internal/platform/sec"
)

// accountColumns is the full projection of one identity row, in Scan order.
const accountColumns = `id, name, email, passwordhash, role, active,
	passwordchangedat, resetcodehash, resetcodeexpiresat, resetcodeverified,
	createdat, updatedat`

// PostgresUserStore implements [UserStore] on the users.account table.
type PostgresUserStore struct {
	db *pgxpool.Pool
}

// NewPostgresUserStore creates a Postgres-backed [UserStore].
func NewPostgresUserStore(db *pgxpool.Pool) *PostgresUserStore {
	return &PostgresUserStore{db: db}
}

func (store *PostgresUserStore) FindByID(context context.Context, id string) (*Identity, error) {
	query := `SELECT ` + accountColumns + ` FROM users.account WHERE id = $1`
	return store.scanIdentity(store.db.QueryRow(context, query, id))
}

func (store *PostgresUserStore) FindByEmail(context context.Context, email string) (*Identity, error) {
	query := `SELECT ` + accountColumns + ` FROM users.account WHERE email = $1`
	return store.scanIdentity(store.db.QueryRow(context, query, email))
}

func (store *PostgresUserStore) Create(context context.Context, identity *Identity) error {
	query := `
		INSERT INTO users.account (id, name, email, passwordhash, role, active, createdat, updatedat)
		VALUES ($1, $2, $3, $4, $5, $6, now(), now())
	`

	_, err := store.db.Exec(context, query,
		identity.ID, identity.Name, identity.Email, identity.PasswordHash,
		string(identity.Role), identity.Active)
	if err != nil {
		return dberr.Wrap(err, "account")
	}

	return nil
}

func (store *PostgresUserStore) SetResetCode(context context.Context, userID, codeHash string, expiresAt time.Time) error {
	query := `
		UPDATE users.account
		SET resetcodehash = $2, resetcodeexpiresat = $3, resetcodeverified = false, updatedat = now()
		WHERE id = $1
	`

	tag, err := store.db.Exec(context, query, userID, codeHash, expiresAt)
	if err != nil {
		return dberr.Wrap(err, "account")
	}

	if tag.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, "account")
	}

	return nil
}

func (store *PostgresUserStore) MarkResetCodeVerified(context context.Context, userID string) error {
	query := `UPDATE users.account SET resetcodeverified = true, updatedat = now() WHERE id = $1`

	tag, err := store.db.Exec(context, query, userID)
	if err != nil {
		return dberr.Wrap(err, "account")
	}

	if tag.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, "account")
	}

	return nil
}

// UpdatePassword replaces the hash, stamps passwordchangedat, and clears any
// pending recovery state in one statement so a half-completed reset cannot
// be replayed.
func (store *PostgresUserStore) UpdatePassword(context context.Context, userID, passwordHash string) error {
	query := `
		UPDATE users.account
		SET passwordhash = $2,
		    passwordchangedat = now(),
		    resetcodehash = NULL,
		    resetcodeexpiresat = NULL,
		    resetcodeverified = false,
		    updatedat = now()
		WHERE id = $1
	`

	tag, err := store.db.Exec(context, query, userID, passwordHash)
	if err != nil {
		return dberr.Wrap(err, "account")
	}

	if tag.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, "account")
	}

	return nil
}

func (store *PostgresUserStore) scanIdentity(row pgx.Row) (*Identity, error) {
	identity := &Identity{}
	var role string
	var resetCodeHash *string

	err := row.Scan(
		&identity.ID, &identity.Name, &identity.Email, &identity.PasswordHash,
		&role, &identity.Active,
		&identity.PasswordChangedAt, &resetCodeHash, &identity.ResetCodeExpiresAt,
		&identity.ResetCodeVerified,
		&identity.CreatedAt, &identity.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "account")
	}

	identity.Role = sec.Role(role)
	if resetCodeHash != nil {
		identity.ResetCodeHash = *resetCodeHash
	}

	return identity, nil
}
