// Copyright (c) 2026 Souqly. All rights reserved.

package account

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/souqly/backend/internal/platform/dberr"
)

const profileColumns = `id, name, email, role, active`

// PostgresStore implements [AccountStore] on the users.account table.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore creates a Postgres-backed [AccountStore].
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

func (store *PostgresStore) FindProfile(context context.Context, id string) (*Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM users.account WHERE id = $1`

	profile := &Profile{}
	err := store.db.QueryRow(context, query, id).
		Scan(&profile.ID, &profile.Name, &profile.Email, &profile.Role, &profile.Active)
	if err != nil {
		return nil, dberr.Wrap(err, "account")
	}

	return profile, nil
}

// UpdateProfile applies the non-nil fields via COALESCE so unchanged columns
// keep their values in a single statement.
func (store *PostgresStore) UpdateProfile(context context.Context, id string, input UpdateProfileInput) (*Profile, error) {
	query := `
		UPDATE users.account
		SET name = COALESCE($2, name),
		    email = COALESCE($3, email),
		    updatedat = now()
		WHERE id = $1
		RETURNING ` + profileColumns

	profile := &Profile{}
	err := store.db.QueryRow(context, query, id, input.Name, input.Email).
		Scan(&profile.ID, &profile.Name, &profile.Email, &profile.Role, &profile.Active)
	if err != nil {
		return nil, dberr.Wrap(err, "account")
	}

	return profile, nil
}

func (store *PostgresStore) SetActive(context context.Context, id string, active bool) error {
	return store.set(context, id, `active = $2`, active)
}

func (store *PostgresStore) SetRole(context context.Context, id string, role string) error {
	return store.set(context, id, `role = $2`, role)
}

func (store *PostgresStore) set(context context.Context, id, assignment string, value any) error {
	query := `UPDATE users.account SET ` + assignment + `, updatedat = now() WHERE id = $1`

	tag, err := store.db.Exec(context, query, id, value)
	if err != nil {
		return dberr.Wrap(err, "account")
	}

	if tag.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, "account")
	}

	return nil
}
