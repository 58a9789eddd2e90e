// Package stores persists users and their owned collections in postgres.
// Uniqueness and ownership races are left to the database constraints and mapped to the sentinel errors below.
package stores

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrForbidden        = errors.New("not the owner")
	ErrUsernameTaken    = errors.New("username already taken")
	ErrEmailTaken       = errors.New("email already registered")
	ErrAlreadyExists    = errors.New("already exists")
	ErrLanguageNotFound = errors.New("language not found")
	ErrUserNotFound     = errors.New("user not found")
)

// constraint names, see the schema migration
const (
	usernameUniqueConstraint = "users_username_key"
	emailUniqueConstraint    = "users_email_key"
)

func asPgError(err error, code string) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == code {
		return pgErr, true
	}
	return nil, false
}

func isUniqueViolation(err error) (*pgconn.PgError, bool) {
	return asPgError(err, pgerrcode.UniqueViolation)
}

func isForeignKeyViolation(err error) (*pgconn.PgError, bool) {
	return asPgError(err, pgerrcode.ForeignKeyViolation)
}

// mapReferenceError translates a foreign key violation raised by an insert into a user-owned table.
// The user reference can only break when the account was deleted while its token is still valid.
func mapReferenceError(err error, userConstraint, targetConstraint string, targetErr error) error {
	pgErr, ok := isForeignKeyViolation(err)
	if !ok {
		return err
	}

	switch pgErr.ConstraintName {
	case userConstraint:
		return ErrUserNotFound
	case targetConstraint:
		return targetErr
	}
	return err
}
