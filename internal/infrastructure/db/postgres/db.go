package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	uniqueViolationCode     = "23505"
	foreignKeyViolationCode = "23503"
	stringTooLongCode       = "22001"
)

// DB is the subset of *pgxpool.Pool the repositories use.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func pgErrorWithCode(err error, code string) *pgconn.PgError {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == code {
		return pgErr
	}
	return nil
}

func IsPgUniqueViolation(err error) bool {
	return pgErrorWithCode(err, uniqueViolationCode) != nil
}

// UniqueConstraint returns the violated constraint name, or "".
func UniqueConstraint(err error) string {
	if pgErr := pgErrorWithCode(err, uniqueViolationCode); pgErr != nil {
		return pgErr.ConstraintName
	}
	return ""
}

func IsPgForeignKeyViolation(err error) bool {
	return pgErrorWithCode(err, foreignKeyViolationCode) != nil
}

// ForeignKeyConstraint returns the violated foreign key name, or "".
func ForeignKeyConstraint(err error) string {
	if pgErr := pgErrorWithCode(err, foreignKeyViolationCode); pgErr != nil {
		return pgErr.ConstraintName
	}
	return ""
}

func IsPgStringTooLong(err error) bool {
	return pgErrorWithCode(err, stringTooLongCode) != nil
}
