// Copyright (c) 2026 Critiq. All rights reserved.
// Author: dev@critiq.app

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
package dberr

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/critiqapp/critiq/internal/platform/apperr"
)

var (
	// ErrNotFound is a standard error returned when a queried row doesn't exist.
	ErrNotFound = apperr.NotFound("Resource")
)

// Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].
// It hides internal database details from the client while classifying the error type.
func Wrap(err error, action string) error {
	if err == nil {
		return nil
	}

	// 1. Not Found mapping
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}

	// 2. Constraint violations become generic Conflicts. Callers that own a
	// more specific taxonomy entry should use [WrapUnique] instead.
	if IsUniqueViolation(err) {
		return apperr.Conflict("Resource already exists")
	}

	// 3. Unknown query errors become Internal Server Errors
	return apperr.Internal(err)
}

// WrapUnique is like [Wrap] but maps a unique-constraint violation to the
// caller-supplied error instead of a generic Conflict.
//
// The unique index is the authoritative guard for duplicate races: the
// service-layer pre-check can lose to a concurrent insert, and this mapping
// is what turns the losing insert into the correct domain error.
func WrapUnique(err error, onDuplicate *apperr.AppError, action string) error {
	if err == nil {
		return nil
	}

	if IsUniqueViolation(err) {
		return onDuplicate
	}

	return Wrap(err, action)
}

// IsUniqueViolation reports whether err is a PostgreSQL unique-constraint
// violation (SQLSTATE 23505).
func IsUniqueViolation(err error) bool {
	var pgError *pgconn.PgError
	return errors.As(err, &pgError) && pgError.Code == pgerrcode.UniqueViolation
}

// IsForeignKeyViolation reports whether err is a PostgreSQL foreign-key
// violation (SQLSTATE 23503), e.g. deleting a category still referenced
// by titles under ON DELETE RESTRICT.
func IsForeignKeyViolation(err error) bool {
	var pgError *pgconn.PgError
	return errors.As(err, &pgError) && pgError.Code == pgerrcode.ForeignKeyViolation
}
