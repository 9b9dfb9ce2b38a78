// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store implements the PostgreSQL repositories behind the content
// service. Single-row lookups return (nil, nil) when nothing matches.
package store

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"quillpress/internal/apperr"
)

// uniqueViolation is the PostgreSQL SQLSTATE for a unique index conflict.
const uniqueViolation = "23505"

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// wrap annotates err with op. Unique violations become apperr.Conflict so
// the service can retry slug allocation.
func wrap(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return apperr.Wrap(apperr.Conflict, err, "%s: %s violates %s", op, pgErr.TableName, pgErr.ConstraintName)
	}
	return fmt.Errorf("%s: %w", op, err)
}
