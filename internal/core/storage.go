// AngelaMos | 2026
// storage.go

package core

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
	pgCheckViolation      = "23514"
)

// StorageError wraps err for op, translating constraint violations into
// the sentinel errors handlers already map: unique to ErrDuplicateKey,
// foreign key and check to an InvalidInput naming the constraint.
func StorageError(op string, err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return fmt.Errorf("%s: %w", op, err)
	}

	switch pgErr.Code {
	case pgUniqueViolation:
		return fmt.Errorf("%s: %w", op, ErrDuplicateKey)
	case pgForeignKeyViolation:
		return fmt.Errorf("%s: %w", op,
			InvalidInput("referenced record does not exist (%s)", pgErr.ConstraintName))
	case pgCheckViolation:
		return fmt.Errorf("%s: %w", op,
			InvalidInput("value rejected by %s", pgErr.ConstraintName))
	}

	return fmt.Errorf("%s: %w", op, err)
}

// RequireRow turns a statement that touched no rows into ErrNotFound.
func RequireRow(result sql.Result, op string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rows == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}
