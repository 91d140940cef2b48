// AngelaMos | 2026
// storage_test.go

package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestStorageError(t *testing.T) {
	unique := &pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"}
	err := StorageError("create user", fmt.Errorf("exec: %w", unique))
	assert.ErrorIs(t, err, ErrDuplicateKey)

	fk := &pgconn.PgError{Code: "23503", ConstraintName: "products_business_id_fkey"}
	err = StorageError("create product", fk)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t,
		"referenced record does not exist (products_business_id_fkey)",
		InputMessage(err))

	check := &pgconn.PgError{Code: "23514", ConstraintName: "products_price_check"}
	err = StorageError("create product", check)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, InputMessage(err), "products_price_check")

	plain := errors.New("connection reset")
	err = StorageError("list users", plain)
	assert.ErrorIs(t, err, plain)
	assert.NotErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, "list users: connection reset", err.Error())
}
