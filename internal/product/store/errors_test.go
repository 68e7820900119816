package store

import (
	"errors"
	"fmt"
	"testing"

	perrors "github.com/abgdnv/catalog/internal/product/errors"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestIsConstraintViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "postgres unique violation", err: &pgconn.PgError{Code: "23505"}, want: true},
		{name: "postgres check violation wrapped", err: fmt.Errorf("exec: %w", &pgconn.PgError{Code: "23514"}), want: true},
		{name: "postgres value too long", err: &pgconn.PgError{Code: "22001"}, want: true},
		{name: "postgres numeric overflow", err: &pgconn.PgError{Code: "22003"}, want: true},
		{name: "postgres invalid text representation", err: &pgconn.PgError{Code: "22P02"}, want: false},
		{name: "gorm duplicated key", err: gorm.ErrDuplicatedKey, want: true},
		{name: "sqlite check", err: errors.New("constraint failed: CHECK constraint failed: chk_products_name (275)"), want: true},
		{name: "mysql duplicate entry", err: errors.New("Error 1062 (23000): Duplicate entry"), want: true},
		{name: "mysql check", err: errors.New("Error 3819 (HY000): Check constraint 'chk_products_category' is violated."), want: true},
		{name: "mysql data too long", err: errors.New("Error 1406 (22001): Data too long for column 'name' at row 1"), want: true},
		{name: "mysql out of range", err: errors.New("Error 1264 (22003): Out of range value for column 'price' at row 1"), want: true},
		{name: "connection refused", err: errors.New("dial tcp: connection refused"), want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isConstraintViolation(tt.err))
		})
	}
}

func TestWriteError(t *testing.T) {
	cause := &pgconn.PgError{Code: "23514"}

	err := writeError("create", cause)

	assert.ErrorIs(t, err, perrors.ErrConstraintViolation)
	var pgErr *pgconn.PgError
	assert.ErrorAs(t, err, &pgErr)

	plain := writeError("update", errors.New("timeout"))
	assert.NotErrorIs(t, plain, perrors.ErrConstraintViolation)
	assert.Contains(t, plain.Error(), "failed to update product")
}
