package store

import (
	"errors"
	"fmt"
	"strings"

	perrors "github.com/abgdnv/catalog/internal/product/errors"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	// integrityViolationClass is the SQLSTATE class for integrity constraint violations.
	integrityViolationClass = "23"
	// stringDataRightTruncation is raised when a value exceeds a VARCHAR length.
	stringDataRightTruncation = "22001"
	// numericValueOutOfRange is raised when a price exceeds the NUMERIC precision.
	numericValueOutOfRange = "22003"
)

// isConstraintViolation reports whether err was raised by the database rejecting a row.
func isConstraintViolation(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return strings.HasPrefix(pgErr.Code, integrityViolationClass) ||
			pgErr.Code == stringDataRightTruncation ||
			pgErr.Code == numericValueOutOfRange
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) || errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}

	msg := err.Error()
	switch {
	// SQLite: "UNIQUE constraint failed", "CHECK constraint failed", "NOT NULL constraint failed"
	case strings.Contains(msg, "constraint failed"):
		return true
	// MySQL: duplicate entry, check constraint violated, column cannot be null,
	// data too long, out of range value
	case strings.Contains(msg, "Error 1062"),
		strings.Contains(msg, "Error 3819"),
		strings.Contains(msg, "Error 1048"),
		strings.Contains(msg, "Error 1406"),
		strings.Contains(msg, "Error 1264"):
		return true
	}
	return false
}

// writeError wraps a failed write, tagging it with ErrConstraintViolation when the store rejected the row.
func writeError(op string, err error) error {
	if isConstraintViolation(err) {
		return fmt.Errorf("failed to %s product: %w: %w", op, perrors.ErrConstraintViolation, err)
	}
	return fmt.Errorf("failed to %s product: %w", op, err)
}
