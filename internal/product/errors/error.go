// Package errors provides custom error types for product-related operations.
package errors

import "errors"

var ErrProductNotFound = errors.New("product not found")

// ErrMissingID is returned when an operation needs a persisted product but the entity has no ID.
var ErrMissingID = errors.New("product has no id")

// ErrConstraintViolation is returned when the store rejects a row (check, not null or unique constraint).
var ErrConstraintViolation = errors.New("product violates a storage constraint")

// ErrInvalidProduct is returned when a product fails field validation before reaching the store.
var ErrInvalidProduct = errors.New("invalid product")
