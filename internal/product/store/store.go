// Package store provides an interface for product storage operations.
package store

import (
	"context"

	"github.com/google/uuid"
)

// ProductStore is an interface for product storage operations.
// It abstracts the underlying data store, allowing for different implementations (e.g., in-memory, database).
//
// Query results are never nil and are ordered by ID ascending. IDs assigned by the store are
// UUIDv7, so for those rows this is insertion order.
type ProductStore interface {
	// Create inserts the product as a new row.
	// A zero ID is replaced with a freshly generated one and written back into p.
	// Returns ErrConstraintViolation if the store rejects the row.
	Create(ctx context.Context, p *Product) error

	// Update persists all fields of p to the row identified by p.ID.
	// Returns ErrMissingID if p has no ID and ErrProductNotFound if no row has it.
	Update(ctx context.Context, p *Product) error

	// Delete removes the row identified by p.ID and resets p.ID to uuid.Nil.
	// Returns ErrMissingID if p has no ID and ErrProductNotFound if no row has it.
	Delete(ctx context.Context, p *Product) error

	// DeleteAll removes every product and returns the number of removed rows.
	DeleteAll(ctx context.Context) (int64, error)

	// Find retrieves a single product by its unique identifier.
	// Returns nil and no error if no product exists with the given ID.
	Find(ctx context.Context, id uuid.UUID) (*Product, error)

	// All returns every persisted product.
	All(ctx context.Context) ([]Product, error)

	// FindByName returns the products whose name equals name exactly.
	FindByName(ctx context.Context, name string) ([]Product, error)

	// FindByAvailability returns the products whose availability equals available.
	FindByAvailability(ctx context.Context, available bool) ([]Product, error)

	// FindByCategory returns the products of the given category.
	FindByCategory(ctx context.Context, category Category) ([]Product, error)
}

// HealthChecker reports whether the underlying store is reachable.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// newID returns the identifier assigned to a product on Create.
func newID() (uuid.UUID, error) {
	return uuid.NewV7()
}
