package store

import (
	"bytes"
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/abgdnv/catalog/internal/product/errors"
	"github.com/google/uuid"
)

// InMemoryStore implements ProductStore using an in-memory map.
// It enforces the same row constraints as the products table.
type InMemoryStore struct {
	mu       sync.RWMutex
	products map[uuid.UUID]Product
}

// NewInMemoryStore creates a new instance of ProductStore
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		products: make(map[uuid.UUID]Product),
	}
}

// Create creates a new product and assigns its ID.
func (s *InMemoryStore) Create(_ context.Context, p *Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := *p
	if row.ID == uuid.Nil {
		id, err := newID()
		if err != nil {
			return fmt.Errorf("failed to create product: %w", err)
		}
		row.ID = id
	}
	if _, exists := s.products[row.ID]; exists {
		return fmt.Errorf("failed to create product: %w: duplicate id %s", errors.ErrConstraintViolation, row.ID)
	}
	if err := checkRow(row); err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	row.Price = row.Price.Round(2)
	s.products[row.ID] = row
	p.ID = row.ID

	return nil
}

// Update replaces the stored row with the fields of p.
func (s *InMemoryStore) Update(_ context.Context, p *Product) error {
	if p.ID == uuid.Nil {
		return errors.ErrMissingID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.products[p.ID]; !exists {
		return errors.ErrProductNotFound
	}
	row := *p
	if err := checkRow(row); err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	row.Price = row.Price.Round(2)
	s.products[row.ID] = row
	return nil
}

// Delete deletes a product by its ID.
func (s *InMemoryStore) Delete(_ context.Context, p *Product) error {
	if p.ID == uuid.Nil {
		return errors.ErrMissingID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.products[p.ID]; !exists {
		return errors.ErrProductNotFound
	}
	delete(s.products, p.ID)
	p.ID = uuid.Nil
	return nil
}

// DeleteAll removes every product.
func (s *InMemoryStore) DeleteAll(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := int64(len(s.products))
	clear(s.products)
	return n, nil
}

// Find retrieves a product by its ID.
func (s *InMemoryStore) Find(_ context.Context, id uuid.UUID) (*Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.products[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

// All retrieves all products.
func (s *InMemoryStore) All(_ context.Context) ([]Product, error) {
	return s.filter(func(Product) bool { return true }), nil
}

func (s *InMemoryStore) FindByName(_ context.Context, name string) ([]Product, error) {
	return s.filter(func(p Product) bool { return p.Name == name }), nil
}

func (s *InMemoryStore) FindByAvailability(_ context.Context, available bool) ([]Product, error) {
	return s.filter(func(p Product) bool { return p.Available == available }), nil
}

func (s *InMemoryStore) FindByCategory(_ context.Context, category Category) ([]Product, error) {
	return s.filter(func(p Product) bool { return p.Category == category }), nil
}

// Ping always succeeds.
func (s *InMemoryStore) Ping(_ context.Context) error {
	return nil
}

func (s *InMemoryStore) filter(match func(Product) bool) []Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]Product, 0, len(s.products))
	for _, t := range s.products {
		if match(t) {
			list = append(list, t)
		}
	}
	slices.SortFunc(list, func(a, b Product) int {
		return bytes.Compare(a.ID[:], b.ID[:])
	})
	return list
}
