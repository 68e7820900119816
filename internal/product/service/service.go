// Package service provides the implementation of product-related business logic.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	perrors "github.com/abgdnv/catalog/internal/product/errors"
	"github.com/abgdnv/catalog/internal/product/store"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductService defines the methods for managing products.
// It abstracts the underlying business logic and data access.
type ProductService interface {
	// Create validates the product and adds it to the system, assigning p.ID.
	// Returns ErrInvalidProduct if the product fails validation.
	Create(ctx context.Context, p *store.Product) error

	// Update validates the product and persists all of its fields.
	// Returns ErrProductNotFound if no product exists with the given ID.
	Update(ctx context.Context, p *store.Product) error

	// Delete removes the product and resets p.ID.
	// Returns ErrProductNotFound if no product exists with the given ID.
	Delete(ctx context.Context, p *store.Product) error

	// DeleteAll removes every product and returns how many were removed.
	DeleteAll(ctx context.Context) (int64, error)

	// Find retrieves a single product by its unique identifier.
	// Returns nil and no error if no product exists with the given ID.
	Find(ctx context.Context, id uuid.UUID) (*store.Product, error)

	// All returns every product.
	// Returns an empty slice if no products exist.
	All(ctx context.Context) ([]store.Product, error)

	FindByName(ctx context.Context, name string) ([]store.Product, error)
	FindByAvailability(ctx context.Context, available bool) ([]store.Product, error)
	FindByCategory(ctx context.Context, category store.Category) ([]store.Product, error)
}

// Service implements ProductService and provides methods to manage products.
type Service struct {
	repository store.ProductStore
	validate   *validator.Validate
	logger     *slog.Logger
}

// NewService creates a new instance of ProductService with the provided repository.
func NewService(repo store.ProductStore, logger *slog.Logger) *Service {
	return &Service{
		repository: repo,
		validate:   newValidator(),
		logger:     logger,
	}
}

// newValidator registers the product rules on top of the standard validator.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.String()
		}
		return nil
	}, decimal.Decimal{})
	_ = v.RegisterValidation("price", func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(fl.Field().String())
		return err == nil && !d.IsNegative() && d.Round(2).LessThanOrEqual(store.MaxPrice)
	})
	_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return store.Category(fl.Field().String()).IsValid()
	})
	return v
}

// Create validates and persists a new product.
func (s *Service) Create(ctx context.Context, p *store.Product) error {
	if err := s.check(p); err != nil {
		return err
	}
	if err := s.repository.Create(ctx, p); err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	s.logger.DebugContext(ctx, "Created Product", slog.String("product", p.String()))
	return nil
}

// Update validates and persists all fields of an existing product.
func (s *Service) Update(ctx context.Context, p *store.Product) error {
	if err := s.check(p); err != nil {
		return err
	}
	if err := s.repository.Update(ctx, p); err != nil {
		return fmt.Errorf("failed to update product with ID %s: %w", p.ID, err)
	}
	s.logger.DebugContext(ctx, "Updated Product", slog.String("product", p.String()))
	return nil
}

// Delete removes the product identified by p.ID.
func (s *Service) Delete(ctx context.Context, p *store.Product) error {
	id := p.ID
	if err := s.repository.Delete(ctx, p); err != nil {
		return fmt.Errorf("failed to delete product with ID %s: %w", id, err)
	}
	s.logger.DebugContext(ctx, "Deleted Product", slog.String("id", id.String()))
	return nil
}

func (s *Service) DeleteAll(ctx context.Context) (int64, error) {
	n, err := s.repository.DeleteAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to delete products: %w", err)
	}
	s.logger.DebugContext(ctx, "Deleted all products", slog.Int64("count", n))
	return n, nil
}

// Find retrieves a product by its ID.
func (s *Service) Find(ctx context.Context, id uuid.UUID) (*store.Product, error) {
	p, err := s.repository.Find(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product by ID %s: %w", id, err)
	}
	return p, nil
}

// All retrieves a list of all products.
func (s *Service) All(ctx context.Context) ([]store.Product, error) {
	products, err := s.repository.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	return products, nil
}

func (s *Service) FindByName(ctx context.Context, name string) ([]store.Product, error) {
	products, err := s.repository.FindByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products by name %q: %w", name, err)
	}
	return products, nil
}

func (s *Service) FindByAvailability(ctx context.Context, available bool) ([]store.Product, error) {
	products, err := s.repository.FindByAvailability(ctx, available)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products by availability %t: %w", available, err)
	}
	return products, nil
}

func (s *Service) FindByCategory(ctx context.Context, category store.Category) ([]store.Product, error) {
	products, err := s.repository.FindByCategory(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products by category %s: %w", category, err)
	}
	return products, nil
}

// check validates p and returns ErrInvalidProduct describing the failed fields.
func (s *Service) check(p *store.Product) error {
	err := s.validate.Struct(p)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		fields := make([]string, 0, len(validationErrors))
		for _, fe := range validationErrors {
			fields = append(fields, fmt.Sprintf("%s failed on '%s'", fe.Field(), fe.Tag()))
		}
		return fmt.Errorf("%w: %s", perrors.ErrInvalidProduct, strings.Join(fields, ", "))
	}
	return fmt.Errorf("%w: %w", perrors.ErrInvalidProduct, err)
}

var _ ProductService = (*Service)(nil)
