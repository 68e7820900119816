package store_test

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"testing"

	perrors "github.com/abgdnv/catalog/internal/product/errors"
	"github.com/abgdnv/catalog/internal/product/factory"
	"github.com/abgdnv/catalog/internal/product/store"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// ProductStoreContractSuite runs the same behavioural checks against every ProductStore implementation.
type ProductStoreContractSuite struct {
	suite.Suite
	newStore func(t *testing.T) store.ProductStore // returns the store under test for each test
	store    store.ProductStore
	factory  *factory.ProductFactory
	logger   *slog.Logger
	ctx      context.Context
}

func newContractSuite(newStore func(t *testing.T) store.ProductStore) *ProductStoreContractSuite {
	return &ProductStoreContractSuite{newStore: newStore}
}

func (s *ProductStoreContractSuite) SetupSuite() {
	s.ctx = context.Background()
	s.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// SetupTest starts every test from an empty products table.
func (s *ProductStoreContractSuite) SetupTest() {
	s.store = s.newStore(s.T())
	s.factory = factory.New()
	_, err := s.store.DeleteAll(s.ctx)
	require.NoError(s.T(), err, "Failed to empty products table")
}

// create is a helper that persists a factory product with an empty ID.
func (s *ProductStoreContractSuite) create(mutate ...func(p *store.Product)) store.Product {
	s.T().Helper()
	p := s.factory.New()
	for _, m := range mutate {
		m(&p)
	}
	require.NoError(s.T(), s.store.Create(s.ctx, &p), "create helper failed")
	return p
}

func (s *ProductStoreContractSuite) count() int {
	s.T().Helper()
	all, err := s.store.All(s.ctx)
	require.NoError(s.T(), err)
	return len(all)
}

func (s *ProductStoreContractSuite) TestCreateProduct() {
	// given
	p := store.Product{
		Name:        "Fedora",
		Description: "A red hat",
		Price:       decimal.RequireFromString("12.50"),
		Available:   true,
		Category:    store.CategoryCloths,
	}

	// when
	err := s.store.Create(s.ctx, &p)

	// then
	require.NoError(s.T(), err)
	assert.NotEqual(s.T(), uuid.Nil, p.ID, "Create should assign an ID")

	all, err := s.store.All(s.ctx)
	require.NoError(s.T(), err)
	require.Len(s.T(), all, 1)
	got := all[0]
	assert.Equal(s.T(), p.ID, got.ID)
	assert.Equal(s.T(), "Fedora", got.Name)
	assert.Equal(s.T(), "A red hat", got.Description)
	assert.True(s.T(), decimal.RequireFromString("12.50").Equal(got.Price), "price %s", got.Price)
	assert.True(s.T(), got.Available)
	assert.Equal(s.T(), store.CategoryCloths, got.Category)
}

func (s *ProductStoreContractSuite) TestCreateProduct_KeepsPresetID() {
	id := uuid.New()

	created := s.create(func(p *store.Product) { p.ID = id })

	assert.Equal(s.T(), id, created.ID)
	found, err := s.store.Find(s.ctx, id)
	require.NoError(s.T(), err)
	require.NotNil(s.T(), found)
}

func (s *ProductStoreContractSuite) TestCreateProduct_DuplicateID() {
	created := s.create()

	dup := s.factory.New()
	dup.ID = created.ID
	err := s.store.Create(s.ctx, &dup)

	require.ErrorIs(s.T(), err, perrors.ErrConstraintViolation)
	assert.Equal(s.T(), 1, s.count())
}

func (s *ProductStoreContractSuite) TestCreateProduct_RejectsInvalidRows() {
	tests := []struct {
		name   string
		mutate func(p *store.Product)
	}{
		{name: "empty name", mutate: func(p *store.Product) { p.Name = "" }},
		{name: "unknown category", mutate: func(p *store.Product) { p.Category = "GADGETS" }},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			p := s.factory.New()
			tt.mutate(&p)

			err := s.store.Create(s.ctx, &p)

			require.ErrorIs(s.T(), err, perrors.ErrConstraintViolation)
		})
	}
	assert.Equal(s.T(), 0, s.count())
}

func (s *ProductStoreContractSuite) TestCreateProduct_RejectsRowsOutsideColumnLimits() {
	cent := decimal.New(1, -2)
	tests := []struct {
		name   string
		mutate func(p *store.Product)
	}{
		{name: "name too long", mutate: func(p *store.Product) { p.Name = strings.Repeat("x", store.MaxNameLength+1) }},
		{name: "description too long", mutate: func(p *store.Product) {
			p.Description = strings.Repeat("x", store.MaxDescriptionLength+1)
		}},
		{name: "price above maximum", mutate: func(p *store.Product) { p.Price = store.MaxPrice.Add(cent) }},
		{name: "price below minimum", mutate: func(p *store.Product) { p.Price = store.MaxPrice.Add(cent).Neg() }},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			p := s.factory.New()
			tt.mutate(&p)

			err := s.store.Create(s.ctx, &p)

			require.ErrorIs(s.T(), err, perrors.ErrConstraintViolation)
		})
	}
	assert.Equal(s.T(), 0, s.count())
}

func (s *ProductStoreContractSuite) TestCreateProduct_KeepsValuesAtColumnLimits() {
	created := s.create(func(p *store.Product) {
		p.Name = strings.Repeat("ü", store.MaxNameLength)
		p.Description = strings.Repeat("x", store.MaxDescriptionLength)
		p.Price = store.MaxPrice
	})

	found, err := s.store.Find(s.ctx, created.ID)

	require.NoError(s.T(), err)
	require.NotNil(s.T(), found)
	assert.Equal(s.T(), created.Name, found.Name)
	assert.Equal(s.T(), created.Description, found.Description)
	assert.Equal(s.T(), "999999999999.99", found.Price.StringFixed(2))
}

func (s *ProductStoreContractSuite) TestCreateProduct_RoundsPriceToCents() {
	created := s.create(func(p *store.Product) { p.Price = decimal.RequireFromString("1.005") })

	found, err := s.store.Find(s.ctx, created.ID)

	require.NoError(s.T(), err)
	require.NotNil(s.T(), found)
	assert.Equal(s.T(), "1.01", found.Price.StringFixed(2))
}

func (s *ProductStoreContractSuite) TestReadProduct() {
	// given
	created := s.create()

	// when
	found, err := s.store.Find(s.ctx, created.ID)

	// then
	require.NoError(s.T(), err)
	require.NotNil(s.T(), found)
	assert.True(s.T(), created.Equal(*found), "expected %s, got %s", created, found)
}

func (s *ProductStoreContractSuite) TestReadProduct_NotFound() {
	s.create()

	found, err := s.store.Find(s.ctx, uuid.New())

	require.NoError(s.T(), err)
	assert.Nil(s.T(), found)
}

func (s *ProductStoreContractSuite) TestUpdateProduct() {
	// given
	created := s.create()
	originalID := created.ID

	// when
	created.Description = "testing"
	err := s.store.Update(s.ctx, &created)

	// then
	require.NoError(s.T(), err)
	assert.Equal(s.T(), originalID, created.ID)

	all, err := s.store.All(s.ctx)
	require.NoError(s.T(), err)
	require.Len(s.T(), all, 1)
	assert.Equal(s.T(), originalID, all[0].ID)
	assert.Equal(s.T(), "testing", all[0].Description)
}

func (s *ProductStoreContractSuite) TestUpdateProduct_WritesZeroValues() {
	created := s.create(func(p *store.Product) {
		p.Available = true
		p.Description = "something"
	})

	created.Available = false
	created.Description = ""
	created.Price = decimal.Zero
	require.NoError(s.T(), s.store.Update(s.ctx, &created))

	found, err := s.store.Find(s.ctx, created.ID)
	require.NoError(s.T(), err)
	require.NotNil(s.T(), found)
	assert.False(s.T(), found.Available)
	assert.Empty(s.T(), found.Description)
	assert.True(s.T(), found.Price.IsZero(), "price %s", found.Price)
}

func (s *ProductStoreContractSuite) TestUpdateProduct_RejectsInvalidCategory() {
	created := s.create()

	created.Category = "GADGETS"
	err := s.store.Update(s.ctx, &created)

	require.ErrorIs(s.T(), err, perrors.ErrConstraintViolation)
}

func (s *ProductStoreContractSuite) TestUpdateProduct_RejectsRowsOutsideColumnLimits() {
	created := s.create()
	original := created

	created.Name = strings.Repeat("x", store.MaxNameLength+1)
	err := s.store.Update(s.ctx, &created)

	require.ErrorIs(s.T(), err, perrors.ErrConstraintViolation)
	found, err := s.store.Find(s.ctx, original.ID)
	require.NoError(s.T(), err)
	require.NotNil(s.T(), found)
	assert.Equal(s.T(), original.Name, found.Name)
}

func (s *ProductStoreContractSuite) TestUpdateProduct_NotFound() {
	p := s.factory.New()
	p.ID = uuid.New()

	err := s.store.Update(s.ctx, &p)

	require.ErrorIs(s.T(), err, perrors.ErrProductNotFound)
	assert.Equal(s.T(), 0, s.count(), "Update must not insert")
}

func (s *ProductStoreContractSuite) TestUpdateProduct_MissingID() {
	p := s.factory.New()

	err := s.store.Update(s.ctx, &p)

	require.ErrorIs(s.T(), err, perrors.ErrMissingID)
}

func (s *ProductStoreContractSuite) TestDeleteProduct() {
	// given
	created := s.create()
	s.create()
	require.Equal(s.T(), 2, s.count())
	deletedID := created.ID

	// when
	err := s.store.Delete(s.ctx, &created)

	// then
	require.NoError(s.T(), err)
	assert.Equal(s.T(), uuid.Nil, created.ID, "Delete should reset the ID")
	assert.Equal(s.T(), 1, s.count())
	found, err := s.store.Find(s.ctx, deletedID)
	require.NoError(s.T(), err)
	assert.Nil(s.T(), found)
}

func (s *ProductStoreContractSuite) TestDeleteProduct_NotFound() {
	s.create()
	p := s.factory.New()
	p.ID = uuid.New()

	err := s.store.Delete(s.ctx, &p)

	require.ErrorIs(s.T(), err, perrors.ErrProductNotFound)
	assert.Equal(s.T(), 1, s.count())
}

func (s *ProductStoreContractSuite) TestDeleteProduct_MissingID() {
	p := s.factory.New()

	err := s.store.Delete(s.ctx, &p)

	require.ErrorIs(s.T(), err, perrors.ErrMissingID)
}

func (s *ProductStoreContractSuite) TestDeleteAll() {
	_, err := s.factory.CreateBatch(s.ctx, s.store, 3)
	require.NoError(s.T(), err)

	n, err := s.store.DeleteAll(s.ctx)

	require.NoError(s.T(), err)
	assert.Equal(s.T(), int64(3), n)
	assert.Equal(s.T(), 0, s.count())
}

func (s *ProductStoreContractSuite) TestListAllProducts() {
	all, err := s.store.All(s.ctx)
	require.NoError(s.T(), err)
	assert.NotNil(s.T(), all)
	assert.Empty(s.T(), all)

	for range 5 {
		s.create()
	}

	assert.Equal(s.T(), 5, s.count())
}

func (s *ProductStoreContractSuite) TestListAllProducts_InsertionOrder() {
	created, err := s.factory.CreateBatch(s.ctx, s.store, 5)
	require.NoError(s.T(), err)

	all, err := s.store.All(s.ctx)

	require.NoError(s.T(), err)
	require.Len(s.T(), all, len(created))
	for i := range created {
		assert.Equal(s.T(), created[i].ID, all[i].ID, "position %d", i)
	}
}

func (s *ProductStoreContractSuite) TestFindByName() {
	// given
	products, err := s.factory.CreateBatch(s.ctx, s.store, 5)
	require.NoError(s.T(), err)
	name := products[0].Name
	expected := 0
	for _, p := range products {
		if p.Name == name {
			expected++
		}
	}

	// when
	found, err := s.store.FindByName(s.ctx, name)

	// then
	require.NoError(s.T(), err)
	assert.Len(s.T(), found, expected)
	for _, p := range found {
		assert.Equal(s.T(), name, p.Name)
	}
}

func (s *ProductStoreContractSuite) TestFindByName_NoMatch() {
	_, err := s.factory.CreateBatch(s.ctx, s.store, 5)
	require.NoError(s.T(), err)

	found, err := s.store.FindByName(s.ctx, "Unicycle")

	require.NoError(s.T(), err)
	assert.NotNil(s.T(), found)
	assert.Empty(s.T(), found)
}

func (s *ProductStoreContractSuite) TestFindByAvailability() {
	// given
	products, err := s.factory.CreateBatch(s.ctx, s.store, 10)
	require.NoError(s.T(), err)
	available := products[0].Available
	expected := 0
	for _, p := range products {
		if p.Available == available {
			expected++
		}
	}

	// when
	found, err := s.store.FindByAvailability(s.ctx, available)

	// then
	require.NoError(s.T(), err)
	assert.Len(s.T(), found, expected)
	for _, p := range found {
		assert.Equal(s.T(), available, p.Available)
	}

	other, err := s.store.FindByAvailability(s.ctx, !available)
	require.NoError(s.T(), err)
	assert.Len(s.T(), other, len(products)-expected)
}

func (s *ProductStoreContractSuite) TestFindByCategory() {
	// given
	products, err := s.factory.CreateBatch(s.ctx, s.store, 10)
	require.NoError(s.T(), err)
	category := products[0].Category
	expected := 0
	for _, p := range products {
		if p.Category == category {
			expected++
		}
	}

	// when
	found, err := s.store.FindByCategory(s.ctx, category)

	// then
	require.NoError(s.T(), err)
	assert.Len(s.T(), found, expected)
	for _, p := range found {
		assert.Equal(s.T(), category, p.Category)
	}
}

func (s *ProductStoreContractSuite) TestFindByCategory_EveryCategory() {
	products, err := s.factory.CreateBatch(s.ctx, s.store, 20)
	require.NoError(s.T(), err)

	total := 0
	for _, c := range store.Categories() {
		found, err := s.store.FindByCategory(s.ctx, c)
		require.NoError(s.T(), err)
		total += len(found)
	}

	assert.Equal(s.T(), len(products), total)
}
