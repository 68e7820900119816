// Package factory builds randomized but valid products for tests and seeding.
package factory

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/abgdnv/catalog/internal/product/store"
	"github.com/shopspring/decimal"
)

// Names is the fixed pool product names are drawn from.
var Names = []string{
	"Hat", "Pants", "Shirt", "Apple", "Banana", "Pots", "Towels", "Ford", "Chevy", "Hammer", "Wrench",
}

const (
	minPriceCents = 50
	maxPriceCents = 200000
	maxWords      = 12
)

var words = []string{
	"sturdy", "classic", "fresh", "lightweight", "durable", "everyday", "premium", "compact",
	"handy", "reliable", "soft", "bright", "organic", "practical", "versatile", "original",
	"made", "for", "home", "garden", "garage", "kitchen", "travel", "work", "with", "care",
	"quality", "design", "finish", "use", "season", "family", "value", "choice",
}

// Creator persists a product and assigns its ID.
type Creator interface {
	Create(ctx context.Context, p *store.Product) error
}

// ProductFactory generates products from its own random source.
// It is not safe for concurrent use.
type ProductFactory struct {
	rnd *rand.Rand
}

// New returns a factory seeded from the runtime's random source.
func New() *ProductFactory {
	return &ProductFactory{rnd: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
}

// NewSeeded returns a factory whose output is reproducible for a given seed.
func NewSeeded(seed uint64) *ProductFactory {
	return &ProductFactory{rnd: rand.New(rand.NewPCG(seed, seed))}
}

// New returns a transient product. Its ID is left zero.
func (f *ProductFactory) New() store.Product {
	categories := store.Categories()
	return store.Product{
		Name:        Names[f.rnd.IntN(len(Names))],
		Description: f.sentence(),
		Price:       decimal.New(minPriceCents+f.rnd.Int64N(maxPriceCents-minPriceCents+1), -2),
		Available:   f.rnd.IntN(2) == 1,
		Category:    categories[f.rnd.IntN(len(categories))],
	}
}

// Batch returns n transient products.
func (f *ProductFactory) Batch(n int) []store.Product {
	products := make([]store.Product, 0, max(n, 0))
	for range n {
		products = append(products, f.New())
	}
	return products
}

// Create builds a product and persists it through c.
func (f *ProductFactory) Create(ctx context.Context, c Creator) (store.Product, error) {
	p := f.New()
	if err := c.Create(ctx, &p); err != nil {
		return store.Product{}, fmt.Errorf("factory create: %w", err)
	}
	return p, nil
}

// CreateBatch persists n products and stops at the first failure,
// returning the products created so far.
func (f *ProductFactory) CreateBatch(ctx context.Context, c Creator, n int) ([]store.Product, error) {
	products := make([]store.Product, 0, max(n, 0))
	for range n {
		p, err := f.Create(ctx, c)
		if err != nil {
			return products, err
		}
		products = append(products, p)
	}
	return products, nil
}

func (f *ProductFactory) sentence() string {
	n := 3 + f.rnd.IntN(maxWords-2)
	picked := make([]string, n)
	for i := range picked {
		picked[i] = words[f.rnd.IntN(len(words))]
	}
	picked[0] = strings.ToUpper(picked[0][:1]) + picked[0][1:]
	return strings.Join(picked, " ") + "."
}
