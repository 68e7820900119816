package store

import (
	"context"
	"errors"
	"fmt"

	perrors "github.com/abgdnv/catalog/internal/product/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const (
	selectProducts = `SELECT id, name, description, price::text, available, category FROM products`

	insertProduct = `INSERT INTO products (id, name, description, price, available, category)
		VALUES ($1, $2, $3, $4::numeric, $5, $6)`

	updateProduct = `UPDATE products
		SET name = $2, description = $3, price = $4::numeric, available = $5, category = $6
		WHERE id = $1`

	deleteProduct = `DELETE FROM products WHERE id = $1`

	deleteAllProducts = `DELETE FROM products`
)

// PgStore implements ProductStore using PostgreSQL as the data store.
type PgStore struct {
	db *pgxpool.Pool
}

// NewPgStore creates a new instance of ProductStore using a PostgreSQL connection pool.
func NewPgStore(dbp *pgxpool.Pool) *PgStore {
	return &PgStore{
		db: dbp,
	}
}

// Create adds a new product to the system.
// Returns an error wrapping ErrConstraintViolation if the row is rejected.
func (p *PgStore) Create(ctx context.Context, product *Product) error {
	id := product.ID
	if id == uuid.Nil {
		var err error
		if id, err = newID(); err != nil {
			return fmt.Errorf("failed to create product: %w", err)
		}
	}
	_, err := p.db.Exec(ctx, insertProduct,
		id,
		product.Name,
		product.Description,
		product.Price.String(),
		product.Available,
		string(product.Category),
	)
	if err != nil {
		return writeError("create", err)
	}
	product.ID = id
	return nil
}

// Update modifies an existing product's details.
// Returns ErrProductNotFound if no product exists with the given ID.
func (p *PgStore) Update(ctx context.Context, product *Product) error {
	if product.ID == uuid.Nil {
		return perrors.ErrMissingID
	}
	tag, err := p.db.Exec(ctx, updateProduct,
		product.ID,
		product.Name,
		product.Description,
		product.Price.String(),
		product.Available,
		string(product.Category),
	)
	if err != nil {
		return writeError("update", err)
	}
	if tag.RowsAffected() == 0 {
		return perrors.ErrProductNotFound
	}
	return nil
}

// Delete removes a product by its unique identifier.
// Returns ErrProductNotFound if no product exists with the given ID.
func (p *PgStore) Delete(ctx context.Context, product *Product) error {
	if product.ID == uuid.Nil {
		return perrors.ErrMissingID
	}
	tag, err := p.db.Exec(ctx, deleteProduct, product.ID)
	if err != nil {
		return fmt.Errorf("failed to delete product by ID: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return perrors.ErrProductNotFound
	}
	product.ID = uuid.Nil
	return nil
}

// DeleteAll removes every product.
func (p *PgStore) DeleteAll(ctx context.Context) (int64, error) {
	tag, err := p.db.Exec(ctx, deleteAllProducts)
	if err != nil {
		return 0, fmt.Errorf("failed to delete all products: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Find retrieves a product by its unique identifier.
// Returns nil if no product exists with the given ID.
func (p *PgStore) Find(ctx context.Context, id uuid.UUID) (*Product, error) {
	product, err := scanProduct(p.db.QueryRow(ctx, selectProducts+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}
	return &product, nil
}

// All retrieves every product.
func (p *PgStore) All(ctx context.Context) ([]Product, error) {
	return p.query(ctx, "all products", selectProducts+` ORDER BY id`)
}

func (p *PgStore) FindByName(ctx context.Context, name string) ([]Product, error) {
	return p.query(ctx, "products by name", selectProducts+` WHERE name = $1 ORDER BY id`, name)
}

func (p *PgStore) FindByAvailability(ctx context.Context, available bool) ([]Product, error) {
	return p.query(ctx, "products by availability", selectProducts+` WHERE available = $1 ORDER BY id`, available)
}

func (p *PgStore) FindByCategory(ctx context.Context, category Category) ([]Product, error) {
	return p.query(ctx, "products by category", selectProducts+` WHERE category = $1 ORDER BY id`, string(category))
}

// Ping verifies a connection to the database is still alive.
func (p *PgStore) Ping(ctx context.Context) error {
	return p.db.Ping(ctx)
}

func (p *PgStore) query(ctx context.Context, what, sql string, args ...any) ([]Product, error) {
	rows, err := p.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to find %s: %w", what, err)
	}
	products, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Product, error) {
		return scanProduct(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", what, err)
	}
	if products == nil {
		products = []Product{}
	}
	return products, nil
}

func scanProduct(row pgx.Row) (Product, error) {
	var (
		product  Product
		price    string
		category string
	)
	if err := row.Scan(&product.ID, &product.Name, &product.Description, &price, &product.Available, &category); err != nil {
		return Product{}, err
	}
	amount, err := decimal.NewFromString(price)
	if err != nil {
		return Product{}, fmt.Errorf("invalid price %q: %w", price, err)
	}
	product.Price = amount
	product.Category = Category(category)
	return product, nil
}
