package store

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"

	perrors "github.com/abgdnv/catalog/internal/product/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// rowID stores a uuid.UUID in a column type native to each dialect.
type rowID uuid.UUID

func (id *rowID) Scan(src any) error {
	return (*uuid.UUID)(id).Scan(src)
}

func (id rowID) Value() (driver.Value, error) {
	return uuid.UUID(id).String(), nil
}

func (rowID) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	switch db.Dialector.Name() {
	case "postgres":
		return "uuid"
	case "mysql":
		return "char(36)"
	default:
		return "text"
	}
}

// rowPrice stores a price as an exact decimal column. SQLite has no exact
// numeric type, so it keeps the fixed-point text instead of a REAL.
type rowPrice decimal.Decimal

func (p *rowPrice) Scan(src any) error {
	return (*decimal.Decimal)(p).Scan(src)
}

func (p rowPrice) Value() (driver.Value, error) {
	return decimal.Decimal(p).StringFixed(2), nil
}

func (rowPrice) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	switch db.Dialector.Name() {
	case "postgres":
		return "numeric(14,2)"
	case "mysql":
		return "decimal(14,2)"
	default:
		return "text"
	}
}

// productRecord is the row shape of the products table.
type productRecord struct {
	ID          rowID           `gorm:"primaryKey"`
	Name        string          `gorm:"size:100;not null;check:chk_products_name,name <> ''"`
	Description string          `gorm:"size:250;not null"`
	Price       rowPrice        `gorm:"not null"`
	Available   bool            `gorm:"not null"`
	Category    string          `gorm:"size:32;not null;index;check:chk_products_category,category IN ('UNKNOWN','CLOTHS','FOOD','HOUSEWARES','AUTOMOTIVE','TOOLS')"`
}

func (productRecord) TableName() string {
	return "products"
}

func toRecord(p *Product) productRecord {
	return productRecord{
		ID:          rowID(p.ID),
		Name:        p.Name,
		Description: p.Description,
		Price:       rowPrice(p.Price.Round(2)),
		Available:   p.Available,
		Category:    string(p.Category),
	}
}

func (r productRecord) toProduct() Product {
	return Product{
		ID:          uuid.UUID(r.ID),
		Name:        r.Name,
		Description: r.Description,
		Price:       decimal.Decimal(r.Price),
		Available:   r.Available,
		Category:    Category(r.Category),
	}
}

// GormStore implements ProductStore on top of a gorm connection.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore migrates the products table and returns a store bound to db.
func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if err := db.AutoMigrate(&productRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate products table: %w", err)
	}
	return &GormStore{db: db}, nil
}

// Create inserts the product and writes the assigned ID back into p.
// Column limits are checked before the insert, since SQLite does not enforce them.
func (s *GormStore) Create(ctx context.Context, p *Product) error {
	if err := checkRow(*p); err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	rec := toRecord(p)
	if p.ID == uuid.Nil {
		id, err := newID()
		if err != nil {
			return fmt.Errorf("failed to create product: %w", err)
		}
		rec.ID = rowID(id)
	}
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return writeError("create", err)
	}
	p.ID = uuid.UUID(rec.ID)
	return nil
}

// Update writes every column, including zero values such as available = false.
func (s *GormStore) Update(ctx context.Context, p *Product) error {
	if p.ID == uuid.Nil {
		return perrors.ErrMissingID
	}
	if err := checkRow(*p); err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	rec := toRecord(p)
	res := s.db.WithContext(ctx).
		Model(&productRecord{}).
		Where("id = ?", rec.ID).
		Updates(map[string]any{
			"name":        rec.Name,
			"description": rec.Description,
			"price":       rec.Price,
			"available":   rec.Available,
			"category":    rec.Category,
		})
	if res.Error != nil {
		return writeError("update", res.Error)
	}
	if res.RowsAffected == 0 {
		return perrors.ErrProductNotFound
	}
	return nil
}

func (s *GormStore) Delete(ctx context.Context, p *Product) error {
	if p.ID == uuid.Nil {
		return perrors.ErrMissingID
	}
	res := s.db.WithContext(ctx).Delete(&productRecord{}, "id = ?", rowID(p.ID))
	if res.Error != nil {
		return fmt.Errorf("failed to delete product by ID: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return perrors.ErrProductNotFound
	}
	p.ID = uuid.Nil
	return nil
}

func (s *GormStore) DeleteAll(ctx context.Context) (int64, error) {
	res := s.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&productRecord{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to delete all products: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func (s *GormStore) Find(ctx context.Context, id uuid.UUID) (*Product, error) {
	var rec productRecord
	err := s.db.WithContext(ctx).Where("id = ?", rowID(id)).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}
	product := rec.toProduct()
	return &product, nil
}

func (s *GormStore) All(ctx context.Context) ([]Product, error) {
	return s.list("all products", s.db.WithContext(ctx))
}

func (s *GormStore) FindByName(ctx context.Context, name string) ([]Product, error) {
	return s.list("products by name", s.db.WithContext(ctx).Where("name = ?", name))
}

func (s *GormStore) FindByAvailability(ctx context.Context, available bool) ([]Product, error) {
	return s.list("products by availability", s.db.WithContext(ctx).Where("available = ?", available))
}

func (s *GormStore) FindByCategory(ctx context.Context, category Category) ([]Product, error) {
	return s.list("products by category", s.db.WithContext(ctx).Where("category = ?", string(category)))
}

// Ping verifies the underlying connection pool can reach the database.
func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *GormStore) list(what string, stmt *gorm.DB) ([]Product, error) {
	var records []productRecord
	if err := stmt.Order("id").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to find %s: %w", what, err)
	}
	products := make([]Product, 0, len(records))
	for _, rec := range records {
		products = append(products, rec.toProduct())
	}
	return products, nil
}
