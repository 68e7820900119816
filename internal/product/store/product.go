package store

import (
	"fmt"
	"strings"
	"unicode/utf8"

	perrors "github.com/abgdnv/catalog/internal/product/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Column limits of the products table.
const (
	MaxNameLength        = 100
	MaxDescriptionLength = 250
)

// MaxPrice is the largest magnitude a NUMERIC(14,2) price column holds.
var MaxPrice = decimal.RequireFromString("999999999999.99")

// Category classifies a product. The set of valid values is fixed.
type Category string

const (
	CategoryUnknown    Category = "UNKNOWN"
	CategoryCloths     Category = "CLOTHS"
	CategoryFood       Category = "FOOD"
	CategoryHousewares Category = "HOUSEWARES"
	CategoryAutomotive Category = "AUTOMOTIVE"
	CategoryTools      Category = "TOOLS"
)

var categories = []Category{
	CategoryUnknown,
	CategoryCloths,
	CategoryFood,
	CategoryHousewares,
	CategoryAutomotive,
	CategoryTools,
}

// Categories returns every valid category in declaration order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// IsValid reports whether c is a member of the category set.
func (c Category) IsValid() bool {
	for _, known := range categories {
		if c == known {
			return true
		}
	}
	return false
}

func (c Category) String() string {
	return string(c)
}

// ParseCategory converts a case-insensitive category name into a Category.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToUpper(strings.TrimSpace(s)))
	if !c.IsValid() {
		return "", fmt.Errorf("unknown product category %q", s)
	}
	return c, nil
}

// Product represents a product entity in the store.
// ID is assigned by the store on Create and stays stable afterwards.
type Product struct {
	ID          uuid.UUID
	Name        string          `validate:"required,max=100"`
	Description string          `validate:"max=250"`
	Price       decimal.Decimal `validate:"price"`
	Available   bool
	Category    Category `validate:"category"`
}

// String renders the product for diagnostic logging.
func (p Product) String() string {
	return fmt.Sprintf("<Product %s id=[%s] description=%q price=%s available=%t category=%s>",
		p.Name, p.ID, p.Description, p.Price.StringFixed(2), p.Available, p.Category)
}

// Equal compares all fields. Prices are compared numerically, so 5 and 5.00 are equal.
func (p Product) Equal(other Product) bool {
	return p.ID == other.ID &&
		p.Name == other.Name &&
		p.Description == other.Description &&
		p.Price.Equal(other.Price) &&
		p.Available == other.Available &&
		p.Category == other.Category
}

// checkRow applies the column constraints of the products table to p.
// Lengths count characters, and the price is checked after rounding to cents.
func checkRow(p Product) error {
	switch {
	case p.Name == "":
		return fmt.Errorf("%w: name must not be empty", perrors.ErrConstraintViolation)
	case utf8.RuneCountInString(p.Name) > MaxNameLength:
		return fmt.Errorf("%w: name longer than %d characters", perrors.ErrConstraintViolation, MaxNameLength)
	case utf8.RuneCountInString(p.Description) > MaxDescriptionLength:
		return fmt.Errorf("%w: description longer than %d characters", perrors.ErrConstraintViolation, MaxDescriptionLength)
	case p.Price.Round(2).Abs().GreaterThan(MaxPrice):
		return fmt.Errorf("%w: price %s out of range", perrors.ErrConstraintViolation, p.Price)
	case !p.Category.IsValid():
		return fmt.Errorf("%w: unknown category %q", perrors.ErrConstraintViolation, p.Category)
	}
	return nil
}
