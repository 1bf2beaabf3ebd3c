package product

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned by repositories when a product does not exist.
var ErrNotFound = errors.New("product not found")

// Product represents a catalog item available for purchase. DiscountRate is a
// multiplicative factor in (0, 1] applied to line totals; 1 means no discount.
type Product struct {
	ID           string
	Name         string
	Price        decimal.Decimal
	Stock        int
	DiscountRate decimal.Decimal
	Category     string
}

// CheckAvailability reports whether the product has enough stock on hand to
// satisfy the requested quantity.
func CheckAvailability(p Product, quantity int) bool {
	return p.Stock >= quantity
}

// InsufficientStockError indicates a line item requested more units than the
// product has in stock.
type InsufficientStockError struct {
	ProductID string
	Name      string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("not enough stock for product: %s", e.Name)
}

// NotFoundError carries the identifier of a requested product that does not
// exist, so callers can report which line item failed.
type NotFoundError struct {
	ProductID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("product %s not found", e.ProductID)
}

// Repository defines read operations for the product catalog.
type Repository interface {
	List(ctx context.Context) ([]Product, error)
	GetByID(ctx context.Context, id string) (*Product, error)
}

// StockLedger applies stock decrements. Reserve writes product.Stock minus
// quantity through the unit of work carried by ctx; the decrement is visible
// only within that unit of work until it commits.
type StockLedger interface {
	Reserve(ctx context.Context, p Product, quantity int) error
}
