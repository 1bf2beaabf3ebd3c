package order

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Order statuses.
const StatusProcessed = "processed"

// Sentinel errors for order placement and lookup.
var (
	ErrNotFound            = errors.New("order not found")
	ErrEmptyItems          = errors.New("items required")
	ErrInvalidQuantity     = errors.New("quantity must be greater than 0")
	ErrInsufficientBalance = errors.New("insufficient balance to complete the purchase")
)

// ItemCreateError indicates an order item row could not be persisted.
type ItemCreateError struct {
	ProductID string
	Err       error
}

func (e *ItemCreateError) Error() string {
	return fmt.Sprintf("fail to create order item for product %s: %v", e.ProductID, e.Err)
}

func (e *ItemCreateError) Unwrap() error { return e.Err }

// Order is a placed order header. TotalAmount is the sum of discounted line
// totals and TotalDiscount the sum of per-line discount amounts; both are
// written exactly once, after every line has been priced.
type Order struct {
	ID            string
	UserID        string
	OrderOwner    string
	PhoneNumber   string
	CardNumber    string
	TotalAmount   decimal.Decimal
	TotalDiscount decimal.Decimal
	Status        string
	CreatedAt     time.Time
}

// Address is the shipping address created alongside an order header.
type Address struct {
	ID      string
	OrderID string
	Street  string
	City    string
	Pin     string
	State   string
}

// Item is one order line. UnitPrice snapshots the product price at purchase
// time so later catalog changes do not alter historical orders. TotalPrice is
// quantity times UnitPrice, before discount.
type Item struct {
	ID         string
	OrderID    string
	ProductID  string
	Quantity   int
	UnitPrice  decimal.Decimal
	TotalPrice decimal.Decimal
}

// Summary is the per-order projection returned by order listings.
type Summary struct {
	ID            string
	CreatedAt     time.Time
	TotalDiscount decimal.Decimal
	TotalAmount   decimal.Decimal
	Status        string
}

// Detail is the full order view returned by single-order lookups.
type Detail struct {
	Order   Order
	Address Address
	Items   []Item
}

// Repository defines persistence operations for orders. The write operations
// participate in the unit of work carried by ctx.
type Repository interface {
	CreateHeader(ctx context.Context, o *Order) error
	CreateAddress(ctx context.Context, a *Address) error
	CreateItem(ctx context.Context, it *Item) error
	SetTotals(ctx context.Context, orderID string, totalAmount, totalDiscount decimal.Decimal) error
	ListByUser(ctx context.Context, userID string) ([]Summary, error)
	ListAll(ctx context.Context) ([]Summary, error)
	GetByID(ctx context.Context, id string) (*Detail, error)
}

// UnitOfWork runs fn inside an atomic scope: every write issued through the
// ctx passed to fn either commits as a whole or is discarded as a whole.
// Returning an error from fn aborts the scope; no partial state survives.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
