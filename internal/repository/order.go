package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/evermart/shop-api/internal/domain/order"
)

const (
	createOrderSQL = `INSERT INTO orders (id, user_id, order_owner, phone_number, card_number, order_status)
		VALUES ($1, $2, $3, $4, $5, $6)`

	createAddressSQL = `INSERT INTO addresses (id, order_id, street, city, pin, state)
		VALUES ($1, $2, $3, $4, $5, $6)`

	createOrderItemSQL = `INSERT INTO order_items (id, order_id, product_id, quantity, unit_price, total_price)
		VALUES ($1, $2, $3, $4, $5, $6)`

	setOrderTotalsSQL = `UPDATE orders SET total_amount = $2, total_discount = $3 WHERE id = $1`

	listOrdersByUserSQL = `SELECT id, created_at, total_discount, total_amount, order_status
		FROM orders WHERE user_id = $1 ORDER BY created_at DESC`

	listAllOrdersSQL = `SELECT id, created_at, total_discount, total_amount, order_status
		FROM orders ORDER BY created_at DESC`

	getOrderByIDSQL = `SELECT id, user_id, order_owner, phone_number, card_number,
		total_amount, total_discount, order_status, created_at
		FROM orders WHERE id = $1`

	getAddressByOrderSQL = `SELECT id, order_id, street, city, pin, state
		FROM addresses WHERE order_id = $1`

	listItemsByOrderSQL = `SELECT id, order_id, product_id, quantity, unit_price, total_price
		FROM order_items WHERE order_id = $1 ORDER BY id`
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL. All write
// operations run through the unit of work carried by ctx when one is open.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// CreateHeader persists the order header row with zero totals. Totals are
// written later by SetTotals, after every line has been priced.
func (r *OrderRepository) CreateHeader(ctx context.Context, o *order.Order) error {
	_, err := dbFrom(ctx, r.pool).Exec(ctx, createOrderSQL,
		o.ID, o.UserID, o.OrderOwner, o.PhoneNumber, o.CardNumber, o.Status,
	)
	if err != nil {
		return fmt.Errorf("creating order %q: %w", o.ID, err)
	}
	return nil
}

// CreateAddress persists the shipping address row for an order.
func (r *OrderRepository) CreateAddress(ctx context.Context, a *order.Address) error {
	_, err := dbFrom(ctx, r.pool).Exec(ctx, createAddressSQL,
		a.ID, a.OrderID, a.Street, a.City, a.Pin, a.State,
	)
	if err != nil {
		return fmt.Errorf("creating address for order %q: %w", a.OrderID, err)
	}
	return nil
}

// CreateItem persists one order line.
func (r *OrderRepository) CreateItem(ctx context.Context, it *order.Item) error {
	_, err := dbFrom(ctx, r.pool).Exec(ctx, createOrderItemSQL,
		it.ID, it.OrderID, it.ProductID, it.Quantity, it.UnitPrice, it.TotalPrice,
	)
	if err != nil {
		return fmt.Errorf("creating item for order %q: %w", it.OrderID, err)
	}
	return nil
}

// SetTotals writes the order's final amount and accumulated discount.
func (r *OrderRepository) SetTotals(ctx context.Context, orderID string, totalAmount, totalDiscount decimal.Decimal) error {
	tag, err := dbFrom(ctx, r.pool).Exec(ctx, setOrderTotalsSQL, orderID, totalAmount, totalDiscount)
	if err != nil {
		return fmt.Errorf("setting totals for order %q: %w", orderID, err)
	}
	if tag.RowsAffected() == 0 {
		return order.ErrNotFound
	}
	return nil
}

// ListByUser returns summaries of the user's orders, newest first.
func (r *OrderRepository) ListByUser(ctx context.Context, userID string) ([]order.Summary, error) {
	rows, err := dbFrom(ctx, r.pool).Query(ctx, listOrdersByUserSQL, userID)
	if err != nil {
		return nil, fmt.Errorf("listing orders for user %q: %w", userID, err)
	}
	return pgx.CollectRows(rows, scanSummary)
}

// ListAll returns summaries of every order, newest first.
func (r *OrderRepository) ListAll(ctx context.Context) ([]order.Summary, error) {
	rows, err := dbFrom(ctx, r.pool).Query(ctx, listAllOrdersSQL)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	return pgx.CollectRows(rows, scanSummary)
}

// GetByID returns the full order detail: header, address, and lines.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*order.Detail, error) {
	db := dbFrom(ctx, r.pool)

	var d order.Detail
	err := db.QueryRow(ctx, getOrderByIDSQL, id).Scan(
		&d.Order.ID, &d.Order.UserID, &d.Order.OrderOwner, &d.Order.PhoneNumber,
		&d.Order.CardNumber, &d.Order.TotalAmount, &d.Order.TotalDiscount,
		&d.Order.Status, &d.Order.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrNotFound
		}
		return nil, fmt.Errorf("getting order %q: %w", id, err)
	}

	err = db.QueryRow(ctx, getAddressByOrderSQL, id).Scan(
		&d.Address.ID, &d.Address.OrderID, &d.Address.Street,
		&d.Address.City, &d.Address.Pin, &d.Address.State,
	)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("getting address for order %q: %w", id, err)
	}

	rows, err := db.Query(ctx, listItemsByOrderSQL, id)
	if err != nil {
		return nil, fmt.Errorf("listing items for order %q: %w", id, err)
	}
	d.Items, err = pgx.CollectRows(rows, scanItem)
	if err != nil {
		return nil, fmt.Errorf("listing items for order %q: %w", id, err)
	}

	return &d, nil
}

func scanSummary(row pgx.CollectableRow) (order.Summary, error) {
	var s order.Summary
	err := row.Scan(&s.ID, &s.CreatedAt, &s.TotalDiscount, &s.TotalAmount, &s.Status)
	return s, err
}

func scanItem(row pgx.CollectableRow) (order.Item, error) {
	var it order.Item
	err := row.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Quantity, &it.UnitPrice, &it.TotalPrice)
	return it, err
}
