package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/evermart/shop-api/internal/domain/product"
)

const (
	listProductsSQL = `SELECT id, name, price, stock, discount_rate, category
		FROM products ORDER BY id`

	getProductByIDSQL = `SELECT id, name, price, stock, discount_rate, category
		FROM products WHERE id = $1`

	reserveStockSQL = `UPDATE products SET stock = stock - $2
		WHERE id = $1 AND stock >= $2`
)

var (
	_ product.Repository  = (*ProductRepository)(nil)
	_ product.StockLedger = (*ProductRepository)(nil)
)

// ProductRepository implements product.Repository and product.StockLedger
// backed by PostgreSQL.
type ProductRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository returns a ProductRepository that uses the given pool.
func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

// List returns all products from the catalog ordered by ID.
func (r *ProductRepository) List(ctx context.Context) ([]product.Product, error) {
	rows, err := dbFrom(ctx, r.pool).Query(ctx, listProductsSQL)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	return pgx.CollectRows(rows, scanProduct)
}

// GetByID returns a single product by its identifier.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*product.Product, error) {
	rows, err := dbFrom(ctx, r.pool).Query(ctx, getProductByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting product %q: %w", id, err)
	}

	p, err := pgx.CollectExactlyOneRow(rows, scanProduct)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, product.ErrNotFound
		}
		return nil, fmt.Errorf("getting product %q: %w", id, err)
	}
	return &p, nil
}

// Reserve decrements the product's stock inside the unit of work carried by
// ctx. The UPDATE is guarded by stock >= quantity, so a concurrent placement
// that raced past the availability check cannot drive stock negative; the
// loser surfaces as InsufficientStockError.
func (r *ProductRepository) Reserve(ctx context.Context, p product.Product, quantity int) error {
	tag, err := dbFrom(ctx, r.pool).Exec(ctx, reserveStockSQL, p.ID, quantity)
	if err != nil {
		return fmt.Errorf("reserving %d of product %q: %w", quantity, p.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return &product.InsufficientStockError{ProductID: p.ID, Name: p.Name}
	}
	return nil
}

func scanProduct(row pgx.CollectableRow) (product.Product, error) {
	var p product.Product
	err := row.Scan(&p.ID, &p.Name, &p.Price, &p.Stock, &p.DiscountRate, &p.Category)
	return p, err
}
