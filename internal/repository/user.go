package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/evermart/shop-api/internal/domain/user"
)

const (
	createUserSQL = `INSERT INTO users (id, name, email, password_hash, role, balance)
		VALUES ($1, $2, $3, $4, $5, $6)`

	getUserByIDSQL = `SELECT id, name, email, password_hash, role, balance, created_at
		FROM users WHERE id = $1`

	getUserByEmailSQL = `SELECT id, name, email, password_hash, role, balance, created_at
		FROM users WHERE email = $1`

	debitBalanceSQL = `UPDATE users SET balance = balance - $2 WHERE id = $1`
)

var (
	_ user.Repository    = (*UserRepository)(nil)
	_ user.BalanceLedger = (*UserRepository)(nil)
)

// UserRepository implements user.Repository and user.BalanceLedger backed by
// PostgreSQL.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a UserRepository that uses the given pool.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// Create persists a new user account. A unique-violation on the email column
// is reported as user.ErrEmailTaken.
func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	_, err := dbFrom(ctx, r.pool).Exec(ctx, createUserSQL,
		u.ID, u.Name, u.Email, u.PasswordHash, u.Role, u.Balance,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return user.ErrEmailTaken
		}
		return fmt.Errorf("creating user %q: %w", u.Email, err)
	}
	return nil
}

// GetByID returns a single user by identifier.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*user.User, error) {
	return r.getOne(ctx, getUserByIDSQL, id)
}

// GetByEmail returns a single user by email address.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.getOne(ctx, getUserByEmailSQL, email)
}

func (r *UserRepository) getOne(ctx context.Context, sql, arg string) (*user.User, error) {
	rows, err := dbFrom(ctx, r.pool).Query(ctx, sql, arg)
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}

	u, err := pgx.CollectExactlyOneRow(rows, scanUser)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrNotFound
		}
		return nil, fmt.Errorf("getting user: %w", err)
	}
	return &u, nil
}

// Debit subtracts amount from the user's balance inside the unit of work
// carried by ctx.
func (r *UserRepository) Debit(ctx context.Context, userID string, amount decimal.Decimal) error {
	tag, err := dbFrom(ctx, r.pool).Exec(ctx, debitBalanceSQL, userID, amount)
	if err != nil {
		return fmt.Errorf("debiting user %q: %w", userID, err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrNotFound
	}
	return nil
}

func scanUser(row pgx.CollectableRow) (user.User, error) {
	var u user.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.Balance, &u.CreatedAt)
	return u, err
}
