package user

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Roles assignable to a user account.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Sentinel errors for user lookup and registration.
var (
	ErrNotFound    = errors.New("user not found")
	ErrEmailTaken  = errors.New("email already registered")
	ErrBadPassword = errors.New("invalid credentials")
)

// User is a store account. Balance is the prepaid amount available for
// purchases; it never goes negative through a successful debit.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         string
	Balance      decimal.Decimal
	CreatedAt    time.Time
}

// HasSufficientFunds reports whether the user's balance covers amount.
func HasSufficientFunds(u User, amount decimal.Decimal) bool {
	return u.Balance.GreaterThanOrEqual(amount)
}

// Repository defines persistence operations for user accounts.
type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
}

// BalanceLedger applies balance debits. Debit writes user.Balance minus
// amount through the unit of work carried by ctx.
type BalanceLedger interface {
	Debit(ctx context.Context, userID string, amount decimal.Decimal) error
}
