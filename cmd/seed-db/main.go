// Command seed-db applies the schema and loads the demo catalog and demo
// user accounts into PostgreSQL. Safe to re-run: products upsert by SKU and
// existing users are left untouched.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/evermart/shop-api/internal/repository"
)

type productJSON struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	Stock        int             `json:"stock"`
	DiscountRate decimal.Decimal `json:"discountRate"`
	Category     string          `json:"category"`
}

type userJSON struct {
	Name     string          `json:"name"`
	Email    string          `json:"email"`
	Password string          `json:"password"`
	Role     string          `json:"role"`
	Balance  decimal.Decimal `json:"balance"`
}

func main() {
	var (
		databaseURL  string
		productsFile string
		usersFile    string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&productsFile, "products-file", "db/seed/products.json", "path to products JSON file")
	flag.StringVar(&usersFile, "users-file", "db/seed/users.json", "path to users JSON file")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, productsFile, usersFile); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, productsFile, usersFile string) error {
	slog.Info("connecting to database")

	pool, err := repository.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := repository.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	if err := seedProducts(ctx, pool, productsFile); err != nil {
		return errors.Wrap(err, "seed products")
	}

	if err := seedUsers(ctx, pool, usersFile); err != nil {
		return errors.Wrap(err, "seed users")
	}

	return nil
}

const upsertProductSQL = `
INSERT INTO products (id, name, price, stock, discount_rate, category)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (id) DO UPDATE SET
    name          = EXCLUDED.name,
    price         = EXCLUDED.price,
    stock         = EXCLUDED.stock,
    discount_rate = EXCLUDED.discount_rate,
    category      = EXCLUDED.category`

func seedProducts(ctx context.Context, pool *pgxpool.Pool, path string) error {
	slog.Info("reading products file", slog.String("path", path))

	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "read products file")
	}

	var products []productJSON
	if err := json.Unmarshal(data, &products); err != nil {
		return errors.Wrap(err, "parse products JSON")
	}

	slog.Info("upserting products", slog.Int("count", len(products)))

	for _, p := range products {
		_, err := pool.Exec(ctx, upsertProductSQL,
			p.ID, p.Name, p.Price, p.Stock, p.DiscountRate, p.Category)
		if err != nil {
			return errors.Wrapf(err, "upsert product %s", p.ID)
		}

		slog.Info("upserted product", slog.String("id", p.ID), slog.String("name", p.Name))
	}

	return nil
}

const insertUserSQL = `
INSERT INTO users (id, name, email, password_hash, role, balance)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (email) DO NOTHING`

func seedUsers(ctx context.Context, pool *pgxpool.Pool, path string) error {
	slog.Info("reading users file", slog.String("path", path))

	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "read users file")
	}

	var users []userJSON
	if err := json.Unmarshal(data, &users); err != nil {
		return errors.Wrap(err, "parse users JSON")
	}

	slog.Info("creating users", slog.Int("count", len(users)))

	for _, u := range users {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			return errors.Wrapf(err, "hash password for %s", u.Email)
		}

		tag, err := pool.Exec(ctx, insertUserSQL,
			uuid.New(), u.Name, u.Email, string(hash), u.Role, u.Balance)
		if err != nil {
			return errors.Wrapf(err, "create user %s", u.Email)
		}

		if tag.RowsAffected() == 0 {
			slog.Info("user already exists, skipping", slog.String("email", u.Email))
			continue
		}
		slog.Info("created user", slog.String("email", u.Email), slog.String("role", u.Role))
	}

	return nil
}
