// Command catalog-ingest bulk-loads product records from gzipped JSONL
// supplier feeds into PostgreSQL. Feeds are streamed concurrently and SKUs
// are deduplicated across files with a bloom filter, so arbitrarily large
// dumps never hold the full SKU set in memory. The first feed to carry a SKU
// wins; later occurrences leave the stored row untouched.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"
	pgzip "github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/evermart/shop-api/internal/repository"
)

const (
	bloomCapacity = 10_000_000
	bloomFPR      = 0.001
	progressEvery = 100_000
)

// feedProduct is one line of a supplier feed.
type feedProduct struct {
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	Stock        int             `json:"stock"`
	DiscountRate decimal.Decimal `json:"discountRate"`
	Category     string          `json:"category"`
}

func (p feedProduct) validate() error {
	switch {
	case p.SKU == "":
		return errors.New("missing sku")
	case p.Name == "":
		return errors.New("missing name")
	case p.Price.Sign() <= 0:
		return errors.New("price must be positive")
	case p.Stock < 0:
		return errors.New("stock must not be negative")
	}
	one := decimal.NewFromInt(1)
	if p.DiscountRate.Sign() <= 0 || p.DiscountRate.GreaterThan(one) {
		return errors.New("discountRate must be in (0, 1]")
	}
	return nil
}

func main() {
	var (
		dataDir     string
		databaseURL string
	)

	flag.StringVar(&dataDir, "data-dir", "data", "directory containing *.jsonl.gz feed files")
	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
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

	if err := run(ctx, dataDir, databaseURL); err != nil {
		slog.Error("catalog ingest failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("catalog ingest completed successfully")
}

func run(ctx context.Context, dataDir, databaseURL string) error {
	feeds, err := filepath.Glob(filepath.Join(dataDir, "*.jsonl.gz"))
	if err != nil {
		return errors.Wrap(err, "glob feed files")
	}
	if len(feeds) == 0 {
		return errors.Errorf("no *.jsonl.gz files in %s", dataDir)
	}

	slog.Info("connecting to database")

	pool, err := repository.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	if err := repository.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	ing := newIngester(pool)

	slog.Info("ingesting feeds", slog.Int("files", len(feeds)))

	g, ctx := errgroup.WithContext(ctx)
	for _, feed := range feeds {
		g.Go(ing.ingestFeed(ctx, feed))
	}
	if err := g.Wait(); err != nil {
		return err
	}

	slog.Info("ingest summary",
		slog.Uint64("inserted", ing.inserted),
		slog.Uint64("duplicates", ing.duplicates),
		slog.Uint64("invalid", ing.invalid),
	)
	return nil
}

const (
	// For a SKU the bloom filter has definitely not seen yet.
	upsertSQL = `
INSERT INTO products (id, name, price, stock, discount_rate, category)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (id) DO UPDATE SET
    name          = EXCLUDED.name,
    price         = EXCLUDED.price,
    stock         = EXCLUDED.stock,
    discount_rate = EXCLUDED.discount_rate,
    category      = EXCLUDED.category`

	// For a possibly-seen SKU: the filter can report false positives, so the
	// row is still written, but an existing row wins.
	insertIfAbsentSQL = `
INSERT INTO products (id, name, price, stock, discount_rate, category)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (id) DO NOTHING`
)

// ingester shares the SKU bloom filter and counters across feed goroutines.
type ingester struct {
	pool *pgxpool.Pool

	mu   sync.Mutex
	seen *bloom.BloomFilter

	inserted   uint64
	duplicates uint64
	invalid    uint64
}

func newIngester(pool *pgxpool.Pool) *ingester {
	return &ingester{
		pool: pool,
		seen: bloom.NewWithEstimates(bloomCapacity, bloomFPR),
	}
}

// markSeen records the SKU and reports whether it may have been seen before.
func (ing *ingester) markSeen(sku string) bool {
	ing.mu.Lock()
	defer ing.mu.Unlock()
	return ing.seen.TestAndAddString(sku)
}

func (ing *ingester) ingestFeed(ctx context.Context, path string) func() error {
	return func() error {
		name := filepath.Base(path)
		var lines uint64

		err := streamLines(ctx, path, func(line []byte) error {
			lines++
			if lines%progressEvery == 0 {
				slog.Info("feed progress", slog.String("feed", name), slog.Uint64("lines", lines))
			}

			var p feedProduct
			if err := json.Unmarshal(line, &p); err != nil {
				ing.bumpInvalid()
				slog.Warn("skipping malformed line",
					slog.String("feed", name), slog.Uint64("line", lines), slog.String("error", err.Error()))
				return nil
			}
			if err := p.validate(); err != nil {
				ing.bumpInvalid()
				slog.Warn("skipping invalid product",
					slog.String("feed", name), slog.String("sku", p.SKU), slog.String("error", err.Error()))
				return nil
			}

			return ing.store(ctx, p)
		})
		if err != nil {
			return errors.Wrapf(err, "ingest %s", name)
		}

		slog.Info("feed complete", slog.String("feed", name), slog.Uint64("lines", lines))
		return nil
	}
}

func (ing *ingester) store(ctx context.Context, p feedProduct) error {
	maybeSeen := ing.markSeen(p.SKU)

	sql := upsertSQL
	if maybeSeen {
		sql = insertIfAbsentSQL
	}

	tag, err := ing.pool.Exec(ctx, sql,
		p.SKU, p.Name, p.Price, p.Stock, p.DiscountRate, p.Category)
	if err != nil {
		return errors.Wrapf(err, "store product %s", p.SKU)
	}

	ing.mu.Lock()
	if tag.RowsAffected() == 0 {
		ing.duplicates++
	} else {
		ing.inserted++
	}
	ing.mu.Unlock()
	return nil
}

func (ing *ingester) bumpInvalid() {
	ing.mu.Lock()
	ing.invalid++
	ing.mu.Unlock()
}

// streamLines opens a gzip-compressed file and calls fn for each line.
func streamLines(ctx context.Context, path string, fn func(line []byte) error) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "open %s", path)
	}
	defer func() { _ = f.Close() }()

	gz, err := pgzip.NewReader(f)
	if err != nil {
		return errors.Wrapf(err, "create gzip reader for %s", path)
	}
	defer func() { _ = gz.Close() }()

	scanner := bufio.NewScanner(gz)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if len(scanner.Bytes()) == 0 {
			continue
		}
		if err := fn(scanner.Bytes()); err != nil {
			return err
		}
	}

	if err := scanner.Err(); err != nil {
		return errors.Wrapf(err, "scan %s", path)
	}
	return nil
}
