// Command seed-db loads the starter dataset: restaurant tables, the default
// menu, and optionally an admin user. Safe to re-run; every insert is an
// upsert.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/qrdine/qrdine/internal/repository"
)

type menuItemJSON struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	PriceINR    decimal.Decimal `json:"price_inr"`
	PriceUSD    decimal.Decimal `json:"price_usd"`
	Category    string          `json:"category"`
	ImageURL    string          `json:"image_url"`
}

func main() {
	var (
		databaseURL   string
		menuFile      string
		tableCount    int
		adminEmail    string
		adminPassword string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&menuFile, "menu-file", "db/seed/menu.json", "path to menu JSON file (.gz supported)")
	flag.IntVar(&tableCount, "tables", 10, "number of restaurant tables to create")
	flag.StringVar(&adminEmail, "admin-email", "", "admin user email to seed (or QRDINE_SEED_ADMIN_EMAIL env)")
	flag.StringVar(&adminPassword, "admin-password", "", "admin user password (or QRDINE_SEED_ADMIN_PASSWORD env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}
	if adminEmail == "" {
		adminEmail = os.Getenv("QRDINE_SEED_ADMIN_EMAIL")
	}
	if adminPassword == "" {
		adminPassword = os.Getenv("QRDINE_SEED_ADMIN_PASSWORD")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, menuFile, tableCount, adminEmail, adminPassword); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, menuFile string, tableCount int, adminEmail, adminPassword string) error {
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

	if err := seedTables(ctx, pool, tableCount); err != nil {
		return errors.Wrap(err, "seed tables")
	}

	if err := seedMenu(ctx, pool, menuFile); err != nil {
		return errors.Wrap(err, "seed menu")
	}

	if adminEmail != "" && adminPassword != "" {
		if err := seedAdmin(ctx, pool, adminEmail, adminPassword); err != nil {
			return errors.Wrap(err, "seed admin user")
		}
	}

	return nil
}

func seedTables(ctx context.Context, pool *pgxpool.Pool, count int) error {
	slog.Info("upserting tables", slog.Int("count", count))

	for n := 1; n <= count; n++ {
		_, err := pool.Exec(ctx, `
			INSERT INTO restaurant_tables (table_number, table_name, qr_code_data, is_active)
			VALUES ($1, $2, $3, TRUE)
			ON CONFLICT (table_number) DO UPDATE SET
				table_name = EXCLUDED.table_name,
				qr_code_data = EXCLUDED.qr_code_data,
				is_active = TRUE
		`, n, fmt.Sprintf("Table %d", n), fmt.Sprintf("table-%d", n))
		if err != nil {
			return errors.Wrapf(err, "table %d", n)
		}
	}
	return nil
}

// openSeedFile opens the fixture, transparently decompressing .gz files.
func openSeedFile(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(path, ".gz") {
		return f, nil
	}
	zr, err := pgzip.NewReader(f)
	if err != nil {
		_ = f.Close()
		return nil, errors.Wrap(err, "gzip reader")
	}
	return struct {
		io.Reader
		io.Closer
	}{zr, f}, nil
}

func seedMenu(ctx context.Context, pool *pgxpool.Pool, menuFile string) error {
	slog.Info("reading menu file", slog.String("path", menuFile))

	r, err := openSeedFile(menuFile)
	if err != nil {
		return errors.Wrap(err, "open menu file")
	}
	defer r.Close()

	var items []menuItemJSON
	if err := json.NewDecoder(r).Decode(&items); err != nil {
		return errors.Wrap(err, "parse menu JSON")
	}

	slog.Info("upserting menu items", slog.Int("count", len(items)))

	for _, item := range items {
		_, err := pool.Exec(ctx, `
			INSERT INTO menu_items (name, description, price_inr, price_usd, category, image_url, is_available)
			SELECT $1, $2, $3, $4, $5, $6, TRUE
			WHERE NOT EXISTS (SELECT 1 FROM menu_items WHERE name = $1)
		`, item.Name, item.Description, item.PriceINR, item.PriceUSD, item.Category, item.ImageURL)
		if err != nil {
			return errors.Wrapf(err, "menu item %q", item.Name)
		}
	}
	return nil
}

func seedAdmin(ctx context.Context, pool *pgxpool.Pool, email, password string) error {
	slog.Info("upserting admin user", slog.String("email", email))

	hash, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	if err != nil {
		return errors.Wrap(err, "hash password")
	}

	_, err = pool.Exec(ctx, `
		INSERT INTO users (full_name, email, password_hash, role)
		VALUES ('Administrator', $1, $2, 'admin')
		ON CONFLICT (email) DO UPDATE SET
			password_hash = EXCLUDED.password_hash,
			role = 'admin'
	`, email, string(hash))
	return err
}
