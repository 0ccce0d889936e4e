package store

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"traderhub-api/internal/config"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	_ "github.com/lib/pq"              // PostgreSQL driver
	_ "modernc.org/sqlite"             // Pure Go SQLite driver - no CGO required
)

// Dialect identifies the SQL backend in use.
type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
	MySQL    Dialect = "mysql"
)

// DB wraps *sql.DB with the dialect so repositories can be written once
// with ? placeholders and rebound for Postgres.
type DB struct {
	*sql.DB
	dialect Dialect
}

// Dialect returns the backend dialect.
func (d *DB) Dialect() Dialect { return d.dialect }

// Rebind converts ? placeholders to $N for Postgres; other dialects use
// the query unchanged.
func (d *DB) Rebind(query string) string {
	if d.dialect != Postgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

// Open connects to the configured backend, applies pool settings, pings
// it and creates the schema.
func Open(cfg config.DatabaseConfig) (*DB, error) {
	var (
		db      *sql.DB
		dialect Dialect
		err     error
	)

	switch cfg.Driver {
	case "postgres", "postgresql":
		dialect = Postgres
		db, err = sql.Open("postgres", cfg.PostgresDSN())
		if err == nil {
			db.SetMaxOpenConns(25)
			db.SetMaxIdleConns(10)
			db.SetConnMaxLifetime(5 * time.Minute)
		}
	case "mysql":
		dialect = MySQL
		db, err = sql.Open("mysql", cfg.MySQLDSN())
		if err == nil {
			db.SetMaxOpenConns(10)
			db.SetMaxIdleConns(5)
			db.SetConnMaxLifetime(5 * time.Minute)
		}
	default: // sqlite
		dialect = SQLite
		if dir := filepath.Dir(cfg.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create data dir: %w", err)
			}
		}
		dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=5000", cfg.Path)
		db, err = sql.Open("sqlite", dsn)
		if err == nil {
			db.SetMaxOpenConns(1) // SQLite only supports 1 writer
			db.SetMaxIdleConns(1)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", dialect, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping %s: %w", dialect, err)
	}

	wrapped := &DB{DB: db, dialect: dialect}
	if err := wrapped.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	log.Printf("[store] %s store initialized", dialect)
	return wrapped, nil
}

// column type aliases per dialect
func (d *DB) serialPK() string {
	switch d.dialect {
	case Postgres:
		return "BIGSERIAL PRIMARY KEY"
	case MySQL:
		return "BIGINT PRIMARY KEY AUTO_INCREMENT"
	default:
		return "INTEGER PRIMARY KEY AUTOINCREMENT"
	}
}

func (d *DB) timestampType() string {
	switch d.dialect {
	case Postgres:
		return "TIMESTAMPTZ"
	case MySQL:
		return "DATETIME(6)"
	default:
		return "DATETIME"
	}
}

func (d *DB) createSchema() error {
	pk := d.serialPK()
	ts := d.timestampType()

	stmts := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS traders (
			id %s,
			email VARCHAR(255) NOT NULL UNIQUE,
			password_hash VARCHAR(255) NOT NULL,
			business_name VARCHAR(255) NOT NULL,
			backend_user_id BIGINT NOT NULL DEFAULT 0,
			api_key VARCHAR(255) NOT NULL DEFAULT '',
			status VARCHAR(20) NOT NULL DEFAULT 'PENDING',
			created_at %s NOT NULL,
			updated_at %s NOT NULL
		)`, pk, ts, ts),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS categories (
			id %s,
			source_id BIGINT NOT NULL UNIQUE,
			name VARCHAR(255) NOT NULL,
			version VARCHAR(255) NOT NULL,
			synced_at %s NOT NULL
		)`, pk, ts),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS products (
			id %s,
			source_id BIGINT NOT NULL UNIQUE,
			title VARCHAR(255) NOT NULL,
			price NUMERIC(10,2) NOT NULL,
			central_stock INTEGER NOT NULL,
			category_id BIGINT NOT NULL REFERENCES categories(id),
			version VARCHAR(255) NOT NULL,
			synced_at %s NOT NULL
		)`, pk, ts),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS trader_products (
			id %s,
			trader_id BIGINT NOT NULL REFERENCES traders(id),
			product_id BIGINT NOT NULL REFERENCES products(id),
			local_description TEXT,
			local_notes TEXT,
			local_images TEXT NOT NULL DEFAULT '[]',
			visibility BOOLEAN NOT NULL DEFAULT TRUE,
			display_order INTEGER NOT NULL DEFAULT 0,
			created_at %s NOT NULL,
			updated_at %s NOT NULL,
			UNIQUE (trader_id, product_id)
		)`, pk, ts, ts),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS orders (
			id %s,
			source_id BIGINT NOT NULL UNIQUE,
			trader_id BIGINT NOT NULL REFERENCES traders(id),
			customer_email VARCHAR(255) NOT NULL DEFAULT '',
			total NUMERIC(10,2) NOT NULL,
			status VARCHAR(20) NOT NULL DEFAULT 'PENDING',
			version VARCHAR(255) NOT NULL DEFAULT '',
			created_at %s NOT NULL,
			synced_at %s NOT NULL
		)`, pk, ts, ts),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS order_items (
			id %s,
			order_id BIGINT NOT NULL REFERENCES orders(id),
			product_id BIGINT NOT NULL REFERENCES products(id),
			quantity INTEGER NOT NULL,
			price_snapshot NUMERIC(10,2) NOT NULL
		)`, pk),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS audit_logs (
			id %s,
			trader_id BIGINT NOT NULL DEFAULT 0,
			action VARCHAR(50) NOT NULL,
			entity VARCHAR(50) NOT NULL,
			entity_id BIGINT NOT NULL DEFAULT 0,
			audit_data TEXT NOT NULL DEFAULT '{}',
			created_at %s NOT NULL
		)`, pk, ts),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS selection_items (
			id %s,
			trader_id BIGINT NOT NULL REFERENCES traders(id),
			product_source_id BIGINT NOT NULL,
			created_at %s NOT NULL,
			UNIQUE (trader_id, product_source_id)
		)`, pk, ts),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS shop_customers (
			id %s,
			email VARCHAR(255) NOT NULL UNIQUE,
			password_hash VARCHAR(255) NOT NULL,
			full_name VARCHAR(255) NOT NULL,
			phone VARCHAR(50) NOT NULL DEFAULT '',
			address TEXT,
			city VARCHAR(100) NOT NULL DEFAULT '',
			created_at %s NOT NULL,
			updated_at %s NOT NULL
		)`, pk, ts, ts),
	}

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_products_category ON products(category_id)`,
		`CREATE INDEX IF NOT EXISTS idx_trader_products_trader ON trader_products(trader_id)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_trader ON orders(trader_id)`,
		`CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id)`,
		`CREATE INDEX IF NOT EXISTS idx_audit_logs_trader ON audit_logs(trader_id)`,
	}

	for _, stmt := range stmts {
		if _, err := d.Exec(stmt); err != nil {
			return err
		}
	}
	// MySQL before 8.0.13 has no IF NOT EXISTS for indexes; duplicate
	// index errors there are ignored.
	for _, stmt := range indexes {
		if d.dialect == MySQL {
			stmt = strings.Replace(stmt, " IF NOT EXISTS", "", 1)
		}
		if _, err := d.Exec(stmt); err != nil && d.dialect != MySQL {
			return err
		}
	}
	return nil
}
