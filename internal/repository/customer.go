package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"traderhub-api/internal/model"
	"traderhub-api/internal/store"
)

// SQLCustomerRepository implements CustomerRepository over the shared store.
type SQLCustomerRepository struct {
	db *store.DB
}

// NewCustomerRepository creates a shop customer repository.
func NewCustomerRepository(db *store.DB) *SQLCustomerRepository {
	return &SQLCustomerRepository{db: db}
}

const customerColumns = `id, email, password_hash, full_name, phone, address, city, created_at, updated_at`

func scanCustomer(row interface{ Scan(...interface{}) error }) (*model.ShopCustomer, error) {
	var (
		c    model.ShopCustomer
		addr sql.NullString
	)
	err := row.Scan(&c.ID, &c.Email, &c.PasswordHash, &c.FullName,
		&c.Phone, &addr, &c.City, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan customer: %w", err)
	}
	c.Address = addr.String
	return &c, nil
}

func (r *SQLCustomerRepository) Create(ctx context.Context, c *model.ShopCustomer) error {
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now
	id, err := insertReturningID(ctx, r.db, r.db.DB, `
		INSERT INTO shop_customers (email, password_hash, full_name, phone, address, city, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.Email, c.PasswordHash, c.FullName, c.Phone, c.Address, c.City, now, now)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrEmailTaken
		}
		return fmt.Errorf("failed to create customer: %w", err)
	}
	c.ID = id
	return nil
}

func (r *SQLCustomerRepository) GetByID(ctx context.Context, id int64) (*model.ShopCustomer, error) {
	row := r.db.QueryRowContext(ctx, r.db.Rebind(
		`SELECT `+customerColumns+` FROM shop_customers WHERE id = ?`), id)
	return scanCustomer(row)
}

func (r *SQLCustomerRepository) GetByEmail(ctx context.Context, email string) (*model.ShopCustomer, error) {
	row := r.db.QueryRowContext(ctx, r.db.Rebind(
		`SELECT `+customerColumns+` FROM shop_customers WHERE email = ?`), email)
	return scanCustomer(row)
}

func (r *SQLCustomerRepository) Update(ctx context.Context, c *model.ShopCustomer) error {
	c.UpdatedAt = time.Now().UTC()
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
		UPDATE shop_customers SET full_name = ?, phone = ?, address = ?, city = ?, updated_at = ?
		WHERE id = ?`),
		c.FullName, c.Phone, c.Address, c.City, c.UpdatedAt, c.ID)
	if err != nil {
		return fmt.Errorf("failed to update customer: %w", err)
	}
	return nil
}

var _ CustomerRepository = (*SQLCustomerRepository)(nil)
