package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"traderhub-api/internal/model"
	"traderhub-api/internal/store"
)

// SQLOrderRepository implements OrderRepository over the shared store.
type SQLOrderRepository struct {
	db *store.DB
}

// NewOrderRepository creates an order repository.
func NewOrderRepository(db *store.DB) *SQLOrderRepository {
	return &SQLOrderRepository{db: db}
}

const orderColumns = `id, source_id, trader_id, customer_email, total, status, version, created_at, synced_at`

func scanOrder(row interface{ Scan(...interface{}) error }) (*model.Order, error) {
	var o model.Order
	err := row.Scan(&o.ID, &o.SourceID, &o.TraderID, &o.CustomerEmail,
		&o.Total, &o.Status, &o.Version, &o.CreatedAt, &o.SyncedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *SQLOrderRepository) GetBySourceID(ctx context.Context, sourceID int64) (*model.Order, error) {
	row := r.db.QueryRowContext(ctx, r.db.Rebind(
		`SELECT `+orderColumns+` FROM orders WHERE source_id = ?`), sourceID)
	o, err := scanOrder(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return o, nil
}

func (r *SQLOrderRepository) Create(ctx context.Context, o *model.Order, items []model.OrderItem) error {
	now := time.Now().UTC()
	if o.CreatedAt.IsZero() {
		o.CreatedAt = now
	}
	if o.SyncedAt.IsZero() {
		o.SyncedAt = now
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	id, err := insertReturningID(ctx, r.db, tx, `
		INSERT INTO orders (source_id, trader_id, customer_email, total, status, version, created_at, synced_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		o.SourceID, o.TraderID, o.CustomerEmail, o.Total, o.Status, o.Version, o.CreatedAt, o.SyncedAt)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}
	o.ID = id

	itemStmt := r.db.Rebind(`
		INSERT INTO order_items (order_id, product_id, quantity, price_snapshot)
		VALUES (?, ?, ?, ?)`)
	for i := range items {
		items[i].OrderID = id
		if _, err := tx.ExecContext(ctx, itemStmt,
			id, items[i].ProductID, items[i].Quantity, items[i].PriceSnapshot); err != nil {
			return fmt.Errorf("failed to insert order item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit order: %w", err)
	}
	return nil
}

func (r *SQLOrderRepository) UpdateSync(ctx context.Context, o *model.Order) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
		UPDATE orders SET total = ?, status = ?, version = ?, synced_at = ? WHERE id = ?`),
		o.Total, o.Status, o.Version, o.SyncedAt, o.ID)
	if err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}
	return nil
}

func (r *SQLOrderRepository) listPage(ctx context.Context, where string, args []interface{}, page, limit int) ([]model.Order, int64, error) {
	_, limit, offset := clampPage(page, limit)

	var total int64
	if err := r.db.QueryRowContext(ctx, r.db.Rebind(
		`SELECT COUNT(*) FROM orders`+where), args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	listArgs := append(append([]interface{}{}, args...), limit, offset)
	rows, err := r.db.QueryContext(ctx, r.db.Rebind(`
		SELECT `+orderColumns+` FROM orders`+where+`
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?`), listArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	out := []model.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *o)
	}
	return out, total, rows.Err()
}

func (r *SQLOrderRepository) ListByTrader(ctx context.Context, traderID int64, page, limit int) ([]model.Order, int64, error) {
	return r.listPage(ctx, ` WHERE trader_id = ?`, []interface{}{traderID}, page, limit)
}

func (r *SQLOrderRepository) ListByCustomer(ctx context.Context, traderID int64, email string, page, limit int) ([]model.Order, int64, error) {
	return r.listPage(ctx, ` WHERE trader_id = ? AND customer_email = ?`,
		[]interface{}{traderID, email}, page, limit)
}

func (r *SQLOrderRepository) GetForCustomer(ctx context.Context, orderID, traderID int64, email string) (*model.Order, error) {
	row := r.db.QueryRowContext(ctx, r.db.Rebind(`
		SELECT `+orderColumns+` FROM orders
		WHERE id = ? AND trader_id = ? AND customer_email = ?`), orderID, traderID, email)
	o, err := scanOrder(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return o, nil
}

func (r *SQLOrderRepository) Items(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	rows, err := r.db.QueryContext(ctx, r.db.Rebind(`
		SELECT oi.id, oi.order_id, oi.product_id, p.title, oi.quantity, oi.price_snapshot
		FROM order_items oi
		JOIN products p ON oi.product_id = p.id
		WHERE oi.order_id = ?
		ORDER BY oi.id`), orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list order items: %w", err)
	}
	defer rows.Close()

	out := []model.OrderItem{}
	for rows.Next() {
		var it model.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductTitle,
			&it.Quantity, &it.PriceSnapshot); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *SQLOrderRepository) Stats(ctx context.Context, traderID int64) (*model.OrderStats, error) {
	var (
		stats    model.OrderStats
		totalStr sql.NullString
	)
	err := r.db.QueryRowContext(ctx, r.db.Rebind(`
		SELECT COUNT(*), COALESCE(SUM(total), 0) FROM orders WHERE trader_id = ?`), traderID).
		Scan(&stats.TotalOrders, &totalStr)
	if err != nil {
		return nil, fmt.Errorf("failed to compute order stats: %w", err)
	}
	if totalStr.Valid {
		if rev, err := decimal.NewFromString(totalStr.String); err == nil {
			stats.TotalRevenue = rev
		}
	}
	err = r.db.QueryRowContext(ctx, r.db.Rebind(`
		SELECT COUNT(*) FROM orders WHERE trader_id = ? AND status = ?`), traderID, model.OrderPending).
		Scan(&stats.PendingOrders)
	if err != nil {
		return nil, fmt.Errorf("failed to count pending orders: %w", err)
	}
	return &stats, nil
}

var _ OrderRepository = (*SQLOrderRepository)(nil)
