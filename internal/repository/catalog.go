package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"traderhub-api/internal/model"
	"traderhub-api/internal/store"
)

// SQLCatalogRepository implements CatalogRepository over the shared store.
type SQLCatalogRepository struct {
	db *store.DB
}

// NewCatalogRepository creates a catalog repository.
func NewCatalogRepository(db *store.DB) *SQLCatalogRepository {
	return &SQLCatalogRepository{db: db}
}

func encodeImages(images []string) string {
	if images == nil {
		images = []string{}
	}
	data, _ := json.Marshal(images)
	return string(data)
}

func decodeImages(raw string) []string {
	var images []string
	if err := json.Unmarshal([]byte(raw), &images); err != nil || images == nil {
		return []string{}
	}
	return images
}

// --- categories ---

func (r *SQLCatalogRepository) scanCategory(row interface{ Scan(...interface{}) error }) (*model.Category, error) {
	var c model.Category
	err := row.Scan(&c.ID, &c.SourceID, &c.Name, &c.Version, &c.SyncedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan category: %w", err)
	}
	return &c, nil
}

func (r *SQLCatalogRepository) GetCategoryByName(ctx context.Context, name string) (*model.Category, error) {
	row := r.db.QueryRowContext(ctx, r.db.Rebind(
		`SELECT id, source_id, name, version, synced_at FROM categories WHERE name = ?`), name)
	return r.scanCategory(row)
}

func (r *SQLCatalogRepository) GetCategoryBySourceID(ctx context.Context, sourceID int64) (*model.Category, error) {
	row := r.db.QueryRowContext(ctx, r.db.Rebind(
		`SELECT id, source_id, name, version, synced_at FROM categories WHERE source_id = ?`), sourceID)
	return r.scanCategory(row)
}

func (r *SQLCatalogRepository) CreateCategory(ctx context.Context, c *model.Category) error {
	if c.SyncedAt.IsZero() {
		c.SyncedAt = time.Now().UTC()
	}
	id, err := insertReturningID(ctx, r.db, r.db.DB, `
		INSERT INTO categories (source_id, name, version, synced_at)
		VALUES (?, ?, ?, ?)`,
		c.SourceID, c.Name, c.Version, c.SyncedAt)
	if err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}
	c.ID = id
	return nil
}

func (r *SQLCatalogRepository) ListCategories(ctx context.Context) ([]model.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, source_id, name, version, synced_at FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	out := []model.Category{}
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.SourceID, &c.Name, &c.Version, &c.SyncedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// --- products ---

func (r *SQLCatalogRepository) GetProductBySourceID(ctx context.Context, sourceID int64) (*model.Product, error) {
	var p model.Product
	err := r.db.QueryRowContext(ctx, r.db.Rebind(`
		SELECT id, source_id, title, price, central_stock, category_id, version, synced_at
		FROM products WHERE source_id = ?`), sourceID).
		Scan(&p.ID, &p.SourceID, &p.Title, &p.Price, &p.CentralStock, &p.CategoryID, &p.Version, &p.SyncedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return &p, nil
}

func (r *SQLCatalogRepository) CreateProduct(ctx context.Context, p *model.Product) error {
	if p.SyncedAt.IsZero() {
		p.SyncedAt = time.Now().UTC()
	}
	id, err := insertReturningID(ctx, r.db, r.db.DB, `
		INSERT INTO products (source_id, title, price, central_stock, category_id, version, synced_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.SourceID, p.Title, p.Price, p.CentralStock, p.CategoryID, p.Version, p.SyncedAt)
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	p.ID = id
	return nil
}

func (r *SQLCatalogRepository) UpdateProductSync(ctx context.Context, p *model.Product) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
		UPDATE products SET price = ?, central_stock = ?, version = ?, synced_at = ?
		WHERE id = ?`),
		p.Price, p.CentralStock, p.Version, p.SyncedAt, p.ID)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	return nil
}

func (r *SQLCatalogRepository) ReplaceProduct(ctx context.Context, p *model.Product) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
		UPDATE products SET title = ?, price = ?, central_stock = ?, category_id = ?, version = ?, synced_at = ?
		WHERE id = ?`),
		p.Title, p.Price, p.CentralStock, p.CategoryID, p.Version, p.SyncedAt, p.ID)
	if err != nil {
		return fmt.Errorf("failed to replace product: %w", err)
	}
	return nil
}

// --- trader products ---

func (r *SQLCatalogRepository) GetTraderProduct(ctx context.Context, traderID, productID int64) (*model.TraderProduct, error) {
	var (
		tp     model.TraderProduct
		desc   sql.NullString
		notes  sql.NullString
		images string
	)
	err := r.db.QueryRowContext(ctx, r.db.Rebind(`
		SELECT id, trader_id, product_id, local_description, local_notes, local_images,
		       visibility, display_order, created_at, updated_at
		FROM trader_products WHERE trader_id = ? AND product_id = ?`), traderID, productID).
		Scan(&tp.ID, &tp.TraderID, &tp.ProductID, &desc, &notes, &images,
			&tp.Visibility, &tp.DisplayOrder, &tp.CreatedAt, &tp.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get trader product: %w", err)
	}
	tp.LocalDescription = desc.String
	tp.LocalNotes = notes.String
	tp.LocalImages = decodeImages(images)
	return &tp, nil
}

func (r *SQLCatalogRepository) CreateTraderProduct(ctx context.Context, tp *model.TraderProduct) error {
	now := time.Now().UTC()
	tp.CreatedAt = now
	tp.UpdatedAt = now
	id, err := insertReturningID(ctx, r.db, r.db.DB, `
		INSERT INTO trader_products (trader_id, product_id, local_description, local_notes, local_images,
		                             visibility, display_order, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		tp.TraderID, tp.ProductID, tp.LocalDescription, tp.LocalNotes, encodeImages(tp.LocalImages),
		tp.Visibility, tp.DisplayOrder, now, now)
	if err != nil {
		return fmt.Errorf("failed to create trader product: %w", err)
	}
	tp.ID = id
	return nil
}

func (r *SQLCatalogRepository) UpdateTraderProduct(ctx context.Context, tp *model.TraderProduct) error {
	tp.UpdatedAt = time.Now().UTC()
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
		UPDATE trader_products
		SET local_description = ?, local_notes = ?, local_images = ?, visibility = ?, display_order = ?, updated_at = ?
		WHERE id = ?`),
		tp.LocalDescription, tp.LocalNotes, encodeImages(tp.LocalImages),
		tp.Visibility, tp.DisplayOrder, tp.UpdatedAt, tp.ID)
	if err != nil {
		return fmt.Errorf("failed to update trader product: %w", err)
	}
	return nil
}

func (r *SQLCatalogRepository) SetDisplayOrder(ctx context.Context, traderID, productID int64, displayOrder int) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
		UPDATE trader_products SET display_order = ?, updated_at = ?
		WHERE trader_id = ? AND product_id = ?`),
		displayOrder, time.Now().UTC(), traderID, productID)
	if err != nil {
		return fmt.Errorf("failed to set display order: %w", err)
	}
	return nil
}

// --- joined views ---

const curatedColumns = `
	p.id, p.source_id, p.title, p.price, p.central_stock, p.category_id, c.name,
	tp.local_description, tp.local_notes, tp.local_images, tp.visibility, tp.display_order`

func scanCurated(rows interface{ Scan(...interface{}) error }) (*model.CuratedProduct, error) {
	var (
		cp     model.CuratedProduct
		desc   sql.NullString
		notes  sql.NullString
		images string
	)
	err := rows.Scan(&cp.ID, &cp.SourceID, &cp.Title, &cp.Price, &cp.CentralStock,
		&cp.CategoryID, &cp.CategoryName, &desc, &notes, &images, &cp.Visibility, &cp.DisplayOrder)
	if err != nil {
		return nil, err
	}
	cp.LocalDescription = desc.String
	cp.LocalNotes = notes.String
	cp.LocalImages = decodeImages(images)
	return &cp, nil
}

func (r *SQLCatalogRepository) ListCurated(ctx context.Context, traderID int64, page, limit int) ([]model.CuratedProduct, int64, error) {
	_, limit, offset := clampPage(page, limit)

	var total int64
	if err := r.db.QueryRowContext(ctx, r.db.Rebind(
		`SELECT COUNT(*) FROM trader_products WHERE trader_id = ?`), traderID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count trader products: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, r.db.Rebind(`
		SELECT `+curatedColumns+`
		FROM trader_products tp
		JOIN products p ON tp.product_id = p.id
		JOIN categories c ON p.category_id = c.id
		WHERE tp.trader_id = ?
		ORDER BY tp.display_order, p.title
		LIMIT ? OFFSET ?`), traderID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list trader products: %w", err)
	}
	defer rows.Close()

	out := []model.CuratedProduct{}
	for rows.Next() {
		cp, err := scanCurated(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *cp)
	}
	return out, total, rows.Err()
}

func (r *SQLCatalogRepository) GetCurated(ctx context.Context, traderID, productID int64) (*model.CuratedProduct, error) {
	row := r.db.QueryRowContext(ctx, r.db.Rebind(`
		SELECT `+curatedColumns+`
		FROM trader_products tp
		JOIN products p ON tp.product_id = p.id
		JOIN categories c ON p.category_id = c.id
		WHERE tp.trader_id = ? AND p.id = ?`), traderID, productID)
	cp, err := scanCurated(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get trader product: %w", err)
	}
	return cp, nil
}

func (r *SQLCatalogRepository) ListVisible(ctx context.Context, traderID int64, f VisibleFilter) ([]model.CuratedProduct, int64, error) {
	page, limit, offset := clampPage(f.Page, f.Limit)
	_ = page

	where := ` WHERE tp.trader_id = ? AND tp.visibility = ?`
	args := []interface{}{traderID, true}
	if f.CategoryID != 0 {
		where += ` AND p.category_id = ?`
		args = append(args, f.CategoryID)
	}
	if f.Search != "" {
		where += ` AND p.title ` + likeOp(r.db) + ` ?`
		args = append(args, "%"+f.Search+"%")
	}

	base := `
		FROM trader_products tp
		JOIN products p ON tp.product_id = p.id
		JOIN categories c ON p.category_id = c.id` + where

	var total int64
	if err := r.db.QueryRowContext(ctx, r.db.Rebind(`SELECT COUNT(*)`+base), args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count visible products: %w", err)
	}

	listArgs := append(append([]interface{}{}, args...), limit, offset)
	rows, err := r.db.QueryContext(ctx, r.db.Rebind(`
		SELECT `+curatedColumns+base+`
		ORDER BY tp.display_order DESC, p.title
		LIMIT ? OFFSET ?`), listArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list visible products: %w", err)
	}
	defer rows.Close()

	out := []model.CuratedProduct{}
	for rows.Next() {
		cp, err := scanCurated(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *cp)
	}
	return out, total, rows.Err()
}

func (r *SQLCatalogRepository) GetVisible(ctx context.Context, traderID, productID int64) (*model.CuratedProduct, error) {
	row := r.db.QueryRowContext(ctx, r.db.Rebind(`
		SELECT `+curatedColumns+`
		FROM trader_products tp
		JOIN products p ON tp.product_id = p.id
		JOIN categories c ON p.category_id = c.id
		WHERE tp.trader_id = ? AND tp.visibility = ? AND p.id = ?`), traderID, true, productID)
	cp, err := scanCurated(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get visible product: %w", err)
	}
	return cp, nil
}

func (r *SQLCatalogRepository) ListVisibleCategories(ctx context.Context, traderID int64) ([]model.Category, error) {
	rows, err := r.db.QueryContext(ctx, r.db.Rebind(`
		SELECT DISTINCT c.id, c.source_id, c.name, c.version, c.synced_at
		FROM trader_products tp
		JOIN products p ON tp.product_id = p.id
		JOIN categories c ON p.category_id = c.id
		WHERE tp.trader_id = ? AND tp.visibility = ?
		ORDER BY c.name`), traderID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list visible categories: %w", err)
	}
	defer rows.Close()

	out := []model.Category{}
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.SourceID, &c.Name, &c.Version, &c.SyncedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

var _ CatalogRepository = (*SQLCatalogRepository)(nil)
