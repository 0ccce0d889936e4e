package repository

import (
	"context"
	"errors"

	"traderhub-api/internal/model"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrEmailTaken = errors.New("email already registered")
)

// TraderRepository defines trader account data access.
type TraderRepository interface {
	Create(ctx context.Context, t *model.Trader) error
	GetByID(ctx context.Context, id int64) (*model.Trader, error)
	GetByEmail(ctx context.Context, email string) (*model.Trader, error)
	// UpdateProfile persists business_name and api_key.
	UpdateProfile(ctx context.Context, t *model.Trader) error
	SetBackendUserID(ctx context.Context, id, backendUserID int64) error
	SetStatus(ctx context.Context, id int64, status model.TraderStatus) error
}

// VisibleFilter narrows the storefront product listing.
type VisibleFilter struct {
	CategoryID int64
	Search     string
	Page       int
	Limit      int
}

// CatalogRepository defines access to the synced catalog: categories,
// products and the per-trader curation rows.
type CatalogRepository interface {
	GetCategoryByName(ctx context.Context, name string) (*model.Category, error)
	GetCategoryBySourceID(ctx context.Context, sourceID int64) (*model.Category, error)
	CreateCategory(ctx context.Context, c *model.Category) error
	ListCategories(ctx context.Context) ([]model.Category, error)

	GetProductBySourceID(ctx context.Context, sourceID int64) (*model.Product, error)
	CreateProduct(ctx context.Context, p *model.Product) error
	// UpdateProductSync overwrites price, central_stock, version and
	// synced_at only (the sync reconciliation path).
	UpdateProductSync(ctx context.Context, p *model.Product) error
	// ReplaceProduct overwrites all backend-owned fields including title
	// and category (the selection-save path).
	ReplaceProduct(ctx context.Context, p *model.Product) error

	GetTraderProduct(ctx context.Context, traderID, productID int64) (*model.TraderProduct, error)
	CreateTraderProduct(ctx context.Context, tp *model.TraderProduct) error
	UpdateTraderProduct(ctx context.Context, tp *model.TraderProduct) error
	SetDisplayOrder(ctx context.Context, traderID, productID int64, displayOrder int) error

	ListCurated(ctx context.Context, traderID int64, page, limit int) ([]model.CuratedProduct, int64, error)
	GetCurated(ctx context.Context, traderID, productID int64) (*model.CuratedProduct, error)
	ListVisible(ctx context.Context, traderID int64, f VisibleFilter) ([]model.CuratedProduct, int64, error)
	GetVisible(ctx context.Context, traderID, productID int64) (*model.CuratedProduct, error)
	ListVisibleCategories(ctx context.Context, traderID int64) ([]model.Category, error)
}

// OrderRepository defines order data access.
type OrderRepository interface {
	GetBySourceID(ctx context.Context, sourceID int64) (*model.Order, error)
	// Create inserts the order and its items in one transaction.
	Create(ctx context.Context, o *model.Order, items []model.OrderItem) error
	// UpdateSync overwrites total, status, version and synced_at.
	UpdateSync(ctx context.Context, o *model.Order) error
	ListByTrader(ctx context.Context, traderID int64, page, limit int) ([]model.Order, int64, error)
	ListByCustomer(ctx context.Context, traderID int64, email string, page, limit int) ([]model.Order, int64, error)
	GetForCustomer(ctx context.Context, orderID, traderID int64, email string) (*model.Order, error)
	Items(ctx context.Context, orderID int64) ([]model.OrderItem, error)
	Stats(ctx context.Context, traderID int64) (*model.OrderStats, error)
}

// CustomerRepository defines shop customer data access.
type CustomerRepository interface {
	Create(ctx context.Context, c *model.ShopCustomer) error
	GetByID(ctx context.Context, id int64) (*model.ShopCustomer, error)
	GetByEmail(ctx context.Context, email string) (*model.ShopCustomer, error)
	Update(ctx context.Context, c *model.ShopCustomer) error
}

// SelectionRepository defines the CMS selection cart: the product source
// IDs a trader has picked while browsing the backend catalog.
type SelectionRepository interface {
	List(ctx context.Context, traderID int64) ([]int64, error)
	Add(ctx context.Context, traderID int64, sourceIDs []int64) error
	Remove(ctx context.Context, traderID int64, sourceIDs []int64) error
	Clear(ctx context.Context, traderID int64) error
}

// AuditRepository records the trader-facing audit trail.
type AuditRepository interface {
	Insert(ctx context.Context, entry *model.AuditLog) error
	ListByTrader(ctx context.Context, traderID int64, page, limit int) ([]model.AuditLog, int64, error)
}
