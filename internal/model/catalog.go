package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category mirrors a remote product category. source_id is the remote
// backend's key; name is the stable identity used for deduplication.
type Category struct {
	ID       int64     `json:"id"`
	SourceID int64     `json:"source_id"`
	Name     string    `json:"name"`
	Version  string    `json:"version"`
	SyncedAt time.Time `json:"synced_at"`
}

// Product is a centrally-managed product mirrored from the admin backend.
// Price, stock and version are owned by the backend; the version token is
// an opaque string compared for inequality only.
type Product struct {
	ID           int64           `json:"id"`
	SourceID     int64           `json:"source_id"`
	Title        string          `json:"title"`
	Price        decimal.Decimal `json:"price"`
	CentralStock int             `json:"central_stock"`
	CategoryID   int64           `json:"category_id"`
	Version      string          `json:"version"`
	SyncedAt     time.Time       `json:"synced_at"`
}

// TraderProduct is the per-trader curation row for a synced product.
// Unique on (trader_id, product_id); created once, never recreated.
type TraderProduct struct {
	ID               int64     `json:"id"`
	TraderID         int64     `json:"trader_id"`
	ProductID        int64     `json:"product_id"`
	LocalDescription string    `json:"local_description,omitempty"`
	LocalNotes       string    `json:"local_notes,omitempty"`
	LocalImages      []string  `json:"local_images"`
	Visibility       bool      `json:"visibility"`
	DisplayOrder     int       `json:"display_order"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// CuratedProduct is the joined view of a product with its category name
// and the trader's curation fields.
type CuratedProduct struct {
	ID               int64           `json:"id"`
	SourceID         int64           `json:"source_id"`
	Title            string          `json:"title"`
	Price            decimal.Decimal `json:"price"`
	CentralStock     int             `json:"central_stock"`
	CategoryID       int64           `json:"category_id"`
	CategoryName     string          `json:"category_name"`
	LocalDescription string          `json:"local_description,omitempty"`
	LocalNotes       string          `json:"local_notes,omitempty"`
	LocalImages      []string        `json:"local_images"`
	Visibility       bool            `json:"visibility"`
	DisplayOrder     int             `json:"display_order"`
}
