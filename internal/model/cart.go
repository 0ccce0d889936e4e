package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// SelectionItem is a CMS-side selection cart entry: a product the trader
// has picked while browsing the backend catalog but not yet imported.
// Unique on (trader_id, product_source_id).
type SelectionItem struct {
	ID              int64     `json:"id"`
	TraderID        int64     `json:"trader_id"`
	ProductSourceID int64     `json:"product_source_id"`
	CreatedAt       time.Time `json:"created_at"`
}

// CartLine is one entry of the shop session cart. Ephemeral, stored in
// Redis (or memory) keyed by the cart session ID.
type CartLine struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// CartItemView is a cart line enriched with product details.
type CartItemView struct {
	ProductID    int64           `json:"product_id"`
	ProductTitle string          `json:"product_title"`
	ProductPrice decimal.Decimal `json:"product_price"`
	Quantity     int             `json:"quantity"`
	Subtotal     decimal.Decimal `json:"subtotal"`
}

// CartView is the full cart returned to the storefront.
type CartView struct {
	Items     []CartItemView  `json:"items"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"item_count"`
}
