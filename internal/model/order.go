package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is overwritten wholesale from the remote feed whenever the
// version token changes; no transition rules are enforced locally.
type OrderStatus string

const (
	OrderPending   OrderStatus = "PENDING"
	OrderConfirmed OrderStatus = "CONFIRMED"
	OrderAssigned  OrderStatus = "ASSIGNED"
	OrderAccepted  OrderStatus = "ACCEPTED"
	OrderPickedUp  OrderStatus = "PICKED_UP"
	OrderInTransit OrderStatus = "IN_TRANSIT"
	OrderDelivered OrderStatus = "DELIVERED"
	OrderFailed    OrderStatus = "FAILED"
	OrderCancelled OrderStatus = "CANCELLED"
)

var orderStatuses = map[OrderStatus]bool{
	OrderPending: true, OrderConfirmed: true, OrderAssigned: true,
	OrderAccepted: true, OrderPickedUp: true, OrderInTransit: true,
	OrderDelivered: true, OrderFailed: true, OrderCancelled: true,
}

// ParseOrderStatus maps a remote status string onto a known status,
// falling back to PENDING for anything unrecognized.
func ParseOrderStatus(s string) OrderStatus {
	if orderStatuses[OrderStatus(s)] {
		return OrderStatus(s)
	}
	return OrderPending
}

// Order is a customer order mirrored from (or forwarded to) the backend.
type Order struct {
	ID            int64           `json:"id"`
	SourceID      int64           `json:"source_id"`
	TraderID      int64           `json:"trader_id"`
	CustomerEmail string          `json:"customer_email,omitempty"`
	Total         decimal.Decimal `json:"total"`
	Status        OrderStatus     `json:"status"`
	Version       string          `json:"version"`
	CreatedAt     time.Time       `json:"created_at"`
	SyncedAt      time.Time       `json:"synced_at"`
}

// OrderItem is a line item with the price captured at purchase time.
type OrderItem struct {
	ID            int64           `json:"id"`
	OrderID       int64           `json:"order_id"`
	ProductID     int64           `json:"product_id"`
	ProductTitle  string          `json:"product_title,omitempty"`
	Quantity      int             `json:"quantity"`
	PriceSnapshot decimal.Decimal `json:"price_snapshot"`
}

// OrderStats summarizes a trader's order book.
type OrderStats struct {
	TotalOrders   int64           `json:"total_orders"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
	PendingOrders int64           `json:"pending_orders"`
}
