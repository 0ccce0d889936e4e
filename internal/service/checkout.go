package service

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"traderhub-api/internal/adminapi"
	"traderhub-api/internal/cache"
	"traderhub-api/internal/model"
	"traderhub-api/internal/repository"
	"traderhub-api/pkg/apierror"
)

// CheckoutInput is the storefront checkout payload. Email is required;
// the rest is shipping information forwarded to the backend.
type CheckoutInput struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	City     string `json:"city"`
}

// CheckoutService turns a validated cart into a persisted order and
// forwards it to the admin backend.
type CheckoutService struct {
	backend  BackendClient
	carts    cache.CartStore
	catalog  repository.CatalogRepository
	orders   repository.OrderRepository
	traderID int64
}

// NewCheckoutService creates the checkout service for one shop trader.
func NewCheckoutService(backend BackendClient, carts cache.CartStore,
	catalog repository.CatalogRepository, orders repository.OrderRepository, traderID int64) *CheckoutService {
	return &CheckoutService{backend: backend, carts: carts, catalog: catalog, orders: orders, traderID: traderID}
}

// Checkout validates every cart line against visibility and stock,
// computes the total, forwards the order to the backend (best effort)
// and persists it locally in one transaction. The cart is cleared on
// success.
func (s *CheckoutService) Checkout(ctx context.Context, cartID string, in CheckoutInput) (*OrderWithItems, error) {
	if !strings.Contains(in.Email, "@") {
		return nil, apierror.ValidationError("Invalid checkout data",
			apierror.FieldError{Field: "email", Message: "must be a valid email"})
	}

	lines, err := s.carts.GetCart(ctx, cartID)
	if err == cache.ErrMiss || len(lines) == 0 {
		return nil, apierror.BadRequest("Cart is empty")
	}
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	items := make([]model.OrderItem, 0, len(lines))
	remoteItems := make([]adminapi.CustomerOrderItem, 0, len(lines))
	for _, line := range lines {
		cp, err := s.catalog.GetVisible(ctx, s.traderID, line.ProductID)
		if err == repository.ErrNotFound {
			return nil, apierror.BadRequest("Cart contains an unavailable product")
		}
		if err != nil {
			return nil, err
		}
		if line.Quantity <= 0 || line.Quantity > cp.CentralStock {
			return nil, apierror.BadRequest("Cart contains an out-of-stock quantity")
		}
		total = total.Add(cp.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
		items = append(items, model.OrderItem{
			ProductID:     cp.ID,
			Quantity:      line.Quantity,
			PriceSnapshot: cp.Price,
		})
		remoteItems = append(remoteItems, adminapi.CustomerOrderItem{
			ProductSourceID: cp.SourceID,
			Quantity:        line.Quantity,
		})
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))

	// Backend creation is best effort. When it is down the order still
	// goes through locally under a negative source id; the next order
	// sync reconciles the real one.
	sourceID := -time.Now().UnixNano()
	resp, err := s.backend.CreateCustomerOrder(ctx, adminapi.CustomerOrderRequest{
		CustomerEmail: email,
		TraderID:      s.traderID,
		Items:         remoteItems,
		FullName:      in.FullName,
		Phone:         in.Phone,
		Address:       in.Address,
		City:          in.City,
	})
	if err != nil {
		log.Printf("[CheckoutService] backend order creation failed, keeping local order: %v", err)
	} else if resp.OrderID != 0 {
		sourceID = resp.OrderID
	}

	now := time.Now().UTC()
	order := &model.Order{
		SourceID:      sourceID,
		TraderID:      s.traderID,
		CustomerEmail: email,
		Total:         total,
		Status:        model.OrderPending,
		CreatedAt:     now,
		SyncedAt:      now,
	}
	if err := s.orders.Create(ctx, order, items); err != nil {
		return nil, err
	}

	if err := s.carts.DeleteCart(ctx, cartID); err != nil {
		log.Printf("[CheckoutService] failed to clear cart %s: %v", cartID, err)
	}

	full, err := s.orders.Items(ctx, order.ID)
	if err != nil {
		full = items
	}
	return &OrderWithItems{Order: *order, Items: full}, nil
}
