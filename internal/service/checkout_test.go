package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"traderhub-api/internal/adminapi"
	"traderhub-api/internal/cache"
	"traderhub-api/internal/model"
)

func newCheckoutFixture(t *testing.T, backend *stubBackend) (*CheckoutService, *cache.MemoryStore, *memOrders, *memCatalog) {
	t.Helper()
	catalog := seedShopCatalog(t)
	carts := cache.NewMemoryStore()
	orders := newMemOrders()
	svc := NewCheckoutService(backend, carts, catalog, orders, 1)
	return svc, carts, orders, catalog
}

func checkoutInput() CheckoutInput {
	return CheckoutInput{Email: "c@example.com", FullName: "A Customer", City: "Berlin"}
}

func TestCheckoutCreatesOrderAndClearsCart(t *testing.T) {
	var forwarded *adminapi.CustomerOrderRequest
	backend := &stubBackend{
		createOrder: func(req adminapi.CustomerOrderRequest) (*adminapi.CustomerOrderResponse, error) {
			forwarded = &req
			return &adminapi.CustomerOrderResponse{OrderID: 9001, Status: "PENDING"}, nil
		},
	}
	svc, carts, orders, _ := newCheckoutFixture(t, backend)
	_ = carts.SetCart(context.Background(), "cart-1", []model.CartLine{{ProductID: 2, Quantity: 2}}, time.Hour)

	order, err := svc.Checkout(context.Background(), "cart-1", checkoutInput())
	if err != nil {
		t.Fatal(err)
	}
	if order.SourceID != 9001 {
		t.Errorf("expected backend order id as source id, got %d", order.SourceID)
	}
	if !order.Total.Equal(decimal.RequireFromString("39.98")) {
		t.Errorf("total wrong: %s", order.Total)
	}
	if len(order.Items) != 1 || order.Items[0].Quantity != 2 {
		t.Errorf("items wrong: %+v", order.Items)
	}
	if forwarded == nil || forwarded.Items[0].ProductSourceID != 100 {
		t.Errorf("backend payload must carry source ids: %+v", forwarded)
	}

	if _, err := carts.GetCart(context.Background(), "cart-1"); err != cache.ErrMiss {
		t.Error("cart must be cleared after checkout")
	}
	if len(orders.orders) != 1 {
		t.Errorf("expected 1 persisted order, got %d", len(orders.orders))
	}
}

func TestCheckoutFallsBackWhenBackendDown(t *testing.T) {
	backend := &stubBackend{
		createOrder: func(adminapi.CustomerOrderRequest) (*adminapi.CustomerOrderResponse, error) {
			return nil, errors.New("connection refused")
		},
	}
	svc, carts, orders, _ := newCheckoutFixture(t, backend)
	_ = carts.SetCart(context.Background(), "cart-1", []model.CartLine{{ProductID: 2, Quantity: 1}}, time.Hour)

	order, err := svc.Checkout(context.Background(), "cart-1", checkoutInput())
	if err != nil {
		t.Fatalf("checkout must survive a backend outage: %v", err)
	}
	if order.SourceID >= 0 {
		t.Errorf("expected negative local source id, got %d", order.SourceID)
	}
	if len(orders.orders) != 1 {
		t.Error("order must still be persisted locally")
	}
}

func TestCheckoutRejectsEmptyCart(t *testing.T) {
	svc, _, _, _ := newCheckoutFixture(t, &stubBackend{})
	if _, err := svc.Checkout(context.Background(), "cart-1", checkoutInput()); err == nil {
		t.Fatal("expected empty cart rejection")
	}
}

func TestCheckoutRejectsHiddenOrOverStock(t *testing.T) {
	svc, carts, orders, _ := newCheckoutFixture(t, &stubBackend{})

	_ = carts.SetCart(context.Background(), "cart-1", []model.CartLine{{ProductID: 4, Quantity: 1}}, time.Hour)
	if _, err := svc.Checkout(context.Background(), "cart-1", checkoutInput()); err == nil {
		t.Fatal("hidden product must fail checkout")
	}

	_ = carts.SetCart(context.Background(), "cart-2", []model.CartLine{{ProductID: 2, Quantity: 99}}, time.Hour)
	if _, err := svc.Checkout(context.Background(), "cart-2", checkoutInput()); err == nil {
		t.Fatal("over-stock quantity must fail checkout")
	}
	if len(orders.orders) != 0 {
		t.Error("failed checkout must not persist orders")
	}
}

func TestCheckoutRejectsBadEmail(t *testing.T) {
	svc, carts, _, _ := newCheckoutFixture(t, &stubBackend{})
	_ = carts.SetCart(context.Background(), "cart-1", []model.CartLine{{ProductID: 2, Quantity: 1}}, time.Hour)

	in := checkoutInput()
	in.Email = "not-an-email"
	if _, err := svc.Checkout(context.Background(), "cart-1", in); err == nil {
		t.Fatal("expected email validation failure")
	}
}
