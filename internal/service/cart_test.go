package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"traderhub-api/internal/cache"
	"traderhub-api/internal/model"
	"traderhub-api/pkg/apierror"
)

func seedShopCatalog(t *testing.T) *memCatalog {
	t.Helper()
	catalog := newMemCatalog()
	ctx := context.Background()
	_ = catalog.CreateCategory(ctx, &model.Category{Name: "Electronics", Version: "v1"})

	visible := &model.Product{SourceID: 100, Title: "Widget", Price: decimal.RequireFromString("19.99"),
		CentralStock: 5, CategoryID: 1, Version: "v1"}
	_ = catalog.CreateProduct(ctx, visible)
	_ = catalog.CreateTraderProduct(ctx, &model.TraderProduct{TraderID: 1, ProductID: visible.ID, Visibility: true})

	hidden := &model.Product{SourceID: 200, Title: "Gadget", Price: decimal.RequireFromString("5.00"),
		CentralStock: 5, CategoryID: 1, Version: "v1"}
	_ = catalog.CreateProduct(ctx, hidden)
	_ = catalog.CreateTraderProduct(ctx, &model.TraderProduct{TraderID: 1, ProductID: hidden.ID, Visibility: false})

	return catalog
}

func newCartService(catalog *memCatalog) *CartService {
	return NewCartService(cache.NewMemoryStore(), catalog, 1, time.Hour)
}

func TestCartAddAndView(t *testing.T) {
	catalog := seedShopCatalog(t)
	svc := newCartService(catalog)

	view, err := svc.Add(context.Background(), "cart-1", 2, 2)
	if err != nil {
		t.Fatal(err)
	}
	if view.ItemCount != 2 || len(view.Items) != 1 {
		t.Fatalf("unexpected cart: %+v", view)
	}
	if !view.Total.Equal(decimal.RequireFromString("39.98")) {
		t.Errorf("total wrong: %s", view.Total)
	}

	// Adding again merges the line.
	view, err = svc.Add(context.Background(), "cart-1", 2, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(view.Items) != 1 || view.Items[0].Quantity != 3 {
		t.Errorf("lines not merged: %+v", view.Items)
	}
}

func TestCartRejectsHiddenProduct(t *testing.T) {
	catalog := seedShopCatalog(t)
	svc := newCartService(catalog)

	_, err := svc.Add(context.Background(), "cart-1", 4, 1)
	if apierror.From(err).StatusCode != 404 {
		t.Errorf("hidden product must be rejected with 404, got %v", err)
	}
}

func TestCartRejectsOverStock(t *testing.T) {
	catalog := seedShopCatalog(t)
	svc := newCartService(catalog)

	if _, err := svc.Add(context.Background(), "cart-1", 2, 6); err == nil {
		t.Fatal("expected over-stock rejection")
	}
	// Merged quantity crossing the limit is rejected too.
	if _, err := svc.Add(context.Background(), "cart-1", 2, 3); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Add(context.Background(), "cart-1", 2, 3); err == nil {
		t.Fatal("expected merged over-stock rejection")
	}
}

func TestCartUpdateAndRemove(t *testing.T) {
	catalog := seedShopCatalog(t)
	svc := newCartService(catalog)

	if _, err := svc.Add(context.Background(), "cart-1", 2, 2); err != nil {
		t.Fatal(err)
	}
	view, err := svc.Update(context.Background(), "cart-1", 2, 1)
	if err != nil {
		t.Fatal(err)
	}
	if view.Items[0].Quantity != 1 {
		t.Errorf("quantity not updated: %+v", view.Items)
	}

	view, err = svc.Update(context.Background(), "cart-1", 2, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(view.Items) != 0 {
		t.Error("zero quantity must remove the line")
	}
}

func TestCartViewSkipsProductsHiddenLater(t *testing.T) {
	catalog := seedShopCatalog(t)
	svc := newCartService(catalog)

	if _, err := svc.Add(context.Background(), "cart-1", 2, 1); err != nil {
		t.Fatal(err)
	}
	tp, _ := catalog.GetTraderProduct(context.Background(), 1, 2)
	tp.Visibility = false
	_ = catalog.UpdateTraderProduct(context.Background(), tp)

	view, err := svc.View(context.Background(), "cart-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(view.Items) != 0 {
		t.Error("hidden products must not render in the cart")
	}
}
