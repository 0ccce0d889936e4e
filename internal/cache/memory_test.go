package cache

import (
	"context"
	"testing"
	"time"

	"traderhub-api/internal/model"
)

func TestMemorySessionRoundtrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	data := &model.SessionData{Kind: model.SessionTrader, TraderID: 1, Email: "t@example.com"}
	if err := store.SetSession(ctx, "tok", data, time.Minute); err != nil {
		t.Fatal(err)
	}
	got, err := store.GetSession(ctx, "tok")
	if err != nil {
		t.Fatal(err)
	}
	if got.TraderID != 1 || got.Email != "t@example.com" {
		t.Errorf("session data lost: %+v", got)
	}

	// The stored copy must not alias the caller's struct.
	data.Email = "changed"
	got, _ = store.GetSession(ctx, "tok")
	if got.Email != "t@example.com" {
		t.Error("stored session aliases caller data")
	}

	if _, err := store.GetSession(ctx, "missing"); err != ErrMiss {
		t.Errorf("expected ErrMiss, got %v", err)
	}
}

func TestMemorySessionExpiry(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.SetSession(ctx, "tok", &model.SessionData{TraderID: 1}, time.Millisecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, err := store.GetSession(ctx, "tok"); err != ErrMiss {
		t.Errorf("expected expiry, got %v", err)
	}
}

func TestMemorySessionDelete(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_ = store.SetSession(ctx, "tok", &model.SessionData{TraderID: 1}, time.Minute)
	if err := store.DeleteSession(ctx, "tok"); err != nil {
		t.Fatal(err)
	}
	if _, err := store.GetSession(ctx, "tok"); err != ErrMiss {
		t.Errorf("expected ErrMiss after delete, got %v", err)
	}
}

func TestMemoryCartRoundtrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	lines := []model.CartLine{{ProductID: 2, Quantity: 3}}
	if err := store.SetCart(ctx, "cart-1", lines, time.Minute); err != nil {
		t.Fatal(err)
	}

	lines[0].Quantity = 99
	got, err := store.GetCart(ctx, "cart-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Quantity != 3 {
		t.Errorf("stored cart aliases caller slice: %+v", got)
	}

	if err := store.DeleteCart(ctx, "cart-1"); err != nil {
		t.Fatal(err)
	}
	if _, err := store.GetCart(ctx, "cart-1"); err != ErrMiss {
		t.Errorf("expected ErrMiss after delete, got %v", err)
	}
}

func TestMemoryCartExpiry(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_ = store.SetCart(ctx, "cart-1", []model.CartLine{{ProductID: 1, Quantity: 1}}, time.Millisecond)
	time.Sleep(5 * time.Millisecond)
	if _, err := store.GetCart(ctx, "cart-1"); err != ErrMiss {
		t.Errorf("expected expiry, got %v", err)
	}
}
