package adminapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"traderhub-api/internal/config"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(config.AdminAPIConfig{BaseURL: srv.URL, Timeout: 5 * time.Second})
}

func TestSyncProductsDecodesFeed(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/admin/sync/products" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("page") != "2" {
			t.Errorf("page not forwarded: %s", r.URL.RawQuery)
		}
		if r.Header.Get("Authorization") != "Bearer tok" {
			t.Errorf("token not forwarded: %q", r.Header.Get("Authorization"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"products":[{"sourceId":100,"title":"Widget","price":"19.99","centralStock":5,"category":"Electronics","version":"v1"}]}`))
	})

	products, err := client.SyncProducts(context.Background(), "tok", 2, time.Time{})
	if err != nil {
		t.Fatal(err)
	}
	if len(products) != 1 || products[0].SourceID != 100 || products[0].Category != "Electronics" {
		t.Errorf("feed decoded wrong: %+v", products)
	}
}

func TestForbiddenMapsToApprovalMessage(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	_, err := client.SyncProducts(context.Background(), "tok", 1, time.Time{})
	if err == nil || err.Error() != "trader not approved or invalid API key" {
		t.Errorf("unexpected error: %v", err)
	}
	if !LooksExpired(err) {
		t.Error("approval failures must trigger the refresh path")
	}
}

func TestErrorBodyIsSurfaced(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"token expired"}`))
	})

	_, err := client.SyncOrders(context.Background(), "tok", 1, time.Time{})
	if err == nil {
		t.Fatal("expected error")
	}
	if !LooksExpired(err) {
		t.Errorf("expiry message must be detectable: %v", err)
	}
}

func TestLooksExpired(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New("Token EXPIRED"), true},
		{errors.New("signature invalid"), true},
		{errors.New("trader not approved or invalid API key"), true},
		{errors.New("connection refused"), false},
	}
	for _, tc := range cases {
		if got := LooksExpired(tc.err); got != tc.want {
			t.Errorf("LooksExpired(%v) = %v, want %v", tc.err, got, tc.want)
		}
	}
}

func TestRefreshToken(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/auth/refresh" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"accessToken":"at2","refreshToken":"rt2"}`))
	})

	pair, err := client.RefreshToken(context.Background(), "rt1")
	if err != nil {
		t.Fatal(err)
	}
	if pair.AccessToken != "at2" || pair.RefreshToken != "rt2" {
		t.Errorf("pair decoded wrong: %+v", pair)
	}
}

func TestCreateCustomerOrder(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/orders/customer" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"orderId":9001,"status":"PENDING"}`))
	})

	resp, err := client.CreateCustomerOrder(context.Background(), CustomerOrderRequest{
		CustomerEmail: "c@example.com", TraderID: 1,
		Items: []CustomerOrderItem{{ProductSourceID: 100, Quantity: 2}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if resp.OrderID != 9001 {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestBackendUnreachable(t *testing.T) {
	client := NewClient(config.AdminAPIConfig{BaseURL: "http://127.0.0.1:1", Timeout: time.Second})
	if _, err := client.SyncProducts(context.Background(), "tok", 1, time.Time{}); err == nil {
		t.Fatal("expected connection error")
	}
}
