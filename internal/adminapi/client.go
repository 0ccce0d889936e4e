package adminapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"traderhub-api/internal/config"
)

// Client talks to the external admin backend over HTTP JSON.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates an admin backend client from configuration.
func NewClient(cfg config.AdminAPIConfig) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// LooksExpired reports whether err reads like a rejected or expired
// backend token, which is the trigger for the refresh-and-retry path.
func LooksExpired(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "expired") ||
		strings.Contains(msg, "invalid") ||
		strings.Contains(msg, "not approved")
}

func (c *Client) do(ctx context.Context, method, path string, token string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("admin backend unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusForbidden {
		return fmt.Errorf("trader not approved or invalid API key")
	}
	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		_ = json.Unmarshal(raw, &apiErr)
		msg := apiErr.Message
		if msg == "" {
			msg = apiErr.Error
		}
		if msg == "" {
			msg = strings.TrimSpace(string(raw))
		}
		return fmt.Errorf("admin backend returned %d: %s", resp.StatusCode, msg)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// SyncProducts fetches one page of the product feed.
func (c *Client) SyncProducts(ctx context.Context, token string, page int, since time.Time) ([]FeedProduct, error) {
	q := url.Values{"page": {strconv.Itoa(page)}}
	if !since.IsZero() {
		q.Set("since", since.UTC().Format(time.RFC3339))
	}
	var out struct {
		Products []FeedProduct `json:"products"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/admin/sync/products?"+q.Encode(), token, nil, &out); err != nil {
		return nil, err
	}
	return out.Products, nil
}

// SyncOrders fetches one page of the order feed.
func (c *Client) SyncOrders(ctx context.Context, token string, page int, since time.Time) ([]FeedOrder, error) {
	q := url.Values{"page": {strconv.Itoa(page)}}
	if !since.IsZero() {
		q.Set("since", since.UTC().Format(time.RFC3339))
	}
	var out struct {
		Orders []FeedOrder `json:"orders"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/admin/sync/orders?"+q.Encode(), token, nil, &out); err != nil {
		return nil, err
	}
	return out.Orders, nil
}

// RegisterTrader registers the trader on the backend and returns the
// backend user id.
func (c *Client) RegisterTrader(ctx context.Context, req RegisterTraderRequest) (*RegisterTraderResponse, error) {
	var out RegisterTraderResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/register-trader", "", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// LoginTrader logs the trader in on the backend, capturing its token
// pair for later sync calls.
func (c *Client) LoginTrader(ctx context.Context, email, password string) (*LoginResponse, error) {
	var out LoginResponse
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/login", "", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RefreshToken exchanges a refresh token for a fresh pair.
func (c *Client) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	var out TokenPair
	body := map[string]string{"refreshToken": refreshToken}
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/refresh", "", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// BrowseProducts lists the backend's public catalog, optionally
// filtered by category source id.
func (c *Client) BrowseProducts(ctx context.Context, token string, categorySourceID int64) ([]BrowseProduct, error) {
	path := "/api/v1/products"
	if categorySourceID != 0 {
		path += "?categoryId=" + strconv.FormatInt(categorySourceID, 10)
	}
	var out struct {
		Products []BrowseProduct `json:"products"`
	}
	if err := c.do(ctx, http.MethodGet, path, token, nil, &out); err != nil {
		return nil, err
	}
	return out.Products, nil
}

// BrowseCategories lists the backend's public categories.
func (c *Client) BrowseCategories(ctx context.Context, token string) ([]BrowseCategory, error) {
	var out struct {
		Categories []BrowseCategory `json:"categories"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/categories", token, nil, &out); err != nil {
		return nil, err
	}
	return out.Categories, nil
}

// CreateCustomerOrder forwards a storefront checkout to the backend.
func (c *Client) CreateCustomerOrder(ctx context.Context, req CustomerOrderRequest) (*CustomerOrderResponse, error) {
	var out CustomerOrderResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/orders/customer", "", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
