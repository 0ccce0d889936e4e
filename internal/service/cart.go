package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"traderhub-api/internal/cache"
	"traderhub-api/internal/model"
	"traderhub-api/internal/repository"
	"traderhub-api/pkg/apierror"
)

// CartService manages the storefront session cart. Lines are validated
// against the shop trader's visible catalog and central stock.
type CartService struct {
	carts    cache.CartStore
	catalog  repository.CatalogRepository
	traderID int64
	ttl      time.Duration
}

// NewCartService creates the cart service for one shop trader.
func NewCartService(carts cache.CartStore, catalog repository.CatalogRepository,
	traderID int64, ttl time.Duration) *CartService {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &CartService{carts: carts, catalog: catalog, traderID: traderID, ttl: ttl}
}

func (s *CartService) lines(ctx context.Context, cartID string) ([]model.CartLine, error) {
	lines, err := s.carts.GetCart(ctx, cartID)
	if err == cache.ErrMiss {
		return []model.CartLine{}, nil
	}
	return lines, err
}

// validate ensures the product is visible in this shop and the quantity
// does not exceed central stock. Returns the product for pricing.
func (s *CartService) validate(ctx context.Context, productID int64, quantity int) (*model.CuratedProduct, error) {
	if quantity <= 0 {
		return nil, apierror.BadRequest("Quantity must be positive")
	}
	cp, err := s.catalog.GetVisible(ctx, s.traderID, productID)
	if err == repository.ErrNotFound {
		return nil, apierror.NotFound("Product not available")
	}
	if err != nil {
		return nil, err
	}
	if quantity > cp.CentralStock {
		return nil, apierror.BadRequest(fmt.Sprintf("Only %d in stock", cp.CentralStock))
	}
	return cp, nil
}

// View renders the cart with current product titles and prices.
func (s *CartService) View(ctx context.Context, cartID string) (*model.CartView, error) {
	lines, err := s.lines(ctx, cartID)
	if err != nil {
		return nil, err
	}

	view := &model.CartView{Items: []model.CartItemView{}, Total: decimal.Zero}
	for _, line := range lines {
		cp, err := s.catalog.GetVisible(ctx, s.traderID, line.ProductID)
		if err == repository.ErrNotFound {
			continue // hidden since it was added
		}
		if err != nil {
			return nil, err
		}
		subtotal := cp.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		view.Items = append(view.Items, model.CartItemView{
			ProductID:    cp.ID,
			ProductTitle: cp.Title,
			ProductPrice: cp.Price,
			Quantity:     line.Quantity,
			Subtotal:     subtotal,
		})
		view.Total = view.Total.Add(subtotal)
		view.ItemCount += line.Quantity
	}
	return view, nil
}

// Add puts a product into the cart, merging with an existing line.
func (s *CartService) Add(ctx context.Context, cartID string, productID int64, quantity int) (*model.CartView, error) {
	lines, err := s.lines(ctx, cartID)
	if err != nil {
		return nil, err
	}

	merged := quantity
	for _, line := range lines {
		if line.ProductID == productID {
			merged += line.Quantity
		}
	}
	if _, err := s.validate(ctx, productID, merged); err != nil {
		return nil, err
	}

	found := false
	for i := range lines {
		if lines[i].ProductID == productID {
			lines[i].Quantity = merged
			found = true
			break
		}
	}
	if !found {
		lines = append(lines, model.CartLine{ProductID: productID, Quantity: quantity})
	}

	if err := s.carts.SetCart(ctx, cartID, lines, s.ttl); err != nil {
		return nil, err
	}
	return s.View(ctx, cartID)
}

// Update sets a line's quantity; zero removes the line.
func (s *CartService) Update(ctx context.Context, cartID string, productID int64, quantity int) (*model.CartView, error) {
	if quantity < 0 {
		return nil, apierror.BadRequest("Quantity cannot be negative")
	}
	if quantity == 0 {
		return s.Remove(ctx, cartID, productID)
	}
	if _, err := s.validate(ctx, productID, quantity); err != nil {
		return nil, err
	}

	lines, err := s.lines(ctx, cartID)
	if err != nil {
		return nil, err
	}
	found := false
	for i := range lines {
		if lines[i].ProductID == productID {
			lines[i].Quantity = quantity
			found = true
			break
		}
	}
	if !found {
		return nil, apierror.NotFound("Product not in cart")
	}
	if err := s.carts.SetCart(ctx, cartID, lines, s.ttl); err != nil {
		return nil, err
	}
	return s.View(ctx, cartID)
}

// Remove drops a line from the cart.
func (s *CartService) Remove(ctx context.Context, cartID string, productID int64) (*model.CartView, error) {
	lines, err := s.lines(ctx, cartID)
	if err != nil {
		return nil, err
	}
	kept := lines[:0]
	for _, line := range lines {
		if line.ProductID != productID {
			kept = append(kept, line)
		}
	}
	if err := s.carts.SetCart(ctx, cartID, kept, s.ttl); err != nil {
		return nil, err
	}
	return s.View(ctx, cartID)
}

// Clear empties the cart.
func (s *CartService) Clear(ctx context.Context, cartID string) error {
	return s.carts.DeleteCart(ctx, cartID)
}
