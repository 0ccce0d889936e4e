package service

import (
	"context"

	"traderhub-api/internal/model"
	"traderhub-api/internal/repository"
	"traderhub-api/pkg/apierror"
)

// OrderWithItems is an order expanded with its line items.
type OrderWithItems struct {
	model.Order
	Items []model.OrderItem `json:"items"`
}

// OrderService exposes the trader's order book.
type OrderService struct {
	orders repository.OrderRepository
}

// NewOrderService creates the order service.
func NewOrderService(orders repository.OrderRepository) *OrderService {
	return &OrderService{orders: orders}
}

// List returns the trader's orders with items, paginated.
func (s *OrderService) List(ctx context.Context, traderID int64, page, limit int) ([]OrderWithItems, int64, error) {
	orders, total, err := s.orders.ListByTrader(ctx, traderID, page, limit)
	if err != nil {
		return nil, 0, err
	}
	out := make([]OrderWithItems, 0, len(orders))
	for _, o := range orders {
		items, err := s.orders.Items(ctx, o.ID)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, OrderWithItems{Order: o, Items: items})
	}
	return out, total, nil
}

// Stats summarizes the trader's order book.
func (s *OrderService) Stats(ctx context.Context, traderID int64) (*model.OrderStats, error) {
	return s.orders.Stats(ctx, traderID)
}

// ListForCustomer returns a customer's orders in one trader's shop.
func (s *OrderService) ListForCustomer(ctx context.Context, traderID int64, email string, page, limit int) ([]OrderWithItems, int64, error) {
	orders, total, err := s.orders.ListByCustomer(ctx, traderID, email, page, limit)
	if err != nil {
		return nil, 0, err
	}
	out := make([]OrderWithItems, 0, len(orders))
	for _, o := range orders {
		items, err := s.orders.Items(ctx, o.ID)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, OrderWithItems{Order: o, Items: items})
	}
	return out, total, nil
}

// GetForCustomer returns one of the customer's orders with items.
func (s *OrderService) GetForCustomer(ctx context.Context, orderID, traderID int64, email string) (*OrderWithItems, error) {
	o, err := s.orders.GetForCustomer(ctx, orderID, traderID, email)
	if err == repository.ErrNotFound {
		return nil, apierror.NotFound("Order not found")
	}
	if err != nil {
		return nil, err
	}
	items, err := s.orders.Items(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	return &OrderWithItems{Order: *o, Items: items}, nil
}
