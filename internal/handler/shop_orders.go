package handler

import (
	"net/http"

	"traderhub-api/internal/middleware"
	"traderhub-api/internal/service"
	"traderhub-api/pkg/response"
)

// ShopOrderHandler serves storefront checkout and order history routes.
type ShopOrderHandler struct {
	checkout *service.CheckoutService
	orders   *service.OrderService
	traderID int64
}

// NewShopOrderHandler creates the shop order handler.
func NewShopOrderHandler(checkout *service.CheckoutService, orders *service.OrderService, traderID int64) *ShopOrderHandler {
	return &ShopOrderHandler{checkout: checkout, orders: orders, traderID: traderID}
}

// Create handles POST /api/v1/orders. Guest checkout is allowed; an
// authenticated customer's email wins over the body.
func (h *ShopOrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in service.CheckoutInput
	if err := decode(r, &in); err != nil {
		response.Error(w, err)
		return
	}
	if sess := middleware.GetSession(r.Context()); sess != nil {
		in.Email = sess.Email
	}
	order, err := h.checkout.Checkout(r.Context(), middleware.GetCartID(r.Context()), in)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Created(w, order)
}

// List handles GET /api/v1/orders for an authenticated customer.
func (h *ShopOrderHandler) List(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())
	page, limit := pagination(r)
	orders, total, err := h.orders.ListForCustomer(r.Context(), h.traderID, sess.Email, page, limit)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Page(w, orders, page, limit, total)
}

// Get handles GET /api/v1/orders/{id} for an authenticated customer.
func (h *ShopOrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())
	id, err := urlID(r, "id")
	if err != nil {
		response.Error(w, err)
		return
	}
	order, err := h.orders.GetForCustomer(r.Context(), id, h.traderID, sess.Email)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, order)
}
