package handler

import (
	"net/http"

	"traderhub-api/internal/middleware"
	"traderhub-api/internal/service"
	"traderhub-api/pkg/response"
)

// ShopCartHandler serves the anonymous session cart routes.
type ShopCartHandler struct {
	cart *service.CartService
}

// NewShopCartHandler creates the shop cart handler.
func NewShopCartHandler(cart *service.CartService) *ShopCartHandler {
	return &ShopCartHandler{cart: cart}
}

type cartLineRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// Get handles GET /api/v1/cart.
func (h *ShopCartHandler) Get(w http.ResponseWriter, r *http.Request) {
	view, err := h.cart.View(r.Context(), middleware.GetCartID(r.Context()))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, view)
}

// Add handles POST /api/v1/cart/items.
func (h *ShopCartHandler) Add(w http.ResponseWriter, r *http.Request) {
	var in cartLineRequest
	if err := decode(r, &in); err != nil {
		response.Error(w, err)
		return
	}
	view, err := h.cart.Add(r.Context(), middleware.GetCartID(r.Context()), in.ProductID, in.Quantity)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, view)
}

// Update handles PUT /api/v1/cart/items/{id}.
func (h *ShopCartHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		response.Error(w, err)
		return
	}
	var in struct {
		Quantity int `json:"quantity"`
	}
	if err := decode(r, &in); err != nil {
		response.Error(w, err)
		return
	}
	view, err := h.cart.Update(r.Context(), middleware.GetCartID(r.Context()), id, in.Quantity)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, view)
}

// Remove handles DELETE /api/v1/cart/items/{id}.
func (h *ShopCartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		response.Error(w, err)
		return
	}
	view, err := h.cart.Remove(r.Context(), middleware.GetCartID(r.Context()), id)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, view)
}

// Clear handles DELETE /api/v1/cart.
func (h *ShopCartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.cart.Clear(r.Context(), middleware.GetCartID(r.Context())); err != nil {
		response.Error(w, err)
		return
	}
	response.NoContent(w)
}
