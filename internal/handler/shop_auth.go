package handler

import (
	"net/http"

	"traderhub-api/internal/middleware"
	"traderhub-api/internal/service"
	"traderhub-api/pkg/response"
)

// ShopAuthHandler serves storefront customer auth and profile routes.
type ShopAuthHandler struct {
	customers *service.CustomerService
}

// NewShopAuthHandler creates the shop auth handler.
func NewShopAuthHandler(customers *service.CustomerService) *ShopAuthHandler {
	return &ShopAuthHandler{customers: customers}
}

// Register handles POST /api/v1/auth/register.
func (h *ShopAuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var in service.CustomerRegisterInput
	if err := decode(r, &in); err != nil {
		response.Error(w, err)
		return
	}
	customer, err := h.customers.Register(r.Context(), in)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Created(w, customer)
}

// Login handles POST /api/v1/auth/login.
func (h *ShopAuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decode(r, &in); err != nil {
		response.Error(w, err)
		return
	}
	result, err := h.customers.Login(r.Context(), in.Email, in.Password)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, result)
}

// Refresh handles POST /api/v1/auth/refresh.
func (h *ShopAuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	token, err := h.customers.Refresh(r.Context(), middleware.GetSessionToken(r.Context()))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, map[string]string{"token": token})
}

// Logout handles POST /api/v1/auth/logout.
func (h *ShopAuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.customers.Logout(r.Context(), middleware.GetSessionToken(r.Context())); err != nil {
		response.Error(w, err)
		return
	}
	response.NoContent(w)
}

// Me handles GET /api/v1/auth/me.
func (h *ShopAuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())
	customer, err := h.customers.Profile(r.Context(), sess.CustomerID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, customer)
}

// UpdateMe handles PUT /api/v1/auth/me.
func (h *ShopAuthHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var in service.CustomerRegisterInput
	if err := decode(r, &in); err != nil {
		response.Error(w, err)
		return
	}
	sess := middleware.GetSession(r.Context())
	customer, err := h.customers.UpdateProfile(r.Context(), sess.CustomerID, in)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, customer)
}
