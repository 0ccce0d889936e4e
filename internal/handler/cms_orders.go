package handler

import (
	"net/http"

	"traderhub-api/internal/middleware"
	"traderhub-api/internal/repository"
	"traderhub-api/internal/service"
	"traderhub-api/pkg/response"
)

// CMSOrderHandler serves the trader's order book routes.
type CMSOrderHandler struct {
	orders *service.OrderService
	audit  repository.AuditRepository
}

// NewCMSOrderHandler creates the CMS order handler.
func NewCMSOrderHandler(orders *service.OrderService, audit repository.AuditRepository) *CMSOrderHandler {
	return &CMSOrderHandler{orders: orders, audit: audit}
}

// List handles GET /api/v1/orders.
func (h *CMSOrderHandler) List(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())
	page, limit := pagination(r)
	orders, total, err := h.orders.List(r.Context(), sess.TraderID, page, limit)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Page(w, orders, page, limit, total)
}

// Stats handles GET /api/v1/orders/stats.
func (h *CMSOrderHandler) Stats(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())
	stats, err := h.orders.Stats(r.Context(), sess.TraderID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, stats)
}

// AuditLog handles GET /api/v1/audit.
func (h *CMSOrderHandler) AuditLog(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())
	page, limit := pagination(r)
	entries, total, err := h.audit.ListByTrader(r.Context(), sess.TraderID, page, limit)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Page(w, entries, page, limit, total)
}
