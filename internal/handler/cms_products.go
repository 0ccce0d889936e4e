package handler

import (
	"encoding/json"
	"net/http"

	"traderhub-api/internal/middleware"
	"traderhub-api/internal/service"
	"traderhub-api/pkg/apierror"
	"traderhub-api/pkg/response"
)

// CMSProductHandler serves the trader's curated product routes.
type CMSProductHandler struct {
	products *service.ProductService
}

// NewCMSProductHandler creates the CMS product handler.
func NewCMSProductHandler(products *service.ProductService) *CMSProductHandler {
	return &CMSProductHandler{products: products}
}

// List handles GET /api/v1/products.
func (h *CMSProductHandler) List(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())
	page, limit := pagination(r)
	items, total, err := h.products.List(r.Context(), sess.TraderID, page, limit)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Page(w, items, page, limit, total)
}

// Get handles GET /api/v1/products/{id}.
func (h *CMSProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())
	id, err := urlID(r, "id")
	if err != nil {
		response.Error(w, err)
		return
	}
	cp, err := h.products.Get(r.Context(), sess.TraderID, id)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, cp)
}

// Update handles PUT /api/v1/products/{id}. The raw body keys are kept
// so writes to backend-owned fields can be rejected outright.
func (h *CMSProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())
	id, err := urlID(r, "id")
	if err != nil {
		response.Error(w, err)
		return
	}

	var raw map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		response.Error(w, apierror.BadRequest("Invalid JSON body"))
		return
	}

	upd := service.ProductUpdate{Fields: raw}
	if v, ok := raw["local_description"].(string); ok {
		upd.LocalDescription = &v
	}
	if v, ok := raw["local_notes"].(string); ok {
		upd.LocalNotes = &v
	}
	if v, ok := raw["visibility"].(bool); ok {
		upd.Visibility = &v
	}
	if v, ok := raw["display_order"].(float64); ok {
		order := int(v)
		upd.DisplayOrder = &order
	}
	if v, ok := raw["local_images"].([]interface{}); ok {
		images := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				images = append(images, s)
			}
		}
		upd.LocalImages = images
	}

	tp, err := h.products.Update(r.Context(), sess.TraderID, id, upd)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, tp)
}

// Reorder handles PUT /api/v1/products/order.
func (h *CMSProductHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	var in struct {
		ProductIDs []int64 `json:"product_ids"`
	}
	if err := decode(r, &in); err != nil {
		response.Error(w, err)
		return
	}
	sess := middleware.GetSession(r.Context())
	if err := h.products.Reorder(r.Context(), sess.TraderID, in.ProductIDs); err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, map[string]int{"reordered": len(in.ProductIDs)})
}

// Categories handles GET /api/v1/categories.
func (h *CMSProductHandler) Categories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.products.Categories(r.Context())
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, cats)
}
