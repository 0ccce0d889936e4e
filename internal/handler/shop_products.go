package handler

import (
	"net/http"
	"strconv"

	"traderhub-api/internal/repository"
	"traderhub-api/pkg/apierror"
	"traderhub-api/pkg/response"
)

// ShopProductHandler serves the storefront catalog, filtered to the
// shop trader's visible products.
type ShopProductHandler struct {
	catalog  repository.CatalogRepository
	traderID int64
}

// NewShopProductHandler creates the shop product handler.
func NewShopProductHandler(catalog repository.CatalogRepository, traderID int64) *ShopProductHandler {
	return &ShopProductHandler{catalog: catalog, traderID: traderID}
}

// List handles GET /api/v1/products.
func (h *ShopProductHandler) List(w http.ResponseWriter, r *http.Request) {
	page, limit := pagination(r)
	categoryID, _ := strconv.ParseInt(r.URL.Query().Get("category_id"), 10, 64)
	items, total, err := h.catalog.ListVisible(r.Context(), h.traderID, repository.VisibleFilter{
		CategoryID: categoryID,
		Search:     r.URL.Query().Get("search"),
		Page:       page,
		Limit:      limit,
	})
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Page(w, items, page, limit, total)
}

// Get handles GET /api/v1/products/{id}.
func (h *ShopProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		response.Error(w, err)
		return
	}
	cp, err := h.catalog.GetVisible(r.Context(), h.traderID, id)
	if err == repository.ErrNotFound {
		response.Error(w, apierror.NotFound("Product not found"))
		return
	}
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, cp)
}

// Categories handles GET /api/v1/categories.
func (h *ShopProductHandler) Categories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.catalog.ListVisibleCategories(r.Context(), h.traderID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, cats)
}
