package handler

import (
	"net/http"
	"strconv"

	"traderhub-api/internal/middleware"
	"traderhub-api/internal/service"
	"traderhub-api/pkg/apierror"
	"traderhub-api/pkg/response"
)

// CMSBrowseHandler proxies the backend's public catalog and manages the
// trader's selection cart.
type CMSBrowseHandler struct {
	backend   service.BackendClient
	selection *service.SelectionService
	auth      *service.AuthService
}

// NewCMSBrowseHandler creates the CMS browse handler.
func NewCMSBrowseHandler(backend service.BackendClient, selection *service.SelectionService,
	auth *service.AuthService) *CMSBrowseHandler {
	return &CMSBrowseHandler{backend: backend, selection: selection, auth: auth}
}

// BrowseProducts handles GET /api/v1/browse/products.
func (h *CMSBrowseHandler) BrowseProducts(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())
	categoryID, _ := strconv.ParseInt(r.URL.Query().Get("category_id"), 10, 64)
	products, err := h.backend.BrowseProducts(r.Context(), sess.BackendAccessToken, categoryID)
	if err != nil {
		response.Error(w, apierror.BadGateway(err.Error()))
		return
	}
	response.OK(w, products)
}

// BrowseCategories handles GET /api/v1/browse/categories.
func (h *CMSBrowseHandler) BrowseCategories(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())
	cats, err := h.backend.BrowseCategories(r.Context(), sess.BackendAccessToken)
	if err != nil {
		response.Error(w, apierror.BadGateway(err.Error()))
		return
	}
	response.OK(w, cats)
}

// ListSelection handles GET /api/v1/selection.
func (h *CMSBrowseHandler) ListSelection(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())
	ids, err := h.selection.List(r.Context(), sess.TraderID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, map[string]interface{}{"product_source_ids": ids, "count": len(ids)})
}

type selectionRequest struct {
	ProductSourceIDs []int64 `json:"product_source_ids"`
}

// AddToSelection handles POST /api/v1/selection.
func (h *CMSBrowseHandler) AddToSelection(w http.ResponseWriter, r *http.Request) {
	var in selectionRequest
	if err := decode(r, &in); err != nil {
		response.Error(w, err)
		return
	}
	sess := middleware.GetSession(r.Context())
	if err := h.selection.Add(r.Context(), sess.TraderID, in.ProductSourceIDs); err != nil {
		response.Error(w, err)
		return
	}
	response.Created(w, map[string]int{"added": len(in.ProductSourceIDs)})
}

// RemoveFromSelection handles DELETE /api/v1/selection.
func (h *CMSBrowseHandler) RemoveFromSelection(w http.ResponseWriter, r *http.Request) {
	var in selectionRequest
	if err := decode(r, &in); err != nil {
		response.Error(w, err)
		return
	}
	sess := middleware.GetSession(r.Context())
	if err := h.selection.Remove(r.Context(), sess.TraderID, in.ProductSourceIDs); err != nil {
		response.Error(w, err)
		return
	}
	response.NoContent(w)
}

// ClearSelection handles DELETE /api/v1/selection/all.
func (h *CMSBrowseHandler) ClearSelection(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())
	if err := h.selection.Clear(r.Context(), sess.TraderID); err != nil {
		response.Error(w, err)
		return
	}
	response.NoContent(w)
}

// SaveSelection handles POST /api/v1/selection/save.
func (h *CMSBrowseHandler) SaveSelection(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())
	trader, err := h.auth.Profile(r.Context(), sess.TraderID)
	if err != nil {
		response.Error(w, err)
		return
	}
	result, err := h.selection.SaveSelection(r.Context(), trader, sess.BackendAccessToken)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, result)
}
