package handler

import (
	"fmt"
	"html"
	"net/http"

	"traderhub-api/internal/middleware"
	"traderhub-api/internal/model"
	"traderhub-api/internal/service"
	"traderhub-api/pkg/apierror"
	"traderhub-api/pkg/response"
)

// CMSSyncHandler serves the sync trigger routes. Responses are JSON by
// default and an HTML alert fragment when the request comes from htmx.
type CMSSyncHandler struct {
	sync *service.SyncService
	auth *service.AuthService
}

// NewCMSSyncHandler creates the CMS sync handler.
func NewCMSSyncHandler(sync *service.SyncService, auth *service.AuthService) *CMSSyncHandler {
	return &CMSSyncHandler{sync: sync, auth: auth}
}

func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

func writeSyncResult(w http.ResponseWriter, r *http.Request, what string, result *service.SyncResult) {
	if isHTMX(r) {
		response.HTMLFragment(w, http.StatusOK, fmt.Sprintf(
			`<div class="alert alert-success">%s synced: %d total, %d new, %d updated</div>`,
			html.EscapeString(what), result.Synced, result.New, result.Updated))
		return
	}
	response.OK(w, result)
}

func writeSyncError(w http.ResponseWriter, r *http.Request, err error) {
	if isHTMX(r) {
		apiErr := apierror.From(err)
		response.HTMLFragment(w, apiErr.StatusCode, fmt.Sprintf(
			`<div class="alert alert-danger">%s</div>`, html.EscapeString(apiErr.Message)))
		return
	}
	response.Error(w, err)
}

func (h *CMSSyncHandler) trader(r *http.Request) (*model.Trader, *model.SessionData, string, error) {
	sess := middleware.GetSession(r.Context())
	token := middleware.GetSessionToken(r.Context())
	trader, err := h.auth.Profile(r.Context(), sess.TraderID)
	return trader, sess, token, err
}

// SyncProducts handles POST /api/v1/sync/products.
func (h *CMSSyncHandler) SyncProducts(w http.ResponseWriter, r *http.Request) {
	trader, sess, token, err := h.trader(r)
	if err != nil {
		writeSyncError(w, r, err)
		return
	}
	result, err := h.sync.SyncProductsWithRefresh(r.Context(), trader, token, sess)
	if err != nil {
		writeSyncError(w, r, err)
		return
	}
	writeSyncResult(w, r, "Products", result)
}

// SyncOrders handles POST /api/v1/sync/orders.
func (h *CMSSyncHandler) SyncOrders(w http.ResponseWriter, r *http.Request) {
	trader, sess, token, err := h.trader(r)
	if err != nil {
		writeSyncError(w, r, err)
		return
	}
	result, err := h.sync.SyncOrdersWithRefresh(r.Context(), trader, token, sess)
	if err != nil {
		writeSyncError(w, r, err)
		return
	}
	writeSyncResult(w, r, "Orders", result)
}
