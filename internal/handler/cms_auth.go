package handler

import (
	"net/http"

	"traderhub-api/internal/middleware"
	"traderhub-api/internal/service"
	"traderhub-api/pkg/response"
)

// CMSAuthHandler serves trader registration, login and profile routes.
type CMSAuthHandler struct {
	auth *service.AuthService
}

// NewCMSAuthHandler creates the CMS auth handler.
func NewCMSAuthHandler(auth *service.AuthService) *CMSAuthHandler {
	return &CMSAuthHandler{auth: auth}
}

// Register handles POST /api/v1/auth/register.
func (h *CMSAuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var in service.RegisterInput
	if err := decode(r, &in); err != nil {
		response.Error(w, err)
		return
	}
	trader, err := h.auth.Register(r.Context(), in)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Created(w, trader)
}

// Login handles POST /api/v1/auth/login.
func (h *CMSAuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decode(r, &in); err != nil {
		response.Error(w, err)
		return
	}
	result, err := h.auth.Login(r.Context(), in.Email, in.Password)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, result)
}

// Refresh handles POST /api/v1/auth/refresh.
func (h *CMSAuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	token, err := h.auth.Refresh(r.Context(), middleware.GetSessionToken(r.Context()))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, map[string]string{"token": token})
}

// Logout handles POST /api/v1/auth/logout.
func (h *CMSAuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.auth.Logout(r.Context(), middleware.GetSessionToken(r.Context())); err != nil {
		response.Error(w, err)
		return
	}
	response.NoContent(w)
}

// Profile handles GET /api/v1/profile.
func (h *CMSAuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())
	trader, err := h.auth.Profile(r.Context(), sess.TraderID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, trader)
}

// UpdateProfile handles PUT /api/v1/profile.
func (h *CMSAuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var in struct {
		BusinessName string `json:"business_name"`
		APIKey       string `json:"api_key"`
	}
	if err := decode(r, &in); err != nil {
		response.Error(w, err)
		return
	}
	sess := middleware.GetSession(r.Context())
	trader, err := h.auth.UpdateProfile(r.Context(), sess.TraderID, in.BusinessName, in.APIKey)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, trader)
}
