package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"traderhub-api/internal/cache"
	"traderhub-api/internal/model"
	"traderhub-api/internal/service"
)

func newTokens(t *testing.T) (*service.TokenService, string) {
	t.Helper()
	tokens := service.NewTokenService(cache.NewMemoryStore(), time.Minute)
	token, err := tokens.GenerateToken(httptest.NewRequest("GET", "/", nil).Context(),
		&model.SessionData{Kind: model.SessionTrader, TraderID: 7, Email: "t@example.com"})
	if err != nil {
		t.Fatal(err)
	}
	return tokens, token
}

func TestTraderAuthAcceptsTokenHeaders(t *testing.T) {
	tokens, token := newTokens(t)

	var traderID int64
	h := TraderAuth(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traderID = GetSession(r.Context()).TraderID
		if GetSessionToken(r.Context()) != token {
			t.Error("raw token not in context")
		}
	}))

	for _, set := range []func(*http.Request){
		func(r *http.Request) { r.Header.Set("X-Token", token) },
		func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) },
	} {
		traderID = 0
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		set(req)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK || traderID != 7 {
			t.Errorf("auth failed: status %d, trader %d", rec.Code, traderID)
		}
	}
}

func TestTraderAuthRejectsMissingOrUnknownToken(t *testing.T) {
	tokens, _ := newTokens(t)
	h := TraderAuth(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not run")
	}))

	for _, token := range []string{"", "cms_bogus"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if token != "" {
			req.Header.Set("X-Token", token)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected 401 for token %q, got %d", token, rec.Code)
		}
	}
}

func TestOptionalCustomerAuthResolvesSessionWhenPresent(t *testing.T) {
	tokens := service.NewTokenService(cache.NewMemoryStore(), time.Minute)
	token, err := tokens.GenerateToken(httptest.NewRequest("GET", "/", nil).Context(),
		&model.SessionData{Kind: model.SessionCustomer, CustomerID: 3, Email: "c@example.com"})
	if err != nil {
		t.Fatal(err)
	}

	var sess *model.SessionData
	h := OptionalCustomerAuth(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess = GetSession(r.Context())
	}))

	// No token still reaches the handler, with no session.
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	if rec.Code != http.StatusOK || sess != nil {
		t.Fatalf("guest request: status %d, session %+v", rec.Code, sess)
	}

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("X-Token", token)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if sess == nil || sess.Email != "c@example.com" {
		t.Fatalf("expected customer session in context, got %+v", sess)
	}
}

func TestCustomerAuthRejectsTraderSession(t *testing.T) {
	tokens, traderToken := newTokens(t)
	h := CustomerAuth(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Token", traderToken)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("trader token must not pass customer auth, got %d", rec.Code)
	}
}
