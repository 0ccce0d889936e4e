package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"traderhub-api/internal/cache"
	"traderhub-api/internal/model"
)

func TestTokenPrefixes(t *testing.T) {
	svc := NewTokenService(cache.NewMemoryStore(), time.Minute)

	traderToken, err := svc.GenerateToken(context.Background(), &model.SessionData{Kind: model.SessionTrader, TraderID: 1})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(traderToken, TraderTokenPrefix) {
		t.Errorf("trader token missing prefix: %s", traderToken)
	}

	customerToken, err := svc.GenerateToken(context.Background(), &model.SessionData{Kind: model.SessionCustomer, CustomerID: 2})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(customerToken, CustomerTokenPrefix) {
		t.Errorf("customer token missing prefix: %s", customerToken)
	}
}

func TestTokenValidateRoundtrip(t *testing.T) {
	svc := NewTokenService(cache.NewMemoryStore(), time.Minute)

	token, err := svc.GenerateToken(context.Background(), &model.SessionData{
		Kind: model.SessionTrader, TraderID: 42, Email: "t@example.com",
	})
	if err != nil {
		t.Fatal(err)
	}
	sess, err := svc.ValidateToken(context.Background(), token)
	if err != nil {
		t.Fatal(err)
	}
	if sess.TraderID != 42 || sess.Email != "t@example.com" {
		t.Errorf("session data lost: %+v", sess)
	}

	if _, err := svc.ValidateToken(context.Background(), "cms_unknown"); err == nil {
		t.Error("unknown token must fail validation")
	}
	if _, err := svc.ValidateToken(context.Background(), ""); err == nil {
		t.Error("empty token must fail validation")
	}
}

func TestTokenRefreshRotates(t *testing.T) {
	svc := NewTokenService(cache.NewMemoryStore(), time.Minute)

	token, _ := svc.GenerateToken(context.Background(), &model.SessionData{Kind: model.SessionTrader, TraderID: 1})
	fresh, sess, err := svc.RefreshToken(context.Background(), token)
	if err != nil {
		t.Fatal(err)
	}
	if fresh == token {
		t.Error("refresh must rotate the token")
	}
	if sess.TraderID != 1 {
		t.Errorf("session data lost on refresh: %+v", sess)
	}
	if _, err := svc.ValidateToken(context.Background(), token); err == nil {
		t.Error("old token must be revoked after refresh")
	}
	if _, err := svc.ValidateToken(context.Background(), fresh); err != nil {
		t.Errorf("fresh token must validate: %v", err)
	}
}

func TestUpdateBackendTokens(t *testing.T) {
	svc := NewTokenService(cache.NewMemoryStore(), time.Minute)

	token, _ := svc.GenerateToken(context.Background(), &model.SessionData{
		Kind: model.SessionTrader, TraderID: 1, BackendAccessToken: "old-at",
	})
	if err := svc.UpdateBackendTokens(context.Background(), token, "new-at", "new-rt"); err != nil {
		t.Fatal(err)
	}
	sess, err := svc.ValidateToken(context.Background(), token)
	if err != nil {
		t.Fatal(err)
	}
	if sess.BackendAccessToken != "new-at" || sess.BackendRefreshToken != "new-rt" {
		t.Errorf("backend tokens not updated: %+v", sess)
	}
	if sess.TraderID != 1 {
		t.Errorf("session identity lost: %+v", sess)
	}
}
