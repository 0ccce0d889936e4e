package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"traderhub-api/internal/cache"
	"traderhub-api/internal/model"
	"traderhub-api/pkg/apierror"
)

// Token prefixes distinguish CMS trader sessions from shop customer
// sessions at a glance.
const (
	TraderTokenPrefix   = "cms_"
	CustomerTokenPrefix = "shp_"
)

// TokenService issues and validates opaque session tokens backed by a
// TokenStore.
type TokenService struct {
	store cache.TokenStore
	ttl   time.Duration
}

// NewTokenService creates a token service with the given session TTL.
func NewTokenService(store cache.TokenStore, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &TokenService{store: store, ttl: ttl}
}

func randomToken(prefix string) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return prefix + hex.EncodeToString(buf), nil
}

// GenerateToken issues a fresh session token for the given session data.
func (s *TokenService) GenerateToken(ctx context.Context, data *model.SessionData) (string, error) {
	prefix := TraderTokenPrefix
	if data.Kind == model.SessionCustomer {
		prefix = CustomerTokenPrefix
	}
	token, err := randomToken(prefix)
	if err != nil {
		return "", err
	}
	now := time.Now().UTC()
	data.CreatedAt = now
	data.ExpiresAt = now.Add(s.ttl)
	if err := s.store.SetSession(ctx, token, data, s.ttl); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}
	return token, nil
}

// ValidateToken resolves a token to its session data.
func (s *TokenService) ValidateToken(ctx context.Context, token string) (*model.SessionData, error) {
	if token == "" {
		return nil, apierror.Unauthorized("")
	}
	data, err := s.store.GetSession(ctx, token)
	if err == cache.ErrMiss {
		return nil, apierror.Unauthorized("Invalid or expired token")
	}
	if err != nil {
		return nil, apierror.InternalError(err.Error())
	}
	return data, nil
}

// RefreshToken revokes the old token and issues a new one carrying the
// same session data.
func (s *TokenService) RefreshToken(ctx context.Context, token string) (string, *model.SessionData, error) {
	data, err := s.ValidateToken(ctx, token)
	if err != nil {
		return "", nil, err
	}
	_ = s.store.DeleteSession(ctx, token)
	fresh, err := s.GenerateToken(ctx, data)
	if err != nil {
		return "", nil, err
	}
	return fresh, data, nil
}

// RevokeToken deletes the session. Revoking an unknown token is not an
// error.
func (s *TokenService) RevokeToken(ctx context.Context, token string) error {
	return s.store.DeleteSession(ctx, token)
}

// UpdateBackendTokens rewrites the backend token pair inside an
// existing session, preserving its remaining TTL window.
func (s *TokenService) UpdateBackendTokens(ctx context.Context, token, access, refresh string) error {
	data, err := s.store.GetSession(ctx, token)
	if err == cache.ErrMiss {
		return apierror.Unauthorized("Invalid or expired token")
	}
	if err != nil {
		return err
	}
	data.BackendAccessToken = access
	data.BackendRefreshToken = refresh
	ttl := time.Until(data.ExpiresAt)
	if ttl <= 0 {
		ttl = time.Minute
	}
	return s.store.SetSession(ctx, token, data, ttl)
}
