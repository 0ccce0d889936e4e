package cache

import (
	"context"
	"errors"
	"time"

	"traderhub-api/internal/model"
)

// ErrMiss is returned when a key is absent or expired.
var ErrMiss = errors.New("cache miss")

// TokenStore persists session data keyed by opaque token.
type TokenStore interface {
	SetSession(ctx context.Context, token string, data *model.SessionData, ttl time.Duration) error
	GetSession(ctx context.Context, token string) (*model.SessionData, error)
	DeleteSession(ctx context.Context, token string) error
}

// CartStore persists the ephemeral shop cart keyed by cart session ID.
type CartStore interface {
	SetCart(ctx context.Context, cartID string, lines []model.CartLine, ttl time.Duration) error
	GetCart(ctx context.Context, cartID string) ([]model.CartLine, error)
	DeleteCart(ctx context.Context, cartID string) error
}

// Store combines both concerns; the Redis and memory backends implement it.
type Store interface {
	TokenStore
	CartStore
	Close() error
}
