package model

import "time"

// SessionKind distinguishes CMS trader sessions from shop customer sessions.
type SessionKind string

const (
	SessionTrader   SessionKind = "trader"
	SessionCustomer SessionKind = "customer"
)

// SessionData is stored with an opaque session token. For trader sessions
// it also carries the backend token pair used by the sync calls, so a
// token refresh can be persisted back into the session.
type SessionData struct {
	Kind                SessionKind `json:"kind"`
	TraderID            int64       `json:"trader_id,omitempty"`
	CustomerID          int64       `json:"customer_id,omitempty"`
	Email               string      `json:"email"`
	BackendAccessToken  string      `json:"backend_access_token,omitempty"`
	BackendRefreshToken string      `json:"backend_refresh_token,omitempty"`
	CreatedAt           time.Time   `json:"created_at"`
	ExpiresAt           time.Time   `json:"expires_at"`
}
