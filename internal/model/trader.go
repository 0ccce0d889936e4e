package model

import "time"

// TraderStatus is the approval state of a trader account.
type TraderStatus string

const (
	TraderPending  TraderStatus = "PENDING"
	TraderActive   TraderStatus = "ACTIVE"
	TraderRejected TraderStatus = "REJECTED"
)

// Trader is a merchant account curating a subset of centrally-managed products.
type Trader struct {
	ID            int64        `json:"id"`
	Email         string       `json:"email"`
	PasswordHash  string       `json:"-"`
	BusinessName  string       `json:"business_name"`
	BackendUserID int64        `json:"backend_user_id,omitempty"`
	APIKey        string       `json:"api_key,omitempty"`
	Status        TraderStatus `json:"status"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// Linked reports whether the trader has a backend identity attached.
func (t *Trader) Linked() bool {
	return t.BackendUserID != 0
}
