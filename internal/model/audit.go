package model

import "time"

// Audit actions recorded by the CMS.
const (
	AuditSync          = "SYNC"
	AuditSyncOrders    = "SYNC_ORDERS"
	AuditSaveSelection = "SAVE_SELECTION"
	AuditProductUpdate = "PRODUCT_UPDATE"
	AuditProductOrder  = "PRODUCT_REORDER"
	AuditRegister      = "REGISTER"
	AuditLogin         = "LOGIN"
	AuditProfileUpdate = "PROFILE_UPDATE"
)

// AuditLog is one entry of the trader-facing audit trail.
type AuditLog struct {
	ID        int64                  `json:"id"`
	TraderID  int64                  `json:"trader_id,omitempty"`
	Action    string                 `json:"action"`
	Entity    string                 `json:"entity"`
	EntityID  int64                  `json:"entity_id,omitempty"`
	Data      map[string]interface{} `json:"data"`
	Timestamp time.Time              `json:"timestamp"`
}
