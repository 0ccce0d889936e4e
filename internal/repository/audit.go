package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"traderhub-api/internal/model"
	"traderhub-api/internal/store"
)

// SQLAuditRepository implements AuditRepository over the shared store.
type SQLAuditRepository struct {
	db *store.DB
}

// NewAuditRepository creates an audit log repository.
func NewAuditRepository(db *store.DB) *SQLAuditRepository {
	return &SQLAuditRepository{db: db}
}

func (r *SQLAuditRepository) Insert(ctx context.Context, entry *model.AuditLog) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	data := entry.Data
	if data == nil {
		data = map[string]interface{}{}
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to encode audit data: %w", err)
	}
	id, err := insertReturningID(ctx, r.db, r.db.DB, `
		INSERT INTO audit_logs (trader_id, action, entity, entity_id, audit_data, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		entry.TraderID, entry.Action, entry.Entity, entry.EntityID, string(raw), entry.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to insert audit log: %w", err)
	}
	entry.ID = id
	return nil
}

func (r *SQLAuditRepository) ListByTrader(ctx context.Context, traderID int64, page, limit int) ([]model.AuditLog, int64, error) {
	_, limit, offset := clampPage(page, limit)

	var total int64
	if err := r.db.QueryRowContext(ctx, r.db.Rebind(
		`SELECT COUNT(*) FROM audit_logs WHERE trader_id = ?`), traderID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count audit logs: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, r.db.Rebind(`
		SELECT id, trader_id, action, entity, entity_id, audit_data, created_at
		FROM audit_logs
		WHERE trader_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?`), traderID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list audit logs: %w", err)
	}
	defer rows.Close()

	out := []model.AuditLog{}
	for rows.Next() {
		var (
			entry model.AuditLog
			raw   string
		)
		if err := rows.Scan(&entry.ID, &entry.TraderID, &entry.Action, &entry.Entity,
			&entry.EntityID, &raw, &entry.Timestamp); err != nil {
			return nil, 0, err
		}
		if err := json.Unmarshal([]byte(raw), &entry.Data); err != nil {
			entry.Data = map[string]interface{}{}
		}
		out = append(out, entry)
	}
	return out, total, rows.Err()
}

var _ AuditRepository = (*SQLAuditRepository)(nil)
