package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"traderhub-api/internal/model"
	"traderhub-api/internal/store"
)

// SQLTraderRepository implements TraderRepository over the shared store.
type SQLTraderRepository struct {
	db *store.DB
}

// NewTraderRepository creates a trader repository.
func NewTraderRepository(db *store.DB) *SQLTraderRepository {
	return &SQLTraderRepository{db: db}
}

const traderColumns = `id, email, password_hash, business_name, backend_user_id, api_key, status, created_at, updated_at`

func (r *SQLTraderRepository) scanTrader(row interface{ Scan(...interface{}) error }) (*model.Trader, error) {
	var t model.Trader
	err := row.Scan(&t.ID, &t.Email, &t.PasswordHash, &t.BusinessName,
		&t.BackendUserID, &t.APIKey, &t.Status, &t.CreatedAt, &t.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan trader: %w", err)
	}
	return &t, nil
}

func (r *SQLTraderRepository) Create(ctx context.Context, t *model.Trader) error {
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now
	if t.Status == "" {
		t.Status = model.TraderPending
	}
	id, err := insertReturningID(ctx, r.db, r.db.DB, `
		INSERT INTO traders (email, password_hash, business_name, backend_user_id, api_key, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.Email, t.PasswordHash, t.BusinessName, t.BackendUserID, t.APIKey, t.Status, now, now)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrEmailTaken
		}
		return fmt.Errorf("failed to create trader: %w", err)
	}
	t.ID = id
	return nil
}

func (r *SQLTraderRepository) GetByID(ctx context.Context, id int64) (*model.Trader, error) {
	row := r.db.QueryRowContext(ctx, r.db.Rebind(
		`SELECT `+traderColumns+` FROM traders WHERE id = ?`), id)
	return r.scanTrader(row)
}

func (r *SQLTraderRepository) GetByEmail(ctx context.Context, email string) (*model.Trader, error) {
	row := r.db.QueryRowContext(ctx, r.db.Rebind(
		`SELECT `+traderColumns+` FROM traders WHERE email = ?`), email)
	return r.scanTrader(row)
}

func (r *SQLTraderRepository) UpdateProfile(ctx context.Context, t *model.Trader) error {
	t.UpdatedAt = time.Now().UTC()
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
		UPDATE traders SET business_name = ?, api_key = ?, updated_at = ? WHERE id = ?`),
		t.BusinessName, t.APIKey, t.UpdatedAt, t.ID)
	if err != nil {
		return fmt.Errorf("failed to update trader: %w", err)
	}
	return nil
}

func (r *SQLTraderRepository) SetBackendUserID(ctx context.Context, id, backendUserID int64) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
		UPDATE traders SET backend_user_id = ?, updated_at = ? WHERE id = ?`),
		backendUserID, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to link backend user: %w", err)
	}
	return nil
}

func (r *SQLTraderRepository) SetStatus(ctx context.Context, id int64, status model.TraderStatus) error {
	tag, err := r.db.ExecContext(ctx, r.db.Rebind(`
		UPDATE traders SET status = ?, updated_at = ? WHERE id = ?`),
		status, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to set trader status: %w", err)
	}
	if n, _ := tag.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

var _ TraderRepository = (*SQLTraderRepository)(nil)
