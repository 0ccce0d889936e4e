package repository

import (
	"context"
	"fmt"
	"time"

	"traderhub-api/internal/store"
)

// SQLSelectionRepository implements SelectionRepository over the shared
// store. Selection rows survive restarts so a trader can resume a
// half-built selection.
type SQLSelectionRepository struct {
	db *store.DB
}

// NewSelectionRepository creates a selection repository.
func NewSelectionRepository(db *store.DB) *SQLSelectionRepository {
	return &SQLSelectionRepository{db: db}
}

func (r *SQLSelectionRepository) List(ctx context.Context, traderID int64) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, r.db.Rebind(`
		SELECT product_source_id FROM selection_items
		WHERE trader_id = ? ORDER BY created_at, id`), traderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list selection: %w", err)
	}
	defer rows.Close()

	out := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func (r *SQLSelectionRepository) Add(ctx context.Context, traderID int64, sourceIDs []int64) error {
	stmt := r.db.Rebind(`
		INSERT INTO selection_items (trader_id, product_source_id, created_at)
		VALUES (?, ?, ?)`)
	now := time.Now().UTC()
	for _, id := range sourceIDs {
		_, err := r.db.ExecContext(ctx, stmt, traderID, id, now)
		if err != nil {
			if isUniqueViolation(err) {
				continue // already selected
			}
			return fmt.Errorf("failed to add selection item: %w", err)
		}
	}
	return nil
}

func (r *SQLSelectionRepository) Remove(ctx context.Context, traderID int64, sourceIDs []int64) error {
	if len(sourceIDs) == 0 {
		return nil
	}
	args := make([]interface{}, 0, len(sourceIDs)+1)
	args = append(args, traderID)
	for _, id := range sourceIDs {
		args = append(args, id)
	}
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
		DELETE FROM selection_items
		WHERE trader_id = ? AND product_source_id IN (`+placeholders(len(sourceIDs))+`)`), args...)
	if err != nil {
		return fmt.Errorf("failed to remove selection items: %w", err)
	}
	return nil
}

func (r *SQLSelectionRepository) Clear(ctx context.Context, traderID int64) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(
		`DELETE FROM selection_items WHERE trader_id = ?`), traderID)
	if err != nil {
		return fmt.Errorf("failed to clear selection: %w", err)
	}
	return nil
}

var _ SelectionRepository = (*SQLSelectionRepository)(nil)
