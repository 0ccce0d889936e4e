package repository

import (
	"context"
	"database/sql"
	"strings"

	"traderhub-api/internal/store"
)

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// insertReturningID runs an INSERT and returns the generated id.
// Postgres has no LastInsertId, so the query gets a RETURNING clause.
func insertReturningID(ctx context.Context, db *store.DB, ex execer, query string, args ...interface{}) (int64, error) {
	if db.Dialect() == store.Postgres {
		var id int64
		err := ex.QueryRowContext(ctx, db.Rebind(query)+" RETURNING id", args...).Scan(&id)
		return id, err
	}
	res, err := ex.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// placeholders returns "?, ?, ..." with n entries.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?, ", n-1) + "?"
}

// likeOp returns the case-insensitive LIKE operator for the dialect.
func likeOp(db *store.DB) string {
	if db.Dialect() == store.Postgres {
		return "ILIKE"
	}
	return "LIKE"
}

// clampPage normalizes pagination inputs.
func clampPage(page, limit int) (int, int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return page, limit, (page - 1) * limit
}

// isUniqueViolation reports whether err is a unique-constraint failure.
// The three drivers have no shared error type, so this goes by message.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate")
}
