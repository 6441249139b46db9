package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/fly24/backoffice/internal/model"
)

// ActivityRepo appends and lists audit trail entries. The table is
// append-only: there is deliberately no update or delete here.
type ActivityRepo struct {
	db *sql.DB
}

// NewActivityRepo returns an ActivityRepo bound to the given database.
func NewActivityRepo(db *sql.DB) *ActivityRepo { return &ActivityRepo{db: db} }

// Insert appends one activity entry.
func (r *ActivityRepo) Insert(ctx context.Context, e model.ActivityLog) error {
	details, err := json.Marshal(e.Details)
	if err != nil {
		return err
	}
	const q = `INSERT INTO activity_logs (user_id, account_id, entity_type, action_type, description, details)
		VALUES (?,?,?,?,?,?)`
	_, err = r.db.ExecContext(ctx, q, e.UserID, e.AccountID, e.EntityType, e.ActionType, e.Description, details)
	return err
}

// ListByAccount returns the newest entries for an account, capped at
// limit (default 200 when limit <= 0).
func (r *ActivityRepo) ListByAccount(ctx context.Context, accountID uint64, limit int) ([]model.ActivityLog, error) {
	if limit <= 0 {
		limit = 200
	}
	const q = `SELECT id, user_id, account_id, entity_type, action_type, description, details, created_at
		FROM activity_logs WHERE account_id=? ORDER BY created_at DESC, id DESC LIMIT ?`
	rows, err := r.db.QueryContext(ctx, q, accountID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []model.ActivityLog
	for rows.Next() {
		var (
			e       model.ActivityLog
			details []byte
		)
		if err := rows.Scan(&e.ID, &e.UserID, &e.AccountID, &e.EntityType, &e.ActionType,
			&e.Description, &details, &e.CreatedAt); err != nil {
			return nil, err
		}
		if len(details) > 0 {
			if err := json.Unmarshal(details, &e.Details); err != nil {
				return nil, err
			}
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
