package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/fly24/backoffice/internal/model"
)

// SettingsRepo manages the per-account settings row (pricing rules).
type SettingsRepo struct {
	db *sql.DB
}

// NewSettingsRepo returns a SettingsRepo bound to the given database.
func NewSettingsRepo(db *sql.DB) *SettingsRepo { return &SettingsRepo{db: db} }

// GetByAccount fetches the settings row for an account. Returns
// ErrNotFound when the account has no row yet; callers fall back to
// model.DefaultPricing in that case.
func (r *SettingsRepo) GetByAccount(ctx context.Context, accountID uint64) (model.Settings, error) {
	var (
		s       model.Settings
		pricing []byte
	)
	err := r.db.QueryRowContext(ctx,
		"SELECT id, user_id, pricing, updated_at FROM settings WHERE user_id=? LIMIT 1",
		accountID).Scan(&s.ID, &s.UserID, &pricing, &s.UpdatedAt)
	if err == sql.ErrNoRows {
		return model.Settings{}, ErrNotFound
	}
	if err != nil {
		return model.Settings{}, err
	}
	if err := json.Unmarshal(pricing, &s.Pricing); err != nil {
		return model.Settings{}, err
	}
	return s, nil
}

// UpsertPricing writes the pricing document for an account, creating the
// settings row on first save.
func (r *SettingsRepo) UpsertPricing(ctx context.Context, accountID uint64, p model.Pricing) error {
	doc, err := json.Marshal(p)
	if err != nil {
		return err
	}
	const q = `INSERT INTO settings (user_id, pricing) VALUES (?,?)
		ON DUPLICATE KEY UPDATE pricing=VALUES(pricing), updated_at=NOW()`
	_, err = r.db.ExecContext(ctx, q, accountID, doc)
	return err
}
