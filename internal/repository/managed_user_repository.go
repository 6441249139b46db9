package repository

import (
	"context"
	"database/sql"

	"github.com/fly24/backoffice/internal/model"
)

// ManagedUserRepo manages the per-account list of staff accounts an
// owner has created. The delegation itself (whose data a staff user
// sees) lives in user_roles.created_by; this table is the owner-facing
// directory of those accounts.
type ManagedUserRepo struct {
	db *sql.DB
}

// NewManagedUserRepo returns a ManagedUserRepo bound to the given database.
func NewManagedUserRepo(db *sql.DB) *ManagedUserRepo { return &ManagedUserRepo{db: db} }

// Create inserts a managed-user directory row.
func (r *ManagedUserRepo) Create(ctx context.Context, m model.ManagedUser) (model.ManagedUser, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO managed_users (user_id, managed_user_id, email, role) VALUES (?,?,?,?)",
		m.UserID, m.ManagedID, m.Email, m.Role)
	if err != nil {
		return model.ManagedUser{}, err
	}
	id, _ := res.LastInsertId()
	m.ID = uint64(id)
	return m, nil
}

// ListByAccount returns all staff accounts created under an owner.
func (r *ManagedUserRepo) ListByAccount(ctx context.Context, accountID uint64) ([]model.ManagedUser, error) {
	const q = `SELECT id, user_id, managed_user_id, email, role, created_at
		FROM managed_users WHERE user_id=? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []model.ManagedUser
	for rows.Next() {
		var m model.ManagedUser
		if err := rows.Scan(&m.ID, &m.UserID, &m.ManagedID, &m.Email, &m.Role, &m.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, m)
	}
	return users, rows.Err()
}
