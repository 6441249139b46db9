package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/fly24/backoffice/internal/model"
)

// RoleRepo reads and writes role definitions (`role_permissions`, global)
// and role assignments (`user_roles`, one row per user carrying the
// delegation link for managed accounts).
type RoleRepo struct {
	db *sql.DB
}

// NewRoleRepo returns a RoleRepo bound to the given database.
func NewRoleRepo(db *sql.DB) *RoleRepo { return &RoleRepo{db: db} }

// ListDefinitions returns every role definition. Role definitions are
// account-independent: the same permission documents apply everywhere.
func (r *RoleRepo) ListDefinitions(ctx context.Context) ([]model.RoleDefinition, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, role, permissions, created_at, updated_at FROM role_permissions ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var defs []model.RoleDefinition
	for rows.Next() {
		var (
			d   model.RoleDefinition
			doc []byte
		)
		if err := rows.Scan(&d.ID, &d.Role, &doc, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		// Missing keys in the stored document decode to false (fail closed).
		if err := json.Unmarshal(doc, &d.Permissions); err != nil {
			return nil, err
		}
		defs = append(defs, d)
	}
	return defs, rows.Err()
}

// UpdateDefinition replaces the permission document of a role. The Admin
// role is implicitly all-permitted and is rejected here rather than
// silently rewritten.
func (r *RoleRepo) UpdateDefinition(ctx context.Context, id uint64, perms model.PermissionSet) (model.RoleDefinition, error) {
	var role string
	err := r.db.QueryRowContext(ctx, "SELECT role FROM role_permissions WHERE id=? LIMIT 1", id).Scan(&role)
	if err == sql.ErrNoRows {
		return model.RoleDefinition{}, ErrNotFound
	}
	if err != nil {
		return model.RoleDefinition{}, err
	}
	if role == model.RoleAdmin {
		return model.RoleDefinition{}, ErrForbidden
	}

	doc, err := json.Marshal(perms)
	if err != nil {
		return model.RoleDefinition{}, err
	}
	if _, err := r.db.ExecContext(ctx,
		"UPDATE role_permissions SET permissions=?, updated_at=NOW() WHERE id=?", doc, id); err != nil {
		return model.RoleDefinition{}, err
	}

	var (
		d   model.RoleDefinition
		raw []byte
	)
	err = r.db.QueryRowContext(ctx,
		"SELECT id, role, permissions, created_at, updated_at FROM role_permissions WHERE id=? LIMIT 1",
		id).Scan(&d.ID, &d.Role, &raw, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return model.RoleDefinition{}, err
	}
	if err := json.Unmarshal(raw, &d.Permissions); err != nil {
		return model.RoleDefinition{}, err
	}
	return d, nil
}

// GetUserRole returns the role assignment for a user. Returns ErrNotFound
// when no assignment exists; the session resolver treats that as
// self-scoping rather than a hard failure.
func (r *RoleRepo) GetUserRole(ctx context.Context, userID uint64) (model.UserRole, error) {
	var (
		ur        model.UserRole
		createdBy sql.NullInt64
	)
	err := r.db.QueryRowContext(ctx,
		"SELECT user_id, role, created_by FROM user_roles WHERE user_id=? LIMIT 1",
		userID).Scan(&ur.UserID, &ur.Role, &createdBy)
	if err == sql.ErrNoRows {
		return model.UserRole{}, ErrNotFound
	}
	if err != nil {
		return model.UserRole{}, err
	}
	if createdBy.Valid {
		v := uint64(createdBy.Int64)
		ur.CreatedBy = &v
	}
	return ur, nil
}

// AssignRole writes a user's role assignment. createdBy is nil for
// top-level owner accounts and set for managed users.
func (r *RoleRepo) AssignRole(ctx context.Context, userID uint64, role string, createdBy *uint64) error {
	const q = `INSERT INTO user_roles (user_id, role, created_by) VALUES (?,?,?)
		ON DUPLICATE KEY UPDATE role=VALUES(role), created_by=VALUES(created_by)`
	var cb any
	if createdBy != nil {
		cb = *createdBy
	}
	_, err := r.db.ExecContext(ctx, q, userID, role, cb)
	return err
}
