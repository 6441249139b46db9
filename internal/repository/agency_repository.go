package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/fly24/backoffice/internal/model"
)

// AgencyRepo manages the per-account partner agency directory.
type AgencyRepo struct {
	db *sql.DB
}

// NewAgencyRepo returns an AgencyRepo bound to the given database.
func NewAgencyRepo(db *sql.DB) *AgencyRepo { return &AgencyRepo{db: db} }

const agencyCols = "id, user_id, name, phone, created_by, created_at, updated_at"

// Create inserts an agency row. Names are unique per account.
func (r *AgencyRepo) Create(ctx context.Context, a model.Agency) (model.Agency, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO agencies (user_id, name, phone, created_by) VALUES (?,?,?,?)",
		a.UserID, a.Name, a.Phone, a.CreatedBy)
	if err != nil {
		if strings.Contains(err.Error(), "1062") {
			return model.Agency{}, ErrConflict
		}
		return model.Agency{}, err
	}
	id, _ := res.LastInsertId()
	return r.getByID(ctx, uint64(id), a.UserID)
}

// Update overwrites an agency's name and phone.
func (r *AgencyRepo) Update(ctx context.Context, a model.Agency) (model.Agency, error) {
	res, err := r.db.ExecContext(ctx,
		"UPDATE agencies SET name=?, phone=?, updated_at=NOW() WHERE id=? AND user_id=?",
		a.Name, a.Phone, a.ID, a.UserID)
	if err != nil {
		if strings.Contains(err.Error(), "1062") {
			return model.Agency{}, ErrConflict
		}
		return model.Agency{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.getByID(ctx, a.ID, a.UserID); err != nil {
			return model.Agency{}, err
		}
	}
	return r.getByID(ctx, a.ID, a.UserID)
}

// Delete removes an agency row within an account scope.
func (r *AgencyRepo) Delete(ctx context.Context, id, accountID uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM agencies WHERE id=? AND user_id=?", id, accountID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByAccount returns all agencies for an account ordered by name.
func (r *AgencyRepo) ListByAccount(ctx context.Context, accountID uint64) ([]model.Agency, error) {
	const q = `SELECT ` + agencyCols + ` FROM agencies WHERE user_id=? ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var agencies []model.Agency
	for rows.Next() {
		a, err := scanAgency(rows)
		if err != nil {
			return nil, err
		}
		agencies = append(agencies, a)
	}
	return agencies, rows.Err()
}

func (r *AgencyRepo) getByID(ctx context.Context, id, accountID uint64) (model.Agency, error) {
	const q = `SELECT ` + agencyCols + ` FROM agencies WHERE id=? AND user_id=? LIMIT 1`
	return scanAgency(r.db.QueryRowContext(ctx, q, id, accountID))
}

func scanAgency(s rowScanner) (model.Agency, error) {
	var (
		a     model.Agency
		phone sql.NullString
	)
	err := s.Scan(&a.ID, &a.UserID, &a.Name, &phone, &a.CreatedBy, &a.CreatedAt, &a.UpdatedAt)
	if err == sql.ErrNoRows {
		return model.Agency{}, ErrNotFound
	}
	a.Phone = phone.String
	return a, err
}
