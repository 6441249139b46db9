package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/fly24/backoffice/internal/model"
)

// AirlineRepo manages the per-account airline directory, including the
// document template links attached to each airline.
type AirlineRepo struct {
	db *sql.DB
}

// NewAirlineRepo returns an AirlineRepo bound to the given database.
func NewAirlineRepo(db *sql.DB) *AirlineRepo { return &AirlineRepo{db: db} }

const airlineCols = "id, user_id, name, ticket_template, manifest_office, manifest_airport, created_by, created_at, updated_at"

// Create inserts an airline row. Names are unique per account.
func (r *AirlineRepo) Create(ctx context.Context, a model.Airline) (model.Airline, error) {
	const q = `INSERT INTO airlines (user_id, name, ticket_template, manifest_office, manifest_airport, created_by)
		VALUES (?,?,?,?,?,?)`
	res, err := r.db.ExecContext(ctx, q, a.UserID, a.Name, a.TicketTemplate, a.ManifestOffice, a.ManifestAirport, a.CreatedBy)
	if err != nil {
		if strings.Contains(err.Error(), "1062") {
			return model.Airline{}, ErrConflict
		}
		return model.Airline{}, err
	}
	id, _ := res.LastInsertId()
	return r.getByID(ctx, uint64(id), a.UserID)
}

// Update overwrites the name and template links of an airline.
func (r *AirlineRepo) Update(ctx context.Context, a model.Airline) (model.Airline, error) {
	const q = `UPDATE airlines SET name=?, ticket_template=?, manifest_office=?, manifest_airport=?, updated_at=NOW()
		WHERE id=? AND user_id=?`
	res, err := r.db.ExecContext(ctx, q, a.Name, a.TicketTemplate, a.ManifestOffice, a.ManifestAirport, a.ID, a.UserID)
	if err != nil {
		if strings.Contains(err.Error(), "1062") {
			return model.Airline{}, ErrConflict
		}
		return model.Airline{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.getByID(ctx, a.ID, a.UserID); err != nil {
			return model.Airline{}, err
		}
	}
	return r.getByID(ctx, a.ID, a.UserID)
}

// Delete removes an airline row within an account scope.
func (r *AirlineRepo) Delete(ctx context.Context, id, accountID uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM airlines WHERE id=? AND user_id=?", id, accountID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByAccount returns all airlines for an account ordered by name.
func (r *AirlineRepo) ListByAccount(ctx context.Context, accountID uint64) ([]model.Airline, error) {
	const q = `SELECT ` + airlineCols + ` FROM airlines WHERE user_id=? ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var airlines []model.Airline
	for rows.Next() {
		a, err := scanAirline(rows)
		if err != nil {
			return nil, err
		}
		airlines = append(airlines, a)
	}
	return airlines, rows.Err()
}

func (r *AirlineRepo) getByID(ctx context.Context, id, accountID uint64) (model.Airline, error) {
	const q = `SELECT ` + airlineCols + ` FROM airlines WHERE id=? AND user_id=? LIMIT 1`
	return scanAirline(r.db.QueryRowContext(ctx, q, id, accountID))
}

func scanAirline(s rowScanner) (model.Airline, error) {
	var (
		a                        model.Airline
		ticket, office, airport sql.NullString
	)
	err := s.Scan(&a.ID, &a.UserID, &a.Name, &ticket, &office, &airport, &a.CreatedBy, &a.CreatedAt, &a.UpdatedAt)
	if err == sql.ErrNoRows {
		return model.Airline{}, ErrNotFound
	}
	a.TicketTemplate = ticket.String
	a.ManifestOffice = office.String
	a.ManifestAirport = airport.String
	return a, err
}
