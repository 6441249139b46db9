package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/fly24/backoffice/internal/model"
)

// FlightRepo provides CRUD operations for the `flights` table. Rows are
// always scoped by user_id (the owning account); passengers are stored
// separately and joined in memory by the store, never here.
type FlightRepo struct {
	db *sql.DB
}

// NewFlightRepo returns a FlightRepo bound to the given database.
func NewFlightRepo(db *sql.DB) *FlightRepo { return &FlightRepo{db: db} }

const flightCols = "id, uuid, user_id, airline, flight_number, date, route, created_by, created_at, updated_at"

// Create inserts a flight row and returns the persisted record with
// database-generated fields populated. The caller supplies the UUID.
func (r *FlightRepo) Create(ctx context.Context, f model.Flight) (model.Flight, error) {
	const q = `INSERT INTO flights (uuid, user_id, airline, flight_number, date, route, created_by)
		VALUES (?,?,?,?,?,?,?)`
	res, err := r.db.ExecContext(ctx, q, f.UUID, f.UserID, f.Airline, f.FlightNumber, f.Date, f.Route, f.CreatedBy)
	if err != nil {
		if strings.Contains(err.Error(), "1062") {
			return model.Flight{}, ErrConflict
		}
		return model.Flight{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Flight{}, err
	}
	return r.GetByID(ctx, uint64(id), f.UserID)
}

// GetByID fetches a flight by its numeric id within an account scope.
func (r *FlightRepo) GetByID(ctx context.Context, id, accountID uint64) (model.Flight, error) {
	const q = `SELECT ` + flightCols + ` FROM flights WHERE id=? AND user_id=? LIMIT 1`
	return scanFlight(r.db.QueryRowContext(ctx, q, id, accountID))
}

// GetByUUID fetches a flight by its UUID within an account scope.
func (r *FlightRepo) GetByUUID(ctx context.Context, uuid string, accountID uint64) (model.Flight, error) {
	const q = `SELECT ` + flightCols + ` FROM flights WHERE uuid=? AND user_id=? LIMIT 1`
	return scanFlight(r.db.QueryRowContext(ctx, q, uuid, accountID))
}

// ListByAccount returns all flights owned by the given account, most
// recent departure first.
func (r *FlightRepo) ListByAccount(ctx context.Context, accountID uint64) ([]model.Flight, error) {
	const q = `SELECT ` + flightCols + ` FROM flights WHERE user_id=? ORDER BY date DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var flights []model.Flight
	for rows.Next() {
		f, err := scanFlight(rows)
		if err != nil {
			return nil, err
		}
		flights = append(flights, f)
	}
	return flights, rows.Err()
}

// Update overwrites the mutable fields of a flight identified by UUID and
// returns the updated row. Passenger rows are untouched.
func (r *FlightRepo) Update(ctx context.Context, uuid string, accountID uint64, patch model.FlightPatch) (model.Flight, error) {
	set := []string{}
	args := []any{}
	if patch.Airline != nil {
		set = append(set, "airline=?")
		args = append(args, *patch.Airline)
	}
	if patch.FlightNumber != nil {
		set = append(set, "flight_number=?")
		args = append(args, *patch.FlightNumber)
	}
	if patch.Date != nil {
		set = append(set, "date=?")
		args = append(args, *patch.Date)
	}
	if patch.Route != nil {
		set = append(set, "route=?")
		args = append(args, *patch.Route)
	}
	if len(set) > 0 {
		q := "UPDATE flights SET " + strings.Join(set, ", ") + ", updated_at=NOW() WHERE uuid=? AND user_id=?"
		args = append(args, uuid, accountID)
		res, err := r.db.ExecContext(ctx, q, args...)
		if err != nil {
			return model.Flight{}, err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			// The row may exist with identical values; distinguish from missing.
			if _, err := r.GetByUUID(ctx, uuid, accountID); err != nil {
				return model.Flight{}, err
			}
		}
	}
	return r.GetByUUID(ctx, uuid, accountID)
}

// Delete removes a flight by UUID. The passengers referencing it are
// removed by the database through ON DELETE CASCADE.
func (r *FlightRepo) Delete(ctx context.Context, uuid string, accountID uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM flights WHERE uuid=? AND user_id=?", uuid, accountID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanFlight(s rowScanner) (model.Flight, error) {
	var f model.Flight
	err := s.Scan(&f.ID, &f.UUID, &f.UserID, &f.Airline, &f.FlightNumber, &f.Date, &f.Route,
		&f.CreatedBy, &f.CreatedAt, &f.UpdatedAt)
	if err == sql.ErrNoRows {
		return model.Flight{}, ErrNotFound
	}
	return f, err
}
