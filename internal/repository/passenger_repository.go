package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/fly24/backoffice/internal/model"
)

// PassengerRepo provides CRUD operations for the `passengers` table.
// passengers.flight_id references flights.uuid; the infants list is an
// embedded JSON column because infants are not independently addressable.
type PassengerRepo struct {
	db *sql.DB
}

// NewPassengerRepo returns a PassengerRepo bound to the given database.
func NewPassengerRepo(db *sql.DB) *PassengerRepo { return &PassengerRepo{db: db} }

const passengerCols = "id, flight_id, user_id, name, type, gender, phone_number, agency, infants, created_by, updated_by, created_at, updated_at"

// Create inserts a passenger row and returns the persisted record.
func (r *PassengerRepo) Create(ctx context.Context, p model.Passenger) (model.Passenger, error) {
	infants, err := marshalInfants(p.Infants)
	if err != nil {
		return model.Passenger{}, err
	}
	const q = `INSERT INTO passengers (flight_id, user_id, name, type, gender, phone_number, agency, infants, created_by)
		VALUES (?,?,?,?,?,?,?,?,?)`
	res, err := r.db.ExecContext(ctx, q,
		p.FlightUUID, p.UserID, p.Name, p.Type, p.Gender, p.PhoneNumber, p.Agency, infants, p.CreatedBy)
	if err != nil {
		return model.Passenger{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Passenger{}, err
	}
	return r.GetByID(ctx, uint64(id), p.UserID)
}

// Update overwrites the mutable passenger fields (name, type, gender,
// phone, agency, infants) and returns the updated row. The flight
// reference and creator are immutable.
func (r *PassengerRepo) Update(ctx context.Context, p model.Passenger) (model.Passenger, error) {
	infants, err := marshalInfants(p.Infants)
	if err != nil {
		return model.Passenger{}, err
	}
	const q = `UPDATE passengers
		SET name=?, type=?, gender=?, phone_number=?, agency=?, infants=?, updated_by=?, updated_at=NOW()
		WHERE id=? AND user_id=?`
	res, err := r.db.ExecContext(ctx, q,
		p.Name, p.Type, p.Gender, p.PhoneNumber, p.Agency, infants, p.UpdatedBy, p.ID, p.UserID)
	if err != nil {
		return model.Passenger{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, p.ID, p.UserID); err != nil {
			return model.Passenger{}, err
		}
	}
	return r.GetByID(ctx, p.ID, p.UserID)
}

// Delete removes a passenger row within an account scope.
func (r *PassengerRepo) Delete(ctx context.Context, id, accountID uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM passengers WHERE id=? AND user_id=?", id, accountID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// GetByID fetches a passenger by id within an account scope.
func (r *PassengerRepo) GetByID(ctx context.Context, id, accountID uint64) (model.Passenger, error) {
	const q = `SELECT ` + passengerCols + ` FROM passengers WHERE id=? AND user_id=? LIMIT 1`
	return scanPassenger(r.db.QueryRowContext(ctx, q, id, accountID))
}

// ListByAccount returns every passenger owned by the account across all
// flights; the store joins them onto flights by flight_id.
func (r *PassengerRepo) ListByAccount(ctx context.Context, accountID uint64) ([]model.Passenger, error) {
	const q = `SELECT ` + passengerCols + ` FROM passengers WHERE user_id=? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var passengers []model.Passenger
	for rows.Next() {
		p, err := scanPassenger(rows)
		if err != nil {
			return nil, err
		}
		passengers = append(passengers, p)
	}
	return passengers, rows.Err()
}

func marshalInfants(infants []model.Infant) ([]byte, error) {
	if infants == nil {
		infants = []model.Infant{}
	}
	return json.Marshal(infants)
}

func scanPassenger(s rowScanner) (model.Passenger, error) {
	var (
		p         model.Passenger
		infants   []byte
		updatedBy sql.NullInt64
		phone     sql.NullString
		gender    sql.NullString
	)
	err := s.Scan(&p.ID, &p.FlightUUID, &p.UserID, &p.Name, &p.Type, &gender, &phone, &p.Agency,
		&infants, &p.CreatedBy, &updatedBy, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return model.Passenger{}, ErrNotFound
	}
	if err != nil {
		return model.Passenger{}, err
	}
	p.Gender = gender.String
	p.PhoneNumber = phone.String
	if updatedBy.Valid {
		p.UpdatedBy = uint64(updatedBy.Int64)
	}
	if len(infants) > 0 {
		if err := json.Unmarshal(infants, &p.Infants); err != nil {
			return model.Passenger{}, err
		}
	}
	if p.Infants == nil {
		p.Infants = []model.Infant{}
	}
	return p, nil
}
