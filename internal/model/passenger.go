package model

import (
	"encoding/json"
	"time"
)

// Passenger types as stored in passengers.type.
const (
	PassengerAdult = "Adult"
	PassengerChild = "Child"
)

// DefaultAgency is the sentinel affiliation for passengers booked
// directly by the office rather than through a partner agency.
const DefaultAgency = "Us"

// Passenger is a row in the `passengers` table. Passengers are a
// first-class collection joined to flights at read time; they are never
// embedded in the flight row. FlightUUID references flights.uuid (never
// the legacy numeric id) and the database cascades deletes from flights.
type Passenger struct {
	ID          uint64    `json:"id"`
	FlightUUID  string    `json:"flight_id"` // passengers.flight_id -> flights.uuid
	UserID      uint64    `json:"user_id"`   // owning account
	Name        string    `json:"name"`
	Type        string    `json:"type"`   // Adult | Child
	Gender      string    `json:"gender"` // M | F | "" (unset)
	PhoneNumber string    `json:"phone_number,omitempty"`
	Agency      string    `json:"agency"`  // defaults to "Us"
	Infants     []Infant  `json:"infants"` // embedded list, stored as JSON on the row
	CreatedBy   uint64    `json:"created_by"`
	UpdatedBy   uint64    `json:"updated_by,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Infant is a lap infant attached to one passenger. Infants are not
// independently addressable; they live inside the passenger row.
type Infant struct {
	Name string `json:"name"`
}

// UnmarshalJSON accepts both forms found in stored rows: a bare name
// string ("Sara") and an object ({"name":"Sara"}).
func (i *Infant) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		i.Name = s
		return nil
	}
	var obj struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	i.Name = obj.Name
	return nil
}
