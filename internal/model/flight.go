package model

import "time"

// Flight is a row in the `flights` table plus its passenger manifest,
// which is joined in memory by the aggregate store (passengers live in
// their own table and reference flights.uuid).
//
// Flights carry two identifiers: the legacy auto-increment ID that older
// clients still send, and the UUID that all new passenger rows reference.
// The store accepts either on input but always writes against the UUID.
type Flight struct {
	ID           uint64      `json:"id"`            // flights.id (legacy numeric identifier)
	UUID         string      `json:"uuid"`          // flights.uuid (canonical identifier)
	UserID       uint64      `json:"user_id"`       // owning account
	Airline      string      `json:"airline"`       // airline display name
	FlightNumber string      `json:"flight_number"` // e.g. "F24-301"
	Date         time.Time   `json:"date"`          // calendar day of departure
	Route        string      `json:"route"`         // origin-destination, e.g. "CDD-MUQ"
	CreatedBy    uint64      `json:"created_by"`    // user who created the row
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
	Passengers   []Passenger `json:"passengers"` // joined at load time, never persisted on this row
}

// FlightPatch carries the mutable flight fields for partial updates.
// Nil pointers mean "leave unchanged".
type FlightPatch struct {
	Airline      *string    `json:"airline,omitempty"`
	FlightNumber *string    `json:"flight_number,omitempty"`
	Date         *time.Time `json:"date,omitempty"`
	Route        *string    `json:"route,omitempty"`
}
