package model

import "time"

// Airline is a row in the per-account `airlines` directory. Besides the
// display name it carries the document template links used when
// generating tickets and manifests for that airline's flights. Links may
// be cloud-storage share URLs; the document generator normalises them
// before fetching.
type Airline struct {
	ID              uint64    `json:"id"`
	UserID          uint64    `json:"user_id"`
	Name            string    `json:"name"`
	TicketTemplate  string    `json:"ticket_template,omitempty"`
	ManifestOffice  string    `json:"manifest_office,omitempty"`
	ManifestAirport string    `json:"manifest_airport,omitempty"`
	CreatedBy       uint64    `json:"created_by"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
