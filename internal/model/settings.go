package model

import "time"

// Settings is the per-account row in the `settings` table. Each account
// has at most one row; accounts without one fall back to DefaultPricing.
type Settings struct {
	ID        uint64    `json:"id"`
	UserID    uint64    `json:"user_id"`
	Pricing   Pricing   `json:"pricing"` // stored as JSON on the row
	UpdatedAt time.Time `json:"updated_at"`
}

// Pricing holds the fare components used when filling ticket templates.
// Amounts are whole currency units.
type Pricing struct {
	Adult     int `json:"adult"`
	Child     int `json:"child"`
	Infant    int `json:"infant"`
	Tax       int `json:"tax"`
	Surcharge int `json:"surcharge"`
}

// DefaultPricing returns the fare configuration used when an account has
// no settings row yet.
func DefaultPricing() Pricing {
	return Pricing{Adult: 130, Child: 90, Infant: 20, Tax: 10, Surcharge: 10}
}

// Total computes the ticket total for a passenger of the given type
// travelling with n infants.
func (p Pricing) Total(passengerType string, infants int) int {
	base := p.Adult
	if passengerType == PassengerChild {
		base = p.Child
	}
	return base + infants*p.Infant + p.Tax + p.Surcharge
}
