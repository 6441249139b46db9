package model

import "time"

// Agency is a row in the per-account `agencies` directory. Passengers
// reference agencies by name (a plain string), so renaming an agency does
// not rewrite existing passenger rows.
type Agency struct {
	ID        uint64    `json:"id"`
	UserID    uint64    `json:"user_id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	CreatedBy uint64    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
