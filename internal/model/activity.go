package model

import (
	"encoding/json"
	"time"
)

// Activity action types stored in activity_logs.action_type.
const (
	ActionCreate = "CREATE"
	ActionUpdate = "UPDATE"
	ActionDelete = "DELETE"
)

// ActivityLog is a row in the append-only `activity_logs` table. Entries
// are written by the queue consumer and never mutated or deleted by the
// application.
type ActivityLog struct {
	ID          uint64          `json:"id"`
	UserID      uint64          `json:"user_id"`    // actor
	AccountID   uint64          `json:"account_id"` // owning account the change belongs to
	EntityType  string          `json:"entity_type"`
	ActionType  string          `json:"action_type"` // CREATE | UPDATE | DELETE
	Description string          `json:"description"`
	Details     ActivityDetails `json:"details"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ActivityDetails holds the before/after diff payload of a change. For
// creates Before is null, for deletes After is null.
type ActivityDetails struct {
	Before json.RawMessage `json:"before,omitempty"`
	After  json.RawMessage `json:"after,omitempty"`
}
