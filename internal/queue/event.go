// Package queue defines the audit event payload exchanged over the
// message broker plus its publisher and consumer. Mutations publish an
// ActivityEvent; the consumer persists it to the activity_logs table.
package queue

import "encoding/json"

// ActivityQueueName is the durable queue carrying audit events.
const ActivityQueueName = "activity.recorded"

// ActivityEvent describes one CREATE/UPDATE/DELETE against a domain
// entity. Before/After carry JSON snapshots of the row; Before is null
// for creates and After is null for deletes.
type ActivityEvent struct {
	EntityType  string          `json:"entity_type"`
	ActionType  string          `json:"action_type"`
	Description string          `json:"description"`
	UserID      uint64          `json:"user_id"`
	AccountID   uint64          `json:"account_id"`
	Before      json.RawMessage `json:"before,omitempty"`
	After       json.RawMessage `json:"after,omitempty"`
	OccurredAt  string          `json:"occurred_at"`
}
