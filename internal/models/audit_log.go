package models

import (
	"encoding/json"
	"time"
)

// AuditEvent is one before/after snapshot of an entity change. It is
// written fire-and-forget; a failed write never aborts the transaction
// that produced it.
type AuditEvent struct {
	ID         int             `json:"id"`
	Action     string          `json:"action"` // create, update, delete, recompute, print
	EntityType string          `json:"entity_type"`
	EntityID   int             `json:"entity_id"`
	Before     json.RawMessage `json:"before,omitempty"`
	After      json.RawMessage `json:"after,omitempty"`
	ActorID    int             `json:"actor_id"`
	CreatedAt  time.Time       `json:"created_at"`
}
