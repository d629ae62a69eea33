package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	AuditActionCreate = "create"
	AuditActionUpdate = "update"
	AuditActionDelete = "delete"
)

// AuditLog is an append-only record of a mutation, with before/after
// snapshots keyed to the acting profile.
type AuditLog struct {
	ID         uuid.UUID       `json:"id" db:"id"`
	ClinicID   uuid.UUID       `json:"clinic_id" db:"clinic_id"`
	ProfileID  uuid.UUID       `json:"profile_id" db:"profile_id"`
	Action     string          `json:"action" db:"action"`
	EntityKind EntityKind      `json:"entity_kind" db:"entity_kind"`
	EntityID   uuid.UUID       `json:"entity_id" db:"entity_id"`
	Before     json.RawMessage `json:"before,omitempty" db:"before_state"`
	After      json.RawMessage `json:"after,omitempty" db:"after_state"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
}

type AuditFilters struct {
	EntityKind EntityKind `form:"entity_kind"`
	ProfileID  uuid.UUID  `form:"profile_id"`
	From       time.Time  `form:"from"`
	To         time.Time  `form:"to"`
}
