// Package offline implements the pending-mutation queue: a durable list
// of writes deferred while the backend is unreachable, replayed on
// reconnect with bounded retries. Delivery is at-most-effort: after
// MaxRetries failed attempts an operation is dropped with a warning,
// never retried forever. The queue does not serialize against
// foreground writes; the storage layer is last-writer-wins.
package offline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/AvaniK-2002/asvicare/internal/model"
)

// MaxRetries is the fixed attempt bound before an operation is dropped.
const MaxRetries = 3

type OpType string

const (
	OpCreate OpType = "create"
	OpUpdate OpType = "update"
	OpDelete OpType = "delete"
)

// ScopeSnapshot freezes the identity a mutation was attempted under, so
// the replay runs with the same clinic and profile stamping as the
// original call would have.
type ScopeSnapshot struct {
	ProfileID  uuid.UUID        `json:"profile_id"`
	ClinicID   uuid.UUID        `json:"clinic_id"`
	AuthUserID uuid.UUID        `json:"auth_user_id"`
	Role       model.Role       `json:"role"`
	Mode       model.DoctorMode `json:"mode"`
}

// Operation is one queued mutation.
type Operation struct {
	ID         uuid.UUID        `json:"id"`
	Type       OpType           `json:"type"`
	Kind       model.EntityKind `json:"kind"`
	Scope      ScopeSnapshot    `json:"scope"`
	EntityID   uuid.UUID        `json:"entity_id,omitempty"`
	Payload    json.RawMessage  `json:"payload,omitempty"`
	RetryCount int              `json:"retry_count"`
	EnqueuedAt time.Time        `json:"enqueued_at"`
}

// Store persists queued operations in enqueue order.
type Store interface {
	Enqueue(ctx context.Context, op *Operation) error
	List(ctx context.Context) ([]*Operation, error)
	Remove(ctx context.Context, id uuid.UUID) error
	SetRetryCount(ctx context.Context, id uuid.UUID, count int) error
	Len(ctx context.Context) (int, error)
}
