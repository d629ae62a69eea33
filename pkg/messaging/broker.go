package messaging

import (
	"context"
)

// Channel for "could not sync" warnings emitted when a queued mutation
// exhausts its retries.
const SyncWarningChannel = "sync.warnings"

// Broker defines the interface for message brokers
type Broker interface {
	Publish(ctx context.Context, channel string, message interface{}) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
	Close() error
}

// SyncWarning is the payload published when an operation is dropped.
// The data loss is explicit: surfaced to subscribers and logged, never
// silent.
type SyncWarning struct {
	OperationID string `json:"operation_id"`
	Kind        string `json:"kind"`
	Type        string `json:"type"`
	ClinicID    string `json:"clinic_id"`
	Retries     int    `json:"retries"`
	Reason      string `json:"reason"`
}
