package handler

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/AvaniK-2002/asvicare/internal/model"
	"github.com/AvaniK-2002/asvicare/internal/offline"
	"github.com/AvaniK-2002/asvicare/internal/service/session"
	apperrors "github.com/AvaniK-2002/asvicare/pkg/errors"
)

// SyncGate decides whether a failed mutation should be parked in the
// offline queue instead of surfacing an error. Only upstream failures
// while the backend probe reports offline are queued; everything else
// is a real error the caller must see.
type SyncGate struct {
	drainer *offline.Drainer
	prober  *offline.Prober
}

func NewSyncGate(drainer *offline.Drainer, prober *offline.Prober) *SyncGate {
	return &SyncGate{drainer: drainer, prober: prober}
}

func (g *SyncGate) ShouldQueue(err error) bool {
	if g == nil || g.drainer == nil || g.prober == nil {
		return false
	}
	return apperrors.Is(err, apperrors.ErrUpstreamFailure) && !g.prober.Online()
}

// Queue records the mutation for replay and returns the deferred-success
// error the response layer maps to 202.
func (g *SyncGate) Queue(ctx context.Context, sc *session.Scope, opType offline.OpType, kind model.EntityKind, entityID uuid.UUID, payload interface{}) error {
	var raw json.RawMessage
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return apperrors.Upstream("queue mutation", err)
		}
		raw = b
	}

	op := &offline.Operation{
		ID:   uuid.New(),
		Type: opType,
		Kind: kind,
		Scope: offline.ScopeSnapshot{
			ProfileID:  sc.ProfileID,
			ClinicID:   sc.ClinicID,
			AuthUserID: sc.AuthUserID,
			Role:       sc.Role,
			Mode:       sc.Mode,
		},
		EntityID: entityID,
		Payload:  raw,
	}
	if err := g.drainer.Enqueue(ctx, op); err != nil {
		return apperrors.Upstream("queue mutation", err)
	}
	return apperrors.OfflineQueued(string(kind))
}
