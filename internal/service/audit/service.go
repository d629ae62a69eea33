package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/AvaniK-2002/asvicare/internal/model"
	"github.com/AvaniK-2002/asvicare/internal/repository"
	"github.com/AvaniK-2002/asvicare/internal/service/session"
	"github.com/AvaniK-2002/asvicare/pkg/logger"
)

// Service appends audit rows with before/after snapshots. Recording is
// best effort: a failed append is logged and never fails the mutation
// that triggered it.
type Service struct {
	repo   repository.AuditRepository
	logger *logger.Logger
}

func NewService(repo repository.AuditRepository, logger *logger.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) Record(ctx context.Context, sc *session.Scope, action string, kind model.EntityKind, entityID uuid.UUID, before, after interface{}) {
	if sc == nil {
		return
	}

	log := &model.AuditLog{
		ID:         uuid.New(),
		ClinicID:   sc.ClinicID,
		ProfileID:  sc.ProfileID,
		Action:     action,
		EntityKind: kind,
		EntityID:   entityID,
		CreatedAt:  time.Now(),
	}

	var err error
	if before != nil {
		if log.Before, err = json.Marshal(before); err != nil {
			s.logger.Error(err, "failed to snapshot audit before-state")
		}
	}
	if after != nil {
		if log.After, err = json.Marshal(after); err != nil {
			s.logger.Error(err, "failed to snapshot audit after-state")
		}
	}

	if err := s.repo.Create(ctx, log); err != nil {
		s.logger.Error(err, "failed to append audit log",
			"action", action, "entity_kind", string(kind), "entity_id", entityID.String())
	}
}

// List returns the clinic's audit trail, admin only.
func (s *Service) List(ctx context.Context, sc *session.Scope, f *model.AuditFilters) ([]*model.AuditLog, error) {
	if !sc.IsAdmin() {
		return []*model.AuditLog{}, nil
	}
	return s.repo.List(ctx, sc.ClinicID, f)
}
