package visit

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/AvaniK-2002/asvicare/internal/model"
	"github.com/AvaniK-2002/asvicare/internal/repository"
	"github.com/AvaniK-2002/asvicare/internal/service/audit"
	"github.com/AvaniK-2002/asvicare/internal/service/session"
	apperrors "github.com/AvaniK-2002/asvicare/pkg/errors"
)

type VisitService interface {
	Create(ctx context.Context, sc *session.Scope, req *model.CreateVisitRequest) (*model.Visit, error)
	Get(ctx context.Context, sc *session.Scope, id uuid.UUID) (*model.Visit, error)
	List(ctx context.Context, sc *session.Scope, f *model.VisitFilters) ([]*model.Visit, error)
	Update(ctx context.Context, sc *session.Scope, id uuid.UUID, req *model.UpdateVisitRequest) (*model.Visit, error)
	Delete(ctx context.Context, sc *session.Scope, id uuid.UUID) error
	AttachPhoto(ctx context.Context, sc *session.Scope, id uuid.UUID, photoPath string) (*model.Visit, error)
}

type Service struct {
	repo     repository.VisitRepository
	patients repository.PatientRepository
	auditor  *audit.Service
}

func NewService(repo repository.VisitRepository, patients repository.PatientRepository, auditor *audit.Service) *Service {
	return &Service{repo: repo, patients: patients, auditor: auditor}
}

func (s *Service) Create(ctx context.Context, sc *session.Scope, req *model.CreateVisitRequest) (*model.Visit, error) {
	if sc == nil {
		return nil, apperrors.AuthorizationDenied(nil)
	}

	// The patient must exist inside the caller's clinic.
	if _, err := s.patients.Get(ctx, sc.ClinicID, req.PatientID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("patient", err)
		}
		return nil, apperrors.Upstream("get patient", err)
	}

	now := time.Now()
	visit := &model.Visit{
		Base: model.Base{
			ID:        uuid.New(),
			ClinicID:  sc.ClinicID,
			CreatedBy: sc.ProfileID,
			CreatedAt: now,
			UpdatedAt: now,
		},
		PatientID: req.PatientID,
		Note:      req.Note,
		Fee:       req.Fee,
		VisitDate: req.VisitDate,
		FollowUp:  req.FollowUp,
	}

	if err := s.repo.Create(ctx, visit); err != nil {
		return nil, apperrors.Upstream("create visit", err)
	}

	s.auditor.Record(ctx, sc, model.AuditActionCreate, model.KindVisit, visit.ID, nil, visit)
	return visit, nil
}

func (s *Service) Get(ctx context.Context, sc *session.Scope, id uuid.UUID) (*model.Visit, error) {
	if sc == nil {
		return nil, apperrors.NotFound("visit", nil)
	}
	visit, err := s.repo.Get(ctx, sc.ClinicID, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("visit", err)
	}
	if err != nil {
		return nil, apperrors.Upstream("get visit", err)
	}
	return visit, nil
}

func (s *Service) List(ctx context.Context, sc *session.Scope, f *model.VisitFilters) ([]*model.Visit, error) {
	if sc == nil {
		return []*model.Visit{}, nil
	}
	visits, err := s.repo.List(ctx, sc.ClinicID, f)
	if err != nil {
		return nil, apperrors.Upstream("list visits", err)
	}
	return visits, nil
}

func (s *Service) Update(ctx context.Context, sc *session.Scope, id uuid.UUID, req *model.UpdateVisitRequest) (*model.Visit, error) {
	if sc == nil {
		return nil, apperrors.AuthorizationDenied(nil)
	}

	visit, err := s.Get(ctx, sc, id)
	if err != nil {
		return nil, err
	}
	before := *visit

	if req.Note != nil {
		visit.Note = *req.Note
	}
	if req.Fee != nil {
		visit.Fee = *req.Fee
	}
	if req.FollowUp != nil {
		visit.FollowUp = req.FollowUp
	}
	visit.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, visit); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("visit", err)
		}
		return nil, apperrors.Upstream("update visit", err)
	}

	s.auditor.Record(ctx, sc, model.AuditActionUpdate, model.KindVisit, visit.ID, &before, visit)
	return visit, nil
}

func (s *Service) Delete(ctx context.Context, sc *session.Scope, id uuid.UUID) error {
	if sc == nil {
		return apperrors.AuthorizationDenied(nil)
	}
	if !sc.CanDelete() {
		return apperrors.AuthorizationDenied(errors.New("role cannot delete visits"))
	}

	visit, err := s.Get(ctx, sc, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, sc.ClinicID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("visit", err)
		}
		return apperrors.Upstream("delete visit", err)
	}

	s.auditor.Record(ctx, sc, model.AuditActionDelete, model.KindVisit, id, visit, nil)
	return nil
}

// AttachPhoto records the stored object path on the visit after a media
// upload succeeds.
func (s *Service) AttachPhoto(ctx context.Context, sc *session.Scope, id uuid.UUID, photoPath string) (*model.Visit, error) {
	if sc == nil {
		return nil, apperrors.AuthorizationDenied(nil)
	}

	visit, err := s.Get(ctx, sc, id)
	if err != nil {
		return nil, err
	}
	before := *visit

	visit.PhotoPath = photoPath
	visit.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, visit); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("visit", err)
		}
		return nil, apperrors.Upstream("update visit", err)
	}

	s.auditor.Record(ctx, sc, model.AuditActionUpdate, model.KindVisit, visit.ID, &before, visit)
	return visit, nil
}
