package patient

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

type PatientService interface {
	Create(ctx context.Context, sc *session.Scope, req *model.CreatePatientRequest) (*model.Patient, error)
	Get(ctx context.Context, sc *session.Scope, id uuid.UUID) (*model.Patient, error)
	List(ctx context.Context, sc *session.Scope, f *model.PatientFilters) ([]*model.Patient, error)
	Update(ctx context.Context, sc *session.Scope, id uuid.UUID, req *model.UpdatePatientRequest) (*model.Patient, error)
	Delete(ctx context.Context, sc *session.Scope, id uuid.UUID) error
}

type Service struct {
	repo    repository.PatientRepository
	visits  repository.VisitRepository
	auditor *audit.Service
}

func NewService(repo repository.PatientRepository, visits repository.VisitRepository, auditor *audit.Service) *Service {
	return &Service{repo: repo, visits: visits, auditor: auditor}
}

func (s *Service) Create(ctx context.Context, sc *session.Scope, req *model.CreatePatientRequest) (*model.Patient, error) {
	if sc == nil {
		return nil, apperrors.AuthorizationDenied(nil)
	}

	now := time.Now()
	patient := &model.Patient{
		Base: model.Base{
			ID:        uuid.New(),
			ClinicID:  sc.ClinicID,
			CreatedBy: sc.ProfileID,
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:        req.Name,
		Phone:       req.Phone,
		Email:       req.Email,
		Gender:      req.Gender,
		DateOfBirth: req.DateOfBirth,
		Address:     req.Address,
		Mode:        req.Mode,
	}
	if req.Mode == model.ModeGynecology {
		patient.Gravida = req.Gravida
		patient.Para = req.Para
		patient.LastPeriod = req.LastPeriod
		patient.ExpectedDue = req.ExpectedDue
	}

	if err := s.repo.Create(ctx, patient); err != nil {
		return nil, apperrors.Upstream("create patient", err)
	}

	s.auditor.Record(ctx, sc, model.AuditActionCreate, model.KindPatient, patient.ID, nil, patient)
	return patient, nil
}

func (s *Service) Get(ctx context.Context, sc *session.Scope, id uuid.UUID) (*model.Patient, error) {
	if sc == nil {
		return nil, apperrors.NotFound("patient", nil)
	}
	patient, err := s.repo.Get(ctx, sc.ClinicID, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("patient", err)
	}
	if err != nil {
		return nil, apperrors.Upstream("get patient", err)
	}
	return patient, nil
}

func (s *Service) List(ctx context.Context, sc *session.Scope, f *model.PatientFilters) ([]*model.Patient, error) {
	if sc == nil {
		return []*model.Patient{}, nil
	}
	patients, err := s.repo.List(ctx, sc.ClinicID, f)
	if err != nil {
		return nil, apperrors.Upstream("list patients", err)
	}
	return patients, nil
}

func (s *Service) Update(ctx context.Context, sc *session.Scope, id uuid.UUID, req *model.UpdatePatientRequest) (*model.Patient, error) {
	if sc == nil {
		return nil, apperrors.AuthorizationDenied(nil)
	}

	patient, err := s.Get(ctx, sc, id)
	if err != nil {
		return nil, err
	}
	before := *patient

	if req.Name != nil {
		patient.Name = *req.Name
	}
	if req.Phone != nil {
		patient.Phone = *req.Phone
	}
	if req.Email != nil {
		patient.Email = *req.Email
	}
	if req.Gender != nil {
		patient.Gender = *req.Gender
	}
	if req.DateOfBirth != nil {
		patient.DateOfBirth = req.DateOfBirth
	}
	if req.Address != nil {
		patient.Address = *req.Address
	}
	if patient.Mode == model.ModeGynecology {
		if req.Gravida != nil {
			patient.Gravida = req.Gravida
		}
		if req.Para != nil {
			patient.Para = req.Para
		}
		if req.LastPeriod != nil {
			patient.LastPeriod = req.LastPeriod
		}
		if req.ExpectedDue != nil {
			patient.ExpectedDue = req.ExpectedDue
		}
	}
	patient.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, patient); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("patient", err)
		}
		return nil, apperrors.Upstream("update patient", err)
	}

	s.auditor.Record(ctx, sc, model.AuditActionUpdate, model.KindPatient, patient.ID, &before, patient)
	return patient, nil
}

func (s *Service) Delete(ctx context.Context, sc *session.Scope, id uuid.UUID) error {
	if sc == nil {
		return apperrors.AuthorizationDenied(nil)
	}
	if !sc.CanDelete() {
		return apperrors.AuthorizationDenied(errors.New("role cannot delete patients"))
	}

	patient, err := s.Get(ctx, sc, id)
	if err != nil {
		return err
	}

	// Visits cascade with their patient.
	if err := s.visits.DeleteByPatient(ctx, sc.ClinicID, id); err != nil {
		return apperrors.Upstream("delete patient visits", err)
	}
	if err := s.repo.Delete(ctx, sc.ClinicID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("patient", err)
		}
		return apperrors.Upstream("delete patient", err)
	}

	s.auditor.Record(ctx, sc, model.AuditActionDelete, model.KindPatient, id, patient, nil)
	return nil
}
