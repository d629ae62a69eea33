package appointment

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

// ReminderLead is how far before the start time the reminder email goes
// out.
const ReminderLead = 24 * time.Hour

type AppointmentService interface {
	Create(ctx context.Context, sc *session.Scope, req *model.CreateAppointmentRequest) (*model.Appointment, error)
	Get(ctx context.Context, sc *session.Scope, id uuid.UUID) (*model.Appointment, error)
	List(ctx context.Context, sc *session.Scope, f *model.AppointmentFilters) ([]*model.Appointment, error)
	Update(ctx context.Context, sc *session.Scope, id uuid.UUID, req *model.UpdateAppointmentRequest) (*model.Appointment, error)
	Delete(ctx context.Context, sc *session.Scope, id uuid.UUID) error
}

type Service struct {
	repo      repository.AppointmentRepository
	patients  repository.PatientRepository
	reminders repository.ReminderRepository
	auditor   *audit.Service
}

func NewService(repo repository.AppointmentRepository, patients repository.PatientRepository, reminders repository.ReminderRepository, auditor *audit.Service) *Service {
	return &Service{repo: repo, patients: patients, reminders: reminders, auditor: auditor}
}

func (s *Service) Create(ctx context.Context, sc *session.Scope, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	if sc == nil {
		return nil, apperrors.AuthorizationDenied(nil)
	}
	if !req.EndTime.After(req.StartTime) {
		return nil, apperrors.ValidationFailed(map[string]string{"end_time": "must be after start_time"})
	}

	patient, err := s.patients.Get(ctx, sc.ClinicID, req.PatientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("patient", err)
		}
		return nil, apperrors.Upstream("get patient", err)
	}

	assignee := req.AssigneeID
	if assignee == uuid.Nil {
		assignee = sc.ProfileID
	}

	now := time.Now()
	appointment := &model.Appointment{
		Base: model.Base{
			ID:        uuid.New(),
			ClinicID:  sc.ClinicID,
			CreatedBy: sc.ProfileID,
			CreatedAt: now,
			UpdatedAt: now,
		},
		PatientID:  req.PatientID,
		AssigneeID: assignee,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		Status:     model.AppointmentScheduled,
		Notes:      req.Notes,
	}

	if err := s.repo.Create(ctx, appointment); err != nil {
		return nil, apperrors.Upstream("create appointment", err)
	}

	s.scheduleReminder(ctx, appointment, patient)
	s.auditor.Record(ctx, sc, model.AuditActionCreate, model.KindAppointment, appointment.ID, nil, appointment)
	return appointment, nil
}

// scheduleReminder is best effort; a patient without an email address
// simply gets no reminder row.
func (s *Service) scheduleReminder(ctx context.Context, a *model.Appointment, patient *model.Patient) {
	if patient.Email == "" {
		return
	}
	sendAt := a.StartTime.Add(-ReminderLead)
	if sendAt.Before(time.Now()) {
		return
	}
	now := time.Now()
	_ = s.reminders.Create(ctx, &model.Reminder{
		ID:            uuid.New(),
		ClinicID:      a.ClinicID,
		AppointmentID: a.ID,
		Email:         patient.Email,
		SendAt:        sendAt,
		Status:        model.ReminderPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
}

func (s *Service) Get(ctx context.Context, sc *session.Scope, id uuid.UUID) (*model.Appointment, error) {
	if sc == nil {
		return nil, apperrors.NotFound("appointment", nil)
	}
	appointment, err := s.repo.Get(ctx, sc.ClinicID, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("appointment", err)
	}
	if err != nil {
		return nil, apperrors.Upstream("get appointment", err)
	}
	return appointment, nil
}

func (s *Service) List(ctx context.Context, sc *session.Scope, f *model.AppointmentFilters) ([]*model.Appointment, error) {
	if sc == nil {
		return []*model.Appointment{}, nil
	}
	appointments, err := s.repo.List(ctx, sc.ClinicID, f)
	if err != nil {
		return nil, apperrors.Upstream("list appointments", err)
	}
	return appointments, nil
}

func (s *Service) Update(ctx context.Context, sc *session.Scope, id uuid.UUID, req *model.UpdateAppointmentRequest) (*model.Appointment, error) {
	if sc == nil {
		return nil, apperrors.AuthorizationDenied(nil)
	}

	appointment, err := s.Get(ctx, sc, id)
	if err != nil {
		return nil, err
	}
	before := *appointment

	if req.StartTime != nil {
		appointment.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		appointment.EndTime = *req.EndTime
	}
	if !appointment.EndTime.After(appointment.StartTime) {
		return nil, apperrors.ValidationFailed(map[string]string{"end_time": "must be after start_time"})
	}
	if req.Status != nil {
		appointment.Status = *req.Status
	}
	if req.Notes != nil {
		appointment.Notes = *req.Notes
	}
	appointment.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, appointment); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("appointment", err)
		}
		return nil, apperrors.Upstream("update appointment", err)
	}

	if appointment.Status == model.AppointmentCancelled {
		_ = s.reminders.DeleteByAppointment(ctx, sc.ClinicID, appointment.ID)
	}

	s.auditor.Record(ctx, sc, model.AuditActionUpdate, model.KindAppointment, appointment.ID, &before, appointment)
	return appointment, nil
}

func (s *Service) Delete(ctx context.Context, sc *session.Scope, id uuid.UUID) error {
	if sc == nil {
		return apperrors.AuthorizationDenied(nil)
	}

	appointment, err := s.Get(ctx, sc, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, sc.ClinicID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("appointment", err)
		}
		return apperrors.Upstream("delete appointment", err)
	}

	_ = s.reminders.DeleteByAppointment(ctx, sc.ClinicID, id)
	s.auditor.Record(ctx, sc, model.AuditActionDelete, model.KindAppointment, id, appointment, nil)
	return nil
}
