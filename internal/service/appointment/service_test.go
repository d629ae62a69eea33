package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AvaniK-2002/asvicare/internal/model"
	"github.com/AvaniK-2002/asvicare/internal/repository/memory"
	"github.com/AvaniK-2002/asvicare/internal/service/audit"
	"github.com/AvaniK-2002/asvicare/internal/service/session"
	apperrors "github.com/AvaniK-2002/asvicare/pkg/errors"
	"github.com/AvaniK-2002/asvicare/pkg/logger"
)

func newTestService(t *testing.T) (*Service, *memory.Store, *session.Scope) {
	t.Helper()
	store := memory.NewStore()
	auditor := audit.NewService(store.AuditLogs(), logger.NewLogger(nil))
	svc := NewService(store.Appointments(), store.Patients(), store.Reminders(), auditor)
	sc := &session.Scope{
		ProfileID: uuid.New(),
		ClinicID:  uuid.New(),
		Role:      model.RoleDoctor,
		Mode:      model.ModeGeneral,
	}
	return svc, store, sc
}

func seedPatient(t *testing.T, store *memory.Store, clinicID uuid.UUID, email string) uuid.UUID {
	t.Helper()
	id := uuid.New()
	require.NoError(t, store.Patients().Create(context.Background(), &model.Patient{
		Base:  model.Base{ID: id, ClinicID: clinicID},
		Name:  "Asha Rao",
		Email: email,
		Mode:  model.ModeGeneral,
	}))
	return id
}

func TestCreateRejectsEndBeforeStart(t *testing.T) {
	svc, store, sc := newTestService(t)
	patientID := seedPatient(t, store, sc.ClinicID, "")
	start := time.Now().Add(48 * time.Hour)

	_, err := svc.Create(context.Background(), sc, &model.CreateAppointmentRequest{
		PatientID: patientID,
		StartTime: start,
		EndTime:   start.Add(-30 * time.Minute),
	})

	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrValidationFailed))
}

func TestCreateRequiresPatientInClinic(t *testing.T) {
	svc, store, sc := newTestService(t)
	otherClinicPatient := seedPatient(t, store, uuid.New(), "")
	start := time.Now().Add(48 * time.Hour)

	_, err := svc.Create(context.Background(), sc, &model.CreateAppointmentRequest{
		PatientID: otherClinicPatient,
		StartTime: start,
		EndTime:   start.Add(30 * time.Minute),
	})

	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}

func TestCreateSchedulesEmailReminder(t *testing.T) {
	svc, store, sc := newTestService(t)
	patientID := seedPatient(t, store, sc.ClinicID, "asha@example.com")
	start := time.Now().Add(72 * time.Hour)

	created, err := svc.Create(context.Background(), sc, &model.CreateAppointmentRequest{
		PatientID: patientID,
		StartTime: start,
		EndTime:   start.Add(30 * time.Minute),
	})
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentScheduled, created.Status)

	// The reminder is pending, addressed to the patient, one lead ahead
	// of the start; it is not due yet.
	due, err := store.Reminders().ListDue(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, due)
}

func TestCreateSkipsReminderWithoutEmail(t *testing.T) {
	svc, store, sc := newTestService(t)
	patientID := seedPatient(t, store, sc.ClinicID, "")
	start := time.Now().Add(72 * time.Hour)

	_, err := svc.Create(context.Background(), sc, &model.CreateAppointmentRequest{
		PatientID: patientID,
		StartTime: start,
		EndTime:   start.Add(30 * time.Minute),
	})
	require.NoError(t, err)
}

func TestUpdateRejectsInvertedWindow(t *testing.T) {
	svc, store, sc := newTestService(t)
	patientID := seedPatient(t, store, sc.ClinicID, "")
	start := time.Now().Add(48 * time.Hour)

	created, err := svc.Create(context.Background(), sc, &model.CreateAppointmentRequest{
		PatientID: patientID,
		StartTime: start,
		EndTime:   start.Add(time.Hour),
	})
	require.NoError(t, err)

	badEnd := start.Add(-time.Hour)
	_, err = svc.Update(context.Background(), sc, created.ID, &model.UpdateAppointmentRequest{EndTime: &badEnd})
	assert.True(t, apperrors.Is(err, apperrors.ErrValidationFailed))
}

func TestCancelRemovesReminder(t *testing.T) {
	svc, store, sc := newTestService(t)
	patientID := seedPatient(t, store, sc.ClinicID, "asha@example.com")
	start := time.Now().Add(72 * time.Hour)

	created, err := svc.Create(context.Background(), sc, &model.CreateAppointmentRequest{
		PatientID: patientID,
		StartTime: start,
		EndTime:   start.Add(time.Hour),
	})
	require.NoError(t, err)

	cancelled := model.AppointmentCancelled
	updated, err := svc.Update(context.Background(), sc, created.ID, &model.UpdateAppointmentRequest{Status: &cancelled})
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentCancelled, updated.Status)
}

func TestDeleteRemovesAppointment(t *testing.T) {
	svc, store, sc := newTestService(t)
	patientID := seedPatient(t, store, sc.ClinicID, "")
	start := time.Now().Add(48 * time.Hour)

	created, err := svc.Create(context.Background(), sc, &model.CreateAppointmentRequest{
		PatientID: patientID,
		StartTime: start,
		EndTime:   start.Add(time.Hour),
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), sc, created.ID))

	_, err = svc.Get(context.Background(), sc, created.ID)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}
