package patient

import (
	"context"
	"testing"

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

func newTestService(t *testing.T) (*Service, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	auditor := audit.NewService(store.AuditLogs(), logger.NewLogger(nil))
	return NewService(store.Patients(), store.Visits(), auditor), store
}

func doctorScope(clinicID uuid.UUID, mode model.DoctorMode) *session.Scope {
	return &session.Scope{
		ProfileID:  uuid.New(),
		ClinicID:   clinicID,
		AuthUserID: uuid.New(),
		Role:       model.RoleDoctor,
		Mode:       mode,
	}
}

func TestCreateStampsOwnershipFromScope(t *testing.T) {
	svc, _ := newTestService(t)
	sc := doctorScope(uuid.New(), model.ModeGeneral)

	created, err := svc.Create(context.Background(), sc, &model.CreatePatientRequest{
		Name: "Asha Rao",
		Mode: model.ModeGeneral,
	})
	require.NoError(t, err)

	assert.Equal(t, sc.ClinicID, created.ClinicID)
	assert.Equal(t, sc.ProfileID, created.CreatedBy)
	assert.NotEqual(t, uuid.Nil, created.ID)
}

func TestCreateWithoutScopeDenied(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(context.Background(), nil, &model.CreatePatientRequest{
		Name: "Asha Rao",
		Mode: model.ModeGeneral,
	})

	assert.True(t, apperrors.Is(err, apperrors.ErrAuthorizationDenied))
}

func TestListWithoutScopeEmpty(t *testing.T) {
	svc, _ := newTestService(t)

	patients, err := svc.List(context.Background(), nil, nil)

	require.NoError(t, err)
	assert.Empty(t, patients)
}

func TestClinicIsolation(t *testing.T) {
	svc, _ := newTestService(t)
	scopeA := doctorScope(uuid.New(), model.ModeGeneral)
	scopeB := doctorScope(uuid.New(), model.ModeGeneral)

	created, err := svc.Create(context.Background(), scopeA, &model.CreatePatientRequest{
		Name: "Asha Rao",
		Mode: model.ModeGeneral,
	})
	require.NoError(t, err)

	// Another clinic cannot read, update or delete the row, and the
	// failure is indistinguishable from a missing row.
	_, err = svc.Get(context.Background(), scopeB, created.ID)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))

	name := "Hijacked"
	_, err = svc.Update(context.Background(), scopeB, created.ID, &model.UpdatePatientRequest{Name: &name})
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))

	err = svc.Delete(context.Background(), scopeB, created.ID)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))

	listB, err := svc.List(context.Background(), scopeB, nil)
	require.NoError(t, err)
	assert.Empty(t, listB)

	listA, err := svc.List(context.Background(), scopeA, nil)
	require.NoError(t, err)
	require.Len(t, listA, 1)
	assert.Equal(t, "Asha Rao", listA[0].Name)
}

func TestObstetricFieldsGatedByMode(t *testing.T) {
	svc, _ := newTestService(t)
	sc := doctorScope(uuid.New(), model.ModeGeneral)
	gravida := 2

	general, err := svc.Create(context.Background(), sc, &model.CreatePatientRequest{
		Name:    "Asha Rao",
		Mode:    model.ModeGeneral,
		Gravida: &gravida,
	})
	require.NoError(t, err)
	assert.Nil(t, general.Gravida, "obstetric fields are dropped outside gynecology mode")

	gyn, err := svc.Create(context.Background(), sc, &model.CreatePatientRequest{
		Name:    "Meera Shah",
		Mode:    model.ModeGynecology,
		Gravida: &gravida,
	})
	require.NoError(t, err)
	require.NotNil(t, gyn.Gravida)
	assert.Equal(t, 2, *gyn.Gravida)
}

func TestDeleteCascadesVisits(t *testing.T) {
	svc, store := newTestService(t)
	sc := doctorScope(uuid.New(), model.ModeGeneral)

	created, err := svc.Create(context.Background(), sc, &model.CreatePatientRequest{
		Name: "Asha Rao",
		Mode: model.ModeGeneral,
	})
	require.NoError(t, err)

	visitID := uuid.New()
	require.NoError(t, store.Visits().Create(context.Background(), &model.Visit{
		Base:      model.Base{ID: visitID, ClinicID: sc.ClinicID},
		PatientID: created.ID,
	}))

	require.NoError(t, svc.Delete(context.Background(), sc, created.ID))

	visits, err := store.Visits().List(context.Background(), sc.ClinicID, nil)
	require.NoError(t, err)
	assert.Empty(t, visits, "visits must not outlive their patient")
}

func TestReceptionistCannotDelete(t *testing.T) {
	svc, _ := newTestService(t)
	clinicID := uuid.New()
	doctor := doctorScope(clinicID, model.ModeGeneral)

	created, err := svc.Create(context.Background(), doctor, &model.CreatePatientRequest{
		Name: "Asha Rao",
		Mode: model.ModeGeneral,
	})
	require.NoError(t, err)

	receptionist := &session.Scope{
		ProfileID: uuid.New(),
		ClinicID:  clinicID,
		Role:      model.RoleReceptionist,
		Mode:      model.ModeGeneral,
	}
	err = svc.Delete(context.Background(), receptionist, created.ID)
	assert.True(t, apperrors.Is(err, apperrors.ErrAuthorizationDenied))

	// The row is untouched.
	_, err = svc.Get(context.Background(), doctor, created.ID)
	assert.NoError(t, err)
}

func TestUpdateRoundTrip(t *testing.T) {
	svc, _ := newTestService(t)
	sc := doctorScope(uuid.New(), model.ModeGeneral)

	created, err := svc.Create(context.Background(), sc, &model.CreatePatientRequest{
		Name:  "Asha Rao",
		Phone: "9876500000",
		Mode:  model.ModeGeneral,
	})
	require.NoError(t, err)

	phone := "9876511111"
	updated, err := svc.Update(context.Background(), sc, created.ID, &model.UpdatePatientRequest{Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, "9876511111", updated.Phone)
	assert.Equal(t, "Asha Rao", updated.Name, "unset fields keep their value")

	fetched, err := svc.Get(context.Background(), sc, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "9876511111", fetched.Phone)
}
