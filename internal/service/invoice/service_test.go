package invoice

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

func newTestService(t *testing.T) (*Service, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	auditor := audit.NewService(store.AuditLogs(), logger.NewLogger(nil))
	return NewService(store.Invoices(), store.Visits(), auditor), store
}

func adminScope(clinicID uuid.UUID) *session.Scope {
	return &session.Scope{
		ProfileID:  uuid.New(),
		ClinicID:   clinicID,
		AuthUserID: uuid.New(),
		Role:       model.RoleAdmin,
		Mode:       model.ModeGeneral,
	}
}

func seedVisit(t *testing.T, store *memory.Store, sc *session.Scope) *model.Visit {
	t.Helper()
	now := time.Now()
	visit := &model.Visit{
		Base: model.Base{
			ID:        uuid.New(),
			ClinicID:  sc.ClinicID,
			CreatedBy: sc.ProfileID,
			CreatedAt: now,
			UpdatedAt: now,
		},
		PatientID: uuid.New(),
		Fee:       500,
		VisitDate: now,
	}
	require.NoError(t, store.Visits().Create(context.Background(), visit))
	return visit
}

func TestCreateBillsExistingVisit(t *testing.T) {
	svc, store := newTestService(t)
	sc := adminScope(uuid.New())
	visit := seedVisit(t, store, sc)

	inv, err := svc.Create(context.Background(), sc, &model.CreateInvoiceRequest{
		PatientID: visit.PatientID,
		VisitID:   visit.ID,
		Amount:    750,
	})
	require.NoError(t, err)

	assert.Equal(t, model.InvoiceDraft, inv.Status)
	assert.Equal(t, sc.ClinicID, inv.ClinicID)
	assert.Equal(t, sc.ProfileID, inv.CreatedBy)
	assert.Nil(t, inv.IssuedAt)
}

func TestCreateRejectsVisitFromAnotherPatient(t *testing.T) {
	svc, store := newTestService(t)
	sc := adminScope(uuid.New())
	visit := seedVisit(t, store, sc)

	_, err := svc.Create(context.Background(), sc, &model.CreateInvoiceRequest{
		PatientID: uuid.New(),
		VisitID:   visit.ID,
		Amount:    750,
	})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrValidationFailed))

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Contains(t, appErr.Fields, "visit_id")
}

func TestCreateRejectsUnknownVisit(t *testing.T) {
	svc, _ := newTestService(t)
	sc := adminScope(uuid.New())

	_, err := svc.Create(context.Background(), sc, &model.CreateInvoiceRequest{
		PatientID: uuid.New(),
		VisitID:   uuid.New(),
		Amount:    100,
	})
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}

func TestCreateRejectsVisitFromAnotherClinic(t *testing.T) {
	svc, store := newTestService(t)
	other := adminScope(uuid.New())
	visit := seedVisit(t, store, other)

	sc := adminScope(uuid.New())
	_, err := svc.Create(context.Background(), sc, &model.CreateInvoiceRequest{
		PatientID: visit.PatientID,
		VisitID:   visit.ID,
		Amount:    100,
	})
	// A visit outside the caller's clinic is indistinguishable from a
	// missing one.
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}

func TestAmountFrozenOnceIssued(t *testing.T) {
	svc, store := newTestService(t)
	sc := adminScope(uuid.New())
	visit := seedVisit(t, store, sc)
	ctx := context.Background()

	inv, err := svc.Create(ctx, sc, &model.CreateInvoiceRequest{
		PatientID: visit.PatientID, VisitID: visit.ID, Amount: 750,
	})
	require.NoError(t, err)

	issued := model.InvoiceIssued
	inv, err = svc.Update(ctx, sc, inv.ID, &model.UpdateInvoiceRequest{Status: &issued})
	require.NoError(t, err)
	require.NotNil(t, inv.IssuedAt)

	newAmount := 900.0
	_, err = svc.Update(ctx, sc, inv.ID, &model.UpdateInvoiceRequest{Amount: &newAmount})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrValidationFailed))

	got, err := svc.Get(ctx, sc, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, 750.0, got.Amount)
}

func TestDraftAmountStillEditable(t *testing.T) {
	svc, store := newTestService(t)
	sc := adminScope(uuid.New())
	visit := seedVisit(t, store, sc)
	ctx := context.Background()

	inv, err := svc.Create(ctx, sc, &model.CreateInvoiceRequest{
		PatientID: visit.PatientID, VisitID: visit.ID, Amount: 750,
	})
	require.NoError(t, err)

	newAmount := 600.0
	inv, err = svc.Update(ctx, sc, inv.ID, &model.UpdateInvoiceRequest{Amount: &newAmount})
	require.NoError(t, err)
	assert.Equal(t, 600.0, inv.Amount)
}

func TestPaidStampsPaidAt(t *testing.T) {
	svc, store := newTestService(t)
	sc := adminScope(uuid.New())
	visit := seedVisit(t, store, sc)
	ctx := context.Background()

	inv, err := svc.Create(ctx, sc, &model.CreateInvoiceRequest{
		PatientID: visit.PatientID, VisitID: visit.ID, Amount: 750,
	})
	require.NoError(t, err)

	paid := model.InvoicePaid
	inv, err = svc.Update(ctx, sc, inv.ID, &model.UpdateInvoiceRequest{Status: &paid})
	require.NoError(t, err)
	require.NotNil(t, inv.PaidAt)
	assert.Equal(t, model.InvoicePaid, inv.Status)
}

func TestDeleteIsAdminOnly(t *testing.T) {
	svc, store := newTestService(t)
	sc := adminScope(uuid.New())
	visit := seedVisit(t, store, sc)
	ctx := context.Background()

	inv, err := svc.Create(ctx, sc, &model.CreateInvoiceRequest{
		PatientID: visit.PatientID, VisitID: visit.ID, Amount: 750,
	})
	require.NoError(t, err)

	doctor := &session.Scope{
		ProfileID:  uuid.New(),
		ClinicID:   sc.ClinicID,
		AuthUserID: uuid.New(),
		Role:       model.RoleDoctor,
		Mode:       model.ModeGeneral,
	}
	err = svc.Delete(ctx, doctor, inv.ID)
	assert.True(t, apperrors.Is(err, apperrors.ErrAuthorizationDenied))

	require.NoError(t, svc.Delete(ctx, sc, inv.ID))
	_, err = svc.Get(ctx, sc, inv.ID)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}
