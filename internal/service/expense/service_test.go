package expense

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
	return NewService(store.Expenses(), auditor), store
}

func scopeWithRole(clinicID uuid.UUID, role model.Role) *session.Scope {
	return &session.Scope{
		ProfileID:  uuid.New(),
		ClinicID:   clinicID,
		AuthUserID: uuid.New(),
		Role:       role,
		Mode:       model.ModeGeneral,
	}
}

func expenseReq() *model.CreateExpenseRequest {
	return &model.CreateExpenseRequest{
		Amount:      1200,
		Category:    "supplies",
		Description: "gauze and gloves",
		ExpenseDate: time.Now().Add(-24 * time.Hour),
		Mode:        model.ModeGeneral,
	}
}

func TestCreateStampsOwnershipFromScope(t *testing.T) {
	svc, _ := newTestService(t)
	sc := scopeWithRole(uuid.New(), model.RoleDoctor)

	created, err := svc.Create(context.Background(), sc, expenseReq())
	require.NoError(t, err)

	assert.Equal(t, sc.ClinicID, created.ClinicID)
	assert.Equal(t, sc.ProfileID, created.CreatedBy)
	assert.Equal(t, 1200.0, created.Amount)
}

func TestListScopedToClinic(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	a := scopeWithRole(uuid.New(), model.RoleDoctor)
	b := scopeWithRole(uuid.New(), model.RoleDoctor)
	_, err := svc.Create(ctx, a, expenseReq())
	require.NoError(t, err)

	mine, err := svc.List(ctx, a, &model.ExpenseFilters{})
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	theirs, err := svc.List(ctx, b, &model.ExpenseFilters{})
	require.NoError(t, err)
	assert.Empty(t, theirs)
}

func TestUpdateKeepsUnsetFields(t *testing.T) {
	svc, _ := newTestService(t)
	sc := scopeWithRole(uuid.New(), model.RoleDoctor)
	ctx := context.Background()

	created, err := svc.Create(ctx, sc, expenseReq())
	require.NoError(t, err)

	newAmount := 950.0
	updated, err := svc.Update(ctx, sc, created.ID, &model.UpdateExpenseRequest{Amount: &newAmount})
	require.NoError(t, err)

	assert.Equal(t, 950.0, updated.Amount)
	assert.Equal(t, "supplies", updated.Category)
	assert.Equal(t, "gauze and gloves", updated.Description)
}

func TestDeleteIsAdminOnly(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	admin := scopeWithRole(uuid.New(), model.RoleAdmin)
	created, err := svc.Create(ctx, admin, expenseReq())
	require.NoError(t, err)

	doctor := scopeWithRole(admin.ClinicID, model.RoleDoctor)
	err = svc.Delete(ctx, doctor, created.ID)
	assert.True(t, apperrors.Is(err, apperrors.ErrAuthorizationDenied))

	// Still present after the denied attempt.
	got, err := svc.Get(ctx, admin, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	require.NoError(t, svc.Delete(ctx, admin, created.ID))
	_, err = svc.Get(ctx, admin, created.ID)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}

func TestNilScopeReadsEmptyWritesDenied(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	list, err := svc.List(ctx, nil, &model.ExpenseFilters{})
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = svc.Create(ctx, nil, expenseReq())
	assert.True(t, apperrors.Is(err, apperrors.ErrAuthorizationDenied))

	_, err = svc.Get(ctx, nil, uuid.New())
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}
