package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AvaniK-2002/asvicare/internal/model"
	"github.com/AvaniK-2002/asvicare/internal/repository/memory"
	"github.com/AvaniK-2002/asvicare/internal/service/session"
)

type fixedPending int

func (p fixedPending) Pending() int { return int(p) }

func newTestService(store *memory.Store, pending PendingCounter) *Service {
	return NewService(store.Patients(), store.Visits(), store.Expenses(), store.Appointments(), pending)
}

func testScope(clinicID uuid.UUID) *session.Scope {
	return &session.Scope{
		ProfileID: uuid.New(),
		ClinicID:  clinicID,
		Role:      model.RoleDoctor,
		Mode:      model.ModeGeneral,
	}
}

func TestStatsEmptyClinicAllZero(t *testing.T) {
	store := memory.NewStore()
	svc := newTestService(store, fixedPending(0))

	stats, err := svc.GetStats(context.Background(), testScope(uuid.New()))
	require.NoError(t, err)

	assert.Equal(t, 0, stats.TotalPatients)
	assert.Equal(t, 0, stats.VisitsToday)
	assert.Zero(t, stats.TodayIncome)
	assert.Zero(t, stats.MonthIncome)
	assert.Zero(t, stats.MonthExpenses)
	assert.Zero(t, stats.MonthNet)
	assert.Equal(t, 0, stats.UpcomingBookings)
}

func TestStatsNilScopeZeroed(t *testing.T) {
	store := memory.NewStore()
	svc := newTestService(store, fixedPending(4))

	stats, err := svc.GetStats(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, &model.DashboardStats{}, stats)
}

func TestStatsSingleVisitToday(t *testing.T) {
	store := memory.NewStore()
	svc := newTestService(store, fixedPending(2))
	clinicID := uuid.New()
	sc := testScope(clinicID)

	patientID := uuid.New()
	require.NoError(t, store.Patients().Create(context.Background(), &model.Patient{
		Base: model.Base{ID: patientID, ClinicID: clinicID, CreatedAt: time.Now()},
		Name: "Asha",
		Mode: model.ModeGeneral,
	}))
	require.NoError(t, store.Visits().Create(context.Background(), &model.Visit{
		Base:      model.Base{ID: uuid.New(), ClinicID: clinicID},
		PatientID: patientID,
		Fee:       500,
		VisitDate: time.Now(),
	}))

	stats, err := svc.GetStats(context.Background(), sc)
	require.NoError(t, err)

	assert.Equal(t, 1, stats.TotalPatients)
	assert.Equal(t, 1, stats.VisitsToday)
	assert.Equal(t, 500.0, stats.TodayIncome)
	assert.Equal(t, 500.0, stats.MonthIncome)
	assert.Equal(t, 500.0, stats.MonthNet)
	assert.Equal(t, 2, stats.PendingSyncOps)
}

func TestStatsIgnoreOtherClinics(t *testing.T) {
	store := memory.NewStore()
	svc := newTestService(store, nil)
	clinicID := uuid.New()

	require.NoError(t, store.Visits().Create(context.Background(), &model.Visit{
		Base:      model.Base{ID: uuid.New(), ClinicID: uuid.New()},
		PatientID: uuid.New(),
		Fee:       900,
		VisitDate: time.Now(),
	}))

	stats, err := svc.GetStats(context.Background(), testScope(clinicID))
	require.NoError(t, err)
	assert.Zero(t, stats.MonthIncome)
	assert.Equal(t, 0, stats.VisitsToday)
}

func TestTrendsGroupsByDayAndCategory(t *testing.T) {
	store := memory.NewStore()
	svc := newTestService(store, nil)
	clinicID := uuid.New()
	sc := testScope(clinicID)

	today := time.Now()
	yesterday := today.AddDate(0, 0, -1)

	require.NoError(t, store.Visits().Create(context.Background(), &model.Visit{
		Base:      model.Base{ID: uuid.New(), ClinicID: clinicID},
		PatientID: uuid.New(),
		Fee:       300,
		VisitDate: today,
	}))
	require.NoError(t, store.Expenses().Create(context.Background(), &model.Expense{
		Base:        model.Base{ID: uuid.New(), ClinicID: clinicID},
		Amount:      120,
		Category:    model.ExpenseCategorySupplies,
		ExpenseDate: yesterday,
		Mode:        model.ModeGeneral,
	}))

	trends, err := svc.GetTrends(context.Background(), sc, 7)
	require.NoError(t, err)

	require.Len(t, trends.Days, 7)
	last := trends.Days[len(trends.Days)-1]
	assert.Equal(t, today.Format("2006-01-02"), last.Day)
	assert.Equal(t, 300.0, last.Income)
	assert.Equal(t, 1, last.Visits)

	prev := trends.Days[len(trends.Days)-2]
	assert.Equal(t, 120.0, prev.Expenses)
	assert.Equal(t, 120.0, trends.ByCategory[model.ExpenseCategorySupplies])
}

func TestTrendsDefaultWindow(t *testing.T) {
	store := memory.NewStore()
	svc := newTestService(store, nil)

	trends, err := svc.GetTrends(context.Background(), testScope(uuid.New()), 0)
	require.NoError(t, err)
	assert.Len(t, trends.Days, 30)
}
