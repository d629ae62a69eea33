package validator

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AvaniK-2002/asvicare/internal/model"
	apperrors "github.com/AvaniK-2002/asvicare/pkg/errors"
)

func fieldsOf(t *testing.T, err error) map[string]string {
	t.Helper()
	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	require.Equal(t, apperrors.ErrValidationFailed, appErr.Code)
	return appErr.Fields
}

func TestExpenseDateInFutureRejected(t *testing.T) {
	v := New()

	err := v.Struct(&model.CreateExpenseRequest{
		Amount:      100,
		Category:    model.ExpenseCategorySupplies,
		ExpenseDate: time.Now().Add(48 * time.Hour),
		Mode:        model.ModeGeneral,
	})

	require.Error(t, err)
	fields := fieldsOf(t, err)
	assert.Contains(t, fields, "date", "error must be keyed by the json field name")
	assert.Contains(t, fields["date"], "future")
}

func TestExpenseTodayAccepted(t *testing.T) {
	v := New()

	err := v.Struct(&model.CreateExpenseRequest{
		Amount:      100,
		Category:    model.ExpenseCategorySupplies,
		ExpenseDate: time.Now(),
		Mode:        model.ModeGeneral,
	})

	assert.NoError(t, err)
}

func expenseDated(d time.Time) *model.CreateExpenseRequest {
	return &model.CreateExpenseRequest{
		Amount:      100,
		Category:    model.ExpenseCategorySupplies,
		ExpenseDate: d,
		Mode:        model.ModeGeneral,
	}
}

// The future/not-future boundary is the local calendar day, not a UTC
// day: a timestamp just past local midnight is tomorrow even when its
// UTC day has not flipped yet, and late tonight is still today.
func TestExpenseDateLocalDayBoundary(t *testing.T) {
	v := New()
	now := time.Now()

	startOfTomorrow := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 1, 0, now.Location())
	lateToday := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, now.Location())

	cases := []struct {
		name  string
		date  time.Time
		valid bool
	}{
		{"just past local midnight tomorrow", startOfTomorrow, false},
		{"tomorrow 01:00 seen from UTC+3", startOfTomorrow.Add(time.Hour).In(time.FixedZone("UTC+3", 3*3600)), false},
		{"late tonight", lateToday, true},
		{"late tonight seen from UTC-5", lateToday.In(time.FixedZone("UTC-5", -5*3600)), true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := v.Struct(expenseDated(tc.date))
			if tc.valid {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			fields := fieldsOf(t, err)
			assert.Contains(t, fields, "date")
		})
	}
}

func TestMoneyRule(t *testing.T) {
	v := New()

	cases := []struct {
		name   string
		amount float64
		valid  bool
	}{
		{"whole rupees", 250, true},
		{"two decimals", 99.99, true},
		{"zero", 0, false},
		{"negative", -10, false},
		{"sub-paisa precision", 10.999, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := v.Struct(&model.CreateExpenseRequest{
				Amount:      tc.amount,
				Category:    model.ExpenseCategoryRent,
				ExpenseDate: time.Now(),
				Mode:        model.ModeGeneral,
			})
			if tc.valid {
				assert.NoError(t, err)
			} else {
				fields := fieldsOf(t, err)
				assert.Contains(t, fields, "amount")
			}
		})
	}
}

func TestAppointmentWindowRejected(t *testing.T) {
	v := New()
	start := time.Now().Add(24 * time.Hour)

	err := v.Struct(&model.CreateAppointmentRequest{
		PatientID: uuid.New(),
		StartTime: start,
		EndTime:   start.Add(-time.Hour),
	})

	require.Error(t, err)
	fields := fieldsOf(t, err)
	assert.Contains(t, fields, "end_time")
}

func TestSignupPasswordTooShort(t *testing.T) {
	v := New()

	err := v.Struct(&model.SignupRequest{
		Email:      "asha@example.com",
		Password:   "short",
		Name:       "Asha Rao",
		ClinicName: "City Clinic",
	})

	fields := fieldsOf(t, err)
	assert.Contains(t, fields, "password")
}

func TestPatientInvalidModeRejected(t *testing.T) {
	v := New()

	err := v.Struct(&model.CreatePatientRequest{
		Name: "Asha Rao",
		Mode: "dermatology",
	})

	fields := fieldsOf(t, err)
	assert.Contains(t, fields, "mode")
}
