package cache

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AvaniK-2002/asvicare/internal/model"
)

func TestListRoundTrip(t *testing.T) {
	c := New(DefaultTTL)
	clinicID := uuid.New()
	list := []*model.Patient{{Name: "Asha Rao"}}

	c.SetList(model.KindPatient, clinicID, list)

	got, ok := c.GetList(model.KindPatient, clinicID).([]*model.Patient)
	require.True(t, ok)
	require.Len(t, got, 1)
	assert.Equal(t, "Asha Rao", got[0].Name)
}

func TestListsAreNamespacedPerClinic(t *testing.T) {
	c := New(DefaultTTL)
	clinicA := uuid.New()
	clinicB := uuid.New()

	c.SetList(model.KindPatient, clinicA, []*model.Patient{{Name: "Asha Rao"}})

	assert.Nil(t, c.GetList(model.KindPatient, clinicB))
	assert.Nil(t, c.GetList(model.KindVisit, clinicA), "kinds do not share entries")
}

func TestEntriesExpire(t *testing.T) {
	c := New(20 * time.Millisecond)
	clinicID := uuid.New()

	c.SetList(model.KindExpense, clinicID, []*model.Expense{{Amount: 100}})
	require.NotNil(t, c.GetList(model.KindExpense, clinicID))

	time.Sleep(40 * time.Millisecond)
	assert.Nil(t, c.GetList(model.KindExpense, clinicID), "expired entries read as absent")
}

func TestInvalidateList(t *testing.T) {
	c := New(DefaultTTL)
	clinicID := uuid.New()

	c.SetList(model.KindPatient, clinicID, []*model.Patient{{Name: "Asha Rao"}})
	c.InvalidateList(model.KindPatient, clinicID)

	assert.Nil(t, c.GetList(model.KindPatient, clinicID))
}

func TestLastSyncSurvivesListExpiry(t *testing.T) {
	c := New(20 * time.Millisecond)
	clinicID := uuid.New()

	assert.True(t, c.LastSync(model.KindPatient, clinicID).IsZero())

	before := time.Now()
	c.SetList(model.KindPatient, clinicID, []*model.Patient{})
	time.Sleep(40 * time.Millisecond)

	last := c.LastSync(model.KindPatient, clinicID)
	assert.False(t, last.IsZero(), "sync stamp outlives the list entry")
	assert.True(t, !last.Before(before))
}

func TestClear(t *testing.T) {
	c := New(DefaultTTL)
	clinicID := uuid.New()

	c.SetList(model.KindPatient, clinicID, []*model.Patient{})
	c.Clear()

	assert.Nil(t, c.GetList(model.KindPatient, clinicID))
	assert.True(t, c.LastSync(model.KindPatient, clinicID).IsZero())
}
