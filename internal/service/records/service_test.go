package records

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolffia-coop/ferntrack/internal/domain/models"
)

type fakeStore struct {
	records map[string][]models.DailyCultivationRecord

	insertCalls int
	updateCalls int
	listCalls   int
	nextID      int

	failInsert error
	failUpdate error
	failList   error
}

func newFakeStore(recs ...models.DailyCultivationRecord) *fakeStore {
	s := &fakeStore{records: map[string][]models.DailyCultivationRecord{}}
	for _, rec := range recs {
		s.records[rec.EnterpriseName] = append(s.records[rec.EnterpriseName], rec)
	}
	return s
}

func (s *fakeStore) ListByEnterprise(_ context.Context, enterpriseName string) ([]models.DailyCultivationRecord, error) {
	s.listCalls++
	if s.failList != nil {
		return nil, s.failList
	}
	return s.records[enterpriseName], nil
}

func (s *fakeStore) Insert(_ context.Context, record models.DailyCultivationRecord) (models.DailyCultivationRecord, error) {
	s.insertCalls++
	if s.failInsert != nil {
		return models.DailyCultivationRecord{}, s.failInsert
	}
	s.nextID++
	record.ID = "gen-" + strconv.Itoa(s.nextID)
	s.records[record.EnterpriseName] = append(s.records[record.EnterpriseName], record)
	return record, nil
}

func (s *fakeStore) Update(_ context.Context, id string, record models.DailyCultivationRecord) (models.DailyCultivationRecord, error) {
	s.updateCalls++
	if s.failUpdate != nil {
		return models.DailyCultivationRecord{}, s.failUpdate
	}
	record.ID = id
	recs := s.records[record.EnterpriseName]
	for i := range recs {
		if recs[i].ID == id {
			recs[i] = record
		}
	}
	return record, nil
}

func TestSaveValidation(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, nil)

	t.Run("enterprise required", func(t *testing.T) {
		s := NewSession("s1")
		_, err := svc.Save(context.Background(), s, ResolutionNone)
		require.ErrorIs(t, err, ErrValidation)
		assert.Zero(t, store.insertCalls)
	})

	t.Run("dose quantities come from the closed enumeration", func(t *testing.T) {
		s := NewSession("s1")
		require.NoError(t, svc.SelectEnterprise(context.Background(), s, "pond-coop-a"))
		s.SelectDay(1)

		form := s.Form()
		form.Nutrients.Ponds[0].PSB = models.NutrientDose{Checked: true, Quantity: "500"}
		form.Nutrients.Ponds[0].Peanut = models.NutrientDose{Checked: true, Quantity: "500"}
		s.UpdateForm(form)

		_, err := svc.Save(context.Background(), s, ResolutionNone)
		require.ErrorIs(t, err, ErrValidation)
		assert.Contains(t, err.Error(), "peanut")
		assert.Zero(t, store.insertCalls)
	})

	t.Run("day required", func(t *testing.T) {
		s := NewSession("s1")
		require.NoError(t, svc.SelectEnterprise(context.Background(), s, "pond-coop-a"))
		_, err := svc.Save(context.Background(), s, ResolutionNone)
		require.ErrorIs(t, err, ErrValidation)
		assert.Zero(t, store.insertCalls)
	})
}

func TestSaveNewRecord(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, nil)

	s := NewSession("s1")
	require.NoError(t, svc.SelectEnterprise(context.Background(), s, "pond-coop-a"))
	s.SetCycleNumber("2")
	s.SelectDay(4)

	saved, err := svc.Save(context.Background(), s, ResolutionNone)
	require.NoError(t, err)
	assert.Equal(t, 1, store.insertCalls)
	assert.Equal(t, 4, saved.DayNumber)
	require.NotNil(t, saved.CycleNumber)
	assert.Equal(t, 2, *saved.CycleNumber)
	assert.False(t, saved.RecordedAt.IsZero())

	// Session reset onto a refreshed index.
	assert.Equal(t, ModeNew, s.Mode())
	assert.Zero(t, s.Day())
	assert.Equal(t, 1, s.Index().Total)
}

func TestSaveSlotConflict(t *testing.T) {
	existing := testRecord("r1", 2, 4)

	setup := func(t *testing.T, store Store) *Session {
		svc := NewService(store, nil)
		s := NewSession("s1")
		require.NoError(t, svc.SelectEnterprise(context.Background(), s, "pond-coop-a"))
		s.SetCycleNumber("2")
		s.SelectDay(4)
		return s
	}

	t.Run("unresolved conflict surfaces the existing record", func(t *testing.T) {
		store := newFakeStore(existing)
		svc := NewService(store, nil)
		s := setup(t, store)

		_, err := svc.Save(context.Background(), s, ResolutionNone)
		var conflict *SlotConflictError
		require.ErrorAs(t, err, &conflict)
		assert.Equal(t, "r1", conflict.Existing.ID)
		assert.Zero(t, store.insertCalls)
		assert.Zero(t, store.updateCalls)
		// State untouched so the user can still decide.
		assert.Equal(t, 4, s.Day())
		assert.Equal(t, ModeNew, s.Mode())
	})

	t.Run("update resolution overwrites the existing record", func(t *testing.T) {
		store := newFakeStore(existing)
		svc := NewService(store, nil)
		s := setup(t, store)

		saved, err := svc.Save(context.Background(), s, ResolutionUpdate)
		require.NoError(t, err)
		assert.Equal(t, "r1", saved.ID)
		assert.Equal(t, 1, store.updateCalls)
		assert.Zero(t, store.insertCalls)
	})

	t.Run("duplicate resolution inserts a second record", func(t *testing.T) {
		store := newFakeStore(existing)
		svc := NewService(store, nil)
		s := setup(t, store)

		saved, err := svc.Save(context.Background(), s, ResolutionDuplicate)
		require.NoError(t, err)
		assert.NotEqual(t, "r1", saved.ID)
		assert.Equal(t, 1, store.insertCalls)
		assert.Zero(t, store.updateCalls)
		assert.Len(t, store.records["pond-coop-a"], 2)
	})
}

func TestSaveStoreFailureLeavesSessionUnchanged(t *testing.T) {
	store := newFakeStore()
	store.failInsert = errors.New("store down")
	svc := NewService(store, nil)

	s := NewSession("s1")
	require.NoError(t, svc.SelectEnterprise(context.Background(), s, "pond-coop-a"))
	s.SetCycleNumber("3")
	s.SelectDay(5)
	form := s.Form()
	form.RecorderName = "Nok"
	s.UpdateForm(form)

	_, err := svc.Save(context.Background(), s, ResolutionNone)
	require.Error(t, err)

	assert.Equal(t, 5, s.Day())
	assert.Equal(t, "3", s.CycleInput())
	assert.Equal(t, "Nok", s.Form().RecorderName)
}

func TestSaveRefreshFailureKeepsResult(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, nil)

	s := NewSession("s1")
	require.NoError(t, svc.SelectEnterprise(context.Background(), s, "pond-coop-a"))
	s.SelectDay(2)

	store.failList = errors.New("store down")
	saved, err := svc.Save(context.Background(), s, ResolutionNone)
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
	// The save still resets; the index stays stale until the next selection.
	assert.Equal(t, ModeNew, s.Mode())
	assert.Zero(t, s.Day())
}

func TestSelectEnterpriseEmptyNameSkipsStore(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, nil)

	s := NewSession("s1")
	require.NoError(t, svc.SelectEnterprise(context.Background(), s, ""))
	assert.Zero(t, store.listCalls)
	assert.Empty(t, s.EnterpriseName())
}
