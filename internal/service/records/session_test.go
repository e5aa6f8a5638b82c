package records

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolffia-coop/ferntrack/internal/domain/models"
)

func newTestSession(recs ...models.DailyCultivationRecord) *Session {
	s := NewSession("test-session")
	s.SelectEnterprise("pond-coop-a", recs)
	return s
}

func TestSetCycleNumberAutoSelectsDay(t *testing.T) {
	s := newTestSession()

	s.SetCycleNumber("7")
	assert.Equal(t, 7, s.Day())
	assert.Equal(t, "7", s.CycleInput())

	// Out of the day range: cycle is kept, day selection untouched.
	s.SetCycleNumber("20")
	assert.Equal(t, 7, s.Day())
	assert.Equal(t, "20", s.CycleInput())

	// Non-numeric input never moves the day either.
	s.SetCycleNumber("soon")
	assert.Equal(t, 7, s.Day())
	cycle := s.Cycle()
	assert.False(t, cycle.Specified())
}

func TestSelectDayOutcomes(t *testing.T) {
	recs := []models.DailyCultivationRecord{
		testRecord("r1", 1, 3),
		testRecord("r2", 2, 3),
		testRecord("r3", 1, 6),
	}

	t.Run("free day selects plainly", func(t *testing.T) {
		s := newTestSession(recs...)
		dec := s.SelectDay(9)
		assert.Equal(t, DaySelected, dec.Outcome)
		assert.Equal(t, 9, s.Day())
		assert.Empty(t, dec.Candidates)
	})

	t.Run("single match asks for confirmation", func(t *testing.T) {
		s := newTestSession(recs...)
		dec := s.SelectDay(6)
		assert.Equal(t, DayConfirmExisting, dec.Outcome)
		require.Len(t, dec.Candidates, 1)
		assert.Equal(t, "r3", dec.Candidates[0].ID)
	})

	t.Run("day shared by cycles needs disambiguation", func(t *testing.T) {
		s := newTestSession(recs...)
		dec := s.SelectDay(3)
		assert.Equal(t, DayDisambiguate, dec.Outcome)
		require.Len(t, dec.Candidates, 2)
		assert.Equal(t, "r1", dec.Candidates[0].ID)
		assert.Equal(t, "r2", dec.Candidates[1].ID)
	})

	t.Run("pinned cycle resolves its own slot first", func(t *testing.T) {
		s := newTestSession(recs...)
		s.SetCycleNumber("2")
		dec := s.SelectDay(3)
		assert.Equal(t, DayConfirmExisting, dec.Outcome)
		require.Len(t, dec.Candidates, 1)
		assert.Equal(t, "r2", dec.Candidates[0].ID)
	})

	t.Run("vacant pinned slot still offers records from other cycles", func(t *testing.T) {
		s := newTestSession(recs...)
		s.SetCycleNumber("2")
		// Day 6 is recorded only in cycle 1.
		dec := s.SelectDay(6)
		assert.Equal(t, DayConfirmExisting, dec.Outcome)
		require.Len(t, dec.Candidates, 1)
		assert.Equal(t, "r3", dec.Candidates[0].ID)
	})

	t.Run("vacant pinned slot with several other-cycle records disambiguates", func(t *testing.T) {
		s := newTestSession(
			testRecord("r1", 1, 6),
			testRecord("r2", 3, 6),
		)
		s.SetCycleNumber("2")
		dec := s.SelectDay(6)
		assert.Equal(t, DayDisambiguate, dec.Outcome)
		require.Len(t, dec.Candidates, 2)
		assert.Equal(t, "r1", dec.Candidates[0].ID)
		assert.Equal(t, "r2", dec.Candidates[1].ID)
	})

	t.Run("reselecting a day drops a previous edit binding", func(t *testing.T) {
		s := newTestSession(recs...)
		s.ConfirmEdit(recs[2])
		require.Equal(t, ModeEditing, s.Mode())

		dec := s.SelectDay(9)
		assert.Equal(t, DaySelected, dec.Outcome)
		assert.Equal(t, ModeNew, s.Mode())
		assert.Empty(t, s.EditingID())
		// Declining to edit keeps the chosen day.
		assert.Equal(t, 9, s.Day())
	})
}

func TestDeclineEditKeepsDay(t *testing.T) {
	rec := testRecord("r1", 1, 6)
	s := newTestSession(rec)

	dec := s.SelectDay(6)
	require.Equal(t, DayConfirmExisting, dec.Outcome)
	s.ConfirmEdit(rec)

	s.DeclineEdit()

	assert.Equal(t, ModeNew, s.Mode())
	assert.Empty(t, s.EditingID())
	assert.Equal(t, 6, s.Day())
}

func TestConfirmEditPopulatesForm(t *testing.T) {
	rec := testRecord("r1", 5, 8)
	rec.StartDate = "2026-08-01"
	rec.RecorderName = "Nok"
	rec.Activities = models.ActivityFlags{Harvest: true}
	rec.Harvest = models.NewHarvestSection()
	rec.Harvest.Ponds[0].Quantity = "12"
	rec.Harvest.Ponds[0].Price = "20"
	rec.Harvest.Ponds[0].Revenue = "240"

	s := newTestSession(rec)
	s.form.Observations.Ponds[0].OverallNotes = "kept when stored section is absent"

	s.ConfirmEdit(rec)

	assert.Equal(t, ModeEditing, s.Mode())
	assert.Equal(t, "r1", s.EditingID())
	assert.Equal(t, "5", s.CycleInput())
	assert.Equal(t, 8, s.Day())
	assert.Equal(t, "2026-08-01", s.Form().StartDate)
	assert.Equal(t, "Nok", s.Form().RecorderName)
	assert.True(t, s.Form().Activities.Harvest)
	assert.Equal(t, "240", s.Form().Harvest.Ponds[0].Revenue)

	// The record carried no observation payload; the in-memory section
	// survives rather than being blanked.
	assert.Equal(t, "kept when stored section is absent", s.Form().Observations.Ponds[0].OverallNotes)
}

func TestConfirmEditDaylessRecordLandsOnDayOne(t *testing.T) {
	rec := testRecord("r1", 0, 0)

	s := newTestSession(rec)
	s.ConfirmEdit(rec)

	assert.Equal(t, models.DayMin, s.Day())
	assert.Empty(t, s.CycleInput())
}

func TestUpdateFormKeepsExplicitPHAnswer(t *testing.T) {
	s := newTestSession()

	form := s.Form()
	no := false
	form.PHMeasurement.BeforeFeeding[0].PHValue = "7.0"
	form.PHMeasurement.BeforeFeeding[0].PHInRange = &no
	s.UpdateForm(form)

	// 7.0 would suggest in-range; the recorder's explicit answer stands.
	require.NotNil(t, s.Form().PHMeasurement.BeforeFeeding[0].PHInRange)
	assert.False(t, *s.Form().PHMeasurement.BeforeFeeding[0].PHInRange)
}

func TestUpdateFormRecalculatesRevenue(t *testing.T) {
	s := newTestSession()

	form := s.Form()
	form.Harvest.Ponds[1].Quantity = "3"
	form.Harvest.Ponds[1].Price = "50"
	form.Harvest.Ponds[1].Revenue = "stale"
	s.UpdateForm(form)

	assert.Equal(t, "150", s.Form().Harvest.Ponds[1].Revenue)
}

func TestBuildRecordCarriesCycle(t *testing.T) {
	s := newTestSession()
	s.SetCycleNumber("3")
	s.SelectDay(3)

	rec := s.BuildRecord()
	require.NotNil(t, rec.CycleNumber)
	assert.Equal(t, 3, *rec.CycleNumber)
	assert.Equal(t, 3, rec.DayNumber)
	assert.Equal(t, "pond-coop-a", rec.EnterpriseName)

	s.SetCycleNumber("")
	rec = s.BuildRecord()
	assert.Nil(t, rec.CycleNumber)
}

func TestResetKeepsEnterpriseAndIndex(t *testing.T) {
	recs := []models.DailyCultivationRecord{testRecord("r1", 1, 2)}
	s := newTestSession(recs...)
	s.SetCycleNumber("1")
	s.SelectDay(2)
	s.ConfirmEdit(recs[0])

	s.Reset()

	assert.Equal(t, ModeNew, s.Mode())
	assert.Empty(t, s.EditingID())
	assert.Empty(t, s.CycleInput())
	assert.Zero(t, s.Day())
	assert.Equal(t, "pond-coop-a", s.EnterpriseName())
	assert.Equal(t, 1, s.Index().Total)
	// Sections return to their blank pond-numbered shape.
	assert.Equal(t, 1, s.Form().WaterPrep.Ponds[0].PondNumber)
}

func TestSelectEnterpriseClearsSlot(t *testing.T) {
	s := newTestSession(testRecord("r1", 1, 2))
	s.SetCycleNumber("1")
	s.SelectDay(2)

	s.SelectEnterprise("pond-coop-b", nil)

	assert.Equal(t, "pond-coop-b", s.EnterpriseName())
	assert.Empty(t, s.CycleInput())
	assert.Zero(t, s.Day())
	assert.Equal(t, ModeNew, s.Mode())
	assert.Zero(t, s.Index().Total)
}
