package records

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolffia-coop/ferntrack/internal/domain/models"
)

func testRecord(id string, cycle int, day int) models.DailyCultivationRecord {
	rec := models.DailyCultivationRecord{
		ID:             id,
		EnterpriseName: "pond-coop-a",
		DayNumber:      day,
	}
	if cycle > 0 {
		rec.CycleNumber = &cycle
	}
	return rec
}

func TestBuildIndex(t *testing.T) {
	recs := []models.DailyCultivationRecord{
		testRecord("r1", 1, 1),
		testRecord("r2", 1, 3),
		testRecord("r3", 2, 3),
		testRecord("r4", 0, 5),
		testRecord("r5", 0, 3),
	}

	idx := BuildIndex(recs)

	t.Run("days grouped per cycle with sentinel group", func(t *testing.T) {
		assert.Equal(t, []int{1, 3}, idx.DaysByCycle["1"])
		assert.Equal(t, []int{3}, idx.DaysByCycle["2"])
		assert.Equal(t, []int{3, 5}, idx.DaysByCycle[models.UnspecifiedCycleKey])
	})

	t.Run("all recorded days is the sorted union", func(t *testing.T) {
		assert.Equal(t, []int{1, 3, 5}, idx.AllRecordedDays)
	})

	t.Run("day to records spans cycles", func(t *testing.T) {
		require.Len(t, idx.DayToRecords[3], 3)
		assert.Equal(t, "r2", idx.DayToRecords[3][0].ID)
		assert.Equal(t, "r3", idx.DayToRecords[3][1].ID)
		assert.Equal(t, "r5", idx.DayToRecords[3][2].ID)
		assert.Len(t, idx.DayToRecords[1], 1)
		assert.Empty(t, idx.DayToRecords[2])
	})

	t.Run("cycles ordered numerically with unspecified last", func(t *testing.T) {
		keys := make([]string, 0, len(idx.AvailableCycles))
		for _, c := range idx.AvailableCycles {
			keys = append(keys, c.Key())
		}
		assert.Equal(t, []string{"1", "2", models.UnspecifiedCycleKey}, keys)
	})

	t.Run("total counts every record", func(t *testing.T) {
		assert.Equal(t, 5, idx.Total)
	})
}

func TestBuildIndexLastFetchedWins(t *testing.T) {
	first := testRecord("r1", 2, 7)
	second := testRecord("r2", 2, 7)

	idx := BuildIndex([]models.DailyCultivationRecord{first, second})

	rec, ok := idx.RecordAt(models.Cycle(2), 7)
	require.True(t, ok)
	assert.Equal(t, "r2", rec.ID)

	// Both duplicates remain reachable for disambiguation.
	assert.Len(t, idx.RecordsOn(7), 2)
	// The day appears once in the per-cycle listing.
	assert.Equal(t, []int{7}, idx.DaysByCycle["2"])
}

func TestBuildIndexIsPure(t *testing.T) {
	recs := []models.DailyCultivationRecord{
		testRecord("r1", 1, 2),
		testRecord("r2", 0, 4),
		testRecord("r3", 3, 4),
	}

	a := BuildIndex(recs)
	b := BuildIndex(recs)

	assert.Equal(t, a.DaysByCycle, b.DaysByCycle)
	assert.Equal(t, a.AllRecordedDays, b.AllRecordedDays)
	assert.Equal(t, a.AvailableCycles, b.AvailableCycles)
	assert.Equal(t, a.Total, b.Total)
}

func TestBuildIndexEmpty(t *testing.T) {
	idx := BuildIndex(nil)

	assert.Empty(t, idx.DaysByCycle)
	assert.Empty(t, idx.AllRecordedDays)
	assert.Empty(t, idx.AvailableCycles)
	assert.Zero(t, idx.Total)

	_, ok := idx.RecordAt(models.Cycle(1), 1)
	assert.False(t, ok)
	assert.Empty(t, idx.RecordsOn(1))
}

func TestBuildIndexSkipsDaylessRecordsButKeepsTheirCycle(t *testing.T) {
	idx := BuildIndex([]models.DailyCultivationRecord{testRecord("r1", 4, 0)})

	assert.Equal(t, []int{}, idx.DaysByCycle["4"])
	assert.Empty(t, idx.AllRecordedDays)
	require.Len(t, idx.AvailableCycles, 1)
	assert.Equal(t, "4", idx.AvailableCycles[0].Key())
	assert.Equal(t, 1, idx.Total)
}
