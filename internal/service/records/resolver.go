// Package records implements the daily cultivation record workflow: the
// resolver indices over an enterprise's record set and the editor session
// state machine that decides create-vs-update semantics.
package records

import (
	"slices"

	"github.com/wolffia-coop/ferntrack/internal/domain/models"
)

// SlotKey addresses one (cycle, day) slot within an enterprise.
type SlotKey struct {
	CycleKey string
	Day      int
}

// Index holds the lookup structures rebuilt whenever the enterprise
// selection changes. Building is pure: same input list, same index.
type Index struct {
	// DaysByCycle maps a cycle key to the sorted, duplicate-free day numbers
	// recorded in that cycle.
	DaysByCycle map[string][]int

	// AllRecordedDays is the sorted union of days recorded in any cycle.
	AllRecordedDays []int

	// DayToRecords maps a day number to every record carrying it, across all
	// cycles, preserving fetch order.
	DayToRecords map[int][]models.DailyCultivationRecord

	// ByCycleDay maps a slot to one record. When duplicates share a slot the
	// later one in fetch order wins.
	ByCycleDay map[SlotKey]models.DailyCultivationRecord

	// AvailableCycles lists the distinct cycles, numeric ascending with the
	// unspecified group last.
	AvailableCycles []models.CycleRef

	// Total is the number of records indexed.
	Total int
}

// BuildIndex folds an enterprise's record list into the lookup indices. It
// tolerates an empty list and performs no I/O.
func BuildIndex(recs []models.DailyCultivationRecord) Index {
	idx := Index{
		DaysByCycle:  make(map[string][]int),
		DayToRecords: make(map[int][]models.DailyCultivationRecord),
		ByCycleDay:   make(map[SlotKey]models.DailyCultivationRecord),
		Total:        len(recs),
	}

	seenCycles := make(map[string]models.CycleRef)
	allDays := make(map[int]struct{})

	for _, rec := range recs {
		cycle := rec.Cycle()
		key := cycle.Key()

		if _, ok := seenCycles[key]; !ok {
			seenCycles[key] = cycle
			idx.AvailableCycles = append(idx.AvailableCycles, cycle)
		}

		if _, ok := idx.DaysByCycle[key]; !ok {
			idx.DaysByCycle[key] = []int{}
		}

		if rec.DayNumber <= 0 {
			continue
		}

		if !slices.Contains(idx.DaysByCycle[key], rec.DayNumber) {
			idx.DaysByCycle[key] = append(idx.DaysByCycle[key], rec.DayNumber)
		}

		allDays[rec.DayNumber] = struct{}{}
		idx.DayToRecords[rec.DayNumber] = append(idx.DayToRecords[rec.DayNumber], rec)
		idx.ByCycleDay[SlotKey{CycleKey: key, Day: rec.DayNumber}] = rec
	}

	for _, days := range idx.DaysByCycle {
		slices.Sort(days)
	}

	idx.AllRecordedDays = make([]int, 0, len(allDays))
	for day := range allDays {
		idx.AllRecordedDays = append(idx.AllRecordedDays, day)
	}
	slices.Sort(idx.AllRecordedDays)

	slices.SortFunc(idx.AvailableCycles, func(a, b models.CycleRef) int {
		switch {
		case a.Less(b):
			return -1
		case b.Less(a):
			return 1
		}
		return 0
	})

	return idx
}

// RecordAt returns the winning record for a slot, if any.
func (idx Index) RecordAt(cycle models.CycleRef, day int) (models.DailyCultivationRecord, bool) {
	rec, ok := idx.ByCycleDay[SlotKey{CycleKey: cycle.Key(), Day: day}]
	return rec, ok
}

// RecordsOn returns every record carrying the given day, across all cycles.
func (idx Index) RecordsOn(day int) []models.DailyCultivationRecord {
	return idx.DayToRecords[day]
}
