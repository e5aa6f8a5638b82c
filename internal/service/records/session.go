package records

import (
	"strconv"
	"time"

	"github.com/wolffia-coop/ferntrack/internal/domain/models"
)

// Mode is the editor state: composing a new record or editing a stored one.
type Mode string

const (
	ModeNew     Mode = "new"
	ModeEditing Mode = "editing"
)

// DayOutcome classifies what selecting a day requires from the user.
type DayOutcome string

const (
	// DaySelected means the day had no stored record; plain selection.
	DaySelected DayOutcome = "selected"
	// DayConfirmExisting means one record occupies the slot; the user chooses
	// to edit it or to stay on a new record.
	DayConfirmExisting DayOutcome = "confirm_existing"
	// DayDisambiguate means several cycles recorded this day; the user picks
	// which record to edit.
	DayDisambiguate DayOutcome = "disambiguate"
)

// DayDecision is the outcome of selecting a day. Candidates carries the
// record to confirm, or the full disambiguation list.
type DayDecision struct {
	Day        int                             `json:"day"`
	Outcome    DayOutcome                      `json:"outcome"`
	Candidates []models.DailyCultivationRecord `json:"candidates,omitempty"`
}

// FormData is the editable content of the daily record form: the header
// fields below the slot address plus all six section payloads.
type FormData struct {
	StartDate     string                     `json:"start_date"`
	RecorderName  string                     `json:"recorder_name"`
	Activities    models.ActivityFlags       `json:"activities"`
	WaterPrep     models.WaterPrepSection    `json:"section1_data"`
	MotherStrain  models.MotherStrainSection `json:"section2_data"`
	PHMeasurement models.PHSection           `json:"section3_data"`
	Nutrients     models.NutrientSection     `json:"section4_data"`
	Observations  models.ObservationSection  `json:"section5_data"`
	Harvest       models.HarvestSection      `json:"section6_data"`
}

func defaultForm() FormData {
	return FormData{
		WaterPrep:     models.NewWaterPrepSection(),
		MotherStrain:  models.NewMotherStrainSection(),
		PHMeasurement: models.NewPHSection(),
		Nutrients:     models.NewNutrientSection(),
		Observations:  models.NewObservationSection(),
		Harvest:       models.NewHarvestSection(),
	}
}

// Session is one editor session's full state: the current slot address, the
// record identity being edited (if any), the form content and the resolver
// index for the selected enterprise. All selection state lives here rather
// than spread across section handlers.
type Session struct {
	ID string

	mode           Mode
	editingID      string
	enterpriseName string
	cycleInput     string
	day            int
	form           FormData
	index          Index

	createdAt time.Time
	touchedAt time.Time
}

// NewSession starts a blank session in NEW mode.
func NewSession(id string) *Session {
	now := time.Now()
	return &Session{
		ID:        id,
		mode:      ModeNew,
		form:      defaultForm(),
		index:     BuildIndex(nil),
		createdAt: now,
		touchedAt: now,
	}
}

// Mode returns the current editor mode.
func (s *Session) Mode() Mode { return s.mode }

// EditingID returns the bound record id, empty in NEW mode.
func (s *Session) EditingID() string { return s.editingID }

// EnterpriseName returns the selected enterprise.
func (s *Session) EnterpriseName() string { return s.enterpriseName }

// CycleInput returns the raw cycle field content.
func (s *Session) CycleInput() string { return s.cycleInput }

// Day returns the selected day, 0 when none is selected.
func (s *Session) Day() int { return s.day }

// Form returns the current form content.
func (s *Session) Form() FormData { return s.form }

// Index returns the resolver index for the selected enterprise.
func (s *Session) Index() Index { return s.index }

// Cycle parses the cycle field into a cycle reference.
func (s *Session) Cycle() models.CycleRef {
	return models.ParseCycle(s.cycleInput)
}

// cyclePinned reports whether the user has entered anything in the cycle
// field. The pinned cycle narrows day lookups to one slot.
func (s *Session) cyclePinned() bool {
	return s.cycleInput != ""
}

// SelectEnterprise switches the session to an enterprise: cycle and day are
// cleared, the editor returns to NEW mode and the resolver index is rebuilt
// from the enterprise's record set.
func (s *Session) SelectEnterprise(name string, recs []models.DailyCultivationRecord) {
	s.enterpriseName = name
	s.cycleInput = ""
	s.day = 0
	s.mode = ModeNew
	s.editingID = ""
	s.index = BuildIndex(recs)
}

// SetCycleNumber records the raw cycle input. A cycle number inside the day
// range auto-selects the matching day, the house convention tying the cycle
// index to an initial day guess. Out-of-range or non-numeric input leaves
// the day selection untouched.
func (s *Session) SetCycleNumber(raw string) {
	s.cycleInput = raw
	if n, err := strconv.Atoi(raw); err == nil && n >= models.DayMin && n <= models.DayMax {
		s.day = n
	}
}

// SelectDay picks a cultivation day and reports what, if anything, the user
// must decide. The day sticks even if the user later declines to edit; any
// previous edit binding is dropped.
func (s *Session) SelectDay(day int) DayDecision {
	s.day = day
	s.editingID = ""
	s.mode = ModeNew

	// A pinned cycle resolves its own slot first. When that slot is vacant
	// the lookup still widens to the other cycles, so a day recorded
	// elsewhere keeps offering its edit candidates.
	if s.cyclePinned() {
		if rec, ok := s.index.RecordAt(s.Cycle(), day); ok {
			return DayDecision{Day: day, Outcome: DayConfirmExisting, Candidates: []models.DailyCultivationRecord{rec}}
		}
	}

	matches := s.index.RecordsOn(day)
	switch len(matches) {
	case 0:
		return DayDecision{Day: day, Outcome: DaySelected}
	case 1:
		return DayDecision{Day: day, Outcome: DayConfirmExisting, Candidates: matches}
	default:
		return DayDecision{Day: day, Outcome: DayDisambiguate, Candidates: matches}
	}
}

// ConfirmEdit binds the session to a stored record and populates the form
// from its payload. Sections absent from the stored payload keep their
// current in-memory values instead of being blanked.
func (s *Session) ConfirmEdit(rec models.DailyCultivationRecord) {
	s.mode = ModeEditing
	s.editingID = rec.ID

	if n, ok := rec.Cycle().Number(); ok {
		s.cycleInput = strconv.Itoa(n)
	} else {
		s.cycleInput = ""
	}

	s.day = rec.DayNumber
	if s.day == 0 {
		s.day = models.DayMin
	}

	s.form.StartDate = rec.StartDate
	s.form.RecorderName = rec.RecorderName
	s.form.Activities = rec.Activities

	if rec.WaterPrep.Ponds[0].PondNumber != 0 {
		s.form.WaterPrep = rec.WaterPrep
	}
	if rec.MotherStrain.Ponds[0].PondNumber != 0 {
		s.form.MotherStrain = rec.MotherStrain
	}
	if rec.PHMeasurement.BeforeFeeding[0].PondNumber != 0 {
		s.form.PHMeasurement = rec.PHMeasurement
	}
	if rec.Nutrients.Ponds[0].PondNumber != 0 {
		s.form.Nutrients = rec.Nutrients
	}
	if rec.Observations.Ponds[0].PondNumber != 0 {
		s.form.Observations = rec.Observations
	}
	if rec.Harvest.Ponds[0].PondNumber != 0 {
		s.form.Harvest = rec.Harvest
	}
}

// DeclineEdit turns down the offer to edit a stored record: the editor stays
// on a new record but the selected day sticks.
func (s *Session) DeclineEdit() {
	s.mode = ModeNew
	s.editingID = ""
}

// BindExisting rebinds the session to an already stored record without
// touching the form, the "update the existing record" save resolution.
func (s *Session) BindExisting(recordID string) {
	s.mode = ModeEditing
	s.editingID = recordID
}

// UpdateForm replaces the editable form content and refreshes the derived
// harvest revenue per pond. Stored pH answers are taken as given: the
// computed in-range suggestion never overrides what the recorder confirmed.
func (s *Session) UpdateForm(form FormData) {
	RecalcHarvest(&form.Harvest)
	s.form = form
}

// SlotConflict returns the stored record occupying the session's current
// slot, when composing a new record over an already recorded slot.
func (s *Session) SlotConflict() (models.DailyCultivationRecord, bool) {
	if s.mode != ModeNew || s.day == 0 {
		return models.DailyCultivationRecord{}, false
	}
	return s.index.RecordAt(s.Cycle(), s.day)
}

// BuildRecord assembles the complete record from the session state. The
// caller stamps RecordedAt.
func (s *Session) BuildRecord() models.DailyCultivationRecord {
	rec := models.DailyCultivationRecord{
		EnterpriseName: s.enterpriseName,
		StartDate:      s.form.StartDate,
		DayNumber:      s.day,
		RecorderName:   s.form.RecorderName,
		Activities:     s.form.Activities,
		WaterPrep:      s.form.WaterPrep,
		MotherStrain:   s.form.MotherStrain,
		PHMeasurement:  s.form.PHMeasurement,
		Nutrients:      s.form.Nutrients,
		Observations:   s.form.Observations,
		Harvest:        s.form.Harvest,
	}

	if n, ok := s.Cycle().Number(); ok {
		rec.CycleNumber = &n
	}

	return rec
}

// Reset unconditionally returns to NEW mode with a blank slot and blank
// sections. The enterprise selection and its index survive.
func (s *Session) Reset() {
	s.mode = ModeNew
	s.editingID = ""
	s.cycleInput = ""
	s.day = 0
	s.form = defaultForm()
}

// RefreshIndex rebuilds the resolver index, typically after a save.
func (s *Session) RefreshIndex(recs []models.DailyCultivationRecord) {
	s.index = BuildIndex(recs)
}
