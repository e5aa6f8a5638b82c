package models

import "time"

// PondCount is the number of physical cultivation ponds per enterprise.
const PondCount = 4

// DayMin and DayMax bound the cultivation day picker.
const (
	DayMin = 1
	DayMax = 14
)

// ActivityFlags marks which activities were carried out on the recorded day.
type ActivityFlags struct {
	AddMotherStrain bool `json:"addMotherStrain"`
	AddNutrients    bool `json:"addNutrients"`
	MeasureObserve  bool `json:"measureObserve"`
	Harvest         bool `json:"harvest"`
}

// WaterPrepPond captures the pre-cultivation water state for one pond.
// Tri-state answers use *bool: nil means the recorder has not answered yet.
type WaterPrepPond struct {
	PondNumber          int    `json:"pondNumber"`
	WaterRestedTwoDays  *bool  `json:"waterRestedTwoDays"`
	PHBeforeCultivation string `json:"phBeforeCultivation"`
	PHInRange           *bool  `json:"phInRange"`
	WaterLevelSetup     bool   `json:"waterLevelSetup"`
	PumpPositionSetup   bool   `json:"pumpPositionSetup"`
	PumpScheduleSetup   bool   `json:"pumpScheduleSetup"`
	OxygenSystemSetup   bool   `json:"oxygenSystemSetup"`
}

// WaterPrepSection is section 1 of the daily record.
type WaterPrepSection struct {
	Ponds [PondCount]WaterPrepPond `json:"ponds"`
}

// MotherStrainPond captures the mother strain quantity added to one pond, in kg.
type MotherStrainPond struct {
	PondNumber int    `json:"pondNumber"`
	Quantity   string `json:"quantity"`
}

// MotherStrainSection is section 2 of the daily record.
type MotherStrainSection struct {
	Ponds [PondCount]MotherStrainPond `json:"ponds"`
}

// PHReading is a single pH measurement for one pond.
type PHReading struct {
	PondNumber int    `json:"pondNumber"`
	PHValue    string `json:"phValue"`
	PHInRange  *bool  `json:"phInRange"`
}

// PHSection is section 3 of the daily record: pH before and after feeding.
type PHSection struct {
	BeforeFeeding [PondCount]PHReading `json:"beforeFeeding"`
	AfterFeeding  [PondCount]PHReading `json:"afterFeeding"`
}

// NutrientDose records whether a nutrient was applied and in what quantity.
// Quantity stays empty for nutrients dosed without a measured amount.
type NutrientDose struct {
	Checked  bool   `json:"checked"`
	Quantity string `json:"quantity,omitempty"`
}

// NutrientPond captures the nutrient doses applied to one pond.
type NutrientPond struct {
	PondNumber   int          `json:"pondNumber"`
	PSB          NutrientDose `json:"psb"`
	Peanut       NutrientDose `json:"peanut"`
	Soybean      NutrientDose `json:"soybean"`
	Fruit        NutrientDose `json:"fruit"`
	Hormone      NutrientDose `json:"hormone"`
	CoconutWater NutrientDose `json:"coconutWater"`
}

// NutrientSection is section 4 of the daily record.
type NutrientSection struct {
	Ponds [PondCount]NutrientPond `json:"ponds"`
}

// ObservationPond captures the visual and organoleptic state of one pond.
type ObservationPond struct {
	PondNumber       int      `json:"pondNumber"`
	Colors           []string `json:"colors"`
	Foam             string   `json:"foam"`
	Smell            string   `json:"smell"`
	Sinking          string   `json:"sinking"`
	Overall          []string `json:"overall"`
	OverallNotes     string   `json:"overallNotes"`
	Contaminants     []string `json:"contaminants"`
	OtherContaminant string   `json:"otherContaminant"`
	OtherNotes       string   `json:"otherNotes"`
}

// ObservationSection is section 5 of the daily record.
type ObservationSection struct {
	Ponds [PondCount]ObservationPond `json:"ponds"`
}

// HarvestPond captures the harvest and sale figures for one pond. Revenue is
// derived from quantity and price, never entered directly.
type HarvestPond struct {
	PondNumber int    `json:"pondNumber"`
	Weight     string `json:"weight"`
	SoldTo     string `json:"soldTo"`
	Quantity   string `json:"quantity"`
	Price      string `json:"price"`
	Revenue    string `json:"revenue"`
}

// HarvestSection is section 6 of the daily record.
type HarvestSection struct {
	Ponds [PondCount]HarvestPond `json:"ponds"`
}

// DailyCultivationRecord represents one day's observations for one enterprise.
// The store assigns the id on insert. Multiple records may legally exist for
// the same (enterprise, cycle, day) slot; the editor workflow decides whether a
// save updates an existing row or deliberately adds another.
type DailyCultivationRecord struct {
	ID             string              `json:"id,omitempty"`
	EnterpriseName string              `json:"enterprise_name"`
	CycleNumber    *int                `json:"cycle_number"`
	StartDate      string              `json:"start_date,omitempty"`
	DayNumber      int                 `json:"day_number"`
	RecorderName   string              `json:"recorder_name,omitempty"`
	Activities     ActivityFlags       `json:"activities"`
	WaterPrep      WaterPrepSection    `json:"section1_data"`
	MotherStrain   MotherStrainSection `json:"section2_data"`
	PHMeasurement  PHSection           `json:"section3_data"`
	Nutrients      NutrientSection     `json:"section4_data"`
	Observations   ObservationSection  `json:"section5_data"`
	Harvest        HarvestSection      `json:"section6_data"`
	RecordedAt     time.Time           `json:"recorded_at"`
}

// Cycle returns the record's cycle reference.
func (r DailyCultivationRecord) Cycle() CycleRef {
	if r.CycleNumber == nil || *r.CycleNumber <= 0 {
		return NoCycle()
	}
	return Cycle(*r.CycleNumber)
}

// NewWaterPrepSection returns section 1 with pond numbers assigned and every
// answer unset.
func NewWaterPrepSection() WaterPrepSection {
	var s WaterPrepSection
	for i := range s.Ponds {
		s.Ponds[i].PondNumber = i + 1
	}
	return s
}

// NewMotherStrainSection returns a blank section 2.
func NewMotherStrainSection() MotherStrainSection {
	var s MotherStrainSection
	for i := range s.Ponds {
		s.Ponds[i].PondNumber = i + 1
	}
	return s
}

// NewPHSection returns a blank section 3.
func NewPHSection() PHSection {
	var s PHSection
	for i := range s.BeforeFeeding {
		s.BeforeFeeding[i].PondNumber = i + 1
		s.AfterFeeding[i].PondNumber = i + 1
	}
	return s
}

// NewNutrientSection returns a blank section 4.
func NewNutrientSection() NutrientSection {
	var s NutrientSection
	for i := range s.Ponds {
		s.Ponds[i].PondNumber = i + 1
	}
	return s
}

// NewObservationSection returns a blank section 5 with empty multi-selects.
func NewObservationSection() ObservationSection {
	var s ObservationSection
	for i := range s.Ponds {
		s.Ponds[i].PondNumber = i + 1
		s.Ponds[i].Colors = []string{}
		s.Ponds[i].Overall = []string{}
		s.Ponds[i].Contaminants = []string{}
	}
	return s
}

// NewHarvestSection returns a blank section 6.
func NewHarvestSection() HarvestSection {
	var s HarvestSection
	for i := range s.Ponds {
		s.Ponds[i].PondNumber = i + 1
	}
	return s
}
