package stages

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
)

// ErrInvalidData wraps every stage payload validation failure so callers can
// classify it without inspecting messages.
var ErrInvalidData = errors.New("invalid stage data")

// Data is the tagged union of stage payloads; one variant per stage id,
// validated before anything reaches the store.
type Data interface {
	StageID() string
	Validate() error
}

// PlantingData is recorded at the planting stage.
type PlantingData struct {
	FarmLocation string  `json:"farm_location"`
	PlantingDate string  `json:"planting_date"`
	SeedVariety  string  `json:"seed_variety"`
	FarmerName   string  `json:"farmer_name"`
	FarmSize     float64 `json:"farm_size"`
}

func (PlantingData) StageID() string { return Planting }

func (d PlantingData) Validate() error {
	if err := requireFields(map[string]string{
		"farm_location": d.FarmLocation,
		"planting_date": d.PlantingDate,
		"seed_variety":  d.SeedVariety,
		"farmer_name":   d.FarmerName,
	}); err != nil {
		return err
	}
	if d.FarmSize <= 0 {
		return fmt.Errorf("%w: farm_size must be positive", ErrInvalidData)
	}
	return nil
}

// GrowingData is recorded at the growing stage. Every field is optional.
type GrowingData struct {
	FertilizerUsed   string `json:"fertilizer_used,omitempty"`
	PestControl      string `json:"pest_control,omitempty"`
	IrrigationMethod string `json:"irrigation_method,omitempty"`
	CareNotes        string `json:"care_notes,omitempty"`
}

func (GrowingData) StageID() string { return Growing }

func (GrowingData) Validate() error { return nil }

// QualityGrades enumerates the accepted harvest grades.
var QualityGrades = []string{"premium", "grade_a", "grade_b", "standard"}

// HarvestingData is recorded at the harvesting stage.
type HarvestingData struct {
	HarvestDate     string  `json:"harvest_date"`
	HarvestQuantity float64 `json:"harvest_quantity"`
	QualityGrade    string  `json:"quality_grade"`
	HarvestNotes    string  `json:"harvest_notes,omitempty"`
}

func (HarvestingData) StageID() string { return Harvesting }

func (d HarvestingData) Validate() error {
	if d.HarvestDate == "" {
		return fmt.Errorf("%w: harvest_date is required", ErrInvalidData)
	}
	if d.HarvestQuantity <= 0 {
		return fmt.Errorf("%w: harvest_quantity must be positive", ErrInvalidData)
	}
	if !slices.Contains(QualityGrades, d.QualityGrade) {
		return fmt.Errorf("%w: quality_grade %q is not recognized", ErrInvalidData, d.QualityGrade)
	}
	return nil
}

// PackagingTypes enumerates the accepted fresh packaging containers.
var PackagingTypes = []string{"plastic_bag", "foam_box", "plastic_tray", "other"}

// FreshPackagingData is recorded at the fresh packaging stage.
type FreshPackagingData struct {
	PackagingDate   string   `json:"packaging_date"`
	PackagingWeight float64  `json:"packaging_weight"`
	PackagingType   string   `json:"packaging_type"`
	StorageTemp     *float64 `json:"storage_temp,omitempty"`
	PackagingNotes  string   `json:"fresh_packaging_notes,omitempty"`
}

func (FreshPackagingData) StageID() string { return FreshPackaging }

func (d FreshPackagingData) Validate() error {
	if d.PackagingDate == "" {
		return fmt.Errorf("%w: packaging_date is required", ErrInvalidData)
	}
	if d.PackagingWeight <= 0 {
		return fmt.Errorf("%w: packaging_weight must be positive", ErrInvalidData)
	}
	if !slices.Contains(PackagingTypes, d.PackagingType) {
		return fmt.Errorf("%w: packaging_type %q is not recognized", ErrInvalidData, d.PackagingType)
	}
	return nil
}

// DryingMethods enumerates the accepted drying methods.
var DryingMethods = []string{"sun", "machine", "mixed"}

// DryingData is recorded at the drying stage.
type DryingData struct {
	DryingStart   string   `json:"drying_start"`
	DryingMethod  string   `json:"drying_method"`
	DryingDays    float64  `json:"drying_duration"`
	FinalMoisture *float64 `json:"final_moisture,omitempty"`
	DryingNotes   string   `json:"drying_notes,omitempty"`
}

func (DryingData) StageID() string { return Drying }

func (d DryingData) Validate() error {
	if d.DryingStart == "" {
		return fmt.Errorf("%w: drying_start is required", ErrInvalidData)
	}
	if !slices.Contains(DryingMethods, d.DryingMethod) {
		return fmt.Errorf("%w: drying_method %q is not recognized", ErrInvalidData, d.DryingMethod)
	}
	if d.DryingDays <= 0 {
		return fmt.Errorf("%w: drying_duration must be positive", ErrInvalidData)
	}
	return nil
}

// DistributionData is the shared payload of the three distribution stages
// (b2b, b2c, network_trade). Recording any of them completes the product.
type DistributionData struct {
	stageID string

	DistributionDate string   `json:"distribution_date"`
	Destination      string   `json:"destination"`
	BuyerName        string   `json:"buyer_name"`
	DistributorName  string   `json:"distributor_name"`
	EnterpriseName   string   `json:"enterprise_name"`
	ShippingCost     *float64 `json:"shipping_cost"`
	Quantity         float64  `json:"quantity"`
	TotalPrice       float64  `json:"total_price"`
	Notes            string   `json:"notes,omitempty"`
}

func (d DistributionData) StageID() string { return d.stageID }

func (d DistributionData) Validate() error {
	if err := requireFields(map[string]string{
		"distribution_date": d.DistributionDate,
		"destination":       d.Destination,
		"buyer_name":        d.BuyerName,
		"distributor_name":  d.DistributorName,
		"enterprise_name":   d.EnterpriseName,
	}); err != nil {
		return err
	}
	if d.ShippingCost == nil {
		return fmt.Errorf("%w: shipping_cost is required", ErrInvalidData)
	}
	if *d.ShippingCost < 0 {
		return fmt.Errorf("%w: shipping_cost must not be negative", ErrInvalidData)
	}
	if d.Quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive", ErrInvalidData)
	}
	if d.TotalPrice <= 0 {
		return fmt.Errorf("%w: total_price must be positive", ErrInvalidData)
	}
	return nil
}

// Decode parses and validates a raw stage payload against the schema for the
// given stage id. Unknown fields are rejected at this boundary.
func Decode(stageID string, raw json.RawMessage) (Data, error) {
	var data Data
	switch stageID {
	case Planting:
		data = &PlantingData{}
	case Growing:
		data = &GrowingData{}
	case Harvesting:
		data = &HarvestingData{}
	case FreshPackaging:
		data = &FreshPackagingData{}
	case Drying:
		data = &DryingData{}
	case B2B, B2C, NetworkTrade:
		data = &DistributionData{stageID: stageID}
	default:
		return nil, fmt.Errorf("%w: unknown stage %q", ErrInvalidData, stageID)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(data); err != nil {
		return nil, fmt.Errorf("%w: decode %s payload: %v", ErrInvalidData, stageID, err)
	}

	if err := data.Validate(); err != nil {
		return nil, err
	}

	return deref(data), nil
}

func deref(data Data) Data {
	switch v := data.(type) {
	case *PlantingData:
		return *v
	case *GrowingData:
		return *v
	case *HarvestingData:
		return *v
	case *FreshPackagingData:
		return *v
	case *DryingData:
		return *v
	case *DistributionData:
		return *v
	}
	return data
}

func requireFields(fields map[string]string) error {
	for name, value := range fields {
		if value == "" {
			return fmt.Errorf("%w: %s is required", ErrInvalidData, name)
		}
	}
	return nil
}
