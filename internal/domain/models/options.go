package models

import "slices"

// Closed option sets for the observation section. The form offers these ids;
// free-text fields carry anything outside them.
var (
	ColorOptions   = []string{"pale_partial", "pale_many", "dark_green", "light_green", "yellow_green", "yellow", "brown"}
	FoamOptions    = []string{"no_foam", "some_spots", "heavy_foam"}
	SmellOptions   = []string{"normal", "sour", "starting_rotten", "rotten"}
	SinkingOptions = []string{"normal", "abnormal"}
	OverallOptions = []string{"normal", "clumped", "sheet", "layered", "slimy"}

	ContaminantOptions = []string{"none", "duckweed", "algae", "insects", "seaweed", "other"}
)

// Nutrient dose quantities come from closed enumerations, in grams.
var (
	PSBQuantities      = []string{"10", "15", "20", "500", "1000"}
	NutrientQuantities = []string{"10", "15", "20"}
)

// ValidDoseQuantity reports whether a nutrient quantity is empty or a member
// of the allowed enumeration for the nutrient.
func ValidDoseQuantity(quantity string, psb bool) bool {
	if quantity == "" {
		return true
	}
	if psb {
		return slices.Contains(PSBQuantities, quantity)
	}
	return slices.Contains(NutrientQuantities, quantity)
}
