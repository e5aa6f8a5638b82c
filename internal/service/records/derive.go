package records

import (
	"strconv"

	"github.com/wolffia-coop/ferntrack/internal/domain/models"
)

// The pH band considered healthy for water fern cultivation.
const (
	phRangeLow  = 6.5
	phRangeHigh = 7.5
)

// SuggestPHInRange computes the advisory in-range answer for a pH reading.
// Non-numeric input yields nil rather than an error; the stored answer is
// whatever the recorder explicitly confirms, never this suggestion.
func SuggestPHInRange(value string) *bool {
	ph, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil
	}
	inRange := ph >= phRangeLow && ph <= phRangeHigh
	return &inRange
}

// Revenue derives the sale revenue for a harvest pond. Unparsable quantity or
// price counts as zero, mirroring the form's behaviour.
func Revenue(quantity, price string) string {
	qty, err := strconv.ParseFloat(quantity, 64)
	if err != nil {
		qty = 0
	}
	unit, err := strconv.ParseFloat(price, 64)
	if err != nil {
		unit = 0
	}
	return strconv.FormatFloat(qty*unit, 'f', -1, 64)
}

// RecalcHarvest refreshes each pond's derived revenue from its current
// quantity and price, so changing either input alone recomputes the total.
func RecalcHarvest(section *models.HarvestSection) {
	for i := range section.Ponds {
		pond := &section.Ponds[i]
		pond.Revenue = Revenue(pond.Quantity, pond.Price)
	}
}
