// Package stages defines the fixed production stage catalog and the typed
// payload schema recorded at each stage.
package stages

// Stage ids. Each id names an independently recordable pipeline step.
const (
	Planting       = "planting"
	Growing        = "growing"
	Harvesting     = "harvesting"
	FreshPackaging = "fresh_packaging"
	Drying         = "drying"
	B2B            = "b2b"
	B2C            = "b2c"
	NetworkTrade   = "network_trade"
)

// Stage describes one catalog entry. Distribution stages promote the owning
// product to completed when recorded.
type Stage struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Distribution bool   `json:"distribution"`
}

// Phase is an informational grouping of stages. Phases impose no ordering or
// prerequisite: any stage may be recorded at any time.
type Phase struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Stages []Stage `json:"stages"`
}

var catalog = []Phase{
	{
		ID:   "upstream",
		Name: "Farm & harvest",
		Stages: []Stage{
			{ID: Planting, Name: "Planting"},
			{ID: Growing, Name: "Growing & care"},
			{ID: Harvesting, Name: "Harvesting"},
		},
	},
	{
		ID:   "midstream",
		Name: "Processing",
		Stages: []Stage{
			{ID: FreshPackaging, Name: "Fresh packaging"},
			{ID: Drying, Name: "Drying"},
		},
	},
	{
		ID:   "downstream",
		Name: "Packaging & distribution",
		Stages: []Stage{
			{ID: B2B, Name: "B2B sale", Distribution: true},
			{ID: B2C, Name: "B2C sale", Distribution: true},
			{ID: NetworkTrade, Name: "Network trade", Distribution: true},
		},
	},
}

var byID = func() map[string]Stage {
	m := make(map[string]Stage)
	for _, phase := range catalog {
		for _, st := range phase.Stages {
			m[st.ID] = st
		}
	}
	return m
}()

// Catalog returns the phases in pipeline order.
func Catalog() []Phase {
	return catalog
}

// Lookup finds a stage by id.
func Lookup(id string) (Stage, bool) {
	st, ok := byID[id]
	return st, ok
}

// IsDistribution reports whether recording the stage completes the product.
func IsDistribution(id string) bool {
	return byID[id].Distribution
}
