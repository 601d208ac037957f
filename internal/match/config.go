package match

// Sub-score point values.
const (
	CategoryPoints = 40.0

	LocationExactPoints    = 25.0
	LocationContainsPoints = 20.0
	LocationTokenPoints    = 15.0
	LocationFloorPoints    = 5.0

	RecencyDayPoints   = 20.0 // within 24h
	RecencyDaysPoints  = 15.0 // within 72h
	RecencyWeekPoints  = 10.0 // within 168h
	RecencyFloorPoints = 5.0

	ColorPoints       = 5.0
	BrandPoints       = 5.0
	MaxWordPoints     = 5.0
	MaxFeaturePoints  = 15.0
	MaxAggregateScore = 100.0
)

// Config holds the policy constants of the engine.
type Config struct {
	// MinScore is the lowest aggregate score kept by a match cycle.
	MinScore float64

	// Unclassified lists category labels that never earn category points.
	Unclassified []string
}

// DefaultConfig returns the standard engine configuration.
func DefaultConfig() Config {
	return Config{
		MinScore:     40,
		Unclassified: []string{"other", "其他"},
	}
}
