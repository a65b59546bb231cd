package domain

// ExportRow is a single row of the itinerary export.
// It is a flat, denormalized view: one row per place, with trip and day
// fields repeated for every place of that day. Days with no places yield one
// row with zero values for all place fields.
type ExportRow struct {
	TripID   string
	TripName string

	DayPosition int
	DayDate     string // "2006-01-02"
	DayTitle    string
	DayCity     string
	DayCountry  string

	PlacePosition int // 1-based; 0 when the day has no places
	PlaceName     string
	PlaceAddress  string
	PlaceCategory string
	Mode          string
	DistanceKm    *float64
	DurationMin   *float64
	LegSource     string
	Cost          string
	Priority      int
	Visited       bool
	Notes         string
}
