package types

// PrecipitationReading is one measurement row reduced to its date and
// precipitation. Prcp is nil when the reading is missing.
type PrecipitationReading struct {
	Date string
	Prcp *float64
}

// TemperatureSummary aggregates tobs over all measurements on one date.
type TemperatureSummary struct {
	Date string  `json:"date"`
	TMin float64 `json:"TMIN"`
	TMax float64 `json:"TMAX"`
	TAvg float64 `json:"TAVG"`
}
