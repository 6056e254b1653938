package types

// FuelShare is the share of generation a single fuel had during an interval.
type FuelShare struct {
	Fuel    string  `json:"fuel" yaml:"fuel"`
	Percent float64 `json:"perc" yaml:"perc"`
}

// Interval is a single slice of generation mix data as reported upstream.
// From and To are kept verbatim (e.g. "2025-12-15T00:00Z") since they are
// echoed back to callers unchanged.
type Interval struct {
	From          string      `json:"from" yaml:"from"`
	To            string      `json:"to" yaml:"to"`
	GenerationMix []FuelShare `json:"generationmix" yaml:"generationmix"`
}

// FuelShareMap maps a fuel name to its share in percent.
type FuelShareMap map[string]float64

// DaySummary is the averaged generation mix for a single calendar day.
type DaySummary struct {
	Date            string       `json:"date"`
	AverageShares   FuelShareMap `json:"averageShares"`
	CleanPercentage float64      `json:"cleanPercentage"`
}

// ChargingWindow is the contiguous window with the highest clean percentage.
type ChargingWindow struct {
	StartTime             string  `json:"startTime"`
	EndTime               string  `json:"endTime"`
	CleanEnergyPercentage float64 `json:"cleanEnergyPercentage"`
}
