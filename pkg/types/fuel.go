package types

// CleanFuels are the fuels that count toward the clean percentage, in the
// order their shares are summed.
var CleanFuels = []string{"hydro", "solar", "wind", "nuclear", "biomass"}

// IsCleanFuel returns true if the fuel counts toward the clean percentage.
// Any fuel not listed in CleanFuels is implicitly non-clean.
func IsCleanFuel(fuel string) bool {
	for _, f := range CleanFuels {
		if f == fuel {
			return true
		}
	}
	return false
}
