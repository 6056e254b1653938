// Package mix aggregates generation mix intervals into averaged fuel shares.
package mix

import (
	"math"

	"github.com/raterudder/gridmix/pkg/types"
)

// Result is the aggregate of a run of intervals.
type Result struct {
	Shares          types.FuelShareMap
	CleanPercentage float64
}

// Round rounds v to 2 decimal places, halves away from zero.
func Round(v float64) float64 {
	return math.Round(v*100) / 100
}

// Aggregate averages each fuel's share across intervals and sums the averages
// of the clean fuels. Each average is rounded before it is summed. An empty
// slice aggregates to no shares and a clean percentage of 0.
func Aggregate(intervals []types.Interval) Result {
	grouped := group(intervals)

	shares := make(types.FuelShareMap, len(grouped))
	for fuel, values := range grouped {
		shares[fuel] = Round(mean(values))
	}

	return Result{
		Shares:          shares,
		CleanPercentage: CleanPercentage(shares),
	}
}

// CleanPercentage sums the shares of the clean fuels present in shares.
// Missing clean fuels contribute nothing.
func CleanPercentage(shares types.FuelShareMap) float64 {
	var sum float64
	// iterate the fixed list rather than the map so the float sum is stable
	for _, fuel := range types.CleanFuels {
		sum += shares[fuel]
	}
	return Round(sum)
}

func group(intervals []types.Interval) map[string][]float64 {
	grouped := make(map[string][]float64)
	for _, it := range intervals {
		for _, share := range it.GenerationMix {
			grouped[share.Fuel] = append(grouped[share.Fuel], share.Percent)
		}
	}
	return grouped
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
