package mix

import (
	"fmt"
	"testing"

	"github.com/raterudder/gridmix/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testFuels     = []string{"hydro", "solar", "wind", "nuclear", "biomass", "other", "imports", "coal", "gas"}
	testPercents1 = []float64{10, 20, 15, 5, 10, 5, 5, 20, 10}
	testPercents2 = []float64{15, 15, 20, 10, 10, 5, 5, 10, 10}
)

func testInterval(i int, percents []float64) types.Interval {
	it := types.Interval{
		From: fmt.Sprintf("2025-12-15T0%d:00Z", i),
		To:   fmt.Sprintf("2025-12-15T0%d:30Z", i+1),
	}
	for j, fuel := range testFuels {
		it.GenerationMix = append(it.GenerationMix, types.FuelShare{Fuel: fuel, Percent: percents[j]})
	}
	return it
}

func TestRound(t *testing.T) {
	assert.Equal(t, 0.13, Round(0.125))
	assert.Equal(t, 12.34, Round(12.344))
	assert.Equal(t, 0.0, Round(0))
	assert.Equal(t, 33.33, Round(100.0/3))
	assert.Equal(t, 66.67, Round(200.0/3))

	t.Run("Idempotent", func(t *testing.T) {
		for _, v := range []float64{0, 1.5, 12.35, 33.33, 99.99, 41.07} {
			assert.Equal(t, Round(v), Round(Round(v)), "value %v", v)
		}
	})
}

func TestAggregate(t *testing.T) {
	t.Run("Identical Intervals", func(t *testing.T) {
		var intervals []types.Interval
		for i := 0; i < 3; i++ {
			intervals = append(intervals, testInterval(i, testPercents1))
		}

		res := Aggregate(intervals)
		require.Len(t, res.Shares, len(testFuels))
		for j, fuel := range testFuels {
			assert.Equal(t, testPercents1[j], res.Shares[fuel], "fuel %s", fuel)
		}
		assert.Equal(t, 60.0, res.CleanPercentage)
	})

	t.Run("Alternating Intervals", func(t *testing.T) {
		var intervals []types.Interval
		for i := 0; i < 4; i++ {
			p := testPercents1
			if i%2 == 1 {
				p = testPercents2
			}
			intervals = append(intervals, testInterval(i, p))
		}

		res := Aggregate(intervals)
		assert.Equal(t, 12.5, res.Shares["hydro"])
		assert.Equal(t, 17.5, res.Shares["solar"])
		assert.Equal(t, 17.5, res.Shares["wind"])
		assert.Equal(t, 7.5, res.Shares["nuclear"])
		assert.Equal(t, 10.0, res.Shares["biomass"])
		assert.Equal(t, 15.0, res.Shares["coal"])
		assert.Equal(t, 65.0, res.CleanPercentage)
	})

	t.Run("Rounds Each Average", func(t *testing.T) {
		intervals := []types.Interval{
			{GenerationMix: []types.FuelShare{{Fuel: "wind", Percent: 10}, {Fuel: "solar", Percent: 1}}},
			{GenerationMix: []types.FuelShare{{Fuel: "wind", Percent: 10}, {Fuel: "solar", Percent: 0}}},
			{GenerationMix: []types.FuelShare{{Fuel: "wind", Percent: 11}, {Fuel: "solar", Percent: 0}}},
		}

		res := Aggregate(intervals)
		assert.Equal(t, 10.33, res.Shares["wind"])
		assert.Equal(t, 0.33, res.Shares["solar"])
		// sum of the rounded averages, not the rounded average of the sums
		assert.Equal(t, 10.66, res.CleanPercentage)
	})

	t.Run("Missing Clean Fuels", func(t *testing.T) {
		intervals := []types.Interval{
			{GenerationMix: []types.FuelShare{{Fuel: "coal", Percent: 60}, {Fuel: "wind", Percent: 40}}},
		}

		res := Aggregate(intervals)
		assert.Equal(t, 40.0, res.CleanPercentage)
		assert.Equal(t, 60.0, res.Shares["coal"])
		_, ok := res.Shares["hydro"]
		assert.False(t, ok, "absent fuels should not be added to the shares")
	})

	t.Run("Unknown Fuels Are Not Clean", func(t *testing.T) {
		intervals := []types.Interval{
			{GenerationMix: []types.FuelShare{{Fuel: "tidal", Percent: 30}, {Fuel: "solar", Percent: 20}}},
		}

		res := Aggregate(intervals)
		assert.Equal(t, 30.0, res.Shares["tidal"])
		assert.Equal(t, 20.0, res.CleanPercentage)
	})

	t.Run("Uneven Fuel Lists", func(t *testing.T) {
		intervals := []types.Interval{
			{GenerationMix: []types.FuelShare{{Fuel: "wind", Percent: 20}, {Fuel: "gas", Percent: 80}}},
			{GenerationMix: []types.FuelShare{{Fuel: "gas", Percent: 70}}},
		}

		res := Aggregate(intervals)
		// averages are over the values present for each fuel
		assert.Equal(t, 20.0, res.Shares["wind"])
		assert.Equal(t, 75.0, res.Shares["gas"])
	})

	t.Run("Empty", func(t *testing.T) {
		res := Aggregate(nil)
		assert.Empty(t, res.Shares)
		assert.Equal(t, 0.0, res.CleanPercentage)

		res = Aggregate([]types.Interval{{From: "2025-12-15T00:00Z", To: "2025-12-15T00:30Z"}})
		assert.Empty(t, res.Shares)
		assert.Equal(t, 0.0, res.CleanPercentage)
	})
}

func TestCleanPercentage(t *testing.T) {
	shares := types.FuelShareMap{
		"hydro":   1.11,
		"solar":   2.22,
		"wind":    3.33,
		"nuclear": 4.44,
		"biomass": 5.55,
		"gas":     83.35,
	}
	assert.Equal(t, 16.65, CleanPercentage(shares))
	assert.Equal(t, 0.0, CleanPercentage(nil))
}
