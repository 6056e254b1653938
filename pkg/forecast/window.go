package forecast

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/raterudder/gridmix/pkg/log"
	"github.com/raterudder/gridmix/pkg/mix"
	"github.com/raterudder/gridmix/pkg/source"
	"github.com/raterudder/gridmix/pkg/types"
)

const (
	// MinHoursOfCharge and MaxHoursOfCharge bound a charging window request.
	MinHoursOfCharge = 1
	MaxHoursOfCharge = 6

	// IntervalsPerHour assumes the upstream's 30 minute granularity.
	IntervalsPerHour = 2

	windowDays = 2
)

// BestWindow finds the contiguous window of hoursOfCharge hours with the
// highest clean percentage over the next two days, starting tomorrow.
func (f *Forecaster) BestWindow(ctx context.Context, hoursOfCharge int) (types.ChargingWindow, error) {
	if hoursOfCharge < MinHoursOfCharge || hoursOfCharge > MaxHoursOfCharge {
		return types.ChargingWindow{}, fmt.Errorf("%w: %d is not between %d and %d", ErrInvalidHours, hoursOfCharge, MinHoursOfCharge, MaxHoursOfCharge)
	}

	results, err := f.fetchDays(ctx, f.Today().AddDate(0, 0, 1), windowDays)
	if err != nil {
		return types.ChargingWindow{}, err
	}

	var intervals []types.Interval
	for _, r := range results {
		if r.err != nil {
			// a missing day would make windows span a gap, so fail the request
			return types.ChargingWindow{}, fmt.Errorf("%w: failed to fetch %s: %w", source.ErrUnavailable, r.date.Format(dateLayout), r.err)
		}
		intervals = append(intervals, r.intervals...)
	}

	window, err := FindBestWindow(intervals, hoursOfCharge*IntervalsPerHour)
	if err != nil {
		return types.ChargingWindow{}, err
	}
	log.Ctx(ctx).DebugContext(
		ctx,
		"found charging window",
		slog.Int("hoursOfCharge", hoursOfCharge),
		slog.Int("intervals", len(intervals)),
		slog.String("start", window.StartTime),
		slog.Float64("cleanPercentage", window.CleanEnergyPercentage),
	)
	return window, nil
}

// FindBestWindow slides a window of width intervals across intervals and
// returns the position with the highest clean percentage. Ties keep the
// earliest window.
func FindBestWindow(intervals []types.Interval, width int) (types.ChargingWindow, error) {
	if width < 1 {
		return types.ChargingWindow{}, fmt.Errorf("%w: window width must be positive: %d", ErrInvalidHours, width)
	}
	if len(intervals) < width {
		return types.ChargingWindow{}, fmt.Errorf("%w: need %d intervals, have %d", ErrInsufficientData, width, len(intervals))
	}

	best := windowAt(intervals, 0, width)
	for i := 1; i+width <= len(intervals); i++ {
		candidate := windowAt(intervals, i, width)
		if candidate.CleanEnergyPercentage > best.CleanEnergyPercentage {
			best = candidate
		}
	}
	return best, nil
}

func windowAt(intervals []types.Interval, start, width int) types.ChargingWindow {
	sub := intervals[start : start+width]
	return types.ChargingWindow{
		StartTime:             sub[0].From,
		EndTime:               sub[len(sub)-1].To,
		CleanEnergyPercentage: mix.Aggregate(sub).CleanPercentage,
	}
}
