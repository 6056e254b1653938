package forecast

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/raterudder/gridmix/pkg/log"
	"github.com/raterudder/gridmix/pkg/mix"
	"github.com/raterudder/gridmix/pkg/source"
	"github.com/raterudder/gridmix/pkg/types"
)

// SummarizeDays returns one summary per day for numberOfDays days starting at
// startDate. Days the source has no data for, or fails to return, are
// skipped so the result may be shorter than numberOfDays. If every day
// failed with an error the request fails with source.ErrUnavailable.
func (f *Forecaster) SummarizeDays(ctx context.Context, startDate time.Time, numberOfDays int) ([]types.DaySummary, error) {
	if numberOfDays <= 0 {
		return []types.DaySummary{}, nil
	}

	results, err := f.fetchDays(ctx, startDate, numberOfDays)
	if err != nil {
		return nil, err
	}

	summaries := make([]types.DaySummary, 0, numberOfDays)
	var failed int
	var lastErr error
	for _, r := range results {
		if r.err != nil {
			failed++
			lastErr = r.err
			continue
		}
		if len(r.intervals) == 0 {
			log.Ctx(ctx).DebugContext(ctx, "no generation mix for day", slog.String("date", r.date.Format(dateLayout)))
			continue
		}
		res := mix.Aggregate(r.intervals)
		summaries = append(summaries, types.DaySummary{
			Date:            r.date.Format(dateLayout),
			AverageShares:   res.Shares,
			CleanPercentage: res.CleanPercentage,
		})
	}

	if failed == numberOfDays {
		return nil, fmt.Errorf("%w: all %d days failed: %w", source.ErrUnavailable, failed, lastErr)
	}
	return summaries, nil
}

// SummarizeUpcoming summarizes numberOfDays days starting today.
func (f *Forecaster) SummarizeUpcoming(ctx context.Context, numberOfDays int) ([]types.DaySummary, error) {
	return f.SummarizeDays(ctx, f.Today(), numberOfDays)
}
