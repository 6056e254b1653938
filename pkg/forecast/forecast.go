// Package forecast builds day summaries and charging windows from the
// generation mix reported by a Source.
package forecast

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/levenlabs/go-lflag"
	"github.com/raterudder/gridmix/pkg/log"
	"github.com/raterudder/gridmix/pkg/source"
	"github.com/raterudder/gridmix/pkg/types"
	"golang.org/x/sync/errgroup"
)

const dateLayout = "2006-01-02"

var (
	// ErrInvalidHours is returned when hoursOfCharge is outside of
	// [MinHoursOfCharge, MaxHoursOfCharge].
	ErrInvalidHours = errors.New("invalid hours of charge")

	// ErrInsufficientData is returned when there are fewer intervals than a
	// charging window needs.
	ErrInsufficientData = errors.New("insufficient generation mix data")
)

// Forecaster summarizes upcoming days and finds charging windows.
type Forecaster struct {
	source      source.Source
	location    *time.Location
	concurrency int
	now         func() time.Time
}

// Configured sets up the Forecaster with flags.
func Configured(src source.Source) *Forecaster {
	f := New(src)
	timezone := lflag.String("timezone", "UTC", "IANA timezone that defines the current calendar day")
	concurrency := 1
	lflag.JSON(&concurrency, "fetch-concurrency", concurrency, "Number of days fetched from the source in parallel")

	lflag.Do(func() {
		loc, err := time.LoadLocation(*timezone)
		if err != nil {
			panic(fmt.Sprintf("failed to load timezone (%s): %v", *timezone, err))
		}
		f.location = loc
		if concurrency < 1 {
			panic(fmt.Sprintf("fetch-concurrency must be at least 1: %d", concurrency))
		}
		f.concurrency = concurrency
	})

	return f
}

// New returns a Forecaster that fetches sequentially and treats UTC as the
// current timezone.
func New(src source.Source) *Forecaster {
	return &Forecaster{
		source:      src,
		location:    time.UTC,
		concurrency: 1,
		now:         time.Now,
	}
}

// SetNow overrides the clock. This is primarily used for testing.
func (f *Forecaster) SetNow(now func() time.Time) {
	f.now = now
}

// Today returns midnight of the current calendar day.
func (f *Forecaster) Today() time.Time {
	now := f.now().In(f.location)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// requestStart maps a calendar date to the start of the source query for it.
// The upstream reports the day ending at the requested timestamp, so the
// query starts the following day, one minute after midnight, to land on the
// 00:00 interval rather than the 23:30 one of the previous day.
func requestStart(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day()+1, 0, 1, 0, 0, time.UTC)
}

type dayResult struct {
	date      time.Time
	intervals []types.Interval
	err       error
}

// fetchDays fetches numberOfDays days starting at start. Results are always
// returned in day order regardless of concurrency. A failed fetch is stored
// in its dayResult; only a done context fails fetchDays itself.
func (f *Forecaster) fetchDays(ctx context.Context, start time.Time, numberOfDays int) ([]dayResult, error) {
	results := make([]dayResult, numberOfDays)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.concurrency)
	for i := 0; i < numberOfDays; i++ {
		date := start.AddDate(0, 0, i)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			intervals, err := f.source.GenerationMix(gctx, requestStart(date))
			if err != nil && ctx.Err() != nil {
				return ctx.Err()
			}
			results[i] = dayResult{date: date, intervals: intervals, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, r := range results {
		if r.err != nil {
			log.Ctx(ctx).WarnContext(
				ctx,
				"failed to fetch generation mix for day",
				slog.String("date", r.date.Format(dateLayout)),
				slog.Any("error", r.err),
			)
		}
	}
	return results, nil
}
