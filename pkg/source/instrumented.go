package source

import (
	"context"
	"time"

	"github.com/raterudder/gridmix/pkg/metrics"
	"github.com/raterudder/gridmix/pkg/types"
)

// instrumented records the outcome and latency of every fetch.
type instrumented struct {
	name    string
	source  Source
	metrics *metrics.Metrics
}

// Instrument wraps src so each fetch is recorded in m under name.
func Instrument(name string, src Source, m *metrics.Metrics) Source {
	return &instrumented{
		name:    name,
		source:  src,
		metrics: m,
	}
}

func (i *instrumented) GenerationMix(ctx context.Context, from time.Time) ([]types.Interval, error) {
	start := time.Now()
	intervals, err := i.source.GenerationMix(ctx, from)

	outcome := metrics.OutcomeOK
	switch {
	case err != nil:
		outcome = metrics.OutcomeError
	case len(intervals) == 0:
		outcome = metrics.OutcomeEmpty
	}
	i.metrics.ObserveFetch(i.name, outcome, time.Since(start))
	return intervals, err
}
