package source

import (
	"context"
	"fmt"
	"time"

	"github.com/raterudder/gridmix/pkg/types"
	"golang.org/x/time/rate"
)

// RateLimited wraps a Source so that it is called at most rps times per
// second, with bursts of up to burst calls.
type RateLimited struct {
	source  Source
	limiter *rate.Limiter
}

// NewRateLimited returns src wrapped in a token bucket limiter. rps may be
// fractional for less than one request per second.
func NewRateLimited(src Source, rps float64, burst int) *RateLimited {
	if burst < 1 {
		burst = 1
	}
	return &RateLimited{
		source:  src,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// GenerationMix waits for the limiter or for ctx to be done.
func (r *RateLimited) GenerationMix(ctx context.Context, from time.Time) ([]types.Interval, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait canceled: %w", err)
	}
	return r.source.GenerationMix(ctx, from)
}
