// Package source fetches generation mix intervals from an upstream provider.
package source

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/raterudder/gridmix/pkg/types"
)

// TimeLayout is the minute-precision UTC layout used by the upstream API for
// both query parameters and interval boundaries.
const TimeLayout = "2006-01-02T15:04Z"

// ErrUnavailable is wrapped by every error caused by the upstream failing,
// timing out or returning something that could not be used.
var ErrUnavailable = errors.New("generation mix source unavailable")

// Source returns the generation mix over the 24 hours starting at from.
// It may return fewer intervals than a full day, or none at all.
type Source interface {
	GenerationMix(ctx context.Context, from time.Time) ([]types.Interval, error)
}

// StatusError is returned when the upstream responds with a non-200 status.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream returned status: %d", e.StatusCode)
}

// Unwrap lets errors.Is match ErrUnavailable.
func (e *StatusError) Unwrap() error {
	return ErrUnavailable
}

// ParseTime parses an interval boundary such as "2025-12-15T00:30Z".
func ParseTime(s string) (time.Time, error) {
	t, err := time.Parse(TimeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid interval time (%s): %w", s, err)
	}
	return t, nil
}

// FormatTime formats t in the upstream layout, always in UTC.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}
