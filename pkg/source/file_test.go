package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testFile = `
intervals:
  - from: "2025-12-16T00:30Z"
    to: "2025-12-16T01:00Z"
    generationmix:
      - fuel: wind
        perc: 44
  - from: "2025-12-16T00:00Z"
    to: "2025-12-16T00:30Z"
    generationmix:
      - fuel: wind
        perc: 43
      - fuel: gas
        perc: 57
  - from: "2025-12-16T23:30Z"
    to: "2025-12-17T00:00Z"
    generationmix:
      - fuel: wind
        perc: 30
  - from: "2025-12-17T00:30Z"
    to: "2025-12-17T01:00Z"
    generationmix:
      - fuel: wind
        perc: 10
`

func TestFile(t *testing.T) {
	f, err := ParseFile([]byte(testFile))
	require.NoError(t, err)

	t.Run("Selects Overlapping Intervals In Order", func(t *testing.T) {
		intervals, err := f.GenerationMix(context.Background(), time.Date(2025, 12, 16, 0, 1, 0, 0, time.UTC))
		require.NoError(t, err)
		require.Len(t, intervals, 3)
		assert.Equal(t, "2025-12-16T00:00Z", intervals[0].From)
		assert.Equal(t, "2025-12-16T00:30Z", intervals[1].From)
		assert.Equal(t, "2025-12-16T23:30Z", intervals[2].From)
		assert.Equal(t, 57.0, intervals[0].GenerationMix[1].Percent)
	})

	t.Run("No Data", func(t *testing.T) {
		intervals, err := f.GenerationMix(context.Background(), time.Date(2026, 1, 1, 0, 1, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.Empty(t, intervals)
	})

	t.Run("Canceled Context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := f.GenerationMix(ctx, time.Date(2025, 12, 16, 0, 1, 0, 0, time.UTC))
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestParseFileErrors(t *testing.T) {
	_, err := ParseFile([]byte("intervals: [this is: not valid"))
	assert.Error(t, err)

	_, err = ParseFile([]byte(`
intervals:
  - from: "yesterday"
    to: "2025-12-16T00:30Z"
`))
	assert.ErrorContains(t, err, "interval 0")

	_, err = ParseFile([]byte(`
intervals:
  - from: "2025-12-16T00:30Z"
    to: "2025-12-16T00:30Z"
`))
	assert.ErrorContains(t, err, "must be after")
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mix.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testFile), 0o600))

	f, err := LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, f.intervals, 4)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
