package source

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/raterudder/gridmix/pkg/types"
	"gopkg.in/yaml.v3"
)

// File serves intervals recorded in a YAML document. It is meant for running
// the service offline against a captured data set.
type File struct {
	intervals []fileInterval
}

type fileInterval struct {
	from     time.Time
	to       time.Time
	interval types.Interval
}

type fileDocument struct {
	Intervals []types.Interval `yaml:"intervals"`
}

// LoadFile reads the YAML document at path.
func LoadFile(path string) (*File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseFile(raw)
}

// ParseFile parses a YAML document of the form
//
//	intervals:
//	  - from: "2025-12-15T00:00Z"
//	    to: "2025-12-15T00:30Z"
//	    generationmix:
//	      - fuel: wind
//	        perc: 41.3
func ParseFile(raw []byte) (*File, error) {
	var doc fileDocument
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse source file: %w", err)
	}

	f := &File{
		intervals: make([]fileInterval, 0, len(doc.Intervals)),
	}
	for i, it := range doc.Intervals {
		from, err := ParseTime(it.From)
		if err != nil {
			return nil, fmt.Errorf("interval %d: %w", i, err)
		}
		to, err := ParseTime(it.To)
		if err != nil {
			return nil, fmt.Errorf("interval %d: %w", i, err)
		}
		if !to.After(from) {
			return nil, fmt.Errorf("interval %d: to (%s) must be after from (%s)", i, it.To, it.From)
		}
		f.intervals = append(f.intervals, fileInterval{from: from, to: to, interval: it})
	}
	sort.SliceStable(f.intervals, func(i, j int) bool {
		return f.intervals[i].from.Before(f.intervals[j].from)
	})
	return f, nil
}

// GenerationMix returns every recorded interval overlapping the 24 hours
// starting at from, in chronological order.
func (f *File) GenerationMix(ctx context.Context, from time.Time) ([]types.Interval, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	end := from.Add(24 * time.Hour)

	var out []types.Interval
	for _, fi := range f.intervals {
		if fi.to.After(from) && fi.from.Before(end) {
			out = append(out, fi.interval)
		}
	}
	return out, nil
}
