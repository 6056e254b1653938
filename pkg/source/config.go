package source

import (
	"fmt"

	"github.com/levenlabs/go-lflag"
	"github.com/raterudder/gridmix/pkg/metrics"
)

// Configured sets up the Source based on flags. The returned Source is only
// usable after lflag.Configure has been called.
func Configured(m *metrics.Metrics) Source {
	provider := lflag.String("source-provider", "carbonintensity", "Generation mix provider to use (available: carbonintensity, file)")
	file := lflag.String("source-file", "", "YAML file of recorded intervals, used by the file provider")
	var rps, burst float64
	burst = 1
	lflag.JSON(&rps, "source-rate-limit", rps, "Maximum upstream requests per second (0 disables rate limiting)")
	lflag.JSON(&burst, "source-rate-burst", burst, "Maximum burst of upstream requests")

	var p struct{ Source }

	ci := configuredCarbonIntensity()

	lflag.Do(func() {
		var src Source
		switch *provider {
		case "carbonintensity":
			if err := ci.Validate(); err != nil {
				panic(fmt.Sprintf("carbon intensity validation failed: %v", err))
			}
			src = ci
		case "file":
			if *file == "" {
				panic("source-file is required for the file provider")
			}
			f, err := LoadFile(*file)
			if err != nil {
				panic(fmt.Sprintf("failed to load source file: %v", err))
			}
			src = f
		default:
			panic(fmt.Sprintf("unknown source provider: %s", *provider))
		}
		if rps > 0 {
			src = NewRateLimited(src, rps, int(burst))
		}
		p.Source = Instrument(*provider, src, m)
	})

	return &p
}
