package source

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/levenlabs/go-lflag"
	"github.com/raterudder/gridmix/pkg/common"
	"github.com/raterudder/gridmix/pkg/log"
	"github.com/raterudder/gridmix/pkg/types"
)

// CarbonIntensity implements Source for the GB Carbon Intensity API
// (https://carbon-intensity.github.io/api-definitions/).
type CarbonIntensity struct {
	apiURL string
	client *http.Client
}

// configuredCarbonIntensity sets up flags for the Carbon Intensity API and
// returns the instance.
func configuredCarbonIntensity() *CarbonIntensity {
	c := &CarbonIntensity{}
	apiURL := lflag.String("carbon-intensity-api-url", "https://api.carbonintensity.org.uk", "Base URL for the Carbon Intensity API")
	timeout := lflag.Duration("carbon-intensity-timeout", 10*time.Second, "Timeout for a single Carbon Intensity API request")

	lflag.Do(func() {
		c.apiURL = *apiURL
		c.client = common.HTTPClient(*timeout)
	})

	return c
}

// NewCarbonIntensity returns a client for the API at apiURL.
func NewCarbonIntensity(apiURL string, client *http.Client) *CarbonIntensity {
	return &CarbonIntensity{
		apiURL: apiURL,
		client: client,
	}
}

// Validate ensures the configuration is valid.
func (c *CarbonIntensity) Validate() error {
	if c.apiURL == "" {
		return fmt.Errorf("carbon-intensity-api-url is required")
	}
	if _, err := url.Parse(c.apiURL); err != nil {
		return fmt.Errorf("failed to parse carbon intensity url (%s): %w", c.apiURL, err)
	}
	return nil
}

type generationResponse struct {
	Data []types.Interval `json:"data"`
}

// GenerationMix calls GET /generation/{from}/pt24h.
func (c *CarbonIntensity) GenerationMix(ctx context.Context, from time.Time) ([]types.Interval, error) {
	u := strings.TrimSuffix(c.apiURL, "/") + "/generation/" + FormatTime(from) + "/pt24h"

	req, err := http.NewRequestWithContext(ctx, "GET", u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	log.Ctx(ctx).DebugContext(ctx, "fetching generation mix", slog.String("url", u))

	resp, err := c.client.Do(req)
	if err != nil {
		log.Ctx(ctx).WarnContext(ctx, "failed to fetch generation mix", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to fetch generation mix: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}

	var data generationResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		log.Ctx(ctx).WarnContext(ctx, "failed to decode generation mix response", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to decode response: %w", ErrUnavailable, err)
	}
	log.Ctx(ctx).DebugContext(
		ctx,
		"fetched generation mix",
		slog.Int("count", len(data.Data)),
		slog.String("from", FormatTime(from)),
	)

	return data.Data, nil
}
