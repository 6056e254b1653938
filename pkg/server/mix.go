package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/raterudder/gridmix/pkg/forecast"
	"github.com/raterudder/gridmix/pkg/log"
	"github.com/raterudder/gridmix/pkg/source"
)

const (
	errCodeInvalidParameter    = "invalid_parameter"
	errCodeInsufficientData    = "insufficient_data"
	errCodeUpstreamUnavailable = "upstream_unavailable"
	errCodeUpstreamTimeout     = "upstream_timeout"
	errCodeInternal            = "internal"
)

func (s *Server) handleEnergyMix(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	summaries, err := s.forecaster.SummarizeUpcoming(ctx, s.summaryDays)
	if err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "failed to summarize days", slog.Int("days", s.summaryDays), slog.Any("error", err))
		s.writeForecastError(w, err)
		return
	}

	writeJSON(w, summaries)
}

func (s *Server) handleChargeWindow(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// FormValue reads the query string and, for POSTs, a form body
	raw := r.FormValue("hoursOfCharge")
	hours, err := strconv.Atoi(raw)
	if err != nil {
		log.Ctx(ctx).DebugContext(ctx, "invalid hoursOfCharge", slog.String("hoursOfCharge", raw))
		s.writeForecastError(w, fmt.Errorf("%w: hoursOfCharge must be an integer: %q", forecast.ErrInvalidHours, raw))
		return
	}

	window, err := s.forecaster.BestWindow(ctx, hours)
	if err != nil {
		if errors.Is(err, forecast.ErrInvalidHours) {
			log.Ctx(ctx).DebugContext(ctx, "rejected charge window request", slog.Int("hoursOfCharge", hours))
		} else {
			log.Ctx(ctx).ErrorContext(ctx, "failed to find charge window", slog.Int("hoursOfCharge", hours), slog.Any("error", err))
		}
		s.writeForecastError(w, err)
		return
	}

	writeJSON(w, window)
}

// writeForecastError maps the error kind to a status code, unless
// uniformNotFound asks for the lossy empty 404 for every failure.
func (s *Server) writeForecastError(w http.ResponseWriter, err error) {
	if s.uniformNotFound {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	status, code, msg := classifyError(err)
	writeJSONError(w, msg, code, status)
}

func classifyError(err error) (int, string, string) {
	var timeout interface{ Timeout() bool }
	switch {
	case errors.Is(err, forecast.ErrInvalidHours):
		return http.StatusUnprocessableEntity, errCodeInvalidParameter, fmt.Sprintf(
			"hoursOfCharge must be an integer between %d and %d",
			forecast.MinHoursOfCharge,
			forecast.MaxHoursOfCharge,
		)
	case errors.Is(err, forecast.ErrInsufficientData):
		return http.StatusConflict, errCodeInsufficientData, "not enough generation mix data to calculate a charging window"
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &timeout) && timeout.Timeout():
		return http.StatusGatewayTimeout, errCodeUpstreamTimeout, "generation mix source timed out"
	case errors.Is(err, source.ErrUnavailable):
		return http.StatusBadGateway, errCodeUpstreamUnavailable, "generation mix source unavailable"
	default:
		return http.StatusInternalServerError, errCodeInternal, "internal server error"
	}
}
