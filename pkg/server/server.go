package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/NYTimes/gziphandler"
	"github.com/levenlabs/go-lflag"
	"github.com/raterudder/gridmix/pkg/forecast"
	"github.com/raterudder/gridmix/pkg/log"
	"github.com/raterudder/gridmix/pkg/metrics"
	"github.com/rs/cors"
)

// Server serves the generation mix summaries and charging windows over HTTP.
type Server struct {
	forecaster *forecast.Forecaster
	metrics    *metrics.Metrics

	listenAddr string
	httpServer *http.Server

	allowedOrigins  []string
	uniformNotFound bool
	summaryDays     int
	serverName      string
}

// Configured initializes the Server with dependencies.
// It uses lflag to register command-line flags for configuration.
func Configured(f *forecast.Forecaster, m *metrics.Metrics) *Server {
	srv := &Server{
		forecaster:  f,
		metrics:     m,
		summaryDays: 3,
		serverName:  "gridmix",
	}
	revision := os.Getenv("K_REVISION")
	if revision != "" {
		srv.serverName = revision
	}

	// get the port from PORT when running in cloud run
	port := os.Getenv("PORT")
	if port == "" {
		// otherwise default to 8080
		port = "8080"
	}

	listenAddr := lflag.String("http-listen", ":"+port, "HTTP server listen address")
	allowedOrigins := lflag.String("cors-allowed-origins", "http://localhost:4200", "comma-delimited list of origins allowed to call the API")
	uniformNotFound := lflag.Bool("uniform-not-found", false, "Respond to every failure with an empty 404 instead of a typed error")
	summaryDays := srv.summaryDays
	lflag.JSON(&summaryDays, "summary-days", summaryDays, "Number of days returned by /api/energy-mix")

	lflag.Do(func() {
		srv.listenAddr = *listenAddr
		if *allowedOrigins != "" {
			srv.allowedOrigins = strings.Split(*allowedOrigins, ",")
			for i, origin := range srv.allowedOrigins {
				srv.allowedOrigins[i] = strings.TrimSpace(origin)
			}
		}
		srv.uniformNotFound = *uniformNotFound
		if summaryDays < 1 {
			log.Ctx(context.Background()).Error("summary-days must be at least 1", slog.Int("summaryDays", summaryDays))
			os.Exit(1)
		}
		srv.summaryDays = summaryDays
	})

	return srv
}

func (s *Server) setupHandler() http.Handler {
	apiMux := http.NewServeMux()
	apiMux.HandleFunc("GET /api/energy-mix", s.handleEnergyMix)
	apiMux.HandleFunc("GET /api/charge-window", s.handleChargeWindow)
	apiMux.HandleFunc("POST /api/charge-window", s.handleChargeWindow)

	c := cors.New(cors.Options{
		AllowedOrigins: s.allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
	})

	mux := http.NewServeMux()
	mux.Handle("/api/", c.Handler(apiMux))
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics.Handler())
	}
	return s.revisionMiddleware(s.requestMiddleware(gziphandler.GzipHandler(s.securityHeadersMiddleware(mux))))
}

// Run starts the HTTP server and blocks until the context is canceled or an error occurs.
// It also handles graceful shutdown when the context is done.
func (s *Server) Run(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:         s.listenAddr,
		Handler:      s.setupHandler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  15 * time.Second,
	}

	// use a channel to capturing server errors
	errChan := make(chan error, 1)
	go func() {
		defer close(errChan)
		log.Ctx(ctx).InfoContext(ctx, "starting server", slog.String("addr", s.listenAddr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Ctx(ctx).InfoContext(ctx, "shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		return nil
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	}
}

func writeJSONError(w http.ResponseWriter, msg, code string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(struct {
		Error string `json:"error"`
		Code  string `json:"code"`
	}{Error: msg, Code: code}); err != nil {
		slog.Warn("failed to write error response", slog.Any("error", err))
		panic(http.ErrAbortHandler)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	// every response is computed from freshly fetched data
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		panic(http.ErrAbortHandler)
	}
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("ok")); err != nil {
		panic(http.ErrAbortHandler)
	}
}
