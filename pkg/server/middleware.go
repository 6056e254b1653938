package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/raterudder/gridmix/pkg/log"
)

const requestIDHeader = "X-Request-ID"

// routes lists the paths recorded individually in metrics; everything else
// is recorded as "other" to keep the label set bounded.
var routes = map[string]bool{
	"/api/energy-mix":    true,
	"/api/charge-window": true,
	"/healthz":           true,
	"/metrics":           true,
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	if r.status == 0 {
		r.status = status
	}
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.ResponseWriter.Write(b)
}

// requestMiddleware tags each request with an ID, attaches a logger carrying
// it to the context and records the outcome.
func (s *Server) requestMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		id := r.Header.Get(requestIDHeader)
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)

		ctx := log.WithAttrs(r.Context(), slog.String("requestID", id), slog.String("reqPath", r.URL.Path))
		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r.WithContext(ctx))

		if rec.status == 0 {
			rec.status = http.StatusOK
		}
		route := r.URL.Path
		if !routes[route] {
			route = "other"
		}
		s.metrics.ObserveRequest(route, rec.status)
		log.Ctx(ctx).DebugContext(
			ctx,
			"handled request",
			slog.String("method", r.Method),
			slog.Int("status", rec.status),
			slog.Duration("duration", time.Since(start)),
		)
	})
}

func (s *Server) revisionMiddleware(next http.Handler) http.Handler {
	if s.serverName == "" {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Server", s.serverName)
		next.ServeHTTP(w, r)
	})
}
