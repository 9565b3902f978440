// Package httpx is the serve-mode surface: a small router that triggers
// blend runs on demand and exposes prometheus metrics. It never does more
// than the CLI does — one whole-file batch run per request.
package httpx

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/AngelCh415/BLEND_GO/internal/blend"
	"github.com/AngelCh415/BLEND_GO/internal/metrics"
)

// Runner executes one blend run.
type Runner func(ctx context.Context) (*blend.RunSummary, error)

// NewRouter wires the serve-mode endpoints.
func NewRouter(log *slog.Logger, run Runner, m *metrics.Metrics, promHandler http.Handler) http.Handler {
	mux := chi.NewRouter()
	mux.Use(requestID)
	mux.Use(accessLog(log))

	mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ok")) })
	mux.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ready")) })
	mux.Handle("/metrics", promHandler)

	mux.Post("/blend/run", func(w http.ResponseWriter, r *http.Request) {
		sum, err := run(r.Context())
		m.ObserveRun(sum, err)
		if err != nil {
			log.Error("blend run failed", slog.String("err", err.Error()))
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, sum)
	})

	return mux
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", " ")
	enc.Encode(v)
}

type ctxKey string

const requestIDKey ctxKey = "rid"

func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid := newRID()
		r = r.WithContext(context.WithValue(r.Context(), requestIDKey, rid))
		w.Header().Set("X-Request-ID", rid)
		next.ServeHTTP(w, r)
	})
}

func accessLog(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			log.Info("http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("rid", rid(r.Context())),
				slog.Duration("latency", time.Since(start)))
		})
	}
}

func rid(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

func newRID() string { return uuid.NewString() }
