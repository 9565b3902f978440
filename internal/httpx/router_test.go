package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AngelCh415/BLEND_GO/internal/blend"
	"github.com/AngelCh415/BLEND_GO/internal/metrics"
)

func newTestRouter(t *testing.T, run Runner) http.Handler {
	t.Helper()
	reg := prometheus.NewRegistry()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewRouter(log, run, metrics.New(reg), promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
}

func TestHealthEndpoints(t *testing.T) {
	h := newTestRouter(t, func(ctx context.Context) (*blend.RunSummary, error) {
		return &blend.RunSummary{}, nil
	})

	for _, path := range []string{"/healthz", "/readyz"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.NotEmpty(t, rec.Header().Get("X-Request-ID"), path)
	}
}

func TestBlendRunReturnsSummary(t *testing.T) {
	want := &blend.RunSummary{
		RunID:      "test-run",
		RowsLoaded: 42,
		PaidDeals:  7,
		OutputFile: "out/blend_dataset_20250901_120000.xlsx",
		Sheets:     []string{"Granular_View", "Blend_Aggregate"},
	}
	h := newTestRouter(t, func(ctx context.Context) (*blend.RunSummary, error) {
		return want, nil
	})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/blend/run", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var got blend.RunSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, *want, got)
}

func TestBlendRunFailure(t *testing.T) {
	h := newTestRouter(t, func(ctx context.Context) (*blend.RunSummary, error) {
		return nil, errors.New("crm export unreadable")
	})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/blend/run", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "crm export unreadable")
}

func TestBlendRunRequiresPost(t *testing.T) {
	h := newTestRouter(t, func(ctx context.Context) (*blend.RunSummary, error) {
		t.Fatal("runner must not be called")
		return nil, nil
	})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/blend/run", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestMetricsEndpointTracksRuns(t *testing.T) {
	h := newTestRouter(t, func(ctx context.Context) (*blend.RunSummary, error) {
		return &blend.RunSummary{RowsLoaded: 10}, nil
	})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/blend/run", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `blend_runs_total{outcome="success"} 1`)
	assert.Contains(t, body, "blend_last_run_rows_loaded 10")
}
