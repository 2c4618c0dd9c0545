package prometheus

import (
	"net/http"
	"strings"
	"testing"
	"time"

	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAppMetrics(t *testing.T) (*AppMetrics, MetricsCollector) {
	t.Helper()
	c := newTestCollector(t)
	return NewAppMetrics(c), c
}

func TestNewAppMetrics_AllMetricsRegistered(t *testing.T) {
	m, _ := newTestAppMetrics(t)
	require.NotNil(t, m)
	assert.NotNil(t, m.HTTPRequestsTotal)
	assert.NotNil(t, m.HTTPRequestDuration)
	assert.NotNil(t, m.HTTPActiveRequests)
	assert.NotNil(t, m.AnalysesTotal)
	assert.NotNil(t, m.AnalysisDuration)
	assert.NotNil(t, m.ResonanceSystems)
	assert.NotNil(t, m.MoleculeAtoms)
	assert.NotNil(t, m.KekulizeIncomplete)
	assert.NotNil(t, m.BatchSize)
	assert.NotNil(t, m.AnalysesInFlight)
	assert.NotNil(t, m.CacheRequestsTotal)
	assert.NotNil(t, m.CacheAccessDuration)
}

func TestNewAppMetrics_Idempotent(t *testing.T) {
	c := newTestCollector(t)
	a := NewAppMetrics(c)
	b := NewAppMetrics(c)
	a.AnalysesTotal.WithLabelValues(StatusOK).Inc()
	b.AnalysesTotal.WithLabelValues(StatusOK).Inc()
	assert.Contains(t, scrapeMetrics(t, c), `test_unit_analyses_total{status="ok"} 2`)
}

func TestRecordHTTPRequest(t *testing.T) {
	m, c := newTestAppMetrics(t)
	RecordHTTPRequest(m, http.MethodPost, "/api/v1/analyses", http.StatusOK, 20*time.Millisecond)
	RecordHTTPRequest(m, http.MethodPost, "/api/v1/analyses", http.StatusBadRequest, time.Millisecond)

	expected := `
# HELP test_unit_http_requests_total Total HTTP requests
# TYPE test_unit_http_requests_total counter
test_unit_http_requests_total{method="POST",route="/api/v1/analyses",status_code="200"} 1
test_unit_http_requests_total{method="POST",route="/api/v1/analyses",status_code="400"} 1
`
	require.NoError(t, promtest.GatherAndCompare(c.Gatherer(), strings.NewReader(expected), "test_unit_http_requests_total"))
	assert.Contains(t, scrapeMetrics(t, c), `test_unit_http_request_duration_seconds_count{method="POST",route="/api/v1/analyses"} 2`)
}

func TestRecordAnalysis(t *testing.T) {
	m, c := newTestAppMetrics(t)
	RecordAnalysis(m, StatusOK, false, 2*time.Millisecond, 10, 1)
	RecordAnalysis(m, StatusOK, true, time.Millisecond, 10, 1)
	RecordAnalysis(m, StatusInvalid, false, 0, 0, 0)

	out := scrapeMetrics(t, c)
	assert.Contains(t, out, `test_unit_analyses_total{status="ok"} 2`)
	assert.Contains(t, out, `test_unit_analyses_total{status="invalid"} 1`)
	assert.Contains(t, out, `test_unit_analysis_duration_seconds_count{source="computed"} 1`)
	assert.Contains(t, out, `test_unit_analysis_duration_seconds_count{source="cache"} 1`)
	assert.Contains(t, out, `test_unit_molecule_atoms_count 2`)
	assert.Contains(t, out, `test_unit_resonance_systems_bucket{le="1"} 2`)
}

func TestRecordCacheAccess(t *testing.T) {
	m, c := newTestAppMetrics(t)
	RecordCacheAccess(m, CacheHit, "get", time.Millisecond)
	RecordCacheAccess(m, CacheMiss, "get", time.Millisecond)
	RecordCacheAccess(m, CacheMiss, "get", time.Millisecond)
	RecordCacheAccess(m, "", "set", time.Millisecond)

	out := scrapeMetrics(t, c)
	assert.Contains(t, out, `test_unit_cache_requests_total{result="hit"} 1`)
	assert.Contains(t, out, `test_unit_cache_requests_total{result="miss"} 2`)
	assert.Contains(t, out, `test_unit_cache_access_duration_seconds_count{operation="get"} 3`)
	assert.Contains(t, out, `test_unit_cache_access_duration_seconds_count{operation="set"} 1`)
}

func TestNewNopAppMetrics(t *testing.T) {
	m := NewNopAppMetrics()
	assert.NotPanics(t, func() {
		RecordAnalysis(m, StatusOK, false, time.Millisecond, 3, 1)
		RecordCacheAccess(m, CacheHit, "get", time.Millisecond)
		RecordHTTPRequest(m, http.MethodGet, "/healthz", http.StatusOK, time.Millisecond)
	})
}

//Personal.AI order the ending
