package prometheus

import (
	"strconv"
	"time"
)

// AppMetrics holds the metrics of the analysis service and its HTTP surface.
type AppMetrics struct {
	// HTTP Layer
	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec
	HTTPActiveRequests  GaugeVec

	// Analysis Layer
	AnalysesTotal       CounterVec
	AnalysisDuration    HistogramVec
	ResonanceSystems    HistogramVec
	MoleculeAtoms       HistogramVec
	KekulizeIncomplete  CounterVec
	BatchSize           HistogramVec
	AnalysesInFlight    GaugeVec
	CacheRequestsTotal  CounterVec
	CacheAccessDuration HistogramVec
}

// Analysis outcome labels.
const (
	StatusOK       = "ok"
	StatusInvalid  = "invalid"
	StatusError    = "error"
	StatusCanceled = "canceled"
)

// Cache access labels.
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

// Default Buckets
var (
	DefaultHTTPDurationBuckets     = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5}
	DefaultAnalysisDurationBuckets = []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1, 5}
	DefaultCountBuckets            = []float64{0, 1, 2, 4, 8, 16, 32, 64, 128}
	DefaultAtomBuckets             = []float64{10, 25, 50, 100, 250, 500, 1000, 5000, 10000}
	DefaultCacheDurationBuckets    = []float64{.0005, .001, .005, .01, .025, .05, .1, .5}
)

// NewAppMetrics registers all metrics and returns the AppMetrics struct.
func NewAppMetrics(collector MetricsCollector) *AppMetrics {
	m := &AppMetrics{}

	// HTTP
	m.HTTPRequestsTotal = collector.RegisterCounter("http_requests_total", "Total HTTP requests", "method", "route", "status_code")
	m.HTTPRequestDuration = collector.RegisterHistogram("http_request_duration_seconds", "HTTP request duration", DefaultHTTPDurationBuckets, "method", "route")
	m.HTTPActiveRequests = collector.RegisterGauge("http_active_requests", "Active HTTP requests", "route")

	// Analysis
	m.AnalysesTotal = collector.RegisterCounter("analyses_total", "Molecule analyses by outcome", "status")
	m.AnalysisDuration = collector.RegisterHistogram("analysis_duration_seconds", "Time to analyze one molecule", DefaultAnalysisDurationBuckets, "source")
	m.ResonanceSystems = collector.RegisterHistogram("resonance_systems", "Resonance systems found per molecule", DefaultCountBuckets)
	m.MoleculeAtoms = collector.RegisterHistogram("molecule_atoms", "Atoms per analyzed molecule", DefaultAtomBuckets)
	m.KekulizeIncomplete = collector.RegisterCounter("kekulize_incomplete_total", "Molecules whose aromatic bonds had no complete Kekulé assignment")
	m.BatchSize = collector.RegisterHistogram("batch_size", "Molecules per batch request", DefaultCountBuckets)
	m.AnalysesInFlight = collector.RegisterGauge("analyses_in_flight", "Analyses currently running")

	// Cache
	m.CacheRequestsTotal = collector.RegisterCounter("cache_requests_total", "Result cache lookups by result", "result")
	m.CacheAccessDuration = collector.RegisterHistogram("cache_access_duration_seconds", "Result cache round-trip time", DefaultCacheDurationBuckets, "operation")

	return m
}

// NewNopAppMetrics returns AppMetrics backed by no-op metrics.
func NewNopAppMetrics() *AppMetrics {
	return NewAppMetrics(NewNopCollector())
}

// Helpers

// RecordHTTPRequest records one served HTTP request.
func RecordHTTPRequest(metrics *AppMetrics, method, route string, statusCode int, duration time.Duration) {
	metrics.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
	metrics.HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordAnalysis records one molecule analysis.  cached reports whether the
// result came from the cache; systems and atoms are ignored unless status is
// StatusOK.
func RecordAnalysis(metrics *AppMetrics, status string, cached bool, duration time.Duration, atoms, systems int) {
	metrics.AnalysesTotal.WithLabelValues(status).Inc()
	if status != StatusOK {
		return
	}
	source := "computed"
	if cached {
		source = "cache"
	}
	metrics.AnalysisDuration.WithLabelValues(source).Observe(duration.Seconds())
	metrics.MoleculeAtoms.WithLabelValues().Observe(float64(atoms))
	metrics.ResonanceSystems.WithLabelValues().Observe(float64(systems))
}

// RecordCacheAccess records a result cache lookup.
func RecordCacheAccess(metrics *AppMetrics, result, operation string, duration time.Duration) {
	if result != "" {
		metrics.CacheRequestsTotal.WithLabelValues(result).Inc()
	}
	metrics.CacheAccessDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

//Personal.AI order the ending
