package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/pauling/internal/application/analysis"
	"github.com/turtacn/pauling/internal/config"
	"github.com/turtacn/pauling/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/pauling/internal/interfaces/http/handlers"
	"github.com/turtacn/pauling/internal/interfaces/http/middleware"
	"github.com/turtacn/pauling/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type routerFixture struct {
	handler   http.Handler
	collector prometheus.MetricsCollector
	logger    *testutil.MockLogger
}

func newRouterFixture(t *testing.T, mutate func(*RouterConfig)) routerFixture {
	t.Helper()
	log := testutil.NewMockLogger()
	collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{Namespace: "test"}, log)
	require.NoError(t, err)
	metrics := prometheus.NewAppMetrics(collector)

	svc := analysis.NewService(config.AnalysisConfig{
		MaxAtoms:     100,
		MaxBonds:     100,
		Concurrency:  2,
		MaxBatchSize: 4,
	}, nil, metrics, log)

	cfg := RouterConfig{
		AnalysisHandler:  handlers.NewAnalysisHandler(svc, log),
		HealthHandler:    handlers.NewHealthHandler("test", handlers.CheckFunc("analysis", svc.Ready)),
		MaxBodySize:      1 << 20,
		Logger:           log,
		Metrics:          metrics,
		MetricsCollector: collector,
	}
	if mutate != nil {
		mutate(&cfg)
	}
	return routerFixture{handler: NewRouter(cfg), collector: collector, logger: log}
}

func (f routerFixture) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, req)
	return w
}

func readFixture(t *testing.T, name string) string {
	t.Helper()
	b, err := os.ReadFile("../../infrastructure/molfile/testdata/" + name)
	require.NoError(t, err)
	return string(b)
}

func TestNewRouter_Probes(t *testing.T) {
	f := newRouterFixture(t, nil)
	for _, path := range []string{"/healthz", "/readyz", "/healthz/detail"} {
		w := f.do(httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader), path)
	}
}

func TestNewRouter_AnalyzeJSON(t *testing.T) {
	f := newRouterFixture(t, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyses", strings.NewReader(readFixture(t, "glycine.json")))
	req.Header.Set("Content-Type", "application/json")

	w := f.do(req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var res analysis.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	require.Len(t, res.Systems, 1)
	assert.Len(t, res.Systems[0].Atoms, 3)
	assert.NotEmpty(t, res.ID)
}

func TestNewRouter_AnalyzeMolfile(t *testing.T) {
	f := newRouterFixture(t, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyses", strings.NewReader(readFixture(t, "glycine.mol")))
	req.Header.Set("Content-Type", handlers.MediaTypeMolfile)

	w := f.do(req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"systems"`)
}

func TestNewRouter_BatchSDF(t *testing.T) {
	f := newRouterFixture(t, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyses/batch?format=sdf", strings.NewReader(readFixture(t, "two_records.sdf")))

	w := f.do(req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp handlers.BatchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Total)
	assert.Equal(t, 2, resp.Succeeded)
}

func TestNewRouter_NotFoundAndMethodNotAllowed(t *testing.T) {
	f := newRouterFixture(t, nil)
	assert.Equal(t, http.StatusNotFound, f.do(httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil)).Code)
	assert.Equal(t, http.StatusMethodNotAllowed, f.do(httptest.NewRequest(http.MethodGet, "/api/v1/analyses", nil)).Code)
}

func TestNewRouter_BodyLimit(t *testing.T) {
	f := newRouterFixture(t, func(cfg *RouterConfig) { cfg.MaxBodySize = 16 })
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyses", strings.NewReader(readFixture(t, "glycine.json")))
	assert.Equal(t, http.StatusRequestEntityTooLarge, f.do(req).Code)
}

func TestNewRouter_Metrics(t *testing.T) {
	f := newRouterFixture(t, nil)
	f.do(httptest.NewRequest(http.MethodGet, "/healthz", nil))

	w := f.do(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `test_http_requests_total{method="GET",route="/healthz",status_code="200"} 1`)
}

func TestNewRouter_NoMetricsCollector(t *testing.T) {
	f := newRouterFixture(t, func(cfg *RouterConfig) { cfg.MetricsCollector = nil })
	assert.Equal(t, http.StatusNotFound, f.do(httptest.NewRequest(http.MethodGet, "/metrics", nil)).Code)
}

func TestNewRouter_CORS(t *testing.T) {
	f := newRouterFixture(t, func(cfg *RouterConfig) { cfg.CORSAllowedOrigins = []string{"https://app.example"} })
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/analyses", nil)
	req.Header.Set("Origin", "https://app.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	w := f.do(req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://app.example", w.Header().Get("Access-Control-Allow-Origin"))

	plain := newRouterFixture(t, nil)
	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "https://app.example")
	assert.Empty(t, plain.do(req).Header().Get("Access-Control-Allow-Origin"))
}

func TestNewRouter_RateLimitScopedToAPI(t *testing.T) {
	limiter := middleware.NewKeyedLimiter(0.001, 1, time.Minute)
	defer limiter.Stop()
	f := newRouterFixture(t, func(cfg *RouterConfig) { cfg.RateLimiter = limiter })

	body := readFixture(t, "glycine.json")
	first := f.do(httptest.NewRequest(http.MethodPost, "/api/v1/analyses", strings.NewReader(body)))
	assert.Equal(t, http.StatusOK, first.Code)
	second := f.do(httptest.NewRequest(http.MethodPost, "/api/v1/analyses", strings.NewReader(body)))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.NotEmpty(t, second.Header().Get("Retry-After"))

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, f.do(httptest.NewRequest(http.MethodGet, "/healthz", nil)).Code)
	}
}

func TestNewRouter_NilHandlers(t *testing.T) {
	var h http.Handler
	require.NotPanics(t, func() { h = NewRouter(RouterConfig{}) })

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestNewRouter_RecoversPanics(t *testing.T) {
	h := NewRouter(RouterConfig{Logger: testutil.NewMockLogger()})
	r, ok := h.(*gin.Engine)
	require.True(t, ok)
	r.GET("/boom", func(*gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/boom", nil).WithContext(context.Background())
	require.NotPanics(t, func() { r.ServeHTTP(w, req) })
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

//Personal.AI order the ending
