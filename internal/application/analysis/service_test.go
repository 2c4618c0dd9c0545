package analysis

import (
	"context"
	"encoding/json"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	client_prom "github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/pauling/internal/config"
	"github.com/turtacn/pauling/internal/domain/molecule"
	"github.com/turtacn/pauling/internal/infrastructure/molfile"
	"github.com/turtacn/pauling/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/pauling/internal/testutil"
	"github.com/turtacn/pauling/pkg/errors"
	"github.com/turtacn/pauling/pkg/types/chem"
)

// MockResultCache is a mock implementation of ResultCache.
type MockResultCache struct {
	mock.Mock
}

func (m *MockResultCache) Get(ctx context.Context, key string, dest interface{}) error {
	args := m.Called(ctx, key, dest)
	return args.Error(0)
}

func (m *MockResultCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockResultCache) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

var errMiss = errors.New(errors.ErrCodeNotFound, "cache miss")

func testConfig() config.AnalysisConfig {
	return config.AnalysisConfig{
		MaxAtoms:     100,
		MaxBonds:     100,
		Concurrency:  4,
		MaxBatchSize: 8,
		CacheTTL:     time.Hour,
	}
}

func newTestMetrics(t *testing.T) (*prometheus.AppMetrics, client_prom.Gatherer) {
	t.Helper()
	c, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{Namespace: "test"}, testutil.NewMockLogger())
	require.NoError(t, err)
	return prometheus.NewAppMetrics(c), c.Gatherer()
}

func TestAnalyze_Glycine(t *testing.T) {
	svc := NewService(testConfig(), nil, nil, testutil.NewMockLogger())

	r, err := svc.Analyze(context.Background(), testutil.GlycineZwitterion())
	require.NoError(t, err)

	_, err = uuid.Parse(r.ID)
	assert.NoError(t, err)
	assert.Equal(t, testutil.GlycineZwitterion().Fingerprint(), r.Fingerprint)
	assert.Equal(t, 10, r.AtomCount)
	assert.Equal(t, 9, r.BondCount)
	assert.False(t, r.Cached)
	assert.True(t, r.KekuleComplete)
	assert.False(t, r.AnalyzedAt.IsZero())

	require.Len(t, r.Systems, 1)
	assert.Equal(t, []chem.AtomID{2, 3, 4}, r.Systems[0].Atoms)
	assert.Equal(t, []chem.BondID{2, 3}, r.Systems[0].Bonds)
	assert.Equal(t, 3, r.ConjugatedAtoms())

	require.Len(t, r.Atoms, 10)
	carbonyl := r.Atoms[2]
	assert.Equal(t, chem.C, carbonyl.Element)
	assert.Equal(t, uint8(4), carbonyl.Valence)
	assert.Equal(t, chem.SP2, carbonyl.Hybridization)
	oxide := r.Atoms[3]
	assert.Equal(t, int8(-1), oxide.FormalCharge)
	assert.Equal(t, uint8(3), oxide.LonePairs)
	assert.Equal(t, chem.SP2, oxide.Hybridization)
	assert.Equal(t, chem.SP3, r.Atoms[0].Hybridization)
}

func TestAnalyze_FreshIDPerCall(t *testing.T) {
	svc := NewService(testConfig(), nil, nil, nil)
	a, err := svc.Analyze(context.Background(), testutil.Benzene())
	require.NoError(t, err)
	b, err := svc.Analyze(context.Background(), testutil.Benzene())
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, a.Systems, b.Systems)
}

func TestAnalyze_Rejections(t *testing.T) {
	metrics, g := newTestMetrics(t)
	cfg := testConfig()
	cfg.MaxAtoms = 5
	svc := NewService(cfg, nil, metrics, nil)

	_, err := svc.Analyze(context.Background(), nil)
	assert.True(t, errors.IsCode(err, errors.ErrCodeBadRequest))

	_, err = svc.Analyze(context.Background(), testutil.GlycineZwitterion())
	assert.True(t, errors.IsCode(err, errors.ErrCodeMoleculeTooLarge))
	assert.Contains(t, err.Error(), "10 atoms")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = svc.Analyze(ctx, testutil.Formamide())
	assert.True(t, errors.IsCode(err, errors.ErrCodeAnalysisCanceled))

	expected := `
# HELP test_analyses_total Molecule analyses by outcome
# TYPE test_analyses_total counter
test_analyses_total{status="canceled"} 1
test_analyses_total{status="invalid"} 2
`
	assert.NoError(t, promtest.GatherAndCompare(g, strings.NewReader(expected), "test_analyses_total"))
}

func TestAnalyze_BondLimit(t *testing.T) {
	cfg := testConfig()
	cfg.MaxBonds = 3
	svc := NewService(cfg, nil, nil, nil)
	_, err := svc.Analyze(context.Background(), testutil.Benzene())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeMoleculeTooLarge))
	assert.Contains(t, err.Error(), "bonds")
}

func TestAnalyze_CacheMissStores(t *testing.T) {
	cache := new(MockResultCache)
	m := testutil.Pyrrole()
	key := CacheKeyPrefix + m.Fingerprint()

	cache.On("Get", mock.Anything, key, mock.AnythingOfType("*analysis.Result")).Return(errMiss).Once()
	cache.On("Set", mock.Anything, key, mock.MatchedBy(func(r *Result) bool {
		return r.ID == "" && len(r.Systems) == 1
	}), time.Hour).Return(nil).Once()

	svc := NewService(testConfig(), cache, nil, nil)
	r, err := svc.Analyze(context.Background(), m)
	require.NoError(t, err)
	assert.False(t, r.Cached)
	assert.NotEmpty(t, r.ID)
	cache.AssertExpectations(t)
}

func TestAnalyze_CacheHit(t *testing.T) {
	cache := new(MockResultCache)
	m := testutil.Butadiene()
	stored := &Result{
		Fingerprint: m.Fingerprint(),
		AtomCount:   m.NumAtoms(),
		Systems:     nil,
	}
	cache.On("Get", mock.Anything, CacheKeyPrefix+m.Fingerprint(), mock.Anything).
		Run(func(args mock.Arguments) {
			*args.Get(2).(*Result) = *stored
		}).Return(nil).Once()

	metrics, _ := newTestMetrics(t)
	svc := NewService(testConfig(), cache, metrics, nil)
	r, err := svc.Analyze(context.Background(), m)
	require.NoError(t, err)
	assert.True(t, r.Cached)
	assert.NotEmpty(t, r.ID)
	assert.Equal(t, stored.Fingerprint, r.Fingerprint)
	cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAnalyze_CacheErrorsAreNotFatal(t *testing.T) {
	cache := new(MockResultCache)
	cacheErr := errors.New(errors.ErrCodeCacheError, "connection refused")
	cache.On("Get", mock.Anything, mock.Anything, mock.Anything).Return(cacheErr)
	cache.On("Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(cacheErr)

	log := testutil.NewMockLogger()
	svc := NewService(testConfig(), cache, nil, log)
	r, err := svc.Analyze(context.Background(), testutil.Formamide())
	require.NoError(t, err)
	assert.Len(t, r.Systems, 1)
	assert.True(t, log.HasMessage("warn", "result cache lookup failed"))
	assert.True(t, log.HasMessage("warn", "result cache store failed"))
}

func TestAnalyze_KekuleIncompleteWarns(t *testing.T) {
	m := molecule.NewMolecule()
	for i := 0; i < 5; i++ {
		m.AddAtom(chem.C, 0)
	}
	for i := 0; i < 5; i++ {
		_, err := m.AddBond(chem.AtomID(i), chem.AtomID((i+1)%5), chem.Aromatic)
		require.NoError(t, err)
	}

	log := testutil.NewMockLogger()
	metrics, g := newTestMetrics(t)
	svc := NewService(testConfig(), nil, metrics, log)
	r, err := svc.Analyze(context.Background(), m)
	require.NoError(t, err)
	assert.False(t, r.KekuleComplete)
	assert.True(t, log.HasMessage("warn", "aromatic bonds have no complete Kekulé assignment"))

	count, err := promtest.GatherAndCount(g, "test_kekulize_incomplete_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestAnalyze_ConcurrentIdenticalRequests(t *testing.T) {
	svc := NewService(testConfig(), nil, nil, nil)
	const n = 16
	results := make([]*Result, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r, err := svc.Analyze(context.Background(), testutil.Benzene())
			assert.NoError(t, err)
			results[i] = r
		}(i)
	}
	wg.Wait()

	ids := make(map[string]bool)
	for _, r := range results {
		require.NotNil(t, r)
		assert.Equal(t, results[0].Systems, r.Systems)
		ids[r.ID] = true
	}
	assert.Len(t, ids, n)
}

func TestAnalyzeDocument(t *testing.T) {
	payload, err := os.ReadFile("../../infrastructure/molfile/testdata/glycine.mol")
	require.NoError(t, err)

	svc := NewService(testConfig(), nil, nil, nil)
	r, err := svc.AnalyzeDocument(context.Background(), molfile.FormatMol, payload)
	require.NoError(t, err)
	require.Len(t, r.Systems, 1)
	assert.Equal(t, []chem.AtomID{2, 3, 4}, r.Systems[0].Atoms)

	_, err = svc.AnalyzeDocument(context.Background(), molfile.FormatJSON, []byte(`{"atoms":[{"element":"Xx"}],"bonds":[]}`))
	assert.True(t, errors.IsCode(err, errors.ErrCodeUnknownElement))
}

func TestAnalyzeBatch_PreservesOrder(t *testing.T) {
	ms := []*molecule.Molecule{
		testutil.Benzene(),
		testutil.Methylamine(),
		testutil.EthyleneAndFormaldehyde(),
		nil,
		testutil.Acetylene(),
	}
	metrics, g := newTestMetrics(t)
	svc := NewService(testConfig(), nil, metrics, nil)

	items, err := svc.AnalyzeBatch(context.Background(), ms)
	require.NoError(t, err)
	require.Len(t, items, len(ms))

	for i, it := range items {
		assert.Equal(t, i, it.Index)
	}
	assert.Len(t, items[0].Result.Systems, 1)
	assert.Empty(t, items[1].Result.Systems)
	assert.Len(t, items[2].Result.Systems, 2)
	require.False(t, items[3].OK())
	assert.Nil(t, items[3].Result)
	assert.Equal(t, errors.ErrCodeBadRequest, items[3].Error.Code)
	assert.Len(t, items[4].Result.Systems, 1)

	count, err := promtest.GatherAndCount(g, "test_batch_size")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestAnalyzeBatch_Limits(t *testing.T) {
	svc := NewService(testConfig(), nil, nil, nil)

	_, err := svc.AnalyzeBatch(context.Background(), nil)
	assert.True(t, errors.IsCode(err, errors.ErrCodeValidation))

	big := make([]*molecule.Molecule, 9)
	for i := range big {
		big[i] = testutil.Formamide()
	}
	_, err = svc.AnalyzeBatch(context.Background(), big)
	assert.True(t, errors.IsCode(err, errors.ErrCodeValidation))
	assert.Contains(t, err.Error(), "limit is 8")
}

func TestAnalyzeBatch_Canceled(t *testing.T) {
	svc := NewService(testConfig(), nil, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := svc.AnalyzeBatch(ctx, []*molecule.Molecule{testutil.Benzene()})
	assert.True(t, errors.IsCode(err, errors.ErrCodeAnalysisCanceled))
}

func TestAnalyzeDocuments(t *testing.T) {
	payload, err := os.ReadFile("../../infrastructure/molfile/testdata/two_records.sdf")
	require.NoError(t, err)

	svc := NewService(testConfig(), nil, nil, nil)
	items, err := svc.AnalyzeDocuments(context.Background(), molfile.FormatSDF, payload)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Len(t, items[0].Result.Systems, 1)
	assert.Len(t, items[1].Result.Systems, 1)

	_, err = svc.AnalyzeDocuments(context.Background(), molfile.FormatJSON, []byte(`not json`))
	assert.True(t, errors.IsCode(err, errors.ErrCodeMoleculeInvalidFormat))
}

func TestReady(t *testing.T) {
	assert.NoError(t, NewService(testConfig(), nil, nil, nil).Ready(context.Background()))

	cache := new(MockResultCache)
	cache.On("Ping", mock.Anything).Return(errors.New(errors.ErrCodeCacheError, "down")).Once()
	cache.On("Ping", mock.Anything).Return(nil).Once()
	svc := NewService(testConfig(), cache, nil, nil)

	err := svc.Ready(context.Background())
	assert.True(t, errors.IsCode(err, errors.ErrCodeServiceUnavailable))
	assert.NoError(t, svc.Ready(context.Background()))
	cache.AssertExpectations(t)
}

func TestResult_JSONRoundTripsThroughCache(t *testing.T) {
	svc := NewService(testConfig(), nil, nil, nil)
	r, err := svc.Analyze(context.Background(), testutil.Pyridine())
	require.NoError(t, err)

	raw, err := json.Marshal(r)
	require.NoError(t, err)
	var back Result
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, r.Atoms, back.Atoms)
	assert.Equal(t, r.Systems, back.Systems)
	assert.Contains(t, string(raw), `"hybridization":"sp2"`)
	assert.Contains(t, string(raw), `"element":"N"`)
}

//Personal.AI order the ending
