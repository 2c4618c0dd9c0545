// Package analysis provides the application service that runs chemical
// perception and resonance-system discovery for the HTTP and CLI surfaces.
package analysis

import (
	"bytes"
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/turtacn/pauling/internal/config"
	"github.com/turtacn/pauling/internal/domain/molecule"
	"github.com/turtacn/pauling/internal/domain/perception"
	"github.com/turtacn/pauling/internal/domain/resonance"
	"github.com/turtacn/pauling/internal/infrastructure/molfile"
	"github.com/turtacn/pauling/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/pauling/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/pauling/pkg/errors"
)

// CacheKeyPrefix namespaces analysis results inside the result cache.
const CacheKeyPrefix = "analysis:"

// ResultCache stores finished results keyed by molecule fingerprint.  A miss
// is reported as an error carrying errors.ErrCodeNotFound.
type ResultCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Ping(ctx context.Context) error
}

// Service defines the analysis operations.
type Service interface {
	// Analyze perceives m and returns its resonance systems.
	Analyze(ctx context.Context, m *molecule.Molecule) (*Result, error)
	// AnalyzeDocument decodes a single molecule in the given format and
	// analyzes it.
	AnalyzeDocument(ctx context.Context, format molfile.Format, payload []byte) (*Result, error)
	// AnalyzeBatch analyzes molecules in parallel.  Items are returned in
	// input order; per-molecule failures are reported on the item.
	AnalyzeBatch(ctx context.Context, ms []*molecule.Molecule) ([]BatchItem, error)
	// AnalyzeDocuments decodes every molecule in payload and analyzes them
	// as a batch.
	AnalyzeDocuments(ctx context.Context, format molfile.Format, payload []byte) ([]BatchItem, error)
	// Ready reports whether the service's dependencies are reachable.
	Ready(ctx context.Context) error
}

type serviceImpl struct {
	cfg     config.AnalysisConfig
	cache   ResultCache
	metrics *prometheus.AppMetrics
	logger  logging.Logger
	flight  singleflight.Group
	now     func() time.Time
}

// NewService creates an analysis service.  cache may be nil to disable result
// caching; metrics may be nil.
func NewService(cfg config.AnalysisConfig, cache ResultCache, metrics *prometheus.AppMetrics, logger logging.Logger) Service {
	if metrics == nil {
		metrics = prometheus.NewNopAppMetrics()
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &serviceImpl{
		cfg:     cfg,
		cache:   cache,
		metrics: metrics,
		logger:  logger.Named("analysis"),
		now:     time.Now,
	}
}

func (s *serviceImpl) Analyze(ctx context.Context, m *molecule.Molecule) (*Result, error) {
	start := s.now()
	if m == nil {
		prometheus.RecordAnalysis(s.metrics, prometheus.StatusInvalid, false, 0, 0, 0)
		return nil, errors.InvalidParam("molecule is required")
	}
	if err := ctx.Err(); err != nil {
		prometheus.RecordAnalysis(s.metrics, prometheus.StatusCanceled, false, 0, 0, 0)
		return nil, errors.Wrap(err, errors.ErrCodeAnalysisCanceled, "analysis canceled")
	}
	if err := s.checkLimits(m); err != nil {
		prometheus.RecordAnalysis(s.metrics, prometheus.StatusInvalid, false, 0, 0, 0)
		return nil, err
	}

	s.metrics.AnalysesInFlight.WithLabelValues().Inc()
	defer s.metrics.AnalysesInFlight.WithLabelValues().Dec()

	fp := m.Fingerprint()
	log := s.logger.WithContext(ctx).With(logging.String("fingerprint", fp))

	if cached, ok := s.lookup(ctx, log, fp); ok {
		r := s.stamp(cached, start, true)
		prometheus.RecordAnalysis(s.metrics, prometheus.StatusOK, true, r.Duration, r.AtomCount, len(r.Systems))
		log.Debug("analysis served from cache", logging.String("id", r.ID))
		return r, nil
	}

	v, _, shared := s.flight.Do(fp, func() (interface{}, error) {
		r := s.compute(m, fp)
		s.store(ctx, log, fp, r)
		return r, nil
	})

	r := s.stamp(v.(*Result), start, false)
	if !r.KekuleComplete {
		s.metrics.KekulizeIncomplete.WithLabelValues().Inc()
		log.Warn("aromatic bonds have no complete Kekulé assignment")
	}
	prometheus.RecordAnalysis(s.metrics, prometheus.StatusOK, false, r.Duration, r.AtomCount, len(r.Systems))
	log.Debug("analysis completed",
		logging.String("id", r.ID),
		logging.Int("atoms", r.AtomCount),
		logging.Int("systems", len(r.Systems)),
		logging.Bool("shared", shared),
		logging.Duration("duration", r.Duration),
	)
	return r, nil
}

func (s *serviceImpl) checkLimits(m *molecule.Molecule) error {
	if n := m.NumAtoms(); n > s.cfg.MaxAtoms {
		return errors.Newf(errors.ErrCodeMoleculeTooLarge, "molecule has %d atoms, limit is %d", n, s.cfg.MaxAtoms)
	}
	if n := m.NumBonds(); n > s.cfg.MaxBonds {
		return errors.Newf(errors.ErrCodeMoleculeTooLarge, "molecule has %d bonds, limit is %d", n, s.cfg.MaxBonds)
	}
	return nil
}

// compute runs the full pipeline.  The returned Result carries no per-call
// fields and may be shared between callers.
func (s *serviceImpl) compute(m *molecule.Molecule, fp string) *Result {
	p := perception.Annotate(m, perception.AnnotateOptions{KekulizeBudget: s.cfg.KekulizeBudget})
	perception.Perceive(p)
	return &Result{
		Fingerprint:    fp,
		AtomCount:      len(p.Atoms),
		BondCount:      len(p.Bonds),
		Atoms:          buildReports(p),
		Systems:        resonance.FindSystems(p),
		KekuleComplete: p.KekuleComplete,
	}
}

// stamp copies base and fills the per-call fields.
func (s *serviceImpl) stamp(base *Result, start time.Time, cached bool) *Result {
	r := *base
	r.ID = uuid.New().String()
	r.Cached = cached
	r.AnalyzedAt = start.UTC()
	r.Duration = s.now().Sub(start)
	return &r
}

func (s *serviceImpl) lookup(ctx context.Context, log logging.Logger, fp string) (*Result, bool) {
	if s.cache == nil {
		return nil, false
	}
	start := s.now()
	var r Result
	err := s.cache.Get(ctx, CacheKeyPrefix+fp, &r)
	switch {
	case err == nil:
		prometheus.RecordCacheAccess(s.metrics, prometheus.CacheHit, "get", s.now().Sub(start))
		return &r, true
	case errors.IsCode(err, errors.ErrCodeNotFound):
		prometheus.RecordCacheAccess(s.metrics, prometheus.CacheMiss, "get", s.now().Sub(start))
	default:
		prometheus.RecordCacheAccess(s.metrics, prometheus.CacheError, "get", s.now().Sub(start))
		log.Warn("result cache lookup failed", logging.Err(err))
	}
	return nil, false
}

func (s *serviceImpl) store(ctx context.Context, log logging.Logger, fp string, r *Result) {
	if s.cache == nil {
		return
	}
	start := s.now()
	if err := s.cache.Set(ctx, CacheKeyPrefix+fp, r, s.cfg.CacheTTL); err != nil {
		prometheus.RecordCacheAccess(s.metrics, prometheus.CacheError, "set", s.now().Sub(start))
		log.Warn("result cache store failed", logging.Err(err))
		return
	}
	prometheus.RecordCacheAccess(s.metrics, "", "set", s.now().Sub(start))
}

func (s *serviceImpl) AnalyzeDocument(ctx context.Context, format molfile.Format, payload []byte) (*Result, error) {
	m, err := molfile.Decode(format, bytes.NewReader(payload))
	if err != nil {
		prometheus.RecordAnalysis(s.metrics, prometheus.StatusInvalid, false, 0, 0, 0)
		return nil, err
	}
	return s.Analyze(ctx, m)
}

func (s *serviceImpl) AnalyzeBatch(ctx context.Context, ms []*molecule.Molecule) ([]BatchItem, error) {
	if len(ms) == 0 {
		return nil, errors.Validation("batch is empty")
	}
	if len(ms) > s.cfg.MaxBatchSize {
		return nil, errors.Newf(errors.ErrCodeValidation, "batch has %d molecules, limit is %d", len(ms), s.cfg.MaxBatchSize)
	}
	s.metrics.BatchSize.WithLabelValues().Observe(float64(len(ms)))

	items := make([]BatchItem, len(ms))
	g := new(errgroup.Group)
	g.SetLimit(max(s.cfg.Concurrency, 1))
	for i, m := range ms {
		i, m := i, m
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			items[i] = BatchItem{Index: i}
			r, err := s.Analyze(ctx, m)
			if err != nil {
				items[i].Error = newItemError(err)
				return nil
			}
			items[i].Result = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeAnalysisCanceled, "batch canceled")
	}

	failed := 0
	for _, it := range items {
		if !it.OK() {
			failed++
		}
	}
	s.logger.WithContext(ctx).Info("batch analyzed",
		logging.Int("molecules", len(ms)),
		logging.Int("failed", failed),
	)
	return items, nil
}

func (s *serviceImpl) AnalyzeDocuments(ctx context.Context, format molfile.Format, payload []byte) ([]BatchItem, error) {
	ms, err := molfile.DecodeAll(format, bytes.NewReader(payload))
	if err != nil {
		prometheus.RecordAnalysis(s.metrics, prometheus.StatusInvalid, false, 0, 0, 0)
		return nil, err
	}
	return s.AnalyzeBatch(ctx, ms)
}

func (s *serviceImpl) Ready(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	if err := s.cache.Ping(ctx); err != nil {
		return errors.Wrap(err, errors.ErrCodeServiceUnavailable, "result cache unavailable")
	}
	return nil
}

//Personal.AI order the ending
