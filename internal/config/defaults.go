package config

import (
	"time"

	"github.com/turtacn/pauling/internal/infrastructure/monitoring/logging"
)

// ─────────────────────────────────────────────────────────────────────────────
// Default value constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	DefaultServerHost        = "0.0.0.0"
	DefaultServerPort        = 8080
	DefaultServerMode        = "release"
	DefaultReadTimeout       = 15 * time.Second
	DefaultWriteTimeout      = 30 * time.Second
	DefaultMaxBodySize       = 4 << 20
	DefaultShutdownTimeout   = 10 * time.Second
	DefaultRateLimitBurst    = 20
	DefaultRedisPoolSize     = 10
	DefaultRedisDialTimeout  = 5 * time.Second
	DefaultRedisReadTimeout  = 3 * time.Second
	DefaultRedisWriteTimeout = 3 * time.Second
	DefaultRedisKeyPrefix    = "pauling:"

	DefaultMetricsNamespace = "pauling"
	DefaultMetricsSubsystem = "analysis"

	DefaultMaxAtoms       = 10000
	DefaultMaxBonds       = 20000
	DefaultConcurrency    = 8
	DefaultMaxBatchSize   = 256
	DefaultCacheTTL       = 24 * time.Hour
	DefaultKekulizeBudget = 10000

	DefaultLogLevel  = logging.LevelInfo
	DefaultLogFormat = "json"
)

// ─────────────────────────────────────────────────────────────────────────────
// ApplyDefaults fills zero-value fields in cfg with well-known defaults.
// It must be called after unmarshalling raw config data and before Validate()
// so that optional-but-defaulted fields are never seen as missing.
// ─────────────────────────────────────────────────────────────────────────────

// ApplyDefaults fills every zero-value field in cfg with the default.  Fields
// already set by the caller are left unchanged.  Booleans cannot be told
// apart from an explicit false and are left as-is; NewDefaultConfig sets them.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	// ── Server ────────────────────────────────────────────────────────────────
	if cfg.Server.Host == "" {
		cfg.Server.Host = DefaultServerHost
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = DefaultServerMode
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.MaxBodySize == 0 {
		cfg.Server.MaxBodySize = DefaultMaxBodySize
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Server.RateLimitBurst == 0 {
		cfg.Server.RateLimitBurst = DefaultRateLimitBurst
	}

	// ── Redis ─────────────────────────────────────────────────────────────────
	// Addr stays empty unless configured; an empty address disables caching.
	if cfg.Redis.PoolSize == 0 {
		cfg.Redis.PoolSize = DefaultRedisPoolSize
	}
	if cfg.Redis.DialTimeout == 0 {
		cfg.Redis.DialTimeout = DefaultRedisDialTimeout
	}
	if cfg.Redis.ReadTimeout == 0 {
		cfg.Redis.ReadTimeout = DefaultRedisReadTimeout
	}
	if cfg.Redis.WriteTimeout == 0 {
		cfg.Redis.WriteTimeout = DefaultRedisWriteTimeout
	}
	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = DefaultRedisKeyPrefix
	}

	// ── Metrics ───────────────────────────────────────────────────────────────
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Metrics.Subsystem == "" {
		cfg.Metrics.Subsystem = DefaultMetricsSubsystem
	}

	// ── Analysis ──────────────────────────────────────────────────────────────
	if cfg.Analysis.MaxAtoms == 0 {
		cfg.Analysis.MaxAtoms = DefaultMaxAtoms
	}
	if cfg.Analysis.MaxBonds == 0 {
		cfg.Analysis.MaxBonds = DefaultMaxBonds
	}
	if cfg.Analysis.Concurrency == 0 {
		cfg.Analysis.Concurrency = DefaultConcurrency
	}
	if cfg.Analysis.MaxBatchSize == 0 {
		cfg.Analysis.MaxBatchSize = DefaultMaxBatchSize
	}
	if cfg.Analysis.CacheTTL == 0 {
		cfg.Analysis.CacheTTL = DefaultCacheTTL
	}
	if cfg.Analysis.KekulizeBudget == 0 {
		cfg.Analysis.KekulizeBudget = DefaultKekulizeBudget
	}

	// ── Log ───────────────────────────────────────────────────────────────────
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
}

// NewDefaultConfig returns a Config populated with every default, including
// the boolean switches ApplyDefaults leaves alone.
func NewDefaultConfig() *Config {
	cfg := &Config{
		Metrics: MetricsConfig{
			Enabled:              true,
			EnableGoMetrics:      true,
			EnableProcessMetrics: true,
		},
	}
	ApplyDefaults(cfg)
	return cfg
}

//Personal.AI order the ending
