// Package config defines the configuration structures of the pauling
// service.  Loading lives in loader.go and defaults in defaults.go; this file
// holds plain data types and validation only.
package config

import (
	"fmt"
	"time"

	"github.com/turtacn/pauling/internal/infrastructure/monitoring/logging"
)

// ─────────────────────────────────────────────────────────────────────────────
// Sub-configuration structs
// ─────────────────────────────────────────────────────────────────────────────

// ServerConfig holds HTTP server tunables.
type ServerConfig struct {
	Host            string        `mapstructure:"host" yaml:"host"`
	Port            int           `mapstructure:"port" yaml:"port"`
	Mode            string        `mapstructure:"mode" yaml:"mode"` // "debug" | "release" | "test"
	ReadTimeout     time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
	MaxBodySize     int64         `mapstructure:"max_body_size" yaml:"max_body_size"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`

	// CORSAllowedOrigins enables CORS for the listed origins.  Empty disables it.
	CORSAllowedOrigins []string `mapstructure:"cors_allowed_origins" yaml:"cors_allowed_origins,omitempty"`
	// RateLimitRPS is the sustained per-client request rate on /api.  Zero
	// disables rate limiting.
	RateLimitRPS   float64 `mapstructure:"rate_limit_rps" yaml:"rate_limit_rps"`
	RateLimitBurst int     `mapstructure:"rate_limit_burst" yaml:"rate_limit_burst"`
}

// Addr returns the listen address in host:port form.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// RedisConfig holds Redis connection parameters.  An empty Addr disables the
// result cache.
type RedisConfig struct {
	Addr         string        `mapstructure:"addr" yaml:"addr"`
	Password     string        `mapstructure:"password" yaml:"password"`
	DB           int           `mapstructure:"db" yaml:"db"`
	PoolSize     int           `mapstructure:"pool_size" yaml:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns" yaml:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout" yaml:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
	KeyPrefix    string        `mapstructure:"key_prefix" yaml:"key_prefix"`
}

// MetricsConfig holds Prometheus registry settings.
type MetricsConfig struct {
	Enabled              bool   `mapstructure:"enabled" yaml:"enabled"`
	Namespace            string `mapstructure:"namespace" yaml:"namespace"`
	Subsystem            string `mapstructure:"subsystem" yaml:"subsystem"`
	EnableGoMetrics      bool   `mapstructure:"enable_go_metrics" yaml:"enable_go_metrics"`
	EnableProcessMetrics bool   `mapstructure:"enable_process_metrics" yaml:"enable_process_metrics"`
}

// AnalysisConfig bounds the work a single analysis request may do.
type AnalysisConfig struct {
	MaxAtoms       int           `mapstructure:"max_atoms" yaml:"max_atoms"`
	MaxBonds       int           `mapstructure:"max_bonds" yaml:"max_bonds"`
	Concurrency    int           `mapstructure:"concurrency" yaml:"concurrency"`
	MaxBatchSize   int           `mapstructure:"max_batch_size" yaml:"max_batch_size"`
	CacheEnabled   bool          `mapstructure:"cache_enabled" yaml:"cache_enabled"`
	CacheTTL       time.Duration `mapstructure:"cache_ttl" yaml:"cache_ttl"`
	KekulizeBudget int           `mapstructure:"kekulize_budget" yaml:"kekulize_budget"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Root Config
// ─────────────────────────────────────────────────────────────────────────────

// Config is the root configuration structure.
type Config struct {
	Server   ServerConfig      `mapstructure:"server" yaml:"server"`
	Redis    RedisConfig       `mapstructure:"redis" yaml:"redis"`
	Log      logging.LogConfig `mapstructure:"log" yaml:"log"`
	Metrics  MetricsConfig     `mapstructure:"metrics" yaml:"metrics"`
	Analysis AnalysisConfig    `mapstructure:"analysis" yaml:"analysis"`
}

// CacheConfigured reports whether the result cache should be wired.
func (c *Config) CacheConfigured() bool {
	return c.Analysis.CacheEnabled && c.Redis.Addr != ""
}

// ─────────────────────────────────────────────────────────────────────────────
// Validation
// ─────────────────────────────────────────────────────────────────────────────

// Validate performs semantic validation of the fully-populated Config.
// It returns the first error encountered.
func (c *Config) Validate() error {
	// Server
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d is out of range [1, 65535]", c.Server.Port)
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("config: server.mode %q is invalid; expected debug|release|test", c.Server.Mode)
	}
	if c.Server.MaxBodySize < 0 {
		return fmt.Errorf("config: server.max_body_size must be ≥ 0, got %d", c.Server.MaxBodySize)
	}

	if c.Server.RateLimitRPS < 0 {
		return fmt.Errorf("config: server.rate_limit_rps must be ≥ 0, got %g", c.Server.RateLimitRPS)
	}
	if c.Server.RateLimitRPS > 0 && c.Server.RateLimitBurst < 1 {
		return fmt.Errorf("config: server.rate_limit_burst must be ≥ 1 when rate limiting is enabled, got %d", c.Server.RateLimitBurst)
	}

	// Redis
	if c.Redis.DB < 0 {
		return fmt.Errorf("config: redis.db must be ≥ 0, got %d", c.Redis.DB)
	}
	if c.Analysis.CacheEnabled && c.Redis.Addr == "" {
		return fmt.Errorf("config: redis.addr is required when analysis.cache_enabled is set")
	}

	// Analysis
	if c.Analysis.MaxAtoms < 1 {
		return fmt.Errorf("config: analysis.max_atoms must be ≥ 1, got %d", c.Analysis.MaxAtoms)
	}
	if c.Analysis.MaxBonds < 1 {
		return fmt.Errorf("config: analysis.max_bonds must be ≥ 1, got %d", c.Analysis.MaxBonds)
	}
	if c.Analysis.Concurrency < 1 {
		return fmt.Errorf("config: analysis.concurrency must be ≥ 1, got %d", c.Analysis.Concurrency)
	}
	if c.Analysis.MaxBatchSize < 1 {
		return fmt.Errorf("config: analysis.max_batch_size must be ≥ 1, got %d", c.Analysis.MaxBatchSize)
	}
	if c.Analysis.KekulizeBudget < 0 {
		return fmt.Errorf("config: analysis.kekulize_budget must be ≥ 0, got %d", c.Analysis.KekulizeBudget)
	}
	if c.Analysis.CacheTTL < 0 {
		return fmt.Errorf("config: analysis.cache_ttl must be ≥ 0, got %s", c.Analysis.CacheTTL)
	}

	// Log
	if _, err := logging.ParseLevel(string(c.Log.Level)); err != nil {
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: log.format %q is invalid; expected json|console", c.Log.Format)
	}

	return nil
}

//Personal.AI order the ending
