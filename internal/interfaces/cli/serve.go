package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/turtacn/pauling/internal/application/analysis"
	"github.com/turtacn/pauling/internal/config"
	"github.com/turtacn/pauling/internal/infrastructure/database/redis"
	"github.com/turtacn/pauling/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/pauling/internal/infrastructure/monitoring/prometheus"
	httpserver "github.com/turtacn/pauling/internal/interfaces/http"
	"github.com/turtacn/pauling/internal/interfaces/http/handlers"
	"github.com/turtacn/pauling/internal/interfaces/http/middleware"
)

// limiterIdleTTL is how long a client's rate-limit bucket survives without
// traffic.
const limiterIdleTTL = 10 * time.Minute

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	var (
		host string
		port int
	)

	cmd := &cobra.Command{
		Use:         "serve",
		Short:       "Run the HTTP analysis service",
		Annotations: map[string]string{annotationConfigLogging: "true"},
		Args:        cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("host") {
				cliCtx.Config.Server.Host = host
			}
			if cmd.Flags().Changed("port") {
				cliCtx.Config.Server.Port = port
			}
			return runServe(cmd.Context(), cliCtx)
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "listen host (overrides server.host)")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (overrides server.port)")
	return cmd
}

// serverStack is a fully wired HTTP service.
type serverStack struct {
	Server  *httpserver.Server
	Service analysis.Service
	closers []func() error
}

// Close releases the stack's connections and background workers.
func (s *serverStack) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		_ = s.closers[i]()
	}
}

// buildServer wires metrics, the optional result cache, the analysis service
// and the HTTP router from cfg.
func buildServer(cfg *config.Config, log logging.Logger) (*serverStack, error) {
	stack := &serverStack{}

	var (
		collector prometheus.MetricsCollector
		metrics   *prometheus.AppMetrics
	)
	if cfg.Metrics.Enabled {
		c, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{
			Namespace:            cfg.Metrics.Namespace,
			Subsystem:            cfg.Metrics.Subsystem,
			EnableGoMetrics:      cfg.Metrics.EnableGoMetrics,
			EnableProcessMetrics: cfg.Metrics.EnableProcessMetrics,
		}, log)
		if err != nil {
			return nil, err
		}
		collector = c
		metrics = prometheus.NewAppMetrics(c)
	}

	var cache analysis.ResultCache
	if cfg.CacheConfigured() {
		client, err := redis.NewClient(cfg.Redis, log)
		if err != nil {
			return nil, err
		}
		stack.closers = append(stack.closers, client.Close)
		cache = redis.NewRedisCache(client, log,
			redis.WithPrefix(cfg.Redis.KeyPrefix),
			redis.WithDefaultTTL(cfg.Analysis.CacheTTL),
		)
	}

	svc := analysis.NewService(cfg.Analysis, cache, metrics, log)
	stack.Service = svc

	routerCfg := httpserver.RouterConfig{
		AnalysisHandler:    handlers.NewAnalysisHandler(svc, log),
		HealthHandler:      handlers.NewHealthHandler(Version, handlers.CheckFunc("analysis", svc.Ready)),
		CORSAllowedOrigins: cfg.Server.CORSAllowedOrigins,
		MaxBodySize:        cfg.Server.MaxBodySize,
		Logger:             log,
		Metrics:            metrics,
		MetricsCollector:   collector,
	}
	if cfg.Server.RateLimitRPS > 0 {
		limiter := middleware.NewKeyedLimiter(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst, limiterIdleTTL)
		stack.closers = append(stack.closers, func() error { limiter.Stop(); return nil })
		routerCfg.RateLimiter = limiter
	}

	gin.SetMode(cfg.Server.Mode)
	stack.Server = httpserver.NewServer(cfg.Server, httpserver.NewRouter(routerCfg), log)
	return stack, nil
}

func runServe(ctx context.Context, cliCtx *CLIContext) error {
	log := cliCtx.Logger
	defer func() { _ = log.Sync() }()

	stack, err := buildServer(cliCtx.Config, log)
	if err != nil {
		return err
	}
	defer stack.Close()

	if cliCtx.ConfigPath != "" {
		watchLogLevel(cliCtx.ConfigPath, log)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("starting pauling",
		logging.String("version", Version),
		logging.String("addr", stack.Server.Addr()),
		logging.Bool("cache", cliCtx.Config.CacheConfigured()),
		logging.Bool("metrics", cliCtx.Config.Metrics.Enabled),
	)

	errCh := make(chan error, 1)
	go func() { errCh <- stack.Server.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	if err := stack.Server.Shutdown(context.Background()); err != nil {
		return err
	}
	return <-errCh
}

// watchLogLevel applies log.level changes in the config file without a
// restart.  Other settings take effect on the next start.
func watchLogLevel(path string, log logging.Logger) {
	err := config.Watch(path, func(cfg *config.Config) {
		if logging.SetLevel(log, cfg.Log.Level) {
			log.Info("log level reloaded", logging.String("level", cfg.Log.Level.String()))
		}
	}, func(err error) {
		log.Warn("config reload rejected", logging.Err(err))
	})
	if err != nil {
		log.Warn("config watch disabled", logging.Err(err))
	}
}

//Personal.AI order the ending
