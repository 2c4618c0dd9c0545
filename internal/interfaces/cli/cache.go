package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/turtacn/pauling/internal/application/analysis"
	"github.com/turtacn/pauling/internal/infrastructure/database/redis"
	"github.com/turtacn/pauling/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/pauling/pkg/errors"
)

// NewCacheCmd creates the cache command.
func NewCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the analysis result cache",
	}

	purgeCmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete every cached analysis result",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			return runCachePurge(cmd, cliCtx)
		},
	}

	cmd.AddCommand(purgeCmd)
	return cmd
}

func runCachePurge(cmd *cobra.Command, cliCtx *CLIContext) error {
	cfg := cliCtx.Config
	if cfg.Redis.Addr == "" {
		return errors.Validation("redis.addr is not configured")
	}

	client, err := redis.NewClient(cfg.Redis, cliCtx.Logger)
	if err != nil {
		return err
	}
	defer client.Close()

	cache := redis.NewRedisCache(client, cliCtx.Logger, redis.WithPrefix(cfg.Redis.KeyPrefix))
	n, err := cache.DeleteByPrefix(cmd.Context(), analysis.CacheKeyPrefix)
	if err != nil {
		return err
	}
	cliCtx.Logger.Debug("result cache purged", logging.Int64("keys", n))
	PrintSuccess(cmd, fmt.Sprintf("purged %d cached results", n))
	return nil
}

//Personal.AI order the ending
