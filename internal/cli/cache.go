// internal/cli/cache.go
package ragagent

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/RoySYH/RAG-based-Agentic-AI/internal/cache"
)

// cacheCmd groups answer cache commands.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the Redis answer cache",
}

// cacheClearCmd removes every cached answer under the configured key prefix.
var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all cached answers",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfig()
		if cfg == nil {
			return fmt.Errorf("config is nil")
		}
		if !cfg.Redis.Enabled {
			return fmt.Errorf("redis cache is not enabled (set redis.enabled in the config)")
		}
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		client, err := cache.NewClient(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		qc := cache.NewQueryCache(client, cfg.CacheTTL(), cfg.Redis.KeyPrefix)
		defer qc.Close()

		deleted, err := qc.Clear(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d cached answers from %s\n", deleted, cfg.Redis.Addr)
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}
