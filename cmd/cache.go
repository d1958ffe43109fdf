package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and maintain the response cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache entry counts by freshness",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer a.close()

		stats, err := a.client.Stats(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("total: %d\nfresh: %d\nstale: %d\n", stats.Total, stats.Fresh, stats.Stale)
		return nil
	},
}

var cacheEvictCmd = &cobra.Command{
	Use:   "evict",
	Short: "Delete cache entries older than the eviction age",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer a.close()

		age := time.Duration(cfg.Cache.EvictDays) * 24 * time.Hour
		n, err := a.client.Evict(cmd.Context(), age)
		if err != nil {
			return err
		}
		fmt.Printf("evicted %d entries older than %s\n", n, age)
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheStatsCmd, cacheEvictCmd)
	rootCmd.AddCommand(cacheCmd)
}
