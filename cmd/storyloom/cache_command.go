package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"storyloom/internal/mediacache"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and manage the media cache",
	}

	cacheCmd.AddCommand(newCacheStatsCommand(ctx))
	cacheCmd.AddCommand(newCachePruneCommand(ctx))
	cacheCmd.AddCommand(newCacheClearCommand(ctx))

	return cacheCmd
}

func withCache(ctx *commandContext, fn func(*mediacache.Cache) error) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	cache, err := mediacache.Open(cfg.Paths.CacheDir)
	if err != nil {
		return err
	}
	return fn(cache)
}

func newCacheStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show cache occupancy",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCache(ctx, func(cache *mediacache.Cache) error {
				stats, err := cache.Stats()
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Location: %s\n", cache.Dir())
				fmt.Fprintf(out, "Entries:  %d\n", stats.Entries)
				fmt.Fprintf(out, "Size:     %s\n", formatBytes(stats.TotalBytes))
				return nil
			})
		},
	}
}

func newCachePruneCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Remove oldest entries until the cache fits its configured ceiling",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			return withCache(ctx, func(cache *mediacache.Cache) error {
				maxBytes := int64(cfg.Prefetch.MaxCacheGiB) << 30
				removed, freed, err := cache.Prune(maxBytes)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d entr%s, freed %s\n",
					removed, pluralY(removed), formatBytes(freed))
				return nil
			})
		},
	}
}

func newCacheClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached media file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCache(ctx, func(cache *mediacache.Cache) error {
				removed, err := cache.Clear()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d entr%s\n", removed, pluralY(removed))
				return nil
			})
		},
	}
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

func pluralY(n int) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}
