package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"songdiff/internal/tagcache"
	"songdiff/internal/tags"
)

const tagCacheDisabled = "Tag cache is disabled (set tag_cache.enabled = true in config.toml)"

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and manage the tag cache",
	}

	cacheCmd.AddCommand(newCacheStatsCommand(ctx))
	cacheCmd.AddCommand(newCacheClearCommand(ctx))

	return cacheCmd
}

func newCacheStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show tag cache usage",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTagCache(ctx, cmd, func(cache *tagcache.Cache) error {
				stats, err := cache.Stats(cmd.Context())
				if err != nil {
					return err
				}
				con := newConsole(cmd.OutOrStdout())
				con.status("Database", statusInfo, stats.Path)
				con.status("Entries", statusInfo, strconv.Itoa(stats.Entries))
				con.status("Failed reads", countStatus(stats.Failures, statusWarn), strconv.Itoa(stats.Failures))
				return nil
			})
		},
	}
}

func newCacheClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached tag entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTagCache(ctx, cmd, func(cache *tagcache.Cache) error {
				removed, err := cache.Clear(cmd.Context())
				if err != nil {
					return err
				}
				if removed == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Tag cache already empty")
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cached entries\n", removed)
				return nil
			})
		},
	}
}

func withTagCache(ctx *commandContext, cmd *cobra.Command, fn func(*tagcache.Cache) error) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	if !cfg.TagCache.Enabled {
		fmt.Fprintln(cmd.OutOrStdout(), tagCacheDisabled)
		return nil
	}
	logger, err := ctx.logger(cmd, "cli-cache")
	if err != nil {
		return err
	}
	cache, err := tagcache.Open(cmd.Context(), cfg.TagCache.Path, tags.NewFileReader(), logger)
	if errors.Is(err, tagcache.ErrLocked) {
		return fmt.Errorf("%w; retry once the running compare finishes", err)
	}
	if err != nil {
		return fmt.Errorf("open tag cache: %w", err)
	}
	defer cache.Close()
	return fn(cache)
}
