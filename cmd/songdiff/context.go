package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"songdiff/internal/config"
	"songdiff/internal/extract"
	"songdiff/internal/library"
	"songdiff/internal/logging"
	"songdiff/internal/tagcache"
	"songdiff/internal/tags"
)

type commandContext struct {
	configFlag    *string
	logLevelFlag  *string
	logFormatFlag *string

	configOnce   sync.Once
	config       *config.Config
	configPath   string
	configExists bool
	configErr    error
}

func newCommandContext(configFlag, logLevelFlag, logFormatFlag *string) *commandContext {
	return &commandContext{
		configFlag:    configFlag,
		logLevelFlag:  logLevelFlag,
		logFormatFlag: logFormatFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, path, exists, err := config.Load(flagValue(c.configFlag))
		if err != nil {
			c.configErr = err
			return
		}
		if err := c.applyOverrides(cfg); err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = path
		c.configExists = exists
	})
	return c.config, c.configErr
}

// applyOverrides layers the global logging flags over the loaded file.
func (c *commandContext) applyOverrides(cfg *config.Config) error {
	if level := strings.ToLower(flagValue(c.logLevelFlag)); level != "" {
		cfg.Logging.Level = level
	}
	if format := strings.ToLower(flagValue(c.logFormatFlag)); format != "" {
		cfg.Logging.Format = format
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("command line overrides: %w", err)
	}
	return nil
}

// logger builds the run logger. Log lines go to stderr so stdout carries only
// command output.
func (c *commandContext) logger(cmd *cobra.Command, component string) (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	base, err := logging.NewFromConfig(cfg, cmd.ErrOrStderr())
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return logging.NewComponentLogger(logging.WithContext(cmd.Context(), base), component), nil
}

// tagReader returns the embedded-tag reader for scans, or nil when tag reads
// are disabled. The close func is never nil.
func (c *commandContext) tagReader(ctx context.Context, cfg *config.Config, logger *slog.Logger) (tags.Reader, func() error, error) {
	noop := func() error { return nil }
	if !cfg.Scan.ReadMetadata {
		return nil, noop, nil
	}
	reader := tags.NewFileReader()
	if !cfg.TagCache.Enabled {
		return reader, noop, nil
	}

	cache, err := tagcache.Open(ctx, cfg.TagCache.Path, reader, logging.NewComponentLogger(logger, "tagcache"))
	if errors.Is(err, tagcache.ErrLocked) {
		logging.WarnWithContext(logger, "tag cache in use; reading tags directly", "tag_cache_locked",
			logging.String("path", cfg.TagCache.Path),
			logging.String(logging.FieldErrorHint, "wait for the other songdiff run to finish"),
			logging.String(logging.FieldImpact, "tags are read from every file this run"))
		return reader, noop, nil
	}
	if err != nil {
		return nil, noop, fmt.Errorf("open tag cache: %w", err)
	}
	return cache, cache.Close, nil
}

// scanner wires the extraction stack for one run.
type scanner struct {
	builder *library.Builder
	reader  tags.Reader
	close   func() error
}

func (c *commandContext) newScanner(cmd *cobra.Command, logger *slog.Logger) (*scanner, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	reader, closeReader, err := c.tagReader(cmd.Context(), cfg, logger)
	if err != nil {
		return nil, err
	}
	extractor := extract.New(reader, logging.NewComponentLogger(logger, "extract"))
	return &scanner{
		builder: library.NewBuilder(cfg, extractor, logging.NewComponentLogger(logger, "library")),
		reader:  reader,
		close:   closeReader,
	}, nil
}

func closeScanner(s *scanner, logger *slog.Logger) {
	if err := s.close(); err != nil {
		logger.Warn("close tag cache failed", logging.Error(err))
	}
}

func flagValue(flag *string) string {
	if flag == nil {
		return ""
	}
	return strings.TrimSpace(*flag)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
