package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateScan(); err != nil {
		return err
	}
	if err := c.validateReport(); err != nil {
		return err
	}
	if err := c.validateTagCache(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateScan() error {
	if len(c.Scan.Extensions) == 0 {
		return errors.New("scan.extensions must include at least one extension")
	}
	for _, ext := range c.Scan.Extensions {
		if strings.ContainsAny(ext, `/\`) {
			return fmt.Errorf("scan.extensions: %q is not a file extension", ext)
		}
	}
	if c.Scan.Workers <= 0 {
		return errors.New("scan.workers must be positive")
	}
	return nil
}

func (c *Config) validateReport() error {
	if c.Report.Enabled && strings.TrimSpace(c.Report.Dir) == "" {
		return errors.New("report.dir must be set when report.enabled is true")
	}
	return nil
}

func (c *Config) validateTagCache() error {
	if c.TagCache.Enabled && strings.TrimSpace(c.TagCache.Path) == "" {
		return errors.New("tag_cache.path must be set when tag_cache.enabled is true")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error, got %q", c.Logging.Level)
	}
	return nil
}
