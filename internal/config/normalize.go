package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	c.normalizeScan()
	if err := c.normalizeReport(); err != nil {
		return err
	}
	if err := c.normalizeTagCache(); err != nil {
		return err
	}
	if c.Verify.SampleSize <= 0 {
		c.Verify.SampleSize = defaultVerifySample
	}
	return c.normalizeLogging()
}

func (c *Config) normalizeScan() {
	if len(c.Scan.Extensions) == 0 {
		c.Scan.Extensions = []string{extensionMP3, extensionFLAC}
	} else {
		exts := make([]string, 0, len(c.Scan.Extensions))
		seen := make(map[string]struct{}, len(c.Scan.Extensions))
		for _, ext := range c.Scan.Extensions {
			normalized := normalizeExtension(ext)
			if normalized == "" {
				continue
			}
			if _, exists := seen[normalized]; exists {
				continue
			}
			seen[normalized] = struct{}{}
			exts = append(exts, normalized)
		}
		c.Scan.Extensions = exts
	}
	if c.Scan.Workers <= 0 {
		c.Scan.Workers = defaultScanWorkers
	}
	if c.Scan.Workers > maxScanWorkers {
		c.Scan.Workers = maxScanWorkers
	}
}

func (c *Config) normalizeReport() error {
	var err error
	if strings.TrimSpace(c.Report.Dir) == "" {
		c.Report.Dir = defaultReportDir
	}
	if c.Report.Dir, err = ExpandPath(c.Report.Dir); err != nil {
		return fmt.Errorf("report.dir: %w", err)
	}
	if c.Report.Preview < 0 {
		c.Report.Preview = 0
	}
	return nil
}

func (c *Config) normalizeTagCache() error {
	var err error
	if strings.TrimSpace(c.TagCache.Path) == "" {
		c.TagCache.Path = defaultTagCachePath
	}
	if c.TagCache.Path, err = ExpandPath(c.TagCache.Path); err != nil {
		return fmt.Errorf("tag_cache.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() error {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if strings.TrimSpace(c.Logging.File) == "" {
		c.Logging.File = ""
		return nil
	}
	var err error
	if c.Logging.File, err = ExpandPath(c.Logging.File); err != nil {
		return fmt.Errorf("logging.file: %w", err)
	}
	return nil
}

// normalizeExtension lowercases ext and guarantees a single leading dot.
func normalizeExtension(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	ext = strings.TrimLeft(ext, ".")
	if ext == "" {
		return ""
	}
	return "." + ext
}
