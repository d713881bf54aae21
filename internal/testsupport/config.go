package testsupport

import (
	"path/filepath"
	"testing"

	"songdiff/internal/config"
)

// ConfigOption adjusts a generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig returns a valid config whose report dir and tag cache live in a
// per-test temp directory. The tag cache starts disabled and nothing is
// logged to a file.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Report.Dir = filepath.Join(base, "reports")
	cfg.TagCache.Enabled = false
	cfg.TagCache.Path = filepath.Join(base, "cache", "tags.db")
	cfg.Logging.File = ""
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("test config invalid: %v", err)
	}
	return &cfg
}

// WithWorkers sets the extraction worker count.
func WithWorkers(n int) ConfigOption {
	return func(c *config.Config) {
		c.Scan.Workers = n
	}
}

// WithExtensions replaces the audio extension set.
func WithExtensions(exts ...string) ConfigOption {
	return func(c *config.Config) {
		c.Scan.Extensions = exts
	}
}

// WithTagCache enables the SQLite tag cache inside the temp directory.
func WithTagCache() ConfigOption {
	return func(c *config.Config) {
		c.TagCache.Enabled = true
	}
}

// WithoutMetadata disables embedded tag reads.
func WithoutMetadata() ConfigOption {
	return func(c *config.Config) {
		c.Scan.ReadMetadata = false
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Report.Dir)
}
