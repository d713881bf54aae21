package config

import (
	_ "embed"
	"fmt"
	"slices"

	"github.com/pelletier/go-toml/v2"

	"songdiff/internal/fileutil"
)

//go:embed sample_config.toml
var sampleConfig string

// Scan controls which files are considered and how they are parsed.
type Scan struct {
	Extensions   []string `toml:"extensions"`
	Workers      int      `toml:"workers"`
	ReadMetadata bool     `toml:"read_metadata"`
}

// Report contains configuration for the text reports written after a compare run.
type Report struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
	Preview int    `toml:"preview"`
}

// TagCache contains configuration for the SQLite tag read cache.
type TagCache struct {
	Enabled bool   `toml:"enabled"` // Default: false
	Path    string `toml:"path"`    // Default: ~/.cache/songdiff/tags.db
}

// Verify contains configuration for the manual verification prompt.
type Verify struct {
	SampleSize int `toml:"sample_size"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	File   string `toml:"file"`
}

// Config encapsulates all configuration values for songdiff.
//
// Configuration sections by subsystem:
//   - Scan: audio extensions, extraction workers, tag reading
//   - Report: unique-song and match-detail report output
//   - TagCache: optional SQLite cache for tag reads
//   - Verify: manual verification sampling
//   - Logging: log format, level, and optional file
type Config struct {
	Scan     Scan     `toml:"scan"`
	Report   Report   `toml:"report"`
	TagCache TagCache `toml:"tag_cache"`
	Verify   Verify   `toml:"verify"`
	Logging  Logging  `toml:"logging"`
}

// Marshal renders the configuration as TOML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return data, nil
}

// IsAudioExtension reports whether ext, with or without its dot and in any
// case, is a configured audio extension.
func (c *Config) IsAudioExtension(ext string) bool {
	return slices.Contains(c.Scan.Extensions, normalizeExtension(ext))
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if err := fileutil.WriteFileAtomic(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
