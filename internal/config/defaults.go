package config

const (
	defaultConfigPath    = "~/.config/songdiff/config.toml"
	defaultScanWorkers   = 1
	maxScanWorkers       = 64
	defaultReportDir     = "~/Desktop"
	defaultReportPreview = 10
	defaultTagCachePath  = "~/.cache/songdiff/tags.db"
	defaultVerifySample  = 20
	defaultLogFormat     = "console"
	defaultLogLevel      = "info"
	extensionMP3         = ".mp3"
	extensionFLAC        = ".flac"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Scan: Scan{
			Extensions:   []string{extensionMP3, extensionFLAC},
			Workers:      defaultScanWorkers,
			ReadMetadata: true,
		},
		Report: Report{
			Enabled: true,
			Dir:     defaultReportDir,
			Preview: defaultReportPreview,
		},
		TagCache: TagCache{
			Enabled: false,
			Path:    defaultTagCachePath,
		},
		Verify: Verify{
			SampleSize: defaultVerifySample,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
