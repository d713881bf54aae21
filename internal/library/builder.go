package library

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"songdiff/internal/config"
	"songdiff/internal/extract"
	"songdiff/internal/logging"
)

// ErrInvalidInput reports a folder argument that is empty, missing, or not a directory.
var ErrInvalidInput = errors.New("invalid music folder")

// Extractor produces the interpretations of one file.
type Extractor interface {
	Extract(ctx context.Context, path, filename string) []extract.Interpretation
}

// Diagnostics summarizes one scan.
type Diagnostics struct {
	TotalFiles       int            `json:"total_files"`
	AudioFiles       int            `json:"audio_files"`
	ParsedFiles      int            `json:"parsed_files"`
	UnparseableFiles []string       `json:"unparseable_files"`
	StrategyCounts   map[string]int `json:"strategy_counts"`
}

// StrategyCount is one row of strategy usage.
type StrategyCount struct {
	Strategy string `json:"strategy"`
	Count    int    `json:"count"`
}

// StrategyUsage returns the non-zero strategy counts in extraction order.
func (d Diagnostics) StrategyUsage() []StrategyCount {
	var usage []StrategyCount
	known := extract.StrategyNames()
	for _, name := range known {
		if n := d.StrategyCounts[name]; n > 0 {
			usage = append(usage, StrategyCount{Strategy: name, Count: n})
		}
	}
	var extra []string
	for name := range d.StrategyCounts {
		if !slices.Contains(known, name) {
			extra = append(extra, name)
		}
	}
	slices.Sort(extra)
	for _, name := range extra {
		usage = append(usage, StrategyCount{Strategy: name, Count: d.StrategyCounts[name]})
	}
	return usage
}

// Index is the scan result for one folder. It lives for a single run.
type Index struct {
	Dir         string
	Files       *FileIndex
	Reverse     *ReverseIndex
	Diagnostics Diagnostics
}

// Option customizes a Builder.
type Option func(*Builder)

// WithLister replaces the filesystem lister.
func WithLister(l Lister) Option {
	return func(b *Builder) {
		if l != nil {
			b.lister = l
		}
	}
}

// Builder scans folders into Indexes.
type Builder struct {
	cfg       *config.Config
	lister    Lister
	extractor Extractor
	logger    *slog.Logger
}

// NewBuilder returns a Builder using cfg's audio extensions and worker count.
func NewBuilder(cfg *config.Config, extractor Extractor, logger *slog.Logger, opts ...Option) *Builder {
	if logger == nil {
		logger = logging.NewNop()
	}
	b := &Builder{
		cfg:       cfg,
		lister:    OSLister{},
		extractor: extractor,
		logger:    logging.NewComponentLogger(logger, "library"),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build scans dir and returns its indices and diagnostics. The output does
// not depend on the worker count.
func (b *Builder) Build(ctx context.Context, dir string) (*Index, error) {
	dir, err := validateDir(dir)
	if err != nil {
		return nil, err
	}
	start := time.Now()

	entries, err := b.lister.List(ctx, dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}

	diag := Diagnostics{TotalFiles: len(entries), StrategyCounts: make(map[string]int)}
	var audio []string
	for _, entry := range entries {
		if !entry.Regular || !b.cfg.IsAudioExtension(filepath.Ext(entry.Name)) {
			continue
		}
		audio = append(audio, entry.Name)
	}
	diag.AudioFiles = len(audio)

	results, err := b.extractAll(ctx, dir, audio)
	if err != nil {
		return nil, err
	}

	files := NewFileIndex()
	for i, name := range audio {
		interps := results[i]
		if len(interps) == 0 {
			diag.UnparseableFiles = append(diag.UnparseableFiles, name)
			b.logger.Debug("file could not be parsed", logging.String("file", name))
			continue
		}
		files.Add(name, interps)
		for _, interp := range interps {
			diag.StrategyCounts[interp.Strategy]++
		}
	}
	diag.ParsedFiles = files.Len()

	index := &Index{
		Dir:         dir,
		Files:       files,
		Reverse:     BuildReverse(files),
		Diagnostics: diag,
	}

	b.logger.Info("index built",
		logging.String("dir", dir),
		logging.Int("total_files", diag.TotalFiles),
		logging.Int("audio_files", diag.AudioFiles),
		logging.Int("parsed_files", diag.ParsedFiles),
		logging.Int("unparseable_files", len(diag.UnparseableFiles)),
		logging.Int("keys", index.Reverse.Len()),
		logging.Duration("elapsed", time.Since(start)))
	if n := len(diag.UnparseableFiles); n > 0 {
		logging.WarnWithContext(b.logger, "some audio files yielded no artist and title", "unparseable_files",
			logging.String("dir", dir),
			logging.Int("count", n),
			logging.String(logging.FieldErrorHint, "run 'songdiff index' to list them"),
			logging.String(logging.FieldImpact, "these files are excluded from matching"))
	}
	return index, nil
}

// extractAll runs the extractor over names with at most cfg.Scan.Workers
// goroutines. Results are slot-indexed by position in names.
func (b *Builder) extractAll(ctx context.Context, dir string, names []string) ([][]extract.Interpretation, error) {
	results := make([][]extract.Interpretation, len(names))

	workers := b.cfg.Scan.Workers
	if workers < 1 {
		workers = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, name := range names {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = b.extractor.Extract(gctx, filepath.Join(dir, name), name)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	// Cancellation during a tag read degrades to "no metadata", so the
	// partial results are discarded here.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func validateDir(dir string) (string, error) {
	if strings.TrimSpace(dir) == "" {
		return "", fmt.Errorf("%w: path is empty", ErrInvalidInput)
	}
	expanded, err := config.ExpandPath(dir)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	info, err := os.Stat(expanded)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s is not a directory", ErrInvalidInput, expanded)
	}
	return expanded, nil
}
