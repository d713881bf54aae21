package extract

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"songdiff/internal/logging"
	"songdiff/internal/tags"
	"songdiff/internal/textutil"
)

// Strategy names recorded on each Interpretation.
const (
	StrategyMetadata       = "metadata"
	strategyFilenamePrefix = "filename"
	strategyReversedPrefix = "filename_rev"
	StrategyArtistTitle    = "regex_artist-title"
	StrategyTitleArtist    = "regex_title-artist"
	StrategyArtistFeat     = "regex_artist-feat"
)

// maxReversedArtistRunes bounds the artist part of a reversed split; longer
// trailing parts are assumed to be titles.
const maxReversedArtistRunes = 15

// Separators tried for "artist<sep>title" splits, in order.
var separators = []string{" - ", " — ", " – ", "-", "_", "~"}

// Separators tried for "title<sep>artist" splits, in order.
var reversedSeparators = []string{" - ", "-"}

type pattern struct {
	strategy string
	re       *regexp.Regexp
	reversed bool
}

// The separator class covers Unicode spaces as well as ASCII whitespace.
var patterns = []pattern{
	{strategy: StrategyArtistTitle, re: regexp.MustCompile(`^(.+?)[\s\p{Z}\-_]+(.+)$`)},
	{strategy: StrategyTitleArtist, re: regexp.MustCompile(`^(.+?)[\s\p{Z}\-_]+by[\s\p{Z}\-_]+(.+)$`), reversed: true},
	{strategy: StrategyArtistFeat, re: regexp.MustCompile(`^(.+?)[\s\p{Z}\-_]+ft\.?[\s\p{Z}\-_]+(.+)$`)},
}

// Interpretation is one canonical (artist, title) reading of a file and the
// strategy that produced it. Artist and Title are never empty.
type Interpretation struct {
	Strategy string `json:"strategy"`
	Artist   string `json:"artist"`
	Title    string `json:"title"`
}

// Key returns the exact-match key for the interpretation.
func (i Interpretation) Key() (string, string) {
	return i.Artist, i.Title
}

// Extractor produces interpretations for audio files.
type Extractor struct {
	reader tags.Reader
	logger *slog.Logger
}

// New returns an Extractor. A nil reader disables the metadata strategy.
func New(reader tags.Reader, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Extractor{
		reader: reader,
		logger: logging.NewComponentLogger(logger, "extract"),
	}
}

// Extract returns every interpretation of the file at path whose directory
// entry name is filename. The result may be empty; it is never an error.
func (e *Extractor) Extract(ctx context.Context, path, filename string) []Interpretation {
	var raw []Interpretation

	if meta, ok := e.readMetadata(ctx, path); ok {
		raw = append(raw, Interpretation{Strategy: StrategyMetadata, Artist: meta.Artist, Title: meta.Title})
	}
	raw = append(raw, FromFilename(filename)...)

	out := make([]Interpretation, 0, len(raw))
	for _, interp := range raw {
		artist := textutil.Canonicalize(interp.Artist)
		title := textutil.Canonicalize(interp.Title)
		if artist == "" || title == "" {
			continue
		}
		out = append(out, Interpretation{Strategy: interp.Strategy, Artist: artist, Title: title})
	}
	return out
}

func (e *Extractor) readMetadata(ctx context.Context, path string) (tags.Metadata, bool) {
	if e.reader == nil {
		return tags.Metadata{}, false
	}
	meta, err := e.reader.Read(ctx, path)
	if err != nil {
		if !errors.Is(err, tags.ErrUnsupported) {
			e.logger.Debug("metadata unavailable",
				logging.String("path", path),
				logging.Error(err))
		}
		return tags.Metadata{}, false
	}
	if !meta.Complete() {
		return tags.Metadata{}, false
	}
	return meta, true
}

// FromFilename applies the filename strategies to filename and returns the raw,
// uncanonicalized pairs in strategy order. Parts are trimmed; pairs with an
// empty part are skipped.
func FromFilename(filename string) []Interpretation {
	name := Stem(filename)
	var out []Interpretation

	for _, sep := range separators {
		artist, title, ok := splitPair(name, sep)
		if !ok {
			continue
		}
		out = append(out, Interpretation{Strategy: strategyFilenamePrefix + sep, Artist: artist, Title: title})
	}

	for _, sep := range reversedSeparators {
		title, artist, ok := splitPair(name, sep)
		if !ok || utf8.RuneCountInString(artist) > maxReversedArtistRunes {
			continue
		}
		out = append(out, Interpretation{Strategy: strategyReversedPrefix + sep, Artist: artist, Title: title})
	}

	for _, p := range patterns {
		m := p.re.FindStringSubmatch(name)
		if m == nil {
			continue
		}
		first, second := strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
		if first == "" || second == "" {
			continue
		}
		if p.reversed {
			first, second = second, first
		}
		out = append(out, Interpretation{Strategy: p.strategy, Artist: first, Title: second})
	}
	return out
}

// splitPair splits name at the first sep and trims both halves.
func splitPair(name, sep string) (string, string, bool) {
	left, right, found := strings.Cut(name, sep)
	if !found {
		return "", "", false
	}
	left, right = strings.TrimSpace(left), strings.TrimSpace(right)
	if left == "" || right == "" {
		return "", "", false
	}
	return left, right, true
}

// Stem strips the final extension from filename. Leading dots never start an
// extension, so ".mp3" and "..flac" are returned unchanged.
func Stem(filename string) string {
	ext := filepath.Ext(filename)
	if ext == "" {
		return filename
	}
	base := filename[:len(filename)-len(ext)]
	if strings.Trim(base, ".") == "" {
		return filename
	}
	return base
}

// StrategyNames lists every strategy in the order Extract attempts them.
func StrategyNames() []string {
	names := []string{StrategyMetadata}
	for _, sep := range separators {
		names = append(names, strategyFilenamePrefix+sep)
	}
	for _, sep := range reversedSeparators {
		names = append(names, strategyReversedPrefix+sep)
	}
	for _, p := range patterns {
		names = append(names, p.strategy)
	}
	return names
}
