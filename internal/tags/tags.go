package tags

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bogem/id3v2/v2"
	"github.com/go-flac/flacvorbis"
	"github.com/go-flac/go-flac"
)

// File extensions with a tag decoder.
const (
	ExtMP3  = ".mp3"
	ExtFLAC = ".flac"
)

// ErrUnsupported is returned for extensions without a tag decoder.
var ErrUnsupported = errors.New("unsupported tag container")

// ErrNoVorbisComment is returned for FLAC files without a Vorbis comment block.
var ErrNoVorbisComment = errors.New("flac file has no vorbis comment block")

// Metadata is the artist/title pair embedded in a file. Either field may be
// empty when the tag is missing.
type Metadata struct {
	Artist string
	Title  string
}

// Complete reports whether both artist and title carry non-blank text.
func (m Metadata) Complete() bool {
	return strings.TrimSpace(m.Artist) != "" && strings.TrimSpace(m.Title) != ""
}

// Reader returns the embedded metadata for a file.
type Reader interface {
	Read(ctx context.Context, path string) (Metadata, error)
}

// FileReader decodes tags straight from disk.
type FileReader struct{}

// NewFileReader returns a Reader backed by the ID3v2 and FLAC decoders.
func NewFileReader() FileReader {
	return FileReader{}
}

// Read dispatches on the lowercase file extension.
func (FileReader) Read(ctx context.Context, path string) (Metadata, error) {
	if err := ctx.Err(); err != nil {
		return Metadata{}, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ExtMP3:
		return readID3(path)
	case ExtFLAC:
		return readFLAC(path)
	default:
		return Metadata{}, fmt.Errorf("%w: %s", ErrUnsupported, filepath.Ext(path))
	}
}

func readID3(path string) (Metadata, error) {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true, ParseFrames: []string{"Artist", "Title"}})
	if err != nil {
		return Metadata{}, fmt.Errorf("open id3 tag: %w", err)
	}
	defer tag.Close()

	return Metadata{
		Artist: strings.TrimSpace(tag.Artist()),
		Title:  strings.TrimSpace(tag.Title()),
	}, nil
}

func readFLAC(path string) (Metadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return Metadata{}, fmt.Errorf("open flac: %w", err)
	}
	defer f.Close()

	// Only the metadata blocks are decoded; audio frames are never read.
	file, err := flac.ParseMetadata(f)
	if err != nil {
		return Metadata{}, fmt.Errorf("parse flac metadata: %w", err)
	}

	for _, block := range file.Meta {
		if block.Type != flac.VorbisComment {
			continue
		}
		comments, err := flacvorbis.ParseFromMetaDataBlock(*block)
		if err != nil {
			return Metadata{}, fmt.Errorf("parse vorbis comment: %w", err)
		}
		return Metadata{
			Artist: firstValue(comments, flacvorbis.FIELD_ARTIST),
			Title:  firstValue(comments, flacvorbis.FIELD_TITLE),
		}, nil
	}
	return Metadata{}, ErrNoVorbisComment
}

func firstValue(comments *flacvorbis.MetaDataBlockVorbisComment, field string) string {
	values, err := comments.Get(field)
	if err != nil || len(values) == 0 {
		return ""
	}
	return strings.TrimSpace(values[0])
}
