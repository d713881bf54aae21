package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bogem/id3v2/v2"
	"github.com/go-flac/flacvorbis"
	"github.com/go-flac/go-flac"
)

// WriteTaggedMP3 writes an MP3 file containing only an ID3v2 tag. Empty
// artist or title values leave the frame out.
func WriteTaggedMP3(t testing.TB, path, artist, title string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		t.Fatalf("open id3 tag %s: %v", path, err)
	}
	defer tag.Close()

	tag.SetDefaultEncoding(id3v2.EncodingUTF8)
	if artist != "" {
		tag.SetArtist(artist)
	}
	if title != "" {
		tag.SetTitle(title)
	}
	if err := tag.Save(); err != nil {
		t.Fatalf("save id3 tag %s: %v", path, err)
	}
}

// WriteTaggedFLAC writes a minimal FLAC stream: an empty STREAMINFO block,
// an optional Vorbis comment block, and a frame sync header. A nil comments
// map omits the Vorbis comment block entirely.
func WriteTaggedFLAC(t testing.TB, path string, comments map[string]string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	file := &flac.File{
		Meta: []*flac.MetaDataBlock{
			{Type: flac.StreamInfo, Data: make([]byte, 34)},
		},
		Frames: flac.FrameData{0xFF, 0xF8, 0x00, 0x00},
	}
	if comments != nil {
		block := flacvorbis.New()
		for key, value := range comments {
			if err := block.Add(key, value); err != nil {
				t.Fatalf("add vorbis comment %s: %v", key, err)
			}
		}
		vorbis := block.Marshal()
		file.Meta = append(file.Meta, &vorbis)
	}
	if err := file.Save(path); err != nil {
		t.Fatalf("save flac %s: %v", path, err)
	}
}
