package tags_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-flac/flacvorbis"

	"songdiff/internal/tags"
	"songdiff/internal/testsupport"
)

func TestReadMP3(t *testing.T) {
	path := filepath.Join(t.TempDir(), "song.mp3")
	testsupport.WriteTaggedMP3(t, path, "周杰伦", " 晴天 ")

	meta, err := tags.NewFileReader().Read(context.Background(), path)
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	if meta.Artist != "周杰伦" || meta.Title != "晴天" {
		t.Fatalf("unexpected metadata: %+v", meta)
	}
	if !meta.Complete() {
		t.Fatal("expected complete metadata")
	}
}

func TestReadMP3WithoutTitle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "SONG.MP3")
	testsupport.WriteTaggedMP3(t, path, "Adele", "")

	meta, err := tags.NewFileReader().Read(context.Background(), path)
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	if meta.Artist != "Adele" || meta.Title != "" {
		t.Fatalf("unexpected metadata: %+v", meta)
	}
	if meta.Complete() {
		t.Fatal("metadata without title must not be complete")
	}
}

func TestReadFLAC(t *testing.T) {
	path := filepath.Join(t.TempDir(), "song.flac")
	testsupport.WriteTaggedFLAC(t, path, map[string]string{
		flacvorbis.FIELD_ARTIST: "Adele",
		"title":                 "Hello",
	})

	meta, err := tags.NewFileReader().Read(context.Background(), path)
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	if meta.Artist != "Adele" || meta.Title != "Hello" {
		t.Fatalf("unexpected metadata: %+v", meta)
	}
}

func TestReadFLACWithoutComments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bare.flac")
	testsupport.WriteTaggedFLAC(t, path, nil)

	_, err := tags.NewFileReader().Read(context.Background(), path)
	if !errors.Is(err, tags.ErrNoVorbisComment) {
		t.Fatalf("expected ErrNoVorbisComment, got %v", err)
	}
}

func TestReadCorruptFLAC(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.flac")
	if err := os.WriteFile(path, []byte("not a flac stream"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := tags.NewFileReader().Read(context.Background(), path); err == nil {
		t.Fatal("expected error for corrupt flac")
	}
}

func TestReadUnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "song.ogg")
	if err := os.WriteFile(path, []byte("OggS"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err := tags.NewFileReader().Read(context.Background(), path)
	if !errors.Is(err, tags.ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}

func TestReadHonorsCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := tags.NewFileReader().Read(ctx, "irrelevant.mp3"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestMetadataComplete(t *testing.T) {
	tests := []struct {
		meta tags.Metadata
		want bool
	}{
		{tags.Metadata{Artist: "a", Title: "b"}, true},
		{tags.Metadata{Artist: "  ", Title: "b"}, false},
		{tags.Metadata{Artist: "a"}, false},
		{tags.Metadata{}, false},
	}
	for _, tt := range tests {
		if got := tt.meta.Complete(); got != tt.want {
			t.Errorf("Complete(%+v) = %v, want %v", tt.meta, got, tt.want)
		}
	}
}
