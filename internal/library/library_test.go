package library_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"songdiff/internal/extract"
	"songdiff/internal/library"
	"songdiff/internal/tags"
	"songdiff/internal/testsupport"
)

type fakeLister struct {
	entries []library.Entry
	err     error
}

func (f fakeLister) List(context.Context, string) ([]library.Entry, error) {
	return f.entries, f.err
}

func newBuilder(t *testing.T, opts ...library.Option) *library.Builder {
	t.Helper()
	cfg := testsupport.NewConfig(t, testsupport.WithoutMetadata())
	return library.NewBuilder(cfg, extract.New(nil, nil), nil, opts...)
}

func TestBuildCountsAndIndexes(t *testing.T) {
	dir := testsupport.MusicDir(t,
		"Adele - Hello.mp3",
		"Untitled.flac",
		"notes.txt",
		"周杰伦-晴天.FLAC",
	)
	if err := os.Mkdir(filepath.Join(dir, "Artwork - Covers.mp3"), 0o755); err != nil {
		t.Fatal(err)
	}

	index, err := newBuilder(t).Build(context.Background(), dir)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	diag := index.Diagnostics
	if diag.TotalFiles != 5 || diag.AudioFiles != 3 || diag.ParsedFiles != 2 {
		t.Fatalf("unexpected diagnostics: %+v", diag)
	}
	if !reflect.DeepEqual(diag.UnparseableFiles, []string{"Untitled.flac"}) {
		t.Fatalf("unexpected unparseable list: %v", diag.UnparseableFiles)
	}
	if got := index.Files.Names(); !reflect.DeepEqual(got, []string{"Adele - Hello.mp3", "周杰伦-晴天.FLAC"}) {
		t.Fatalf("unexpected file order: %v", got)
	}
	if _, ok := index.Files.Get("Untitled.flac"); ok {
		t.Fatal("zero-interpretation file must not enter the FileIndex")
	}

	files, ok := index.Reverse.Files(library.Key{Artist: "adele", Title: "hello"})
	if !ok {
		t.Fatal("expected adele/hello key")
	}
	// "filename - ", "filename-" and the regex strategy all produce the same key.
	if !reflect.DeepEqual(files, []string{"Adele - Hello.mp3", "Adele - Hello.mp3", "Adele - Hello.mp3"}) {
		t.Fatalf("unexpected bucket: %v", files)
	}
	if diag.StrategyCounts["filename-"] != 2 || diag.StrategyCounts[extract.StrategyArtistTitle] != 2 {
		t.Fatalf("unexpected strategy counts: %v", diag.StrategyCounts)
	}
}

func TestBuildReverseIndexCollisions(t *testing.T) {
	dir := testsupport.MusicDir(t, "Beyoncé - Halo.mp3", "beyoncé - Halo (Live).flac")

	index, err := newBuilder(t).Build(context.Background(), dir)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	files, ok := index.Reverse.Files(library.Key{Artist: "beyoncé", Title: "halo"})
	if !ok {
		t.Fatal("expected shared key")
	}
	if files[0] != "Beyoncé - Halo.mp3" || files[len(files)-1] != "beyoncé - Halo (Live).flac" {
		t.Fatalf("expected both files in listing order, got %v", files)
	}
	if index.Reverse.Keys()[0] != (library.Key{Artist: "beyoncé", Title: "halo"}) {
		t.Fatalf("expected first key to be the first extraction, got %v", index.Reverse.Keys()[0])
	}
}

func TestBuildIsIndependentOfWorkerCount(t *testing.T) {
	names := []string{
		"A - One.mp3", "B-Two.mp3", "C_Three.flac", "Four by D.mp3", "E ft. F - Five.mp3",
		"G~Six.flac", "Seven.mp3", "H - Eight (Live).mp3", "I - Nine [Remix].flac", "J-Ten.mp3",
	}
	dir := testsupport.MusicDir(t, names...)
	ctx := context.Background()

	serial, err := library.NewBuilder(testsupport.NewConfig(t, testsupport.WithWorkers(1), testsupport.WithoutMetadata()),
		extract.New(nil, nil), nil).Build(ctx, dir)
	if err != nil {
		t.Fatalf("serial Build: %v", err)
	}
	parallel, err := library.NewBuilder(testsupport.NewConfig(t, testsupport.WithWorkers(8), testsupport.WithoutMetadata()),
		extract.New(nil, nil), nil).Build(ctx, dir)
	if err != nil {
		t.Fatalf("parallel Build: %v", err)
	}

	if !reflect.DeepEqual(serial.Files.Entries(), parallel.Files.Entries()) {
		t.Fatal("FileIndex differs between worker counts")
	}
	if !reflect.DeepEqual(serial.Reverse.Keys(), parallel.Reverse.Keys()) {
		t.Fatal("ReverseIndex key order differs between worker counts")
	}
	if !reflect.DeepEqual(serial.Diagnostics, parallel.Diagnostics) {
		t.Fatalf("diagnostics differ: %+v vs %+v", serial.Diagnostics, parallel.Diagnostics)
	}
}

func TestBuildUsesEmbeddedTags(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "tagged")
	testsupport.WriteTaggedMP3(t, filepath.Join(dir, "track01.mp3"), "Adele", "Hello")

	cfg := testsupport.NewConfig(t)
	index, err := library.NewBuilder(cfg, extract.New(tags.NewFileReader(), nil), nil).Build(context.Background(), dir)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	interps, ok := index.Files.Get("track01.mp3")
	if !ok || len(interps) != 1 || interps[0].Strategy != extract.StrategyMetadata {
		t.Fatalf("expected metadata interpretation, got %+v", interps)
	}
}

func TestBuildInvalidInput(t *testing.T) {
	file := filepath.Join(t.TempDir(), "song.mp3")
	testsupport.WriteFile(t, file, 1)

	for name, dir := range map[string]string{
		"empty":         "",
		"blank":         "   ",
		"missing":       filepath.Join(t.TempDir(), "nope"),
		"not directory": file,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := newBuilder(t).Build(context.Background(), dir)
			if !errors.Is(err, library.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestBuildEmptyDirectory(t *testing.T) {
	index, err := newBuilder(t).Build(context.Background(), t.TempDir())
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	if index.Files.Len() != 0 || index.Reverse.Len() != 0 || index.Diagnostics.TotalFiles != 0 {
		t.Fatalf("expected empty index, got %+v", index.Diagnostics)
	}
}

func TestBuildWithCustomLister(t *testing.T) {
	lister := fakeLister{entries: []library.Entry{
		{Name: "Z - Last.mp3", Regular: true},
		{Name: "A - First.mp3", Regular: true},
		{Name: "dir.mp3", Regular: false},
	}}
	index, err := newBuilder(t, library.WithLister(lister)).Build(context.Background(), t.TempDir())
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	if got := index.Files.Names(); !reflect.DeepEqual(got, []string{"Z - Last.mp3", "A - First.mp3"}) {
		t.Fatalf("expected lister order to be kept, got %v", got)
	}
	if index.Diagnostics.TotalFiles != 3 || index.Diagnostics.AudioFiles != 2 {
		t.Fatalf("unexpected diagnostics: %+v", index.Diagnostics)
	}
}

func TestBuildListerError(t *testing.T) {
	boom := errors.New("boom")
	_, err := newBuilder(t, library.WithLister(fakeLister{err: boom})).Build(context.Background(), t.TempDir())
	if !errors.Is(err, boom) {
		t.Fatalf("expected lister error, got %v", err)
	}
}

func TestBuildCanceled(t *testing.T) {
	dir := testsupport.MusicDir(t, "A - One.mp3")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := newBuilder(t).Build(ctx, dir); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestOSListerSortedWithSymlinks(t *testing.T) {
	dir := testsupport.MusicDir(t, "b.mp3", "a.mp3")
	if err := os.Symlink(filepath.Join(dir, "a.mp3"), filepath.Join(dir, "c.mp3")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}
	if err := os.Symlink(filepath.Join(dir, "missing"), filepath.Join(dir, "d.mp3")); err != nil {
		t.Fatal(err)
	}

	entries, err := library.OSLister{}.List(context.Background(), dir)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	want := []library.Entry{
		{Name: "a.mp3", Regular: true},
		{Name: "b.mp3", Regular: true},
		{Name: "c.mp3", Regular: true},
		{Name: "d.mp3", Regular: false},
	}
	if !reflect.DeepEqual(entries, want) {
		t.Fatalf("got %+v, want %+v", entries, want)
	}
}

func TestStrategyUsageOrder(t *testing.T) {
	diag := library.Diagnostics{StrategyCounts: map[string]int{
		extract.StrategyArtistTitle: 4,
		"filename-":                 2,
		extract.StrategyMetadata:    1,
		"custom":                    3,
		"filename_":                 0,
	}}
	want := []library.StrategyCount{
		{Strategy: extract.StrategyMetadata, Count: 1},
		{Strategy: "filename-", Count: 2},
		{Strategy: extract.StrategyArtistTitle, Count: 4},
		{Strategy: "custom", Count: 3},
	}
	if got := diag.StrategyUsage(); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}
