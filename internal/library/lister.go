package library

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Entry is one directory member.
type Entry struct {
	Name    string
	Regular bool
}

// Lister enumerates the direct members of a directory.
type Lister interface {
	List(ctx context.Context, dir string) ([]Entry, error)
}

// OSLister lists directories on the local filesystem. Entries come back
// sorted by name; symlinks count as regular when their target is a regular
// file.
type OSLister struct{}

// List implements Lister.
func (OSLister) List(ctx context.Context, dir string) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory %s: %w", dir, err)
	}

	entries := make([]Entry, 0, len(dirEntries))
	for _, d := range dirEntries {
		entries = append(entries, Entry{Name: d.Name(), Regular: isRegular(dir, d)})
	}
	return entries, nil
}

func isRegular(dir string, d fs.DirEntry) bool {
	if d.Type().IsRegular() {
		return true
	}
	if d.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(filepath.Join(dir, d.Name()))
	return err == nil && info.Mode().IsRegular()
}
