package library

import "songdiff/internal/extract"

// Key is an exact canonical (artist, title) pair.
type Key struct {
	Artist string `json:"artist"`
	Title  string `json:"title"`
}

// KeyOf returns the key of an interpretation.
func KeyOf(i extract.Interpretation) Key {
	return Key{Artist: i.Artist, Title: i.Title}
}

// FileEntry is one FileIndex row.
type FileEntry struct {
	Name            string                   `json:"name"`
	Interpretations []extract.Interpretation `json:"interpretations"`
}

// FileIndex maps filenames to their interpretations, preserving insertion order.
type FileIndex struct {
	entries []FileEntry
	pos     map[string]int
}

// NewFileIndex returns an empty FileIndex.
func NewFileIndex() *FileIndex {
	return &FileIndex{pos: make(map[string]int)}
}

// Add stores interpretations for name. Adding an existing name replaces its
// interpretations in place.
func (x *FileIndex) Add(name string, interps []extract.Interpretation) {
	if i, ok := x.pos[name]; ok {
		x.entries[i].Interpretations = interps
		return
	}
	x.pos[name] = len(x.entries)
	x.entries = append(x.entries, FileEntry{Name: name, Interpretations: interps})
}

// Get returns the interpretations recorded for name.
func (x *FileIndex) Get(name string) ([]extract.Interpretation, bool) {
	i, ok := x.pos[name]
	if !ok {
		return nil, false
	}
	return x.entries[i].Interpretations, true
}

// Len returns the number of files.
func (x *FileIndex) Len() int {
	if x == nil {
		return 0
	}
	return len(x.entries)
}

// Entries returns the rows in insertion order. The slice must not be modified.
func (x *FileIndex) Entries() []FileEntry {
	if x == nil {
		return nil
	}
	return x.entries
}

// Names returns the filenames in insertion order.
func (x *FileIndex) Names() []string {
	names := make([]string, 0, x.Len())
	for _, e := range x.Entries() {
		names = append(names, e.Name)
	}
	return names
}

// ReverseIndex maps exact keys to the files that produced them. Keys keep
// first-insertion order and each file list keeps append order.
type ReverseIndex struct {
	keys  []Key
	files map[Key][]string
}

// NewReverseIndex returns an empty ReverseIndex.
func NewReverseIndex() *ReverseIndex {
	return &ReverseIndex{files: make(map[Key][]string)}
}

// Add appends file to the bucket for key. A file producing the same key twice
// appears twice.
func (r *ReverseIndex) Add(key Key, file string) {
	if _, ok := r.files[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.files[key] = append(r.files[key], file)
}

// Files returns the bucket for key.
func (r *ReverseIndex) Files(key Key) ([]string, bool) {
	if r == nil {
		return nil, false
	}
	files, ok := r.files[key]
	return files, ok
}

// Keys returns the keys in first-insertion order. The slice must not be modified.
func (r *ReverseIndex) Keys() []Key {
	if r == nil {
		return nil
	}
	return r.keys
}

// Len returns the number of distinct keys.
func (r *ReverseIndex) Len() int {
	if r == nil {
		return 0
	}
	return len(r.keys)
}

// BuildReverse derives the ReverseIndex for a FileIndex: files in index order,
// interpretations in extraction order.
func BuildReverse(files *FileIndex) *ReverseIndex {
	reverse := NewReverseIndex()
	for _, entry := range files.Entries() {
		for _, interp := range entry.Interpretations {
			reverse.Add(KeyOf(interp), entry.Name)
		}
	}
	return reverse
}
