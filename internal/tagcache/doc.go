// Package tagcache persists embedded-tag reads in a SQLite database so repeat
// comparisons over large libraries skip re-parsing unchanged files.
//
// A Cache decorates any tags.Reader. Rows are keyed by absolute path and are
// only reused when the file size and modification time still match. A file
// lock next to the database keeps two runs from sharing one cache.
package tagcache
