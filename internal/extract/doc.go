// Package extract turns one audio file into every plausible (artist, title)
// reading of it.
//
// An Extractor tries embedded tags first, then a fixed series of filename
// heuristics: separator splits, reversed splits for "title - artist" names,
// and three regular-expression patterns. Every reading that survives
// canonicalization is kept, in strategy order, duplicates included. The
// matcher downstream decides which reading lines up with the other library.
package extract
