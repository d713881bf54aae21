// Package textutil turns raw artist and title strings into comparable
// canonical forms and scores how close two canonical strings are.
//
// Canonicalize is the single basis for exact-key equality across the tool: two
// strings match exactly only when their canonical forms are byte-identical.
// Similarity is a normalized Levenshtein score in [0, 1] computed over runes.
package textutil
