// Package library scans one music folder into the two lookup structures the
// matcher needs.
//
// The FileIndex maps each parseable audio file to its interpretations in
// directory-listing order. The ReverseIndex maps each exact (artist, title)
// key to the files that produced it, keys in first-seen order. Diagnostics
// record how many entries were seen, how many were audio, which files yielded
// nothing, and how often each extraction strategy fired.
package library
