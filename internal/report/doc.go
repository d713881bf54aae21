// Package report writes the text files produced by a compare run: the list of
// candidate files with no counterpart in the reference library, and the
// detail of every match that was found.
package report
