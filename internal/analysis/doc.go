// Package analysis surveys how two music folders name their files before a
// full comparison is run: which separator conventions dominate each side and
// how many candidate names share a plain substring with some reference name.
package analysis
