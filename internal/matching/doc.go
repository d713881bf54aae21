// Package matching decides, for every file of a candidate library, whether
// the reference library already holds the same song.
//
// A file matches exactly when any of its interpretations is a key of the
// reference ReverseIndex. Otherwise every interpretation is scored against
// every reference key: artist similarity must exceed ArtistGate before the
// title is considered, and the best mean of artist and title similarity must
// exceed AcceptThreshold. Files that clear neither test are unique.
package matching
