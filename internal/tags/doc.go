// Package tags reads the artist and title embedded in audio files.
//
// MP3 files are read through ID3v2 frames and FLAC files through their Vorbis
// comment block. Callers treat every error as "no metadata": a missing tag, a
// corrupt container, and an unsupported extension all fall back to filename
// heuristics.
package tags
