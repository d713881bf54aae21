package matching

import (
	"fmt"

	"songdiff/internal/extract"
	"songdiff/internal/library"
	"songdiff/internal/textutil"
)

const (
	// ArtistGate is the artist similarity a reference key must exceed before
	// its title is compared.
	ArtistGate = 0.8
	// AcceptThreshold is the mean similarity a fuzzy match must exceed.
	AcceptThreshold = 0.85
)

// Type distinguishes exact and fuzzy matches.
type Type string

const (
	Exact Type = "exact"
	Fuzzy Type = "fuzzy"
)

// Decision records why a candidate file was considered present in the
// reference library.
type Decision struct {
	File string `json:"file"`
	Type Type   `json:"type"`
	// Similarity is 1 for exact matches and the winning mean score for fuzzy ones.
	Similarity float64 `json:"similarity"`
	// Interpretation is the candidate reading that produced the match.
	Interpretation extract.Interpretation `json:"interpretation"`
	ReferenceFile  string                 `json:"reference_file"`
	ReferenceKey   library.Key            `json:"reference_key"`
}

// Label renders the decision type for reports, e.g. "exact" or "fuzzy(87.5%)".
func (d Decision) Label() string {
	if d.Type == Fuzzy {
		return fmt.Sprintf("fuzzy(%.1f%%)", d.Similarity*100)
	}
	return string(d.Type)
}

// Detail renders what was matched: the strategy and reference file for exact
// matches, both artist-title pairs for fuzzy ones.
func (d Decision) Detail() string {
	if d.Type == Fuzzy {
		return fmt.Sprintf("%s-%s → %s-%s",
			d.Interpretation.Artist, d.Interpretation.Title,
			d.ReferenceKey.Artist, d.ReferenceKey.Title)
	}
	return fmt.Sprintf("%s → %s", d.Interpretation.Strategy, d.ReferenceFile)
}

// Result is the outcome of a Match call. Unique and Decisions both follow
// candidate FileIndex order and together cover every candidate file once.
type Result struct {
	Unique    []string   `json:"unique"`
	Decisions []Decision `json:"decisions"`
}

// Matched returns the number of candidate files found in the reference.
func (r Result) Matched() int {
	return len(r.Decisions)
}

// Counts returns the number of exact and fuzzy decisions.
func (r Result) Counts() (exact, fuzzy int) {
	for _, d := range r.Decisions {
		if d.Type == Fuzzy {
			fuzzy++
		} else {
			exact++
		}
	}
	return exact, fuzzy
}

// Match classifies every candidate file against the reference index.
func Match(candidates *library.FileIndex, reference *library.ReverseIndex) Result {
	var result Result
	for _, entry := range candidates.Entries() {
		if d, ok := matchExact(entry, reference); ok {
			result.Decisions = append(result.Decisions, d)
			continue
		}
		if d, ok := matchFuzzy(entry, reference); ok {
			result.Decisions = append(result.Decisions, d)
			continue
		}
		result.Unique = append(result.Unique, entry.Name)
	}
	return result
}

func matchExact(entry library.FileEntry, reference *library.ReverseIndex) (Decision, bool) {
	for _, interp := range entry.Interpretations {
		key := library.KeyOf(interp)
		files, ok := reference.Files(key)
		if !ok || len(files) == 0 {
			continue
		}
		return Decision{
			File:           entry.Name,
			Type:           Exact,
			Similarity:     1.0,
			Interpretation: interp,
			ReferenceFile:  files[0],
			ReferenceKey:   key,
		}, true
	}
	return Decision{}, false
}

func matchFuzzy(entry library.FileEntry, reference *library.ReverseIndex) (Decision, bool) {
	var (
		best     float64
		found    bool
		decision Decision
	)
	for _, interp := range entry.Interpretations {
		for _, key := range reference.Keys() {
			score, ok := Score(key, interp)
			if !ok || score <= best {
				continue
			}
			best = score
			found = true
			decision = Decision{
				File:           entry.Name,
				Type:           Fuzzy,
				Similarity:     score,
				Interpretation: interp,
				ReferenceKey:   key,
			}
		}
	}
	if !found || best <= AcceptThreshold {
		return Decision{}, false
	}
	if files, ok := reference.Files(decision.ReferenceKey); ok && len(files) > 0 {
		decision.ReferenceFile = files[0]
	}
	return decision, true
}

// Score returns the mean of artist and title similarity between a reference
// key and a candidate interpretation. ok is false when the artist similarity
// does not exceed ArtistGate.
func Score(key library.Key, interp extract.Interpretation) (float64, bool) {
	artistSim := textutil.Similarity(key.Artist, interp.Artist)
	if artistSim <= ArtistGate {
		return 0, false
	}
	titleSim := textutil.Similarity(key.Title, interp.Title)
	return (artistSim + titleSim) / 2, true
}
