package analysis

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"songdiff/internal/config"
	"songdiff/internal/extract"
	"songdiff/internal/library"
)

// Naming pattern labels, checked in this order.
const (
	PatternSpacedDash  = `" - " separated`
	PatternDash        = `"-" separated`
	PatternUnderscore  = `"_" separated`
	PatternSpace       = "space separated"
	PatternSpecialChar = "special-char separated"
	PatternCJK         = "CJK without separator"
	PatternOther       = "other"
)

const (
	// TopPatterns is how many patterns a Folder report keeps.
	TopPatterns = 5
	// ContainmentSample is how many candidate names the containment test checks.
	ContainmentSample = 20
)

var specialSeparators = []string{"·", "•", "・"}

// PatternCount is one naming pattern and the share of files using it.
type PatternCount struct {
	Pattern string  `json:"pattern"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// Folder describes the audio files of one folder.
type Folder struct {
	Dir        string         `json:"dir"`
	AudioFiles int            `json:"audio_files"`
	Patterns   []PatternCount `json:"patterns"`
}

// Report is the outcome of Analyze.
type Report struct {
	Reference Folder `json:"reference"`
	Candidate Folder `json:"candidate"`
	// Sampled is the number of candidate names the containment test looked at.
	Sampled int `json:"sampled"`
	// Contained counts sampled names that contain, or are contained in, some
	// reference name after lowercasing.
	Contained int `json:"contained"`
}

// Analyzer runs the naming survey.
type Analyzer struct {
	cfg    *config.Config
	lister library.Lister
}

// New returns an Analyzer. A nil lister uses the filesystem.
func New(cfg *config.Config, lister library.Lister) *Analyzer {
	if lister == nil {
		lister = library.OSLister{}
	}
	return &Analyzer{cfg: cfg, lister: lister}
}

// Analyze surveys both folders.
func (a *Analyzer) Analyze(ctx context.Context, referenceDir, candidateDir string) (Report, error) {
	refNames, err := a.audioNames(ctx, referenceDir)
	if err != nil {
		return Report{}, err
	}
	candNames, err := a.audioNames(ctx, candidateDir)
	if err != nil {
		return Report{}, err
	}

	sampled, contained := Containment(refNames, candNames, ContainmentSample)
	return Report{
		Reference: Folder{Dir: referenceDir, AudioFiles: len(refNames), Patterns: TopN(ClassifyAll(refNames), len(refNames), TopPatterns)},
		Candidate: Folder{Dir: candidateDir, AudioFiles: len(candNames), Patterns: TopN(ClassifyAll(candNames), len(candNames), TopPatterns)},
		Sampled:   sampled,
		Contained: contained,
	}, nil
}

// audioNames lists dir and keeps entries with an audio extension. Directory
// entries are not filtered out, matching a plain name-based survey.
func (a *Analyzer) audioNames(ctx context.Context, dir string) ([]string, error) {
	entries, err := a.lister.List(ctx, dir)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %v", library.ErrInvalidInput, err)
	}
	var names []string
	for _, e := range entries {
		if a.cfg.IsAudioExtension(filepath.Ext(e.Name)) {
			names = append(names, e.Name)
		}
	}
	return names, nil
}

// Classify returns the naming pattern of one filename.
func Classify(filename string) string {
	name := extract.Stem(filename)
	switch {
	case strings.Contains(name, " - "):
		return PatternSpacedDash
	case strings.Contains(name, "-"):
		return PatternDash
	case strings.Contains(name, "_"):
		return PatternUnderscore
	case strings.Contains(name, " "):
		return PatternSpace
	case containsAny(name, specialSeparators):
		return PatternSpecialChar
	case countCJK(name) >= 2:
		return PatternCJK
	default:
		return PatternOther
	}
}

// ClassifyAll counts patterns across filenames.
func ClassifyAll(filenames []string) map[string]int {
	counts := make(map[string]int)
	for _, name := range filenames {
		counts[Classify(name)]++
	}
	return counts
}

// TopN returns the n most common patterns, ties broken by pattern order.
// Percentages are relative to total.
func TopN(counts map[string]int, total, n int) []PatternCount {
	order := map[string]int{
		PatternSpacedDash: 0, PatternDash: 1, PatternUnderscore: 2, PatternSpace: 3,
		PatternSpecialChar: 4, PatternCJK: 5, PatternOther: 6,
	}
	out := make([]PatternCount, 0, len(counts))
	for pattern, count := range counts {
		pc := PatternCount{Pattern: pattern, Count: count}
		if total > 0 {
			pc.Percent = float64(count) / float64(total) * 100
		}
		out = append(out, pc)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return order[out[i].Pattern] < order[out[j].Pattern]
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// Containment checks the first sample candidate stems: a stem counts when it
// contains, or is contained in, any reference stem. Comparison is on
// lowercased stems.
func Containment(reference, candidate []string, sample int) (sampled, contained int) {
	lower := cases.Lower(language.Und)
	refStems := make([]string, len(reference))
	for i, name := range reference {
		refStems[i] = lower.String(extract.Stem(name))
	}

	if len(candidate) < sample {
		sample = len(candidate)
	}
	for _, name := range candidate[:sample] {
		stem := lower.String(extract.Stem(name))
		for _, ref := range refStems {
			if strings.Contains(stem, ref) || strings.Contains(ref, stem) {
				contained++
				break
			}
		}
	}
	return sample, contained
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func countCJK(s string) int {
	n := 0
	for _, r := range s {
		if r >= 0x4E00 && r <= 0x9FFF {
			n++
		}
	}
	return n
}
