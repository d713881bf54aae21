package report

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"songdiff/internal/fileutil"
	"songdiff/internal/matching"
)

const (
	timestampLayout = "20060102_150405"
	generatedLayout = "2006-01-02 15:04:05"
	uniquePrefix    = "unique_songs_"
	detailsPrefix   = "match_details_"
)

// Summary is everything a report needs from one compare run.
type Summary struct {
	ReferenceDir   string
	CandidateDir   string
	ReferenceSongs int
	CandidateSongs int
	Result         matching.Result
}

// Paths lists the files written by Write. Details is empty when there were no
// matches.
type Paths struct {
	Unique  string `json:"unique"`
	Details string `json:"details,omitempty"`
}

// Writer writes reports into Dir. Now defaults to time.Now.
type Writer struct {
	Dir string
	Now func() time.Time
}

// Write renders both reports. The match-detail file is skipped when the run
// produced no decisions.
func (w Writer) Write(summary Summary) (Paths, error) {
	if strings.TrimSpace(w.Dir) == "" {
		return Paths{}, errors.New("report directory is empty")
	}
	now := time.Now
	if w.Now != nil {
		now = w.Now
	}
	generated := now()
	stamp := generated.Format(timestampLayout)

	var paths Paths
	paths.Unique = filepath.Join(w.Dir, uniquePrefix+stamp+".txt")
	if err := fileutil.WriteAtomic(paths.Unique, 0o644, func(out io.Writer) error {
		return writeUnique(out, summary, generated)
	}); err != nil {
		return Paths{}, fmt.Errorf("write unique report: %w", err)
	}

	if len(summary.Result.Decisions) == 0 {
		return paths, nil
	}
	paths.Details = filepath.Join(w.Dir, detailsPrefix+stamp+".txt")
	if err := fileutil.WriteAtomic(paths.Details, 0o644, func(out io.Writer) error {
		return writeDetails(out, summary.Result.Decisions)
	}); err != nil {
		return paths, fmt.Errorf("write match details: %w", err)
	}
	return paths, nil
}

func writeUnique(out io.Writer, s Summary, generated time.Time) error {
	bw := bufio.NewWriter(out)
	fmt.Fprintln(bw, "songdiff - unique songs")
	fmt.Fprintln(bw, strings.Repeat("=", 60))
	fmt.Fprintln(bw)
	fmt.Fprintf(bw, "Generated: %s\n\n", generated.Format(generatedLayout))
	fmt.Fprintf(bw, "Reference folder: %s\n", s.ReferenceDir)
	fmt.Fprintf(bw, "  Songs: %d\n", s.ReferenceSongs)
	fmt.Fprintf(bw, "Candidate folder: %s\n", s.CandidateDir)
	fmt.Fprintf(bw, "  Songs: %d\n\n", s.CandidateSongs)
	fmt.Fprintf(bw, "Unique songs: %d\n\n", len(s.Result.Unique))
	fmt.Fprintln(bw, "Unique song list:")
	fmt.Fprintln(bw, strings.Repeat("-", 60))
	for i, name := range s.Result.Unique {
		fmt.Fprintf(bw, "%3d. %s\n", i+1, name)
	}
	return bw.Flush()
}

func writeDetails(out io.Writer, decisions []matching.Decision) error {
	bw := bufio.NewWriter(out)
	fmt.Fprintln(bw, "songdiff - match details")
	fmt.Fprintln(bw, strings.Repeat("=", 80))
	fmt.Fprintln(bw)
	fmt.Fprintf(bw, "Matches: %d\n\n", len(decisions))
	for i, d := range decisions {
		fmt.Fprintf(bw, "%3d. %s\n", i+1, d.File)
		fmt.Fprintf(bw, "    Type: %s\n", d.Label())
		fmt.Fprintf(bw, "    Match: %s\n\n", d.Detail())
	}
	return bw.Flush()
}
