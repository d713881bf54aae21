package verify

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"songdiff/internal/tags"
)

// Verdict is the user's answer for one sampled file.
type Verdict int

const (
	Skipped Verdict = iota
	// ConfirmedUnique means the reference library has no version of the file.
	ConfirmedUnique
	// FalsePositive means the reference library does have a version.
	FalsePositive
)

func (v Verdict) String() string {
	switch v {
	case ConfirmedUnique:
		return "confirmed unique"
	case FalsePositive:
		return "false positive"
	default:
		return "skipped"
	}
}

// Answer records one prompt.
type Answer struct {
	File    string
	Verdict Verdict
}

// Summary aggregates a verification session.
type Summary struct {
	Answers        []Answer
	Checked        int
	Confirmed      int
	FalsePositives int
	Skipped        int
	// Accuracy is the percentage of checked files confirmed unique.
	Accuracy float64
	// Estimated is the projected number of truly unique files; valid only when
	// HasEstimate is set.
	Estimated   float64
	HasEstimate bool
}

// Session prompts on Out and reads answers from In.
type Session struct {
	In     io.Reader
	Out    io.Writer
	Reader tags.Reader
}

// Run samples the first sampleSize entries of unique, which are filenames in
// candidateDir. Input ending early closes the session with the answers given
// so far.
func (s Session) Run(ctx context.Context, candidateDir string, unique []string, sampleSize int) (Summary, error) {
	if len(unique) == 0 {
		fmt.Fprintln(s.Out, "No unique songs to verify.")
		return Summary{}, nil
	}
	if sampleSize <= 0 || sampleSize > len(unique) {
		sampleSize = len(unique)
	}
	sample := unique[:sampleSize]

	fmt.Fprintf(s.Out, "Verifying %d sample(s). Answer y if the reference folder has a version, n if not, anything else to skip.\n", len(sample))
	in := bufio.NewReader(s.In)

	var summary Summary
	for i, name := range sample {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		fmt.Fprintf(s.Out, "\n%2d. File: %s\n", i+1, name)
		fmt.Fprintf(s.Out, "    %s\n", s.describe(ctx, filepath.Join(candidateDir, name)))
		fmt.Fprint(s.Out, "    Does the reference folder have this song? (y/n/s): ")

		line, err := in.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return summary, fmt.Errorf("read answer: %w", err)
		}
		if errors.Is(err, io.EOF) && line == "" {
			fmt.Fprintln(s.Out)
			break
		}

		verdict := parseAnswer(line)
		fmt.Fprintf(s.Out, "    -> %s\n", verdict)
		summary.Answers = append(summary.Answers, Answer{File: name, Verdict: verdict})
	}

	summary.tally(len(unique))
	return summary, nil
}

func (s Session) describe(ctx context.Context, path string) string {
	if s.Reader == nil {
		return "Metadata unavailable"
	}
	meta, err := s.Reader.Read(ctx, path)
	if err != nil || !meta.Complete() {
		return "Metadata unavailable"
	}
	return fmt.Sprintf("Metadata: %s - %s", meta.Artist, meta.Title)
}

func parseAnswer(line string) Verdict {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y":
		return FalsePositive
	case "n":
		return ConfirmedUnique
	default:
		return Skipped
	}
}

func (s *Summary) tally(uniqueCount int) {
	s.Checked = len(s.Answers)
	for _, a := range s.Answers {
		switch a.Verdict {
		case ConfirmedUnique:
			s.Confirmed++
		case FalsePositive:
			s.FalsePositives++
		default:
			s.Skipped++
		}
	}
	if s.Checked > 0 {
		s.Accuracy = float64(s.Confirmed) / float64(s.Checked) * 100
	}
	if answered := s.Confirmed + s.FalsePositives; answered > 0 {
		s.Estimated = float64(uniqueCount) * float64(s.Confirmed) / float64(answered)
		s.HasEstimate = true
	}
}

// Print writes the session summary.
func (s Summary) Print(w io.Writer, uniqueCount int) {
	fmt.Fprintln(w, "\nVerification results:")
	fmt.Fprintf(w, "  Checked: %d\n", s.Checked)
	fmt.Fprintf(w, "  Confirmed unique: %d\n", s.Confirmed)
	fmt.Fprintf(w, "  False positives: %d\n", s.FalsePositives)
	fmt.Fprintf(w, "  Skipped: %d\n", s.Skipped)
	fmt.Fprintf(w, "  Accuracy: %.1f%%\n", s.Accuracy)
	if s.HasEstimate {
		fmt.Fprintln(w, "\nEstimate from sample:")
		fmt.Fprintf(w, "  Reported unique: %d\n", uniqueCount)
		fmt.Fprintf(w, "  Estimated truly unique: %.0f\n", s.Estimated)
	}
}
