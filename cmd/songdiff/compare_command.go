package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"songdiff/internal/library"
	"songdiff/internal/logging"
	"songdiff/internal/matching"
	"songdiff/internal/report"
	"songdiff/internal/verify"
)

type folderOutput struct {
	Dir   string `json:"dir"`
	Songs int    `json:"songs"`
	library.Diagnostics
}

type compareOutput struct {
	Reference folderOutput        `json:"reference"`
	Candidate folderOutput        `json:"candidate"`
	Unique    []string            `json:"unique"`
	Decisions []matching.Decision `json:"decisions"`
	Reports   *report.Paths       `json:"reports,omitempty"`
}

func newCompareCommand(ctx *commandContext) *cobra.Command {
	var noReport bool
	var runVerify bool
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "compare <reference-dir> <candidate-dir>",
		Short: "List candidate songs that have no version in the reference folder",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if jsonOutput && runVerify {
				return errors.New("--verify cannot be combined with --json")
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.logger(cmd, "compare")
			if err != nil {
				return err
			}
			scan, err := ctx.newScanner(cmd, logger)
			if err != nil {
				return err
			}
			defer closeScanner(scan, logger)

			reference, err := scan.builder.Build(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("scan reference folder: %w", err)
			}
			candidate, err := scan.builder.Build(cmd.Context(), args[1])
			if err != nil {
				return fmt.Errorf("scan candidate folder: %w", err)
			}

			result := matching.Match(candidate.Files, reference.Reverse)
			exact, fuzzy := result.Counts()
			logger.Info("comparison complete",
				logging.Int("candidate_songs", candidate.Files.Len()),
				logging.Int("exact", exact),
				logging.Int("fuzzy", fuzzy),
				logging.Int("unique", len(result.Unique)))

			var paths *report.Paths
			if cfg.Report.Enabled && !noReport {
				written, err := report.Writer{Dir: cfg.Report.Dir}.Write(report.Summary{
					ReferenceDir:   reference.Dir,
					CandidateDir:   candidate.Dir,
					ReferenceSongs: reference.Files.Len(),
					CandidateSongs: candidate.Files.Len(),
					Result:         result,
				})
				if err != nil {
					return err
				}
				paths = &written
				logger.Info("reports written",
					logging.String("unique_report", written.Unique),
					logging.String("details_report", written.Details))
			}

			if jsonOutput {
				return writeJSON(cmd, compareOutput{
					Reference: newFolderOutput(reference),
					Candidate: newFolderOutput(candidate),
					Unique:    nonNil(result.Unique),
					Decisions: nonNil(result.Decisions),
					Reports:   paths,
				})
			}

			con := newConsole(cmd.OutOrStdout())
			printScanTable(con, reference, candidate)
			printResult(con, result, cfg.Report.Preview)
			if paths != nil {
				con.status("Unique report", statusOK, paths.Unique)
				if paths.Details != "" {
					con.status("Match details", statusOK, paths.Details)
				}
			}

			if !runVerify {
				return nil
			}
			session := verify.Session{In: cmd.InOrStdin(), Out: cmd.OutOrStdout(), Reader: scan.reader}
			summary, err := session.Run(cmd.Context(), candidate.Dir, result.Unique, cfg.Verify.SampleSize)
			if err != nil {
				return fmt.Errorf("verification: %w", err)
			}
			if summary.Checked > 0 {
				summary.Print(cmd.OutOrStdout(), len(result.Unique))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&noReport, "no-report", false, "Skip writing report files")
	cmd.Flags().BoolVar(&runVerify, "verify", false, "Manually check a sample of the unique songs afterwards")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the result as JSON")
	return cmd
}

func newFolderOutput(index *library.Index) folderOutput {
	diag := index.Diagnostics
	diag.UnparseableFiles = nonNil(diag.UnparseableFiles)
	return folderOutput{Dir: index.Dir, Songs: index.Files.Len(), Diagnostics: diag}
}

func printScanTable(con console, indexes ...*library.Index) {
	con.section("Scan")
	rows := make([][]string, 0, len(indexes))
	for _, index := range indexes {
		diag := index.Diagnostics
		rows = append(rows, []string{
			index.Dir,
			strconv.Itoa(diag.AudioFiles),
			strconv.Itoa(diag.ParsedFiles),
			strconv.Itoa(len(diag.UnparseableFiles)),
			strconv.Itoa(index.Reverse.Len()),
		})
	}
	con.table(
		[]string{"Folder", "Audio", "Parsed", "Unparseable", "Keys"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight},
	)
	con.blank()
}

func printResult(con console, result matching.Result, preview int) {
	exact, fuzzy := result.Counts()
	con.section("Result")
	con.status("Exact matches", statusInfo, strconv.Itoa(exact))
	con.status("Fuzzy matches", statusInfo, strconv.Itoa(fuzzy))
	con.status("Unique songs", countStatus(len(result.Unique), statusWarn), strconv.Itoa(len(result.Unique)))
	con.blank()

	if len(result.Decisions) == 0 || preview <= 0 {
		return
	}
	shown := min(preview, len(result.Decisions))
	rows := make([][]string, 0, shown)
	for i, d := range result.Decisions[:shown] {
		rows = append(rows, []string{strconv.Itoa(i + 1), d.File, d.Label(), d.Detail()})
	}
	con.section("Matches")
	con.table([]string{"#", "File", "Type", "Match"}, rows, []columnAlignment{alignRight})
	if rest := len(result.Decisions) - shown; rest > 0 {
		fmt.Fprintf(con.out, "  ... and %d more\n", rest)
	}
	con.blank()
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
