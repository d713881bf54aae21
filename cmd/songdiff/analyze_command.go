package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"songdiff/internal/analysis"
	"songdiff/internal/logging"
)

func newAnalyzeCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "analyze <reference-dir> <candidate-dir>",
		Short: "Survey filename patterns in both folders",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.logger(cmd, "analyze")
			if err != nil {
				return err
			}

			rep, err := analysis.New(cfg, nil).Analyze(cmd.Context(), args[0], args[1])
			if err != nil {
				return fmt.Errorf("analyze folders: %w", err)
			}
			logger.Debug("naming survey complete",
				logging.Int("reference_files", rep.Reference.AudioFiles),
				logging.Int("candidate_files", rep.Candidate.AudioFiles),
				logging.Int("contained", rep.Contained))

			if jsonOutput {
				return writeJSON(cmd, rep)
			}
			con := newConsole(cmd.OutOrStdout())
			printFolderPatterns(con, "Reference", rep.Reference)
			printFolderPatterns(con, "Candidate", rep.Candidate)
			con.section("Containment")
			con.status("Overlapping names", statusInfo, fmt.Sprintf("%d of %d sampled", rep.Contained, rep.Sampled))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the survey as JSON")
	return cmd
}

func printFolderPatterns(con console, label string, folder analysis.Folder) {
	con.section(label + ": " + folder.Dir)
	con.status("Audio files", statusInfo, strconv.Itoa(folder.AudioFiles))
	if len(folder.Patterns) > 0 {
		rows := make([][]string, 0, len(folder.Patterns))
		for _, p := range folder.Patterns {
			rows = append(rows, []string{p.Pattern, strconv.Itoa(p.Count), fmt.Sprintf("%.1f%%", p.Percent)})
		}
		con.table([]string{"Pattern", "Files", "Share"}, rows, []columnAlignment{alignLeft, alignRight, alignRight})
	}
	con.blank()
}
