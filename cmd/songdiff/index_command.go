package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"songdiff/internal/library"
)

type indexOutput struct {
	folderOutput
	Strategies []library.StrategyCount `json:"strategies"`
	Files      []library.FileEntry     `json:"files"`
}

func newIndexCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "index <dir>",
		Short: "Scan one folder and show how its filenames were interpreted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := ctx.logger(cmd, "index")
			if err != nil {
				return err
			}
			scan, err := ctx.newScanner(cmd, logger)
			if err != nil {
				return err
			}
			defer closeScanner(scan, logger)

			index, err := scan.builder.Build(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("scan folder: %w", err)
			}

			if jsonOutput {
				return writeJSON(cmd, indexOutput{
					folderOutput: newFolderOutput(index),
					Strategies:   nonNil(index.Diagnostics.StrategyUsage()),
					Files:        nonNil(index.Files.Entries()),
				})
			}
			printIndex(newConsole(cmd.OutOrStdout()), index)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print diagnostics and interpretations as JSON")
	return cmd
}

func printIndex(con console, index *library.Index) {
	diag := index.Diagnostics
	con.section(index.Dir)
	con.status("Files", statusInfo, strconv.Itoa(diag.TotalFiles))
	con.status("Audio files", statusInfo, strconv.Itoa(diag.AudioFiles))
	con.status("Parsed", statusInfo, strconv.Itoa(diag.ParsedFiles))
	con.status("Unparseable", countStatus(len(diag.UnparseableFiles), statusWarn), strconv.Itoa(len(diag.UnparseableFiles)))
	con.status("Distinct keys", statusInfo, strconv.Itoa(index.Reverse.Len()))
	con.blank()

	if usage := diag.StrategyUsage(); len(usage) > 0 {
		rows := make([][]string, 0, len(usage))
		total := 0
		for _, u := range usage {
			rows = append(rows, []string{u.Strategy, strconv.Itoa(u.Count)})
			total += u.Count
		}
		con.section("Strategies")
		fmt.Fprintln(con.out, renderTableWithFooter(
			[]string{"Strategy", "Interpretations"},
			rows,
			[]string{"Total", strconv.Itoa(total)},
			[]columnAlignment{alignLeft, alignRight},
		))
		con.blank()
	}

	if len(diag.UnparseableFiles) > 0 {
		con.section("Unparseable files")
		for _, name := range diag.UnparseableFiles {
			fmt.Fprintf(con.out, "  - %s\n", name)
		}
		con.blank()
	}
}
