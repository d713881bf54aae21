// Package main hosts the songdiff CLI entrypoint and command graph.
//
// The Cobra command tree turns terminal invocations into folder scans,
// comparisons, naming surveys, tag cache maintenance, and configuration
// scaffolding. It resolves configuration and builds the run-scoped logger once
// so subcommands only deal with presentation.
//
// Keep this package thin: matching behavior belongs in the internal packages
// and is surfaced here through commands and flags.
package main
