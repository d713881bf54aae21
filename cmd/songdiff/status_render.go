package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-isatty"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

const ansiReset = "\x1b[0m"

var statusStyles = map[statusKind]struct{ label, color string }{
	statusInfo:  {"INFO", "\x1b[34m"},
	statusOK:    {"OK", "\x1b[32m"},
	statusWarn:  {"WARN", "\x1b[33m"},
	statusError: {"ERROR", "\x1b[31m"},
}

const (
	statusLabelWidth = 18
	statusIndent     = "  "
)

// console writes status lines and section headers, colored when the
// destination is a terminal.
type console struct {
	out      io.Writer
	colorize bool
}

func newConsole(out io.Writer) console {
	return console{out: out, colorize: shouldColorize(out)}
}

func (c console) status(label string, kind statusKind, message string) {
	fmt.Fprintln(c.out, renderStatusLine(label, kind, message, c.colorize))
}

func (c console) section(title string) {
	for _, line := range renderSectionHeader(title, c.colorize) {
		fmt.Fprintln(c.out, line)
	}
}

func (c console) table(headers []string, rows [][]string, aligns []columnAlignment) {
	fmt.Fprintln(c.out, renderTable(headers, rows, aligns))
}

func (c console) blank() {
	fmt.Fprintln(c.out)
}

func renderStatusLine(label string, kind statusKind, message string, colorize bool) string {
	style := statusStyles[kind]
	var b strings.Builder
	fmt.Fprintf(&b, "%s%-*s [%s]", statusIndent, statusLabelWidth, label+":", style.label)
	if message != "" {
		b.WriteString(" " + message)
	}
	return paint(b.String(), style.color, colorize)
}

// countStatus reports a zero count as OK and anything else as kind.
func countStatus(n int, kind statusKind) statusKind {
	if n == 0 {
		return statusOK
	}
	return kind
}

func renderSectionHeader(title string, colorize bool) []string {
	line := "== " + strings.TrimSpace(title) + " =="
	rule := strings.Repeat("-", utf8.RuneCountInString(line))
	color := statusStyles[statusInfo].color
	return []string{paint(line, color, colorize), paint(rule, color, colorize)}
}

func paint(s, color string, colorize bool) string {
	if !colorize || color == "" {
		return s
	}
	return color + s + ansiReset
}

// shouldColorize is true for terminals unless NO_COLOR is set.
func shouldColorize(w io.Writer) bool {
	if _, off := os.LookupEnv("NO_COLOR"); off {
		return false
	}
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}
