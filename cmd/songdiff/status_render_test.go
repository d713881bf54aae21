package main

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"testing"
)

func TestRenderStatusLineNoColor(t *testing.T) {
	got := renderStatusLine("Unique songs", statusWarn, "12", false)
	want := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, "Unique songs:", "[WARN] 12")
	if got != want {
		t.Fatalf("renderStatusLine mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestRenderStatusLineWithColor(t *testing.T) {
	got := renderStatusLine("Configuration", statusOK, "valid", true)
	if !strings.HasPrefix(got, statusStyles[statusOK].color) {
		t.Fatalf("expected green prefix, got %q", got)
	}
	if !strings.HasSuffix(got, ansiReset) {
		t.Fatalf("expected reset suffix, got %q", got)
	}
}

func TestRenderStatusLineWithoutMessage(t *testing.T) {
	got := renderStatusLine("Scan", statusInfo, "", false)
	if !strings.HasSuffix(got, "[INFO]") {
		t.Fatalf("expected bare status, got %q", got)
	}
}

func TestCountStatus(t *testing.T) {
	if got := countStatus(0, statusWarn); got != statusOK {
		t.Fatalf("zero count should be OK, got %v", got)
	}
	if got := countStatus(3, statusWarn); got != statusWarn {
		t.Fatalf("non-zero count should keep kind, got %v", got)
	}
}

func TestRenderSectionHeaderCountsRunes(t *testing.T) {
	lines := renderSectionHeader("周杰伦", false)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0] != "== 周杰伦 ==" || lines[1] != strings.Repeat("-", 9) {
		t.Fatalf("unexpected header %q", lines)
	}
}

func TestConsoleWritesPlainToBuffers(t *testing.T) {
	var buf bytes.Buffer
	con := newConsole(&buf)
	if con.colorize {
		t.Fatal("buffers must not be colorized")
	}
	con.status("Entries", statusInfo, "4")
	if !strings.Contains(buf.String(), "Entries:") || strings.Contains(buf.String(), "\x1b[") {
		t.Fatalf("unexpected console output %q", buf.String())
	}
}

func TestRenderTablePadsShortRows(t *testing.T) {
	out := renderTable([]string{"Pattern", "Files"}, [][]string{{"other"}}, []columnAlignment{alignLeft, alignRight})
	if !strings.Contains(strings.ToUpper(out), "PATTERN") || !strings.Contains(out, "other") {
		t.Fatalf("unexpected table:\n%s", out)
	}
	if renderTable(nil, nil, nil) != "" {
		t.Fatal("expected empty output without headers")
	}
}

func TestShouldColorizeNonFile(t *testing.T) {
	if shouldColorize(io.Discard) {
		t.Fatalf("expected non-file writer to disable color")
	}
}

func TestRenderTableWithFooter(t *testing.T) {
	out := renderTableWithFooter([]string{"Strategy", "Interpretations"}, [][]string{{"filename - ", "3"}}, []string{"Total", "3"}, []columnAlignment{alignLeft, alignRight})
	if !strings.Contains(out, "TOTAL") {
		t.Fatalf("expected footer row:\n%s", out)
	}
}
