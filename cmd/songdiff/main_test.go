package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"songdiff/internal/config"
	"songdiff/internal/library"
	"songdiff/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	reference  string
	candidate  string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t, append([]testsupport.ConfigOption{testsupport.WithoutMetadata()}, opts...)...)
	cfg.Logging.Level = "error"
	base := testsupport.BaseDir(cfg)

	configPath := filepath.Join(base, "config.toml")
	writeTestConfig(t, configPath, cfg)

	reference := filepath.Join(base, "flac")
	candidate := filepath.Join(base, "mp3")
	for _, name := range []string{"Adele - Hello.flac", "Coldplay - Yellow.flac", "Adele - Someone Like You.flac"} {
		testsupport.WriteFile(t, filepath.Join(reference, name), 16)
	}
	for _, name := range []string{"Adele - Hello.mp3", "Adele - Someone Like Yu.mp3", "Nobody - Nothing.mp3"} {
		testsupport.WriteFile(t, filepath.Join(candidate, name), 16)
	}

	return &cliTestEnv{cfg: cfg, configPath: configPath, reference: reference, candidate: candidate}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	data, err := cfg.Marshal()
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func (env *cliTestEnv) run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	return runCLI(t, stdin, append([]string{"--config", env.configPath}, args...)...)
}

func runCLI(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func reportFiles(t *testing.T, dir, prefix string) []string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, prefix+"*.txt"))
	if err != nil {
		t.Fatal(err)
	}
	return matches
}

func TestCompareCommandPrintsAndWritesReports(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := env.run(t, "", "compare", env.reference, env.candidate)
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	for _, want := range []string{"Exact matches:", "[INFO] 1", "Unique songs:", "[WARN] 1", "Adele - Hello.mp3", "fuzzy(", "Unique report:"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}

	unique := reportFiles(t, env.cfg.Report.Dir, "unique_songs_")
	if len(unique) != 1 {
		t.Fatalf("expected one unique report, got %v", unique)
	}
	data, err := os.ReadFile(unique[0])
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "  1. Nobody - Nothing.mp3\n") {
		t.Fatalf("unique report missing entry:\n%s", data)
	}
	if details := reportFiles(t, env.cfg.Report.Dir, "match_details_"); len(details) != 1 {
		t.Fatalf("expected one details report, got %v", details)
	}
}

func TestCompareCommandJSON(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := env.run(t, "", "compare", "--no-report", "--json", env.reference, env.candidate)
	if err != nil {
		t.Fatalf("compare --json: %v", err)
	}
	var payload struct {
		Reference struct {
			Songs      int `json:"songs"`
			AudioFiles int `json:"audio_files"`
		} `json:"reference"`
		Unique    []string `json:"unique"`
		Decisions []struct {
			File          string `json:"file"`
			Type          string `json:"type"`
			ReferenceFile string `json:"reference_file"`
		} `json:"decisions"`
		Reports *json.RawMessage `json:"reports"`
	}
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if payload.Reference.Songs != 3 || payload.Reference.AudioFiles != 3 {
		t.Fatalf("unexpected reference counts: %+v", payload.Reference)
	}
	if len(payload.Unique) != 1 || payload.Unique[0] != "Nobody - Nothing.mp3" {
		t.Fatalf("unexpected unique list: %v", payload.Unique)
	}
	if len(payload.Decisions) != 2 {
		t.Fatalf("expected 2 decisions, got %+v", payload.Decisions)
	}
	first := payload.Decisions[0]
	if first.File != "Adele - Hello.mp3" || first.Type != "exact" || first.ReferenceFile != "Adele - Hello.flac" {
		t.Fatalf("unexpected first decision: %+v", first)
	}
	if payload.Decisions[1].Type != "fuzzy" {
		t.Fatalf("expected fuzzy second decision, got %+v", payload.Decisions[1])
	}
	if payload.Reports != nil {
		t.Fatalf("expected no reports with --no-report, got %s", *payload.Reports)
	}
	if files := reportFiles(t, env.cfg.Report.Dir, ""); len(files) != 0 {
		t.Fatalf("expected no report files, got %v", files)
	}
}

func TestCompareCommandVerify(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := env.run(t, "n\n", "compare", "--no-report", "--verify", env.reference, env.candidate)
	if err != nil {
		t.Fatalf("compare --verify: %v", err)
	}
	for _, want := range []string{"File: Nobody - Nothing.mp3", "Metadata unavailable", "Confirmed unique: 1", "Accuracy: 100.0%"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestCompareCommandRejectsVerifyWithJSON(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, _, err := env.run(t, "", "compare", "--verify", "--json", env.reference, env.candidate); err == nil {
		t.Fatal("expected flag conflict error")
	}
}

func TestCompareCommandMissingFolder(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := env.run(t, "", "compare", filepath.Join(env.reference, "missing"), env.candidate)
	if !errors.Is(err, library.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestIndexCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.WriteFile(t, filepath.Join(env.candidate, "untitled.mp3"), 16)

	t.Run("table", func(t *testing.T) {
		out, _, err := env.run(t, "", "index", env.candidate)
		if err != nil {
			t.Fatalf("index: %v", err)
		}
		for _, want := range []string{"Audio files:", "[INFO] 4", "Unparseable:", "untitled.mp3", "filename - "} {
			if !strings.Contains(out, want) {
				t.Fatalf("expected %q in output:\n%s", want, out)
			}
		}
	})

	t.Run("json", func(t *testing.T) {
		out, _, err := env.run(t, "", "index", "--json", env.candidate)
		if err != nil {
			t.Fatalf("index --json: %v", err)
		}
		var payload struct {
			Dir         string   `json:"dir"`
			ParsedFiles int      `json:"parsed_files"`
			Unparseable []string `json:"unparseable_files"`
			Strategies  []struct {
				Strategy string `json:"strategy"`
				Count    int    `json:"count"`
			} `json:"strategies"`
			Files []struct {
				Name string `json:"name"`
			} `json:"files"`
		}
		if err := json.Unmarshal([]byte(out), &payload); err != nil {
			t.Fatalf("decode output: %v\n%s", err, out)
		}
		if payload.Dir != env.candidate || payload.ParsedFiles != 3 || len(payload.Files) != 3 {
			t.Fatalf("unexpected payload: %+v", payload)
		}
		if len(payload.Unparseable) != 1 || payload.Unparseable[0] != "untitled.mp3" {
			t.Fatalf("unexpected unparseable list: %v", payload.Unparseable)
		}
		if len(payload.Strategies) == 0 || payload.Strategies[0].Strategy != "filename - " {
			t.Fatalf("unexpected strategies: %+v", payload.Strategies)
		}
	})
}

func TestSimilarityCommand(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	out, _, err := runCLI(t, "", "similarity", "--json", "Hello (Live)", "hello")
	if err != nil {
		t.Fatalf("similarity: %v", err)
	}
	var payload similarityOutput
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if payload.CanonicalA != "hello" || payload.Similarity != 1 || payload.Distance != 0 || payload.JaroWinkler != 1 || !payload.ArtistGate {
		t.Fatalf("unexpected payload: %+v", payload)
	}

	out, _, err = runCLI(t, "", "similarity", "Adele", "Adelle")
	if err != nil {
		t.Fatalf("similarity: %v", err)
	}
	if !strings.Contains(out, "0.8333") || !strings.Contains(out, "yes (> 0.80)") {
		t.Fatalf("unexpected table:\n%s", out)
	}
}

func TestAnalyzeCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := env.run(t, "", "analyze", "--json", env.reference, env.candidate)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	var payload struct {
		Reference struct {
			AudioFiles int `json:"audio_files"`
			Patterns   []struct {
				Pattern string  `json:"pattern"`
				Percent float64 `json:"percent"`
			} `json:"patterns"`
		} `json:"reference"`
		Sampled   int `json:"sampled"`
		Contained int `json:"contained"`
	}
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if payload.Reference.AudioFiles != 3 || len(payload.Reference.Patterns) != 1 || payload.Reference.Patterns[0].Percent != 100 {
		t.Fatalf("unexpected reference survey: %+v", payload.Reference)
	}
	if payload.Sampled != 3 || payload.Contained != 1 {
		t.Fatalf("expected 1 of 3 contained, got %d of %d", payload.Contained, payload.Sampled)
	}
}

func TestConfigCommands(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	target := filepath.Join(t.TempDir(), "nested", "songdiff.toml")

	out, _, err := runCLI(t, "", "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	if !strings.Contains(out, target) {
		t.Fatalf("expected target in output, got %q", out)
	}
	if _, _, err := runCLI(t, "", "config", "init", "--path", target); err == nil {
		t.Fatal("expected error when config already exists")
	}

	out, _, err = runCLI(t, "", "--config", target, "config", "validate")
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	if !strings.Contains(out, "[OK] valid") || !strings.Contains(out, "[INFO] yes") {
		t.Fatalf("unexpected validate output:\n%s", out)
	}

	out, _, err = runCLI(t, "", "--config", target, "--log-level", "debug", "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if !strings.Contains(out, "[scan]") || !strings.Contains(out, "level = 'debug'") {
		t.Fatalf("unexpected show output:\n%s", out)
	}
}

func TestInvalidLogLevelOverride(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, _, err := env.run(t, "", "--log-level", "loud", "config", "show"); err == nil {
		t.Fatal("expected invalid override error")
	}
}

func TestCacheCommands(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		env := setupCLITestEnv(t)
		out, _, err := env.run(t, "", "cache", "stats")
		if err != nil {
			t.Fatalf("cache stats: %v", err)
		}
		if !strings.Contains(out, tagCacheDisabled) {
			t.Fatalf("expected disabled notice, got %q", out)
		}
	})

	t.Run("populated by compare", func(t *testing.T) {
		env := setupCLITestEnv(t, testsupport.WithTagCache())
		env.cfg.Scan.ReadMetadata = true
		writeTestConfig(t, env.configPath, env.cfg)

		if _, _, err := env.run(t, "", "compare", "--no-report", env.reference, env.candidate); err != nil {
			t.Fatalf("compare: %v", err)
		}

		out, _, err := env.run(t, "", "cache", "stats")
		if err != nil {
			t.Fatalf("cache stats: %v", err)
		}
		if !strings.Contains(out, "Entries:") || !strings.Contains(out, "[INFO] 6") {
			t.Fatalf("expected 6 entries, got:\n%s", out)
		}

		out, _, err = env.run(t, "", "cache", "clear")
		if err != nil {
			t.Fatalf("cache clear: %v", err)
		}
		if !strings.Contains(out, "Removed 6 cached entries") {
			t.Fatalf("unexpected clear output %q", out)
		}

		out, _, err = env.run(t, "", "cache", "clear")
		if err != nil {
			t.Fatalf("cache clear: %v", err)
		}
		if !strings.Contains(out, "already empty") {
			t.Fatalf("unexpected second clear output %q", out)
		}
	})
}
