package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/charfit/internal/config"
)

func isolateXDG(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	return dir
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCalcCommand(t *testing.T) {
	dir := isolateXDG(t)
	corpusPath := writeFile(t, dir, "corpus.txt", "aaaa\naa\n")

	out, err := runCLI(t, "--corpus", corpusPath, "--width", "404", "--measure", "cells", "--cell-px", "8")
	if err != nil {
		t.Fatalf("calc: %v\n%s", err, out)
	}
	for _, want := range []string{
		"Max characters: 50",
		"Reduced by 10%: 45",
		"Recommended limit: 45",
		"Calculations: 1",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}

	out, err = runCLI(t, "--corpus", corpusPath, "--width", "404", "--measure", "cells", "--cell-px", "8", "--reduce=false")
	if err != nil {
		t.Fatalf("calc: %v", err)
	}
	if strings.Contains(out, "Reduced by 10%") {
		t.Fatalf("expected no reduction line:\n%s", out)
	}
	if !strings.Contains(out, "Calculations: 2") {
		t.Fatalf("expected usage counter to persist:\n%s", out)
	}

	out, err = runCLI(t, "usage")
	if err != nil {
		t.Fatalf("usage: %v", err)
	}
	if strings.TrimSpace(out) != "Calculations: 2" {
		t.Fatalf("unexpected usage output %q", out)
	}
}

func TestCalcCommandLocalized(t *testing.T) {
	dir := isolateXDG(t)
	base := writeFile(t, dir, "en.json", `{"save": "Save", "open": "Open"}`)
	de := writeFile(t, dir, "de.json", `{"save": {"translation": "Speichern"}, "open": {"translation": "Abbrechen"}}`)

	out, err := runCLI(t,
		"--corpus", base,
		"--lang", "de="+de,
		"--localize",
		"--width", "404",
		"--measure", "cells",
		"--cell-px", "8",
	)
	if err != nil {
		t.Fatalf("calc: %v\n%s", err, out)
	}
	// 404/8 = 50, reduced 45, de expands 9/4 = 2.25 -> 20.
	for _, want := range []string{"Languages", "de", "Localized (x2.25): 20", "Recommended limit: 20"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestCalcCommandConfigFile(t *testing.T) {
	dir := isolateXDG(t)
	corpusPath := writeFile(t, dir, "corpus.txt", "ab\n")
	cfgPath := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(cfgPath), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	cfg := "[calculator]\nwidth = 160.0\nreduce = false\n\n[measure]\nmode = \"cells\"\ncell-px = 8.0\n"
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	out, err := runCLI(t, "--corpus", corpusPath)
	if err != nil {
		t.Fatalf("calc: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Recommended limit: 20") {
		t.Fatalf("expected config width to apply:\n%s", out)
	}

	out, err = runCLI(t, "--corpus", corpusPath, "--width", "80")
	if err != nil {
		t.Fatalf("calc: %v", err)
	}
	if !strings.Contains(out, "Recommended limit: 10") {
		t.Fatalf("expected flag to override config:\n%s", out)
	}
}

func TestCalcCommandErrors(t *testing.T) {
	dir := isolateXDG(t)
	corpusPath := writeFile(t, dir, "corpus.txt", "ab\n")
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no width", []string{"--corpus", corpusPath}, "--width must be > 0"},
		{"no corpus", []string{"--width", "100"}, "--corpus is required"},
		{"both sources", []string{"--corpus", corpusPath, "--generic", "--width", "100"}, "mutually exclusive"},
		{"low generic rate", []string{"--corpus", corpusPath, "--width", "100", "--generic-rate", "0.8"}, "--generic-rate must be >= 1"},
		{"bad lang", []string{"--corpus", corpusPath, "--width", "100", "--lang", "de"}, "want code=path"},
		{"bad measure", []string{"--corpus", corpusPath, "--width", "100", "--measure", "ruler"}, "--measure must be"},
		{"table without widths", []string{"--corpus", corpusPath, "--width", "100", "--measure", "table"}, "--widths is required"},
		{"bad log level", []string{"--corpus", corpusPath, "--width", "100", "--log-level", "loud"}, "invalid --log-level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, tt.args...)
			if err == nil {
				t.Fatalf("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected %q in error, got %v", tt.want, err)
			}
		})
	}
}

func TestCharsCommand(t *testing.T) {
	dir := isolateXDG(t)
	corpusPath := writeFile(t, dir, "corpus.txt", "abb1\n")
	widths := writeFile(t, dir, "widths.toml", "default = 6.0\n[widths]\n\"b\" = 9.5\n")

	out, err := runCLI(t, "chars", "--corpus", corpusPath, "--sort", "count", "--dir", "desc", "--measure", "table", "--widths", widths)
	if err != nil {
		t.Fatalf("chars: %v\n%s", err, out)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header and 3 rows, got %d lines:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[1], "b") || !strings.Contains(lines[1], "9.50") {
		t.Fatalf("expected b first with its width, got %q", lines[1])
	}

	if _, err := runCLI(t, "chars", "--corpus", corpusPath, "--sort", "width", "--measure", "cells"); err == nil {
		t.Fatalf("expected invalid sort error")
	}
}

func TestCharsGeneric(t *testing.T) {
	isolateXDG(t)
	out, err := runCLI(t, "chars", "--generic", "--measure", "cells", "--ignore-capitals", "--sort", "frequency")
	if err != nil {
		t.Fatalf("chars: %v", err)
	}
	if !strings.Contains(out, "<space>") {
		t.Fatalf("expected space row in generic table:\n%s", out)
	}
	if !strings.Contains(out, "-") {
		t.Fatalf("expected missing counts rendered as '-':\n%s", out)
	}
}

func TestParseLangSpecs(t *testing.T) {
	specs, err := parseLangSpecs([]string{"de=de.json", " fr = fr.toml "})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(specs) != 2 || specs[0].Code != "de" || specs[1].Path != "fr.toml" {
		t.Fatalf("unexpected specs: %+v", specs)
	}
	for _, bad := range []string{"de", "=x", "de="} {
		if _, err := parseLangSpecs([]string{bad}); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestApplyConfigRespectsChangedFlags(t *testing.T) {
	target := 1.0
	cmd := &cobra.Command{Use: "x"}
	cmd.Flags().Float64Var(&target, "width", 1, "")
	value := 5.0

	applyFloatConfig(cmd, "width", &target, &value)
	if target != 5 {
		t.Fatalf("expected config value, got %v", target)
	}
	if err := cmd.Flags().Set("width", "7"); err != nil {
		t.Fatalf("set: %v", err)
	}
	applyFloatConfig(cmd, "width", &target, &value)
	if target != 7 {
		t.Fatalf("expected flag value to win, got %v", target)
	}
}

func TestDefaultConfigTemplateDecodes(t *testing.T) {
	var cfg config.FileConfig
	md, err := toml.Decode(defaultConfigTemplate(), &cfg)
	if err != nil {
		t.Fatalf("decode template: %v", err)
	}
	if len(md.Undecoded()) != 0 {
		t.Fatalf("unexpected keys: %v", md.Undecoded())
	}
	if !strings.Contains(defaultConfigTemplate(), "10%") {
		t.Fatalf("template should mention the 10%% reduction")
	}
}
