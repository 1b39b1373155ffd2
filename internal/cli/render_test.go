package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleDoc = `{
  "kind": "node", "padding": 2,
  "children": [
    {"kind": "atom", "text": "hello"},
    {"kind": "newline"},
    {"kind": "atom", "text": "world"}
  ]
}`

func testCLI() *CLI {
	c := &CLI{Logger: newLogger(io.Discard, LogInfo), Config: DefaultConfig()}
	c.Config.Cache.Disable = true
	return c
}

func TestRenderCommand(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "doc.json")
	if err := os.WriteFile(input, []byte(sampleDoc), 0o644); err != nil {
		t.Fatal(err)
	}
	output := filepath.Join(dir, "doc.svg")

	root := testCLI().RootCommand()
	root.SetArgs([]string{"render", input, "-o", output})
	if err := root.Execute(); err != nil {
		t.Fatalf("render: %v", err)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	svg := string(data)
	if !strings.HasPrefix(svg, "<svg") || !strings.Contains(svg, "hello") {
		t.Errorf("svg output looks wrong: %.80s", svg)
	}
}

func TestRenderCommandBadAlgorithm(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "doc.json")
	if err := os.WriteFile(input, []byte(sampleDoc), 0o644); err != nil {
		t.Fatal(err)
	}

	root := testCLI().RootCommand()
	root.SetArgs([]string{"render", input, "-a", "l9", "-o", filepath.Join(dir, "x.svg")})
	root.SetErr(io.Discard)
	if err := root.Execute(); err == nil {
		t.Error("expected error for unknown algorithm")
	}
}

func TestLayoutCommand(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(input, []byte("one two\nthree"), 0o644); err != nil {
		t.Fatal(err)
	}
	output := filepath.Join(dir, "layout.json")

	root := testCLI().RootCommand()
	root.SetArgs([]string{"layout", input, "-o", output})
	if err := root.Execute(); err != nil {
		t.Fatalf("layout: %v", err)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	for _, want := range []string{`"algorithm"`, `"one"`, `"three"`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("layout JSON missing %s", want)
		}
	}
}

func TestTreeCommandDOT(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "doc.json")
	if err := os.WriteFile(input, []byte(sampleDoc), 0o644); err != nil {
		t.Fatal(err)
	}
	output := filepath.Join(dir, "tree.dot")

	root := testCLI().RootCommand()
	root.SetArgs([]string{"tree", input, "--dot", "-o", output})
	if err := root.Execute(); err != nil {
		t.Fatalf("tree: %v", err)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.Contains(string(data), "digraph reassoc") {
		t.Errorf("DOT output missing header: %.60s", data)
	}
}

func TestGuessTextSource(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"doc.json", false},
		{"notes.txt", true},
		{"README.md", true},
		{"-", true},
	}
	for _, tt := range tests {
		if got := guessTextSource(tt.path); got != tt.want {
			t.Errorf("guessTextSource(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestParseFormats(t *testing.T) {
	if got := parseFormats(""); len(got) != 1 || got[0] != "svg" {
		t.Errorf("default formats = %v", got)
	}
	if got := parseFormats("svg, json"); len(got) != 2 || got[1] != "json" {
		t.Errorf("parsed formats = %v", got)
	}
}
