package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// readInput loads the document bytes from a path, or from stdin when the
// path is "-".
func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// writeOutput writes data to path, or to stdout when path is empty or "-".
func writeOutput(data []byte, path string) error {
	if path == "" || path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// artifactWriteParams bundles the inputs of writeArtifacts.
type artifactWriteParams struct {
	artifacts map[string][]byte
	formats   []string
	input     string
	output    string
	cached    bool
	atoms     int
	fragments int
}

// writeArtifacts persists rendered outputs. A single format honors the
// output path directly; multiple formats treat it as a base path and append
// the format extension.
func writeArtifacts(p artifactWriteParams) error {
	base := p.output
	if base == "" {
		base = strings.TrimSuffix(p.input, filepath.Ext(p.input))
		if p.input == "-" {
			base = "out"
		}
	}

	for _, format := range p.formats {
		path := base
		if len(p.formats) > 1 || p.output == "" {
			path = base + "." + format
		}
		if err := writeOutput(p.artifacts[format], path); err != nil {
			return err
		}
		printFile(path)
	}
	printStats(p.atoms, p.fragments, p.cached)
	return nil
}

// guessTextSource reports whether the file name suggests plain text rather
// than a JSON document.
func guessTextSource(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return false
	case "":
		return path == "-"
	default:
		return true
	}
}
