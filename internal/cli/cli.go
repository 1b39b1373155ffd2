// Package cli implements the raggedblocks command-line interface.
//
// This package provides commands for laying out structured-text documents,
// rendering them to SVG, exploring algorithm settings interactively, serving
// the layout pipeline over HTTP, and managing the local stage cache. The CLI
// is built using cobra and supports verbose logging via the
// charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - layout: Compute a layout and write it as JSON
//   - render: Lay out a document and render it to SVG or JSON
//   - tree: Debug tool visualizing the reassociated tree
//   - explore: Interactive TUI for algorithm settings
//   - serve: HTTP API over a document store
//   - cache: Manage the local stage cache
//
// All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/raggedblocks/pkg/buildinfo"
	"github.com/matzehuels/raggedblocks/pkg/cache"
	"github.com/matzehuels/raggedblocks/pkg/pipeline"
)

// appName is the application name used for directories and display.
const appName = "raggedblocks"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config Config
}

// New creates a new CLI instance with a default logger and the on-disk
// configuration applied.
func New(w io.Writer, level log.Level) *CLI {
	c := &CLI{Logger: newLogger(w, level)}
	cfg, err := LoadConfig(defaultConfigPath())
	if err != nil {
		c.Logger.Warn("ignoring config file", "error", err)
		cfg = DefaultConfig()
	}
	c.Config = cfg
	return c
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands
// registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "raggedblocks lays out structured text with ragged outlines",
		Long:         `raggedblocks renders trees of styled text fragments as tightly hugging rectilinear outlines, keeping the source's line structure intact instead of forcing box layout.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.treeCommand())
	root.AddCommand(c.exploreCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newRunner creates a pipeline runner for CLI use. With caching disabled the
// runner gets a null cache.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	if noCache || c.Config.Cache.Disable {
		return pipeline.NewRunner(cache.NewNullCache(), nil, c.Logger), nil
	}
	dir, err := c.cacheDir()
	if err != nil {
		return nil, err
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(fc, nil, c.Logger), nil
}

// cacheDir resolves the stage-cache directory, preferring the config value.
func (c *CLI) cacheDir() (string, error) {
	if c.Config.Cache.Dir != "" {
		return c.Config.Cache.Dir, nil
	}
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, appName), nil
}
