package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/raggedblocks/pkg/document"
	"github.com/matzehuels/raggedblocks/pkg/layout"
	"github.com/matzehuels/raggedblocks/pkg/textmetrics"
)

// exploreCommand creates the explore command: an interactive TUI for
// algorithm settings driven by the uniform settings descriptors.
func (c *CLI) exploreCommand() *cobra.Command {
	var text bool

	cmd := &cobra.Command{
		Use:   "explore [file]",
		Short: "Explore layout algorithms and settings interactively",
		Long: `Explore layout algorithms and settings interactively.

Every algorithm exposes its settings through the same descriptor list, so
toggles and numbers can be edited generically; each change re-runs the
layout and shows the resulting fragment count, bounds, and timing.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("text") {
				text = guessTextSource(args[0])
			}
			return c.runExplore(args[0], text)
		},
	}

	cmd.Flags().BoolVar(&text, "text", false, "treat the input as plain text")
	return cmd
}

func (c *CLI) runExplore(input string, text bool) error {
	source, err := readInput(input)
	if err != nil {
		return err
	}

	measurer := textmetrics.NewCached(textmetrics.Default())
	var tree layout.Tree
	if text {
		tree = document.FromText(string(source), measurer.Measure(" ").Width())
	} else {
		tree, err = document.ParseTree(source)
		if err != nil {
			return err
		}
	}

	model := newExploreModel(tree, measurer)
	prog := tea.NewProgram(model)
	if _, err := prog.Run(); err != nil {
		return fmt.Errorf("explore: %w", err)
	}
	return nil
}
