package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/raggedblocks/pkg/document"
	"github.com/matzehuels/raggedblocks/pkg/layout"
	"github.com/matzehuels/raggedblocks/pkg/render/treeviz"
	"github.com/matzehuels/raggedblocks/pkg/textmetrics"
)

// treeCommand creates the tree command for visualizing the reassociated
// tree (debug tool).
func (c *CLI) treeCommand() *cobra.Command {
	var (
		output   string
		dotOnly  bool
		detailed bool
		text     bool
	)

	cmd := &cobra.Command{
		Use:   "tree [file]",
		Short: "Render a document's reassociated tree (debug tool)",
		Long: `Render a document's reassociated tree as a node-link diagram.

Every layout algorithm consumes the same binary tree of horizontal joins,
vertical joins, and padded wraps; this command shows that structure, which
is easy to misjudge from the flat input document.`,
		Example: `  # SVG diagram of the reassociated tree
  raggedblocks tree doc.json -o tree.svg

  # Raw DOT on stdout
  raggedblocks tree doc.json --dot`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("text") {
				text = guessTextSource(args[0])
			}
			return c.runTree(args[0], output, dotOnly, detailed, text)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&dotOnly, "dot", false, "emit Graphviz DOT instead of SVG")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include measured widths and paddings")
	cmd.Flags().BoolVar(&text, "text", false, "treat the input as plain text")

	return cmd
}

func (c *CLI) runTree(input, output string, dotOnly, detailed, text bool) error {
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

	expr, err := layout.Reassociate(tree, measurer)
	if err != nil {
		return err
	}

	dot := treeviz.ToDOT(expr, treeviz.Options{Detailed: detailed})
	if dotOnly {
		return writeOutput([]byte(dot), output)
	}

	svg, err := treeviz.RenderSVG(dot)
	if err != nil {
		return fmt.Errorf("render tree: %w", err)
	}
	if err := writeOutput(svg, output); err != nil {
		return err
	}

	printSuccess("Tree diagram generated")
	printKeyValue("Atoms", fmt.Sprintf("%d", layout.CountAtoms(tree)))
	if output != "" {
		printFile(output)
	}
	return nil
}
