package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/raggedblocks/pkg/layout"
	"github.com/matzehuels/raggedblocks/pkg/pipeline"
)

// layoutCommand creates the layout command: compute positions only and write
// the layout as JSON.
func (c *CLI) layoutCommand() *cobra.Command {
	opts := renderOpts{
		algorithm: c.Config.Algorithm,
		margin:    c.Config.Margin,
	}

	cmd := &cobra.Command{
		Use:   "layout [file]",
		Short: "Compute a layout and write it as JSON",
		Long: `Compute a layout and write it as JSON.

The output contains every placed fragment with its rectangle and line
number, plus the outline polygons of the styled wraps. Feed it to other
tools, or use 'render' to go straight to SVG.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = []string{pipeline.FormatJSON}
			opts.leadingSet = cmd.Flags().Changed("leading")
			opts.translateSet = cmd.Flags().Changed("translate-wraps")
			opts.simplifySet = cmd.Flags().Changed("simplify")
			if !cmd.Flags().Changed("text") {
				opts.text = guessTextSource(args[0])
			}
			return c.runLayout(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringVarP(&opts.algorithm, "algorithm", "a", opts.algorithm, "layout algorithm: "+algorithmList())
	cmd.Flags().BoolVar(&opts.text, "text", false, "treat the input as plain text")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().Float64Var(&opts.leading, "leading", 0, "minimum distance between baselines")
	cmd.Flags().BoolVar(&opts.translateWraps, "translate-wraps", true, "translate wrapped rectangles by their padding")
	cmd.Flags().BoolVar(&opts.simplify, "simplify", true, "simplify outlines")

	return cmd
}

func (c *CLI) runLayout(ctx context.Context, input string, opts *renderOpts) error {
	source, err := readInput(input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}

	prog := newProgress(c.Logger)
	result, err := runner.Execute(ctx, source, c.pipelineOptions(opts))
	if err != nil {
		return fmt.Errorf("layout: %w", err)
	}
	prog.done(fmt.Sprintf("Laid out %d fragments", result.Stats.FragmentCount))

	if err := writeOutput(result.Artifacts[pipeline.FormatJSON], opts.output); err != nil {
		return err
	}
	if opts.output != "" && opts.output != "-" {
		printSuccess("Layout written")
		printFile(opts.output)
	}
	return nil
}

// algorithmList renders the registry names for flag help.
func algorithmList() string {
	return strings.Join(layout.Names(), ", ")
}
