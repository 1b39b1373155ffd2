package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/raggedblocks/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output         string
	algorithm      string
	formats        []string
	text           bool
	noCache        bool
	margin         float64
	leading        float64
	translateWraps bool
	simplify       bool

	leadingSet   bool
	translateSet bool
	simplifySet  bool
}

// renderCommand creates the render command for generating output from a
// document.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{
		algorithm: c.Config.Algorithm,
		margin:    c.Config.Margin,
	}

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Lay out a document and render it",
		Long: `Lay out a document and render it to SVG or JSON.

The input is a JSON layout document, or plain text with --text (plain text
is assumed for stdin and for files with an extension other than .json;
files without an extension are read as JSON). Use "-" to read from stdin.
Stage results are cached locally for faster subsequent runs.`,
		Example: `  # Render a document to SVG next to the input
  raggedblocks render doc.json

  # Pick the algorithm and both output formats
  raggedblocks render doc.json -a s-blocks -f svg,json -o out

  # Lay out a plain-text file
  raggedblocks render notes.txt --leading 6`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			opts.leadingSet = cmd.Flags().Changed("leading")
			opts.translateSet = cmd.Flags().Changed("translate-wraps")
			opts.simplifySet = cmd.Flags().Changed("simplify")
			if !cmd.Flags().Changed("text") {
				opts.text = guessTextSource(args[0])
			}
			return c.runRender(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&opts.algorithm, "algorithm", "a", opts.algorithm, "layout algorithm: "+algorithmList())
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), json (comma-separated)")
	cmd.Flags().BoolVar(&opts.text, "text", false, "treat the input as plain text")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().Float64Var(&opts.margin, "margin", opts.margin, "whitespace around the rendered content")
	cmd.Flags().Float64Var(&opts.leading, "leading", 0, "minimum distance between baselines")
	cmd.Flags().BoolVar(&opts.translateWraps, "translate-wraps", true, "translate wrapped rectangles by their padding")
	cmd.Flags().BoolVar(&opts.simplify, "simplify", true, "simplify outlines")

	return cmd
}

// runRender executes the pipeline and writes the artifacts.
func (c *CLI) runRender(ctx context.Context, input string, opts *renderOpts) error {
	source, err := readInput(input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}

	popts := c.pipelineOptions(opts)

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Laying out with %s...", popts.Algorithm))
	spinner.Start()

	result, err := runner.Execute(ctx, source, popts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("render: %w", err)
	}
	spinner.Stop()

	return writeArtifacts(artifactWriteParams{
		artifacts: result.Artifacts,
		formats:   popts.Formats,
		input:     input,
		output:    opts.output,
		cached:    result.CacheInfo.LayoutHit && result.CacheInfo.RenderHit,
		atoms:     result.Stats.AtomCount,
		fragments: result.Stats.FragmentCount,
	})
}

// pipelineOptions maps the flag values onto pipeline options, leaving
// unchanged settings to the algorithm defaults.
func (c *CLI) pipelineOptions(opts *renderOpts) pipeline.Options {
	popts := pipeline.Options{
		Algorithm: opts.algorithm,
		Formats:   opts.formats,
		Margin:    opts.margin,
		Logger:    c.Logger,
	}
	if opts.text {
		popts.Source = pipeline.SourceText
	}
	if opts.leadingSet {
		popts.IdealLeading = &opts.leading
	}
	if opts.translateSet {
		popts.TranslateWraps = &opts.translateWraps
	}
	if opts.simplifySet {
		popts.EnableSimplification = &opts.simplify
	}
	return popts
}

// parseFormats splits a comma-separated format list, defaulting to SVG.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
