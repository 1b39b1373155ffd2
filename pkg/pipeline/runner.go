package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/raggedblocks/pkg/cache"
	"github.com/matzehuels/raggedblocks/pkg/document"
	"github.com/matzehuels/raggedblocks/pkg/geometry"
	"github.com/matzehuels/raggedblocks/pkg/layout"
	"github.com/matzehuels/raggedblocks/pkg/observability"
	"github.com/matzehuels/raggedblocks/pkg/render"
	"github.com/matzehuels/raggedblocks/pkg/textmetrics"
)

// Runner executes the pipeline with caching. It is stateless apart from the
// cache, keyer, logger, and the shared measurement cache, so one Runner can
// serve many runs.
type Runner struct {
	Cache    cache.Cache
	Keyer    cache.Keyer
	Logger   *log.Logger
	Measurer textmetrics.Measurer
}

// NewRunner creates a runner with the given cache and keyer.
// A nil keyer falls back to the DefaultKeyer; a nil cache disables caching;
// a nil logger uses the default logger.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:    c,
		Keyer:    keyer,
		Logger:   logger,
		Measurer: textmetrics.NewCached(textmetrics.Default()),
	}
}

// Execute runs the complete parse → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, source []byte, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	logger := r.logger(opts)

	result := &Result{
		Artifacts: make(map[string][]byte),
		TreeHash:  cache.Hash(source),
	}

	// Stage 1: Parse
	parseStart := time.Now()
	tree, err := r.Parse(ctx, source, opts)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	result.Tree = tree
	result.Stats.ParseTime = time.Since(parseStart)
	result.Stats.AtomCount = layout.CountAtoms(tree)

	logger.Info("parsed document",
		"atoms", result.Stats.AtomCount,
		"duration", result.Stats.ParseTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	res, layoutHit, err := r.ComputeLayoutWithCacheInfo(ctx, tree, result.TreeHash, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = res
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.FragmentCount = res.FragmentCount()
	result.CacheInfo.LayoutHit = layoutHit

	logger.Info("computed layout",
		"algorithm", opts.Algorithm,
		"fragments", res.FragmentCount(),
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, res, result.TreeHash, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Parse decodes the source bytes into a layout tree.
func (r *Runner) Parse(ctx context.Context, source []byte, opts Options) (layout.Tree, error) {
	observability.Layout().OnParseStart(ctx, string(opts.Source))
	start := time.Now()

	var tree layout.Tree
	var err error
	switch opts.Source {
	case SourceText:
		space := r.Measurer.Measure(" ")
		tree = document.FromText(string(source), space.Width())
	default:
		tree, err = document.ParseTree(source)
	}

	atoms := 0
	if err == nil {
		atoms = layout.CountAtoms(tree)
	}
	observability.Layout().OnParseComplete(ctx, string(opts.Source), atoms, time.Since(start), err)
	return tree, err
}

// ComputeLayout runs the layout stage without cache bookkeeping.
func (r *Runner) ComputeLayout(ctx context.Context, tree layout.Tree, treeHash string, opts Options) (*layout.Result, error) {
	res, _, err := r.ComputeLayoutWithCacheInfo(ctx, tree, treeHash, opts)
	return res, err
}

// ComputeLayoutWithCacheInfo runs the layout stage, consulting the cache
// first, and reports whether the cache served the result.
func (r *Runner) ComputeLayoutWithCacheInfo(ctx context.Context, tree layout.Tree, treeHash string, opts Options) (*layout.Result, bool, error) {
	if err := r.ensureValidated(&opts); err != nil {
		return nil, false, err
	}

	key := r.Keyer.LayoutKey(treeHash, opts.layoutKeyOpts())
	if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
		if res, perr := document.ParseResult(data); perr == nil {
			observability.Cache().OnCacheHit(ctx, "layout")
			return res, true, nil
		}
		// A stale or corrupt entry falls through to recompute.
		_ = r.Cache.Delete(ctx, key)
	}
	observability.Cache().OnCacheMiss(ctx, "layout")

	alg, err := layout.New(opts.Algorithm)
	if err != nil {
		return nil, false, err
	}
	alg = alg.WithSettings(opts.settings())

	observability.Layout().OnLayoutStart(ctx, opts.Algorithm, layout.CountAtoms(tree))
	start := time.Now()
	res, err := alg.Layout(tree,
		layout.WithMeasurer(r.Measurer),
		layout.WithAbort(opts.Abort),
	)
	observability.Layout().OnLayoutComplete(ctx, opts.Algorithm, fragmentCount(res), time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	if data, merr := document.MarshalResult(res); merr == nil {
		if serr := r.Cache.Set(ctx, key, data, DefaultCacheTTL); serr == nil {
			observability.Cache().OnCacheSet(ctx, "layout", len(data))
		}
	}
	return res, false, nil
}

// Render serializes a layout result into every requested format.
func (r *Runner) Render(ctx context.Context, res *layout.Result, treeHash string, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, res, treeHash, opts)
	return artifacts, err
}

// RenderWithCacheInfo serializes a layout result, consulting the artifact
// cache per format. The hit flag reports whether every format came from the
// cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, res *layout.Result, treeHash string, opts Options) (map[string][]byte, bool, error) {
	if err := r.ensureValidated(&opts); err != nil {
		return nil, false, err
	}

	observability.Layout().OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	layoutKey := r.Keyer.LayoutKey(treeHash, opts.layoutKeyOpts())
	artifacts := make(map[string][]byte, len(opts.Formats))
	allHit := true

	var err error
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(layoutKey, cache.ArtifactKeyOpts{Format: format, Margin: opts.Margin})
		if data, hit, gerr := r.Cache.Get(ctx, key); gerr == nil && hit {
			observability.Cache().OnCacheHit(ctx, "artifact")
			artifacts[format] = data
			continue
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
		allHit = false

		var data []byte
		data, err = renderFormat(res, format, opts.Margin)
		if err != nil {
			break
		}
		artifacts[format] = data
		if serr := r.Cache.Set(ctx, key, data, DefaultCacheTTL); serr == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}

	observability.Layout().OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}
	return artifacts, allHit, nil
}

// renderFormat produces one output format from a layout result.
func renderFormat(res *layout.Result, format string, margin float64) ([]byte, error) {
	switch format {
	case FormatJSON:
		return document.MarshalResult(res)
	default:
		svg := render.NewSVG()
		res.Render(svg)
		bb, ok := res.BoundingBox()
		if !ok {
			bb = geometry.Rect{}
		}
		return svg.Document(bb, margin), nil
	}
}

func (r *Runner) ensureValidated(opts *Options) error {
	if opts.validated {
		return nil
	}
	return opts.ValidateAndSetDefaults()
}

func (r *Runner) logger(opts Options) *log.Logger {
	if opts.Logger != nil {
		return opts.Logger
	}
	return r.Logger
}

func fragmentCount(res *layout.Result) int {
	if res == nil {
		return 0
	}
	return res.FragmentCount()
}
