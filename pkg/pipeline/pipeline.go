// Package pipeline provides the core parse → layout → render pipeline.
//
// This package implements the complete flow shared by the CLI and the HTTP
// API. By centralizing this logic, all entry points behave identically and
// stage results are cached consistently.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Parse: Decode a JSON document or plain text into a layout tree
//  2. Layout: Run the selected algorithm over the tree
//  3. Render: Serialize the result to output formats (SVG, JSON)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Algorithm: "l1s+",
//	    Formats:   []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, source, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/raggedblocks/pkg/cache"
	"github.com/matzehuels/raggedblocks/pkg/errors"
	"github.com/matzehuels/raggedblocks/pkg/layout"
)

// =============================================================================
// Defaults - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultAlgorithm is the layout algorithm used when none is selected.
	DefaultAlgorithm = layout.NameRocksPlus

	// DefaultMargin is the whitespace around the rendered content in SVG
	// output.
	DefaultMargin = 8.0

	// DefaultCacheTTL bounds how long cached stages stay valid.
	DefaultCacheTTL = 24 * time.Hour
)

// Output format names.
const (
	FormatSVG  = "svg"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatJSON: true,
}

// SourceKind discriminates how the input bytes are interpreted.
type SourceKind string

// Source kinds.
const (
	SourceJSON SourceKind = "json"
	SourceText SourceKind = "text"
)

// =============================================================================
// Options
// =============================================================================

// Options configures one pipeline run. The struct serializes to JSON for the
// HTTP API.
type Options struct {
	// Parse options
	Source SourceKind `json:"source,omitempty"`

	// Layout options
	Algorithm            string   `json:"algorithm,omitempty"`
	TranslateWraps       *bool    `json:"translate_wraps,omitempty"`
	IdealLeading         *float64 `json:"ideal_leading,omitempty"`
	EnableSimplification *bool    `json:"enable_simplification,omitempty"`

	// Render options
	Formats []string `json:"formats,omitempty"`
	Margin  float64  `json:"margin,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger        `json:"-"`
	Abort  *layout.AbortToken `json:"-"`

	validated bool `json:"-"`
}

// ValidateAndSetDefaults checks the options and fills defaults in place.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Source == "" {
		o.Source = SourceJSON
	}
	if o.Source != SourceJSON && o.Source != SourceText {
		return errors.New(errors.ErrCodeInvalidInput, "unknown source kind %q", o.Source)
	}
	if o.Algorithm == "" {
		o.Algorithm = DefaultAlgorithm
	}
	if _, err := layout.New(o.Algorithm); err != nil {
		return err
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Margin == 0 {
		o.Margin = DefaultMargin
	}
	if o.Margin < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "margin %g is negative", o.Margin)
	}
	o.validated = true
	return nil
}

// ValidateFormats checks that every requested format is supported.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if !ValidFormats[f] {
			return errors.New(errors.ErrCodeInvalidFormat, "unknown format %q", f)
		}
	}
	return nil
}

// settings resolves the layout settings from the algorithm defaults plus any
// explicit overrides.
func (o *Options) settings() layout.Settings {
	s := layout.DefaultSettings()
	if o.TranslateWraps != nil {
		s.TranslateWraps = *o.TranslateWraps
	}
	if o.IdealLeading != nil {
		s.IdealLeading = *o.IdealLeading
	}
	if o.EnableSimplification != nil {
		s.EnableSimplification = *o.EnableSimplification
	}
	return s
}

// layoutKeyOpts projects the options onto the cache key inputs.
func (o *Options) layoutKeyOpts() cache.LayoutKeyOpts {
	s := o.settings()
	return cache.LayoutKeyOpts{
		Algorithm:            o.Algorithm,
		TranslateWraps:       s.TranslateWraps,
		IdealLeading:         s.IdealLeading,
		EnableSimplification: s.EnableSimplification,
	}
}

// =============================================================================
// Result
// =============================================================================

// Result contains the outputs of a pipeline run.
type Result struct {
	// Tree is the parsed layout tree.
	Tree layout.Tree

	// TreeHash is the content hash of the source document.
	TreeHash string

	// Layout is the computed layout.
	Layout *layout.Result

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	AtomCount     int
	FragmentCount int
	ParseTime     time.Duration
	LayoutTime    time.Duration
	RenderTime    time.Duration
}

// CacheInfo tracks cache hits per pipeline stage.
type CacheInfo struct {
	LayoutHit bool
	RenderHit bool
}
