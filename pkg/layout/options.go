package layout

import "github.com/matzehuels/raggedblocks/pkg/textmetrics"

// Option configures a single layout call.
type Option func(*config)

type config struct {
	measurer textmetrics.Measurer
	abort    *AbortToken
}

// WithMeasurer selects the text-measure oracle for this layout. Defaults to
// the embedded reference table.
func WithMeasurer(m textmetrics.Measurer) Option {
	return func(c *config) { c.measurer = m }
}

// WithAbort threads a cancellation token through the layout's long loops.
func WithAbort(t *AbortToken) Option {
	return func(c *config) { c.abort = t }
}

func newConfig(opts []Option) config {
	var c config
	for _, opt := range opts {
		opt(&c)
	}
	if c.measurer == nil {
		c.measurer = textmetrics.Default()
	}
	return c
}

func (c config) aborted() bool { return c.abort.Aborted() }
