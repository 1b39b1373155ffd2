// Package textmetrics provides the text-measurement oracle consumed by the
// layout engine.
//
// A Measurer maps a text fragment to its bounding rectangle relative to the
// baseline origin: Left is always 0, Right is the advance width, Top is the
// negated ascent and Bottom the descent (y grows down, so Top <= 0 <= Bottom).
// Measurers must be deterministic; the layout engine calls Measure exactly
// once per atom, and a Cached wrapper makes repeated runs over the same text
// cheap.
//
// The default measurer is backed by a metrics table for a reference font
// embedded into the binary with go:embed, so measurement works without any
// font files installed.
package textmetrics

import (
	_ "embed"
	"encoding/json"
	"sync"

	"github.com/matzehuels/raggedblocks/pkg/geometry"
)

// Measurer is the text-measure oracle.
type Measurer interface {
	// Measure returns the bounding rectangle of text laid on the baseline at
	// the origin. Left = 0, Right >= 0, Top <= 0 <= Bottom.
	Measure(text string) geometry.Rect
}

//go:embed metrics.json
var metricsJSON []byte

// table mirrors the embedded metrics file.
type table struct {
	Family         string             `json:"family"`
	Size           float64            `json:"size"`
	Ascent         float64            `json:"ascent"`
	Descent        float64            `json:"descent"`
	DefaultAdvance float64            `json:"default_advance"`
	Advances       map[string]float64 `json:"advances"`
}

// Table is a Measurer backed by a per-rune advance table.
type Table struct {
	family   string
	size     float64
	ascent   float64
	descent  float64
	fallback float64
	advances map[rune]float64
}

var (
	defaultTable     *Table
	defaultTableOnce sync.Once
)

// Default returns the measurer for the embedded reference font at its native
// size. The table is decoded once on first use.
func Default() *Table {
	defaultTableOnce.Do(func() {
		var t table
		// The embedded table is validated at build time; a decode failure
		// here is unreachable.
		if err := json.Unmarshal(metricsJSON, &t); err != nil {
			panic(err)
		}
		adv := make(map[rune]float64, len(t.Advances))
		for s, w := range t.Advances {
			for _, r := range s {
				adv[r] = w
			}
		}
		defaultTable = &Table{
			family:   t.Family,
			size:     t.Size,
			ascent:   t.Ascent,
			descent:  t.Descent,
			fallback: t.DefaultAdvance,
			advances: adv,
		}
	})
	return defaultTable
}

// Family returns the reference font family name.
func (t *Table) Family() string { return t.family }

// Size returns the native pixel size of the table.
func (t *Table) Size() float64 { return t.size }

// Measure implements Measurer.
func (t *Table) Measure(text string) geometry.Rect {
	var width float64
	for _, r := range text {
		if w, ok := t.advances[r]; ok {
			width += w
		} else {
			width += t.fallback
		}
	}
	return geometry.Rect{Left: 0, Top: -t.ascent, Right: width, Bottom: t.descent}
}

// Scaled wraps a Table, scaling all measurements by size/native-size.
type Scaled struct {
	base  *Table
	scale float64
}

// Scale returns a measurer for the table's font at the given pixel size.
func Scale(base *Table, size float64) *Scaled {
	return &Scaled{base: base, scale: size / base.size}
}

// Size returns the scaled pixel size.
func (s *Scaled) Size() float64 { return s.base.size * s.scale }

// Measure implements Measurer.
func (s *Scaled) Measure(text string) geometry.Rect {
	r := s.base.Measure(text)
	return geometry.Rect{
		Left:   r.Left * s.scale,
		Top:    r.Top * s.scale,
		Right:  r.Right * s.scale,
		Bottom: r.Bottom * s.scale,
	}
}

// Cached memoizes another measurer by text value. It is safe for concurrent
// use; the layout core itself is single-threaded but the HTTP API shares one
// cached measurer across requests.
type Cached struct {
	base Measurer

	mu      sync.RWMutex
	results map[string]geometry.Rect
}

// NewCached wraps base with a memoization layer.
func NewCached(base Measurer) *Cached {
	return &Cached{base: base, results: make(map[string]geometry.Rect)}
}

// Measure implements Measurer.
func (c *Cached) Measure(text string) geometry.Rect {
	c.mu.RLock()
	r, ok := c.results[text]
	c.mu.RUnlock()
	if ok {
		return r
	}
	r = c.base.Measure(text)
	c.mu.Lock()
	c.results[text] = r
	c.mu.Unlock()
	return r
}

// Len returns the number of memoized entries.
func (c *Cached) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.results)
}

// Fixed is a Measurer with constant per-rune advance and fixed vertical
// metrics, useful in tests where exact arithmetic matters.
type Fixed struct {
	Advance float64
	Ascent  float64
	Descent float64
}

// Measure implements Measurer.
func (f Fixed) Measure(text string) geometry.Rect {
	n := 0
	for range text {
		n++
	}
	return geometry.Rect{
		Left:   0,
		Top:    -f.Ascent,
		Right:  float64(n) * f.Advance,
		Bottom: f.Descent,
	}
}
