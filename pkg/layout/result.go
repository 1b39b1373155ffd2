package layout

import (
	"iter"

	"github.com/matzehuels/raggedblocks/pkg/geometry"
	"github.com/matzehuels/raggedblocks/pkg/polygon"
	"github.com/matzehuels/raggedblocks/pkg/render"
)

// Fragment is one placed piece of text. Baseline is the absolute y of the
// text baseline inside Rect.
type Fragment struct {
	Text     string
	Rect     geometry.Rect
	Line     int
	Baseline float64
}

// Outline is the polygon enclosing one styled wrap, paired with the style it
// carries. Algorithms that draw nothing but rectangles still report their
// boxes here so all results render uniformly.
type Outline struct {
	Style   *Style
	Polygon polygon.Polygon

	// Depth orders outlines outermost-first for painting.
	Depth int
}

// Result is the output of one layout run: placed fragments in document
// order, one outline per styled wrap, and the font the fragments were
// measured with.
type Result struct {
	Algorithm  string
	FontFamily string
	FontSize   float64

	fragments []Fragment
	outlines  []Outline
}

// NewResult assembles a result from stored parts. Used by the serialization
// layer to revive cached layouts; algorithms build results internally.
func NewResult(algorithm, fontFamily string, fontSize float64, fragments []Fragment, outlines []Outline) *Result {
	return &Result{
		Algorithm:  algorithm,
		FontFamily: fontFamily,
		FontSize:   fontSize,
		fragments:  fragments,
		outlines:   outlines,
	}
}

// Fragments yields the placed fragments in document order: the same order
// the atoms appear in a left-to-right depth-first walk of the input tree.
// The sequence is single-use per call.
func (r *Result) Fragments() iter.Seq[Fragment] {
	return func(yield func(Fragment) bool) {
		for _, f := range r.fragments {
			if !yield(f) {
				return
			}
		}
	}
}

// FragmentCount returns the number of placed fragments.
func (r *Result) FragmentCount() int { return len(r.fragments) }

// Outlines returns the wrap outlines, ordered outermost first.
func (r *Result) Outlines() []Outline { return r.outlines }

// BoundingBox returns the extent of all fragments and outlines. ok is false
// for an empty result.
func (r *Result) BoundingBox() (geometry.Rect, bool) {
	var out geometry.Rect
	found := false
	add := func(b geometry.Rect) {
		if !found {
			out, found = b, true
		} else {
			out = out.Union(b)
		}
	}
	for _, f := range r.fragments {
		add(f.Rect)
	}
	for _, o := range r.outlines {
		if b, ok := o.Polygon.BoundingBox(); ok {
			add(b)
		}
	}
	return out, found
}

// defaultOutlineStroke is used for outlines whose style carries no borders.
const defaultOutlineStroke = "#555555"

// Render projects the result onto a target: outlines outermost-first, then
// the text fragments on top.
func (r *Result) Render(t render.Target) {
	for _, o := range r.outlines {
		r.renderOutline(t, o)
	}
	for _, f := range r.fragments {
		if f.Text == "" {
			continue
		}
		t.Text(f.Text).
			Font(r.FontFamily, r.FontSize).
			Move(f.Rect.Left, f.Baseline).
			Fill("#111111")
	}
}

func (r *Result) renderOutline(t render.Target, o Outline) {
	if len(o.Polygon) == 0 {
		return
	}
	style := o.Style
	if style == nil {
		style = &Style{}
	}
	if style.Fill != "" {
		t.Path(render.PathData(o.Polygon, render.PathStyle{})).Fill(style.Fill)
	}
	borders := style.Borders
	if len(borders) == 0 && style.Fill == "" {
		borders = []Border{{Color: defaultOutlineStroke, Width: 1}}
	}
	for _, b := range borders {
		ps := render.PathStyle{Top: b.Top, Right: b.Right, Bottom: b.Bottom, Left: b.Left}
		w := b.Width
		if w <= 0 {
			w = 1
		}
		t.Path(render.PathData(o.Polygon, ps)).Stroke(b.Color).StrokeWidth(w)
	}
}
