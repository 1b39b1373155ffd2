package layout

import (
	"sort"

	"github.com/matzehuels/raggedblocks/pkg/geometry"
	"github.com/matzehuels/raggedblocks/pkg/polygon"
)

// sfrag is one atom placed during the horizontal sweep; x is final, y waits
// for the vertical resolution.
type sfrag struct {
	text      string
	synthetic bool
	rect      geometry.Rect
	x         float64
	line      int
}

// sextent is one wrap's horizontal coverage of one line, delimited by its
// border gadgets.
type sextent struct {
	line   int
	x0, x1 float64
}

// swrap is the sweep's record of one wrap: nesting depth, padding, style,
// and per-line extents.
type swrap struct {
	padding float64
	style   *Style
	nest    int
	extents []sextent

	open      bool // extent started on the current line
	openIndex int  // index into extents of the open one
}

// sgadget is one vertical border slot in a line's leading: an interval with
// a thickness, stacked outward over earlier overlapping gadgets.
type sgadget struct {
	x0, x1    float64
	offset    float64
	thickness float64
}

// slotKey addresses one wrap's border slot on one line.
type slotKey struct {
	w    *swrap
	line int
}

type sblocksState struct {
	settings Settings

	frags []sfrag
	wraps []*swrap
	stack []*swrap // currently entered wraps, outermost first

	line int
	x    float64
}

// layoutSBlocks computes outlines with a horizontal sweep: fragments and
// border gadgets accumulate x within each line, per-line vertical gadgets
// stack the borders into the leading, and the outline polygons fall out of
// the per-line extents.
func layoutSBlocks(root Expr, s Settings, cfg config) (*Result, error) {
	st := &sblocksState{settings: s}
	st.scan(root)
	st.closeLine()
	if cfg.aborted() {
		return nil, ErrAborted
	}
	return st.resolve(cfg)
}

// openPending starts the extents of all entered wraps that have not opened
// on the current line yet. Opening is deferred until the first atom so
// leading spacers stay outside the borders.
func (st *sblocksState) openPending() {
	for _, w := range st.stack {
		if !w.open {
			w.extents = append(w.extents, sextent{line: st.line, x0: st.x})
			w.openIndex = len(w.extents) - 1
			w.open = true
			st.x += w.padding
		}
	}
}

// closeLine ends the open extents at a line break, innermost last entered
// first.
func (st *sblocksState) closeLine() {
	for i := len(st.stack) - 1; i >= 0; i-- {
		w := st.stack[i]
		if w.open {
			st.x += w.padding
			w.extents[w.openIndex].x1 = st.x
			w.open = false
		}
	}
}

func (st *sblocksState) scan(e Expr) {
	switch n := e.(type) {
	case TextExpr:
		if !n.Synthetic {
			st.openPending()
		}
		st.frags = append(st.frags, sfrag{
			text:      n.Text,
			synthetic: n.Synthetic,
			rect:      n.Rect,
			x:         st.x,
			line:      st.line,
		})
		st.x += n.Rect.Width()
	case SpacerExpr:
		st.x += n.Width
	case *JoinH:
		st.scan(n.L)
		st.scan(n.R)
	case *JoinV:
		st.scan(n.L)
		st.closeLine()
		st.line++
		st.x = 0
		st.scan(n.R)
	case *Wrap:
		w := &swrap{padding: n.Padding, style: n.Style, nest: len(st.stack) + 1}
		st.wraps = append(st.wraps, w)
		st.stack = append(st.stack, w)
		st.scan(n.Child)
		if w.open {
			st.x += w.padding
			w.extents[w.openIndex].x1 = st.x
			w.open = false
		}
		st.stack = st.stack[:len(st.stack)-1]
	}
}

// resolve assigns border slots and line positions, then emits fragments and
// outline polygons.
func (st *sblocksState) resolve(cfg config) (*Result, error) {
	lineCount := st.line + 1

	// Per-line ascent and descent from the atoms on the line.
	ascent := make([]float64, lineCount)
	descent := make([]float64, lineCount)
	for _, f := range st.frags {
		if -f.rect.Top > ascent[f.line] {
			ascent[f.line] = -f.rect.Top
		}
		if f.rect.Bottom > descent[f.line] {
			descent[f.line] = f.rect.Bottom
		}
	}

	// Slot the border gadgets: per line, innermost wraps first, each offset
	// past the gadgets it overlaps.
	above := make([]([]sgadget), lineCount)
	below := make([]([]sgadget), lineCount)
	aboveOffset := make(map[slotKey]float64)
	belowOffset := make(map[slotKey]float64)

	ordered := append([]*swrap(nil), st.wraps...)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].nest > ordered[j].nest })

	place := func(slots []sgadget, x0, x1, thickness float64) ([]sgadget, float64) {
		offset := 0.0
		for _, g := range slots {
			if x0 < g.x1 && g.x0 < x1 && g.offset+g.thickness > offset {
				offset = g.offset + g.thickness
			}
		}
		return append(slots, sgadget{x0: x0, x1: x1, offset: offset, thickness: thickness}), offset
	}

	for _, w := range ordered {
		for _, e := range w.extents {
			var off float64
			above[e.line], off = place(above[e.line], e.x0, e.x1, w.padding)
			aboveOffset[slotKey{w, e.line}] = off
			below[e.line], off = place(below[e.line], e.x0, e.x1, w.padding)
			belowOffset[slotKey{w, e.line}] = off
		}
	}

	extent := func(slots []sgadget) float64 {
		m := 0.0
		for _, g := range slots {
			if g.offset+g.thickness > m {
				m = g.offset + g.thickness
			}
		}
		return m
	}

	// Vertical resolution: each line drops below the previous one's descent
	// and border stack, plus its own.
	baseline := make([]float64, lineCount)
	for l := 0; l < lineCount; l++ {
		if l == 0 {
			baseline[l] = extent(above[l]) + ascent[l]
			continue
		}
		baseline[l] = baseline[l-1] + descent[l-1] + extent(below[l-1]) +
			extent(above[l]) + ascent[l] + st.settings.IdealLeading
	}

	res := &Result{}
	for _, f := range st.frags {
		if f.synthetic {
			continue
		}
		abs := f.rect.Translate(geometry.Vector{X: f.x - f.rect.Left, Y: baseline[f.line]})
		res.fragments = append(res.fragments, Fragment{
			Text:     f.text,
			Rect:     abs,
			Line:     f.line,
			Baseline: baseline[f.line],
		})
	}

	if cfg.aborted() {
		return nil, ErrAborted
	}

	// Outlines, outermost first.
	painted := append([]*swrap(nil), st.wraps...)
	sort.SliceStable(painted, func(i, j int) bool { return painted[i].nest < painted[j].nest })
	for _, w := range painted {
		pg := st.wrapPolygon(w, baseline, ascent, descent, aboveOffset, belowOffset)
		if len(pg) > 0 {
			res.outlines = append(res.outlines, Outline{Style: w.style, Polygon: pg, Depth: w.nest})
		}
	}
	return res, nil
}

// wrapPolygon builds the staircase outline of one wrap from its per-line
// extents. Consecutive covered lines with overlapping extents fuse into one
// path meeting at the midpoint of the inter-line gap; disjoint extents close
// the path and start a new one.
func (st *sblocksState) wrapPolygon(
	w *swrap,
	baseline, ascent, descent []float64,
	aboveOffset, belowOffset map[slotKey]float64,
) polygon.Polygon {
	type lineRect struct {
		left, top, right, bottom float64
	}
	key := func(line int) slotKey { return slotKey{w: w, line: line} }

	var rects []lineRect
	var lines []int
	for _, e := range w.extents {
		if e.x1 <= e.x0 {
			continue
		}
		top := baseline[e.line] - ascent[e.line] - aboveOffset[key(e.line)] - w.padding
		bottom := baseline[e.line] + descent[e.line] + belowOffset[key(e.line)] + w.padding
		rects = append(rects, lineRect{left: e.x0, top: top, right: e.x1, bottom: bottom})
		lines = append(lines, e.line)
	}
	if len(rects) == 0 {
		return nil
	}

	var out polygon.Polygon
	flush := func(group []lineRect) {
		if len(group) == 0 {
			return
		}
		var p polygon.Path
		for _, r := range group {
			p = append(p, geometry.Point{X: r.left, Y: r.top}, geometry.Point{X: r.left, Y: r.bottom})
		}
		for i := len(group) - 1; i >= 0; i-- {
			r := group[i]
			p = append(p, geometry.Point{X: r.right, Y: r.bottom}, geometry.Point{X: r.right, Y: r.top})
		}
		if norm := p.Normalized(); norm != nil {
			out = append(out, norm)
		}
	}

	var group []lineRect
	for i, r := range rects {
		if len(group) == 0 {
			group = append(group, r)
			continue
		}
		prev := &group[len(group)-1]
		contiguous := lines[i] == lines[i-1]+1 && r.left < prev.right && prev.left < r.right
		if contiguous {
			// Meet in the middle of the inter-line gap so the staircase is
			// one closed region.
			mid := (prev.bottom + r.top) / 2
			prev.bottom = mid
			r.top = mid
			group = append(group, r)
		} else {
			flush(group)
			group = []lineRect{r}
		}
	}
	flush(group)
	return out
}
