package layout

import (
	"sort"

	"github.com/matzehuels/raggedblocks/pkg/geometry"
	"github.com/matzehuels/raggedblocks/pkg/polygon"
)

// rline is one visual line of the rocks layout: the spatial scope of its
// fragments is a region of backing indices rather than an in-line vector.
type rline struct {
	origin  geometry.Point
	advance geometry.Vector
	region  Region
}

func (l *rline) leadOut() geometry.Point { return l.origin.Add(l.advance) }

// rocksState shares the timetable and the backing across the layout walk.
// Column indices and backing indices coincide because both are assigned in
// the same pre-order walk.
type rocksState struct {
	settings Settings
	tt       *Timetable
	backing  *Backing

	synthetic map[int]bool
	err       error
}

// layoutRocks lays out the reassociated tree through the backing and
// timetable. With outlines enabled, each wrap's padded rectangles are
// unioned into a polygon and optionally simplified.
func layoutRocks(root Expr, s Settings, cfg config, withOutlines bool) (*Result, error) {
	tt := BuildTimetable(root)
	st := &rocksState{
		settings:  s,
		tt:        tt,
		backing:   NewBacking(),
		synthetic: make(map[int]bool),
	}
	lines := st.lay(root)
	if st.err != nil {
		return nil, st.err
	}

	res := &Result{}
	if err := st.stack(lines, res, cfg); err != nil {
		return nil, err
	}

	if withOutlines {
		if err := st.buildOutlines(res, cfg); err != nil {
			return nil, err
		}
	} else {
		st.buildRockBoxes(res)
	}
	return res, nil
}

func (st *rocksState) lay(e Expr) []rline {
	switch n := e.(type) {
	case TextExpr:
		col := st.backing.Len()
		idx := st.backing.AppendRect(n.Rect, n.Text, st.tt.MaxPadding(col))
		if n.Synthetic {
			st.synthetic[idx] = true
		}
		return []rline{{
			advance: geometry.Vector{X: n.Rect.Width()},
			region:  NewRegion(idx, idx+1, 0),
		}}
	case SpacerExpr:
		idx := st.backing.AppendSpacer(n.Width, n.Text)
		return []rline{{
			advance: geometry.Vector{X: n.Width},
			region:  NewRegion(idx, idx+1, 0),
		}}
	case *JoinH:
		ll := st.lay(n.L)
		rl := st.lay(n.R)
		last := &ll[len(ll)-1]
		first := rl[0]
		delta := last.leadOut().Sub(first.origin)
		st.backing.TranslateRange(first.region.Range.Begin, first.region.Range.End, delta)
		joined, err := JoinRegions(last.region, first.region)
		if err != nil && st.err == nil {
			st.err = err
		}
		last.region = joined
		last.advance = last.advance.Add(first.advance)
		return append(ll, rl[1:]...)
	case *JoinV:
		return append(st.lay(n.L), st.lay(n.R)...)
	case *Wrap:
		lines := st.lay(n.Child)
		for i := range lines {
			line := &lines[i]
			line.advance.X += 2 * n.Padding
			if st.settings.TranslateWraps {
				st.backing.TranslateRange(line.region.Range.Begin, line.region.Range.End,
					geometry.Vector{X: n.Padding})
			} else {
				line.origin.X -= n.Padding
			}
			line.region = line.region.Widen()
		}
		return lines
	}
	return nil
}

// stack places lines top to bottom, computing each line's offset with the
// backing's chunk index and the timetable's shared-ancestor peeling. The
// outer loop is an abort checkpoint.
func (st *rocksState) stack(lines []rline, res *Result, cfg config) error {
	b := st.backing
	baseline := 0.0
	placedEnd := 0

	for lineNo, line := range lines {
		if cfg.aborted() {
			return ErrAborted
		}
		y := 0.0
		if lineNo == 0 {
			// Drop the first baseline so the outermost inflated top sits at 0.
			for idx := line.region.Range.Begin; idx < line.region.Range.End; idx++ {
				if b.IsSpacer(idx) {
					continue
				}
				if off := b.MaxPadding(idx) - b.Rect(idx).Top; off > y {
					y = off
				}
			}
		} else {
			y = baseline + st.settings.IdealLeading
			for idx := line.region.Range.Begin; idx < line.region.Range.End; idx++ {
				if b.IsSpacer(idx) {
					continue
				}
				if off, ok := st.leadingFor(idx, placedEnd); ok && off > y {
					y = off
				}
			}
		}
		baseline = y

		b.TranslateRange(line.region.Range.Begin, line.region.Range.End, geometry.Vector{Y: y})
		for idx := line.region.Range.Begin; idx < line.region.Range.End; idx++ {
			if b.IsSpacer(idx) || st.synthetic[idx] {
				continue
			}
			res.fragments = append(res.fragments, Fragment{
				Text:     b.Text(idx),
				Rect:     b.Rect(idx),
				Line:     lineNo,
				Baseline: y,
			})
		}
		placedEnd = line.region.Range.End
	}
	return nil
}

// leadingFor computes the offset fragment bIdx needs below the already
// placed content [0, placedEnd). Chunks are visited bottom-up; the search
// stops once no higher chunk can raise the offset past the best found.
func (st *rocksState) leadingFor(bIdx, placedEnd int) (float64, bool) {
	b := st.backing
	rb := b.Rect(bIdx)
	pbMax := b.MaxPadding(bIdx)

	lo, hi, ok := b.chunkBounds()
	if !ok {
		return 0, false
	}

	best := 0.0
	found := false
	for c := hi; c >= lo; c-- {
		if found {
			limit := float64(c+1)*chunkHeight + b.maxPad + pbMax - rb.Top
			if limit < best {
				break
			}
		}
		for _, aIdx := range b.chunkItems(c, 0, placedEnd) {
			pa, pb := st.tt.SpaceBetween(aIdx, bIdx)
			ra := b.Rect(aIdx).Inflate(pa)
			rbi := rb.Inflate(pb)
			if !ra.OverlapsX(rbi) {
				continue
			}
			if off := ra.Bottom - rbi.Top; !found || off > best {
				best = off
				found = true
			}
		}
	}
	return best, found
}

// buildRockBoxes reports each wrap's padded per-fragment rectangles without
// unioning them, the plain rocks look.
func (st *rocksState) buildRockBoxes(res *Result) {
	for _, w := range st.orderedWraps() {
		var pg polygon.Polygon
		for col := w.Begin; col < w.End; col++ {
			pad, ok := st.tt.PaddingUnder(col, w.UID)
			if !ok || st.synthetic[col] {
				continue
			}
			pg = append(pg, polygon.PathOfRect(st.backing.Rect(col).Inflate(pad)))
		}
		if len(pg) > 0 {
			res.outlines = append(res.outlines, Outline{Style: w.Style, Polygon: pg, Depth: w.Depth})
		}
	}
}

// buildOutlines unions each wrap's padded rectangles into a rectilinear
// polygon, then simplifies every outline while keeping it inside its
// parent's outline and outside its siblings'. The simplification fixed point
// is an abort checkpoint.
func (st *rocksState) buildOutlines(res *Result, cfg config) error {
	wraps := st.orderedWraps()

	outlines := make(map[int]polygon.Polygon, len(wraps))
	for _, w := range wraps {
		var rects []geometry.Rect
		for col := w.Begin; col < w.End; col++ {
			pad, ok := st.tt.PaddingUnder(col, w.UID)
			if !ok || st.synthetic[col] {
				continue
			}
			rects = append(rects, st.backing.Rect(col).Inflate(pad))
		}
		outlines[w.UID] = polygon.FromRectangles(rects)
	}

	if st.settings.EnableSimplification {
		for _, w := range wraps {
			pg := outlines[w.UID]
			if len(pg) == 0 {
				continue
			}
			opts := polygon.SimplifyOptions{Stop: cfg.aborted}
			if w.Parent != 0 {
				opts.KeepInside = outlines[w.Parent]
			}
			for _, sib := range wraps {
				if sib.UID != w.UID && sib.Parent == w.Parent {
					if s := outlines[sib.UID]; len(s) > 0 {
						opts.KeepOutside = append(opts.KeepOutside, s)
					}
				}
			}
			simplified, aborted := polygon.Simplify(pg, opts)
			if aborted {
				return ErrAborted
			}
			outlines[w.UID] = simplified
		}
	}

	for _, w := range wraps {
		if pg := outlines[w.UID]; len(pg) > 0 {
			res.outlines = append(res.outlines, Outline{Style: w.Style, Polygon: pg, Depth: w.Depth})
		}
	}
	return nil
}

// orderedWraps returns the timetable's wraps outermost first: parents carry
// greater depths, and ties resolve by uid for determinism.
func (st *rocksState) orderedWraps() []WrapInfo {
	wraps := append([]WrapInfo(nil), st.tt.Wraps()...)
	sort.Slice(wraps, func(i, j int) bool {
		if wraps[i].Depth != wraps[j].Depth {
			return wraps[i].Depth > wraps[j].Depth
		}
		return wraps[i].UID < wraps[j].UID
	})
	return wraps
}
