package layout

import (
	"sort"

	"github.com/matzehuels/raggedblocks/pkg/geometry"
	"github.com/matzehuels/raggedblocks/pkg/polygon"
)

// pstack is one fragment of a pebble line with the wrap cells stacked on it.
// Cells run innermost-first and carry cumulative padding, so the outermost
// cell's padding is the fragment's total inflation.
type pstack struct {
	spacer    bool
	width     float64
	text      string
	synthetic bool
	rect      geometry.Rect
	cells     []Cell
}

// pline is one visual line: an origin, the lead-out advance, and the stacks
// placed on it. Rectangle coordinates are line-local, with y spanning the
// baseline at 0.
type pline struct {
	origin  geometry.Point
	advance geometry.Vector
	stacks  []pstack
}

func (l *pline) leadOut() geometry.Point { return l.origin.Add(l.advance) }

// pebbleState carries the uid counter and per-wrap styling of one layout
// call.
type pebbleState struct {
	settings Settings
	nextUID  int
	styles   map[int]*Style
	pending  map[int]polygon.Polygon
}

// layoutPebble lays out the reassociated tree with per-fragment padded
// rectangle stacks and pairwise leading.
func layoutPebble(root Expr, s Settings, cfg config) (*Result, error) {
	st := &pebbleState{settings: s, styles: make(map[int]*Style)}
	lines := st.lay(root)
	return stackLines(lines, st, s, cfg)
}

func (st *pebbleState) lay(e Expr) []pline {
	switch n := e.(type) {
	case TextExpr:
		return []pline{{
			advance: geometry.Vector{X: n.Rect.Width()},
			stacks:  []pstack{{rect: n.Rect, text: n.Text, synthetic: n.Synthetic}},
		}}
	case SpacerExpr:
		return []pline{{
			advance: geometry.Vector{X: n.Width},
			stacks:  []pstack{{spacer: true, width: n.Width, text: n.Text}},
		}}
	case *JoinH:
		ll := st.lay(n.L)
		rl := st.lay(n.R)
		last := &ll[len(ll)-1]
		first := rl[0]
		// R's first line continues at L's lead-out point.
		delta := last.leadOut().Sub(first.origin)
		for i := range first.stacks {
			if !first.stacks[i].spacer {
				first.stacks[i].rect = first.stacks[i].rect.Translate(delta)
			}
		}
		last.stacks = append(last.stacks, first.stacks...)
		last.advance = last.advance.Add(first.advance)
		return append(ll, rl[1:]...)
	case *JoinV:
		return append(st.lay(n.L), st.lay(n.R)...)
	case *Wrap:
		lines := st.lay(n.Child)
		st.nextUID++
		uid := st.nextUID
		st.styles[uid] = n.Style
		for i := range lines {
			line := &lines[i]
			line.advance.X += 2 * n.Padding
			for j := range line.stacks {
				stk := &line.stacks[j]
				if stk.spacer {
					continue
				}
				top := baseCell
				if len(stk.cells) > 0 {
					top = stk.cells[len(stk.cells)-1]
				}
				stk.cells = append(stk.cells, Cell{UID: uid, Padding: top.Padding + n.Padding})
				if st.settings.TranslateWraps {
					stk.rect = stk.rect.Translate(geometry.Vector{X: n.Padding})
				}
			}
			if !st.settings.TranslateWraps {
				line.origin.X -= n.Padding
			}
		}
		return lines
	}
	return nil
}

// stackLines places lines top to bottom. Each new line drops until every
// inflated rectangle pair clears its required padding, but never less than
// the ideal leading below the previous baseline. This is the abort
// checkpoint for the whole layout walk.
func stackLines(lines []pline, st *pebbleState, s Settings, cfg config) (*Result, error) {
	res := &Result{}
	type placedStack struct {
		rect  geometry.Rect
		cells []Cell
	}
	var placed []placedStack

	baseline := 0.0
	for lineNo, line := range lines {
		if cfg.aborted() {
			return nil, ErrAborted
		}
		y := 0.0
		if lineNo == 0 {
			// Drop the first baseline so the outermost inflated top sits at 0.
			for _, stk := range line.stacks {
				if stk.spacer {
					continue
				}
				pad := 0.0
				if len(stk.cells) > 0 {
					pad = stk.cells[len(stk.cells)-1].Padding
				}
				if off := pad - stk.rect.Top; off > y {
					y = off
				}
			}
		} else {
			y = baseline + s.IdealLeading
			for _, a := range placed {
				for _, b := range line.stacks {
					if b.spacer {
						continue
					}
					pa, pb := spaceBetweenCells(a.cells, b.cells)
					ra := a.rect.Inflate(pa)
					rb := b.rect.Inflate(pb)
					if !ra.OverlapsX(rb) {
						continue
					}
					if off := ra.Bottom - rb.Top; off > y {
						y = off
					}
				}
			}
		}
		baseline = y

		for _, stk := range line.stacks {
			if stk.spacer {
				continue
			}
			abs := stk.rect.Translate(geometry.Vector{Y: y})
			placed = append(placed, placedStack{rect: abs, cells: stk.cells})
			if !stk.synthetic {
				res.fragments = append(res.fragments, Fragment{
					Text:     stk.text,
					Rect:     abs,
					Line:     lineNo,
					Baseline: y,
				})
				for _, c := range stk.cells {
					st.addPebbleOutline(c, abs)
				}
			}
		}
	}

	finishPebbleOutlines(res, st)
	return res, nil
}

// pebbleOutlines accumulate one rectangle path per wrapped fragment; the
// characteristic pebble look keeps them as separate nested boxes rather than
// a unioned region.
func (st *pebbleState) addPebbleOutline(c Cell, abs geometry.Rect) {
	if st.pending == nil {
		st.pending = make(map[int]polygon.Polygon)
	}
	st.pending[c.UID] = append(st.pending[c.UID], polygon.PathOfRect(abs.Inflate(c.Padding)))
}

func finishPebbleOutlines(res *Result, st *pebbleState) {
	uids := make([]int, 0, len(st.pending))
	for uid := range st.pending {
		uids = append(uids, uid)
	}
	// Outermost wraps carry the largest uids; paint them first.
	sort.Sort(sort.Reverse(sort.IntSlice(uids)))
	for _, uid := range uids {
		pg := st.pending[uid]
		if len(pg) == 0 {
			continue
		}
		res.outlines = append(res.outlines, Outline{
			Style:   st.styles[uid],
			Polygon: pg,
			Depth:   uid,
		})
	}
}
