package layout

// Cell is one entry of a fragment column: the wrap applied at this depth and
// the cumulative padding of all wraps from the fragment out to and including
// it. UID 0 is the implicit base cell below every column.
type Cell struct {
	UID     int
	Padding float64
}

// baseCell sits below depth 1 in every column.
var baseCell = Cell{UID: 0, Padding: 0}

// WrapInfo records one wrap of the reassociated tree: its identity, the
// contiguous fragment columns beneath it, and its position in the nesting.
type WrapInfo struct {
	UID     int
	Padding float64 // this wrap's own padding
	Style   *Style

	// Begin and End delimit the column range beneath the wrap.
	Begin, End int

	// Depth is the row of this wrap's cells. Rows count from the fragments
	// outward, so enclosing wraps sit at larger depths.
	Depth int

	// Parent is the UID of the directly enclosing wrap, 0 for none.
	Parent int
}

// Timetable is the per-fragment, per-depth table of cumulative paddings.
// Columns are fragments in document order; rows run from the innermost wrap
// (depth 1) outward. Shorter columns are padded upward by repeating their top
// cell so every column has exactly MaxDepth cells.
type Timetable struct {
	cols   [][]Cell
	spacer []bool
	wraps  []WrapInfo // indexed by UID-1

	maxDepth int
}

// BuildTimetable walks the reassociated tree in pre-order, assigning each
// atom and spacer a fresh column and each wrap a fresh uid starting at 1.
func BuildTimetable(root Expr) *Timetable {
	tt := &Timetable{}
	tt.build(root)
	for col := range tt.cols {
		tt.fill(col, tt.maxDepth)
	}
	return tt
}

// build returns the column range of e and its wrap depth, recording the
// top-level wraps of the subtree for parent assignment.
func (tt *Timetable) build(e Expr) (begin, end, depth int, wraps []int) {
	switch n := e.(type) {
	case TextExpr:
		col := tt.addColumn(false)
		return col, col + 1, 0, nil
	case SpacerExpr:
		col := tt.addColumn(true)
		return col, col + 1, 0, nil
	case *JoinH:
		return tt.buildJoin(n.L, n.R)
	case *JoinV:
		return tt.buildJoin(n.L, n.R)
	case *Wrap:
		begin, end, d, children := tt.build(n.Child)
		uid := len(tt.wraps) + 1
		for col := begin; col < end; col++ {
			if tt.spacer[col] {
				continue
			}
			tt.fill(col, d)
			top := tt.top(col)
			tt.cols[col] = append(tt.cols[col], Cell{UID: uid, Padding: top.Padding + n.Padding})
		}
		info := WrapInfo{
			UID:     uid,
			Padding: n.Padding,
			Style:   n.Style,
			Begin:   begin,
			End:     end,
			Depth:   d + 1,
		}
		tt.wraps = append(tt.wraps, info)
		for _, child := range children {
			tt.wraps[child-1].Parent = uid
		}
		if d+1 > tt.maxDepth {
			tt.maxDepth = d + 1
		}
		return begin, end, d + 1, []int{uid}
	}
	return 0, 0, 0, nil
}

func (tt *Timetable) buildJoin(l, r Expr) (int, int, int, []int) {
	lb, _, ld, lw := tt.build(l)
	_, re, rd, rw := tt.build(r)
	return lb, re, max(ld, rd), append(lw, rw...)
}

func (tt *Timetable) addColumn(spacer bool) int {
	tt.cols = append(tt.cols, nil)
	tt.spacer = append(tt.spacer, spacer)
	return len(tt.cols) - 1
}

// top returns the highest cell of a column, or the base cell when empty.
func (tt *Timetable) top(col int) Cell {
	if len(tt.cols[col]) == 0 {
		return baseCell
	}
	return tt.cols[col][len(tt.cols[col])-1]
}

// fill pads the column up to depth by repeating its top cell.
func (tt *Timetable) fill(col, depth int) {
	if tt.spacer[col] {
		return
	}
	for len(tt.cols[col]) < depth {
		tt.cols[col] = append(tt.cols[col], tt.top(col))
	}
}

// Columns returns the number of fragment columns.
func (tt *Timetable) Columns() int { return len(tt.cols) }

// MaxDepth returns the deepest wrap nesting of the tree.
func (tt *Timetable) MaxDepth() int { return tt.maxDepth }

// IsSpacer reports whether the column holds a spacer.
func (tt *Timetable) IsSpacer(col int) bool { return tt.spacer[col] }

// Wraps returns the recorded wraps, ordered by uid (children before their
// parents).
func (tt *Timetable) Wraps() []WrapInfo { return tt.wraps }

// MaxPadding returns the total cumulative padding stacked on the column.
func (tt *Timetable) MaxPadding(col int) float64 {
	if tt.spacer[col] {
		return 0
	}
	return tt.top(col).Padding
}

// CellAt returns the column's cell at the given depth; depth 0 is the base
// cell.
func (tt *Timetable) CellAt(col, depth int) Cell {
	if depth <= 0 || tt.spacer[col] || len(tt.cols[col]) == 0 {
		return baseCell
	}
	if depth > len(tt.cols[col]) {
		depth = len(tt.cols[col])
	}
	return tt.cols[col][depth-1]
}

// PaddingUnder returns the cumulative padding of the column's cell carrying
// the given wrap uid. ok is false when the column is a spacer or not beneath
// the wrap.
func (tt *Timetable) PaddingUnder(col, uid int) (float64, bool) {
	if tt.spacer[col] {
		return 0, false
	}
	for _, c := range tt.cols[col] {
		if c.UID == uid {
			return c.Padding, true
		}
	}
	return 0, false
}

// SpaceBetween returns the padding pair that must separate fragments a and b.
// Shared enclosing wraps contribute no separation, so they are peeled from
// the outside in: both pointers skip their runs of a shared uid until the
// columns diverge, and the cumulative paddings at the stopping cells are the
// answer. Spacer columns require no padding at all.
func (tt *Timetable) SpaceBetween(a, b int) (pa, pb float64) {
	if tt.spacer[a] || tt.spacer[b] {
		return 0, 0
	}
	return spaceBetweenCells(tt.cols[a], tt.cols[b])
}

// spaceBetweenCells peels shared wraps from the top of two cell stacks.
// Synthetic fill repeats a uid across consecutive depths, so peeling skips
// whole runs.
func spaceBetweenCells(ca, cb []Cell) (pa, pb float64) {
	da, db := len(ca), len(cb)
	at := func(cells []Cell, d int) Cell {
		if d <= 0 {
			return baseCell
		}
		return cells[d-1]
	}
	for {
		top, partner := at(ca, da), at(cb, db)
		if top.UID != partner.UID {
			break
		}
		if top.UID == 0 {
			return 0, 0
		}
		uid := top.UID
		for da > 0 && at(ca, da).UID == uid {
			da--
		}
		for db > 0 && at(cb, db).UID == uid {
			db--
		}
	}
	return at(ca, da).Padding, at(cb, db).Padding
}
