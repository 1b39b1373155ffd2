package layout

import "testing"

func TestTimetableConstruction(t *testing.T) {
	// outer(4) around two disjoint inner(2) wraps on separate lines.
	tree := &Node{Padding: 4, Children: []Tree{
		&Node{Padding: 2, Children: []Tree{Atom{Text: "x"}}},
		Newline{},
		&Node{Padding: 2, Children: []Tree{Atom{Text: "y"}}},
	}}
	e := mustReassociate(t, tree)
	tt := BuildTimetable(e)

	if tt.MaxDepth() != 2 {
		t.Fatalf("MaxDepth = %d, want 2", tt.MaxDepth())
	}
	if tt.Columns() != 2 {
		t.Fatalf("Columns = %d, want 2", tt.Columns())
	}

	// Column of x: inner cell then outer cell with cumulative paddings.
	cx := tt.CellAt(0, 1)
	if cx.Padding != 2 {
		t.Errorf("inner cumulative padding = %v, want 2", cx.Padding)
	}
	outer := tt.CellAt(0, 2)
	if outer.Padding != 6 {
		t.Errorf("outer cumulative padding = %v, want 6", outer.Padding)
	}

	wraps := tt.Wraps()
	if len(wraps) != 3 {
		t.Fatalf("wraps = %d, want 3", len(wraps))
	}
	// The outer wrap is recorded last and parents both inner wraps.
	root := wraps[2]
	if root.Padding != 4 || root.Parent != 0 {
		t.Errorf("root wrap = %+v, want padding 4 and no parent", root)
	}
	for _, w := range wraps[:2] {
		if w.Parent != root.UID {
			t.Errorf("inner wrap %d parent = %d, want %d", w.UID, w.Parent, root.UID)
		}
	}
}

func TestSpaceBetweenDisjointWraps(t *testing.T) {
	tree := &Node{Padding: 4, Children: []Tree{
		&Node{Padding: 2, Children: []Tree{Atom{Text: "x"}}},
		Newline{},
		&Node{Padding: 2, Children: []Tree{Atom{Text: "y"}}},
	}}
	tt := BuildTimetable(mustReassociate(t, tree))

	// The shared outer wrap peels; the distinct inner wraps pad both sides.
	pa, pb := tt.SpaceBetween(0, 1)
	if pa != 2 || pb != 2 {
		t.Errorf("SpaceBetween = (%v, %v), want (2, 2)", pa, pb)
	}
}

func TestSpaceBetweenSharedWrap(t *testing.T) {
	tree := &Node{Padding: 4, Children: []Tree{
		&Node{Padding: 2, Children: []Tree{Atom{Text: "x"}, Atom{Text: "y"}}},
	}}
	tt := BuildTimetable(mustReassociate(t, tree))

	// Fully shared ancestry peels to the base: nothing separates siblings.
	pa, pb := tt.SpaceBetween(0, 1)
	if pa != 0 || pb != 0 {
		t.Errorf("SpaceBetween = (%v, %v), want (0, 0)", pa, pb)
	}
}

func TestSpaceBetweenAsymmetricDepth(t *testing.T) {
	// y sits directly in the outer wrap; x is nested two deeper.
	tree := &Node{Padding: 1, Children: []Tree{
		&Node{Padding: 2, Children: []Tree{
			&Node{Padding: 3, Children: []Tree{Atom{Text: "x"}}},
		}},
		Atom{Text: "y"},
	}}
	tt := BuildTimetable(mustReassociate(t, tree))

	pa, pb := tt.SpaceBetween(0, 1)
	if pa != 5 || pb != 0 {
		t.Errorf("SpaceBetween = (%v, %v), want (5, 0)", pa, pb)
	}
}

func TestSpaceBetweenSpacer(t *testing.T) {
	tree := &Node{Padding: 2, Children: []Tree{
		Atom{Text: "x"}, Spacer{Width: 4}, Atom{Text: "y"},
	}}
	tt := BuildTimetable(mustReassociate(t, tree))

	if !tt.IsSpacer(1) {
		t.Fatal("column 1 should be the spacer")
	}
	if pa, pb := tt.SpaceBetween(0, 1); pa != 0 || pb != 0 {
		t.Errorf("SpaceBetween with spacer = (%v, %v), want (0, 0)", pa, pb)
	}
}

func TestTimetableColumnsFilled(t *testing.T) {
	tree := &Node{Padding: 1, Children: []Tree{
		&Node{Padding: 2, Children: []Tree{Atom{Text: "deep"}}},
		Atom{Text: "shallow"},
	}}
	tt := BuildTimetable(mustReassociate(t, tree))

	// The shallow column is padded up to the inner wrap's depth by repeating
	// its top cell (the base cell) before the outer wrap's cell is appended.
	if tt.MaxDepth() != 2 {
		t.Fatalf("MaxDepth = %d, want 2", tt.MaxDepth())
	}
	filled := tt.CellAt(1, 1)
	base := tt.CellAt(1, 0)
	if filled != base {
		t.Errorf("filled cells differ: %+v vs %+v", filled, base)
	}

	// Cumulative padding is monotone in depth.
	for col := 0; col < tt.Columns(); col++ {
		if tt.IsSpacer(col) {
			continue
		}
		prev := 0.0
		for d := 1; d <= tt.MaxDepth(); d++ {
			p := tt.CellAt(col, d).Padding
			if p < prev {
				t.Errorf("column %d: padding decreases at depth %d: %v < %v", col, d, p, prev)
			}
			prev = p
		}
	}
}

func TestPaddingUnder(t *testing.T) {
	tree := &Node{Padding: 4, Children: []Tree{
		&Node{Padding: 2, Children: []Tree{Atom{Text: "x"}}},
		Atom{Text: "y"},
	}}
	tt := BuildTimetable(mustReassociate(t, tree))

	inner := tt.Wraps()[0]
	outer := tt.Wraps()[1]

	if p, ok := tt.PaddingUnder(0, inner.UID); !ok || p != 2 {
		t.Errorf("PaddingUnder(x, inner) = %v, %v; want 2, true", p, ok)
	}
	if p, ok := tt.PaddingUnder(0, outer.UID); !ok || p != 6 {
		t.Errorf("PaddingUnder(x, outer) = %v, %v; want 6, true", p, ok)
	}
	if _, ok := tt.PaddingUnder(1, inner.UID); ok {
		t.Error("y is not beneath the inner wrap")
	}
}
