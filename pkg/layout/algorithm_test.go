package layout

import (
	"testing"

	"github.com/matzehuels/raggedblocks/pkg/errors"
	"github.com/matzehuels/raggedblocks/pkg/geometry"
	"github.com/matzehuels/raggedblocks/pkg/render"
	"github.com/matzehuels/raggedblocks/pkg/textmetrics"
)

func mustNew(t *testing.T, name string) Algorithm {
	t.Helper()
	a, err := New(name)
	if err != nil {
		t.Fatalf("New(%q): %v", name, err)
	}
	return a
}

func collect(res *Result) []Fragment {
	var out []Fragment
	for f := range res.Fragments() {
		out = append(out, f)
	}
	return out
}

func TestNewUnknownAlgorithm(t *testing.T) {
	_, err := New("l2p")
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.HasCode(err, errors.ErrCodeInvalidAlgorithm) {
		t.Errorf("code = %v, want INVALID_ALGORITHM", errors.CodeOf(err))
	}
}

func TestNames(t *testing.T) {
	names := Names()
	if len(names) != 5 {
		t.Fatalf("Names() = %v, want 5 entries", names)
	}
	for _, n := range names {
		if _, err := New(n); err != nil {
			t.Errorf("New(%q) failed: %v", n, err)
		}
	}
}

// Scenario: a single measured atom must land identically under every
// rectangle-compatible algorithm.
func TestSingleAtom(t *testing.T) {
	tree := &Node{Children: []Tree{Atom{Text: "ab"}}}
	m := textmetrics.Fixed{Advance: 5, Ascent: 8, Descent: 2}
	want := geometry.Rect{Left: 0, Top: 0, Right: 10, Bottom: 10}

	for _, name := range []string{NamePebble, NameRocks, NameRocksPlus, NameBlocks, NameSBlocks} {
		t.Run(name, func(t *testing.T) {
			res, err := mustNew(t, name).Layout(tree, WithMeasurer(m))
			if err != nil {
				t.Fatalf("Layout: %v", err)
			}
			frags := collect(res)
			if len(frags) != 1 {
				t.Fatalf("fragments = %d, want 1", len(frags))
			}
			if frags[0].Line != 0 {
				t.Errorf("line = %d, want 0", frags[0].Line)
			}
			if frags[0].Rect != want {
				t.Errorf("rect = %v, want %v", frags[0].Rect, want)
			}
		})
	}
}

// Scenario: a horizontal pair under a shared padded wrap. Padding translates
// the content right and down but never separates same-line siblings.
func TestHorizontalPairSharedWrap(t *testing.T) {
	tree := &Node{Padding: 2, Children: []Tree{Atom{Text: "a"}, Atom{Text: "b"}}}
	m := textmetrics.Fixed{Advance: 10, Ascent: 8, Descent: 2}

	for _, name := range []string{NamePebble, NameRocks, NameRocksPlus} {
		t.Run(name, func(t *testing.T) {
			res, err := mustNew(t, name).Layout(tree, WithMeasurer(m))
			if err != nil {
				t.Fatalf("Layout: %v", err)
			}
			frags := collect(res)
			if len(frags) != 2 {
				t.Fatalf("fragments = %d, want 2", len(frags))
			}
			a, b := frags[0], frags[1]
			if a.Rect.Left != 2 {
				t.Errorf("a.left = %v, want 2", a.Rect.Left)
			}
			if b.Rect.Left != 12 {
				t.Errorf("b.left = %v, want 12", b.Rect.Left)
			}
			if a.Rect.Top != 2 {
				t.Errorf("a.top = %v, want 2", a.Rect.Top)
			}
			if a.Line != 0 || b.Line != 0 {
				t.Errorf("lines = %d, %d; want 0, 0", a.Line, b.Line)
			}
		})
	}
}

// Scenario: two lines in disjoint inner wraps beneath a shared outer wrap.
// The shared wrap peels; each inner wrap pads its own side of the gap.
func TestTwoLinesDisjointWraps(t *testing.T) {
	tree := &Node{Padding: 4, Children: []Tree{
		&Node{Padding: 2, Children: []Tree{Atom{Text: "x"}}},
		Newline{},
		&Node{Padding: 2, Children: []Tree{Atom{Text: "y"}}},
	}}
	m := textmetrics.Fixed{Advance: 10, Ascent: 8, Descent: 2}

	alg := mustNew(t, NameRocks).WithSettings(Settings{TranslateWraps: true, IdealLeading: 0})
	res, err := alg.Layout(tree, WithMeasurer(m))
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	frags := collect(res)
	if len(frags) != 2 {
		t.Fatalf("fragments = %d, want 2", len(frags))
	}
	x, y := frags[0], frags[1]

	// Leading between the lines is pa + pb + atom height = 2 + 2 + 10.
	if gap := y.Rect.Top - x.Rect.Bottom; gap != 4 {
		t.Errorf("inter-line gap = %v, want 2+2", gap)
	}
	if dy := y.Baseline - x.Baseline; dy != 14 {
		t.Errorf("baseline delta = %v, want 2+2+10", dy)
	}
	if x.Line != 0 || y.Line != 1 {
		t.Errorf("lines = %d, %d; want 0, 1", x.Line, y.Line)
	}
}

func invariantTree() Tree {
	return &Node{Padding: 2, Children: []Tree{
		Atom{Text: "func"},
		Spacer{Width: 5},
		&Node{Padding: 1, Children: []Tree{Atom{Text: "main"}, Atom{Text: "()"}}},
		Newline{},
		&Node{Padding: 3, Children: []Tree{Atom{Text: "body"}, Newline{}, Atom{Text: "end"}}},
		Newline{},
		Atom{Text: "tail"},
	}}
}

// Invariant: fragments come out in document order with monotone line
// numbers, one increment per newline.
func TestDocumentOrderAndLines(t *testing.T) {
	wantTexts := []string{"func", "main", "()", "body", "end", "tail"}
	wantLines := []int{0, 0, 0, 1, 2, 3}

	for _, name := range []string{NamePebble, NameRocks, NameRocksPlus, NameBlocks, NameSBlocks} {
		t.Run(name, func(t *testing.T) {
			res, err := mustNew(t, name).Layout(invariantTree(), WithMeasurer(testMeasurer))
			if err != nil {
				t.Fatalf("Layout: %v", err)
			}
			frags := collect(res)
			if len(frags) != len(wantTexts) {
				t.Fatalf("fragments = %d, want %d", len(frags), len(wantTexts))
			}
			for i, f := range frags {
				if f.Text != wantTexts[i] {
					t.Errorf("fragment %d = %q, want %q", i, f.Text, wantTexts[i])
				}
				if f.Line != wantLines[i] {
					t.Errorf("fragment %q line = %d, want %d", f.Text, f.Line, wantLines[i])
				}
			}
		})
	}
}

// Invariant: no two atom rectangles overlap; same-line atoms are x-disjoint,
// different lines are x-disjoint or vertically separated.
func TestAtomsDoNotOverlap(t *testing.T) {
	const eps = 1e-9
	for _, name := range []string{NamePebble, NameRocks, NameRocksPlus, NameBlocks, NameSBlocks} {
		t.Run(name, func(t *testing.T) {
			res, err := mustNew(t, name).Layout(invariantTree(), WithMeasurer(testMeasurer))
			if err != nil {
				t.Fatalf("Layout: %v", err)
			}
			frags := collect(res)
			for i := 0; i < len(frags); i++ {
				for j := i + 1; j < len(frags); j++ {
					a, b := frags[i], frags[j]
					xDisjoint := a.Rect.Right <= b.Rect.Left+eps || b.Rect.Right <= a.Rect.Left+eps
					if a.Line == b.Line {
						if !xDisjoint {
							t.Errorf("same-line overlap: %q %v vs %q %v", a.Text, a.Rect, b.Text, b.Rect)
						}
						continue
					}
					yDisjoint := a.Rect.Bottom <= b.Rect.Top+eps || b.Rect.Bottom <= a.Rect.Top+eps
					if !xDisjoint && !yDisjoint {
						t.Errorf("cross-line overlap: %q %v vs %q %v", a.Text, a.Rect, b.Text, b.Rect)
					}
				}
			}
		})
	}
}

// Invariant: padding is respected across adjacent lines. Inflating two
// fragments by their SpaceBetween paddings must keep them disjoint.
func TestPaddingRespected(t *testing.T) {
	tree := invariantTree()
	expr := mustReassociate(t, tree)
	tt := BuildTimetable(expr)

	res, err := mustNew(t, NameRocks).Layout(tree, WithMeasurer(testMeasurer))
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	frags := collect(res)

	for i := 0; i < len(frags); i++ {
		for j := i + 1; j < len(frags); j++ {
			a, b := frags[i], frags[j]
			if a.Line == b.Line {
				continue
			}
			pa, pb := tt.SpaceBetween(fragColumn(tt, expr, a.Text), fragColumn(tt, expr, b.Text))
			ra := a.Rect.Inflate(pa)
			rb := b.Rect.Inflate(pb)
			if ra.Overlaps(rb) {
				t.Errorf("inflated overlap between %q and %q: %v vs %v", a.Text, b.Text, ra, rb)
			}
		}
	}
}

// fragColumn resolves an atom's timetable column by text; the invariant tree
// uses unique texts.
func fragColumn(tt *Timetable, root Expr, text string) int {
	col := -1
	idx := 0
	var walk func(Expr)
	walk = func(e Expr) {
		switch n := e.(type) {
		case TextExpr:
			if n.Text == text && col < 0 {
				col = idx
			}
			idx++
		case SpacerExpr:
			idx++
		case *JoinH:
			walk(n.L)
			walk(n.R)
		case *JoinV:
			walk(n.L)
			walk(n.R)
		case *Wrap:
			walk(n.Child)
		}
	}
	walk(root)
	return col
}

// Invariant: under the outlining algorithm every atom rectangle beneath a
// wrap is contained in the wrap's outline.
func TestOutlineContainment(t *testing.T) {
	tree := &Node{Padding: 4, Children: []Tree{
		&Node{Padding: 2, Children: []Tree{Atom{Text: "x"}}},
		Newline{},
		&Node{Padding: 2, Children: []Tree{Atom{Text: "y"}}},
	}}
	res, err := mustNew(t, NameRocksPlus).Layout(tree, WithMeasurer(testMeasurer))
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}

	outlines := res.Outlines()
	if len(outlines) != 3 {
		t.Fatalf("outlines = %d, want 3", len(outlines))
	}
	outer := outlines[0]
	for _, f := range collect(res) {
		if !outer.Polygon.ContainsRect(f.Rect) {
			t.Errorf("outer outline does not contain %q at %v", f.Text, f.Rect)
		}
	}
	for _, o := range outlines {
		for _, p := range o.Polygon {
			if !p.IsRectilinear() {
				t.Errorf("outline path not rectilinear: %v", p)
			}
			if !p.IsCCW() {
				t.Errorf("outline path not CCW: %v", p)
			}
		}
	}
}

// A single-fragment wrap must come out as a plain rectangle.
func TestSingleRectangleWrap(t *testing.T) {
	tree := &Node{Padding: 3, Children: []Tree{Atom{Text: "solo"}}}
	res, err := mustNew(t, NameRocksPlus).Layout(tree, WithMeasurer(testMeasurer))
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	outlines := res.Outlines()
	if len(outlines) != 1 {
		t.Fatalf("outlines = %d, want 1", len(outlines))
	}
	if len(outlines[0].Polygon) != 1 || len(outlines[0].Polygon[0]) != 4 {
		t.Errorf("outline = %v, want one 4-corner path", outlines[0].Polygon)
	}
}

func TestEmptyTree(t *testing.T) {
	for _, name := range []string{NamePebble, NameRocks, NameRocksPlus, NameBlocks, NameSBlocks} {
		t.Run(name, func(t *testing.T) {
			res, err := mustNew(t, name).Layout(&Node{}, WithMeasurer(testMeasurer))
			if err != nil {
				t.Fatalf("Layout: %v", err)
			}
			if res.FragmentCount() != 0 {
				t.Errorf("fragments = %d, want 0", res.FragmentCount())
			}
			if _, ok := res.BoundingBox(); ok {
				t.Error("BoundingBox should report none for an empty tree")
			}
		})
	}
}

func TestOnlyNewlines(t *testing.T) {
	tree := &Node{Children: []Tree{Newline{}, Newline{}, Newline{}}}
	res, err := mustNew(t, NameRocks).Layout(tree, WithMeasurer(testMeasurer))
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	if res.FragmentCount() != 0 {
		t.Errorf("fragments = %d, want 0", res.FragmentCount())
	}
}

func TestAbort(t *testing.T) {
	tok := &AbortToken{}
	tok.Abort()
	for _, name := range []string{NamePebble, NameRocks, NameRocksPlus, NameBlocks, NameSBlocks} {
		t.Run(name, func(t *testing.T) {
			_, err := mustNew(t, name).Layout(invariantTree(), WithMeasurer(testMeasurer), WithAbort(tok))
			if !errors.Is(err, ErrAborted) {
				t.Errorf("err = %v, want ErrAborted", err)
			}
		})
	}
}

func TestWithSettingsClones(t *testing.T) {
	a := mustNew(t, NameRocksPlus)
	b := a.WithSettings(Settings{TranslateWraps: false, IdealLeading: 9})
	if a.Settings().IdealLeading == 9 {
		t.Error("WithSettings mutated the original")
	}
	if b.Settings().IdealLeading != 9 || b.Settings().TranslateWraps {
		t.Errorf("settings not applied: %+v", b.Settings())
	}
}

func TestViewSettings(t *testing.T) {
	tests := []struct {
		name   string
		fields int
	}{
		{NamePebble, 2},
		{NameRocks, 2},
		{NameRocksPlus, 3},
		{NameBlocks, 0},
		{NameSBlocks, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := mustNew(t, tt.name)
			fields := a.ViewSettings()
			if len(fields) != tt.fields {
				t.Fatalf("ViewSettings = %d fields, want %d", len(fields), tt.fields)
			}
			for _, f := range fields {
				switch f.Kind {
				case FieldToggle:
					s := f.SetBool(a.Settings(), !f.GetBool(a.Settings()))
					if f.GetBool(s) == f.GetBool(a.Settings()) {
						t.Errorf("toggle %s did not flip", f.Name)
					}
				case FieldNumber:
					s := f.SetNumber(a.Settings(), 7)
					if f.GetNumber(s) != 7 {
						t.Errorf("number %s did not update", f.Name)
					}
				}
			}
		})
	}
}

func TestDeterminism(t *testing.T) {
	for _, name := range []string{NamePebble, NameRocks, NameRocksPlus, NameBlocks, NameSBlocks} {
		t.Run(name, func(t *testing.T) {
			first, err := mustNew(t, name).Layout(invariantTree(), WithMeasurer(testMeasurer))
			if err != nil {
				t.Fatalf("Layout: %v", err)
			}
			second, err := mustNew(t, name).Layout(invariantTree(), WithMeasurer(testMeasurer))
			if err != nil {
				t.Fatalf("Layout: %v", err)
			}
			a, b := collect(first), collect(second)
			if len(a) != len(b) {
				t.Fatalf("fragment counts differ: %d vs %d", len(a), len(b))
			}
			for i := range a {
				if a[i] != b[i] {
					t.Errorf("fragment %d differs: %+v vs %+v", i, a[i], b[i])
				}
			}
		})
	}
}

func TestRenderSmoke(t *testing.T) {
	res, err := mustNew(t, NameRocksPlus).Layout(invariantTree())
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	svg := render.NewSVG()
	res.Render(svg)
	if svg.Len() == 0 {
		t.Fatal("render produced no elements")
	}
	bb, ok := res.BoundingBox()
	if !ok {
		t.Fatal("expected a bounding box")
	}
	doc := svg.Document(bb, 4)
	if len(doc) == 0 {
		t.Fatal("empty SVG document")
	}
}
