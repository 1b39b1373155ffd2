package polygon

import (
	"math"
	"testing"

	"github.com/matzehuels/raggedblocks/pkg/geometry"
)

func rect(l, t, r, b float64) geometry.Rect {
	return geometry.Rect{Left: l, Top: t, Right: r, Bottom: b}
}

// samePathCyclic reports whether two paths are equal up to cyclic rotation.
func samePathCyclic(a, b Path) bool {
	if len(a) != len(b) {
		return false
	}
	for shift := 0; shift < len(b); shift++ {
		match := true
		for i := range a {
			if !a[i].Eq(b[(i+shift)%len(b)]) {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

func TestFromRectanglesSingle(t *testing.T) {
	got := FromRectangles([]geometry.Rect{rect(0, 0, 10, 10)})
	if len(got) != 1 {
		t.Fatalf("got %d paths, want 1", len(got))
	}
	if !samePathCyclic(got[0], PathOfRect(rect(0, 0, 10, 10))) {
		t.Errorf("path = %v, want rectangle boundary", got[0])
	}
	if !got[0].IsCCW() {
		t.Error("path not CCW")
	}
}

func TestFromRectanglesOverlapping(t *testing.T) {
	got := FromRectangles([]geometry.Rect{
		rect(0, 0, 10, 10),
		rect(5, 5, 15, 15),
	})
	if len(got) != 1 {
		t.Fatalf("got %d paths, want 1", len(got))
	}
	if len(got[0]) != 8 {
		t.Errorf("got %d vertices, want 8", len(got[0]))
	}
	if !got[0].IsCCW() {
		t.Error("path not CCW")
	}
	// Union area of two 10x10 squares overlapping in a 5x5 region.
	bb := rect(0, 0, 15, 15)
	if a := got[0].IntersectionArea(bb); !geometry.Eq(a, 175) {
		t.Errorf("area = %v, want 175", a)
	}
}

func TestFromRectanglesRing(t *testing.T) {
	// Four 10-thick edges forming a 50x50 square ring.
	got := FromRectangles([]geometry.Rect{
		rect(0, 0, 50, 10),   // top
		rect(0, 40, 50, 50),  // bottom
		rect(0, 10, 10, 40),  // left
		rect(40, 10, 50, 40), // right
	})
	if len(got) != 2 {
		t.Fatalf("got %d paths, want outer + hole", len(got))
	}
	for i, p := range got {
		if !p.IsCCW() {
			t.Errorf("path %d not CCW", i)
		}
		if !p.IsRectilinear() {
			t.Errorf("path %d not rectilinear", i)
		}
	}
	var outer, hole Path
	for _, p := range got {
		bb, _ := p.BoundingBox()
		if geometry.Eq(bb.Width(), 50) {
			outer = p
		} else {
			hole = p
		}
	}
	if outer == nil || hole == nil {
		t.Fatalf("missing outer or hole: %v", got)
	}
	if bb, _ := hole.BoundingBox(); !geometry.Eq(bb.Width(), 30) || !geometry.Eq(bb.Height(), 30) {
		t.Errorf("hole bounds = %v, want 30x30", bb)
	}

	pg := got
	if pg.ContainsPoint(geometry.Point{X: 25, Y: 25}) {
		t.Error("ring center should be outside (inside the hole)")
	}
	if !pg.ContainsPoint(geometry.Point{X: 5, Y: 25}) {
		t.Error("point in left edge should be inside")
	}
}

func TestFromRectanglesTouchingColinear(t *testing.T) {
	// Two rectangles sharing an edge segment (top = bottom) must fuse into a
	// single polygon.
	got := FromRectangles([]geometry.Rect{
		rect(0, 0, 10, 10),
		rect(5, 10, 15, 20),
	})
	if len(got) != 1 {
		t.Fatalf("got %d paths, want 1", len(got))
	}
	want := Path{
		{X: 0, Y: 0}, {X: 0, Y: 10}, {X: 5, Y: 10}, {X: 5, Y: 20},
		{X: 15, Y: 20}, {X: 15, Y: 10}, {X: 10, Y: 10}, {X: 10, Y: 0},
	}
	if !samePathCyclic(got[0], want) {
		t.Errorf("path = %v, want %v", got[0], want)
	}
}

func TestFromRectanglesDisjoint(t *testing.T) {
	got := FromRectangles([]geometry.Rect{
		rect(0, 0, 10, 10),
		rect(20, 0, 30, 10),
	})
	if len(got) != 2 {
		t.Fatalf("got %d paths, want 2", len(got))
	}
}

func TestFromRectanglesDegenerate(t *testing.T) {
	if got := FromRectangles([]geometry.Rect{rect(5, 5, 5, 10)}); len(got) != 0 {
		t.Errorf("zero-width rect produced %d paths, want 0", len(got))
	}
	if got := FromRectangles(nil); len(got) != 0 {
		t.Errorf("empty input produced %d paths, want 0", len(got))
	}
}

func TestPathContainsPoint(t *testing.T) {
	p := PathOfRect(rect(0, 0, 10, 10))
	tests := []struct {
		name string
		pt   geometry.Point
		want bool
	}{
		{"center", geometry.Point{X: 5, Y: 5}, true},
		{"outside", geometry.Point{X: 15, Y: 5}, false},
		{"on edge", geometry.Point{X: 10, Y: 5}, true},
		{"on corner", geometry.Point{X: 0, Y: 0}, true},
		{"left of", geometry.Point{X: -1, Y: 5}, false},
		{"aligned with top edge outside", geometry.Point{X: -1, Y: 0}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.ContainsPoint(tt.pt); got != tt.want {
				t.Errorf("ContainsPoint(%v) = %v, want %v", tt.pt, got, tt.want)
			}
		})
	}
}

func TestIntersectionArea(t *testing.T) {
	square := PathOfRect(rect(0, 0, 9, 9))
	tests := []struct {
		name string
		r    geometry.Rect
		want float64
	}{
		{"contained", rect(3, 3, 6, 6), 9},
		{"full", rect(0, 0, 9, 9), 81},
		{"half overlap", rect(4.5, 0, 13.5, 9), 40.5},
		{"disjoint", rect(20, 20, 30, 30), 0},
		{"corner overlap", rect(6, 6, 12, 12), 9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := square.IntersectionArea(tt.r); !geometry.Eq(got, tt.want) {
				t.Errorf("IntersectionArea = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPolygonAreaWithHole(t *testing.T) {
	ring := FromRectangles([]geometry.Rect{
		rect(0, 0, 50, 10),
		rect(0, 40, 50, 50),
		rect(0, 10, 10, 40),
		rect(40, 10, 50, 40),
	})
	probe := rect(20, 20, 30, 30) // entirely inside the hole
	if a := ring.IntersectionArea(probe); !geometry.Eq(a, 0) {
		t.Errorf("area inside hole = %v, want 0", a)
	}
	if ring.ContainsRect(probe) {
		t.Error("rect in hole must not be contained")
	}
	if !ring.ContainsRect(rect(0, 0, 50, 5)) {
		t.Error("rect in solid band must be contained")
	}
}

func TestOffsetRoundTrip(t *testing.T) {
	p := Path{
		{X: 0, Y: 0}, {X: 0, Y: 20}, {X: 10, Y: 20}, {X: 10, Y: 10},
		{X: 30, Y: 10}, {X: 30, Y: 0},
	}
	for _, d := range []float64{1, 2.5, 4} {
		got := OffsetPath(d, OffsetPath(-d, p))
		if len(got) != len(p) {
			t.Fatalf("d=%v: vertex count changed: %d != %d", d, len(got), len(p))
		}
		for i := range p {
			if !got[i].Eq(p[i]) {
				t.Errorf("d=%v: vertex %d = %v, want %v", d, i, got[i], p[i])
			}
		}
	}
}

func TestOffsetShrinksInward(t *testing.T) {
	p := PathOfRect(rect(0, 0, 10, 10))
	got := OffsetPath(2, p)
	want := PathOfRect(rect(2, 2, 8, 8))
	if !samePathCyclic(got, want) {
		t.Errorf("OffsetPath(2) = %v, want %v", got, want)
	}
}

func TestRemoveAntiknobs(t *testing.T) {
	// A 30x10 rectangle with a zero-clearance slit poked into its top edge:
	// west wall, back face, east wall form the antiknob.
	p := Path{
		{X: 0, Y: 0}, {X: 0, Y: 10}, {X: 30, Y: 10}, {X: 30, Y: 0},
		{X: 20, Y: 0}, {X: 20, Y: 5}, {X: 10, Y: 5}, {X: 10, Y: 0},
	}
	if !p.IsCCW() {
		t.Fatal("test path must be CCW")
	}
	got, changed := RemoveAntiknobs(p, SimplifyOptions{})
	if !changed {
		t.Fatal("expected a removal")
	}
	want := PathOfRect(rect(0, 0, 30, 10))
	if !samePathCyclic(got, want) {
		t.Errorf("simplified = %v, want plain rectangle", got)
	}
	if !got.IsCCW() {
		t.Error("winding not preserved")
	}
}

func TestRemoveClockwiseCorners(t *testing.T) {
	// L-shape; the single reflex corner is filled to the bounding rectangle.
	p := Path{
		{X: 0, Y: 0}, {X: 0, Y: 20}, {X: 20, Y: 20}, {X: 20, Y: 10},
		{X: 10, Y: 10}, {X: 10, Y: 0},
	}
	got, changed := RemoveClockwiseCorners(p, SimplifyOptions{})
	if !changed {
		t.Fatal("expected a removal")
	}
	want := PathOfRect(rect(0, 0, 20, 20))
	if !samePathCyclic(got, want) {
		t.Errorf("simplified = %v, want bounding rectangle", got)
	}
}

func TestSimplifyRespectsKeepOutside(t *testing.T) {
	l := Path{
		{X: 0, Y: 0}, {X: 0, Y: 20}, {X: 20, Y: 20}, {X: 20, Y: 10},
		{X: 10, Y: 10}, {X: 10, Y: 0},
	}
	// A sibling occupying the notch blocks the fill.
	sibling := Polygon{PathOfRect(rect(12, 2, 18, 8))}
	got, aborted := Simplify(Polygon{l}, SimplifyOptions{KeepOutside: []Polygon{sibling}})
	if aborted {
		t.Fatal("unexpected abort")
	}
	if !samePathCyclic(got[0], l) {
		t.Errorf("path changed despite blocked notch: %v", got[0])
	}
}

func TestSimplifyRespectsKeepInside(t *testing.T) {
	l := Path{
		{X: 0, Y: 0}, {X: 0, Y: 20}, {X: 20, Y: 20}, {X: 20, Y: 10},
		{X: 10, Y: 10}, {X: 10, Y: 0},
	}
	// Parent hugs the L exactly, so there is no room to fill the notch.
	parent := Polygon{append(Path(nil), l...)}
	got, _ := Simplify(Polygon{l}, SimplifyOptions{KeepInside: parent})
	if !samePathCyclic(got[0], l) {
		t.Errorf("path escaped its parent: %v", got[0])
	}

	// A roomier parent lets the corner fill proceed.
	roomy := Polygon{PathOfRect(rect(0, 0, 20, 20))}
	got, _ = Simplify(Polygon{l}, SimplifyOptions{KeepInside: roomy})
	if !samePathCyclic(got[0], PathOfRect(rect(0, 0, 20, 20))) {
		t.Errorf("expected fill up to parent, got %v", got[0])
	}
}

func TestSimplifyMonotone(t *testing.T) {
	// Simplification only adds material: points inside stay inside.
	p := Path{
		{X: 0, Y: 0}, {X: 0, Y: 30}, {X: 30, Y: 30}, {X: 30, Y: 20},
		{X: 20, Y: 20}, {X: 20, Y: 10}, {X: 30, Y: 10}, {X: 30, Y: 0},
	}
	got, _ := Simplify(Polygon{p}, SimplifyOptions{})
	for _, pt := range []geometry.Point{{X: 5, Y: 5}, {X: 15, Y: 15}, {X: 5, Y: 25}} {
		if (Polygon{p}).ContainsPoint(pt) && !got.ContainsPoint(pt) {
			t.Errorf("point %v lost during simplification", pt)
		}
	}
}

func TestSimplifyStop(t *testing.T) {
	p := Path{
		{X: 0, Y: 0}, {X: 0, Y: 20}, {X: 20, Y: 20}, {X: 20, Y: 10},
		{X: 10, Y: 10}, {X: 10, Y: 0},
	}
	_, aborted := Simplify(Polygon{p}, SimplifyOptions{Stop: func() bool { return true }})
	if !aborted {
		t.Error("expected aborted result")
	}
}

func TestNewSegmentRejectsDiagonal(t *testing.T) {
	if _, err := NewSegment(geometry.Point{X: 0, Y: 0}, geometry.Point{X: 3, Y: 4}); err == nil {
		t.Error("expected error for diagonal segment")
	}
	if _, err := NewSegment(geometry.Point{X: 0, Y: 0}, geometry.Point{X: 3, Y: 0}); err != nil {
		t.Errorf("unexpected error for horizontal segment: %v", err)
	}
}

func TestPathArea(t *testing.T) {
	p := PathOfRect(rect(0, 0, 4, 5))
	if a := p.Area(); math.Abs(a-20) > 1e-9 {
		t.Errorf("Area = %v, want 20", a)
	}
}
