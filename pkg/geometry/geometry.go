// Package geometry provides the axis-aligned primitives used by the layout
// engine: points, vectors, and rectangles.
//
// The coordinate convention follows rendering targets such as SVG: x grows to
// the right and y grows DOWN the page. Text rectangles produced by measurement
// straddle the baseline, so their Top is usually negative and their Bottom
// positive.
package geometry

import "math"

// Epsilon is the tolerance used when comparing coordinates. Two values closer
// than this are considered equal.
const Epsilon = 1e-9

// Eq reports whether a and b are equal within Epsilon.
func Eq(a, b float64) bool { return math.Abs(a-b) < Epsilon }

// Vector is a 2D displacement.
type Vector struct {
	X, Y float64
}

// Add returns the component-wise sum of v and w.
func (v Vector) Add(w Vector) Vector { return Vector{v.X + w.X, v.Y + w.Y} }

// Sub returns the component-wise difference of v and w.
func (v Vector) Sub(w Vector) Vector { return Vector{v.X - w.X, v.Y - w.Y} }

// Scale returns v scaled by s.
func (v Vector) Scale(s float64) Vector { return Vector{v.X * s, v.Y * s} }

// Point is a 2D position.
type Point struct {
	X, Y float64
}

// Add returns p displaced by v. The receiver is not modified.
func (p Point) Add(v Vector) Point { return Point{p.X + v.X, p.Y + v.Y} }

// Sub returns the displacement from q to p.
func (p Point) Sub(q Point) Vector { return Vector{p.X - q.X, p.Y - q.Y} }

// Eq reports whether p and q coincide within Epsilon.
func (p Point) Eq(q Point) bool { return Eq(p.X, q.X) && Eq(p.Y, q.Y) }

// Rect is an axis-aligned rectangle. Left <= Right and Top <= Bottom under the
// y-down convention. The zero value is the degenerate rectangle at the origin.
type Rect struct {
	Left, Top, Right, Bottom float64
}

// RectFrom builds the rectangle spanning two opposite corners in any order.
func RectFrom(a, b Point) Rect {
	return Rect{
		Left:   math.Min(a.X, b.X),
		Top:    math.Min(a.Y, b.Y),
		Right:  math.Max(a.X, b.X),
		Bottom: math.Max(a.Y, b.Y),
	}
}

// Width returns the horizontal span of r.
func (r Rect) Width() float64 { return r.Right - r.Left }

// Height returns the vertical span of r.
func (r Rect) Height() float64 { return r.Bottom - r.Top }

// Area returns the area of r.
func (r Rect) Area() float64 { return r.Width() * r.Height() }

// Translate returns r displaced by v.
func (r Rect) Translate(v Vector) Rect {
	return Rect{r.Left + v.X, r.Top + v.Y, r.Right + v.X, r.Bottom + v.Y}
}

// Inflate returns r grown by d on every side. Negative d shrinks.
func (r Rect) Inflate(d float64) Rect {
	return Rect{r.Left - d, r.Top - d, r.Right + d, r.Bottom + d}
}

// Union returns the smallest rectangle covering both r and s.
func (r Rect) Union(s Rect) Rect {
	return Rect{
		Left:   math.Min(r.Left, s.Left),
		Top:    math.Min(r.Top, s.Top),
		Right:  math.Max(r.Right, s.Right),
		Bottom: math.Max(r.Bottom, s.Bottom),
	}
}

// OverlapsX reports whether r and s share horizontal extent. Touching edges do
// not count as overlap.
func (r Rect) OverlapsX(s Rect) bool {
	return r.Left < s.Right-Epsilon && s.Left < r.Right-Epsilon
}

// Overlaps reports whether r and s share interior area.
func (r Rect) Overlaps(s Rect) bool {
	return r.OverlapsX(s) && r.Top < s.Bottom-Epsilon && s.Top < r.Bottom-Epsilon
}

// Contains reports whether p lies in r, edges included.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Left-Epsilon && p.X <= r.Right+Epsilon &&
		p.Y >= r.Top-Epsilon && p.Y <= r.Bottom+Epsilon
}

// TopLeft returns the corner with minimal coordinates.
func (r Rect) TopLeft() Point { return Point{r.Left, r.Top} }

// BottomRight returns the corner with maximal coordinates.
func (r Rect) BottomRight() Point { return Point{r.Right, r.Bottom} }
