package polygon

import (
	"math"

	"github.com/matzehuels/raggedblocks/pkg/errors"
	"github.com/matzehuels/raggedblocks/pkg/geometry"
)

// quantum is the grid used to identify coinciding endpoints when stitching
// boundary segments into paths. It is coarser than geometry.Epsilon because
// endpoint coordinates are sums of several float operations.
const quantum = 1e-6

// areaEpsilon is the tolerance for area comparisons in containment and
// intersection tests.
const areaEpsilon = 1e-6

// Path is an ordered list of points forming an implicitly closed loop.
type Path []geometry.Point

// Polygon is a list of paths. Nested paths describe holes under the even-odd
// rule; disjoint paths describe separate components.
type Polygon []Path

// Segment is an axis-aligned line segment.
type Segment struct {
	From, To geometry.Point
}

// NewSegment builds an axis-aligned segment from a to b. It returns an
// INTERNAL_ERROR if the segment is not horizontal or vertical; valid kernel
// output never triggers this.
func NewSegment(a, b geometry.Point) (Segment, error) {
	if !geometry.Eq(a.X, b.X) && !geometry.Eq(a.Y, b.Y) {
		return Segment{}, errors.New(errors.ErrCodeNotRectilinear,
			"segment (%g,%g)-(%g,%g) is not axis-aligned", a.X, a.Y, b.X, b.Y)
	}
	return Segment{From: a, To: b}, nil
}

// Horizontal reports whether the segment runs along the x axis.
func (s Segment) Horizontal() bool { return geometry.Eq(s.From.Y, s.To.Y) }

// Length returns the segment's length.
func (s Segment) Length() float64 {
	return math.Abs(s.To.X-s.From.X) + math.Abs(s.To.Y-s.From.Y)
}

// PathOfRect returns the counter-clockwise boundary path of r.
func PathOfRect(r geometry.Rect) Path {
	return Path{
		{X: r.Left, Y: r.Top},
		{X: r.Left, Y: r.Bottom},
		{X: r.Right, Y: r.Bottom},
		{X: r.Right, Y: r.Top},
	}
}

// signedSum computes Σ (b.x-a.x)(b.y+a.y) over the closed path. Positive
// means counter-clockwise under the y-down convention.
func (p Path) signedSum() float64 {
	var sum float64
	for i, a := range p {
		b := p[(i+1)%len(p)]
		sum += (b.X - a.X) * (b.Y + a.Y)
	}
	return sum
}

// IsCCW reports whether the path is counter-clockwise wound.
func (p Path) IsCCW() bool { return p.signedSum() > 0 }

// Area returns the absolute enclosed area of the path.
func (p Path) Area() float64 { return math.Abs(p.signedSum()) / 2 }

// IsRectilinear reports whether every edge of the path is axis-aligned.
func (p Path) IsRectilinear() bool {
	for i, a := range p {
		b := p[(i+1)%len(p)]
		if !geometry.Eq(a.X, b.X) && !geometry.Eq(a.Y, b.Y) {
			return false
		}
	}
	return true
}

// Validate returns an error unless the path is rectilinear and has at least
// four vertices.
func (p Path) Validate() error {
	if len(p) < 4 {
		return errors.New(errors.ErrCodeNotRectilinear, "path has %d vertices, need at least 4", len(p))
	}
	if !p.IsRectilinear() {
		return errors.New(errors.ErrCodeNotRectilinear, "path has a non-axis-aligned edge")
	}
	return nil
}

// BoundingBox returns the smallest rectangle covering the path. ok is false
// for an empty path.
func (p Path) BoundingBox() (geometry.Rect, bool) {
	if len(p) == 0 {
		return geometry.Rect{}, false
	}
	r := geometry.Rect{Left: p[0].X, Top: p[0].Y, Right: p[0].X, Bottom: p[0].Y}
	for _, pt := range p[1:] {
		r.Left = math.Min(r.Left, pt.X)
		r.Top = math.Min(r.Top, pt.Y)
		r.Right = math.Max(r.Right, pt.X)
		r.Bottom = math.Max(r.Bottom, pt.Y)
	}
	return r, true
}

// BoundingBox returns the smallest rectangle covering all paths.
func (pg Polygon) BoundingBox() (geometry.Rect, bool) {
	var out geometry.Rect
	found := false
	for _, p := range pg {
		if r, ok := p.BoundingBox(); ok {
			if !found {
				out, found = r, true
			} else {
				out = out.Union(r)
			}
		}
	}
	return out, found
}

// Clone returns a deep copy of the polygon.
func (pg Polygon) Clone() Polygon {
	out := make(Polygon, len(pg))
	for i, p := range pg {
		out[i] = append(Path(nil), p...)
	}
	return out
}

// Normalized returns the path with duplicate and collinear vertices removed,
// re-wound counter-clockwise. Degenerate paths collapse to nil.
func (p Path) Normalized() Path {
	if n := p.normalize(); n != nil {
		return n.ccw()
	}
	return nil
}

// reversed returns the path wound in the opposite direction, keeping the
// first vertex in place.
func (p Path) reversed() Path {
	out := append(Path(nil), p...)
	for i, j := 1, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// ccw returns the path re-wound counter-clockwise if necessary.
func (p Path) ccw() Path {
	if len(p) >= 3 && !p.IsCCW() {
		return p.reversed()
	}
	return p
}

// normalize drops repeated vertices and merges collinear runs.
func (p Path) normalize() Path {
	out := p[:0:0]
	for _, pt := range p {
		if len(out) > 0 && out[len(out)-1].Eq(pt) {
			continue
		}
		out = append(out, pt)
	}
	for len(out) > 1 && out[0].Eq(out[len(out)-1]) {
		out = out[:len(out)-1]
	}
	if len(out) < 3 {
		return nil
	}
	merged := out[:0:0]
	n := len(out)
	for i := range out {
		prev := out[(i-1+n)%n]
		cur := out[i]
		next := out[(i+1)%n]
		if (geometry.Eq(prev.X, cur.X) && geometry.Eq(cur.X, next.X)) ||
			(geometry.Eq(prev.Y, cur.Y) && geometry.Eq(cur.Y, next.Y)) {
			continue
		}
		merged = append(merged, cur)
	}
	if len(merged) < 4 {
		return nil
	}
	return merged
}
