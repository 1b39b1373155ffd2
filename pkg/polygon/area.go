package polygon

import (
	"math"

	"github.com/matzehuels/raggedblocks/pkg/geometry"
)

// IntersectionArea returns the area shared by the filled region of the path
// and the rectangle. The path must be counter-clockwise wound.
//
// The computation sweeps the path's horizontal edges: each edge is truncated
// to the rectangle's x-range, its y clamped to the rectangle's y-range, and
// its span accumulated signed by edge kind. Under CCW winding, top edges
// (interior below) run right-to-left and contribute positively; bottom edges
// run left-to-right and contribute negatively.
func (p Path) IntersectionArea(r geometry.Rect) float64 {
	var area float64
	for i, a := range p {
		b := p[(i+1)%len(p)]
		if !geometry.Eq(a.Y, b.Y) {
			continue
		}
		lo, hi := math.Min(a.X, b.X), math.Max(a.X, b.X)
		w := math.Min(hi, r.Right) - math.Max(lo, r.Left)
		if w <= 0 {
			continue
		}
		y := math.Min(math.Max(a.Y, r.Top), r.Bottom)
		if b.X < a.X {
			area += w * (r.Bottom - y)
		} else {
			area -= w * (r.Bottom - y)
		}
	}
	return area
}

// IntersectionArea returns the area shared by the polygon's even-odd filled
// region and the rectangle. Hole paths subtract from the total; a path is a
// hole when an odd number of the other paths contain its first vertex.
func (pg Polygon) IntersectionArea(r geometry.Rect) float64 {
	var area float64
	for i, p := range pg {
		if len(p) == 0 {
			continue
		}
		a := p.IntersectionArea(r)
		if pg.isHole(i) {
			area -= a
		} else {
			area += a
		}
	}
	return area
}

// isHole reports whether path i is nested inside an odd number of the other
// paths.
func (pg Polygon) isHole(i int) bool {
	depth := 0
	for j, q := range pg {
		if j == i || len(q) == 0 {
			continue
		}
		if !q.OnBoundary(pg[i][0]) && q.crossings(pg[i][0])%2 == 1 {
			depth++
		}
	}
	return depth%2 == 1
}

// ContainsRect reports whether the rectangle lies entirely inside the
// polygon's filled region, up to the area tolerance.
func (pg Polygon) ContainsRect(r geometry.Rect) bool {
	if len(pg) == 0 {
		return false
	}
	return math.Abs(pg.IntersectionArea(r)-r.Area()) <= areaEpsilon
}

// IntersectsRect reports whether the rectangle shares any area with the
// polygon's filled region.
func (pg Polygon) IntersectsRect(r geometry.Rect) bool {
	return pg.IntersectionArea(r) > areaEpsilon
}

// IntersectsRect reports whether the rectangle shares any area with the
// path's filled region.
func (p Path) IntersectsRect(r geometry.Rect) bool {
	return p.IntersectionArea(r) > areaEpsilon
}
