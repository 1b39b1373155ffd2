package polygon

import (
	"math"

	"github.com/matzehuels/raggedblocks/pkg/geometry"
)

// onSegment reports whether pt lies on the axis-aligned segment a-b.
func onSegment(pt, a, b geometry.Point) bool {
	if geometry.Eq(a.Y, b.Y) {
		lo, hi := math.Min(a.X, b.X), math.Max(a.X, b.X)
		return geometry.Eq(pt.Y, a.Y) && pt.X >= lo-geometry.Epsilon && pt.X <= hi+geometry.Epsilon
	}
	lo, hi := math.Min(a.Y, b.Y), math.Max(a.Y, b.Y)
	return geometry.Eq(pt.X, a.X) && pt.Y >= lo-geometry.Epsilon && pt.Y <= hi+geometry.Epsilon
}

// OnBoundary reports whether pt lies on any edge of the path.
func (p Path) OnBoundary(pt geometry.Point) bool {
	for i, a := range p {
		if onSegment(pt, a, p[(i+1)%len(p)]) {
			return true
		}
	}
	return false
}

// crossings counts how many vertical edges of the path a rightward ray from
// pt crosses. Each vertical edge is treated as half-open in y so a ray
// grazing a shared vertex is counted exactly once: the cusp and the
// half-crossing cases of the ray test collapse into the half-open rule.
func (p Path) crossings(pt geometry.Point) int {
	count := 0
	for i, a := range p {
		b := p[(i+1)%len(p)]
		if geometry.Eq(a.X, b.X) {
			lo, hi := math.Min(a.Y, b.Y), math.Max(a.Y, b.Y)
			if a.X > pt.X+geometry.Epsilon && pt.Y >= lo-geometry.Epsilon && pt.Y < hi-geometry.Epsilon {
				count++
			}
		}
	}
	return count
}

// ContainsPoint reports whether pt lies inside the path or on its boundary.
func (p Path) ContainsPoint(pt geometry.Point) bool {
	if p.OnBoundary(pt) {
		return true
	}
	return p.crossings(pt)%2 == 1
}

// ContainsPoint reports whether pt lies inside the polygon under the even-odd
// rule, counting crossings over all paths. Points on any path edge are
// inclusively inside.
func (pg Polygon) ContainsPoint(pt geometry.Point) bool {
	total := 0
	for _, p := range pg {
		if p.OnBoundary(pt) {
			return true
		}
		total += p.crossings(pt)
	}
	return total%2 == 1
}
