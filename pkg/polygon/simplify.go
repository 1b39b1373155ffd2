package polygon

import (
	"math"

	"github.com/matzehuels/raggedblocks/pkg/geometry"
)

// SimplifyOptions constrains where simplification may add material.
type SimplifyOptions struct {
	// KeepInside, when non-nil, bounds the simplified path: material is only
	// added where it stays inside this polygon.
	KeepInside Polygon

	// KeepOutside lists regions the simplified path must not invade.
	KeepOutside []Polygon

	// Stop is polled between fixed-point iterations; returning true abandons
	// the remaining work. May be nil.
	Stop func() bool
}

// Simplify reduces the corner count of every path in the polygon, iterating
// antiknob removal and concave-corner removal until each path reaches a fixed
// point. Material is only ever added, and only where it stays inside
// opts.KeepInside, outside every opts.KeepOutside region, and outside the
// polygon's other paths. The aborted result is true when opts.Stop cut the
// work short; the returned polygon is then valid but only partially
// simplified.
func Simplify(pg Polygon, opts SimplifyOptions) (Polygon, bool) {
	out := pg.Clone()
	for i := range out {
		local := opts
		for j := range out {
			if j != i {
				local.KeepOutside = append(local.KeepOutside, Polygon{out[j]})
			}
		}
		p, aborted := SimplifyPath(out[i], local)
		out[i] = p
		if aborted {
			return out, true
		}
	}
	return out, false
}

// SimplifyPath iterates RemoveAntiknobs and RemoveClockwiseCorners on a
// single path until neither makes progress.
func SimplifyPath(p Path, opts SimplifyOptions) (Path, bool) {
	cur := p
	for {
		if opts.Stop != nil && opts.Stop() {
			return cur, true
		}
		next, changedKnobs := RemoveAntiknobs(cur, opts)
		next, changedCorners := RemoveClockwiseCorners(next, opts)
		cur = next
		if !changedKnobs && !changedCorners {
			return cur, false
		}
	}
}

// dirBetween returns the unit direction of the edge a→b.
func dirBetween(a, b geometry.Point) geometry.Vector { return unitDir(a, b) }

// cross returns the z component of u × v. Under the CCW/y-down convention a
// positive value marks a concave (interior-reflex) corner.
func cross(u, v geometry.Vector) float64 { return u.X*v.Y - u.Y*v.X }

// areaAllowed checks the three clearance conditions for filling area.
func areaAllowed(area geometry.Rect, self Path, opts SimplifyOptions) bool {
	if area.Area() <= areaEpsilon {
		return false
	}
	if self.IntersectionArea(area) > areaEpsilon {
		return false
	}
	if opts.KeepInside != nil && !opts.KeepInside.ContainsRect(area) {
		return false
	}
	for _, q := range opts.KeepOutside {
		if q.IntersectsRect(area) {
			return false
		}
	}
	return true
}

// RemoveAntiknobs performs one pass of antiknob removal over the path. An
// antiknob is a pair of consecutive reflex turns whose outer segments run
// antiparallel: a thin slit of exterior poking into the interior. When the
// slit's swept rectangle is clear, the shorter wall is retracted to form a
// clean corner; equal walls collapse the slit entirely. Returns the new path
// and whether anything changed.
func RemoveAntiknobs(p Path, opts SimplifyOptions) (Path, bool) {
	changed := false
	cur := p
	for {
		next, ok := removeOneAntiknob(cur, opts)
		if !ok {
			return cur, changed
		}
		cur = next
		changed = true
	}
}

func removeOneAntiknob(p Path, opts SimplifyOptions) (Path, bool) {
	n := len(p)
	if n < 6 {
		return p, false
	}
	for i := 0; i < n; i++ {
		p0 := p[i]
		p1 := p[(i+1)%n]
		p2 := p[(i+2)%n]
		p3 := p[(i+3)%n]

		dirA := dirBetween(p0, p1)
		dirB := dirBetween(p1, p2)
		dirC := dirBetween(p2, p3)
		if dirA != (geometry.Vector{X: -dirC.X, Y: -dirC.Y}) {
			continue
		}
		if cross(dirA, dirB) <= 0 || cross(dirB, dirC) <= 0 {
			continue
		}

		la := p1.Sub(p0)
		lc := p3.Sub(p2)
		lenA := math.Abs(la.X) + math.Abs(la.Y)
		lenC := math.Abs(lc.X) + math.Abs(lc.Y)

		var area geometry.Rect
		var repl []geometry.Point
		switch {
		case geometry.Eq(lenA, lenC):
			area = geometry.RectFrom(p1, p3)
			repl = nil
		case lenA < lenC:
			q := p2.Add(dirC.Scale(lenA))
			area = geometry.RectFrom(p1, q)
			repl = []geometry.Point{q}
		default:
			q := p1.Add(dirA.Scale(-lenC))
			area = geometry.RectFrom(p2, q)
			repl = []geometry.Point{q}
		}
		if !areaAllowed(area, p, opts) {
			continue
		}

		out := make(Path, 0, n-2+len(repl))
		for j := 0; j < n; j++ {
			switch j {
			case (i + 1) % n, (i + 2) % n:
				// slit walls dropped
			case i:
				out = append(out, p[j])
				out = append(out, repl...)
			default:
				out = append(out, p[j])
			}
		}
		if norm := out.normalize(); norm != nil {
			return norm, true
		}
	}
	return p, false
}

// RemoveClockwiseCorners performs one pass of reflex-corner removal. For each
// corner turning clockwise (a concavity under CCW winding) the inside-out
// rectangle spanning the corner is filled when clear, replacing the three
// corner vertices with the opposite corner point. Returns the new path and
// whether anything changed.
func RemoveClockwiseCorners(p Path, opts SimplifyOptions) (Path, bool) {
	changed := false
	cur := p
	for {
		next, ok := removeOneCorner(cur, opts)
		if !ok {
			return cur, changed
		}
		cur = next
		changed = true
	}
}

func removeOneCorner(p Path, opts SimplifyOptions) (Path, bool) {
	n := len(p)
	if n < 6 {
		return p, false
	}
	for i := 0; i < n; i++ {
		a := p[i]
		b := p[(i+1)%n]
		c := p[(i+2)%n]

		if cross(dirBetween(a, b), dirBetween(b, c)) <= 0 {
			continue
		}

		b2 := geometry.Point{X: a.X + c.X - b.X, Y: a.Y + c.Y - b.Y}
		area := geometry.RectFrom(b, b2)
		if !areaAllowed(area, p, opts) {
			continue
		}

		out := make(Path, 0, n-2)
		for j := 0; j < n; j++ {
			switch j {
			case i, (i + 2) % n:
				// neighbours deleted
			case (i + 1) % n:
				out = append(out, b2)
			default:
				out = append(out, p[j])
			}
		}
		if norm := out.normalize(); norm != nil {
			return norm, true
		}
	}
	return p, false
}
