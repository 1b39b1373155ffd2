package render

import (
	"fmt"
	"math"
	"strings"

	"github.com/matzehuels/raggedblocks/pkg/geometry"
	"github.com/matzehuels/raggedblocks/pkg/polygon"
)

// PathStyle controls how a rectilinear polygon is serialized to an SVG path
// string.
type PathStyle struct {
	// Radius rounds corners; it is clamped per corner to half the shorter
	// adjoining edge.
	Radius float64

	// Side flags gate which outline segments are emitted. With all four
	// false, every segment is drawn as one closed subpath per boundary path.
	// With a subset set, undrawn sides break the outline into separate
	// move-line fragments and corners between two drawn sides stay rounded.
	Top, Right, Bottom, Left bool
}

// allSides reports whether the style draws the complete outline.
func (s PathStyle) allSides() bool { return !s.Top && !s.Right && !s.Bottom && !s.Left }

// side classifies an edge of a CCW-wound rectilinear path by which side of
// the enclosed region it bounds.
func side(a, b geometry.Point) string {
	switch {
	case geometry.Eq(a.Y, b.Y) && b.X < a.X:
		return "top"
	case geometry.Eq(a.Y, b.Y):
		return "bottom"
	case b.Y > a.Y:
		return "left"
	default:
		return "right"
	}
}

func (s PathStyle) draws(a, b geometry.Point) bool {
	if s.allSides() {
		return true
	}
	switch side(a, b) {
	case "top":
		return s.Top
	case "bottom":
		return s.Bottom
	case "left":
		return s.Left
	default:
		return s.Right
	}
}

// PathData serializes a rectilinear polygon into an SVG path string using M,
// L, A, and Z commands.
func PathData(pg polygon.Polygon, style PathStyle) string {
	var parts []string
	for _, p := range pg {
		if d := pathData(p, style); d != "" {
			parts = append(parts, d)
		}
	}
	return strings.Join(parts, " ")
}

func fmtPt(p geometry.Point) string {
	return fmt.Sprintf("%.2f %.2f", p.X, p.Y)
}

// cornerRadius clamps the style radius to half the shorter adjoining edge.
func cornerRadius(style PathStyle, a, b, c geometry.Point) float64 {
	if style.Radius <= 0 {
		return 0
	}
	in := math.Abs(b.X-a.X) + math.Abs(b.Y-a.Y)
	out := math.Abs(c.X-b.X) + math.Abs(c.Y-b.Y)
	return math.Min(style.Radius, math.Min(in/2, out/2))
}

// towards returns the point at distance d from b along the edge back to a.
func towards(b, a geometry.Point, d float64) geometry.Point {
	dx, dy := a.X-b.X, a.Y-b.Y
	l := math.Abs(dx) + math.Abs(dy)
	if l == 0 {
		return b
	}
	return geometry.Point{X: b.X + dx/l*d, Y: b.Y + dy/l*d}
}

func pathData(p polygon.Path, style PathStyle) string {
	n := len(p)
	if n < 2 {
		return ""
	}

	var sb strings.Builder
	penDown := false

	emitCorner := func(prev, cur, next geometry.Point) {
		r := cornerRadius(style, prev, cur, next)
		if r <= 0 {
			fmt.Fprintf(&sb, " L %s", fmtPt(cur))
			return
		}
		entry := towards(cur, prev, r)
		exit := towards(cur, next, r)
		din := cur.Sub(prev)
		dout := next.Sub(cur)
		sweep := 1
		if din.X*dout.Y-din.Y*dout.X < 0 {
			sweep = 0
		}
		fmt.Fprintf(&sb, " L %s A %.2f %.2f 0 0 %d %s", fmtPt(entry), r, r, sweep, fmtPt(exit))
	}

	if style.allSides() {
		start := p[0]
		r0 := cornerRadius(style, p[n-1], p[0], p[1])
		if r0 > 0 {
			start = towards(p[0], p[1], r0)
		}
		fmt.Fprintf(&sb, "M %s", fmtPt(start))
		for i := 1; i <= n; i++ {
			// i == n closes back through the first corner.
			emitCorner(p[(i-1)%n], p[i%n], p[(i+1)%n])
		}
		sb.WriteString(" Z")
		return sb.String()
	}

	// Gated sides: emit each drawn edge, joining consecutive drawn edges with
	// a rounded corner and breaking the pen at undrawn ones.
	for i := 0; i < n; i++ {
		a, b := p[i], p[(i+1)%n]
		if !style.draws(a, b) {
			penDown = false
			continue
		}
		if !penDown {
			if sb.Len() > 0 {
				sb.WriteString(" ")
			}
			fmt.Fprintf(&sb, "M %s", fmtPt(a))
			penDown = true
		}
		next := p[(i+2)%n]
		if style.draws(b, next) {
			emitCorner(a, b, next)
		} else {
			fmt.Fprintf(&sb, " L %s", fmtPt(b))
		}
	}
	return sb.String()
}
