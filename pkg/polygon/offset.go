package polygon

import (
	"math"

	"github.com/matzehuels/raggedblocks/pkg/geometry"
)

// OffsetPath moves every vertex of a rectilinear path by d along the inward
// corner bisector, shrinking the enclosed region for positive d and growing
// it for negative d. Because the input is rectilinear, every bisector is a
// diagonal unit step, so OffsetPath(d, OffsetPath(-d, p)) restores p as long
// as |d| stays below half the shortest edge length.
func OffsetPath(d float64, p Path) Path {
	n := len(p)
	if n < 4 {
		return append(Path(nil), p...)
	}
	out := make(Path, n)
	for i := range p {
		prev := p[(i-1+n)%n]
		cur := p[i]
		next := p[(i+1)%n]

		in := unitDir(prev, cur)
		outDir := unitDir(cur, next)
		// Inward normals under CCW/y-down winding.
		nIn := geometry.Vector{X: in.Y, Y: -in.X}
		nOut := geometry.Vector{X: outDir.Y, Y: -outDir.X}
		out[i] = cur.Add(nIn.Add(nOut).Scale(d))
	}
	return out
}

// unitDir returns the axis-aligned unit direction from a to b.
func unitDir(a, b geometry.Point) geometry.Vector {
	dx, dy := b.X-a.X, b.Y-a.Y
	switch {
	case math.Abs(dx) > math.Abs(dy):
		return geometry.Vector{X: math.Copysign(1, dx)}
	case math.Abs(dy) > 0:
		return geometry.Vector{Y: math.Copysign(1, dy)}
	}
	return geometry.Vector{}
}
