// Package render defines the drawing surface consumed by layout results and
// provides an SVG implementation of it.
//
// A Target is a minimal, chainable drawing API: rectangles, lines, SVG-style
// paths, and text. Layout results project themselves onto a Target without
// knowing what backs it, so tests can capture draw calls and the CLI can emit
// SVG from the same code path.
package render

// Target is an SVG-like drawing surface.
type Target interface {
	// Rect starts an axis-aligned rectangle of the given size at the origin.
	Rect(w, h float64) RectOp
	// Line draws a straight segment.
	Line(x1, y1, x2, y2 float64) LineOp
	// Path draws an SVG path string.
	Path(d string) PathOp
	// Text draws a string anchored at its baseline start.
	Text(s string) TextOp
}

// RectOp configures a rectangle element.
type RectOp interface {
	Move(x, y float64) RectOp
	Fill(color string) RectOp
	Stroke(color string) RectOp
	StrokeWidth(w float64) RectOp
}

// LineOp configures a line element.
type LineOp interface {
	Stroke(color string) LineOp
	StrokeWidth(w float64) LineOp
}

// PathOp configures a path element.
type PathOp interface {
	Fill(color string) PathOp
	Stroke(color string) PathOp
	StrokeWidth(w float64) PathOp
}

// TextOp configures a text element.
type TextOp interface {
	Font(family string, px float64) TextOp
	Move(x, y float64) TextOp
	Fill(color string) TextOp
}
