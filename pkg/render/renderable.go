package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/matzehuels/raggedblocks/pkg/geometry"
)

// Renderable is anything that can draw itself onto a Target and report its
// extent.
type Renderable interface {
	Render(t Target)
	// BoundingBox returns the drawn extent; ok is false for empty content.
	BoundingBox() (geometry.Rect, bool)
}

// stacked composes two renderables top-to-bottom.
type stacked struct {
	a, b Renderable
	gap  float64
}

// Stack returns a renderable drawing a, then b displaced below a by gap.
func Stack(a, b Renderable, gap float64) Renderable {
	return stacked{a: a, b: b, gap: gap}
}

func (s stacked) offset() geometry.Vector {
	ra, aok := s.a.BoundingBox()
	rb, bok := s.b.BoundingBox()
	if !aok || !bok {
		return geometry.Vector{}
	}
	return geometry.Vector{Y: ra.Bottom + s.gap - rb.Top}
}

func (s stacked) Render(t Target) {
	s.a.Render(t)
	s.b.Render(&translated{Target: t, by: s.offset()})
}

func (s stacked) BoundingBox() (geometry.Rect, bool) {
	ra, aok := s.a.BoundingBox()
	rb, bok := s.b.BoundingBox()
	switch {
	case !aok:
		return rb, bok
	case !bok:
		return ra, aok
	}
	return ra.Union(rb.Translate(s.offset())), true
}

// translated shifts every draw call by a fixed vector.
type translated struct {
	Target
	by geometry.Vector
}

func (t *translated) Rect(w, h float64) RectOp {
	return &translatedRect{RectOp: t.Target.Rect(w, h), by: t.by}
}

func (t *translated) Line(x1, y1, x2, y2 float64) LineOp {
	return t.Target.Line(x1+t.by.X, y1+t.by.Y, x2+t.by.X, y2+t.by.Y)
}

func (t *translated) Text(s string) TextOp {
	return &translatedText{TextOp: t.Target.Text(s), by: t.by}
}

func (t *translated) Path(d string) PathOp {
	return t.Target.Path(shiftPathData(d, t.by))
}

type translatedRect struct {
	RectOp
	by geometry.Vector
}

func (r *translatedRect) Move(x, y float64) RectOp {
	r.RectOp = r.RectOp.Move(x+r.by.X, y+r.by.Y)
	return r
}

type translatedText struct {
	TextOp
	by geometry.Vector
}

func (r *translatedText) Move(x, y float64) TextOp {
	r.TextOp = r.TextOp.Move(x+r.by.X, y+r.by.Y)
	return r
}

// shiftPathData displaces the coordinates of a kernel-emitted path string.
// Only the command set produced by PathData (M, L, A, Z with absolute
// coordinates) is supported.
func shiftPathData(d string, by geometry.Vector) string {
	fields := strings.Fields(d)
	var sb strings.Builder
	shiftPair := func(i int) {
		x, _ := strconv.ParseFloat(fields[i], 64)
		y, _ := strconv.ParseFloat(fields[i+1], 64)
		fmt.Fprintf(&sb, " %.2f %.2f", x+by.X, y+by.Y)
	}
	for i := 0; i < len(fields); i++ {
		switch fields[i] {
		case "M", "L":
			sb.WriteString(appendSep(sb.Len()) + fields[i])
			shiftPair(i + 1)
			i += 2
		case "A":
			sb.WriteString(appendSep(sb.Len()) + "A " + fields[i+1] + " " + fields[i+2] + " " +
				fields[i+3] + " " + fields[i+4] + " " + fields[i+5])
			shiftPair(i + 6)
			i += 7
		case "Z":
			sb.WriteString(appendSep(sb.Len()) + "Z")
		}
	}
	return sb.String()
}

func appendSep(n int) string {
	if n == 0 {
		return ""
	}
	return " "
}
