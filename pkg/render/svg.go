package render

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/matzehuels/raggedblocks/pkg/geometry"
)

// SVG is a Target that accumulates SVG elements and serializes them into a
// complete document.
type SVG struct {
	elements []svgElement
}

// NewSVG returns an empty SVG target.
func NewSVG() *SVG {
	return &SVG{}
}

type svgElement interface {
	write(buf *bytes.Buffer)
}

// Rect implements Target.
func (s *SVG) Rect(w, h float64) RectOp {
	e := &svgRect{w: w, h: h}
	s.elements = append(s.elements, e)
	return e
}

// Line implements Target.
func (s *SVG) Line(x1, y1, x2, y2 float64) LineOp {
	e := &svgLine{x1: x1, y1: y1, x2: x2, y2: y2}
	s.elements = append(s.elements, e)
	return e
}

// Path implements Target.
func (s *SVG) Path(d string) PathOp {
	e := &svgPath{d: d}
	s.elements = append(s.elements, e)
	return e
}

// Text implements Target.
func (s *SVG) Text(text string) TextOp {
	e := &svgText{text: text}
	s.elements = append(s.elements, e)
	return e
}

// Len returns the number of accumulated elements.
func (s *SVG) Len() int { return len(s.elements) }

// Document serializes the accumulated elements into a standalone SVG file.
// The viewport covers viewBox with the given margin on every side.
func (s *SVG) Document(viewBox geometry.Rect, margin float64) []byte {
	box := viewBox.Inflate(margin)
	var buf bytes.Buffer
	fmt.Fprintf(&buf,
		`<svg xmlns="http://www.w3.org/2000/svg" viewBox="%.1f %.1f %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		box.Left, box.Top, box.Width(), box.Height(), box.Width(), box.Height())
	for _, e := range s.elements {
		e.write(&buf)
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// escape sanitizes text content for XML.
func escape(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

type svgRect struct {
	x, y, w, h  float64
	fill        string
	stroke      string
	strokeWidth float64
}

func (e *svgRect) Move(x, y float64) RectOp     { e.x, e.y = x, y; return e }
func (e *svgRect) Fill(c string) RectOp         { e.fill = c; return e }
func (e *svgRect) Stroke(c string) RectOp       { e.stroke = c; return e }
func (e *svgRect) StrokeWidth(w float64) RectOp { e.strokeWidth = w; return e }

func (e *svgRect) write(buf *bytes.Buffer) {
	fmt.Fprintf(buf, `  <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f"`, e.x, e.y, e.w, e.h)
	writePaint(buf, e.fill, e.stroke, e.strokeWidth)
	buf.WriteString("/>\n")
}

type svgLine struct {
	x1, y1, x2, y2 float64
	stroke         string
	strokeWidth    float64
}

func (e *svgLine) Stroke(c string) LineOp       { e.stroke = c; return e }
func (e *svgLine) StrokeWidth(w float64) LineOp { e.strokeWidth = w; return e }

func (e *svgLine) write(buf *bytes.Buffer) {
	fmt.Fprintf(buf, `  <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f"`, e.x1, e.y1, e.x2, e.y2)
	writePaint(buf, "", e.stroke, e.strokeWidth)
	buf.WriteString("/>\n")
}

type svgPath struct {
	d           string
	fill        string
	stroke      string
	strokeWidth float64
}

func (e *svgPath) Fill(c string) PathOp         { e.fill = c; return e }
func (e *svgPath) Stroke(c string) PathOp       { e.stroke = c; return e }
func (e *svgPath) StrokeWidth(w float64) PathOp { e.strokeWidth = w; return e }

func (e *svgPath) write(buf *bytes.Buffer) {
	fmt.Fprintf(buf, `  <path d="%s"`, e.d)
	if e.fill == "" {
		buf.WriteString(` fill="none"`)
	}
	writePaint(buf, e.fill, e.stroke, e.strokeWidth)
	buf.WriteString("/>\n")
}

type svgText struct {
	text   string
	x, y   float64
	family string
	size   float64
	fill   string
}

func (e *svgText) Font(family string, px float64) TextOp { e.family, e.size = family, px; return e }
func (e *svgText) Move(x, y float64) TextOp              { e.x, e.y = x, y; return e }
func (e *svgText) Fill(c string) TextOp                  { e.fill = c; return e }

func (e *svgText) write(buf *bytes.Buffer) {
	fmt.Fprintf(buf, `  <text x="%.2f" y="%.2f"`, e.x, e.y)
	if e.family != "" {
		fmt.Fprintf(buf, ` font-family="%s" font-size="%.1f"`, escape(e.family), e.size)
	}
	if e.fill != "" {
		fmt.Fprintf(buf, ` fill="%s"`, escape(e.fill))
	}
	fmt.Fprintf(buf, ` xml:space="preserve">%s</text>`+"\n", escape(e.text))
}

func writePaint(buf *bytes.Buffer, fill, stroke string, strokeWidth float64) {
	if fill != "" {
		fmt.Fprintf(buf, ` fill="%s"`, escape(fill))
	}
	if stroke != "" {
		fmt.Fprintf(buf, ` stroke="%s"`, escape(stroke))
	}
	if strokeWidth > 0 {
		fmt.Fprintf(buf, ` stroke-width="%.2f"`, strokeWidth)
	}
}
