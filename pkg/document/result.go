package document

import (
	"encoding/json"

	"github.com/matzehuels/raggedblocks/pkg/errors"
	"github.com/matzehuels/raggedblocks/pkg/geometry"
	"github.com/matzehuels/raggedblocks/pkg/layout"
	"github.com/matzehuels/raggedblocks/pkg/polygon"
)

// wireResult is the JSON shape of a computed layout.
type wireResult struct {
	Algorithm  string         `json:"algorithm"`
	FontFamily string         `json:"font_family,omitempty"`
	FontSize   float64        `json:"font_size,omitempty"`
	Fragments  []wireFragment `json:"fragments"`
	Outlines   []wireOutline  `json:"outlines,omitempty"`
}

type wireFragment struct {
	Text     string  `json:"text"`
	Left     float64 `json:"left"`
	Top      float64 `json:"top"`
	Right    float64 `json:"right"`
	Bottom   float64 `json:"bottom"`
	Line     int     `json:"line"`
	Baseline float64 `json:"baseline"`
}

type wireOutline struct {
	Style *wireStyle    `json:"style,omitempty"`
	Paths [][][]float64 `json:"paths"`
	Depth int           `json:"depth"`
}

// MarshalResult encodes a layout result as JSON, including outlines.
func MarshalResult(res *layout.Result) ([]byte, error) {
	w := wireResult{
		Algorithm:  res.Algorithm,
		FontFamily: res.FontFamily,
		FontSize:   res.FontSize,
	}
	for f := range res.Fragments() {
		w.Fragments = append(w.Fragments, wireFragment{
			Text: f.Text,
			Left: f.Rect.Left, Top: f.Rect.Top, Right: f.Rect.Right, Bottom: f.Rect.Bottom,
			Line: f.Line, Baseline: f.Baseline,
		})
	}
	for _, o := range res.Outlines() {
		wo := wireOutline{Depth: o.Depth, Style: styleToWire(o.Style)}
		for _, p := range o.Polygon {
			var pts [][]float64
			for _, pt := range p {
				pts = append(pts, []float64{pt.X, pt.Y})
			}
			wo.Paths = append(wo.Paths, pts)
		}
		w.Outlines = append(w.Outlines, wo)
	}
	return json.MarshalIndent(w, "", "  ")
}

// ParseResult decodes a layout result previously written by MarshalResult.
func ParseResult(data []byte) (*layout.Result, error) {
	var w wireResult
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "decode layout result")
	}

	frags := make([]layout.Fragment, 0, len(w.Fragments))
	for _, f := range w.Fragments {
		frags = append(frags, layout.Fragment{
			Text: f.Text,
			Rect: geometry.Rect{Left: f.Left, Top: f.Top, Right: f.Right, Bottom: f.Bottom},
			Line: f.Line, Baseline: f.Baseline,
		})
	}

	var outlines []layout.Outline
	for _, o := range w.Outlines {
		var pg polygon.Polygon
		for _, pts := range o.Paths {
			var p polygon.Path
			for _, pt := range pts {
				if len(pt) != 2 {
					return nil, errors.New(errors.ErrCodeInvalidDocument, "outline point has %d coordinates", len(pt))
				}
				p = append(p, geometry.Point{X: pt[0], Y: pt[1]})
			}
			pg = append(pg, p)
		}
		outlines = append(outlines, layout.Outline{
			Style:   styleFromWire(o.Style),
			Polygon: pg,
			Depth:   o.Depth,
		})
	}

	return layout.NewResult(w.Algorithm, w.FontFamily, w.FontSize, frags, outlines), nil
}
