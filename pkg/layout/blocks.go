package layout

import (
	"github.com/matzehuels/raggedblocks/pkg/geometry"
	"github.com/matzehuels/raggedblocks/pkg/polygon"
)

// blk is an intermediate box of the naive rectangular layout. Coordinates
// are relative to the box's own baseline origin.
type blk struct {
	frags    []Fragment
	outlines []Outline
	bbox     geometry.Rect
	hasBox   bool
}

func (b *blk) translate(v geometry.Vector) {
	for i := range b.frags {
		b.frags[i].Rect = b.frags[i].Rect.Translate(v)
		b.frags[i].Baseline += v.Y
	}
	for i := range b.outlines {
		for j := range b.outlines[i].Polygon {
			for k := range b.outlines[i].Polygon[j] {
				b.outlines[i].Polygon[j][k] = b.outlines[i].Polygon[j][k].Add(v)
			}
		}
	}
	b.bbox = b.bbox.Translate(v)
}

type blocksState struct {
	curLine int
	nextUID int
}

// layoutBlocks nests rigid rectangles: every wrap becomes its padded
// bounding box, pushing siblings apart instead of deforming around content.
func layoutBlocks(root Expr, cfg config) (*Result, error) {
	st := &blocksState{}
	b := st.lay(root)
	if cfg.aborted() {
		return nil, ErrAborted
	}
	// Normalize so the overall box starts at the origin.
	b.translate(geometry.Vector{X: -b.bbox.Left, Y: -b.bbox.Top})
	res := &Result{fragments: b.frags}
	// Outermost boxes carry the largest uids; paint them first.
	for i := len(b.outlines) - 1; i >= 0; i-- {
		res.outlines = append(res.outlines, b.outlines[i])
	}
	return res, nil
}

func (st *blocksState) lay(e Expr) blk {
	switch n := e.(type) {
	case TextExpr:
		out := blk{bbox: n.Rect, hasBox: true}
		if !n.Synthetic {
			out.frags = []Fragment{{Text: n.Text, Rect: n.Rect, Line: st.curLine}}
		}
		return out
	case SpacerExpr:
		return blk{bbox: geometry.Rect{Right: n.Width}, hasBox: true}
	case *JoinH:
		l := st.lay(n.L)
		r := st.lay(n.R)
		r.translate(geometry.Vector{X: l.bbox.Right - r.bbox.Left})
		return merge(l, r)
	case *JoinV:
		l := st.lay(n.L)
		st.curLine++
		r := st.lay(n.R)
		r.translate(geometry.Vector{
			X: l.bbox.Left - r.bbox.Left,
			Y: l.bbox.Bottom - r.bbox.Top,
		})
		return merge(l, r)
	case *Wrap:
		b := st.lay(n.Child)
		st.nextUID++
		b.bbox = b.bbox.Inflate(n.Padding)
		// Wraps with no real fragments beneath them draw nothing.
		if len(b.frags) > 0 {
			b.outlines = append(b.outlines, Outline{
				Style:   n.Style,
				Polygon: polygon.Polygon{polygon.PathOfRect(b.bbox)},
				Depth:   st.nextUID,
			})
		}
		return b
	}
	return blk{}
}

func merge(l, r blk) blk {
	out := blk{
		frags:    append(l.frags, r.frags...),
		outlines: append(l.outlines, r.outlines...),
		hasBox:   l.hasBox || r.hasBox,
	}
	switch {
	case !l.hasBox:
		out.bbox = r.bbox
	case !r.hasBox:
		out.bbox = l.bbox
	default:
		out.bbox = l.bbox.Union(r.bbox)
	}
	return out
}
