package layout

import "github.com/matzehuels/raggedblocks/pkg/errors"

// Range is an interval of contiguous backing indices.
type Range struct {
	Begin, End int
}

// Len returns the number of indices covered.
func (r Range) Len() int { return r.End - r.Begin }

// Region is the spatial scope of a laid-out subtree: a contiguous range of
// backing indices together with the number of wrap layers above them. The
// zero value is a non-empty region over [0, 0) at depth 0; only EmptyRegion
// returns the empty region.
type Region struct {
	Range Range
	Depth int

	empty bool
}

// EmptyRegion returns the region covering nothing.
func EmptyRegion() Region { return Region{empty: true} }

// NewRegion returns a region over [begin, end) at the given depth.
func NewRegion(begin, end, depth int) Region {
	return Region{Range: Range{Begin: begin, End: end}, Depth: depth}
}

// IsEmpty reports whether the region covers no fragments.
func (r Region) IsEmpty() bool { return r.empty }

// Widen returns the region with one more wrap layer above it.
func (r Region) Widen() Region {
	if r.empty {
		return r
	}
	r.Depth++
	return r
}

// JoinRegions composes two regions by adjacency. The ranges must abut; the
// result spans both at the shallower depth. Joining across a gap is an
// invariant violation: recursive layout always produces contiguous index
// ranges.
func JoinRegions(a, b Region) (Region, error) {
	if a.empty {
		return b, nil
	}
	if b.empty {
		return a, nil
	}
	if a.Range.End != b.Range.Begin {
		return Region{}, errors.New(errors.ErrCodeRegionNotAdjacent,
			"cannot join regions [%d,%d) and [%d,%d)", a.Range.Begin, a.Range.End, b.Range.Begin, b.Range.End)
	}
	return Region{
		Range: Range{Begin: a.Range.Begin, End: b.Range.End},
		Depth: min(a.Depth, b.Depth),
	}, nil
}

// StackRef identifies one column of the timetable at one depth.
type StackRef struct {
	Index int
	Depth int
}
