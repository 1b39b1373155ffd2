package polygon

import (
	"math"
	"slices"
	"sort"

	"github.com/matzehuels/raggedblocks/pkg/geometry"
)

// FromRectangles computes the union of the given axis-aligned rectangles and
// returns its boundary as counter-clockwise paths. Disjoint rectangle groups
// produce multiple paths; enclosed uncovered areas produce additional hole
// paths. The order of paths is unspecified but deterministic for a given
// input. Degenerate rectangles with no area are ignored.
func FromRectangles(rects []geometry.Rect) Polygon {
	solid := make([]geometry.Rect, 0, len(rects))
	for _, r := range rects {
		if r.Width() > geometry.Epsilon && r.Height() > geometry.Epsilon {
			solid = append(solid, r)
		}
	}
	if len(solid) == 0 {
		return nil
	}

	horiz := boundarySegments(solid, false)
	vert := boundarySegments(solid, true)
	horiz, vert = splitAtJunctions(horiz, vert)

	return assemblePaths(horiz, vert)
}

// interval is a closed 1-D range.
type interval struct {
	lo, hi float64
}

// boundarySegments sweeps the rectangles along one axis and emits the
// boundary segments perpendicular to the sweep. With transposed=false the
// sweep runs over y and the result holds horizontal segments; with
// transposed=true it runs over x and the result holds vertical segments.
func boundarySegments(rects []geometry.Rect, transposed bool) []Segment {
	lo := func(r geometry.Rect) float64 { return r.Top }
	hi := func(r geometry.Rect) float64 { return r.Bottom }
	clo := func(r geometry.Rect) float64 { return r.Left }
	chi := func(r geometry.Rect) float64 { return r.Right }
	if transposed {
		lo, hi, clo, chi = clo, chi, lo, hi
	}

	cuts := make([]float64, 0, len(rects)*2)
	for _, r := range rects {
		cuts = append(cuts, lo(r), hi(r))
	}
	sort.Float64s(cuts)
	cuts = dedupeFloats(cuts)

	// Covered cross-axis intervals per band between consecutive cuts.
	bands := make([][]interval, len(cuts)-1)
	for i := 0; i+1 < len(cuts); i++ {
		y0, y1 := cuts[i], cuts[i+1]
		var ivs []interval
		for _, r := range rects {
			if lo(r) <= y0+geometry.Epsilon && hi(r) >= y1-geometry.Epsilon {
				ivs = append(ivs, interval{clo(r), chi(r)})
			}
		}
		bands[i] = mergeIntervals(ivs)
	}

	var segs []Segment
	emit := func(at float64, ivs []interval) {
		for _, iv := range ivs {
			if iv.hi-iv.lo <= geometry.Epsilon {
				continue
			}
			var s Segment
			if transposed {
				s = Segment{From: geometry.Point{X: at, Y: iv.lo}, To: geometry.Point{X: at, Y: iv.hi}}
			} else {
				s = Segment{From: geometry.Point{X: iv.lo, Y: at}, To: geometry.Point{X: iv.hi, Y: at}}
			}
			segs = append(segs, s)
		}
	}

	for i, cut := range cuts {
		var above, below []interval
		if i > 0 {
			above = bands[i-1]
		}
		if i < len(bands) {
			below = bands[i]
		}
		// Entering coverage contributes one boundary side, leaving coverage
		// the other; both are just set differences of the band coverage.
		emit(cut, subtractIntervals(below, above))
		emit(cut, subtractIntervals(above, below))
	}
	return segs
}

func dedupeFloats(xs []float64) []float64 {
	out := xs[:0]
	for _, x := range xs {
		if len(out) == 0 || x-out[len(out)-1] > geometry.Epsilon {
			out = append(out, x)
		}
	}
	return out
}

// mergeIntervals unions overlapping or touching intervals.
func mergeIntervals(ivs []interval) []interval {
	if len(ivs) == 0 {
		return nil
	}
	slices.SortFunc(ivs, func(a, b interval) int {
		switch {
		case a.lo < b.lo:
			return -1
		case a.lo > b.lo:
			return 1
		}
		return 0
	})
	out := []interval{ivs[0]}
	for _, iv := range ivs[1:] {
		last := &out[len(out)-1]
		if iv.lo <= last.hi+geometry.Epsilon {
			last.hi = math.Max(last.hi, iv.hi)
		} else {
			out = append(out, iv)
		}
	}
	return out
}

// subtractIntervals returns the portions of a not covered by b. Both inputs
// must be merged and sorted.
func subtractIntervals(a, b []interval) []interval {
	var out []interval
	for _, iv := range a {
		lo := iv.lo
		for _, cut := range b {
			if cut.hi <= lo+geometry.Epsilon {
				continue
			}
			if cut.lo >= iv.hi-geometry.Epsilon {
				break
			}
			if cut.lo > lo+geometry.Epsilon {
				out = append(out, interval{lo, cut.lo})
			}
			lo = math.Max(lo, cut.hi)
		}
		if iv.hi > lo+geometry.Epsilon {
			out = append(out, interval{lo, iv.hi})
		}
	}
	return out
}

// splitAtJunctions splits horizontal segments at interior x positions where a
// vertical segment terminates, and vice versa, so that every T-junction
// becomes a shared vertex.
func splitAtJunctions(horiz, vert []Segment) ([]Segment, []Segment) {
	vertEnds := make([]geometry.Point, 0, len(vert)*2)
	for _, s := range vert {
		vertEnds = append(vertEnds, s.From, s.To)
	}
	horizEnds := make([]geometry.Point, 0, len(horiz)*2)
	for _, s := range horiz {
		horizEnds = append(horizEnds, s.From, s.To)
	}

	splitH := func(s Segment) []Segment {
		xs := []float64{s.From.X, s.To.X}
		for _, p := range vertEnds {
			if geometry.Eq(p.Y, s.From.Y) && p.X > s.From.X+geometry.Epsilon && p.X < s.To.X-geometry.Epsilon {
				xs = append(xs, p.X)
			}
		}
		sort.Float64s(xs)
		xs = dedupeFloats(xs)
		out := make([]Segment, 0, len(xs)-1)
		for i := 0; i+1 < len(xs); i++ {
			out = append(out, Segment{
				From: geometry.Point{X: xs[i], Y: s.From.Y},
				To:   geometry.Point{X: xs[i+1], Y: s.From.Y},
			})
		}
		return out
	}
	splitV := func(s Segment) []Segment {
		ys := []float64{s.From.Y, s.To.Y}
		for _, p := range horizEnds {
			if geometry.Eq(p.X, s.From.X) && p.Y > s.From.Y+geometry.Epsilon && p.Y < s.To.Y-geometry.Epsilon {
				ys = append(ys, p.Y)
			}
		}
		sort.Float64s(ys)
		ys = dedupeFloats(ys)
		out := make([]Segment, 0, len(ys)-1)
		for i := 0; i+1 < len(ys); i++ {
			out = append(out, Segment{
				From: geometry.Point{X: s.From.X, Y: ys[i]},
				To:   geometry.Point{X: s.From.X, Y: ys[i+1]},
			})
		}
		return out
	}

	var h2, v2 []Segment
	for _, s := range horiz {
		h2 = append(h2, splitH(s)...)
	}
	for _, s := range vert {
		v2 = append(v2, splitV(s)...)
	}
	return h2, v2
}

// gridKey quantizes a point so coinciding endpoints hash identically.
type gridKey struct {
	x, y int64
}

func keyOf(p geometry.Point) gridKey {
	return gridKey{
		x: int64(math.Round(p.X / quantum)),
		y: int64(math.Round(p.Y / quantum)),
	}
}

// assemblePaths stitches boundary segments into closed counter-clockwise
// paths. Starting from the top-left unused endpoint, horizontal and vertical
// segments are followed alternately, each consumed as it is traversed, until
// the walk returns to its start.
func assemblePaths(horiz, vert []Segment) Polygon {
	// Deterministic walk order.
	sortSegs := func(segs []Segment) {
		slices.SortFunc(segs, func(a, b Segment) int {
			ka, kb := keyOf(a.From), keyOf(b.From)
			switch {
			case ka.y != kb.y:
				return int(ka.y - kb.y)
			case ka.x != kb.x:
				return int(ka.x - kb.x)
			}
			return 0
		})
	}
	sortSegs(horiz)
	sortSegs(vert)

	type entry struct {
		seg  *Segment
		used *bool
	}
	hAt := make(map[gridKey][]entry)
	vAt := make(map[gridKey][]entry)
	index := func(segs []Segment, at map[gridKey][]entry) {
		for i := range segs {
			used := new(bool)
			e := entry{seg: &segs[i], used: used}
			at[keyOf(segs[i].From)] = append(at[keyOf(segs[i].From)], e)
			at[keyOf(segs[i].To)] = append(at[keyOf(segs[i].To)], e)
		}
	}
	index(horiz, hAt)
	index(vert, vAt)

	take := func(at map[gridKey][]entry, p geometry.Point) (geometry.Point, bool) {
		best := -1
		bestLen := math.Inf(1)
		entries := at[keyOf(p)]
		for i, e := range entries {
			if *e.used {
				continue
			}
			// At a degenerate four-way junction prefer the shortest
			// continuation; ties cannot occur for distinct segments sharing
			// an endpoint on one line.
			if l := e.seg.Length(); l < bestLen {
				best, bestLen = i, l
			}
		}
		if best < 0 {
			return geometry.Point{}, false
		}
		e := entries[best]
		*e.used = true
		if keyOf(e.seg.From) == keyOf(p) {
			return e.seg.To, true
		}
		return e.seg.From, true
	}

	var out Polygon
	for i := range horiz {
		start := horiz[i].From
		startKey := keyOf(start)
		// Skip segments already consumed by an earlier walk.
		consumed := true
		for _, e := range hAt[startKey] {
			if e.seg == &horiz[i] && !*e.used {
				consumed = false
			}
		}
		if consumed {
			continue
		}

		path := Path{start}
		cur := start
		useHoriz := true
		for {
			var next geometry.Point
			var ok bool
			if useHoriz {
				next, ok = take(hAt, cur)
			} else {
				next, ok = take(vAt, cur)
			}
			if !ok {
				break
			}
			if keyOf(next) == startKey {
				break
			}
			path = append(path, next)
			cur = next
			useHoriz = !useHoriz
		}
		if p := path.normalize(); p != nil {
			out = append(out, p.ccw())
		}
	}
	return out
}
