package layout

import (
	"math"

	"github.com/matzehuels/raggedblocks/pkg/geometry"
)

// chunkHeight is the vertical bucket size of the backing's spatial index.
const chunkHeight = 64.0

// backingItem is one placed fragment: a rectangle or a spacer.
type backingItem struct {
	spacer bool
	width  float64
	text   string

	rect geometry.Rect

	// maxPadding bounds how far the rectangle can grow under inflation; used
	// to cut the chunk search short.
	maxPadding float64
}

// Backing is an arena of placed rectangles and spacers addressed by integer
// index in insertion order. Rectangles are bucketed into fixed-height
// vertical chunks so spatial queries visit only overlapping bands; a
// translation re-buckets the moved items. Handles are plain integers: callers
// must not hold rectangle values across translations.
type Backing struct {
	items  []backingItem
	chunks map[int]map[int]struct{}

	// maxPad is the largest inflation bound across all items, used as a
	// conservative limit when cutting chunk searches short.
	maxPad float64
}

// NewBacking returns an empty backing.
func NewBacking() *Backing {
	return &Backing{chunks: make(map[int]map[int]struct{})}
}

// Len returns the number of stored items.
func (b *Backing) Len() int { return len(b.items) }

// AppendRect stores a rectangle and returns its index. maxPadding is the
// largest inflation the rectangle will ever receive.
func (b *Backing) AppendRect(r geometry.Rect, text string, maxPadding float64) int {
	idx := len(b.items)
	b.items = append(b.items, backingItem{rect: r, text: text, maxPadding: maxPadding})
	if maxPadding > b.maxPad {
		b.maxPad = maxPadding
	}
	b.index(idx)
	return idx
}

// AppendSpacer stores a spacer of the given width and returns its index.
func (b *Backing) AppendSpacer(width float64, text string) int {
	idx := len(b.items)
	b.items = append(b.items, backingItem{spacer: true, width: width, text: text})
	return idx
}

// IsSpacer reports whether the item at index is a spacer.
func (b *Backing) IsSpacer(i int) bool { return b.items[i].spacer }

// Rect returns the current rectangle of a non-spacer item.
func (b *Backing) Rect(i int) geometry.Rect { return b.items[i].rect }

// Text returns the text stored with the item.
func (b *Backing) Text(i int) string { return b.items[i].text }

// MaxPadding returns the inflation bound of the item.
func (b *Backing) MaxPadding(i int) float64 { return b.items[i].maxPadding }

// TranslateRange displaces the items in [begin, end) by v, re-bucketing each
// moved rectangle.
func (b *Backing) TranslateRange(begin, end int, v geometry.Vector) {
	for i := begin; i < end; i++ {
		if b.items[i].spacer {
			continue
		}
		b.unindex(i)
		b.items[i].rect = b.items[i].rect.Translate(v)
		b.index(i)
	}
}

func chunkOf(y float64) int { return int(math.Floor(y / chunkHeight)) }

func (b *Backing) chunkRange(i int) (int, int) {
	r := b.items[i].rect
	return chunkOf(r.Top), chunkOf(r.Bottom)
}

func (b *Backing) index(i int) {
	lo, hi := b.chunkRange(i)
	for c := lo; c <= hi; c++ {
		set := b.chunks[c]
		if set == nil {
			set = make(map[int]struct{})
			b.chunks[c] = set
		}
		set[i] = struct{}{}
	}
}

func (b *Backing) unindex(i int) {
	lo, hi := b.chunkRange(i)
	for c := lo; c <= hi; c++ {
		delete(b.chunks[c], i)
	}
}

// chunkBounds returns the lowest and highest occupied chunk indices. ok is
// false when no rectangle is stored.
func (b *Backing) chunkBounds() (lo, hi int, ok bool) {
	first := true
	for c, set := range b.chunks {
		if len(set) == 0 {
			continue
		}
		if first {
			lo, hi, first = c, c, false
			continue
		}
		if c < lo {
			lo = c
		}
		if c > hi {
			hi = c
		}
	}
	return lo, hi, !first
}

// chunkItems returns the indices bucketed in chunk c, restricted to [begin,
// end), in ascending order.
func (b *Backing) chunkItems(c, begin, end int) []int {
	set := b.chunks[c]
	if len(set) == 0 {
		return nil
	}
	out := make([]int, 0, len(set))
	for i := range set {
		if i >= begin && i < end {
			out = append(out, i)
		}
	}
	// Deterministic iteration regardless of map order.
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j] < out[j-1]; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}
