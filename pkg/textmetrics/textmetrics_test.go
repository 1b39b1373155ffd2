package textmetrics

import (
	"testing"

	"github.com/matzehuels/raggedblocks/pkg/geometry"
)

func TestTableMeasure(t *testing.T) {
	m := Default()

	r := m.Measure("")
	if r.Width() != 0 {
		t.Errorf("empty text width = %v, want 0", r.Width())
	}
	if r.Top > 0 || r.Bottom < 0 {
		t.Errorf("baseline must sit between Top and Bottom: %v", r)
	}

	ab := m.Measure("ab")
	a := m.Measure("a")
	b := m.Measure("b")
	if !geometry.Eq(ab.Width(), a.Width()+b.Width()) {
		t.Errorf("advances must be additive: %v != %v + %v", ab.Width(), a.Width(), b.Width())
	}
	if ab.Left != 0 {
		t.Errorf("Left = %v, want 0", ab.Left)
	}
}

func TestTableMeasureDeterministic(t *testing.T) {
	m := Default()
	first := m.Measure("hello, world")
	for i := 0; i < 5; i++ {
		if got := m.Measure("hello, world"); got != first {
			t.Fatalf("measurement changed between calls: %v != %v", got, first)
		}
	}
}

func TestScaled(t *testing.T) {
	base := Default()
	double := Scale(base, base.Size()*2)

	r := base.Measure("xyz")
	s := double.Measure("xyz")
	if !geometry.Eq(s.Width(), 2*r.Width()) {
		t.Errorf("scaled width = %v, want %v", s.Width(), 2*r.Width())
	}
	if !geometry.Eq(s.Top, 2*r.Top) || !geometry.Eq(s.Bottom, 2*r.Bottom) {
		t.Errorf("scaled vertical metrics = (%v, %v), want (%v, %v)", s.Top, s.Bottom, 2*r.Top, 2*r.Bottom)
	}
}

func TestCached(t *testing.T) {
	calls := 0
	m := NewCached(countingMeasurer{calls: &calls})

	want := m.Measure("abc")
	for i := 0; i < 3; i++ {
		if got := m.Measure("abc"); got != want {
			t.Fatalf("cached result changed: %v != %v", got, want)
		}
	}
	if calls != 1 {
		t.Errorf("base measurer called %d times, want 1", calls)
	}
	if m.Len() != 1 {
		t.Errorf("cache size = %d, want 1", m.Len())
	}
}

type countingMeasurer struct {
	calls *int
}

func (c countingMeasurer) Measure(text string) geometry.Rect {
	*c.calls++
	return Fixed{Advance: 10, Ascent: 8, Descent: 2}.Measure(text)
}

func TestFixed(t *testing.T) {
	m := Fixed{Advance: 10, Ascent: 8, Descent: 2}
	r := m.Measure("ab")
	want := geometry.Rect{Left: 0, Top: -8, Right: 20, Bottom: 2}
	if r != want {
		t.Errorf("Measure = %v, want %v", r, want)
	}
}
