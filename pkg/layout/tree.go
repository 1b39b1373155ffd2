package layout

// Tree is a node of the input layout tree. Concrete kinds are Atom, Spacer,
// Newline, and Node.
type Tree interface {
	isTree()
}

// Atom is a leaf text fragment.
type Atom struct {
	Text string
}

// Spacer is horizontal whitespace. If Text is non-empty its measured width is
// used; otherwise Width applies directly.
type Spacer struct {
	Text  string
	Width float64
}

// Newline is a hard break between siblings. One Newline produces one line
// break; N consecutive Newlines produce N-1 blank rows between the broken
// lines.
type Newline struct{}

// Node is a styled interior node. Its padding is added uniformly on all
// sides when the node is wrapped around its children.
type Node struct {
	Children []Tree
	Padding  float64
	Style    *Style
}

func (Atom) isTree()    {}
func (Spacer) isTree()  {}
func (Newline) isTree() {}
func (*Node) isTree()   {}

// Style describes the visual treatment of a wrapped region.
type Style struct {
	// Fill is the region's background color; empty means unfilled.
	Fill string

	// Borders are drawn around the region's outline, innermost first.
	Borders []Border
}

// Border is a stroked outline around a region. Side flags select which
// outline segments are drawn; a border with no flags set draws all sides.
type Border struct {
	Color string
	Width float64

	Top, Right, Bottom, Left bool
}

// AllSides reports whether the border draws every outline segment.
func (b Border) AllSides() bool {
	return !b.Top && !b.Right && !b.Bottom && !b.Left
}

// CountAtoms returns the number of Atom leaves under t in document order.
func CountAtoms(t Tree) int {
	switch n := t.(type) {
	case Atom:
		return 1
	case *Node:
		total := 0
		for _, c := range n.Children {
			total += CountAtoms(c)
		}
		return total
	}
	return 0
}
