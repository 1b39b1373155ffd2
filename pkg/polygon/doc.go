// Package polygon implements the rectilinear polygon kernel used to outline
// styled regions of laid-out text.
//
// All paths handled by this package are rectilinear: every edge is parallel
// to one of the axes. The coordinate convention matches the rest of the
// module: x grows to the right and y grows DOWN the page. Because y is
// flipped relative to mathematical graph paper, the usual signed-area test is
// inverted; a path is counter-clockwise here when the edge sum
// Σ (b.x-a.x)(b.y+a.y) is positive. Every path emitted by this package is
// rectilinear and counter-clockwise, including hole boundaries.
//
// # Operations
//
// The kernel provides:
//   - FromRectangles: union of axis-aligned rectangles into boundary paths
//   - point-in-path and point-in-polygon tests (even-odd rule)
//   - rectangle/path and rectangle/polygon intersection area
//   - OffsetPath: inward offsetting of a rectilinear path
//   - Simplify: antiknob and concave-corner removal under keep-inside and
//     keep-outside constraints
//
// Simplification trades boundary fidelity for fewer corners while never
// letting a path escape its enclosing outline or invade a sibling outline.
package polygon
