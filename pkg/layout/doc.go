// Package layout lays out structured text and computes the ragged outlines
// that enclose each styled region.
//
// The input is a tree of text fragments whose interior nodes carry padding
// and styling. Layout produces positioned fragments plus, depending on the
// algorithm, a rectilinear polygon per styled node that tightly hugs its
// descendant text. Unlike classical box layout, sibling text on one visual
// line is not pushed apart by an ancestor's padding; ancestors deform around
// their content instead, keeping the source's line structure intact.
//
// # Pipeline
//
// Every algorithm shares the same first stage: the input tree, with its
// explicit newline separators, is reassociated into a binary expression tree
// over horizontal joins, vertical joins, and padded wraps. The algorithms
// then differ in how they place lines and build outlines:
//
//   - Pebble (l1p): per-fragment padded rectangle stacks; pairwise leading
//   - Rocks (l1s): a cumulative-padding timetable drives leading through a
//     chunked backing store of placed rectangles
//   - Rocks with outlines (l1s+): additionally unions each wrap's padded
//     rectangles into a polygon and simplifies it within its parent and away
//     from its siblings
//   - S-Blocks (s-blocks): horizontal sweep computing outlines from per-line
//     extent gadgets
//   - Blocks (blocks): naive rigid rectangle nesting
//
// # Determinism and cancellation
//
// Layout is single-threaded and purely computational: identical input and
// settings produce identical output. Long-running stages (line stacking,
// outline simplification) poll an optional AbortToken and return ErrAborted
// without leaving any externally visible state behind.
package layout
