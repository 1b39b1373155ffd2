// Package treeviz renders reassociated layout trees as node-link diagrams.
//
// This is a debugging aid: it shows the binary join/wrap structure the
// layout algorithms actually consume, which is easy to misjudge from the
// flat input document. DOT output can be inspected directly or rendered to
// SVG in-process via Graphviz.
package treeviz

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/raggedblocks/pkg/layout"
)

// Options configures diagram rendering.
type Options struct {
	// Detailed includes measured widths and paddings in node labels.
	Detailed bool
}

// ToDOT converts a reassociated tree to Graphviz DOT format. Wrap nodes are
// drawn as rounded boxes, joins as circles, and leaves as plain boxes.
func ToDOT(root layout.Expr, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph reassoc {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=filled, fillcolor=white, fontsize=14];\n")
	buf.WriteString("\n")

	w := &dotWriter{buf: &buf, opts: opts}
	w.emit(root)

	buf.WriteString("}\n")
	return buf.String()
}

type dotWriter struct {
	buf  *bytes.Buffer
	opts Options
	next int
}

// emit writes the node and returns its DOT identifier.
func (w *dotWriter) emit(e layout.Expr) string {
	id := fmt.Sprintf("n%d", w.next)
	w.next++

	switch n := e.(type) {
	case layout.TextExpr:
		label := fmt.Sprintf("%q", n.Text)
		if n.Synthetic {
			label = "(empty)"
		}
		if w.opts.Detailed {
			label += fmt.Sprintf("\nw=%.1f", n.Rect.Width())
		}
		fmt.Fprintf(w.buf, "  %s [label=%q];\n", id, label)
	case layout.SpacerExpr:
		label := "spacer"
		if w.opts.Detailed {
			label += fmt.Sprintf("\nw=%.1f", n.Width)
		}
		fmt.Fprintf(w.buf, "  %s [label=%q, style=\"filled,dashed\", fillcolor=lightgrey];\n", id, label)
	case *layout.JoinH:
		fmt.Fprintf(w.buf, "  %s [label=\"⊔\", shape=circle];\n", id)
		w.edge(id, w.emit(n.L), "l")
		w.edge(id, w.emit(n.R), "r")
	case *layout.JoinV:
		fmt.Fprintf(w.buf, "  %s [label=\"⊓\", shape=circle];\n", id)
		w.edge(id, w.emit(n.L), "l")
		w.edge(id, w.emit(n.R), "r")
	case *layout.Wrap:
		label := "wrap"
		if w.opts.Detailed {
			label += fmt.Sprintf("\npad=%.1f", n.Padding)
			if n.Style != nil && n.Style.Fill != "" {
				label += "\n" + n.Style.Fill
			}
		}
		fmt.Fprintf(w.buf, "  %s [label=%q, style=\"rounded,filled\"];\n", id, label)
		w.edge(id, w.emit(n.Child), "")
	}
	return id
}

func (w *dotWriter) edge(from, to, label string) {
	if label == "" {
		fmt.Fprintf(w.buf, "  %s -> %s;\n", from, to)
		return
	}
	fmt.Fprintf(w.buf, "  %s -> %s [label=%q];\n", from, to, label)
}

// RenderSVG renders a DOT graph to SVG using Graphviz in-process.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
