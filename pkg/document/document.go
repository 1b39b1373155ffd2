// Package document is the serialization boundary of the layout engine.
//
// It defines the JSON format for layout trees used by the CLI, the HTTP API,
// and the document store, plus a plain-text importer so any text file can be
// laid out without writing JSON by hand. The format is designed for
// round-trip fidelity: parse → marshal → parse produces an identical tree.
//
// # Format
//
// A document is a single node object:
//
//	{"kind": "node", "padding": 2, "style": {"fill": "#eef"},
//	 "children": [
//	   {"kind": "atom", "text": "hello"},
//	   {"kind": "spacer", "width": 6},
//	   {"kind": "newline"},
//	   {"kind": "node", "padding": 1, "children": [...]}
//	 ]}
package document

import (
	"bufio"
	"encoding/json"
	"strings"

	"github.com/matzehuels/raggedblocks/pkg/errors"
	"github.com/matzehuels/raggedblocks/pkg/layout"
)

// Node kinds of the wire format.
const (
	KindNode    = "node"
	KindAtom    = "atom"
	KindSpacer  = "spacer"
	KindNewline = "newline"
)

// wireNode is the JSON shape of one tree node.
type wireNode struct {
	Kind     string     `json:"kind"`
	Text     string     `json:"text,omitempty"`
	Width    float64    `json:"width,omitempty"`
	Padding  float64    `json:"padding,omitempty"`
	Style    *wireStyle `json:"style,omitempty"`
	Children []wireNode `json:"children,omitempty"`
}

type wireStyle struct {
	Fill    string       `json:"fill,omitempty"`
	Borders []wireBorder `json:"borders,omitempty"`
}

type wireBorder struct {
	Color  string  `json:"color"`
	Width  float64 `json:"width,omitempty"`
	Top    bool    `json:"top,omitempty"`
	Right  bool    `json:"right,omitempty"`
	Bottom bool    `json:"bottom,omitempty"`
	Left   bool    `json:"left,omitempty"`
}

// ParseTree decodes a JSON document into a layout tree.
func ParseTree(data []byte) (layout.Tree, error) {
	var w wireNode
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "decode document")
	}
	return fromWire(w)
}

// MarshalTree encodes a layout tree as pretty-printed JSON.
func MarshalTree(t layout.Tree) ([]byte, error) {
	w, err := toWire(t)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(w, "", "  ")
}

func fromWire(w wireNode) (layout.Tree, error) {
	switch w.Kind {
	case KindAtom:
		return layout.Atom{Text: w.Text}, nil
	case KindSpacer:
		if w.Width < 0 {
			return nil, errors.New(errors.ErrCodeInvalidDocument, "spacer width %g is negative", w.Width)
		}
		return layout.Spacer{Text: w.Text, Width: w.Width}, nil
	case KindNewline:
		return layout.Newline{}, nil
	case KindNode, "":
		if w.Padding < 0 {
			return nil, errors.New(errors.ErrCodeInvalidDocument, "node padding %g is negative", w.Padding)
		}
		n := &layout.Node{Padding: w.Padding, Style: styleFromWire(w.Style)}
		for _, c := range w.Children {
			child, err := fromWire(c)
			if err != nil {
				return nil, err
			}
			n.Children = append(n.Children, child)
		}
		return n, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidDocument, "unknown node kind %q", w.Kind)
}

func toWire(t layout.Tree) (wireNode, error) {
	switch n := t.(type) {
	case layout.Atom:
		return wireNode{Kind: KindAtom, Text: n.Text}, nil
	case layout.Spacer:
		return wireNode{Kind: KindSpacer, Text: n.Text, Width: n.Width}, nil
	case layout.Newline:
		return wireNode{Kind: KindNewline}, nil
	case *layout.Node:
		w := wireNode{Kind: KindNode, Padding: n.Padding, Style: styleToWire(n.Style)}
		for _, c := range n.Children {
			child, err := toWire(c)
			if err != nil {
				return wireNode{}, err
			}
			w.Children = append(w.Children, child)
		}
		return w, nil
	}
	return wireNode{}, errors.New(errors.ErrCodeInvalidDocument, "unsupported tree node %T", t)
}

func styleFromWire(w *wireStyle) *layout.Style {
	if w == nil {
		return nil
	}
	s := &layout.Style{Fill: w.Fill}
	for _, b := range w.Borders {
		s.Borders = append(s.Borders, layout.Border{
			Color: b.Color, Width: b.Width,
			Top: b.Top, Right: b.Right, Bottom: b.Bottom, Left: b.Left,
		})
	}
	return s
}

func styleToWire(s *layout.Style) *wireStyle {
	if s == nil {
		return nil
	}
	w := &wireStyle{Fill: s.Fill}
	for _, b := range s.Borders {
		w.Borders = append(w.Borders, wireBorder{
			Color: b.Color, Width: b.Width,
			Top: b.Top, Right: b.Right, Bottom: b.Bottom, Left: b.Left,
		})
	}
	return w
}

// FromText converts plain text into a layout tree: one root node whose
// children alternate atoms, spacers, and newlines. Runs of spaces and tabs
// become spacers sized by the measuring font's space width times the run
// length (tabs count as four).
func FromText(text string, spaceWidth float64) layout.Tree {
	root := &layout.Node{}
	sc := bufio.NewScanner(strings.NewReader(text))
	first := true
	for sc.Scan() {
		if !first {
			root.Children = append(root.Children, layout.Newline{})
		}
		first = false
		root.Children = append(root.Children, lineNodes(sc.Text(), spaceWidth)...)
	}
	return root
}

func lineNodes(line string, spaceWidth float64) []layout.Tree {
	var out []layout.Tree
	var word strings.Builder
	spaces := 0.0

	flushWord := func() {
		if word.Len() > 0 {
			out = append(out, layout.Atom{Text: word.String()})
			word.Reset()
		}
	}
	flushSpaces := func() {
		if spaces > 0 {
			out = append(out, layout.Spacer{Width: spaces * spaceWidth})
			spaces = 0
		}
	}

	for _, r := range line {
		switch r {
		case ' ':
			flushWord()
			spaces++
		case '\t':
			flushWord()
			spaces += 4
		default:
			flushSpaces()
			word.WriteRune(r)
		}
	}
	flushWord()
	flushSpaces()
	return out
}
