package layout

import (
	"github.com/matzehuels/raggedblocks/pkg/errors"
	"github.com/matzehuels/raggedblocks/pkg/geometry"
	"github.com/matzehuels/raggedblocks/pkg/textmetrics"
)

// Expr is a node of the reassociated tree: the binary form of the input tree
// with explicit horizontal and vertical joins and no remaining newlines.
type Expr interface {
	isExpr()
}

// TextExpr is a measured atom. Synthetic marks the empty-atom sentinels the
// reassociator inserts between adjacent operators; they participate in
// geometry but are not reported as fragments.
type TextExpr struct {
	Text      string
	Rect      geometry.Rect
	Synthetic bool
}

// SpacerExpr is measured horizontal whitespace.
type SpacerExpr struct {
	Text  string
	Width float64
}

// JoinH joins two expressions on the same line: R continues where L leads
// out.
type JoinH struct {
	L, R Expr
}

// JoinV joins two expressions vertically: R's lines follow L's lines.
type JoinV struct {
	L, R Expr
}

// Wrap encloses its child with uniform padding and an optional style. Each
// Node of the input tree becomes exactly one Wrap.
type Wrap struct {
	Child   Expr
	Padding float64
	Style   *Style
}

func (TextExpr) isExpr()   {}
func (SpacerExpr) isExpr() {}
func (*JoinH) isExpr()     {}
func (*JoinV) isExpr()     {}
func (*Wrap) isExpr()      {}

// Operator precedences for the token stream. Newlines bind loosest; the
// implicit join between adjacent siblings binds tighter; the end sentinel
// terminates everything.
const (
	precEnd     = 0
	precNewline = 1
	precJoin    = 2
)

// token is either an expression or an operator in the flattened stream.
type token struct {
	expr Expr
	prec int // 0 for expression tokens
	op   bool
}

// Reassociate converts the input tree into its binary reassociated form,
// measuring every atom and spacer through m exactly once. Newlines become
// left-associative vertical joins; adjacent siblings join horizontally. An
// empty tree yields the empty atom.
func Reassociate(t Tree, m textmetrics.Measurer) (Expr, error) {
	if m == nil {
		m = textmetrics.Default()
	}
	b := &streamBuilder{measure: m}
	b.emitTree(t)
	b.finish()

	p := &streamParser{tokens: b.tokens}
	e, err := p.parse(precEnd)
	if err != nil {
		return nil, err
	}
	if !p.done() {
		return nil, errors.New(errors.ErrCodeMalformedTokenStream,
			"trailing tokens after reassociation at position %d", p.pos)
	}
	return e, nil
}

// streamBuilder emits the alternating expression/operator token stream for
// one sibling list, inserting empty-atom sentinels wherever two operators
// would touch.
type streamBuilder struct {
	measure textmetrics.Measurer
	tokens  []token
}

func (b *streamBuilder) empty() Expr {
	return TextExpr{Text: "", Rect: b.measure.Measure(""), Synthetic: true}
}

func (b *streamBuilder) lastIsExpr() bool {
	return len(b.tokens) > 0 && !b.tokens[len(b.tokens)-1].op
}

func (b *streamBuilder) pushExpr(e Expr) {
	if b.lastIsExpr() {
		b.tokens = append(b.tokens, token{op: true, prec: precJoin})
	}
	b.tokens = append(b.tokens, token{expr: e})
}

func (b *streamBuilder) pushNewline() {
	if !b.lastIsExpr() {
		b.tokens = append(b.tokens, token{expr: b.empty()})
	}
	b.tokens = append(b.tokens, token{op: true, prec: precNewline})
}

func (b *streamBuilder) emitTree(t Tree) {
	switch n := t.(type) {
	case nil:
		b.pushExpr(b.empty())
	case Atom:
		b.pushExpr(TextExpr{Text: n.Text, Rect: b.measure.Measure(n.Text)})
	case Spacer:
		w := n.Width
		if n.Text != "" {
			w = b.measure.Measure(n.Text).Width()
		}
		b.pushExpr(SpacerExpr{Text: n.Text, Width: w})
	case Newline:
		b.pushNewline()
	case *Node:
		sub := &streamBuilder{measure: b.measure}
		for _, c := range n.Children {
			sub.emitTree(c)
		}
		sub.finish()
		p := &streamParser{tokens: sub.tokens}
		child, err := p.parse(precEnd)
		if err != nil {
			// The builder alone cannot produce a malformed stream; bubble a
			// degenerate child up as empty rather than lose the wrap.
			child = sub.empty()
		}
		b.pushExpr(&Wrap{Child: child, Padding: n.Padding, Style: n.Style})
	}
}

// finish terminates the stream, appending an empty atom after a trailing
// operator or into an entirely empty stream.
func (b *streamBuilder) finish() {
	if !b.lastIsExpr() {
		b.tokens = append(b.tokens, token{expr: b.empty()})
	}
}

// streamParser is a precedence climber over the token stream.
type streamParser struct {
	tokens []token
	pos    int
}

func (p *streamParser) done() bool { return p.pos >= len(p.tokens) }

func (p *streamParser) parse(minPrec int) (Expr, error) {
	if p.done() || p.tokens[p.pos].op {
		return nil, errors.New(errors.ErrCodeMalformedTokenStream,
			"expected expression at position %d", p.pos)
	}
	lhs := p.tokens[p.pos].expr
	p.pos++

	for !p.done() {
		t := p.tokens[p.pos]
		if !t.op {
			return nil, errors.New(errors.ErrCodeMalformedTokenStream,
				"expected operator at position %d", p.pos)
		}
		// A pair of operators with prec(left) >= prec(right) ends the left
		// operand; left associativity follows from recursing at t.prec.
		if t.prec <= minPrec {
			break
		}
		p.pos++
		rhs, err := p.parse(t.prec)
		if err != nil {
			return nil, err
		}
		switch t.prec {
		case precNewline:
			lhs = &JoinV{L: lhs, R: rhs}
		default:
			lhs = &JoinH{L: lhs, R: rhs}
		}
	}
	return lhs, nil
}
