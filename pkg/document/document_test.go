package document

import (
	"testing"

	"github.com/matzehuels/raggedblocks/pkg/errors"
	"github.com/matzehuels/raggedblocks/pkg/layout"
)

func TestParseTree(t *testing.T) {
	data := []byte(`{
	  "kind": "node", "padding": 2, "style": {"fill": "#eef"},
	  "children": [
	    {"kind": "atom", "text": "hello"},
	    {"kind": "spacer", "width": 6},
	    {"kind": "newline"},
	    {"kind": "node", "padding": 1, "children": [{"kind": "atom", "text": "x"}]}
	  ]
	}`)

	tree, err := ParseTree(data)
	if err != nil {
		t.Fatalf("ParseTree: %v", err)
	}
	root := tree.(*layout.Node)
	if root.Padding != 2 || root.Style == nil || root.Style.Fill != "#eef" {
		t.Errorf("root = %+v, want padding 2 and fill #eef", root)
	}
	if len(root.Children) != 4 {
		t.Fatalf("children = %d, want 4", len(root.Children))
	}
	if a := root.Children[0].(layout.Atom); a.Text != "hello" {
		t.Errorf("atom = %q, want hello", a.Text)
	}
	if s := root.Children[1].(layout.Spacer); s.Width != 6 {
		t.Errorf("spacer width = %v, want 6", s.Width)
	}
	if _, ok := root.Children[2].(layout.Newline); !ok {
		t.Errorf("child 2 = %T, want Newline", root.Children[2])
	}
}

func TestParseTreeErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"bad json", `{`},
		{"unknown kind", `{"kind": "oval"}`},
		{"negative padding", `{"kind": "node", "padding": -1}`},
		{"negative spacer", `{"kind": "spacer", "width": -2}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTree([]byte(tt.data))
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.HasCode(err, errors.ErrCodeInvalidDocument) {
				t.Errorf("code = %v, want INVALID_DOCUMENT", errors.CodeOf(err))
			}
		})
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	tree := &layout.Node{Padding: 3, Style: &layout.Style{Fill: "#fee", Borders: []layout.Border{{Color: "#000", Width: 1, Top: true}}}, Children: []layout.Tree{
		layout.Atom{Text: "a"},
		layout.Spacer{Width: 5},
		layout.Newline{},
		&layout.Node{Padding: 1, Children: []layout.Tree{layout.Atom{Text: "b"}}},
	}}

	data, err := MarshalTree(tree)
	if err != nil {
		t.Fatalf("MarshalTree: %v", err)
	}
	back, err := ParseTree(data)
	if err != nil {
		t.Fatalf("ParseTree: %v", err)
	}
	again, err := MarshalTree(back)
	if err != nil {
		t.Fatalf("MarshalTree(back): %v", err)
	}
	if string(data) != string(again) {
		t.Errorf("round trip not stable:\n%s\nvs\n%s", data, again)
	}
}

func TestFromText(t *testing.T) {
	tree := FromText("ab  cd\nef", 4)
	root := tree.(*layout.Node)

	want := []struct {
		kind string
		text string
	}{
		{"atom", "ab"},
		{"spacer", ""},
		{"atom", "cd"},
		{"newline", ""},
		{"atom", "ef"},
	}
	if len(root.Children) != len(want) {
		t.Fatalf("children = %d, want %d", len(root.Children), len(want))
	}
	for i, w := range want {
		switch w.kind {
		case "atom":
			a, ok := root.Children[i].(layout.Atom)
			if !ok || a.Text != w.text {
				t.Errorf("child %d = %#v, want atom %q", i, root.Children[i], w.text)
			}
		case "spacer":
			s, ok := root.Children[i].(layout.Spacer)
			if !ok {
				t.Errorf("child %d = %#v, want spacer", i, root.Children[i])
			} else if s.Width != 8 {
				t.Errorf("spacer width = %v, want 2 spaces * 4", s.Width)
			}
		case "newline":
			if _, ok := root.Children[i].(layout.Newline); !ok {
				t.Errorf("child %d = %#v, want newline", i, root.Children[i])
			}
		}
	}
}
