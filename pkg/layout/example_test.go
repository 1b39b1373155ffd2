package layout_test

import (
	"fmt"

	"github.com/matzehuels/raggedblocks/pkg/layout"
	"github.com/matzehuels/raggedblocks/pkg/textmetrics"
)

func Example() {
	tree := &layout.Node{Padding: 2, Children: []layout.Tree{
		layout.Atom{Text: "hello"},
		layout.Spacer{Width: 6},
		layout.Atom{Text: "world"},
		layout.Newline{},
		layout.Atom{Text: "again"},
	}}

	alg, err := layout.New(layout.NameRocksPlus)
	if err != nil {
		fmt.Println(err)
		return
	}

	res, err := alg.Layout(tree, layout.WithMeasurer(textmetrics.Fixed{Advance: 8, Ascent: 8, Descent: 2}))
	if err != nil {
		fmt.Println(err)
		return
	}

	for f := range res.Fragments() {
		fmt.Printf("%s line=%d left=%.0f\n", f.Text, f.Line, f.Rect.Left)
	}
	// Output:
	// hello line=0 left=2
	// world line=0 left=48
	// again line=1 left=2
}
