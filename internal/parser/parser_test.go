package parser

import (
	"testing"

	"weft/internal/ast"
	"weft/internal/diag"
	"weft/internal/lexer"
	"weft/internal/source"
)

func parse(t *testing.T, src string) ([]ast.Node, *diag.Bag) {
	t.Helper()

	fs := source.NewFileSet()
	sf := fs.Get(fs.AddVirtual("parse.weft", []byte(src)))
	bag := diag.NewBag(64)
	lx := lexer.New(sf, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
	res := ParseFile(lx, Options{Reporter: diag.BagReporter{Bag: bag}, MaxErrors: 64})
	return res.Nodes, bag
}

func parseOK(t *testing.T, src string) []ast.Node {
	t.Helper()
	nodes, bag := parse(t, src)
	if bag.HasErrors() {
		t.Fatalf("parse %q failed: %v", src, bag.Items())
	}
	return nodes
}

func TestParseElementTree(t *testing.T) {
	nodes := parseOK(t, `<ul class="menu"><li>one</li><li n=2>{{ item }}</li></ul>`)
	if len(nodes) != 1 {
		t.Fatalf("top-level nodes = %d, want 1", len(nodes))
	}
	ul, ok := nodes[0].(ast.Element)
	if !ok {
		t.Fatalf("node is %T, want Element", nodes[0])
	}
	if ul.Tag != "ul" || len(ul.Attrs) != 1 || len(ul.Children) != 2 {
		t.Fatalf("ul = %+v", ul)
	}
	li2 := ul.Children[1].(ast.Element)
	if li2.Attrs[0].Kind != ast.AttrNumber || li2.Attrs[0].Value != "2" {
		t.Errorf("numeric attr = %+v", li2.Attrs[0])
	}
	if _, ok := li2.Children[0].(ast.Interp); !ok {
		t.Errorf("expected Interp child, got %T", li2.Children[0])
	}
}

func TestParseAttrKinds(t *testing.T) {
	nodes := parseOK(t, `<input type="text" disabled hidden=false max=10 value={{ user.name }} />`)
	el := nodes[0].(ast.Element)
	if !el.SelfClosing {
		t.Fatal("expected self-closing element")
	}
	want := []struct {
		name string
		kind ast.AttrKind
	}{
		{"type", ast.AttrString},
		{"disabled", ast.AttrBool},
		{"hidden", ast.AttrBool},
		{"max", ast.AttrNumber},
		{"value", ast.AttrExpr},
	}
	if len(el.Attrs) != len(want) {
		t.Fatalf("attrs = %+v", el.Attrs)
	}
	for i, w := range want {
		if el.Attrs[i].Name != w.name || el.Attrs[i].Kind != w.kind {
			t.Errorf("attr %d = %+v, want %s %v", i, el.Attrs[i], w.name, w.kind)
		}
	}
	if el.Attrs[1].Bool != true || el.Attrs[2].Bool != false {
		t.Errorf("bool values = %v, %v", el.Attrs[1].Bool, el.Attrs[2].Bool)
	}
	if el.Attrs[4].Value != "user.name" {
		t.Errorf("expr value = %q", el.Attrs[4].Value)
	}
}

// Attribute round-trip: a bare attribute means boolean true, and formatting
// a boolean-true attribute yields the bare name again (see format tests).
func TestParseBareAttrIsBoolTrue(t *testing.T) {
	nodes := parseOK(t, `<input disabled />`)
	attr := nodes[0].(ast.Element).Attrs[0]
	if attr.Kind != ast.AttrBool || !attr.Bool {
		t.Fatalf("bare attr = %+v, want boolean true", attr)
	}
}

func TestParseMacroSingleRawChild(t *testing.T) {
	nodes := parseOK(t, "<#style lang=\"css\">\n  .a { color: red; }\n</#style>")
	el := nodes[0].(ast.Element)
	if !el.IsMacro() {
		t.Fatal("expected macro element")
	}
	if len(el.Children) != 1 {
		t.Fatalf("macro children = %d, want 1", len(el.Children))
	}
	text, ok := el.Children[0].(ast.Text)
	if !ok {
		t.Fatalf("macro child is %T, want Text", el.Children[0])
	}
	if text.Raw != "  .a { color: red; }" {
		t.Errorf("macro body = %q", text.Raw)
	}
}

func TestTrimMacroBody(t *testing.T) {
	cases := []struct{ in, want string }{
		{"", ""},
		{"inline", "inline"},
		{"\n  body\n", "  body"},
		{"\n  a\n    b\n  ", "  a\n    b"},
		{"no newline at end", "no newline at end"},
		{"\n", ""},
	}
	for _, c := range cases {
		if got := trimMacroBody(c.in); got != c.want {
			t.Errorf("trimMacroBody(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		src  string
		code diag.Code
	}{
		{`<div>never closed`, diag.SynUnclosedTag},
		{`<div>text</span>`, diag.SynMismatchedClose},
		{`</div>`, diag.SynStrayClose},
		{`<div a=b>`, diag.SynExpectAttrValue},
		{`< >`, diag.SynExpectTagName},
	}
	for _, c := range cases {
		_, bag := parse(t, c.src)
		found := false
		for _, d := range bag.Items() {
			if d.Code == c.code {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("%q: expected code %s, got %v", c.src, c.code, bag.Items())
		}
	}
}

func TestParseKeepsSiblingOrder(t *testing.T) {
	nodes := parseOK(t, "alpha{{ x }}<br />omega")
	if len(nodes) != 4 {
		t.Fatalf("nodes = %d, want 4", len(nodes))
	}
	if _, ok := nodes[0].(ast.Text); !ok {
		t.Errorf("node 0 is %T", nodes[0])
	}
	if _, ok := nodes[1].(ast.Interp); !ok {
		t.Errorf("node 1 is %T", nodes[1])
	}
	if _, ok := nodes[2].(ast.Element); !ok {
		t.Errorf("node 2 is %T", nodes[2])
	}
	if txt, ok := nodes[3].(ast.Text); !ok || txt.Raw != "omega" {
		t.Errorf("node 3 = %#v", nodes[3])
	}
}
