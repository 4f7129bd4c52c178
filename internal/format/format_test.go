package format

import (
	"strings"
	"testing"

	"weft/internal/ast"
	"weft/internal/diag"
	"weft/internal/expr"
	"weft/internal/lexer"
	"weft/internal/parser"
	"weft/internal/source"
)

func parseSource(t *testing.T, src string) []ast.Node {
	t.Helper()

	fs := source.NewFileSet()
	sf := fs.Get(fs.AddVirtual("fmt.weft", []byte(src)))
	bag := diag.NewBag(64)
	lx := lexer.New(sf, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
	res := parser.ParseFile(lx, parser.Options{Reporter: diag.BagReporter{Bag: bag}, MaxErrors: 64})
	if bag.HasErrors() {
		t.Fatalf("parse failed: %v", bag.Items())
	}
	return res.Nodes
}

func formatSource(t *testing.T, src string) string {
	t.Helper()
	out, err := Format(parseSource(t, src), expr.New(expr.Options{}), Options{})
	if err != nil {
		t.Fatalf("format failed: %v", err)
	}
	return out
}

func TestFormatSelfClosingCollapse(t *testing.T) {
	// div with class="box" and bare disabled, no children, depth 0.
	got := formatSource(t, `<div class="box" disabled></div>`)
	want := `<div class="box" disabled />`
	if got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
	if strings.Contains(got, "</div>") {
		t.Error("self-closing tag must not emit a closing tag")
	}
}

func TestFormatBooleanAttrRoundTrip(t *testing.T) {
	got := formatSource(t, `<input disabled=true hidden=false />`)
	want := `<input disabled hidden=false />`
	if got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
	// re-parse the bare name: it must come back as boolean true
	el := parseSource(t, got)[0].(ast.Element)
	if el.Attrs[0].Kind != ast.AttrBool || !el.Attrs[0].Bool {
		t.Fatalf("re-parsed bare attr = %+v, want boolean true", el.Attrs[0])
	}
}

func TestFormatWhitespaceCollapse(t *testing.T) {
	// one newline: dropped entirely
	got := formatSource(t, "<a />  \n  <b />")
	if got != "<a />\n<b />" {
		t.Fatalf("single-newline separator: got %q", got)
	}

	// two newlines: exactly one blank output line survives
	got = formatSource(t, "<a />\n\n\n<b />")
	if got != "<a />\n\n<b />" {
		t.Fatalf("blank-line separator: got %q", got)
	}
}

func TestFormatTextTrimming(t *testing.T) {
	got := formatSource(t, "<p>\n   hello world   \n</p>")
	want := "<p>\n  hello world\n</p>"
	if got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
}

func TestFormatInterpolation(t *testing.T) {
	got := formatSource(t, `<p>{{user . name}}</p>`)
	want := "<p>\n  {{ user.name }}\n</p>"
	if got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
}

func TestFormatAttrExpr(t *testing.T) {
	got := formatSource(t, `<form data={{ foo:"bar",baz:1 }}></form>`)
	want := `<form data={{ foo: "bar", baz: 1 }} />`
	if got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
}

func TestFormatMultilineAttrExprNoPadding(t *testing.T) {
	long := `alpha: "aaaaaaaaaaaaaaaa", beta: "bbbbbbbbbbbbbbbb", gamma: "cccccccccccccccc", delta: "dddddddddddddddd"`
	got := formatSource(t, `<form data={{ `+long+` }}></form>`)
	if !strings.Contains(got, "data={{\n") {
		t.Fatalf("expected multi-line expression attribute without padding, got:\n%s", got)
	}
	if strings.Contains(got, "{{ \n") {
		t.Error("multi-line expression must not carry padding after {{")
	}
}

// Line-length boundary: exactly at the threshold stays single line, one
// column past it switches to one attribute per line.
func TestFormatWrapThresholdBoundary(t *testing.T) {
	// len(`<div class="`) + n + len(`">`) == 80  =>  n == 66
	at := strings.Repeat("x", 66)
	got := formatSource(t, `<div class="`+at+`">y</div>`)
	firstLine := strings.SplitN(got, "\n", 2)[0]
	if len(firstLine) != 80 {
		t.Fatalf("expected 80-column opening to stay single-line, first line is %d cols:\n%s", len(firstLine), got)
	}

	over := strings.Repeat("x", 67)
	got = formatSource(t, `<div class="`+over+`">y</div>`)
	wantPrefix := "<div\n  class=\"" + over + "\"\n>\n  y\n</div>"
	if got != wantPrefix {
		t.Fatalf("expected wrapped layout:\nwant %q\ngot  %q", wantPrefix, got)
	}
}

func TestFormatWrappedSelfClosing(t *testing.T) {
	over := strings.Repeat("x", 80)
	got := formatSource(t, `<img src="`+over+`" />`)
	want := "<img\n  src=\"" + over + "\"\n/>"
	if got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
}

func TestFormatMacroPassthrough(t *testing.T) {
	src := "<div><#style>\n.box {\n    color: red;\n}\n</#style></div>"
	got := formatSource(t, src)
	want := "<div>\n  <#style>\n.box {\n    color: red;\n}\n  </#style>\n</div>"
	if got != want {
		t.Fatalf("macro body must survive verbatim:\nwant %q\ngot  %q", want, got)
	}
}

func TestFormatMacroChildCount(t *testing.T) {
	el := ast.Element{Tag: "#raw"} // zero children violates the macro shape
	_, err := Format([]ast.Node{el}, expr.New(expr.Options{}), Options{})
	if err == nil || !strings.Contains(err.Error(), "macro tag") {
		t.Fatalf("expected macro child-count error, got %v", err)
	}
}

func TestFormatExpressionErrorIsFatal(t *testing.T) {
	_, err := Format(parseSource(t, `<p>{{ broken [ }}</p>`), expr.New(expr.Options{}), Options{})
	if err == nil {
		t.Fatal("expected expression-syntax failure to abort formatting")
	}
}

func TestFormatIdempotence(t *testing.T) {
	srcs := []string{
		"<html>\n\n<body class=\"dark\">\n<p>hi {{ user.name }}</p>\n\n<input disabled />\n</body>\n</html>",
		"<ul><li n=1>one</li><li n=2>two</li></ul>",
		"<div><#script>\nlet x = 1;\n</#script></div>",
		`<form data={{ foo:"bar" }} action="/x"><input type="text" /></form>`,
	}
	canon := expr.New(expr.Options{})
	for _, src := range srcs {
		fs := source.NewFileSet()
		sf := fs.Get(fs.AddVirtual("round.weft", []byte(src)))
		ok, msg := CheckRoundTrip(sf, canon, Options{}, 64)
		if !ok {
			t.Errorf("round trip failed for %q: %s", src, msg)
		}
	}
}

func TestFormatLeadingBlankLineConverges(t *testing.T) {
	// Документ, начинающийся с пустой строки: первый проход оставляет
	// одиночный перевод строки, второй его убирает, дальше вывод
	// неподвижен.
	first := formatSource(t, "\n\n<a />")
	if first != "\n<a />" {
		t.Fatalf("first pass: got %q, want %q", first, "\n<a />")
	}
	second := formatSource(t, first)
	if second != "<a />" {
		t.Fatalf("second pass: got %q, want %q", second, "<a />")
	}
	third := formatSource(t, second)
	if third != second {
		t.Fatalf("output must be stable from the second pass: %q vs %q", second, third)
	}
}

func TestIndentHelper(t *testing.T) {
	opts := Options{}.withDefaults()
	if got := opts.indent("a\nb", 2); got != "    a\n    b" {
		t.Errorf("indent = %q", got)
	}
	if got := opts.indent("a", 0); got != "a" {
		t.Errorf("indent depth 0 = %q", got)
	}
	if got := opts.pad(-2); got != "" {
		t.Errorf("negative depth must clamp, got %q", got)
	}
}
