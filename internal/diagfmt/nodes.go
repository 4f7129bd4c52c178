package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"weft/internal/ast"
	"weft/internal/source"
)

// FormatNodesPretty prints the raw node tree with two-space indentation,
// one node per line. Used by the `parse` command for debugging grammars.
func FormatNodesPretty(w io.Writer, nodes []ast.Node) error {
	for _, n := range nodes {
		writeNode(w, n, 0)
	}
	return nil
}

func writeNode(w io.Writer, n ast.Node, depth int) {
	pad := strings.Repeat("  ", depth)
	switch t := n.(type) {
	case ast.Text:
		fmt.Fprintf(w, "%sText %q [%s]\n", pad, t.Raw, t.Span)
	case ast.Interp:
		fmt.Fprintf(w, "%sInterp %q [%s]\n", pad, t.Expr, t.Span)
	case ast.Element:
		suffix := ""
		if t.SelfClosing {
			suffix = " self-closing"
		}
		fmt.Fprintf(w, "%sElement <%s>%s [%s]\n", pad, t.Tag, suffix, t.Span)
		for _, a := range t.Attrs {
			fmt.Fprintf(w, "%s  @%s %s %q\n", pad, a.Name, attrKindName(a.Kind), attrValue(a))
		}
		for _, c := range t.Children {
			writeNode(w, c, depth+1)
		}
	}
}

type nodeOutput struct {
	Kind     string       `json:"kind"`
	Text     string       `json:"text,omitempty"`
	Tag      string       `json:"tag,omitempty"`
	Attrs    []attrOutput `json:"attrs,omitempty"`
	Children []nodeOutput `json:"children,omitempty"`
	Span     source.Span  `json:"span"`
}

type attrOutput struct {
	Name  string `json:"name"`
	Kind  string `json:"kind"`
	Value string `json:"value"`
}

// FormatNodesJSON выводит дерево узлов в JSON формате
func FormatNodesJSON(w io.Writer, nodes []ast.Node) error {
	out := make([]nodeOutput, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, toOutput(n))
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func toOutput(n ast.Node) nodeOutput {
	switch t := n.(type) {
	case ast.Text:
		return nodeOutput{Kind: "text", Text: t.Raw, Span: t.Span}
	case ast.Interp:
		return nodeOutput{Kind: "interp", Text: t.Expr, Span: t.Span}
	case ast.Element:
		out := nodeOutput{Kind: "element", Tag: t.Tag, Span: t.Span}
		for _, a := range t.Attrs {
			out.Attrs = append(out.Attrs, attrOutput{Name: a.Name, Kind: attrKindName(a.Kind), Value: attrValue(a)})
		}
		for _, c := range t.Children {
			out.Children = append(out.Children, toOutput(c))
		}
		return out
	}
	return nodeOutput{Kind: "unknown"}
}

func attrKindName(k ast.AttrKind) string {
	switch k {
	case ast.AttrString:
		return "string"
	case ast.AttrBool:
		return "bool"
	case ast.AttrNumber:
		return "number"
	case ast.AttrExpr:
		return "expr"
	}
	return "unknown"
}

func attrValue(a ast.Attr) string {
	if a.Kind == ast.AttrBool {
		if a.Bool {
			return "true"
		}
		return "false"
	}
	return a.Value
}
