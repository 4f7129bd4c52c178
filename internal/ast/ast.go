// Package ast describes the raw node tree of a parsed weft template.
// Nodes are transient: the parser produces them and the formatter consumes
// them once; nothing here is mutated after construction.
package ast

import (
	"weft/internal/source"
	"weft/internal/token"
)

type Node interface {
	node()
	NodeSpan() source.Span
}

// Text is a literal text run, possibly pure whitespace. Raw is preserved
// byte-for-byte; whitespace normalization happens in the formatter.
type Text struct {
	Raw  string
	Span source.Span
}

func (Text) node()                   {}
func (t Text) NodeSpan() source.Span { return t.Span }

// Interp is an embedded-expression placeholder, rendered as {{ expr }}.
// Expr holds the inner source with surrounding whitespace trimmed.
type Interp struct {
	Expr string
	Span source.Span
}

func (Interp) node()                   {}
func (i Interp) NodeSpan() source.Span { return i.Span }

type AttrKind uint8

const (
	AttrString AttrKind = iota
	AttrBool
	AttrNumber
	AttrExpr
)

// Attr is a single attribute. Value holds the string literal (AttrString),
// the numeric literal as written (AttrNumber), or the expression source
// (AttrExpr); Bool carries the value for AttrBool.
type Attr struct {
	Name  string
	Kind  AttrKind
	Value string
	Bool  bool
	Span  source.Span
}

type Element struct {
	Tag         string
	Attrs       []Attr
	Children    []Node
	SelfClosing bool
	Span        source.Span
}

func (Element) node()                   {}
func (e Element) NodeSpan() source.Span { return e.Span }

// IsMacro reports whether the element is a macro tag. By construction a
// macro element carries exactly one Text child holding its verbatim body.
func (e Element) IsMacro() bool {
	return len(e.Tag) > 0 && e.Tag[0] == token.MacroSentinel
}
