// Package parser builds the raw node tree consumed by the formatter.
// Восстановление после ошибок минимальное: парсер продолжает после
// ошибочного токена, пока не исчерпан бюджет MaxErrors.
package parser

import (
	"fmt"
	"strings"

	"weft/internal/ast"
	"weft/internal/diag"
	"weft/internal/lexer"
	"weft/internal/source"
	"weft/internal/token"
)

type Options struct {
	MaxErrors     uint
	CurrentErrors uint
	Reporter      diag.Reporter
}

// Enough - проверить, достигли ли мы максимального количества ошибок
func (o *Options) Enough() bool {
	if o.MaxErrors == 0 {
		return false
	}
	return o.CurrentErrors >= o.MaxErrors
}

type Result struct {
	Nodes []ast.Node
}

// Parser — состояние парсера на один файл
type Parser struct {
	lx   *lexer.Lexer
	tok  token.Token
	opts Options
}

// ParseFile parses one template into its top-level node list. Diagnostics go
// to opts.Reporter; the returned nodes are best-effort when errors occurred
// and callers must consult their bag before using the tree.
func ParseFile(lx *lexer.Lexer, opts Options) Result {
	p := &Parser{lx: lx, opts: opts}
	p.advance()
	nodes := p.parseNodes("")
	return Result{Nodes: nodes}
}

func (p *Parser) advance() {
	p.tok = p.lx.Next()
}

func (p *Parser) errorAt(code diag.Code, sp source.Span, msg string) {
	if p.opts.Enough() {
		return
	}
	p.opts.CurrentErrors++
	diag.ReportError(p.opts.Reporter, code, sp, msg)
}

// parseNodes consumes nodes until EOF or until the closing tag of parent
// (empty parent means top level).
func (p *Parser) parseNodes(parent string) []ast.Node {
	var nodes []ast.Node
	for {
		switch p.tok.Kind {
		case token.EOF:
			if parent != "" {
				p.errorAt(diag.SynUnclosedTag, p.tok.Span, fmt.Sprintf("missing </%s>", parent))
			}
			return nodes

		case token.TextRun:
			nodes = append(nodes, ast.Text{Raw: p.tok.Text, Span: p.tok.Span})
			p.advance()

		case token.ExprBlock:
			nodes = append(nodes, ast.Interp{Expr: strings.TrimSpace(p.tok.Text), Span: p.tok.Span})
			p.advance()

		case token.LAngle:
			if el, ok := p.parseElement(); ok {
				nodes = append(nodes, el)
			}

		case token.LAngleSlash:
			closeSpan := p.tok.Span
			p.advance()
			name := ""
			if p.tok.Kind == token.Ident {
				name = p.tok.Text
				p.advance()
			}
			if p.tok.Kind == token.RAngle {
				p.advance()
			}
			if parent == "" {
				p.errorAt(diag.SynStrayClose, closeSpan, fmt.Sprintf("unexpected closing tag </%s>", name))
				continue
			}
			if name != parent {
				p.errorAt(diag.SynMismatchedClose, closeSpan,
					fmt.Sprintf("closing tag </%s> does not match <%s>", name, parent))
			}
			return nodes

		default:
			p.errorAt(diag.SynUnexpectedToken, p.tok.Span,
				fmt.Sprintf("unexpected %s at node level", p.tok.Kind))
			p.advance()
		}
	}
}

// parseElement parses one element starting at LAngle. Macro elements receive
// their single verbatim text child straight from the lexer's raw mode.
func (p *Parser) parseElement() (ast.Element, bool) {
	openSpan := p.tok.Span
	p.advance() // consume '<'

	if p.tok.Kind != token.Ident {
		p.errorAt(diag.SynExpectTagName, p.tok.Span, "expected tag name after <")
		p.advance()
		return ast.Element{}, false
	}
	el := ast.Element{Tag: p.tok.Text, Span: openSpan}
	p.advance()

	for p.tok.Kind == token.Ident {
		attr, ok := p.parseAttr()
		if ok {
			el.Attrs = append(el.Attrs, attr)
		}
	}

	switch p.tok.Kind {
	case token.SlashRAngle:
		el.SelfClosing = true
		el.Span = el.Span.Cover(p.tok.Span)
		p.advance()
		return el, true

	case token.RAngle:
		p.advance()

	default:
		p.errorAt(diag.SynUnexpectedToken, p.tok.Span,
			fmt.Sprintf("unexpected %s inside <%s ...>", p.tok.Kind, el.Tag))
		// пропускаем до конца тега
		for p.tok.Kind != token.RAngle && p.tok.Kind != token.SlashRAngle && p.tok.Kind != token.EOF {
			p.advance()
		}
		if p.tok.Kind == token.EOF {
			return el, true
		}
		el.SelfClosing = p.tok.Kind == token.SlashRAngle
		p.advance()
		if el.SelfClosing {
			return el, true
		}
	}

	if el.IsMacro() {
		// Лексер гарантирует ровно один сырой TextRun до </#name>.
		if p.tok.Kind == token.TextRun {
			el.Children = []ast.Node{ast.Text{Raw: trimMacroBody(p.tok.Text), Span: p.tok.Span}}
			p.advance()
		} else {
			p.errorAt(diag.SynMacroBody, p.tok.Span, fmt.Sprintf("macro tag <%s> is missing its body", el.Tag))
		}
		if p.tok.Kind == token.LAngleSlash {
			p.advance()
			if p.tok.Kind == token.Ident {
				if p.tok.Text != el.Tag {
					p.errorAt(diag.SynMismatchedClose, p.tok.Span,
						fmt.Sprintf("closing tag </%s> does not match <%s>", p.tok.Text, el.Tag))
				}
				p.advance()
			}
			if p.tok.Kind == token.RAngle {
				el.Span = el.Span.Cover(p.tok.Span)
				p.advance()
			}
		} else {
			p.errorAt(diag.SynUnclosedTag, p.tok.Span, fmt.Sprintf("missing </%s>", el.Tag))
		}
		return el, true
	}

	el.Children = p.parseNodes(el.Tag)
	if len(el.Children) > 0 {
		el.Span = el.Span.Cover(el.Children[len(el.Children)-1].NodeSpan())
	}
	return el, true
}

// trimMacroBody drops the boundary newline after the opening tag and the
// closing tag's own indentation, keeping the body's internal indentation
// intact. The formatter re-emits those boundaries itself, so leaving them in
// place would grow the body on every formatting pass.
func trimMacroBody(raw string) string {
	raw = strings.TrimPrefix(raw, "\n")
	if i := strings.LastIndexByte(raw, '\n'); i >= 0 && strings.TrimRight(raw[i+1:], " \t") == "" {
		raw = raw[:i]
	}
	return raw
}

// parseAttr parses name, name=value, or a bare boolean flag.
func (p *Parser) parseAttr() (ast.Attr, bool) {
	attr := ast.Attr{Name: p.tok.Text, Span: p.tok.Span}
	p.advance()

	if p.tok.Kind != token.Assign {
		// голый атрибут — сокращение для true
		attr.Kind = ast.AttrBool
		attr.Bool = true
		return attr, true
	}
	p.advance() // consume '='

	switch p.tok.Kind {
	case token.StringLit:
		attr.Kind = ast.AttrString
		attr.Value = p.tok.Text
	case token.NumberLit:
		attr.Kind = ast.AttrNumber
		attr.Value = p.tok.Text
	case token.ExprBlock:
		attr.Kind = ast.AttrExpr
		attr.Value = strings.TrimSpace(p.tok.Text)
	case token.Ident:
		switch p.tok.Text {
		case "true", "false":
			attr.Kind = ast.AttrBool
			attr.Bool = p.tok.Text == "true"
		default:
			p.errorAt(diag.SynExpectAttrValue, p.tok.Span,
				fmt.Sprintf("attribute %s: expected a string, number, boolean, or {{ expression }}", attr.Name))
			p.advance()
			return ast.Attr{}, false
		}
	default:
		p.errorAt(diag.SynExpectAttrValue, p.tok.Span,
			fmt.Sprintf("attribute %s: expected a value after =", attr.Name))
		return ast.Attr{}, false
	}
	attr.Span = attr.Span.Cover(p.tok.Span)
	p.advance()
	return attr, true
}
