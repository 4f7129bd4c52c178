package lexer

import (
	"strings"

	"weft/internal/diag"
	"weft/internal/source"
	"weft/internal/token"
)

type mode uint8

const (
	modeText mode = iota // между тегами: текст и интерполяции
	modeTag              // внутри <...>: имена, атрибуты, литералы
	modeRaw              // тело макро-тега: байты до закрывающего </#name>
)

// Lexer токенизирует один weft-файл. Лексер модальный: значимость байта
// зависит от того, находимся ли мы в тексте, внутри тега или в сыром теле
// макро-тега.
type Lexer struct {
	file   *source.File
	cursor Cursor
	opts   Options

	mode     mode
	tagName  string // имя текущего открывающего тега (для перехода в modeRaw)
	closing  bool   // лексим закрывающую форму </...>
	wantName bool   // следующий Ident — имя тега
	rawClose string
}

func New(file *source.File, opts Options) *Lexer {
	return &Lexer{
		file:   file,
		cursor: NewCursor(file),
		opts:   opts,
		mode:   modeText,
	}
}

// Next возвращает следующий токен. После EOF всегда возвращает EOF.
func (lx *Lexer) Next() token.Token {
	switch lx.mode {
	case modeRaw:
		return lx.scanRawBody()
	case modeTag:
		return lx.nextTag()
	default:
		return lx.nextText()
	}
}

func (lx *Lexer) nextText() token.Token {
	if lx.cursor.EOF() {
		return lx.emptyToken(token.EOF)
	}

	switch {
	case lx.cursor.HasPrefix("</"):
		tok := lx.punct(token.LAngleSlash, 2)
		lx.mode = modeTag
		lx.closing = true
		lx.wantName = true
		return tok
	case lx.cursor.Peek() == '<':
		tok := lx.punct(token.LAngle, 1)
		lx.mode = modeTag
		lx.closing = false
		lx.wantName = true
		return tok
	case lx.cursor.HasPrefix("{{"):
		return lx.scanExprBlock()
	}

	// Текстовый прогон до следующей значимой конструкции.
	start := lx.cursor.Off
	for !lx.cursor.EOF() {
		if lx.cursor.Peek() == '<' || lx.cursor.HasPrefix("{{") {
			break
		}
		lx.cursor.Advance(1)
	}
	return token.Token{
		Kind: token.TextRun,
		Span: lx.span(start, lx.cursor.Off),
		Text: lx.cursor.Slice(start, lx.cursor.Off),
	}
}

func (lx *Lexer) nextTag() token.Token {
	lx.skipSpace()
	if lx.cursor.EOF() {
		return lx.emptyToken(token.EOF)
	}

	ch := lx.cursor.Peek()
	switch {
	case lx.cursor.HasPrefix("/>"):
		tok := lx.punct(token.SlashRAngle, 2)
		lx.leaveTag(false)
		return tok

	case ch == '>':
		tok := lx.punct(token.RAngle, 1)
		lx.leaveTag(true)
		return tok

	case ch == '=':
		return lx.punct(token.Assign, 1)

	case ch == '"':
		return lx.scanString()

	case lx.cursor.HasPrefix("{{"):
		return lx.scanExprBlock()

	case isNumberStart(ch, lx.cursor.PeekAt(1)):
		return lx.scanNumber()

	case isIdentStart(ch) || (ch == token.MacroSentinel && lx.wantName):
		return lx.scanIdent()
	}

	// неизвестный байт внутри тега
	start := lx.cursor.Off
	lx.cursor.Advance(1)
	sp := lx.span(start, lx.cursor.Off)
	lx.report(diag.LexUnknownChar, sp, "unexpected character "+lx.cursor.Slice(start, lx.cursor.Off)+" inside tag")
	return token.Token{Kind: token.Invalid, Span: sp, Text: lx.cursor.Slice(start, lx.cursor.Off)}
}

// leaveTag switches the mode after '>' or '/>'. An opening macro tag drops
// the lexer into raw mode until the matching close marker.
func (lx *Lexer) leaveTag(opened bool) {
	if opened && !lx.closing && len(lx.tagName) > 0 && lx.tagName[0] == token.MacroSentinel {
		lx.mode = modeRaw
		lx.rawClose = "</" + lx.tagName
	} else {
		lx.mode = modeText
	}
	lx.closing = false
	lx.tagName = ""
}

// scanRawBody consumes a verbatim macro body up to (not including) its close
// tag. The body is never tokenized; whitespace and markup-like text inside
// are preserved byte-for-byte.
func (lx *Lexer) scanRawBody() token.Token {
	start := lx.cursor.Off
	rest := lx.cursor.Slice(start, uint32(len(lx.file.Content)))
	idx := strings.Index(rest, lx.rawClose)
	if idx < 0 {
		lx.cursor.Advance(uint32(len(rest)))
		sp := lx.span(start, lx.cursor.Off)
		lx.report(diag.LexUnterminatedMacro, sp, "macro body not closed with "+lx.rawClose+">")
		lx.mode = modeText
		lx.rawClose = ""
		return token.Token{Kind: token.TextRun, Span: sp, Text: rest}
	}
	lx.cursor.Advance(uint32(idx))
	lx.mode = modeText
	lx.rawClose = ""
	return token.Token{
		Kind: token.TextRun,
		Span: lx.span(start, lx.cursor.Off),
		Text: rest[:idx],
	}
}

// scanExprBlock consumes a {{ ... }} block and returns the inner source.
// Braces inside the expression are tracked by depth so map literals survive.
func (lx *Lexer) scanExprBlock() token.Token {
	start := lx.cursor.Off
	lx.cursor.Advance(2)
	innerStart := lx.cursor.Off

	depth := 0
	for !lx.cursor.EOF() {
		switch lx.cursor.Peek() {
		case '{':
			depth++
			lx.cursor.Advance(1)
		case '}':
			if depth > 0 {
				depth--
				lx.cursor.Advance(1)
				continue
			}
			if lx.cursor.PeekAt(1) == '}' {
				innerEnd := lx.cursor.Off
				lx.cursor.Advance(2)
				return token.Token{
					Kind: token.ExprBlock,
					Span: lx.span(start, lx.cursor.Off),
					Text: lx.cursor.Slice(innerStart, innerEnd),
				}
			}
			lx.cursor.Advance(1)
		default:
			lx.cursor.Advance(1)
		}
	}

	sp := lx.span(start, lx.cursor.Off)
	lx.report(diag.LexUnterminatedExpr, sp, "interpolation not closed with }}")
	return token.Token{
		Kind: token.ExprBlock,
		Span: sp,
		Text: lx.cursor.Slice(innerStart, lx.cursor.Off),
	}
}

func (lx *Lexer) scanString() token.Token {
	start := lx.cursor.Off
	lx.cursor.Advance(1) // opening quote
	valueStart := lx.cursor.Off
	for !lx.cursor.EOF() {
		ch := lx.cursor.Peek()
		if ch == '\\' {
			lx.cursor.Advance(2)
			continue
		}
		if ch == '"' {
			value := lx.cursor.Slice(valueStart, lx.cursor.Off)
			lx.cursor.Advance(1) // closing quote
			return token.Token{
				Kind: token.StringLit,
				Span: lx.span(start, lx.cursor.Off),
				Text: value,
			}
		}
		if ch == '\n' {
			break
		}
		lx.cursor.Advance(1)
	}
	sp := lx.span(start, lx.cursor.Off)
	lx.report(diag.LexUnterminatedString, sp, "attribute string is not terminated")
	return token.Token{Kind: token.Invalid, Span: sp, Text: lx.cursor.Slice(valueStart, lx.cursor.Off)}
}

func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Off
	if ch := lx.cursor.Peek(); ch == '-' || ch == '+' {
		lx.cursor.Advance(1)
	}
	dots := 0
	for !lx.cursor.EOF() {
		ch := lx.cursor.Peek()
		if ch == '.' {
			dots++
			lx.cursor.Advance(1)
			continue
		}
		if !isDigit(ch) {
			break
		}
		lx.cursor.Advance(1)
	}
	sp := lx.span(start, lx.cursor.Off)
	text := lx.cursor.Slice(start, lx.cursor.Off)
	if dots > 1 || text == "-" || text == "+" || text == "." {
		lx.report(diag.LexBadNumber, sp, "malformed numeric literal "+text)
		return token.Token{Kind: token.Invalid, Span: sp, Text: text}
	}
	return token.Token{Kind: token.NumberLit, Span: sp, Text: text}
}

func (lx *Lexer) scanIdent() token.Token {
	start := lx.cursor.Off
	if lx.cursor.Peek() == token.MacroSentinel {
		lx.cursor.Advance(1)
	}
	for !lx.cursor.EOF() && isIdentContinue(lx.cursor.Peek()) {
		lx.cursor.Advance(1)
	}
	text := lx.cursor.Slice(start, lx.cursor.Off)
	if lx.wantName {
		lx.tagName = text
		lx.wantName = false
	}
	return token.Token{
		Kind: token.Ident,
		Span: lx.span(start, lx.cursor.Off),
		Text: text,
	}
}

func (lx *Lexer) skipSpace() {
	for !lx.cursor.EOF() {
		switch lx.cursor.Peek() {
		case ' ', '\t', '\n', '\r':
			lx.cursor.Advance(1)
		default:
			return
		}
	}
}

func (lx *Lexer) punct(kind token.Kind, n uint32) token.Token {
	start := lx.cursor.Off
	lx.cursor.Advance(n)
	return token.Token{Kind: kind, Span: lx.span(start, lx.cursor.Off)}
}

func (lx *Lexer) span(start, end uint32) source.Span {
	return source.Span{File: lx.file.ID, Start: start, End: end}
}

func (lx *Lexer) emptyToken(kind token.Kind) token.Token {
	return token.Token{Kind: kind, Span: lx.span(lx.cursor.Off, lx.cursor.Off)}
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentContinue(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch) || ch == '-' || ch == ':' || ch == '.'
}

func isNumberStart(ch, next byte) bool {
	if isDigit(ch) {
		return true
	}
	return (ch == '-' || ch == '+') && isDigit(next)
}
