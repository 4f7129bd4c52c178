package token

import (
	"weft/internal/source"
)

// MacroSentinel is the reserved first character of macro tag names.
// A macro tag carries exactly one verbatim text child that the lexer
// captures without tokenizing.
const MacroSentinel = '#'

// Token represents a single template token with its location.
type Token struct {
	Kind Kind
	Span source.Span
	Text string
}

// IsLiteral reports whether the token is a string or numeric literal.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case StringLit, NumberLit:
		return true
	default:
		return false
	}
}

// IsTagDelim reports whether the token opens or closes a tag form.
func (t Token) IsTagDelim() bool {
	switch t.Kind {
	case LAngle, LAngleSlash, RAngle, SlashRAngle:
		return true
	default:
		return false
	}
}

// IsMacroName reports whether the token is an identifier naming a macro tag.
func (t Token) IsMacroName() bool {
	return t.Kind == Ident && len(t.Text) > 0 && t.Text[0] == MacroSentinel
}
