package token

// Kind enumerates the lexical classes of a weft template.
type Kind uint8

const (
	EOF Kind = iota
	Invalid

	// Text-level tokens
	TextRun   // raw text between tags; also verbatim macro bodies
	ExprBlock // {{ ... }} — Text holds the inner source, braces stripped

	// Tag-level tokens
	LAngle      // <
	LAngleSlash // </
	RAngle      // >
	SlashRAngle // />
	Ident       // tag or attribute name, including a leading macro sentinel
	Assign      // =
	StringLit   // "..." — Text holds the unquoted value
	NumberLit   // numeric literal, carried as written
)

func (k Kind) String() string {
	switch k {
	case EOF:
		return "EOF"
	case Invalid:
		return "Invalid"
	case TextRun:
		return "TextRun"
	case ExprBlock:
		return "ExprBlock"
	case LAngle:
		return "LAngle"
	case LAngleSlash:
		return "LAngleSlash"
	case RAngle:
		return "RAngle"
	case SlashRAngle:
		return "SlashRAngle"
	case Ident:
		return "Ident"
	case Assign:
		return "Assign"
	case StringLit:
		return "StringLit"
	case NumberLit:
		return "NumberLit"
	}
	return "Unknown"
}
