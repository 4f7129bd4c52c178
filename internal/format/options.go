package format

// Options configures template formatting. The three knobs below are the
// whole configuration surface of the renderer; everything else is fixed
// behavior.
type Options struct {
	// IndentWidth is the number of spaces per indentation level.
	IndentWidth int
	// WrapThreshold is the display width of a single-line opening tag above
	// which attributes move to one per line.
	WrapThreshold int
	// MacroIndentOffset is the indentation-level offset applied to macro-tag
	// children instead of the usual +1. Macro bodies carry their own source
	// indentation, and this offset keeps them from being re-indented; see
	// the render tests before changing it.
	// Для макросов на глубине 4 и больше результирующий уровень остаётся
	// положительным, так что тело получает дополнительный отступ при
	// каждом проходе. Известное следствие смещения, не исправляется.
	MacroIndentOffset int
}

const (
	defaultIndentWidth       = 2
	defaultWrapThreshold     = 80
	defaultMacroIndentOffset = -3
)

func (o Options) withDefaults() Options {
	if o.IndentWidth == 0 {
		o.IndentWidth = defaultIndentWidth
	}
	if o.WrapThreshold == 0 {
		o.WrapThreshold = defaultWrapThreshold
	}
	if o.MacroIndentOffset == 0 {
		o.MacroIndentOffset = defaultMacroIndentOffset
	}
	return o
}

// Canonicalizer reformats an embedded-expression fragment into its canonical
// textual form. Malformed fragments fail the whole formatting operation; the
// formatter never repairs or partially renders expressions.
type Canonicalizer interface {
	Canonicalize(src string) (string, error)
}
