package format

import (
	"fmt"
	"strings"

	"weft/internal/ast"
)

// Segment is the whitespace-normalized intermediate form of a node, ready
// for indentation-aware rendering. A nil Segment means "emit nothing" —
// distinct from an empty StringSegment, which emits a deliberate blank line.
type Segment interface {
	segment()
}

// StringSegment is finalized literal text. Empty text is the blank-line
// marker produced for intentionally separated content.
type StringSegment struct {
	Text string
}

func (StringSegment) segment() {}

// TagSegment is a tag with already-rendered attribute strings and built
// child segments. Attribute and child order is preserved exactly.
type TagSegment struct {
	Tag      string
	Attrs    []string
	Children []Segment
}

func (TagSegment) segment() {}

type builder struct {
	canon Canonicalizer
	opts  Options
}

// build converts one raw node into a segment. A nil segment with nil error
// means the node is dropped entirely.
func (b *builder) build(n ast.Node) (Segment, error) {
	switch t := n.(type) {
	case ast.Text:
		trimmed := strings.TrimSpace(t.Raw)
		if trimmed != "" {
			return StringSegment{Text: trimmed}, nil
		}
		// Пустой текст: два и более переводов строки — пользователь
		// сознательно отделил содержимое пустой строкой.
		// Маркер в самом начале документа оставляет одиночный перевод
		// строки, который следующий проход уже отбрасывает: вывод
		// стабилен начиная со второго форматирования.
		if strings.Count(t.Raw, "\n") > 1 {
			return StringSegment{}, nil
		}
		return nil, nil

	case ast.Interp:
		canonical, err := b.canon.Canonicalize(t.Expr)
		if err != nil {
			return nil, fmt.Errorf("interpolation at %s: %w", t.Span, err)
		}
		return StringSegment{Text: "{{ " + canonical + " }}"}, nil

	case ast.Element:
		return b.buildElement(t)

	default:
		return nil, fmt.Errorf("unsupported node type %T", n)
	}
}

func (b *builder) buildElement(el ast.Element) (Segment, error) {
	attrs := make([]string, 0, len(el.Attrs))
	for _, a := range el.Attrs {
		rendered, err := b.renderAttr(a)
		if err != nil {
			return nil, fmt.Errorf("<%s> attribute %s at %s: %w", el.Tag, a.Name, a.Span, err)
		}
		attrs = append(attrs, rendered)
	}

	if el.IsMacro() {
		// Структурное исключение: единственный текстовый ребёнок макро-тега
		// переносится как есть, без рекурсии и нормализации.
		if len(el.Children) != 1 {
			return nil, fmt.Errorf("macro tag <%s> at %s has %d children, want exactly 1",
				el.Tag, el.Span, len(el.Children))
		}
		text, ok := el.Children[0].(ast.Text)
		if !ok {
			return nil, fmt.Errorf("macro tag <%s> at %s has a non-text child %T",
				el.Tag, el.Span, el.Children[0])
		}
		return TagSegment{
			Tag:      el.Tag,
			Attrs:    attrs,
			Children: []Segment{StringSegment{Text: text.Raw}},
		}, nil
	}

	children := make([]Segment, 0, len(el.Children))
	for _, c := range el.Children {
		seg, err := b.build(c)
		if err != nil {
			return nil, err
		}
		if seg == nil {
			continue
		}
		children = append(children, seg)
	}
	return TagSegment{Tag: el.Tag, Attrs: attrs, Children: children}, nil
}
