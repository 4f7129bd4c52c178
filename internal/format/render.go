package format

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"weft/internal/token"
)

type renderer struct {
	opts Options
}

// render turns a segment into final indented text. Rendering is a pure
// function of the segment tree and depth; false means no output line.
func (r *renderer) render(seg Segment, depth int) (string, bool) {
	switch t := seg.(type) {
	case StringSegment:
		if t.Text == "" {
			// маркер пустой строки
			return "", true
		}
		return r.opts.pad(depth) + t.Text, true

	case TagSegment:
		return r.renderTag(t, depth), true
	}
	return "", false
}

func (r *renderer) renderTag(t TagSegment, depth int) string {
	selfClosing := len(t.Children) == 0

	opening := "<" + t.Tag
	if len(t.Attrs) > 0 {
		opening += " " + strings.Join(t.Attrs, " ")
	}
	if selfClosing {
		opening += " /"
	}
	opening += ">"

	// Правило переноса: слишком широкий открывающий тег раскладывается по
	// атрибуту на строку, каждый на уровень глубже.
	if runewidth.StringWidth(opening) > r.opts.WrapThreshold {
		lines := make([]string, 0, len(t.Attrs)+2)
		lines = append(lines, "<"+t.Tag)
		for _, attr := range t.Attrs {
			lines = append(lines, r.opts.indent(attr, depth+1))
		}
		closeLine := r.opts.pad(depth)
		if selfClosing {
			closeLine += "/>"
		} else {
			closeLine += ">"
		}
		lines = append(lines, closeLine)
		opening = strings.Join(lines, "\n")
	}

	if selfClosing {
		return r.opts.pad(depth) + opening
	}

	childDepth := depth + 1
	if isMacroTag(t.Tag) {
		childDepth = depth + r.opts.MacroIndentOffset
	}
	rendered := make([]string, 0, len(t.Children))
	for _, child := range t.Children {
		if line, ok := r.render(child, childDepth); ok {
			rendered = append(rendered, line)
		}
	}

	return r.opts.pad(depth) + opening + "\n" +
		strings.Join(rendered, "\n") + "\n" +
		r.opts.pad(depth) + "</" + t.Tag + ">"
}

func isMacroTag(tag string) bool {
	return len(tag) > 0 && tag[0] == token.MacroSentinel
}
