package format

import (
	"strings"

	"weft/internal/ast"
)

// Format renders a top-level node list into canonically formatted template
// text. The result is the rendered form of every surviving node joined with
// newlines, with no trailing transformation. On error no output is produced.
func Format(nodes []ast.Node, canon Canonicalizer, opts Options) (string, error) {
	opts = opts.withDefaults()
	b := &builder{canon: canon, opts: opts}
	r := &renderer{opts: opts}

	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		seg, err := b.build(n)
		if err != nil {
			return "", err
		}
		if seg == nil {
			continue
		}
		if line, ok := r.render(seg, 0); ok {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n"), nil
}

// FormatFile is the file-level wrapper around Format: the result always ends
// with exactly one newline unless the document renders to nothing at all.
func FormatFile(nodes []ast.Node, canon Canonicalizer, opts Options) ([]byte, error) {
	text, err := Format(nodes, canon, opts)
	if err != nil {
		return nil, err
	}
	if text == "" {
		return []byte{}, nil
	}
	return []byte(text + "\n"), nil
}
