package format

import (
	"strings"
)

// pad returns depth indentation units. Negative depths clamp to zero: macro
// child offsets may push the computed depth below the left margin.
func (o Options) pad(depth int) string {
	if depth <= 0 {
		return ""
	}
	return strings.Repeat(" ", depth*o.IndentWidth)
}

// indent reindents a multi-line string to the target depth: the prefix is
// prepended and repeated after every interior newline so wrapped attributes
// stay aligned under their tag.
func (o Options) indent(text string, depth int) string {
	prefix := o.pad(depth)
	if prefix == "" {
		return text
	}
	return prefix + strings.ReplaceAll(text, "\n", "\n"+prefix)
}
