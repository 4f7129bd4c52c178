// Package expr canonicalizes embedded-expression fragments found in weft
// interpolations and attribute values. The formatter core treats this
// package as a black box behind the format.Canonicalizer interface.
package expr

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

// indentUnit is the indentation step for wrapped bracket groups.
const indentUnit = "  "

type Options struct {
	// MaxWidth is the display width above which a single bracketed group is
	// broken one element per line. Zero means the default of 80.
	MaxWidth int
}

func (o Options) withDefaults() Options {
	if o.MaxWidth == 0 {
		o.MaxWidth = 80
	}
	return o
}

// Formatter canonicalizes expression fragments. The zero value is not
// usable; construct it with New.
type Formatter struct {
	opts Options
}

func New(opts Options) *Formatter {
	return &Formatter{opts: opts.withDefaults()}
}

// Canonicalize reprints src with canonical spacing. A fragment that is a
// single bracketed group and does not fit in MaxWidth columns is broken one
// comma-element per line; the first and last characters of a wrapped result
// are still the brackets themselves.
func (f *Formatter) Canonicalize(src string) (string, error) {
	toks, err := scan(src)
	if err != nil {
		return "", err
	}
	if err := checkBalance(toks); err != nil {
		return "", err
	}
	if len(toks) == 0 {
		return "", nil
	}

	line := printLine(toks)
	if runewidth.StringWidth(line) <= f.opts.MaxWidth {
		return line, nil
	}
	if wrapped, ok := wrapGroup(toks); ok {
		return wrapped, nil
	}
	return line, nil
}

// Canonicalize is the package-level entry with default options.
func Canonicalize(src string) (string, error) {
	return New(Options{}).Canonicalize(src)
}

// printLine emits tokens on one line with canonical spacing.
func printLine(toks []tok) string {
	var b strings.Builder
	prevUnary := false
	for i := range toks {
		cur := toks[i]
		var prev *tok
		if i > 0 {
			prev = &toks[i-1]
		}
		if prev != nil && !prevUnary && needSpace(*prev, cur) {
			b.WriteByte(' ')
		}
		b.WriteString(cur.text)
		prevUnary = isUnaryOp(cur, prev)
	}
	return b.String()
}

// isUnaryOp reports whether cur acts as a unary operator given the token
// before it (nil at the start of the fragment).
func isUnaryOp(cur tok, prev *tok) bool {
	if cur.kind != tokOp {
		return false
	}
	if cur.text != "+" && cur.text != "-" && cur.text != "!" {
		return false
	}
	if prev == nil {
		return true
	}
	switch {
	case isOpen(prev.text):
		return true
	case prev.text == "," || prev.text == ":":
		return true
	case prev.kind == tokOp:
		return true
	}
	return false
}

func needSpace(prev, cur tok) bool {
	switch {
	case cur.text == "," || cur.text == ":":
		return false
	case prev.text == "." || cur.text == ".":
		return false
	case prev.text == ".." || cur.text == "..":
		return false
	case isClose(cur.text):
		return false
	case isOpen(prev.text):
		return false
	case isOpen(cur.text):
		// вызов/индексация пишутся вплотную: foo(...), xs[0], f(x)[1]
		if cur.text != "{" {
			switch prev.kind {
			case tokIdent, tokNumber, tokString:
				return false
			}
			if isClose(prev.text) {
				return false
			}
		}
		return true
	}
	return true
}

// wrapGroup breaks a fragment that is exactly one bracketed group into one
// element per line. Returns false when the fragment has a different shape.
func wrapGroup(toks []tok) (string, bool) {
	if len(toks) < 2 {
		return "", false
	}
	open := toks[0].text
	if !isOpen(open) || toks[len(toks)-1].text != matching(open) {
		return "", false
	}
	// первый bracket должен закрываться именно последним токеном
	depth := 0
	for i, t := range toks {
		if isOpen(t.text) {
			depth++
		} else if isClose(t.text) {
			depth--
			if depth == 0 && i != len(toks)-1 {
				return "", false
			}
		}
	}

	inner := toks[1 : len(toks)-1]
	var elems [][]tok
	start := 0
	depth = 0
	for i, t := range inner {
		switch {
		case isOpen(t.text):
			depth++
		case isClose(t.text):
			depth--
		case t.text == "," && depth == 0:
			elems = append(elems, inner[start:i])
			start = i + 1
		}
	}
	if start < len(inner) {
		elems = append(elems, inner[start:])
	}
	if len(elems) == 0 {
		return "", false
	}

	var b strings.Builder
	b.WriteString(open)
	b.WriteByte('\n')
	for i, el := range elems {
		b.WriteString(indentUnit)
		b.WriteString(printLine(el))
		if i < len(elems)-1 {
			b.WriteByte(',')
		}
		b.WriteByte('\n')
	}
	b.WriteString(matching(open))
	return b.String(), true
}

func checkBalance(toks []tok) error {
	var stack []string
	for _, t := range toks {
		if isOpen(t.text) {
			stack = append(stack, t.text)
			continue
		}
		if isClose(t.text) {
			if len(stack) == 0 {
				return fmt.Errorf("unbalanced %q", t.text)
			}
			top := stack[len(stack)-1]
			if matching(top) != t.text {
				return fmt.Errorf("mismatched %q closed by %q", top, t.text)
			}
			stack = stack[:len(stack)-1]
		}
	}
	if len(stack) > 0 {
		return fmt.Errorf("unclosed %q", stack[len(stack)-1])
	}
	return nil
}

func isOpen(s string) bool {
	return s == "(" || s == "[" || s == "{"
}

func isClose(s string) bool {
	return s == ")" || s == "]" || s == "}"
}

func matching(open string) string {
	switch open {
	case "(":
		return ")"
	case "[":
		return "]"
	case "{":
		return "}"
	}
	return ""
}
