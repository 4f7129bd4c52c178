package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"weft/internal/diag"
	"weft/internal/source"
)

var (
	errColor  = color.New(color.FgRed, color.Bold)
	warnColor = color.New(color.FgYellow, color.Bold)
	infoColor = color.New(color.FgCyan)
	noteColor = color.New(color.FgHiBlack)
)

// Pretty форматирует диагностики в человекочитаемый вид:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем, при Context > 0, строку исходника с подчёркиванием по span.
// Ожидается bag.Sort() заранее для детерминированного порядка.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	for _, d := range bag.Items() {
		writeHeader(w, d, fs, opts)
		if opts.Context > 0 {
			writeContext(w, d.Primary, fs)
		}
		for _, n := range d.Notes {
			path, pos := resolve(fs, n.Span)
			fmt.Fprintf(w, "  %s %s:%d:%d: %s\n", label(noteColor, "note", opts.Color), path, pos.Line, pos.Col, n.Msg)
		}
	}
}

func writeHeader(w io.Writer, d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) {
	path, pos := resolve(fs, d.Primary)
	sev := severityLabel(d.Severity, opts.Color)
	fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n", path, pos.Line, pos.Col, sev, d.Code, d.Message)
}

func writeContext(w io.Writer, sp source.Span, fs *source.FileSet) {
	if fs == nil || int(sp.File) >= fs.Len() {
		return
	}
	f := fs.Get(sp.File)
	start, _ := fs.Resolve(sp)
	line := lineContent(f, start.Line)
	if line == "" {
		return
	}
	fmt.Fprintf(w, "  %s\n", line)
	caretCol := int(start.Col)
	width := int(sp.Len())
	if width < 1 {
		width = 1
	}
	if caretCol+width-1 > len(line) {
		width = len(line) - caretCol + 1
	}
	if width < 1 {
		width = 1
	}
	fmt.Fprintf(w, "  %s%s\n", strings.Repeat(" ", caretCol-1), strings.Repeat("^", width))
}

func lineContent(f *source.File, line uint32) string {
	start := 0
	if line > 1 {
		if int(line-2) >= len(f.LineIdx) {
			return ""
		}
		start = int(f.LineIdx[line-2]) + 1
	}
	end := len(f.Content)
	if int(line-1) < len(f.LineIdx) {
		end = int(f.LineIdx[line-1])
	}
	if start > end {
		return ""
	}
	return string(f.Content[start:end])
}

func resolve(fs *source.FileSet, sp source.Span) (string, source.LineCol) {
	if fs == nil || int(sp.File) >= fs.Len() {
		return "<unknown>", source.LineCol{Line: 1, Col: 1}
	}
	start, _ := fs.Resolve(sp)
	return fs.Get(sp.File).Path, start
}

func severityLabel(sev diag.Severity, colored bool) string {
	switch sev {
	case diag.SevError:
		return label(errColor, sev.String(), colored)
	case diag.SevWarning:
		return label(warnColor, sev.String(), colored)
	default:
		return label(infoColor, sev.String(), colored)
	}
}

func label(c *color.Color, s string, colored bool) string {
	if !colored {
		return s
	}
	return c.Sprint(s)
}
