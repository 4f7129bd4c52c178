package format

import (
	"bytes"

	"weft/internal/ast"
	"weft/internal/diag"
	"weft/internal/lexer"
	"weft/internal/parser"
	"weft/internal/source"
)

// CheckRoundTrip formats the file, re-parses the output, formats it again,
// and verifies the two renderings are byte-identical. Formatting is expected
// to be idempotent; a mismatch here is a formatter bug, not a user error.
func CheckRoundTrip(sf *source.File, canon Canonicalizer, opts Options, maxDiag int) (ok bool, msg string) {
	origBag := diag.NewBag(maxDiag)
	origNodes := parseOnce(sf, origBag)
	if origBag.HasErrors() {
		return false, "fmt-check: initial parse has errors"
	}

	first, err := FormatFile(origNodes, canon, opts)
	if err != nil {
		return false, "fmt-check: formatter failed: " + err.Error()
	}

	fs2 := source.NewFileSet()
	reparsed := fs2.Get(fs2.AddVirtual(sf.Path, first))
	newBag := diag.NewBag(maxDiag)
	newNodes := parseOnce(reparsed, newBag)
	if newBag.HasErrors() {
		return false, "fmt-check: reparse failed"
	}

	second, err := FormatFile(newNodes, canon, opts)
	if err != nil {
		return false, "fmt-check: second format failed: " + err.Error()
	}

	if !bytes.Equal(first, second) {
		return false, "fmt-check: output is not idempotent"
	}
	return true, "fmt-check: OK"
}

func parseOnce(sf *source.File, bag *diag.Bag) []ast.Node {
	lx := lexer.New(sf, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
	res := parser.ParseFile(lx, parser.Options{Reporter: diag.BagReporter{Bag: bag}, MaxErrors: uint(bag.Cap())})
	return res.Nodes
}
