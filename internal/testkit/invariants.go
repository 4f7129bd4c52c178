package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"weft/internal/ast"
	"weft/internal/source"
)

// CheckTreeInvariants runs a minimal set of structural invariants on a
// parsed node tree:
// 1) every span is non-empty, points at sf and stays within content bounds
// 2) child spans are fully contained in their parent element's span
// 3) macro elements carry exactly one verbatim Text child
func CheckTreeInvariants(nodes []ast.Node, sf *source.File) error {
	if sf == nil {
		return fmt.Errorf("nil file")
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	for _, n := range nodes {
		if err := checkNode(n, sf, lenContent); err != nil {
			return err
		}
	}
	return nil
}

func checkNode(n ast.Node, sf *source.File, lenContent uint32) error {
	sp := n.NodeSpan()
	if sp.End <= sp.Start {
		return fmt.Errorf("empty node span: %v", sp)
	}
	if sp.File != sf.ID {
		return fmt.Errorf("node span points to different file id: got=%d want=%d", sp.File, sf.ID)
	}
	if sp.End > lenContent {
		return fmt.Errorf("node span end beyond content: %d > %d", sp.End, lenContent)
	}

	el, ok := n.(ast.Element)
	if !ok {
		return nil
	}

	if el.IsMacro() {
		if len(el.Children) != 1 {
			return fmt.Errorf("macro element %q has %d children, want 1", el.Tag, len(el.Children))
		}
		if _, isText := el.Children[0].(ast.Text); !isText {
			return fmt.Errorf("macro element %q child is not a text run", el.Tag)
		}
	}

	for _, child := range el.Children {
		csp := child.NodeSpan()
		if csp.Start < sp.Start || csp.End > sp.End {
			return fmt.Errorf("child span %v is outside element span %v", csp, sp)
		}
		if err := checkNode(child, sf, lenContent); err != nil {
			return err
		}
	}
	for _, attr := range el.Attrs {
		asp := attr.Span
		if asp.End <= asp.Start {
			return fmt.Errorf("empty attribute span for %q", attr.Name)
		}
		if asp.Start < sp.Start || asp.End > sp.End {
			return fmt.Errorf("attribute span %v is outside element span %v", asp, sp)
		}
	}
	return nil
}
