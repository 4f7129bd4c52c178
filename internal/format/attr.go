package format

import (
	"fmt"
	"strings"

	"weft/internal/ast"
)

// renderAttr converts one raw attribute into its canonical textual form.
func (b *builder) renderAttr(a ast.Attr) (string, error) {
	switch a.Kind {
	case ast.AttrString:
		return a.Name + `="` + strings.TrimSpace(a.Value) + `"`, nil

	case ast.AttrBool:
		if a.Bool {
			// голое имя — сокращение для true
			return a.Name, nil
		}
		return a.Name + "=false", nil

	case ast.AttrNumber:
		return a.Name + "=" + a.Value, nil

	case ast.AttrExpr:
		// Оборачиваем в список, чтобы сахар `foo: "bar"` разбирался как
		// самостоятельный фрагмент, затем срезаем синтетические скобки.
		canonical, err := b.canon.Canonicalize("[" + a.Value + "]")
		if err != nil {
			return "", err
		}
		if len(canonical) < 2 {
			return "", fmt.Errorf("canonicalizer returned %q for a bracketed fragment", canonical)
		}
		inner := canonical[1 : len(canonical)-1]
		if strings.Contains(inner, "\n") {
			// Без пробельной прокладки: она сбила бы выравнивание
			// многострочного содержимого.
			return a.Name + "={{" + inner + "}}", nil
		}
		return a.Name + "={{ " + inner + " }}", nil

	default:
		return "", fmt.Errorf("unknown attribute kind %v", a.Kind)
	}
}
