package expr

import (
	"fmt"
	"strings"
)

type tokKind uint8

const (
	tokIdent tokKind = iota
	tokNumber
	tokString
	tokPunct // , : . and brackets
	tokOp    // binary/unary operators
)

type tok struct {
	kind tokKind
	text string
}

// twoCharOps покрывает операторы из двух символов; одиночные проверяются
// отдельно. Порядок важен только для жадности сканера.
var twoCharOps = []string{"==", "!=", "<=", ">=", "&&", "||", ".."}

const singleOps = "+-*/%<>=!?"

// scan tokenizes an expression fragment. Комментарии и переводы строк
// считаются обычными пробелами: канонизация сама решает, где переносить.
func scan(src string) ([]tok, error) {
	var toks []tok
	i := 0
	for i < len(src) {
		ch := src[i]
		switch {
		case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r':
			i++

		case ch == '"':
			j := i + 1
			for j < len(src) {
				if src[j] == '\\' {
					j += 2
					continue
				}
				if src[j] == '"' {
					break
				}
				j++
			}
			if j >= len(src) {
				return nil, fmt.Errorf("unterminated string at offset %d", i)
			}
			toks = append(toks, tok{kind: tokString, text: src[i : j+1]})
			i = j + 1

		case isExprDigit(ch) || (ch == '.' && i+1 < len(src) && isExprDigit(src[i+1])):
			j := i
			for j < len(src) && (isExprDigit(src[j]) || src[j] == '.' || src[j] == '_' ||
				src[j] == 'e' || src[j] == 'E' ||
				((src[j] == '+' || src[j] == '-') && j > i && (src[j-1] == 'e' || src[j-1] == 'E'))) {
				if src[j] == '.' && j+1 < len(src) && src[j+1] == '.' {
					break // диапазон 1..5, точки не часть числа
				}
				j++
			}
			toks = append(toks, tok{kind: tokNumber, text: src[i:j]})
			i = j

		case isExprIdentStart(ch):
			j := i
			for j < len(src) && isExprIdentCont(src[j]) {
				j++
			}
			toks = append(toks, tok{kind: tokIdent, text: src[i:j]})
			i = j

		case strings.ContainsRune("()[]{},:.", rune(ch)):
			// '.' как член доступа; диапазон ".." уже пойман выше
			if ch == '.' && i+1 < len(src) && src[i+1] == '.' {
				toks = append(toks, tok{kind: tokOp, text: ".."})
				i += 2
				break
			}
			toks = append(toks, tok{kind: tokPunct, text: string(ch)})
			i++

		default:
			if i+1 < len(src) && contains(twoCharOps, src[i:i+2]) {
				toks = append(toks, tok{kind: tokOp, text: src[i : i+2]})
				i += 2
				break
			}
			if strings.IndexByte(singleOps, ch) >= 0 {
				toks = append(toks, tok{kind: tokOp, text: string(ch)})
				i++
				break
			}
			return nil, fmt.Errorf("unexpected character %q at offset %d", ch, i)
		}
	}
	return toks, nil
}

func contains(set []string, s string) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}

func isExprDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isExprIdentStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isExprIdentCont(ch byte) bool {
	return isExprIdentStart(ch) || isExprDigit(ch)
}
