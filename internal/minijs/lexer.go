// Package minijs is a small recursive-descent lexer and parser covering
// exactly the grammar slice internal/jsast models: calls, arrays, object
// literals, function expressions, var/return/if/block statements, member
// access, binary operators, assignment, identifiers, and string/number
// literals. Grounded in esbuild's internal/js_lexer token-kind scanning
// style and internal/js_parser's recursive-descent shape, scaled down to
// this grammar slice.
package minijs

import (
	"fmt"
	"strconv"
)

type tokenKind uint8

const (
	tEOF tokenKind = iota
	tIdent
	tString
	tNumber
	tPunct // any of ( ) [ ] { } , . ; = + - * / : !
)

type token struct {
	kind  tokenKind
	text  string
	start int32
}

// lex tokenizes the entire source up front; this grammar slice is small
// enough that a one-shot token slice is simpler than a streaming lexer.
func lex(src string) ([]token, error) {
	var toks []token
	i := 0
	n := len(src)
	for i < n {
		c := src[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c == '/' && i+1 < n && src[i+1] == '/':
			for i < n && src[i] != '\n' {
				i++
			}
		case c == '/' && i+1 < n && src[i+1] == '*':
			i += 2
			for i+1 < n && !(src[i] == '*' && src[i+1] == '/') {
				i++
			}
			i += 2
		case isIdentStart(c):
			start := i
			for i < n && isIdentPart(src[i]) {
				i++
			}
			toks = append(toks, token{kind: tIdent, text: src[start:i], start: int32(start)})
		case c == '"' || c == '\'':
			quote := c
			start := i
			i++
			var val []byte
			for i < n && src[i] != quote {
				if src[i] == '\\' && i+1 < n {
					switch src[i+1] {
					case 'n':
						val = append(val, '\n')
					case '"':
						val = append(val, '"')
					case '\'':
						val = append(val, '\'')
					case '\\':
						val = append(val, '\\')
					default:
						val = append(val, src[i+1])
					}
					i += 2
					continue
				}
				val = append(val, src[i])
				i++
			}
			if i >= n {
				return nil, fmt.Errorf("unterminated string literal at byte %d", start)
			}
			i++
			toks = append(toks, token{kind: tString, text: string(val), start: int32(start)})
		case isDigit(c):
			start := i
			for i < n && (isDigit(src[i]) || src[i] == '.') {
				i++
			}
			toks = append(toks, token{kind: tNumber, text: src[start:i], start: int32(start)})
		default:
			start := i
			i++
			toks = append(toks, token{kind: tPunct, text: src[start:i], start: int32(start)})
		}
	}
	toks = append(toks, token{kind: tEOF, start: int32(n)})
	return toks, nil
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func parseNumber(text string) (float64, error) {
	return strconv.ParseFloat(text, 64)
}
