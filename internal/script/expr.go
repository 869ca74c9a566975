package script

import (
	"fmt"
	"strconv"
	"strings"
)

type tokenKind int

const (
	tokNumber tokenKind = iota
	tokIdent
	tokOp
	tokLParen
	tokRParen
)

type token struct {
	kind tokenKind
	text string
}

// expression is a validated arithmetic expression.
type expression struct {
	tokens []token
}

// refs returns the identifiers the expression mentions, in order of first use.
func (e expression) refs() []string {
	var out []string
	for _, t := range e.tokens {
		if t.kind == tokIdent && !contains(out, t.text) {
			out = append(out, t.text)
		}
	}
	return out
}

// render writes the expression with identifiers replaced by rename.
func (e expression) render(rename func(string) string) string {
	var b strings.Builder
	for i, t := range e.tokens {
		if i > 0 {
			b.WriteByte(' ')
		}
		switch t.kind {
		case tokIdent:
			b.WriteString(rename(t.text))
		default:
			b.WriteString(t.text)
		}
	}
	return b.String()
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// parseExpression tokenizes and checks src. Identifiers may contain '-'
// between name segments, so "window-width" is one name and "a - b" is a
// subtraction.
func parseExpression(src string) (expression, error) {
	var toks []token
	for i := 0; i < len(src); {
		c := src[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n':
			i++
		case isIdentStart(c):
			start := i
			for {
				for i < len(src) && (isIdentStart(src[i]) || isDigit(src[i])) {
					i++
				}
				if i+1 < len(src) && src[i] == '-' && isIdentStart(src[i+1]) {
					i++
					continue
				}
				break
			}
			toks = append(toks, token{tokIdent, src[start:i]})
		case isDigit(c) || c == '.':
			start := i
			for i < len(src) && (isDigit(src[i]) || src[i] == '.') {
				i++
			}
			if i < len(src) && (src[i] == 'e' || src[i] == 'E') {
				i++
				if i < len(src) && (src[i] == '+' || src[i] == '-') {
					i++
				}
				for i < len(src) && isDigit(src[i]) {
					i++
				}
			}
			f, err := strconv.ParseFloat(src[start:i], 64)
			if err != nil {
				return expression{}, fmt.Errorf("invalid number %q", src[start:i])
			}
			toks = append(toks, token{tokNumber, formatFloat(f)})
		case strings.IndexByte("+-*/", c) >= 0:
			toks = append(toks, token{tokOp, string(c)})
			i++
		case c == '(':
			toks = append(toks, token{tokLParen, "("})
			i++
		case c == ')':
			toks = append(toks, token{tokRParen, ")"})
			i++
		default:
			return expression{}, fmt.Errorf("unexpected character %q", c)
		}
	}
	if err := checkGrammar(toks); err != nil {
		return expression{}, err
	}
	return expression{tokens: toks}, nil
}

// checkGrammar verifies operands and binary operators alternate and that
// parentheses balance. '+' and '-' are also accepted as prefix operators.
func checkGrammar(toks []token) error {
	if len(toks) == 0 {
		return fmt.Errorf("empty expression")
	}
	depth := 0
	wantOperand := true
	for _, t := range toks {
		switch t.kind {
		case tokNumber, tokIdent:
			if !wantOperand {
				return fmt.Errorf("missing operator before %q", t.text)
			}
			wantOperand = false
		case tokLParen:
			if !wantOperand {
				return fmt.Errorf("missing operator before '('")
			}
			depth++
		case tokRParen:
			if wantOperand || depth == 0 {
				return fmt.Errorf("unexpected ')'")
			}
			depth--
		case tokOp:
			if wantOperand && t.text != "-" && t.text != "+" {
				return fmt.Errorf("missing operand before %q", t.text)
			}
			wantOperand = true
		}
	}
	if wantOperand {
		return fmt.Errorf("expression ends with an operator")
	}
	if depth != 0 {
		return fmt.Errorf("unbalanced parentheses")
	}
	return nil
}

// formatFloat renders f as a float literal so integer-looking constants do
// not switch the evaluator to integer arithmetic.
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
