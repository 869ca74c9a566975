package condition

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// typeQualifier matches the obsolete ":<format><type>" suffix on targets,
// e.g. "_NET_WM_STATE:32a".
var typeQualifier = regexp.MustCompile(`^:[0-9]*[a-z]`)

type parser struct {
	src        string
	pos        int
	deprecated bool
}

func (p *parser) errorf(format string, args ...any) error {
	return fmt.Errorf("at offset %d: %s", p.pos, fmt.Sprintf(format, args...))
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) && strings.ContainsRune(" \t\r\n", rune(p.src[p.pos])) {
		p.pos++
	}
}

func (p *parser) peek(s string) bool {
	return strings.HasPrefix(p.src[p.pos:], s)
}

func (p *parser) eof() bool { return p.pos >= len(p.src) }

func (p *parser) parse() (expr, error) {
	p.skipSpace()
	if p.eof() {
		return nil, errors.New("empty condition")
	}
	e, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if !p.eof() {
		return nil, p.errorf("unexpected %q", p.src[p.pos:])
	}
	return e, nil
}

func (p *parser) parseOr() (expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for {
		p.skipSpace()
		if !p.peek("||") {
			return left, nil
		}
		p.pos += 2
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = binExpr{and: false, left: left, right: right}
	}
}

func (p *parser) parseAnd() (expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		p.skipSpace()
		if !p.peek("&&") {
			return left, nil
		}
		p.pos += 2
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = binExpr{and: true, left: left, right: right}
	}
}

func (p *parser) parseUnary() (expr, error) {
	p.skipSpace()
	switch {
	case p.eof():
		return nil, p.errorf("unexpected end of condition")
	case p.peek("!"):
		p.pos++
		inner, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return notExpr{inner: inner}, nil
	case p.peek("("):
		p.pos++
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		p.skipSpace()
		if !p.peek(")") {
			return nil, p.errorf("missing closing parenthesis")
		}
		p.pos++
		return inner, nil
	}
	return p.parseLeaf()
}

func isTargetStart(c byte) bool {
	return c == '_' || c == '@' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isTargetChar(c byte) bool {
	return isTargetStart(c) || c == '-' || c == '.' || (c >= '0' && c <= '9')
}

func (p *parser) parseLeaf() (expr, error) {
	if !isTargetStart(p.src[p.pos]) {
		return nil, p.errorf("expected a target, got %q", p.src[p.pos:])
	}
	start := p.pos
	for !p.eof() && isTargetChar(p.src[p.pos]) {
		p.pos++
	}
	leaf := leafExpr{target: strings.TrimPrefix(p.src[start:p.pos], "@"), index: -1}

	if p.peek("[") {
		end := strings.IndexByte(p.src[p.pos:], ']')
		if end < 0 {
			return nil, p.errorf("missing closing bracket")
		}
		idx, err := strconv.Atoi(strings.TrimSpace(p.src[p.pos+1 : p.pos+end]))
		if err != nil || idx < 0 {
			return nil, p.errorf("invalid index %q", p.src[p.pos+1:p.pos+end])
		}
		leaf.index = idx
		p.pos += end + 1
	}

	if m := typeQualifier.FindString(p.src[p.pos:]); m != "" {
		p.deprecated = true
		p.pos += len(m)
	}

	p.skipSpace()
	if !p.parseOp(&leaf) {
		return leaf, nil
	}

	p.skipSpace()
	if err := p.parseValue(&leaf); err != nil {
		return nil, err
	}
	if leaf.op == OpRegex {
		pattern := leaf.str
		if leaf.foldCase {
			pattern = "(?i)" + pattern
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, p.errorf("invalid regular expression %q: %v", leaf.str, err)
		}
		leaf.re = re
	}
	if leaf.op >= OpGreater && !leaf.isNum {
		return nil, p.errorf("operator %s needs a number", opSymbols[leaf.op])
	}
	return leaf, nil
}

// parseOp consumes an operator, returning false when the leaf is a bare
// existence test.
func (p *parser) parseOp(leaf *leafExpr) bool {
	save := p.pos
	if p.peek("!") {
		leaf.negate = true
		p.pos++
	}
	for _, op := range []Op{OpGreaterEq, OpLessEq, OpGreater, OpLess} {
		if p.peek(opSymbols[op]) {
			leaf.op = op
			p.pos += len(opSymbols[op])
			return true
		}
	}

	op := OpEq
	if !p.eof() {
		switch p.src[p.pos] {
		case '*':
			op = OpContains
		case '^':
			op = OpPrefix
		case '$':
			op = OpSuffix
		case '%':
			op = OpWildcard
		case '~':
			op = OpRegex
		}
		if op != OpEq {
			p.pos++
		}
	}
	if p.peek("?") {
		leaf.foldCase = true
		p.pos++
	}
	if !p.peek("=") {
		p.pos = save
		leaf.negate, leaf.foldCase = false, false
		return false
	}
	p.pos++
	leaf.op = op
	return true
}

func (p *parser) parseValue(leaf *leafExpr) error {
	if p.eof() {
		return p.errorf("missing value")
	}
	switch q := p.src[p.pos]; q {
	case '\'', '"':
		var b strings.Builder
		p.pos++
		for !p.eof() && p.src[p.pos] != q {
			c := p.src[p.pos]
			if c == '\\' && p.pos+1 < len(p.src) {
				p.pos++
				c = p.src[p.pos]
			}
			b.WriteByte(c)
			p.pos++
		}
		if p.eof() {
			return p.errorf("unterminated string")
		}
		p.pos++
		leaf.str = b.String()
		return nil
	}

	start := p.pos
	for !p.eof() && strings.IndexByte("+-.0123456789eExX", p.src[p.pos]) >= 0 {
		p.pos++
	}
	lit := p.src[start:p.pos]
	if lit == "" {
		return p.errorf("expected a string or number")
	}
	n, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		i, ierr := strconv.ParseInt(lit, 0, 64)
		if ierr != nil {
			return p.errorf("invalid number %q", lit)
		}
		n = float64(i)
	}
	leaf.num, leaf.isNum = n, true
	return nil
}
