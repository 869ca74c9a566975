// Package condition parses window-matching predicates such as
//
//	class_g = 'Firefox' && !focused
//	name *?= "youtube" || window_type = 'dock'
//
// A parsed Condition is opaque to its callers apart from the payload slot
// (SetData/Data) and Match, which evaluates it against window properties.
package condition

import (
	"fmt"
	"path"
	"regexp"
	"strconv"
	"strings"
)

// Op is a comparison operator.
type Op int

const (
	OpExists Op = iota
	OpEq
	OpContains  // *=
	OpPrefix    // ^=
	OpSuffix    // $=
	OpWildcard  // %=
	OpRegex     // ~=
	OpGreater   // >
	OpGreaterEq // >=
	OpLess      // <
	OpLessEq    // <=
)

var opSymbols = map[Op]string{
	OpEq: "=", OpContains: "*=", OpPrefix: "^=", OpSuffix: "$=", OpWildcard: "%=",
	OpRegex: "~=", OpGreater: ">", OpGreaterEq: ">=", OpLess: "<", OpLessEq: "<=",
}

// Props is the property view of a window used by Match.
type Props map[string]string

// Condition is one compiled predicate.
type Condition struct {
	text string
	root expr
	data any
}

// Text returns the source text the condition was parsed from.
func (c *Condition) Text() string { return c.text }

// SetData attaches an opaque payload.
func (c *Condition) SetData(v any) { c.data = v }

// Data returns the attached payload.
func (c *Condition) Data() any { return c.data }

// IsTrue reports whether the condition matches every window.
func (c *Condition) IsTrue() bool {
	_, ok := c.root.(trueExpr)
	return ok
}

// Match evaluates the condition against a window.
func (c *Condition) Match(w Props) bool { return c.root.eval(w) }

// String renders the normalized form of the condition.
func (c *Condition) String() string { return c.root.String() }

// List is an ordered list of conditions.
type List struct {
	items []*Condition
}

// Len returns the number of conditions.
func (l *List) Len() int {
	if l == nil {
		return 0
	}
	return len(l.items)
}

// IsEmpty reports whether the list holds no conditions.
func (l *List) IsEmpty() bool { return l.Len() == 0 }

// All returns the conditions in insertion order.
func (l *List) All() []*Condition {
	if l == nil {
		return nil
	}
	out := make([]*Condition, len(l.items))
	copy(out, l.items)
	return out
}

func (l *List) add(c *Condition) *Condition {
	l.items = append(l.items, c)
	return c
}

// PrefixFunc consumes a value prefix from the start of a condition string.
// It returns the parsed value and the remaining text.
type PrefixFunc func(text string) (value any, rest string, err error)

// NewTrue appends a condition that matches every window.
func NewTrue(list *List) *Condition {
	return list.add(&Condition{text: "", root: trueExpr{}})
}

// Parse compiles text and appends it to list. deprecated is true when the
// text uses obsolete syntax that is still accepted.
func Parse(list *List, text string) (c *Condition, deprecated bool, err error) {
	return ParseWithPrefix(list, text, nil)
}

// ParseWithPrefix is Parse with a leading value consumed by prefix. The
// value becomes the condition's payload.
func ParseWithPrefix(list *List, text string, prefix PrefixFunc) (*Condition, bool, error) {
	var value any
	rest := text
	if prefix != nil {
		v, r, err := prefix(text)
		if err != nil {
			return nil, false, err
		}
		value, rest = v, r
	}

	p := &parser{src: rest}
	root, err := p.parse()
	if err != nil {
		return nil, false, fmt.Errorf("parsing condition %q: %w", text, err)
	}
	c := &Condition{text: text, root: root, data: value}
	return list.add(c), p.deprecated, nil
}

type expr interface {
	eval(w Props) bool
	String() string
}

type trueExpr struct{}

func (trueExpr) eval(Props) bool  { return true }
func (trueExpr) String() string { return "true" }

type notExpr struct{ inner expr }

func (e notExpr) eval(w Props) bool { return !e.inner.eval(w) }
func (e notExpr) String() string   { return "!(" + e.inner.String() + ")" }

type binExpr struct {
	and         bool
	left, right expr
}

func (e binExpr) eval(w Props) bool {
	if e.and {
		return e.left.eval(w) && e.right.eval(w)
	}
	return e.left.eval(w) || e.right.eval(w)
}

func (e binExpr) String() string {
	op := " || "
	if e.and {
		op = " && "
	}
	return "(" + e.left.String() + op + e.right.String() + ")"
}

type leafExpr struct {
	target   string
	index    int
	op       Op
	negate   bool
	foldCase bool
	str      string
	num      float64
	isNum    bool
	re       *regexp.Regexp
}

func (e leafExpr) key() string {
	if e.index >= 0 {
		return fmt.Sprintf("%s[%d]", e.target, e.index)
	}
	return e.target
}

func (e leafExpr) eval(w Props) bool {
	got, ok := w[e.key()]
	if !ok && e.index == 0 {
		got, ok = w[e.target]
	}
	if e.op == OpExists {
		if !ok {
			return e.negate
		}
		return (got != "" && got != "0" && got != "false") != e.negate
	}
	if !ok {
		return false
	}
	return e.compare(got) != e.negate
}

func (e leafExpr) compare(got string) bool {
	if e.isNum || e.op >= OpGreater {
		n, err := strconv.ParseFloat(got, 64)
		if err != nil {
			return false
		}
		switch e.op {
		case OpEq:
			return n == e.num
		case OpGreater:
			return n > e.num
		case OpGreaterEq:
			return n >= e.num
		case OpLess:
			return n < e.num
		case OpLessEq:
			return n <= e.num
		}
		return false
	}

	want := e.str
	if e.foldCase {
		got, want = strings.ToLower(got), strings.ToLower(want)
	}
	switch e.op {
	case OpEq:
		return got == want
	case OpContains:
		return strings.Contains(got, want)
	case OpPrefix:
		return strings.HasPrefix(got, want)
	case OpSuffix:
		return strings.HasSuffix(got, want)
	case OpWildcard:
		ok, _ := path.Match(want, got)
		return ok
	case OpRegex:
		return e.re.MatchString(got)
	}
	return false
}

func (e leafExpr) String() string {
	if e.op == OpExists {
		if e.negate {
			return "!" + e.key()
		}
		return e.key()
	}
	var b strings.Builder
	b.WriteString(e.key())
	b.WriteByte(' ')
	if e.negate {
		b.WriteByte('!')
	}
	sym := opSymbols[e.op]
	if e.foldCase {
		sym = sym[:len(sym)-1] + "?="
	}
	b.WriteString(sym)
	b.WriteByte(' ')
	if e.isNum {
		b.WriteString(strconv.FormatFloat(e.num, 'g', -1, 64))
	} else {
		b.WriteString(strconv.Quote(e.str))
	}
	return b.String()
}
