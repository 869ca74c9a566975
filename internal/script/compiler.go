package script

import (
	"fmt"
	"strconv"
	"strings"

	"cuelang.org/go/cue"
	"github.com/d5/tengo/v2"
	"github.com/rs/zerolog"

	"github.com/roach88/winrule/internal/ir"
	"github.com/roach88/winrule/internal/logging"
)

// ContextVariables are the names every script may read. They are supplied
// at evaluation time.
var ContextVariables = []string{
	"window-x",
	"window-y",
	"window-width",
	"window-height",
	"window-x-before",
	"window-y-before",
	"window-width-before",
	"window-height-before",
	"window-raw-opacity",
	"window-raw-opacity-before",
	"window-monitor-x",
	"window-monitor-y",
	"window-monitor-width",
	"window-monitor-height",
	"elapsed",
}

const (
	elapsedVar    = "__elapsed"
	transitionFn  = "__transition"
	contextPrefix = "c"
	slotPrefix    = "v"
)

var transitionKeys = []string{"start", "end", "duration", "delay", "curve"}

// Compiler turns a Source into a compiled ir.Script.
type Compiler struct {
	log zerolog.Logger
}

// NewCompiler returns a script compiler.
func NewCompiler() *Compiler {
	return &Compiler{log: logging.GetLogger("script")}
}

// node is one field after parsing.
type node struct {
	name string
	slot int
	// exactly one of expr or trans is set
	expr  *expression
	trans *transition
}

type transition struct {
	curve                       int
	start, end, duration, delay expression
}

func (n *node) refs() []string {
	if n.expr != nil {
		return n.expr.refs()
	}
	var out []string
	for _, e := range []expression{n.trans.start, n.trans.end, n.trans.duration, n.trans.delay} {
		for _, r := range e.refs() {
			if !contains(out, r) {
				out = append(out, r)
			}
		}
	}
	return out
}

// Compile parses, orders and compiles every field of src.
func (c *Compiler) Compile(src Source) (*ir.Script, error) {
	if len(src.Fields) == 0 {
		return nil, fmt.Errorf("animation script has no fields")
	}

	var curves []Curve
	nodes := make([]*node, len(src.Fields))
	bySlot := make(map[string]int, len(src.Fields))
	for i, f := range src.Fields {
		if contains(ContextVariables, f.Name) {
			return nil, fmt.Errorf("field %q shadows a context variable", f.Name)
		}
		n, err := parseField(f, i, &curves)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Name, err)
		}
		nodes[i] = n
		bySlot[f.Name] = i
	}

	for _, n := range nodes {
		for _, ref := range n.refs() {
			if _, ok := bySlot[ref]; !ok && !contains(ContextVariables, ref) {
				return nil, fmt.Errorf("field %q: undefined name %q", n.name, ref)
			}
		}
	}

	order, err := orderNodes(nodes, bySlot)
	if err != nil {
		return nil, err
	}

	rename := func(name string) string {
		if slot, ok := bySlot[name]; ok {
			return slotPrefix + strconv.Itoa(slot)
		}
		if name == "elapsed" {
			return elapsedVar
		}
		for i, cv := range ContextVariables {
			if cv == name {
				return contextPrefix + strconv.Itoa(i)
			}
		}
		return name
	}

	var b strings.Builder
	for _, n := range order {
		fmt.Fprintf(&b, "%s%d := ", slotPrefix, n.slot)
		if n.expr != nil {
			fmt.Fprintf(&b, "float(%s)\n", n.expr.render(rename))
			continue
		}
		t := n.trans
		fmt.Fprintf(&b, "%s(%d, %s, %s, %s, %s, %s)\n", transitionFn, t.curve,
			t.start.render(rename), t.end.render(rename),
			t.duration.render(rename), t.delay.render(rename), elapsedVar)
	}

	prog := &program{slots: len(nodes), curves: curves}
	ts := tengo.NewScript([]byte(b.String()))
	for i := range ContextVariables {
		if err := ts.Add(contextPrefix+strconv.Itoa(i), 0.0); err != nil {
			return nil, fmt.Errorf("declaring %s: %w", ContextVariables[i], err)
		}
	}
	if err := ts.Add(elapsedVar, 0.0); err != nil {
		return nil, fmt.Errorf("declaring %s: %w", elapsedVar, err)
	}
	if err := ts.Add(transitionFn, &tengo.UserFunction{Name: "transition", Value: prog.transition}); err != nil {
		return nil, fmt.Errorf("declaring transition: %w", err)
	}

	compiled, err := ts.Compile()
	if err != nil {
		return nil, fmt.Errorf("compiling animation script: %w", err)
	}
	prog.compiled = compiled

	s := ir.NewScript(prog)
	s.Line = src.Line
	for o, name := range ir.OutputNames() {
		if slot, ok := bySlot[name]; ok {
			s.OutputSlots[o] = slot
		}
	}

	c.log.Debug().
		Int("line", src.Line).
		Int("slots", prog.slots).
		Msg("compiled animation script")
	return s, nil
}

func parseField(f Field, slot int, curves *[]Curve) (*node, error) {
	n := &node{name: f.Name, slot: slot}
	if f.Value.Kind() == cue.StructKind {
		t, err := parseTransition(f.Value, curves)
		if err != nil {
			return nil, err
		}
		n.trans = t
		return n, nil
	}
	e, err := parseOperand(f.Value)
	if err != nil {
		return nil, err
	}
	n.expr = &e
	return n, nil
}

// parseOperand accepts a number or an expression string.
func parseOperand(v cue.Value) (expression, error) {
	switch v.Kind() {
	case cue.IntKind, cue.FloatKind, cue.NumberKind:
		f, err := v.Float64()
		if err != nil {
			return expression{}, err
		}
		return expression{tokens: []token{{tokNumber, formatFloat(f)}}}, nil
	case cue.StringKind:
		s, _ := v.String()
		return parseExpression(s)
	}
	return expression{}, fmt.Errorf("expected a number or an expression, got %s", v.Kind())
}

func parseTransition(v cue.Value, curves *[]Curve) (*transition, error) {
	iter, err := v.Fields()
	if err != nil {
		return nil, err
	}
	for iter.Next() {
		if !contains(transitionKeys, iter.Label()) {
			return nil, fmt.Errorf("unknown transition key %q", iter.Label())
		}
	}

	t := &transition{}
	for _, k := range []struct {
		name     string
		dst      *expression
		required bool
	}{
		{"start", &t.start, true},
		{"end", &t.end, true},
		{"duration", &t.duration, true},
		{"delay", &t.delay, false},
	} {
		fv := v.LookupPath(cue.MakePath(cue.Str(k.name)))
		if !fv.Exists() {
			if k.required {
				return nil, fmt.Errorf("transition is missing %q", k.name)
			}
			*k.dst = expression{tokens: []token{{tokNumber, "0.0"}}}
			continue
		}
		e, err := parseOperand(fv)
		if err != nil {
			return nil, fmt.Errorf("transition %s: %w", k.name, err)
		}
		*k.dst = e
	}

	curve := Curve(linearCurve{})
	if cv := v.LookupPath(cue.MakePath(cue.Str("curve"))); cv.Exists() {
		s, err := cv.String()
		if err != nil {
			return nil, fmt.Errorf("transition curve must be a string")
		}
		if curve, err = ParseCurve(s); err != nil {
			return nil, err
		}
	}
	t.curve = len(*curves)
	*curves = append(*curves, curve)
	return t, nil
}

// orderNodes sorts fields so every field follows the fields it reads.
// A dependency cycle is an error naming the cycle.
func orderNodes(nodes []*node, bySlot map[string]int) ([]*node, error) {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make([]int, len(nodes))
	order := make([]*node, 0, len(nodes))
	var stack []string

	var visit func(n *node) error
	visit = func(n *node) error {
		switch state[n.slot] {
		case done:
			return nil
		case visiting:
			start := 0
			for i, name := range stack {
				if name == n.name {
					start = i
				}
			}
			path := append(append([]string{}, stack[start:]...), n.name)
			return fmt.Errorf("dependency cycle: %s", strings.Join(path, " → "))
		}
		state[n.slot] = visiting
		stack = append(stack, n.name)
		for _, ref := range n.refs() {
			if slot, ok := bySlot[ref]; ok {
				if err := visit(nodes[slot]); err != nil {
					return err
				}
			}
		}
		stack = stack[:len(stack)-1]
		state[n.slot] = done
		order = append(order, n)
		return nil
	}

	for _, n := range nodes {
		if err := visit(n); err != nil {
			return nil, err
		}
	}
	return order, nil
}

// program is a compiled script. It implements ir.Program.
type program struct {
	slots    int
	curves   []Curve
	compiled *tengo.Compiled
}

func (p *program) Slots() int { return p.slots }

// Eval runs the script on a private copy of the compiled state.
func (p *program) Eval(vars map[string]float64, elapsed float64) ([]float64, error) {
	run := p.compiled.Clone()
	for i, name := range ContextVariables {
		if err := run.Set(contextPrefix+strconv.Itoa(i), vars[name]); err != nil {
			return nil, err
		}
	}
	if err := run.Set(elapsedVar, elapsed); err != nil {
		return nil, err
	}
	if err := run.Run(); err != nil {
		return nil, fmt.Errorf("evaluating animation script: %w", err)
	}
	out := make([]float64, p.slots)
	for i := range out {
		out[i] = run.Get(slotPrefix + strconv.Itoa(i)).Float()
	}
	return out, nil
}

func (p *program) transition(args ...tengo.Object) (tengo.Object, error) {
	if len(args) != 6 {
		return nil, tengo.ErrWrongNumArguments
	}
	var f [6]float64
	for i, a := range args {
		v, ok := tengo.ToFloat64(a)
		if !ok {
			return nil, tengo.ErrInvalidArgumentType{Name: "transition", Expected: "float", Found: a.TypeName()}
		}
		f[i] = v
	}
	idx := int(f[0])
	if idx < 0 || idx >= len(p.curves) {
		return nil, fmt.Errorf("transition: no curve %d", idx)
	}
	start, end, duration, delay, elapsed := f[1], f[2], f[3], f[4], f[5]
	return &tengo.Float{Value: start + (end-start)*progress(p.curves[idx], elapsed, duration, delay)}, nil
}
