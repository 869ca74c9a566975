package script

import (
	"testing"

	"cuelang.org/go/cue/cuecontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/winrule/internal/ir"
)

func mustSource(t *testing.T, text string, skip ...string) Source {
	t.Helper()
	v := cuecontext.New().CompileString(text)
	require.NoError(t, v.Err())
	src, err := SourceFromValue(v, skip...)
	require.NoError(t, err)
	return src
}

func evalAt(t *testing.T, s *ir.Script, vars map[string]float64, elapsed float64) []float64 {
	t.Helper()
	out, err := s.Program.Eval(vars, elapsed)
	require.NoError(t, err)
	return out
}

func TestCompileExpressionsInDependencyOrder(t *testing.T) {
	src := mustSource(t, `
		"shadow-opacity": "opacity"
		opacity: "half * 2 - 0.5"
		half: "window-raw-opacity / 2"
		"offset-y": 3
	`)

	s, err := NewCompiler().Compile(src)
	require.NoError(t, err)
	assert.Equal(t, 4, s.Program.Slots())

	out := evalAt(t, s, map[string]float64{"window-raw-opacity": 0.8}, 0)
	assert.InDelta(t, 0.3, out[0], 1e-9)
	assert.InDelta(t, 0.3, out[1], 1e-9)
	assert.InDelta(t, 0.4, out[2], 1e-9)
	assert.InDelta(t, 3.0, out[3], 1e-9)

	assert.Equal(t, 1, s.OutputSlots[ir.OutputOpacity])
	assert.Equal(t, 0, s.OutputSlots[ir.OutputShadowOpacity])
	assert.Equal(t, 3, s.OutputSlots[ir.OutputOffsetY])
	assert.Equal(t, ir.SlotUnused, s.OutputSlots[ir.OutputScaleX])
	assert.False(t, s.Uses(ir.OutputBlurOpacity))
}

func TestCompileTransition(t *testing.T) {
	src := mustSource(t, `
		opacity: {start: 0, end: "window-raw-opacity", duration: 2, delay: 1}
		stepped: {start: 0, end: 10, duration: 1, curve: "steps(2)"}
	`)
	s, err := NewCompiler().Compile(src)
	require.NoError(t, err)

	vars := map[string]float64{"window-raw-opacity": 1}
	assert.InDelta(t, 0.0, evalAt(t, s, vars, 0.5)[0], 1e-9)
	assert.InDelta(t, 0.5, evalAt(t, s, vars, 2)[0], 1e-9)
	assert.InDelta(t, 1.0, evalAt(t, s, vars, 10)[0], 1e-9)

	assert.InDelta(t, 0.0, evalAt(t, s, vars, 0.2)[1], 1e-9)
	assert.InDelta(t, 5.0, evalAt(t, s, vars, 0.7)[1], 1e-9)
	assert.InDelta(t, 10.0, evalAt(t, s, vars, 1)[1], 1e-9)
}

func TestElapsedIsReadable(t *testing.T) {
	s, err := NewCompiler().Compile(mustSource(t, `"crop-x": "elapsed * 10"`))
	require.NoError(t, err)
	assert.InDelta(t, 2.5, evalAt(t, s, nil, 0.25)[0], 1e-9)
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		msg  string
	}{
		{"undefined", `opacity: "nope + 1"`, `undefined name "nope"`},
		{"cycle", `a: "b"
b: "a"`, "dependency cycle"},
		{"self reference", `opacity: "opacity"`, "dependency cycle"},
		{"shadow", `"window-x": 1`, "shadows a context variable"},
		{"bool", `opacity: true`, "expected a number or an expression"},
		{"dangling operator", `opacity: "1 +"`, "ends with an operator"},
		{"bad char", `opacity: "1 % 2"`, "unexpected character"},
		{"unbalanced", `opacity: "(1 + 2"`, "unbalanced parentheses"},
		{"missing end", `opacity: {start: 0, duration: 1}`, `missing "end"`},
		{"unknown key", `opacity: {start: 0, end: 1, duration: 1, speed: 2}`, `unknown transition key "speed"`},
		{"bad curve", `opacity: {start: 0, end: 1, duration: 1, curve: "bouncy"}`, `unknown curve "bouncy"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCompiler().Compile(mustSource(t, tt.src))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}

	_, err := NewCompiler().Compile(Source{})
	assert.Error(t, err)
}

func TestSourceSkipsFields(t *testing.T) {
	src := mustSource(t, `
		triggers: ["open"]
		opacity: 1
		suppressions: "close"
		"scale-x": 2
	`, "triggers", "suppressions")
	assert.Equal(t, []string{"opacity", "scale-x"}, src.Names())

	_, ok := src.Lookup("scale-x")
	assert.True(t, ok)
	_, ok = src.Lookup("triggers")
	assert.False(t, ok)
}

func TestParseExpressionIdentifiers(t *testing.T) {
	e, err := parseExpression("window-width-2 - -offset-x*(3)")
	require.NoError(t, err)
	assert.Equal(t, []string{"window-width", "offset-x"}, e.refs())
	assert.Equal(t, "A - 2.0 - - B * ( 3.0 )", e.render(func(s string) string {
		return map[string]string{"window-width": "A", "offset-x": "B"}[s]
	}))
}

func TestParseCurve(t *testing.T) {
	for _, s := range []string{"linear", "ease", "ease-in", "ease-out", "ease-in-out", "cubic-bezier(0.1, 0.7, 1.0, 0.1)", "steps(4)"} {
		c, err := ParseCurve(s)
		require.NoError(t, err, s)
		assert.InDelta(t, 0.0, c.At(0), 1e-6, s)
		assert.InDelta(t, 1.0, c.At(1), 1e-6, s)
	}

	c, err := ParseCurve("ease-in-out")
	require.NoError(t, err)
	assert.InDelta(t, 0.5, c.At(0.5), 1e-3)

	for _, s := range []string{"bouncy", "steps(0)", "steps(1.5)", "cubic-bezier(2, 0, 0, 1)", "cubic-bezier(0, 0)", "steps(x)"} {
		_, err := ParseCurve(s)
		assert.Error(t, err, s)
	}
}

func TestPresets(t *testing.T) {
	p := NewPresets(NewCompiler())
	vars := map[string]float64{
		"window-raw-opacity": 1, "window-raw-opacity-before": 1,
		"window-height": 100, "window-width": 200,
	}

	for _, name := range PresetNames() {
		t.Run(name, func(t *testing.T) {
			s, err := p.Expand(mustSource(t, `preset: "`+name+`"`))
			require.NoError(t, err)
			assert.True(t, s.Uses(ir.OutputOpacity))
			assert.True(t, s.Uses(ir.OutputShadowOffsetY))
			_, err = s.Program.Eval(vars, 0.1)
			assert.NoError(t, err)
		})
	}

	s, err := p.Expand(mustSource(t, `preset: "appear", duration: 1, scale: 0.2`))
	require.NoError(t, err)
	out := evalAt(t, s, vars, 0.5)
	assert.InDelta(t, 0.5, out[s.OutputSlots[ir.OutputOpacity]], 1e-9)
	assert.InDelta(t, 1.0, evalAt(t, s, vars, 1)[s.OutputSlots[ir.OutputScaleX]], 1e-9)

	s, err = p.Expand(mustSource(t, `preset: "slide-in", direction: "up", duration: 1`))
	require.NoError(t, err)
	assert.InDelta(t, 100.0, evalAt(t, s, vars, 0)[s.OutputSlots[ir.OutputOffsetY]], 1e-9)
	assert.InDelta(t, 0.0, evalAt(t, s, vars, 1)[s.OutputSlots[ir.OutputOffsetY]], 1e-9)
}

func TestPresetErrors(t *testing.T) {
	p := NewPresets(NewCompiler())
	for _, text := range []string{
		`preset: "wobble"`,
		`preset: 3`,
		`preset: "appear", direction: "up"`,
		`preset: "slide-in", direction: "sideways"`,
		`preset: "appear", duration: -1`,
		`preset: "appear", opacity: 1`,
	} {
		_, err := p.Expand(mustSource(t, text))
		assert.Error(t, err, text)
	}
}

func TestUnknownPresetListsAvailable(t *testing.T) {
	p := NewPresets(NewCompiler())
	_, err := p.Expand(mustSource(t, `preset: "wobble"`))
	require.Error(t, err)
	assert.Equal(t,
		`unknown preset "wobble", expected one of appear, disappear, fly-in, fly-out, slide-in, slide-out`,
		err.Error())
}
