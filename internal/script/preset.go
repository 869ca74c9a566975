package script

import (
	"fmt"
	"sort"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/roach88/winrule/internal/ir"
)

// PresetOptions are the knobs a preset definition may set.
type PresetOptions struct {
	Duration  float64
	Scale     float64
	Direction string
}

type preset struct {
	directional bool
	build       func(o PresetOptions) string
}

var presets = map[string]preset{
	"appear":    {build: appear},
	"disappear": {build: disappear},
	"slide-in":  {directional: true, build: slideIn},
	"slide-out": {directional: true, build: slideOut},
	"fly-in":    {directional: true, build: flyIn},
	"fly-out":   {directional: true, build: flyOut},
}

var presetKeys = []string{"preset", "duration", "scale", "direction"}

// PresetNames lists the available presets.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Presets expands a preset reference into a full definition and compiles it.
type Presets struct {
	ctx      *cue.Context
	compiler *Compiler
}

// NewPresets returns an expander that compiles with c.
func NewPresets(c *Compiler) *Presets {
	return &Presets{ctx: cuecontext.New(), compiler: c}
}

// Expand compiles the definition named by src's "preset" field.
func (p *Presets) Expand(src Source) (*ir.Script, error) {
	for _, f := range src.Fields {
		if !contains(presetKeys, f.Name) {
			return nil, fmt.Errorf("unknown preset option %q", f.Name)
		}
	}
	nv, _ := src.Lookup("preset")
	name, err := nv.String()
	if err != nil {
		return nil, fmt.Errorf("preset name must be a string")
	}
	pr, ok := presets[name]
	if !ok {
		return nil, fmt.Errorf("unknown preset %q, expected one of %s", name, strings.Join(PresetNames(), ", "))
	}

	opts := PresetOptions{Duration: 0.2, Scale: 0.5, Direction: "down"}
	if v, ok := src.Lookup("duration"); ok {
		if opts.Duration, err = v.Float64(); err != nil || opts.Duration < 0 {
			return nil, fmt.Errorf("preset %s: duration must be a non-negative number", name)
		}
	}
	if v, ok := src.Lookup("scale"); ok {
		if opts.Scale, err = v.Float64(); err != nil || opts.Scale < 0 {
			return nil, fmt.Errorf("preset %s: scale must be a non-negative number", name)
		}
	}
	if v, ok := src.Lookup("direction"); ok {
		if !pr.directional {
			return nil, fmt.Errorf("preset %s does not take a direction", name)
		}
		if opts.Direction, err = v.String(); err != nil {
			return nil, fmt.Errorf("preset %s: direction must be a string", name)
		}
		switch opts.Direction {
		case "up", "down", "left", "right":
		default:
			return nil, fmt.Errorf("preset %s: unknown direction %q", name, opts.Direction)
		}
	}

	text := pr.build(opts)
	v := p.ctx.CompileString(text)
	if err := v.Err(); err != nil {
		return nil, fmt.Errorf("expanding preset %s: %w", name, err)
	}
	expanded, err := SourceFromValue(v)
	if err != nil {
		return nil, err
	}
	expanded.Line = src.Line
	return p.compiler.Compile(expanded)
}

func transitionCUE(start, end string, o PresetOptions, curve string) string {
	return fmt.Sprintf("{start: %s, end: %s, duration: %g, curve: %q}", start, end, o.Duration, curve)
}

func fields(pairs ...string) string {
	var b strings.Builder
	for i := 0; i+1 < len(pairs); i += 2 {
		fmt.Fprintf(&b, "%q: %s\n", pairs[i], pairs[i+1])
	}
	return b.String()
}

func scaleFields(start, end string, o PresetOptions, curve string) []string {
	return []string{
		"scale-x", transitionCUE(start, end, o, curve),
		"scale-y", `"scale-x"`,
		"shadow-scale-x", `"scale-x"`,
		"shadow-scale-y", `"scale-y"`,
		"offset-x", `"(1 - scale-x) / 2 * window-width"`,
		"offset-y", `"(1 - scale-y) / 2 * window-height"`,
		"shadow-offset-x", `"offset-x"`,
		"shadow-offset-y", `"offset-y"`,
	}
}

func appear(o PresetOptions) string {
	pairs := []string{
		"opacity", transitionCUE("0", `"window-raw-opacity"`, o, "linear"),
		"blur-opacity", `"opacity"`,
		"shadow-opacity", `"opacity"`,
	}
	pairs = append(pairs, scaleFields(fmt.Sprintf("%g", o.Scale), "1", o, "cubic-bezier(0.24, 0.64, 0.79, 0.98)")...)
	return fields(pairs...)
}

func disappear(o PresetOptions) string {
	pairs := []string{
		"opacity", transitionCUE(`"window-raw-opacity-before"`, "0", o, "linear"),
		"blur-opacity", `"opacity"`,
		"shadow-opacity", `"opacity"`,
	}
	pairs = append(pairs, scaleFields("1", fmt.Sprintf("%g", o.Scale), o, "cubic-bezier(0.21, 0.02, 0.76, 0.36)")...)
	return fields(pairs...)
}

// slideOffset is the start offset of a window sliding in from direction,
// measured from its own edge.
func slideOffset(dir string) (axis, expr string) {
	switch dir {
	case "up":
		return "y", "window-height"
	case "left":
		return "x", "window-width"
	case "right":
		return "x", "-window-width"
	}
	return "y", "-window-height"
}

// flyOffset is the start offset of a window flying in from the monitor edge.
func flyOffset(dir string) (axis, expr string) {
	switch dir {
	case "up":
		return "y", "window-monitor-y + window-monitor-height - window-y"
	case "left":
		return "x", "window-monitor-x + window-monitor-width - window-x"
	case "right":
		return "x", "window-monitor-x - window-x - window-width"
	}
	return "y", "window-monitor-y - window-y - window-height"
}

func moveFields(axis, start, end string, o PresetOptions, curve string) string {
	other := "x"
	if axis == "x" {
		other = "y"
	}
	return fields(
		"offset-"+axis, transitionCUE(start, end, o, curve),
		"offset-"+other, "0",
		"shadow-offset-x", `"offset-x"`,
		"shadow-offset-y", `"offset-y"`,
	)
}

func slideIn(o PresetOptions) string {
	axis, from := slideOffset(o.Direction)
	return moveFields(axis, fmt.Sprintf("%q", from), "0", o, "cubic-bezier(0.21, 0.02, 0.76, 0.36)") +
		fields("opacity", `"window-raw-opacity"`)
}

func slideOut(o PresetOptions) string {
	axis, to := slideOffset(o.Direction)
	return moveFields(axis, "0", fmt.Sprintf("%q", to), o, "cubic-bezier(0.24, 0.64, 0.79, 0.98)") +
		fields("opacity", `"window-raw-opacity-before"`)
}

func flyIn(o PresetOptions) string {
	axis, from := flyOffset(o.Direction)
	return moveFields(axis, fmt.Sprintf("%q", from), "0", o, "ease-out") +
		fields("opacity", `"window-raw-opacity"`)
}

func flyOut(o PresetOptions) string {
	axis, to := flyOffset(o.Direction)
	return moveFields(axis, "0", fmt.Sprintf("%q", to), o, "ease-in") +
		fields("opacity", `"window-raw-opacity-before"`)
}
