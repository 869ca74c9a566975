package compiler

import (
	"fmt"
	"math"
	"strconv"

	"github.com/roach88/winrule/internal/ir"
	"github.com/roach88/winrule/internal/script"
)

// FadeParams are the legacy scalar fade settings.
type FadeParams struct {
	InStep            float64
	OutStep           float64
	Delta             int
	NoFadingOpenClose bool
}

// fadeDuration converts a step and a delta (milliseconds per step) into
// seconds.
func fadeDuration(step float64, delta int) float64 {
	return 1 / step * float64(delta) / 1000
}

const fadeOpacityTemplate = `
opacity: {
	duration: %[1]s
	start: "window-raw-opacity-before"
	end: "window-raw-opacity"
}
"shadow-opacity": "opacity"
`

const fadeBlurTemplate = `
"blur-opacity": {
	duration: %[1]s
	start: %[2]d
	end: %[3]d
}
`

// GenerateFading synthesizes fade animations from the legacy fade settings
// and binds them into the free cells of table. Explicit animations already
// in table win. The returned scripts are the ones that were bound; they are
// marked generated and retained together once generation is done.
func (a *AnimationCompiler) GenerateFading(table *ir.AnimationTable, p FadeParams) []*ir.Script {
	var bound []*ir.Script
	fade := func(direction string, step float64, full, change ir.TriggerSet, blurFrom, blurTo int) {
		d := fadeDuration(step, p.Delta)
		if math.IsInf(d, 0) || math.IsNaN(d) || d <= 0 {
			a.log.Error().
				Float64("step", step).
				Int("delta", p.Delta).
				Msgf("invalid fade-%s setting, ignoring", direction)
			return
		}
		ds := strconv.FormatFloat(d, 'g', -1, 64)

		if s := a.generated(fmt.Sprintf(fadeOpacityTemplate+fadeBlurTemplate, ds, blurFrom, blurTo)); s != nil {
			if a.install(table, full, s, 0) {
				bound = append(bound, s)
			} else {
				s.Release()
			}
		}
		if s := a.generated(fmt.Sprintf(fadeOpacityTemplate, ds)); s != nil {
			if a.install(table, change, s, 0) {
				bound = append(bound, s)
			} else {
				s.Release()
			}
		}
	}

	in := ir.SetOf(ir.TriggerShow)
	out := ir.SetOf(ir.TriggerHide)
	if !p.NoFadingOpenClose {
		in = in.With(ir.TriggerOpen)
		out = out.With(ir.TriggerClose)
	}
	fade("in", p.InStep, in, ir.SetOf(ir.TriggerIncreaseOpacity), 0, 1)
	fade("out", p.OutStep, out, ir.SetOf(ir.TriggerDecreaseOpacity), 1, 0)

	a.log.Debug().Int("scripts", len(bound)).Msg("generated scripts for fading")
	a.registry.RetainAll(bound...)
	return bound
}

// generated compiles a synthesized definition. These are built from fixed
// templates, so a failure is a bug and is logged rather than returned.
func (a *AnimationCompiler) generated(text string) *ir.Script {
	v := a.ctx.CompileString(text)
	src, err := script.SourceFromValue(v)
	if err == nil {
		var s *ir.Script
		if s, err = a.scripts.Compile(src); err == nil {
			s.IsGenerated = true
			s.Line = 0
			return s
		}
	}
	a.log.Error().Err(err).Msg("compiling generated fade script")
	return nil
}
