package ir

// Output is a well-known animation output channel.
type Output int

const (
	OutputOffsetX Output = iota
	OutputOffsetY
	OutputShadowOffsetX
	OutputShadowOffsetY
	OutputOpacity
	OutputBlurOpacity
	OutputShadowOpacity
	OutputScaleX
	OutputScaleY
	OutputShadowScaleX
	OutputShadowScaleY
	OutputCropX
	OutputCropY
	OutputCropWidth
	OutputCropHeight
	OutputSavedImageBlend

	NumOutputs int = iota
)

var outputNames = [NumOutputs]string{
	OutputOffsetX:         "offset-x",
	OutputOffsetY:         "offset-y",
	OutputShadowOffsetX:   "shadow-offset-x",
	OutputShadowOffsetY:   "shadow-offset-y",
	OutputOpacity:         "opacity",
	OutputBlurOpacity:     "blur-opacity",
	OutputShadowOpacity:   "shadow-opacity",
	OutputScaleX:          "scale-x",
	OutputScaleY:          "scale-y",
	OutputShadowScaleX:    "shadow-scale-x",
	OutputShadowScaleY:    "shadow-scale-y",
	OutputCropX:           "crop-x",
	OutputCropY:           "crop-y",
	OutputCropWidth:       "crop-width",
	OutputCropHeight:      "crop-height",
	OutputSavedImageBlend: "saved-image-blend",
}

func (o Output) String() string {
	if o >= 0 && int(o) < NumOutputs {
		return outputNames[o]
	}
	return "unknown"
}

// OutputNames returns the channel names indexed by Output.
func OutputNames() [NumOutputs]string { return outputNames }

// SlotUnused marks an output channel the script does not drive.
const SlotUnused = -1

// Program is an executable animation script produced by a script compiler.
type Program interface {
	// Slots is the number of variable slots the program evaluates.
	Slots() int
	// Eval evaluates every slot at the given elapsed time (seconds) with the
	// given context variables.
	Eval(vars map[string]float64, elapsed float64) ([]float64, error)
}

// Script is a compiled animation script together with its binding metadata.
type Script struct {
	Program     Program
	OutputSlots [NumOutputs]int
	// IsGenerated is true for scripts synthesized from legacy fade options.
	IsGenerated bool
	// Suppressions lists triggers whose animations must not start while this
	// one runs. Enforced by the playback engine.
	Suppressions TriggerSet
	// Line is the source line of the definition, 0 for generated scripts.
	Line int

	released bool
}

// NewScript returns a script with every output marked unused.
func NewScript(p Program) *Script {
	s := &Script{Program: p}
	for i := range s.OutputSlots {
		s.OutputSlots[i] = SlotUnused
	}
	return s
}

// Uses reports whether the script drives output o.
func (s *Script) Uses(o Output) bool {
	return s.OutputSlots[o] != SlotUnused
}

// Release drops the compiled program. Called on scripts that were not
// installed anywhere.
func (s *Script) Release() {
	s.Program = nil
	s.released = true
}

// Released reports whether Release has been called.
func (s *Script) Released() bool { return s.released }

// ScriptRegistry is the list of every retained script, kept for teardown.
type ScriptRegistry struct {
	scripts []*Script
}

// Retain records s as owned by a table.
func (r *ScriptRegistry) Retain(s *Script) {
	r.scripts = append(r.scripts, s)
}

// RetainAll records several scripts at once.
func (r *ScriptRegistry) RetainAll(scripts ...*Script) {
	r.scripts = append(r.scripts, scripts...)
}

// Len returns the number of retained scripts.
func (r *ScriptRegistry) Len() int { return len(r.scripts) }

// Scripts returns the retained scripts in retention order.
func (r *ScriptRegistry) Scripts() []*Script {
	out := make([]*Script, len(r.scripts))
	copy(out, r.scripts)
	return out
}

// ReleaseAll releases every retained script and empties the registry.
func (r *ScriptRegistry) ReleaseAll() {
	for _, s := range r.scripts {
		s.Release()
	}
	r.scripts = nil
}
