package ir

import "math"

// Tristate is a boolean override that may be left unset.
type Tristate int8

const (
	TriUnset Tristate = iota
	TriFalse
	TriTrue
)

// TriFromBool converts a configured boolean into a set Tristate.
func TriFromBool(b bool) Tristate {
	if b {
		return TriTrue
	}
	return TriFalse
}

// IsSet reports whether the value was configured.
func (t Tristate) IsSet() bool { return t != TriUnset }

// Or returns t when set, otherwise fallback.
func (t Tristate) Or(fallback bool) bool {
	switch t {
	case TriTrue:
		return true
	case TriFalse:
		return false
	default:
		return fallback
	}
}

func (t Tristate) String() string {
	switch t {
	case TriTrue:
		return "true"
	case TriFalse:
		return "false"
	default:
		return "unset"
	}
}

// UnredirMode controls whether a matching window may unredirect the screen.
type UnredirMode int

const (
	// UnredirUnset means the rule does not touch the setting.
	UnredirUnset UnredirMode = iota
	UnredirWhenPossibleElseTerminate
	UnredirWhenPossible
	UnredirTerminate
	UnredirPassive
	UnredirForced
	UnredirInvalid
)

func (m UnredirMode) String() string {
	switch m {
	case UnredirUnset:
		return "unset"
	case UnredirWhenPossibleElseTerminate:
		return "when-possible-else-terminate"
	case UnredirWhenPossible:
		return "when-possible"
	case UnredirTerminate:
		return "terminate"
	case UnredirPassive:
		return "passive"
	case UnredirForced:
		return "forced"
	default:
		return "invalid"
	}
}

// WindowOptions is the sparse override payload attached to a rule.
// Only fields that are set may override values resolved earlier.
type WindowOptions struct {
	Fade                Tristate
	Paint               Tristate
	Shadow              Tristate
	FullShadow          Tristate
	InvertColor         Tristate
	BlurBackground      Tristate
	ClipShadowAbove     Tristate
	TransparentClipping Tristate

	Opacity      *float64
	Dim          *float64
	CornerRadius *int
	Unredir      UnredirMode
	Shader       string

	Animations AnimationTable
}

// BoolOption names one of the tristate fields of WindowOptions.
type BoolOption struct {
	Name  string
	Field func(*WindowOptions) *Tristate
}

// BoolOptions lists the tristate fields in configuration order.
var BoolOptions = []BoolOption{
	{"fade", func(o *WindowOptions) *Tristate { return &o.Fade }},
	{"paint", func(o *WindowOptions) *Tristate { return &o.Paint }},
	{"shadow", func(o *WindowOptions) *Tristate { return &o.Shadow }},
	{"full-shadow", func(o *WindowOptions) *Tristate { return &o.FullShadow }},
	{"invert-color", func(o *WindowOptions) *Tristate { return &o.InvertColor }},
	{"blur-background", func(o *WindowOptions) *Tristate { return &o.BlurBackground }},
	{"clip-shadow-above", func(o *WindowOptions) *Tristate { return &o.ClipShadowAbove }},
	{"transparent-clipping", func(o *WindowOptions) *Tristate { return &o.TransparentClipping }},
}

// MergeInto copies every set field of o onto dst, leaving the rest of dst
// untouched. Animation slots are only copied into empty slots of dst.
func (o *WindowOptions) MergeInto(dst *WindowOptions) {
	for _, b := range BoolOptions {
		if v := *b.Field(o); v.IsSet() {
			*b.Field(dst) = v
		}
	}
	if o.Opacity != nil {
		v := *o.Opacity
		dst.Opacity = &v
	}
	if o.Dim != nil {
		v := *o.Dim
		dst.Dim = &v
	}
	if o.CornerRadius != nil {
		v := *o.CornerRadius
		dst.CornerRadius = &v
	}
	if o.Unredir != UnredirUnset {
		dst.Unredir = o.Unredir
	}
	if o.Shader != "" {
		dst.Shader = o.Shader
	}
	for i, s := range o.Animations {
		if s != nil && dst.Animations[i] == nil {
			dst.Animations[i] = s
		}
	}
}

// Normalize clamps a fractional option such as opacity into [0, 1].
// NaN becomes 0.
func Normalize(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}
