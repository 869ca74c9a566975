package ir

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func ptr[T any](v T) *T { return &v }

func TestTristate(t *testing.T) {
	assert.Equal(t, TriTrue, TriFromBool(true))
	assert.Equal(t, TriFalse, TriFromBool(false))

	assert.False(t, TriUnset.IsSet())
	assert.True(t, TriUnset.Or(true))
	assert.False(t, TriFalse.Or(true))
	assert.True(t, TriTrue.Or(false))

	assert.Equal(t, "unset", TriUnset.String())
	assert.Equal(t, "false", TriFalse.String())
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, 0.0, Normalize(-0.5))
	assert.Equal(t, 1.0, Normalize(3))
	assert.Equal(t, 0.25, Normalize(0.25))
	assert.Equal(t, 0.0, Normalize(math.NaN()))
}

func TestUnredirModeString(t *testing.T) {
	assert.Equal(t, "when-possible", UnredirWhenPossible.String())
	assert.Equal(t, "unset", UnredirUnset.String())
	assert.Equal(t, "invalid", UnredirMode(42).String())
}

func TestMergeIntoOnlyCopiesSetFields(t *testing.T) {
	kept := NewScript(nil)
	added := NewScript(nil)
	ignored := NewScript(nil)

	dst := WindowOptions{
		Shadow:     TriTrue,
		Paint:      TriFalse,
		Opacity:    ptr(0.5),
		Shader:     "/a.glsl",
		Animations: AnimationTable{TriggerOpen: kept},
	}
	src := WindowOptions{
		Shadow:       TriFalse,
		Dim:          ptr(0.2),
		CornerRadius: ptr(8),
		Unredir:      UnredirForced,
		Animations:   AnimationTable{TriggerOpen: ignored, TriggerClose: added},
	}
	src.MergeInto(&dst)

	want := WindowOptions{
		Shadow:       TriFalse,
		Paint:        TriFalse,
		Opacity:      ptr(0.5),
		Dim:          ptr(0.2),
		CornerRadius: ptr(8),
		Unredir:      UnredirForced,
		Shader:       "/a.glsl",
		Animations:   AnimationTable{TriggerOpen: kept, TriggerClose: added},
	}
	if diff := cmp.Diff(want, dst, cmp.AllowUnexported(Script{}), cmp.Comparer(func(a, b *Script) bool { return a == b })); diff != "" {
		t.Errorf("merged options mismatch (-want +got):\n%s", diff)
	}

	*src.Dim = 0.9
	assert.Equal(t, 0.2, *dst.Dim, "merge copies values, not pointers")
}

func TestBoolOptionsCoverEveryTristate(t *testing.T) {
	var o WindowOptions
	for _, b := range BoolOptions {
		*b.Field(&o) = TriTrue
	}
	assert.Equal(t, WindowOptions{
		Fade: TriTrue, Paint: TriTrue, Shadow: TriTrue, FullShadow: TriTrue,
		InvertColor: TriTrue, BlurBackground: TriTrue, ClipShadowAbove: TriTrue,
		TransparentClipping: TriTrue,
	}, o)
}

func TestWintypeOptions(t *testing.T) {
	assert.Equal(t, "dropdown_menu", WintypeDropdownMenu.String())
	assert.Equal(t, "dnd", WintypeDND.String())
	assert.Equal(t, "invalid", Wintype(NumWintypes).String())

	var o WintypeOptions
	assert.True(t, o.IsEmpty())
	*WintypeBoolOptions[2].Field(&o) = TriFalse
	assert.Equal(t, TriFalse, o.Focus)
	assert.False(t, o.IsEmpty())

	o = WintypeOptions{Opacity: ptr(0.7)}
	assert.False(t, o.IsEmpty())
}
