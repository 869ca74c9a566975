package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	s, err := Defaults()
	require.NoError(t, err)

	assert.False(t, s.Fading)
	assert.Equal(t, 10, s.FadeDelta)
	assert.InDelta(t, 0.028, s.FadeInStep, 1e-12)
	assert.InDelta(t, 0.03, s.FadeOutStep, 1e-12)
	assert.InDelta(t, 1.0, s.InactiveOpacity, 1e-12)
	assert.InDelta(t, 1.0, s.ActiveOpacity, 1e-12)
	assert.Equal(t, 0, s.UnredirIfPossibleDelay)
	assert.Empty(t, s.IncludeDir)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("WINRULE_FADE_DELTA", "5")
	t.Setenv("WINRULE_FADING", "true")
	t.Setenv("WINRULE_FADE_IN_STEP", "0.5")
	t.Setenv("WINRULE_INCLUDE_DIR", "/etc/winrule")

	s, err := Load()
	require.NoError(t, err)
	assert.True(t, s.Fading)
	assert.Equal(t, 5, s.FadeDelta)
	assert.InDelta(t, 0.5, s.FadeInStep, 1e-12)
	assert.InDelta(t, 0.03, s.FadeOutStep, 1e-12)
	assert.Equal(t, "/etc/winrule", s.IncludeDir)
}

func TestEnvOverrideBadValue(t *testing.T) {
	t.Setenv("WINRULE_FADE_DELTA", "soon")
	_, err := Load()
	assert.Error(t, err)
}
