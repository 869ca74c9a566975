// Package config loads the scalar settings that sit underneath a
// configuration file: embedded defaults, then WINRULE_* environment
// variables.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

//go:embed defaults.toml
var defaultConfig []byte

// EnvPrefix is the prefix of environment overrides.
const EnvPrefix = "WINRULE_"

// Settings are the scalar options a configuration file may override.
type Settings struct {
	Fading            bool    `koanf:"fading" json:"fading" yaml:"fading"`
	NoFadingOpenClose bool    `koanf:"no_fading_openclose" json:"no_fading_openclose" yaml:"no_fading_openclose"`
	FadeDelta         int     `koanf:"fade_delta" json:"fade_delta" yaml:"fade_delta"`
	FadeInStep        float64 `koanf:"fade_in_step" json:"fade_in_step" yaml:"fade_in_step"`
	FadeOutStep       float64 `koanf:"fade_out_step" json:"fade_out_step" yaml:"fade_out_step"`

	InactiveOpacity         float64 `koanf:"inactive_opacity" json:"inactive_opacity" yaml:"inactive_opacity"`
	ActiveOpacity           float64 `koanf:"active_opacity" json:"active_opacity" yaml:"active_opacity"`
	InactiveOpacityOverride bool    `koanf:"inactive_opacity_override" json:"inactive_opacity_override" yaml:"inactive_opacity_override"`
	InactiveDim             float64 `koanf:"inactive_dim" json:"inactive_dim" yaml:"inactive_dim"`
	MarkWMWinFocused        bool    `koanf:"mark_wmwin_focused" json:"mark_wmwin_focused" yaml:"mark_wmwin_focused"`
	MarkOverrideRedirFocus  bool    `koanf:"mark_ovredir_focused" json:"mark_ovredir_focused" yaml:"mark_ovredir_focused"`
	ShadowIgnoreShaped      bool    `koanf:"shadow_ignore_shaped" json:"shadow_ignore_shaped" yaml:"shadow_ignore_shaped"`
	CropShadowToMonitor     bool    `koanf:"crop_shadow_to_monitor" json:"crop_shadow_to_monitor" yaml:"crop_shadow_to_monitor"`

	UnredirIfPossibleDelay int `koanf:"unredir_if_possible_delay" json:"unredir_if_possible_delay" yaml:"unredir_if_possible_delay"`

	IncludeDir string `koanf:"include_dir" json:"include_dir" yaml:"include_dir"`
}

// rawBytesProvider implements koanf.Provider for embedded bytes.
type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, errors.New("not implemented")
}

// Load returns the defaults with environment overrides applied.
func Load() (*Settings, error) {
	return load(env.Provider(EnvPrefix, ".", envKey))
}

// Defaults returns the embedded defaults only.
func Defaults() (*Settings, error) {
	return load(nil)
}

func envKey(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
}

func load(overrides koanf.Provider) (*Settings, error) {
	k := koanf.New(".")

	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}
	if overrides != nil {
		if err := k.Load(overrides, nil); err != nil {
			return nil, fmt.Errorf("failed to load env vars: %w", err)
		}
	}

	var s Settings
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &s,
			WeaklyTypedInput: true,
		},
	}
	if err := k.UnmarshalWithConf("", &s, unmarshalConf); err != nil {
		return nil, fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	return &s, nil
}
