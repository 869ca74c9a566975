package report

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/roach88/winrule/internal/compiler"
	"github.com/roach88/winrule/internal/config"
	"github.com/roach88/winrule/internal/testutil"
)

func compile(t *testing.T, src string) *compiler.Result {
	t.Helper()
	s, err := config.Defaults()
	require.NoError(t, err)
	res, err := compiler.Compile(testutil.MustCompileCUE(t, src), compiler.Config{
		Settings: s,
		IDs:      testutil.NewFixedLoadIDGenerator("load-7"),
	})
	require.NoError(t, err)
	t.Cleanup(res.Close)
	return res
}

func TestSummarizeUnified(t *testing.T) {
	res := compile(t, `
rules: [
	{match: "class_g = 'mpv'", shadow: false, opacity: 0.5, unredir: "forced"},
	{animations: [{triggers: ["hide"], suppressions: "show", opacity: 0}]},
]
animations: [{triggers: "geometry", "offset-x": 0}]
`)
	s := Summarize(res)

	want := &Summary{
		LoadID: "load-7",
		Mode:   ModeUnified,
		Rules: []Rule{
			{Match: "class_g = 'mpv'", Options: map[string]any{"shadow": false, "opacity": 0.5, "unredir": "forced"}},
			{Match: "true", Animations: []Binding{{Trigger: "hide", Script: 0}}},
		},
		Animations: []Binding{{Trigger: "size", Script: 1}, {Trigger: "position", Script: 1}},
		Scripts: []Script{
			{ID: 0, Line: 4, Outputs: []string{"opacity"}, Suppressions: []string{"show"}},
			{ID: 1, Line: 6, Outputs: []string{"offset-x"}},
		},
		Settings: res.Settings,
		Problems: []string{},
	}
	if diff := cmp.Diff(want, s); diff != "" {
		t.Errorf("summary mismatch (-want +got):\n%s", diff)
	}
}

func TestSummarizeLegacy(t *testing.T) {
	res := compile(t, `
"opacity-rule": ["80:class_g = 'URxvt'"]
"fade-exclude": ["focused"]
wintypes: {tooltip: {fade: true, opacity: 0.75}}
fading: true
vsync: true
`)
	s := Summarize(res)

	assert.Equal(t, ModeLegacy, s.Mode)
	assert.Empty(t, s.Rules)
	assert.Equal(t, []LegacyList{
		{Option: "fade-exclude", Entries: []LegacyEntry{{Match: "focused"}}},
		{Option: "opacity-rule", Entries: []LegacyEntry{{Match: "80:class_g = 'URxvt'", Value: 80}}},
	}, s.Legacy)
	assert.Equal(t, map[string]map[string]any{"tooltip": {"fade": true, "opacity": 0.75}}, s.Wintypes)
	assert.Equal(t, map[string]any{"vsync": true}, s.Options)

	require.Len(t, s.Scripts, 4)
	for _, sc := range s.Scripts {
		assert.True(t, sc.Generated)
	}
	var triggers []string
	for _, b := range s.Animations {
		triggers = append(triggers, b.Trigger)
	}
	assert.Equal(t, []string{"open", "close", "show", "hide", "increase-opacity", "decrease-opacity"}, triggers)
}

func TestSummaryEncodings(t *testing.T) {
	s := Summarize(compile(t, `rules: [{match: "focused", "corner-radius": 4}]`))

	data, err := s.JSON()
	require.NoError(t, err)
	assert.True(t, bytes.HasSuffix(data, []byte("}\n")))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "unified", decoded["mode"])
	assert.Equal(t, []any{}, decoded["animations"])
	assert.NotContains(t, decoded, "legacy")

	again, err := s.JSON()
	require.NoError(t, err)
	assert.Equal(t, data, again)

	out, err := yaml.Marshal(s)
	require.NoError(t, err)
	assert.Contains(t, string(out), "mode: unified")
	assert.Contains(t, string(out), "corner-radius: 4")
}

func TestWriteText(t *testing.T) {
	s := Summarize(compile(t, `
rules: [{match: "focused", shadow: true, animations: [{triggers: "open", opacity: 1}]}]
"shadow-exclude": "focused"
`))

	var buf bytes.Buffer
	require.NoError(t, s.WriteText(&buf))
	out := buf.String()

	assert.Contains(t, out, "✓ Compiled configuration (unified mode, load load-7)")
	assert.Contains(t, out, "1 rule(s), 1 script(s)")
	assert.Contains(t, out, "[0] focused")
	assert.Contains(t, out, "shadow=true")
	assert.Contains(t, out, "open → script 0")
	assert.Contains(t, out, "⚠ 1 problem(s): shadow-exclude")
}
