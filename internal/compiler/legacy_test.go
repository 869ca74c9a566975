package compiler

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/winrule/internal/condition"
	"github.com/roach88/winrule/internal/ir"
	"github.com/roach88/winrule/internal/logging"
	"github.com/roach88/winrule/internal/testutil"
)

func newReconciler(resolver *mapResolver) (*reconciler, *recordingReporter) {
	rep := &recordingReporter{}
	if resolver == nil {
		resolver = &mapResolver{}
	}
	return &reconciler{
		log:        logging.GetLogger("compiler.test"),
		reporter:   rep,
		resolver:   resolver,
		includeDir: "/etc/winrule",
	}, rep
}

func texts(l *condition.List) []string {
	var out []string
	for _, c := range l.All() {
		out = append(out, c.Text())
	}
	return out
}

func TestReconcileLegacyCompilesEveryList(t *testing.T) {
	rc, rep := newReconciler(nil)
	v := testutil.MustCompileCUE(t, `
"shadow-exclude": ["class_g = 'Dunst'", "focused"]
"fade-exclude": "name = 'x'"
"focus-exclude": []
`)
	lists := rc.reconcile(v, false)
	require.NotNil(t, lists)
	assert.Len(t, lists, len(LegacyListNames()))

	assert.Equal(t, []string{"class_g = 'Dunst'", "focused"}, texts(lists.Get("shadow-exclude")))
	assert.Equal(t, []string{"name = 'x'"}, texts(lists.Get("fade-exclude")))
	assert.True(t, lists.Get("focus-exclude").IsEmpty())
	assert.True(t, lists.Get("opacity-rule").IsEmpty(), "absent lists are empty, not nil")
	assert.Nil(t, lists.Get("no-such-list"))
	assert.Empty(t, rep.problems)
}

func TestReconcileLegacyNumericPrefixes(t *testing.T) {
	logs := testutil.CaptureLogs(t)
	rc, _ := newReconciler(nil)
	v := testutil.MustCompileCUE(t, `
"opacity-rule": [
	"80:class_g = 'URxvt'",
	"101:class_g = 'Too'",
	"-1:focused",
	"abc:focused",
	"90 focused",
	" 100 : focused",
]
"corner-radius-rules": ["10:window_type = 'dock'", "2147483648:focused"]
`)
	lists := rc.reconcile(v, false)

	opacity := lists.Get("opacity-rule").All()
	require.Len(t, opacity, 2)
	assert.Equal(t, 80, opacity[0].Data())
	assert.True(t, opacity[0].Match(condition.Props{"class_g": "URxvt"}))
	assert.Equal(t, 100, opacity[1].Data())

	radius := lists.Get("corner-radius-rules").All()
	require.Len(t, radius, 1)
	assert.Equal(t, 10, radius[0].Data())

	assert.Len(t, logs.With("event", "entry_rejected"), 5)
}

func TestReconcileLegacyShaderPrefix(t *testing.T) {
	logs := testutil.CaptureLogs(t)
	resolver := &mapResolver{root: "/shaders", files: map[string]bool{"grey.glsl": true}}
	rc, _ := newReconciler(resolver)
	v := testutil.MustCompileCUE(t, `
"window-shader-fg-rule": [
	"grey.glsl:class_g = 'mpv'",
	"missing.glsl:focused",
	":focused",
]`)
	lists := rc.reconcile(v, false)

	rules := lists.Get("window-shader-fg-rule").All()
	require.Len(t, rules, 1)
	assert.Equal(t, "/shaders/shaders/grey.glsl", rules[0].Data())
	assert.Equal(t, []string{"shaders/grey.glsl", "shaders/missing.glsl"}, resolver.calls)
	assert.Len(t, logs.With("event", "entry_rejected"), 2)
}

func TestReconcileLegacyBadEntriesAreDropped(t *testing.T) {
	logs := testutil.CaptureLogs(t)
	rc, _ := newReconciler(nil)
	v := testutil.MustCompileCUE(t, `
"shadow-exclude": ["focused", 3, "(broken", "class_g = 'ok'"]
"fade-exclude": {a: 1}
`)
	lists := rc.reconcile(v, false)

	assert.Equal(t, []string{"focused", "class_g = 'ok'"}, texts(lists.Get("shadow-exclude")))
	assert.True(t, lists.Get("fade-exclude").IsEmpty())
	assert.Len(t, logs.With("event", "entry_rejected"), 2)
	assert.Len(t, logs.At("error"), 3)
}

func TestReconcileLegacyDeprecatedSyntax(t *testing.T) {
	rc, rep := newReconciler(nil)
	v := testutil.MustCompileCUE(t, `"focus-exclude": "_NET_WM_STATE:32a *= '_NET_WM_STATE_HIDDEN'"`)
	rc.reconcile(v, false)
	assert.Equal(t, []string{"focus-exclude"}, rep.problems)
}

func TestReconcileUnifiedWarnsOncePerOption(t *testing.T) {
	logs := testutil.CaptureLogs(t)
	rc, rep := newReconciler(nil)
	v := testutil.MustCompileCUE(t, `
"shadow-exclude": ["focused", "name = 'a'"]
"opacity-rule": ["80:focused"]
wintypes: {dock: {shadow: false}}
`)
	lists := rc.reconcile(v, true)
	assert.Nil(t, lists)

	both := logs.With("event", "both_styles")
	require.Len(t, both, 3)
	assert.Equal(t, "shadow-exclude", both[0]["option"])
	assert.Equal(t, "opacity-rule", both[1]["option"])
	assert.Equal(t, "wintypes", both[2]["option"])
	assert.Equal(t, 1, count(rep.problems, "shadow-exclude"))
	assert.Empty(t, logs.With("event", "entry_rejected"))
}

func TestNumericPrefix(t *testing.T) {
	p := numericPrefix(0, 100)

	v, rest, err := p("42:focused")
	require.NoError(t, err)
	assert.Equal(t, 42, v)
	assert.Equal(t, "focused", rest)

	// Only the first colon separates the value.
	_, rest, err = p("5:role:32s = 'x'")
	require.NoError(t, err)
	assert.Equal(t, "role:32s = 'x'", rest)

	for _, bad := range []string{"focused", "x:focused", "101:focused", "-3:focused"} {
		_, _, err := p(bad)
		assert.Error(t, err, bad)
	}
}

func TestCompileWintypes(t *testing.T) {
	v := testutil.MustCompileCUE(t, `
wintypes: {
	dock: {shadow: false, "clip-shadow-above": true}
	tooltip: {fade: true, opacity: 0.75, focus: true}
	notification: {shadow: true}
	notify: {shadow: false}
	dropdown_menu: {opacity: 2}
	menu: {"redir-ignore": "yes"}
}`)
	table := compileWintypes(v, zerolog.Nop())

	assert.Equal(t, ir.TriFalse, table[ir.WintypeDock].Shadow)
	assert.Equal(t, ir.TriTrue, table[ir.WintypeDock].ClipShadowAbove)
	assert.Equal(t, ir.TriTrue, table[ir.WintypeTooltip].Fade)
	assert.Equal(t, ir.TriTrue, table[ir.WintypeTooltip].Focus)
	require.NotNil(t, table[ir.WintypeTooltip].Opacity)
	assert.Equal(t, 0.75, *table[ir.WintypeTooltip].Opacity)
	assert.Equal(t, ir.TriFalse, table[ir.WintypeNotification].Shadow, "notify applies after notification")
	assert.Equal(t, 1.0, *table[ir.WintypeDropdownMenu].Opacity)
	assert.True(t, table[ir.WintypeMenu].IsEmpty())
	assert.True(t, table[ir.WintypeNormal].IsEmpty())
}

func TestCompileWintypesNotStruct(t *testing.T) {
	logs := testutil.CaptureLogs(t)
	table := compileWintypes(testutil.MustCompileCUE(t, `wintypes: ["dock"]`), logging.GetLogger("test"))
	for i := range table {
		assert.True(t, table[i].IsEmpty())
	}
	assert.Len(t, logs.At("warn"), 1)
}
