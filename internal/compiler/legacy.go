package compiler

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"cuelang.org/go/cue"
	"github.com/rs/zerolog"

	"github.com/roach88/winrule/internal/condition"
	"github.com/roach88/winrule/internal/paths"
)

// LegacyLists holds the compiled flat option lists keyed by option name.
// It is nil when the configuration uses "rules".
type LegacyLists map[string]*condition.List

// Get returns the list for option, or nil.
func (l LegacyLists) Get(option string) *condition.List {
	if l == nil {
		return nil
	}
	return l[option]
}

type legacyList struct {
	name   string
	prefix func(rc *reconciler) condition.PrefixFunc
}

// legacyListOptions are the flat lists superseded by "rules", in the order
// they are compiled.
var legacyListOptions = []legacyList{
	{name: "transparent-clipping-exclude"},
	{name: "shadow-exclude"},
	{name: "clip-shadow-above"},
	{name: "fade-exclude"},
	{name: "focus-exclude"},
	{name: "invert-color-include"},
	{name: "blur-background-exclude"},
	{name: "unredir-if-possible-exclude"},
	{name: "rounded-corners-exclude"},
	{name: "corner-radius-rules", prefix: func(*reconciler) condition.PrefixFunc {
		return numericPrefix(0, math.MaxInt32)
	}},
	{name: "opacity-rule", prefix: func(*reconciler) condition.PrefixFunc {
		return numericPrefix(0, 100)
	}},
	{name: "window-shader-fg-rule", prefix: func(rc *reconciler) condition.PrefixFunc {
		return rc.shaderPrefix
	}},
}

// LegacyListNames returns the flat list option names in compile order.
func LegacyListNames() []string {
	names := make([]string, len(legacyListOptions))
	for i, l := range legacyListOptions {
		names[i] = l.name
	}
	return names
}

// reconciler decides between the unified rules list and the legacy flat
// options.
type reconciler struct {
	log        zerolog.Logger
	reporter   Reporter
	resolver   paths.Resolver
	includeDir string
}

// reconcile compiles the legacy lists when unified is false. When unified is
// true each legacy option that is present is reported once and skipped.
func (rc *reconciler) reconcile(v cue.Value, unified bool) LegacyLists {
	if unified {
		for _, l := range legacyListOptions {
			if _, ok := lookup(v, l.name); ok {
				warnBothStyles(rc.log, rc.reporter, l.name)
			}
		}
		if _, ok := lookup(v, "wintypes"); ok {
			warnBothStyles(rc.log, rc.reporter, "wintypes")
		}
		return nil
	}

	lists := make(LegacyLists, len(legacyListOptions))
	for _, l := range legacyListOptions {
		list := &condition.List{}
		lists[l.name] = list
		lv, ok := lookup(v, l.name)
		if !ok {
			continue
		}
		var prefix condition.PrefixFunc
		if l.prefix != nil {
			prefix = l.prefix(rc)
		}
		if rc.compileList(list, l.name, lv, prefix) {
			rc.log.Warn().
				Str("option", l.name).
				Msg("rule option contains deprecated syntax")
			rc.reporter.RecordProblem(l.name)
		}
	}
	return lists
}

// compileList parses each entry of a string-or-list value into list. Bad
// entries are logged and dropped. It reports whether any entry used
// deprecated syntax.
func (rc *reconciler) compileList(list *condition.List, name string, v cue.Value, prefix condition.PrefixFunc) bool {
	elems, err := stringOrList(v)
	if err != nil {
		rc.log.Error().
			Str("option", name).
			Int("line", v.Pos().Line()).
			Msgf("%q %v, ignoring", name, err)
		return false
	}

	deprecated := false
	for _, e := range elems {
		text, err := e.String()
		if err != nil {
			rc.log.Error().
				Str("event", "entry_rejected").
				Str("option", name).
				Int("line", e.Pos().Line()).
				Msg("entry must be a string, ignoring it")
			continue
		}
		_, dep, err := condition.ParseWithPrefix(list, text, prefix)
		if err != nil {
			rc.log.Error().
				Str("event", "entry_rejected").
				Str("option", name).
				Int("line", e.Pos().Line()).
				Err(err).
				Msg("invalid entry, ignoring it")
			continue
		}
		deprecated = deprecated || dep
	}
	return deprecated
}

// numericPrefix parses "<int>:<condition>" with the integer in [lo, hi].
func numericPrefix(lo, hi int) condition.PrefixFunc {
	return func(text string) (any, string, error) {
		num, rest, ok := strings.Cut(text, ":")
		if !ok {
			return nil, "", fmt.Errorf("missing \":\" after value in %q", text)
		}
		n, err := strconv.Atoi(strings.TrimSpace(num))
		if err != nil {
			return nil, "", fmt.Errorf("invalid number %q", strings.TrimSpace(num))
		}
		if n < lo || n > hi {
			return nil, "", fmt.Errorf("value %d out of range [%d, %d]", n, lo, hi)
		}
		return n, rest, nil
	}
}

// shaderPrefix parses "<shader path>:<condition>" and resolves the path.
func (rc *reconciler) shaderPrefix(text string) (any, string, error) {
	file, rest, ok := strings.Cut(text, ":")
	if !ok {
		return nil, "", fmt.Errorf("missing \":\" after shader path in %q", text)
	}
	file = strings.TrimSpace(file)
	if file == "" {
		return nil, "", fmt.Errorf("empty shader path in %q", text)
	}
	resolved, found := rc.resolver.Resolve("shaders", file, rc.includeDir)
	if !found {
		return nil, "", fmt.Errorf("cannot find shader %q", file)
	}
	return resolved, rest, nil
}
