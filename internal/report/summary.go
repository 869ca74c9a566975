// Package report renders a compile result as a stable, serializable summary.
//
// The summary is what the CLI prints and what golden tests compare, so every
// collection in it has a fixed order: rules and legacy entries in file order,
// bindings in trigger order, scripts in retention order.
package report

import (
	"github.com/roach88/winrule/internal/compiler"
	"github.com/roach88/winrule/internal/condition"
	"github.com/roach88/winrule/internal/config"
	"github.com/roach88/winrule/internal/ir"
)

// Summary describes one compiled configuration.
type Summary struct {
	LoadID     string                    `json:"load_id" yaml:"load_id"`
	Mode       string                    `json:"mode" yaml:"mode"`
	Rules      []Rule                    `json:"rules" yaml:"rules"`
	Animations []Binding                 `json:"animations" yaml:"animations"`
	Scripts    []Script                  `json:"scripts" yaml:"scripts"`
	Legacy     []LegacyList              `json:"legacy,omitempty" yaml:"legacy,omitempty"`
	Wintypes   map[string]map[string]any `json:"wintypes,omitempty" yaml:"wintypes,omitempty"`
	Options    map[string]any            `json:"options,omitempty" yaml:"options,omitempty"`
	Settings   config.Settings           `json:"settings" yaml:"settings"`
	Problems   []string                  `json:"problems" yaml:"problems"`
	Deprecated []compiler.Deprecation    `json:"deprecated,omitempty" yaml:"deprecated,omitempty"`
}

// Rule is one entry of the unified rule list.
type Rule struct {
	Match      string         `json:"match" yaml:"match"`
	Options    map[string]any `json:"options,omitempty" yaml:"options,omitempty"`
	Animations []Binding      `json:"animations,omitempty" yaml:"animations,omitempty"`
}

// Binding ties a trigger to a script by its ID.
type Binding struct {
	Trigger string `json:"trigger" yaml:"trigger"`
	Script  int    `json:"script" yaml:"script"`
}

// Script describes one retained script.
type Script struct {
	ID           int      `json:"id" yaml:"id"`
	Line         int      `json:"line" yaml:"line"`
	Generated    bool     `json:"generated" yaml:"generated"`
	Outputs      []string `json:"outputs" yaml:"outputs"`
	Suppressions []string `json:"suppressions,omitempty" yaml:"suppressions,omitempty"`
}

// LegacyList is a non-empty flat option list.
type LegacyList struct {
	Option  string        `json:"option" yaml:"option"`
	Entries []LegacyEntry `json:"entries" yaml:"entries"`
}

// LegacyEntry is one condition of a flat list. Value is the prefix value
// for lists that take one.
type LegacyEntry struct {
	Match string `json:"match" yaml:"match"`
	Value any    `json:"value,omitempty" yaml:"value,omitempty"`
}

// Mode names.
const (
	ModeUnified = "unified"
	ModeLegacy  = "legacy"
)

// Summarize builds the summary of res.
func Summarize(res *compiler.Result) *Summary {
	s := &Summary{
		LoadID:     res.LoadID,
		Mode:       ModeLegacy,
		Rules:      []Rule{},
		Scripts:    []Script{},
		Settings:   res.Settings,
		Problems:   append([]string{}, res.Problems...),
		Deprecated: res.Deprecated,
	}
	if res.Unified {
		s.Mode = ModeUnified
	}

	ids := make(map[*ir.Script]int, res.Scripts.Len())
	for i, sc := range res.Scripts.Scripts() {
		ids[sc] = i
		s.Scripts = append(s.Scripts, describeScript(i, sc))
	}
	s.Animations = bindings(&res.Animations, ids)

	for _, c := range res.Rules.All() {
		r := Rule{Match: matchText(c)}
		if opts := compiler.RuleOptions(c); opts != nil {
			r.Options = windowOptions(opts)
			if b := bindings(&opts.Animations, ids); len(b) > 0 {
				r.Animations = b
			}
		}
		s.Rules = append(s.Rules, r)
	}

	for _, name := range compiler.LegacyListNames() {
		list := res.Legacy.Get(name)
		if list == nil || list.IsEmpty() {
			continue
		}
		l := LegacyList{Option: name}
		for _, c := range list.All() {
			l.Entries = append(l.Entries, LegacyEntry{Match: c.Text(), Value: c.Data()})
		}
		s.Legacy = append(s.Legacy, l)
	}

	if res.Wintypes != nil {
		for i := range res.Wintypes {
			o := &res.Wintypes[i]
			if o.IsEmpty() {
				continue
			}
			if s.Wintypes == nil {
				s.Wintypes = make(map[string]map[string]any)
			}
			s.Wintypes[ir.Wintype(i).String()] = wintypeOptions(o)
		}
	}

	s.Options = scalarOptions(res)
	return s
}

func matchText(c *condition.Condition) string {
	if c.IsTrue() {
		return "true"
	}
	return c.Text()
}

func bindings(table *ir.AnimationTable, ids map[*ir.Script]int) []Binding {
	out := []Binding{}
	for t, sc := range table {
		if sc == nil {
			continue
		}
		id, ok := ids[sc]
		if !ok {
			id = -1
		}
		out = append(out, Binding{Trigger: ir.Trigger(t).String(), Script: id})
	}
	return out
}

func describeScript(id int, sc *ir.Script) Script {
	d := Script{
		ID:        id,
		Line:      sc.Line,
		Generated: sc.IsGenerated,
		Outputs:   []string{},
	}
	for o := range ir.NumOutputs {
		if sc.Uses(ir.Output(o)) {
			d.Outputs = append(d.Outputs, ir.Output(o).String())
		}
	}
	if !sc.Suppressions.IsEmpty() {
		d.Suppressions = sc.Suppressions.Names()
	}
	return d
}

func windowOptions(o *ir.WindowOptions) map[string]any {
	m := make(map[string]any)
	for _, b := range ir.BoolOptions {
		if v := *b.Field(o); v.IsSet() {
			m[b.Name] = v.Or(false)
		}
	}
	if o.Opacity != nil {
		m["opacity"] = *o.Opacity
	}
	if o.Dim != nil {
		m["dim"] = *o.Dim
	}
	if o.CornerRadius != nil {
		m["corner-radius"] = *o.CornerRadius
	}
	if o.Unredir != ir.UnredirUnset {
		m["unredir"] = o.Unredir.String()
	}
	if o.Shader != "" {
		m["shader"] = o.Shader
	}
	if len(m) == 0 {
		return nil
	}
	return m
}

func wintypeOptions(o *ir.WintypeOptions) map[string]any {
	m := make(map[string]any)
	for _, b := range ir.WintypeBoolOptions {
		if v := *b.Field(o); v.IsSet() {
			m[b.Name] = v.Or(false)
		}
	}
	if o.Opacity != nil {
		m["opacity"] = *o.Opacity
	}
	return m
}

func scalarOptions(res *compiler.Result) map[string]any {
	m := make(map[string]any)
	set := func(name, v string) {
		if v != "" {
			m[name] = v
		}
	}
	set("log-level", res.LogLevel)
	set("log-file", res.LogFile)
	set("write-pid-path", res.WritePIDPath)
	set("window-shader-fg", res.WindowShaderFG)
	if res.VSync {
		m["vsync"] = true
	}
	if len(m) == 0 {
		return nil
	}
	return m
}
