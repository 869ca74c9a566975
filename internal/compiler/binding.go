package compiler

import (
	"github.com/roach88/winrule/internal/ir"
)

// Bind installs s into every free cell of table named by requested, in
// ascending trigger order. Occupied cells are left alone and reported as
// duplicates. When at least one cell was filled the script is retained in
// the registry and Bind returns true; otherwise the script is released.
func (a *AnimationCompiler) Bind(table *ir.AnimationTable, requested, suppressions ir.TriggerSet, s *ir.Script, line int) bool {
	s.Suppressions = suppressions
	if !a.install(table, requested, s, line) {
		s.Release()
		return false
	}
	a.registry.Retain(s)
	return true
}

// install fills the free cells without touching the registry.
func (a *AnimationCompiler) install(table *ir.AnimationTable, requested ir.TriggerSet, s *ir.Script, line int) bool {
	bound := false
	for t := range requested.All() {
		if !t.IsStorage() {
			continue
		}
		if table[t] != nil {
			ev := a.log.Warn()
			if s.IsGenerated {
				ev = a.log.Debug()
			}
			ev.Str("event", "dup_trigger_binding").
				Str("trigger", t.String()).
				Int("line", line).
				Msg("duplicate animation defined for trigger, it will be ignored")
			continue
		}
		table[t] = s
		bound = true
	}
	return bound
}
