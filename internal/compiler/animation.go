package compiler

import (
	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/rs/zerolog"

	"github.com/roach88/winrule/internal/ir"
	"github.com/roach88/winrule/internal/logging"
	"github.com/roach88/winrule/internal/script"
)

// ScriptCompiler compiles a generic animation definition.
type ScriptCompiler interface {
	Compile(src script.Source) (*ir.Script, error)
}

// PresetExpander compiles a definition that names a preset.
type PresetExpander interface {
	Expand(src script.Source) (*ir.Script, error)
}

// AnimationCompiler turns animation definitions into bound scripts.
type AnimationCompiler struct {
	scripts  ScriptCompiler
	presets  PresetExpander
	registry *ir.ScriptRegistry
	ctx      *cue.Context
	log      zerolog.Logger
}

// NewAnimationCompiler returns a compiler that retains every bound script
// in registry.
func NewAnimationCompiler(scripts ScriptCompiler, presets PresetExpander, registry *ir.ScriptRegistry) *AnimationCompiler {
	return &AnimationCompiler{
		scripts:  scripts,
		presets:  presets,
		registry: registry,
		ctx:      cuecontext.New(),
		log:      logging.GetLogger("compiler.animation"),
	}
}

// Registry returns the registry bound scripts are retained in.
func (a *AnimationCompiler) Registry() *ir.ScriptRegistry { return a.registry }

// CompileAnimations compiles every definition of a list into table. A
// definition that fails is logged and skipped; only a value that is not a
// list is an error.
func (a *AnimationCompiler) CompileAnimations(table *ir.AnimationTable, v cue.Value) error {
	if v.Kind() != cue.ListKind {
		return newError("animations", ErrCodeAnimationsNotList, v.Pos(),
			"must be a list, got %s", v.Kind())
	}
	iter, err := v.List()
	if err != nil {
		return formatCUEError(err)
	}
	for iter.Next() {
		if err := a.CompileAnimation(table, iter.Value()); err != nil {
			a.log.Error().
				Str("event", "animation_rejected").
				Int("line", lineOf(err, iter.Value())).
				Msg(err.Error())
		}
	}
	return nil
}

// CompileAnimation compiles one definition and binds it into table. A
// rejected definition has no effect on table or the registry.
func (a *AnimationCompiler) CompileAnimation(table *ir.AnimationTable, v cue.Value) error {
	if v.Kind() != cue.StructKind {
		return newError("animations", ErrCodeInvalidAnimation, v.Pos(),
			"animation definition must be a struct")
	}
	line := v.Pos().Line()

	triggers, err := a.parseTriggers(v)
	if err != nil {
		return err
	}
	suppressions, err := a.parseSuppressions(v)
	if err != nil {
		return err
	}

	src, err := script.SourceFromValue(v, "triggers", "suppressions")
	if err != nil {
		return newError("animations", ErrCodeInvalidAnimation, v.Pos(), "%v", err)
	}
	var s *ir.Script
	if _, ok := src.Lookup("preset"); ok {
		s, err = a.presets.Expand(src)
	} else {
		s, err = a.scripts.Compile(src)
	}
	if err != nil {
		return newError("animations", ErrCodeInvalidAnimation, v.Pos(),
			"failed to parse animation script: %v", err)
	}

	a.Bind(table, triggers, suppressions, s, line)
	return nil
}

func (a *AnimationCompiler) parseTriggers(v cue.Value) (ir.TriggerSet, error) {
	tv, ok := lookup(v, "triggers")
	if !ok {
		return 0, newError("triggers", ErrCodeInvalidAnimation, v.Pos(),
			"missing triggers in animation definition")
	}
	elems, err := stringOrList(tv)
	if err != nil {
		return 0, newError("triggers", ErrCodeInvalidAnimation, tv.Pos(), "%v", err)
	}
	switch {
	case len(elems) == 0:
		return 0, newError("triggers", ErrCodeInvalidAnimation, tv.Pos(), "trigger list is empty")
	case len(elems) > ir.MaxTriggerNames:
		return 0, newError("triggers", ErrCodeInvalidAnimation, tv.Pos(),
			"too many triggers (%d, at most %d)", len(elems), ir.MaxTriggerNames)
	}

	line := tv.Pos().Line()
	var set ir.TriggerSet
	for _, e := range elems {
		name, err := e.String()
		t := ir.TriggerInvalid
		if err == nil {
			t = ir.ParseTrigger(name)
		}
		if set.Contains(t) {
			a.log.Warn().
				Str("event", "dup_trigger_literal").
				Str("trigger", name).
				Int("line", line).
				Msg("duplicate trigger in animation definition")
		}
		set = set.With(t)
	}

	if set.Contains(ir.TriggerInvalid) {
		a.log.Error().Int("line", line).Msg("invalid trigger in animation definition, ignoring it")
		set = set.Without(ir.TriggerInvalid)
	}
	return a.expand(set, line), nil
}

func (a *AnimationCompiler) parseSuppressions(v cue.Value) (ir.TriggerSet, error) {
	sv, ok := lookup(v, "suppressions")
	if !ok {
		return 0, nil
	}
	elems, err := stringOrList(sv)
	if err != nil {
		return 0, newError("suppressions", ErrCodeInvalidAnimation, sv.Pos(), "%v", err)
	}

	var set ir.TriggerSet
	for _, e := range elems {
		name, err := e.String()
		if err != nil {
			return 0, newError("suppressions", ErrCodeInvalidAnimation, sv.Pos(),
				"suppressions must only contain strings")
		}
		t := ir.ParseTrigger(name)
		if t == ir.TriggerInvalid {
			return 0, newError("suppressions", ErrCodeInvalidAnimation, sv.Pos(),
				"invalid suppression %q", name)
		}
		set = set.With(t)
	}
	return a.expand(set, sv.Pos().Line()).Storage(), nil
}

func (a *AnimationCompiler) expand(set ir.TriggerSet, line int) ir.TriggerSet {
	expanded, redundant := set.ExpandAliases()
	if redundant {
		a.log.Warn().
			Int("line", line).
			Msg(`trigger "geometry" is an alias of "size" and "position", but one or both of them are also set`)
	}
	return expanded
}

// lineOf prefers the position carried by a CompileError.
func lineOf(err error, v cue.Value) int {
	if ce, ok := err.(*CompileError); ok && ce.Line() > 0 {
		return ce.Line()
	}
	return v.Pos().Line()
}
