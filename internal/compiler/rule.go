package compiler

import (
	"cuelang.org/go/cue"
	"github.com/rs/zerolog"

	"github.com/roach88/winrule/internal/condition"
	"github.com/roach88/winrule/internal/ir"
	"github.com/roach88/winrule/internal/logging"
)

// RuleCompiler compiles the unified "rules" list.
type RuleCompiler struct {
	animations *AnimationCompiler
	log        zerolog.Logger
}

// NewRuleCompiler returns a rule compiler that compiles nested animations
// with animations.
func NewRuleCompiler(animations *AnimationCompiler) *RuleCompiler {
	return &RuleCompiler{
		animations: animations,
		log:        logging.GetLogger("compiler.rule"),
	}
}

// CompileRules compiles every rule of v into list, in order. A rule that
// fails is logged and skipped. deprecated reports whether any match used
// deprecated syntax. Only a value that is not a list is an error.
func (r *RuleCompiler) CompileRules(list *condition.List, v cue.Value) (deprecated bool, err error) {
	if v.Kind() != cue.ListKind {
		return false, newError("rules", ErrCodeRulesNotList, v.Pos(),
			"must be a list, got %s", v.Kind())
	}
	iter, err := v.List()
	if err != nil {
		return false, formatCUEError(err)
	}
	for iter.Next() {
		_, dep, err := r.CompileRule(list, iter.Value())
		if err != nil {
			r.log.Error().
				Str("event", "rule_rejected").
				Int("line", lineOf(err, iter.Value())).
				Msg(err.Error())
			continue
		}
		deprecated = deprecated || dep
	}
	return deprecated, nil
}

// CompileRule compiles one rule and appends its condition to list. The
// condition carries the rule's *ir.WindowOptions as its data. A rule
// without "match" applies to every window.
func (r *RuleCompiler) CompileRule(list *condition.List, v cue.Value) (*condition.Condition, bool, error) {
	if v.Kind() != cue.StructKind {
		return nil, false, newError("rules", ErrCodeInvalidRule, v.Pos(),
			"invalid rule, it must be a struct")
	}
	line := v.Pos().Line()
	log := r.log.With().Int("line", line).Logger()
	f := fields{v: v, log: log}

	var (
		c          *condition.Condition
		deprecated bool
	)
	if mv, ok := lookup(v, "match"); ok {
		text, err := mv.String()
		if err != nil {
			return nil, false, newError("match", ErrCodeInvalidRule, mv.Pos(), "match must be a string")
		}
		if c, deprecated, err = condition.Parse(list, text); err != nil {
			return nil, false, newError("match", ErrCodeInvalidRule, mv.Pos(),
				"failed to parse rule: %v", err)
		}
	} else {
		c = condition.NewTrue(list)
	}

	opts := &ir.WindowOptions{}
	c.SetData(opts)

	for _, b := range ir.BoolOptions {
		if val, ok := f.boolean(b.Name); ok {
			*b.Field(opts) = ir.TriFromBool(val)
		}
	}
	if x, ok := f.float("opacity"); ok {
		x = ir.Normalize(x)
		opts.Opacity = &x
	}
	if x, ok := f.float("dim"); ok {
		x = ir.Normalize(x)
		opts.Dim = &x
	}
	if n, ok := f.integer("corner-radius"); ok {
		opts.CornerRadius = &n
	}
	if uv, ok := lookup(v, "unredir"); ok {
		mode, err := ParseUnredir(uv)
		if err != nil {
			log.Error().Str("event", "invalid_unredir").Msg(err.Error())
		}
		opts.Unredir = mode
	}
	if av, ok := lookup(v, "animations"); ok {
		if err := r.animations.CompileAnimations(&opts.Animations, av); err != nil {
			log.Error().Msg(err.Error())
		}
	}
	if s, ok := f.str("shader"); ok {
		opts.Shader = s
	}

	return c, deprecated, nil
}

// RuleOptions returns the payload attached by CompileRule.
func RuleOptions(c *condition.Condition) *ir.WindowOptions {
	opts, _ := c.Data().(*ir.WindowOptions)
	return opts
}
