package compiler

import (
	"cuelang.org/go/cue"

	"github.com/roach88/winrule/internal/ir"
)

var unredirSynonyms = map[string]ir.UnredirMode{
	"yes":                          ir.UnredirWhenPossibleElseTerminate,
	"true":                         ir.UnredirWhenPossibleElseTerminate,
	"default":                      ir.UnredirWhenPossibleElseTerminate,
	"when-possible-else-terminate": ir.UnredirWhenPossibleElseTerminate,
	"preferred":                    ir.UnredirWhenPossible,
	"when-possible":                ir.UnredirWhenPossible,
	"no":                           ir.UnredirTerminate,
	"false":                        ir.UnredirTerminate,
	"terminate":                    ir.UnredirTerminate,
	"passive":                      ir.UnredirPassive,
	"forced":                       ir.UnredirForced,
}

// ParseUnredir reads an unredir value: a boolean or one of the string
// synonyms, matched case-sensitively. Anything else yields UnredirInvalid
// and an error naming the value.
func ParseUnredir(v cue.Value) (ir.UnredirMode, error) {
	switch v.Kind() {
	case cue.BoolKind:
		b, _ := v.Bool()
		if b {
			return ir.UnredirWhenPossibleElseTerminate, nil
		}
		return ir.UnredirTerminate, nil
	case cue.StringKind:
		s, _ := v.String()
		if mode, ok := unredirSynonyms[s]; ok {
			return mode, nil
		}
		return ir.UnredirInvalid, newError("unredir", ErrCodeInvalidUnredir, v.Pos(),
			`invalid value %q, it must be one of "when-possible-else-terminate", "when-possible", "terminate", "passive" or "forced"`, s)
	}
	return ir.UnredirInvalid, newError("unredir", ErrCodeInvalidUnredir, v.Pos(),
		"must be a boolean or a string, got %s", v.Kind())
}
