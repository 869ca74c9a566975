package compiler

import (
	"fmt"

	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

// Fatal error codes (E001-E099). A fatal error aborts the whole load.
const (
	ErrCodeCUE               = "E001" // the CUE value itself is in error
	ErrCodeNotStruct         = "E002" // top level is not a struct
	ErrCodeRulesNotList      = "E010" // "rules" is not a list
	ErrCodeAnimationsNotList = "E011" // top-level "animations" is not a list
	ErrCodeRemovedOption     = "E020" // option no longer supported (shadow-exclude-reg)
	ErrCodeVsyncString       = "E021" // vsync given as a string
)

// Per-item error codes (E100-E199). These are logged and the item skipped.
const (
	ErrCodeInvalidRule      = "E101" // rule is not a struct or its match fails to parse
	ErrCodeInvalidAnimation = "E102" // animation definition rejected
	ErrCodeInvalidUnredir   = "E103" // unredir value not recognized
	ErrCodeInvalidEntry     = "E104" // legacy list entry dropped
)

// CompileError is an error tied to a configuration field and source position.
type CompileError struct {
	Field   string
	Code    string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("[%s] %s:%d:%d: %s: %s",
			e.Code, e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Line returns the source line, or 0 when the position is unknown.
func (e *CompileError) Line() int {
	if e.Pos.IsValid() {
		return e.Pos.Line()
	}
	return 0
}

func newError(field, code string, pos token.Pos, format string, args ...any) *CompileError {
	return &CompileError{
		Field:   field,
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Pos:     pos,
	}
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	first := errs[0]
	positions := errors.Positions(first)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Code:    ErrCodeCUE,
			Message: first.Error(),
			Pos:     positions[0],
		}
	}

	return &CompileError{Field: "cue", Code: ErrCodeCUE, Message: first.Error()}
}
